package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/kiranshivaraju/mediaguard/internal/media"
	"github.com/kiranshivaraju/mediaguard/internal/tempstore"
	"github.com/kiranshivaraju/mediaguard/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"no file", ErrNoFile, KindNoFileProvided},
		{"unsupported extension", fmt.Errorf("x: %w", media.ErrUnsupportedFormat), KindUnsupportedFormat},
		{"provider cannot handle media", fmt.Errorf("x: %w", models.ErrUnsupportedMedia), KindUnsupportedFormat},
		{"blocked", fmt.Errorf("generating content: %w", models.ErrContentBlocked), KindContentBlocked},
		{"auth", fmt.Errorf("uploading file: %w", models.ErrRemoteAuth), KindAuthenticationError},
		{"remote failed", ErrRemoteProcessingFailed, KindRemoteProcessingFailed},
		{"malformed", fmt.Errorf("%w: eof", ErrMalformedResponse), KindMalformedRemoteResponse},
		{"poll timeout", ErrPollTimeout, KindTimeout},
		{"deadline", fmt.Errorf("gemini: %w", context.DeadlineExceeded), KindTimeout},
		{"too large", tempstore.ErrTooLarge, KindPayloadTooLarge},
		{"max bytes reader", fmt.Errorf("reading part: %w", &http.MaxBytesError{Limit: 10}), KindPayloadTooLarge},
		{"canceled", context.Canceled, KindInternalError},
		{"anything else", errors.New("boom"), KindInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Classify(tt.err)
			assert.Equal(t, tt.want, e.Kind)
			assert.ErrorIs(t, e, tt.err)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestClassify_PassesThroughClassified(t *testing.T) {
	orig := NewError(KindNoFileProvided, "custom", ErrNoFile)
	assert.Same(t, orig, Classify(fmt.Errorf("wrapped: %w", orig)))
	assert.Nil(t, Classify(nil))
}

func TestInternalErrorMessageIncludesCause(t *testing.T) {
	e := Classify(errors.New("disk full"))
	assert.Equal(t, "Error interno: disk full", e.Message)
}

func TestKindStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindNoFileProvided.StatusCode())
	assert.Equal(t, http.StatusBadRequest, KindUnsupportedFormat.StatusCode())
	assert.Equal(t, http.StatusBadRequest, KindContentBlocked.StatusCode())
	assert.Equal(t, http.StatusInternalServerError, KindRemoteProcessingFailed.StatusCode())
	assert.Equal(t, http.StatusInternalServerError, KindAuthenticationError.StatusCode())
	assert.Equal(t, http.StatusInternalServerError, KindMalformedRemoteResponse.StatusCode())
	assert.Equal(t, http.StatusInternalServerError, KindInternalError.StatusCode())
	assert.Equal(t, http.StatusGatewayTimeout, KindTimeout.StatusCode())
	assert.Equal(t, http.StatusRequestEntityTooLarge, KindPayloadTooLarge.StatusCode())
}

func TestKindOf_Unclassified(t *testing.T) {
	assert.Equal(t, KindInternalError, KindOf(errors.New("raw")))
}
