package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kiranshivaraju/mediaguard/internal/media"
	"github.com/kiranshivaraju/mediaguard/internal/tempstore"
	"github.com/kiranshivaraju/mediaguard/pkg/models"
)

var (
	ErrNoFile                 = errors.New("no file provided")
	ErrPollTimeout            = errors.New("remote processing did not finish in time")
	ErrRemoteProcessingFailed = errors.New("remote processing failed")
	ErrMalformedResponse      = errors.New("remote response is not a JSON object")
	ErrInvalidTransition      = errors.New("invalid job state transition")
)

// Kind is the category every analysis failure is reported under.
type Kind string

const (
	KindNoFileProvided          Kind = "NO_FILE_PROVIDED"
	KindUnsupportedFormat       Kind = "UNSUPPORTED_FORMAT"
	KindContentBlocked          Kind = "CONTENT_BLOCKED"
	KindRemoteProcessingFailed  Kind = "REMOTE_PROCESSING_FAILED"
	KindAuthenticationError     Kind = "AUTHENTICATION_ERROR"
	KindMalformedRemoteResponse Kind = "MALFORMED_REMOTE_RESPONSE"
	KindTimeout                 Kind = "TIMEOUT"
	KindPayloadTooLarge         Kind = "PAYLOAD_TOO_LARGE"
	KindInternalError           Kind = "INTERNAL_ERROR"
)

// StatusCode is the HTTP status a failure of kind k is reported with.
func (k Kind) StatusCode() int {
	switch k {
	case KindNoFileProvided, KindUnsupportedFormat, KindContentBlocked:
		return http.StatusBadRequest
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error is a failure classified under exactly one Kind. Message is the text
// shown to the end user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError returns an Error of the given kind. An empty message is replaced
// with the default user text for the kind.
func NewError(kind Kind, message string, err error) *Error {
	if message == "" {
		message = defaultMessage(kind, err)
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of err, or KindInternalError if err was never classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternalError
}

// Classify maps any error from the upload, classification or remote steps to
// an *Error. Errors that are already classified pass through unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return NewError(KindPayloadTooLarge, "", err)
	}

	switch {
	case errors.Is(err, ErrNoFile):
		return NewError(KindNoFileProvided, "", err)
	case errors.Is(err, media.ErrUnsupportedFormat), errors.Is(err, models.ErrUnsupportedMedia):
		return NewError(KindUnsupportedFormat, "", err)
	case errors.Is(err, models.ErrContentBlocked):
		return NewError(KindContentBlocked, "", err)
	case errors.Is(err, models.ErrRemoteAuth):
		return NewError(KindAuthenticationError, "", err)
	case errors.Is(err, ErrRemoteProcessingFailed):
		return NewError(KindRemoteProcessingFailed, "", err)
	case errors.Is(err, ErrMalformedResponse):
		return NewError(KindMalformedRemoteResponse, "", err)
	case errors.Is(err, tempstore.ErrTooLarge):
		return NewError(KindPayloadTooLarge, "", err)
	case errors.Is(err, ErrPollTimeout), errors.Is(err, context.DeadlineExceeded):
		return NewError(KindTimeout, "", err)
	default:
		return NewError(KindInternalError, "", err)
	}
}

func defaultMessage(kind Kind, err error) string {
	switch kind {
	case KindNoFileProvided:
		return "No se encontró el archivo"
	case KindUnsupportedFormat:
		return "Formato de archivo no soportado"
	case KindContentBlocked:
		return "El contenido fue bloqueado por políticas de seguridad."
	case KindRemoteProcessingFailed:
		return "Error interno: El procesamiento del video falló."
	case KindAuthenticationError:
		return "Error de autenticación con el servicio de análisis: revisa tu API Key y configuración."
	case KindMalformedRemoteResponse:
		return "Error interno: la respuesta del servicio de análisis no es un JSON válido."
	case KindTimeout:
		return "Tiempo de espera agotado esperando al servicio de análisis."
	case KindPayloadTooLarge:
		return "El archivo supera el tamaño máximo permitido."
	}
	if err != nil {
		return "Error interno: " + err.Error()
	}
	return "Error interno"
}
