package mock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kiranshivaraju/mediaguard/internal/ai/mock"
	"github.com/kiranshivaraju/mediaguard/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClient_Defaults(t *testing.T) {
	m := &mock.MockClient{Name_: "m"}
	ctx := context.Background()

	f, err := m.Upload(ctx, "/tmp/a.png", "Análisis de Producto", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.MIMEType)
	assert.Equal(t, "Análisis de Producto", f.DisplayName)

	state, err := m.Status(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, models.JobStateReady, state)

	out, err := m.Generate(ctx, models.GenerateRequest{File: f, Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "{}", out)

	require.NoError(t, m.Delete(ctx, f))

	assert.Equal(t, 1, m.Calls("Upload"))
	assert.Equal(t, 1, m.Calls("Status"))
	assert.Equal(t, 1, m.Calls("Generate"))
	assert.Equal(t, 1, m.Calls("Delete"))
	assert.Equal(t, 4, m.TotalCalls())
	require.Len(t, m.GenerateRequests(), 1)
	assert.Equal(t, "p", m.GenerateRequests()[0].Prompt)
}

func TestScriptedClient_WalksStatesThenRepeatsLast(t *testing.T) {
	m := mock.NewScriptedClient("{}", models.JobStateProcessing, models.JobStateReady)
	ctx := context.Background()

	var got []models.JobState
	for range 4 {
		s, err := m.Status(ctx, models.RemoteFile{})
		require.NoError(t, err)
		got = append(got, s)
	}
	assert.Equal(t, []models.JobState{
		models.JobStateProcessing, models.JobStateReady, models.JobStateReady, models.JobStateReady,
	}, got)
}

func TestFailingClient(t *testing.T) {
	boom := errors.New("boom")
	m := mock.NewFailingClient(boom)

	_, err := m.Generate(context.Background(), models.GenerateRequest{})
	assert.ErrorIs(t, err, boom)
}

func TestTimeoutClient_RespectsContext(t *testing.T) {
	m := mock.NewTimeoutClient()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := m.Generate(ctx, models.GenerateRequest{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
