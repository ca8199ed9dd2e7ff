package mock

import (
	"context"
	"sync"

	"github.com/kiranshivaraju/mediaguard/pkg/models"
)

// MockClient satisfies models.AnalysisClient for testing. Func fields override
// the default behavior; call counters are always maintained.
type MockClient struct {
	Name_        string
	UploadFunc   func(ctx context.Context, localPath, displayName, mimeType string) (models.RemoteFile, error)
	StatusFunc   func(ctx context.Context, file models.RemoteFile) (models.JobState, error)
	GenerateFunc func(ctx context.Context, req models.GenerateRequest) (string, error)
	DeleteFunc   func(ctx context.Context, file models.RemoteFile) error

	mu       sync.Mutex
	calls    map[string]int
	requests []models.GenerateRequest
}

func (m *MockClient) Name() string { return m.Name_ }

func (m *MockClient) Upload(ctx context.Context, localPath, displayName, mimeType string) (models.RemoteFile, error) {
	m.record("Upload")
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, localPath, displayName, mimeType)
	}
	return models.RemoteFile{Name: "files/mock", URI: "mock://files/mock", MIMEType: mimeType, DisplayName: displayName}, nil
}

func (m *MockClient) Status(ctx context.Context, file models.RemoteFile) (models.JobState, error) {
	m.record("Status")
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, file)
	}
	return models.JobStateReady, nil
}

func (m *MockClient) Generate(ctx context.Context, req models.GenerateRequest) (string, error) {
	m.record("Generate")
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "{}", nil
}

func (m *MockClient) Delete(ctx context.Context, file models.RemoteFile) error {
	m.record("Delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, file)
	}
	return nil
}

// Calls returns how many times method was invoked.
func (m *MockClient) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of remote calls of any kind.
func (m *MockClient) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

// GenerateRequests returns the requests passed to Generate, in order.
func (m *MockClient) GenerateRequests() []models.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.GenerateRequest(nil), m.requests...)
}

func (m *MockClient) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// NewMockClient returns a MockClient whose Generate answers with response.
func NewMockClient(response string) *MockClient {
	return &MockClient{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ models.GenerateRequest) (string, error) {
			return response, nil
		},
	}
}

// NewScriptedClient returns a MockClient whose Status walks through states in
// order, repeating the last one once the script is exhausted.
func NewScriptedClient(response string, states ...models.JobState) *MockClient {
	m := NewMockClient(response)
	m.Name_ = "mock-scripted"
	var mu sync.Mutex
	i := 0
	m.StatusFunc = func(_ context.Context, _ models.RemoteFile) (models.JobState, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(states) == 0 {
			return models.JobStateReady, nil
		}
		s := states[min(i, len(states)-1)]
		i++
		return s, nil
	}
	return m
}

// NewFailingClient returns a MockClient whose Generate always returns err.
func NewFailingClient(err error) *MockClient {
	return &MockClient{
		Name_: "mock-failing",
		GenerateFunc: func(_ context.Context, _ models.GenerateRequest) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutClient returns a MockClient whose Generate blocks until ctx ends.
func NewTimeoutClient() *MockClient {
	return &MockClient{
		Name_: "mock-timeout",
		GenerateFunc: func(ctx context.Context, _ models.GenerateRequest) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
}

// Compile-time check that MockClient implements AnalysisClient.
var _ models.AnalysisClient = (*MockClient)(nil)
