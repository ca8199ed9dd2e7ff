// Package gemini implements models.AnalysisClient on the Gemini API file and
// generation endpoints.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/mediaguard/internal/config"
	"github.com/kiranshivaraju/mediaguard/pkg/models"
	"google.golang.org/genai"
)

// Provider implements models.AnalysisClient using Gemini.
type Provider struct {
	client *genai.Client
	model  string
}

// NewProvider creates a Gemini client authenticated with cfg.APIKey.
func NewProvider(ctx context.Context, cfg config.GeminiConfig) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Provider{client: client, model: cfg.Model}, nil
}

func (p *Provider) Name() string { return "gemini" }

func (p *Provider) Upload(ctx context.Context, localPath, displayName, mimeType string) (models.RemoteFile, error) {
	f, err := p.client.Files.UploadFromPath(ctx, localPath, &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: displayName,
	})
	if err != nil {
		return models.RemoteFile{}, classifyError(err)
	}
	return models.RemoteFile{
		Name:        f.Name,
		URI:         f.URI,
		MIMEType:    f.MIMEType,
		DisplayName: f.DisplayName,
	}, nil
}

func (p *Provider) Status(ctx context.Context, file models.RemoteFile) (models.JobState, error) {
	f, err := p.client.Files.Get(ctx, file.Name, nil)
	if err != nil {
		return "", classifyError(err)
	}
	return jobState(f.State), nil
}

func (p *Provider) Generate(ctx context.Context, req models.GenerateRequest) (string, error) {
	mimeType := req.File.MIMEType
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: req.Prompt},
			{FileData: &genai.FileData{FileURI: req.File.URI, MIMEType: mimeType}},
		},
	}}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: req.ResponseMIMEType,
	})
	if err != nil {
		return "", classifyError(err)
	}
	return responseText(resp)
}

func (p *Provider) Delete(ctx context.Context, file models.RemoteFile) error {
	if _, err := p.client.Files.Delete(ctx, file.Name, nil); err != nil {
		return classifyError(err)
	}
	return nil
}

// jobState maps a Gemini file state. Anything other than processing or failed
// is treated as ready.
func jobState(s genai.FileState) models.JobState {
	switch string(s) {
	case "PROCESSING":
		return models.JobStateProcessing
	case "FAILED":
		return models.JobStateFailed
	default:
		return models.JobStateReady
	}
}

var blockedFinishReasons = map[string]bool{
	"SAFETY":             true,
	"PROHIBITED_CONTENT": true,
	"BLOCKLIST":          true,
	"SPII":               true,
	"IMAGE_SAFETY":       true,
}

// responseText returns the concatenated text of the first candidate, or
// models.ErrContentBlocked when the prompt or the candidate was blocked.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini: empty response")
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", models.ErrContentBlocked, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini: response has no candidates")
	}

	cand := resp.Candidates[0]
	if blockedFinishReasons[string(cand.FinishReason)] {
		return "", fmt.Errorf("%w: finish reason %s", models.ErrContentBlocked, cand.FinishReason)
	}
	if cand.Content == nil {
		return "", fmt.Errorf("gemini: candidate has no content (finish reason %s)", cand.FinishReason)
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

// classifyError wraps authentication and permission failures with
// models.ErrRemoteAuth using the structured API error fields.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && isAuthError(apiErr) {
		return fmt.Errorf("%w: %v", models.ErrRemoteAuth, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && isAuthError(*apiErrPtr) {
		return fmt.Errorf("%w: %v", models.ErrRemoteAuth, err)
	}
	return fmt.Errorf("gemini: %w", err)
}

func isAuthError(e genai.APIError) bool {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return true
	}
	if e.Status == "UNAUTHENTICATED" || e.Status == "PERMISSION_DENIED" {
		return true
	}
	for _, d := range e.Details {
		if reason, _ := d["reason"].(string); reason == "API_KEY_INVALID" {
			return true
		}
	}
	return false
}

var _ models.AnalysisClient = (*Provider)(nil)
