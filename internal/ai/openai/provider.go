// Package openai implements models.AnalysisClient on an OpenAI-compatible chat
// completions endpoint. Only images are supported; files are sent inline.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/kiranshivaraju/mediaguard/internal/config"
	"github.com/kiranshivaraju/mediaguard/pkg/models"
	"github.com/sashabaranov/go-openai"
)

const maxTokens = 2048

// Provider implements models.AnalysisClient using OpenAI.
type Provider struct {
	client *openai.Client
	model  string
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Provider{client: openai.NewClientWithConfig(clientCfg), model: cfg.Model}
}

func (p *Provider) Name() string { return "openai" }

// Upload reads an image into a data URL. There is no remote file store, so the
// returned handle carries the content itself.
func (p *Provider) Upload(_ context.Context, localPath, displayName, mimeType string) (models.RemoteFile, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return models.RemoteFile{}, fmt.Errorf("%w: openai provider cannot analyze %s", models.ErrUnsupportedMedia, mimeType)
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return models.RemoteFile{}, fmt.Errorf("reading %s: %w", localPath, err)
	}
	return models.RemoteFile{
		Name:        displayName,
		URI:         "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
		MIMEType:    mimeType,
		DisplayName: displayName,
	}, nil
}

// Status always reports ready; inline images need no processing.
func (p *Provider) Status(_ context.Context, _ models.RemoteFile) (models.JobState, error) {
	return models.JobStateReady, nil
}

func (p *Provider) Generate(ctx context.Context, req models.GenerateRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
					URL:    req.File.URI,
					Detail: openai.ImageURLDetailAuto,
				}},
			},
		}},
	}
	if req.ResponseMIMEType == "application/json" {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: response has no choices")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", fmt.Errorf("%w: finish reason %s", models.ErrContentBlocked, choice.FinishReason)
	}
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("%w: %s", models.ErrContentBlocked, choice.Message.Refusal)
	}
	return choice.Message.Content, nil
}

// Delete is a no-op; nothing is stored remotely.
func (p *Provider) Delete(_ context.Context, _ models.RemoteFile) error { return nil }

func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %v", models.ErrRemoteAuth, err)
		case apiErr.Code == "content_policy_violation" || apiErr.Type == "content_policy_violation":
			return fmt.Errorf("%w: %v", models.ErrContentBlocked, err)
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) &&
		(reqErr.HTTPStatusCode == http.StatusUnauthorized || reqErr.HTTPStatusCode == http.StatusForbidden) {
		return fmt.Errorf("%w: %v", models.ErrRemoteAuth, err)
	}
	return fmt.Errorf("openai: %w", err)
}

var _ models.AnalysisClient = (*Provider)(nil)
