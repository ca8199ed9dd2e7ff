// Package models contains shared data models used across the MediaGuard codebase.
package models

import (
	"context"
	"errors"
)

// Errors an AnalysisClient returns when the remote service gives a structured
// reason for refusing a call. Implementations wrap them with %w.
var (
	ErrRemoteAuth       = errors.New("remote analysis authentication failed")
	ErrContentBlocked   = errors.New("remote analysis blocked by safety policy")
	ErrUnsupportedMedia = errors.New("remote analysis does not support this media")
)

// AnalysisClient is the interface every remote multimodal analysis backend implements.
// The orchestrator only talks to remote services through this interface.
type AnalysisClient interface {
	// Upload sends a local file to the remote service and returns its handle.
	Upload(ctx context.Context, localPath, displayName, mimeType string) (RemoteFile, error)
	// Status reports the processing state of a previously uploaded file.
	Status(ctx context.Context, file RemoteFile) (JobState, error)
	// Generate asks the model to analyze the file with the given prompt and returns raw text.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	// Delete removes the remote copy of the file.
	Delete(ctx context.Context, file RemoteFile) error
	// Name returns the provider identifier (e.g., "gemini", "openai").
	Name() string
}

// RemoteFile is the opaque handle the remote service returns for an uploaded file.
type RemoteFile struct {
	Name        string
	URI         string
	MIMEType    string
	DisplayName string
}

// GenerateRequest is the input to a content generation call.
type GenerateRequest struct {
	File             RemoteFile
	Prompt           string
	ResponseMIMEType string
}
