package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/kiranshivaraju/mediaguard/internal/ai"
	mw "github.com/kiranshivaraju/mediaguard/internal/api/middleware"
	"github.com/kiranshivaraju/mediaguard/internal/api/response"
	"github.com/kiranshivaraju/mediaguard/internal/media"
	"github.com/kiranshivaraju/mediaguard/pkg/models"
)

// FileField is the multipart form field that carries the upload.
const FileField = "file"

// multipartOverhead is the allowance for boundaries and headers on top of the
// file size limit.
const multipartOverhead = 1 << 20

// Analyzer defines the interface the upload handler depends on.
type Analyzer interface {
	Process(ctx context.Context, sub ai.Submission) (*models.FinalReport, error)
}

// NewUploadHandler returns an http.HandlerFunc for POST /upload. The file part
// is streamed straight to the analyzer without buffering the whole form.
func NewUploadHandler(svc Analyzer, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		}
		jobID, _ := mw.GetJobID(r)

		part, err := filePart(r)
		if err != nil {
			writeError(w, r, ai.Classify(err))
			return
		}
		defer part.Close()

		report, err := svc.Process(r.Context(), ai.Submission{
			JobID:    jobID,
			FileName: part.FileName(),
			Body:     part,
		})
		if err != nil {
			writeError(w, r, ai.Classify(err))
			return
		}

		response.Attachment(w, "resultado_"+media.Stem(report.NombreArchivo)+".json", report)
	}
}

// filePart advances the multipart stream to the file field.
func filePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, ai.NewError(ai.KindNoFileProvided, "", fmt.Errorf("%w: %v", ai.ErrNoFile, err))
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, ai.NewError(ai.KindNoFileProvided, "", ai.ErrNoFile)
		}
		if err != nil {
			return nil, fmt.Errorf("reading multipart form: %w", err)
		}
		if part.FormName() == FileField {
			return part, nil
		}
		_ = part.Close()
	}
}

func writeError(w http.ResponseWriter, r *http.Request, e *ai.Error) {
	status := e.Kind.StatusCode()
	mw.SetErrorKind(r, string(e.Kind))
	if status >= http.StatusInternalServerError {
		slog.Error("upload failed", "kind", e.Kind, "error", e.Err, "job_id", w.Header().Get(mw.JobIDHeader))
	}
	response.Error(w, status, string(e.Kind), e.Message)
}
