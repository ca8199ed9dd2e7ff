package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/mediaguard/internal/api/middleware"
	"github.com/kiranshivaraju/mediaguard/internal/api/response"
	"github.com/kiranshivaraju/mediaguard/pkg/models"
)

// StatusReader defines the interface the job status handler depends on.
type StatusReader interface {
	JobStatus(ctx context.Context, jobID uuid.UUID) (models.JobStatus, bool, error)
}

// NewJobStatusHandler returns an http.HandlerFunc for GET /api/v1/jobs/{jobID}.
func NewJobStatusHandler(svc StatusReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			mw.SetErrorKind(r, "INVALID_JOB_ID")
			response.Error(w, http.StatusBadRequest, "INVALID_JOB_ID", "Identificador de trabajo no válido")
			return
		}

		status, found, err := svc.JobStatus(r.Context(), jobID)
		if err != nil {
			mw.SetErrorKind(r, "INTERNAL_ERROR")
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Error interno: "+err.Error())
			return
		}
		if !found {
			mw.SetErrorKind(r, "JOB_NOT_FOUND")
			response.Error(w, http.StatusNotFound, "JOB_NOT_FOUND", "Trabajo no encontrado")
			return
		}

		response.JSON(w, http.StatusOK, status)
	}
}
