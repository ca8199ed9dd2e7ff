package ai

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/mediaguard/pkg/models"
)

// job tracks one analysis from remote submission to a terminal state.
// It is owned by a single request and never shared.
type job struct {
	id        uuid.UUID
	localPath string
	kind      models.MediaKind
	remote    models.RemoteFile
	state     models.JobState
}

// transition moves the job to next. Terminal states accept nothing, and only
// video jobs may enter processing.
func (j *job) transition(next models.JobState) error {
	if !next.Valid() || j.state.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.state, next)
	}
	switch next {
	case models.JobStateSubmitted:
		if j.state != "" {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.state, next)
		}
	case models.JobStateProcessing:
		if j.kind != models.MediaKindVideo {
			return fmt.Errorf("%w: %s job cannot enter %s", ErrInvalidTransition, j.kind, next)
		}
		if j.state != models.JobStateSubmitted && j.state != models.JobStateProcessing {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.state, next)
		}
	case models.JobStateReady, models.JobStateFailed:
		if j.state == "" {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.state, next)
		}
	}
	j.state = next
	return nil
}
