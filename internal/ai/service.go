package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/mediaguard/internal/cache"
	"github.com/kiranshivaraju/mediaguard/internal/media"
	"github.com/kiranshivaraju/mediaguard/internal/tempstore"
	"github.com/kiranshivaraju/mediaguard/pkg/models"
)

const (
	defaultPollInterval = 10 * time.Second
	defaultPollTimeout  = 5 * time.Minute
	defaultJobTTL       = 30 * time.Minute
	remoteDeleteTimeout = 15 * time.Second

	responseMIMEType = "application/json"
)

// Uploads persists incoming files for the duration of one analysis.
type Uploads interface {
	Save(filename string, body io.Reader) (*tempstore.File, error)
}

// LocalFile is an upload on local disk that is removed once analysis ends.
type LocalFile interface {
	Path() string
	Name() string
	Remove() error
}

// Sleeper suspends the caller for d, returning early with ctx's error if ctx ends first.
type Sleeper func(ctx context.Context, d time.Duration) error

// Submission is one uploaded file as received by the HTTP layer.
type Submission struct {
	JobID    uuid.UUID
	FileName string
	Body     io.Reader
}

// Service orchestrates classification, remote analysis and cleanup for uploads.
type Service struct {
	client  models.AnalysisClient
	uploads Uploads
	cache   cache.Cache
	logger  *slog.Logger
	sleep   Sleeper

	pollInterval   time.Duration
	pollTimeout    time.Duration
	requestTimeout time.Duration
	jobTTL         time.Duration
	deleteRemote   bool
}

// Option configures a Service.
type Option func(*Service)

// WithPolling sets how often a processing video is re-checked and how long in
// total the service waits before giving up.
func WithPolling(interval, timeout time.Duration) Option {
	return func(s *Service) {
		s.pollInterval = interval
		s.pollTimeout = timeout
	}
}

// WithRequestTimeout bounds every individual remote call.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) { s.requestTimeout = d }
}

// WithCache records job state transitions in c for d.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.jobTTL = ttl
	}
}

// WithRemoteCleanup controls whether remote copies are deleted after analysis.
func WithRemoteCleanup(enabled bool) Option {
	return func(s *Service) { s.deleteRemote = enabled }
}

func WithSleeper(fn Sleeper) Option {
	return func(s *Service) { s.sleep = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new Service.
func NewService(client models.AnalysisClient, uploads Uploads, opts ...Option) *Service {
	s := &Service{
		client:       client,
		uploads:      uploads,
		logger:       slog.Default(),
		sleep:        sleepContext,
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
		jobTTL:       defaultJobTTL,
		deleteRemote: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process classifies the submission, stores it locally and analyzes it.
// Unsupported files are rejected before anything is written or sent.
// Every returned error is an *Error.
func (s *Service) Process(ctx context.Context, sub Submission) (*models.FinalReport, error) {
	jobID := sub.JobID
	if jobID == uuid.Nil {
		jobID = uuid.New()
	}

	if strings.TrimSpace(sub.FileName) == "" {
		return nil, s.reject(ctx, jobID, "", NewError(KindNoFileProvided, "No se seleccionó ningún archivo", ErrNoFile))
	}

	kind, err := media.Classify(sub.FileName)
	if err != nil {
		return nil, s.reject(ctx, jobID, "", Classify(err))
	}

	upload, err := s.uploads.Save(sub.FileName, sub.Body)
	if err != nil {
		return nil, s.reject(ctx, jobID, kind, Classify(err))
	}

	result, err := s.Analyze(ctx, jobID, upload, kind)
	if err != nil {
		return nil, err
	}

	return &models.FinalReport{
		TipoAnalisis:  kind,
		NombreArchivo: upload.Name(),
		Resultado:     result,
	}, nil
}

// Analyze runs one file through the remote service. The local file is removed
// before Analyze returns, whatever the outcome. Every returned error is an *Error.
func (s *Service) Analyze(ctx context.Context, jobID uuid.UUID, file LocalFile, kind models.MediaKind) (result models.AnalysisResult, err error) {
	j := &job{id: jobID, localPath: file.Path(), kind: kind}
	log := s.logger.With("job_id", jobID, "media_kind", kind, "provider", s.client.Name())

	defer func() {
		if rerr := file.Remove(); rerr != nil {
			log.Error("removing local file", "path", j.localPath, "error", rerr)
		}
	}()
	defer func() {
		if err != nil {
			e := Classify(err)
			s.markFailed(ctx, j, e.Kind)
			log.Warn("analysis failed", "kind", e.Kind, "error", e.Err)
			err = e
		}
	}()

	mimeType, err := media.MIMEType(file.Name())
	if err != nil {
		return nil, err
	}

	log.Info("uploading file", "file", file.Name())
	remote, err := s.upload(ctx, file.Path(), displayName(kind), mimeType)
	if err != nil {
		return nil, fmt.Errorf("uploading file: %w", err)
	}
	j.remote = remote
	if s.deleteRemote {
		defer s.deleteRemoteFile(ctx, log, remote)
	}
	if err := s.advance(ctx, j, models.JobStateSubmitted); err != nil {
		return nil, err
	}

	if kind == models.MediaKindVideo {
		if err := s.waitForReady(ctx, j, log); err != nil {
			return nil, err
		}
	} else if err := s.advance(ctx, j, models.JobStateReady); err != nil {
		return nil, err
	}

	raw, err := s.generate(ctx, j)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	result, err = Normalize(raw, kind)
	if err != nil {
		return nil, err
	}

	log.Info("analysis completed", "fields", len(result))
	return result, nil
}

// waitForReady polls the remote file until it leaves processing. The number
// of waits is bounded by pollTimeout/pollInterval.
func (s *Service) waitForReady(ctx context.Context, j *job, log *slog.Logger) error {
	maxWaits := s.maxWaits()
	for waits := 0; ; {
		state, err := s.status(ctx, j.remote)
		if err != nil {
			return fmt.Errorf("checking remote status: %w", err)
		}

		switch state {
		case models.JobStateProcessing:
			if err := s.advance(ctx, j, models.JobStateProcessing); err != nil {
				return err
			}
			if waits >= maxWaits {
				return fmt.Errorf("%w: still processing after %s", ErrPollTimeout, time.Duration(waits)*s.pollInterval)
			}
			log.Debug("remote file still processing", "remote", j.remote.Name, "waits", waits)
			if err := s.sleep(ctx, s.pollInterval); err != nil {
				return err
			}
			waits++
		case models.JobStateFailed:
			return ErrRemoteProcessingFailed
		default:
			return s.advance(ctx, j, models.JobStateReady)
		}
	}
}

func (s *Service) maxWaits() int {
	if s.pollInterval <= 0 {
		return 1
	}
	n := int(s.pollTimeout / s.pollInterval)
	if n < 1 {
		n = 1
	}
	return n
}

func (s *Service) upload(ctx context.Context, path, name, mimeType string) (models.RemoteFile, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.client.Upload(callCtx, path, name, mimeType)
}

func (s *Service) status(ctx context.Context, f models.RemoteFile) (models.JobState, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.client.Status(callCtx, f)
}

func (s *Service) generate(ctx context.Context, j *job) (string, error) {
	if j.state != models.JobStateReady {
		return "", fmt.Errorf("%w: generate requested in state %s", ErrInvalidTransition, j.state)
	}
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.client.Generate(callCtx, models.GenerateRequest{
		File:             j.remote,
		Prompt:           Prompt(j.kind),
		ResponseMIMEType: responseMIMEType,
	})
}

func (s *Service) deleteRemoteFile(ctx context.Context, log *slog.Logger, f models.RemoteFile) {
	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), remoteDeleteTimeout)
	defer cancel()
	if err := s.client.Delete(delCtx, f); err != nil {
		log.Warn("deleting remote file", "remote", f.Name, "error", err)
	}
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

// advance moves j to next and records it. Re-entering the current state is a no-op.
func (s *Service) advance(ctx context.Context, j *job, next models.JobState) error {
	if j.state == next {
		return nil
	}
	if err := j.transition(next); err != nil {
		return err
	}
	s.track(ctx, j.id, j.kind, next, "")
	return nil
}

func (s *Service) markFailed(ctx context.Context, j *job, kind Kind) {
	if !j.state.Terminal() {
		j.state = models.JobStateFailed
	}
	s.track(ctx, j.id, j.kind, models.JobStateFailed, kind)
}

// reject records a failure that happened before analysis started.
func (s *Service) reject(ctx context.Context, jobID uuid.UUID, kind models.MediaKind, e *Error) *Error {
	s.logger.Info("upload rejected", "job_id", jobID, "kind", e.Kind, "error", e.Err)
	s.track(ctx, jobID, kind, models.JobStateFailed, e.Kind)
	return e
}

func (s *Service) track(ctx context.Context, jobID uuid.UUID, mediaKind models.MediaKind, state models.JobState, errKind Kind) {
	if s.cache == nil {
		return
	}
	status := models.JobStatus{
		JobID:     jobID,
		State:     state,
		MediaKind: mediaKind,
		ErrorKind: string(errKind),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.cache.SetJobStatus(context.WithoutCancel(ctx), status, s.jobTTL); err != nil {
		s.logger.Warn("recording job status", "job_id", jobID, "state", state, "error", err)
	}
}

// JobStatus returns the last recorded status of a job.
func (s *Service) JobStatus(ctx context.Context, jobID uuid.UUID) (models.JobStatus, bool, error) {
	if s.cache == nil {
		return models.JobStatus{}, false, nil
	}
	return s.cache.GetJobStatus(ctx, jobID)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
