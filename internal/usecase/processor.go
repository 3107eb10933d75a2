package usecase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-export/internal/domain"
	"resume-export/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ResumesRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Resume, error)
	Save(ctx context.Context, r *model.Resume) error
}

type ExportsRepo interface {
	Save(ctx context.Context, j *domain.ExportJob) error
	Get(ctx context.Context, id uuid.UUID) (*domain.ExportJob, error)
}

// ArtifactStore keeps exported files addressed by key.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// ResultCache memoizes export blobs for identical resume content.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

const defaultRenderAttempts = 3

type Processor struct {
	exporter *Exporter
	resumes  ResumesRepo
	repo     ExportsRepo
	store    ArtifactStore
	cache    ResultCache
	logger   *zap.Logger
	attempts int
	backoff  func(attempt int) time.Duration
}

type ProcessorOption func(*Processor)

func WithCache(c ResultCache) ProcessorOption {
	return func(p *Processor) { p.cache = c }
}

// WithRetry sets how many times a failed export is attempted and the wait between tries.
func WithRetry(attempts int, backoff func(attempt int) time.Duration) ProcessorOption {
	return func(p *Processor) {
		if attempts > 0 {
			p.attempts = attempts
		}
		if backoff != nil {
			p.backoff = backoff
		}
	}
}

func NewProcessor(e *Exporter, resumes ResumesRepo, repo ExportsRepo, store ArtifactStore, logger *zap.Logger, opts ...ProcessorOption) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Processor{
		exporter: e,
		resumes:  resumes,
		repo:     repo,
		store:    store,
		logger:   logger,
		attempts: defaultRenderAttempts,
		backoff:  exponentialBackoff,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// NewJob creates a pending export job for a stored resume.
func NewJob(resumeID, userID uuid.UUID, format, previewElementID string) *domain.ExportJob {
	now := time.Now()
	return &domain.ExportJob{
		ID:               uuid.New(),
		ResumeID:         resumeID,
		UserID:           userID,
		Format:           format,
		PreviewElementID: previewElementID,
		Status:           domain.StatusPending,
		Metadata:         map[string]interface{}{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Process runs one export job to completion and persists its final state.
// The returned error mirrors job.Error for callers that log it.
func (p *Processor) Process(ctx context.Context, job *domain.ExportJob) error {
	log := p.logger.With(zap.String("job_id", job.ID.String()), zap.String("format", job.Format))
	if job.Metadata == nil {
		job.Metadata = map[string]interface{}{}
	}

	job.Status = domain.StatusRunning
	p.save(ctx, job, log)

	if !IsFormatSupported(job.Format) {
		return p.finishFailed(ctx, job, log, &ExportError{Kind: KindUnsupportedFormat, Message: fmt.Sprintf("unsupported export format %q", job.Format)})
	}

	resume, err := p.resumes.Get(ctx, job.ResumeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return p.finishFailed(ctx, job, log, validationError("resume "+job.ResumeID.String()+" not found"))
		}
		return p.finishFailed(ctx, job, log, exportError("load resume", err))
	}
	format := Format(job.Format)
	job.Metadata["estimated_ms"] = EstimateExportTime(resume, format).Milliseconds()

	cacheKey, keyErr := CacheKey(resume, format, job.PreviewElementID)
	if keyErr != nil {
		log.Warn("unable to compute cache key", zap.Error(keyErr))
	}

	var blob []byte
	if p.cache != nil && keyErr == nil {
		if cached, ok, err := p.cache.Get(ctx, cacheKey); err != nil {
			log.Warn("export cache lookup failed", zap.Error(err))
		} else if ok {
			blob = cached
			job.Metadata["cache_hit"] = true
		}
	}

	if blob == nil {
		res, attempts, err := p.exportWithRetry(ctx, resume, job, log)
		job.Metadata["attempts"] = attempts
		if err != nil {
			return p.finishFailed(ctx, job, log, err)
		}
		blob = res.Blob
		if format == FormatPDF && res.Pages > 0 {
			job.Metadata["pages"] = res.Pages
		}
		if p.cache != nil && keyErr == nil {
			if err := p.cache.Set(ctx, cacheKey, blob); err != nil {
				log.Warn("export cache store failed", zap.Error(err))
			}
		}
	}

	job.Filename = p.exporter.GenerateFilename(resume, format)
	job.ArtifactKey = ArtifactKey(job)
	if err := p.store.Put(ctx, job.ArtifactKey, blob, MimeType(format)); err != nil {
		return p.finishFailed(ctx, job, log, exportError("store artifact", err))
	}

	job.Status = domain.StatusCompleted
	job.Error = ""
	job.Metadata["size_bytes"] = len(blob)
	job.UpdatedAt = time.Now()
	if p.repo != nil {
		if err := p.repo.Save(ctx, job); err != nil {
			return err
		}
	}
	log.Info("export job completed", zap.String("artifact", job.ArtifactKey), zap.Int("bytes", len(blob)))
	return nil
}

// exportWithRetry retries transient export failures with exponential backoff.
// Validation failures are returned immediately.
func (p *Processor) exportWithRetry(ctx context.Context, resume *model.Resume, job *domain.ExportJob, log *zap.Logger) (Result, int, error) {
	opts := ExportOptions{PreviewElementID: job.PreviewElementID}
	var lastErr error
	for i := 0; i < p.attempts; i++ {
		res := p.exporter.Export(ctx, resume, job.Format, opts)
		if res.Success {
			if err := checkSignature(Format(job.Format), res.Blob); err != nil {
				lastErr = exportError("invalid output", err)
			} else {
				return res, i + 1, nil
			}
		} else {
			lastErr = res.Err()
			if res.Kind != KindExportFailed {
				return res, i + 1, lastErr
			}
		}
		log.Warn("export attempt failed", zap.Int("attempt", i+1), zap.Error(lastErr))
		if i < p.attempts-1 {
			select {
			case <-time.After(p.backoff(i)):
			case <-ctx.Done():
				return Result{}, i + 1, exportError("export cancelled", ctx.Err())
			}
		}
	}
	return Result{}, p.attempts, lastErr
}

// checkSignature verifies the leading magic bytes of an export.
func checkSignature(f Format, blob []byte) error {
	var magic []byte
	switch f {
	case FormatPDF:
		magic = []byte("%PDF")
	case FormatDOCX:
		magic = []byte("PK")
	case FormatJSON:
		magic = []byte("{")
	}
	if len(blob) == 0 || !bytes.HasPrefix(blob, magic) {
		return fmt.Errorf("unexpected %s output (len=%d)", f, len(blob))
	}
	return nil
}

func (p *Processor) finishFailed(ctx context.Context, job *domain.ExportJob, log *zap.Logger, err error) error {
	job.Status = domain.StatusFailed
	job.Error = err.Error()
	job.Metadata["error_kind"] = string(KindOf(err))
	job.UpdatedAt = time.Now()
	log.Error("export job failed", zap.Error(err))
	p.save(ctx, job, log)
	return err
}

// save persists intermediate job state; failures are logged and not fatal.
func (p *Processor) save(ctx context.Context, job *domain.ExportJob, log *zap.Logger) {
	if p.repo == nil {
		return
	}
	job.UpdatedAt = time.Now()
	if err := p.repo.Save(ctx, job); err != nil {
		log.Warn("failed to persist export job", zap.Error(err))
	}
}

// ArtifactKey is the storage key of a job's output: <user>/<job>/<filename>.
func ArtifactKey(job *domain.ExportJob) string {
	return fmt.Sprintf("%s/%s/%s", job.UserID, job.ID, job.Filename)
}

// CacheKey identifies an export by its format, preview element and resume content.
func CacheKey(r *model.Resume, f Format, previewElementID string) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(string(f) + "\x00" + previewElementID + "\x00"))
	h.Write(raw)
	return "resume-export:" + string(f) + ":" + hex.EncodeToString(h.Sum(nil)), nil
}
