package http

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"resume-export/internal/domain"
	"resume-export/internal/model"
	"resume-export/internal/render"
	"resume-export/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	exporter  *usecase.Exporter
	processor *usecase.Processor
	resumes   usecase.ResumesRepo
	jobs      usecase.ExportsRepo
	store     usecase.ArtifactStore
	logger    *zap.Logger
	validate  *validator.Validate
	runJob    func(fn func())
	inflight  sync.WaitGroup
}

type HandlerOption func(*Handler)

// WithJobRunner replaces the goroutine used to process async export jobs.
func WithJobRunner(run func(fn func())) HandlerOption {
	return func(h *Handler) { h.runJob = run }
}

func NewHandler(e *usecase.Exporter, p *usecase.Processor, resumes usecase.ResumesRepo, jobs usecase.ExportsRepo, store usecase.ArtifactStore, logger *zap.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		exporter:  e,
		processor: p,
		resumes:   resumes,
		jobs:      jobs,
		store:     store,
		logger:    logger,
		validate:  validator.New(),
		runJob:    func(fn func()) { go fn() },
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Register mounts every route on app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/formats", h.ListFormats)
	app.Post("/exports/:format", h.ExportInline)
	app.Put("/resumes/:id", h.PutResume)
	app.Get("/resumes/:id", h.GetResume)
	app.Post("/resumes/:id/exports", h.StartExport)
	app.Get("/jobs/:id", h.GetJob)
	app.Get("/jobs/:id/download", h.DownloadJob)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

type formatInfo struct {
	Format   string `json:"format"`
	MimeType string `json:"mime_type"`
}

func (h *Handler) ListFormats(c *fiber.Ctx) error {
	out := make([]formatInfo, 0, len(usecase.Formats))
	for _, f := range usecase.Formats {
		out = append(out, formatInfo{Format: string(f), MimeType: usecase.MimeType(f)})
	}
	return c.JSON(fiber.Map{"formats": out})
}

// ExportInline exports the resume in the request body and answers with the file.
func (h *Handler) ExportInline(c *fiber.Ctx) error {
	format := c.Params("format")
	if !usecase.IsFormatSupported(format) {
		return sendError(c, usecase.KindUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}
	resume, err := model.ParseResume(c.Body())
	if err != nil {
		return sendError(c, usecase.KindValidationFailed, err.Error())
	}
	opts := usecase.ExportOptions{
		PreviewElementID: c.Query("preview", render.DefaultElementID),
		PDFMode:          usecase.PDFMode(c.Query("mode", string(usecase.PDFModeRaster))),
	}
	res := h.exporter.Export(c.UserContext(), resume, format, opts)
	if !res.Success {
		return sendError(c, res.Kind, res.Error)
	}
	return SendDownload(c, res.Blob, res.Filename, res.MimeType)
}

func (h *Handler) PutResume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
	}
	resume, err := model.ParseResume(c.Body())
	if err != nil {
		return sendError(c, usecase.KindValidationFailed, err.Error())
	}
	if resume.ID != uuid.Nil && resume.ID != id {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "resume id does not match path"})
	}
	resume.ID = id
	if err := h.resumes.Save(c.UserContext(), resume); err != nil {
		h.logger.Error("failed to save resume", zap.String("resume_id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unable to save resume"})
	}
	return c.JSON(resume)
}

func (h *Handler) GetResume(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
	}
	resume, err := h.resumes.Get(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resume not found"})
	}
	if err != nil {
		h.logger.Error("failed to load resume", zap.String("resume_id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unable to load resume"})
	}
	return c.JSON(resume)
}

type startReq struct {
	Format           string `json:"format" validate:"required,oneof=pdf docx json"`
	PreviewElementID string `json:"previewElementId" validate:"omitempty,max=128"`
}

// StartExport queues an export of a stored resume and returns the job id.
func (h *Handler) StartExport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid resume id"})
	}
	var req startReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := h.validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Format" && verrs[0].Tag() == "oneof" {
			return sendError(c, usecase.KindUnsupportedFormat, fmt.Sprintf("unsupported export format %q", req.Format))
		}
		return sendError(c, usecase.KindValidationFailed, err.Error())
	}
	if req.Format == string(usecase.FormatPDF) && req.PreviewElementID == "" {
		req.PreviewElementID = render.DefaultElementID
	}

	resume, err := h.resumes.Get(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resume not found"})
	}
	if err != nil {
		h.logger.Error("failed to load resume", zap.String("resume_id", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unable to load resume"})
	}

	job := usecase.NewJob(resume.ID, resume.UserID, req.Format, req.PreviewElementID)
	estimated := usecase.EstimateExportTime(resume, usecase.Format(req.Format)).Milliseconds()
	job.Metadata["estimated_ms"] = estimated
	if err := h.jobs.Save(c.UserContext(), job); err != nil {
		h.logger.Warn("failed to save job", zap.String("job_id", job.ID.String()), zap.Error(err))
	}

	h.inflight.Add(1)
	h.runJob(func() {
		defer h.inflight.Done()
		if err := h.processor.Process(context.Background(), job); err != nil {
			h.logger.Warn("export job failed", zap.String("job_id", job.ID.String()), zap.Error(err))
		}
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"jobId":       job.ID.String(),
		"status":      string(domain.StatusPending),
		"estimatedMs": estimated,
	})
}

// Drain blocks until every export job started by StartExport has returned
// or ctx is done.
func (h *Handler) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handler) GetJob(c *fiber.Ctx) error {
	job, ok, err := h.loadJob(c)
	if !ok {
		return err
	}
	return c.JSON(job)
}

// DownloadJob streams the artifact of a completed job.
func (h *Handler) DownloadJob(c *fiber.Ctx) error {
	job, ok, err := h.loadJob(c)
	if !ok {
		return err
	}
	switch job.Status {
	case domain.StatusCompleted:
	case domain.StatusFailed:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": job.Error, "status": job.Status})
	default:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "export not finished", "status": job.Status})
	}
	blob, err := h.store.Get(c.UserContext(), job.ArtifactKey)
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "artifact no longer available"})
	}
	if err != nil {
		h.logger.Error("failed to read artifact", zap.String("key", job.ArtifactKey), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unable to read artifact"})
	}
	return SendDownload(c, blob, job.Filename, usecase.MimeType(usecase.Format(job.Format)))
}

// loadJob resolves :id to a job. When ok is false the response is already written.
func (h *Handler) loadJob(c *fiber.Ctx) (*domain.ExportJob, bool, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid job id"})
	}
	job, err := h.jobs.Get(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	if err != nil {
		h.logger.Error("failed to load job", zap.String("job_id", id.String()), zap.Error(err))
		return nil, false, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unable to load job"})
	}
	return job, true, nil
}

// SendDownload writes blob as an attachment named filename.
func SendDownload(c *fiber.Ctx, blob []byte, filename, mimeType string) error {
	c.Set(fiber.HeaderContentType, mimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).Send(blob)
}

func statusFor(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.KindValidationFailed, usecase.KindUnsupportedFormat:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func sendError(c *fiber.Ctx, kind usecase.ErrorKind, msg string) error {
	return c.Status(statusFor(kind)).JSON(fiber.Map{"error": msg, "kind": kind})
}
