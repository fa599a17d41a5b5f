package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"load-manager/core/fault"
	"load-manager/core/logger"
	"load-manager/feature/job"
	"load-manager/feature/manifest"
)

// Handler exposes the tracker state over HTTP: read-only manifest and job
// lookups plus the completion callback used by the external transfer worker.
type Handler struct {
	manifests *manifest.Store
	jobs      *job.Service
	logger    *zap.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(manifests *manifest.Store, jobs *job.Service, logger *zap.Logger) *Handler {
	return &Handler{manifests: manifests, jobs: jobs, logger: logger}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)

	app.Get("/manifests", h.HandleListManifests)
	app.Get("/manifests/:loadID", h.HandleGetManifest)

	app.Get("/jobs", h.HandleListJobs)
	app.Get("/jobs/:loadID", h.HandleGetJob)
	app.Post("/jobs/:loadID/complete", h.HandleCompleteJob)
}

// HandleHealth reports service health.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleListManifests lists manifests, optionally filtered by load_id prefix.
func (h *Handler) HandleListManifests(c *fiber.Ctx) error {
	manifests, err := h.manifests.List(c.Context(), c.Query("load_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"manifests": manifests})
}

// HandleGetManifest returns one manifest with its file entries.
func (h *Handler) HandleGetManifest(c *fiber.Ctx) error {
	m, err := h.manifests.Get(c.Context(), c.Params("loadID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(m)
}

// HandleListJobs lists jobs, optionally filtered by load_id prefix.
func (h *Handler) HandleListJobs(c *fiber.Ctx) error {
	jobs, err := h.jobs.List(c.Context(), c.Query("load_id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"jobs": jobs})
}

// HandleGetJob returns one job.
func (h *Handler) HandleGetJob(c *fiber.Ctx) error {
	j, err := h.jobs.Get(c.Context(), c.Params("loadID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(j)
}

type completeRequest struct {
	Success       bool   `json:"success"`
	Detail        string `json:"detail"`
	UploadedFiles int    `json:"uploaded_files"`
	UploadedBytes int64  `json:"uploaded_bytes"`
}

// HandleCompleteJob is the completion callback: the external transfer worker
// posts the outcome of a RUNNING job here.
func (h *Handler) HandleCompleteJob(c *fiber.Ctx) error {
	loadID := c.Params("loadID")
	l := logger.WithRayID(h.logger, c)

	var req completeRequest
	if err := c.BodyParser(&req); err != nil {
		l.Warn("malformed completion callback", zap.String("load_id", loadID), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body: " + err.Error()})
	}

	j, err := h.jobs.Complete(c.Context(), loadID, req.Success, req.Detail, req.UploadedFiles, req.UploadedBytes)
	if err != nil {
		l.Warn("completion callback rejected", zap.String("load_id", loadID), zap.Error(err))
		return h.fail(c, err)
	}

	l.Info("completion callback accepted",
		zap.String("load_id", loadID),
		zap.String("status", string(j.Status)))
	return c.JSON(j)
}

// fail maps fault kinds onto HTTP status codes.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch fault.KindOf(err) {
	case fault.KindValidation:
		status = fiber.StatusUnprocessableEntity
	case fault.KindNotFound:
		status = fiber.StatusNotFound
	case fault.KindConflict, fault.KindIllegalTransition:
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  string(fault.KindOf(err)),
	})
}
