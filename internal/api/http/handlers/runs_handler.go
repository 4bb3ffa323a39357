package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/payment-ops/internal/api/dto"
	"github.com/spec-kit/payment-ops/internal/observability"
	"github.com/spec-kit/payment-ops/internal/service"
	apperrors "github.com/spec-kit/payment-ops/pkg/util"
)

// RunsHandler exposes triage run execution and inspection endpoints.
type RunsHandler struct {
	triage  *service.TriageService
	metrics *observability.Metrics
}

// NewRunsHandler constructs handler.
func NewRunsHandler(triageService *service.TriageService, metrics *observability.Metrics) *RunsHandler {
	return &RunsHandler{triage: triageService, metrics: metrics}
}

// Trigger handles POST /runs.
func (h *RunsHandler) Trigger(c *fiber.Ctx) error {
	summary, err := h.triage.RunOnce(c.Context())
	if err != nil {
		return apperrors.NewUnavailable("triage run could not start", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewRunResponse(*summary)})
}

// List handles GET /runs.
func (h *RunsHandler) List(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	summaries, err := h.triage.ListRuns(c.Context(), limit, offset)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewRunResponses(summaries)})
}

// Get handles GET /runs/:id.
func (h *RunsHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	summary, err := h.triage.GetRun(c.Context(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewRunResponse(*summary)})
}

// ListHandoffs handles GET /runs/:id/handoffs.
func (h *RunsHandler) ListHandoffs(c *fiber.Ctx) error {
	id := c.Params("id")
	handoffs, err := h.triage.ListHandoffs(c.Context(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewHandoffResponses(handoffs)})
}

// Metrics handles GET /runs/metrics.
func (h *RunsHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.RunSnapshot()})
}
