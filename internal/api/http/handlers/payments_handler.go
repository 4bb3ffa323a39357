package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/payment-ops/internal/api/dto"
	"github.com/spec-kit/payment-ops/internal/domain"
	"github.com/spec-kit/payment-ops/internal/repository"
	"github.com/spec-kit/payment-ops/internal/service"
	apperrors "github.com/spec-kit/payment-ops/pkg/util"
)

// PaymentsHandler exposes read access to the payment backlog.
type PaymentsHandler struct {
	payments repository.PaymentRepository
	cases    repository.CaseRepository
	triage   *service.TriageService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments repository.PaymentRepository, cases repository.CaseRepository, triageService *service.TriageService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments, cases: cases, triage: triageService}
}

// List handles GET /payments.
func (h *PaymentsHandler) List(c *fiber.Ctx) error {
	filter := repository.PaymentFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		s := domain.PaymentStatus(status)
		filter.Status = &s
	}
	if reason := c.Query("reason"); reason != "" {
		r := domain.FailureReason(reason)
		filter.Reason = &r
	}
	if ref := c.Query("customer_ref"); ref != "" {
		filter.CustomerRef = &ref
	}

	records, err := h.payments.ListWithFilter(c.Context(), filter)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewPaymentResponses(records)})
}

// Get handles GET /payments/:id.
func (h *PaymentsHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	record, err := h.payments.GetByID(c.Context(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewPaymentResponse(*record)})
}

// ListCases handles GET /payments/:id/cases.
func (h *PaymentsHandler) ListCases(c *fiber.Ctx) error {
	id := c.Params("id")
	reviewCases, err := h.cases.ListByPayment(c.Context(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewCaseResponses(reviewCases)})
}

// ListHandoffs handles GET /payments/:id/handoffs.
func (h *PaymentsHandler) ListHandoffs(c *fiber.Ctx) error {
	id := c.Params("id")
	handoffs, err := h.triage.ListHandoffsByPayment(c.Context(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewHandoffResponses(handoffs)})
}

func queryInt(c *fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
