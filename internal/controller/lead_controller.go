package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"crm-dashboard-service/internal/repository"
	"crm-dashboard-service/internal/service"
)

// LeadController exposes the lead workflow endpoint.
type LeadController interface {
	UpdateStatus(c *fiber.Ctx) error
}

type leadController struct {
	leadService service.LeadService
}

// NewLeadController builds a LeadController.
func NewLeadController(svc service.LeadService) LeadController {
	return &leadController{leadService: svc}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus advances one lead's workflow status.
func (h *leadController) UpdateStatus(c *fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	err := h.leadService.UpdateStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		if _, ok := err.(*service.ValidationError); ok {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "lead not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update lead status")
	}

	return c.JSON(fiber.Map{"status": req.Status})
}
