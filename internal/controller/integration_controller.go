package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"crm-dashboard-service/internal/auth"
	"crm-dashboard-service/internal/integration"
	"crm-dashboard-service/internal/repository"
)

// IntegrationController exposes the adapter-agnostic integration endpoints.
type IntegrationController interface {
	List(c *fiber.Ctx) error
	Status(c *fiber.Ctx) error
	Connect(c *fiber.Ctx) error
	Disconnect(c *fiber.Ctx) error
	Leads(c *fiber.Ctx) error
}

type integrationController struct {
	registry *integration.Registry
}

// NewIntegrationController builds an IntegrationController over a registry.
func NewIntegrationController(registry *integration.Registry) IntegrationController {
	return &integrationController{registry: registry}
}

type integrationInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// List returns the adapters available for connecting.
func (h *integrationController) List(c *fiber.Ctx) error {
	available := h.registry.Available()
	out := make([]integrationInfo, 0, len(available))
	for _, in := range available {
		out = append(out, integrationInfo{
			Name:        in.Name(),
			DisplayName: in.DisplayName(),
			Description: in.Description(),
		})
	}
	return c.JSON(out)
}

// Status reports the caller's connection state for one adapter.
func (h *integrationController) Status(c *fiber.Ctx) error {
	in, err := h.lookup(c)
	if err != nil {
		return err
	}

	status, err := in.GetConnectionStatus(c.Context(), auth.ExternalUID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch connection status")
	}
	return c.JSON(status)
}

// Connect redirects the caller to the provider's OAuth dialog.
func (h *integrationController) Connect(c *fiber.Ctx) error {
	in, err := h.lookup(c)
	if err != nil {
		return err
	}

	authURL, err := in.Connect(c.Context(), auth.ExternalUID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build authorization url")
	}
	return c.Redirect(authURL, fiber.StatusFound)
}

type disconnectRequest struct {
	IntegrationID string `json:"integration_id"`
}

// Disconnect marks a stored connection inactive.
func (h *integrationController) Disconnect(c *fiber.Ctx) error {
	in, err := h.lookup(c)
	if err != nil {
		return err
	}

	var req disconnectRequest
	if err := c.BodyParser(&req); err != nil || req.IntegrationID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "integration_id is required")
	}

	if err := in.Disconnect(c.Context(), req.IntegrationID); err != nil {
		switch {
		case errors.Is(err, integration.ErrNotImplemented):
			return fiber.NewError(fiber.StatusNotImplemented, err.Error())
		case errors.Is(err, repository.ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "integration not found")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to disconnect integration")
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Leads returns the normalized leads of one connection.
func (h *integrationController) Leads(c *fiber.Ctx) error {
	in, err := h.lookup(c)
	if err != nil {
		return err
	}

	integrationID := c.Query("integration_id")
	if integrationID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "integration_id is required")
	}

	leads, err := in.GetLeads(c.Context(), integrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "integration not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch leads")
	}
	return c.JSON(leads)
}

func (h *integrationController) lookup(c *fiber.Ctx) (integration.Integration, error) {
	in, ok := h.registry.Get(c.Params("name"))
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "unknown integration")
	}
	return in, nil
}
