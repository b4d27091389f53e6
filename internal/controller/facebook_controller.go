package controller

import (
	"github.com/gofiber/fiber/v2"

	"crm-dashboard-service/internal/auth"
	"crm-dashboard-service/internal/integration"
	"crm-dashboard-service/internal/model"
	"crm-dashboard-service/internal/service"
)

// FacebookController exposes the endpoints specific to the Facebook flow:
// the OAuth callback and the insights sync.
type FacebookController interface {
	ConnectCallback(c *fiber.Ctx) error
	Insights(c *fiber.Ctx) error
}

type facebookController struct {
	facebook     integration.Facebook
	worker       service.SyncWorker
	dashboardURL string
}

// NewFacebookController builds a FacebookController. dashboardURL is the
// location every callback outcome redirects to.
func NewFacebookController(fb integration.Facebook, worker service.SyncWorker, dashboardURL string) FacebookController {
	return &facebookController{facebook: fb, worker: worker, dashboardURL: dashboardURL}
}

// ConnectCallback terminates the OAuth flow. It never fails: every outcome
// is a redirect back to the dashboard with a success or error code.
func (h *facebookController) ConnectCallback(c *fiber.Ctx) error {
	res := h.facebook.CompleteConnect(
		c.Context(),
		c.Query("code"),
		c.Query("state"),
		c.Query("error"),
	)

	if !res.OK {
		return c.Redirect(h.dashboardURL+"?error="+res.Outcome, fiber.StatusFound)
	}

	// Kick off the first sync so the dashboard has data on first load.
	h.worker.Enqueue(service.SyncJob{IntegrationID: res.IntegrationID})

	return c.Redirect(h.dashboardURL+"?success="+res.Outcome, fiber.StatusFound)
}

type insightsResponse struct {
	Success     bool                            `json:"success"`
	Data        map[string][]model.InsightPoint `json:"data"`
	Integration insightsIntegrationInfo         `json:"integration"`
}

type insightsIntegrationInfo struct {
	PageID   string `json:"page_id"`
	PageName string `json:"page_name"`
}

// Insights runs a metrics sync for the caller's active connection and
// returns the stored series grouped by metric.
func (h *facebookController) Insights(c *fiber.Ctx) error {
	status, err := h.facebook.GetConnectionStatus(c.Context(), auth.ExternalUID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to resolve connection")
	}
	if !status.Connected {
		return fiber.NewError(fiber.StatusNotFound, "facebook integration not found")
	}

	sync, err := h.facebook.SyncInsights(c.Context(), status.ConnectionID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to sync insights")
	}

	return c.JSON(insightsResponse{
		Success: true,
		Data:    sync.Series,
		Integration: insightsIntegrationInfo{
			PageID:   sync.PageID,
			PageName: sync.PageName,
		},
	})
}
