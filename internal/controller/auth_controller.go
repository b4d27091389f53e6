package controller

import (
	"github.com/gofiber/fiber/v2"

	"crm-dashboard-service/internal/auth"
	"crm-dashboard-service/internal/model"
	"crm-dashboard-service/internal/service"
)

// AuthController exposes the sign-in synchronization endpoint.
type AuthController interface {
	SyncUser(c *fiber.Ctx) error
}

type authController struct {
	userService service.UserService
}

// NewAuthController builds an AuthController.
func NewAuthController(svc service.UserService) AuthController {
	return &authController{userService: svc}
}

// SyncUser upserts the caller's account row after a sign-in. The uid
// always comes from the verified session token, never from the body.
func (h *authController) SyncUser(c *fiber.Ctx) error {
	var req model.UserSyncRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	if uid := auth.ExternalUID(c); uid != "" {
		req.ExternalUID = uid
	}

	user, err := h.userService.Sync(c.Context(), req)
	if err != nil {
		if _, ok := err.(*service.ValidationError); ok {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to sync user")
	}

	return c.JSON(user)
}
