package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/linkhive/backend/internal/middleware"
	"github.com/linkhive/backend/internal/models"
	"github.com/linkhive/backend/internal/services"
)

// UserHandler handles profile and admin user-management requests
type UserHandler struct {
	userService *services.UserService
	uploadDir   string
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService, uploadDir string) *UserHandler {
	return &UserHandler{userService: userService, uploadDir: uploadDir}
}

// RegisterUserRoutes registers profile and admin routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.GET("", h.ListUsers, authRequired, middleware.AdminOnly())
	g.PATCH("/:id/status", h.ToggleStatus, authRequired, middleware.AdminOnly())
	g.GET("/:id", h.Profile)
	g.PUT("/:id", h.UpdateProfile, authRequired)
}

// Profile returns a user's public profile with activity stats
func (h *UserHandler) Profile(c echo.Context) error {
	id, err := paramObjectID(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.userService.Profile(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return respondOK(c, profile)
}

// UpdateProfile edits the caller's own profile; the avatar file arrives as
// multipart form data
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, err := paramObjectID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var newAvatar *string
	avatarPath, err := saveUpload(c, "avatar", h.uploadDir)
	if err != nil {
		return err
	}
	if avatarPath != "" {
		newAvatar = &avatarPath
	} else if req.RemoveAvatar == "true" {
		empty := ""
		newAvatar = &empty
	}

	actor := middleware.CurrentUser(c)
	user, prevAvatar, err := h.userService.UpdateProfile(c.Request().Context(), actor.ID, id, req, newAvatar)
	if err != nil {
		if avatarPath != "" {
			removeUpload(avatarPath, h.uploadDir)
		}
		return httpError(err)
	}
	if prevAvatar != "" && prevAvatar != user.Avatar {
		removeUpload(prevAvatar, h.uploadDir)
	}

	return respondMessage(c, http.StatusOK, "Profile updated successfully", echo.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"avatar":   user.Avatar,
		"bio":      user.Bio,
	})
}

// ListUsers returns a page of accounts for administrators
func (h *UserHandler) ListUsers(c echo.Context) error {
	page, limit := pageQuery(c, 10)
	q := models.UserQuery{
		Search: c.QueryParam("search"),
		Role:   c.QueryParam("role"),
		Status: c.QueryParam("status"),
	}

	users, pagination, err := h.userService.ListUsers(c.Request().Context(), q, page, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       users,
		"pagination": pagination,
	})
}

// ToggleStatus bans or reactivates an account
func (h *UserHandler) ToggleStatus(c echo.Context) error {
	id, err := paramObjectID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.ToggleStatus(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	message := "User activated successfully"
	if user.IsDeleted {
		message = "User banned successfully"
	}
	return respondMessage(c, http.StatusOK, message, echo.Map{
		"id":        user.ID,
		"isDeleted": user.IsDeleted,
		"status":    user.Status,
	})
}
