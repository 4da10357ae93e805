package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/linkhive/backend/internal/middleware"
	"github.com/linkhive/backend/internal/models"
	"github.com/linkhive/backend/internal/services"
)

// LinkHandler handles HTTP requests related to links
type LinkHandler struct {
	linkService     *services.LinkService
	metadataService *services.MetadataService
}

// NewLinkHandler creates a new LinkHandler
func NewLinkHandler(linkService *services.LinkService, metadataService *services.MetadataService) *LinkHandler {
	return &LinkHandler{
		linkService:     linkService,
		metadataService: metadataService,
	}
}

// RegisterLinkRoutes registers link-related routes
func (h *LinkHandler) RegisterLinkRoutes(g *echo.Group, authRequired, authOptional echo.MiddlewareFunc) {
	g.POST("/preview", h.Preview)
	g.GET("", h.List, authOptional)
	g.GET("/user/:userId", h.ListByUser)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, authRequired)
	g.PUT("/:id", h.Update, authRequired)
	g.DELETE("/:id", h.Delete, authRequired)
	g.POST("/:id/upvote", h.ToggleUpvote, authRequired)
}

// List returns links filtered by category/tags with the requested sort
func (h *LinkHandler) List(c echo.Context) error {
	page, limit := pageQuery(c, 20)

	q := models.LinkQuery{
		Category: c.QueryParam("category"),
		Sort:     c.QueryParam("sort"),
	}
	if tags := c.QueryParam("tags"); tags != "" {
		q.Tags = strings.Split(tags, ",")
	}

	links, pagination, err := h.linkService.List(c.Request().Context(), q, page, limit)
	if err != nil {
		return httpError(err)
	}
	return respondOK(c, echo.Map{"links": links, "pagination": pagination})
}

// ListByUser returns the links submitted by a user
func (h *LinkHandler) ListByUser(c echo.Context) error {
	userID, err := paramObjectID(c, "userId")
	if err != nil {
		return err
	}
	page, limit := pageQuery(c, 20)

	links, pagination, err := h.linkService.ListByUser(c.Request().Context(), userID, page, limit)
	if err != nil {
		return httpError(err)
	}
	return respondOK(c, echo.Map{"links": links, "pagination": pagination})
}

// Get returns a single link and counts the view
func (h *LinkHandler) Get(c echo.Context) error {
	id, err := paramObjectID(c, "id")
	if err != nil {
		return err
	}

	link, err := h.linkService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return respondOK(c, link)
}

// Create submits a new link
func (h *LinkHandler) Create(c echo.Context) error {
	var req models.CreateLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := middleware.CurrentUser(c)
	link, err := h.linkService.Create(c.Request().Context(), actor.ID, req)
	if err != nil {
		return httpError(err)
	}
	return respondMessage(c, http.StatusCreated, "Link created successfully", link)
}

// Update edits a link
func (h *LinkHandler) Update(c echo.Context) error {
	id, err := paramObjectID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := middleware.CurrentUser(c)
	link, err := h.linkService.Update(c.Request().Context(), actor.ID, id, req)
	if err != nil {
		return httpError(err)
	}
	return respondMessage(c, http.StatusOK, "Link updated successfully", link)
}

// Delete removes a link and its comments
func (h *LinkHandler) Delete(c echo.Context) error {
	id, err := paramObjectID(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.CurrentUser(c)
	if err := h.linkService.Delete(c.Request().Context(), actor.ID, id); err != nil {
		return httpError(err)
	}
	return respondMessage(c, http.StatusOK, "Link deleted successfully", nil)
}

// ToggleUpvote flips the caller's vote on a link
func (h *LinkHandler) ToggleUpvote(c echo.Context) error {
	id, err := paramObjectID(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.CurrentUser(c)
	result, err := h.linkService.ToggleUpvote(c.Request().Context(), actor.ID, id)
	if err != nil {
		return httpError(err)
	}

	message := "Upvote removed"
	if result.HasUpvoted {
		message = "Link upvoted"
	}
	return respondMessage(c, http.StatusOK, message, result)
}

// Preview scrapes preview metadata for a URL
func (h *LinkHandler) Preview(c echo.Context) error {
	var req models.PreviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	meta, err := h.metadataService.Fetch(c.Request().Context(), req.URL)
	if err != nil {
		return httpError(err)
	}
	return respondOK(c, meta)
}
