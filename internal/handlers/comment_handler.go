package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/linkhive/backend/internal/middleware"
	"github.com/linkhive/backend/internal/models"
	"github.com/linkhive/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.GET("/user/:userId", h.ListByUser)
	g.GET("/:linkId", h.ListByLink)
	g.POST("", h.Create, authRequired)
	g.PUT("/:id", h.Update, authRequired)
	g.DELETE("/:id", h.Delete, authRequired)
}

// ListByLink returns a link's comment thread: top-level comments newest
// first, each with one level of replies
func (h *CommentHandler) ListByLink(c echo.Context) error {
	linkID, err := paramObjectID(c, "linkId")
	if err != nil {
		return err
	}

	thread, err := h.commentService.ListByLink(c.Request().Context(), linkID)
	if err != nil {
		return httpError(err)
	}
	return respondOK(c, thread)
}

// ListByUser returns a page of a user's comment history
func (h *CommentHandler) ListByUser(c echo.Context) error {
	userID, err := paramObjectID(c, "userId")
	if err != nil {
		return err
	}
	page, limit := pageQuery(c, 20)

	comments, pagination, err := h.commentService.ListByUser(c.Request().Context(), userID, page, limit)
	if err != nil {
		return httpError(err)
	}
	return respondOK(c, echo.Map{"comments": comments, "pagination": pagination})
}

// Create posts a comment or a reply
func (h *CommentHandler) Create(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := middleware.CurrentUser(c)
	comment, err := h.commentService.Create(c.Request().Context(), actor.ID, req)
	if err != nil {
		return httpError(err)
	}
	return respondMessage(c, http.StatusCreated, "Comment created successfully", comment)
}

// Update edits a comment's content
func (h *CommentHandler) Update(c echo.Context) error {
	id, err := paramObjectID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := middleware.CurrentUser(c)
	comment, err := h.commentService.Update(c.Request().Context(), actor.ID, id, req.Content)
	if err != nil {
		return httpError(err)
	}
	return respondMessage(c, http.StatusOK, "Comment updated successfully", comment)
}

// Delete removes a comment and its reply subtree
func (h *CommentHandler) Delete(c echo.Context) error {
	id, err := paramObjectID(c, "id")
	if err != nil {
		return err
	}

	actor := middleware.CurrentUser(c)
	if err := h.commentService.Delete(c.Request().Context(), actor.ID, id); err != nil {
		return httpError(err)
	}
	return respondMessage(c, http.StatusOK, "Comment deleted successfully", nil)
}
