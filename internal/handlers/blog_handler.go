package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/linkhive/backend/internal/middleware"
	"github.com/linkhive/backend/internal/models"
	"github.com/linkhive/backend/internal/services"
)

// BlogHandler handles editorial blog posts
type BlogHandler struct {
	blogService *services.BlogService
	uploadDir   string
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogService *services.BlogService, uploadDir string) *BlogHandler {
	return &BlogHandler{blogService: blogService, uploadDir: uploadDir}
}

// RegisterBlogRoutes registers blog-related routes
func (h *BlogHandler) RegisterBlogRoutes(g *echo.Group, authRequired echo.MiddlewareFunc) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, authRequired, middleware.AdminOnly())
	g.PUT("/:id", h.Update, authRequired, middleware.AdminOnly())
	g.DELETE("/:id", h.Delete, authRequired, middleware.AdminOnly())
}

// List returns a page of blog posts
func (h *BlogHandler) List(c echo.Context) error {
	page, limit := pageQuery(c, 10)
	q := models.BlogQuery{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
	}

	blogs, pagination, err := h.blogService.List(c.Request().Context(), q, page, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       blogs,
		"pagination": pagination,
	})
}

// Get returns a blog post by id or slug
func (h *BlogHandler) Get(c echo.Context) error {
	blog, err := h.blogService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, blog)
}

// Create publishes a blog post with an optional cover image
func (h *BlogHandler) Create(c echo.Context) error {
	var req models.CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	imagePath, err := saveUpload(c, "image", h.uploadDir)
	if err != nil {
		return err
	}

	blog, err := h.blogService.Create(c.Request().Context(), req, imagePath)
	if err != nil {
		if imagePath != "" {
			removeUpload(imagePath, h.uploadDir)
		}
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, blog)
}

// Update edits a blog post, replacing the cover image when a new one is
// uploaded
func (h *BlogHandler) Update(c echo.Context) error {
	id, err := paramObjectID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	imagePath, err := saveUpload(c, "image", h.uploadDir)
	if err != nil {
		return err
	}

	blog, prevImage, err := h.blogService.Update(c.Request().Context(), id, req, imagePath)
	if err != nil {
		if imagePath != "" {
			removeUpload(imagePath, h.uploadDir)
		}
		return httpError(err)
	}
	if prevImage != "" {
		removeUpload(prevImage, h.uploadDir)
	}
	return c.JSON(http.StatusOK, blog)
}

// Delete removes a blog post
func (h *BlogHandler) Delete(c echo.Context) error {
	id, err := paramObjectID(c, "id")
	if err != nil {
		return err
	}

	if err := h.blogService.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Blog removed"})
}
