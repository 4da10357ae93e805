package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/linkhive/backend/internal/models"
	"github.com/linkhive/backend/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog posts are published under the site byline rather than an admin's name.
const blogAuthor = "LinkHive Team"

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// BlogService owns editorial posts: admin-gated CRUD with slug generation
// and HTML sanitization.
type BlogService struct {
	blogs     repositories.BlogRepository
	sanitizer *bluemonday.Policy
}

// NewBlogService creates a new BlogService
func NewBlogService(blogRepo repositories.BlogRepository) *BlogService {
	return &BlogService{
		blogs:     blogRepo,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Create publishes a blog post with a unique slug derived from the title
func (s *BlogService) Create(ctx context.Context, req models.CreateBlogRequest, imagePath string) (*models.Blog, error) {
	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	blog := &models.Blog{
		Title:    req.Title,
		Content:  s.sanitizer.Sanitize(req.Content),
		Excerpt:  req.Excerpt,
		Author:   blogAuthor,
		Image:    imagePath,
		Category: req.Category,
		Tags:     req.Tags,
		Slug:     slug,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// Get retrieves a blog post by hex id or slug
func (s *BlogService) Get(ctx context.Context, idOrSlug string) (*models.Blog, error) {
	return s.blogs.GetByIDOrSlug(ctx, idOrSlug)
}

// List retrieves a page of blog posts with pagination metadata
func (s *BlogService) List(ctx context.Context, q models.BlogQuery, page, limit int) ([]models.Blog, models.Pagination, error) {
	q.Skip = int64((page - 1) * limit)
	q.Limit = int64(limit)
	blogs, total, err := s.blogs.List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return blogs, models.NewPagination(page, limit, total), nil
}

// Update edits a blog post; empty fields keep their stored values. A new
// image path, when non-empty, replaces the cover image and the previous path
// is returned for file cleanup.
func (s *BlogService) Update(ctx context.Context, id primitive.ObjectID, req models.UpdateBlogRequest, imagePath string) (*models.Blog, string, error) {
	blog, err := s.blogs.GetByIDOrSlug(ctx, id.Hex())
	if err != nil {
		return nil, "", err
	}

	if req.Title != "" {
		blog.Title = req.Title
	}
	if req.Content != "" {
		blog.Content = s.sanitizer.Sanitize(req.Content)
	}
	if req.Excerpt != "" {
		blog.Excerpt = req.Excerpt
	}
	if req.Category != "" {
		blog.Category = req.Category
	}
	if req.Tags != nil {
		blog.Tags = req.Tags
	}

	prevImage := ""
	if imagePath != "" {
		prevImage = blog.Image
		blog.Image = imagePath
	}

	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, "", err
	}
	return blog, prevImage, nil
}

// Delete removes a blog post
func (s *BlogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.blogs.Delete(ctx, id)
}

// uniqueSlug lowercases the title to a url-safe slug, suffixing a timestamp
// fragment when the plain slug is taken
func (s *BlogService) uniqueSlug(ctx context.Context, title string) (string, error) {
	slug := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(title), "-"), "-")
	taken, err := s.blogs.SlugExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if taken {
		stamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
		slug = fmt.Sprintf("%s-%s", slug, stamp[len(stamp)-4:])
	}
	return slug, nil
}
