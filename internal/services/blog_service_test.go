package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/linkhive/backend/internal/errs"
	"github.com/linkhive/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBlogRepo struct {
	clock *fakeClock
	blogs map[primitive.ObjectID]*models.Blog
	order []primitive.ObjectID
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{clock: newFakeClock(), blogs: make(map[primitive.ObjectID]*models.Blog)}
}

func (r *fakeBlogRepo) Create(_ context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = r.clock.next()
	blog.UpdatedAt = blog.CreatedAt
	stored := *blog
	r.blogs[blog.ID] = &stored
	r.order = append(r.order, blog.ID)
	return nil
}

func (r *fakeBlogRepo) GetByIDOrSlug(_ context.Context, idOrSlug string) (*models.Blog, error) {
	for _, blog := range r.blogs {
		if blog.ID.Hex() == idOrSlug || blog.Slug == idOrSlug {
			out := *blog
			return &out, nil
		}
	}
	return nil, fmt.Errorf("blog %s: %w", idOrSlug, errs.ErrNotFound)
}

func (r *fakeBlogRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, blog := range r.blogs {
		if blog.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBlogRepo) List(_ context.Context, q models.BlogQuery) ([]models.Blog, int64, error) {
	matched := []models.Blog{}
	for i := len(r.order) - 1; i >= 0; i-- {
		blog, ok := r.blogs[r.order[i]]
		if !ok {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(blog.Title), strings.ToLower(q.Search)) {
			continue
		}
		if q.Category != "" && blog.Category != q.Category {
			continue
		}
		matched = append(matched, *blog)
	}
	total := int64(len(matched))
	return pageOf(matched, q.Skip, q.Limit), total, nil
}

func (r *fakeBlogRepo) Update(_ context.Context, blog *models.Blog) error {
	if _, ok := r.blogs[blog.ID]; !ok {
		return fmt.Errorf("blog %s: %w", blog.ID.Hex(), errs.ErrNotFound)
	}
	blog.UpdatedAt = r.clock.next()
	stored := *blog
	r.blogs[blog.ID] = &stored
	return nil
}

func (r *fakeBlogRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.blogs[id]; !ok {
		return fmt.Errorf("blog %s: %w", id.Hex(), errs.ErrNotFound)
	}
	delete(r.blogs, id)
	return nil
}

func TestCreateBlogSlugAndSanitize(t *testing.T) {
	repo := newFakeBlogRepo()
	s := NewBlogService(repo)
	ctx := context.Background()

	blog, err := s.Create(ctx, models.CreateBlogRequest{
		Title:    "Hello, World! A First Post",
		Content:  `<p>Welcome</p><script>alert("x")</script>`,
		Excerpt:  "welcome",
		Category: "News",
	}, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if blog.Slug != "hello-world-a-first-post" {
		t.Errorf("Expected slug hello-world-a-first-post, got %q", blog.Slug)
	}
	if strings.Contains(blog.Content, "<script>") {
		t.Errorf("Expected script tags stripped, got %q", blog.Content)
	}
	if !strings.Contains(blog.Content, "<p>Welcome</p>") {
		t.Errorf("Expected safe markup kept, got %q", blog.Content)
	}
	if blog.Author != "LinkHive Team" {
		t.Errorf("Expected site byline, got %q", blog.Author)
	}
}

func TestCreateBlogSlugCollision(t *testing.T) {
	repo := newFakeBlogRepo()
	s := NewBlogService(repo)
	ctx := context.Background()

	req := models.CreateBlogRequest{Title: "Same Title", Content: "one", Excerpt: "x", Category: "News"}
	first, err := s.Create(ctx, req, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := s.Create(ctx, req, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if second.Slug == first.Slug {
		t.Errorf("Expected distinct slugs, both got %q", first.Slug)
	}
	if !strings.HasPrefix(second.Slug, "same-title-") {
		t.Errorf("Expected suffixed slug, got %q", second.Slug)
	}
}

func TestGetBlogByIDOrSlug(t *testing.T) {
	repo := newFakeBlogRepo()
	s := NewBlogService(repo)
	ctx := context.Background()

	created, err := s.Create(ctx, models.CreateBlogRequest{
		Title: "Findable", Content: "body", Excerpt: "x", Category: "News",
	}, "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	bySlug, err := s.Get(ctx, "findable")
	if err != nil {
		t.Fatalf("Get by slug failed: %v", err)
	}
	byID, err := s.Get(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("Get by id failed: %v", err)
	}
	if bySlug.ID != created.ID || byID.ID != created.ID {
		t.Errorf("Expected the same post by slug and id")
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestUpdateBlogImageSwap(t *testing.T) {
	repo := newFakeBlogRepo()
	s := NewBlogService(repo)
	ctx := context.Background()

	created, err := s.Create(ctx, models.CreateBlogRequest{
		Title: "Post", Content: "body", Excerpt: "x", Category: "News",
	}, "/uploads/old.png")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, prevImage, err := s.Update(ctx, created.ID, models.UpdateBlogRequest{Title: "Renamed"}, "/uploads/new.png")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if prevImage != "/uploads/old.png" {
		t.Errorf("Expected previous image /uploads/old.png, got %q", prevImage)
	}
	if updated.Image != "/uploads/new.png" || updated.Title != "Renamed" {
		t.Errorf("Expected new image and title, got image=%q title=%q", updated.Image, updated.Title)
	}
	// Slug survives a title change.
	if updated.Slug != created.Slug {
		t.Errorf("Expected slug %q kept, got %q", created.Slug, updated.Slug)
	}

	_, prevImage, err = s.Update(ctx, created.ID, models.UpdateBlogRequest{Content: "updated body"}, "")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if prevImage != "" {
		t.Errorf("Expected no image swap, got %q", prevImage)
	}
}

func TestListBlogsPagination(t *testing.T) {
	repo := newFakeBlogRepo()
	s := NewBlogService(repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Create(ctx, models.CreateBlogRequest{
			Title: fmt.Sprintf("Post %d", i), Content: "body", Excerpt: "x", Category: "News",
		}, ""); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	blogs, pagination, err := s.List(ctx, models.BlogQuery{}, 2, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(blogs) != 2 {
		t.Errorf("Expected 2 blogs on page 2, got %d", len(blogs))
	}
	if pagination.Total != 5 || pagination.Pages != 3 {
		t.Errorf("Expected total=5 pages=3, got total=%d pages=%d", pagination.Total, pagination.Pages)
	}
}
