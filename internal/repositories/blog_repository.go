package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linkhive/backend/internal/errs"
	"github.com/linkhive/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Blog, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, q models.BlogQuery) ([]models.Blog, int64, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// MongoBlogRepository implements BlogRepository for MongoDB
type MongoBlogRepository struct {
	collection *mongo.Collection
}

// NewMongoBlogRepository creates a new MongoBlogRepository
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{collection: db.Collection("blogs")}
}

// Create inserts a new blog post
func (r *MongoBlogRepository) Create(ctx context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = blog.CreatedAt
	if blog.Tags == nil {
		blog.Tags = []string{}
	}
	_, err := r.collection.InsertOne(ctx, blog)
	if err != nil {
		return fmt.Errorf("insert blog: %w", errs.ErrUnavailable)
	}
	return nil
}

// GetByIDOrSlug retrieves a blog post by hex object id or by slug
func (r *MongoBlogRepository) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*models.Blog, error) {
	filter := bson.M{"slug": idOrSlug}
	if objID, err := primitive.ObjectIDFromHex(idOrSlug); err == nil {
		filter = bson.M{"$or": bson.A{bson.M{"_id": objID}, bson.M{"slug": idOrSlug}}}
	}

	var blog models.Blog
	err := r.collection.FindOne(ctx, filter).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("blog %s: %w", idOrSlug, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("find blog: %w", errs.ErrUnavailable)
	}
	return &blog, nil
}

// SlugExists reports whether a blog already uses the given slug
func (r *MongoBlogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, fmt.Errorf("count slugs: %w", errs.ErrUnavailable)
	}
	return n > 0, nil
}

// List retrieves a page of blog posts, newest first, along with the total
// match count. Search matches titles, case-insensitive.
func (r *MongoBlogRepository) List(ctx context.Context, q models.BlogQuery) ([]models.Blog, int64, error) {
	filter := bson.M{}
	if q.Search != "" {
		filter["title"] = bson.M{"$regex": q.Search, "$options": "i"}
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", errs.ErrUnavailable)
	}

	findOptions := options.Find().SetSkip(q.Skip).SetLimit(q.Limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find blogs: %w", errs.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var blogs []models.Blog
	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, 0, fmt.Errorf("decode blogs: %w", errs.ErrUnavailable)
	}
	return blogs, total, nil
}

// Update replaces the editable fields of a blog post
func (r *MongoBlogRepository) Update(ctx context.Context, blog *models.Blog) error {
	blog.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":     blog.Title,
			"content":   blog.Content,
			"excerpt":   blog.Excerpt,
			"image":     blog.Image,
			"category":  blog.Category,
			"tags":      blog.Tags,
			"updatedAt": blog.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": blog.ID}, update)
	if err != nil {
		return fmt.Errorf("update blog: %w", errs.ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("blog %s: %w", blog.ID.Hex(), errs.ErrNotFound)
	}
	return nil
}

// Delete removes a blog post by id
func (r *MongoBlogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete blog: %w", errs.ErrUnavailable)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("blog %s: %w", id.Hex(), errs.ErrNotFound)
	}
	return nil
}
