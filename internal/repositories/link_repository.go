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

// LinkRepository defines the interface for link data operations
type LinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Link, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Link, error)
	List(ctx context.Context, q models.LinkQuery) ([]models.Link, int64, error)
	Update(ctx context.Context, link *models.Link) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Link, error)
	AddUpvote(ctx context.Context, id, userID primitive.ObjectID) (*models.Link, error)
	RemoveUpvote(ctx context.Context, id, userID primitive.ObjectID) (*models.Link, error)
	AdjustCommentCount(ctx context.Context, id primitive.ObjectID, delta int) error
	CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
	SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
}

// MongoLinkRepository implements LinkRepository for MongoDB
type MongoLinkRepository struct {
	collection *mongo.Collection
}

// NewMongoLinkRepository creates a new MongoLinkRepository
func NewMongoLinkRepository(db *mongo.Database) *MongoLinkRepository {
	return &MongoLinkRepository{collection: db.Collection("links")}
}

// Create inserts a new link with zeroed counters
func (r *MongoLinkRepository) Create(ctx context.Context, link *models.Link) error {
	link.ID = primitive.NewObjectID()
	link.CreatedAt = time.Now()
	link.UpdatedAt = link.CreatedAt
	if link.Tags == nil {
		link.Tags = []string{}
	}
	if link.Upvotes == nil {
		link.Upvotes = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, link)
	if err != nil {
		return fmt.Errorf("insert link: %w", errs.ErrUnavailable)
	}
	return nil
}

// GetByID retrieves a link by id
func (r *MongoLinkRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Link, error) {
	var link models.Link
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("link %s: %w", id.Hex(), errs.ErrNotFound)
		}
		return nil, fmt.Errorf("find link: %w", errs.ErrUnavailable)
	}
	return &link, nil
}

// FindByIDs retrieves the links whose ids appear in the given set
func (r *MongoLinkRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Link, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find links: %w", errs.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var links []models.Link
	if err = cursor.All(ctx, &links); err != nil {
		return nil, fmt.Errorf("decode links: %w", errs.ErrUnavailable)
	}
	return links, nil
}

// List retrieves links matching the query along with the total match count
func (r *MongoLinkRepository) List(ctx context.Context, q models.LinkQuery) ([]models.Link, int64, error) {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if len(q.Tags) > 0 {
		filter["tags"] = bson.M{"$in": q.Tags}
	}
	if q.Author != nil {
		filter["author"] = *q.Author
	}

	var sort bson.D
	switch q.Sort {
	case models.SortTrending:
		sort = bson.D{{Key: "upvoteCount", Value: -1}, {Key: "createdAt", Value: -1}}
	case models.SortTop:
		sort = bson.D{{Key: "upvoteCount", Value: -1}}
	default:
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count links: %w", errs.ErrUnavailable)
	}

	findOptions := options.Find().SetSkip(q.Skip).SetLimit(q.Limit).SetSort(sort)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find links: %w", errs.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var links []models.Link
	if err = cursor.All(ctx, &links); err != nil {
		return nil, 0, fmt.Errorf("decode links: %w", errs.ErrUnavailable)
	}
	return links, total, nil
}

// Update replaces the editable fields of a link
func (r *MongoLinkRepository) Update(ctx context.Context, link *models.Link) error {
	link.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":       link.Title,
			"url":         link.URL,
			"description": link.Description,
			"imageUrl":    link.ImageURL,
			"category":    link.Category,
			"tags":        link.Tags,
			"updatedAt":   link.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": link.ID}, update)
	if err != nil {
		return fmt.Errorf("update link: %w", errs.ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("link %s: %w", link.ID.Hex(), errs.ErrNotFound)
	}
	return nil
}

// Delete removes a link by id
func (r *MongoLinkRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete link: %w", errs.ErrUnavailable)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("link %s: %w", id.Hex(), errs.ErrNotFound)
	}
	return nil
}

// IncrementViews bumps the view counter and returns the updated link
func (r *MongoLinkRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Link, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var link models.Link
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views": 1}},
		opts,
	).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("link %s: %w", id.Hex(), errs.ErrNotFound)
		}
		return nil, fmt.Errorf("increment views: %w", errs.ErrUnavailable)
	}
	return &link, nil
}

// AddUpvote records an upvote for userID in one guarded atomic update. The
// filter requires the user to be absent from the set, so a concurrent
// duplicate add matches zero documents and reports ErrNotFound instead of
// drifting the counter.
func (r *MongoLinkRepository) AddUpvote(ctx context.Context, id, userID primitive.ObjectID) (*models.Link, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var link models.Link
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "upvotes": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"upvotes": userID},
			"$inc":      bson.M{"upvoteCount": 1},
		},
		opts,
	).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("add upvote %s: %w", id.Hex(), errs.ErrNotFound)
		}
		return nil, fmt.Errorf("add upvote: %w", errs.ErrUnavailable)
	}
	return &link, nil
}

// RemoveUpvote withdraws userID's upvote in one guarded atomic update. The
// filter requires membership, so the paired decrement can never push the
// counter below the set size.
func (r *MongoLinkRepository) RemoveUpvote(ctx context.Context, id, userID primitive.ObjectID) (*models.Link, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var link models.Link
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "upvotes": userID},
		bson.M{
			"$pull": bson.M{"upvotes": userID},
			"$inc":  bson.M{"upvoteCount": -1},
		},
		opts,
	).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("remove upvote %s: %w", id.Hex(), errs.ErrNotFound)
		}
		return nil, fmt.Errorf("remove upvote: %w", errs.ErrUnavailable)
	}
	return &link, nil
}

// AdjustCommentCount applies a delta to the comment counter, flooring the
// stored value at zero via a pipeline update.
func (r *MongoLinkRepository) AdjustCommentCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"commentCount": bson.M{
				"$max": bson.A{0, bson.M{"$add": bson.A{"$commentCount", delta}}},
			},
		}}},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, pipeline)
	if err != nil {
		return fmt.Errorf("adjust comment count: %w", errs.ErrUnavailable)
	}
	return nil
}

// CountByAuthor counts the links submitted by a user
func (r *MongoLinkRepository) CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"author": author})
	if err != nil {
		return 0, fmt.Errorf("count links: %w", errs.ErrUnavailable)
	}
	return n, nil
}

// SumUpvotesByAuthor totals the upvotes received across a user's links
func (r *MongoLinkRepository) SumUpvotesByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author": author}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$upvoteCount"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum upvotes: %w", errs.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode upvote sum: %w", errs.ErrUnavailable)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
