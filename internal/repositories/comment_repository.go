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

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error)
	FindTopLevelByLink(ctx context.Context, linkID primitive.ObjectID) ([]models.Comment, error)
	FindByParent(ctx context.Context, parentID primitive.ObjectID) ([]models.Comment, error)
	FindByAuthor(ctx context.Context, author primitive.ObjectID, skip, limit int64) ([]models.Comment, int64, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByLink(ctx context.Context, linkID primitive.ObjectID) (int64, error)
	PushReply(ctx context.Context, parentID, childID primitive.ObjectID) error
	PullReply(ctx context.Context, parentID, childID primitive.ObjectID) error
	CountByLink(ctx context.Context, linkID primitive.ObjectID) (int64, error)
	CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// Create inserts a new comment with an empty reply list
func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	if comment.Replies == nil {
		comment.Replies = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, comment)
	if err != nil {
		return fmt.Errorf("insert comment: %w", errs.ErrUnavailable)
	}
	return nil
}

// GetByID retrieves a comment by id
func (r *MongoCommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("comment %s: %w", id.Hex(), errs.ErrNotFound)
		}
		return nil, fmt.Errorf("find comment: %w", errs.ErrUnavailable)
	}
	return &comment, nil
}

// FindByIDs retrieves the comments whose ids appear in the given set
func (r *MongoCommentRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", errs.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", errs.ErrUnavailable)
	}
	return comments, nil
}

// FindTopLevelByLink retrieves the comments on a link that have no parent,
// newest first
func (r *MongoCommentRepository) FindTopLevelByLink(ctx context.Context, linkID primitive.ObjectID) ([]models.Comment, error) {
	filter := bson.M{"link": linkID, "parentComment": nil}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find thread: %w", errs.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode thread: %w", errs.ErrUnavailable)
	}
	return comments, nil
}

// FindByParent retrieves the direct children of a comment
func (r *MongoCommentRepository) FindByParent(ctx context.Context, parentID primitive.ObjectID) ([]models.Comment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"parentComment": parentID})
	if err != nil {
		return nil, fmt.Errorf("find replies: %w", errs.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode replies: %w", errs.ErrUnavailable)
	}
	return comments, nil
}

// FindByAuthor retrieves a page of a user's comments, newest first, along
// with the total count
func (r *MongoCommentRepository) FindByAuthor(ctx context.Context, author primitive.ObjectID, skip, limit int64) ([]models.Comment, int64, error) {
	filter := bson.M{"author": author}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", errs.ErrUnavailable)
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find comments: %w", errs.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, 0, fmt.Errorf("decode comments: %w", errs.ErrUnavailable)
	}
	return comments, total, nil
}

// UpdateContent replaces a comment's content and returns the updated document
func (r *MongoCommentRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var comment models.Comment
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now()}},
		opts,
	).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("comment %s: %w", id.Hex(), errs.ErrNotFound)
		}
		return nil, fmt.Errorf("update comment: %w", errs.ErrUnavailable)
	}
	return &comment, nil
}

// Delete removes a comment by id
func (r *MongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete comment: %w", errs.ErrUnavailable)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("comment %s: %w", id.Hex(), errs.ErrNotFound)
	}
	return nil
}

// DeleteByLink removes every comment attached to a link and reports how many
// documents were deleted
func (r *MongoCommentRepository) DeleteByLink(ctx context.Context, linkID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"link": linkID})
	if err != nil {
		return 0, fmt.Errorf("delete link comments: %w", errs.ErrUnavailable)
	}
	return res.DeletedCount, nil
}

// PushReply appends a child id to a parent's reply list
func (r *MongoCommentRepository) PushReply(ctx context.Context, parentID, childID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$push": bson.M{"replies": childID}},
	)
	if err != nil {
		return fmt.Errorf("push reply: %w", errs.ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("comment %s: %w", parentID.Hex(), errs.ErrNotFound)
	}
	return nil
}

// PullReply removes a child id from a parent's reply list
func (r *MongoCommentRepository) PullReply(ctx context.Context, parentID, childID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$pull": bson.M{"replies": childID}},
	)
	if err != nil {
		return fmt.Errorf("pull reply: %w", errs.ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("comment %s: %w", parentID.Hex(), errs.ErrNotFound)
	}
	return nil
}

// CountByLink counts the live comments attached to a link. This is also the
// reconciliation query for correcting commentCount drift after a crash
// mid-cascade.
func (r *MongoCommentRepository) CountByLink(ctx context.Context, linkID primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"link": linkID})
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", errs.ErrUnavailable)
	}
	return n, nil
}

// CountByAuthor counts the comments posted by a user
func (r *MongoCommentRepository) CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"author": author})
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", errs.ErrUnavailable)
	}
	return n, nil
}
