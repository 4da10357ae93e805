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

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	List(ctx context.Context, q models.UserQuery) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository and ensures the
// uniqueness indexes on username and email
func NewMongoUserRepository(ctx context.Context, db *mongo.Database) (*MongoUserRepository, error) {
	collection := db.Collection("users")
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("create user indexes: %w", err)
	}
	return &MongoUserRepository{collection: collection}, nil
}

// Create inserts a new user; duplicate username/email reports ErrConflict
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("username or email taken: %w", errs.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", errs.ErrUnavailable)
	}
	return nil
}

// GetByID retrieves a user by id
func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves a user by email, password included
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByUsername retrieves a user by username
func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user: %w", errs.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", errs.ErrUnavailable)
	}
	return &user, nil
}

// FindByIDs retrieves the users whose ids appear in the given set
func (r *MongoUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", errs.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", errs.ErrUnavailable)
	}
	return users, nil
}

// List retrieves a page of users for the admin listing along with the total
// match count. Search matches username or email, case-insensitive.
func (r *MongoUserRepository) List(ctx context.Context, q models.UserQuery) ([]models.User, int64, error) {
	filter := bson.M{}
	if q.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"username": bson.M{"$regex": q.Search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}
	if q.Role != "" {
		filter["role"] = q.Role
	}
	switch q.Status {
	case models.StatusActive:
		filter["isDeleted"] = false
	case models.StatusBanned:
		filter["isDeleted"] = true
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", errs.ErrUnavailable)
	}

	findOptions := options.Find().SetSkip(q.Skip).SetLimit(q.Limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("find users: %w", errs.ErrUnavailable)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", errs.ErrUnavailable)
	}
	return users, total, nil
}

// Update replaces the mutable fields of a user
func (r *MongoUserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"username":  user.Username,
			"bio":       user.Bio,
			"avatar":    user.Avatar,
			"role":      user.Role,
			"status":    user.Status,
			"isDeleted": user.IsDeleted,
			"deletedAt": user.DeletedAt,
			"updatedAt": user.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("username taken: %w", errs.ErrConflict)
		}
		return fmt.Errorf("update user: %w", errs.ErrUnavailable)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", user.ID.Hex(), errs.ErrNotFound)
	}
	return nil
}
