package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linkhive/backend/internal/errs"
	"github.com/linkhive/backend/internal/models"
	"github.com/linkhive/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService owns accounts: registration, credential checks, profiles with
// activity stats, and the admin moderation surface.
type UserService struct {
	users    repositories.UserRepository
	links    repositories.LinkRepository
	comments repositories.CommentRepository
	log      *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.UserRepository,
	linkRepo repositories.LinkRepository,
	commentRepo repositories.CommentRepository,
	log *zap.Logger,
) *UserService {
	return &UserService{
		users:    userRepo,
		links:    linkRepo,
		comments: commentRepo,
		log:      log,
	}
}

// Signup registers a new account with a bcrypt-hashed password
func (s *UserService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user", user.ID.Hex()), zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and returns the account. Invalid email and
// invalid password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", errs.ErrForbidden)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", errs.ErrForbidden)
	}
	return user, nil
}

// AdminLogin verifies credentials and requires the admin role
func (s *UserService) AdminLogin(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, fmt.Errorf("not an admin: %w", errs.ErrForbidden)
	}
	return user, nil
}

// Profile returns a user's public profile with activity stats
func (s *UserService) Profile(ctx context.Context, id primitive.ObjectID) (*models.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	linkCount, err := s.links.CountByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	commentCount, err := s.comments.CountByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	totalUpvotes, err := s.links.SumUpvotesByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.ProfileResponse{
		User: models.ProfileUser{
			ID:        user.ID,
			Username:  user.Username,
			Avatar:    user.Avatar,
			Bio:       user.Bio,
			CreatedAt: user.CreatedAt,
		},
		Stats: models.UserStats{
			LinksSubmitted: linkCount,
			CommentsPosted: commentCount,
			TotalUpvotes:   totalUpvotes,
		},
	}, nil
}

// UpdateProfile edits the actor's own profile. newAvatar, when non-nil,
// replaces the stored avatar path ("" clears it). The previous avatar path
// is returned so the caller can remove the file from disk.
func (s *UserService) UpdateProfile(ctx context.Context, actorID, id primitive.ObjectID, req models.UpdateProfileRequest, newAvatar *string) (*models.User, string, error) {
	if actorID != id {
		return nil, "", fmt.Errorf("not the profile owner: %w", errs.ErrForbidden)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	prevAvatar := ""
	if newAvatar != nil {
		prevAvatar = user.Avatar
		user.Avatar = *newAvatar
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, "", err
	}
	return user, prevAvatar, nil
}

// ListUsers returns a page of accounts for the admin listing
func (s *UserService) ListUsers(ctx context.Context, q models.UserQuery, page, limit int) ([]models.User, models.Pagination, error) {
	q.Skip = int64((page - 1) * limit)
	q.Limit = int64(limit)
	users, total, err := s.users.List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return users, models.NewPagination(page, limit, total), nil
}

// ToggleStatus bans an active user or reactivates a banned one. Admin
// accounts cannot be banned.
func (s *UserService) ToggleStatus(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, fmt.Errorf("cannot modify admin users: %w", errs.ErrForbidden)
	}

	user.IsDeleted = !user.IsDeleted
	if user.IsDeleted {
		user.Status = models.StatusBanned
		now := time.Now()
		user.DeletedAt = &now
	} else {
		user.Status = models.StatusActive
		user.DeletedAt = nil
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user status toggled",
		zap.String("user", user.ID.Hex()), zap.String("status", user.Status))
	return user, nil
}
