package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles and statuses stored on the user document.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive = "active"
	StatusBanned = "banned"
)

// User represents a registered account stored in MongoDB
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Avatar    string             `json:"avatar" bson:"avatar"`
	Bio       string             `json:"bio" bson:"bio"`
	Role      string             `json:"role" bson:"role"`
	Status    string             `json:"status" bson:"status"`
	IsDeleted bool               `json:"isDeleted" bson:"isDeleted"`
	DeletedAt *time.Time         `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserCompact is the public author projection attached to links and comments
type UserCompact struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	Avatar   string             `json:"avatar" bson:"avatar"`
}

// ToCompact returns the public projection of a user
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SignupRequest defines the request body for registering a new account
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// LoginRequest defines the request body for signing in
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the mutable profile fields; the avatar file
// itself arrives as multipart form data next to these fields. Bio is a
// pointer so an omitted field keeps the stored value while an empty string
// clears it.
type UpdateProfileRequest struct {
	Username     string  `json:"username" form:"username" validate:"omitempty,min=3,max=30,username"`
	Bio          *string `json:"bio" form:"bio" validate:"omitempty,max=500"`
	RemoveAvatar string  `json:"removeAvatar" form:"removeAvatar"`
}

// UserQuery filters the admin user listing
type UserQuery struct {
	Search string
	Role   string
	Status string
	Skip   int64
	Limit  int64
}

// UserStats aggregates a user's public activity counters
type UserStats struct {
	LinksSubmitted int64 `json:"linksSubmitted"`
	CommentsPosted int64 `json:"commentsPosted"`
	TotalUpvotes   int64 `json:"totalUpvotes"`
}

// ProfileUser is the public subset of a user document
type ProfileUser struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	Avatar    string             `json:"avatar"`
	Bio       string             `json:"bio"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ProfileResponse is the public profile payload
type ProfileResponse struct {
	User  ProfileUser `json:"user"`
	Stats UserStats   `json:"stats"`
}
