package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a link, stored in MongoDB. Replies hold the
// ids of direct children; every child's parentComment points back here.
type Comment struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Content       string               `json:"content" bson:"content"`
	Author        primitive.ObjectID   `json:"author" bson:"author"`
	Link          primitive.ObjectID   `json:"link" bson:"link"`
	ParentComment *primitive.ObjectID  `json:"parentComment,omitempty" bson:"parentComment,omitempty"`
	Replies       []primitive.ObjectID `json:"replies" bson:"replies"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// CreateCommentRequest defines the request body for posting a comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=2000"`
	LinkID          string `json:"linkId" validate:"required,len=24,hexadecimal"`
	ParentCommentID string `json:"parentCommentId" validate:"omitempty,len=24,hexadecimal"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// CommentResponse is a comment with its author resolved for display
type CommentResponse struct {
	ID            primitive.ObjectID   `json:"id"`
	Content       string               `json:"content"`
	Author        UserCompact          `json:"author"`
	Link          primitive.ObjectID   `json:"link"`
	ParentComment *primitive.ObjectID  `json:"parentComment,omitempty"`
	Replies       []primitive.ObjectID `json:"replies"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// NewCommentResponse attaches the author projection to a comment
func NewCommentResponse(c Comment, author UserCompact) CommentResponse {
	return CommentResponse{
		ID:            c.ID,
		Content:       c.Content,
		Author:        author,
		Link:          c.Link,
		ParentComment: c.ParentComment,
		Replies:       c.Replies,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ThreadComment is a top-level comment with one level of replies resolved
type ThreadComment struct {
	ID        primitive.ObjectID `json:"id"`
	Content   string             `json:"content"`
	Author    UserCompact        `json:"author"`
	Link      primitive.ObjectID `json:"link"`
	Replies   []CommentResponse  `json:"replies"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// LinkRef is the link projection attached to a user's comment history
type LinkRef struct {
	ID    primitive.ObjectID `json:"id"`
	Title string             `json:"title"`
}

// UserComment is a comment in a user's history with its link resolved
type UserComment struct {
	ID        primitive.ObjectID `json:"id"`
	Content   string             `json:"content"`
	Author    UserCompact        `json:"author"`
	Link      LinkRef            `json:"link"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
