package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog represents an editorial post published by the site team
type Blog struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title     string             `json:"title" bson:"title"`
	Content   string             `json:"content" bson:"content"`
	Excerpt   string             `json:"excerpt" bson:"excerpt"`
	Author    string             `json:"author" bson:"author"`
	Image     string             `json:"image" bson:"image"`
	Category  string             `json:"category" bson:"category"`
	Tags      []string           `json:"tags" bson:"tags"`
	Slug      string             `json:"slug,omitempty" bson:"slug,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateBlogRequest defines the request body for publishing a blog post.
// The cover image arrives as multipart form data next to these fields.
type CreateBlogRequest struct {
	Title    string   `json:"title" form:"title" validate:"required"`
	Content  string   `json:"content" form:"content" validate:"required"`
	Excerpt  string   `json:"excerpt" form:"excerpt" validate:"required"`
	Category string   `json:"category" form:"category" validate:"required"`
	Tags     []string `json:"tags" form:"tags"`
}

// UpdateBlogRequest defines the request body for editing a blog post
type UpdateBlogRequest struct {
	Title    string   `json:"title" form:"title"`
	Content  string   `json:"content" form:"content"`
	Excerpt  string   `json:"excerpt" form:"excerpt"`
	Category string   `json:"category" form:"category"`
	Tags     []string `json:"tags" form:"tags"`
}

// BlogQuery filters and paginates the blog listing
type BlogQuery struct {
	Search   string
	Category string
	Skip     int64
	Limit    int64
}
