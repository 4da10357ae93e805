package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories a link can be filed under.
var LinkCategories = []string{
	"Technology",
	"Design",
	"Business",
	"Science",
	"Entertainment",
	"Health",
	"Education",
	"Other",
}

// Link represents a shared bookmark stored in MongoDB
type Link struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title        string               `json:"title" bson:"title"`
	URL          string               `json:"url" bson:"url"`
	Description  string               `json:"description" bson:"description"`
	ImageURL     string               `json:"imageUrl" bson:"imageUrl"`
	Author       primitive.ObjectID   `json:"author" bson:"author"`
	Category     string               `json:"category" bson:"category"`
	Tags         []string             `json:"tags" bson:"tags"`
	Upvotes      []primitive.ObjectID `json:"upvotes" bson:"upvotes"`
	UpvoteCount  int                  `json:"upvoteCount" bson:"upvoteCount"`
	CommentCount int                  `json:"commentCount" bson:"commentCount"`
	Views        int                  `json:"views" bson:"views"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// HasUpvoteFrom reports whether the given user is present in the upvote set
func (l *Link) HasUpvoteFrom(userID primitive.ObjectID) bool {
	for _, id := range l.Upvotes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateLinkRequest defines the request body for submitting a link
type CreateLinkRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	URL         string   `json:"url" validate:"required,url"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	Category    string   `json:"category" validate:"required,oneof=Technology Design Business Science Entertainment Health Education Other"`
	Tags        []string `json:"tags" validate:"max=10"`
}

// UpdateLinkRequest defines the request body for editing a link; zero values
// leave the stored field untouched.
type UpdateLinkRequest struct {
	Title       string   `json:"title" validate:"omitempty,max=200"`
	URL         string   `json:"url" validate:"omitempty,url"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	ImageURL    *string  `json:"imageUrl"`
	Category    string   `json:"category" validate:"omitempty,oneof=Technology Design Business Science Entertainment Health Education Other"`
	Tags        []string `json:"tags" validate:"omitempty,max=10"`
}

// Link listing sort modes.
const (
	SortLatest   = "latest"
	SortTrending = "trending"
	SortTop      = "top"
)

// LinkQuery filters and paginates the link listing
type LinkQuery struct {
	Category string
	Tags     []string
	Author   *primitive.ObjectID
	Sort     string
	Skip     int64
	Limit    int64
}

// LinkResponse is a link with its author resolved for display
type LinkResponse struct {
	ID           primitive.ObjectID   `json:"id"`
	Title        string               `json:"title"`
	URL          string               `json:"url"`
	Description  string               `json:"description"`
	ImageURL     string               `json:"imageUrl"`
	Author       UserCompact          `json:"author"`
	Category     string               `json:"category"`
	Tags         []string             `json:"tags"`
	Upvotes      []primitive.ObjectID `json:"upvotes"`
	UpvoteCount  int                  `json:"upvoteCount"`
	CommentCount int                  `json:"commentCount"`
	Views        int                  `json:"views"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// NewLinkResponse attaches the author projection to a link
func NewLinkResponse(l Link, author UserCompact) LinkResponse {
	return LinkResponse{
		ID:           l.ID,
		Title:        l.Title,
		URL:          l.URL,
		Description:  l.Description,
		ImageURL:     l.ImageURL,
		Author:       author,
		Category:     l.Category,
		Tags:         l.Tags,
		Upvotes:      l.Upvotes,
		UpvoteCount:  l.UpvoteCount,
		CommentCount: l.CommentCount,
		Views:        l.Views,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// UpvoteResult is the outcome of an upvote toggle
type UpvoteResult struct {
	UpvoteCount int  `json:"upvoteCount"`
	HasUpvoted  bool `json:"hasUpvoted"`
}

// LinkMetadata is the scraped preview of an external page
type LinkMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	SiteName    string `json:"siteName,omitempty"`
}

// PreviewRequest carries the URL to scrape a preview from
type PreviewRequest struct {
	URL string `json:"url" validate:"required,url"`
}
