package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/linkhive/backend/internal/errs"
	"github.com/linkhive/backend/internal/models"
	"github.com/linkhive/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// LinkService owns the link lifecycle and the upvote ledger: one vote per
// user per link, toggled, with the stored counter always matching the size
// of the upvote set.
type LinkService struct {
	links    repositories.LinkRepository
	comments repositories.CommentRepository
	users    repositories.UserRepository
	log      *zap.Logger
}

// NewLinkService creates a new LinkService
func NewLinkService(
	linkRepo repositories.LinkRepository,
	commentRepo repositories.CommentRepository,
	userRepo repositories.UserRepository,
	log *zap.Logger,
) *LinkService {
	return &LinkService{
		links:    linkRepo,
		comments: commentRepo,
		users:    userRepo,
		log:      log,
	}
}

// Create submits a new link authored by the actor
func (s *LinkService) Create(ctx context.Context, actorID primitive.ObjectID, req models.CreateLinkRequest) (*models.LinkResponse, error) {
	link := &models.Link{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Author:      actorID,
		Category:    req.Category,
		Tags:        req.Tags,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, link)
}

// Get retrieves a link by id, counting the read as a view
func (s *LinkService) Get(ctx context.Context, id primitive.ObjectID) (*models.LinkResponse, error) {
	link, err := s.links.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, link)
}

// List retrieves links matching the filter with pagination metadata
func (s *LinkService) List(ctx context.Context, q models.LinkQuery, page, limit int) ([]models.LinkResponse, models.Pagination, error) {
	q.Skip = int64((page - 1) * limit)
	q.Limit = int64(limit)
	links, total, err := s.links.List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	items, err := s.withAuthors(ctx, links)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return items, models.NewPagination(page, limit, total), nil
}

// ListByUser retrieves a page of links submitted by a user, newest first
func (s *LinkService) ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.LinkResponse, models.Pagination, error) {
	q := models.LinkQuery{Author: &userID, Sort: models.SortLatest}
	return s.List(ctx, q, page, limit)
}

// Update edits a link's fields. Only the author may edit. Absent fields keep
// their stored values; description and imageUrl may be cleared explicitly.
func (s *LinkService) Update(ctx context.Context, actorID, id primitive.ObjectID, req models.UpdateLinkRequest) (*models.LinkResponse, error) {
	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.Author != actorID {
		return nil, fmt.Errorf("not the link author: %w", errs.ErrForbidden)
	}

	if req.Title != "" {
		link.Title = req.Title
	}
	if req.URL != "" {
		link.URL = req.URL
	}
	if req.Description != nil {
		link.Description = *req.Description
	}
	if req.ImageURL != nil {
		link.ImageURL = *req.ImageURL
	}
	if req.Category != "" {
		link.Category = req.Category
	}
	if req.Tags != nil {
		link.Tags = req.Tags
	}

	if err := s.links.Update(ctx, link); err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, link)
}

// Delete removes a link and every comment attached to it. Only the author
// may delete.
func (s *LinkService) Delete(ctx context.Context, actorID, id primitive.ObjectID) error {
	link, err := s.links.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if link.Author != actorID {
		return fmt.Errorf("not the link author: %w", errs.ErrForbidden)
	}

	if err := s.links.Delete(ctx, id); err != nil {
		return err
	}
	removed, err := s.comments.DeleteByLink(ctx, id)
	if err != nil {
		return fmt.Errorf("delete link comments: %w", err)
	}
	if removed > 0 {
		s.log.Info("deleted link comments",
			zap.String("link", id.Hex()), zap.Int64("removed", removed))
	}
	return nil
}

// ToggleUpvote flips the actor's vote on a link. Membership in the stored
// upvote set picks the branch; the branch itself runs as a guarded atomic
// update, so two racing toggles by the same actor cannot double-count. The
// returned state reflects the document after the mutation.
func (s *LinkService) ToggleUpvote(ctx context.Context, actorID, linkID primitive.ObjectID) (*models.UpvoteResult, error) {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	hasUpvoted := link.HasUpvoteFrom(actorID)

	var updated *models.Link
	if hasUpvoted {
		updated, err = s.links.RemoveUpvote(ctx, linkID, actorID)
	} else {
		updated, err = s.links.AddUpvote(ctx, linkID, actorID)
	}
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			// Lost a race with a concurrent toggle by the same actor;
			// report the current state instead of mutating twice.
			current, gerr := s.links.GetByID(ctx, linkID)
			if gerr != nil {
				return nil, gerr
			}
			return &models.UpvoteResult{
				UpvoteCount: current.UpvoteCount,
				HasUpvoted:  current.HasUpvoteFrom(actorID),
			}, nil
		}
		return nil, err
	}

	return &models.UpvoteResult{
		UpvoteCount: updated.UpvoteCount,
		HasUpvoted:  !hasUpvoted,
	}, nil
}

func (s *LinkService) withAuthor(ctx context.Context, link *models.Link) (*models.LinkResponse, error) {
	author, err := s.users.GetByID(ctx, link.Author)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			resp := models.NewLinkResponse(*link, models.UserCompact{ID: link.Author})
			return &resp, nil
		}
		return nil, err
	}
	resp := models.NewLinkResponse(*link, author.ToCompact())
	return &resp, nil
}

func (s *LinkService) withAuthors(ctx context.Context, links []models.Link) ([]models.LinkResponse, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(links))
	seen := make(map[primitive.ObjectID]struct{}, len(links))
	for _, l := range links {
		if _, ok := seen[l.Author]; ok {
			continue
		}
		seen[l.Author] = struct{}{}
		authorIDs = append(authorIDs, l.Author)
	}

	users, err := s.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	authors := make(map[primitive.ObjectID]models.UserCompact, len(users))
	for i := range users {
		authors[users[i].ID] = users[i].ToCompact()
	}

	items := make([]models.LinkResponse, 0, len(links))
	for _, l := range links {
		author, ok := authors[l.Author]
		if !ok {
			author = models.UserCompact{ID: l.Author}
		}
		items = append(items, models.NewLinkResponse(l, author))
	}
	return items, nil
}
