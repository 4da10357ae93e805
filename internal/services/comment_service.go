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

// CommentService owns the comment tree on links: creation, editing, cascading
// deletion, and the denormalized bookkeeping on parents (reply lists) and
// links (comment counters).
type CommentService struct {
	comments repositories.CommentRepository
	links    repositories.LinkRepository
	users    repositories.UserRepository
	log      *zap.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repositories.CommentRepository,
	linkRepo repositories.LinkRepository,
	userRepo repositories.UserRepository,
	log *zap.Logger,
) *CommentService {
	return &CommentService{
		comments: commentRepo,
		links:    linkRepo,
		users:    userRepo,
		log:      log,
	}
}

// Create posts a comment on a link, optionally as a reply to another comment.
// A reply is appended to its parent's reply list; either way the link's
// comment counter goes up by one.
func (s *CommentService) Create(ctx context.Context, actorID primitive.ObjectID, req models.CreateCommentRequest) (*models.CommentResponse, error) {
	linkID, err := primitive.ObjectIDFromHex(req.LinkID)
	if err != nil {
		return nil, fmt.Errorf("link id: %w", errs.ErrInvalidInput)
	}

	if _, err := s.links.GetByID(ctx, linkID); err != nil {
		return nil, err
	}

	var parentID *primitive.ObjectID
	if req.ParentCommentID != "" {
		id, err := primitive.ObjectIDFromHex(req.ParentCommentID)
		if err != nil {
			return nil, fmt.Errorf("parent comment id: %w", errs.ErrInvalidInput)
		}
		if _, err := s.comments.GetByID(ctx, id); err != nil {
			return nil, err
		}
		parentID = &id
	}

	comment := &models.Comment{
		Content:       req.Content,
		Author:        actorID,
		Link:          linkID,
		ParentComment: parentID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if parentID != nil {
		if err := s.comments.PushReply(ctx, *parentID, comment.ID); err != nil {
			return nil, fmt.Errorf("link reply to parent: %w", err)
		}
	}
	if err := s.links.AdjustCommentCount(ctx, linkID, 1); err != nil {
		return nil, fmt.Errorf("bump comment count: %w", err)
	}

	author, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	resp := models.NewCommentResponse(*comment, author.ToCompact())
	return &resp, nil
}

// Update replaces a comment's content. Only the author may edit.
func (s *CommentService) Update(ctx context.Context, actorID, commentID primitive.ObjectID, content string) (*models.CommentResponse, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.Author != actorID {
		return nil, fmt.Errorf("not the comment author: %w", errs.ErrForbidden)
	}

	updated, err := s.comments.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	resp := models.NewCommentResponse(*updated, author.ToCompact())
	return &resp, nil
}

// Delete removes a comment and its whole reply subtree. The ownership check
// covers only the targeted comment; descendants posted by other users are
// force-removed so the thread leaves no orphans. Descendants are deleted
// before their ancestors, the targeted comment last, then the target is
// detached from its parent's reply list and the link's comment counter drops
// by the number of comments actually removed.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID primitive.ObjectID) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.Author != actorID {
		return fmt.Errorf("not the comment author: %w", errs.ErrForbidden)
	}

	ids, err := s.collectSubtree(ctx, commentID)
	if err != nil {
		return err
	}

	// ids is in breadth-first order, so walking it backwards removes the
	// deepest descendants first.
	removed := 0
	for i := len(ids) - 1; i >= 0; i-- {
		if err := s.comments.Delete(ctx, ids[i]); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				continue
			}
			return err
		}
		removed++
	}

	if comment.ParentComment != nil {
		// A vanished parent is fine; anything else must surface, or the
		// parent keeps a reply id pointing at nothing.
		if err := s.comments.PullReply(ctx, *comment.ParentComment, comment.ID); err != nil && !errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("detach comment from parent: %w", err)
		}
	}

	if removed > 0 {
		if err := s.links.AdjustCommentCount(ctx, comment.Link, -removed); err != nil {
			return fmt.Errorf("drop comment count: %w", err)
		}
	}
	s.log.Info("comment subtree deleted",
		zap.String("comment", commentID.Hex()), zap.Int("removed", removed))
	return nil
}

// collectSubtree gathers the ids of a comment and all its descendants using
// an explicit work list, so deep threads cannot grow the call stack.
func (s *CommentService) collectSubtree(ctx context.Context, rootID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids := []primitive.ObjectID{rootID}
	for i := 0; i < len(ids); i++ {
		children, err := s.comments.FindByParent(ctx, ids[i])
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			ids = append(ids, child.ID)
		}
	}
	return ids, nil
}

// ListByLink returns a link's top-level comments, newest first, each with its
// author and one level of replies resolved.
func (s *CommentService) ListByLink(ctx context.Context, linkID primitive.ObjectID) ([]models.ThreadComment, error) {
	topLevel, err := s.comments.FindTopLevelByLink(ctx, linkID)
	if err != nil {
		return nil, err
	}

	var replyIDs []primitive.ObjectID
	for _, c := range topLevel {
		replyIDs = append(replyIDs, c.Replies...)
	}
	replies, err := s.comments.FindByIDs(ctx, replyIDs)
	if err != nil {
		return nil, err
	}
	repliesByParent := make(map[primitive.ObjectID][]models.Comment)
	for _, reply := range replies {
		if reply.ParentComment == nil {
			continue
		}
		repliesByParent[*reply.ParentComment] = append(repliesByParent[*reply.ParentComment], reply)
	}

	authorIDs := make([]primitive.ObjectID, 0, len(topLevel)+len(replies))
	for _, c := range topLevel {
		authorIDs = append(authorIDs, c.Author)
	}
	for _, c := range replies {
		authorIDs = append(authorIDs, c.Author)
	}
	authors, err := s.resolveAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	thread := make([]models.ThreadComment, 0, len(topLevel))
	for _, c := range topLevel {
		item := models.ThreadComment{
			ID:        c.ID,
			Content:   c.Content,
			Author:    authors[c.Author],
			Link:      c.Link,
			Replies:   []models.CommentResponse{},
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
		for _, reply := range repliesByParent[c.ID] {
			item.Replies = append(item.Replies, models.NewCommentResponse(reply, authors[reply.Author]))
		}
		thread = append(thread, item)
	}
	return thread, nil
}

// ListByUser returns a page of a user's comments, newest first, with their
// link titles resolved.
func (s *CommentService) ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.UserComment, models.Pagination, error) {
	skip := int64((page - 1) * limit)
	comments, total, err := s.comments.FindByAuthor(ctx, userID, skip, int64(limit))
	if err != nil {
		return nil, models.Pagination{}, err
	}

	linkIDs := make([]primitive.ObjectID, 0, len(comments))
	for _, c := range comments {
		linkIDs = append(linkIDs, c.Link)
	}
	links, err := s.links.FindByIDs(ctx, linkIDs)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	titles := make(map[primitive.ObjectID]string, len(links))
	for _, l := range links {
		titles[l.ID] = l.Title
	}

	authors, err := s.resolveAuthors(ctx, []primitive.ObjectID{userID})
	if err != nil {
		return nil, models.Pagination{}, err
	}

	items := make([]models.UserComment, 0, len(comments))
	for _, c := range comments {
		items = append(items, models.UserComment{
			ID:        c.ID,
			Content:   c.Content,
			Author:    authors[c.Author],
			Link:      models.LinkRef{ID: c.Link, Title: titles[c.Link]},
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return items, models.NewPagination(page, limit, total), nil
}

func (s *CommentService) resolveAuthors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserCompact, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	unique := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := s.users.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	authors := make(map[primitive.ObjectID]models.UserCompact, len(users))
	for i := range users {
		authors[users[i].ID] = users[i].ToCompact()
	}
	return authors, nil
}
