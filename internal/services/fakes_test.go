package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/linkhive/backend/internal/errs"
	"github.com/linkhive/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// In-memory repositories backing the service tests. They mirror the guarded
// update semantics of the Mongo implementations: a conditional update whose
// filter matches nothing reports ErrNotFound.

func testLogger() *zap.Logger {
	return zap.NewNop()
}

// fakeClock hands out strictly increasing timestamps so sort orders in the
// fakes are deterministic.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) next() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// --- links ---

type fakeLinkRepo struct {
	clock *fakeClock
	links map[primitive.ObjectID]*models.Link
	order []primitive.ObjectID

	adjustCommentCountErr error
}

func newFakeLinkRepo(clock *fakeClock) *fakeLinkRepo {
	return &fakeLinkRepo{clock: clock, links: make(map[primitive.ObjectID]*models.Link)}
}

func (r *fakeLinkRepo) Create(_ context.Context, link *models.Link) error {
	link.ID = primitive.NewObjectID()
	link.Upvotes = []primitive.ObjectID{}
	link.UpvoteCount = 0
	link.CommentCount = 0
	link.Views = 0
	link.CreatedAt = r.clock.next()
	link.UpdatedAt = link.CreatedAt
	stored := *link
	r.links[link.ID] = &stored
	r.order = append(r.order, link.ID)
	return nil
}

func (r *fakeLinkRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Link, error) {
	link, ok := r.links[id]
	if !ok {
		return nil, fmt.Errorf("link %s: %w", id.Hex(), errs.ErrNotFound)
	}
	out := *link
	return &out, nil
}

func (r *fakeLinkRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Link, error) {
	out := []models.Link{}
	for _, id := range ids {
		if link, ok := r.links[id]; ok {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (r *fakeLinkRepo) List(_ context.Context, q models.LinkQuery) ([]models.Link, int64, error) {
	matched := []models.Link{}
	for _, id := range r.order {
		link, ok := r.links[id]
		if !ok {
			continue
		}
		if q.Category != "" && link.Category != q.Category {
			continue
		}
		if len(q.Tags) > 0 && !hasAnyTag(link.Tags, q.Tags) {
			continue
		}
		if q.Author != nil && link.Author != *q.Author {
			continue
		}
		matched = append(matched, *link)
	}
	switch q.Sort {
	case models.SortTrending:
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].UpvoteCount != matched[j].UpvoteCount {
				return matched[i].UpvoteCount > matched[j].UpvoteCount
			}
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	case models.SortTop:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].UpvoteCount > matched[j].UpvoteCount
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	}
	total := int64(len(matched))
	matched = pageOf(matched, q.Skip, q.Limit)
	return matched, total, nil
}

func (r *fakeLinkRepo) Update(_ context.Context, link *models.Link) error {
	if _, ok := r.links[link.ID]; !ok {
		return fmt.Errorf("link %s: %w", link.ID.Hex(), errs.ErrNotFound)
	}
	link.UpdatedAt = r.clock.next()
	stored := *link
	r.links[link.ID] = &stored
	return nil
}

func (r *fakeLinkRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.links[id]; !ok {
		return fmt.Errorf("link %s: %w", id.Hex(), errs.ErrNotFound)
	}
	delete(r.links, id)
	return nil
}

func (r *fakeLinkRepo) IncrementViews(_ context.Context, id primitive.ObjectID) (*models.Link, error) {
	link, ok := r.links[id]
	if !ok {
		return nil, fmt.Errorf("link %s: %w", id.Hex(), errs.ErrNotFound)
	}
	link.Views++
	out := *link
	return &out, nil
}

func (r *fakeLinkRepo) AddUpvote(_ context.Context, id, userID primitive.ObjectID) (*models.Link, error) {
	link, ok := r.links[id]
	if !ok || link.HasUpvoteFrom(userID) {
		return nil, fmt.Errorf("link %s: %w", id.Hex(), errs.ErrNotFound)
	}
	link.Upvotes = append(link.Upvotes, userID)
	link.UpvoteCount++
	out := *link
	return &out, nil
}

func (r *fakeLinkRepo) RemoveUpvote(_ context.Context, id, userID primitive.ObjectID) (*models.Link, error) {
	link, ok := r.links[id]
	if !ok || !link.HasUpvoteFrom(userID) {
		return nil, fmt.Errorf("link %s: %w", id.Hex(), errs.ErrNotFound)
	}
	kept := link.Upvotes[:0]
	for _, u := range link.Upvotes {
		if u != userID {
			kept = append(kept, u)
		}
	}
	link.Upvotes = kept
	link.UpvoteCount--
	out := *link
	return &out, nil
}

func (r *fakeLinkRepo) AdjustCommentCount(_ context.Context, id primitive.ObjectID, delta int) error {
	if r.adjustCommentCountErr != nil {
		return r.adjustCommentCountErr
	}
	link, ok := r.links[id]
	if !ok {
		return fmt.Errorf("link %s: %w", id.Hex(), errs.ErrNotFound)
	}
	link.CommentCount += delta
	if link.CommentCount < 0 {
		link.CommentCount = 0
	}
	return nil
}

func (r *fakeLinkRepo) CountByAuthor(_ context.Context, author primitive.ObjectID) (int64, error) {
	var n int64
	for _, link := range r.links {
		if link.Author == author {
			n++
		}
	}
	return n, nil
}

func (r *fakeLinkRepo) SumUpvotesByAuthor(_ context.Context, author primitive.ObjectID) (int64, error) {
	var n int64
	for _, link := range r.links {
		if link.Author == author {
			n += int64(link.UpvoteCount)
		}
	}
	return n, nil
}

// --- comments ---

type fakeCommentRepo struct {
	clock    *fakeClock
	comments map[primitive.ObjectID]*models.Comment
	order    []primitive.ObjectID

	pushReplyErr    error
	deleteByLinkErr error
}

func newFakeCommentRepo(clock *fakeClock) *fakeCommentRepo {
	return &fakeCommentRepo{clock: clock, comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.Replies = []primitive.ObjectID{}
	comment.CreatedAt = r.clock.next()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	r.comments[comment.ID] = &stored
	r.order = append(r.order, comment.ID)
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id.Hex(), errs.ErrNotFound)
	}
	out := *comment
	return &out, nil
}

func (r *fakeCommentRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, id := range ids {
		if comment, ok := r.comments[id]; ok {
			out = append(out, *comment)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCommentRepo) FindTopLevelByLink(_ context.Context, linkID primitive.ObjectID) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, id := range r.order {
		comment, ok := r.comments[id]
		if !ok {
			continue
		}
		if comment.Link == linkID && comment.ParentComment == nil {
			out = append(out, *comment)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCommentRepo) FindByParent(_ context.Context, parentID primitive.ObjectID) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, id := range r.order {
		comment, ok := r.comments[id]
		if !ok {
			continue
		}
		if comment.ParentComment != nil && *comment.ParentComment == parentID {
			out = append(out, *comment)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) FindByAuthor(_ context.Context, author primitive.ObjectID, skip, limit int64) ([]models.Comment, int64, error) {
	matched := []models.Comment{}
	for _, id := range r.order {
		comment, ok := r.comments[id]
		if !ok {
			continue
		}
		if comment.Author == author {
			matched = append(matched, *comment)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	return pageOf(matched, skip, limit), total, nil
}

func (r *fakeCommentRepo) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id.Hex(), errs.ErrNotFound)
	}
	comment.Content = content
	comment.UpdatedAt = r.clock.next()
	out := *comment
	return &out, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.comments[id]; !ok {
		return fmt.Errorf("comment %s: %w", id.Hex(), errs.ErrNotFound)
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByLink(_ context.Context, linkID primitive.ObjectID) (int64, error) {
	if r.deleteByLinkErr != nil {
		return 0, r.deleteByLinkErr
	}
	var removed int64
	for id, comment := range r.comments {
		if comment.Link == linkID {
			delete(r.comments, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeCommentRepo) PushReply(_ context.Context, parentID, childID primitive.ObjectID) error {
	if r.pushReplyErr != nil {
		return r.pushReplyErr
	}
	parent, ok := r.comments[parentID]
	if !ok {
		return fmt.Errorf("comment %s: %w", parentID.Hex(), errs.ErrNotFound)
	}
	parent.Replies = append(parent.Replies, childID)
	return nil
}

func (r *fakeCommentRepo) PullReply(_ context.Context, parentID, childID primitive.ObjectID) error {
	parent, ok := r.comments[parentID]
	if !ok {
		return fmt.Errorf("comment %s: %w", parentID.Hex(), errs.ErrNotFound)
	}
	kept := parent.Replies[:0]
	for _, id := range parent.Replies {
		if id != childID {
			kept = append(kept, id)
		}
	}
	parent.Replies = kept
	return nil
}

func (r *fakeCommentRepo) CountByLink(_ context.Context, linkID primitive.ObjectID) (int64, error) {
	var n int64
	for _, comment := range r.comments {
		if comment.Link == linkID {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) CountByAuthor(_ context.Context, author primitive.ObjectID) (int64, error) {
	var n int64
	for _, comment := range r.comments {
		if comment.Author == author {
			n++
		}
	}
	return n, nil
}

// --- users ---

type fakeUserRepo struct {
	clock *fakeClock
	users map[primitive.ObjectID]*models.User
	order []primitive.ObjectID
}

func newFakeUserRepo(clock *fakeClock) *fakeUserRepo {
	return &fakeUserRepo{clock: clock, users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return fmt.Errorf("username or email already taken: %w", errs.ErrConflict)
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = r.clock.next()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	r.order = append(r.order, user.ID)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), errs.ErrNotFound)
	}
	out := *user
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, errs.ErrNotFound)
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			out := *user
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, errs.ErrNotFound)
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	out := []models.User{}
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List(_ context.Context, q models.UserQuery) ([]models.User, int64, error) {
	matched := []models.User{}
	for _, id := range r.order {
		user, ok := r.users[id]
		if !ok {
			continue
		}
		if q.Search != "" &&
			!strings.Contains(strings.ToLower(user.Username), strings.ToLower(q.Search)) &&
			!strings.Contains(strings.ToLower(user.Email), strings.ToLower(q.Search)) {
			continue
		}
		if q.Role != "" && user.Role != q.Role {
			continue
		}
		if q.Status == models.StatusActive && user.IsDeleted {
			continue
		}
		if q.Status == models.StatusBanned && !user.IsDeleted {
			continue
		}
		matched = append(matched, *user)
	}
	total := int64(len(matched))
	return pageOf(matched, q.Skip, q.Limit), total, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID.Hex(), errs.ErrNotFound)
	}
	user.UpdatedAt = r.clock.next()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

// testEnv wires the services against the in-memory repositories
type testEnv struct {
	users    *fakeUserRepo
	links    *fakeLinkRepo
	comments *fakeCommentRepo

	userService    *UserService
	linkService    *LinkService
	commentService *CommentService
}

func newTestEnv() *testEnv {
	clock := newFakeClock()
	users := newFakeUserRepo(clock)
	links := newFakeLinkRepo(clock)
	comments := newFakeCommentRepo(clock)
	log := testLogger()
	return &testEnv{
		users:          users,
		links:          links,
		comments:       comments,
		userService:    NewUserService(users, links, comments, log),
		linkService:    NewLinkService(links, comments, users, log),
		commentService: NewCommentService(comments, links, users, log),
	}
}

func (e *testEnv) addUser(username string) *models.User {
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

func (e *testEnv) addLink(author primitive.ObjectID, title string) *models.Link {
	link := &models.Link{
		Title:    title,
		URL:      "https://example.com/" + title,
		Author:   author,
		Category: "Technology",
	}
	if err := e.links.Create(context.Background(), link); err != nil {
		panic(err)
	}
	return link
}

func (e *testEnv) addComment(author, linkID primitive.ObjectID, parent *primitive.ObjectID, content string) *models.CommentResponse {
	req := models.CreateCommentRequest{Content: content, LinkID: linkID.Hex()}
	if parent != nil {
		req.ParentCommentID = parent.Hex()
	}
	resp, err := e.commentService.Create(context.Background(), author, req)
	if err != nil {
		panic(err)
	}
	return resp
}

func hasAnyTag(tags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range tags {
			if t == w {
				return true
			}
		}
	}
	return false
}

func pageOf[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}
