// Package content holds the three content collections (posts, events,
// interview questions) sourced from the backend's posts resource and keeps
// them consistent with user-initiated mutations. Mutations are never
// optimistic: the in-memory state changes only after the backend confirms.
package content

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/anushkaEsdev/alumni-client/internal/api"
	"github.com/anushkaEsdev/alumni-client/internal/models"
	"github.com/anushkaEsdev/alumni-client/internal/notify"
)

// Authenticator is the slice of the session manager the store needs for its
// client-side auth gates.
type Authenticator interface {
	IsAuthenticated() bool
}

type Store struct {
	api    *api.Client
	auth   Authenticator
	notify notify.Notifier

	// today returns the current date as YYYY-MM-DD; injectable for tests.
	today func() string

	inflight *inflight

	mu        sync.RWMutex
	posts     []models.Post
	events    []models.Post
	questions []models.Post
	errMsg    string
	subs      []func()
}

func NewStore(client *api.Client, auth Authenticator, n notify.Notifier) *Store {
	return &Store{
		api:      client,
		auth:     auth,
		notify:   n,
		today:    func() string { return time.Now().Format("2006-01-02") },
		inflight: newInflight(),
	}
}

// SetToday overrides the current-date source used by UpcomingEvents.
func (s *Store) SetToday(fn func() string) { s.today = fn }

// LoadAll fetches the posts resource once and replaces all three collections
// atomically; events and questions are partitions of the same list. On
// failure the previous collections are kept and the error message recorded.
func (s *Store) LoadAll(ctx context.Context) error {
	ctx, done := s.inflight.begin(ctx, "load-all")
	defer done()

	var all []models.Post
	if err := s.api.Get(ctx, "/posts", &all); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		s.setError(errorMessage(err, "Failed to load data"))
		return err
	}

	var events, questions []models.Post
	for _, p := range all {
		switch p.Type {
		case models.PostTypeMeeting:
			events = append(events, p)
		case models.PostTypeInterview:
			questions = append(questions, p)
		}
	}

	s.mu.Lock()
	s.posts = all
	s.events = events
	s.questions = questions
	s.errMsg = ""
	s.mu.Unlock()
	s.changed()
	return nil
}

// Create sends a draft and prepends the backend's returned item, so
// most-recent-first ordering is visible without a refetch. Creates are never
// superseded: each draft is an independent item, and canceling a POST the
// backend may already have committed would lose it from the collections.
func (s *Store) Create(ctx context.Context, draft models.CreatePostRequest) (models.Post, error) {
	var created models.Post
	if err := s.api.Post(ctx, "/posts", draft, &created); err != nil {
		return models.Post{}, err
	}

	s.mu.Lock()
	s.posts = append([]models.Post{created}, s.posts...)
	switch created.Type {
	case models.PostTypeMeeting:
		s.events = append([]models.Post{created}, s.events...)
	case models.PostTypeInterview:
		s.questions = append([]models.Post{created}, s.questions...)
	}
	s.mu.Unlock()
	s.changed()

	s.notify.Success("Post created successfully!")
	return created, nil
}

func (s *Store) Update(ctx context.Context, id string, patch models.UpdatePostRequest) (models.Post, error) {
	ctx, done := s.inflight.begin(ctx, "update:"+id)
	defer done()

	var updated models.Post
	if err := s.api.Put(ctx, "/posts/"+id, patch, &updated); err != nil {
		return models.Post{}, err
	}

	s.replace(id, updated)
	s.notify.Success("Post updated successfully!")
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, done := s.inflight.begin(ctx, "delete:"+id)
	defer done()

	if err := s.api.Delete(ctx, "/posts/"+id, nil); err != nil {
		return err
	}

	s.mu.Lock()
	s.posts = removeByID(s.posts, id)
	s.events = removeByID(s.events, id)
	s.questions = removeByID(s.questions, id)
	s.mu.Unlock()
	s.changed()

	s.notify.Success("Post deleted successfully!")
	return nil
}

// AddComment appends a comment and swaps in the backend's returned parent
// item, which already includes it. Requires an active session; the gate runs
// before any network call. Like Create, comments are non-idempotent appends
// and never supersede each other, even on the same item.
func (s *Store) AddComment(ctx context.Context, postID, content string) error {
	if !s.auth.IsAuthenticated() {
		err := api.NotAuthenticated("You must be logged in to add a comment")
		s.notify.Error(err.Message)
		return err
	}

	var updated models.Post
	req := models.CreateCommentRequest{Content: content}
	if err := s.api.Post(ctx, "/posts/"+postID+"/comments", req, &updated); err != nil {
		return err
	}

	s.replace(postID, updated)
	s.notify.Success("Comment added successfully!")
	return nil
}

func (s *Store) Like(ctx context.Context, id string) error {
	if !s.auth.IsAuthenticated() {
		err := api.NotAuthenticated("You must be logged in to like a post")
		s.notify.Error(err.Message)
		return err
	}

	ctx, done := s.inflight.begin(ctx, "like:"+id)
	defer done()

	var updated models.Post
	if err := s.api.Post(ctx, "/posts/"+id+"/like", nil, &updated); err != nil {
		return err
	}
	s.replace(id, updated)
	return nil
}

func (s *Store) Unlike(ctx context.Context, id string) error {
	if !s.auth.IsAuthenticated() {
		err := api.NotAuthenticated("You must be logged in to like a post")
		s.notify.Error(err.Message)
		return err
	}

	ctx, done := s.inflight.begin(ctx, "like:"+id)
	defer done()

	var updated models.Post
	if err := s.api.Delete(ctx, "/posts/"+id+"/like", &updated); err != nil {
		return err
	}
	s.replace(id, updated)
	return nil
}

// Get is a read-through fetch of a single item; it does not touch the
// collections.
func (s *Store) Get(ctx context.Context, id string) (models.Post, error) {
	var post models.Post
	if err := s.api.Get(ctx, "/posts/"+id, &post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// Refresh re-fetches only the posts collection, leaving events and questions
// alone. Its failure is the one swallowed error in the client: callers get a
// notification but no error value.
func (s *Store) Refresh(ctx context.Context) {
	ctx, done := s.inflight.begin(ctx, "refresh")
	defer done()

	var all []models.Post
	if err := s.api.Get(ctx, "/posts", &all); err != nil {
		return
	}

	s.mu.Lock()
	s.posts = all
	s.mu.Unlock()
	s.changed()
}

// ByType filters the posts collection by variant. Pure in-memory read.
func (s *Store) ByType(t models.PostType) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Post
	for _, p := range s.posts {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

// UpcomingEvents returns meeting posts dated today or later, ascending by
// date. Dates are canonical YYYY-MM-DD, so lexicographic comparison is
// chronological.
func (s *Store) UpcomingEvents() []models.Post {
	today := s.today()

	s.mu.RLock()
	var out []models.Post
	for _, p := range s.posts {
		if p.Type == models.PostTypeMeeting && p.MeetingDate != "" && p.MeetingDate >= today {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	sortByMeetingDate(out)
	return out
}

func (s *Store) Posts() []models.Post     { return s.copyOf(&s.posts) }
func (s *Store) Events() []models.Post    { return s.copyOf(&s.events) }
func (s *Store) Questions() []models.Post { return s.copyOf(&s.questions) }

// Err returns the message recorded by the last failed LoadAll, or "" after a
// successful one.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// Subscribe registers a callback invoked after every collection change,
// outside the store's lock.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) copyOf(src *[]models.Post) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, len(*src))
	copy(out, *src)
	return out
}

// replace swaps the matching item in every collection, keeping its position.
func (s *Store) replace(id string, updated models.Post) {
	s.mu.Lock()
	replaceByID(s.posts, id, updated)
	replaceByID(s.events, id, updated)
	replaceByID(s.questions, id, updated)
	s.mu.Unlock()
	s.changed()
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func (s *Store) changed() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

func replaceByID(list []models.Post, id string, updated models.Post) {
	for i := range list {
		if list[i].ID == id {
			list[i] = updated
			return
		}
	}
}

func removeByID(list []models.Post, id string) []models.Post {
	for i := range list {
		if list[i].ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func sortByMeetingDate(list []models.Post) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].MeetingDate < list[j].MeetingDate
	})
}

func errorMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
