package stubserver

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anushkaEsdev/alumni-client/internal/models"
)

var (
	errNotFound      = errors.New("not found")
	errDuplicate     = errors.New("duplicate email")
	errNotAuthorized = errors.New("not authorized")
)

type account struct {
	models.User
	PasswordHash []byte
	ResetToken   string
}

// memStore is the stub backend's entire persistence layer: two guarded maps
// and an ordered post list, newest first. Account accessors return copies so
// no pointer into the maps escapes the lock; handlers read hashes and
// snapshots from their copy while mutations rewrite the stored one.
type memStore struct {
	mu       sync.RWMutex
	accounts map[string]*account // keyed by user id
	byEmail  map[string]string   // email -> user id
	posts    []models.Post
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[string]*account),
		byEmail:  make(map[string]string),
	}
}

func (s *memStore) CreateAccount(username, email string, hash []byte) (account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[email]; exists {
		return account{}, errDuplicate
	}
	acc := &account{
		User: models.User{
			ID:       uuid.NewString(),
			Username: username,
			Email:    email,
		},
		PasswordHash: hash,
	}
	s.accounts[acc.ID] = acc
	s.byEmail[email] = acc.ID
	return *acc, nil
}

func (s *memStore) AccountByEmail(email string) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return account{}, false
	}
	return *s.accounts[id], true
}

func (s *memStore) AccountByID(id string) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return account{}, false
	}
	return *acc, true
}

func (s *memStore) UpdateAccount(id string, patch models.UpdateProfileRequest) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return models.User{}, errNotFound
	}
	if patch.Username != nil {
		acc.Username = *patch.Username
	}
	if patch.Email != nil {
		delete(s.byEmail, acc.Email)
		acc.Email = *patch.Email
		s.byEmail[acc.Email] = id
	}
	if patch.Bio != nil {
		acc.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		acc.AvatarURL = *patch.AvatarURL
	}
	return acc.User, nil
}

func (s *memStore) SetPassword(id string, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return errNotFound
	}
	acc.PasswordHash = hash
	acc.ResetToken = ""
	return nil
}

func (s *memStore) SetResetToken(email, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return false
	}
	s.accounts[id].ResetToken = token
	return true
}

func (s *memStore) AccountByResetToken(token string) (account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if acc.ResetToken != "" && acc.ResetToken == token {
			return *acc, true
		}
	}
	return account{}, false
}

func (s *memStore) ListPosts(postType models.PostType) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if postType == "" || p.Type == postType {
			out = append(out, p)
		}
	}
	return out
}

func (s *memStore) GetPost(id string) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

func (s *memStore) CreatePost(author models.User, req models.CreatePostRequest) models.Post {
	now := time.Now().UTC()
	post := models.Post{
		ID:      uuid.NewString(),
		Title:   req.Title,
		Content: req.Content,
		Type:    req.Type,
		Author: models.Author{
			ID:       author.ID,
			Username: author.Username,
		},
		CreatedAt:   now,
		UpdatedAt:   now,
		Comments:    []models.Comment{},
		MeetingDate: req.MeetingDate,
		MeetingTime: req.MeetingTime,
		Question:    req.Question,
		Answer:      req.Answer,
		Topic:       req.Topic,
		Difficulty:  req.Difficulty,
		ImageURL:    req.ImageURL,
	}

	s.mu.Lock()
	s.posts = append([]models.Post{post}, s.posts...)
	s.mu.Unlock()
	return post
}

func (s *memStore) UpdatePost(id, userID string, patch models.UpdatePostRequest) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID != id {
			continue
		}
		p := &s.posts[i]
		if p.Author.ID != userID {
			return models.Post{}, errNotAuthorized
		}
		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Content != nil {
			p.Content = *patch.Content
		}
		if patch.MeetingDate != nil {
			p.MeetingDate = *patch.MeetingDate
		}
		if patch.MeetingTime != nil {
			p.MeetingTime = *patch.MeetingTime
		}
		if patch.Question != nil {
			p.Question = *patch.Question
		}
		if patch.Answer != nil {
			p.Answer = *patch.Answer
		}
		if patch.Topic != nil {
			p.Topic = *patch.Topic
		}
		if patch.Difficulty != nil {
			p.Difficulty = *patch.Difficulty
		}
		if patch.ImageURL != nil {
			p.ImageURL = *patch.ImageURL
		}
		p.UpdatedAt = time.Now().UTC()
		return *p, nil
	}
	return models.Post{}, errNotFound
}

func (s *memStore) DeletePost(id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID != id {
			continue
		}
		if s.posts[i].Author.ID != userID {
			return errNotAuthorized
		}
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
		return nil
	}
	return errNotFound
}

func (s *memStore) AddComment(postID string, author models.User, content string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID != postID {
			continue
		}
		comment := models.Comment{
			ID:      uuid.NewString(),
			Content: content,
			Author: models.Author{
				ID:       author.ID,
				Username: author.Username,
			},
			CreatedAt: time.Now().UTC(),
		}
		s.posts[i].Comments = append(s.posts[i].Comments, comment)
		return s.posts[i], nil
	}
	return models.Post{}, errNotFound
}

func (s *memStore) UpdateComment(postID, commentID, userID, content string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID != postID {
			continue
		}
		for j := range s.posts[i].Comments {
			if s.posts[i].Comments[j].ID != commentID {
				continue
			}
			if s.posts[i].Comments[j].Author.ID != userID {
				return models.Post{}, errNotAuthorized
			}
			s.posts[i].Comments[j].Content = content
			return s.posts[i], nil
		}
		return models.Post{}, errNotFound
	}
	return models.Post{}, errNotFound
}

func (s *memStore) DeleteComment(postID, commentID, userID string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID != postID {
			continue
		}
		comments := s.posts[i].Comments
		for j := range comments {
			if comments[j].ID != commentID {
				continue
			}
			if comments[j].Author.ID != userID {
				return models.Post{}, errNotAuthorized
			}
			s.posts[i].Comments = append(comments[:j], comments[j+1:]...)
			return s.posts[i], nil
		}
		return models.Post{}, errNotFound
	}
	return models.Post{}, errNotFound
}

func (s *memStore) SetLike(postID string, delta int) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID != postID {
			continue
		}
		s.posts[i].Likes += delta
		if s.posts[i].Likes < 0 {
			s.posts[i].Likes = 0
		}
		return s.posts[i], nil
	}
	return models.Post{}, errNotFound
}
