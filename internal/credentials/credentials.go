// Package credentials persists the bearer token and identity snapshot
// between runs, the way the web client keeps them in browser-local storage.
// Two entries, set together on login and cleared together on logout; profile
// updates rewrite only the snapshot.
package credentials

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anushkaEsdev/alumni-client/internal/models"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

type Store interface {
	// Token returns the persisted bearer token, or "" when signed out.
	Token() string
	// User returns the persisted identity snapshot, if any.
	User() (models.User, bool)
	Save(token string, user models.User) error
	// SaveUser rewrites only the identity snapshot, leaving the token alone.
	SaveUser(user models.User) error
	Clear() error
}

// FileStore keeps the two entries as files under a state directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// DefaultDir resolves the per-user state directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "alumni"), nil
}

func (s *FileStore) Token() string {
	b, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (s *FileStore) User() (models.User, bool) {
	b, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		return models.User{}, false
	}
	var u models.User
	if err := json.Unmarshal(b, &u); err != nil {
		return models.User{}, false
	}
	return u, true
}

func (s *FileStore) Save(token string, user models.User) error {
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return err
	}
	return s.SaveUser(user)
}

func (s *FileStore) SaveUser(user models.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, userFile), b, 0o600)
}

func (s *FileStore) Clear() error {
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Memory is an in-process Store used by tests.
type Memory struct {
	mu    sync.Mutex
	token string
	user  models.User
	ok    bool
}

func (m *Memory) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Memory) User() (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, m.ok
}

func (m *Memory) Save(token string, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = user
	m.ok = true
	return nil
}

func (m *Memory) SaveUser(user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	m.ok = true
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = models.User{}
	m.ok = false
	return nil
}
