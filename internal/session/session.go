// Package session owns the single authenticated-identity value for the
// process and mediates every change to it. State flows one way: the backend
// confirms, then the persisted credentials and the in-memory session are
// updated, then subscribers are told.
package session

import (
	"context"
	"sync"

	"github.com/anushkaEsdev/alumni-client/internal/api"
	"github.com/anushkaEsdev/alumni-client/internal/credentials"
	"github.com/anushkaEsdev/alumni-client/internal/models"
	"github.com/anushkaEsdev/alumni-client/internal/notify"
)

type Manager struct {
	api    *api.Client
	creds  credentials.Store
	notify notify.Notifier

	mu            sync.RWMutex
	user          models.User
	authenticated bool
	subs          []func(models.User, bool)
}

func NewManager(client *api.Client, creds credentials.Store, n notify.Notifier) *Manager {
	return &Manager{api: client, creds: creds, notify: n}
}

// Restore rehydrates the session from persisted state. Both the token and
// the identity snapshot must be present; the snapshot is trusted as-is with
// no backend round trip, matching a page reload.
func (m *Manager) Restore() {
	if m.creds.Token() == "" {
		return
	}
	user, ok := m.creds.User()
	if !ok {
		return
	}
	m.set(user, true)
}

func (m *Manager) Login(ctx context.Context, email, password string) error {
	var data models.AuthData
	err := m.api.Post(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password}, &data)
	if err != nil {
		return err
	}
	if err := m.creds.Save(data.Token, data.User); err != nil {
		m.notify.Error("Could not save login credentials")
		return err
	}
	m.set(data.User, true)
	m.notify.Success("Welcome back!")
	return nil
}

func (m *Manager) Register(ctx context.Context, username, email, password string) error {
	var data models.AuthData
	err := m.api.Post(ctx, "/auth/register", models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &data)
	if err != nil {
		return err
	}
	if err := m.creds.Save(data.Token, data.User); err != nil {
		m.notify.Error("Could not save login credentials")
		return err
	}
	m.set(data.User, true)
	m.notify.Success("Account created successfully! Welcome to the Alumni Network.")
	return nil
}

// Logout clears the in-memory session and persisted credentials. No network
// call; it cannot fail from the caller's point of view.
func (m *Manager) Logout() {
	if err := m.creds.Clear(); err != nil {
		// Sign out locally regardless; the stale files only hold an
		// already-abandoned token.
		m.notify.Error("Could not clear saved credentials")
	}
	m.set(models.User{}, false)
	m.notify.Success("Logged out successfully")
}

func (m *Manager) UpdateProfile(ctx context.Context, patch models.UpdateProfileRequest) error {
	if !m.IsAuthenticated() {
		err := api.NotAuthenticated("You must be logged in to update your profile")
		m.notify.Error(err.Message)
		return err
	}

	var updated models.User
	if err := m.api.Put(ctx, "/auth/profile", patch, &updated); err != nil {
		return err
	}
	if err := m.creds.SaveUser(updated); err != nil {
		m.notify.Error("Could not save profile changes")
		return err
	}
	m.set(updated, true)
	m.notify.Success("Profile updated successfully")
	return nil
}

// UpdatePassword changes the account password. The in-memory session is not
// touched on success; only a confirmation is surfaced.
func (m *Manager) UpdatePassword(ctx context.Context, current, newPassword string) error {
	if !m.IsAuthenticated() {
		err := api.NotAuthenticated("You must be logged in to change your password")
		m.notify.Error(err.Message)
		return err
	}

	req := models.UpdatePasswordRequest{CurrentPassword: current, NewPassword: newPassword}
	if err := m.api.Put(ctx, "/auth/password", req, nil); err != nil {
		return err
	}
	m.notify.Success("Password updated successfully")
	return nil
}

func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	if err := m.api.Post(ctx, "/auth/forgot-password", models.ForgotPasswordRequest{Email: email}, nil); err != nil {
		return err
	}
	m.notify.Success("Password reset instructions sent")
	return nil
}

func (m *Manager) ResetPassword(ctx context.Context, token, password string) error {
	if err := m.api.Post(ctx, "/auth/reset-password/"+token, models.ResetPasswordRequest{Password: password}, nil); err != nil {
		return err
	}
	m.notify.Success("Password has been reset. Please log in.")
	return nil
}

// Invalidate drops the in-memory session without touching persisted state or
// surfacing anything. The HTTP client calls it after the backend rejects the
// credential; by then the persisted state is already cleared and the user
// already notified.
func (m *Manager) Invalidate() {
	m.set(models.User{}, false)
}

// Current returns the session snapshot and whether a session is active.
func (m *Manager) Current() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, m.authenticated
}

func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

// Subscribe registers a callback invoked after every session change. The
// callback runs outside the manager's lock.
func (m *Manager) Subscribe(fn func(user models.User, authenticated bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Manager) set(user models.User, authenticated bool) {
	m.mu.Lock()
	m.user = user
	m.authenticated = authenticated
	subs := make([]func(models.User, bool), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(user, authenticated)
	}
}
