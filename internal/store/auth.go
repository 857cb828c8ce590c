package store

import (
	"context"
	"strings"
	"sync"

	"github.com/spigell/hirematch/internal/api"
)

// User is the signed-in account as remembered between runs.
type User struct {
	ID       api.ID `json:"id,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	UserType string `json:"user_type,omitempty"`
}

type AuthState struct {
	Token           string `json:"token"`
	User            *User  `json:"user"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// AuthStore keeps the persisted auth state in memory and writes through on
// every change. It implements api.TokenSource.
type AuthStore struct {
	store *Store

	mu    sync.RWMutex
	state AuthState
}

var _ api.TokenSource = (*AuthStore)(nil)

// LoadAuth reads the auth state. A missing entry means signed out.
func LoadAuth(ctx context.Context, s *Store) (*AuthStore, error) {
	state, _, err := loadState[AuthState](ctx, s, AuthKey)
	if err != nil {
		return nil, err
	}
	return &AuthStore{store: s, state: state}, nil
}

// Token returns the bearer token, or "" when signed out.
func (a *AuthStore) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.Token
}

func (a *AuthStore) State() AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()

	state := a.state
	if state.User != nil {
		u := *state.User
		state.User = &u
	}
	return state
}

// Login stores token and user and marks the session authenticated.
func (a *AuthStore) Login(ctx context.Context, token string, user *User) error {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))

	a.mu.Lock()
	defer a.mu.Unlock()

	next := AuthState{Token: token, User: user, IsAuthenticated: token != ""}
	if err := saveState(ctx, a.store, AuthKey, next); err != nil {
		return err
	}
	a.state = next
	return nil
}

// Logout clears the persisted session.
func (a *AuthStore) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := AuthState{}
	if err := saveState(ctx, a.store, AuthKey, next); err != nil {
		return err
	}
	a.state = next
	return nil
}
