package store

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
)

type ThemeState struct {
	IsDark bool `json:"isDark"`
}

// ThemeStore holds the dark-mode flag.
type ThemeStore struct {
	store *Store

	mu    sync.Mutex
	state ThemeState
}

// LoadTheme reads the stored flag. When nothing is stored yet the flag starts
// from prefersDark and is not written until it changes.
func LoadTheme(ctx context.Context, s *Store, prefersDark func() bool) (*ThemeStore, error) {
	state, ok, err := loadState[ThemeState](ctx, s, ThemeKey)
	if err != nil {
		return nil, err
	}
	if !ok && prefersDark != nil {
		state.IsDark = prefersDark()
	}
	return &ThemeStore{store: s, state: state}, nil
}

func (t *ThemeStore) IsDark() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.IsDark
}

// Toggle flips the flag and returns the new value.
func (t *ThemeStore) Toggle(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := ThemeState{IsDark: !t.state.IsDark}
	if err := saveState(ctx, t.store, ThemeKey, next); err != nil {
		return t.state.IsDark, err
	}
	t.state = next
	return next.IsDark, nil
}

func (t *ThemeStore) Set(ctx context.Context, dark bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := ThemeState{IsDark: dark}
	if err := saveState(ctx, t.store, ThemeKey, next); err != nil {
		return err
	}
	t.state = next
	return nil
}

// SystemPrefersDark reads the terminal background from COLORFGBG
// ("fg;bg" or "fg;default;bg"). ANSI backgrounds 0-6 and 8 are dark.
func SystemPrefersDark() bool {
	return prefersDark(os.Getenv("COLORFGBG"))
}

func prefersDark(colorfgbg string) bool {
	parts := strings.Split(strings.TrimSpace(colorfgbg), ";")
	if len(parts) < 2 {
		return false
	}
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return false
	}
	return (bg >= 0 && bg <= 6) || bg == 8
}
