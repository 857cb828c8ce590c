package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "store.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestKeyValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := openTestStore(t)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "k", []byte(`one`)))
	require.NoError(t, s.Put(ctx, "k", []byte(`two`)))
	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", string(got))

	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthPersistsAcrossOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, path := openTestStore(t)

	auth, err := LoadAuth(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, auth.Token())
	assert.False(t, auth.State().IsAuthenticated)

	require.NoError(t, auth.Login(ctx, "Bearer abc.def.ghi ", &User{Email: "hr@example.com", UserType: "employer"}))
	assert.Equal(t, "abc.def.ghi", auth.Token())

	raw, ok, err := s.Get(ctx, AuthKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{
		"state": {
			"token": "abc.def.ghi",
			"user": {"email": "hr@example.com", "user_type": "employer"},
			"isAuthenticated": true
		},
		"version": 0
	}`, string(raw))

	require.NoError(t, s.Close())
	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	auth, err = LoadAuth(ctx, reopened)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", auth.Token())
	require.NotNil(t, auth.State().User)
	assert.Equal(t, "hr@example.com", auth.State().User.Email)

	require.NoError(t, auth.Logout(ctx))
	assert.Empty(t, auth.Token())
	assert.Nil(t, auth.State().User)
}

func TestThemeInitialValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := openTestStore(t)

	theme, err := LoadTheme(ctx, s, func() bool { return true })
	require.NoError(t, err)
	assert.True(t, theme.IsDark(), "falls back to the system preference")

	_, ok, err := s.Get(ctx, ThemeKey)
	require.NoError(t, err)
	assert.False(t, ok, "the preference is not persisted until changed")

	dark, err := theme.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, dark)

	theme, err = LoadTheme(ctx, s, func() bool { return true })
	require.NoError(t, err)
	assert.False(t, theme.IsDark(), "stored value wins over the system preference")

	require.NoError(t, theme.Set(ctx, true))
	raw, _, err := s.Get(ctx, ThemeKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":{"isDark":true},"version":0}`, string(raw))
}

func TestCorruptEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := openTestStore(t)
	require.NoError(t, s.Put(ctx, ThemeKey, []byte(`not json`)))

	_, err := LoadTheme(ctx, s, nil)
	require.ErrorContains(t, err, `decode "theme-storage"`)
}

func TestPrefersDark(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"15;0", true},
		{"0;15", false},
		{"15;default;0", true},
		{"7;8", true},
		{"0;7", false},
		{"garbage", false},
		{"15;x", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, prefersDark(tt.value), "COLORFGBG=%q", tt.value)
	}
}
