package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/query"
	"github.com/spigell/hirematch/internal/secrets"
	"github.com/spigell/hirematch/internal/store"
)

// Login stores token as the session. The claims are decoded for display
// only; the API verifies the token on every request.
func (a *App) Login(ctx context.Context, token string, now time.Time) (*secrets.Claims, error) {
	claims, err := secrets.ParseClaims(token)
	if err != nil {
		return nil, err
	}
	if claims.ExpiredAt(now) {
		return nil, fmt.Errorf("token expired at %s", claims.ExpiresAt.Time.Format(time.RFC3339))
	}

	user := &store.User{
		Email:    claims.Email,
		UserType: claims.AccountRole(),
	}
	if claims.UserID != nil {
		user.ID = api.ID(fmt.Sprintf("%v", claims.UserID))
	}

	if err := a.Auth.Login(ctx, token, user); err != nil {
		return nil, err
	}
	// A fresh sign-in starts from an empty cache for this identity.
	a.dropCache(ctx, token)
	return claims, nil
}

// Logout clears the stored session and everything cached for it.
func (a *App) Logout(ctx context.Context) error {
	token := a.Auth.Token()
	if err := a.Auth.Logout(ctx); err != nil {
		return err
	}
	a.dropCache(ctx, token)
	return nil
}

func (a *App) dropCache(ctx context.Context, token string) {
	if err := a.Query.Invalidate(ctx, query.Key{scope(token)}); err != nil {
		a.logger.Warn("Cache invalidation for session failed", zap.Error(err))
	}
}

// Claims decodes the token currently in use, which may come from the
// environment rather than the stored session. ok is false when signed out.
func (a *App) Claims() (claims *secrets.Claims, ok bool, err error) {
	token := a.tokens.Token()
	if token == "" {
		return nil, false, nil
	}
	claims, err = secrets.ParseClaims(token)
	if err != nil {
		return nil, true, err
	}
	return claims, true, nil
}
