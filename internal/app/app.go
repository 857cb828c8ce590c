// Package app is the explicitly constructed application context: it owns the
// persisted stores, the API client, the query cache and the optional AI
// writer, and releases them in Close.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/ai"
	"github.com/spigell/hirematch/internal/ai/gemini"
	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/query"
	"github.com/spigell/hirematch/internal/render"
	"github.com/spigell/hirematch/internal/secrets"
	"github.com/spigell/hirematch/internal/store"
)

type App struct {
	cfg    Config
	logger *zap.Logger

	store *store.Store
	Auth  *store.AuthStore
	Theme *store.ThemeStore

	API      *api.Client
	tokens   api.TokenSource
	Employer *api.EmployerService
	Employee *api.EmployeeService
	Matching *api.MatchingService

	Query *query.Client
	// Writer is nil unless AI drafting is enabled.
	Writer ai.CoverLetterWriter
}

type options struct {
	backend     query.Backend
	prefersDark func() bool
	writer      ai.CoverLetterWriter
	queryOpts   []query.Option
}

type Option func(*options)

// WithBackend replaces the configured cache backend.
func WithBackend(b query.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithPrefersDark replaces the terminal background detection.
func WithPrefersDark(fn func() bool) Option {
	return func(o *options) { o.prefersDark = fn }
}

// WithCoverLetterWriter installs a writer regardless of the AI config.
func WithCoverLetterWriter(w ai.CoverLetterWriter) Option {
	return func(o *options) { o.writer = w }
}

// WithQueryOptions passes options through to the query client.
func WithQueryOptions(opts ...query.Option) Option {
	return func(o *options) { o.queryOpts = append(o.queryOpts, opts...) }
}

// New builds the application context. On error everything opened so far is
// closed again.
func New(ctx context.Context, cfg Config, logger *zap.Logger, opts ...Option) (_ *App, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{prefersDark: store.SystemPrefersDark}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	a.store, err = store.Open(ctx, cfg.StorePath)
	if err != nil {
		return nil, err
	}
	if a.Auth, err = store.LoadAuth(ctx, a.store); err != nil {
		return nil, err
	}
	if a.Theme, err = store.LoadTheme(ctx, a.store, o.prefersDark); err != nil {
		return nil, err
	}

	tokens, err := a.tokenSource()
	if err != nil {
		return nil, err
	}

	a.tokens = tokens
	a.API = api.New(cfg.APIBaseURL, tokens, logger.Named("api"))
	if cfg.UserAgent != "" {
		a.API.UserAgent = cfg.UserAgent
	}
	if cfg.Timeout > 0 {
		a.API.HTTPClient.Timeout = cfg.Timeout
	}
	a.Employer = a.API.Employer()
	a.Employee = a.API.Employee()
	a.Matching = a.API.Matching()

	backend := o.backend
	if backend == nil {
		if backend, err = openBackend(ctx, cfg.Cache); err != nil {
			return nil, err
		}
	}
	a.Query = query.New(backend, logger.Named("query"), o.queryOpts...)

	a.Writer = o.writer
	if a.Writer == nil && cfg.AI.Enabled {
		if a.Writer, err = newWriter(ctx, cfg.AI, logger.Named("ai")); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// tokenSource prefers an explicitly configured token over the stored session.
func (a *App) tokenSource() (api.TokenSource, error) {
	if strings.TrimSpace(a.cfg.TokenFile) == "" && strings.TrimSpace(os.Getenv(TokenEnv)) == "" {
		return a.Auth, nil
	}

	token, err := secrets.Load(secrets.Source{
		Name: "api token",
		Env:  TokenEnv,
		File: a.cfg.TokenFile,
	})
	if err != nil {
		return nil, err
	}
	return api.StaticToken(token), nil
}

func openBackend(ctx context.Context, cfg CacheConfig) (query.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", CacheMemory:
		return query.NewMemory(), nil
	case CacheRedis:
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return nil, errors.New("cache.redis-url is required for the redis cache backend")
		}
		return query.DialRedis(ctx, cfg.RedisURL, cfg.Prefix)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func newWriter(ctx context.Context, cfg AIConfig, logger *zap.Logger) (ai.CoverLetterWriter, error) {
	key, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, key, cfg.Gemini.Model, cfg.Gemini.MaxRetries, logger)
	if err != nil {
		return nil, err
	}
	return gemini.NewCoverLetterWriter(generator, logger, cfg.Gemini.MaxLogLength), nil
}

func (a *App) Logger() *zap.Logger { return a.logger }

func (a *App) Config() Config { return a.cfg }

// Style returns the output style for the current theme.
func (a *App) Style() render.Style {
	return render.Style{Color: a.cfg.Color, Dark: a.Theme != nil && a.Theme.IsDark()}
}

// Close releases the cache backend and the store.
func (a *App) Close() error {
	var errs []error
	if a.Query != nil {
		errs = append(errs, a.Query.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
