package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/hirematch/internal/ai"
	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/filtering"
	"github.com/spigell/hirematch/internal/query"
)

type server struct {
	mu     sync.Mutex
	calls  map[string]int
	auth   []string
	routes map[string]http.HandlerFunc
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	s.mu.Lock()
	s.calls[key]++
	s.auth = append(s.auth, r.Header.Get("Authorization"))
	h, ok := s.routes[key]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (s *server) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[key]
}

func (s *server) lastAuth() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.auth) == 0 {
		return ""
	}
	return s.auth[len(s.auth)-1]
}

func respond(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func noWait(context.Context, time.Duration) error { return nil }

func newTestApp(t *testing.T, routes map[string]http.HandlerFunc, opts ...Option) (*App, *server) {
	t.Helper()
	t.Setenv(TokenEnv, "")

	srv := &server{calls: map[string]int{}, routes: routes}
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	cfg := Config{
		APIBaseURL: ts.URL,
		StorePath:  filepath.Join(t.TempDir(), "store.db"),
	}
	opts = append([]Option{
		WithPrefersDark(func() bool { return false }),
		WithQueryOptions(query.WithWait(noWait)),
	}, opts...)

	a, err := New(context.Background(), cfg, nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return a, srv
}

func TestMatchingStatsForbiddenIsNotRetried(t *testing.T) {
	a, srv := newTestApp(t, map[string]http.HandlerFunc{
		"GET /matching/matching-stats": respond(http.StatusForbidden, map[string]string{"detail": "employers only"}),
	})

	_, err := a.MatchingStats(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsForbidden(err))
	assert.Equal(t, 1, srv.count("GET /matching/matching-stats"))
}

func TestMatchingStatsRetriesServerErrorsTwice(t *testing.T) {
	a, srv := newTestApp(t, map[string]http.HandlerFunc{
		"GET /matching/matching-stats": respond(http.StatusInternalServerError, map[string]string{"detail": "boom"}),
	})

	_, err := a.MatchingStats(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, srv.count("GET /matching/matching-stats"))
}

func TestSearchCandidatesEmptyIsCached(t *testing.T) {
	a, srv := newTestApp(t, map[string]http.HandlerFunc{
		"GET /api/employer/candidates/search": respond(http.StatusOK, []any{}),
	})
	params := api.CandidateSearchParams{Skills: []string{"Go"}}

	first, err := a.SearchCandidates(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, first)

	_, err = a.SearchCandidates(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.count("GET /api/employer/candidates/search"))

	_, err = a.SearchCandidates(context.Background(), api.CandidateSearchParams{Location: "Berlin"})
	require.NoError(t, err)
	assert.Equal(t, 2, srv.count("GET /api/employer/candidates/search"))
}

func TestCreateJobInvalidatesJobList(t *testing.T) {
	a, srv := newTestApp(t, map[string]http.HandlerFunc{
		"GET /api/employer/jobs":  respond(http.StatusOK, []map[string]any{{"id": 1, "title": "Go dev"}}),
		"POST /api/employer/jobs": respond(http.StatusCreated, map[string]any{"id": 2, "title": "SRE"}),
	})
	ctx := context.Background()

	_, err := a.Jobs(ctx)
	require.NoError(t, err)
	_, err = a.Jobs(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, srv.count("GET /api/employer/jobs"))

	job, err := a.JobWriter().CreateJob(ctx, &api.JobRequest{Title: "SRE"})
	require.NoError(t, err)
	assert.Equal(t, api.ID("2"), job.ID)

	_, err = a.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.count("GET /api/employer/jobs"))
	assert.Equal(t, 1, srv.count("POST /api/employer/jobs"))
}

func TestFailedMutationKeepsCache(t *testing.T) {
	a, srv := newTestApp(t, map[string]http.HandlerFunc{
		"GET /api/employer/jobs":  respond(http.StatusOK, []any{}),
		"POST /api/employer/jobs": respond(http.StatusInternalServerError, map[string]string{"detail": "down"}),
	})
	ctx := context.Background()

	_, err := a.Jobs(ctx)
	require.NoError(t, err)

	_, err = a.JobWriter().CreateJob(ctx, &api.JobRequest{Title: "SRE"})
	require.Error(t, err)
	assert.Equal(t, 1, srv.count("POST /api/employer/jobs"))

	_, err = a.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.count("GET /api/employer/jobs"))
}

func TestEmployerDashboardForbiddenStats(t *testing.T) {
	a, _ := newTestApp(t, map[string]http.HandlerFunc{
		"GET /api/employer/jobs":       respond(http.StatusOK, map[string]any{"jobs": []map[string]any{{"id": 7, "title": "Go dev"}}}),
		"GET /matching/matching-stats": respond(http.StatusForbidden, map[string]string{"detail": "nope"}),
	})

	d, err := a.EmployerDashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, d.Jobs, 1)
	assert.Nil(t, d.Stats)
	assert.Equal(t, api.ForbiddenMessage, d.StatsMessage)
}

func TestEmployerDashboardFailsOnJobsError(t *testing.T) {
	a, _ := newTestApp(t, map[string]http.HandlerFunc{
		"GET /api/employer/jobs":       respond(http.StatusBadRequest, map[string]string{"detail": "bad"}),
		"GET /matching/matching-stats": respond(http.StatusOK, map[string]any{"total_matches": 3}),
	})

	_, err := a.EmployerDashboard(context.Background())
	require.Error(t, err)
}

func TestFilteredRecommendationsHidesAppliedJobs(t *testing.T) {
	a, _ := newTestApp(t, map[string]http.HandlerFunc{
		"GET /matching/employee-matches": respond(http.StatusOK, []map[string]any{
			{"id": 1, "job_id": 10, "match_score": 91},
			{"id": 2, "job_id": 11, "match_score": 75},
			{"id": 3, "job_id": 12, "match_score": 30},
		}),
		"GET /employee/applications": respond(http.StatusOK, []map[string]any{
			{"id": 5, "job_id": 10, "status": "pending"},
		}),
	})

	res, err := a.FilteredRecommendations(context.Background(), api.EmployeeMatchesParams{}, filtering.Config{MinScore: 50})
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, api.ID("11"), res.Matches[0].JobID)
	require.NotEmpty(t, res.Filters)
	for _, f := range res.Filters {
		assert.True(t, f.Enabled, f.Name)
	}
}

func TestFilteredRecommendationsSkipsAppliedHistoryForEmployers(t *testing.T) {
	a, srv := newTestApp(t, map[string]http.HandlerFunc{
		"GET /matching/employee-matches": respond(http.StatusOK, []map[string]any{
			{"id": 1, "job_id": 10, "match_score": 91},
		}),
	})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "hr@example.com",
		"role":  "employer",
	}).SignedString([]byte("test"))
	require.NoError(t, err)
	require.NoError(t, a.Auth.Login(context.Background(), token, nil))

	res, err := a.FilteredRecommendations(context.Background(), api.EmployeeMatchesParams{}, filtering.Config{})
	require.NoError(t, err)
	assert.Len(t, res.Matches, 1)
	assert.Equal(t, 0, srv.count("GET /employee/applications"))

	for _, f := range res.Filters {
		if f.Name == "applied_history" {
			assert.False(t, f.Enabled)
			assert.Equal(t, "signed in as employer", f.Reason)
		}
	}
}

func jobsForCaller(w http.ResponseWriter, r *http.Request) {
	respond(http.StatusOK, []map[string]any{
		{"id": 1, "title": "jobs of " + r.Header.Get("Authorization")},
	})(w, r)
}

type recordingBackend struct {
	*query.Memory
	mu   sync.Mutex
	keys []string
}

func (b *recordingBackend) Set(ctx context.Context, key string, entry query.Entry, ttl time.Duration) error {
	b.mu.Lock()
	b.keys = append(b.keys, key)
	b.mu.Unlock()
	return b.Memory.Set(ctx, key, entry, ttl)
}

func TestSharedCacheIsScopedPerAccount(t *testing.T) {
	shared := &recordingBackend{Memory: query.NewMemory()}
	routes := map[string]http.HandlerFunc{"GET /api/employer/jobs": jobsForCaller}
	ctx := context.Background()

	alice, _ := newTestApp(t, routes, WithBackend(shared))
	bob, bobSrv := newTestApp(t, routes, WithBackend(shared))
	require.NoError(t, alice.Auth.Login(ctx, "alice-token", nil))
	require.NoError(t, bob.Auth.Login(ctx, "bob-token", nil))

	jobs, err := alice.Jobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "jobs of Bearer alice-token", jobs[0].Title)

	jobs, err = bob.Jobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "jobs of Bearer bob-token", jobs[0].Title)
	assert.Equal(t, 1, bobSrv.count("GET /api/employer/jobs"))

	// Same account from another process reads the shared entry.
	again, againSrv := newTestApp(t, routes, WithBackend(shared))
	require.NoError(t, again.Auth.Login(ctx, "alice-token", nil))
	jobs, err = again.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jobs of Bearer alice-token", jobs[0].Title)
	assert.Equal(t, 0, againSrv.count("GET /api/employer/jobs"))

	for _, key := range shared.keys {
		assert.False(t, strings.Contains(key, "alice-token") || strings.Contains(key, "bob-token"), key)
	}
}

func TestSwitchingTokenWithoutLoginSkipsOtherAccountsCache(t *testing.T) {
	a, srv := newTestApp(t, map[string]http.HandlerFunc{"GET /api/employer/jobs": jobsForCaller})
	ctx := context.Background()

	require.NoError(t, a.Auth.Login(ctx, "alice-token", nil))
	_, err := a.Jobs(ctx)
	require.NoError(t, err)

	require.NoError(t, a.Auth.Login(ctx, "bob-token", nil))
	jobs, err := a.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jobs of Bearer bob-token", jobs[0].Title)
	assert.Equal(t, 2, srv.count("GET /api/employer/jobs"))
}

func TestLogoutDropsCachedResponses(t *testing.T) {
	a, srv := newTestApp(t, map[string]http.HandlerFunc{"GET /api/employer/jobs": jobsForCaller})
	ctx := context.Background()

	require.NoError(t, a.Auth.Login(ctx, "alice-token", nil))
	_, err := a.Jobs(ctx)
	require.NoError(t, err)
	_, err = a.Jobs(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, srv.count("GET /api/employer/jobs"))

	require.NoError(t, a.Logout(ctx))
	require.NoError(t, a.Auth.Login(ctx, "alice-token", nil))

	_, err = a.Jobs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, srv.count("GET /api/employer/jobs"))
}

func TestCacheScope(t *testing.T) {
	assert.Equal(t, anonymousScope, scope(""))
	assert.Equal(t, anonymousScope, scope("Bearer "))
	assert.Equal(t, scope("abc"), scope("Bearer abc"))
	assert.NotEqual(t, scope("abc"), scope("abd"))
	assert.NotContains(t, scope("abc"), "abc")
}

func TestLoginStoresSessionAndSendsToken(t *testing.T) {
	a, srv := newTestApp(t, map[string]http.HandlerFunc{
		"GET /employee/resumes": respond(http.StatusOK, []any{}),
	})
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":     "ann@example.com",
		"user_type": "employee",
		"user_id":   42,
		"exp":       now.Add(time.Hour).Unix(),
	}).SignedString([]byte("test"))
	require.NoError(t, err)

	claims, err := a.Login(ctx, "Bearer "+token, now)
	require.NoError(t, err)
	assert.Equal(t, "employee", claims.AccountRole())

	state := a.Auth.State()
	assert.True(t, state.IsAuthenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, api.ID("42"), state.User.ID)

	_, err = a.Resumes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, srv.lastAuth())

	require.NoError(t, a.Logout(ctx))
	_, ok, err := a.Claims()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginRejectsExpiredToken(t *testing.T) {
	a, _ := newTestApp(t, nil)
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "ann@example.com",
		"exp":   now.Add(-time.Minute).Unix(),
	}).SignedString([]byte("test"))
	require.NoError(t, err)

	_, err = a.Login(context.Background(), token, now)
	require.Error(t, err)
	assert.False(t, a.Auth.State().IsAuthenticated)
}

type fakeWriter struct {
	req ai.CoverLetterRequest
}

func (f *fakeWriter) CoverLetter(_ context.Context, req ai.CoverLetterRequest) (string, error) {
	f.req = req
	return "Dear team", nil
}

func TestDraftCoverLetterUsesMatchAndPrimaryResume(t *testing.T) {
	w := &fakeWriter{}
	a, _ := newTestApp(t, map[string]http.HandlerFunc{
		"GET /matching/employee-matches": respond(http.StatusOK, []map[string]any{
			{"id": 1, "job_id": 10, "match_score": 91, "job": map[string]any{"id": 10, "title": "Go dev"}},
		}),
		"GET /employee/resumes": respond(http.StatusOK, []map[string]any{
			{"id": 3, "filename": "old.pdf"},
			{"id": 4, "filename": "cv.pdf", "is_primary": true},
		}),
	}, WithCoverLetterWriter(w))

	letter, err := a.DraftCoverLetter(context.Background(), "10", "short please")
	require.NoError(t, err)
	assert.Equal(t, "Dear team", letter)
	require.NotNil(t, w.req.Job)
	assert.Equal(t, "Go dev", w.req.Job.Title)
	require.NotNil(t, w.req.Resume)
	assert.Equal(t, "cv.pdf", w.req.Resume.Filename)
	assert.Equal(t, "short please", w.req.Notes)

	_, err = a.DraftCoverLetter(context.Background(), "99", "")
	require.Error(t, err)
}

func TestDraftCoverLetterDisabled(t *testing.T) {
	a, _ := newTestApp(t, nil)

	_, err := a.DraftCoverLetter(context.Background(), "10", "")
	require.Error(t, err)
}

func TestUnknownCacheBackend(t *testing.T) {
	_, err := openBackend(context.Background(), CacheConfig{Backend: "memcached"})
	require.Error(t, err)

	_, err = openBackend(context.Background(), CacheConfig{Backend: CacheRedis})
	require.Error(t, err)

	b, err := openBackend(context.Background(), CacheConfig{})
	require.NoError(t, err)
	assert.IsType(t, &query.Memory{}, b)
}

func TestTokenFromEnvironmentOverridesSession(t *testing.T) {
	a, srv := newTestApp(t, map[string]http.HandlerFunc{
		"GET /employee/resumes": respond(http.StatusOK, []any{}),
	})
	require.NoError(t, a.Auth.Login(context.Background(), "stored", nil))

	t.Setenv(TokenEnv, "from-env")
	tokens, err := a.tokenSource()
	require.NoError(t, err)
	assert.Equal(t, "from-env", tokens.Token())

	_, err = a.Resumes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer stored", srv.lastAuth())
}
