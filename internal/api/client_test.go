package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recorded
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	f.mu.Unlock()
	r.Body = io.NopCloser(bytes.NewReader(body))
	f.handler(w, r)
}

func (f *fakeAPI) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no requests recorded")
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, token string, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeAPI) {
	t.Helper()
	fake := &fakeAPI{handler: handler}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := New(srv.URL+"/", StaticToken(token), zap.NewNop())
	client.newRequestID = func() string { return "req-test" }
	return client, fake
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewDefaults(t *testing.T) {
	client := New("  ", nil, nil)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, userAgent, client.UserAgent)
	assert.Equal(t, defaultTimeout, client.HTTPClient.Timeout)
}

func TestBearerTokenAttached(t *testing.T) {
	client, fake := newTestClient(t, "secret-token", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []Job{})
	})

	_, err := client.Employer().ListJobs(context.Background())
	require.NoError(t, err)

	req := fake.last(t)
	assert.Equal(t, "Bearer secret-token", req.Header.Get("Authorization"))
	assert.Equal(t, "req-test", req.Header.Get("X-Request-ID"))
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/employer/jobs", req.Path)
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	client, fake := newTestClient(t, "", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []Resume{})
	})

	_, err := client.Employee().Resumes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fake.last(t).Header.Get("Authorization"))
}

func TestGzipResponse(t *testing.T) {
	client, _ := newTestClient(t, "t", func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte(`{"id": 7, "title": "Go Developer"}`))
		_ = gz.Close()
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	})

	job, err := client.Employer().GetJob(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, ID("7"), job.ID)
	assert.Equal(t, "Go Developer", job.Title)
}

func TestCreateJobWireContract(t *testing.T) {
	client, fake := newTestClient(t, "t", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"id": 11, "title": "Senior Engineer"})
	})

	expires := "2025-03-01T23:59:59.999Z"
	job, err := client.Employer().CreateJob(context.Background(), &JobRequest{
		Title:           "Senior Engineer",
		Description:     "Build things",
		Location:        "Remote",
		JobType:         JobTypeFullTime,
		ExperienceLevel: ExperienceSenior,
		Currency:        CurrencyUSD,
		RequiredSkills:  []string{"React"},
		PreferredSkills: []string{},
		ExpiresAt:       &expires,
		MatchingWeights: map[string]any{"skills": 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, ID("11"), job.ID)

	req := fake.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/employer/jobs", req.Path)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, float64(0), body["salary_min"])
	assert.Equal(t, float64(0), body["salary_max"])
	assert.Equal(t, float64(0), body["max_applications"])
	assert.Equal(t, expires, body["expires_at"])
	assert.Equal(t, "full_time", body["job_type"])
	assert.Equal(t, map[string]any{"skills": 0.5}, body["matching_weights"])
	assert.NotContains(t, body, "required_education")
}

func TestEndpointPaths(t *testing.T) {
	client, fake := newTestClient(t, "t", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	ctx := context.Background()

	cases := []struct {
		name   string
		call   func() error
		method string
		path   string
	}{
		{"update job", func() error { _, err := client.Employer().UpdateJob(ctx, "5", &JobRequest{}); return err }, http.MethodPut, "/api/employer/jobs/5"},
		{"delete job", func() error { return client.Employer().DeleteJob(ctx, "5") }, http.MethodDelete, "/api/employer/jobs/5"},
		{"job applications", func() error { _, err := client.Employer().JobApplications(ctx, "5"); return err }, http.MethodGet, "/api/employer/jobs/5/applications"},
		{"status", func() error {
			_, err := client.Employer().UpdateApplicationStatus(ctx, "9", StatusUpdate{Status: StatusShortlisted})
			return err
		}, http.MethodPut, "/api/employer/applications/9/status"},
		{"interview", func() error {
			_, err := client.Employer().ScheduleInterview(ctx, "9", InterviewRequest{ScheduledAt: time.Now(), DurationMinutes: 30, InterviewType: InterviewVideo})
			return err
		}, http.MethodPost, "/api/employer/applications/9/interview"},
		{"generate", func() error { _, err := client.Matching().GenerateMatches(ctx, "5"); return err }, http.MethodPost, "/api/matching/generate-matches/5"},
		{"employee matches", func() error { _, err := client.Matching().EmployeeMatches(ctx, EmployeeMatchesParams{}); return err }, http.MethodGet, "/matching/employee-matches"},
		{"calculate", func() error { _, err := client.Matching().CalculateMatch(ctx, CalculateMatchRequest{JobID: "5"}); return err }, http.MethodPost, "/matching/calculate-match"},
		{"dismiss", func() error { return client.Matching().DismissMatch(ctx, "3") }, http.MethodPost, "/api/matching/dismiss-match/3"},
		{"stats", func() error { _, err := client.Matching().Stats(ctx); return err }, http.MethodGet, "/matching/matching-stats"},
		{"bulk", func() error { _, err := client.Matching().BulkGenerate(ctx); return err }, http.MethodPost, "/matching/bulk-match-generation"},
		{"voice analyses", func() error { _, err := client.Employee().VoiceAnalyses(ctx); return err }, http.MethodGet, "/employee/voice-analyses"},
		{"apply", func() error { _, err := client.Employee().Apply(ctx, "5", ApplyRequest{}); return err }, http.MethodPost, "/employee/apply/5"},
		{"my applications", func() error { _, err := client.Employee().Applications(ctx); return err }, http.MethodGet, "/employee/applications"},
		{"withdraw", func() error { _, err := client.Employee().Withdraw(ctx, "9"); return err }, http.MethodPut, "/employee/applications/9/withdraw"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.call())
			req := fake.last(t)
			assert.Equal(t, tc.method, req.Method)
			assert.Equal(t, tc.path, req.Path)
		})
	}
}

func TestCalculateMatchKeepsNumericIDs(t *testing.T) {
	client, fake := newTestClient(t, "t", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"match_score": 81.5, "skills_match": 90})
	})

	match, err := client.Matching().CalculateMatch(context.Background(), CalculateMatchRequest{JobID: "12", EmployeeID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, 81.5, match.MatchScore)
	require.NotNil(t, match.SkillsMatch)
	assert.Equal(t, 90.0, *match.SkillsMatch)
	assert.JSONEq(t, `{"job_id": 12, "employee_id": "abc"}`, string(fake.last(t).Body))
}

func TestSearchCandidatesQuery(t *testing.T) {
	client, fake := newTestClient(t, "t", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"candidates": []any{}, "total": 0})
	})

	years := 3
	score := 80.0
	candidates, err := client.Employer().SearchCandidates(context.Background(), CandidateSearchParams{
		Skills:                []string{"Go", " React "},
		ExperienceLevel:       ExperienceSenior,
		MinExperienceYears:    &years,
		Location:              "Berlin",
		MinCommunicationScore: &score,
		Limit:                 20,
	})
	require.NoError(t, err)
	assert.NotNil(t, candidates)
	assert.Empty(t, candidates)

	req := fake.last(t)
	assert.Equal(t, "/api/employer/candidates/search", req.Path)
	assert.Equal(t,
		"experience_level=senior&limit=20&location=Berlin&min_communication_score=80&min_experience_years=3&skills=Go%2CReact",
		req.Query)
}

func TestSearchCandidatesOmitsUnsetParams(t *testing.T) {
	client, fake := newTestClient(t, "t", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []any{map[string]any{"id": 1, "full_name": "Ada", "overall_communication_score": 91}})
	})

	candidates, err := client.Employer().SearchCandidates(context.Background(), CandidateSearchParams{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Ada", candidates[0].FullName)
	assert.Empty(t, fake.last(t).Query)
}

func TestValidationErrorFlattened(t *testing.T) {
	client, _ := newTestClient(t, "t", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []any{
				map[string]any{"loc": []any{"body", "salary_min"}, "msg": "ensure this value is greater than or equal to 0"},
				map[string]any{"loc": []any{"body", "required_skills", 0}, "msg": "field required"},
			},
		})
	})

	_, err := client.Employer().CreateJob(context.Background(), &JobRequest{})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t,
		"body.salary_min: ensure this value is greater than or equal to 0, body.required_skills.0: field required",
		UserMessage(err, "generic"))
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"forbidden", http.StatusForbidden, `{"detail": "Only employers can view stats"}`, ForbiddenMessage},
		{"detail string", http.StatusNotFound, `{"detail": "Job not found"}`, "Job not found"},
		{"message field", http.StatusBadRequest, `{"message": "Already applied"}`, "Already applied"},
		{"unrecognised", http.StatusInternalServerError, `<html>oops</html>`, "generic"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, "t", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Matching().Stats(context.Background())
			require.Error(t, err)
			assert.Equal(t, tc.status, StatusCode(err))
			assert.Equal(t, tc.message, UserMessage(err, "generic"))
		})
	}
}

func TestNetworkError(t *testing.T) {
	client := New("http://127.0.0.1:1", StaticToken("t"), zap.NewNop())
	_, err := client.Employer().ListJobs(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, NetworkMessage, UserMessage(err, "generic"))
	assert.Equal(t, "", UserMessage(nil, "generic"))
	assert.Equal(t, "generic", UserMessage(errors.New("boom"), "generic"))
}

func TestUploadVoiceReportsProgress(t *testing.T) {
	client, fake := newTestClient(t, "t", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		writeJSON(w, http.StatusOK, map[string]any{
			"id":                          "v1",
			"filename":                    header.Filename,
			"overall_communication_score": float64(len(data)),
			"transcript":                  r.FormValue("language"),
		})
	})

	var mu sync.Mutex
	var calls int
	var lastSent, lastTotal int64
	analysis, err := client.Employee().UploadVoice(context.Background(), Upload{
		Filename: "/tmp/sample.wav",
		Content:  strings.NewReader(strings.Repeat("a", 4096)),
		Extra:    map[string]string{"language": "en"},
		Progress: func(sent, total int64) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			lastSent, lastTotal = sent, total
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "sample.wav", analysis.Filename)
	assert.Equal(t, "en", analysis.Transcript)
	require.NotNil(t, analysis.OverallCommunicationScore)
	assert.Equal(t, 4096.0, *analysis.OverallCommunicationScore)

	mu.Lock()
	assert.Positive(t, calls)
	assert.Equal(t, lastTotal, lastSent)
	mu.Unlock()
	assert.Equal(t, "/employee/voice/upload", fake.last(t).Path)
	assert.True(t, strings.HasPrefix(fake.last(t).Header.Get("Content-Type"), "multipart/form-data"))
}

func TestUploadResume(t *testing.T) {
	client, fake := newTestClient(t, "t", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"id": 3, "filename": "cv.pdf", "parsed_skills": []string{"Go"}})
	})

	resume, err := client.Employee().UploadResume(context.Background(), Upload{Filename: "cv.pdf", Content: strings.NewReader("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, ID("3"), resume.ID)
	assert.Equal(t, []string{"Go"}, resume.ParsedSkills)
	assert.Equal(t, "/employee/resume/upload", fake.last(t).Path)
}

func TestDecodeListShapes(t *testing.T) {
	items, err := decodeList[Match](json.RawMessage(`{"matches": [{"id": 1, "match_score": 70}]}`), "matches")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ID("1"), items[0].ID)

	items, err = decodeList[Match](json.RawMessage(`{"items": [{"id": "x"}]}`))
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = decodeList[Match](json.RawMessage(`null`))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = decodeList[Match](json.RawMessage(`{"matches": "nope"}`), "matches")
	assert.Error(t, err)
}

func TestIDJSON(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`42`), &id))
	assert.Equal(t, ID("42"), id)
	require.NoError(t, json.Unmarshal([]byte(`"a-b"`), &id))
	assert.Equal(t, ID("a-b"), id)
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.Equal(t, ID(""), id)
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))

	out, err := json.Marshal(ID("42"))
	require.NoError(t, err)
	assert.Equal(t, `42`, string(out))
	out, err = json.Marshal(ID("6f1c"))
	require.NoError(t, err)
	assert.Equal(t, `"6f1c"`, string(out))
	out, err = json.Marshal(ID("-3"))
	require.NoError(t, err)
	assert.Equal(t, `-3`, string(out))
}

func TestIDJSONKeepsNonCanonicalDigitsQuoted(t *testing.T) {
	for _, id := range []ID{"007", "+5", "-0", "99999999999999999999"} {
		t.Run(string(id), func(t *testing.T) {
			out, err := json.Marshal(CalculateMatchRequest{JobID: id, EmployeeID: "1"})
			require.NoError(t, err)
			require.True(t, json.Valid(out))

			var back CalculateMatchRequest
			require.NoError(t, json.Unmarshal(out, &back))
			assert.Equal(t, id, back.JobID)
		})
	}
}

func TestParseEnums(t *testing.T) {
	jt, err := ParseJobType("Full-Time")
	require.NoError(t, err)
	assert.Equal(t, JobTypeFullTime, jt)

	cur, err := ParseCurrency("eur")
	require.NoError(t, err)
	assert.Equal(t, CurrencyEUR, cur)

	st, err := ParseApplicationStatus("interview-scheduled")
	require.NoError(t, err)
	assert.Equal(t, StatusInterviewScheduled, st)

	_, err = ParseExperienceLevel("wizard")
	assert.ErrorContains(t, err, "unknown experience level")

	it, err := ParseInterviewType("IN_PERSON")
	require.NoError(t, err)
	assert.Equal(t, InterviewInPerson, it)
}

func TestQueryKeyIsStable(t *testing.T) {
	score := 80.0
	a := QueryKey(CandidateSearchParams{Location: "Berlin", MinCommunicationScore: &score})
	b := QueryKey(CandidateSearchParams{MinCommunicationScore: &score, Location: "Berlin"})
	assert.Equal(t, a, b)
	assert.Equal(t, "location=Berlin&min_communication_score=80", a)
	assert.Equal(t, "-", QueryKey(CandidateSearchParams{}))
}
