package filtering

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/hirematch/internal/api"
)

type fakeApplications struct {
	apps []api.Application
	err  error

	mu    sync.Mutex
	calls int
}

func (f *fakeApplications) Applications(context.Context) ([]api.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.apps, f.err
}

func sampleMatches() []api.Match {
	return []api.Match{
		{ID: "m1", JobID: "1", MatchScore: 92, Job: &api.Job{CompanyName: "Acme"}},
		{ID: "m2", JobID: "2", MatchScore: 55, Job: &api.Job{CompanyName: "Globex"}},
		{ID: "m3", JobID: "3", MatchScore: 71, IsDismissed: true},
		{ID: "m4", JobID: "4", MatchScore: 80, Job: &api.Job{CompanyName: "Initech"}},
	}
}

func jobIDs(m *Matches) []string {
	ids := make([]string, 0, m.Len())
	for _, item := range m.Items {
		ids = append(ids, item.JobID.String())
	}
	return ids
}

func TestRunDefaultChain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exclude := filepath.Join(dir, "exclude.txt")
	if err := os.WriteFile(exclude, []byte("# hidden\n\n4\n"), 0o600); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}

	apps := &fakeApplications{apps: []api.Application{
		{JobID: "1", Status: api.StatusPending},
		{JobID: "2", Status: api.StatusWithdrawn},
	}}

	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{
			name: "defaults drop dismissed and applied",
			cfg:  Config{},
			want: []string{"2", "4"},
		},
		{
			name: "min score",
			cfg:  Config{MinScore: 60},
			want: []string{"4"},
		},
		{
			name: "companies are case-insensitive",
			cfg:  Config{Companies: []string{" globex "}},
			want: []string{"4"},
		},
		{
			name: "exclude file",
			cfg:  Config{ExcludeFile: exclude},
			want: []string{"2"},
		},
		{
			name: "include everything",
			cfg:  Config{IncludeApplied: true, IncludeDismissed: true},
			want: []string{"1", "2", "3", "4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			got, err := Run(context.Background(), &cfg, Deps{Applications: apps, Logger: zap.NewNop()}, Default(), NewMatches(sampleMatches()))
			if err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			if ids := jobIDs(got); !reflect.DeepEqual(ids, tt.want) {
				t.Fatalf("left jobs = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestRunValidatesBeforeApplying(t *testing.T) {
	t.Parallel()

	apps := &fakeApplications{}
	_, err := Run(context.Background(), &Config{MinScore: 120}, Deps{Applications: apps}, Default(), NewMatches(sampleMatches()))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if apps.calls != 0 {
		t.Fatalf("applications fetched %d times before validation failed", apps.calls)
	}
}

func TestAppliedHistoryErrors(t *testing.T) {
	t.Parallel()

	steps := []Filter{NewAppliedHistory()}

	_, err := Run(context.Background(), &Config{}, Deps{}, steps, NewMatches(sampleMatches()))
	if err == nil {
		t.Fatalf("expected error without applications source")
	}

	boom := errors.New("boom")
	_, err = Run(context.Background(), &Config{}, Deps{Applications: &fakeApplications{err: boom}}, steps, NewMatches(sampleMatches()))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestAppliedHistorySkipsFetchForEmptyList(t *testing.T) {
	t.Parallel()

	apps := &fakeApplications{}
	got, err := Run(context.Background(), &Config{}, Deps{Applications: apps}, []Filter{NewAppliedHistory()}, NewMatches(nil))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got.Len() != 0 || apps.calls != 0 {
		t.Fatalf("len=%d calls=%d", got.Len(), apps.calls)
	}
}

func TestDisableByName(t *testing.T) {
	t.Parallel()

	steps := Default()
	DisableByName(steps, "applied_history", "signed in as employer")

	got, err := Run(context.Background(), &Config{}, Deps{}, steps, NewMatches(sampleMatches()))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ids := jobIDs(got); !reflect.DeepEqual(ids, []string{"1", "2", "4"}) {
		t.Fatalf("left jobs = %v", ids)
	}

	for _, status := range Describe(steps) {
		if status.Name != "applied_history" {
			continue
		}
		if status.Enabled || status.Reason != "signed in as employer" {
			t.Fatalf("unexpected status %+v", status)
		}
		return
	}
	t.Fatalf("applied_history status not reported")
}

func TestRunLogsSteps(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	_, err := Run(context.Background(), &Config{MinScore: 60}, Deps{Logger: zap.New(core)}, []Filter{NewMinScore()}, NewMatches(sampleMatches()))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	entries := logs.FilterMessage("filter step").All()
	if len(entries) != 1 {
		t.Fatalf("expected one step log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["name"] != "min_score" || fields["dropped"] != int64(1) || fields["left"] != int64(3) {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestNewMatchesCopies(t *testing.T) {
	t.Parallel()

	src := sampleMatches()
	m := NewMatches(src)
	m.ExcludeJobs([]string{"1"})

	if src[0].JobID != "1" || len(src) != 4 {
		t.Fatalf("source slice was modified: %v", src)
	}
}
