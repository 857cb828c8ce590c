package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/api"
)

const includeFlagSetMsg = "include flag is set"

type dismissedFilter struct {
	include bool
}

// NewDismissed creates a filter that removes dismissed recommendations.
func NewDismissed() Filter {
	return &dismissedFilter{}
}

func (f *dismissedFilter) Name() string { return "dismissed" }

func (f *dismissedFilter) Disable(string) {}

func (f *dismissedFilter) IsEnabled() bool { return true }

func (f *dismissedFilter) Validate(cfg *Config) error {
	f.include = cfg != nil && cfg.IncludeDismissed
	return nil
}

func (f *dismissedFilter) Apply(_ context.Context, deps Deps, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if f.include {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	excluded := m.Exclude(func(item api.Match) bool { return item.IsDismissed })
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding dismissed recommendations",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *dismissedFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"include_dismissed": strconv.FormatBool(f.include)},
	}
}

type minScoreFilter struct {
	min float64
}

// NewMinScore creates a filter that removes recommendations scored below the configured minimum.
func NewMinScore() Filter {
	return &minScoreFilter{}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(string) {}

func (f *minScoreFilter) IsEnabled() bool { return true }

func (f *minScoreFilter) Validate(cfg *Config) error {
	f.min = 0
	if cfg == nil {
		return nil
	}
	if cfg.MinScore < 0 || cfg.MinScore > 100 {
		return fmt.Errorf("minimum score must be between 0 and 100, got %v", cfg.MinScore)
	}
	f.min = cfg.MinScore
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, deps Deps, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if f.min == 0 {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	excluded := m.Exclude(func(item api.Match) bool { return item.MatchScore < f.min })
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding recommendations below minimum score",
			zap.Float64("min_score", f.min),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"min_score": strconv.FormatFloat(f.min, 'f', -1, 64)},
	}
}

type companiesFilter struct {
	companies []string
}

// NewCompanies creates a filter that removes jobs of the configured companies.
func NewCompanies() Filter {
	return &companiesFilter{}
}

func (f *companiesFilter) Name() string { return "companies" }

func (f *companiesFilter) Disable(string) {}

func (f *companiesFilter) IsEnabled() bool { return true }

func (f *companiesFilter) Validate(cfg *Config) error {
	f.companies = nil
	if cfg == nil {
		return nil
	}
	for _, c := range cfg.Companies {
		if c = strings.TrimSpace(c); c != "" {
			f.companies = append(f.companies, c)
		}
	}
	return nil
}

func (f *companiesFilter) Apply(_ context.Context, deps Deps, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if len(f.companies) == 0 {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	excluded := m.Exclude(func(item api.Match) bool {
		if item.Job == nil {
			return false
		}
		for _, c := range f.companies {
			if strings.EqualFold(c, item.Job.CompanyName) {
				return true
			}
		}
		return false
	})
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding recommendations by company",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes jobs listed in an exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if f.path == "" {
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}

	ids, err := readExcludedJobs(f.path)
	if err != nil {
		return m, Step{}, fmt.Errorf("getting excluded jobs from file: %w", err)
	}

	removed := m.ExcludeJobs(ids)
	if deps.Logger != nil && len(removed) > 0 {
		deps.Logger.Debug("excluding recommendations based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_jobs", removed),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(removed), Left: m.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type appliedHistoryFilter struct {
	disabled bool
	reason   string
	include  bool
}

// NewAppliedHistory creates a filter that removes jobs the employee already applied to.
func NewAppliedHistory() Filter {
	return &appliedHistoryFilter{}
}

func (f *appliedHistoryFilter) Name() string { return "applied_history" }

func (f *appliedHistoryFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *appliedHistoryFilter) IsEnabled() bool { return !f.disabled }

func (f *appliedHistoryFilter) Validate(cfg *Config) error {
	f.include = cfg != nil && cfg.IncludeApplied
	return nil
}

func (f *appliedHistoryFilter) Apply(ctx context.Context, deps Deps, m *Matches) (*Matches, Step, error) {
	initial := m.Len()
	if f.include {
		if deps.Logger != nil {
			deps.Logger.Debug("keeping already applied jobs", zap.String("reason", includeFlagSetMsg))
		}
		return m, Step{Initial: initial, Dropped: 0, Left: m.Len()}, nil
	}
	if initial == 0 {
		return m, Step{}, nil
	}

	if deps.Applications == nil {
		return m, Step{}, fmt.Errorf("applications source is required")
	}

	apps, err := deps.Applications.Applications(ctx)
	if err != nil {
		return m, Step{}, fmt.Errorf("get my applications: %w", err)
	}

	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		if a.Status == api.StatusWithdrawn {
			continue
		}
		ids = append(ids, a.JobID.String())
	}

	excluded := m.ExcludeJobs(ids)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Debug("excluding jobs based on my applications",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("matches_left", m.Len()),
		)
	}

	return m, Step{Initial: initial, Dropped: len(excluded), Left: m.Len()}, nil
}

func (f *appliedHistoryFilter) Status() Status {
	details := map[string]string{
		"exclude_applied": strconv.FormatBool(!f.include),
	}
	reason := f.reason
	if f.include && reason == "" {
		reason = "include requested via flag"
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: reason, Details: details}
}
