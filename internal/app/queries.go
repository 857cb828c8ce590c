package app

import (
	"context"

	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/filtering"
	"github.com/spigell/hirematch/internal/query"
)

func (a *App) Jobs(ctx context.Context) ([]api.Job, error) {
	return query.Fetch(ctx, a.Query, a.key(keyEmployerJobs), query.Options{StaleTime: listStaleTime}, a.Employer.ListJobs)
}

func (a *App) Job(ctx context.Context, id api.ID) (*api.Job, error) {
	return query.Fetch(ctx, a.Query, a.key(jobKey(id)), query.Options{StaleTime: listStaleTime}, func(ctx context.Context) (*api.Job, error) {
		return a.Employer.GetJob(ctx, id)
	})
}

func (a *App) JobApplications(ctx context.Context, jobID api.ID) ([]api.Application, error) {
	return query.Fetch(ctx, a.Query, a.key(jobApplicationsKey(jobID)), query.Options{StaleTime: listStaleTime}, func(ctx context.Context) ([]api.Application, error) {
		return a.Employer.JobApplications(ctx, jobID)
	})
}

// SearchCandidates is cached for two minutes per parameter set. No match is
// an empty slice, not an error.
func (a *App) SearchCandidates(ctx context.Context, params api.CandidateSearchParams) ([]api.CandidateProfile, error) {
	key := keyCandidates.Append(api.QueryKey(params))
	return query.Fetch(ctx, a.Query, a.key(key), query.Options{StaleTime: SearchStaleTime}, func(ctx context.Context) ([]api.CandidateProfile, error) {
		return a.Employer.SearchCandidates(ctx, params)
	})
}

// Recommendations are cached for five minutes per parameter set.
func (a *App) Recommendations(ctx context.Context, params api.EmployeeMatchesParams) ([]api.Match, error) {
	key := keyEmployeeMatches.Append(api.QueryKey(params))
	return query.Fetch(ctx, a.Query, a.key(key), query.Options{StaleTime: RecommendationsStaleTime}, func(ctx context.Context) ([]api.Match, error) {
		return a.Matching.EmployeeMatches(ctx, params)
	})
}

// FilteredMatches is what the recommendation filters left, plus a report
// of each filter.
type FilteredMatches struct {
	Matches []api.Match
	Filters []filtering.Status
}

// FilteredRecommendations runs the recommendation filters over Recommendations.
func (a *App) FilteredRecommendations(ctx context.Context, params api.EmployeeMatchesParams, cfg filtering.Config) (*FilteredMatches, error) {
	matches, err := a.Recommendations(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(cfg.Companies) == 0 {
		cfg.Companies = a.cfg.Filters.Companies
	}
	if cfg.ExcludeFile == "" {
		cfg.ExcludeFile = a.cfg.Filters.ExcludeFile
	}

	steps := filtering.Default()
	// Employer accounts have no applications of their own to hide.
	if claims, ok, _ := a.Claims(); ok && claims.AccountRole() == "employer" {
		filtering.DisableByName(steps, "applied_history", "signed in as employer")
	}

	deps := filtering.Deps{
		Applications: applicationLister(a.MyApplications),
		Logger:       a.logger.Named("filtering"),
	}
	left, err := filtering.Run(ctx, &cfg, deps, steps, filtering.NewMatches(matches))
	if err != nil {
		return nil, err
	}
	return &FilteredMatches{Matches: left.Items, Filters: filtering.Describe(steps)}, nil
}

type applicationLister func(context.Context) ([]api.Application, error)

func (f applicationLister) Applications(ctx context.Context) ([]api.Application, error) {
	return f(ctx)
}

// MatchingStats retries twice on failure, except on 403.
func (a *App) MatchingStats(ctx context.Context) (*api.MatchingStats, error) {
	retry := statsRetry
	return query.Fetch(ctx, a.Query, a.key(keyMatchingStats), query.Options{Retry: &retry}, a.Matching.Stats)
}

func (a *App) Resumes(ctx context.Context) ([]api.Resume, error) {
	return query.Fetch(ctx, a.Query, a.key(keyResumes), query.Options{StaleTime: listStaleTime}, a.Employee.Resumes)
}

func (a *App) VoiceAnalyses(ctx context.Context) ([]api.VoiceAnalysis, error) {
	return query.Fetch(ctx, a.Query, a.key(keyVoiceAnalyses), query.Options{StaleTime: listStaleTime}, a.Employee.VoiceAnalyses)
}

func (a *App) MyApplications(ctx context.Context) ([]api.Application, error) {
	return query.Fetch(ctx, a.Query, a.key(keyEmployeeApplicants), query.Options{StaleTime: listStaleTime}, a.Employee.Applications)
}
