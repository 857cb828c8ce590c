package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/spigell/hirematch/internal/api"
)

// EmployerDashboard is the employer overview. Stats stay nil when the
// account role may not see them; that is reported in StatsMessage.
type EmployerDashboard struct {
	Jobs         []api.Job
	Stats        *api.MatchingStats
	StatsMessage string
}

// EmployeeDashboard is the employee overview.
type EmployeeDashboard struct {
	Recommendations []api.Match
	Applications    []api.Application
	Resumes         []api.Resume
}

func (a *App) EmployerDashboard(ctx context.Context) (*EmployerDashboard, error) {
	var d EmployerDashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		jobs, err := a.Jobs(gctx)
		d.Jobs = jobs
		return err
	})
	g.Go(func() error {
		stats, err := a.MatchingStats(gctx)
		if api.IsForbidden(err) {
			d.StatsMessage = api.ForbiddenMessage
			return nil
		}
		d.Stats = stats
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (a *App) EmployeeDashboard(ctx context.Context, params api.EmployeeMatchesParams) (*EmployeeDashboard, error) {
	var d EmployeeDashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		matches, err := a.Recommendations(gctx, params)
		d.Recommendations = matches
		return err
	})
	g.Go(func() error {
		apps, err := a.MyApplications(gctx)
		d.Applications = apps
		return err
	})
	g.Go(func() error {
		resumes, err := a.Resumes(gctx)
		d.Resumes = resumes
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
