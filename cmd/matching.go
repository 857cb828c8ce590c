package cmd

import (
	"context"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/filtering"
)

var (
	mineLimit            int
	mineMinScore         float64
	mineIncludeApplied   bool
	mineIncludeDismissed bool
	mineCompanies        []string
	mineExcludeFile      string
	mineExplain          bool

	calculateEmployee string
)

var matchingCmd = &cobra.Command{
	Use:   "matching",
	Short: "AI job matching",
}

var matchingGenerateCmd = &cobra.Command{
	Use:   "generate <job-id>",
	Short: "Generate candidate matches for a job posting (employer)",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		res, err := e.app.GenerateMatches(ctx, api.ID(args[0]))
		if err != nil {
			return err
		}
		e.logger.Info("matches generated", zap.Int("count", res.MatchesGenerated))
		if len(res.Matches) > 0 {
			return e.out.Matches(res.Matches)
		}
		return nil
	}),
}

var matchingMineCmd = &cobra.Command{
	Use:     "mine",
	Aliases: []string{"recommendations"},
	Short:   "Show your AI job recommendations (employee)",
	Args:    cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		params := api.EmployeeMatchesParams{Limit: mineLimit}
		cfg := filtering.Config{
			MinScore:         mineMinScore,
			IncludeApplied:   mineIncludeApplied,
			IncludeDismissed: mineIncludeDismissed,
			Companies:        mineCompanies,
			ExcludeFile:      mineExcludeFile,
		}

		res, err := e.app.FilteredRecommendations(ctx, params, cfg)
		if err != nil {
			return err
		}
		if mineExplain {
			printFilters(e, res.Filters)
		}
		return e.out.Matches(res.Matches)
	}),
}

var matchingCalculateCmd = &cobra.Command{
	Use:   "calculate <job-id>",
	Short: "Ask the API to score a job against a candidate",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		match, err := e.app.CalculateMatch(ctx, api.CalculateMatchRequest{
			JobID:      api.ID(args[0]),
			EmployeeID: api.ID(calculateEmployee),
		})
		if err != nil {
			return err
		}
		return e.out.Match(match)
	}),
}

var matchingDismissCmd = &cobra.Command{
	Use:   "dismiss <match-id>",
	Short: "Hide a recommendation",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		if err := e.app.DismissMatch(ctx, api.ID(args[0])); err != nil {
			return err
		}
		e.logger.Info("match dismissed", zap.String("id", args[0]))
		return nil
	}),
}

var matchingStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show matching statistics (employer)",
	Args:  cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		stats, err := e.app.MatchingStats(ctx)
		if err != nil {
			return err
		}
		return e.out.Stats(stats)
	}),
}

var matchingBulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Regenerate matches for all your active job postings (employer)",
	Args:  cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		res, err := e.app.BulkGenerateMatches(ctx)
		if err != nil {
			return err
		}
		e.logger.Info("bulk match generation finished",
			zap.Int("jobs", res.JobsProcessed),
			zap.Int("matches", res.MatchesGenerated),
		)
		return nil
	}),
}

var matchingDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Overview for the current account role",
	Args:  cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		claims, ok, err := e.app.Claims()
		if err != nil {
			return err
		}
		if ok && claims.AccountRole() == "employee" {
			return employeeDashboard(ctx, e)
		}
		return employerDashboard(ctx, e)
	}),
}

func init() {
	f := matchingMineCmd.Flags()
	f.IntVar(&mineLimit, "limit", 20, "maximum number of recommendations requested")
	f.Float64Var(&mineMinScore, "min-score", 0, "hide recommendations scored below this (0-100)")
	f.BoolVar(&mineIncludeApplied, "include-applied", false, "keep jobs you already applied to")
	f.BoolVar(&mineIncludeDismissed, "include-dismissed", false, "keep dismissed recommendations")
	f.StringSliceVar(&mineCompanies, "exclude-company", nil, "hide jobs of these companies")
	f.StringVarP(&mineExcludeFile, "exclude-file", "e", "", "file with job ids to hide, one per line")
	f.BoolVar(&mineExplain, "explain", false, "print which filters ran before the results")

	matchingCalculateCmd.Flags().StringVar(&calculateEmployee, "employee", "", "candidate id (employers only)")

	matchingCmd.AddCommand(
		matchingGenerateCmd,
		matchingMineCmd,
		matchingCalculateCmd,
		matchingDismissCmd,
		matchingStatsCmd,
		matchingBulkCmd,
		matchingDashboardCmd,
	)
	rootCmd.AddCommand(matchingCmd)
}

func printFilters(e *env, statuses []filtering.Status) {
	for _, st := range statuses {
		state := "on"
		if !st.Enabled {
			state = "off"
		}

		keys := make([]string, 0, len(st.Details))
		for k := range st.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys)+1)
		for _, k := range keys {
			parts = append(parts, k+"="+st.Details[k])
		}
		if st.Reason != "" {
			parts = append(parts, "reason: "+st.Reason)
		}
		e.out.Message("filter %-16s %-3s %s", st.Name, state, strings.Join(parts, " "))
	}
	e.out.Message("")
}

func employerDashboard(ctx context.Context, e *env) error {
	d, err := e.app.EmployerDashboard(ctx)
	if err != nil {
		return err
	}

	if err := e.out.Jobs(d.Jobs); err != nil {
		return err
	}
	e.out.Message("")
	if d.Stats == nil {
		e.out.Message("%s", d.StatsMessage)
		return nil
	}
	return e.out.Stats(d.Stats)
}

func employeeDashboard(ctx context.Context, e *env) error {
	d, err := e.app.EmployeeDashboard(ctx, api.EmployeeMatchesParams{Limit: 5})
	if err != nil {
		return err
	}

	for _, section := range []struct {
		title string
		print func() error
	}{
		{"Top recommendations", func() error { return e.out.Matches(d.Recommendations) }},
		{"Your applications", func() error { return e.out.Applications(d.Applications) }},
		{"Resumes", func() error { return e.out.Resumes(d.Resumes) }},
	} {
		e.out.Message("%s", section.title)
		if err := section.print(); err != nil {
			return err
		}
		e.out.Message("")
	}
	return nil
}
