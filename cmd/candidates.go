package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/render"
)

var (
	searchSkills           []string
	searchLevel            string
	searchMinYears         int
	searchLocation         string
	searchMinCommunication float64
	searchLimit            int
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Find candidates (employer)",
}

var candidatesSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search candidates by skills, experience, location and communication score",
	Args:  cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		params, err := searchParams(e.cmd.Flags().Changed)
		if err != nil {
			return err
		}

		candidates, err := e.app.SearchCandidates(ctx, params)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			e.out.Message(render.NoCandidatesMessage)
			return nil
		}
		return e.out.Candidates(candidates)
	}),
}

func init() {
	f := candidatesSearchCmd.Flags()
	f.StringSliceVarP(&searchSkills, "skills", "s", nil, "required skills, comma separated")
	f.StringVar(&searchLevel, "level", "", "experience level: "+joinStrings(enumStrings(api.ExperienceLevels)))
	f.IntVar(&searchMinYears, "min-years", 0, "minimum years of experience")
	f.StringVarP(&searchLocation, "location", "l", "", "location")
	f.Float64Var(&searchMinCommunication, "min-communication", 0, "minimum communication score (0-100)")
	f.IntVar(&searchLimit, "limit", 0, "maximum number of results")

	candidatesCmd.AddCommand(candidatesSearchCmd)
	rootCmd.AddCommand(candidatesCmd)
}

// searchParams builds the query from the flags; unset flags are omitted.
func searchParams(changed func(string) bool) (api.CandidateSearchParams, error) {
	params := api.CandidateSearchParams{
		Location: strings.TrimSpace(searchLocation),
		Limit:    searchLimit,
	}
	for _, s := range searchSkills {
		if s = strings.TrimSpace(s); s != "" {
			params.Skills = append(params.Skills, s)
		}
	}
	if searchLevel != "" {
		level, err := api.ParseExperienceLevel(searchLevel)
		if err != nil {
			return params, err
		}
		params.ExperienceLevel = level
	}
	if changed("min-years") {
		years := searchMinYears
		params.MinExperienceYears = &years
	}
	if changed("min-communication") {
		score := searchMinCommunication
		params.MinCommunicationScore = &score
	}
	return params, nil
}

func joinStrings(values []string) string {
	return strings.Join(values, ", ")
}
