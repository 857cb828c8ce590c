// Package filtering hides recommendations the employee does not want to see.
// Filters only drop rows; scores always come from the API.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/api"
)

// Filter represents a single filtering step applied to recommendations.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, m *Matches) (*Matches, Step, error)
}

// ApplicationLister returns the employee's own applications.
type ApplicationLister interface {
	Applications(ctx context.Context) ([]api.Application, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Applications ApplicationLister
	Logger       *zap.Logger
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
type Config struct {
	// MinScore drops recommendations scored below it. Zero keeps everything.
	MinScore float64
	// IncludeApplied keeps jobs the employee already applied to.
	IncludeApplied bool
	// IncludeDismissed keeps recommendations the employee dismissed.
	IncludeDismissed bool
	// Companies are company names whose jobs are hidden.
	Companies []string
	// ExcludeFile lists job IDs to hide, one per line.
	ExcludeFile string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Default returns the standard filter chain in execution order.
func Default() []Filter {
	return []Filter{
		NewDismissed(),
		NewMinScore(),
		NewCompanies(),
		NewExcludeFile(),
		NewAppliedHistory(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns what is left.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, m *Matches) (*Matches, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Debug("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Debug("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		m = next
	}

	return m, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
