// Package wizard implements the job-posting form: a three-step create flow
// gated by validation, and a flat edit form sharing the same normalization.
package wizard

// Step is a page of the create flow.
type Step int

const (
	StepBasic Step = iota + 1
	StepRequirements
	StepCompensation
)

// FinalStep is the only step a draft can be submitted from.
const FinalStep = StepCompensation

func (s Step) String() string {
	switch s {
	case StepBasic:
		return "basic"
	case StepRequirements:
		return "requirements"
	case StepCompensation:
		return "compensation"
	default:
		return "unknown"
	}
}

// Title is the heading shown for the step.
func (s Step) Title() string {
	switch s {
	case StepBasic:
		return "Basic information"
	case StepRequirements:
		return "Requirements & skills"
	case StepCompensation:
		return "Compensation & matching"
	default:
		return ""
	}
}

// Event is a navigation request.
type Event int

const (
	EventNext Event = iota + 1
	EventPrevious
)

// Transition returns the step reached from `from` on ev. Leaving the basic
// step forward requires valid basic fields; on error the returned step is
// `from`. Going back is never validated.
func Transition(from Step, ev Event, d *Draft) (Step, error) {
	switch ev {
	case EventNext:
		if from == StepBasic {
			if err := validateBasics(d); err != nil {
				return from, err
			}
		}
		if from >= FinalStep {
			return FinalStep, nil
		}
		return from + 1, nil
	case EventPrevious:
		if from <= StepBasic {
			return StepBasic, nil
		}
		return from - 1, nil
	default:
		return from, nil
	}
}
