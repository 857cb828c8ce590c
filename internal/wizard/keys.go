package wizard

import (
	"context"

	"github.com/spigell/hirematch/internal/api"
)

// Control identifies the form control that had focus when Enter was pressed.
type Control int

const (
	ControlField Control = iota
	ControlRequiredSkillInput
	ControlPreferredSkillInput
	ControlSubmitButton
)

// KeyAction is what an Enter keypress ended up doing.
type KeyAction int

const (
	// KeySuppressed means the keypress was cancelled.
	KeySuppressed KeyAction = iota
	// KeySkillAdded means the keypress was turned into an add-skill action.
	KeySkillAdded
	// KeySubmitted means the draft was submitted.
	KeySubmitted
)

type KeyResult struct {
	Action KeyAction
	// Job is the saved posting when Action is KeySubmitted and no error occurred.
	Job *api.Job
}

// HandleEnter decides what Enter does for control. Only the submit control on
// the final step submits; the skill inputs add their buffered text; every
// other Enter is suppressed.
func (w *Wizard) HandleEnter(ctx context.Context, control Control) (KeyResult, error) {
	switch control {
	case ControlRequiredSkillInput:
		w.AddRequiredSkill(w.NewSkill)
		return KeyResult{Action: KeySkillAdded}, nil
	case ControlPreferredSkillInput:
		w.AddPreferredSkill(w.NewPreferredSkill)
		return KeyResult{Action: KeySkillAdded}, nil
	case ControlSubmitButton:
		if !w.CanSubmit() {
			return KeyResult{Action: KeySuppressed}, nil
		}
		job, err := w.Submit(ctx)
		return KeyResult{Action: KeySubmitted, Job: job}, err
	default:
		return KeyResult{Action: KeySuppressed}, nil
	}
}
