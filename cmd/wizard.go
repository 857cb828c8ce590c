package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/wizard"
)

const (
	menuNext         = "Next"
	menuBack         = "Back"
	menuSubmit       = "Submit"
	menuSave         = "Save"
	menuEditBasics   = "Edit basic information"
	menuEditSkills   = "Edit requirements & skills"
	menuEditComp     = "Edit compensation & matching"
	menuRemoveSkill  = "Remove a skill"
	menuCancel       = "Cancel"
	skillPromptLabel = "%s skill (empty to continue)"
)

var errWizardCancelled = errors.New("job posting cancelled")

// driveWizard runs the job-posting form in the terminal until it is
// submitted or cancelled.
func driveWizard(ctx context.Context, w *wizard.Wizard, logger *zap.Logger) (*api.Job, error) {
	if w.Mode() == wizard.ModeEdit {
		return driveEditor(ctx, w, logger)
	}

	edit := map[wizard.Step]func(*wizard.Wizard) error{
		wizard.StepBasic:        editBasics,
		wizard.StepRequirements: editRequirements,
		wizard.StepCompensation: editCompensation,
	}

	for {
		step := w.Step()
		logger.Info(fmt.Sprintf("step %d of %d: %s", step, wizard.FinalStep, step.Title()))

		if err := edit[step](w); err != nil {
			return nil, err
		}

		for {
			items := []string{menuNext, menuBack, menuCancel}
			switch step {
			case wizard.StepBasic:
				items = []string{menuNext, menuCancel}
			case wizard.StepRequirements:
				items = []string{menuNext, menuBack, menuRemoveSkill, menuCancel}
			case wizard.FinalStep:
				items = []string{menuSubmit, menuBack, menuCancel}
			}

			choice, err := promptSelect("Continue?", items, "")
			if err != nil {
				return nil, err
			}

			switch choice {
			case menuNext:
				if err := w.Next(); err != nil {
					logger.Warn(err.Error())
					if err := edit[step](w); err != nil {
						return nil, err
					}
					continue
				}
			case menuBack:
				w.Previous()
			case menuRemoveSkill:
				if err := removeSkill(w); err != nil {
					return nil, err
				}
				continue
			case menuSubmit:
				job, done, err := submit(ctx, w, logger)
				if err != nil {
					return nil, err
				}
				if !done {
					continue
				}
				return job, nil
			case menuCancel:
				w.Cancel()
				return nil, errWizardCancelled
			}
			break
		}
	}
}

func driveEditor(ctx context.Context, w *wizard.Wizard, logger *zap.Logger) (*api.Job, error) {
	for {
		choice, err := promptSelect("Edit job posting", []string{
			menuEditBasics, menuEditSkills, menuRemoveSkill, menuEditComp, menuSave, menuCancel,
		}, "")
		if err != nil {
			return nil, err
		}

		switch choice {
		case menuEditBasics:
			err = editBasics(w)
		case menuEditSkills:
			err = editRequirements(w)
		case menuRemoveSkill:
			err = removeSkill(w)
		case menuEditComp:
			err = editCompensation(w)
		case menuSave:
			job, done, err := submit(ctx, w, logger)
			if err != nil || done {
				return job, err
			}
		case menuCancel:
			w.Cancel()
			return nil, errWizardCancelled
		}
		if err != nil {
			return nil, err
		}
	}
}

// submit presses the submit control. Validation and server errors are shown
// and leave the draft in place for another attempt; done is false then.
func submit(ctx context.Context, w *wizard.Wizard, logger *zap.Logger) (*api.Job, bool, error) {
	res, err := w.HandleEnter(ctx, wizard.ControlSubmitButton)
	var submitErr *wizard.SubmitError
	switch {
	case err == nil && res.Action == wizard.KeySubmitted:
		return res.Job, true, nil
	case err == nil:
		return nil, false, nil
	case wizard.IsValidation(err):
		logger.Warn(err.Error())
		return nil, false, nil
	case errors.As(err, &submitErr):
		logger.Error(submitErr.Message)
		logger.Debug("submit failed", zap.Error(submitErr.Err))
		return nil, false, nil
	default:
		return nil, false, err
	}
}

func editBasics(w *wizard.Wizard) error {
	d := w.Draft()
	var err error

	if d.Title, err = promptString("Job title", d.Title, true); err != nil {
		return err
	}
	if d.Description, err = promptString("Description", d.Description, true); err != nil {
		return err
	}
	if d.Location, err = promptString("Location", d.Location, true); err != nil {
		return err
	}
	if d.Department, err = promptString("Department", d.Department, false); err != nil {
		return err
	}

	jobType, err := promptSelect("Job type", enumStrings(api.JobTypes), string(d.JobType))
	if err != nil {
		return err
	}
	d.JobType = api.JobType(jobType)

	level, err := promptSelect("Experience level", enumStrings(api.ExperienceLevels), string(d.ExperienceLevel))
	if err != nil {
		return err
	}
	d.ExperienceLevel = api.ExperienceLevel(level)

	if d.RemoteAllowed, err = promptBool("Remote allowed?", d.RemoteAllowed); err != nil {
		return err
	}
	if d.IsUrgent, err = promptBool("Urgent hiring?", d.IsUrgent); err != nil {
		return err
	}

	w.Update(func(draft *wizard.Draft) { *draft = d })
	return nil
}

func editRequirements(w *wizard.Wizard) error {
	if err := readSkills(w, "Required", wizard.ControlRequiredSkillInput, func(s string) { w.NewSkill = s }); err != nil {
		return err
	}
	return readSkills(w, "Preferred", wizard.ControlPreferredSkillInput, func(s string) { w.NewPreferredSkill = s })
}

// readSkills feeds each line into the skill input and presses Enter on it
// until an empty line is entered.
func readSkills(w *wizard.Wizard, label string, control wizard.Control, buffer func(string)) error {
	for {
		current := w.Draft().RequiredSkills
		if control == wizard.ControlPreferredSkillInput {
			current = w.Draft().PreferredSkills
		}

		text, err := promptString(fmt.Sprintf(skillPromptLabel+" [%s]", label, strings.Join(current, ", ")), "", false)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}

		buffer(text)
		if _, err := w.HandleEnter(context.Background(), control); err != nil {
			return err
		}
	}
}

func removeSkill(w *wizard.Wizard) error {
	d := w.Draft()

	items := make([]string, 0, len(d.RequiredSkills)+len(d.PreferredSkills)+1)
	for _, s := range d.RequiredSkills {
		items = append(items, "required: "+s)
	}
	for _, s := range d.PreferredSkills {
		items = append(items, "preferred: "+s)
	}
	if len(items) == 0 {
		return nil
	}
	items = append(items, menuBack)

	choice, err := promptSelect("Remove which skill?", items, "")
	if err != nil || choice == menuBack {
		return err
	}

	if value, ok := strings.CutPrefix(choice, "required: "); ok {
		w.RemoveSkill(wizard.RequiredSkills, value)
	} else if value, ok := strings.CutPrefix(choice, "preferred: "); ok {
		w.RemoveSkill(wizard.PreferredSkills, value)
	}
	return nil
}

func editCompensation(w *wizard.Wizard) error {
	d := w.Draft()
	var err error

	if d.SalaryMin, err = promptFloat("Minimum salary (empty for none)", d.SalaryMin); err != nil {
		return err
	}
	if d.SalaryMax, err = promptFloat("Maximum salary (empty for none)", d.SalaryMax); err != nil {
		return err
	}

	currency, err := promptSelect("Currency", enumStrings(api.Currencies), string(d.Currency))
	if err != nil {
		return err
	}
	d.Currency = api.Currency(currency)

	if d.Benefits, err = promptString("Benefits", d.Benefits, false); err != nil {
		return err
	}
	if d.ExpiresAt, err = promptDate("Expires on", d.ExpiresAt); err != nil {
		return err
	}

	score := d.MinimumMatchScore
	minScore, err := promptFloat("Minimum match score (0-100)", &score)
	if err != nil {
		return err
	}
	if minScore != nil {
		d.MinimumMatchScore = *minScore
	}

	if d.MaxApplications, err = promptInt("Maximum applications (empty or 0 for unlimited)", d.MaxApplications); err != nil {
		return err
	}
	if d.AutoMatchEnabled, err = promptBool("Generate AI matches automatically?", d.AutoMatchEnabled); err != nil {
		return err
	}

	w.Update(func(draft *wizard.Draft) { *draft = d })
	return nil
}
