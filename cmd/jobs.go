package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/schemas"
	"github.com/spigell/hirematch/internal/wizard"
)

// jobFileFlags are the non-interactive inputs of create and edit.
type jobFileFlags struct {
	draft                     string
	matchingWeights           string
	communicationRequirements string
	requiredExperience        string
	requiredEducation         string
}

var (
	jobsCreateFlags jobFileFlags
	jobsEditFlags   jobFileFlags
	jobsDeleteYes   bool
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage your job postings (employer)",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your job postings",
	Args:  cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		jobs, err := e.app.Jobs(ctx)
		if err != nil {
			return err
		}
		return e.out.Jobs(jobs)
	}),
}

var jobsGetCmd = &cobra.Command{
	Use:   "get <job-id>",
	Short: "Show one job posting",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		job, err := e.app.Job(ctx, api.ID(args[0]))
		if err != nil {
			return err
		}
		return e.out.Job(job)
	}),
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Post a new job through the three-step form",
	Long: "Post a new job. Without --from-file the form is interactive: basic information, " +
		"then requirements and skills, then compensation and matching. It can only be submitted from the last step.",
	Args: cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		w := wizard.New(e.app.JobWriter())

		var job *api.Job
		var err error
		if jobsCreateFlags.draft != "" {
			job, err = submitFromFile(ctx, w, jobsCreateFlags)
		} else {
			if err := applyObjectFiles(w, jobsCreateFlags); err != nil {
				return err
			}
			job, err = driveWizard(ctx, w, e.logger)
		}
		if err != nil {
			return err
		}

		e.logger.Info("Job posted successfully!", zap.String("id", job.ID.String()), zap.String("title", job.Title))
		return nil
	}),
}

var jobsEditCmd = &cobra.Command{
	Use:   "edit <job-id>",
	Short: "Edit a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		id := api.ID(args[0])
		current, err := e.app.Job(ctx, id)
		if err != nil {
			return err
		}

		w := wizard.NewEditor(e.app.JobWriter(), id, wizard.DraftFromJob(current))

		var job *api.Job
		if jobsEditFlags.draft != "" {
			job, err = submitFromFile(ctx, w, jobsEditFlags)
		} else {
			if err := applyObjectFiles(w, jobsEditFlags); err != nil {
				return err
			}
			job, err = driveWizard(ctx, w, e.logger)
		}
		if err != nil {
			return err
		}

		e.logger.Info("Job updated successfully!", zap.String("id", job.ID.String()))
		return nil
	}),
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Delete a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		id := api.ID(args[0])
		if !jobsDeleteYes {
			ok, err := confirm(fmt.Sprintf("Delete job %s?", id))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		if err := e.app.DeleteJob(ctx, id); err != nil {
			return err
		}
		e.logger.Info("job deleted", zap.String("id", id.String()))
		return nil
	}),
}

func init() {
	for _, c := range []struct {
		cmd   *cobra.Command
		flags *jobFileFlags
	}{{jobsCreateCmd, &jobsCreateFlags}, {jobsEditCmd, &jobsEditFlags}} {
		c.cmd.Flags().StringVarP(&c.flags.draft, "from-file", "f", "", "submit a JSON draft without prompting")
		c.cmd.Flags().StringVar(&c.flags.matchingWeights, "matching-weights", "", "JSON file with matching_weights")
		c.cmd.Flags().StringVar(&c.flags.communicationRequirements, "communication-requirements", "", "JSON file with communication_requirements")
		c.cmd.Flags().StringVar(&c.flags.requiredExperience, "required-experience", "", "JSON file with required_experience")
		c.cmd.Flags().StringVar(&c.flags.requiredEducation, "required-education", "", "JSON file with required_education")
	}
	jobsDeleteCmd.Flags().BoolVarP(&jobsDeleteYes, "yes", "y", false, "do not ask for confirmation")

	jobsCmd.AddCommand(jobsListCmd, jobsGetCmd, jobsCreateCmd, jobsEditCmd, jobsDeleteCmd)
	rootCmd.AddCommand(jobsCmd)
}

// submitFromFile loads a draft, walks the form forward and submits it, so a
// file goes through the same validation as the interactive flow.
func submitFromFile(ctx context.Context, w *wizard.Wizard, flags jobFileFlags) (*api.Job, error) {
	draft, err := readDraft(flags.draft, w.Draft())
	if err != nil {
		return nil, err
	}
	w.Update(func(d *wizard.Draft) { *d = draft })

	if err := applyObjectFiles(w, flags); err != nil {
		return nil, err
	}

	for w.Step() != wizard.FinalStep {
		if err := w.Next(); err != nil {
			return nil, err
		}
	}

	res, err := w.HandleEnter(ctx, wizard.ControlSubmitButton)
	if err != nil {
		return nil, err
	}
	if res.Job == nil {
		return nil, errors.New("job posting was not submitted")
	}
	return res.Job, nil
}

// readDraft decodes path over base, so fields absent from the file keep
// their current values.
func readDraft(path string, base wizard.Draft) (wizard.Draft, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read draft: %w", err)
	}
	if err := json.Unmarshal(raw, &base); err != nil {
		return base, fmt.Errorf("parse draft %q: %w", path, err)
	}
	return base, nil
}

func applyObjectFiles(w *wizard.Wizard, flags jobFileFlags) error {
	objects := []struct {
		path   string
		schema schemas.Name
		set    func(d *wizard.Draft, obj map[string]any)
	}{
		{flags.matchingWeights, schemas.MatchingWeights, func(d *wizard.Draft, obj map[string]any) { d.MatchingWeights = obj }},
		{flags.communicationRequirements, schemas.CommunicationRequirements, func(d *wizard.Draft, obj map[string]any) { d.CommunicationRequirements = obj }},
		{flags.requiredExperience, schemas.RequiredExperience, func(d *wizard.Draft, obj map[string]any) { d.RequiredExperience = obj }},
		{flags.requiredEducation, schemas.RequiredEducation, func(d *wizard.Draft, obj map[string]any) { d.RequiredEducation = obj }},
	}

	for _, o := range objects {
		if o.path == "" {
			continue
		}
		obj, err := schemas.LoadObject(o.schema, o.path)
		if err != nil {
			return err
		}
		w.Update(func(d *wizard.Draft) { o.set(d, obj) })
	}
	return nil
}
