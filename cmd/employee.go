package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/render"
)

var (
	applyCoverLetter   string
	applyResume        string
	applyAICoverLetter bool
	applyNotes         string
	applyYes           bool
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage your resumes (employee)",
}

var resumeUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a resume for AI analysis",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		resume, err := e.app.UploadResume(ctx, api.Upload{Filename: filepath.Base(args[0]), Content: f})
		if err != nil {
			return err
		}
		e.logger.Info("resume uploaded", zap.String("id", resume.ID.String()), zap.String("status", resume.AnalysisStatus))
		return nil
	}),
}

var resumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your resumes",
	Args:  cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		resumes, err := e.app.Resumes(ctx)
		if err != nil {
			return err
		}
		return e.out.Resumes(resumes)
	}),
}

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Manage voice samples for communication scoring (employee)",
}

var voiceUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a voice sample",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		progress := newProgress(e.cmd.ErrOrStderr())
		analysis, err := e.app.UploadVoice(ctx, api.Upload{
			Filename: filepath.Base(args[0]),
			Content:  f,
			Progress: progress.report,
		})
		progress.done()
		if err != nil {
			return err
		}

		e.logger.Info("voice sample analysed",
			zap.String("id", analysis.ID.String()),
			zap.String("communication", e.out.Style().OptionalScore(analysis.OverallCommunicationScore)),
		)
		return nil
	}),
}

var voiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your voice analyses",
	Args:  cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		analyses, err := e.app.VoiceAnalyses(ctx)
		if err != nil {
			return err
		}
		return e.out.VoiceAnalyses(analyses)
	}),
}

var applyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Apply to a job (employee)",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		jobID := api.ID(args[0])

		letter := applyCoverLetter
		if applyAICoverLetter {
			drafted, err := e.app.DraftCoverLetter(ctx, jobID, applyNotes)
			if err != nil {
				return fmt.Errorf("drafting cover letter: %w", err)
			}
			e.out.Message("%s\n", drafted)

			if !applyYes {
				ok, err := confirm("Send this cover letter?")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}
			letter = drafted
		}

		app, err := e.app.Apply(ctx, jobID, api.ApplyRequest{CoverLetter: letter, ResumeID: api.ID(applyResume)})
		if err != nil {
			return err
		}
		e.logger.Info("application sent", zap.String("id", app.ID.String()), zap.String("job", jobID.String()))
		return nil
	}),
}

var myApplicationsCmd = &cobra.Command{
	Use:   "my-applications",
	Short: "List your applications (employee)",
	Args:  cobra.NoArgs,
	RunE: action(func(ctx context.Context, e *env, _ []string) error {
		apps, err := e.app.MyApplications(ctx)
		if err != nil {
			return err
		}
		if len(apps) == 0 {
			e.out.Message(render.NoApplicationsMessage)
			return nil
		}
		return e.out.Applications(apps)
	}),
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <application-id>",
	Short: "Withdraw one of your applications (employee)",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		app, err := e.app.Withdraw(ctx, api.ID(args[0]))
		if err != nil {
			return err
		}
		e.logger.Info("application withdrawn", zap.String("id", app.ID.String()), zap.String("status", string(app.Status)))
		return nil
	}),
}

func init() {
	f := applyCmd.Flags()
	f.StringVarP(&applyCoverLetter, "cover-letter", "m", "", "cover letter text")
	f.StringVar(&applyResume, "resume", "", "resume id to attach (default is your primary resume)")
	f.BoolVar(&applyAICoverLetter, "ai-cover-letter", false, "draft the cover letter with Gemini")
	f.StringVar(&applyNotes, "notes", "", "hints for the drafted cover letter")
	f.BoolVarP(&applyYes, "yes", "y", false, "send the drafted cover letter without asking")
	applyCmd.MarkFlagsMutuallyExclusive("cover-letter", "ai-cover-letter")

	resumeCmd.AddCommand(resumeUploadCmd, resumeListCmd)
	voiceCmd.AddCommand(voiceUploadCmd, voiceListCmd)
	rootCmd.AddCommand(resumeCmd, voiceCmd, applyCmd, myApplicationsCmd, withdrawCmd)
}
