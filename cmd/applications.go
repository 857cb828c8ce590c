package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/api"
)

var (
	statusNotes string

	interviewAt       string
	interviewDuration int
	interviewType     string
	interviewLocation string
	interviewLink     string
	interviewNotes    string
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "Review applications to your job postings (employer)",
}

var applicationsListCmd = &cobra.Command{
	Use:   "list <job-id>",
	Short: "List applications to a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		apps, err := e.app.JobApplications(ctx, api.ID(args[0]))
		if err != nil {
			return err
		}
		return e.out.Applications(apps)
	}),
}

var applicationsStatusCmd = &cobra.Command{
	Use:   "status <application-id> <status>",
	Short: "Change the status of an application",
	Long:  "Change the status of an application. Status is one of: " + joinStrings(enumStrings(api.ApplicationStatuses)),
	Args:  cobra.ExactArgs(2),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		status, err := api.ParseApplicationStatus(args[1])
		if err != nil {
			return err
		}

		app, err := e.app.UpdateApplicationStatus(ctx, api.ID(args[0]), api.StatusUpdate{Status: status, Notes: statusNotes})
		if err != nil {
			return err
		}
		e.logger.Info("application updated", zap.String("id", app.ID.String()), zap.String("status", string(app.Status)))
		return nil
	}),
}

var applicationsInterviewCmd = &cobra.Command{
	Use:   "interview <application-id>",
	Short: "Schedule an interview for an application",
	Args:  cobra.ExactArgs(1),
	RunE: action(func(ctx context.Context, e *env, args []string) error {
		req, err := interviewRequest(time.Local)
		if err != nil {
			return err
		}

		interview, err := e.app.ScheduleInterview(ctx, api.ID(args[0]), req)
		if err != nil {
			return err
		}
		e.logger.Info("interview scheduled",
			zap.String("id", interview.ID.String()),
			zap.String("at", req.ScheduledAt.Format(time.RFC1123)),
			zap.String("type", string(req.InterviewType)),
		)
		return nil
	}),
}

func init() {
	applicationsStatusCmd.Flags().StringVar(&statusNotes, "notes", "", "notes for the candidate")

	f := applicationsInterviewCmd.Flags()
	f.StringVar(&interviewAt, "at", "", `start time, "2006-01-02 15:04" in local time or RFC3339`)
	f.IntVar(&interviewDuration, "duration", 60, "duration in minutes")
	f.StringVar(&interviewType, "type", string(api.InterviewVideo), "interview type: "+joinStrings(enumStrings(api.InterviewTypes)))
	f.StringVar(&interviewLocation, "location", "", "address for in-person interviews")
	f.StringVar(&interviewLink, "link", "", "meeting link for video interviews")
	f.StringVar(&interviewNotes, "notes", "", "notes for the candidate")
	_ = applicationsInterviewCmd.MarkFlagRequired("at")

	applicationsCmd.AddCommand(applicationsListCmd, applicationsStatusCmd, applicationsInterviewCmd)
	rootCmd.AddCommand(applicationsCmd)
}

func interviewRequest(loc *time.Location) (api.InterviewRequest, error) {
	at, err := parseTime(interviewAt, loc)
	if err != nil {
		return api.InterviewRequest{}, err
	}
	if interviewDuration <= 0 {
		return api.InterviewRequest{}, fmt.Errorf("duration must be positive, got %d", interviewDuration)
	}
	kind, err := api.ParseInterviewType(interviewType)
	if err != nil {
		return api.InterviewRequest{}, err
	}

	return api.InterviewRequest{
		ScheduledAt:     at,
		DurationMinutes: interviewDuration,
		InterviewType:   kind,
		Location:        interviewLocation,
		MeetingLink:     interviewLink,
		Notes:           interviewNotes,
	}, nil
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use \"2006-01-02 15:04\" or RFC3339", s)
	}
	return t, nil
}
