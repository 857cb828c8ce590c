package app

import (
	"context"
	"fmt"

	"github.com/spigell/hirematch/internal/ai"
	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/query"
	"github.com/spigell/hirematch/internal/wizard"
)

type jobWriter struct {
	app *App
}

var _ wizard.JobWriter = jobWriter{}

// JobWriter returns the wizard's persistence, invalidating the job list on success.
func (a *App) JobWriter() wizard.JobWriter {
	return jobWriter{app: a}
}

func (w jobWriter) CreateJob(ctx context.Context, req *api.JobRequest) (*api.Job, error) {
	return query.Mutate(ctx, w.app.Query, func(ctx context.Context) (*api.Job, error) {
		return w.app.Employer.CreateJob(ctx, req)
	}, w.app.keys(keyEmployerJobs)...)
}

func (w jobWriter) UpdateJob(ctx context.Context, id api.ID, req *api.JobRequest) (*api.Job, error) {
	return query.Mutate(ctx, w.app.Query, func(ctx context.Context) (*api.Job, error) {
		return w.app.Employer.UpdateJob(ctx, id, req)
	}, w.app.keys(keyEmployerJobs)...)
}

func (a *App) DeleteJob(ctx context.Context, id api.ID) error {
	_, err := query.Mutate(ctx, a.Query, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.Employer.DeleteJob(ctx, id)
	}, a.keys(keyEmployerJobs, keyMatching)...)
	return err
}

func (a *App) UpdateApplicationStatus(ctx context.Context, applicationID api.ID, update api.StatusUpdate) (*api.Application, error) {
	return query.Mutate(ctx, a.Query, func(ctx context.Context) (*api.Application, error) {
		return a.Employer.UpdateApplicationStatus(ctx, applicationID, update)
	}, a.keys(keyEmployerJobs)...)
}

func (a *App) ScheduleInterview(ctx context.Context, applicationID api.ID, req api.InterviewRequest) (*api.Interview, error) {
	return query.Mutate(ctx, a.Query, func(ctx context.Context) (*api.Interview, error) {
		return a.Employer.ScheduleInterview(ctx, applicationID, req)
	}, a.keys(keyEmployerJobs)...)
}

func (a *App) GenerateMatches(ctx context.Context, jobID api.ID) (*api.GenerateMatchesResult, error) {
	return query.Mutate(ctx, a.Query, func(ctx context.Context) (*api.GenerateMatchesResult, error) {
		return a.Matching.GenerateMatches(ctx, jobID)
	}, a.keys(keyMatching)...)
}

// CalculateMatch asks the API to score one pair. It changes nothing cached.
func (a *App) CalculateMatch(ctx context.Context, req api.CalculateMatchRequest) (*api.Match, error) {
	return query.Mutate(ctx, a.Query, func(ctx context.Context) (*api.Match, error) {
		return a.Matching.CalculateMatch(ctx, req)
	})
}

func (a *App) DismissMatch(ctx context.Context, matchID api.ID) error {
	_, err := query.Mutate(ctx, a.Query, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.Matching.DismissMatch(ctx, matchID)
	}, a.keys(keyMatching)...)
	return err
}

func (a *App) BulkGenerateMatches(ctx context.Context) (*api.BulkMatchResult, error) {
	return query.Mutate(ctx, a.Query, a.Matching.BulkGenerate, a.keys(keyMatching)...)
}

func (a *App) UploadResume(ctx context.Context, u api.Upload) (*api.Resume, error) {
	return query.Mutate(ctx, a.Query, func(ctx context.Context) (*api.Resume, error) {
		return a.Employee.UploadResume(ctx, u)
	}, a.keys(keyResumes, keyMatching)...)
}

func (a *App) UploadVoice(ctx context.Context, u api.Upload) (*api.VoiceAnalysis, error) {
	return query.Mutate(ctx, a.Query, func(ctx context.Context) (*api.VoiceAnalysis, error) {
		return a.Employee.UploadVoice(ctx, u)
	}, a.keys(keyVoiceAnalyses, keyMatching)...)
}

func (a *App) Apply(ctx context.Context, jobID api.ID, req api.ApplyRequest) (*api.Application, error) {
	return query.Mutate(ctx, a.Query, func(ctx context.Context) (*api.Application, error) {
		return a.Employee.Apply(ctx, jobID, req)
	}, a.keys(keyEmployeeApplicants, keyEmployeeMatches)...)
}

func (a *App) Withdraw(ctx context.Context, applicationID api.ID) (*api.Application, error) {
	return query.Mutate(ctx, a.Query, func(ctx context.Context) (*api.Application, error) {
		return a.Employee.Withdraw(ctx, applicationID)
	}, a.keys(keyEmployeeApplicants)...)
}

// recommendationLimit bounds the lookup of a job among the employee's matches.
const recommendationLimit = 100

// DraftCoverLetter asks the AI writer for a cover letter for jobID, using the
// employee's recommendation for that job and their primary resume.
func (a *App) DraftCoverLetter(ctx context.Context, jobID api.ID, notes string) (string, error) {
	if a.Writer == nil {
		return "", fmt.Errorf("AI cover letters are disabled; set ai.enabled and a Gemini API key")
	}

	matches, err := a.Recommendations(ctx, api.EmployeeMatchesParams{Limit: recommendationLimit})
	if err != nil {
		return "", fmt.Errorf("load recommendations: %w", err)
	}

	var match *api.Match
	for i := range matches {
		if matches[i].JobID == jobID && matches[i].Job != nil {
			match = &matches[i]
			break
		}
	}
	if match == nil {
		return "", fmt.Errorf("job %s is not among your recommendations", jobID)
	}

	resumes, err := a.Resumes(ctx)
	if err != nil {
		return "", fmt.Errorf("load resumes: %w", err)
	}

	return a.Writer.CoverLetter(ctx, ai.CoverLetterRequest{
		Job:    match.Job,
		Resume: primaryResume(resumes),
		Match:  match,
		Notes:  notes,
	})
}

func primaryResume(resumes []api.Resume) *api.Resume {
	for i := range resumes {
		if resumes[i].IsPrimary {
			return &resumes[i]
		}
	}
	if len(resumes) > 0 {
		return &resumes[0]
	}
	return nil
}
