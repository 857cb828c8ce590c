package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

const (
	employerJobsPath = "/api/employer/jobs"
	employerAppsPath = "/api/employer/applications"
	candidatesPath   = "/api/employer/candidates/search"
)

// Job is a job posting as returned by the API.
type Job struct {
	ID                        ID              `json:"id"`
	EmployerID                ID              `json:"employer_id,omitempty"`
	CompanyName               string          `json:"company_name,omitempty"`
	Title                     string          `json:"title"`
	Description               string          `json:"description"`
	Location                  string          `json:"location"`
	JobType                   JobType         `json:"job_type"`
	ExperienceLevel           ExperienceLevel `json:"experience_level"`
	Department                string          `json:"department,omitempty"`
	SalaryMin                 *float64        `json:"salary_min"`
	SalaryMax                 *float64        `json:"salary_max"`
	Currency                  Currency        `json:"currency"`
	RemoteAllowed             bool            `json:"remote_allowed"`
	IsUrgent                  bool            `json:"is_urgent"`
	RequiredSkills            []string        `json:"required_skills"`
	PreferredSkills           []string        `json:"preferred_skills"`
	Benefits                  string          `json:"benefits,omitempty"`
	ExpiresAt                 *string         `json:"expires_at"`
	MinimumMatchScore         float64         `json:"minimum_match_score"`
	MaxApplications           *int            `json:"max_applications"`
	AutoMatchEnabled          bool            `json:"auto_match_enabled"`
	RequiredExperience        map[string]any  `json:"required_experience,omitempty"`
	RequiredEducation         map[string]any  `json:"required_education,omitempty"`
	CommunicationRequirements map[string]any  `json:"communication_requirements,omitempty"`
	MatchingWeights           map[string]any  `json:"matching_weights,omitempty"`
	IsActive                  bool            `json:"is_active"`
	ApplicationsCount         int             `json:"applications_count,omitempty"`
	CreatedAt                 string          `json:"created_at,omitempty"`
	UpdatedAt                 string          `json:"updated_at,omitempty"`
}

// JobRequest is the create/update body. Salaries and max_applications are
// never null here; expires_at is a full UTC timestamp or null.
type JobRequest struct {
	Title                     string          `json:"title"`
	Description               string          `json:"description"`
	Location                  string          `json:"location"`
	JobType                   JobType         `json:"job_type"`
	ExperienceLevel           ExperienceLevel `json:"experience_level"`
	Department                string          `json:"department"`
	SalaryMin                 float64         `json:"salary_min"`
	SalaryMax                 float64         `json:"salary_max"`
	Currency                  Currency        `json:"currency"`
	RemoteAllowed             bool            `json:"remote_allowed"`
	IsUrgent                  bool            `json:"is_urgent"`
	RequiredSkills            []string        `json:"required_skills"`
	PreferredSkills           []string        `json:"preferred_skills"`
	Benefits                  string          `json:"benefits"`
	ExpiresAt                 *string         `json:"expires_at"`
	MinimumMatchScore         float64         `json:"minimum_match_score"`
	MaxApplications           int             `json:"max_applications"`
	AutoMatchEnabled          bool            `json:"auto_match_enabled"`
	RequiredExperience        map[string]any  `json:"required_experience,omitempty"`
	RequiredEducation         map[string]any  `json:"required_education,omitempty"`
	CommunicationRequirements map[string]any  `json:"communication_requirements,omitempty"`
	MatchingWeights           map[string]any  `json:"matching_weights,omitempty"`
}

// CandidateProfile is the employee summary embedded in applications and
// candidate search results.
type CandidateProfile struct {
	ID                        ID              `json:"id"`
	FullName                  string          `json:"full_name"`
	Email                     string          `json:"email,omitempty"`
	Location                  string          `json:"location,omitempty"`
	Skills                    []string        `json:"skills,omitempty"`
	ExperienceYears           *float64        `json:"experience_years,omitempty"`
	ExperienceLevel           ExperienceLevel `json:"experience_level,omitempty"`
	OverallCommunicationScore *float64        `json:"overall_communication_score,omitempty"`
	MatchScore                *float64        `json:"match_score,omitempty"`
	Summary                   string          `json:"summary,omitempty"`
}

type Application struct {
	ID            ID                `json:"id"`
	JobID         ID                `json:"job_id"`
	EmployeeID    ID                `json:"employee_id,omitempty"`
	Status        ApplicationStatus `json:"status"`
	CoverLetter   string            `json:"cover_letter,omitempty"`
	MatchScore    *float64          `json:"match_score,omitempty"`
	EmployerNotes string            `json:"employer_notes,omitempty"`
	AppliedAt     string            `json:"applied_at,omitempty"`
	UpdatedAt     string            `json:"updated_at,omitempty"`
	Job           *Job              `json:"job,omitempty"`
	Employee      *CandidateProfile `json:"employee,omitempty"`
}

type StatusUpdate struct {
	Status ApplicationStatus `json:"status"`
	Notes  string            `json:"notes,omitempty"`
}

type InterviewRequest struct {
	ScheduledAt     time.Time     `json:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes"`
	InterviewType   InterviewType `json:"interview_type"`
	Location        string        `json:"location,omitempty"`
	MeetingLink     string        `json:"meeting_link,omitempty"`
	Notes           string        `json:"notes,omitempty"`
}

type Interview struct {
	ID              ID            `json:"id"`
	ApplicationID   ID            `json:"application_id"`
	ScheduledAt     string        `json:"scheduled_at"`
	DurationMinutes int           `json:"duration_minutes"`
	InterviewType   InterviewType `json:"interview_type"`
	Location        string        `json:"location,omitempty"`
	MeetingLink     string        `json:"meeting_link,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	Status          string        `json:"status,omitempty"`
}

// CandidateSearchParams are the query parameters of the candidate search.
type CandidateSearchParams struct {
	Skills                []string        `mapstructure:"skills,omitempty"`
	ExperienceLevel       ExperienceLevel `mapstructure:"experience_level,omitempty"`
	MinExperienceYears    *int            `mapstructure:"min_experience_years,omitempty"`
	Location              string          `mapstructure:"location,omitempty"`
	MinCommunicationScore *float64        `mapstructure:"min_communication_score,omitempty"`
	Limit                 int             `mapstructure:"limit,omitempty"`
}

type EmployerService struct {
	client *Client
}

func (s *EmployerService) CreateJob(ctx context.Context, req *JobRequest) (*Job, error) {
	var job Job
	if err := s.client.post(ctx, employerJobsPath, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *EmployerService) UpdateJob(ctx context.Context, id ID, req *JobRequest) (*Job, error) {
	var job Job
	if err := s.client.put(ctx, jobPath(id), req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *EmployerService) DeleteJob(ctx context.Context, id ID) error {
	return s.client.delete(ctx, jobPath(id))
}

func (s *EmployerService) ListJobs(ctx context.Context) ([]Job, error) {
	var raw json.RawMessage
	if err := s.client.get(ctx, employerJobsPath, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Job](raw, "jobs")
}

func (s *EmployerService) GetJob(ctx context.Context, id ID) (*Job, error) {
	var job Job
	if err := s.client.get(ctx, jobPath(id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *EmployerService) JobApplications(ctx context.Context, jobID ID) ([]Application, error) {
	var raw json.RawMessage
	if err := s.client.get(ctx, jobPath(jobID)+"/applications", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Application](raw, "applications")
}

func (s *EmployerService) UpdateApplicationStatus(ctx context.Context, applicationID ID, update StatusUpdate) (*Application, error) {
	var app Application
	path := fmt.Sprintf("%s/%s/status", employerAppsPath, url.PathEscape(applicationID.String()))
	if err := s.client.put(ctx, path, update, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *EmployerService) ScheduleInterview(ctx context.Context, applicationID ID, req InterviewRequest) (*Interview, error) {
	var interview Interview
	path := fmt.Sprintf("%s/%s/interview", employerAppsPath, url.PathEscape(applicationID.String()))
	if err := s.client.post(ctx, path, req, &interview); err != nil {
		return nil, err
	}
	return &interview, nil
}

// SearchCandidates returns an empty slice, not an error, when nothing matches.
func (s *EmployerService) SearchCandidates(ctx context.Context, params CandidateSearchParams) ([]CandidateProfile, error) {
	q, err := buildParams(params)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := s.client.get(ctx, candidatesPath, q, &raw); err != nil {
		return nil, err
	}
	return decodeList[CandidateProfile](raw, "candidates")
}

func jobPath(id ID) string {
	return fmt.Sprintf("%s/%s", employerJobsPath, url.PathEscape(id.String()))
}
