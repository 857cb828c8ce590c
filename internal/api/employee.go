package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	resumeUploadPath   = "/employee/resume/upload"
	resumesPath        = "/employee/resumes"
	voiceUploadPath    = "/employee/voice/upload"
	voiceAnalysesPath  = "/employee/voice-analyses"
	applyPath          = "/employee/apply"
	myApplicationsPath = "/employee/applications"
)

// Resume is an uploaded resume together with the server-side analysis.
type Resume struct {
	ID              ID       `json:"id"`
	Filename        string   `json:"filename"`
	FileURL         string   `json:"file_url,omitempty"`
	IsPrimary       bool     `json:"is_primary"`
	ParsedSkills    []string `json:"parsed_skills,omitempty"`
	ExperienceYears *float64 `json:"experience_years,omitempty"`
	Education       []any    `json:"education,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	AnalysisStatus  string   `json:"analysis_status,omitempty"`
	UploadedAt      string   `json:"uploaded_at,omitempty"`
}

// VoiceAnalysis holds the server-computed communication scores of a voice sample.
type VoiceAnalysis struct {
	ID                        ID       `json:"id"`
	Filename                  string   `json:"filename,omitempty"`
	DurationSeconds           *float64 `json:"duration_seconds,omitempty"`
	OverallCommunicationScore *float64 `json:"overall_communication_score"`
	FluencyScore              *float64 `json:"fluency_score,omitempty"`
	ClarityScore              *float64 `json:"clarity_score,omitempty"`
	ConfidenceScore           *float64 `json:"confidence_score,omitempty"`
	PronunciationScore        *float64 `json:"pronunciation_score,omitempty"`
	Transcript                string   `json:"transcript,omitempty"`
	Feedback                  string   `json:"feedback,omitempty"`
	CreatedAt                 string   `json:"created_at,omitempty"`
}

type ApplyRequest struct {
	CoverLetter string `json:"cover_letter,omitempty"`
	ResumeID    ID     `json:"resume_id,omitempty"`
}

type EmployeeService struct {
	client *Client
}

func (s *EmployeeService) UploadResume(ctx context.Context, u Upload) (*Resume, error) {
	var resume Resume
	if err := s.client.upload(ctx, resumeUploadPath, u, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

func (s *EmployeeService) Resumes(ctx context.Context) ([]Resume, error) {
	var raw json.RawMessage
	if err := s.client.get(ctx, resumesPath, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Resume](raw, "resumes")
}

// UploadVoice sends a voice sample; u.Progress is called as the body is sent.
func (s *EmployeeService) UploadVoice(ctx context.Context, u Upload) (*VoiceAnalysis, error) {
	var analysis VoiceAnalysis
	if err := s.client.upload(ctx, voiceUploadPath, u, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (s *EmployeeService) VoiceAnalyses(ctx context.Context) ([]VoiceAnalysis, error) {
	var raw json.RawMessage
	if err := s.client.get(ctx, voiceAnalysesPath, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[VoiceAnalysis](raw, "voice_analyses", "analyses")
}

func (s *EmployeeService) Apply(ctx context.Context, jobID ID, req ApplyRequest) (*Application, error) {
	var app Application
	path := fmt.Sprintf("%s/%s", applyPath, url.PathEscape(jobID.String()))
	if err := s.client.post(ctx, path, req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *EmployeeService) Applications(ctx context.Context) ([]Application, error) {
	var raw json.RawMessage
	if err := s.client.get(ctx, myApplicationsPath, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[Application](raw, "applications")
}

func (s *EmployeeService) Withdraw(ctx context.Context, applicationID ID) (*Application, error) {
	var app Application
	path := fmt.Sprintf("%s/%s/withdraw", myApplicationsPath, url.PathEscape(applicationID.String()))
	if err := s.client.put(ctx, path, nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}
