package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	generateMatchesPath = "/api/matching/generate-matches"
	employeeMatchesPath = "/matching/employee-matches"
	calculateMatchPath  = "/matching/calculate-match"
	dismissMatchPath    = "/api/matching/dismiss-match"
	matchingStatsPath   = "/matching/matching-stats"
	bulkMatchPath       = "/matching/bulk-match-generation"
)

// Match is a server-scored employee/job pair. The client never computes any
// of the scores; it only renders them.
type Match struct {
	ID                 ID                `json:"id"`
	JobID              ID                `json:"job_id"`
	EmployeeID         ID                `json:"employee_id,omitempty"`
	MatchScore         float64           `json:"match_score"`
	SkillsMatch        *float64          `json:"skills_match,omitempty"`
	ExperienceMatch    *float64          `json:"experience_match,omitempty"`
	LocationMatch      *float64          `json:"location_match,omitempty"`
	CommunicationMatch *float64          `json:"communication_match,omitempty"`
	MatchedSkills      []string          `json:"matched_skills,omitempty"`
	MissingSkills      []string          `json:"missing_skills,omitempty"`
	Explanation        string            `json:"explanation,omitempty"`
	Recommendations    []string          `json:"recommendations,omitempty"`
	IsDismissed        bool              `json:"is_dismissed"`
	CreatedAt          string            `json:"created_at,omitempty"`
	Job                *Job              `json:"job,omitempty"`
	Employee           *CandidateProfile `json:"employee,omitempty"`
}

type EmployeeMatchesParams struct {
	Limit    int      `mapstructure:"limit,omitempty"`
	MinScore *float64 `mapstructure:"min_score,omitempty"`
}

type CalculateMatchRequest struct {
	JobID      ID `json:"job_id"`
	EmployeeID ID `json:"employee_id,omitempty"`
}

type GenerateMatchesResult struct {
	JobID            ID      `json:"job_id,omitempty"`
	MatchesGenerated int     `json:"matches_generated"`
	Matches          []Match `json:"matches,omitempty"`
	Message          string  `json:"message,omitempty"`
}

type MatchingStats struct {
	TotalMatches       int     `json:"total_matches"`
	AverageMatchScore  float64 `json:"average_match_score"`
	HighQualityMatches int     `json:"high_quality_matches"`
	JobsWithMatches    int     `json:"jobs_with_matches"`
	DismissedMatches   int     `json:"dismissed_matches"`
	ApplicationsFromAI int     `json:"applications_from_matches"`
}

type BulkMatchResult struct {
	JobsProcessed    int    `json:"jobs_processed"`
	MatchesGenerated int    `json:"matches_generated"`
	Message          string `json:"message,omitempty"`
}

type MatchingService struct {
	client *Client
}

func (s *MatchingService) GenerateMatches(ctx context.Context, jobID ID) (*GenerateMatchesResult, error) {
	var result GenerateMatchesResult
	path := fmt.Sprintf("%s/%s", generateMatchesPath, url.PathEscape(jobID.String()))
	if err := s.client.post(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EmployeeMatches returns the job recommendations of the current employee.
func (s *MatchingService) EmployeeMatches(ctx context.Context, params EmployeeMatchesParams) ([]Match, error) {
	q, err := buildParams(params)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := s.client.get(ctx, employeeMatchesPath, q, &raw); err != nil {
		return nil, err
	}
	return decodeList[Match](raw, "matches", "recommendations")
}

func (s *MatchingService) CalculateMatch(ctx context.Context, req CalculateMatchRequest) (*Match, error) {
	var match Match
	if err := s.client.post(ctx, calculateMatchPath, req, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *MatchingService) DismissMatch(ctx context.Context, matchID ID) error {
	path := fmt.Sprintf("%s/%s", dismissMatchPath, url.PathEscape(matchID.String()))
	return s.client.post(ctx, path, nil, nil)
}

// Stats is role gated: non-employers get a 403.
func (s *MatchingService) Stats(ctx context.Context) (*MatchingStats, error) {
	var stats MatchingStats
	if err := s.client.get(ctx, matchingStatsPath, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *MatchingService) BulkGenerate(ctx context.Context) (*BulkMatchResult, error) {
	var result BulkMatchResult
	if err := s.client.post(ctx, bulkMatchPath, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
