package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/hirematch/internal/ai"
	"github.com/spigell/hirematch/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed cover_letter.md
var systemTemplate string

//go:embed cover_letter_prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	defaultMaxWords     = 250
	noneValue           = "none"
)

// CoverLetterWriter drafts cover letters with Gemini.
type CoverLetterWriter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.CoverLetterWriter = (*CoverLetterWriter)(nil)

func NewCoverLetterWriter(generator contentGenerator, logger *zap.Logger, maxLogLength int) *CoverLetterWriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CoverLetterWriter{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (w *CoverLetterWriter) CoverLetter(ctx context.Context, req ai.CoverLetterRequest) (string, error) {
	if req.Job == nil {
		return "", fmt.Errorf("job is required")
	}

	system, prompt, err := buildPrompt(req)
	if err != nil {
		return "", err
	}

	w.logger.Debug("gemini cover letter request",
		zap.String("job_id", req.Job.ID.String()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
	)

	raw, err := w.generator.GenerateContent(ctx, system, prompt)
	if err != nil {
		return "", err
	}

	w.logger.Debug("gemini cover letter response",
		zap.String("job_id", req.Job.ID.String()),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, w.maxLogLen)),
	)

	letter := cleanLetter(raw)
	if letter == "" {
		return "", fmt.Errorf("gemini returned an empty cover letter")
	}
	return letter, nil
}

type jobPayload struct {
	Title           string   `json:"title"`
	Company         string   `json:"company,omitempty"`
	Location        string   `json:"location"`
	Type            string   `json:"job_type"`
	Level           string   `json:"experience_level"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills,omitempty"`
}

type resumePayload struct {
	Summary         string   `json:"summary,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	ExperienceYears *float64 `json:"experience_years,omitempty"`
	Education       []any    `json:"education,omitempty"`
}

type matchPayload struct {
	Score         float64  `json:"match_score"`
	MatchedSkills []string `json:"matched_skills,omitempty"`
	MissingSkills []string `json:"missing_skills,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

func buildPrompt(req ai.CoverLetterRequest) (string, string, error) {
	job := req.Job
	jobJSON, err := json.MarshalIndent(jobPayload{
		Title:           job.Title,
		Company:         job.CompanyName,
		Location:        job.Location,
		Type:            string(job.JobType),
		Level:           string(job.ExperienceLevel),
		Description:     job.Description,
		RequiredSkills:  job.RequiredSkills,
		PreferredSkills: job.PreferredSkills,
	}, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("marshal job payload: %w", err)
	}

	resumeJSON := noneValue
	if r := req.Resume; r != nil {
		raw, err := json.MarshalIndent(resumePayload{
			Summary:         r.Summary,
			Skills:          r.ParsedSkills,
			ExperienceYears: r.ExperienceYears,
			Education:       r.Education,
		}, "", "  ")
		if err != nil {
			return "", "", fmt.Errorf("marshal resume payload: %w", err)
		}
		resumeJSON = string(raw)
	}

	matchJSON := noneValue
	if m := req.Match; m != nil {
		raw, err := json.MarshalIndent(matchPayload{
			Score:         m.MatchScore,
			MatchedSkills: m.MatchedSkills,
			MissingSkills: m.MissingSkills,
			Explanation:   m.Explanation,
		}, "", "  ")
		if err != nil {
			return "", "", fmt.Errorf("marshal match payload: %w", err)
		}
		matchJSON = string(raw)
	}

	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		notes = noneValue
	}

	maxWords := req.MaxWords
	if maxWords <= 0 {
		maxWords = defaultMaxWords
	}

	system := strings.ReplaceAll(systemTemplate, "{{MAX_WORDS}}", strconv.Itoa(maxWords))

	prompt := promptTemplate
	if strings.TrimSpace(prompt) == "" {
		prompt = "Job:\n{{JOB_JSON}}\n\nResume:\n{{RESUME_JSON}}\n\nMatch:\n{{MATCH_JSON}}\n\nNotes:\n{{NOTES}}\n\nCover letter:"
	}
	prompt = strings.NewReplacer(
		"{{JOB_JSON}}", string(jobJSON),
		"{{RESUME_JSON}}", resumeJSON,
		"{{MATCH_JSON}}", matchJSON,
		"{{NOTES}}", notes,
	).Replace(prompt)

	return system, prompt, nil
}

// cleanLetter strips code fences the model sometimes wraps answers in.
func cleanLetter(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if idx := strings.Index(raw, "\n"); idx != -1 {
			raw = raw[idx+1:]
		} else {
			raw = strings.TrimPrefix(raw, "```")
		}
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
