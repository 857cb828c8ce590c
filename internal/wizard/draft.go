package wizard

import (
	"strings"
	"time"

	"github.com/spigell/hirematch/internal/api"
)

// Draft is the not-yet-persisted job posting held by the form.
type Draft struct {
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Location        string              `json:"location"`
	JobType         api.JobType         `json:"job_type" validate:"oneof=full_time part_time contract internship freelance"`
	ExperienceLevel api.ExperienceLevel `json:"experience_level" validate:"oneof=entry junior mid senior lead executive"`
	Department      string              `json:"department"`

	SalaryMin *float64     `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax *float64     `json:"salary_max" validate:"omitempty,gte=0"`
	Currency  api.Currency `json:"currency" validate:"oneof=USD EUR GBP INR CAD AUD"`

	RemoteAllowed bool `json:"remote_allowed"`
	IsUrgent      bool `json:"is_urgent"`

	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
	Benefits        string   `json:"benefits"`

	// ExpiresAt is a date-only value, YYYY-MM-DD.
	ExpiresAt         string  `json:"expires_at"`
	MinimumMatchScore float64 `json:"minimum_match_score" validate:"gte=0,lte=100"`
	// MaxApplications nil or 0 means unlimited.
	MaxApplications  *int `json:"max_applications" validate:"omitempty,gte=0"`
	AutoMatchEnabled bool `json:"auto_match_enabled"`

	RequiredExperience        map[string]any `json:"required_experience,omitempty"`
	RequiredEducation         map[string]any `json:"required_education,omitempty"`
	CommunicationRequirements map[string]any `json:"communication_requirements,omitempty"`
	MatchingWeights           map[string]any `json:"matching_weights,omitempty"`
}

const defaultMinimumMatchScore = 70

// NewDraft returns the empty draft the create flow starts from.
func NewDraft() Draft {
	return Draft{
		JobType:           api.JobTypeFullTime,
		ExperienceLevel:   api.ExperienceMid,
		Currency:          api.CurrencyUSD,
		RequiredSkills:    []string{},
		PreferredSkills:   []string{},
		MinimumMatchScore: defaultMinimumMatchScore,
		AutoMatchEnabled:  true,
	}
}

// DraftFromJob converts an existing posting into an editable draft.
func DraftFromJob(job *api.Job) Draft {
	d := NewDraft()
	if job == nil {
		return d
	}

	d.Title = job.Title
	d.Description = job.Description
	d.Location = job.Location
	if job.JobType != "" {
		d.JobType = job.JobType
	}
	if job.ExperienceLevel != "" {
		d.ExperienceLevel = job.ExperienceLevel
	}
	d.Department = job.Department
	d.SalaryMin = copyFloat(job.SalaryMin)
	d.SalaryMax = copyFloat(job.SalaryMax)
	if job.Currency != "" {
		d.Currency = job.Currency
	}
	d.RemoteAllowed = job.RemoteAllowed
	d.IsUrgent = job.IsUrgent
	d.RequiredSkills = normalizeSkills(job.RequiredSkills)
	d.PreferredSkills = normalizeSkills(job.PreferredSkills)
	d.Benefits = job.Benefits
	if job.ExpiresAt != nil {
		d.ExpiresAt = dateOnly(*job.ExpiresAt)
	}
	d.MinimumMatchScore = job.MinimumMatchScore
	if job.MaxApplications != nil {
		n := *job.MaxApplications
		d.MaxApplications = &n
	}
	d.AutoMatchEnabled = job.AutoMatchEnabled
	d.RequiredExperience = job.RequiredExperience
	d.RequiredEducation = job.RequiredEducation
	d.CommunicationRequirements = job.CommunicationRequirements
	d.MatchingWeights = job.MatchingWeights

	return d
}

func (d Draft) clone() Draft {
	c := d
	c.RequiredSkills = append([]string{}, d.RequiredSkills...)
	c.PreferredSkills = append([]string{}, d.PreferredSkills...)
	c.SalaryMin = copyFloat(d.SalaryMin)
	c.SalaryMax = copyFloat(d.SalaryMax)
	if d.MaxApplications != nil {
		n := *d.MaxApplications
		c.MaxApplications = &n
	}
	return c
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

// dateOnly reduces a timestamp to its UTC calendar date. Unparseable values
// are returned trimmed so validation can report them.
func dateOnly(s string) string {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC().Format(dateLayout)
	}
	if len(s) >= len(dateLayout) {
		if _, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
			return s[:len(dateLayout)]
		}
	}
	return s
}
