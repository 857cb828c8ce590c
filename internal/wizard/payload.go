package wizard

import (
	"strings"
	"time"

	"github.com/spigell/hirematch/internal/api"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// BuildPayload converts a draft into the create/update request body:
// nil salaries become 0, a nil max_applications becomes 0 (unlimited) and a
// date-only expires_at becomes the last millisecond of that day in UTC.
// Free-form objects pass through untouched.
func BuildPayload(d Draft) (*api.JobRequest, error) {
	expiresAt, err := normalizeExpiresAt(d.ExpiresAt)
	if err != nil {
		return nil, &ValidationError{Field: "expires_at", Message: "Expiry date must be a valid date (YYYY-MM-DD)"}
	}

	req := &api.JobRequest{
		Title:                     d.Title,
		Description:               d.Description,
		Location:                  d.Location,
		JobType:                   d.JobType,
		ExperienceLevel:           d.ExperienceLevel,
		Department:                d.Department,
		SalaryMin:                 valueOrZero(d.SalaryMin),
		SalaryMax:                 valueOrZero(d.SalaryMax),
		Currency:                  d.Currency,
		RemoteAllowed:             d.RemoteAllowed,
		IsUrgent:                  d.IsUrgent,
		RequiredSkills:            append([]string{}, d.RequiredSkills...),
		PreferredSkills:           append([]string{}, d.PreferredSkills...),
		Benefits:                  d.Benefits,
		ExpiresAt:                 expiresAt,
		MinimumMatchScore:         d.MinimumMatchScore,
		AutoMatchEnabled:          d.AutoMatchEnabled,
		RequiredExperience:        d.RequiredExperience,
		RequiredEducation:         d.RequiredEducation,
		CommunicationRequirements: d.CommunicationRequirements,
		MatchingWeights:           d.MatchingWeights,
	}
	if d.MaxApplications != nil {
		req.MaxApplications = *d.MaxApplications
	}

	return req, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func normalizeExpiresAt(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	t, err := endOfDay(raw)
	if err != nil {
		return nil, err
	}

	formatted := t.Format(timestampLayout)
	return &formatted, nil
}

// endOfDay accepts YYYY-MM-DD or a full RFC 3339 timestamp and returns
// 23:59:59.999 UTC of that calendar date.
func endOfDay(raw string) (time.Time, error) {
	day, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		ts, tsErr := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
		if tsErr != nil {
			return time.Time{}, err
		}
		day = ts.UTC()
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC), nil
}
