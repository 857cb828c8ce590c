// Package ai drafts application text with a language model. It never scores
// matches; scores always come from the API.
package ai

import (
	"context"

	"github.com/spigell/hirematch/internal/api"
)

// CoverLetterRequest carries everything the writer may use. Only Job is required.
type CoverLetterRequest struct {
	Job    *api.Job
	Resume *api.Resume
	// Match is the API's match for this job, when the employee has one.
	Match *api.Match
	// Notes are the applicant's own hints, e.g. "mention my open-source work".
	Notes    string
	MaxWords int
}

type CoverLetterWriter interface {
	CoverLetter(ctx context.Context, req CoverLetterRequest) (string, error)
}
