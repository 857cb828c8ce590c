package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/spigell/hirematch/internal/api"
)

// Mode selects between the stepped create flow and the flat edit form.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

const (
	createFailedMessage = "Failed to create job posting. Please try again."
	updateFailedMessage = "Failed to update job posting. Please try again."
)

var (
	// ErrNotFinalStep is returned by Submit outside the final step. Nothing
	// is validated, mutated or sent in that case.
	ErrNotFinalStep = errors.New("job posting can only be submitted from the last step")
	// ErrClosed is returned by Submit after the form was submitted or cancelled.
	ErrClosed = errors.New("job posting form is closed")
)

// JobWriter persists job postings.
type JobWriter interface {
	CreateJob(ctx context.Context, req *api.JobRequest) (*api.Job, error)
	UpdateJob(ctx context.Context, id api.ID, req *api.JobRequest) (*api.Job, error)
}

// SubmitError wraps a failed submission with the message to show the user.
// The draft is kept so the user can correct it and resubmit.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string { return e.Message }

func (e *SubmitError) Unwrap() error { return e.Err }

// Wizard holds one draft and the navigation state around it. It is not safe
// for concurrent use; each form owns its wizard.
type Wizard struct {
	mode    Mode
	jobID   api.ID
	writer  JobWriter
	now     func() time.Time
	initial Draft

	step   Step
	draft  Draft
	closed bool

	// NewSkill and NewPreferredSkill are the transient inputs of the two
	// "add skill" fields.
	NewSkill          string
	NewPreferredSkill string
}

type Option func(*Wizard)

// WithClock overrides the clock used to check that expires_at is in the future.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		w.now = now
	}
}

// New opens the create flow on an empty draft at the first step.
func New(writer JobWriter, opts ...Option) *Wizard {
	w := &Wizard{
		mode:    ModeCreate,
		writer:  writer,
		now:     time.Now,
		initial: NewDraft(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.Reset()
	return w
}

// NewEditor opens the flat edit form for job id. There is no step gating:
// the form is always on its final step.
func NewEditor(writer JobWriter, id api.ID, draft Draft, opts ...Option) *Wizard {
	draft.RequiredSkills = normalizeSkills(draft.RequiredSkills)
	draft.PreferredSkills = normalizeSkills(draft.PreferredSkills)

	w := &Wizard{
		mode:    ModeEdit,
		jobID:   id,
		writer:  writer,
		now:     time.Now,
		initial: draft.clone(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.Reset()
	return w
}

func (w *Wizard) Mode() Mode { return w.mode }

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Closed() bool { return w.closed }

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() Draft { return w.draft.clone() }

// CanSubmit reports whether Submit would attempt a submission.
func (w *Wizard) CanSubmit() bool {
	return !w.closed && w.step == FinalStep
}

// Update mutates the draft field by field. Skill lists are re-normalized
// afterwards so direct edits cannot introduce blanks or duplicates.
func (w *Wizard) Update(fn func(d *Draft)) {
	fn(&w.draft)
	w.draft.RequiredSkills = normalizeSkills(w.draft.RequiredSkills)
	w.draft.PreferredSkills = normalizeSkills(w.draft.PreferredSkills)
}

// Next moves one step forward. Leaving the basic step requires a title,
// description and location; otherwise a *ValidationError is returned and
// the step is unchanged. The edit form has a single page, so Next is a no-op.
func (w *Wizard) Next() error {
	if w.mode == ModeEdit {
		return nil
	}
	step, err := Transition(w.step, EventNext, &w.draft)
	if err != nil {
		return err
	}
	w.step = step
	return nil
}

// Previous moves one step back. It is never validated.
func (w *Wizard) Previous() {
	if w.mode == ModeEdit {
		return
	}
	w.step, _ = Transition(w.step, EventPrevious, &w.draft)
}

// AddRequiredSkill appends text to required_skills and clears NewSkill.
// Empty input and exact duplicates are ignored.
func (w *Wizard) AddRequiredSkill(text string) bool {
	var added bool
	w.draft.RequiredSkills, added = addSkill(w.draft.RequiredSkills, text)
	if added {
		w.NewSkill = ""
	}
	return added
}

// AddPreferredSkill is AddRequiredSkill for preferred_skills and NewPreferredSkill.
func (w *Wizard) AddPreferredSkill(text string) bool {
	var added bool
	w.draft.PreferredSkills, added = addSkill(w.draft.PreferredSkills, text)
	if added {
		w.NewPreferredSkill = ""
	}
	return added
}

// RemoveSkill removes the first occurrence of value from the list.
func (w *Wizard) RemoveSkill(kind SkillKind, value string) bool {
	var removed bool
	switch kind {
	case PreferredSkills:
		w.draft.PreferredSkills, removed = removeSkill(w.draft.PreferredSkills, value)
	default:
		w.draft.RequiredSkills, removed = removeSkill(w.draft.RequiredSkills, value)
	}
	return removed
}

// Submit validates and sends the draft. Outside the final step it returns
// ErrNotFinalStep without touching anything. On success the form is reset
// to its initial state and closed; on failure the draft is kept.
func (w *Wizard) Submit(ctx context.Context) (*api.Job, error) {
	if w.closed {
		return nil, ErrClosed
	}
	if w.step != FinalStep {
		return nil, ErrNotFinalStep
	}

	if err := validateForSubmit(&w.draft, w.now()); err != nil {
		return nil, err
	}

	req, err := BuildPayload(w.draft)
	if err != nil {
		return nil, err
	}

	var job *api.Job
	if w.mode == ModeEdit {
		job, err = w.writer.UpdateJob(ctx, w.jobID, req)
		if err != nil {
			return nil, &SubmitError{Message: api.UserMessage(err, updateFailedMessage), Err: err}
		}
	} else {
		job, err = w.writer.CreateJob(ctx, req)
		if err != nil {
			return nil, &SubmitError{Message: api.UserMessage(err, createFailedMessage), Err: err}
		}
	}

	w.Reset()
	w.closed = true

	return job, nil
}

// Cancel discards the draft and closes the form.
func (w *Wizard) Cancel() {
	w.Reset()
	w.closed = true
}

// Reset restores the initial draft and step and reopens the form.
func (w *Wizard) Reset() {
	w.draft = w.initial.clone()
	w.NewSkill = ""
	w.NewPreferredSkill = ""
	w.closed = false
	w.step = StepBasic
	if w.mode == ModeEdit {
		w.step = FinalStep
	}
}
