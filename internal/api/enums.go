package api

import (
	"fmt"
	"strings"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
)

// JobTypes lists the job types in display order.
var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance}

type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceJunior    ExperienceLevel = "junior"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceLead      ExperienceLevel = "lead"
	ExperienceExecutive ExperienceLevel = "executive"
)

var ExperienceLevels = []ExperienceLevel{
	ExperienceEntry, ExperienceJunior, ExperienceMid, ExperienceSenior, ExperienceLead, ExperienceExecutive,
}

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyINR Currency = "INR"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

var Currencies = []Currency{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyINR, CurrencyCAD, CurrencyAUD}

// ApplicationStatus mirrors the application status enum of the API.
type ApplicationStatus string

const (
	StatusPending            ApplicationStatus = "pending"
	StatusReviewed           ApplicationStatus = "reviewed"
	StatusShortlisted        ApplicationStatus = "shortlisted"
	StatusInterviewScheduled ApplicationStatus = "interview_scheduled"
	StatusRejected           ApplicationStatus = "rejected"
	StatusHired              ApplicationStatus = "hired"
	StatusWithdrawn          ApplicationStatus = "withdrawn"
)

var ApplicationStatuses = []ApplicationStatus{
	StatusPending, StatusReviewed, StatusShortlisted, StatusInterviewScheduled,
	StatusRejected, StatusHired, StatusWithdrawn,
}

type InterviewType string

const (
	InterviewVideo    InterviewType = "video"
	InterviewPhone    InterviewType = "phone"
	InterviewInPerson InterviewType = "in_person"
)

var InterviewTypes = []InterviewType{InterviewVideo, InterviewPhone, InterviewInPerson}

// ParseJobType accepts the wire value in any case, with dashes or underscores.
func ParseJobType(s string) (JobType, error) {
	return parseEnum(s, JobTypes, "job type")
}

func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	return parseEnum(s, ExperienceLevels, "experience level")
}

func ParseCurrency(s string) (Currency, error) {
	return parseEnum(s, Currencies, "currency")
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	return parseEnum(s, ApplicationStatuses, "application status")
}

func ParseInterviewType(s string) (InterviewType, error) {
	return parseEnum(s, InterviewTypes, "interview type")
}

func parseEnum[T ~string](raw string, allowed []T, what string) (T, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), "-", "_")
	for _, v := range allowed {
		if strings.EqualFold(string(v), normalized) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q (allowed: %s)", what, raw, joinEnum(allowed))
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}
	return strings.Join(parts, ", ")
}
