package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/hirematch/internal/api"
)

const (
	NoCandidatesMessage      = "No candidates match these filters."
	NoJobsMessage            = "No job postings yet."
	NoApplicationsMessage    = "No applications yet."
	NoRecommendationsMessage = "No recommendations yet. Upload a resume to get matched."
	NoResumesMessage         = "No resumes uploaded yet."
	NoVoiceMessage           = "No voice analyses yet."
)

// Printer writes aligned tables to out.
type Printer struct {
	out   io.Writer
	style Style
}

func NewPrinter(out io.Writer, style Style) *Printer {
	return &Printer{out: out, style: style}
}

func (p *Printer) Style() Style { return p.style }

// Message prints one line.
func (p *Printer) Message(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func (p *Printer) Jobs(jobs []api.Job) error {
	if len(jobs) == 0 {
		p.Message(NoJobsMessage)
		return nil
	}

	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{
			j.ID.String(),
			j.Title,
			j.Location,
			string(j.JobType),
			string(j.ExperienceLevel),
			salary(j.SalaryMin, j.SalaryMax, j.Currency),
			fmt.Sprintf("%d", j.ApplicationsCount),
			active(j.IsActive),
		})
	}
	return p.table([]string{"ID", "TITLE", "LOCATION", "TYPE", "LEVEL", "SALARY", "APPLICATIONS", "STATUS"}, rows)
}

// Job prints one posting in detail.
func (p *Printer) Job(j *api.Job) error {
	desc, err := Description(j.Description)
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Title", j.Title},
		{"Company", orDash(j.CompanyName)},
		{"Location", location(j.Location, j.RemoteAllowed)},
		{"Type", string(j.JobType)},
		{"Level", string(j.ExperienceLevel)},
		{"Department", orDash(j.Department)},
		{"Salary", salary(j.SalaryMin, j.SalaryMax, j.Currency)},
		{"Required skills", orDash(strings.Join(j.RequiredSkills, ", "))},
		{"Preferred skills", orDash(strings.Join(j.PreferredSkills, ", "))},
		{"Minimum match", p.style.Score(j.MinimumMatchScore)},
		{"Max applications", maxApplications(j.MaxApplications)},
		{"Auto-match", yesNo(j.AutoMatchEnabled)},
		{"Urgent", yesNo(j.IsUrgent)},
		{"Expires", orDash(deref(j.ExpiresAt))},
	}

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Job %s\n", j.ID)
	for _, row := range rows {
		fmt.Fprintf(tw, "  %s:\t%s\n", row[0], row[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if desc != "" {
		fmt.Fprintf(p.out, "\n%s\n", desc)
	}
	if j.Benefits != "" {
		fmt.Fprintf(p.out, "\nBenefits:\n%s\n", j.Benefits)
	}
	return nil
}

func (p *Printer) Applications(apps []api.Application) error {
	if len(apps) == 0 {
		p.Message(NoApplicationsMessage)
		return nil
	}

	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		who := "-"
		if a.Employee != nil {
			who = a.Employee.FullName
		}
		job := a.JobID.String()
		if a.Job != nil && a.Job.Title != "" {
			job = a.Job.Title
		}
		rows = append(rows, []string{
			a.ID.String(),
			job,
			who,
			string(a.Status),
			p.style.OptionalScore(a.MatchScore),
			orDash(a.AppliedAt),
		})
	}
	return p.table([]string{"ID", "JOB", "CANDIDATE", "STATUS", "MATCH", "APPLIED"}, rows)
}

// Candidates prints search results. Zero rows is not an error.
func (p *Printer) Candidates(candidates []api.CandidateProfile) error {
	if len(candidates) == 0 {
		p.Message(NoCandidatesMessage)
		return nil
	}

	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []string{
			c.ID.String(),
			c.FullName,
			orDash(c.Location),
			string(c.ExperienceLevel),
			optionalNumber(c.ExperienceYears),
			p.style.OptionalScore(c.OverallCommunicationScore),
			orDash(strings.Join(c.Skills, ", ")),
		})
	}
	return p.table([]string{"ID", "NAME", "LOCATION", "LEVEL", "YEARS", "COMMUNICATION", "SKILLS"}, rows)
}

// Matches prints recommendations with the skills-gap columns.
func (p *Printer) Matches(matches []api.Match) error {
	if len(matches) == 0 {
		p.Message(NoRecommendationsMessage)
		return nil
	}

	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		title := m.JobID.String()
		if m.Job != nil && m.Job.Title != "" {
			title = m.Job.Title
		}
		rows = append(rows, []string{
			m.ID.String(),
			m.JobID.String(),
			title,
			p.style.Score(m.MatchScore),
			p.style.OptionalScore(m.SkillsMatch),
			orDash(strings.Join(m.MatchedSkills, ", ")),
			orDash(strings.Join(m.MissingSkills, ", ")),
		})
	}
	return p.table([]string{"MATCH", "JOB", "TITLE", "SCORE", "SKILLS", "MATCHED", "MISSING"}, rows)
}

// Match prints one calculated match with its breakdown.
func (p *Printer) Match(m *api.Match) error {
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Overall:\t%s\n", p.style.Score(m.MatchScore))
	fmt.Fprintf(tw, "Skills:\t%s\n", p.style.OptionalScore(m.SkillsMatch))
	fmt.Fprintf(tw, "Experience:\t%s\n", p.style.OptionalScore(m.ExperienceMatch))
	fmt.Fprintf(tw, "Location:\t%s\n", p.style.OptionalScore(m.LocationMatch))
	fmt.Fprintf(tw, "Communication:\t%s\n", p.style.OptionalScore(m.CommunicationMatch))
	fmt.Fprintf(tw, "Matched skills:\t%s\n", orDash(strings.Join(m.MatchedSkills, ", ")))
	fmt.Fprintf(tw, "Missing skills:\t%s\n", orDash(strings.Join(m.MissingSkills, ", ")))
	if err := tw.Flush(); err != nil {
		return err
	}

	if m.Explanation != "" {
		fmt.Fprintf(p.out, "\n%s\n", m.Explanation)
	}
	for _, r := range m.Recommendations {
		fmt.Fprintf(p.out, "  - %s\n", r)
	}
	return nil
}

func (p *Printer) Stats(s *api.MatchingStats) error {
	rows := [][]string{
		{"Total matches", fmt.Sprintf("%d", s.TotalMatches)},
		{"Average score", p.style.Score(s.AverageMatchScore)},
		{"High-quality matches", fmt.Sprintf("%d", s.HighQualityMatches)},
		{"Jobs with matches", fmt.Sprintf("%d", s.JobsWithMatches)},
		{"Dismissed", fmt.Sprintf("%d", s.DismissedMatches)},
		{"Applications from matches", fmt.Sprintf("%d", s.ApplicationsFromAI)},
	}

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func (p *Printer) Resumes(resumes []api.Resume) error {
	if len(resumes) == 0 {
		p.Message(NoResumesMessage)
		return nil
	}

	rows := make([][]string, 0, len(resumes))
	for _, r := range resumes {
		rows = append(rows, []string{
			r.ID.String(),
			r.Filename,
			yesNo(r.IsPrimary),
			orDash(r.AnalysisStatus),
			optionalNumber(r.ExperienceYears),
			orDash(strings.Join(r.ParsedSkills, ", ")),
		})
	}
	return p.table([]string{"ID", "FILE", "PRIMARY", "ANALYSIS", "YEARS", "SKILLS"}, rows)
}

func (p *Printer) VoiceAnalyses(analyses []api.VoiceAnalysis) error {
	if len(analyses) == 0 {
		p.Message(NoVoiceMessage)
		return nil
	}

	rows := make([][]string, 0, len(analyses))
	for _, v := range analyses {
		rows = append(rows, []string{
			v.ID.String(),
			orDash(v.Filename),
			p.style.OptionalScore(v.OverallCommunicationScore),
			p.style.OptionalScore(v.FluencyScore),
			p.style.OptionalScore(v.ClarityScore),
			p.style.OptionalScore(v.ConfidenceScore),
			orDash(v.CreatedAt),
		})
	}
	return p.table([]string{"ID", "FILE", "OVERALL", "FLUENCY", "CLARITY", "CONFIDENCE", "CREATED"}, rows)
}

func salary(lo, hi *float64, currency api.Currency) string {
	switch {
	case lo == nil && hi == nil, lo != nil && hi != nil && *lo == 0 && *hi == 0:
		return "-"
	case lo != nil && hi != nil:
		return fmt.Sprintf("%s-%s %s", formatNumber(*lo), formatNumber(*hi), currency)
	case lo != nil:
		return fmt.Sprintf("from %s %s", formatNumber(*lo), currency)
	default:
		return fmt.Sprintf("up to %s %s", formatNumber(*hi), currency)
	}
}

func location(loc string, remote bool) string {
	if remote {
		return loc + " (remote allowed)"
	}
	return loc
}

func maxApplications(n *int) string {
	if n == nil || *n == 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d", *n)
}

func optionalNumber(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatNumber(*v)
}

func active(ok bool) string {
	if ok {
		return "active"
	}
	return "closed"
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
