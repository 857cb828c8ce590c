package wizard

import "strings"

// SkillKind selects one of the two skill lists of a draft.
type SkillKind int

const (
	RequiredSkills SkillKind = iota
	PreferredSkills
)

func (k SkillKind) String() string {
	if k == PreferredSkills {
		return "preferred_skills"
	}
	return "required_skills"
}

// addSkill appends the trimmed text unless it is empty or already present.
// Comparison is case-sensitive.
func addSkill(list []string, text string) ([]string, bool) {
	skill := strings.TrimSpace(text)
	if skill == "" {
		return list, false
	}
	for _, existing := range list {
		if existing == skill {
			return list, false
		}
	}
	return append(list, skill), true
}

// removeSkill drops the first occurrence of value.
func removeSkill(list []string, value string) ([]string, bool) {
	for i, existing := range list {
		if existing == value {
			out := make([]string, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), true
		}
	}
	return list, false
}

// normalizeSkills rebuilds a list through addSkill so it holds trimmed,
// non-empty, unique entries in first-seen order.
func normalizeSkills(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out, _ = addSkill(out, s)
	}
	return out
}
