package filtering

import (
	"slices"

	"github.com/spigell/hirematch/internal/api"
)

// Matches is the recommendation list being filtered.
type Matches struct {
	Items []api.Match
}

func NewMatches(items []api.Match) *Matches {
	return &Matches{Items: slices.Clone(items)}
}

func (m *Matches) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Items)
}

// Exclude removes every match drop reports true for and returns the job IDs
// of the removed entries.
func (m *Matches) Exclude(drop func(api.Match) bool) []string {
	kept := m.Items[:0]
	var removed []string
	for _, item := range m.Items {
		if drop(item) {
			removed = append(removed, item.JobID.String())
			continue
		}
		kept = append(kept, item)
	}
	m.Items = kept
	return removed
}

// ExcludeJobs removes matches whose job ID is in ids.
func (m *Matches) ExcludeJobs(ids []string) []string {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return m.Exclude(func(item api.Match) bool {
		_, ok := set[item.JobID.String()]
		return ok
	})
}
