package domain

import "strings"

// Filter narrows a project listing. Zero values match everything.
type Filter struct {
	Search   string
	Status   Status
	Priority Priority
}

// Matches applies the filter in memory: case-insensitive substring on title
// or description, exact match on the enumerations.
func (f Filter) Matches(p Project) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Priority != "" && p.Priority != f.Priority {
		return false
	}
	return true
}
