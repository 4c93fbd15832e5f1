package catalog

import "strings"

// Filter narrows a list operation. Both clauses are optional and combine with AND.
type Filter struct {
	// Search matches case-insensitively against title or description.
	Search string
	// Genre restricts to an exact genre. Empty or "all" disables it.
	Genre string
}

// NewFilter builds a Filter from the raw "search" and "genre" query values.
func NewFilter(search, genre string) Filter {
	return Filter{Search: search, Genre: genre}
}

// HasSearch reports whether the search clause applies.
func (f Filter) HasSearch() bool {
	return f.Search != ""
}

// HasGenre reports whether the genre clause applies.
func (f Filter) HasGenre() bool {
	return f.Genre != "" && f.Genre != GenreAll
}

// Matches evaluates the filter against a single record's fields.
func (f Filter) Matches(title, desc string, genre Genre) bool {
	if f.HasSearch() {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(title), needle) &&
			!strings.Contains(strings.ToLower(desc), needle) {
			return false
		}
	}
	if f.HasGenre() && string(genre) != f.Genre {
		return false
	}
	return true
}
