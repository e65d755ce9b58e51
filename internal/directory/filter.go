// Package directory filters the fetched project listing in memory. The store
// returns projects already ordered by priority then recency; filtering never
// reorders them.
package directory

import (
	"strings"

	"github.com/cardly-iq/cardly/internal/models"
)

// Discount range bounds meaning "no constraint".
const (
	MinDiscount = 0
	MaxDiscount = 100
)

// Filter is one directory filter selection. Empty sets mean no constraint on
// that dimension; the full [0,100] discount range means no discount constraint.
type Filter struct {
	Cities         []string // Selected city names.
	Categories     []string // Selected category tags.
	DiscountMin    int      // Lower discount bound, inclusive.
	DiscountMax    int      // Upper discount bound, inclusive.
	PriorityLevels []int    // Selected priority levels.
	Query          string   // Free-text search query.
}

// NewFilter returns a filter with no constraints.
func NewFilter() Filter {
	return Filter{DiscountMin: MinDiscount, DiscountMax: MaxDiscount}
}

// IsZero reports whether the filter constrains nothing.
func (f Filter) IsZero() bool {
	return len(f.Cities) == 0 && len(f.Categories) == 0 && len(f.PriorityLevels) == 0 &&
		f.DiscountMin <= MinDiscount && f.DiscountMax >= MaxDiscount &&
		strings.TrimSpace(f.Query) == ""
}

// Apply returns the projects matching the filter, preserving input order.
func (f Filter) Apply(projects []models.Project) []models.Project {
	if f.IsZero() {
		return projects
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if !f.matchCity(p) || !f.matchCategory(p) || !f.matchDiscount(p) || !f.matchPriority(p) {
			continue
		}
		if query != "" && !matchQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (f Filter) matchCity(p models.Project) bool {
	if len(f.Cities) == 0 {
		return true
	}
	if p.City == nil {
		return false
	}
	for _, city := range f.Cities {
		if strings.EqualFold(city, *p.City) {
			return true
		}
	}
	return false
}

func (f Filter) matchCategory(p models.Project) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, want := range f.Categories {
		for _, have := range p.Category {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}

func (f Filter) matchDiscount(p models.Project) bool {
	if f.DiscountMin <= MinDiscount && f.DiscountMax >= MaxDiscount {
		return true
	}
	// A narrowed range excludes projects without a published discount.
	if p.DiscountAmount == nil {
		return false
	}
	return *p.DiscountAmount >= f.DiscountMin && *p.DiscountAmount <= f.DiscountMax
}

func (f Filter) matchPriority(p models.Project) bool {
	if len(f.PriorityLevels) == 0 {
		return true
	}
	for _, level := range f.PriorityLevels {
		if p.PriorityLevel == level {
			return true
		}
	}
	return false
}

// matchQuery reports whether the project's searchable text contains the
// lowercased query as a substring.
func matchQuery(p models.Project, query string) bool {
	fields := []string{p.Name, p.Place}
	if p.City != nil {
		fields = append(fields, *p.City)
	}
	if p.Description != nil {
		fields = append(fields, *p.Description)
	}
	fields = append(fields, p.Category...)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
