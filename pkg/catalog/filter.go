package catalog

import (
	"net/url"
	"strings"

	"app-catalog-backend/pkg/models"
)

// FilterState is the catalog's current search text and selected filter sets.
type FilterState struct {
	Search      string   `json:"search"`
	Departments []string `json:"departments"`
	Categories  []string `json:"categories"`
	Popularity  []string `json:"popularity"`
}

// Filter returns the apps matching every active predicate, in input order.
func Filter(apps []models.App, state FilterState) []models.App {
	query := strings.ToLower(state.Search)
	out := make([]models.App, 0, len(apps))
	for _, app := range apps {
		if !matchesSearch(&app, query) {
			continue
		}
		if len(state.Departments) > 0 && !anyDepartment(&app, state.Departments) {
			continue
		}
		if len(state.Categories) > 0 && !contains(state.Categories, app.Category) {
			continue
		}
		if len(state.Popularity) > 0 && !contains(state.Popularity, string(app.Popularity)) {
			continue
		}
		out = append(out, app)
	}
	return out
}

// query must already be lower-cased
func matchesSearch(app *models.App, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(app.Name), query) ||
		strings.Contains(strings.ToLower(app.Description), query) ||
		strings.Contains(strings.ToLower(app.Category), query) {
		return true
	}
	for _, dept := range app.Department {
		if strings.Contains(strings.ToLower(dept), query) {
			return true
		}
	}
	return false
}

func anyDepartment(app *models.App, selected []string) bool {
	for _, dept := range selected {
		if app.HasDepartment(dept) {
			return true
		}
	}
	return false
}

// Toggle returns selection with value removed if present, appended otherwise.
// The input slice is not modified.
func Toggle(selection []string, value string) []string {
	out := make([]string, 0, len(selection)+1)
	found := false
	for _, v := range selection {
		if v == value {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, value)
	}
	return out
}

// ToggleDepartment flips dept in the department selection.
func (s *FilterState) ToggleDepartment(dept string) {
	s.Departments = Toggle(s.Departments, dept)
}

// ToggleCategory flips category in the category selection.
func (s *FilterState) ToggleCategory(category string) {
	s.Categories = Toggle(s.Categories, category)
}

// TogglePopularity flips level in the popularity selection.
func (s *FilterState) TogglePopularity(level string) {
	s.Popularity = Toggle(s.Popularity, level)
}

// Clear empties the three selection sets. The search text is kept.
func (s *FilterState) Clear() {
	s.Departments = nil
	s.Categories = nil
	s.Popularity = nil
}

// ActiveCount is the number of selected filter values.
func (s FilterState) ActiveCount() int {
	return len(s.Departments) + len(s.Categories) + len(s.Popularity)
}

// ParseFilterState reads q, department, category and popularity from a
// query string. Values may be repeated or comma separated.
func ParseFilterState(values url.Values) FilterState {
	return FilterState{
		Search:      strings.TrimSpace(values.Get("q")),
		Departments: splitValues(values["department"]),
		Categories:  splitValues(values["category"]),
		Popularity:  splitValues(values["popularity"]),
	}
}

func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part == "" || contains(out, part) {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
