package onboarding

import (
	"fmt"

	"app-catalog-backend/pkg/models"
)

// Step is one card of the product walkthrough.
type Step struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Research    string   `json:"research"`
	Position    string   `json:"position"`
	Target      string   `json:"targetElement,omitempty"`
	Features    []string `json:"features"`
}

var steps = []Step{
	{
		ID:          "welcome",
		Title:       "Welcome to Zluri Employee App Catalog",
		Description: "Get ready to discover and request access to business applications with ease. This walkthrough will show you all the key features.",
		Research:    "Inspired by modern enterprise app stores like Microsoft AppSource and Apple App Store for intuitive user experience.",
		Position:    "center",
		Features:    []string{"App Discovery", "Access Management", "Department Filtering", "Usage Analytics"},
	},
	{
		ID:          "search",
		Title:       "Smart Search & Discovery",
		Description: "Use the powerful search bar to find apps by name, category, or department. Autocomplete helps you discover relevant tools quickly.",
		Research:    "Research from Microsoft AppSource shows that robust search with filters increases app discovery by 300%.",
		Position:    "top",
		Target:      "search-bar",
		Features:    []string{"Autocomplete Search", "Category Filtering", "Department Matching", "Instant Results"},
	},
	{
		ID:          "filters",
		Title:       "Advanced Filtering System",
		Description: "Filter apps by department, popularity, and category to find exactly what you need. Popular apps are highlighted based on usage data.",
		Research:    "Okta's app catalog research revealed that department-specific filtering reduces search time by 60%.",
		Position:    "left",
		Target:      "filter-sidebar",
		Features:    []string{"Department Filters", "Popularity Sorting", "Category Groups", "Active Filter Count"},
	},
	{
		ID:          "app-cards",
		Title:       "Rich App Information",
		Description: "Each app shows ratings, user count, and access status. See what your colleagues think and how popular each tool is.",
		Research:    "Google Play Store research shows that ratings and usage stats increase user trust by 85%.",
		Position:    "center",
		Features:    []string{"Star Ratings", "Usage Statistics", "Access Status", "Department Tags"},
	},
	{
		ID:          "app-details",
		Title:       "Detailed App Pages",
		Description: "Click any app to see detailed information, features, user reviews, and request access. Make informed decisions about which tools to use.",
		Research:    "ServiceNow's catalog research found that detailed app pages with reviews increase successful adoptions by 70%.",
		Position:    "center",
		Features:    []string{"Feature Lists", "User Reviews", "Department Usage", "Access Requests"},
	},
	{
		ID:          "dashboard",
		Title:       "Personal Dashboard",
		Description: "Track your apps, pending requests, and get personalized recommendations based on your department and role.",
		Research:    "Apple App Store personalization increases user engagement by 40% according to their UX studies.",
		Position:    "center",
		Features:    []string{"My Apps", "Request Status", "Recommendations", "Usage Analytics"},
	},
	{
		ID:          "request-flow",
		Title:       "Simple Access Requests",
		Description: "Request access to restricted apps with a simple form. Track approval status and get notified when approved.",
		Research:    "ServiceNow workflow research shows streamlined request processes reduce approval time by 50%.",
		Position:    "center",
		Features:    []string{"Request Forms", "Status Tracking", "Auto-notifications", "Approval Workflow"},
	},
	{
		ID:          "admin-tools",
		Title:       "Admin Management (Demo)",
		Description: "Administrators can review requests, manage app access, and view usage analytics across the organization.",
		Research:    "Enterprise management tools based on Okta's admin interface best practices for efficient governance.",
		Position:    "center",
		Features:    []string{"Request Approval", "Usage Analytics", "Access Control", "Organization Insights"},
	},
}

// Steps returns a copy of the walkthrough steps in order.
func Steps() []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		s.Features = append([]string(nil), s.Features...)
		out[i] = s
	}
	return out
}

// Walkthrough 引导游标
type Walkthrough struct {
	index int
	done  bool
}

// NewWalkthrough starts at the first step.
func NewWalkthrough() *Walkthrough {
	return &Walkthrough{}
}

// Navigation actions accepted by Apply.
const (
	ActionNext     = "next"
	ActionPrevious = "previous"
	ActionSkip     = "skip"
)

// At resumes a cursor at index, clamped to the step range.
func At(index int) *Walkthrough {
	if index < 0 {
		index = 0
	}
	if index > len(steps)-1 {
		index = len(steps) - 1
	}
	return &Walkthrough{index: index}
}

// Apply performs one navigation action. An empty action leaves the cursor as is.
func (w *Walkthrough) Apply(action string) error {
	switch action {
	case "":
	case ActionNext:
		w.Next()
	case ActionPrevious:
		w.Previous()
	case ActionSkip:
		w.Skip()
	default:
		return models.NewValidationError("invalid walkthrough action", models.FieldErrors{
			"action": fmt.Sprintf("action must be %s, %s or %s", ActionNext, ActionPrevious, ActionSkip),
		})
	}
	return nil
}

// State 引导当前状态
type State struct {
	Index    int            `json:"index"`
	Total    int            `json:"total"`
	Current  Step           `json:"current"`
	Progress float64        `json:"progress"`
	Done     bool           `json:"done"`
	Notice   *models.Notice `json:"notice,omitempty"`
}

// State snapshots the cursor. A finished walkthrough carries the completion
// notice: the replay one when replay is set, the welcome one otherwise.
func (w *Walkthrough) State(replay bool) State {
	state := State{
		Index:    w.index,
		Total:    len(steps),
		Current:  w.Current(),
		Progress: w.Progress(),
		Done:     w.done,
	}
	if w.done {
		notice := WelcomeNotice()
		if replay {
			notice = ReplayNotice()
		}
		state.Notice = &notice
	}
	return state
}

// Index 当前步骤下标
func (w *Walkthrough) Index() int {
	return w.index
}

// Current 当前步骤
func (w *Walkthrough) Current() Step {
	return Steps()[w.index]
}

// Next advances one step. On the last step it completes the walkthrough instead.
func (w *Walkthrough) Next() {
	if w.index < len(steps)-1 {
		w.index++
		return
	}
	w.done = true
}

// Previous goes back one step, staying on the first.
func (w *Walkthrough) Previous() {
	if w.index > 0 {
		w.index--
	}
}

// Skip 跳过引导
func (w *Walkthrough) Skip() {
	w.done = true
}

// Done 是否已结束
func (w *Walkthrough) Done() bool {
	return w.done
}

// Progress is the percentage of steps reached, counting the current one.
func (w *Walkthrough) Progress() float64 {
	return float64(w.index+1) / float64(len(steps)) * 100
}

// WelcomeNotice is shown when the first-visit walkthrough finishes.
func WelcomeNotice() models.Notice {
	return models.Notice{
		Title:       "Welcome to Zluri!",
		Description: "You're all set to discover amazing applications. Start exploring!",
		Variant:     models.NoticeDefault,
	}
}

// ReplayNotice is shown when a walkthrough started from the help button finishes.
func ReplayNotice() models.Notice {
	return models.Notice{
		Title:       "Walkthrough Complete!",
		Description: "You're now ready to make the most of the app catalog.",
		Variant:     models.NoticeDefault,
	}
}
