package models

// AccessStatus 应用访问状态
type AccessStatus string

const (
	AccessAvailable       AccessStatus = "available"
	AccessRequestRequired AccessStatus = "request_required"
)

// Popularity is a coarse usage tier used for filtering and recommendations.
type Popularity string

const (
	PopularityHigh   Popularity = "high"
	PopularityMedium Popularity = "medium"
	PopularityLow    Popularity = "low"
)

// PopularityLevels lists the tiers in display order.
var PopularityLevels = []Popularity{PopularityHigh, PopularityMedium, PopularityLow}

// App represents one business application in the catalog
type App struct {
	ID              string       `json:"id" db:"id"`
	Name            string       `json:"name" db:"name"`
	Description     string       `json:"description" db:"description"`
	LongDescription string       `json:"longDescription" db:"long_description"`
	Logo            string       `json:"logo" db:"logo"`
	Category        string       `json:"category" db:"category"`
	Department      []string     `json:"department" db:"department"`
	Rating          float64      `json:"rating" db:"rating"`
	UsageCount      int          `json:"usageCount" db:"usage_count"`
	Reviews         []Review     `json:"reviews" db:"reviews"`
	Features        []string     `json:"features" db:"features"`
	AccessStatus    AccessStatus `json:"accessStatus" db:"access_status"`
	Popularity      Popularity   `json:"popularity" db:"popularity"`
	DateAdded       Date         `json:"dateAdded" db:"date_added"`
	Tags            []string     `json:"tags" db:"tags"`
}

// Review is an employee review owned by its App
type Review struct {
	ID      string `json:"id"`
	User    string `json:"user"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Date    Date   `json:"date"`
}

// IsAvailable reports whether the app is usable without a request.
func (a *App) IsAvailable() bool {
	return a.AccessStatus == AccessAvailable
}

// HasDepartment reports whether dept is one of the app's departments.
func (a *App) HasDepartment(dept string) bool {
	for _, d := range a.Department {
		if d == dept {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share slices with a store.
func (a App) Clone() App {
	out := a
	out.Department = cloneStrings(a.Department)
	out.Features = cloneStrings(a.Features)
	out.Tags = cloneStrings(a.Tags)
	if a.Reviews != nil {
		out.Reviews = make([]Review, len(a.Reviews))
		copy(out.Reviews, a.Reviews)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
