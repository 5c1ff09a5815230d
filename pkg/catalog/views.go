package catalog

import "app-catalog-backend/pkg/models"

const (
	myAppsLimit      = 4
	recommendedLimit = 3
)

// MyApps returns the first four apps the viewer can already use.
func MyApps(apps []models.App) []models.App {
	out := make([]models.App, 0, myAppsLimit)
	for _, app := range apps {
		if len(out) == myAppsLimit {
			break
		}
		if app.IsAvailable() {
			out = append(out, app)
		}
	}
	return out
}

// Recommended returns up to three high-popularity apps used by department,
// in collection order.
func Recommended(apps []models.App, department string) []models.App {
	out := make([]models.App, 0, recommendedLimit)
	for _, app := range apps {
		if len(out) == recommendedLimit {
			break
		}
		if app.HasDepartment(department) && app.Popularity == models.PopularityHigh {
			out = append(out, app)
		}
	}
	return out
}

// FindApp looks up an app by id.
func FindApp(apps []models.App, id string) (models.App, bool) {
	for _, app := range apps {
		if app.ID == id {
			return app, true
		}
	}
	return models.App{}, false
}

// FilterRequests returns requests with the given status; an empty status keeps all.
func FilterRequests(requests []models.AccessRequest, status models.RequestStatus) []models.AccessRequest {
	if status == "" {
		return requests
	}
	out := make([]models.AccessRequest, 0, len(requests))
	for _, r := range requests {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// AdminStats 管理后台统计
type AdminStats struct {
	PendingRequests int     `json:"pendingRequests"`
	TotalUsers      int     `json:"totalUsers"`
	AverageRating   float64 `json:"averageRating"`
	TotalApps       int     `json:"totalApps"`
}

// ComputeAdminStats derives the admin overview cards.
func ComputeAdminStats(apps []models.App, requests []models.AccessRequest) AdminStats {
	stats := AdminStats{TotalApps: len(apps)}
	var ratingSum float64
	for _, app := range apps {
		stats.TotalUsers += app.UsageCount
		ratingSum += app.Rating
	}
	if len(apps) > 0 {
		stats.AverageRating = ratingSum / float64(len(apps))
	}
	stats.PendingRequests = len(FilterRequests(requests, models.RequestPending))
	return stats
}

// DashboardStats 个人仪表盘统计
type DashboardStats struct {
	MyApps   int `json:"myApps"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ComputeDashboardStats derives the dashboard stat cards.
func ComputeDashboardStats(apps []models.App, requests []models.AccessRequest) DashboardStats {
	stats := DashboardStats{MyApps: len(MyApps(apps))}
	for _, r := range requests {
		switch r.Status {
		case models.RequestPending:
			stats.Pending++
		case models.RequestApproved:
			stats.Approved++
		case models.RequestRejected:
			stats.Rejected++
		}
	}
	return stats
}
