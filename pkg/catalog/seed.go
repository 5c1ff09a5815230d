package catalog

import "app-catalog-backend/pkg/models"

// Departments 可选部门列表
var Departments = []string{
	"Engineering",
	"HR",
	"Sales",
	"Marketing",
	"Finance",
	"Operations",
	"Design",
}

// Categories 分类筛选项
var Categories = []string{
	"Communication",
	"Development",
	"Project Management",
	"CRM",
	"HR",
	"Design",
	"Documentation",
}

// IsDepartment reports whether dept is one of the selectable departments.
func IsDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}

var mustDate = models.MustParseDate

var seedApps = []models.App{
	{
		ID:              "1",
		Name:            "Slack",
		Description:     "Team communication and collaboration platform",
		LongDescription: "Slack is a powerful team communication platform that brings all your team communications together in one place. It offers real-time messaging, file sharing, and integrations with hundreds of tools to streamline your workflow.",
		Logo:            "💬",
		Category:        "Communication",
		Department:      []string{"Engineering", "HR", "Sales", "Marketing", "Finance", "Operations", "Design"},
		Rating:          4.8,
		UsageCount:      1200,
		Reviews: []models.Review{
			{ID: "1", User: "Sarah Chen", Rating: 5, Comment: "Easy to use for collaboration across teams", Date: mustDate("2024-01-15")},
			{ID: "2", User: "Mike Johnson", Rating: 4, Comment: "Great for staying connected with remote team", Date: mustDate("2024-01-10")},
		},
		Features:     []string{"Real-time messaging", "File sharing", "App integrations", "Video calls"},
		AccessStatus: models.AccessAvailable,
		Popularity:   models.PopularityHigh,
		DateAdded:    mustDate("2023-01-15"),
		Tags:         []string{"communication", "collaboration", "essential"},
	},
	{
		ID:              "2",
		Name:            "GitHub",
		Description:     "Code repository and version control system",
		LongDescription: "GitHub is the world's leading software development platform. It provides Git repository hosting, code review, project management, and CI/CD capabilities for development teams.",
		Logo:            "🐙",
		Category:        "Development",
		Department:      []string{"Engineering"},
		Rating:          4.9,
		UsageCount:      1500,
		Reviews: []models.Review{
			{ID: "3", User: "Alex Kumar", Rating: 5, Comment: "Essential for our development workflow", Date: mustDate("2024-01-20")},
			{ID: "4", User: "Emily Rodriguez", Rating: 5, Comment: "Perfect for code collaboration and reviews", Date: mustDate("2024-01-18")},
		},
		Features:     []string{"Git repositories", "Code review", "Issue tracking", "CI/CD pipelines"},
		AccessStatus: models.AccessAvailable,
		Popularity:   models.PopularityHigh,
		DateAdded:    mustDate("2022-06-01"),
		Tags:         []string{"development", "version-control", "essential"},
	},
	{
		ID:              "3",
		Name:            "Jira",
		Description:     "Project management and issue tracking tool",
		LongDescription: "Jira is a powerful project management tool designed for agile teams. It helps track issues, manage projects, and streamline workflows with customizable boards and reporting.",
		Logo:            "📋",
		Category:        "Project Management",
		Department:      []string{"Engineering", "Operations"},
		Rating:          4.1,
		UsageCount:      850,
		Reviews: []models.Review{
			{ID: "5", User: "David Park", Rating: 4, Comment: "Helpful for project tracking and sprint planning", Date: mustDate("2024-01-12")},
			{ID: "6", User: "Lisa Thompson", Rating: 4, Comment: "Good for managing complex projects", Date: mustDate("2024-01-08")},
		},
		Features:     []string{"Agile boards", "Issue tracking", "Sprint planning", "Custom workflows"},
		AccessStatus: models.AccessAvailable,
		Popularity:   models.PopularityHigh,
		DateAdded:    mustDate("2022-08-15"),
		Tags:         []string{"project-management", "agile", "tracking"},
	},
	{
		ID:              "4",
		Name:            "Salesforce",
		Description:     "Customer relationship management platform",
		LongDescription: "Salesforce is the world's #1 CRM platform that helps sales teams close more deals, marketing teams generate better leads, and service teams deliver exceptional customer support.",
		Logo:            "☁️",
		Category:        "CRM",
		Department:      []string{"Sales", "Marketing"},
		Rating:          4.3,
		UsageCount:      600,
		Reviews: []models.Review{
			{ID: "7", User: "Jennifer Wu", Rating: 4, Comment: "Great for managing customer relationships", Date: mustDate("2024-01-14")},
			{ID: "8", User: "Robert Kim", Rating: 4, Comment: "Powerful automation features", Date: mustDate("2024-01-11")},
		},
		Features:     []string{"Lead management", "Sales automation", "Analytics", "Customer support"},
		AccessStatus: models.AccessRequestRequired,
		Popularity:   models.PopularityMedium,
		DateAdded:    mustDate("2023-03-10"),
		Tags:         []string{"crm", "sales", "marketing"},
	},
	{
		ID:              "5",
		Name:            "BambooHR",
		Description:     "Human resources management system",
		LongDescription: "BambooHR is an all-in-one HR software designed for small to medium businesses. It streamlines HR processes from hiring to performance management.",
		Logo:            "🎋",
		Category:        "HR",
		Department:      []string{"HR"},
		Rating:          4.6,
		UsageCount:      300,
		Reviews: []models.Review{
			{ID: "9", User: "Amanda Foster", Rating: 5, Comment: "Makes HR processes much more efficient", Date: mustDate("2024-01-16")},
			{ID: "10", User: "Chris Martinez", Rating: 4, Comment: "Great for employee onboarding", Date: mustDate("2024-01-13")},
		},
		Features:     []string{"Employee records", "Time tracking", "Performance reviews", "Recruiting"},
		AccessStatus: models.AccessRequestRequired,
		Popularity:   models.PopularityMedium,
		DateAdded:    mustDate("2023-05-20"),
		Tags:         []string{"hr", "management", "recruiting"},
	},
	{
		ID:              "6",
		Name:            "Figma",
		Description:     "Collaborative design and prototyping tool",
		LongDescription: "Figma is a collaborative interface design tool that runs in the browser. Teams can design, prototype, and collaborate in real-time from anywhere.",
		Logo:            "🎨",
		Category:        "Design",
		Department:      []string{"Design", "Engineering"},
		Rating:          4.7,
		UsageCount:      450,
		Reviews: []models.Review{
			{ID: "11", User: "Maya Patel", Rating: 5, Comment: "Best design tool for team collaboration", Date: mustDate("2024-01-17")},
			{ID: "12", User: "Tom Wilson", Rating: 4, Comment: "Great for prototyping and design systems", Date: mustDate("2024-01-09")},
		},
		Features:     []string{"Design collaboration", "Prototyping", "Design systems", "Real-time editing"},
		AccessStatus: models.AccessAvailable,
		Popularity:   models.PopularityHigh,
		DateAdded:    mustDate("2022-11-30"),
		Tags:         []string{"design", "prototype", "collaboration"},
	},
	{
		ID:              "7",
		Name:            "Zoom",
		Description:     "Video conferencing and virtual meetings",
		LongDescription: "Zoom is a leading video communications platform that provides video meetings, webinars, and phone services in a unified platform.",
		Logo:            "📹",
		Category:        "Communication",
		Department:      []string{"Engineering", "HR", "Sales", "Marketing", "Finance", "Operations"},
		Rating:          4.4,
		UsageCount:      980,
		Reviews: []models.Review{
			{ID: "13", User: "Rachel Green", Rating: 4, Comment: "Reliable for video meetings and webinars", Date: mustDate("2024-01-19")},
			{ID: "14", User: "Mark Davis", Rating: 4, Comment: "Good quality video and easy to use", Date: mustDate("2024-01-07")},
		},
		Features:     []string{"Video meetings", "Screen sharing", "Webinars", "Recording"},
		AccessStatus: models.AccessAvailable,
		Popularity:   models.PopularityHigh,
		DateAdded:    mustDate("2021-12-01"),
		Tags:         []string{"video", "meetings", "communication"},
	},
	{
		ID:              "8",
		Name:            "Confluence",
		Description:     "Team workspace and knowledge management",
		LongDescription: "Confluence is a team workspace where knowledge and collaboration meet. Create, share, and organize your work in one place to move projects forward.",
		Logo:            "📚",
		Category:        "Documentation",
		Department:      []string{"Engineering", "Operations", "HR"},
		Rating:          4.2,
		UsageCount:      720,
		Reviews: []models.Review{
			{ID: "15", User: "Kevin Liu", Rating: 4, Comment: "Great for team documentation and wikis", Date: mustDate("2024-01-21")},
			{ID: "16", User: "Sophie Anderson", Rating: 4, Comment: "Useful for knowledge sharing", Date: mustDate("2024-01-06")},
		},
		Features:     []string{"Team spaces", "Page templates", "Collaboration", "Integration with Jira"},
		AccessStatus: models.AccessRequestRequired,
		Popularity:   models.PopularityMedium,
		DateAdded:    mustDate("2023-02-28"),
		Tags:         []string{"documentation", "wiki", "knowledge"},
	},
}

var approvedOn = mustDate("2024-01-21")

var seedRequests = []models.AccessRequest{
	{
		ID:          "1",
		AppID:       "4",
		AppName:     "Salesforce",
		Reason:      "Need access for managing sales leads",
		Department:  "Sales",
		Status:      models.RequestPending,
		RequestDate: mustDate("2024-01-22"),
	},
	{
		ID:           "2",
		AppID:        "5",
		AppName:      "BambooHR",
		Reason:       "HR onboarding process management",
		Department:   "HR",
		Status:       models.RequestApproved,
		RequestDate:  mustDate("2024-01-20"),
		ApprovedDate: &approvedOn,
	},
	{
		ID:          "3",
		AppID:       "8",
		AppName:     "Confluence",
		Reason:      "Team documentation and knowledge sharing",
		Department:  "Engineering",
		Status:      models.RequestRejected,
		RequestDate: mustDate("2024-01-18"),
	},
}

// SeedApps returns a fresh copy of the seeded catalog.
func SeedApps() []models.App {
	out := make([]models.App, len(seedApps))
	for i, a := range seedApps {
		out[i] = a.Clone()
	}
	return out
}

// SeedRequests returns a fresh copy of the seeded access requests.
func SeedRequests() []models.AccessRequest {
	out := make([]models.AccessRequest, len(seedRequests))
	for i, r := range seedRequests {
		out[i] = r.Clone()
	}
	return out
}
