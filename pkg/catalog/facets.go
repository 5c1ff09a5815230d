package catalog

import "app-catalog-backend/pkg/models"

// PopularityFacet is one popularity checkbox with its app count.
type PopularityFacet struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Facets 筛选侧边栏选项
type Facets struct {
	Departments []string          `json:"departments"`
	Categories  []string          `json:"categories"`
	Popularity  []PopularityFacet `json:"popularity"`
}

var popularityLabels = map[models.Popularity]string{
	models.PopularityHigh:   "High",
	models.PopularityMedium: "Medium",
	models.PopularityLow:    "Low",
}

// BuildFacets lists the filter options, counting apps per popularity tier.
func BuildFacets(apps []models.App) Facets {
	counts := make(map[models.Popularity]int, len(models.PopularityLevels))
	for _, app := range apps {
		counts[app.Popularity]++
	}
	pop := make([]PopularityFacet, 0, len(models.PopularityLevels))
	for _, level := range models.PopularityLevels {
		pop = append(pop, PopularityFacet{
			Value: string(level),
			Label: popularityLabels[level],
			Count: counts[level],
		})
	}
	return Facets{
		Departments: append([]string(nil), Departments...),
		Categories:  append([]string(nil), Categories...),
		Popularity:  pop,
	}
}
