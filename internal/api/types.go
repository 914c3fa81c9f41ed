// Package api is the HTTP client for the portfolio service.
package api

// Category keywords understood by the listing endpoints.
const (
	CategoryAll          = "All"
	CategoryDevelop      = "Develop"
	CategoryDesign       = "Design"
	CategoryPhotographer = "Photographer"
)

// FilterAll disables the per-category sub filter.
const FilterAll = "All"

// Portfolio is a single portfolio as returned by the service.
type Portfolio struct {
	ID               int64   `json:"id"`
	Title            string  `json:"portfolioTitle"`
	Image            *string `json:"portfolioImage"`
	UserName         string  `json:"userName"`
	UserProfileImage string  `json:"userProfileImage"`
	Views            int64   `json:"views"`
	Category         string  `json:"category"`
	Filter           string  `json:"filter"`
	Description      string  `json:"portfolioContext"`
	TechStack        string  `json:"techStack"`
	Address          string  `json:"portfolioAddress"`
	CreatedAt        string  `json:"createdAt"`
}

// HasImage reports whether the portfolio has a cover image.
func (p Portfolio) HasImage() bool {
	return p.Image != nil && *p.Image != ""
}

// ListQuery selects a page of portfolios. Pages are cursor based: the service
// returns portfolios with id <= LastID in descending id order.
type ListQuery struct {
	LastID   int64
	Size     int
	Category string
	Filter   string
}
