package api

import (
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolio"
)

// ContactRequest is the request body for submitting the contact form.
type ContactRequest struct {
	Name    string `json:"name" example:"Ada Lovelace" validate:"required"`
	Email   string `json:"email" example:"ada@example.com" validate:"required"`
	Subject string `json:"subject,omitempty" example:"Collaboration"`
	Message string `json:"message" example:"Hello!" validate:"required"`
}

func (c ContactRequest) toMessage() models.ContactMessage {
	return models.ContactMessage{
		SenderName:  c.Name,
		SenderEmail: c.Email,
		Subject:     c.Subject,
		Body:        c.Message,
	}
}

// ContactResponse acknowledges a submission. Email and local queueing look the same.
type ContactResponse struct {
	Status string `json:"status" example:"received" validate:"required"`
}

// SkillsResponse wraps a skill listing.
type SkillsResponse struct {
	Skills []models.Skill `json:"skills" validate:"required"`
}

// SkillGroupsResponse wraps skills grouped by category.
type SkillGroupsResponse struct {
	Groups []content.SkillGroup `json:"groups" validate:"required"`
}

// ProjectsResponse wraps a project listing.
type ProjectsResponse struct {
	Projects []models.Project `json:"projects" validate:"required"`
	Count    int              `json:"count" example:"9"`
}

// PostsResponse wraps blog post summaries.
type PostsResponse struct {
	Posts []portfolio.PostSummary `json:"posts" validate:"required"`
}

// CategoriesResponse wraps a category list.
type CategoriesResponse struct {
	Categories []string `json:"categories" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// TestimonialsResponse wraps a testimonial listing.
type TestimonialsResponse struct {
	Testimonials []models.Testimonial `json:"testimonials" validate:"required"`
}

// TrendResponse wraps daily page views.
type TrendResponse struct {
	Days []models.DailyPageViews `json:"days" validate:"required"`
}

// RankingResponse wraps a count ranking.
type RankingResponse struct {
	Ranking any `json:"ranking" validate:"required"`
}

// MessagesResponse wraps the locally queued contact messages.
type MessagesResponse struct {
	Messages []models.ContactMessage `json:"messages" validate:"required"`
	Count    int                     `json:"count" example:"3"`
}
