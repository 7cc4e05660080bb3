// Package portfolio coordinates the content catalog, filters, blog search, analytics
// and contact delivery behind one API used by the HTTP and MCP layers.
package portfolio

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/starford/folio/internal/analytics"
	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/contact"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/filter"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/models"
)

// Default limits for list operations that accept one.
const (
	DefaultRecentPosts          = 3
	DefaultFeaturedTestimonials = 3
	DefaultActivityWindow       = 7
)

// PostSummary is a blog post without its body.
type PostSummary struct {
	ID       int         `json:"id"`
	Slug     string      `json:"slug"`
	Title    string      `json:"title"`
	Author   string      `json:"author"`
	Date     models.Date `json:"date"`
	Category string      `json:"category"`
	Tags     []string    `json:"tags"`
	Excerpt  string      `json:"excerpt"`
}

// ProjectFacets lists the values projects can be filtered by.
type ProjectFacets struct {
	Categories   []string `json:"categories"`
	Technologies []string `json:"technologies"`
}

// TestimonialSummary is the aggregate shown above the testimonial list.
type TestimonialSummary struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
	FiveStar      int     `json:"five_star"`
}

// AnalyticsSummary is the dashboard overview.
type AnalyticsSummary struct {
	analytics.Engagement
	TopPages    []filter.Ranked   `json:"top_pages"`
	Outcome     analytics.Outcome `json:"source"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// PostRank is a blog post with its view count.
type PostRank struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Service is the portfolio application service.
type Service struct {
	catalog    *content.Catalog
	search     index.PostIndex
	analytics  *analytics.Store
	dispatcher *contact.Dispatcher
	inbox      *contact.Sink
}

// NewService creates a portfolio service.
func NewService(catalog *content.Catalog, search index.PostIndex, store *analytics.Store, dispatcher *contact.Dispatcher, inbox *contact.Sink) *Service {
	return &Service{catalog: catalog, search: search, analytics: store, dispatcher: dispatcher, inbox: inbox}
}

// Ready reports whether the search index is reachable.
func (s *Service) Ready(_ context.Context) error {
	if _, err := s.search.Count(); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// Skills returns skills in category ("" or "All" for every skill).
func (s *Service) Skills(_ context.Context, category string) ([]models.Skill, error) {
	return filter.Skills(s.catalog.Skills(), category)
}

// SkillGroups returns skills grouped by category.
func (s *Service) SkillGroups(_ context.Context) []content.SkillGroup {
	return s.catalog.SkillsByCategory()
}

// Projects returns projects matching category and any of technologies.
func (s *Service) Projects(_ context.Context, category string, technologies []string) ([]models.Project, error) {
	return filter.Projects(s.catalog.Projects(), category, technologies)
}

// ProjectsByTechnology returns the projects that list tech.
func (s *Service) ProjectsByTechnology(_ context.Context, tech string) ([]models.Project, error) {
	if err := filter.ValidateTechnologies([]string{tech}); err != nil {
		return nil, err
	}
	return s.catalog.ProjectsByTechnology(tech), nil
}

// ProjectFacets returns the project categories and technologies.
func (s *Service) ProjectFacets(_ context.Context) ProjectFacets {
	projects := s.catalog.Projects()
	return ProjectFacets{
		Categories:   filter.Categories(projects, filter.ProjectCategory),
		Technologies: filter.Technologies(projects),
	}
}

// FeaturedProjects returns the highlighted projects.
func (s *Service) FeaturedProjects(_ context.Context) []models.Project {
	return s.catalog.FeaturedProjects()
}

// Posts returns summaries of the posts in category.
func (s *Service) Posts(_ context.Context, category string) ([]PostSummary, error) {
	posts, err := filter.BlogPosts(s.catalog.Posts(), category)
	if err != nil {
		return nil, err
	}
	return summarize(posts), nil
}

// PostCategories returns the distinct blog categories.
func (s *Service) PostCategories(_ context.Context) []string {
	return filter.Categories(s.catalog.Posts(), filter.PostCategory)
}

// RecentPosts returns up to limit post summaries, newest first.
func (s *Service) RecentPosts(_ context.Context, limit int) []PostSummary {
	if limit <= 0 {
		limit = DefaultRecentPosts
	}
	return summarize(s.catalog.RecentPosts(limit))
}

// Post returns the post with id.
func (s *Service) Post(_ context.Context, id int) (models.BlogPost, error) {
	p, ok := s.catalog.PostByID(id)
	if !ok {
		return models.BlogPost{}, fmt.Errorf("post %d: %w", id, apperr.ErrNotFound)
	}
	return p, nil
}

// PostBySlug returns the post with slug.
func (s *Service) PostBySlug(_ context.Context, slug string) (models.BlogPost, error) {
	p, ok := s.catalog.PostBySlug(slug)
	if !ok {
		return models.BlogPost{}, fmt.Errorf("post %q: %w", slug, apperr.ErrNotFound)
	}
	return p, nil
}

// SearchPosts runs a full-text query over the blog.
func (s *Service) SearchPosts(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", apperr.ErrInvalidArgument)
	}
	if len(query) > 256 {
		return nil, fmt.Errorf("%w: search query too long", apperr.ErrInvalidArgument)
	}
	results, err := s.search.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrStorageUnavailable, err)
	}
	return results, nil
}

// Testimonials returns every testimonial.
func (s *Service) Testimonials(_ context.Context) []models.Testimonial {
	return s.catalog.Testimonials()
}

// FeaturedTestimonials returns up to limit five-star testimonials.
func (s *Service) FeaturedTestimonials(_ context.Context, limit int) []models.Testimonial {
	if limit <= 0 {
		limit = DefaultFeaturedTestimonials
	}
	return s.catalog.FeaturedTestimonials(limit)
}

// Testimonial returns the testimonial with id.
func (s *Service) Testimonial(_ context.Context, id int) (models.Testimonial, error) {
	t, ok := s.catalog.TestimonialByID(id)
	if !ok {
		return models.Testimonial{}, fmt.Errorf("testimonial %d: %w", id, apperr.ErrNotFound)
	}
	return t, nil
}

// TestimonialSummary returns count, average rating and number of five-star reviews.
func (s *Service) TestimonialSummary(_ context.Context) TestimonialSummary {
	all := s.catalog.Testimonials()
	five := 0
	for _, t := range all {
		if t.Rating == 5 {
			five++
		}
	}
	return TestimonialSummary{Count: s.catalog.TestimonialCount(), AverageRating: filter.AverageRating(all), FiveStar: five}
}

// AnalyticsSummary returns engagement figures and the three most viewed pages.
func (s *Service) AnalyticsSummary(_ context.Context) AnalyticsSummary {
	pages := s.analytics.PopularPages()
	if len(pages) > 3 {
		pages = pages[:3]
	}
	return AnalyticsSummary{
		Engagement:  s.analytics.EngagementSummary(),
		TopPages:    pages,
		Outcome:     s.analytics.Outcome(),
		GeneratedAt: s.analytics.GeneratedAt(),
	}
}

// Trend returns daily page views, oldest first.
func (s *Service) Trend(_ context.Context) []models.DailyPageViews {
	return s.analytics.Trend()
}

// PopularPages ranks pages by total views.
func (s *Service) PopularPages(_ context.Context) []filter.Ranked {
	return s.analytics.PopularPages()
}

// PopularProjects ranks projects by views.
func (s *Service) PopularProjects(_ context.Context) []filter.Ranked {
	return s.analytics.PopularProjects()
}

// PopularPosts ranks blog posts by views, with their titles.
func (s *Service) PopularPosts(_ context.Context) []PostRank {
	ranked := s.analytics.PopularBlogPosts()
	titles := make(map[string]string)
	for _, p := range s.catalog.Posts() {
		titles[strconv.Itoa(p.ID)] = p.Title
	}
	out := make([]PostRank, len(ranked))
	for i, r := range ranked {
		out[i] = PostRank{ID: r.Key, Title: titles[r.Key], Count: r.Count}
	}
	return out
}

// RecentActivity returns the trailing days of page views and their total.
func (s *Service) RecentActivity(_ context.Context, days int) (analytics.Activity, error) {
	return s.analytics.RecentActivity(days)
}

// SubmitContact validates and delivers a contact-form message.
func (s *Service) SubmitContact(ctx context.Context, msg models.ContactMessage) (contact.Delivery, error) {
	_, delivery, err := s.dispatcher.Send(ctx, msg)
	return delivery, err
}

// Messages returns the locally queued contact messages, oldest first.
func (s *Service) Messages(_ context.Context) ([]models.ContactMessage, error) {
	return s.inbox.ListAll()
}

func summarize(posts []models.BlogPost) []PostSummary {
	out := make([]PostSummary, len(posts))
	for i, p := range posts {
		out[i] = PostSummary{
			ID: p.ID, Slug: p.Slug, Title: p.Title, Author: p.Author,
			Date: p.Date, Category: p.Category, Tags: p.Tags, Excerpt: p.Excerpt,
		}
	}
	return out
}
