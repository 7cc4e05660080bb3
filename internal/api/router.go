package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/portfolio"
)

// NewRouter creates a chi router with all API routes, to be mounted under /api.
// Content routes are public. The message inbox and its event stream (sseHandler,
// if non-nil) require a Bearer token when authEnabled is true.
func NewRouter(svc *portfolio.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Route("/skills", func(r chi.Router) {
		r.Get("/", h.ListSkills)
		r.Get("/groups", h.SkillGroups)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Get("/facets", h.ProjectFacets)
		r.Get("/featured", h.FeaturedProjects)
		r.Get("/by-technology/{tech}", h.ProjectsByTechnology)
	})

	r.Route("/blog", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Get("/categories", h.PostCategories)
		r.Get("/recent", h.RecentPosts)
		r.Get("/search", h.SearchPosts)
		r.Get("/slug/{slug}", h.GetPostBySlug)
		r.Get("/{id}", h.GetPost)
	})

	r.Route("/testimonials", func(r chi.Router) {
		r.Get("/", h.ListTestimonials)
		r.Get("/featured", h.FeaturedTestimonials)
		r.Get("/summary", h.TestimonialSummary)
		r.Get("/{id}", h.GetTestimonial)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/summary", h.AnalyticsSummary)
		r.Get("/trend", h.AnalyticsTrend)
		r.Get("/pages", h.PopularPages)
		r.Get("/projects", h.PopularProjects)
		r.Get("/posts", h.PopularPosts)
		r.Get("/recent", h.RecentActivity)
	})

	r.Post("/contact", h.SubmitContact)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Get("/messages", h.ListMessages)
		if sseHandler != nil {
			r.Get("/messages/events", sseHandler.ServeHTTP)
		}
	})

	return r
}
