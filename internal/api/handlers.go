package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/portfolio"
)

// Handler holds API route handlers.
type Handler struct {
	svc *portfolio.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *portfolio.Service) *Handler {
	return &Handler{svc: svc}
}

// intQuery parses an optional integer query parameter.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", apperr.ErrInvalidArgument, name)
	}
	return n, nil
}

// idParam parses the {id} path parameter.
func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, fmt.Errorf("%w: id must be an integer", apperr.ErrInvalidArgument)
	}
	return id, nil
}

// techQuery collects ?tech= values, accepting both repeated and comma-separated forms.
// Entries are passed through as given so malformed ones are rejected downstream.
func techQuery(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["tech"] {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

// ListSkills handles GET /api/skills.
//
//	@Summary		List skills, optionally filtered by category
//	@Tags			skills
//	@Produce		json
//	@Param			category	query		string	false	"Category, or All"
//	@Success		200			{object}	SkillsResponse
//	@Failure		400			{object}	errResponse
//	@Router			/skills [get]
func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.svc.Skills(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, "list skills", err)
		return
	}
	writeJSON(w, http.StatusOK, SkillsResponse{Skills: skills})
}

// SkillGroups handles GET /api/skills/groups.
func (h *Handler) SkillGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SkillGroupsResponse{Groups: h.svc.SkillGroups(r.Context())})
}

// ListProjects handles GET /api/projects.
//
//	@Summary		List projects filtered by category and technologies
//	@Tags			projects
//	@Produce		json
//	@Param			category	query		string		false	"Category, or All"
//	@Param			tech		query		[]string	false	"Technologies (any match)"
//	@Success		200			{object}	ProjectsResponse
//	@Failure		400			{object}	errResponse
//	@Router			/projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.Projects(r.Context(), r.URL.Query().Get("category"), techQuery(r))
	if err != nil {
		writeError(w, r, "list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectsResponse{Projects: projects, Count: len(projects)})
}

// ProjectsByTechnology handles GET /api/projects/by-technology/{tech}.
//
//	@Summary		List projects that use one technology
//	@Tags			projects
//	@Produce		json
//	@Param			tech	path		string	true	"Technology"
//	@Success		200		{object}	ProjectsResponse
//	@Failure		400		{object}	errResponse
//	@Router			/projects/by-technology/{tech} [get]
func (h *Handler) ProjectsByTechnology(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.ProjectsByTechnology(r.Context(), chi.URLParam(r, "tech"))
	if err != nil {
		writeError(w, r, "projects by technology", err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectsResponse{Projects: projects, Count: len(projects)})
}

// ProjectFacets handles GET /api/projects/facets.
func (h *Handler) ProjectFacets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ProjectFacets(r.Context()))
}

// FeaturedProjects handles GET /api/projects/featured.
func (h *Handler) FeaturedProjects(w http.ResponseWriter, r *http.Request) {
	projects := h.svc.FeaturedProjects(r.Context())
	writeJSON(w, http.StatusOK, ProjectsResponse{Projects: projects, Count: len(projects)})
}

// ListPosts handles GET /api/blog.
//
//	@Summary		List blog post summaries
//	@Tags			blog
//	@Produce		json
//	@Param			category	query		string	false	"Category, or All"
//	@Success		200			{object}	PostsResponse
//	@Failure		400			{object}	errResponse
//	@Router			/blog [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.Posts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, "list posts", err)
		return
	}
	writeJSON(w, http.StatusOK, PostsResponse{Posts: posts})
}

// PostCategories handles GET /api/blog/categories.
func (h *Handler) PostCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: h.svc.PostCategories(r.Context())})
}

// RecentPosts handles GET /api/blog/recent.
func (h *Handler) RecentPosts(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", portfolio.DefaultRecentPosts)
	if err != nil {
		writeError(w, r, "recent posts", err)
		return
	}
	writeJSON(w, http.StatusOK, PostsResponse{Posts: h.svc.RecentPosts(r.Context(), limit)})
}

// SearchPosts handles GET /api/blog/search.
//
//	@Summary		Full-text search across blog posts
//	@Tags			blog
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Router			/blog/search [get]
func (h *Handler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		writeError(w, r, "search", err)
		return
	}
	results, err := h.svc.SearchPosts(r.Context(), q, limit)
	if err != nil {
		writeError(w, r, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// GetPost handles GET /api/blog/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "get post", err)
		return
	}
	post, err := h.svc.Post(r.Context(), id)
	if err != nil {
		writeError(w, r, "get post", err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// GetPostBySlug handles GET /api/blog/slug/{slug}.
func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.PostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, "get post", err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// ListTestimonials handles GET /api/testimonials.
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TestimonialsResponse{Testimonials: h.svc.Testimonials(r.Context())})
}

// FeaturedTestimonials handles GET /api/testimonials/featured.
func (h *Handler) FeaturedTestimonials(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", portfolio.DefaultFeaturedTestimonials)
	if err != nil {
		writeError(w, r, "featured testimonials", err)
		return
	}
	writeJSON(w, http.StatusOK, TestimonialsResponse{Testimonials: h.svc.FeaturedTestimonials(r.Context(), limit)})
}

// TestimonialSummary handles GET /api/testimonials/summary.
func (h *Handler) TestimonialSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.TestimonialSummary(r.Context()))
}

// GetTestimonial handles GET /api/testimonials/{id}.
func (h *Handler) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "get testimonial", err)
		return
	}
	t, err := h.svc.Testimonial(r.Context(), id)
	if err != nil {
		writeError(w, r, "get testimonial", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// AnalyticsSummary handles GET /api/analytics/summary.
//
//	@Summary		Dashboard headline figures
//	@Tags			analytics
//	@Produce		json
//	@Success		200	{object}	portfolio.AnalyticsSummary
//	@Router			/analytics/summary [get]
func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.AnalyticsSummary(r.Context()))
}

// AnalyticsTrend handles GET /api/analytics/trend.
func (h *Handler) AnalyticsTrend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TrendResponse{Days: h.svc.Trend(r.Context())})
}

// PopularPages handles GET /api/analytics/pages.
func (h *Handler) PopularPages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RankingResponse{Ranking: h.svc.PopularPages(r.Context())})
}

// PopularProjects handles GET /api/analytics/projects.
func (h *Handler) PopularProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RankingResponse{Ranking: h.svc.PopularProjects(r.Context())})
}

// PopularPosts handles GET /api/analytics/posts.
func (h *Handler) PopularPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RankingResponse{Ranking: h.svc.PopularPosts(r.Context())})
}

// RecentActivity handles GET /api/analytics/recent.
//
//	@Summary		Trailing page views and their total
//	@Tags			analytics
//	@Produce		json
//	@Param			days	query		int	false	"Window in days (default 7)"
//	@Success		200		{object}	analytics.Activity
//	@Failure		400		{object}	errResponse
//	@Router			/analytics/recent [get]
func (h *Handler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", portfolio.DefaultActivityWindow)
	if err != nil {
		writeError(w, r, "recent activity", err)
		return
	}
	act, err := h.svc.RecentActivity(r.Context(), days)
	if err != nil {
		writeError(w, r, "recent activity", err)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

// SubmitContact handles POST /api/contact.
//
//	@Summary		Submit the contact form
//	@Tags			contact
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ContactRequest	true	"Message"
//	@Success		202		{object}	ContactResponse
//	@Failure		400		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Router			/contact [post]
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if _, err := h.svc.SubmitContact(r.Context(), req.toMessage()); err != nil {
		writeError(w, r, "submit contact", err)
		return
	}
	writeJSON(w, http.StatusAccepted, ContactResponse{Status: "received"})
}

// ListMessages handles GET /api/messages.
//
//	@Summary		List locally queued contact messages
//	@Tags			contact
//	@Produce		json
//	@Success		200	{object}	MessagesResponse
//	@Failure		401	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/messages [get]
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.Messages(r.Context())
	if err != nil {
		writeError(w, r, "list messages", err)
		return
	}
	writeJSON(w, http.StatusOK, MessagesResponse{Messages: msgs, Count: len(msgs)})
}
