// Package mcpserver exposes portfolio content to LLM agents as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/portfolio"
)

// SkillsURI identifies the skills resource.
const SkillsURI = "folio://skills"

// Server wraps the MCP server with portfolio tools.
type Server struct {
	mcp *server.MCPServer
	svc *portfolio.Service
}

// New creates a new MCP server with all portfolio tools registered.
func New(svc *portfolio.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Folio",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List portfolio projects, optionally filtered by category and technologies."),
		mcp.WithString("category", mcp.Description("Project category, or All (default)")),
		mcp.WithString("technologies", mcp.Description("Comma-separated technologies; a project matches if it uses any of them")),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("get_projects_by_technology",
		mcp.WithDescription("List the projects that use a given technology."),
		mcp.WithString("technology", mcp.Required(), mcp.Description("Technology name, e.g. Flask")),
	), s.projectsByTechnology)

	s.mcp.AddTool(mcp.NewTool("get_blog_post",
		mcp.WithDescription("Read a full blog post by numeric id or by slug."),
		mcp.WithString("id", mcp.Description("Post id")),
		mcp.WithString("slug", mcp.Description("Post slug (used when id is empty)")),
	), s.getBlogPost)

	s.mcp.AddTool(mcp.NewTool("search_blog",
		mcp.WithDescription("Full-text search through blog post titles, bodies and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchBlog)

	s.mcp.AddTool(mcp.NewTool("list_testimonials",
		mcp.WithDescription("List client testimonials with their ratings."),
	), s.listTestimonials)

	s.mcp.AddTool(mcp.NewTool("analytics_summary",
		mcp.WithDescription("Headline visitor analytics: total views, contact submissions, resume downloads and top pages."),
	), s.analyticsSummary)

	s.mcp.AddResource(
		mcp.NewResource(SkillsURI, "Skills",
			mcp.WithResourceDescription("Skills grouped by category with proficiency percentages."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSkillsResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// optionalString returns the named argument as given, or "" when absent.
func optionalString(req mcp.CallToolRequest, name string) string {
	v, err := req.RequireString(name)
	if err != nil {
		return ""
	}
	return v
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var techs []string
	if raw := optionalString(req, "technologies"); raw != "" {
		techs = strings.Split(raw, ",")
	}
	projects, err := s.svc.Projects(ctx, optionalString(req, "category"), techs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(projects), nil
}

func (s *Server) projectsByTechnology(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tech, err := req.RequireString("technology")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	projects, err := s.svc.ProjectsByTechnology(ctx, tech)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(projects), nil
}

func (s *Server) getBlogPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idArg, slug := optionalString(req, "id"), optionalString(req, "slug")

	var (
		post models.BlogPost
		err  error
	)
	switch {
	case idArg != "":
		id, convErr := strconv.Atoi(idArg)
		if convErr != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid id: %q", idArg)), nil
		}
		post, err = s.svc.Post(ctx, id)
	case slug != "":
		post, err = s.svc.PostBySlug(ctx, slug)
	default:
		return mcp.NewToolResultError("one of id or slug is required"), nil
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError("post not found"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(renderPost(post)), nil
}

func renderPost(p models.BlogPost) string {
	return fmt.Sprintf("# %s\n\n_%s, %s_\n\n%s", p.Title, p.Author, p.Date, p.Body)
}

func (s *Server) searchBlog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.SearchPosts(ctx, query, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results), nil
}

func (s *Server) listTestimonials(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Testimonials(ctx)), nil
}

func (s *Server) analyticsSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.AnalyticsSummary(ctx)), nil
}

func (s *Server) readSkillsResource(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var b strings.Builder
	b.WriteString("| Category | Skill | Proficiency |\n|---|---|---|\n")
	for _, g := range s.svc.SkillGroups(ctx) {
		for _, sk := range g.Skills {
			fmt.Fprintf(&b, "| %s | %s | %d%% |\n", g.Category, sk.Name, sk.Proficiency)
		}
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SkillsURI,
			MIMEType: "text/markdown",
			Text:     b.String(),
		},
	}, nil
}
