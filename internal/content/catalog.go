// Package content provides the static portfolio datasets: skills, projects,
// blog posts and testimonials. Data is embedded at build time and decoded once.
package content

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/parser"
)

//go:embed data
var dataFS embed.FS

// featuredProjects are highlighted on the landing page, in display order.
var featuredProjects = []string{"DataInsightHub", "Vayu Vihar", "LoanGuardian-AI", "CyberScan-Pro"}

// Catalog holds the immutable content datasets. Accessors return copies.
type Catalog struct {
	skills       []models.Skill
	projects     []models.Project
	posts        []models.BlogPost
	testimonials []models.Testimonial
}

// SkillGroup is a category with its skills, in dataset order.
type SkillGroup struct {
	Category string         `json:"category"`
	Skills   []models.Skill `json:"skills"`
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		panic(fmt.Sprintf("content: embedded data: %v", err))
	}
	c, err := Load(sub)
	if err != nil {
		panic(fmt.Sprintf("content: embedded data: %v", err))
	}
	return c
})

// Default returns the catalog built from the embedded datasets.
func Default() *Catalog {
	return defaultCatalog()
}

// Load reads skills.yaml, projects.yaml, testimonials.yaml and posts/*.md from fsys
// and validates them.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}
	if err := decodeYAML(fsys, "skills.yaml", &c.skills); err != nil {
		return nil, err
	}
	if err := decodeYAML(fsys, "projects.yaml", &c.projects); err != nil {
		return nil, err
	}
	if err := decodeYAML(fsys, "testimonials.yaml", &c.testimonials); err != nil {
		return nil, err
	}
	posts, err := loadPosts(fsys)
	if err != nil {
		return nil, err
	}
	c.posts = posts

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeYAML(fsys fs.FS, name string, target any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("content: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("content: parse %s: %w", name, err)
	}
	return nil
}

func loadPosts(fsys fs.FS) ([]models.BlogPost, error) {
	names, err := fs.Glob(fsys, "posts/*.md")
	if err != nil {
		return nil, fmt.Errorf("content: list posts: %w", err)
	}
	slices.Sort(names)

	posts := make([]models.BlogPost, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("content: read %s: %w", name, err)
		}
		post, err := parser.ParsePost(data)
		if err != nil {
			return nil, fmt.Errorf("content: %s: %w", path.Base(name), err)
		}
		posts = append(posts, post)
	}
	slices.SortStableFunc(posts, func(a, b models.BlogPost) int { return a.ID - b.ID })
	return posts, nil
}

func (c *Catalog) validate() error {
	for i, s := range c.skills {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("content: skill %d: %w", i, err)
		}
	}

	titles := make(map[string]struct{}, len(c.projects))
	for _, p := range c.projects {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("content: project %q: %w", p.Title, err)
		}
		if _, dup := titles[p.Title]; dup {
			return fmt.Errorf("content: duplicate project title %q", p.Title)
		}
		titles[p.Title] = struct{}{}
	}

	ids := make(map[int]struct{}, len(c.posts))
	slugs := make(map[string]struct{}, len(c.posts))
	for _, p := range c.posts {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("content: post %d: %w", p.ID, err)
		}
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("content: duplicate post id %d", p.ID)
		}
		if _, dup := slugs[p.Slug]; dup {
			return fmt.Errorf("content: duplicate post slug %q", p.Slug)
		}
		ids[p.ID] = struct{}{}
		slugs[p.Slug] = struct{}{}
	}

	tids := make(map[int]struct{}, len(c.testimonials))
	for _, t := range c.testimonials {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("content: testimonial %d: %w", t.ID, err)
		}
		if _, dup := tids[t.ID]; dup {
			return fmt.Errorf("content: duplicate testimonial id %d", t.ID)
		}
		tids[t.ID] = struct{}{}
	}
	return nil
}

// Skills returns all skills in dataset order.
func (c *Catalog) Skills() []models.Skill {
	return slices.Clone(c.skills)
}

// SkillsByCategory groups skills by category in order of first appearance.
func (c *Catalog) SkillsByCategory() []SkillGroup {
	var groups []SkillGroup
	index := make(map[string]int)
	for _, s := range c.skills {
		i, ok := index[s.Category]
		if !ok {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, SkillGroup{Category: s.Category})
		}
		groups[i].Skills = append(groups[i].Skills, s)
	}
	return groups
}

// Projects returns all projects in dataset order.
func (c *Catalog) Projects() []models.Project {
	out := make([]models.Project, len(c.projects))
	for i, p := range c.projects {
		out[i] = cloneProject(p)
	}
	return out
}

// FeaturedProjects returns the highlighted projects in display order.
func (c *Catalog) FeaturedProjects() []models.Project {
	out := make([]models.Project, 0, len(featuredProjects))
	for _, title := range featuredProjects {
		for _, p := range c.projects {
			if p.Title == title {
				out = append(out, cloneProject(p))
				break
			}
		}
	}
	return out
}

// ProjectsByTechnology returns projects listing tech, in dataset order.
func (c *Catalog) ProjectsByTechnology(tech string) []models.Project {
	out := []models.Project{}
	for _, p := range c.projects {
		if p.HasTechnology(tech) {
			out = append(out, cloneProject(p))
		}
	}
	return out
}

// Posts returns all blog posts ordered by id.
func (c *Catalog) Posts() []models.BlogPost {
	out := make([]models.BlogPost, len(c.posts))
	for i, p := range c.posts {
		out[i] = clonePost(p)
	}
	return out
}

// PostByID looks up a post by id.
func (c *Catalog) PostByID(id int) (models.BlogPost, bool) {
	for _, p := range c.posts {
		if p.ID == id {
			return clonePost(p), true
		}
	}
	return models.BlogPost{}, false
}

// PostBySlug looks up a post by slug (case-insensitive).
func (c *Catalog) PostBySlug(slug string) (models.BlogPost, bool) {
	for _, p := range c.posts {
		if strings.EqualFold(p.Slug, slug) {
			return clonePost(p), true
		}
	}
	return models.BlogPost{}, false
}

// RecentPosts returns up to limit posts, newest first. limit <= 0 returns all.
func (c *Catalog) RecentPosts(limit int) []models.BlogPost {
	posts := c.Posts()
	slices.SortStableFunc(posts, func(a, b models.BlogPost) int {
		return b.Date.Compare(a.Date.Time)
	})
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	return posts
}

// Testimonials returns all testimonials in dataset order.
func (c *Catalog) Testimonials() []models.Testimonial {
	return slices.Clone(c.testimonials)
}

// TestimonialByID looks up a testimonial by id.
func (c *Catalog) TestimonialByID(id int) (models.Testimonial, bool) {
	for _, t := range c.testimonials {
		if t.ID == id {
			return t, true
		}
	}
	return models.Testimonial{}, false
}

// FeaturedTestimonials returns up to limit five-star testimonials in dataset order.
func (c *Catalog) FeaturedTestimonials(limit int) []models.Testimonial {
	out := []models.Testimonial{}
	for _, t := range c.testimonials {
		if limit > 0 && len(out) == limit {
			break
		}
		if t.Rating == 5 {
			out = append(out, t)
		}
	}
	return out
}

// TestimonialCount returns the number of testimonials.
func (c *Catalog) TestimonialCount() int {
	return len(c.testimonials)
}

func cloneProject(p models.Project) models.Project {
	p.Technologies = slices.Clone(p.Technologies)
	return p
}

func clonePost(p models.BlogPost) models.BlogPost {
	p.Tags = slices.Clone(p.Tags)
	return p
}
