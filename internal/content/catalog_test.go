package content

import (
	"testing"
	"testing/fstest"
)

func TestDefaultCatalogCounts(t *testing.T) {
	c := Default()
	if n := len(c.Skills()); n != 18 {
		t.Errorf("skills = %d, want 18", n)
	}
	if n := len(c.Projects()); n != 9 {
		t.Errorf("projects = %d, want 9", n)
	}
	if n := len(c.Posts()); n != 4 {
		t.Errorf("posts = %d, want 4", n)
	}
	if n := c.TestimonialCount(); n != 6 {
		t.Errorf("testimonials = %d, want 6", n)
	}
}

func TestSkillsByCategory_FirstAppearanceOrder(t *testing.T) {
	groups := Default().SkillsByCategory()
	want := []string{"Data Tools", "Programming", "Web Development", "AI/ML"}
	if len(groups) != len(want) {
		t.Fatalf("groups = %d, want %d", len(groups), len(want))
	}
	for i, g := range groups {
		if g.Category != want[i] {
			t.Errorf("group %d = %q, want %q", i, g.Category, want[i])
		}
	}
	if len(groups[2].Skills) != 6 {
		t.Errorf("web development skills = %d, want 6", len(groups[2].Skills))
	}
}

func TestFeaturedProjects(t *testing.T) {
	got := Default().FeaturedProjects()
	want := []string{"DataInsightHub", "Vayu Vihar", "LoanGuardian-AI", "CyberScan-Pro"}
	if len(got) != len(want) {
		t.Fatalf("featured = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Title != want[i] {
			t.Errorf("featured[%d] = %q, want %q", i, got[i].Title, want[i])
		}
	}
}

func TestProjectsByTechnology(t *testing.T) {
	got := Default().ProjectsByTechnology("Flask")
	if len(got) != 2 || got[0].Title != "FlaskBlog" || got[1].Title != "Travel Manager" {
		t.Errorf("flask projects = %+v", got)
	}
	if none := Default().ProjectsByTechnology("Haskell"); len(none) != 0 {
		t.Errorf("expected no Haskell projects, got %d", len(none))
	}
}

func TestProjectsAreCopies(t *testing.T) {
	c := Default()
	ps := c.Projects()
	ps[0].Technologies[0] = "mutated"
	ps[0].Title = "mutated"
	again := c.Projects()
	if again[0].Title == "mutated" || again[0].Technologies[0] == "mutated" {
		t.Error("catalog data was mutated through a returned slice")
	}
}

func TestPostLookups(t *testing.T) {
	c := Default()
	p, ok := c.PostByID(3)
	if !ok {
		t.Fatal("post 3 not found")
	}
	if p.Category != "AI/ML" {
		t.Errorf("category = %q", p.Category)
	}
	if _, ok := c.PostByID(99); ok {
		t.Error("post 99 should not exist")
	}
	bySlug, ok := c.PostBySlug("building-datainsighthub")
	if !ok || bySlug.ID != 1 {
		t.Errorf("slug lookup = %+v, %v", bySlug, ok)
	}
	if _, ok := c.PostBySlug("nope"); ok {
		t.Error("unknown slug should not match")
	}
}

func TestRecentPosts(t *testing.T) {
	got := Default().RecentPosts(3)
	if len(got) != 3 {
		t.Fatalf("recent = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date.Time) {
			t.Errorf("posts not newest first: %s before %s", got[i-1].Date, got[i].Date)
		}
	}
	if got[0].ID != 1 {
		t.Errorf("newest post = %d, want 1", got[0].ID)
	}
}

func TestFeaturedTestimonials(t *testing.T) {
	got := Default().FeaturedTestimonials(3)
	if len(got) != 3 {
		t.Fatalf("featured = %d, want 3", len(got))
	}
	for _, tm := range got {
		if tm.Rating != 5 {
			t.Errorf("testimonial %d rating = %d, want 5", tm.ID, tm.Rating)
		}
	}
	if _, ok := Default().TestimonialByID(5); !ok {
		t.Error("testimonial 5 not found")
	}
}

func TestLoad_RejectsInvalidData(t *testing.T) {
	base := fstest.MapFS{
		"skills.yaml":       {Data: []byte("- {name: Go, proficiency: 80, category: Programming}\n")},
		"projects.yaml":     {Data: []byte("- {title: A, description: d, technologies: [Go], category: Tools}\n")},
		"testimonials.yaml": {Data: []byte("- {id: 1, author_name: X, rating: 5, body: ok, date: 2024-01-01}\n")},
		"posts/01.md":       {Data: []byte("---\nid: 1\ndate: 2024-01-01\ncategory: Go\n---\n# Title\n\nBody.\n")},
	}
	if _, err := Load(base); err != nil {
		t.Fatalf("valid data rejected: %v", err)
	}

	cases := map[string]fstest.MapFS{
		"proficiency": {"skills.yaml": {Data: []byte("- {name: Go, proficiency: 120, category: P}\n")}},
		"rating":      {"testimonials.yaml": {Data: []byte("- {id: 1, author_name: X, rating: 7, body: ok, date: 2024-01-01}\n")}},
		"dup title":   {"projects.yaml": {Data: []byte("- {title: A, description: d, technologies: [Go], category: T}\n- {title: A, description: d, technologies: [Go], category: T}\n")}},
		"dup post":    {"posts/02.md": {Data: []byte("---\nid: 1\nslug: other\ndate: 2024-01-02\ncategory: Go\n---\n# Other\n\nBody.\n")}},
	}
	for name, override := range cases {
		fsys := fstest.MapFS{}
		for k, v := range base {
			fsys[k] = v
		}
		for k, v := range override {
			fsys[k] = v
		}
		if _, err := Load(fsys); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
