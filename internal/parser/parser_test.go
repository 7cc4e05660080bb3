package parser

import (
	"testing"
)

func TestParsePost_FullFrontmatter(t *testing.T) {
	input := []byte("---\nid: 7\nslug: hello-go\ntitle: Hello Go\nauthor: Sam\ndate: 2024-09-15\ncategory: Programming\ntags:\n  - go\n  - web\n  - go\nexcerpt: A short intro.\n---\n# Hello Go\nBody text.\n")
	p, err := ParsePost(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 7 {
		t.Errorf("id = %d, want 7", p.ID)
	}
	if p.Slug != "hello-go" || p.Title != "Hello Go" {
		t.Errorf("slug/title = %q/%q", p.Slug, p.Title)
	}
	if p.Date.String() != "2024-09-15" {
		t.Errorf("date = %s", p.Date)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "go" || p.Tags[1] != "web" {
		t.Errorf("tags = %v, want [go web]", p.Tags)
	}
	if p.Body != "# Hello Go\nBody text.\n" {
		t.Errorf("body = %q", p.Body)
	}
}

func TestParsePost_DerivedFields(t *testing.T) {
	input := []byte("---\nid: 2\ndate: 2024-08-20\ncategory: Web Development\n---\n# Lessons From Vayu Vihar!\n\nFirst paragraph\ncontinues here.\n\nSecond paragraph.\n")
	p, err := ParsePost(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Title != "Lessons From Vayu Vihar!" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Slug != "lessons-from-vayu-vihar" {
		t.Errorf("slug = %q", p.Slug)
	}
	if p.Excerpt != "First paragraph continues here." {
		t.Errorf("excerpt = %q", p.Excerpt)
	}
	if p.Tags == nil {
		t.Error("tags should be non-nil")
	}
}

func TestParsePost_MissingFrontmatter(t *testing.T) {
	if _, err := ParsePost([]byte("# Just a heading\nSome text.\n")); err == nil {
		t.Error("expected error without frontmatter")
	}
}

func TestParsePost_UnclosedFrontmatter(t *testing.T) {
	if _, err := ParsePost([]byte("---\nid: 1\n# Body\n")); err == nil {
		t.Error("expected error for unclosed frontmatter")
	}
}

func TestParsePost_RequiredFields(t *testing.T) {
	cases := map[string]string{
		"id":       "---\ndate: 2024-01-01\ncategory: A\n---\nbody\n",
		"date":     "---\nid: 1\ncategory: A\n---\nbody\n",
		"category": "---\nid: 1\ndate: 2024-01-01\n---\nbody\n",
	}
	for field, input := range cases {
		if _, err := ParsePost([]byte(input)); err == nil {
			t.Errorf("missing %s: expected error", field)
		}
	}
}

func TestParsePost_InvalidYAML(t *testing.T) {
	if _, err := ParsePost([]byte("---\n: invalid: yaml: {{{\n---\nBody\n")); err == nil {
		t.Error("expected error on invalid YAML")
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Building DataInsightHub: A Journey": "building-datainsighthub-a-journey",
		"  --Go & SQL--  ":                   "go-sql",
		"":                                   "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
