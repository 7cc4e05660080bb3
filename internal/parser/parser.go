// Package parser turns Markdown blog posts with YAML frontmatter into models.BlogPost.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/folio/internal/models"
)

var slugUnsafeRe = regexp.MustCompile(`[^a-z0-9]+`)

// frontmatter mirrors the YAML header of a post file.
type frontmatter struct {
	ID       int         `yaml:"id"`
	Slug     string      `yaml:"slug"`
	Title    string      `yaml:"title"`
	Author   string      `yaml:"author"`
	Date     models.Date `yaml:"date"`
	Category string      `yaml:"category"`
	Tags     []string    `yaml:"tags"`
	Excerpt  string      `yaml:"excerpt"`
}

// ParsePost parses one post file. id, date and category are required in the
// frontmatter; title, slug and excerpt are derived from the body when absent.
func ParsePost(data []byte) (models.BlogPost, error) {
	header, body, ok := splitFrontmatter(data)
	if !ok {
		return models.BlogPost{}, fmt.Errorf("parser: missing frontmatter")
	}

	var fm frontmatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return models.BlogPost{}, fmt.Errorf("parser: frontmatter: %w", err)
	}
	if fm.ID <= 0 {
		return models.BlogPost{}, fmt.Errorf("parser: frontmatter id is required")
	}
	if fm.Date.IsZero() {
		return models.BlogPost{}, fmt.Errorf("parser: post %d: date is required", fm.ID)
	}
	if strings.TrimSpace(fm.Category) == "" {
		return models.BlogPost{}, fmt.Errorf("parser: post %d: category is required", fm.ID)
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = deriveTitle(body)
	}
	slug := strings.TrimSpace(fm.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	excerpt := strings.TrimSpace(fm.Excerpt)
	if excerpt == "" {
		excerpt = firstParagraph(body)
	}

	return models.BlogPost{
		ID:       fm.ID,
		Slug:     slug,
		Title:    title,
		Author:   strings.TrimSpace(fm.Author),
		Date:     fm.Date,
		Category: strings.TrimSpace(fm.Category),
		Tags:     dedupeTags(fm.Tags),
		Excerpt:  excerpt,
		Body:     body,
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. ok is false when no closed frontmatter block is found.
func splitFrontmatter(data []byte) (header []byte, body string, ok bool) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), false
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data), false
	}

	header = rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body = strings.TrimLeft(string(afterDelim), "\n\r")
	return header, body, true
}

// dedupeTags trims tags and drops empties and duplicates, keeping first occurrence.
func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// deriveTitle returns the first H1 heading of body, or empty string.
func deriveTitle(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// firstParagraph returns the first non-heading paragraph of body, joined onto one line.
func firstParagraph(body string) string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			if len(lines) > 0 {
				return strings.Join(lines, " ")
			}
		case strings.HasPrefix(trimmed, "#"):
			if len(lines) > 0 {
				return strings.Join(lines, " ")
			}
		default:
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, " ")
}

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(slugUnsafeRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
