// Package filter derives categories, technology sets, filtered subsets, rankings and
// averages from portfolio content. Every function is pure: inputs are never mutated
// and the package holds no state.
package filter

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// All is the category selection that disables category filtering.
const All = "All"

const maxLabelLen = 64

// Ranked is one entry of a count ranking.
type Ranked struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

var labelRules = []validation.Rule{
	validation.RuneLength(0, maxLabelLen),
	validation.By(wellFormedLabel),
}

func wellFormedLabel(value any) error {
	s, _ := value.(string)
	if !utf8.ValidString(s) {
		return errors.New("must be valid UTF-8")
	}
	if strings.TrimSpace(s) != s {
		return errors.New("must not have surrounding whitespace")
	}
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return errors.New("must not contain control characters")
	}
	return nil
}

// ValidateCategory checks a category selection. "" and All are valid and mean "no filter".
func ValidateCategory(category string) error {
	if err := validation.Validate(category, labelRules...); err != nil {
		return fmt.Errorf("%w: category: %w", apperr.ErrInvalidArgument, err)
	}
	return nil
}

// ValidateTechnologies checks a technology selection. Entries must be non-empty.
func ValidateTechnologies(technologies []string) error {
	err := validation.Validate(technologies,
		validation.Each(append([]validation.Rule{validation.Required}, labelRules...)...),
	)
	if err != nil {
		return fmt.Errorf("%w: technologies: %w", apperr.ErrInvalidArgument, err)
	}
	return nil
}

// Categories returns the distinct non-empty categories of items in lexicographic order.
func Categories[T any](items []T, categoryOf func(T) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range items {
		c := categoryOf(item)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// ProjectCategory returns a project's category.
func ProjectCategory(p models.Project) string { return p.Category }

// PostCategory returns a blog post's category.
func PostCategory(p models.BlogPost) string { return p.Category }

// SkillCategory returns a skill's category.
func SkillCategory(s models.Skill) string { return s.Category }

// Technologies returns the distinct technologies across projects in lexicographic order.
func Technologies(projects []models.Project) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range projects {
		for _, t := range p.Technologies {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return out
}

// Projects returns the projects matching category (unless "" or All) and sharing at
// least one technology with technologies (unless empty). Relative order is preserved.
func Projects(projects []models.Project, category string, technologies []string) ([]models.Project, error) {
	if err := ValidateCategory(category); err != nil {
		return nil, err
	}
	if err := ValidateTechnologies(technologies); err != nil {
		return nil, err
	}

	out := []models.Project{}
	for _, p := range projects {
		if !categoryMatches(category, p.Category) {
			continue
		}
		if len(technologies) > 0 && !slices.ContainsFunc(technologies, p.HasTechnology) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// BlogPosts returns the posts in category (unless "" or All), preserving order.
func BlogPosts(posts []models.BlogPost, category string) ([]models.BlogPost, error) {
	return byCategory(posts, category, PostCategory)
}

// Skills returns the skills in category (unless "" or All), preserving order.
func Skills(skills []models.Skill, category string) ([]models.Skill, error) {
	return byCategory(skills, category, SkillCategory)
}

func byCategory[T any](items []T, category string, categoryOf func(T) string) ([]T, error) {
	if err := ValidateCategory(category); err != nil {
		return nil, err
	}
	out := []T{}
	for _, item := range items {
		if categoryMatches(category, categoryOf(item)) {
			out = append(out, item)
		}
	}
	return out, nil
}

func categoryMatches(selected, actual string) bool {
	return selected == "" || selected == All || selected == actual
}

// AverageRating returns the mean rating rounded to one decimal, or 0 for no testimonials.
func AverageRating(testimonials []models.Testimonial) float64 {
	if len(testimonials) == 0 {
		return 0
	}
	total := 0
	for _, t := range testimonials {
		total += t.Rating
	}
	avg := float64(total) / float64(len(testimonials))
	return math.Round(avg*10) / 10
}

// RankByCount sorts counts by count descending; equal counts are ordered by key ascending.
func RankByCount(counts map[string]int) []Ranked {
	out := make([]Ranked, 0, len(counts))
	for k, n := range counts {
		out = append(out, Ranked{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b Ranked) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}
