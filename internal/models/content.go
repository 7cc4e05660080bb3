package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Skill is one entry of the skills chart.
type Skill struct {
	Name        string `yaml:"name" json:"name"`
	Proficiency int    `yaml:"proficiency" json:"proficiency"`
	Category    string `yaml:"category" json:"category"`
}

// Validate validates the skill.
func (s Skill) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Proficiency, validation.Min(0), validation.Max(100)),
		validation.Field(&s.Category, validation.Required),
	)
}

// Project is a portfolio project. Title is unique within the catalog.
type Project struct {
	Title         string   `yaml:"title" json:"title"`
	Description   string   `yaml:"description" json:"description"`
	Technologies  []string `yaml:"technologies" json:"technologies"`
	Category      string   `yaml:"category" json:"category"`
	RepositoryURL string   `yaml:"repository_url" json:"repository_url,omitempty"`
	LiveURL       string   `yaml:"live_url" json:"live_url,omitempty"`
}

// Validate validates the project.
func (p Project) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Description, validation.Required),
		validation.Field(&p.Technologies, validation.Required, validation.Each(validation.Required)),
		validation.Field(&p.Category, validation.Required),
	)
}

// HasTechnology reports whether the project lists tech.
func (p Project) HasTechnology(tech string) bool {
	for _, t := range p.Technologies {
		if t == tech {
			return true
		}
	}
	return false
}

// BlogPost is a Markdown blog article. ID and Slug are unique and stable.
type BlogPost struct {
	ID       int      `json:"id"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Date     Date     `json:"date"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Excerpt  string   `json:"excerpt"`
	Body     string   `json:"body"`
}

// Validate validates the blog post.
func (p BlogPost) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required, validation.Min(1)),
		validation.Field(&p.Slug, validation.Required),
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Category, validation.Required),
		validation.Field(&p.Body, validation.Required),
	)
}

// Testimonial is a recommendation left by a colleague or client.
type Testimonial struct {
	ID         int    `yaml:"id" json:"id"`
	AuthorName string `yaml:"author_name" json:"author_name"`
	Role       string `yaml:"role" json:"role"`
	Company    string `yaml:"company" json:"company"`
	Rating     int    `yaml:"rating" json:"rating"`
	Body       string `yaml:"body" json:"body"`
	Date       Date   `yaml:"date" json:"date"`
}

// Validate validates the testimonial.
func (t Testimonial) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.ID, validation.Required, validation.Min(1)),
		validation.Field(&t.AuthorName, validation.Required),
		validation.Field(&t.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&t.Body, validation.Required),
	)
}
