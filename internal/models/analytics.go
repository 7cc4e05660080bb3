package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Page names a tracked portfolio page.
type Page string

// Tracked pages.
const (
	PageHome         Page = "home"
	PageAbout        Page = "about"
	PageSkills       Page = "skills"
	PageProjects     Page = "projects"
	PageBlog         Page = "blog"
	PageTestimonials Page = "testimonials"
	PageContact      Page = "contact"
)

// Pages lists every tracked page in navigation order.
var Pages = []Page{
	PageHome, PageAbout, PageSkills, PageProjects, PageBlog, PageTestimonials, PageContact,
}

func knownPage(p Page) bool {
	for _, known := range Pages {
		if p == known {
			return true
		}
	}
	return false
}

// DailyPageViews holds one day of per-page view counts.
//
// On the wire it is a flat object: {"date": "2024-09-01", "home": 12, "about": 7, ...}.
type DailyPageViews struct {
	Date   Date
	Counts map[Page]int
}

// Total returns the sum of all page counts for the day.
func (d DailyPageViews) Total() int {
	total := 0
	for _, n := range d.Counts {
		total += n
	}
	return total
}

// Clone returns a deep copy.
func (d DailyPageViews) Clone() DailyPageViews {
	counts := make(map[Page]int, len(d.Counts))
	for p, n := range d.Counts {
		counts[p] = n
	}
	return DailyPageViews{Date: d.Date, Counts: counts}
}

// MarshalJSON implements json.Marshaler.
func (d DailyPageViews) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Counts)+1)
	out["date"] = d.Date.String()
	for p, n := range d.Counts {
		out[string(p)] = n
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. Unknown pages and negative counts are rejected.
func (d *DailyPageViews) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dateRaw, ok := raw["date"]
	if !ok {
		return fmt.Errorf("page views: missing date")
	}
	var date Date
	if err := json.Unmarshal(dateRaw, &date); err != nil {
		return fmt.Errorf("page views: %w", err)
	}
	counts := make(map[Page]int, len(raw)-1)
	for key, val := range raw {
		if key == "date" {
			continue
		}
		page := Page(key)
		if !knownPage(page) {
			return fmt.Errorf("page views %s: unknown page %q", date, key)
		}
		var n int
		if err := json.Unmarshal(val, &n); err != nil {
			return fmt.Errorf("page views %s: page %q: %w", date, key, err)
		}
		if n < 0 {
			return fmt.Errorf("page views %s: page %q: negative count %d", date, key, n)
		}
		counts[page] = n
	}
	d.Date = date
	d.Counts = counts
	return nil
}

// AnalyticsSnapshot is the full synthetic analytics document.
type AnalyticsSnapshot struct {
	PageViews          []DailyPageViews `json:"page_views"`
	ProjectViews       map[string]int   `json:"project_views"`
	BlogViews          map[string]int   `json:"blog_views"`
	ContactSubmissions int              `json:"contact_submissions"`
	ResumeDownloads    int              `json:"resume_downloads"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// Validate checks that page views are non-empty, strictly ascending and contiguous,
// and that no counter is negative.
func (s *AnalyticsSnapshot) Validate() error {
	if len(s.PageViews) == 0 {
		return fmt.Errorf("snapshot: no page views")
	}
	for i := 1; i < len(s.PageViews); i++ {
		prev, cur := s.PageViews[i-1].Date, s.PageViews[i].Date
		if !cur.Equal(prev.AddDays(1).Time) {
			return fmt.Errorf("snapshot: page views not contiguous between %s and %s", prev, cur)
		}
	}
	for title, n := range s.ProjectViews {
		if n < 0 {
			return fmt.Errorf("snapshot: negative views for project %q", title)
		}
	}
	for id, n := range s.BlogViews {
		if n < 0 {
			return fmt.Errorf("snapshot: negative views for post %q", id)
		}
	}
	if s.ContactSubmissions < 0 || s.ResumeDownloads < 0 {
		return fmt.Errorf("snapshot: negative engagement counter")
	}
	return nil
}
