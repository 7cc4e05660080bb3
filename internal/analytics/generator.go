// Package analytics generates, persists and aggregates the synthetic analytics snapshot.
package analytics

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/starford/folio/internal/models"
)

// HistoryDays is the number of days before today covered by a generated snapshot.
const HistoryDays = 30

type window struct{ lo, hi int }

// Per-page offsets applied to the day's base count.
var pageWindows = map[models.Page]window{
	models.PageHome:         {-5, 5},
	models.PageAbout:        {-10, 0},
	models.PageSkills:       {-15, -5},
	models.PageProjects:     {-8, 3},
	models.PageBlog:         {-12, -2},
	models.PageTestimonials: {-15, -8},
	models.PageContact:      {-10, -3},
}

var (
	weekdayBase = window{10, 30}
	weekendBase = window{5, 15}

	projectRanges = map[string]window{
		"DataInsightHub":      {150, 250},
		"Vayu Vihar":          {120, 200},
		"LoanGuardian-AI":     {100, 180},
		"CyberScan-Pro":       {90, 150},
		"DataInsight Hub Pro": {80, 140},
		"FlaskBlog":           {70, 120},
		"QR Code Generator":   {50, 100},
		"Weather App":         {60, 110},
		"Travel Manager":      {55, 95},
	}
	defaultProjectRange = window{50, 100}

	// Indexed by post position; later posts fall back to the last range.
	postRanges = []window{{80, 150}, {70, 130}, {60, 120}, {50, 100}}

	contactRange = window{15, 35}
	resumeRange  = window{40, 80}
)

// Generator draws synthetic analytics from a pseudo-random source.
type Generator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	projects []string
	posts    []int
}

// NewGenerator creates a generator for the given project titles and blog post ids.
// A nil src uses a randomly seeded PCG source.
func NewGenerator(src rand.Source, projectTitles []string, postIDs []int) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{
		rng:      rand.New(src),
		projects: append([]string(nil), projectTitles...),
		posts:    append([]int(nil), postIDs...),
	}
}

// Generate builds a snapshot covering today-HistoryDays through today, where today is now's date.
func (g *Generator) Generate(now time.Time) *models.AnalyticsSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	today := models.NewDate(now)
	snap := &models.AnalyticsSnapshot{
		PageViews:    make([]models.DailyPageViews, 0, HistoryDays+1),
		ProjectViews: make(map[string]int, len(g.projects)),
		BlogViews:    make(map[string]int, len(g.posts)),
		GeneratedAt:  now.UTC(),
	}

	for i := HistoryDays; i >= 0; i-- {
		day := today.AddDays(-i)
		baseRange := weekdayBase
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			baseRange = weekendBase
		}
		base := g.draw(baseRange)
		counts := make(map[models.Page]int, len(models.Pages))
		for _, page := range models.Pages {
			w := pageWindows[page]
			counts[page] = max(0, g.draw(window{base + w.lo, base + w.hi}))
		}
		snap.PageViews = append(snap.PageViews, models.DailyPageViews{Date: day, Counts: counts})
	}

	for _, title := range g.projects {
		r, ok := projectRanges[title]
		if !ok {
			r = defaultProjectRange
		}
		snap.ProjectViews[title] = g.draw(r)
	}
	for i, id := range g.posts {
		r := postRanges[min(i, len(postRanges)-1)]
		snap.BlogViews[strconv.Itoa(id)] = g.draw(r)
	}

	snap.ContactSubmissions = g.draw(contactRange)
	snap.ResumeDownloads = g.draw(resumeRange)
	return snap
}

// draw returns a uniform integer in [w.lo, w.hi].
func (g *Generator) draw(w window) int {
	return w.lo + g.rng.IntN(w.hi-w.lo+1)
}
