package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/filter"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/storage"
)

// FileName is the snapshot file inside the data directory.
const FileName = "analytics.json"

// Outcome records how the store reached its ready state.
type Outcome string

const (
	// OutcomePending means no read has happened yet.
	OutcomePending Outcome = ""
	// OutcomeLoaded means an existing snapshot was read from disk.
	OutcomeLoaded Outcome = "loaded"
	// OutcomeGenerated means no snapshot existed; a new one was generated and persisted.
	OutcomeGenerated Outcome = "generated"
	// OutcomeRegenerated means the snapshot on disk was unusable; a fresh one lives in memory only.
	OutcomeRegenerated Outcome = "regenerated"
)

// Engagement is the dashboard headline figures.
type Engagement struct {
	ContactSubmissions int `json:"contact_submissions"`
	ResumeDownloads    int `json:"resume_downloads"`
	TotalViews         int `json:"total_views"`
}

// Activity is a trailing window of daily page views with their total.
type Activity struct {
	Records []models.DailyPageViews `json:"records"`
	Total   int                     `json:"total"`
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the time source used when generating a snapshot.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// Store serves read-only aggregations over a lazily initialized snapshot.
type Store struct {
	files  storage.Provider
	gen    *Generator
	logger *slog.Logger
	now    func() time.Time

	once    sync.Once
	snap    *models.AnalyticsSnapshot
	outcome Outcome
}

// NewStore creates a store backed by files. Nothing is read until the first query.
func NewStore(files storage.Provider, gen *Generator, logger *slog.Logger, opts ...StoreOption) *Store {
	s := &Store{files: files, gen: gen, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads and validates the snapshot file. A missing file yields apperr.ErrNotFound;
// an unreadable, malformed or inconsistent file yields apperr.ErrStorageUnavailable.
func (s *Store) Load() (*models.AnalyticsSnapshot, error) {
	data, err := s.files.Read(FileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("analytics: %s: %w", FileName, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: analytics: read: %w", apperr.ErrStorageUnavailable, err)
	}
	var snap models.AnalyticsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: analytics: decode: %w", apperr.ErrStorageUnavailable, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("%w: analytics: %w", apperr.ErrStorageUnavailable, err)
	}
	return &snap, nil
}

func (s *Store) persist(snap *models.AnalyticsSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("analytics: encode: %w", err)
	}
	if err := s.files.Write(FileName, data); err != nil {
		return fmt.Errorf("%w: analytics: write: %w", apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// ensureInitialized moves the store to its ready state exactly once.
func (s *Store) ensureInitialized() {
	s.once.Do(func() {
		snap, err := s.Load()
		switch {
		case err == nil:
			s.snap, s.outcome = snap, OutcomeLoaded
		case errors.Is(err, apperr.ErrNotFound):
			s.snap, s.outcome = s.gen.Generate(s.now()), OutcomeGenerated
			if err := s.persist(s.snap); err != nil {
				s.logger.Warn("analytics snapshot not persisted", slog.String("error", err.Error()))
			}
		default:
			s.logger.Error("analytics snapshot unusable, regenerating in memory",
				slog.String("file", FileName), slog.String("error", err.Error()))
			s.snap, s.outcome = s.gen.Generate(s.now()), OutcomeRegenerated
		}
		s.logger.Info("analytics ready",
			slog.String("outcome", string(s.outcome)),
			slog.Int("days", len(s.snap.PageViews)))
	})
}

// Outcome reports how the snapshot was obtained, initializing the store if needed.
func (s *Store) Outcome() Outcome {
	s.ensureInitialized()
	return s.outcome
}

// GeneratedAt returns when the active snapshot was generated.
func (s *Store) GeneratedAt() time.Time {
	s.ensureInitialized()
	return s.snap.GeneratedAt
}

// TotalViews sums every page count across every day.
func (s *Store) TotalViews() int {
	s.ensureInitialized()
	return sumViews(s.snap.PageViews)
}

// Trend returns a copy of the daily page views, oldest first.
func (s *Store) Trend() []models.DailyPageViews {
	s.ensureInitialized()
	return cloneDays(s.snap.PageViews)
}

// PopularPages ranks pages by their views summed across all days.
func (s *Store) PopularPages() []filter.Ranked {
	s.ensureInitialized()
	totals := make(map[string]int, len(models.Pages))
	for _, p := range models.Pages {
		totals[string(p)] = 0
	}
	for _, day := range s.snap.PageViews {
		for p, n := range day.Counts {
			totals[string(p)] += n
		}
	}
	return filter.RankByCount(totals)
}

// PopularProjects ranks projects by views.
func (s *Store) PopularProjects() []filter.Ranked {
	s.ensureInitialized()
	return filter.RankByCount(s.snap.ProjectViews)
}

// PopularBlogPosts ranks blog posts, keyed by post id, by views.
func (s *Store) PopularBlogPosts() []filter.Ranked {
	s.ensureInitialized()
	return filter.RankByCount(s.snap.BlogViews)
}

// EngagementSummary returns contact submissions, resume downloads and total views.
func (s *Store) EngagementSummary() Engagement {
	s.ensureInitialized()
	return Engagement{
		ContactSubmissions: s.snap.ContactSubmissions,
		ResumeDownloads:    s.snap.ResumeDownloads,
		TotalViews:         sumViews(s.snap.PageViews),
	}
}

// RecentActivity returns the trailing windowDays records and their total. A window
// longer than the history returns every record.
func (s *Store) RecentActivity(windowDays int) (Activity, error) {
	if windowDays < 1 {
		return Activity{}, fmt.Errorf("%w: window must be at least 1 day, got %d", apperr.ErrInvalidArgument, windowDays)
	}
	s.ensureInitialized()
	days := s.snap.PageViews
	if windowDays < len(days) {
		days = days[len(days)-windowDays:]
	}
	records := cloneDays(days)
	return Activity{Records: records, Total: sumViews(records)}, nil
}

func sumViews(days []models.DailyPageViews) int {
	total := 0
	for _, d := range days {
		total += d.Total()
	}
	return total
}

func cloneDays(days []models.DailyPageViews) []models.DailyPageViews {
	out := make([]models.DailyPageViews, len(days))
	for i, d := range days {
		out[i] = d.Clone()
	}
	return out
}
