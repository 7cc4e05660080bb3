package portfolio

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/starford/folio/internal/analytics"
	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/contact"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/testutil"
)

type failingMailer struct{}

func (failingMailer) Send(context.Context, models.ContactMessage) error {
	return apperr.ErrTransportFailure
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	catalog := content.Default()
	db := testutil.TestDB(t)
	logger := testutil.TestLogger()
	if err := index.Sync(db, catalog.Posts(), logger); err != nil {
		t.Fatal(err)
	}
	_, files := testutil.TestDataDir(t)

	titles := make([]string, 0)
	for _, p := range catalog.Projects() {
		titles = append(titles, p.Title)
	}
	ids := make([]int, 0)
	for _, p := range catalog.Posts() {
		ids = append(ids, p.ID)
	}
	gen := analytics.NewGenerator(rand.NewPCG(1, 2), titles, ids)
	store := analytics.NewStore(files, gen, logger, analytics.WithClock(func() time.Time {
		return time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)
	}))
	sink := contact.NewSink(files)
	return NewService(catalog, db, store, contact.NewDispatcher(failingMailer{}, sink, logger), sink)
}

func TestService_Projects(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	all, err := s.Projects(ctx, "All", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 9 {
		t.Errorf("projects = %d, want 9", len(all))
	}
	flask, err := s.Projects(ctx, "", []string{"Flask"})
	if err != nil {
		t.Fatal(err)
	}
	if len(flask) != 2 {
		t.Errorf("flask projects = %d, want 2", len(flask))
	}
	facets := s.ProjectFacets(ctx)
	if len(facets.Categories) != 6 || len(facets.Technologies) == 0 {
		t.Errorf("facets = %+v", facets)
	}
}

func TestService_ProjectsByTechnology(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	got, err := s.ProjectsByTechnology(ctx, "Python")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Errorf("python projects = %d, want 5", len(got))
	}
	for _, bad := range []string{"", " Python", "Py\x00thon"} {
		if _, err := s.ProjectsByTechnology(ctx, bad); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("%q: err = %v, want ErrInvalidArgument", bad, err)
		}
	}
}

func TestService_RejectsMalformedTechnologies(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Projects(context.Background(), "", []string{"Flask", " React"}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestService_PostLookups(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.Post(ctx, 99); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	p, err := s.PostBySlug(ctx, "ml-in-finance-loanguardian")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 3 {
		t.Errorf("id = %d, want 3", p.ID)
	}
	recent := s.RecentPosts(ctx, 0)
	if len(recent) != DefaultRecentPosts {
		t.Errorf("recent = %d, want %d", len(recent), DefaultRecentPosts)
	}
	summaries, err := s.Posts(ctx, "Security")
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 || summaries[0].ID != 4 {
		t.Errorf("security posts = %+v", summaries)
	}
}

func TestService_SearchPosts(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.SearchPosts(ctx, "   ", 0); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("blank query err = %v, want ErrInvalidArgument", err)
	}
	results, err := s.SearchPosts(ctx, "Streamlit", 0)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, r := range results {
		if r.ID == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("post 3 missing from results %+v", results)
	}
}

func TestService_TestimonialSummary(t *testing.T) {
	s := newTestService(t)
	got := s.TestimonialSummary(context.Background())
	if got.Count != 6 || got.AverageRating != 4.8 || got.FiveStar != 5 {
		t.Errorf("summary = %+v", got)
	}
	if _, err := s.Testimonial(context.Background(), 42); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestService_Analytics(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	sum := s.AnalyticsSummary(ctx)
	if sum.Outcome != analytics.OutcomeGenerated {
		t.Errorf("outcome = %q, want generated", sum.Outcome)
	}
	if len(sum.TopPages) != 3 {
		t.Errorf("top pages = %d, want 3", len(sum.TopPages))
	}
	posts := s.PopularPosts(ctx)
	if len(posts) != 4 {
		t.Fatalf("popular posts = %d, want 4", len(posts))
	}
	for _, p := range posts {
		if p.Title == "" {
			t.Errorf("post %s has no title", p.ID)
		}
	}
	act, err := s.RecentActivity(ctx, DefaultActivityWindow)
	if err != nil {
		t.Fatal(err)
	}
	if len(act.Records) != DefaultActivityWindow {
		t.Errorf("records = %d", len(act.Records))
	}
}

func TestService_SubmitContactQueuesOnMailFailure(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	delivery, err := s.SubmitContact(ctx, models.ContactMessage{
		SenderName: "Grace", SenderEmail: "grace@example.com", Body: "Hi",
	})
	if err != nil {
		t.Fatal(err)
	}
	if delivery != contact.DeliveryQueued {
		t.Errorf("delivery = %q, want queued", delivery)
	}
	msgs, err := s.Messages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].SenderName != "Grace" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestService_Ready(t *testing.T) {
	if err := newTestService(t).Ready(context.Background()); err != nil {
		t.Errorf("ready: %v", err)
	}
}
