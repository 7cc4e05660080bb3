package contact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/testutil"
)

type fakeMailer struct {
	err  error
	sent []models.ContactMessage
}

func (f *fakeMailer) Send(_ context.Context, msg models.ContactMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func validMessage() models.ContactMessage {
	return models.ContactMessage{
		SenderName:  "Ada Lovelace",
		SenderEmail: "ada@example.com",
		Subject:     "Collaboration",
		Body:        "Hello there.",
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(validMessage()); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}

	noSubject := validMessage()
	noSubject.Subject = ""
	if err := Validate(noSubject); err != nil {
		t.Errorf("subject should be optional: %v", err)
	}

	cases := map[string]func(*models.ContactMessage){
		"empty name":    func(m *models.ContactMessage) { m.SenderName = "" },
		"empty email":   func(m *models.ContactMessage) { m.SenderEmail = "" },
		"bad email":     func(m *models.ContactMessage) { m.SenderEmail = "ada@example" },
		"spaces email":  func(m *models.ContactMessage) { m.SenderEmail = "ada lovelace@example.com" },
		"empty message": func(m *models.ContactMessage) { m.Body = "" },
	}
	for name, mutate := range cases {
		msg := validMessage()
		mutate(&msg)
		if err := Validate(msg); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("%s: err = %v, want ErrInvalidArgument", name, err)
		}
	}
}

func TestValidEmail(t *testing.T) {
	for addr, want := range map[string]bool{
		"a.b+c@mail.example.org": true,
		"user@host.io":           true,
		"user@host.c":            false,
		"@host.com":              false,
		"user@":                  false,
	} {
		if got := ValidEmail(addr); got != want {
			t.Errorf("ValidEmail(%q) = %v, want %v", addr, got, want)
		}
	}
}

func TestSink_AppendListRoundTrip(t *testing.T) {
	_, files := testutil.TestDataDir(t)
	sink := NewSink(files)

	empty, err := sink.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("never-written log = %#v, want empty slice", empty)
	}

	first := validMessage()
	first.ID = "1"
	first.SubmittedAt = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	second := validMessage()
	second.ID = "2"
	second.Subject = ""
	second.Body = "Line one\nLine two ✓"
	second.SubmittedAt = time.Date(2024, 9, 2, 9, 30, 0, 0, time.UTC)

	for _, m := range []models.ContactMessage{first, second} {
		if err := sink.Append(m); err != nil {
			t.Fatal(err)
		}
	}

	got, err := sink.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("messages = %d, want 2", len(got))
	}
	last := got[len(got)-1]
	if last.ID != second.ID || last.Body != second.Body || last.Subject != "" ||
		last.SenderEmail != second.SenderEmail || !last.SubmittedAt.Equal(second.SubmittedAt) {
		t.Errorf("last = %+v, want %+v", last, second)
	}
	if n, _ := sink.Count(); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestSink_WireFormat(t *testing.T) {
	dir, files := testutil.TestDataDir(t)
	sink := NewSink(files)
	msg := validMessage()
	msg.SubmittedAt = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	if err := sink.Append(msg); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"name"`, `"email"`, `"subject"`, `"message"`, `"timestamp"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("log missing key %s: %s", key, data)
		}
	}
	if !strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		t.Errorf("log is not a JSON array: %s", data)
	}
}

func TestSink_CorruptLogIsNotOverwritten(t *testing.T) {
	dir, files := testutil.TestDataDir(t)
	path := filepath.Join(dir, LogFileName)
	if err := os.WriteFile(path, []byte("[{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	sink := NewSink(files)

	if err := sink.Append(validMessage()); !errors.Is(err, apperr.ErrStorageUnavailable) {
		t.Fatalf("append err = %v, want ErrStorageUnavailable", err)
	}
	if _, err := sink.ListAll(); !errors.Is(err, apperr.ErrStorageUnavailable) {
		t.Errorf("list err = %v, want ErrStorageUnavailable", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[{broken" {
		t.Errorf("corrupt log was modified: %q", data)
	}
}

func TestSink_ConcurrentAppendsKeepEveryMessage(t *testing.T) {
	_, files := testutil.TestDataDir(t)
	sink := NewSink(files)

	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := validMessage()
			m.ID = fmt.Sprint(i)
			if err := sink.Append(m); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if got, _ := sink.Count(); got != n {
		t.Errorf("count = %d, want %d", got, n)
	}
}

func TestDispatcher_EmailSuccess(t *testing.T) {
	_, files := testutil.TestDataDir(t)
	sink := NewSink(files)
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, sink, testutil.TestLogger())

	in := validMessage()
	in.SenderName = "  Ada Lovelace  "
	msg, delivery, err := d.Send(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if delivery != DeliveryEmailed {
		t.Errorf("delivery = %q, want %q", delivery, DeliveryEmailed)
	}
	if msg.ID == "" || msg.SubmittedAt.IsZero() {
		t.Errorf("message not stamped: %+v", msg)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].SenderName != "Ada Lovelace" {
		t.Errorf("sent = %+v", mailer.sent)
	}
	if n, _ := sink.Count(); n != 0 {
		t.Errorf("sink count = %d, want 0", n)
	}
}

func TestDispatcher_FallsBackToSink(t *testing.T) {
	_, files := testutil.TestDataDir(t)
	sink := NewSink(files)
	mailer := &fakeMailer{err: fmt.Errorf("%w: connection refused", apperr.ErrTransportFailure)}
	d := NewDispatcher(mailer, sink, testutil.TestLogger())

	msg, delivery, err := d.Send(context.Background(), validMessage())
	if err != nil {
		t.Fatal(err)
	}
	if delivery != DeliveryQueued {
		t.Errorf("delivery = %q, want %q", delivery, DeliveryQueued)
	}
	got, _ := sink.ListAll()
	if len(got) != 1 || got[0].ID != msg.ID {
		t.Errorf("log = %+v", got)
	}
}

func TestDispatcher_UnconfiguredSMTPQueues(t *testing.T) {
	_, files := testutil.TestDataDir(t)
	sink := NewSink(files)
	d := NewDispatcher(&SMTPMailer{Host: "smtp.example.com", Port: 587}, sink, testutil.TestLogger())

	_, delivery, err := d.Send(context.Background(), validMessage())
	if err != nil {
		t.Fatal(err)
	}
	if delivery != DeliveryQueued {
		t.Errorf("delivery = %q, want %q", delivery, DeliveryQueued)
	}
}

func TestDispatcher_InvalidInputWritesNothing(t *testing.T) {
	_, files := testutil.TestDataDir(t)
	sink := NewSink(files)
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, sink, testutil.TestLogger())

	msg := validMessage()
	msg.SenderEmail = ""
	if _, _, err := d.Send(context.Background(), msg); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("invalid message was emailed")
	}
	if _, err := files.Read(LogFileName); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("invalid message created the log: %v", err)
	}
}

func TestDispatcher_BothPathsFail(t *testing.T) {
	dir, files := testutil.TestDataDir(t)
	if err := os.WriteFile(filepath.Join(dir, LogFileName), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	mailer := &fakeMailer{err: fmt.Errorf("%w: timeout", apperr.ErrTransportFailure)}
	d := NewDispatcher(mailer, NewSink(files), testutil.TestLogger())

	_, _, err := d.Send(context.Background(), validMessage())
	if !errors.Is(err, apperr.ErrTransportFailure) || !errors.Is(err, apperr.ErrStorageUnavailable) {
		t.Errorf("err = %v, want transport and storage failure", err)
	}
}

func TestComposeMessage(t *testing.T) {
	msg := validMessage()
	msg.SenderEmail = "ada@example.com\r\nBcc: victim@example.com"
	msg.SubmittedAt = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	out := string(composeMessage("site@example.com", "owner@example.com", msg))

	head, body, ok := strings.Cut(out, "\r\n\r\n")
	if !ok {
		t.Fatal("no header/body separator")
	}
	if strings.Contains(head, "\r\nBcc:") {
		t.Errorf("header injection not stripped:\n%s", head)
	}
	if !strings.Contains(head, "Subject: Portfolio Contact: Collaboration\r\n") {
		t.Errorf("subject header missing:\n%s", head)
	}
	if !strings.Contains(head, "Reply-To: ada@example.com") {
		t.Errorf("reply-to header missing:\n%s", head)
	}
	if !strings.Contains(body, "Hello there.") {
		t.Errorf("body missing message:\n%s", body)
	}
}

func TestSubject(t *testing.T) {
	msg := validMessage()
	if got := Subject(msg); got != "Portfolio Contact: Collaboration" {
		t.Errorf("subject = %q", got)
	}
	msg.Subject = ""
	if got := Subject(msg); got != "Portfolio Contact from Ada Lovelace" {
		t.Errorf("subject = %q", got)
	}
}

func TestSMTPMailer_NotConfigured(t *testing.T) {
	m := &SMTPMailer{Host: "smtp.example.com", Port: 587, Username: "user"}
	if m.Configured() {
		t.Fatal("mailer without password reported configured")
	}
	err := m.Send(context.Background(), validMessage())
	if !errors.Is(err, apperr.ErrTransportFailure) || !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrTransportFailure and ErrNotConfigured", err)
	}
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_ReportsCount(t *testing.T) {
	dir, files := testutil.TestDataDir(t)
	sink := NewSink(files)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var last atomic.Int64
	last.Store(-1)
	done := make(chan error, 1)
	go func() {
		done <- sink.Watch(ctx, testutil.TestLogger(), func(n int) { last.Store(int64(n)) })
	}()

	time.Sleep(100 * time.Millisecond)

	for range 2 {
		if err := sink.Append(validMessage()); err != nil {
			t.Fatal(err)
		}
	}
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return last.Load() == 2
	}, "watcher did not report count 2")

	_ = os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("watch did not stop after cancel")
	}
}
