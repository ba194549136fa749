package lmsflow_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/lmsflow/lmsflow"
	"github.com/lmsflow/lmsflow/platform"
	"github.com/lmsflow/lmsflow/platform/platformtest"
	"github.com/lmsflow/lmsflow/registry"
	"github.com/lmsflow/lmsflow/store/memory"
)

// capture records every request body a test endpoint receives.
type capture struct {
	mu     sync.Mutex
	bodies []map[string]any
}

func (c *capture) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode delivery: %v", err)
		}
		c.mu.Lock()
		c.bodies = append(c.bodies, body)
		c.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}
}

func (c *capture) all() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]map[string]any(nil), c.bodies...)
}

func newForwarder(t *testing.T, fix *platformtest.Fixture) *lmsflow.Forwarder {
	t.Helper()
	f, err := lmsflow.New(
		lmsflow.WithStore(memory.New()),
		lmsflow.WithLookups(fix.Lookups()),
	)
	if err != nil {
		t.Fatalf("new forwarder: %v", err)
	}
	return f
}

func register(t *testing.T, f *lmsflow.Forwarder, url, eventType string, meta map[string]any) {
	t.Helper()
	if _, err := f.Registry().Create(context.Background(), registry.Input{
		Name:      "test hook",
		URL:       url,
		EventType: eventType,
		Metadata:  meta,
	}); err != nil {
		t.Fatalf("register webhook: %v", err)
	}
}

func TestNew_RequiresStoreAndLookups(t *testing.T) {
	if _, err := lmsflow.New(); err != lmsflow.ErrNoStore {
		t.Errorf("expected ErrNoStore, got %v", err)
	}
	if _, err := lmsflow.New(lmsflow.WithStore(memory.New())); err != lmsflow.ErrNoLookups {
		t.Errorf("expected ErrNoLookups, got %v", err)
	}
}

func TestHandleEvent_UserCreated(t *testing.T) {
	fix := platformtest.New()
	fix.AddUser(&platform.User{ID: 42, Username: "jdoe", Email: "jdoe@example.com"})
	f := newForwarder(t, fix)
	defer f.Close()

	var c capture
	srv := httptest.NewServer(c.handler(t))
	defer srv.Close()
	register(t, f, srv.URL, "user_created", nil)

	err := f.HandleEvent(context.Background(), &platform.Event{
		EventName: `\core\event\user_created`,
		ObjectID:  42,
	})
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}

	bodies := c.all()
	if len(bodies) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(bodies))
	}
	if bodies[0]["event"] != "user_created" {
		t.Errorf("event tag = %v", bodies[0]["event"])
	}
	data, ok := bodies[0]["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data: %v", bodies[0])
	}
	if data["id"] != float64(42) || data["username"] != "jdoe" {
		t.Errorf("data = %v", data)
	}
}

func TestHandleEvent_UnknownEventIgnored(t *testing.T) {
	f := newForwarder(t, platformtest.New())
	defer f.Close()

	err := f.HandleEvent(context.Background(), &platform.Event{
		EventName: `\core\event\something_else`,
	})
	if err != nil {
		t.Fatalf("unknown event should be a no-op, got %v", err)
	}
}

func TestHandleEvent_DeletedSubjectSkipped(t *testing.T) {
	fix := platformtest.New()
	fix.AddUser(&platform.User{ID: 42, Username: "jdoe"})
	fix.MarkDeleted(42)
	f := newForwarder(t, fix)
	defer f.Close()

	var c capture
	srv := httptest.NewServer(c.handler(t))
	defer srv.Close()
	register(t, f, srv.URL, "user_updated", nil)

	err := f.HandleEvent(context.Background(), &platform.Event{
		EventName: `\core\event\user_updated`,
		ObjectID:  42,
	})
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(c.all()) != 0 {
		t.Errorf("expected no deliveries for deleted subject")
	}
}

func TestHandleEvent_LoginFailedSkipsValidityCheck(t *testing.T) {
	// No user 999 exists; login failures still deliver.
	f := newForwarder(t, platformtest.New())
	defer f.Close()

	var c capture
	srv := httptest.NewServer(c.handler(t))
	defer srv.Close()
	register(t, f, srv.URL, "user_login_failed", nil)

	err := f.HandleEvent(context.Background(), &platform.Event{
		EventName: `\core\event\user_login_failed`,
		ObjectID:  999,
		Other:     map[string]any{"username": "ghost"},
	})
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}

	bodies := c.all()
	if len(bodies) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(bodies))
	}
	if bodies[0]["event"] != "user_login_failed" {
		t.Errorf("event tag = %v", bodies[0]["event"])
	}
	if _, hasData := bodies[0]["data"]; hasData {
		t.Errorf("login failures carry no enrichment, got %v", bodies[0]["data"])
	}
}

func TestHandleEvent_CourseFilter(t *testing.T) {
	fix := platformtest.New()
	fix.AddUser(&platform.User{ID: 42, Username: "jdoe"})
	f := newForwarder(t, fix)
	defer f.Close()

	var c capture
	srv := httptest.NewServer(c.handler(t))
	defer srv.Close()
	register(t, f, srv.URL, "user_graded", map[string]any{"courseid": 7})

	// Matching course delivers.
	err := f.HandleEvent(context.Background(), &platform.Event{
		EventName:     `\core\event\user_graded`,
		RelatedUserID: 42,
		CourseID:      7,
		Other:         map[string]any{"finalgrade": 91.5},
	})
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}
	// Other course is filtered out.
	err = f.HandleEvent(context.Background(), &platform.Event{
		EventName:     `\core\event\user_graded`,
		RelatedUserID: 42,
		CourseID:      8,
		Other:         map[string]any{"finalgrade": 55.0},
	})
	if err != nil {
		t.Fatalf("handle event: %v", err)
	}

	bodies := c.all()
	if len(bodies) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(bodies))
	}
	data := bodies[0]["data"].(map[string]any)
	if data["grade"] != 91.5 {
		t.Errorf("grade = %v", data["grade"])
	}
}

func TestHandleEvent_GoneDisablesWebhook(t *testing.T) {
	fix := platformtest.New()
	fix.AddUser(&platform.User{ID: 42, Username: "jdoe"})
	f := newForwarder(t, fix)
	defer f.Close()

	var hits int
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()
	register(t, f, srv.URL, "user_created", nil)

	ev := &platform.Event{EventName: `\core\event\user_created`, ObjectID: 42}
	if err := f.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	// Second event finds no enabled subscriptions.
	if err := f.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if hits != 1 {
		t.Errorf("expected endpoint hit once before disable, got %d", hits)
	}
}
