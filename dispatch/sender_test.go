package dispatch_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/lmsflow/lmsflow/dispatch"
	"github.com/lmsflow/lmsflow/eventtype"
	"github.com/lmsflow/lmsflow/id"
	"github.com/lmsflow/lmsflow/registry"
	"github.com/lmsflow/lmsflow/signature"
	"github.com/lmsflow/lmsflow/store/memory"
)

func testSub(url string) *registry.Subscription {
	return &registry.Subscription{
		ID:        id.NewWebhookID(),
		Name:      "test",
		URL:       url,
		EventType: eventtype.UserCreated,
		Enabled:   true,
	}
}

func newSender(disabler dispatch.Disabler) *dispatch.Sender {
	return dispatch.NewSender(time.Second, 2*time.Second, disabler, nil)
}

func TestSend_Success(t *testing.T) {
	var gotReq *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	}))
	defer srv.Close()

	sub := testSub(srv.URL)
	res := newSender(memory.New()).Send(context.Background(), sub, []byte(`{"event":"user_created"}`))

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, error = %q", res.StatusCode, res.Error)
	}
	if res.Response != "ok" {
		t.Errorf("response = %q", res.Response)
	}
	if string(gotBody) != `{"event":"user_created"}` {
		t.Errorf("body = %q", gotBody)
	}
	if ct := gotReq.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if et := gotReq.Header.Get("X-Lmsflow-Event-Type"); et != "user_created" {
		t.Errorf("event type header = %q", et)
	}
	if whID := gotReq.Header.Get("X-Lmsflow-Webhook-ID"); whID != sub.ID.String() {
		t.Errorf("webhook id header = %q", whID)
	}
	if sig := gotReq.Header.Get("X-Lmsflow-Signature"); sig != "" {
		t.Errorf("unsigned subscription sent signature %q", sig)
	}
}

func TestSend_Signed(t *testing.T) {
	var sig, tsHeader string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sig = r.Header.Get("X-Lmsflow-Signature")
		tsHeader = r.Header.Get("X-Lmsflow-Timestamp")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sub := testSub(srv.URL)
	sub.Secret = "whsec_test"
	res := newSender(memory.New()).Send(context.Background(), sub, []byte(`{}`))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}

	ts, err := strconv.ParseInt(tsHeader, 10, 64)
	if err != nil {
		t.Fatalf("timestamp header %q: %v", tsHeader, err)
	}
	if !signature.Verify(body, "whsec_test", ts, sig) {
		t.Errorf("signature %q did not verify", sig)
	}
}

func TestSend_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	res := newSender(memory.New()).Send(context.Background(), testSub(srv.URL), []byte(`{}`))
	if res.StatusCode != 0 {
		t.Errorf("status = %d, want 0", res.StatusCode)
	}
	if res.Error == "" {
		t.Error("expected transport error message")
	}
}

func TestSend_GoneDisablesByURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	store := memory.New()
	ctx := context.Background()

	// Two subscriptions share the endpoint, one points elsewhere.
	a := testSub(srv.URL)
	b := testSub(srv.URL)
	b.EventType = eventtype.UserGraded
	c := testSub("https://other.example/hook")
	for _, sub := range []*registry.Subscription{a, b, c} {
		if err := store.CreateSubscription(ctx, sub); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	res := newSender(store).Send(ctx, a, []byte(`{}`))
	if res.StatusCode != http.StatusGone {
		t.Fatalf("status = %d", res.StatusCode)
	}

	for _, sub := range []*registry.Subscription{a, b} {
		got, err := store.GetSubscription(ctx, sub.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Enabled {
			t.Errorf("subscription %s still enabled", got.ID)
		}
	}
	other, err := store.GetSubscription(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !other.Enabled {
		t.Error("unrelated URL was disabled")
	}
}

func TestSend_RejectedStatusIsRecordedOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	store := memory.New()
	ctx := context.Background()
	sub := testSub(srv.URL)
	if err := store.CreateSubscription(ctx, sub); err != nil {
		t.Fatalf("create: %v", err)
	}

	res := newSender(store).Send(ctx, sub, []byte(`{}`))
	if res.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d", res.StatusCode)
	}

	got, err := store.GetSubscription(ctx, sub.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Enabled {
		t.Error("non-410 rejection must not disable the webhook")
	}
}
