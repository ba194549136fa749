// Package lmsflow forwards learning-platform events to registered webhooks.
//
// Lmsflow is a library — not a service. Import it into your application to
// bridge user lifecycle, enrolment, grading and course events from an LMS
// host to external HTTP endpoints, with per-course filtering and optional
// HMAC-SHA256 request signing.
//
// Key features:
//   - Closed set of supported event types mapped from host event names
//   - Per-type payload enrichment (user profile, grade, enrolment, course)
//   - Composable store pattern with multiple backends (Postgres, SQLite, Redis, Memory)
//   - Synchronous at-most-once delivery; endpoints answering 410 Gone are
//     disabled automatically
//   - Admin HTTP API for webhook management and host directory queries
//
// Quick start:
//
//	f, err := lmsflow.New(
//	    lmsflow.WithStore(memoryStore),
//	    lmsflow.WithLookups(hostLookups),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	f.Registry().Create(ctx, registry.Input{
//	    Name:      "grade feed",
//	    URL:       "https://example.com/hook",
//	    EventType: "user_graded",
//	})
//
//	f.HandleEvent(ctx, observedEvent)
package lmsflow
