// Package dispatch fans platform events out to their matching webhooks
// and performs the outbound HTTP delivery.
package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/lmsflow/lmsflow/registry"
	"github.com/lmsflow/lmsflow/signature"
)

const maxResponseBody = 1024 // 1KB cap on recorded response bodies

// Result holds the outcome of a single delivery attempt. A status code
// of 0 means the request never produced an HTTP response (timeout or
// transport failure); that is recorded, not escalated.
type Result struct {
	StatusCode int
	Response   string
	Error      string
	LatencyMs  int
}

// Disabler is the registry mutation the sender may trigger: a 410 from
// an endpoint disables every subscription sharing that exact URL.
type Disabler interface {
	DisableByURL(ctx context.Context, url string) (int64, error)
}

// Sender performs HTTP webhook delivery.
type Sender struct {
	client   *http.Client
	disabler Disabler
	logger   *slog.Logger
}

// NewSender creates a sender with separate connect and overall request
// timeouts.
func NewSender(connectTimeout, requestTimeout time.Duration, disabler Disabler, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
		disabler: disabler,
		logger:   logger,
	}
}

// Send POSTs the already-serialized payload to the subscription's URL
// and returns the result unconditionally. HTTP 410 triggers the
// auto-disable side effect for every subscription sharing the URL; no
// other status mutates the registry.
func (s *Sender) Send(ctx context.Context, sub *registry.Subscription, body []byte) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, bytes.NewReader(body))
	if err != nil {
		return Result{Error: fmt.Sprintf("create request: %v", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Lmsflow/1.0")
	req.Header.Set("X-Lmsflow-Event-Type", sub.EventType.String())
	req.Header.Set("X-Lmsflow-Webhook-ID", sub.ID.String())

	// Signing is opt-in per subscription; the default wire format
	// carries no authentication headers.
	if sub.Secret != "" {
		ts := time.Now().Unix()
		req.Header.Set("X-Lmsflow-Signature", signature.Sign(body, sub.Secret, ts))
		req.Header.Set("X-Lmsflow-Timestamp", strconv.FormatInt(ts, 10))
	}

	start := time.Now()
	resp, err := s.client.Do(req) //nolint:gosec // G704: destination URL is operator-configured
	latency := time.Since(start).Milliseconds()

	if err != nil {
		// Timeouts and connection failures are recorded as status 0.
		return Result{
			Error:     err.Error(),
			LatencyMs: int(latency),
		}
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	result := Result{
		StatusCode: resp.StatusCode,
		Response:   string(respBody),
		LatencyMs:  int(latency),
	}
	if readErr != nil {
		result.Response = ""
		result.Error = fmt.Sprintf("read response: %v", readErr)
	}

	if resp.StatusCode == http.StatusGone {
		affected, disableErr := s.disabler.DisableByURL(ctx, sub.URL)
		if disableErr != nil {
			s.logger.ErrorContext(ctx, "auto-disable failed",
				"url", sub.URL, "error", disableErr)
		} else {
			s.logger.WarnContext(ctx, "webhook endpoint gone, disabled",
				"url", sub.URL, "webhooks_disabled", affected)
		}
	}

	return result
}
