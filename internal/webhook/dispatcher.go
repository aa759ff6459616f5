package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	maxAttempts    = 3
	requestTimeout = 10 * time.Second
	maxRetryAfter  = 30 * time.Second
	userAgent      = "discogs-cli-webhook/1.0"

	// headerDelivery carries an id that stays the same across retries of
	// one delivery, so receivers can drop duplicates.
	headerDelivery = "X-Discogs-Delivery"
)

// statusError is a non-2xx reply from a target.
type statusError struct {
	code       int
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return "unexpected status " + strconv.Itoa(e.code)
}

// retryable reports whether resending the same body could succeed.
func (e *statusError) retryable() bool {
	return e.code >= 500 || e.code == http.StatusTooManyRequests || e.code == http.StatusRequestTimeout
}

// Dispatcher delivers events to every subscribed target. Deliveries run in
// the background; Close waits for them.
type Dispatcher struct {
	targets []Target
	client  *http.Client
	logger  *slog.Logger
	backoff func(attempt int) time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher. A nil client gets a 10 second timeout.
func NewDispatcher(targets []Target, client *http.Client, logger *slog.Logger) *Dispatcher {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		targets: targets,
		client:  client,
		logger:  logger.With(slog.String("component", "webhook")),
		backoff: func(attempt int) time.Duration { return time.Second << (attempt - 1) },
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Notify starts a delivery of e to each target subscribed to its type.
func (d *Dispatcher) Notify(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	for _, t := range d.targets {
		if !t.wants(e.Type) {
			continue
		}
		id := uuid.NewString()
		body, err := payload(t.Type, id, e)
		if err != nil {
			d.logger.Error("encoding webhook payload", "webhook", t.Name, "event", e.Type, "error", err)
			continue
		}
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.deliver(t, id, e.Type, body)
		}()
	}
}

// Close waits up to grace for pending deliveries, then abandons the rest.
func (d *Dispatcher) Close(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		d.logger.Warn("abandoning pending webhook deliveries")
	}
	d.cancel()
	<-done
}

func (d *Dispatcher) deliver(t Target, id, event string, body []byte) {
	log := d.logger.With("webhook", t.Name, "event", event, "delivery", id)

	for attempt := 1; ; attempt++ {
		err := d.send(t.URL, id, body)
		if err == nil {
			log.Debug("webhook delivered", "attempt", attempt)
			return
		}

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			log.Error("webhook rejected delivery", "error", err)
			return
		}
		if attempt == maxAttempts {
			log.Error("webhook delivery exhausted retries", "attempts", attempt, "error", err)
			return
		}

		wait := d.backoff(attempt)
		if se != nil && se.retryAfter > 0 {
			wait = min(se.retryAfter, maxRetryAfter)
		}
		log.Warn("webhook delivery failed, retrying", "attempt", attempt, "wait", wait, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-d.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (d *Dispatcher) send(url, id string, body []byte) error {
	ctx, cancel := context.WithTimeout(d.ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(headerDelivery, id)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 300 {
		return nil
	}
	se := &statusError{code: resp.StatusCode}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		se.retryAfter = time.Duration(secs) * time.Second
	}
	return se
}
