package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
	"github.com/placementhq/identity-import/internal/infrastructure/notification"
	"github.com/placementhq/identity-import/internal/metrics"
)

type fakeNotifier struct {
	err       error
	delivered chan string
}

func (f *fakeNotifier) NotifyNewIdentity(ctx context.Context, ident domain.Identity, credential string) error {
	defer func() { f.delivered <- ident.ID }()
	return f.err
}

type fakeMarker struct {
	mu     sync.Mutex
	marked []string
}

func (f *fakeMarker) MarkEmailSent(ctx context.Context, identityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, identityID)
	return nil
}

func (f *fakeMarker) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.marked...)
}

func waitDelivered(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return ""
	}
}

func TestDispatcherDeliversAndMarksEmailSent(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{delivered: make(chan string, 1)}
	marker := &fakeMarker{}
	d := notification.NewDispatcher(notifier, marker, metrics.Nop{}, notification.DispatcherConfig{Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.Identity{ID: "id-1", Identifier: "2025STU001", Email: "a@x.com"}, "secret")

	if got := waitDelivered(t, notifier.delivered); got != "id-1" {
		t.Fatalf("unexpected delivery: %s", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if marked := marker.snapshot(); len(marked) == 1 && marked[0] == "id-1" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected email_sent to be marked, got %v", marker.snapshot())
}

func TestDispatcherFailureDoesNotMarkEmailSent(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{err: errors.New("smtp down"), delivered: make(chan string, 1)}
	marker := &fakeMarker{}
	d := notification.NewDispatcher(notifier, marker, metrics.Nop{}, notification.DispatcherConfig{Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.Identity{ID: "id-1", Identifier: "2025STU001"}, "secret")
	waitDelivered(t, notifier.delivered)

	// Give the worker a moment in case it were to mark anyway.
	time.Sleep(50 * time.Millisecond)
	if marked := marker.snapshot(); len(marked) != 0 {
		t.Fatalf("expected no marks, got %v", marked)
	}
}

func TestDispatcherEnqueueDropsWhenFull(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{delivered: make(chan string, 8)}
	d := notification.NewDispatcher(notifier, &fakeMarker{}, metrics.Nop{}, notification.DispatcherConfig{Workers: 1, QueueSize: 1})

	// Not started: the queue holds one entry, the second must be dropped
	// without blocking.
	done := make(chan struct{})
	go func() {
		d.Enqueue(domain.Identity{ID: "id-1"}, "a")
		d.Enqueue(domain.Identity{ID: "id-2"}, "b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue must never block")
	}
}
