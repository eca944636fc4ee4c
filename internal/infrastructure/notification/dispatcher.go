package notification

import (
	"context"
	"log"
	"sync"
	"time"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
	"github.com/placementhq/identity-import/internal/metrics"
	"golang.org/x/sync/errgroup"
)

type emailSentMarker interface {
	MarkEmailSent(ctx context.Context, identityID string) error
}

type pending struct {
	identity   domain.Identity
	credential string
}

type DispatcherConfig struct {
	Workers         int
	QueueSize       int
	DeliveryTimeout time.Duration
}

// Dispatcher delivers welcome notifications off the batch path. Enqueue
// never blocks and delivery failures are only logged; batch outcomes are
// decided before anything is handed to the dispatcher.
type Dispatcher struct {
	notifier   domain.Notifier
	identities emailSentMarker
	collector  metrics.Recorder
	cfg        DispatcherConfig
	queue      chan pending

	once sync.Once
}

func NewDispatcher(notifier domain.Notifier, identities emailSentMarker, collector metrics.Recorder, cfg DispatcherConfig) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 10 * time.Second
	}

	return &Dispatcher{
		notifier:   notifier,
		identities: identities,
		collector:  collector,
		cfg:        cfg,
		queue:      make(chan pending, cfg.QueueSize),
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.once.Do(func() {
		go func() {
			g, ctx := errgroup.WithContext(ctx)
			for i := 0; i < d.cfg.Workers; i++ {
				g.Go(func() error {
					d.workerLoop(ctx)
					return nil
				})
			}
			_ = g.Wait()
		}()
	})
}

func (d *Dispatcher) Enqueue(ident domain.Identity, credential string) {
	select {
	case d.queue <- pending{identity: ident, credential: credential}:
	default:
		log.Printf("notification queue full, dropping welcome for %s", ident.Identifier)
		d.collector.RecordNotification(false)
	}
}

func (d *Dispatcher) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-d.queue:
			d.deliver(ctx, p)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, p pending) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.DeliveryTimeout)
	defer cancel()

	if err := d.notifier.NotifyNewIdentity(ctx, p.identity, p.credential); err != nil {
		log.Printf("notify new identity %s failed: %v", p.identity.Identifier, err)
		d.collector.RecordNotification(false)
		return
	}

	if err := d.identities.MarkEmailSent(ctx, p.identity.ID); err != nil {
		log.Printf("mark email sent for %s failed: %v", p.identity.ID, err)
	}
	d.collector.RecordNotification(true)
}
