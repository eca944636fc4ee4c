package importing

import (
	"context"
	"log"
	"sync"
	"time"
)

type staleBatchMarker interface {
	MarkStaleProcessing(ctx context.Context, olderThan time.Duration) (int64, error)
}

type ReconcilerConfig struct {
	Interval   time.Duration
	StaleAfter time.Duration
}

// Reconciler sweeps ledger entries stuck in processing (a batch whose
// process crashed mid-run) and marks them failed for operator visibility.
// Partial batches are never resumed.
type Reconciler struct {
	ledger staleBatchMarker
	cfg    ReconcilerConfig

	once sync.Once
}

func NewReconciler(ledger staleBatchMarker, cfg ReconcilerConfig) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 30 * time.Minute
	}
	return &Reconciler{ledger: ledger, cfg: cfg}
}

func (r *Reconciler) Start(ctx context.Context) {
	r.once.Do(func() {
		go r.loop(ctx)
	})
}

func (r *Reconciler) loop(ctx context.Context) {
	for {
		if !sleepWithContext(ctx, r.cfg.Interval) {
			return
		}
		if err := r.Sweep(ctx); err != nil {
			log.Printf("reconcile stale batches failed: %v", err)
		}
	}
}

// Sweep runs one reconciliation pass.
func (r *Reconciler) Sweep(ctx context.Context) error {
	marked, err := r.ledger.MarkStaleProcessing(ctx, r.cfg.StaleAfter)
	if err != nil {
		return err
	}
	if marked > 0 {
		log.Printf("marked %d stale import batches as failed", marked)
	}
	return nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
