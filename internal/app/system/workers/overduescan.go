// internal/app/system/workers/overduescan.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OverdueMarker is satisfied by the tasks store.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// OverdueScan is a background worker that flips tasks past their deadline
// to the overdue status. Keeping the flip out of the read path means list
// handlers never mutate state.
type OverdueScan struct {
	tasks    OverdueMarker
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewOverdueScan creates the worker.
func NewOverdueScan(tasks OverdueMarker, logger *zap.Logger, interval time.Duration) *OverdueScan {
	return &OverdueScan{
		tasks:    tasks,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background scan loop.
func (w *OverdueScan) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("overdue scan worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *OverdueScan) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("overdue scan worker stopped")
}

func (w *OverdueScan) run() {
	defer w.wg.Done()

	w.scan()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *OverdueScan) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.tasks.MarkOverdue(ctx, time.Now())
	if err != nil {
		w.log.Error("overdue scan failed", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("tasks marked overdue", zap.Int64("count", count))
	}
}
