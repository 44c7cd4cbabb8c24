package ledger

import (
	"context"
	"log/slog"
	"time"
)

// SnapshotWriter is the durability half of the persistence gateway as the
// flusher needs it.
type SnapshotWriter interface {
	Save(ctx context.Context, snap *Snapshot) error
}

// AuditSink receives drained audit events. Optional.
type AuditSink interface {
	Record(ctx context.Context, events []AuditEvent) error
}

// DefaultFlushDelay coalesces bursts of mutations into one write.
const DefaultFlushDelay = 300 * time.Millisecond

// Flusher drives write-behind persistence: mutations mark the ledger dirty
// and wake it, it waits out a short delay so bursts coalesce, then writes one
// full snapshot. Gateway I/O happens here, never under the ledger lock.
type Flusher struct {
	ledger *Ledger
	writer SnapshotWriter
	audit  AuditSink
	delay  time.Duration
	log    *slog.Logger
}

func NewFlusher(l *Ledger, w SnapshotWriter, audit AuditSink, delay time.Duration, log *slog.Logger) *Flusher {
	if delay <= 0 {
		delay = DefaultFlushDelay
	}
	return &Flusher{ledger: l, writer: w, audit: audit, delay: delay, log: log}
}

// Run loops until the context is cancelled, then performs a final
// unconditional flush so no acknowledged mutation is lost on shutdown.
func (f *Flusher) Run(ctx context.Context) error {
	timer := time.NewTimer(f.delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return f.Flush(flushCtx)
		case <-f.ledger.Wake():
			timer.Reset(f.delay)
		case <-timer.C:
			if !f.ledger.TakeDirty() {
				continue
			}
			if err := f.flushOnce(ctx); err != nil {
				f.log.Error("snapshot flush failed", slog.Any("error", err))
				// Leave the state dirty so the next wake retries.
				f.ledger.dirty.Store(true)
				timer.Reset(f.delay)
			}
		}
	}
}

// Flush writes the current snapshot immediately, dirty or not.
func (f *Flusher) Flush(ctx context.Context) error {
	f.ledger.TakeDirty()
	return f.flushOnce(ctx)
}

func (f *Flusher) flushOnce(ctx context.Context) error {
	snap := f.ledger.Snapshot()
	events := f.ledger.DrainEvents()

	if err := f.writer.Save(ctx, snap); err != nil {
		return err
	}
	if f.audit != nil && len(events) > 0 {
		if err := f.audit.Record(ctx, events); err != nil {
			// The snapshot is the source of truth; a lost audit batch is
			// logged, not fatal.
			f.log.Warn("audit record failed",
				slog.Int("events", len(events)),
				slog.Any("error", err))
		}
	}
	f.log.Debug("snapshot flushed",
		slog.Int("accounts", len(snap.Accounts)),
		slog.Int("events", len(events)))
	return nil
}
