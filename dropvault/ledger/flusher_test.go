package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type stubWriter struct {
	mu    sync.Mutex
	saves []*Snapshot
	err   error
	saved chan struct{}
}

func newStubWriter() *stubWriter {
	return &stubWriter{saved: make(chan struct{}, 16)}
}

func (w *stubWriter) Save(_ context.Context, snap *Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.saves = append(w.saves, snap)
	select {
	case w.saved <- struct{}{}:
	default:
	}
	return nil
}

func (w *stubWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.saves)
}

func (w *stubWriter) last() *Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.saves) == 0 {
		return nil
	}
	return w.saves[len(w.saves)-1]
}

type stubAudit struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (s *stubAudit) Record(_ context.Context, events []AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFlusherCoalescesBurst(t *testing.T) {
	l := newTestLedger(t, nil)
	w := newStubWriter()
	audit := &stubAudit{}
	f := NewFlusher(l, w, audit, 20*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	// A burst of mutations inside the delay window.
	mustAccount(t, l, 1, "alice")
	mustAccount(t, l, 2, "bob")
	if _, err := l.AdjustBalance(1, 100); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("flusher never saved")
	}
	if got := w.count(); got != 1 {
		t.Errorf("saves = %d, want 1 coalesced write", got)
	}
	snap := w.last()
	if len(snap.Accounts) != 2 {
		t.Errorf("saved snapshot has %d accounts, want 2", len(snap.Accounts))
	}

	audit.mu.Lock()
	n := len(audit.events)
	audit.mu.Unlock()
	if n != 3 {
		t.Errorf("audit events = %d, want 3", n)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestFlusherFinalFlushOnShutdown(t *testing.T) {
	l := newTestLedger(t, nil)
	w := newStubWriter()
	f := NewFlusher(l, w, nil, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	// Mutate and cancel before the (huge) delay elapses; the shutdown flush
	// must still capture it.
	mustAccount(t, l, 1, "alice")
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if w.count() != 1 {
		t.Fatalf("saves = %d, want the shutdown flush", w.count())
	}
	if len(w.last().Accounts) != 1 {
		t.Errorf("shutdown snapshot missing the mutation")
	}
}

func TestFlusherRetriesAfterError(t *testing.T) {
	l := newTestLedger(t, nil)
	w := newStubWriter()
	w.err = errors.New("disk full")
	f := NewFlusher(l, w, nil, 10*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx) }()

	mustAccount(t, l, 1, "alice")

	// Let at least one failing attempt happen, then heal the writer.
	time.Sleep(50 * time.Millisecond)
	w.mu.Lock()
	w.err = nil
	w.mu.Unlock()

	select {
	case <-w.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("flusher did not retry after writer error")
	}
	cancel()
	<-done
}

func TestFlushWritesEvenWhenClean(t *testing.T) {
	l := newTestLedger(t, nil)
	w := newStubWriter()
	f := NewFlusher(l, w, nil, DefaultFlushDelay, discardLogger())

	l.TakeDirty()
	if err := f.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if w.count() != 1 {
		t.Errorf("saves = %d, want 1", w.count())
	}
}
