package database

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

// LedgerEvent is one applied mutation, appended for offline analysis. The
// snapshot remains the only recovery source.
type LedgerEvent struct {
	bun.BaseModel `bun:"table:ledger_events"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Kind      string    `bun:"kind,notnull"`
	AccountID int64     `bun:"account_id"`
	OtherID   int64     `bun:"other_id"`
	Amount    int64     `bun:"amount"`
	Ref       string    `bun:"ref"`
	At        time.Time `bun:"at,notnull"`
}

// AuditRepository appends drained ledger events to Postgres. Implements
// ledger.AuditSink.
type AuditRepository struct {
	db *bun.DB
}

func NewAuditRepository(db *bun.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Init creates the events table if needed.
func (r *AuditRepository) Init(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*LedgerEvent)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create ledger_events table: %w", err)
	}
	return nil
}

func (r *AuditRepository) Record(ctx context.Context, events []ledger.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]LedgerEvent, len(events))
	for i, ev := range events {
		rows[i] = LedgerEvent{
			Kind:      ev.Kind,
			AccountID: ev.AccountID,
			OtherID:   ev.OtherID,
			Amount:    ev.Amount,
			Ref:       ev.Ref,
			At:        ev.At,
		}
	}
	if _, err := r.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("insert ledger events: %w", err)
	}
	return nil
}

// RecentEvents returns the newest events for an account, newest first.
func (r *AuditRepository) RecentEvents(ctx context.Context, accountID int64, limit int) ([]LedgerEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []LedgerEvent
	err := r.db.NewSelect().
		Model(&rows).
		Where("account_id = ? OR other_id = ?", accountID, accountID).
		Order("at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select ledger events: %w", err)
	}
	return rows, nil
}
