package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

// LoadOrSeed restores the ledger from the gateway, seeding a fresh deployment
// with the default catalog when nothing is stored yet. Any other load failure
// is fatal; starting from an empty ledger when a snapshot exists would be
// silent data loss.
func LoadOrSeed(ctx context.Context, l *ledger.Ledger, g Gateway, log *slog.Logger) error {
	snap, err := g.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		log.Info("no stored snapshot, seeding defaults")
		snap = ledger.DefaultSnapshot()
		if err := g.Save(ctx, snap); err != nil {
			return fmt.Errorf("seed snapshot: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	l.Restore(snap)
	return nil
}
