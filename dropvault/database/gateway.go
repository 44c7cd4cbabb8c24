// Package database holds the persistence gateways. The ledger is the source
// of truth; a gateway only loads one snapshot at startup and overwrites it on
// every flush.
package database

import (
	"context"
	"errors"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

// ErrNoSnapshot is returned by Load when the backing store holds no state
// yet. Callers seed from ledger.DefaultSnapshot.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Gateway persists full ledger snapshots. Save must be atomic from the
// reader's point of view: a crash mid-save may never leave a partial snapshot
// behind for the next Load.
type Gateway interface {
	Load(ctx context.Context) (*ledger.Snapshot, error)
	Save(ctx context.Context, snap *ledger.Snapshot) error
	Close(ctx context.Context) error
}
