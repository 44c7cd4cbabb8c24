package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/dropvault/dropvault/dropvault/database/mock"
	"github.com/dropvault/dropvault/dropvault/ledger"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadOrSeedRestoresStoredSnapshot(t *testing.T) {
	stored := ledger.DefaultSnapshot()
	stored.Accounts = []ledger.Account{
		{ID: 1, DisplayName: "alice", Balance: 900, Level: 1, MaxCaseOpenings: 1, Inventory: []ledger.ItemInstance{}},
	}

	g := mock.NewMockGateway(gomock.NewController(t))
	g.EXPECT().Load(gomock.Any()).Return(stored, nil)

	l := ledger.New()
	if err := LoadOrSeed(context.Background(), l, g, discardLogger()); err != nil {
		t.Fatalf("LoadOrSeed() error = %v", err)
	}
	a, err := l.Account(1)
	if err != nil {
		t.Fatalf("Account(1) after restore: %v", err)
	}
	if a.Balance != 900 {
		t.Errorf("Balance = %d, want 900", a.Balance)
	}
}

func TestLoadOrSeedSeedsEmptyStore(t *testing.T) {
	g := mock.NewMockGateway(gomock.NewController(t))
	g.EXPECT().Load(gomock.Any()).Return(nil, ErrNoSnapshot)
	g.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	l := ledger.New()
	if err := LoadOrSeed(context.Background(), l, g, discardLogger()); err != nil {
		t.Fatalf("LoadOrSeed() error = %v", err)
	}
	if cases := l.Cases(); len(cases) == 0 {
		t.Error("seeded ledger has no default catalog")
	}
}

func TestLoadOrSeedFailsOnLoadError(t *testing.T) {
	boom := errors.New("connection reset")
	g := mock.NewMockGateway(gomock.NewController(t))
	g.EXPECT().Load(gomock.Any()).Return(nil, boom)

	err := LoadOrSeed(context.Background(), ledger.New(), g, discardLogger())
	if !errors.Is(err, boom) {
		t.Errorf("LoadOrSeed() error = %v, want wrapped %v", err, boom)
	}
}
