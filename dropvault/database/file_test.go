package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

func TestFileGatewayRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "snapshot.json")
	g := NewFileGateway(path)
	ctx := context.Background()

	if _, err := g.Load(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("Load() on empty store error = %v, want ErrNoSnapshot", err)
	}

	snap := ledger.DefaultSnapshot()
	snap.Accounts = []ledger.Account{
		{ID: 1, DisplayName: "alice", Balance: 900, Level: 1, MaxCaseOpenings: 1, Inventory: []ledger.ItemInstance{}},
	}
	if err := g.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := g.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, snap)
	}
}

func TestFileGatewaySaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	g := NewFileGateway(path)
	ctx := context.Background()

	first := ledger.DefaultSnapshot()
	if err := g.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	second := ledger.DefaultSnapshot()
	second.Accounts = []ledger.Account{{ID: 2, DisplayName: "bob", Inventory: []ledger.ItemInstance{}}}
	if err := g.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := g.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Accounts) != 1 || got.Accounts[0].ID != 2 {
		t.Errorf("Load() = %+v, want the second save", got.Accounts)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind after save")
	}
}

func TestFileGatewayRejectsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	g := NewFileGateway(path)
	if _, err := g.Load(context.Background()); err == nil {
		t.Error("Load() accepted corrupt data")
	}
}
