package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dropvault/dropvault/dropvault/ledger"
)

const (
	mongoConnTimeout = 10 * time.Second
	snapshotDocID    = "ledger"
)

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// MongoGateway stores the whole ledger as a single versioned document, so a
// save replaces state in one write and Load never sees half a snapshot.
type MongoGateway struct {
	client *mongo.Client
	coll   *mongo.Collection
	log    *slog.Logger
}

type snapshotDoc struct {
	ID       string           `bson:"_id"`
	SavedAt  time.Time        `bson:"saved_at"`
	Snapshot *ledger.Snapshot `bson:"snapshot"`
}

func NewMongoGateway(ctx context.Context, cfg MongoConfig, log *slog.Logger) (*MongoGateway, error) {
	if cfg.Collection == "" {
		cfg.Collection = "snapshots"
	}
	ctx, cancel := context.WithTimeout(ctx, mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoGateway{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		log:    log,
	}, nil
}

func (g *MongoGateway) Load(ctx context.Context) (*ledger.Snapshot, error) {
	var doc snapshotDoc
	err := g.coll.FindOne(ctx, bson.M{"_id": snapshotDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if doc.Snapshot == nil {
		return nil, ErrNoSnapshot
	}
	g.log.Info("snapshot loaded",
		slog.Int("accounts", len(doc.Snapshot.Accounts)),
		slog.Time("saved_at", doc.SavedAt))
	return doc.Snapshot, nil
}

func (g *MongoGateway) Save(ctx context.Context, snap *ledger.Snapshot) error {
	doc := snapshotDoc{ID: snapshotDocID, SavedAt: time.Now(), Snapshot: snap}
	_, err := g.coll.ReplaceOne(ctx,
		bson.M{"_id": snapshotDocID},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (g *MongoGateway) Close(ctx context.Context) error {
	return g.client.Disconnect(ctx)
}
