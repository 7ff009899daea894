package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when the addressed user or review does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an item is already present in a list.
	ErrDuplicate = errors.New("duplicate entry")
)

const opTimeout = 5 * time.Second

// Mongo wraps the driver client and database handle shared by all stores.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes the connection and verifies it with a ping. It is
// called exactly once at startup; a failure here is fatal for the server.
func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetServerSelectionTimeout(5 * time.Second).
		SetSocketTimeout(45 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Mongo{client: client, db: client.Database(dbName)}, nil
}

// EnsureIndexes creates the indexes the stores rely on: the unique key on
// users.external_id, one list document per (user, list), and the read order
// for reviews.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	unique := options.Index().SetUnique(true)
	if _, err := m.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "external_id", Value: 1}},
		Options: unique,
	}); err != nil {
		return err
	}
	for _, name := range []string{"favourites", "watchlist"} {
		if _, err := m.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: unique,
		}); err != nil {
			return err
		}
	}
	_, err := m.Collection("reviews").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// Ping reports whether the store is reachable. Used by the health endpoint.
func (m *Mongo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// withTimeout bounds a single store operation so a stalled server surfaces
// as an error instead of a hung request.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}
