package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo defaults.
const (
	DefaultDatabase   = "anchortile"
	DefaultCollection = "runs"
)

// MongoStore inserts documents into a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects to uri and pings the primary. Empty database or
// collection names fall back to the defaults.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
		now:    time.Now,
	}, nil
}

// Save inserts {name, created_at, document}.
func (s *MongoStore) Save(ctx context.Context, name string, doc map[string]any) error {
	_, err := s.coll.InsertOne(ctx, record(name, doc, s.now()))
	if err != nil {
		return fmt.Errorf("insert %s: %w", name, err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func record(name string, doc map[string]any, at time.Time) bson.M {
	return bson.M{
		"name":       name,
		"created_at": at.UTC(),
		"document":   doc,
	}
}

var _ Store = (*MongoStore)(nil)
