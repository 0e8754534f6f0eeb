package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IshaanNene/GuildScrape/internal/types"
)

// MongoStorage writes records to one MongoDB collection per kind.
type MongoStorage struct {
	client *mongo.Client
	db     *mongo.Database
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewMongoStorage connects and pings the server.
func NewMongoStorage(ctx context.Context, uri, database string, logger *slog.Logger) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoStorage{
		client: client,
		db:     client.Database(database),
		logger: logger.With("component", "mongo_storage"),
	}, nil
}

func (s *MongoStorage) Name() string { return "mongodb" }

// Collection maps a record kind to its collection name.
func Collection(kind string) string {
	switch kind {
	case types.KindStub:
		return "forum_posts"
	case types.KindEvent:
		return "events"
	case types.KindRank:
		return "ranks"
	case types.KindMode:
		return "modes"
	case types.KindWeapon:
		return "weapons"
	default:
		return kind
	}
}

func (s *MongoStorage) Store(ctx context.Context, kind string, records []any) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	coll := s.db.Collection(Collection(kind))
	if _, err := coll.InsertMany(ctx, records); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("mongodb insert into %s: %w", coll.Name(), err)}
	}

	s.count += len(records)
	s.logger.Debug("records stored in mongodb", "collection", coll.Name(), "count", len(records), "total", s.count)
	return nil
}

func (s *MongoStorage) Close() error {
	s.logger.Info("mongodb storage closing", "total_records", s.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
