package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pgconvert/converters/common"
)

// insertBatchSize bounds the number of documents handed to the server in one
// bulk insert.
const insertBatchSize = 500

// DocumentSink receives converted documents for direct import. It is the
// seam between the converter and the live database client, so tests can
// substitute an in-memory sink.
type DocumentSink interface {
	InsertMany(ctx context.Context, docs []*common.Record) error
}

// Sink is a DocumentSink backed by a MongoDB collection.
type Sink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewSink connects to the MongoDB deployment at uri and targets
// database/collection. Close must be called when done.
func NewSink(ctx context.Context, uri, database, collection string) (*Sink, error) {
	if database == "" || collection == "" {
		return nil, fmt.Errorf("mongodb: database and collection are required for direct import")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to connect to %s: %w", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: failed to reach %s: %w", uri, err)
	}

	return &Sink{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *Sink) InsertMany(ctx context.Context, docs []*common.Record) error {
	batch := make([]any, len(docs))
	for i, doc := range docs {
		ordered := make(bson.D, len(doc.Keys))
		for j, key := range doc.Keys {
			ordered[j] = bson.E{Key: key, Value: doc.Values[j]}
		}
		batch[i] = ordered
	}
	_, err := s.collection.InsertMany(ctx, batch)
	return err
}

func (s *Sink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Import streams documents into the sink in batches of insertBatchSize.
func Import(ctx context.Context, sink DocumentSink, docs []*common.Record) error {
	for start := 0; start < len(docs); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := sink.InsertMany(ctx, docs[start:end]); err != nil {
			return fmt.Errorf("mongodb: bulk insert of rows %d-%d failed: %w", start, end-1, err)
		}
		slog.Debug("Inserted document batch", "from", start, "to", end-1)
	}
	return nil
}
