// Package archive holds the optional side sinks of a collection run: a
// MongoDB archive of accepted documents and a Postgres ledger of run
// statistics. Both are best-effort; the pipeline runs without them.
package archive

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"telugu-tokenizer/pkg/domain"
)

// MongoStore archives accepted documents, upserted by URL so re-running a
// collection never duplicates entries.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and selects the archive collection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// SaveDocument upserts one accepted document keyed by its URL.
func (s *MongoStore) SaveDocument(ctx context.Context, doc *domain.RawDocument) error {
	if s.collection == nil {
		return fmt.Errorf("collection not initialized")
	}
	filter := bson.M{"url": doc.URL}
	update := bson.M{"$set": doc}
	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// ArchivedURLs returns the set of URLs already archived. The collector
// uses it to skip refetching documents stored by earlier runs.
func (s *MongoStore) ArchivedURLs(ctx context.Context) (map[string]bool, error) {
	if s.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"url": 1, "_id": 0}))
	if err != nil {
		return nil, fmt.Errorf("query archived URLs: %w", err)
	}
	defer cursor.Close(ctx)

	urls := make(map[string]bool)
	for cursor.Next(ctx) {
		var row struct {
			URL string `bson:"url"`
		}
		if err := cursor.Decode(&row); err != nil {
			continue
		}
		if row.URL != "" {
			urls[row.URL] = true
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return urls, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
