package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stock_tracker_backend/models"
)

// MongoDB database and collection names
const (
	MongoDBName               = "stock_tracker"
	MongoDailyIndexCollection = "daily_index_batches"
)

// MongoArchive mirrors accepted daily-index batches to MongoDB for
// long-term analysis. It is optional: when MONGODB_URI is not configured
// the application runs without it.
type MongoArchive struct {
	client   *mongo.Client
	database *mongo.Database
}

// mongoDailyIndexBatch is one archived batch, keyed by trading day
type mongoDailyIndexBatch struct {
	Date       string              `bson:"_id"`
	ArchivedAt time.Time           `bson:"archived_at"`
	Count      int                 `bson:"count"`
	Indexes    []models.DailyIndex `bson:"indexes"`
}

// NewMongoArchive connects to MongoDB at the given URI. Returns nil with
// no error when the URI is empty.
func NewMongoArchive(uri string) (*MongoArchive, error) {
	if uri == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	log.Println("MongoDB archive connected")
	return &MongoArchive{
		client:   client,
		database: client.Database(MongoDBName),
	}, nil
}

// ArchiveDailyIndexes upserts the batch document for the batch's trading
// day. Re-archiving the same day replaces the previous document.
func (a *MongoArchive) ArchiveDailyIndexes(indexes []models.DailyIndex) error {
	if len(indexes) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	doc := mongoDailyIndexBatch{
		Date:       indexes[0].Date.Format("2006-01-02"),
		ArchivedAt: time.Now(),
		Count:      len(indexes),
		Indexes:    indexes,
	}

	collection := a.database.Collection(MongoDailyIndexCollection)
	_, err := collection.ReplaceOne(ctx,
		bson.M{"_id": doc.Date},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert daily index batch: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB
func (a *MongoArchive) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.client.Disconnect(ctx)
}
