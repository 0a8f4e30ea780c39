package db

import (
	"context"
	"fmt"

	"podcast-transcripts/pkg/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps the MongoDB client and database connection
type Client struct {
	mongoClient *mongo.Client
	database    *mongo.Database
	collection  *mongo.Collection
}

// NewClient creates a new database client
func NewClient(connectionString, databaseName, collectionName string) *Client {
	clientOptions := options.Client().ApplyURI(connectionString)
	mongoClient, err := mongo.Connect(context.Background(), clientOptions)
	if err != nil {
		// Return client with nil - error will be caught during Connect()
		return &Client{}
	}

	database := mongoClient.Database(databaseName)
	collection := database.Collection(collectionName)

	return &Client{
		mongoClient: mongoClient,
		database:    database,
		collection:  collection,
	}
}

// Connect establishes connection to MongoDB
func (c *Client) Connect(ctx context.Context) error {
	if c.mongoClient == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.mongoClient.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (c *Client) Close(ctx context.Context) error {
	if c.mongoClient == nil {
		return nil
	}
	return c.mongoClient.Disconnect(ctx)
}

// SaveEpisodeTranscript upserts an episode transcript keyed by content_id,
// so re-running an acquisition overwrites rather than duplicates.
func (c *Client) SaveEpisodeTranscript(ctx context.Context, doc *domain.EpisodeTranscript) error {
	if c.collection == nil {
		return fmt.Errorf("collection not initialized")
	}
	if doc == nil || doc.ContentID == "" {
		return fmt.Errorf("episode transcript requires a content id")
	}

	filter := bson.M{"content_id": doc.ContentID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	_, err := c.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetExistingContentIDs checks which of the given content ids already have a
// stored transcript and returns them as a set.
func (c *Client) GetExistingContentIDs(ctx context.Context, contentIDs []string) (map[string]bool, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}
	if len(contentIDs) == 0 {
		return map[string]bool{}, nil
	}

	filter := bson.M{"content_id": bson.M{"$in": contentIDs}}
	projection := options.Find().SetProjection(bson.M{"content_id": 1, "_id": 0})

	cursor, err := c.collection.Find(ctx, filter, projection)
	if err != nil {
		return nil, fmt.Errorf("failed to query content ids: %w", err)
	}
	defer cursor.Close(ctx)

	set := make(map[string]bool)
	for cursor.Next(ctx) {
		var result struct {
			ContentID string `bson:"content_id"`
		}
		if err := cursor.Decode(&result); err != nil {
			continue // Skip invalid documents
		}
		if result.ContentID != "" {
			set[result.ContentID] = true
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return set, nil
}

// GetAllEpisodeTranscripts reads every stored transcript. Used by the
// Mongo-to-Postgres replication flow.
func (c *Client) GetAllEpisodeTranscripts(ctx context.Context) ([]domain.EpisodeTranscript, error) {
	if c.collection == nil {
		return nil, fmt.Errorf("collection not initialized")
	}

	cursor, err := c.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.EpisodeTranscript
	for cursor.Next(ctx) {
		var doc domain.EpisodeTranscript
		if err := cursor.Decode(&doc); err != nil {
			continue // Skip invalid documents
		}
		out = append(out, doc)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return out, nil
}
