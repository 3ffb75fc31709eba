package remote

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/logger"
)

// MongoMirror upserts one record per user into the game_states collection
type MongoMirror struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	ID        string   `bson:"_id"`
	GameState bson.Raw `bson:"gameState"`
	UpdatedAt string   `bson:"updatedAt"`
}

// NewMongoMirror connects and pings the server before returning
func NewMongoMirror(ctx context.Context, uri, database string) (*MongoMirror, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if database == "" {
		database = constants.MongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("MongoDB is not reachable: %w", err)
	}

	logger.Debug("connected to MongoDB", "database", database)
	return &MongoMirror{
		client: client,
		coll:   client.Database(database).Collection(constants.MongoCollection),
	}, nil
}

func (m *MongoMirror) Name() string { return "mongo" }

func (m *MongoMirror) Push(ctx context.Context, userID string, doc Document) error {
	if err := ValidateUserID(userID); err != nil {
		return err
	}

	var state bson.D
	if err := bson.UnmarshalExtJSON(doc.GameState, false, &state); err != nil {
		return fmt.Errorf("failed to convert game state to BSON: %w", err)
	}

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "gameState", Value: state},
			{Key: "updatedAt", Value: doc.UpdatedAt},
		}},
	}
	_, err := m.coll.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert game state: %w", err)
	}
	return nil
}

func (m *MongoMirror) Pull(ctx context.Context, userID string) (Document, error) {
	if err := ValidateUserID(userID); err != nil {
		return Document{}, err
	}

	var rec mongoRecord
	if err := m.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Document{}, fmt.Errorf("%w: %s", ErrNotFound, userID)
		}
		return Document{}, fmt.Errorf("failed to fetch game state: %w", err)
	}

	state, err := bson.MarshalExtJSON(rec.GameState, false, false)
	if err != nil {
		return Document{}, fmt.Errorf("failed to convert game state to JSON: %w", err)
	}
	return Document{GameState: state, UpdatedAt: rec.UpdatedAt}, nil
}

func (m *MongoMirror) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
