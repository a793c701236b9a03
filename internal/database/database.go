package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// Connect dials MongoDB, pings it and returns the database named in the URI,
// or fallbackDB when the URI has no path.
func Connect(ctx context.Context, mongoURI, fallbackDB string) (*mongo.Client, *mongo.Database, error) {
	// Use longer timeout for Atlas connections
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	log.Info().Msg("Attempting to connect to MongoDB...")
	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Info().Msg("Connected to MongoDB")
	return client, client.Database(DatabaseName(mongoURI, fallbackDB)), nil
}

// DatabaseName extracts the database path component of a MongoDB URI.
func DatabaseName(mongoURI, fallback string) string {
	cs, err := connstring.ParseAndValidate(mongoURI)
	if err != nil || cs.Database == "" {
		return fallback
	}
	return cs.Database
}

func Disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
