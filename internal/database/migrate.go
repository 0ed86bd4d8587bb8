package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NameIndex backs the toy name search.
const NameIndex = "toysName"

// Migrate ensures the indexes the toy collection relies on. Creating an
// index that already exists with the same keys and options is a no-op, so it runs on
// every start.
func Migrate(ctx context.Context, db *mongo.Database, collection string, logger *zap.Logger) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName(NameIndex),
		},
	}

	names, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create indexes on %s: %w", collection, err)
	}
	logger.Info("indexes ensured",
		zap.String("database", db.Name()),
		zap.String("collection", collection),
		zap.Strings("indexes", names),
	)
	return nil
}
