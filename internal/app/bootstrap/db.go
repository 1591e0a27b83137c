// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/arundhaj/broadgauge/internal/app/store/oauthstate"
	trainerstore "github.com/arundhaj/broadgauge/internal/app/store/trainers"
	userstore "github.com/arundhaj/broadgauge/internal/app/store/users"
	workshopstore "github.com/arundhaj/broadgauge/internal/app/store/workshops"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return DBDeps{}, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("mongo ping failed", zap.Error(err))
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes the stores rely on: the unique
// case-folded email on users, the one-profile-per-user constraint, the
// workshop listing index, and the TTL cleanup on OAuth states.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := trainerstore.New(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := workshopstore.New(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := oauthstate.New(db).EnsureIndexes(ctx); err != nil {
		return err
	}

	logger.Info("database indexes ensured")
	return nil
}
