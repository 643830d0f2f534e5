package kernel

import (
	"context"

	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/repositories/gormdb"
	"github.com/shashiranjanraj/bazaar/app/repositories/mongodb"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/database"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
)

// OpenStore connects the store selected by DB_DRIVER. MongoDB indexes are
// ensured on open; SQL schemas come from `bazaar migrate`.
func OpenStore(ctx context.Context) (*repositories.Store, error) {
	driver := config.DatabaseDriver()

	if database.IsSQL(driver) {
		db, err := database.ConnectConfiguredGorm()
		if err != nil {
			return nil, err
		}
		logger.Info("store connected", "driver", driver)
		return gormdb.NewStore(db), nil
	}

	client, db, err := database.ConnectMongo(ctx, config.MongoURI(), config.MongoDatabase())
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.Info("store connected", "driver", "mongo", "database", config.MongoDatabase())
	return mongodb.NewStore(client, db), nil
}
