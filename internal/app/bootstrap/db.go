// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	contentstore "github.com/dalemusser/dintask/internal/app/store/content"
	conversationstore "github.com/dalemusser/dintask/internal/app/store/conversations"
	invitestore "github.com/dalemusser/dintask/internal/app/store/invites"
	leadstore "github.com/dalemusser/dintask/internal/app/store/leads"
	notificationstore "github.com/dalemusser/dintask/internal/app/store/notifications"
	paymentstore "github.com/dalemusser/dintask/internal/app/store/payments"
	planstore "github.com/dalemusser/dintask/internal/app/store/plans"
	projectstore "github.com/dalemusser/dintask/internal/app/store/projects"
	schedulestore "github.com/dalemusser/dintask/internal/app/store/schedules"
	supportleadstore "github.com/dalemusser/dintask/internal/app/store/supportleads"
	taskstore "github.com/dalemusser/dintask/internal/app/store/tasks"
	teamstore "github.com/dalemusser/dintask/internal/app/store/teams"
	ticketstore "github.com/dalemusser/dintask/internal/app/store/tickets"
	userstore "github.com/dalemusser/dintask/internal/app/store/users"
	"github.com/dalemusser/dintask/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and, when configured, the
// Redis connection. A Redis failure at boot is fatal only if an address
// was configured; blank redis_addr runs without it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		DinTaskMongoClient:   client,
		DinTaskMongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		if err := rdb.Ping(connectCtx).Err(); err != nil {
			_ = client.Disconnect(context.Background())
			return DBDeps{}, fmt.Errorf("redis ping: %w", err)
		}
		logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr))
		deps.RedisClient = rdb
	} else {
		logger.Info("redis disabled; using in-memory token denylist and presence")
	}

	return deps, nil
}

// EnsureSchema creates the collection indexes. Each store owns its own
// index definitions; this just walks them. Idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.DinTaskMongoDatabase

	stores := []interface {
		EnsureIndexes(context.Context) error
	}{
		userstore.New(db),
		invitestore.New(db),
		leadstore.New(db),
		projectstore.New(db),
		taskstore.New(db),
		teamstore.New(db),
		schedulestore.New(db),
		notificationstore.New(db),
		conversationstore.New(db),
		ticketstore.New(db),
		supportleadstore.New(db),
		paymentstore.New(db),
		planstore.New(db),
		contentstore.New(db),
	}

	for _, s := range stores {
		if err := s.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
	}

	logger.Info("database indexes ensured", zap.Int("collections", len(stores)))
	return nil
}
