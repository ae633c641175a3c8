// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops the background workers, closes websocket connections, and
// tears down the database connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if subscriptionScan != nil {
		subscriptionScan.Stop()
	}
	if overdueScan != nil {
		overdueScan.Stop()
	}
	if hub != nil {
		hub.Shutdown()
	}

	if deps.RedisClient != nil {
		if err := deps.RedisClient.Close(); err != nil {
			logger.Warn("redis close failed", zap.Error(err))
		}
	}

	if deps.DinTaskMongoClient != nil {
		logger.Info("disconnecting DinTask MongoDB client")
		if err := deps.DinTaskMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
