// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	DinTaskMongoClient   *mongo.Client
	DinTaskMongoDatabase *mongo.Database

	// RedisClient is nil when redis_addr is blank. Websocket offline
	// delivery and token revocation fall back to in-memory behavior.
	RedisClient *redis.Client
}
