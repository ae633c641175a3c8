// Package txn wraps multi-document Mongo transactions with a fallback for
// servers that cannot run them (standalone mongod in local development).
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// IsNotSupported reports whether err means the server cannot run
// multi-document transactions. Mongo signals this with command error
// codes 20 (IllegalOperation), 51 (and friends), or 263, and some driver
// paths surface it only as a message string.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }

	mentionsTxn := has("transaction") || has("session")
	if mentionsTxn && (has("replica set") || has("not supported") || has("illegal operation")) {
		return true
	}
	return has("transaction") && has("session")
}

// WithTransaction runs fn inside a transaction when the server supports
// them. Against a standalone server it runs fn directly, without
// atomicity, so a replica set is not required for local development.
func WithTransaction(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Warn("transactions unsupported, running without atomicity", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Warn("transactions unsupported, running without atomicity", zap.Error(err))
		return fn(ctx)
	}
	return err
}
