// Package txn wraps multi-document writes in a MongoDB transaction when the
// deployment supports one (replica set or sharded cluster), and falls back
// to running the writes sequentially on standalone servers where sessions
// or transactions are unavailable.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction on db's client. If the server does
// not support transactions, fn runs once more outside a session; callers
// that need all-or-nothing semantics on standalone deployments must include
// their own compensation in fn.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Debug("sessions unavailable, running writes without a transaction")
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		// The transaction aborted before any write stuck, so a plain retry
		// is safe.
		log.Debug("transactions unsupported on this deployment, retrying sequentially")
		return fn(ctx)
	}
	return err
}

// IsNotSupported reports whether err indicates that the MongoDB deployment
// does not support sessions or multi-document transactions (typically a
// standalone server).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		// 20 IllegalOperation, 51 ... , 263 OperationNotSupportedInTransaction
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "illegal operation") {
		return true
	}
	if strings.Contains(msg, "transaction") &&
		(strings.Contains(msg, "replica set") || strings.Contains(msg, "session")) {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}
