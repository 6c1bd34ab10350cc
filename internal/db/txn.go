package db

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a MongoDB session transaction so that
// multi-step mutations (create+associate, update+reassociate, reorder,
// delete+cascade) either fully apply or roll back. On deployments without
// replica sets (standalone mongod, typical in dev and CI) transactions are
// not available; in that case fn runs directly without a transaction.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && isTransactionUnsupported(err) {
		// The transaction was rejected before any statement ran.
		return fn(ctx)
	}
	return err
}

// isTransactionUnsupported reports whether the error indicates the server
// cannot run transactions at all (IllegalOperation on standalone servers),
// as opposed to a transaction that started and failed.
func isTransactionUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
		return true
	}
	return strings.Contains(err.Error(), "Transaction numbers are only allowed")
}
