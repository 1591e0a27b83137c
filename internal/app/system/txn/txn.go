// Package txn wraps multi-document MongoDB transactions with detection
// for deployments that do not support them (standalone servers, some
// DocumentDB versions). Callers use WithTransaction and fall back to
// sequential writes when IsNotSupported reports true.
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a session transaction. All writes made
// through the session context commit or abort together.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Transaction-unsupported server error codes:
// 20 IllegalOperation, 51 ..., 263 OperationNotSupportedInTransaction.
var unsupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (e.g. not a replica set member).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if ce, ok := err.(mongo.CommandError); ok {
		cmdErr = ce
	} else if ce, ok := errAs(err); ok {
		cmdErr = ce
	}
	if unsupportedCodes[cmdErr.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set") {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}

func errAs(err error) (mongo.CommandError, bool) {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if ce, ok := err.(mongo.CommandError); ok {
			return ce, true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return mongo.CommandError{}, false
		}
		err = u.Unwrap()
	}
	return mongo.CommandError{}, false
}
