package txn

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unrelated error", errors.New("connection refused"), false},
		{"illegal operation code", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"not supported in txn code", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"other command error", mongo.CommandError{Code: 11000, Message: "duplicate key"}, false},
		{"standalone message", errors.New("transaction failed: server is not a replica set member"), true},
		{"session not supported message", errors.New("session operations are not supported on this server"), true},
		{"transaction keyword alone", errors.New("transaction aborted"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsNotSupported_WrappedCommandError(t *testing.T) {
	inner := mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}
	wrapped := fmt.Errorf("saving trainer profile: %w", inner)

	if !IsNotSupported(wrapped) {
		t.Errorf("IsNotSupported should see through wrapped command errors")
	}

	benign := fmt.Errorf("saving trainer profile: %w", mongo.CommandError{Code: 11000})
	if IsNotSupported(benign) {
		t.Errorf("wrapped duplicate-key error should not read as unsupported")
	}
}
