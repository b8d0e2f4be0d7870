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
		{"nil error", nil, false},
		{"unrelated error", errors.New("activity log insert failed"), false},

		// server error codes for session/transaction support
		{"IllegalOperation code 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"OperationNotSupportedInTransaction code 263", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"unrelated command error code", mongo.CommandError{Code: 11000, Message: "duplicate key"}, false},
		{"wrapped command error", fmt.Errorf("remove member: %w", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}), true},

		// message sniffing for drivers that only give us text
		{"transaction on non-replica-set", errors.New("transaction failed because this is not a replica set member"), true},
		{"sessions unsupported", errors.New("session operations are not supported on this server"), true},
		{"transaction with session", errors.New("cannot start transaction in current session state"), true},
		{"illegal operation text", errors.New("illegal operation during transaction"), true},
		{"transaction keyword alone", errors.New("transaction failed"), false},
		{"session keyword alone", errors.New("session expired"), false},

		// matching ignores case
		{"uppercase message", errors.New("TRANSACTION FAILED on REPLICA SET"), true},
		{"mixed case message", errors.New("Transaction Session error"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
