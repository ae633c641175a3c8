package txn

import (
	"errors"
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
		{"generic error", errors.New("write conflict"), false},
		{"command error 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"command error 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"command error 263", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"other command error", mongo.CommandError{Code: 100, Message: "some other failure"}, false},
		{"replica set message", errors.New("transaction failed because this is not a replica set member"), true},
		{"not supported message", errors.New("session operations are not supported on this server"), true},
		{"single keyword only", errors.New("transaction failed"), false},
		{"transaction plus session", errors.New("cannot start transaction in current session state"), true},
		{"illegal operation message", errors.New("illegal operation during transaction"), true},
		{"case insensitive", errors.New("TRANSACTION FAILED on REPLICA SET"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
