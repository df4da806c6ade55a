package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	duplicateEmail := errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`)

	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil error", err: nil, constraint: "idx_users_email", want: false},
		{name: "matches named constraint", err: duplicateEmail, constraint: "idx_users_email", want: true},
		{name: "different constraint", err: duplicateEmail, constraint: "idx_follows_pair", want: false},
		{name: "generic duplicate key", err: duplicateEmail, constraint: "", want: true},
		{name: "sqlite unique failure", err: errors.New("UNIQUE constraint failed: users.email"), constraint: "", want: true},
		{name: "unrelated error", err: errors.New("connection refused"), constraint: "", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v, %q) = %v, want %v", tc.err, tc.constraint, got, tc.want)
			}
		})
	}
}
