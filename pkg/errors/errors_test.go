package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("driver timeout")
	err := Wrap(CodeDependency, cause, "fetch cart")

	if err.Unwrap() != cause {
		t.Fatal("expected cause to unwrap")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsFindsNestedTypedError(t *testing.T) {
	inner := New(CodeNotFound, "order not found")
	wrapped := fmt.Errorf("handler: %w", inner)

	typed := As(wrapped)
	if typed == nil || typed.Code() != CodeNotFound {
		t.Fatalf("expected typed not-found, got %v", typed)
	}
	if !HasCode(wrapped, CodeNotFound) {
		t.Fatal("HasCode should match nested code")
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes must map to 500, got %d", meta.HTTPStatus)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeValidation, fmt.Errorf("qty out of range"), "update item")
	d := Dump(err)
	if d.Code != CodeValidation {
		t.Fatalf("unexpected code: %s", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", d.Chain)
	}
}

func TestDumpExtractsPostgresDiagnostics(t *testing.T) {
	pgxErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_users_email",
		TableName:      "users",
		ColumnName:     "email",
		Detail:         "Key (email)=(a@b.com) already exists.",
		Message:        "duplicate key value violates unique constraint",
	}
	d := Dump(Wrap(CodeConflict, pgxErr, "create user"))
	if d.PGCode != "23505" || d.PGConstraint != "idx_users_email" {
		t.Fatalf("unexpected pgx diagnostics: %+v", d)
	}
	if d.PGTable != "users" || d.PGColumn != "email" {
		t.Fatalf("expected table and column surfaced, got %+v", d)
	}

	pqErr := &pq.Error{
		Code:       "23505",
		Constraint: "idx_follows_pair",
		Table:      "follows",
		Column:     "follower_id",
	}
	d = Dump(Wrap(CodeConflict, pqErr, "create follow"))
	if d.PGConstraint != "idx_follows_pair" || d.PGColumn != "follower_id" {
		t.Fatalf("unexpected pq diagnostics: %+v", d)
	}
}
