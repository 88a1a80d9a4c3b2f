package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestSentinelMatchingSurvivesDetails(t *testing.T) {
	sentinel := New(CodeConflict, "order number space exhausted")
	withDetails := sentinel.Clone().WithDetails(map[string]any{"attempts": 10})

	if !stdErrors.Is(withDetails, sentinel) {
		t.Fatalf("expected clone with details to match sentinel")
	}
	if sentinel.Details() != nil {
		t.Fatalf("clone must not mutate the sentinel")
	}
	if stdErrors.Is(New(CodeConflict, "other"), sentinel) {
		t.Fatalf("different message must not match")
	}
}

func TestIsCodeFollowsWrapChain(t *testing.T) {
	inner := Wrap(CodeDependency, stdErrors.New("db down"), "persist order")
	outer := fmt.Errorf("checkout: %w", inner)

	if !IsCode(outer, CodeDependency) {
		t.Fatalf("expected dependency code through wrap chain")
	}
	if IsCode(outer, CodeValidation) {
		t.Fatalf("unexpected validation code")
	}
	if IsCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("plain errors carry no code")
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(CodeNotFound, "product %d not found", 42)
	if err.Message() != "product 42 not found" {
		t.Fatalf("unexpected message %q", err.Message())
	}
}

func TestDumpIncludesCodeAndChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(CodeDependency, stdErrors.New("conn reset"), "persist"))
	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("expected dependency code in dump, got %s", d.Code)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d", len(d.Chain))
	}
}

func TestDumpReadsPostgresErrorsAnywhereInChain(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key", TableName: "orders"}
	d := Dump(fmt.Errorf("create order: %w", pgErr))
	if d.PGCode != "23505" || d.PGConstraint != "orders_order_number_key" || d.PGTable != "orders" {
		t.Fatalf("unexpected pg fields: %+v", d)
	}

	d = Dump(Wrap(CodeDependency, &pq.Error{Code: "40001", Message: "could not serialize"}, "persist"))
	if d.PGCode != "40001" || d.PGMessage != "could not serialize" {
		t.Fatalf("unexpected pq fields: %+v", d)
	}
	if !d.Retryable {
		t.Fatal("dependency errors are retryable")
	}

	if got := Dump(nil); got.TopMessage != "" || got.Chain != nil {
		t.Fatalf("expected zero dump, got %+v", got)
	}
}
