package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapNil(t *testing.T) {
	if got := Wrap(KindStorage, "op", "msg", nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestWrapPreservesTypedError(t *testing.T) {
	inner := New(KindAuth, "token.verify", "signature mismatch")
	outer := Wrap(KindTransport, "filter", "auth failed", inner)
	if outer != inner {
		t.Fatalf("expected original typed error to be preserved")
	}
}

func TestIsKind(t *testing.T) {
	err := New(KindStorage, "user.create", "insert failed")
	wrapped := fmt.Errorf("handler: %w", err)

	if !IsKind(wrapped, KindStorage) {
		t.Fatalf("expected storage kind in chain")
	}
	if IsKind(wrapped, KindAuth) {
		t.Fatalf("did not expect auth kind")
	}
	if IsKind(errors.New("plain"), KindStorage) {
		t.Fatalf("plain error should not match any kind")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindDomain, "todo.add", "add failed", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to reach cause")
	}
}
