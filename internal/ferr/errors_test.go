package ferr

import (
	"errors"
	"testing"
)

func TestErrorCodeAndParent(t *testing.T) {
	parent := errors.New("boom")
	err := MinPkgCore.Error(parent)

	if err.Code() != MinPkgCore {
		t.Fatalf("expected code %v, got %v", MinPkgCore, err.Code())
	}

	if !err.HasParent() {
		t.Fatalf("expected HasParent true")
	}

	if got := err.Error(); got == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestAddParentAccumulates(t *testing.T) {
	err := MinPkgWorker.Error(nil)
	if err.HasParent() {
		t.Fatalf("fresh error should have no parent")
	}

	err.AddParent(errors.New("one"), errors.New("two"))
	if !err.HasParent() {
		t.Fatalf("expected HasParent true after AddParent")
	}
}

func TestRegisterMessageLookup(t *testing.T) {
	const code CodeError = MinPkgShutdown + 1

	RegisterMessage(MinPkgShutdown, func(c CodeError) string {
		if c == code {
			return "shutdown test message"
		}
		return ""
	})

	err := code.Error(nil)
	if got := err.Error(); got != "shutdown test message" {
		t.Fatalf("expected registered message, got %q", got)
	}
}

func TestNilErrorIsSafe(t *testing.T) {
	var err *ers
	if err.Code() != UnknownError {
		t.Fatalf("nil error should report UnknownError")
	}
	if err.HasParent() {
		t.Fatalf("nil error should report no parent")
	}
	if err.Error() != "" {
		t.Fatalf("nil error should stringify empty")
	}
}
