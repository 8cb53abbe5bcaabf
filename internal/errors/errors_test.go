package errors

import (
	stderrors "errors"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New(CodeLockContract)

	if err.Code != CodeLockContract {
		t.Errorf("Code = %s, want %s", err.Code, CodeLockContract)
	}
	if err.Category != CategoryContract {
		t.Errorf("Category = %s, want %s", err.Category, CategoryContract)
	}
	if err.Message == "" || err.Detail == "" || err.DocURL == "" {
		t.Error("registered template fields not populated")
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("N999")

	if err.Code != "N999" {
		t.Errorf("Code = %s, want N999", err.Code)
	}
	if err.Message != "Unknown error" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestErrorFormatting(t *testing.T) {
	err := New(CodeRouteMiss)
	want := "N003: No route matched the location"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := &NavError{Message: "plain"}
	if bare.Error() != "plain" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "plain")
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	inner := stderrors.New("socket closed")
	err := New(CodeProtocolFrame).Wrap(inner)

	if !stderrors.Is(err, inner) {
		t.Error("errors.Is did not find the wrapped error")
	}

	var ne *NavError
	if !stderrors.As(error(err), &ne) {
		t.Fatal("errors.As failed")
	}
	if ne.Code != CodeProtocolFrame {
		t.Errorf("Code = %s, want %s", ne.Code, CodeProtocolFrame)
	}
}

func TestBuilders(t *testing.T) {
	err := New(CodeConfigInvalid).
		WithDetail("port out of range").
		WithSuggestion("use 1-65535")

	if err.Detail != "port out of range" || err.Suggestion != "use 1-65535" {
		t.Errorf("builders did not apply: %+v", err)
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryRuntime, "bad value %d", 7)

	if err.Category != CategoryRuntime {
		t.Errorf("Category = %s", err.Category)
	}
	if err.Message != "bad value 7" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeRouteMiss) != nil {
		t.Error("FromError(nil) != nil")
	}

	existing := New(CodeRouteMiss)
	if got := FromError(existing, CodeConfigInvalid); got != existing {
		t.Error("FromError rewrapped an existing NavError")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, CodeConfigInvalid)
	if got.Code != CodeConfigInvalid || !stderrors.Is(got, plain) {
		t.Errorf("FromError = %+v", got)
	}
}

func TestLookup(t *testing.T) {
	codes := []string{
		CodeLockContract, CodeBacklinkMissing, CodeRouteMiss,
		CodeProtocolFrame, CodeConfigInvalid, CodeProtocolSequence,
	}
	for _, code := range codes {
		if _, ok := Lookup(code); !ok {
			t.Errorf("Lookup(%s) missed", code)
		}
	}
	if _, ok := Lookup("N999"); ok {
		t.Error("Lookup(N999) found an unregistered code")
	}
}
