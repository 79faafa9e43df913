package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := Wrap(fmt.Errorf("open lib/foo.ex: no such file"), CodeNotFound, "source file missing")

	msg := err.Error()
	if !strings.Contains(msg, "[NOT_FOUND]") {
		t.Errorf("message %q missing code", msg)
	}
	if !strings.Contains(msg, "source file missing") {
		t.Errorf("message %q missing description", msg)
	}
	if !strings.Contains(msg, "no such file") {
		t.Errorf("message %q missing cause", msg)
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(cause, CodeInternal, "analysis failed")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeValidationError, "bad config")

	if !IsCode(err, CodeValidationError) {
		t.Error("IsCode missed matching code")
	}
	if IsCode(err, CodeNotFound) {
		t.Error("IsCode matched wrong code")
	}
	if IsCode(fmt.Errorf("plain"), CodeInternal) {
		t.Error("IsCode matched a non-domain error")
	}
}

func TestAddContext(t *testing.T) {
	err := AddContext(New(CodeNotFound, "container missing"), CtxContainer, "Foo.Bar")

	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatal("expected a DomainError")
	}
	if de.Context[CtxContainer] != "Foo.Bar" {
		t.Errorf("context = %v", de.Context)
	}

	plain := AddContext(fmt.Errorf("plain"), CtxPath, "lib/foo.ex")
	if !IsCode(plain, CodeInternal) {
		t.Error("plain errors must be wrapped as internal")
	}
}
