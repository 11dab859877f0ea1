package govuc

import (
	"errors"
	"testing"
)

func TestDuringWrapsKindAndAction(t *testing.T) {
	sentinel := errors.New("boom")
	err := during(sentinel, ActionReadingControl, KindTransport)
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("during() error is not *Error: %v", err)
	}
	if e.Action != ActionReadingControl {
		t.Errorf("Action = %v, want %v", e.Action, ActionReadingControl)
	}
	if e.Kind != KindTransport {
		t.Errorf("Kind = %v, want %v", e.Kind, KindTransport)
	}
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is(err, sentinel) = false, want true")
	}
}

func TestDuringNilErrIsNil(t *testing.T) {
	if during(nil, ActionReadingControl, KindTransport) != nil {
		t.Error("during(nil, ...) is not nil")
	}
}
