package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := WithMetadata(CodeIllegalTransition, "validee -> brouillon", map[string]string{"From": "validee"})
	if !errors.Is(err, New(CodeIllegalTransition, "")) {
		t.Fatal("expected errors.Is to match on code")
	}
	if errors.Is(err, New(CodeSituationNotDraft, "")) {
		t.Fatal("expected different codes not to match")
	}
}

func TestKindFromWrappedError(t *testing.T) {
	err := fmt.Errorf("validate situation: %w", New(CodeStaleBaseline, "baseline moved"))
	if got := KindFromError(err); got != KindConflict {
		t.Fatalf("expected KindConflict, got %d", got)
	}
	code, ok := CodeFromError(err)
	if !ok || code != CodeStaleBaseline {
		t.Fatalf("expected STALE_BASELINE, got %q (ok=%v)", code, ok)
	}
}

func TestKindFromForeignError(t *testing.T) {
	if got := KindFromError(errors.New("disk full")); got != KindUnknown {
		t.Fatalf("expected KindUnknown, got %d", got)
	}
}

func TestIllegalStateAndValidationAreDistinct(t *testing.T) {
	if KindOf(CodeSituationNotDraft) == KindOf(CodeCumulRegression) {
		t.Fatal("illegal-state and validation failures must be distinct kinds")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("sqlite busy")
	err := Wrap(CodeInvalidRequest, "load", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
}
