package options

import (
	"errors"
	"testing"
	"time"
)

func TestExprValidatorBasicPredicate(t *testing.T) {
	validator, err := NewExprValidator[int64]("value > 0 && value <= 100")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if !validator(50) {
		t.Fatalf("expected 50 to be accepted")
	}
	if validator(-1) || validator(101) {
		t.Fatalf("expected out-of-range values to be rejected")
	}
}

func TestExprValidatorCompileError(t *testing.T) {
	_, err := NewExprValidator[int64]("value >")
	if err == nil {
		t.Fatalf("expected compile error")
	}
	var valErr *ValidatorError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidatorError, got %T", err)
	}
	if valErr.Engine != "expr" {
		t.Fatalf("expected engine expr, got %q", valErr.Engine)
	}
}

func TestExprValidatorEmptyExpression(t *testing.T) {
	if _, err := NewExprValidator[string](""); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}

func TestExprValidatorSeesData(t *testing.T) {
	data := map[string]any{"limit": 10}
	validator, err := NewExprValidator[int64]("value < data.limit", ExprWithData(data))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if !validator(5) {
		t.Fatalf("expected 5 < limit to be accepted")
	}
	if validator(15) {
		t.Fatalf("expected 15 to be rejected")
	}
}

func TestExprValidatorSeesClock(t *testing.T) {
	now := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)
	validator, err := NewExprValidator[string](`now.Year() == 2024`,
		ExprWithClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if !validator("anything") {
		t.Fatalf("expected clock-bound expression to hold")
	}
}

func TestExprValidatorCallsRegistryFunctions(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("isEven", func(args ...any) (any, error) {
		n, _ := args[0].(int64)
		return n%2 == 0, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	validator, err := NewExprValidator[int64]("isEven(value)",
		ExprWithFunctionRegistry(registry))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if !validator(4) {
		t.Fatalf("expected 4 to be accepted")
	}
	if validator(3) {
		t.Fatalf("expected 3 to be rejected")
	}
}

func TestExprValidatorUsesProgramCache(t *testing.T) {
	cache := NewMemoryProgramCache()
	if _, err := NewExprValidator[int64]("value > 0", ExprWithProgramCache(cache)); err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if _, ok := cache.Get("value > 0"); !ok {
		t.Fatalf("expected compiled program in cache")
	}
	// The second build must resolve from the cache and stay usable.
	validator, err := NewExprValidator[int64]("value > 0", ExprWithProgramCache(cache))
	if err != nil {
		t.Fatalf("unexpected compile error on cache hit: %v", err)
	}
	if !validator(1) {
		t.Fatalf("cached program must still evaluate")
	}
}

func TestExprValidatorNonBoolResultRejects(t *testing.T) {
	validator, err := NewExprValidator[int64]("value + 1")
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if validator(1) {
		t.Fatalf("non-boolean results must reject the candidate")
	}
}

func TestExprValidatorOnValidatedCell(t *testing.T) {
	validator, err := NewExprValidator[string](`value != "" && len(value) <= 10`)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	cell, err := NewValidated("General", "Code", "a", "", "ok", validator)
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	if err := cell.SetValue("this is far too long"); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if err := cell.SetValue("short"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
