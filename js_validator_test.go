package options

import (
	"testing"
)

func TestJSValidatorAvailability(t *testing.T) {
	if !jsValidatorAvailable() {
		if _, err := NewJSValidator[int64]("value > 0"); err == nil {
			t.Fatalf("expected error when built without the js_eval tag")
		}
		t.Skip("js validator not built in")
	}

	validator, err := NewJSValidator[int64]("value > 0 && value <= 100")
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

func TestJSValidatorCompileError(t *testing.T) {
	if !jsValidatorAvailable() {
		t.Skip("js validator not built in")
	}
	if _, err := NewJSValidator[int64]("value >"); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestJSValidatorSeesData(t *testing.T) {
	if !jsValidatorAvailable() {
		t.Skip("js validator not built in")
	}
	data := map[string]any{"limit": 10}
	validator, err := NewJSValidator[int64]("value < data.limit", JSWithData(data))
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

func TestJSValidatorCallsRegistryFunctions(t *testing.T) {
	if !jsValidatorAvailable() {
		t.Skip("js validator not built in")
	}
	registry := NewFunctionRegistry()
	if err := registry.Register("allowed", func(args ...any) (any, error) {
		return args[0] == "ok", nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	validator, err := NewJSValidator[string](`call("allowed", value)`,
		JSWithFunctionRegistry(registry))
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if !validator("ok") {
		t.Fatalf("expected registry-approved value to be accepted")
	}
	if validator("nope") {
		t.Fatalf("expected registry-rejected value to be rejected")
	}
}

func TestJSValidatorUsesProgramCache(t *testing.T) {
	if !jsValidatorAvailable() {
		t.Skip("js validator not built in")
	}
	cache := NewMemoryProgramCache()
	if _, err := NewJSValidator[int64]("value > 0", JSWithProgramCache(cache)); err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if _, ok := cache.Get("value > 0"); !ok {
		t.Fatalf("expected compiled program in cache")
	}
}
