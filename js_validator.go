//go:build js_eval

package options

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsValidator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	data     any
	clock    Clock
}

// NewJSValidator compiles expression into a predicate for validated cells
// using goja. The script sees "value", "data" and "now" as globals; anything
// but a boolean true result rejects the candidate.
func NewJSValidator[T ValueType](expression string, opts ...JSValidatorOption) (Validator[T], error) {
	if expression == "" {
		return nil, wrapValidatorError("js", fmt.Errorf("expression must not be empty"))
	}
	cfg := applyJSValidatorOptions(opts)
	v := &jsValidator{
		cache:    cfg.cache,
		registry: cfg.registry,
		data:     cfg.data,
		clock:    cfg.clock,
	}
	program, err := v.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return func(value T) bool {
		result, err := v.run(program, value)
		if err != nil {
			return false
		}
		accepted, ok := result.(bool)
		return ok && accepted
	}, nil
}

func jsValidatorAvailable() bool {
	return true
}

func (v *jsValidator) loadOrCompile(expression string) (*goja.Program, error) {
	if v.cache != nil {
		if cached, ok := v.cache.Get(expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("validator", expression, true)
	if err != nil {
		return nil, wrapCompileError("js", expression, err)
	}
	if v.cache != nil {
		v.cache.Set(expression, program)
	}
	return program, nil
}

// A fresh runtime per evaluation keeps scripts from leaking state between
// candidates.
func (v *jsValidator) run(program *goja.Program, value any) (any, error) {
	vm := goja.New()
	if err := vm.Set("value", value); err != nil {
		return nil, err
	}
	if err := vm.Set("data", v.data); err != nil {
		return nil, err
	}
	if err := vm.Set("now", v.clock()); err != nil {
		return nil, err
	}
	if v.registry != nil {
		call := func(name string, arguments ...any) (any, error) {
			return v.registry.Call(name, arguments...)
		}
		if err := vm.Set("call", call); err != nil {
			return nil, err
		}
	}
	result, err := vm.RunProgram(program)
	if err != nil {
		return nil, err
	}
	return result.Export(), nil
}
