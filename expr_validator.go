package options

import (
	"fmt"
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprValidatorOption configures an expr-backed validator.
type ExprValidatorOption func(*exprValidator)

// ExprWithProgramCache wires a ProgramCache into the validator.
func ExprWithProgramCache(cache ProgramCache) ExprValidatorOption {
	return func(v *exprValidator) {
		v.cache = cache
	}
}

// ExprWithFunctionRegistry exposes registry functions to the expression.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprValidatorOption {
	return func(v *exprValidator) {
		if registry == nil {
			return
		}
		v.registry = registry.Clone()
	}
}

// ExprWithData binds auxiliary validation data to the expression's "data"
// variable.
func ExprWithData(data any) ExprValidatorOption {
	return func(v *exprValidator) {
		v.data = data
	}
}

// ExprWithClock overrides the time source bound to "now".
func ExprWithClock(clock Clock) ExprValidatorOption {
	return func(v *exprValidator) {
		if clock != nil {
			v.clock = clock
		}
	}
}

// exprValidator compiles predicates using github.com/expr-lang/expr.
type exprValidator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	data     any
	clock    Clock
}

// NewExprValidator compiles expression into a predicate for validated cells.
// The expression sees the candidate as "value", the auxiliary data as "data"
// and the clock as "now"; anything but a true result rejects the candidate.
func NewExprValidator[T ValueType](expression string, opts ...ExprValidatorOption) (Validator[T], error) {
	if expression == "" {
		return nil, wrapValidatorError("expr", fmt.Errorf("expression must not be empty"))
	}
	v := &exprValidator{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	program, err := v.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return func(value T) bool {
		result, err := exprlang.Run(program, v.environment(value))
		if err != nil {
			return false
		}
		accepted, ok := result.(bool)
		return ok && accepted
	}, nil
}

func (v *exprValidator) loadOrCompile(expression string) (*exprvm.Program, error) {
	if v.cache != nil {
		if cached, ok := v.cache.Get(expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	// Declaring now as a time.Time keeps the environment variable from being
	// shadowed by expr's builtin now() and makes method calls on it compile.
	options := []exprlang.Option{
		exprlang.Env(map[string]any{
			"now": time.Time{},
		}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range v.registryNames() {
		fn := v.registryFunction(name)
		options = append(options, exprlang.Function(name, fn))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapCompileError("expr", expression, err)
	}
	if v.cache != nil {
		v.cache.Set(expression, program)
	}
	return program, nil
}

func (v *exprValidator) environment(value any) map[string]any {
	env := map[string]any{
		"value": value,
		"data":  v.data,
		"now":   v.clock(),
	}
	if v.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return v.registry.Call(name, arguments...)
		}
		for _, name := range v.registry.Names() {
			fn := name
			env[fn] = func(arguments ...any) (any, error) {
				return v.registry.Call(fn, arguments...)
			}
		}
	}
	return env
}

func (v *exprValidator) registryNames() []string {
	if v == nil || v.registry == nil {
		return nil
	}
	return v.registry.Names()
}

func (v *exprValidator) registryFunction(name string) func(...any) (any, error) {
	if v == nil || v.registry == nil {
		return nil
	}
	return func(arguments ...any) (any, error) {
		return v.registry.Call(name, arguments...)
	}
}
