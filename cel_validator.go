package options

import (
	"fmt"
	"time"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELValidatorOption configures a CEL-backed validator.
type CELValidatorOption func(*celValidator)

// CELWithProgramCache wires a ProgramCache into the validator.
func CELWithProgramCache(cache ProgramCache) CELValidatorOption {
	return func(v *celValidator) {
		v.cache = cache
	}
}

// CELWithFunctionRegistry exposes registry functions through "call".
func CELWithFunctionRegistry(registry *FunctionRegistry) CELValidatorOption {
	return func(v *celValidator) {
		if registry == nil {
			return
		}
		v.registry = registry.Clone()
	}
}

// CELWithData binds auxiliary validation data to the expression's "data"
// variable.
func CELWithData(data any) CELValidatorOption {
	return func(v *celValidator) {
		v.data = data
	}
}

// CELWithClock overrides the time source bound to "now".
func CELWithClock(clock Clock) CELValidatorOption {
	return func(v *celValidator) {
		if clock != nil {
			v.clock = clock
		}
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celValidator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	data     any
	clock    Clock
}

// NewCELValidator compiles expression into a predicate for validated cells
// using cel-go. The environment mirrors the expr validator: "value", "data",
// "now", plus "call" when a registry is wired.
func NewCELValidator[T ValueType](expression string, opts ...CELValidatorOption) (Validator[T], error) {
	if expression == "" {
		return nil, wrapValidatorError("cel", fmt.Errorf("expression must not be empty"))
	}
	v := &celValidator{clock: time.Now}
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
		out, _, err := program.program.Eval(v.activation(value))
		if err != nil {
			return false
		}
		accepted, ok := out.Value().(bool)
		return ok && accepted
	}, nil
}

func (v *celValidator) loadOrCompile(expression string) (*celProgram, error) {
	if v.cache != nil {
		if cached, ok := v.cache.Get(expression); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := v.buildEnv()
	if err != nil {
		return nil, wrapCompileError("cel", expression, err)
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapCompileError("cel", expression, issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, wrapCompileError("cel", expression, issues.Err())
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, wrapCompileError("cel", expression, err)
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if v.cache != nil {
		v.cache.Set(expression, bundle)
	}
	return bundle, nil
}

func (v *celValidator) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("value", celgo.DynType),
		celgo.Variable("data", celgo.DynType),
		celgo.Variable("now", celgo.TimestampType),
	}
	if v.registry != nil {
		binding := v.callBinding()
		opts = append(opts, celgo.Function("call", celgo.Overload(
			"call_dyn",
			[]*celgo.Type{celgo.StringType},
			celgo.DynType,
			celgo.FunctionBinding(func(values ...ref.Val) ref.Val {
				return binding(values)
			}),
		)))
	}
	return celgo.NewEnv(opts...)
}

func (v *celValidator) activation(value any) map[string]any {
	data := v.data
	if data == nil {
		data = map[string]any{}
	}
	activation := map[string]any{
		"value": value,
		"data":  data,
		"now":   v.clock(),
	}
	if v.registry != nil {
		activation["call"] = func(name string, arguments ...any) (any, error) {
			return v.registry.Call(name, arguments...)
		}
	}
	return activation
}

func (v *celValidator) callBinding() func([]ref.Val) ref.Val {
	return func(values []ref.Val) ref.Val {
		if v.registry == nil {
			return types.NewErr("options: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("options: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("options: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := v.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
