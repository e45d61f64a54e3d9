package options

import "time"

type jsValidatorConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
	data     any
	clock    Clock
}

// JSValidatorOption configures the JS validator.
type JSValidatorOption func(*jsValidatorConfig)

// JSWithProgramCache applies a ProgramCache to the JS validator.
func JSWithProgramCache(cache ProgramCache) JSValidatorOption {
	return func(cfg *jsValidatorConfig) {
		cfg.cache = cache
	}
}

// JSWithFunctionRegistry applies a FunctionRegistry to the JS validator.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSValidatorOption {
	return func(cfg *jsValidatorConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

// JSWithData binds auxiliary validation data to the script's "data" global.
func JSWithData(data any) JSValidatorOption {
	return func(cfg *jsValidatorConfig) {
		cfg.data = data
	}
}

// JSWithClock overrides the time source bound to "now".
func JSWithClock(clock Clock) JSValidatorOption {
	return func(cfg *jsValidatorConfig) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

func applyJSValidatorOptions(opts []JSValidatorOption) jsValidatorConfig {
	cfg := jsValidatorConfig{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
