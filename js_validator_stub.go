//go:build !js_eval

package options

import "fmt"

// NewJSValidator is unavailable without the js_eval build tag.
func NewJSValidator[T ValueType](expression string, opts ...JSValidatorOption) (Validator[T], error) {
	_ = applyJSValidatorOptions(opts)
	return nil, wrapValidatorError("js", fmt.Errorf("built without the js_eval tag"))
}

func jsValidatorAvailable() bool {
	return false
}
