package options

import (
	"errors"
	"fmt"
	"strings"
)

// ValidatorError captures the engine and expression of a failed validator
// compilation or evaluation alongside the originating error.
type ValidatorError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *ValidatorError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("options: %s validator %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *ValidatorError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapValidatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var valErr *ValidatorError
	if errors.As(err, &valErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "options:") {
		return err
	}
	return fmt.Errorf("options: %s validator: %w", engine, err)
}

func wrapCompileError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}

	var valErr *ValidatorError
	if errors.As(err, &valErr) {
		if valErr.Engine == "" {
			valErr.Engine = engine
		}
		if valErr.Expr == "" {
			valErr.Expr = expr
		}
		return valErr
	}

	return &ValidatorError{
		Engine: engine,
		Expr:   expr,
		Err:    err,
	}
}
