package options

import (
	"encoding/json"
	"reflect"
)

// Validator is a pure predicate over a candidate value. It must not mutate
// anything; cells call it both before storing and on behalf of callers doing
// pre-flight checks.
type Validator[T any] func(T) bool

// ValidatedValue is a plain cell plus a caller-supplied predicate. Every
// mutation, construction included, must pass the predicate.
type ValidatedValue[T ValueType] struct {
	Classifier
	UIItem
	value     T
	def       T
	validator Validator[T]
	data      any
}

// NewValidated constructs a validated cell. The initial value must pass the
// predicate or construction fails with ErrInvalidArgument.
func NewValidated[T ValueType](section, name, sortTag, doc string, value T, validator Validator[T], opts ...ValidatedOption) (*ValidatedValue[T], error) {
	cfg := validatedConfig{cell: cellConfig{uiKind: UIInternal}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cell := &ValidatedValue[T]{
		Classifier: Classifier{Section: section, Name: name, SortTag: sortTag, Doc: doc},
		UIItem:     UIItem{kind: cfg.cell.uiKind},
		value:      value,
		def:        value,
		validator:  validator,
		data:       cfg.data,
	}
	if !cell.Validate(value) {
		return nil, rejectConstruction(cell.Classifier, "initial value fails validation")
	}
	return cell, nil
}

// ValidatedOption configures a validated cell at construction.
type ValidatedOption func(*validatedConfig)

type validatedConfig struct {
	cell cellConfig
	data any
}

// ValidatedWithUIKind overrides the default internal presentation kind.
func ValidatedWithUIKind(kind UIKind) ValidatedOption {
	return func(cfg *validatedConfig) {
		cfg.cell.uiKind = kind
	}
}

// ValidatedWithData attaches auxiliary validation data. The cell only stores
// it; validators that need it capture it or read it via ValidationData.
func ValidatedWithData(data any) ValidatedOption {
	return func(cfg *validatedConfig) {
		cfg.data = data
	}
}

// GetValue returns the current value.
func (v *ValidatedValue[T]) GetValue() T {
	return v.value
}

// GetDefaultValue returns the default fixed at construction.
func (v *ValidatedValue[T]) GetDefaultValue() T {
	return v.def
}

// ValidationData returns the auxiliary data attached at construction, or nil.
func (v *ValidatedValue[T]) ValidationData() any {
	return v.data
}

// Validate reports whether value would be accepted. A nil validator accepts
// everything.
func (v *ValidatedValue[T]) Validate(value T) bool {
	if v.validator == nil {
		return true
	}
	return v.validator(value)
}

// SetValue stores value after validation. A rejected value leaves the cell
// untouched and returns ErrValidationFailed.
func (v *ValidatedValue[T]) SetValue(value T) error {
	if !v.Validate(value) {
		return rejectValue(v.Classifier, "value rejected by validator")
	}
	v.value = value
	return nil
}

func (v *ValidatedValue[T]) classifier() *Classifier { return &v.Classifier }
func (v *ValidatedValue[T]) uiItem() *UIItem         { return &v.UIItem }
func (v *ValidatedValue[T]) valueAny() any           { return v.value }
func (v *ValidatedValue[T]) defaultAny() any         { return v.def }

func (v *ValidatedValue[T]) trySet(raw any) (bool, error) {
	value, ok := raw.(T)
	if !ok {
		return false, nil
	}
	return true, v.SetValue(value)
}

func (v *ValidatedValue[T]) resetToDefault() { v.value = v.def }

func (v *ValidatedValue[T]) isChanged() bool {
	return !reflect.DeepEqual(v.value, v.def)
}

func (v *ValidatedValue[T]) storageType() StorageType { return storageTypeOf[T]() }

func (v *ValidatedValue[T]) encodeValue() ([]byte, error) {
	return json.Marshal(v.value)
}

func (v *ValidatedValue[T]) decodeValue(data []byte) error {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return rejectValue(v.Classifier, err.Error())
	}
	return v.SetValue(value)
}
