package options

import "fmt"

// cell is the closed set of concrete option kinds. The unexported methods
// keep the union sealed: only this package can add a kind, and every dispatch
// site below must learn about it.
type cell interface {
	classifier() *Classifier
	uiItem() *UIItem
	valueAny() any
	defaultAny() any
	// trySet reports whether the raw value matched the cell's type; the
	// error is the cell's own validation verdict when it did.
	trySet(raw any) (bool, error)
	resetToDefault()
	isChanged() bool
	storageType() StorageType
	encodeValue() ([]byte, error)
	decodeValue(data []byte) error
}

// changeReason tells the registry what kind of mutation fired its callback,
// so reset and restore can surface as their own lifecycle events.
type changeReason int

const (
	reasonSet changeReason = iota
	reasonReset
	reasonRestore
)

// Option is the uniform facade over exactly one cell. Registries, persistence
// and UI code hold *Option and never the concrete kind.
type Option struct {
	cell     cell
	onChange func(*Option, changeReason)
}

func newOption(c cell) *Option {
	return &Option{cell: c}
}

// Wrap builds the facade for a concrete cell. Constructors for each kind are
// the usual entry point; Wrap exists for cells built separately.
func Wrap[C cell](concrete C) *Option {
	return newOption(concrete)
}

// GetValue returns the active cell's value when its type matches T, and the
// zero value of T otherwise. The permissive mismatch behaviour is deliberate;
// use GetValueStrict to surface mismatches instead.
func GetValue[T any](o *Option) T {
	var zero T
	if o == nil || o.cell == nil {
		return zero
	}
	if value, ok := o.cell.valueAny().(T); ok {
		return value
	}
	return zero
}

// GetValueStrict returns the active cell's value or ErrWrongType when T does
// not match.
func GetValueStrict[T any](o *Option) (T, error) {
	var zero T
	if o == nil || o.cell == nil {
		return zero, fmt.Errorf("%w: empty option", ErrWrongType)
	}
	value, ok := o.cell.valueAny().(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s/%s holds %T, requested %T",
			ErrWrongType, o.Section(), o.Name(), o.cell.valueAny(), zero)
	}
	return value, nil
}

// GetDefaultValue returns the default under the same permissive policy as
// GetValue.
func GetDefaultValue[T any](o *Option) T {
	var zero T
	if o == nil || o.cell == nil {
		return zero
	}
	if value, ok := o.cell.defaultAny().(T); ok {
		return value
	}
	return zero
}

// SetValue forwards to the active cell when T matches its value type and is a
// silent no-op otherwise. A matching value can still fail the cell's own
// validation, which is returned unchanged.
func SetValue[T any](o *Option, value T) error {
	if o == nil || o.cell == nil {
		return nil
	}
	matched, err := o.cell.trySet(value)
	if !matched {
		return nil
	}
	if err == nil {
		o.notifyChanged(reasonSet)
	}
	return err
}

// SetValueStrict is SetValue with mismatches reported as ErrWrongType.
func SetValueStrict[T any](o *Option, value T) error {
	if o == nil || o.cell == nil {
		return fmt.Errorf("%w: empty option", ErrWrongType)
	}
	matched, err := o.cell.trySet(value)
	if !matched {
		return fmt.Errorf("%w: %s/%s holds %T, assigned %T",
			ErrWrongType, o.Section(), o.Name(), o.cell.valueAny(), value)
	}
	if err == nil {
		o.notifyChanged(reasonSet)
	}
	return err
}

// Section returns the classifier section.
func (o *Option) Section() string { return o.cell.classifier().Section }

// Name returns the classifier name.
func (o *Option) Name() string { return o.cell.classifier().Name }

// Key returns the sort tag used for ordering within a section.
func (o *Option) Key() string { return o.cell.classifier().SortTag }

// Doc returns the documentation string.
func (o *Option) Doc() string { return o.cell.classifier().Doc }

// UIKind returns the presentation kind of the active cell.
func (o *Option) UIKind() UIKind { return o.cell.uiItem().UIKind() }

// UIHandle returns the attached control or nil.
func (o *Option) UIHandle() UIHandle { return o.cell.uiItem().UIHandle() }

// SetUIHandle attaches a control; fails for internal options.
func (o *Option) SetUIHandle(handle UIHandle) error {
	return o.cell.uiItem().SetUIHandle(handle)
}

// ClearUIHandle detaches the control; idempotent.
func (o *Option) ClearUIHandle() { o.cell.uiItem().ClearUIHandle() }

// MakeInternal hides the option; fails while a control is attached.
func (o *Option) MakeInternal() error { return o.cell.uiItem().MakeInternal() }

// IsChanged reports whether the current value differs from the default.
func (o *Option) IsChanged() bool { return o.cell.isChanged() }

// ResetToDefault assigns the default back to the cell. It is a value
// assignment, never a reconstruction.
func (o *Option) ResetToDefault() {
	o.cell.resetToDefault()
	o.notifyChanged(reasonReset)
}

// StorageType returns the type tag persisted alongside the value.
func (o *Option) StorageType() StorageType { return o.cell.storageType() }

// MarshalValue encodes the current value for the persistence layer.
// Multichoice selections encode as their key and relative dates as their
// period name, so persisted values survive list or enum reordering.
func (o *Option) MarshalValue() ([]byte, error) {
	return o.cell.encodeValue()
}

// UnmarshalValue restores a persisted value. The record's type tag must match
// the option's; restored values pass through the cell's normal validation, so
// a corrupt payload leaves the current value in place.
func (o *Option) UnmarshalValue(kind StorageType, data []byte) error {
	if kind != o.cell.storageType() {
		return fmt.Errorf("%w: %s/%s stores %q, record is %q",
			ErrWrongType, o.Section(), o.Name(), o.cell.storageType(), kind)
	}
	if err := o.cell.decodeValue(data); err != nil {
		return err
	}
	o.notifyChanged(reasonRestore)
	return nil
}

func (o *Option) setChangedCallback(fn func(*Option, changeReason)) { o.onChange = fn }

func (o *Option) notifyChanged(reason changeReason) {
	if o.onChange != nil {
		o.onChange(o, reason)
	}
}
