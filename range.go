package options

import "encoding/json"

// RangeNumber is the closed set of numeric shapes a range cell supports.
type RangeNumber interface {
	~int | ~int64 | ~float64
}

// RangeValue is a numeric cell bounded to [min, max]. Construction clamps an
// out-of-range initial value to min; later mutation rejects instead of
// clamping, so a UI spin button can surface the failure.
type RangeValue[T RangeNumber] struct {
	Classifier
	UIItem
	value T
	def   T
	min   T
	max   T
	step  T
}

// NewRange constructs a range cell. Out-of-range construction input falls
// back to min rather than failing.
func NewRange[T RangeNumber](section, name, sortTag, doc string, value, min, max, step T) *RangeValue[T] {
	if value < min || value > max {
		value = min
	}
	return &RangeValue[T]{
		Classifier: Classifier{Section: section, Name: name, SortTag: sortTag, Doc: doc},
		UIItem:     UIItem{kind: UINumberRange},
		value:      value,
		def:        value,
		min:        min,
		max:        max,
		step:       step,
	}
}

// GetValue returns the current value.
func (r *RangeValue[T]) GetValue() T {
	return r.value
}

// GetDefaultValue returns the default fixed at construction.
func (r *RangeValue[T]) GetDefaultValue() T {
	return r.def
}

// Min returns the lower bound.
func (r *RangeValue[T]) Min() T { return r.min }

// Max returns the upper bound.
func (r *RangeValue[T]) Max() T { return r.max }

// Step returns the UI increment. The cell itself does not quantize values.
func (r *RangeValue[T]) Step() T { return r.step }

// Validate reports whether value lies within [min, max].
func (r *RangeValue[T]) Validate(value T) bool {
	return value >= r.min && value <= r.max
}

// SetValue stores value when it lies within the bounds; out-of-range values
// are rejected with ErrValidationFailed, not clamped.
func (r *RangeValue[T]) SetValue(value T) error {
	if !r.Validate(value) {
		return rejectValue(r.Classifier, "value outside range")
	}
	r.value = value
	return nil
}

func (r *RangeValue[T]) classifier() *Classifier { return &r.Classifier }
func (r *RangeValue[T]) uiItem() *UIItem         { return &r.UIItem }
func (r *RangeValue[T]) valueAny() any           { return r.value }
func (r *RangeValue[T]) defaultAny() any         { return r.def }

func (r *RangeValue[T]) trySet(raw any) (bool, error) {
	value, ok := raw.(T)
	if !ok {
		return false, nil
	}
	return true, r.SetValue(value)
}

func (r *RangeValue[T]) resetToDefault() { r.value = r.def }

func (r *RangeValue[T]) isChanged() bool { return r.value != r.def }

func (r *RangeValue[T]) storageType() StorageType { return storageTypeOf[T]() }

func (r *RangeValue[T]) encodeValue() ([]byte, error) {
	return json.Marshal(r.value)
}

func (r *RangeValue[T]) decodeValue(data []byte) error {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return rejectValue(r.Classifier, err.Error())
	}
	return r.SetValue(value)
}
