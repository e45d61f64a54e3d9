package options

import (
	"encoding/json"
	"reflect"

	"github.com/google/uuid"
)

// EntityRef is an opaque reference to an application entity (an account, an
// invoice, a budget). The engine only stores and round-trips it; resolving the
// reference is the application's business.
type EntityRef struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// QueryRef is an opaque reference to an application query. The serialized
// form is owned by the query engine.
type QueryRef struct {
	ID   uuid.UUID `json:"id"`
	Body string    `json:"body,omitempty"`
}

// ValueType is the closed set of shapes a plain option value can take.
type ValueType interface {
	~string | ~bool | ~int64 | EntityRef | QueryRef | []uuid.UUID
}

// Value is the plain cell: a current and a default value with no validation
// beyond the static type.
type Value[T ValueType] struct {
	Classifier
	UIItem
	value T
	def   T
}

// NewValue constructs a plain cell. The initial value doubles as the default.
func NewValue[T ValueType](section, name, sortTag, doc string, value T, opts ...CellOption) *Value[T] {
	cfg := applyCellOptions(opts)
	return &Value[T]{
		Classifier: Classifier{Section: section, Name: name, SortTag: sortTag, Doc: doc},
		UIItem:     UIItem{kind: cfg.uiKind},
		value:      value,
		def:        value,
	}
}

// GetValue returns the current value.
func (v *Value[T]) GetValue() T {
	return v.value
}

// GetDefaultValue returns the default fixed at construction.
func (v *Value[T]) GetDefaultValue() T {
	return v.def
}

// SetValue stores a new value. Plain cells accept anything of the right type.
func (v *Value[T]) SetValue(value T) error {
	v.value = value
	return nil
}

// Validate always reports true; kept so all cells share one surface.
func (v *Value[T]) Validate(T) bool {
	return true
}

func (v *Value[T]) classifier() *Classifier { return &v.Classifier }
func (v *Value[T]) uiItem() *UIItem         { return &v.UIItem }
func (v *Value[T]) valueAny() any           { return v.value }
func (v *Value[T]) defaultAny() any         { return v.def }

func (v *Value[T]) trySet(raw any) (bool, error) {
	value, ok := raw.(T)
	if !ok {
		return false, nil
	}
	return true, v.SetValue(value)
}

func (v *Value[T]) resetToDefault() { v.value = v.def }

func (v *Value[T]) isChanged() bool {
	return !reflect.DeepEqual(v.value, v.def)
}

func (v *Value[T]) storageType() StorageType { return storageTypeOf[T]() }

func (v *Value[T]) encodeValue() ([]byte, error) {
	return json.Marshal(v.value)
}

func (v *Value[T]) decodeValue(data []byte) error {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return rejectValue(v.Classifier, err.Error())
	}
	return v.SetValue(value)
}

// CellOption configures construction-time cell metadata.
type CellOption func(*cellConfig)

type cellConfig struct {
	uiKind UIKind
}

// WithUIKind overrides the presentation kind a constructor would pick.
func WithUIKind(kind UIKind) CellOption {
	return func(cfg *cellConfig) {
		cfg.uiKind = kind
	}
}

func applyCellOptions(opts []CellOption) cellConfig {
	cfg := cellConfig{uiKind: UIInternal}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
