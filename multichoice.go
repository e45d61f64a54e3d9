package options

import (
	"encoding/json"
	"fmt"
)

// Choice is one selectable entry of a multichoice cell. Key is the addressing
// and persistence identity; Name and Description are display strings the UI
// localizes at the point of use.
type Choice struct {
	Key         string
	Name        string
	Description string
}

// ChoiceNotFound is the soft "no such key" sentinel returned by
// PermissibleValueIndex. UI code probes keys speculatively, so a missing key
// is not an error there.
const ChoiceNotFound = -1

// MultichoiceValue selects one entry out of an ordered list. The stored value
// is the index into the list; callers address entries by key. Duplicate keys
// resolve to the first match in declaration order.
type MultichoiceValue struct {
	Classifier
	UIItem
	value   int
	def     int
	choices []Choice
}

// MultichoiceOption configures a multichoice cell at construction.
type MultichoiceOption func(*multichoiceConfig)

type multichoiceConfig struct {
	uiKind     UIKind
	defaultKey string
}

// MultichoiceWithUIKind overrides the presentation kind, e.g. UIRadioButton.
func MultichoiceWithUIKind(kind UIKind) MultichoiceOption {
	return func(cfg *multichoiceConfig) {
		cfg.uiKind = kind
	}
}

// MultichoiceWithDefault selects the default entry by key instead of the
// first entry.
func MultichoiceWithDefault(key string) MultichoiceOption {
	return func(cfg *multichoiceConfig) {
		cfg.defaultKey = key
	}
}

// NewMultichoice constructs a multichoice cell. The list must not be empty;
// with no explicit default the first entry is selected.
func NewMultichoice(section, name, sortTag, doc string, choices []Choice, opts ...MultichoiceOption) (*MultichoiceValue, error) {
	cfg := multichoiceConfig{uiKind: UIMultichoice}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cell := &MultichoiceValue{
		Classifier: Classifier{Section: section, Name: name, SortTag: sortTag, Doc: doc},
		UIItem:     UIItem{kind: cfg.uiKind},
		choices:    append([]Choice(nil), choices...),
	}
	if len(cell.choices) == 0 {
		return nil, rejectConstruction(cell.Classifier, "multichoice needs at least one choice")
	}
	if cfg.defaultKey != "" {
		index := cell.findKey(cfg.defaultKey)
		if index == ChoiceNotFound {
			return nil, rejectConstruction(cell.Classifier, fmt.Sprintf("default choice %q not in list", cfg.defaultKey))
		}
		cell.value = index
		cell.def = index
	}
	return cell, nil
}

// GetValue returns the key of the selected entry.
func (m *MultichoiceValue) GetValue() string {
	return m.choices[m.value].Key
}

// GetDefaultValue returns the key of the default entry.
func (m *MultichoiceValue) GetDefaultValue() string {
	return m.choices[m.def].Key
}

// Validate reports whether key names an entry.
func (m *MultichoiceValue) Validate(key string) bool {
	return m.findKey(key) != ChoiceNotFound
}

// SetValue selects the entry named by key. An unknown key is a validation
// failure and leaves the selection unchanged.
func (m *MultichoiceValue) SetValue(key string) error {
	index := m.findKey(key)
	if index == ChoiceNotFound {
		return rejectValue(m.Classifier, fmt.Sprintf("%q is not a valid choice", key))
	}
	m.value = index
	return nil
}

// NumPermissibleValues returns the number of entries.
func (m *MultichoiceValue) NumPermissibleValues() int {
	return len(m.choices)
}

// PermissibleValueIndex returns the index of key, or ChoiceNotFound.
func (m *MultichoiceValue) PermissibleValueIndex(key string) int {
	return m.findKey(key)
}

// PermissibleValue returns the key at index.
func (m *MultichoiceValue) PermissibleValue(index int) (string, error) {
	choice, err := m.choiceAt(index)
	if err != nil {
		return "", err
	}
	return choice.Key, nil
}

// PermissibleValueName returns the display name at index.
func (m *MultichoiceValue) PermissibleValueName(index int) (string, error) {
	choice, err := m.choiceAt(index)
	if err != nil {
		return "", err
	}
	return choice.Name, nil
}

// PermissibleValueDescription returns the description at index.
func (m *MultichoiceValue) PermissibleValueDescription(index int) (string, error) {
	choice, err := m.choiceAt(index)
	if err != nil {
		return "", err
	}
	return choice.Description, nil
}

func (m *MultichoiceValue) choiceAt(index int) (Choice, error) {
	if index < 0 || index >= len(m.choices) {
		return Choice{}, fmt.Errorf("%w: choice %d of %d", ErrOutOfRange, index, len(m.choices))
	}
	return m.choices[index], nil
}

// First match wins when keys are duplicated.
func (m *MultichoiceValue) findKey(key string) int {
	for i, choice := range m.choices {
		if choice.Key == key {
			return i
		}
	}
	return ChoiceNotFound
}

func (m *MultichoiceValue) classifier() *Classifier { return &m.Classifier }
func (m *MultichoiceValue) uiItem() *UIItem         { return &m.UIItem }
func (m *MultichoiceValue) valueAny() any           { return m.GetValue() }
func (m *MultichoiceValue) defaultAny() any         { return m.GetDefaultValue() }

func (m *MultichoiceValue) trySet(raw any) (bool, error) {
	key, ok := raw.(string)
	if !ok {
		return false, nil
	}
	return true, m.SetValue(key)
}

func (m *MultichoiceValue) resetToDefault() { m.value = m.def }

func (m *MultichoiceValue) isChanged() bool { return m.value != m.def }

func (m *MultichoiceValue) storageType() StorageType { return StorageChoice }

// Persisted by key, never by index, so a reordered choice list still restores
// the same entry.
func (m *MultichoiceValue) encodeValue() ([]byte, error) {
	return json.Marshal(m.GetValue())
}

func (m *MultichoiceValue) decodeValue(data []byte) error {
	var key string
	if err := json.Unmarshal(data, &key); err != nil {
		return rejectValue(m.Classifier, err.Error())
	}
	return m.SetValue(key)
}
