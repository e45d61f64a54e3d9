package options

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-appoptions/pkg/activity"
)

// Set owns a collection of options addressed by (section, name). It is the
// registry report and application code consult; the engine is single-threaded
// by design, so a Set shared across goroutines needs external locking.
type Set struct {
	byKey   map[setKey]*Option
	order   []*Option
	emitter *activity.Emitter
	logger  ChangeLogger
}

type setKey struct {
	section string
	name    string
}

// SetOption configures a Set at construction.
type SetOption func(*Set)

// WithEmitter fans option change events out to activity hooks.
func WithEmitter(emitter *activity.Emitter) SetOption {
	return func(s *Set) {
		s.emitter = emitter
	}
}

// WithChangeLogger records successful mutations of registered options.
func WithChangeLogger(logger ChangeLogger) SetOption {
	return func(s *Set) {
		if logger == nil {
			s.logger = noopChangeLogger{}
			return
		}
		s.logger = logger
	}
}

// NewSet constructs an empty registry.
func NewSet(opts ...SetOption) *Set {
	s := &Set{
		byKey:  make(map[setKey]*Option),
		logger: noopChangeLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register adds an option. The (section, name) pair must be unique within the
// set.
func (s *Set) Register(option *Option) error {
	if option == nil {
		return fmt.Errorf("%w: nil option", ErrInvalidArgument)
	}
	key := setKey{section: option.Section(), name: option.Name()}
	if key.section == "" || key.name == "" {
		return fmt.Errorf("%w: option needs a section and a name", ErrInvalidArgument)
	}
	if _, exists := s.byKey[key]; exists {
		return fmt.Errorf("%w: %s/%s already registered", ErrInvalidArgument, key.section, key.name)
	}
	s.byKey[key] = option
	s.order = append(s.order, option)
	option.setChangedCallback(s.optionChanged)
	return nil
}

// Lookup returns the option registered under (section, name), or nil. Missing
// options are routine for UI code probing pages, so no error is returned.
func (s *Set) Lookup(section, name string) *Option {
	return s.byKey[setKey{section: section, name: name}]
}

// Len returns the number of registered options.
func (s *Set) Len() int {
	return len(s.order)
}

// Sections returns the distinct section names in sorted order.
func (s *Set) Sections() []string {
	seen := make(map[string]struct{})
	var sections []string
	for _, option := range s.order {
		if _, ok := seen[option.Section()]; ok {
			continue
		}
		seen[option.Section()] = struct{}{}
		sections = append(sections, option.Section())
	}
	sort.Strings(sections)
	return sections
}

// SectionOptions returns the options of one section ordered by sort tag, with
// the name breaking ties.
func (s *Set) SectionOptions(section string) []*Option {
	var result []*Option
	for _, option := range s.order {
		if option.Section() == section {
			result = append(result, option)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Key() != result[j].Key() {
			return result[i].Key() < result[j].Key()
		}
		return result[i].Name() < result[j].Name()
	})
	return result
}

// ForEach visits every option in registration order.
func (s *Set) ForEach(fn func(*Option)) {
	if fn == nil {
		return
	}
	for _, option := range s.order {
		fn(option)
	}
}

// IsChanged reports whether any registered option differs from its default.
func (s *Set) IsChanged() bool {
	for _, option := range s.order {
		if option.IsChanged() {
			return true
		}
	}
	return false
}

// ResetAll assigns every option its default value.
func (s *Set) ResetAll() {
	for _, option := range s.order {
		option.ResetToDefault()
	}
}

// AnnounceRestored fans a set.restored event out to the activity hooks. The
// persistence bridge calls it after loading a book's records back into the
// set.
func (s *Set) AnnounceRestored(ctx context.Context) error {
	if !s.emitter.Enabled() {
		return nil
	}
	return s.emitter.Emit(ctx, activity.BuildSetRestoredEvent(activity.OptionEventInput{}))
}

func (s *Set) optionChanged(option *Option, reason changeReason) {
	s.logger.LogChange(ChangeLogEvent{
		Section: option.Section(),
		Name:    option.Name(),
		Value:   option.cell.valueAny(),
		Changed: option.IsChanged(),
	})
	if !s.emitter.Enabled() {
		return
	}
	input := activity.OptionEventInput{
		Section:  option.Section(),
		Name:     option.Name(),
		NewValue: option.cell.valueAny(),
	}
	event := activity.BuildOptionChangedEvent(input)
	if reason == reasonReset {
		event = activity.BuildOptionResetEvent(input)
	}
	_ = s.emitter.Emit(context.Background(), event)
}
