// Package decl builds option sets from YAML declaration documents, so report
// plugins can ship their option pages as data instead of construction code.
package decl

import (
	"fmt"
	"os"
	"time"

	options "github.com/goliatone/go-appoptions"
	"gopkg.in/yaml.v3"
)

// Document is the root of a declaration file.
type Document struct {
	Sections []Section `yaml:"sections"`
}

// Section groups option declarations under one section name.
type Section struct {
	Name    string   `yaml:"name"`
	Options []Option `yaml:"options"`
}

// Option declares a single option. Kind selects the cell family; the other
// fields apply per kind.
type Option struct {
	Kind    string `yaml:"kind"` // string, text, bool, int64, range-int, range-float, multichoice, date
	Name    string `yaml:"name"`
	SortTag string `yaml:"sort_tag"`
	Doc     string `yaml:"doc"`
	UI      string `yaml:"ui,omitempty"`

	Default any `yaml:"default,omitempty"`

	Min  *float64 `yaml:"min,omitempty"`
	Max  *float64 `yaml:"max,omitempty"`
	Step *float64 `yaml:"step,omitempty"`

	Choices       []Choice `yaml:"choices,omitempty"`
	DefaultChoice string   `yaml:"default_choice,omitempty"`

	Period    string     `yaml:"period,omitempty"`   // relative date period name
	Boundary  string     `yaml:"boundary,omitempty"` // starting or ending
	Validator *Validator `yaml:"validator,omitempty"`
}

// Choice declares one multichoice entry.
type Choice struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Validator declares an expression predicate for string, bool and int64
// options.
type Validator struct {
	Engine string `yaml:"engine"` // expr or cel
	Expr   string `yaml:"expr"`
}

var knownKinds = map[string]struct{}{
	"string": {}, "text": {}, "bool": {}, "int64": {},
	"range-int": {}, "range-float": {}, "multichoice": {}, "date": {},
}

// Validate checks the document for structural problems before any cell is
// constructed.
func (d Document) Validate() error {
	type key struct{ section, name string }
	seen := map[key]struct{}{}
	for _, section := range d.Sections {
		if section.Name == "" {
			return fmt.Errorf("decl: section without a name")
		}
		for _, option := range section.Options {
			if option.Name == "" {
				return fmt.Errorf("decl: section %q has an option without a name", section.Name)
			}
			k := key{section: section.Name, name: option.Name}
			if _, dup := seen[k]; dup {
				return fmt.Errorf("decl: duplicate option %s/%s", section.Name, option.Name)
			}
			seen[k] = struct{}{}
			if _, ok := knownKinds[option.Kind]; !ok {
				return fmt.Errorf("decl: option %s/%s has unknown kind %q", section.Name, option.Name, option.Kind)
			}
			switch option.Kind {
			case "range-int", "range-float":
				if option.Min == nil || option.Max == nil {
					return fmt.Errorf("decl: range option %s/%s needs min and max", section.Name, option.Name)
				}
			case "multichoice":
				if len(option.Choices) == 0 {
					return fmt.Errorf("decl: multichoice option %s/%s has no choices", section.Name, option.Name)
				}
			}
			if option.Validator != nil {
				switch option.Validator.Engine {
				case "expr", "cel":
				default:
					return fmt.Errorf("decl: option %s/%s has unknown validator engine %q",
						section.Name, option.Name, option.Validator.Engine)
				}
			}
		}
	}
	return nil
}

// Parse decodes and validates a declaration document.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decl: parse: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Load reads and parses a declaration file.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("decl: read %s: %w", path, err)
	}
	return Parse(data)
}

// BuildOption configures set construction.
type BuildOption func(*builder)

type builder struct {
	clock    options.Clock
	cache    options.ProgramCache
	registry *options.FunctionRegistry
	setOpts  []options.SetOption
}

// BuildWithClock injects the time source for declared date options.
func BuildWithClock(clock options.Clock) BuildOption {
	return func(b *builder) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// BuildWithProgramCache shares a compiled-validator cache across options.
func BuildWithProgramCache(cache options.ProgramCache) BuildOption {
	return func(b *builder) {
		b.cache = cache
	}
}

// BuildWithFunctionRegistry exposes helper functions to declared validators.
func BuildWithFunctionRegistry(registry *options.FunctionRegistry) BuildOption {
	return func(b *builder) {
		b.registry = registry
	}
}

// BuildWithSetOptions forwards options to the underlying Set constructor.
func BuildWithSetOptions(opts ...options.SetOption) BuildOption {
	return func(b *builder) {
		b.setOpts = append(b.setOpts, opts...)
	}
}

// Build constructs a populated Set from a validated document.
func Build(doc Document, opts ...BuildOption) (*options.Set, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	b := &builder{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	set := options.NewSet(b.setOpts...)
	for _, section := range doc.Sections {
		for _, decl := range section.Options {
			option, err := b.buildOption(section.Name, decl)
			if err != nil {
				return nil, err
			}
			if err := set.Register(option); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

func (b *builder) buildOption(section string, decl Option) (*options.Option, error) {
	switch decl.Kind {
	case "string", "text":
		return b.buildString(section, decl)
	case "bool":
		return b.buildBool(section, decl)
	case "int64":
		return b.buildInt64(section, decl)
	case "range-int":
		value := coerceFloat(decl.Default, *decl.Min)
		step := 1.0
		if decl.Step != nil {
			step = *decl.Step
		}
		cell := options.NewRange[int64](section, decl.Name, decl.SortTag, decl.Doc,
			int64(value), int64(*decl.Min), int64(*decl.Max), int64(step))
		return options.Wrap(cell), nil
	case "range-float":
		value := coerceFloat(decl.Default, *decl.Min)
		step := 1.0
		if decl.Step != nil {
			step = *decl.Step
		}
		cell := options.NewRange[float64](section, decl.Name, decl.SortTag, decl.Doc,
			value, *decl.Min, *decl.Max, step)
		return options.Wrap(cell), nil
	case "multichoice":
		return b.buildMultichoice(section, decl)
	case "date":
		return b.buildDate(section, decl)
	}
	return nil, fmt.Errorf("decl: option %s/%s has unknown kind %q", section, decl.Name, decl.Kind)
}

func (b *builder) buildString(section string, decl Option) (*options.Option, error) {
	value, _ := decl.Default.(string)
	fallback := options.UIString
	if decl.Kind == "text" {
		fallback = options.UIText
	}
	uiKind, err := b.declaredUIKind(decl, fallback)
	if err != nil {
		return nil, err
	}
	if decl.Validator == nil {
		cell := options.NewValue(section, decl.Name, decl.SortTag, decl.Doc, value,
			options.WithUIKind(uiKind))
		return options.Wrap(cell), nil
	}
	validator, err := buildValidator[string](b, *decl.Validator)
	if err != nil {
		return nil, err
	}
	cell, err := options.NewValidated(section, decl.Name, decl.SortTag, decl.Doc, value,
		validator, options.ValidatedWithUIKind(uiKind))
	if err != nil {
		return nil, err
	}
	return options.Wrap(cell), nil
}

func (b *builder) buildBool(section string, decl Option) (*options.Option, error) {
	value, _ := decl.Default.(bool)
	uiKind, err := b.declaredUIKind(decl, options.UIBoolean)
	if err != nil {
		return nil, err
	}
	cell := options.NewValue(section, decl.Name, decl.SortTag, decl.Doc, value,
		options.WithUIKind(uiKind))
	return options.Wrap(cell), nil
}

func (b *builder) buildInt64(section string, decl Option) (*options.Option, error) {
	value := int64(coerceFloat(decl.Default, 0))
	uiKind, err := b.declaredUIKind(decl, options.UIInternal)
	if err != nil {
		return nil, err
	}
	if decl.Validator == nil {
		cell := options.NewValue(section, decl.Name, decl.SortTag, decl.Doc, value,
			options.WithUIKind(uiKind))
		return options.Wrap(cell), nil
	}
	validator, err := buildValidator[int64](b, *decl.Validator)
	if err != nil {
		return nil, err
	}
	cell, err := options.NewValidated(section, decl.Name, decl.SortTag, decl.Doc, value,
		validator, options.ValidatedWithUIKind(uiKind))
	if err != nil {
		return nil, err
	}
	return options.Wrap(cell), nil
}

func (b *builder) buildMultichoice(section string, decl Option) (*options.Option, error) {
	choices := make([]options.Choice, 0, len(decl.Choices))
	for _, choice := range decl.Choices {
		choices = append(choices, options.Choice{
			Key:         choice.Key,
			Name:        choice.Name,
			Description: choice.Description,
		})
	}
	mcOpts := []options.MultichoiceOption{}
	if decl.DefaultChoice != "" {
		mcOpts = append(mcOpts, options.MultichoiceWithDefault(decl.DefaultChoice))
	}
	if decl.UI != "" {
		kind, err := options.ParseUIKind(decl.UI)
		if err != nil {
			return nil, err
		}
		mcOpts = append(mcOpts, options.MultichoiceWithUIKind(kind))
	}
	cell, err := options.NewMultichoice(section, decl.Name, decl.SortTag, decl.Doc, choices, mcOpts...)
	if err != nil {
		return nil, err
	}
	return options.Wrap(cell), nil
}

func (b *builder) buildDate(section string, decl Option) (*options.Option, error) {
	uiKind, err := b.declaredUIKind(decl, options.UIDate)
	if err != nil {
		return nil, err
	}
	cell := options.NewDate(section, decl.Name, decl.SortTag, decl.Doc,
		options.DateWithClock(b.clock),
		options.DateWithUIKind(uiKind))
	if decl.Period != "" {
		period, err := options.ParseRelativeDatePeriod(decl.Period)
		if err != nil {
			return nil, err
		}
		kind := options.DateStarting
		if decl.Boundary == "ending" {
			kind = options.DateEnding
		}
		if err := cell.Set(kind, int64(period)); err != nil {
			return nil, err
		}
	}
	return options.Wrap(cell), nil
}

func (b *builder) declaredUIKind(decl Option, fallback options.UIKind) (options.UIKind, error) {
	if decl.UI == "" {
		return fallback, nil
	}
	return options.ParseUIKind(decl.UI)
}

func buildValidator[T options.ValueType](b *builder, decl Validator) (options.Validator[T], error) {
	switch decl.Engine {
	case "expr":
		opts := []options.ExprValidatorOption{}
		if b.cache != nil {
			opts = append(opts, options.ExprWithProgramCache(b.cache))
		}
		if b.registry != nil {
			opts = append(opts, options.ExprWithFunctionRegistry(b.registry))
		}
		return options.NewExprValidator[T](decl.Expr, opts...)
	case "cel":
		opts := []options.CELValidatorOption{}
		if b.cache != nil {
			opts = append(opts, options.CELWithProgramCache(b.cache))
		}
		if b.registry != nil {
			opts = append(opts, options.CELWithFunctionRegistry(b.registry))
		}
		return options.NewCELValidator[T](decl.Expr, opts...)
	}
	return nil, fmt.Errorf("decl: unknown validator engine %q", decl.Engine)
}

func coerceFloat(value any, fallback float64) float64 {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return fallback
}
