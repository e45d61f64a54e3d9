// Package options implements a typed registry of named, validated,
// UI-bindable configuration values used to parametrize generated reports and
// other application features.
//
// Each option is one of a closed set of cell kinds (plain, validated, range,
// multichoice, date) wrapped in a uniform Option facade and collected into a
// Set addressed by (section, name). Validation lives in the cells; the facade
// and registry never bypass it.
//
// The engine is single-threaded by design. A Set shared across goroutines
// needs external synchronization.
package options
