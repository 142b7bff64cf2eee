package diagnostic

import "fmt"

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	default:
		return "unknown"
	}
}

// Secondary is an additional source location attached to a
// diagnostic, with a label explaining its relevance.
type Secondary struct {
	Line   int
	Column int
	Label  string
}

// Diagnostic represents a single compiler error or warning. Line and
// Column are 1-based; (0, 0) means the location is unknown.
type Diagnostic struct {
	Severity   Severity
	Message    string
	Line       int
	Column     int
	Suggestion string // optional corrective snippet
	Secondary  *Secondary
}

// Diagnostics manages an append-only collection of diagnostic
// messages, shared by the parser and the type checker.
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{}
}

// Errorf adds an error diagnostic with formatted message
func (d *Diagnostics) Errorf(line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// ErrorWithSuggestion adds an error diagnostic with a corrective
// suggestion.
func (d *Diagnostics) ErrorWithSuggestion(line, col int, msg, suggestion string) {
	d.items = append(d.items, Diagnostic{
		Severity:   Error,
		Message:    msg,
		Line:       line,
		Column:     col,
		Suggestion: suggestion,
	})
}

// ErrorWithSecondary adds an error diagnostic pointing at two
// locations: the error itself and a labeled related position.
func (d *Diagnostics) ErrorWithSecondary(line, col int, msg, suggestion string, secLine, secCol int, secLabel string) {
	d.items = append(d.items, Diagnostic{
		Severity:   Error,
		Message:    msg,
		Line:       line,
		Column:     col,
		Suggestion: suggestion,
		Secondary:  &Secondary{Line: secLine, Column: secCol, Label: secLabel},
	})
}

// Warningf adds a warning diagnostic with formatted message
func (d *Diagnostics) Warningf(line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// WarningWithSuggestion adds a warning diagnostic with a corrective
// suggestion.
func (d *Diagnostics) WarningWithSuggestion(line, col int, msg, suggestion string) {
	d.items = append(d.items, Diagnostic{
		Severity:   Warning,
		Message:    msg,
		Line:       line,
		Column:     col,
		Suggestion: suggestion,
	})
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	errors := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == Error {
			errors = append(errors, item)
		}
	}
	return errors
}

// All returns all diagnostics in the order they were recorded
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// ErrorCount returns the number of error-level diagnostics
func (d *Diagnostics) ErrorCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == Error {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level diagnostics
func (d *Diagnostics) WarningCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == Warning {
			count++
		}
	}
	return count
}
