package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer  Stage = "lexer"
	StageParser Stage = "parser"
	StageGuard  Stage = "guard"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	CodeUnexpectedToken          Code = "PARSE_UNEXPECTED_TOKEN"
	CodeMismatchedCloseTag       Code = "PARSE_MISMATCHED_CLOSE_TAG"
	CodeInvalidDirectiveSequence Code = "PARSE_INVALID_DIRECTIVE_SEQUENCE"
	CodeForbiddenHostStatement   Code = "PARSE_FORBIDDEN_HOST_STATEMENT"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage      Stage
	Severity   Severity
	Code       Code
	Message    string
	Span       Span
	Suggestion string // optional hint for fixing the error
	Notes      []string
}

// WithSuggestion returns a copy of the diagnostic with the given suggestion.
func (d Diagnostic) WithSuggestion(suggestion string) Diagnostic {
	d.Suggestion = suggestion
	return d
}

// WithNote returns a copy of the diagnostic with the given note appended.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// New constructs an error-severity diagnostic.
func New(stage Stage, code Code, span Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}
