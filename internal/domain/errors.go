package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind tags every failure and warning the engine can surface.
type ErrorKind string

const (
	KindSchema          ErrorKind = "schema_error"
	KindDegradedMode    ErrorKind = "degraded_mode"
	KindValueCoercion   ErrorKind = "value_coercion"
	KindImbalance       ErrorKind = "imbalance"
	KindMappingFallback ErrorKind = "mapping_fallback"
)

// ErrSchema is matched by every *SchemaError through errors.Is.
var ErrSchema = errors.New("schema error")

// SchemaError reports required columns that are absent from a source file.
type SchemaError struct {
	Source    SourceKind
	Missing   []string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s export is missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Kind returns KindSchema.
func (e *SchemaError) Kind() ErrorKind {
	return KindSchema
}

// Warning is a non-fatal signal attached to a result. It annotates confidence
// in the output and never blocks it.
type Warning struct {
	Kind   ErrorKind `json:"kind"`
	Source string    `json:"source,omitempty"`
	Detail string    `json:"detail"`
}

// NewWarning builds a warning with a formatted detail message.
func NewWarning(kind ErrorKind, source, format string, args ...any) Warning {
	return Warning{Kind: kind, Source: source, Detail: fmt.Sprintf(format, args...)}
}

// Failure records a report section that could not be computed.
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Section string    `json:"section"`
	Detail  string    `json:"detail"`
}

// FailureFrom converts an error into a Failure, keeping the schema kind when
// the error carries one.
func FailureFrom(section string, err error) Failure {
	kind := ErrorKind("error")
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		kind = KindSchema
	}
	return Failure{Kind: kind, Section: section, Detail: err.Error()}
}

// CountKind returns how many warnings of the given kind are present.
func CountKind(warnings []Warning, kind ErrorKind) int {
	n := 0
	for _, w := range warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}
