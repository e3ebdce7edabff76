package catalog

import "fmt"

// ErrorKind classifies loader validation failures.
type ErrorKind byte

const (
	MissingKey      ErrorKind = 0
	SchemaViolation ErrorKind = 1
	RangeViolation  ErrorKind = 2
)

var errorKindNames = map[ErrorKind]string{
	MissingKey:      "missing key",
	SchemaViolation: "schema violation",
	RangeViolation:  "range violation",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// LoadError is a catalog validation failure: which entry, which
// field, and what went wrong. Loaders stop at the first one.
type LoadError struct {
	Kind   ErrorKind
	Entry  string
	Field  string
	Detail string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("catalog %s: entry %q field %q: %s", e.Kind, e.Entry, e.Field, e.Detail)
}

func missingKey(entry, field string) error {
	return &LoadError{Kind: MissingKey, Entry: entry, Field: field, Detail: "required"}
}

func schemaErr(entry, field, detail string) error {
	return &LoadError{Kind: SchemaViolation, Entry: entry, Field: field, Detail: detail}
}

func rangeErr(entry, field, detail string) error {
	return &LoadError{Kind: RangeViolation, Entry: entry, Field: field, Detail: detail}
}
