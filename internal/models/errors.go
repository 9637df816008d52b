package models

import (
	"sort"
	"strings"
)

// ValidationError carries one message per offending request field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	e := &ValidationError{Fields: make(map[string]string)}
	e.Add(field, message)
	return e
}

// Add records a message for field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + " " + e.Fields[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

const (
	MsgRequired       = "is required"
	MsgInvalidInteger = "must be an integer"
)
