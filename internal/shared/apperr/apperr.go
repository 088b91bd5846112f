// Package apperr classifies errors so transports can map them without knowing every sentinel.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

// Kind is the category an error belongs to.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUnauthorized
	KindForbidden
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "state_conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindTransient:
		return "transient_store"
	default:
		return "internal"
	}
}

// Error is a classified error. Sentinels are compared by identity with errors.Is.
type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string // per-field messages, validation only
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return e.Msg + ": " + strings.Join(parts, ", ")
}

// New creates a classified error, usually assigned to a package-level sentinel.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Validation builds a validation error carrying field details.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Msg: "validation failed", Fields: fields}
}

// ErrStoreUnavailable marks persistence failures that are safe to retry as a whole operation.
var ErrStoreUnavailable = New(KindTransient, "store unavailable")

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldsOf returns validation details, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
