package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not_found")
	ErrUnreachable  = errors.New("unreachable")
	ErrUnknown      = errors.New("unknown")

	ErrInvalidSearchField = errors.New("invalid_search_field")
)

// Operation names used in errors, observer events and store state.
const (
	OpList         = "list"
	OpGet          = "get"
	OpCreate       = "create"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpSearch       = "search"
	OpBrandSummary = "brand_summary"
	OpCount        = "count"
)

// Error is a classified catalog failure.
type Error struct {
	Op     string
	Kind   error
	Status int
	// Fields maps a field name to a validation message.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.kind().Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" [")
		for i, k := range keys {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(e.Fields[k])
		}
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.kind()}
	}
	return []error{e.kind(), e.Err}
}

func (e *Error) kind() error {
	if e.Kind == nil {
		return ErrUnknown
	}
	return e.Kind
}

// NewValidationError reports local validation failures for op.
func NewValidationError(op string, fields map[string]string) *Error {
	return &Error{Op: op, Kind: ErrInvalidInput, Fields: fields}
}

// KindOf returns the taxonomy sentinel for err, or ErrUnknown.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrInvalidInput, ErrConflict, ErrNotFound, ErrUnreachable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrUnknown
}

// FieldErrors extracts the validation mapping carried by err, if any.
func FieldErrors(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// Message renders err as a human-readable cause for op.
func Message(op string, err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case ErrInvalidInput:
		if len(FieldErrors(err)) > 0 {
			return "Please correct the highlighted fields."
		}
		return "Invalid product data. Please check your inputs and try again."
	case ErrConflict:
		return "A product with this Product Key already exists."
	case ErrNotFound:
		return "The product you're looking for doesn't exist."
	case ErrUnreachable:
		return "The catalog service is unreachable. Please try again later."
	}

	switch op {
	case OpList:
		return "Failed to fetch products. Please try again later."
	case OpGet:
		return "Failed to fetch product details. Please try again later."
	case OpCreate:
		return "Failed to create product. Please try again later."
	case OpUpdate:
		return "Failed to update product. Please try again."
	case OpDelete:
		return "Failed to delete product. Please try again."
	case OpSearch:
		return "Failed to search products. Please try again."
	case OpBrandSummary:
		return "Failed to fetch brand summary. Please try again later."
	default:
		return "Unexpected error. Please try again later."
	}
}
