package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Category groups codes by the subsystem that reports them.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryMount   Category = "mount"
	CategoryConfig  Category = "config"
	CategoryExport  Category = "export"
	CategoryCLI     Category = "cli"
)

// VangoError is a coded error. Code, Category and Message come from the
// registry; the reporting site fills in the rest.
type VangoError struct {
	Code     string
	Category Category
	Message  string

	// Detail names the offending value or position.
	Detail string

	// Suggestion and Example are only shown by Format.
	Suggestion string
	Example    string

	Wrapped error
}

// New returns an error for a registered code. Unregistered codes produce
// "Unknown error" with no category.
func New(code string) *VangoError {
	e := &VangoError{Code: code, Message: "Unknown error"}
	if t, ok := registry[code]; ok {
		e.Category, e.Message = t.Category, t.Message
	}
	return e
}

// Newf returns an uncoded error with a formatted message.
func Newf(category Category, format string, args ...any) *VangoError {
	return &VangoError{Category: category, Message: fmt.Sprintf(format, args...)}
}

func (e *VangoError) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code + ": ")
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	if e.Wrapped != nil {
		b.WriteString(": " + e.Wrapped.Error())
	}
	return b.String()
}

func (e *VangoError) Unwrap() error { return e.Wrapped }

// Is matches another VangoError by code. Uncoded errors match only
// themselves.
func (e *VangoError) Is(target error) bool {
	t, ok := target.(*VangoError)
	switch {
	case !ok:
		return false
	case e.Code == "" || t.Code == "":
		return e == t
	default:
		return e.Code == t.Code
	}
}

// The With methods set one field and return e for chaining.

func (e *VangoError) WithDetail(detail string) *VangoError {
	e.Detail = detail
	return e
}

func (e *VangoError) WithDetailf(format string, args ...any) *VangoError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

func (e *VangoError) WithSuggestion(suggestion string) *VangoError {
	e.Suggestion = suggestion
	return e
}

func (e *VangoError) WithExample(example string) *VangoError {
	e.Example = example
	return e
}

func (e *VangoError) Wrap(cause error) *VangoError {
	e.Wrapped = cause
	return e
}

// Explain returns the registered explanation for code, or "".
func Explain(code string) string {
	return registry[code].Detail
}

// IsCode reports whether err's chain holds a VangoError with code.
func IsCode(err error, code string) bool {
	return stderrors.Is(err, &VangoError{Code: code})
}
