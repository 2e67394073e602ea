// Package errors provides structured, coded error values for vango-lite.
//
// Every error the runtime reports carries a short code (e.g. "E002") that
// maps to a registered template with a category, a one-line message and a
// longer explanation. Callers attach detail, a fix suggestion and a wrapped
// cause:
//
//	err := errors.New("E002").
//	    WithDetail("expected Effect at index 1, got State").
//	    WithSuggestion("Call hooks unconditionally at the top of the component")
//
// Two errors with the same code match under errors.Is, so packages can export
// sentinel values built with New and compare against them:
//
//	var ErrHookOrderViolation = errors.New("E002")
//	...
//	if stderrors.Is(err, vango.ErrHookOrderViolation) { ... }
//
// # Error Categories
//
//   - runtime: hook misuse, render loops, async loader failures
//   - mount: host tree construction failures
//   - config: configuration loading and validation
//   - export: snapshot export failures
//   - cli: command line usage errors
//
// Format renders an error for terminal display; FormatCompact and FormatJSON
// serve logs and machine consumers.
package errors
