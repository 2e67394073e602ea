package vdom

import (
	"fmt"
	"strconv"
)

// Text returns its argument; strings are text leaves. It exists so call
// sites read the same as element helpers.
func Text(content string) string {
	return content
}

// Textf formats a text leaf.
func Textf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node any) any {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse any) any {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// Fragment groups children without a host element. The mount engine
// appends them straight into the parent.
func Fragment(children ...any) []any {
	return children
}

// Range maps a slice to child values, skipping nil results.
func Range[T any](items []T, fn func(item T, index int) any) []any {
	result := make([]any, 0, len(items))
	for i, item := range items {
		if node := fn(item, i); !isNil(node) {
			result = append(result, node)
		}
	}
	return result
}

// TextContent reports whether v is a primitive child and returns its text.
// Strings, bools, integers, floats and fmt.Stringers are primitive.
func TextContent(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), true
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case *VNode:
		return "", false
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}
