package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiCyan  = "\033[36m"
	ansiBold  = "\033[1m"
)

// colorEnabled controls whether Format emits ANSI escapes. The CLI turns it
// off when stderr is not a terminal.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() { colorEnabled = false }

// EnableColors enables ANSI color output.
func EnableColors() { colorEnabled = true }

func paint(text string, codes ...string) string {
	if !colorEnabled || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + ansiReset
}

// Format renders the error for terminal display: a header with code and
// message, the wrapped detail (or the registered explanation), then the
// hint and example blocks when present.
func (e *VangoError) Format() string {
	var b strings.Builder

	header := "ERROR: "
	if e.Code != "" {
		header = "ERROR " + e.Code + ": "
	}
	fmt.Fprintf(&b, "\n%s%s\n\n", paint(header, ansiRed, ansiBold), e.Message)

	detail := e.Detail
	if detail == "" {
		detail = Explain(e.Code)
	}
	if e.Wrapped != nil {
		detail = strings.TrimSpace(detail + " Cause: " + e.Wrapped.Error())
	}
	writeBlock(&b, "", wrapText(detail, 70))

	if e.Suggestion != "" {
		writeBlock(&b, "", []string{paint("Hint: ", ansiCyan) + e.Suggestion})
	}
	if e.Example != "" {
		b.WriteString("  " + paint("Example:", ansiCyan) + "\n")
		writeBlock(&b, "  ", strings.Split(e.Example, "\n"))
	}
	return b.String()
}

// writeBlock writes lines indented by two spaces plus indent, followed by a
// blank line. Nothing is written for no lines.
func writeBlock(b *strings.Builder, indent string, lines []string) {
	if len(lines) == 0 {
		return
	}
	for _, line := range lines {
		b.WriteString("  " + indent + line + "\n")
	}
	b.WriteString("\n")
}

// FormatCompact returns "CODE: message[: cause]" on one line, for logs.
func (e *VangoError) FormatCompact() string {
	parts := make([]string, 0, 3)
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	parts = append(parts, e.Message)
	if e.Wrapped != nil {
		parts = append(parts, e.Wrapped.Error())
	}
	return strings.Join(parts, ": ")
}

type jsonError struct {
	Code       string   `json:"code,omitempty"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	Cause      string   `json:"cause,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// FormatJSON returns the error as a single-line JSON object.
func (e *VangoError) FormatJSON() string {
	v := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		v.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(data)
}

// wrapText splits text into lines of at most width bytes, breaking at
// spaces. A single word longer than width gets its own line.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := []string{words[0]}
	for _, word := range words[1:] {
		last := &lines[len(lines)-1]
		if len(*last)+1+len(word) > width {
			lines = append(lines, word)
			continue
		}
		*last += " " + word
	}
	return lines
}

// PrintError prints err to w using Format for VangoErrors anywhere in the
// chain.
func PrintError(w io.Writer, err error) {
	var ve *VangoError
	if stderrors.As(err, &ve) {
		fmt.Fprint(w, ve.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint("ERROR:", ansiRed, ansiBold), err.Error())
}

// PrintErrorJSON prints err to w as one JSON line. Plain errors are reported
// with only a message.
func PrintErrorJSON(w io.Writer, err error) {
	var ve *VangoError
	if !stderrors.As(err, &ve) {
		ve = &VangoError{Message: err.Error()}
	}
	fmt.Fprintln(w, ve.FormatJSON())
}
