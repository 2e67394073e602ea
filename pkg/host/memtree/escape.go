package memtree

import "strings"

// escapeHTML escapes text content.
func escapeHTML(s string) string {
	return escape(s, false)
}

// escapeAttr escapes attribute values; whitespace that could break
// attribute parsing is encoded as well.
func escapeAttr(s string) string {
	return escape(s, true)
}

func escape(s string, attr bool) string {
	if !strings.ContainsAny(s, "&<>\"'\n\r\t") {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			writeWS(&buf, attr, r, "&#10;")
		case '\r':
			writeWS(&buf, attr, r, "&#13;")
		case '\t':
			writeWS(&buf, attr, r, "&#9;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

func writeWS(buf *strings.Builder, attr bool, r rune, entity string) {
	if attr {
		buf.WriteString(entity)
		return
	}
	buf.WriteRune(r)
}
