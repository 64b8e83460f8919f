package emit

// Escape converts text into HTML-safe text by replacing &, <, >, " and ' with entities.  Every other character
// passes through unchanged.
func Escape(str string) string {
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '&', '<', '>', '"', '\'':
			return string(appendEscaped(make([]byte, 0, len(str)+16), str))
		}
	}
	return str
}

// AppendEscaped appends the escaped form of str to buf.
func AppendEscaped(buf []byte, str string) []byte { return appendEscaped(buf, str) }

func appendEscaped(buf []byte, str string) []byte {
	for i := 0; i < len(str); i++ {
		switch b := str[i]; b {
		case '&':
			buf = append(buf, `&amp;`...)
		case '<':
			buf = append(buf, `&lt;`...)
		case '>':
			buf = append(buf, `&gt;`...)
		case '"':
			buf = append(buf, `&quot;`...)
		case '\'':
			buf = append(buf, `&#39;`...)
		default:
			buf = append(buf, b)
		}
	}
	return buf
}
