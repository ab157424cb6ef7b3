package shaderdef

import "fmt"

// Unescape converts a textual byte-string literal (`b"\x00\xab..."`, the
// form shader definitions are usually pasted around in) to raw bytes.
// Adjacent literals are concatenated, so a blob split over several quoted
// chunks still unescapes to one buffer.
func Unescape(src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src)/4)

	i := 0
	for i < len(src) {
		switch src[i] {
		case ' ', '\t', '\r', '\n':
			i++
			continue
		case 'b':
			i++
			continue
		case '"', '\'':
			quote := src[i]
			i++
			for {
				if i >= len(src) {
					return nil, fmt.Errorf("byte literal: unterminated string")
				}
				c := src[i]
				if c == quote {
					i++
					break
				}
				if c != '\\' {
					out = append(out, c)
					i++
					continue
				}
				// escape sequence
				i++
				if i >= len(src) {
					return nil, fmt.Errorf("byte literal: trailing backslash")
				}
				switch src[i] {
				case 'x':
					if i+2 >= len(src) {
						return nil, fmt.Errorf("byte literal: truncated \\x escape")
					}
					hi, ok1 := unhex(src[i+1])
					lo, ok2 := unhex(src[i+2])
					if !ok1 || !ok2 {
						return nil, fmt.Errorf("byte literal: bad \\x escape %q", src[i+1:i+3])
					}
					out = append(out, hi<<4|lo)
					i += 3
				case 'n':
					out = append(out, '\n')
					i++
				case 'r':
					out = append(out, '\r')
					i++
				case 't':
					out = append(out, '\t')
					i++
				case '0':
					out = append(out, 0)
					i++
				case '\\', '"', '\'':
					out = append(out, src[i])
					i++
				default:
					return nil, fmt.Errorf("byte literal: unknown escape \\%c", src[i])
				}
			}
		default:
			return nil, fmt.Errorf("byte literal: unexpected character %q", src[i])
		}
	}
	return out, nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
