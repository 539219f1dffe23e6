package darf

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// defaultLeading is the line step assumed for T* when the stream never set
// one with TL.
const defaultLeading = 12

// extractTokens parses a PDF content stream and returns positioned text
// tokens. Only the vertical component of the text matrix is tracked
// (Td/TD/Tm/T*/TL operands); that is all the line reconstruction needs.
// The scanner is deliberately tolerant: anything it cannot interpret is
// skipped.
func extractTokens(content string) []Token {
	var (
		tokens   []Token
		operands []float64
		y        float64
		leading  float64 = defaultLeading
	)

	emit := func(text string) {
		if strings.TrimSpace(text) != "" {
			tokens = append(tokens, Token{Text: text, Y: y})
		}
	}

	i := 0
	for i < len(content) {
		ch := content[i]
		switch {
		case ch == '(':
			str, end := scanLiteralString(content, i)
			if end > i {
				emit(decodeLiteralString(str))
				i = end
				continue
			}
			i++
		case ch == '<' && i+1 < len(content) && content[i+1] == '<':
			i += 2
		case ch == '<':
			if j := strings.IndexByte(content[i:], '>'); j > 0 {
				emit(decodeHexString(content[i+1 : i+j]))
				i += j + 1
				continue
			}
			i++
		case ch == '%':
			// Comment runs to end of line.
			for i < len(content) && content[i] != '\n' && content[i] != '\r' {
				i++
			}
		case ch == '/':
			// Name object; skip to the next delimiter.
			i++
			for i < len(content) && !isDelimiterByte(content[i]) {
				i++
			}
		case isNumberStartByte(ch):
			j := i + 1
			for j < len(content) && isNumberByte(content[j]) {
				j++
			}
			if v, err := strconv.ParseFloat(content[i:j], 64); err == nil {
				operands = append(operands, v)
			}
			i = j
		case isOperatorByte(ch):
			j := i + 1
			for j < len(content) && isOperatorByte(content[j]) {
				j++
			}
			switch op := content[i:j]; op {
			case "Td":
				if n := len(operands); n >= 2 {
					y += operands[n-1]
				}
			case "TD":
				// TD also sets the leading to -ty.
				if n := len(operands); n >= 2 {
					y += operands[n-1]
					leading = -operands[n-1]
					if leading <= 0 {
						leading = defaultLeading
					}
				}
			case "Tm":
				if n := len(operands); n >= 6 {
					y = operands[n-1]
				}
			case "TL":
				if n := len(operands); n >= 1 && operands[n-1] > 0 {
					leading = operands[n-1]
				}
			case "T*":
				y -= leading
			}
			operands = operands[:0]
			i = j
		default:
			i++
		}
	}
	return tokens
}

func isNumberStartByte(b byte) bool {
	return (b >= '0' && b <= '9') || b == '-' || b == '+' || b == '.'
}

func isNumberByte(b byte) bool {
	return (b >= '0' && b <= '9') || b == '.'
}

func isOperatorByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '*' || b == '\'' || b == '"'
}

func isDelimiterByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// scanLiteralString extracts a single parenthesized string starting at
// position start, handling escapes and nested parens. It returns the
// content (without the outer parens) and the index after the closing
// paren, or start when no string begins there.
func scanLiteralString(content string, start int) (string, int) {
	if start >= len(content) || content[start] != '(' {
		return "", start
	}

	var result strings.Builder
	depth := 0
	i := start

	for i < len(content) {
		ch := content[i]
		if ch == '\\' && i+1 < len(content) {
			result.WriteByte(ch)
			result.WriteByte(content[i+1])
			i += 2
			continue
		}
		if ch == '(' {
			depth++
			if depth > 1 {
				result.WriteByte(ch)
			}
		} else if ch == ')' {
			depth--
			if depth == 0 {
				return result.String(), i + 1
			}
			result.WriteByte(ch)
		} else if depth > 0 {
			result.WriteByte(ch)
		}
		i++
	}
	return result.String(), i
}

// decodeLiteralString decodes escape sequences in PDF literal strings,
// falling back to Windows-1252 for the accented characters Brazilian
// documents carry in legacy encodings.
func decodeLiteralString(s string) string {
	var result strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result.WriteRune('\n')
			case 'r':
				result.WriteRune('\r')
			case 't':
				result.WriteRune('\t')
			case 'b':
				result.WriteRune('\b')
			case 'f':
				result.WriteRune('\f')
			case '(':
				result.WriteRune('(')
			case ')':
				result.WriteRune(')')
			case '\\':
				result.WriteRune('\\')
			default:
				if s[i+1] >= '0' && s[i+1] <= '7' {
					octal := string(s[i+1])
					j := i + 2
					for k := 0; k < 2 && j < len(s) && s[j] >= '0' && s[j] <= '7'; k++ {
						octal += string(s[j])
						j++
					}
					if val, err := strconv.ParseInt(octal, 8, 32); err == nil {
						result.WriteRune(rune(val))
					}
					i = j - 1
				} else {
					result.WriteByte(s[i+1])
				}
			}
			i += 2
		} else {
			result.WriteByte(s[i])
			i++
		}
	}

	decoded := result.String()
	if containsReplacementChars(decoded) || containsHighBytes(decoded) {
		if converted, err := convertWindows1252ToUTF8(decoded); err == nil {
			return converted
		}
	}
	return decoded
}

func containsReplacementChars(s string) bool {
	return strings.ContainsRune(s, '�')
}

func containsHighBytes(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return true
		}
	}
	return false
}

func convertWindows1252ToUTF8(s string) (string, error) {
	decoder := charmap.Windows1252.NewDecoder()
	result, err := decoder.String(s)
	if err != nil {
		return s, err
	}
	return result, nil
}

// decodeHexString decodes hex-encoded strings, detecting UTF-16BE and
// falling back to Windows-1252 for single-byte encodings.
func decodeHexString(hex string) string {
	hex = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, hex)
	if len(hex)%2 != 0 {
		hex += "0"
	}

	byteData := make([]byte, len(hex)/2)
	for i := 0; i+1 < len(hex); i += 2 {
		val, err := strconv.ParseInt(hex[i:i+2], 16, 32)
		if err != nil {
			continue
		}
		byteData[i/2] = byte(val)
	}

	if len(byteData) >= 2 && byteData[0] == 0xFE && byteData[1] == 0xFF {
		return decodeUTF16BE(byteData[2:])
	}
	if len(byteData) >= 4 && isLikelyUTF16BE(byteData) {
		return decodeUTF16BE(byteData)
	}

	var result strings.Builder
	for _, b := range byteData {
		if b >= 32 {
			result.WriteByte(b)
		}
	}

	decoded := result.String()
	if containsHighBytes(decoded) {
		if converted, err := convertWindows1252ToUTF8(decoded); err == nil {
			return converted
		}
	}
	return decoded
}

// isLikelyUTF16BE checks whether the high byte of each pair is mostly zero,
// which is what ASCII-range UTF-16BE text looks like.
func isLikelyUTF16BE(data []byte) bool {
	if len(data) < 4 || len(data)%2 != 0 {
		return false
	}
	zeroCount := 0
	for i := 0; i < len(data); i += 2 {
		if data[i] == 0 {
			zeroCount++
		}
	}
	return zeroCount > len(data)/4
}

func decodeUTF16BE(data []byte) string {
	if len(data)%2 != 0 {
		data = append(data, 0)
	}

	u16 := make([]uint16, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		u16[i/2] = uint16(data[i])<<8 | uint16(data[i+1])
	}

	runes := utf16.Decode(u16)

	var result strings.Builder
	for _, r := range runes {
		if r >= 32 || r == '\n' || r == '\r' || r == '\t' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
