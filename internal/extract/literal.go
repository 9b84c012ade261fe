package extract

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SyntaxError reports input the literal grammar does not accept. Pos is a byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// ParseLiteral parses one JavaScript data literal at the start of src and returns it with
// the offset just past it. Objects become map[string]any, arrays []any, numbers float64,
// and null/undefined nil. Code (identifiers, calls, operators other than string '+') is
// rejected, never evaluated.
func ParseLiteral(src string) (any, int, error) {
	p := &literalParser{src: src}
	v, err := p.value()
	if err != nil {
		return nil, p.pos, err
	}
	return v, p.pos, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *literalParser) eof() bool { return p.pos >= len(p.src) }

func (p *literalParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

// skipSpace skips whitespace and comments.
func (p *literalParser) skipSpace() error {
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
		case strings.HasPrefix(p.src[p.pos:], "//"):
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += end + 1
			}
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				return p.errorf("unterminated comment")
			}
			p.pos += end + 4
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			if r != '\u00a0' && r != '\ufeff' && r != '\u2028' && r != '\u2029' {
				return nil
			}
			p.pos += size
		default:
			return nil
		}
	}
	return nil
}

func (p *literalParser) value() (any, error) {
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}

	c := p.peek()
	switch {
	case c == '{':
		return p.object()
	case c == '[':
		return p.array()
	case c == '"' || c == '\'' || c == '`':
		return p.concatenation()
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return p.number()
	case isIdentStart(c):
		start := p.pos
		word := p.identifier()
		switch word {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null", "undefined":
			return nil, nil
		}
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == '(' {
			p.pos = start
			return nil, p.errorf("function call %q is not allowed", word)
		}
		p.pos = start
		return nil, p.errorf("identifier %q is not a literal", word)
	default:
		return nil, p.errorf("unexpected character %q", rune(c))
	}
}

func (p *literalParser) object() (map[string]any, error) {
	p.pos++ // '{'
	obj := make(map[string]any)
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == '}' {
			p.pos++
			return obj, nil
		}

		key, err := p.key()
		if err != nil {
			return nil, err
		}
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.pos++

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		obj[key] = v

		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, p.errorf("expected ',' or '}' in object")
		}
	}
}

func (p *literalParser) key() (string, error) {
	c := p.peek()
	switch {
	case c == '"' || c == '\'':
		return p.str()
	case isDigit(c):
		start := p.pos
		for !p.eof() && isDigit(p.peek()) {
			p.pos++
		}
		return p.src[start:p.pos], nil
	case isIdentStart(c):
		return p.identifier(), nil
	case c == '[':
		return "", p.errorf("computed keys are not allowed")
	default:
		return "", p.errorf("expected object key")
	}
}

func (p *literalParser) array() ([]any, error) {
	p.pos++ // '['
	arr := []any{}
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == ']' {
			p.pos++
			return arr, nil
		}
		if p.peek() == ',' {
			return nil, p.errorf("array holes are not allowed")
		}

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)

		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return arr, nil
		default:
			return nil, p.errorf("expected ',' or ']' in array")
		}
	}
}

// concatenation parses a string literal optionally followed by '+' and more string literals.
func (p *literalParser) concatenation() (string, error) {
	s, err := p.str()
	if err != nil {
		return "", err
	}
	for {
		save := p.pos
		if err := p.skipSpace(); err != nil {
			return "", err
		}
		if p.peek() != '+' {
			p.pos = save
			return s, nil
		}
		p.pos++
		if err := p.skipSpace(); err != nil {
			return "", err
		}
		if c := p.peek(); c != '"' && c != '\'' && c != '`' {
			return "", p.errorf("only string literals can be concatenated")
		}
		next, err := p.str()
		if err != nil {
			return "", err
		}
		s += next
	}
}

func (p *literalParser) str() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			if err := p.escape(&sb); err != nil {
				return "", err
			}
		case c == '\n' && quote != '`':
			return "", p.errorf("newline in string literal")
		case c == '$' && quote == '`' && strings.HasPrefix(p.src[p.pos:], "${"):
			return "", p.errorf("template interpolation is not allowed")
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

func (p *literalParser) escape(sb *strings.Builder) error {
	p.pos++ // '\\'
	if p.eof() {
		return p.errorf("unterminated escape")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0':
		sb.WriteByte(0)
	case '\n':
		// line continuation
	case '\r':
		if p.peek() == '\n' {
			p.pos++
		}
	case 'x':
		return p.hexEscape(sb, 2)
	case 'u':
		if p.peek() == '{' {
			end := strings.IndexByte(p.src[p.pos:], '}')
			if end < 0 {
				return p.errorf("unterminated unicode escape")
			}
			n, err := strconv.ParseUint(p.src[p.pos+1:p.pos+end], 16, 32)
			if err != nil {
				return p.errorf("invalid unicode escape")
			}
			p.pos += end + 1
			sb.WriteRune(rune(n))
			return nil
		}
		return p.hexEscape(sb, 4)
	default:
		sb.WriteByte(c)
	}
	return nil
}

func (p *literalParser) hexEscape(sb *strings.Builder, digits int) error {
	if p.pos+digits > len(p.src) {
		return p.errorf("truncated escape")
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return p.errorf("invalid hex escape")
	}
	p.pos += digits
	sb.WriteRune(rune(n))
	return nil
}

func (p *literalParser) number() (float64, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	if strings.HasPrefix(p.src[p.pos:], "0x") || strings.HasPrefix(p.src[p.pos:], "0X") {
		p.pos += 2
		hexStart := p.pos
		for !p.eof() && isHexDigit(p.peek()) {
			p.pos++
		}
		n, err := strconv.ParseInt(p.src[hexStart:p.pos], 16, 64)
		if err != nil {
			return 0, &SyntaxError{Pos: start, Msg: "invalid hex number"}
		}
		if p.src[start] == '-' {
			n = -n
		}
		return float64(n), nil
	}

	for !p.eof() {
		c := p.peek()
		if isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '_' {
			p.pos++
			continue
		}
		if (c == '-' || c == '+') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(p.src[start:p.pos], "_", ""), 64)
	if err != nil {
		return 0, &SyntaxError{Pos: start, Msg: fmt.Sprintf("invalid number %q", p.src[start:p.pos])}
	}
	return f, nil
}

func (p *literalParser) identifier() string {
	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
