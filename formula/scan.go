package formula

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/midbel/gridcalc/formula/op"
)

type Scanner struct {
	input []byte
	pos   int
	next  int
	char  rune

	buf bytes.Buffer
}

func Scan(str string) *Scanner {
	scan := Scanner{
		input: []byte(str),
	}
	scan.read()
	return &scan
}

func (s *Scanner) Scan() Token {
	s.skipBlanks()

	var tok Token
	tok.Offset = s.pos
	if s.done() {
		tok.Type = op.EOF
		return tok
	}
	defer s.reset()
	switch {
	case isOperator(s.char):
		s.scanOperator(&tok)
	case isDelimiter(s.char):
		s.scanDelimiter(&tok)
	case isDigit(s.char) || s.char == dot:
		s.scanNumber(&tok)
	case isLetter(s.char):
		s.scanIdent(&tok)
	default:
		s.write()
		s.read()
		tok.Type = op.Invalid
		tok.Literal = s.literal()
	}
	return tok
}

// scanIdent reads letters, then digits if any. Letters alone name a function,
// letters followed by digits are a cell candidate.
func (s *Scanner) scanIdent(tok *Token) {
	for !s.done() && isLetter(s.char) {
		s.write()
		s.read()
	}
	tok.Type = op.Ident
	if isDigit(s.char) {
		tok.Type = op.Cell
		for !s.done() && isDigit(s.char) {
			s.write()
			s.read()
		}
	}
	tok.Literal = s.literal()
}

func (s *Scanner) scanNumber(tok *Token) {
	tok.Type = op.Number
	for !s.done() && isDigit(s.char) {
		s.write()
		s.read()
	}
	tok.Literal = s.literal()
	if s.char != dot {
		return
	}
	s.write()
	s.read()
	for !s.done() && isDigit(s.char) {
		s.write()
		s.read()
	}
	tok.Literal = s.literal()
}

func (s *Scanner) scanOperator(tok *Token) {
	tok.Type = op.Invalid
	switch s.char {
	case plus:
		tok.Type = op.Add
	case minus:
		tok.Type = op.Sub
	case star:
		tok.Type = op.Mul
	case slash:
		tok.Type = op.Div
	case colon:
		tok.Type = op.RangeRef
	default:
	}
	s.read()
}

func (s *Scanner) scanDelimiter(tok *Token) {
	tok.Type = op.Invalid
	switch s.char {
	case comma:
		tok.Type = op.Comma
	case lparen:
		tok.Type = op.BegGrp
	case rparen:
		tok.Type = op.EndGrp
	default:
	}
	s.read()
}

func (s *Scanner) literal() string {
	return s.buf.String()
}

func (s *Scanner) write() {
	s.buf.WriteRune(s.char)
}

func (s *Scanner) reset() {
	s.buf.Reset()
}

func (s *Scanner) read() {
	if s.next >= len(s.input) {
		s.pos = len(s.input)
		s.char = 0
		return
	}
	r, n := utf8.DecodeRune(s.input[s.next:])
	if r == utf8.RuneError && n <= 1 {
		r = unicode.ReplacementChar
	}
	s.char, s.pos, s.next = r, s.next, s.next+n
}

func (s *Scanner) done() bool {
	return s.pos >= len(s.input)
}

func (s *Scanner) skipBlanks() {
	for !s.done() && isBlank(s.char) {
		s.read()
	}
}

const (
	comma  = ','
	rparen = ')'
	lparen = '('
	plus   = '+'
	minus  = '-'
	star   = '*'
	slash  = '/'
	colon  = ':'
	dot    = '.'
)

func isLower(c rune) bool {
	return c >= 'a' && c <= 'z'
}

func isUpper(c rune) bool {
	return c >= 'A' && c <= 'Z'
}

func isLetter(c rune) bool {
	return isLower(c) || isUpper(c)
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isBlank(c rune) bool {
	return unicode.IsSpace(c)
}

func isDelimiter(c rune) bool {
	return c == lparen || c == rparen || c == comma
}

func isOperator(c rune) bool {
	return c == plus || c == minus || c == slash || c == star || c == colon
}
