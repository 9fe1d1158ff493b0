package format

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
)

var ErrPattern = errors.New("invalid number pattern")

// numberFormatter renders numbers after patterns like "###,##0.00": '0' is a
// mandatory digit, '#' an optional one and ',' enables thousands grouping.
type numberFormatter struct {
	minInt int
	minDec int
	maxDec int

	signAlways bool
	grouping   bool

	decimalSep  byte
	thousandSep byte
}

func ParseNumberFormatter(pattern string) (Formatter, error) {
	nf := numberFormatter{
		decimalSep:  '.',
		thousandSep: ',',
	}
	if rest, ok := strings.CutPrefix(pattern, "+"); ok {
		nf.signAlways = true
		pattern = rest
	}
	left, right, _ := strings.Cut(pattern, ".")
	if left == "" {
		return nil, ErrPattern
	}
	if err := nf.parseIntegral(left); err != nil {
		return nil, err
	}
	if err := nf.parseFractional(right); err != nil {
		return nil, err
	}
	return nf, nil
}

func (nf *numberFormatter) parseIntegral(str string) error {
	optional := false
	for i := len(str) - 1; i >= 0; i-- {
		switch c := str[i]; {
		case c == ',':
			nf.grouping = true
		case c == '0' && !optional:
			nf.minInt++
		case c == '#':
			optional = true
		default:
			return ErrPattern
		}
	}
	return nil
}

func (nf *numberFormatter) parseFractional(str string) error {
	optional := false
	for i := 0; i < len(str); i++ {
		switch c := str[i]; {
		case c == '0' && !optional:
			nf.minDec++
		case c == '#':
			optional = true
		default:
			return ErrPattern
		}
		nf.maxDec++
	}
	return nil
}

func (nf numberFormatter) Format(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", ErrPattern
	}
	str := strconv.FormatFloat(math.Abs(v), 'f', nf.maxDec, 64)
	negative := v < 0 && strings.Trim(str, "0.") != ""

	left, right, _ := strings.Cut(str, ".")
	right = strings.TrimRight(right, "0")
	if n := nf.minDec - len(right); n > 0 {
		right += strings.Repeat("0", n)
	}
	left = strings.TrimLeft(left, "0")
	if n := nf.minInt - len(left); n > 0 {
		left = strings.Repeat("0", n) + left
	}
	if nf.grouping {
		left = nf.group(left)
	}

	var buf strings.Builder
	if negative {
		buf.WriteByte('-')
	} else if nf.signAlways {
		buf.WriteByte('+')
	}
	buf.WriteString(left)
	if right != "" {
		buf.WriteByte(nf.decimalSep)
		buf.WriteString(right)
	}
	if buf.Len() == 0 || (buf.Len() == 1 && (negative || nf.signAlways)) {
		buf.WriteByte('0')
	}
	return buf.String(), nil
}

func (nf numberFormatter) group(str string) string {
	digits := []byte(str)
	slices.Reverse(digits)
	var tmp []byte
	for i := 0; i < len(digits); i += 3 {
		if i > 0 {
			tmp = append(tmp, nf.thousandSep)
		}
		tmp = append(tmp, digits[i:min(i+3, len(digits))]...)
	}
	slices.Reverse(tmp)
	return string(tmp)
}
