package value

import (
	"strings"
)

type Kind int8

const (
	KindEmpty Kind = 1 << iota
	KindLiteral
	KindFormula
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindLiteral:
		return "literal"
	case KindFormula:
		return "formula"
	default:
		return "unknown"
	}
}

const formulaPrefix = "="

// KindOf classifies the raw text of a cell. Leading and trailing blanks are
// ignored.
func KindOf(raw string) Kind {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return KindEmpty
	case strings.HasPrefix(raw, formulaPrefix):
		return KindFormula
	default:
		return KindLiteral
	}
}

func IsFormula(raw string) bool {
	return strings.HasPrefix(raw, formulaPrefix)
}

// Expression strips the formula prefix from raw.
func Expression(raw string) string {
	raw = strings.TrimSpace(raw)
	return strings.TrimPrefix(raw, formulaPrefix)
}
