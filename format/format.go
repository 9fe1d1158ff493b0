package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultDigits        = 15
	DefaultNumberPattern = "#######.00"
)

type Formatter interface {
	Format(float64) (string, error)
}

type generalFormatter struct {
	digits int
}

// General formats numbers with the shortest %g representation limited to the
// given count of significant digits. Trailing zeros are never written.
func General(digits int) Formatter {
	if digits <= 0 {
		digits = DefaultDigits
	}
	return generalFormatter{
		digits: digits,
	}
}

func (f generalFormatter) Format(v float64) (string, error) {
	switch {
	case math.IsNaN(v):
		return "nan", nil
	case math.IsInf(v, 1):
		return "inf", nil
	case math.IsInf(v, -1):
		return "-inf", nil
	}
	str := strconv.FormatFloat(v, 'g', f.digits, 64)
	mant, exp, ok := strings.Cut(str, "e")
	if !ok || !strings.Contains(mant, ".") {
		return str, nil
	}
	mant = strings.TrimRight(mant, "0")
	mant = strings.TrimSuffix(mant, ".")
	return mant + "e" + exp, nil
}

// New returns the pattern formatter for pattern when not empty, the general
// formatter otherwise.
func New(pattern string, digits int) (Formatter, error) {
	if pattern == "" {
		return General(digits), nil
	}
	nf, err := ParseNumberFormatter(pattern)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pattern, err)
	}
	return fallback{
		Formatter: nf,
		general:   General(digits),
	}, nil
}

type fallback struct {
	Formatter
	general Formatter
}

func (f fallback) Format(v float64) (string, error) {
	str, err := f.Formatter.Format(v)
	if err != nil {
		return f.general.Format(v)
	}
	return str, nil
}
