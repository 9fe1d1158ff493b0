package value

import (
	"fmt"
	"strconv"
	"strings"
)

// CastToFloat parses a literal cell. The whole trimmed text must be a decimal
// number: hexadecimal forms and digit separators are refused.
func CastToFloat(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if !isDecimal(raw) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrValue, raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrValue, raw)
	}
	return f, nil
}

func isDecimal(str string) bool {
	if strings.ContainsRune(str, '_') {
		return false
	}
	str = strings.TrimLeft(str, "+-")
	return !strings.HasPrefix(str, "0x") && !strings.HasPrefix(str, "0X")
}
