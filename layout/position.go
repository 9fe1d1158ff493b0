package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrAddress = errors.New("invalid cell address")

// MaxLines and MaxColumns bound the addressable cells: A1 to XFD1048576.
const (
	MaxLines   = 1 << 20
	MaxColumns = 1 << 14
)

// Position is a zero-based (line, column) pair. Its label uses 1-based lines
// and bijective base-26 column letters: Position{0, 0} is "A1".
type Position struct {
	Line   int
	Column int
}

func NewPosition(line, column int) Position {
	return Position{
		Line:   line,
		Column: column,
	}
}

func ParsePosition(addr string) (Position, error) {
	var pos Position
	column, offset := parseIndex(addr)
	if offset == 0 || offset >= len(addr) {
		return pos, fmt.Errorf("%w: %q", ErrAddress, addr)
	}
	for i := offset; i < len(addr); i++ {
		if !isDigit(rune(addr[i])) {
			return pos, fmt.Errorf("%w: %q", ErrAddress, addr)
		}
	}
	if column > MaxColumns {
		return pos, fmt.Errorf("%w: %q: column out of range", ErrAddress, addr)
	}
	line, err := strconv.Atoi(addr[offset:])
	if err != nil || line < 1 || line > MaxLines {
		return pos, fmt.Errorf("%w: %q", ErrAddress, addr)
	}
	pos.Line = line - 1
	pos.Column = column - 1
	return pos, nil
}

func (p Position) Equal(other Position) bool {
	return p.Line == other.Line && p.Column == other.Column
}

func (p Position) Valid() bool {
	return p.Line >= 0 && p.Column >= 0
}

func (p Position) Addr() string {
	var str strings.Builder
	str.WriteString(ColumnName(p.Column))
	str.WriteString(strconv.Itoa(p.Line + 1))
	return str.String()
}

func (p Position) String() string {
	return p.Addr()
}

func (p Position) Offset(lines, columns int) Position {
	p.Line += lines
	p.Column += columns
	return p
}

// ColumnName gives the letters of a zero-based column index: A..Z, AA, AB...
func ColumnName(column int) string {
	if column < 0 {
		return ""
	}
	var (
		buf   []byte
		index = column
	)
	for index >= 0 {
		buf = append(buf, byte('A'+index%26))
		index = index/26 - 1
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

func ParseColumn(str string) (int, error) {
	column, offset := parseIndex(str)
	if offset == 0 || offset != len(str) || column > MaxColumns {
		return 0, fmt.Errorf("%w: %q is not a column", ErrAddress, str)
	}
	return column - 1, nil
}

// parseIndex stops accumulating once the index is past MaxColumns so that long
// labels can not overflow.
func parseIndex(str string) (int, int) {
	var (
		offset int
		index  int
	)
	for offset < len(str) && isLetter(rune(str[offset])) {
		delta := byte('A')
		if isLower(rune(str[offset])) {
			delta = 'a'
		}
		if index <= MaxColumns {
			index = index*26 + int(str[offset]-delta+1)
		}
		offset++
	}
	return index, offset
}

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
