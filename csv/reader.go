package csv

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

const (
	quote = '"'
	nl    = '\n'
	cr    = '\r'
)

var ErrFields = errors.New("invalid number of fields")

// Reader reads comma separated records. Quoted fields may hold the comma,
// doubled quotes and line breaks. A line ends with LF, CRLF or a lone CR.
type Reader struct {
	inner         *bufio.Reader
	Comma         byte
	FieldsPerLine int

	line int
}

func NewReader(r io.Reader) *Reader {
	rs := Reader{
		inner: bufio.NewReader(r),
		Comma: ',',
	}
	return &rs
}

func (r *Reader) ReadAll() ([][]string, error) {
	var all [][]string
	for {
		rs, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		all = append(all, rs)
	}
	return all, nil
}

func (r *Reader) Read() ([]string, error) {
	var (
		fields []string
		field  bytes.Buffer
		quoted bool
		seen   bool
	)
	r.line++
	for {
		c, err := r.inner.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, err
			}
			if !seen {
				return nil, io.EOF
			}
			return r.record(append(fields, field.String()))
		}
		seen = true
		if quoted {
			if c != quote {
				field.WriteByte(c)
			} else if r.follows(quote) {
				field.WriteByte(quote)
			} else {
				quoted = false
			}
			continue
		}
		switch c {
		case quote:
			quoted = true
		case r.Comma:
			fields = append(fields, field.String())
			field.Reset()
		case cr:
			r.follows(nl)
			return r.record(append(fields, field.String()))
		case nl:
			return r.record(append(fields, field.String()))
		default:
			field.WriteByte(c)
		}
	}
}

func (r *Reader) record(fields []string) ([]string, error) {
	if r.FieldsPerLine > 0 && len(fields) != r.FieldsPerLine {
		return nil, fmt.Errorf("%w: line %d has %d fields", ErrFields, r.line, len(fields))
	}
	return fields, nil
}

// follows consumes the next byte when it is c.
func (r *Reader) follows(c byte) bool {
	next, err := r.inner.Peek(1)
	if err != nil || next[0] != c {
		return false
	}
	r.inner.ReadByte()
	return true
}
