package value

import (
	"errors"
)

// Marker is what a failing cell displays whatever its error code.
const Marker = "#ERR"

var (
	ErrValue  = createError("#VALUE!")
	ErrDiv0   = createError("#DIV/0!")
	ErrRef    = createError("#REF!")
	ErrName   = createError("#NAME?")
	ErrCycle  = createError("#CYCLE!")
	ErrSyntax = createError("#SYNTAX!")
)

type Error struct {
	code string
}

func createError(code string) Error {
	return Error{
		code: code,
	}
}

func (e Error) Error() string {
	return e.code
}

func (e Error) String() string {
	return e.code
}

func (e Error) Code() string {
	return e.code
}

// Code gives the error code carried by err or the generic marker when err
// does not wrap an Error.
func Code(err error) string {
	var e Error
	if errors.As(err, &e) {
		return e.code
	}
	return Marker
}
