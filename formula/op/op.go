package op

type Op rune

const (
	Invalid Op = 0

	EOF Op = 1 << iota
	Ident
	Cell
	Number
	Add
	Sub
	Mul
	Div
	Comma
	RangeRef
	Begin
	End
)

const (
	groupTok Op = 1 << 16
)

const (
	BegGrp = groupTok | Begin
	EndGrp = groupTok | End
)

var mapping = map[Op]string{
	Add:      "+",
	Sub:      "-",
	Mul:      "*",
	Div:      "/",
	Comma:    ",",
	RangeRef: ":",
	BegGrp:   "(",
	EndGrp:   ")",
}

func Symbol(oper Op) string {
	return mapping[oper]
}
