package token

// Value carries the literal payload scanned alongside a Token: the position
// it started at, the raw uninterpreted source text, and (for literal
// tokens) the decoded value.
type Value struct {
	Pos Pos
	Raw string

	Int   int64
	Float float64
	Char  rune
	Byte  byte
	Str   string
}
