package token

import "testing"

func TestPosLineCol(t *testing.T) {
	cases := []struct {
		line, col int
	}{
		{1, 1},
		{42, 7},
		{MaxLines, MaxCols},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		if gotLine != c.line || gotCol != c.col {
			t.Errorf("MakePos(%d,%d).LineCol() = %d,%d", c.line, c.col, gotLine, gotCol)
		}
		if !p.IsValid() {
			t.Errorf("MakePos(%d,%d) reported invalid", c.line, c.col)
		}
	}
}

func TestPosZeroIsUnknown(t *testing.T) {
	var p Pos
	if p.IsValid() {
		t.Error("zero Pos should be invalid")
	}
}
