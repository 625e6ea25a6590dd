package scanner

import (
	"strconv"
	"strings"

	"github.com/binoyjayan/p2sh/internal/token"
)

// number scans an integer or float literal starting at s.cur, adapted from
// github.com/mna/nenuphar's lang/scanner/number.go base-prefix handling
// (0x/0o/0b), generalized with a trailing-dot float form per spec.md §4.A.
func (s *Scanner) number() (tok token.Token, base int, lit string) {
	startOff := s.off
	tok = token.INT
	base = 10

	if s.cur == '0' {
		s.advance()
		switch lower(s.cur) {
		case 'x':
			s.advance()
			base = 16
		case 'o':
			s.advance()
			base = 8
		case 'b':
			s.advance()
			base = 2
		}
	}
	s.digits(base)

	if s.cur == '.' && s.peek() != '.' {
		tok = token.FLOAT
		s.advance()
		s.digits(10)
	}
	if lower(s.cur) == 'e' {
		tok = token.FLOAT
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			s.advance()
		}
		s.digits(10)
	}

	lit = string(s.src[startOff:s.off])
	return tok, base, lit
}

func (s *Scanner) digits(base int) {
	isDigitInBase := func(r rune) bool {
		switch {
		case base == 16:
			return isHexadecimal(r)
		case base == 10:
			return isDecimal(r)
		default:
			return r >= '0' && r < rune('0'+base)
		}
	}
	for isDigitInBase(s.cur) || s.cur == '_' {
		s.advance()
	}
}

func isDecimal(r rune) bool { return '0' <= r && r <= '9' }

func isHexadecimal(r rune) bool {
	return isDecimal(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

func lower(r rune) rune { return ('a' - 'A') | r }

func numberToInt(lit string, base int) int64 {
	if base != 10 {
		lit = lit[2:]
	}
	v, _ := strconv.ParseInt(strings.ReplaceAll(lit, "_", ""), base, 64)
	return v
}

func numberToFloat(lit string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(lit, "_", ""), 64)
	return v
}
