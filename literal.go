package behavioral

import (
	"strconv"
	"unicode/utf8"
)

// ParseNumberLiteral scans a number literal: an unsigned decimal, then
// optionally either an exponent like e-3 or a single engineering suffix.
// Suffixes are case insensitive:
//
//	T    1e12
//	G    1e9
//	X    1e6 (also Meg)
//	K    1e3
//	M    1e-3
//	U, µ 1e-6
//	N    1e-9
//	P    1e-12
//	F    1e-15
//	Mil  25.4e-6
//
// Any text following the suffix is ignored, so "10pF" is 10e-12. The literal
// must begin with a digit or a decimal point.
func ParseNumberLiteral(text string) (float64, error) {
	if text == "" || !isdigit(text[0]) && text[0] != '.' {
		return 0, &LiteralError{Text: text}
	}
	var v float64
	k := 0
	for k < len(text) && isdigit(text[k]) {
		v = v*10 + float64(text[k]-'0')
		k++
	}
	if k < len(text) && text[k] == '.' {
		k++
		m := 1.0
		for k < len(text) && isdigit(text[k]) {
			v = v*10 + float64(text[k]-'0')
			m *= 10
			k++
		}
		v /= m
	}
	if k >= len(text) {
		return v, nil
	}
	if text[k] == 'e' || text[k] == 'E' {
		k++
		neg := false
		if k < len(text) && (text[k] == '+' || text[k] == '-') {
			neg = text[k] == '-'
			k++
		}
		// Any exponent past maxExp gives 0 or ±Inf.
		e := 0
		for k < len(text) && isdigit(text[k]) {
			if e < maxExp {
				e = e*10 + int(text[k]-'0')
			}
			k++
		}
		if v == 0 {
			return 0, nil
		}
		// Integer power of ten by squaring.
		m, b := 1.0, 10.0
		for ; e != 0; e >>= 1 {
			if e&1 != 0 {
				m *= b
			}
			b *= b
		}
		if neg {
			return v / m, nil
		}
		return v * m, nil
	}
	r, _ := utf8.DecodeRuneInString(text[k:])
	switch r {
	case 't', 'T':
		v *= 1e12
	case 'g', 'G':
		v *= 1e9
	case 'x', 'X':
		v *= 1e6
	case 'k', 'K':
		v *= 1e3
	case 'u', 'U', 'µ', 'μ':
		v /= 1e6
	case 'n', 'N':
		v /= 1e9
	case 'p', 'P':
		v /= 1e12
	case 'f', 'F':
		v /= 1e15
	case 'm', 'M':
		switch {
		case hasfold(text[k+1:], 'e', 'g'):
			v *= 1e6
		case hasfold(text[k+1:], 'i', 'l'):
			v *= 25.4e-6
		default:
			v /= 1e3
		}
	}
	return v, nil
}

// maxExp bounds decimal exponents, beyond the range of float64.
const maxExp = 1000

func isdigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// hasfold reports whether s begins with the lowercase ASCII letters a and b
// in any case.
func hasfold(s string, a, b byte) bool {
	return len(s) >= 2 && s[0]|0x20 == a && s[1]|0x20 == b
}

// LiteralError is an error indicating text that cannot be read as a number
// literal.
type LiteralError struct {
	// Text is the literal.
	Text string
}

func (err *LiteralError) Error() string {
	return "cannot read the number " + strconv.Quote(err.Text)
}
