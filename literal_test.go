package behavioral

import (
	"errors"
	"math"
	"testing"
)

func TestParseNumberLiteral(t *testing.T) {
	cases := []struct {
		src string
		r   float64
	}{
		{"0", 0},
		{"42", 42},
		{"1.5", 1.5},
		{".25", 0.25},
		{"3.", 3},
		{"1e3", 1000},
		{"1E3", 1000},
		{"1e+3", 1000},
		{"5e-1", 0.5},
		{"1.5k", 1500},
		{"1.5K", 1500},
		{"2T", 2e12},
		{"2g", 2e9},
		{"2x", 2e6},
		{"2meg", 2e6},
		{"2MEG", 2e6},
		{"4m", 4.0 / 1e3},
		{"1mil", 25.4e-6},
		{"3u", 3.0 / 1e6},
		{"3µ", 3.0 / 1e6},
		{"7n", 7.0 / 1e9},
		{"10p", 10.0 / 1e12},
		{"10pF", 10.0 / 1e12},
		{"5f", 5.0 / 1e15},
		{"5ohm", 5},
		// huge exponents
		{"1e400", math.Inf(1)},
		{"2.5e-400", 0},
		{"0e99999", 0},
		{"1e9223372036854775808", math.Inf(1)},
		{"1e-9223372036854775808", 0},
		{"1e99999999999999999999", math.Inf(1)},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			r, err := ParseNumberLiteral(c.src)
			if err != nil {
				t.Fatalf("%q gave error %v", c.src, err)
			}
			if r != c.r {
				t.Errorf("%q: want %g, got %g", c.src, c.r, r)
			}
		})
	}
}

func TestParseNumberLiteralError(t *testing.T) {
	for _, src := range []string{"", "k", "-1", "e3"} {
		_, err := ParseNumberLiteral(src)
		var le *LiteralError
		if !errors.As(err, &le) {
			t.Errorf("%q: want *LiteralError, got %#v", src, err)
			continue
		}
		if le.Text != src {
			t.Errorf("%q: error has text %q", src, le.Text)
		}
	}
}

func TestParseHugeExponent(t *testing.T) {
	n, err := ParseString("2*1e9223372036854775808")
	if err != nil {
		t.Fatal(err)
	}
	v, ok := n.Args()[1].Value()
	if !ok || !math.IsInf(v, 1) {
		t.Errorf("want +Inf literal, got %v", n)
	}
}
