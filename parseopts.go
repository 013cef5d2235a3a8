package behavioral

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	kindsopt []string
	eofopt   struct {
		c, s bool
		ws   string
	}
)

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// kinds is the list of property kinds, e.g. V and I. If nil, the
	// defaults are used.
	kinds []string
	// wseof is a string containing the whitespace characters that trigger an
	// EOF token from the lexer.
	wseof string
	// ceof and seof indicate whether commas and semicolons, respectively, are
	// allowed at the end of an expression.
	ceof, seof bool
}

// DefaultPropertyKinds are the property kinds recognized when parsing with
// no PropertyKinds option: node voltages V(a) or V(a,b) and branch currents
// I(name).
var DefaultPropertyKinds = []string{"V", "I"}

// property finds the property kind spelled by name. Kinds match without
// regard to ASCII case; the result is the spelling given to PropertyKinds.
func (p *parsectx) property(name string) (string, bool) {
	kinds := p.kinds
	if kinds == nil {
		kinds = DefaultPropertyKinds
	}
	for _, k := range kinds {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

// PropertyKinds sets the names which, followed by a bracketed list of one or
// two names, are parsed as properties rather than function calls. With no
// arguments, no properties are recognized.
func PropertyKinds(kinds ...string) ParseOption {
	return kindsopt(append([]string{}, kinds...))
}

func (o kindsopt) parseOption(p parsectx) parsectx {
	p.kinds = o
	return p
}

// StopOn tells the parser to treat a list of characters as ending the
// expression. Each rune must be a comma, semicolon, or whitespace codepoint.
// Whitespace does not end an expression where a term is expected, e.g. at the
// beginning of an expression or following an operator or bracket. Commas and
// semicolons do not end expressions inside bracketed argument lists.
//
// StopOn overrides the effect of any previous StopOn in the parsing options,
// including in presets. With no arguments, StopOn produces the default
// termination behavior, which is to parse to EOF.
func StopOn(chars ...rune) ParseOption {
	var o eofopt
	v := make([]rune, 0, len(chars))
	have := func(r rune) bool {
		for _, c := range v {
			if r == c {
				return true
			}
		}
		return false
	}
	for _, r := range chars {
		switch {
		case r == ',':
			o.c = true
		case r == ';':
			o.s = true
		case unicode.IsSpace(r):
			if have(r) {
				continue
			}
			v = append(v, r)
		default:
			panic("behavioral: cannot stop on " + strconv.QuoteRune(r))
		}
	}
	o.ws = string(v)
	return &o
}

func (o *eofopt) parseOption(p parsectx) parsectx {
	p.ceof = o.c
	p.seof = o.s
	p.wseof = o.ws
	return p
}

// ParsingPreset combines parsing options into one. A preset panics when it
// would change any option from the default, but it is safe to apply other
// options after a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	if p.kinds != nil || p.wseof != "" || p.ceof || p.seof {
		panic("behavioral: preset applied to non-default parse config")
	}
	return *o
}
