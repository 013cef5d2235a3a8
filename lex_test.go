package behavioral

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1}}, 0},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1}}, 0},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1.0", []lexToken{{text: "1.0", kind: tokenNum, pos: 1}}, 0},
		{"-1", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "1", kind: tokenNum, pos: 2}}, 0},
		{"1e1", []lexToken{{text: "1e1", kind: tokenNum, pos: 1}}, 0},
		{"1E1", []lexToken{{text: "1E1", kind: tokenNum, pos: 1}}, 0},
		{"1e", []lexToken{{pos: 1}}, 1},
		{"1e+", []lexToken{{pos: 1}}, 1},
		{"1e+1", []lexToken{{text: "1e+1", kind: tokenNum, pos: 1}}, 0},
		{"1e-1", []lexToken{{text: "1e-1", kind: tokenNum, pos: 1}}, 0},
		{"1.1.1", []lexToken{{pos: 1}, {text: "1", kind: tokenNum, pos: 5}}, 1},
		{"1.0e1", []lexToken{{text: "1.0e1", kind: tokenNum, pos: 1}}, 0},
		{".", []lexToken{{pos: 1}}, 1},
		{".1", []lexToken{{text: ".1", kind: tokenNum, pos: 1}}, 0},
		{".1e1", []lexToken{{text: ".1e1", kind: tokenNum, pos: 1}}, 0},
		{"1+0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "+", kind: tokenOp, pos: 2}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1e1+0", []lexToken{{text: "1e1", kind: tokenNum, pos: 1}, {text: "+", kind: tokenOp, pos: 4}, {text: "0", kind: tokenNum, pos: 5}}, 0},
		{"1*0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "*", kind: tokenOp, pos: 2}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"(1)", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: "1", kind: tokenNum, pos: 2}, {text: ")", kind: tokenClose, pos: 3}}, 0},
		// suffixes
		{"1a", []lexToken{{text: "1a", kind: tokenNum, pos: 1}}, 0},
		{"1.5k", []lexToken{{text: "1.5k", kind: tokenNum, pos: 1}}, 0},
		{"2meg", []lexToken{{text: "2meg", kind: tokenNum, pos: 1}}, 0},
		{"10pF", []lexToken{{text: "10pF", kind: tokenNum, pos: 1}}, 0},
		{"3µ", []lexToken{{text: "3µ", kind: tokenNum, pos: 1}}, 0},
		{"1k2", []lexToken{{text: "1k2", kind: tokenNum, pos: 1}}, 0},
		{"1k-2", []lexToken{{text: "1k", kind: tokenNum, pos: 1}, {text: "-", kind: tokenOp, pos: 3}, {text: "2", kind: tokenNum, pos: 4}}, 0},
		{"1e3k", []lexToken{{pos: 1}}, 1},
		{"1ee", []lexToken{{pos: 1}}, 1},
		{"1k.", []lexToken{{pos: 1}}, 1},
		// identifiers
		{"e", []lexToken{{text: "e", kind: tokenIdent, pos: 1}}, 0},
		{"e1", []lexToken{{text: "e1", kind: tokenIdent, pos: 1}}, 0},
		{"π", []lexToken{{text: "π", kind: tokenIdent, pos: 1}}, 0},
		{"eπ", []lexToken{{text: "eπ", kind: tokenIdent, pos: 1}}, 0},
		{"_1234_", []lexToken{{text: "_1234_", kind: tokenIdent, pos: 1}}, 0},
		{"x1.y", []lexToken{{text: "x1.y", kind: tokenIdent, pos: 1}}, 0},
		{"e(", []lexToken{{text: "e", kind: tokenIdent, pos: 1}, {text: "(", kind: tokenOpen, pos: 2}}, 0},
		// operators
		{"+", []lexToken{{text: "+", kind: tokenOp, pos: 1}}, 0},
		{"++", []lexToken{{text: "+", kind: tokenOp, pos: 1}, {text: "+", kind: tokenOp, pos: 2}}, 0},
		{"a--b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "-", kind: tokenOp, pos: 2}, {text: "-", kind: tokenOp, pos: 3}, {text: "b", kind: tokenIdent, pos: 4}}, 0},
		{"%^", []lexToken{{text: "%", kind: tokenOp, pos: 1}, {text: "^", kind: tokenOp, pos: 2}}, 0},
		{"==", []lexToken{{text: "==", kind: tokenOp, pos: 1}}, 0},
		{"!=", []lexToken{{text: "!=", kind: tokenOp, pos: 1}}, 0},
		{"a<=b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "<=", kind: tokenOp, pos: 2}, {text: "b", kind: tokenIdent, pos: 4}}, 0},
		{">=", []lexToken{{text: ">=", kind: tokenOp, pos: 1}}, 0},
		{"<", []lexToken{{text: "<", kind: tokenOp, pos: 1}}, 0},
		{"><", []lexToken{{text: ">", kind: tokenOp, pos: 1}, {text: "<", kind: tokenOp, pos: 2}}, 0},
		{"!x", []lexToken{{text: "!", kind: tokenOp, pos: 1}, {text: "x", kind: tokenIdent, pos: 2}}, 0},
		{"&&||", []lexToken{{text: "&&", kind: tokenOp, pos: 1}, {text: "||", kind: tokenOp, pos: 3}}, 0},
		{"?:", []lexToken{{text: "?", kind: tokenOp, pos: 1}, {text: ":", kind: tokenOp, pos: 2}}, 0},
		{"=", []lexToken{{pos: 1}}, 1},
		{"a&b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {pos: 2}, {text: "b", kind: tokenIdent, pos: 3}}, 1},
		{"|", []lexToken{{pos: 1}}, 1},
		// brackets and separators
		{"()", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: ")", kind: tokenClose, pos: 2}}, 0},
		{"[]", []lexToken{{text: "[", kind: tokenOpen, pos: 1}, {text: "]", kind: tokenClose, pos: 2}}, 0},
		{"{}", []lexToken{{text: "{", kind: tokenOpen, pos: 1}, {text: "}", kind: tokenClose, pos: 2}}, 0},
		{"a,b;", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: ",", kind: tokenSep, pos: 2}, {text: "b", kind: tokenIdent, pos: 3}, {text: ";", kind: tokenSep, pos: 4}}, 0},
		// erroneous symbols
		{"$", []lexToken{{pos: 1}}, 1},
		{"a$", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {pos: 2}}, 1},
		{"$a", []lexToken{{pos: 1}, {text: "a", kind: tokenIdent, pos: 2}}, 1},
		{"0$", []lexToken{{text: "0", kind: tokenNum, pos: 1}, {pos: 2}}, 1},
		{"$0", []lexToken{{pos: 1}, {text: "0", kind: tokenNum, pos: 2}}, 1},
		{"$$", []lexToken{{pos: 1}, {pos: 2}}, 2},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		var got []lexToken
		errs := 0
		for {
			tok, err := scan.next("")
			if err == io.EOF {
				break
			}
			if err != nil {
				errs++
			}
			if tok.kind == tokenEOF {
				continue
			}
			got = append(got, tok)
		}
		if diff := cmp.Diff(c.tokens, got, cmp.AllowUnexported(lexToken{}), cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("scanning %q: wrong tokens (-want +got):\n%s", c.src, diff)
		}
		if errs != c.errs {
			t.Errorf("scanning %q: want %d errors, got %d", c.src, c.errs, errs)
		}
	}
}

func TestLexStopOnWhitespace(t *testing.T) {
	scan := lex(strings.NewReader("x \ny"))
	tok, err := scan.next("\n")
	if err != nil || tok.kind != tokenIdent {
		t.Fatalf("first token: want x, got %v with error %v", tok, err)
	}
	tok, err = scan.next("\n")
	if err != nil || tok.kind != tokenEOF {
		t.Fatalf("want EOF at newline, got %v with error %v", tok, err)
	}
	if _, err := scan.next("\n"); err != io.EOF {
		t.Errorf("want io.EOF after EOF token, got %v", err)
	}
}

func TestLexErrorMessage(t *testing.T) {
	_, err := lex(strings.NewReader("1e3k")).next("")
	le, ok := err.(*LexError)
	if !ok {
		t.Fatalf("want *LexError, got %#v", err)
	}
	if le.Kind != "number" || le.Text != "1e3k" {
		t.Errorf("wrong error contents: %+v", le)
	}
	if want := "invalid number token at column 5: 1e3k"; le.Error() != want {
		t.Errorf("want message %q, got %q", want, le.Error())
	}
}
