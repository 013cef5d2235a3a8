package behavioral

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Expr = Cond
// Cond = Or | Or '?' Expr ':' Cond
// Or = And { '||' And }
// And = Eq { '&&' Eq }
// Eq = Rel { ('==' | '!=') Rel }
// Rel = Sum { ('<' | '>' | '<=' | '>=') Sum }
// Sum = Prod { ('+' | '-') Prod }
// Prod = Unary { ('*' | '/' | '%') Unary }
// Unary = ('+' | '-' | '!') Unary | Pow
// Pow = Primary [ '^' Unary ]
// Primary = num | name | Call | Prop | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
// Call = funcname '(' [ Expr { ',' Expr } ] ')'
// Prop = kind '(' node [ ',' node ] ')'

// Parse parses an expression. The given options are applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Node, error) {
	scan := lex(src)
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	tok := scan.must()
	if n == nil {
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	}
	switch tok.kind {
	case tokenEOF:
	case tokenSep:
		switch {
		case p.ceof && tok.text == ",":
		case p.seof && tok.text == ";":
		default:
			return nil, itShouldNotHaveEndedThisWay(tok, -1)
		}
	default:
		return nil, itShouldNotHaveEndedThisWay(tok, -1)
	}
	return n, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Node, error) {
	return Parse(strings.NewReader(src), opts...)
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*Node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next(p.wseof)
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent, tokenOpen:
			// There is no implicit multiplication.
			return nil, &TokenError{Col: tok.pos, Text: tok.text, Want: "operator"}
		case tokenOp:
			if tok.text == ":" {
				// End of the middle of a conditional.
				scan.push(tok)
				return n, nil
			}
			prec := binaryop(tok.text)
			if prec.op == KindNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			if prec.op == KindCond {
				n, err = parsecond(scan, p, prec, n)
				if err != nil {
					return nil, err
				}
				continue
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, noterm(scan)
			}
			n = Binary(prec.op, n, rhs)
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("behavioral: unknown token: " + tok.String())
		}
	}
}

// parsecond parses the branches of a conditional after the ?.
func parsecond(scan *lexer, p *parsectx, prec operator, cond *Node) (*Node, error) {
	then, err := parseterm(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	if then == nil {
		return nil, noterm(scan)
	}
	end := scan.must()
	if end.kind != tokenOp || end.text != ":" {
		if end.kind == tokenEOF {
			return nil, &TokenError{Col: end.pos, Want: ":"}
		}
		return nil, &TokenError{Col: end.pos, Text: end.text, Want: ":"}
	}
	els, err := parseterm(scan, p, prec)
	if err != nil {
		return nil, err
	}
	if els == nil {
		return nil, noterm(scan)
	}
	return Cond(cond, then, els), nil
}

// noterm creates the error for a missing operand. The token that ended the
// operand remains pushed.
func noterm(scan *lexer) error {
	end := scan.must()
	scan.push(end)
	return &EmptyExpressionError{Col: end.pos, End: end.text}
}

// parselhs parses the first component of a term. I.e., operators are unary,
// any encountered token must be valid as the start of a subexpression, and
// whitespace normally lexed as EOF is ignored.
func parselhs(scan *lexer, p *parsectx, until operator) (*Node, error) {
	// Don't use EOF whitespace for LHS.
	tok, err := scan.next("")
	if err != nil {
		return nil, err
	}
	var n *Node
	switch tok.kind {
	case tokenNum:
		v, err := ParseNumberLiteral(tok.text)
		if err != nil {
			return nil, &LexError{Text: tok.text, Kind: "number", Col: tok.pos}
		}
		n = Const(v)
	case tokenIdent:
		return parseident(scan, p, tok)
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == KindNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, noterm(scan)
		}
		n = Unary(prec.op, rhs)
	case tokenOpen:
		match := rightbracket(tok.text)
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose || end.text != closebrackets[match] {
			return nil, itShouldNotHaveEndedThisWay(end, match)
		}
		if rhs == nil {
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = rhs
	case tokenClose:
		// This might be part of an empty argument list, so just let the
		// caller decide what to do.
		scan.push(tok)
		return nil, nil
	case tokenSep:
		switch tok.text {
		case ",":
			if p.ceof {
				scan.push(tok)
				return nil, nil
			}
		case ";":
			if p.seof {
				scan.push(tok)
				return nil, nil
			}
		default:
			panic("behavioral: invalid separator " + strconv.Quote(tok.text))
		}
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("behavioral: unknown token: " + tok.String())
	}
	return n, nil
}

// parseident parses a variable, function call, or property beginning with
// the identifier tok.
func parseident(scan *lexer, p *parsectx, tok lexToken) (*Node, error) {
	// We respect whitespace here so that x\ny doesn't string together
	// expressions.
	open, err := scan.next(p.wseof)
	if err != nil {
		return nil, err
	}
	if open.kind != tokenOpen {
		scan.push(open)
		return Var(tok.text), nil
	}
	if kind, ok := p.property(tok.text); ok {
		return parseprop(scan, kind, open)
	}
	args, err := parsearglist(scan, p, open.text)
	if err != nil {
		return nil, err
	}
	end := scan.must()
	if end.kind != tokenClose {
		panic("behavioral: parsearglist ended on " + end.String() + " instead of close bracket")
	}
	if end.text != closebrackets[rightbracket(open.text)] {
		return nil, &BracketError{Col: end.pos, Left: open.text, Right: end.text}
	}
	return Call(tok.text, args...), nil
}

// parseprop parses the bracketed names of a property. Names may be
// identifiers or numbers, as in V(out) or V(1,0).
func parseprop(scan *lexer, kind string, open lexToken) (*Node, error) {
	var args []string
	for {
		tok, err := scan.next("")
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenIdent, tokenNum:
			args = append(args, tok.text)
		case tokenEOF:
			return nil, &BracketError{Col: tok.pos, Left: open.text}
		default:
			return nil, &TokenError{Col: tok.pos, Text: tok.text, Want: "name"}
		}
		end, err := scan.next("")
		if err != nil {
			return nil, err
		}
		switch {
		case end.kind == tokenClose:
			if end.text != closebrackets[rightbracket(open.text)] {
				return nil, &BracketError{Col: end.pos, Left: open.text, Right: end.text}
			}
			return Prop(kind, args...), nil
		case end.kind == tokenSep && end.text == "," && len(args) < 2:
			// next name
		case end.kind == tokenEOF:
			return nil, &BracketError{Col: end.pos, Left: open.text}
		default:
			return nil, &TokenError{Col: end.pos, Text: end.text, Want: closebrackets[rightbracket(open.text)]}
		}
	}
}

// parsearglist parses a bracketed list of zero or more args.
func parsearglist(scan *lexer, p *parsectx, open string) ([]*Node, error) {
	var args []*Node
	for {
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			// As a special case, reporting mismatched brackets is more helpful
			// than empty expression, if that's what we'd do here.
			if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
				err = &BracketError{Col: ee.Col, Left: open}
			}
			return nil, err
		}
		end := scan.must()
		switch end.kind {
		case tokenClose:
			// Caller checks that brackets match.
			scan.push(end)
			if rhs == nil {
				// f() is allowed, but f(a,) isn't.
				if len(args) != 0 {
					return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
				}
				return nil, nil
			}
			return append(args, rhs), nil
		case tokenSep:
			if end.text != "," {
				return nil, &SeparatorError{Col: end.pos, Sep: end.text}
			}
			if rhs == nil {
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			args = append(args, rhs)
		case tokenEOF:
			return nil, &BracketError{Col: end.pos, Left: open, Right: ""}
		case tokenOp:
			return nil, &TokenError{Col: end.pos, Text: end.text, Want: ","}
		default:
			panic("behavioral: parseterm ended on non-end token " + end.String())
		}
	}
}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	r, sz := utf8.DecodeRuneInString(left)
	k := strings.IndexRune(OpenBrackets, r)
	if k < 0 || sz != len(left) {
		panic("behavioral: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// leftbracket gets the opening bracket matching right. If right is no bracket,
// then the result is the empty string.
func leftbracket(right int) string {
	if right == -1 {
		return ""
	}
	return openbrackets[right]
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. match is the bracket rune index that
// the expression should have matched, or -1 if none.
func itShouldNotHaveEndedThisWay(tok lexToken, match int) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: ""}
	case tokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: tok.text}
	case tokenSep:
		// Separator outside a function call.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenOp:
		// A : without a ?.
		return &TokenError{Col: tok.pos, Text: tok.text}
	default:
		panic("behavioral: it really should not have ended this way: " + tok.String())
	}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op Kind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binaryop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of KindNone.
func binaryop(text string) operator {
	switch text {
	case "?":
		return operator{1, true, KindCond}
	case "||":
		return operator{2, false, KindOr}
	case "&&":
		return operator{3, false, KindAnd}
	case "==":
		return operator{4, false, KindEq}
	case "!=":
		return operator{4, false, KindNe}
	case "<":
		return operator{5, false, KindLt}
	case ">":
		return operator{5, false, KindGt}
	case "<=":
		return operator{5, false, KindLe}
	case ">=":
		return operator{5, false, KindGe}
	case "+":
		return operator{6, false, KindAdd}
	case "-":
		return operator{6, false, KindSub}
	case "*":
		return operator{7, false, KindMul}
	case "/":
		return operator{7, false, KindDiv}
	case "%":
		return operator{7, false, KindMod}
	case "^":
		return operator{9, true, KindPow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of KindNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{8, true, KindPos}
	case "-":
		return operator{8, true, KindNeg}
	case "!":
		return operator{8, true, KindNot}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, KindNone}
