package behavioral

import "strconv"

// OperatorError is an error indicating an operator token that is not
// understood by the parser. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements InputError.
type BracketError struct {
	// Col is the position of the operator.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating an illegal use of a comma or semicolon
// separator. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// TokenError is an error indicating a token that cannot appear where it
// does, such as a term directly following another term. It implements
// InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Text is the token, or the empty string for the end of input.
	Text string
	// Want describes what the parser expected instead, if anything.
	Want string
}

func (err *TokenError) Error() string {
	s := "unexpected end of input"
	if err.Text != "" {
		s = "unexpected " + strconv.Quote(err.Text)
	}
	if err.Want != "" {
		s += ", want " + err.Want
	}
	return errpos(err.Col, s)
}

func (err *TokenError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)
