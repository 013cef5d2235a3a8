// Package behavioral compiles the algebraic expressions of behavioral circuit
// elements into numeric evaluators and their exact partial derivatives.
//
// An expression such as "V(in)^2 * Tanh(gain * x)" is parsed with Parse, or
// built directly from Node constructors. An Evaluator walks the tree and
// computes its Derivatives with respect to any number of independent unknowns
// by forward-mode automatic differentiation. The same chain-rule code serves
// two payload algebras: Closures produces functions ready to call in a
// solver's inner loop, and Trees produces expression trees which can be
// printed, inspected, and later compiled with a Builder.
//
// A Builder compiles a tree into a single value-only closure. Its results
// use the same numeric safety rules as the value slot of a differentiated
// expression: division and exponentiation never produce a division by zero,
// and == and != compare within tolerances.
//
// Function tables (Funcs for values, Rules for derivatives) are never modified
// once created, so they can be shared between goroutines. Evaluators and
// Builders are not safe for concurrent use.
package behavioral
