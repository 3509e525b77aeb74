// Package formula evaluates arithmetic formulas over named variables.
//
// A formula is scanned into tokens, converted to postfix with the
// shunting-yard algorithm and run on a value stack. Supported syntax:
//
//	a+b a-b a*b a/b       binary operators, also // % and **
//	a**b**c               right-associative: a**(b**c)
//	-x                    unary minus, binds tighter than **: -a**2 == (-a)**2
//	name(arg, ...)        registered functions, see Functions
//	pi() e()              constants, parentheses required
//	name                  variable reference
//
// Single-letter names are always variables, so e and e() may appear in the
// same formula. Longer registered names must be called.
package formula

import (
	"strconv"
	"strings"
)

// Program is a compiled formula. It is immutable and safe for concurrent use.
type Program struct {
	source    string
	code      []instr
	depth     int
	variables []string
}

// Compile scans and converts a formula without evaluating it.
func Compile(src string) (*Program, error) {
	tokens, err := Scan(src)
	if err != nil {
		return nil, err
	}
	code, err := toPostfix(tokens)
	if err != nil {
		return nil, err
	}

	p := &Program{source: src, code: code}
	seen := make(map[string]bool)
	depth := 0
	for _, in := range code {
		switch in.kind {
		case pushNumber, loadVariable:
			depth++
		case binaryOp:
			depth--
		case callFunction:
			depth -= in.fn.Arity - 1
		}
		if depth > p.depth {
			p.depth = depth
		}
		if in.kind == loadVariable && !seen[in.name] {
			seen[in.name] = true
			p.variables = append(p.variables, in.name)
		}
	}
	return p, nil
}

// Eval runs the program against vars.
func (p *Program) Eval(vars Bindings) (float64, error) {
	return p.eval(vars)
}

// Source returns the formula text the program was compiled from.
func (p *Program) Source() string {
	return p.source
}

// Variables lists referenced variable names in order of first appearance.
func (p *Program) Variables() []string {
	out := make([]string, len(p.variables))
	copy(out, p.variables)
	return out
}

// Postfix renders the compiled stream. Unary minus is "neg" and calls are
// written as name().
func (p *Program) Postfix() []string {
	out := make([]string, 0, len(p.code))
	for _, in := range p.code {
		switch in.kind {
		case pushNumber:
			out = append(out, strconv.FormatFloat(in.value, 'g', -1, 64))
		case loadVariable, binaryOp:
			out = append(out, in.name)
		case negate:
			out = append(out, "neg")
		case callFunction:
			out = append(out, in.name+"()")
		}
	}
	return out
}

func (p *Program) String() string {
	return strings.Join(p.Postfix(), " ")
}

// Evaluate compiles and runs a formula in one step.
func Evaluate(src string, vars Bindings) (float64, error) {
	p, err := Compile(src)
	if err != nil {
		return 0, err
	}
	return p.Eval(vars)
}

// Tokenize returns the source text of each token. Unary minus appears as "-".
func Tokenize(src string) ([]string, error) {
	tokens, err := Scan(src)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out, nil
}
