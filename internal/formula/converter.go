package formula

import (
	"github.com/linkflow-ai/mathnodes/internal/pkg/stack"
)

type instrKind int

const (
	pushNumber instrKind = iota
	loadVariable
	negate
	binaryOp
	callFunction
)

// instr is one element of the postfix stream.
type instr struct {
	kind  instrKind
	value float64  // pushNumber
	name  string   // loadVariable name, binaryOp symbol or function name
	fn    Function // callFunction
}

type entryKind int

const (
	entryOperator entryKind = iota
	entryUnaryMinus
	entryParen
	entryCall
)

// opEntry sits on the operator stack. A paren opened by a call has call set and
// the call marker directly beneath it.
type opEntry struct {
	kind entryKind
	op   string
	fn   Function
	call bool
}

func (e opEntry) info() operatorInfo {
	if e.kind == entryUnaryMinus {
		return unaryMinusInfo
	}
	return operators[e.op]
}

type argFrame struct {
	count int
}

type converter struct {
	tokens []Token
	output []instr
	ops    *stack.Stack[opEntry]
	frames *stack.Stack[argFrame]
}

// toPostfix converts scanned tokens into postfix order with the shunting-yard
// algorithm.
func toPostfix(tokens []Token) ([]instr, error) {
	if len(tokens) == 0 {
		return nil, syntaxErrorf("Formula is empty.")
	}

	c := &converter{
		tokens: tokens,
		output: make([]instr, 0, len(tokens)),
		ops:    stack.New[opEntry](),
		frames: stack.New[argFrame](),
	}
	if err := c.run(); err != nil {
		return nil, err
	}
	return c.output, nil
}

func (c *converter) run() error {
	expectOperand := true

	for i := 0; i < len(c.tokens); i++ {
		tok := c.tokens[i]

		switch tok.Kind {
		case Number:
			if !expectOperand {
				return syntaxErrorf("Unexpected number '%s'.", tok.Text)
			}
			c.output = append(c.output, instr{kind: pushNumber, value: tok.Value})
			expectOperand = false

		case Ident:
			if !expectOperand {
				return syntaxErrorf("Unexpected identifier '%s'.", tok.Text)
			}
			if i+1 < len(c.tokens) && c.tokens[i+1].Kind == LParen {
				fn, ok := Lookup(tok.Text)
				if !ok {
					return valueErrorf("Unknown function: '%s'", tok.Text)
				}
				c.ops.Push(opEntry{kind: entryCall, fn: fn})
				c.ops.Push(opEntry{kind: entryParen, call: true})
				c.frames.Push(argFrame{})
				i++
				continue
			}
			if mustBeCalled(tok.Text) {
				return mustCallError(tok.Text)
			}
			c.output = append(c.output, instr{kind: loadVariable, name: tok.Text})
			expectOperand = false

		case LParen:
			if !expectOperand {
				return syntaxErrorf("Unexpected '(' after an operand.")
			}
			c.ops.Push(opEntry{kind: entryParen})

		case UMinus:
			if !expectOperand {
				return syntaxErrorf("Unexpected unary '-'.")
			}
			c.ops.Push(opEntry{kind: entryUnaryMinus, op: OpSub})

		case Op:
			if expectOperand {
				return syntaxErrorf("Operator '%s' is missing its left operand.", tok.Text)
			}
			info, ok := operators[tok.Text]
			if !ok {
				return syntaxErrorf("Unsupported operator: '%s'", tok.Text)
			}
			c.popWhileBinds(info)
			c.ops.Push(opEntry{kind: entryOperator, op: tok.Text})
			expectOperand = true

		case Comma:
			if expectOperand {
				return syntaxErrorf("Missing argument before ','.")
			}
			paren := c.popToParen()
			if paren == nil || !paren.call {
				return syntaxErrorf("Misplaced comma or mismatched parentheses.")
			}
			c.frames.Peek().count++
			expectOperand = true

		case RParen:
			paren := c.popToParen()
			if paren == nil {
				return syntaxErrorf("Mismatched parentheses.")
			}
			isCall := paren.call
			c.ops.Pop()

			if isCall {
				frame, _ := c.frames.Pop()
				if !expectOperand {
					frame.count++
				} else if c.tokens[i-1].Kind != LParen {
					return syntaxErrorf("Missing argument before ')'.")
				}
				marker, _ := c.ops.Pop()
				if frame.count != marker.fn.Arity {
					return syntaxErrorf("Function '%s' expects %d argument(s), got %d.", marker.fn.Name, marker.fn.Arity, frame.count)
				}
				c.output = append(c.output, instr{kind: callFunction, name: marker.fn.Name, fn: marker.fn})
			} else if expectOperand {
				return syntaxErrorf("Empty or incomplete parentheses.")
			}
			expectOperand = false

		default:
			return syntaxErrorf("Unknown token '%s'.", tok.Text)
		}
	}

	if expectOperand {
		return syntaxErrorf("Unexpected end of formula.")
	}

	for c.ops.Len() > 0 {
		top, _ := c.ops.Pop()
		if top.kind == entryParen || top.kind == entryCall {
			return syntaxErrorf("Mismatched parentheses.")
		}
		c.emit(top)
	}
	return nil
}

// popWhileBinds moves operators that bind at least as tightly as an incoming
// operator with the given info to the output.
func (c *converter) popWhileBinds(incoming operatorInfo) {
	for {
		top := c.ops.Peek()
		if top == nil || (top.kind != entryOperator && top.kind != entryUnaryMinus) {
			return
		}
		stacked := top.info()
		if stacked.precedence > incoming.precedence ||
			(stacked.precedence == incoming.precedence && !incoming.rightAssoc) {
			entry, _ := c.ops.Pop()
			c.emit(entry)
			continue
		}
		return
	}
}

// popToParen emits operators until a paren is on top and returns it, or nil if
// the stack ran out first.
func (c *converter) popToParen() *opEntry {
	for {
		top := c.ops.Peek()
		if top == nil {
			return nil
		}
		if top.kind == entryParen {
			return top
		}
		entry, _ := c.ops.Pop()
		c.emit(entry)
	}
}

func (c *converter) emit(e opEntry) {
	switch e.kind {
	case entryUnaryMinus:
		c.output = append(c.output, instr{kind: negate})
	case entryOperator:
		c.output = append(c.output, instr{kind: binaryOp, name: e.op})
	}
}
