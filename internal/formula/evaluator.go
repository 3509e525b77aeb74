package formula

import (
	"math"
	"strconv"

	"github.com/linkflow-ai/mathnodes/internal/pkg/stack"
)

// Bindings maps variable names to values for a single evaluation.
type Bindings map[string]float64

func (p *Program) eval(vars Bindings) (float64, error) {
	values := stack.WithCapacity[float64](p.depth)

	for _, in := range p.code {
		switch in.kind {
		case pushNumber:
			values.Push(in.value)

		case loadVariable:
			v, err := resolve(in.name, vars)
			if err != nil {
				return 0, err
			}
			values.Push(v)

		case negate:
			x, ok := values.Pop()
			if !ok {
				return 0, syntaxErrorf("Operator '-' needs 1 operand(s).")
			}
			values.Push(-x)

		case binaryOp:
			if values.Len() < 2 {
				return 0, syntaxErrorf("Operator '%s' needs 2 operand(s).", in.name)
			}
			right, _ := values.Pop()
			left, _ := values.Pop()
			result, err := applyOperator(in.name, left, right)
			if err != nil {
				return 0, err
			}
			values.Push(result)

		case callFunction:
			arity := in.fn.Arity
			if values.Len() < arity {
				return 0, syntaxErrorf("Function '%s' needs %d argument(s).", in.name, arity)
			}
			args := make([]float64, arity)
			for j := arity - 1; j >= 0; j-- {
				args[j], _ = values.Pop()
			}
			result, err := in.fn.Call(args...)
			if err != nil {
				return 0, err
			}
			values.Push(result)
		}
	}

	if values.Len() != 1 {
		return 0, syntaxErrorf("Invalid expression. The formula may be incomplete or have extra values.")
	}
	result, _ := values.Pop()
	return result, nil
}

func resolve(name string, vars Bindings) (float64, error) {
	if v, ok := vars[name]; ok {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, valueErrorf("Variable '%s' must be a finite number, got %s.", name, formatNumber(v))
		}
		return v, nil
	}
	if mustBeCalled(name) {
		return 0, mustCallError(name)
	}
	return 0, missingVariableError(name)
}

func applyOperator(op string, a, b float64) (float64, error) {
	var result float64

	switch op {
	case OpAdd:
		result = a + b
	case OpSub:
		result = a - b
	case OpMul:
		result = a * b
	case OpDiv:
		if b == 0 {
			return 0, zeroDivisionErrorf("Division by zero in operator '%s'.", op)
		}
		result = a / b
	case OpFloorDiv:
		if b == 0 {
			return 0, zeroDivisionErrorf("Division by zero in operator '%s'.", op)
		}
		result, _ = floorDivMod(a, b)
	case OpMod:
		if b == 0 {
			return 0, zeroDivisionErrorf("Division by zero in operator '%s'.", op)
		}
		_, result = floorDivMod(a, b)
	case OpPow:
		if a == 0 && b < 0 {
			return 0, zeroDivisionErrorf("0.0 cannot be raised to a negative power.")
		}
		if a < 0 && b != math.Trunc(b) {
			return 0, valueErrorf("Negative number cannot be raised to a fractional power.")
		}
		result = math.Pow(a, b)
	default:
		return 0, syntaxErrorf("Unsupported operator: '%s'", op)
	}

	return checkResult(op, result, a, b)
}

// floorDivMod returns the floored quotient and the remainder, which takes the
// sign of the divisor. b must be non-zero.
func floorDivMod(a, b float64) (float64, float64) {
	mod := math.Mod(a, b)
	div := (a - mod) / b
	if mod != 0 {
		if (b < 0) != (mod < 0) {
			mod += b
			div -= 1
		}
	} else {
		mod = math.Copysign(0, b)
	}

	var floorDiv float64
	if div != 0 {
		floorDiv = math.Floor(div)
		if div-floorDiv > 0.5 {
			floorDiv += 1
		}
	} else {
		floorDiv = math.Copysign(0, a/b)
	}
	return floorDiv, mod
}

// checkResult turns non-finite results of finite operands into errors.
func checkResult(name string, result float64, operands ...float64) (float64, error) {
	if !math.IsNaN(result) && !math.IsInf(result, 0) {
		return result, nil
	}
	for _, x := range operands {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return result, nil
		}
	}
	if math.IsNaN(result) {
		return 0, valueErrorf("math domain error in '%s'", name)
	}
	return 0, overflowErrorf("math range error: result of '%s' is too large", name)
}

func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
