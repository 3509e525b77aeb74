package formula

import (
	"math"
	"sort"
)

// Function is a registered callable. Arity 0 entries are constants and must be
// written with empty parentheses, e.g. pi().
type Function struct {
	Name  string
	Arity int
	fn    func(args []float64) (float64, error)
}

// Call invokes the function; len(args) must equal Arity.
func (f Function) Call(args ...float64) (float64, error) {
	if len(args) != f.Arity {
		return 0, syntaxErrorf("Function '%s' expects %d argument(s), got %d", f.Name, f.Arity, len(args))
	}
	result, err := f.fn(args)
	if err != nil {
		return 0, err
	}
	return checkResult(f.Name, result, args...)
}

// IsConstant reports whether f takes no arguments.
func (f Function) IsConstant() bool {
	return f.Arity == 0
}

type builtin struct {
	arity int
	fn    func(args []float64) (float64, error)
}

var builtins = map[string]builtin{
	// Constants.
	"pi": {arity: 0, fn: constant(math.Pi)},
	"e":  {arity: 0, fn: constant(math.E)},

	// Basic.
	"abs":   {arity: 1, fn: unary(math.Abs)},
	"floor": {arity: 1, fn: unary(math.Floor)},
	"ceil":  {arity: 1, fn: unary(math.Ceil)},
	"round": {arity: 1, fn: unary(math.RoundToEven)},
	"min":   {arity: 2, fn: minimum},
	"max":   {arity: 2, fn: maximum},

	// Trigonometry, radians in and out.
	"sin":     {arity: 1, fn: unary(math.Sin)},
	"cos":     {arity: 1, fn: unary(math.Cos)},
	"tan":     {arity: 1, fn: tangent},
	"asin":    {arity: 1, fn: domain("asin", math.Asin, func(x float64) bool { return x >= -1 && x <= 1 })},
	"acos":    {arity: 1, fn: domain("acos", math.Acos, func(x float64) bool { return x >= -1 && x <= 1 })},
	"atan":    {arity: 1, fn: unary(math.Atan)},
	"atan2":   {arity: 2, fn: binary(math.Atan2)},
	"degrees": {arity: 1, fn: unary(func(x float64) float64 { return x * 180 / math.Pi })},
	"radians": {arity: 1, fn: unary(func(x float64) float64 { return x * math.Pi / 180 })},

	// Hyperbolic.
	"sinh":  {arity: 1, fn: unary(math.Sinh)},
	"cosh":  {arity: 1, fn: unary(math.Cosh)},
	"tanh":  {arity: 1, fn: unary(math.Tanh)},
	"asinh": {arity: 1, fn: unary(math.Asinh)},
	"acosh": {arity: 1, fn: domain("acosh", math.Acosh, func(x float64) bool { return x >= 1 })},
	"atanh": {arity: 1, fn: domain("atanh", math.Atanh, func(x float64) bool { return x > -1 && x < 1 })},

	// Exponential and logarithmic.
	"exp":   {arity: 1, fn: unary(math.Exp)},
	"log":   {arity: 1, fn: domain("log", math.Log, positive)},
	"log10": {arity: 1, fn: domain("log10", math.Log10, positive)},
	"log2":  {arity: 1, fn: domain("log2", math.Log2, positive)},
	"sqrt":  {arity: 1, fn: domain("sqrt", math.Sqrt, func(x float64) bool { return x >= 0 })},
	"pow":   {arity: 2, fn: powFunc},
}

// Lookup resolves a registered function or constant by name.
func Lookup(name string) (Function, bool) {
	b, ok := builtins[name]
	if !ok {
		return Function{}, false
	}
	return Function{Name: name, Arity: b.arity, fn: b.fn}, true
}

// Functions lists the registry sorted by name.
func Functions() []Function {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Function, 0, len(names))
	for _, name := range names {
		f, _ := Lookup(name)
		result = append(result, f)
	}
	return result
}

// mustBeCalled reports whether a bare identifier would shadow a registered
// name. Single letters are always variables so that e and e() can coexist.
func mustBeCalled(name string) bool {
	if len(name) < 2 {
		return false
	}
	_, ok := builtins[name]
	return ok
}

func constant(v float64) func([]float64) (float64, error) {
	return func([]float64) (float64, error) { return v, nil }
}

func unary(f func(float64) float64) func([]float64) (float64, error) {
	return func(args []float64) (float64, error) { return f(args[0]), nil }
}

func binary(f func(float64, float64) float64) func([]float64) (float64, error) {
	return func(args []float64) (float64, error) { return f(args[0], args[1]), nil }
}

func domain(name string, f func(float64) float64, valid func(float64) bool) func([]float64) (float64, error) {
	return func(args []float64) (float64, error) {
		if !valid(args[0]) {
			return 0, valueErrorf("math domain error: %s(%s)", name, formatNumber(args[0]))
		}
		return f(args[0]), nil
	}
}

func positive(x float64) bool {
	return x > 0
}

// tangent rejects arguments where cos(x) vanishes, i.e. odd multiples of pi/2.
func tangent(args []float64) (float64, error) {
	x := args[0]
	if math.Abs(math.Cos(x)) < 1e-15 {
		return 0, valueErrorf("math domain error: tan(%s) is undefined", formatNumber(x))
	}
	return math.Tan(x), nil
}

// minimum and maximum return the first argument on ties.
func minimum(args []float64) (float64, error) {
	if args[1] < args[0] {
		return args[1], nil
	}
	return args[0], nil
}

func maximum(args []float64) (float64, error) {
	if args[1] > args[0] {
		return args[1], nil
	}
	return args[0], nil
}

func powFunc(args []float64) (float64, error) {
	base, exp := args[0], args[1]
	if base == 0 && exp < 0 {
		return 0, valueErrorf("math domain error: pow(%s, %s)", formatNumber(base), formatNumber(exp))
	}
	if base < 0 && exp != math.Trunc(exp) {
		return 0, valueErrorf("math domain error: pow(%s, %s)", formatNumber(base), formatNumber(exp))
	}
	return math.Pow(base, exp), nil
}
