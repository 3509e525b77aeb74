package maths

import "github.com/linkflow-ai/mathnodes/internal/worker/core"

const description = `Evaluates a mathematical formula without eval.

Variables are bound from the node inputs (a, b, c, ...). Supported operators are
+ - * / // % ** and parentheses. Unary minus binds tighter than **, so -a ** 2
is (-a) ** 2.

Functions: abs, floor, ceil, round, min(a,b), max(a,b), sin, cos, tan, asin,
acos, atan, atan2(y,x), degrees, radians, sinh, cosh, tanh, asinh, acosh, atanh,
exp, log, log10, log2, sqrt, pow(base,exp).

Constants must be called with empty parentheses: pi(), e(). The single letter e
is still usable as a variable.`

func init() {
	core.Register(&MathFormulaNode{}, core.NodeMeta{
		Name:        "formula",
		Description: description,
		Category:    "Basic/maths",
		Icon:        "sigma",
		Version:     "1.0.0",
		Tags:        []string{"math", "formula", "expression"},
		Inputs: []core.Port{
			{Name: "formula", Type: "STRING", Required: true, Default: DefaultFormula},
			{Name: "a", Type: "FLOAT,INT", Default: 0.0, Dynamic: true,
				Description: "Variables a, b, c, ... bound by name"},
		},
		Outputs: []core.Port{
			{Name: "result", Type: "FLOAT"},
		},
	})
}
