package maths

import (
	"context"
	"fmt"

	"github.com/linkflow-ai/mathnodes/internal/formula"
	"github.com/linkflow-ai/mathnodes/internal/worker/core"
)

const (
	// FormulaNodeType is the registry key of the formula node.
	FormulaNodeType = "maths.formula"

	// DefaultFormula is evaluated when the config names no formula.
	DefaultFormula = "-pi() ** 2"
)

// MathFormulaNode evaluates a formula over its numeric inputs.
//
// Config:
//
//	formula    string, defaults to DefaultFormula
//	variables  map of default values for variables
//
// Every input whose key is an identifier binds a variable and overrides the
// default of the same name. A string input named "formula" replaces the
// configured formula.
type MathFormulaNode struct{}

func (n *MathFormulaNode) Type() string {
	return FormulaNodeType
}

func (n *MathFormulaNode) Execute(ctx context.Context, execCtx *core.ExecutionContext) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := core.GetString(execCtx.Config, "formula", DefaultFormula)
	if s, ok := execCtx.Input["formula"].(string); ok {
		src = s
	}

	values := core.CopyMap(core.GetMap(execCtx.Config, "variables"))
	for name, v := range execCtx.Input {
		if name == "formula" || !formula.IsIdentifier(name) {
			continue
		}
		values[name] = v
	}

	vars, err := formula.ToBindings(values)
	if err != nil {
		return nil, err
	}

	result, err := formula.Evaluate(src, vars)
	if err != nil {
		return nil, fmt.Errorf("formula node %s: %w", execCtx.NodeID, err)
	}

	return map[string]interface{}{
		"result":  result,
		"formula": src,
	}, nil
}
