package maths

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/linkflow-ai/mathnodes/internal/formula"
	"github.com/linkflow-ai/mathnodes/internal/worker/core"
)

func run(t *testing.T, config, input map[string]interface{}) (map[string]interface{}, error) {
	t.Helper()
	return core.Execute(context.Background(), FormulaNodeType, core.NewExecutionContext("node-1", config, input))
}

func TestRegistered(t *testing.T) {
	meta, ok := core.GetMeta(FormulaNodeType)
	if !ok {
		t.Fatal("formula node is not registered")
	}
	if meta.Name != "formula" || meta.Category != "Basic/maths" {
		t.Errorf("meta = %+v", meta)
	}
	if len(meta.Outputs) != 1 || meta.Outputs[0].Type != "FLOAT" {
		t.Errorf("outputs = %+v", meta.Outputs)
	}
}

func TestDefaultFormula(t *testing.T) {
	out, err := run(t, nil, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	want := math.Pi * math.Pi
	if got := out["result"].(float64); math.Abs(got-want) > 1e-12 {
		t.Errorf("result = %v, want %v", got, want)
	}
	if out["formula"] != DefaultFormula {
		t.Errorf("formula = %v", out["formula"])
	}
}

func TestInputsBindVariables(t *testing.T) {
	out, err := run(t,
		map[string]interface{}{"formula": "a * b + c"},
		map[string]interface{}{"a": 2, "b": "3.5", "c": 1.0, "not an ident": "x"},
	)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out["result"] != 8.0 {
		t.Errorf("result = %v, want 8", out["result"])
	}
}

func TestInputsOverrideDefaults(t *testing.T) {
	config := map[string]interface{}{
		"formula":   "a + b",
		"variables": map[string]interface{}{"a": 1, "b": 10},
	}

	out, err := run(t, config, map[string]interface{}{"b": 20})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out["result"] != 21.0 {
		t.Errorf("result = %v, want 21", out["result"])
	}
}

func TestFormulaInputOverridesConfig(t *testing.T) {
	out, err := run(t,
		map[string]interface{}{"formula": "a"},
		map[string]interface{}{"formula": "e + e()", "e": 5},
	)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := out["result"].(float64); math.Abs(got-(5+math.E)) > 1e-12 {
		t.Errorf("result = %v", got)
	}
}

func TestErrorsKeepKind(t *testing.T) {
	tests := []struct {
		formula string
		input   map[string]interface{}
		want    error
	}{
		{"pi * 2", nil, formula.ErrSyntax},
		{"a / b", map[string]interface{}{"a": 1, "b": 0}, formula.ErrZeroDivision},
		{"x + 1", nil, formula.ErrValue},
		{"a", map[string]interface{}{"a": "many"}, formula.ErrValue},
	}

	for _, tt := range tests {
		_, err := run(t, map[string]interface{}{"formula": tt.formula}, tt.input)
		if !errors.Is(err, tt.want) {
			t.Errorf("%q error = %v, want %v", tt.formula, err, tt.want)
		}
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	node := &MathFormulaNode{}
	_, err := node.Execute(ctx, core.NewExecutionContext("n", nil, nil))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
