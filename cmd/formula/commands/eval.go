package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/linkflow-ai/mathnodes/internal/formula"
	"github.com/linkflow-ai/mathnodes/internal/worker/core"
	"github.com/linkflow-ai/mathnodes/internal/worker/middleware"
	"github.com/linkflow-ai/mathnodes/internal/worker/nodes/maths"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// NewEvalCommand returns the eval subcommand.
func NewEvalCommand() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "Evaluate a formula",
		ArgsUsage: "<formula>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "var",
				Usage: "Bind a variable, as name=value (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "node",
				Usage: "Run through the maths.formula node instead of the evaluator",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the result as JSON",
			},
		},
		Action: runEval,
	}
}

func runEval(ctx context.Context, cmd *cli.Command) error {
	src := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("usage: formula eval [--var name=value]... <formula>")
	}

	values, err := parseVars(cmd.StringSlice("var"))
	if err != nil {
		return err
	}

	start := time.Now()
	var result float64
	if cmd.Bool("node") {
		result, err = evalNode(ctx, src, values)
	} else {
		result, err = evalFormula(src, values)
	}
	if err != nil {
		return describe(err)
	}
	log.Debug().
		Str("formula", src).
		Dur("duration", time.Since(start)).
		Msg("Formula evaluated")

	w := stdout(cmd)
	if cmd.Bool("json") {
		return json.NewEncoder(w).Encode(map[string]interface{}{
			"formula": src,
			"result":  result,
		})
	}
	_, err = fmt.Fprintln(w, strconv.FormatFloat(result, 'g', -1, 64))
	return err
}

func evalFormula(src string, values map[string]interface{}) (float64, error) {
	vars, err := formula.ToBindings(values)
	if err != nil {
		return 0, err
	}
	return formula.Evaluate(src, vars)
}

func evalNode(ctx context.Context, src string, values map[string]interface{}) (float64, error) {
	execCtx := core.NewExecutionContext("cli", map[string]interface{}{
		"formula":   src,
		"variables": values,
	}, nil)

	output, err := middleware.Default(0).Execute(ctx, maths.FormulaNodeType, execCtx)
	if err != nil {
		return 0, err
	}
	return core.ToFloat(output["result"])
}

// parseVars turns name=value pairs into bindings. Values stay strings and are
// coerced by the evaluator.
func parseVars(pairs []string) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, expected name=value", pair)
		}
		if !formula.IsIdentifier(name) {
			return nil, fmt.Errorf("invalid variable name %q", name)
		}
		values[name] = strings.TrimSpace(value)
	}
	return values, nil
}

// describe prefixes formula errors with their kind, e.g. "ZeroDivisionError: ...".
func describe(err error) error {
	if kind := formula.KindOf(err); kind != 0 {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return err
}
