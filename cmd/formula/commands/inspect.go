package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/linkflow-ai/mathnodes/internal/formula"
	"github.com/linkflow-ai/mathnodes/internal/worker/core"
	"github.com/urfave/cli/v3"
)

// NewTokenizeCommand returns the tokenize subcommand.
func NewTokenizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "tokenize",
		Usage:     "Print the tokens and postfix form of a formula",
		ArgsUsage: "<formula>",
		Action:    runTokenize,
	}
}

// NewFunctionsCommand returns the functions subcommand.
func NewFunctionsCommand() *cli.Command {
	return &cli.Command{
		Name:   "functions",
		Usage:  "List the available functions and constants",
		Action: runFunctions,
	}
}

// NewNodesCommand returns the nodes subcommand.
func NewNodesCommand() *cli.Command {
	return &cli.Command{
		Name:   "nodes",
		Usage:  "List the registered node types",
		Action: runNodes,
	}
}

func runTokenize(_ context.Context, cmd *cli.Command) error {
	src := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("usage: formula tokenize <formula>")
	}

	tokens, err := formula.Tokenize(src)
	if err != nil {
		return describe(err)
	}
	prog, err := formula.Compile(src)
	if err != nil {
		return describe(err)
	}

	w := stdout(cmd)
	fmt.Fprintf(w, "tokens:  %s\n", strings.Join(tokens, " "))
	fmt.Fprintf(w, "postfix: %s\n", prog)
	if vars := prog.Variables(); len(vars) > 0 {
		fmt.Fprintf(w, "vars:    %s\n", strings.Join(vars, ", "))
	}
	return nil
}

func runFunctions(_ context.Context, cmd *cli.Command) error {
	w := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tARITY\tKIND")
	for _, f := range formula.Functions() {
		kind := "function"
		if f.IsConstant() {
			kind = "constant"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", f.Name, f.Arity, kind)
	}
	return w.Flush()
}

func runNodes(_ context.Context, cmd *cli.Command) error {
	metas := core.ListAll()
	if len(metas) == 0 {
		fmt.Fprintln(stdout(cmd), "No node types registered.")
		return nil
	}

	w := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tNAME\tCATEGORY\tVERSION")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Type, m.Name, m.Category, m.Version)
	}
	return w.Flush()
}
