package commands

import (
	"context"
	"io"
	"os"

	"github.com/linkflow-ai/mathnodes/internal/pkg/logger"
	"github.com/urfave/cli/v3"

	_ "github.com/linkflow-ai/mathnodes/internal/worker/nodes/maths"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "formula",
		Usage: "Evaluate and inspect math formulas",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			errw := cmd.ErrWriter
			if errw == nil {
				errw = os.Stderr
			}
			logger.InitWithWriter("development", cmd.Bool("debug"), errw)
			return ctx, nil
		},
		Commands: []*cli.Command{
			NewEvalCommand(),
			NewTokenizeCommand(),
			NewFunctionsCommand(),
			NewNodesCommand(),
		},
	}
}

// stdout returns the writer commands print results to.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
