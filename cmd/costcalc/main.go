// Command costcalc computes recipe costs from a YAML catalog without a
// database.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/momentocake/backend/internal/catalog"
	"github.com/momentocake/backend/internal/costing"
	"github.com/momentocake/backend/internal/logging"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "costcalc:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "costcalc",
		Usage: "compute recipe costs from a catalog file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "WARN",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			slog.SetDefault(logging.New(logging.Options{
				Level:  cmd.String("log-level"),
				Format: "text",
				Writer: os.Stderr,
			}))
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "calculate",
				Usage:     "print the cost breakdown of a recipe",
				ArgsUsage: "<recipe-id>",
				Flags: []cli.Flag{
					catalogFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "text or json",
						Value:   "text",
					},
					&cli.IntFlag{
						Name:  "max-depth",
						Usage: "maximum sub-recipe nesting",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					recipeID := cmd.Args().First()
					if recipeID == "" {
						return fmt.Errorf("recipe id is required")
					}
					format := strings.ToLower(cmd.String("output"))
					if format != "text" && format != "json" {
						return fmt.Errorf("unknown output format %q", format)
					}

					c, err := catalog.Load(cmd.String("catalog"))
					if err != nil {
						return err
					}
					engine := costing.NewEngine(c, c, c, costing.Options{MaxDepth: int(cmd.Int("max-depth"))})
					b, err := engine.Calculate(ctx, recipeID)
					if err != nil {
						return err
					}
					if format == "json" {
						return writeJSON(out, b)
					}
					return writeText(out, b)
				},
			},
			{
				Name:  "check",
				Usage: "report sub-recipe references that form a loop",
				Flags: []cli.Flag{catalogFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := catalog.Load(cmd.String("catalog"))
					if err != nil {
						return err
					}
					edges, err := costing.FindCycleEdges(ctx, c, c.Recipes())
					if err != nil {
						return err
					}
					return writeCycles(out, edges)
				},
			},
		},
	}
}

func catalogFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "catalog",
		Aliases:  []string{"c"},
		Usage:    "path to the catalog YAML file",
		Sources:  cli.EnvVars("COSTCALC_CATALOG"),
		Required: true,
	}
}
