// Command pdfops is a thin command-line collaborator around the PDF core: it
// translates flags into Dispatch/Execute/Bulk calls and maps the two error
// kinds onto exit codes (2 for validation faults, 1 for operation faults).
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/docforge/pdfops/internal/bulk"
	"github.com/docforge/pdfops/internal/config"
	"github.com/docforge/pdfops/internal/dispatch"
	"github.com/docforge/pdfops/internal/pdferr"
	"github.com/docforge/pdfops/internal/taskstore"
	"github.com/docforge/pdfops/internal/transform"
	"github.com/docforge/pdfops/internal/validate"
	"github.com/docforge/pdfops/internal/workflow"
)

// Version information (set during build)
var (
	Version = "dev"
	Commit  = "none"
)

func parseLogLevel() logrus.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.WarnLevel
	}
}

func main() {
	config.LoadDotEnv()

	logger := logrus.New()
	logger.SetLevel(parseLogLevel())
	logger.SetOutput(os.Stderr)

	cfg := config.FromEnv()
	lib := transform.NewLibrary(cfg, validate.New(cfg.MaxFileSizeMB), logger)
	d := dispatch.New(lib, logger)

	app := &cli.App{
		Name:    "pdfops",
		Usage:   "apply document operations to PDF files",
		Version: fmt.Sprintf("%s (%s)", Version, Commit),
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a single command, e.g. pdfops run merge_pdfs -i a.pdf -i b.pdf -o out.pdf",
				ArgsUsage: "<command>",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "input", Aliases: []string{"i"}, Usage: "input file (repeatable)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file or directory"},
					&cli.StringSliceFlag{Name: "param", Aliases: []string{"p"}, Usage: "transform parameter key=value (repeatable)"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit(fmt.Sprintf("expected one command name, valid commands: %s",
							strings.Join(d.Commands(), ", ")), 2)
					}
					params := parseParams(c.StringSlice("param"))
					res, err := d.Dispatch(c.Context, c.Args().First(), c.StringSlice("input"), c.String("output"), params)
					if err != nil {
						return exitError(err)
					}
					return printJSON(res)
				},
			},
			{
				Name:  "workflow",
				Usage: "run an ordered step file, e.g. pdfops workflow steps.yaml",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected one workflow YAML file", 2)
					}
					steps, err := workflow.LoadSteps(c.Args().First())
					if err != nil {
						return exitError(err)
					}
					exec := workflow.NewExecutor(d, cfg.TempDir, logger)
					out, err := exec.Execute(c.Context, steps)
					if err != nil {
						return exitError(err)
					}
					return printJSON(map[string]string{"final_output_path": out})
				},
			},
			{
				Name:      "bulk",
				Usage:     "apply one command across many files, e.g. pdfops bulk -m rotate_pdf -d out/ -p rotation=90 a.pdf b.pdf",
				ArgsUsage: "<files...>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Required: true, Usage: "command to apply"},
					&cli.StringFlag{Name: "output-dir", Aliases: []string{"d"}, Required: true, Usage: "output directory"},
					&cli.StringSliceFlag{Name: "param", Aliases: []string{"p"}, Usage: "shared parameter key=value (repeatable)"},
				},
				Action: func(c *cli.Context) error {
					proc := bulk.NewProcessor(d, taskstore.New(cfg.ResultTTL, nil), logger)
					summary, err := proc.Run(c.Context, c.String("method"), c.Args().Slice(), c.String("output-dir"), parseParams(c.StringSlice("param")))
					if err != nil {
						return exitError(err)
					}
					return printJSON(summary)
				},
			},
			{
				Name:  "commands",
				Usage: "list the valid command names",
				Action: func(c *cli.Context) error {
					for _, name := range d.Commands() {
						fmt.Println(name)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Debug("exiting with error")
		if _, ok := err.(cli.ExitCoder); !ok {
			err = cli.Exit(err.Error(), 1)
		}
		cli.HandleExitCoder(err)
	}
}

// parseParams turns key=value pairs into transform parameters, coercing
// booleans, numbers and comma-separated integer lists.
func parseParams(pairs []string) transform.Params {
	params := make(transform.Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			params[pair] = true
			continue
		}
		params[key] = coerce(value)
	}
	return params
}

func coerce(value string) any {
	if value == "true" || value == "false" {
		return value == "true"
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if strings.Contains(value, ",") {
		items := strings.Split(value, ",")
		list := make([]any, 0, len(items))
		for _, item := range items {
			n, err := strconv.Atoi(strings.TrimSpace(item))
			if err != nil {
				return value
			}
			list = append(list, n)
		}
		return list
	}
	return value
}

func exitError(err error) error {
	if pdferr.IsValidation(err) {
		return cli.Exit("validation error: "+err.Error(), 2)
	}
	return cli.Exit("operation error: "+err.Error(), 1)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Println(string(data))
	return nil
}
