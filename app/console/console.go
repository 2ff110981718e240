// Package console is the go-forms command line: serve the forms, list
// them, or validate a JSON values file offline.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/km-arc/go-forms/app"
	"github.com/km-arc/go-forms/app/forms"
)

// Flags holds the global options.
type Flags struct {
	EnvFiles []string
}

// New builds the root command. serve runs when no command is given.
func New(version string) *cli.Command {
	flags := &Flags{}

	root := &cli.Command{
		Name:      "go-forms",
		Usage:     "Serve the job application, event registration and survey forms",
		UsageText: "go-forms [global options] [command [command options]]",
		Version:   version,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "env-file",
				Usage:       "dotenv file(s) to load before reading the environment",
				Sources:     cli.EnvVars("GOFORMS_ENV_FILE"),
				Value:       []string{".env"},
				Destination: &flags.EnvFiles,
			},
		},
		DefaultCommand: "serve",
	}

	newServeCmd(flags).Register(root)
	newFormsCmd().Register(root)
	newValidateCmd().Register(root)
	return root
}

// ── serve ─────────────────────────────────────────────────────────────────────

type serveCmd struct {
	flags *Flags
}

func newServeCmd(flags *Flags) *serveCmd { return &serveCmd{flags: flags} }

func (cmd *serveCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP server",
		Action: cmd.run,
	})
	return root
}

func (cmd *serveCmd) run(ctx context.Context, c *cli.Command) error {
	application, err := app.New(cmd.flags.EnvFiles)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if err := application.Boot(); err != nil {
		return fmt.Errorf("boot: %w", err)
	}
	defer func() { _ = application.Log().Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}

// ── forms ─────────────────────────────────────────────────────────────────────

type formsCmd struct{}

func newFormsCmd() *formsCmd { return &formsCmd{} }

func (cmd *formsCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:   "forms",
		Usage:  "List the available forms",
		Action: cmd.run,
	})
	return root
}

func (cmd *formsCmd) run(_ context.Context, c *cli.Command) error {
	registry, err := forms.Default()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tON SUCCESS\tFIELDS")
	for _, f := range registry.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", f.Name, f.Title, f.Success, len(f.Fields))
	}
	return w.Flush()
}

// ── validate ──────────────────────────────────────────────────────────────────

type validateCmd struct {
	form string
}

func newValidateCmd() *validateCmd { return &validateCmd{} }

func (cmd *validateCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "validate",
		Usage:     "Validate a JSON file of form values",
		UsageText: "go-forms validate --form NAME FILE   (FILE may be - for stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "form",
				Aliases:     []string{"f"},
				Usage:       "form name, see `go-forms forms`",
				Required:    true,
				Destination: &cmd.form,
			},
		},
		Action: cmd.run,
	})
	return root
}

func (cmd *validateCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return cli.Exit("validate: expected exactly one FILE argument", 2)
	}

	registry, err := forms.Default()
	if err != nil {
		return err
	}
	form, ok := registry.Get(cmd.form)
	if !ok {
		return cli.Exit(fmt.Sprintf("validate: unknown form %q", cmd.form), 2)
	}

	raw, err := readInput(c.Args().First(), c.Root().Reader)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return cli.Exit(fmt.Sprintf("validate: decode %s: %v", c.Args().First(), err), 2)
	}

	out := c.Root().Writer
	errs := form.Errors(form.Normalize(data))
	if !errs.Has() {
		fmt.Fprintln(out, "valid")
		return nil
	}
	for _, field := range errs.Fields() {
		fmt.Fprintf(out, "%s: %s\n", field, errs.First(field))
	}
	return cli.Exit(fmt.Sprintf("%d field(s) invalid", len(errs.Bag)), 1)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
