// Command registrar manages student course registration: students, the course catalog,
// enrollments and timetables, stored as CSV files in a data directory.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Nolexnol/CourseRegistration-System/apps/registrar/tui"
	"github.com/Nolexnol/CourseRegistration-System/core"
)

var isTerminalFunc = func() bool { // mockable
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// usageError is a misuse of the command line: bad flags or arguments.
type usageError struct {
	err error
	cmd string
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

type commandLine struct {
	newApp  appFactory
	opts    options
	app     *app
	out     io.Writer
	errOut  io.Writer
	styles  tui.Styles
	runTUI  func(ctx context.Context) error
	logger  core.Logger
	version string
}

func newCommandLine(factory appFactory, out, errOut io.Writer) *commandLine {
	cli := &commandLine{
		newApp:  factory,
		out:     out,
		errOut:  errOut,
		styles:  tui.PlainStyles(),
		logger:  core.NopLogger{},
		version: "dev",
	}
	cli.runTUI = cli.startTUI
	return cli
}

// args wraps a cobra argument validator so that its errors are reported as usage errors.
func args(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := validate(cmd, a); err != nil {
			return &usageError{err: err, cmd: cmd.CommandPath()}
		}
		return nil
	}
}

// needsApp reports whether cmd works on the data directory.
func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", "version":
			return false
		}
	}
	return true
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "registrar",
		Short: "University course registration",
		Long: `registrar manages student course registration.

Students register with an ID and their name, then enroll in courses of the catalog
within the registration rules: seats are limited, schedules may not overlap and a
student's credits must stay within bounds.

Run without arguments on a terminal to start the interactive interface.`,
		Args:          args(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// without a terminal the root command only prints its help
			if !needsApp(cmd) || (cmd.Parent() == nil && !isTerminalFunc()) {
				return nil
			}
			cli.opts.tui = cmd.Name() == "tui" || (cmd.Parent() == nil && isTerminalFunc())
			a, err := cli.newApp(cmd.Context(), cli.opts)
			if err != nil {
				return errors.Wrap(err, "starting registrar")
			}
			cli.app = a
			cli.logger = a.logger
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminalFunc() {
				return cmd.Help()
			}
			return cli.runTUI(cmd.Context())
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err, cmd: cmd.CommandPath()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&cli.opts.dataDir, "data-dir", "", "directory holding the CSV tables (default from config: data)")
	pf.BoolVarP(&cli.opts.verbose, "verbose", "v", false, "log debug messages")

	root.AddCommand(
		cli.tuiCmd(),
		cli.studentCmd(),
		cli.loginCmd(),
		cli.coursesCmd(),
		cli.enrollCmd(),
		cli.dropCmd(),
		cli.timetableCmd(),
		cli.historyCmd(),
		cli.versionCmd(),
	)
	return root
}

func (cli *commandLine) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  args(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cli.out, "registrar", cli.version)
		},
	}
}

// run executes the command line args (without program name).
func (cli *commandLine) run(ctx context.Context, a []string) error {
	root := cli.rootCmd()
	root.SetArgs(a)
	return root.ExecuteContext(ctx)
}

func (cli *commandLine) close() {
	if cli.app != nil {
		cli.app.close()
		cli.app = nil
	}
}

// describe returns the message printed for err.
func (cli *commandLine) describe(err error) string {
	var uErr *usageError
	if errors.As(err, &uErr) {
		return fmt.Sprintf("%s\nRun '%s --help' for usage.", uErr.err, uErr.cmd)
	}
	return tui.DescribeError(err, cli.logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli := newCommandLine(newApp, os.Stdout, os.Stderr)
	cli.styles = tui.DefaultStyles()
	if !isTerminalFunc() {
		cli.styles = tui.PlainStyles()
	}
	err := cli.run(ctx, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+cli.describe(err))
	}
	cli.close()
	stop()
	if err != nil {
		os.Exit(1)
	}
}
