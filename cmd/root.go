package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/inovacc/patchtracker/internal/application"
	"github.com/inovacc/patchtracker/internal/core"
	"github.com/inovacc/patchtracker/internal/git"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// errFailed marks a failure whose diagnostic has already been printed
var errFailed = errors.New("operation failed")

// Config carries everything the command tree needs from the outside world.
// It is built once at startup and handed to NewRootCmd.
type Config struct {
	Out io.Writer
	Err io.Writer
	Fs  afero.Fs

	// ServerClient talks to the tracking server; it must skip certificate verification
	ServerClient *http.Client

	// WebClient probes repository web pages
	WebClient *http.Client

	// RefLister lists remote references of git URLs
	RefLister core.RefLister

	// Logger overrides the logger derived from --verbose
	Logger *slog.Logger
}

// DefaultConfig wires the command tree to the process's stdio, the OS filesystem and the network
func DefaultConfig() *Config {
	return &Config{
		Out:          os.Stdout,
		Err:          os.Stderr,
		Fs:           afero.NewOsFs(),
		ServerClient: core.NewInsecureHTTPClient(),
		WebClient:    http.DefaultClient,
		RefLister:    git.NewClient(),
	}
}

// app is the state shared by the subcommands of one invocation
type app struct {
	cfg     *Config
	verbose bool
	logger  *slog.Logger
}

func (a *app) println(args ...any) {
	_, _ = fmt.Fprintln(a.cfg.Out, args...)
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.cfg.Out, format, args...)
}

// printFailure prints err, preceded by the add usage when the error asks for it
func (a *app) printFailure(err error) {
	a.logger.Debug("command failed", slog.String("kind", failureKind(err)))

	if core.ShowUsage(err) {
		a.println("usage:" + addUsage)
	}

	a.println(err.Error())
}

// failureKind names the class of err for diagnostics
func failureKind(err error) string {
	switch {
	case core.IsValidation(err):
		return "validation"
	case core.IsAuthentication(err):
		return "authentication"
	case core.IsConnectivity(err):
		return "connectivity"
	default:
		return "other"
	}
}

func (a *app) trackingClient(server string) (*core.TrackingClient, error) {
	return core.NewTrackingClient(server, core.TrackingClientOptions{
		HTTPClient: a.cfg.ServerClient,
		Logger:     a.logger,
	})
}

func (a *app) tracker(client *core.TrackingClient) *core.Tracker {
	checkers := core.NewCheckerSet(
		&core.WebChecker{Client: a.cfg.WebClient, Logger: a.logger},
		&core.RefChecker{Lister: a.cfg.RefLister, Logger: a.logger},
	)

	return core.NewTracker(client, core.TrackerOptions{Checkers: checkers, Logger: a.logger})
}

// NewRootCmd builds the command tree for one invocation
func NewRootCmd(cfg *Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:           application.AppName,
		Short:         application.Description,
		Version:       application.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = cfg.Logger
			if a.logger == nil {
				a.logger = newLogger(cfg.Err, a.verbose)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()

			if len(args) > 0 {
				return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}

			return errFailed
		},
	}

	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(cfg.Out)
	root.SetErr(cfg.Err)
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable debug logging on stderr")

	root.AddCommand(newAddCmd(a), newDeleteCmd(a), newQueryCmd(a))

	return root
}

// Run executes one invocation and returns the process exit status
func Run(ctx context.Context, cfg *Config, args []string) int {
	root := NewRootCmd(cfg)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			_, _ = fmt.Fprintf(cfg.Err, "Error: %v\n", err)
		}

		return 1
	}

	return 0
}

func Execute() {
	os.Exit(Run(context.Background(), DefaultConfig(), os.Args[1:]))
}
