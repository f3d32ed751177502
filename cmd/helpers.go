package cmd

import (
	"io"
	"log/slog"

	"github.com/inovacc/patchtracker/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// commonOptions are the connection and authentication flags shared by subcommands
type commonOptions struct {
	server   string
	user     string
	password string
}

func (o commonOptions) credentials() model.Credentials {
	return model.Credentials{User: o.user, Password: o.password}
}

// newLogger creates the diagnostic logger; debug output only with --verbose
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// addServerFlag adds the --server flag every subcommand requires
func addServerFlag(cmd *cobra.Command, opts *commonOptions) {
	cmd.Flags().StringVar(&opts.server, "server", "", "patch tracking daemon server")
	_ = cmd.MarkFlagRequired("server")
}

// addAuthFlags adds the --user/--password flags of authenticated subcommands
func addAuthFlags(cmd *cobra.Command, opts *commonOptions) {
	cmd.Flags().StringVar(&opts.user, "user", "", "authentication username")
	cmd.Flags().StringVar(&opts.password, "password", "", "authentication password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")
}

// addRepoFlags adds the --repo/--branch filter flags
func addRepoFlags(fs *pflag.FlagSet, repo, branch *string) {
	fs.StringVar(repo, "repo", "", "source package repository")
	fs.StringVar(branch, "branch", "", "source package branch")
}
