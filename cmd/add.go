package cmd

import (
	"context"
	"log/slog"

	"github.com/inovacc/patchtracker/internal/core"
	"github.com/spf13/cobra"
)

const addUsage = `
    patch_tracking_cli add --server SERVER --user USER --password PASSWORD
                           --version_control github --scm_repo SCM_REPO --scm_branch SCM_BRANCH
                           --repo REPO --branch BRANCH --enabled True
    patch_tracking_cli add --server SERVER --user USER --password PASSWORD --file FILE
    patch_tracking_cli add --server SERVER --user USER --password PASSWORD --dir DIR`

type addOptions struct {
	common commonOptions
	input  core.AddInput
}

func newAddCmd(a *app) *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "add tracking",
		Long: `Register tracking between a source package repository/branch and its upstream
repository/branch.

Exactly one input style may be used: the tracking fields as flags, a single
tracking file (--file), or a directory of tracking files (--dir). Tracking
files are .yaml files with one "key: value" pair per line.

Usage:` + addUsage,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runAdd(cmd.Context(), opts)
		},
	}

	addServerFlag(cmd, &opts.common)
	addAuthFlags(cmd, &opts.common)

	req := &opts.input.Request
	f := cmd.Flags()
	f.StringVar(&req.VersionControl, "version_control", "", "upstream version control system (github, git)")
	f.StringVar(&req.SCMRepo, "scm_repo", "", "upstream scm repository")
	f.StringVar(&req.SCMBranch, "scm_branch", "", "upstream scm branch")
	addRepoFlags(f, &req.Repo, &req.Branch)
	f.StringVar(&req.Enabled, "enabled", "", "whether tracing is enabled (True, true, False, false)")
	f.StringVar(&opts.input.File, "file", "", "import patch tracking from file")
	f.StringVar(&opts.input.Dir, "dir", "", "import patch tracking from files in directory")

	return cmd
}

func (a *app) runAdd(ctx context.Context, opts *addOptions) error {
	if err := core.CheckPasswordLength(opts.common.password); err != nil {
		a.println(err.Error())
		return errFailed
	}

	style, err := core.ResolveInputStyle(opts.input)
	if err != nil {
		a.printFailure(err)
		return errFailed
	}

	a.logger.Debug("resolved add input style", slog.String("style", style.String()))

	client, err := a.trackingClient(opts.common.server)
	if err != nil {
		a.printFailure(err)
		return errFailed
	}

	tracker := a.tracker(client)

	switch style {
	case core.StyleFile:
		return a.addFile(ctx, tracker, opts.input.File, opts.common)
	case core.StyleDir:
		return a.addDir(ctx, tracker, opts.input.Dir, opts.common)
	default:
		if err := tracker.Add(ctx, opts.input.Request, opts.common.credentials()); err != nil {
			a.printFailure(err)
			return errFailed
		}

		a.println("Tracking successfully.")

		return nil
	}
}

func (a *app) addFile(ctx context.Context, tracker *core.Tracker, path string, common commonOptions) error {
	rec, err := core.LoadRecord(a.cfg.Fs, path)
	if err != nil {
		a.println(err.Error())
		return errFailed
	}

	rec.Inject(common.server, common.credentials())

	if err := tracker.AddRecord(ctx, rec); err != nil {
		if core.ShowUsage(err) {
			a.println("usage:" + addUsage)
		}

		a.printf("Tracking failed for %s: %v\n", path, err)

		return errFailed
	}

	a.printf("Tracking successfully created for %s\n", path)

	return nil
}

// addDir processes every entry of dir independently; one file's failure never stops the others
func (a *app) addDir(ctx context.Context, tracker *core.Tracker, dir string, common commonOptions) error {
	entries, err := core.ListTrackingDir(a.cfg.Fs, dir)
	if err != nil {
		a.println(err.Error())
		return errFailed
	}

	failed := 0

	for _, entry := range entries {
		if entry.Err != nil {
			a.println(entry.Err.Error())
			failed++

			continue
		}

		if err := a.addFile(ctx, tracker, entry.Path, common); err != nil {
			failed++
		}
	}

	a.logger.Debug("processed tracking directory",
		slog.String("dir", dir),
		slog.Int("files", len(entries)),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return errFailed
	}

	return nil
}
