package cmd

import (
	"context"
	"log/slog"

	"github.com/inovacc/patchtracker/internal/common"
	"github.com/inovacc/patchtracker/internal/core"
	"github.com/inovacc/patchtracker/internal/model"
	"github.com/spf13/cobra"
)

type deleteOptions struct {
	common  commonOptions
	request model.DeleteRequest
}

func newDeleteCmd(a *app) *cobra.Command {
	opts := &deleteOptions{}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "delete tracking",
		Long: `Delete tracking for a source package repository.

Without --branch every branch tracked for the repository is deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDelete(cmd.Context(), opts)
		},
	}

	addServerFlag(cmd, &opts.common)
	addAuthFlags(cmd, &opts.common)
	addRepoFlags(cmd.Flags(), &opts.request.Repo, &opts.request.Branch)
	_ = cmd.MarkFlagRequired("repo")

	return cmd
}

func (a *app) runDelete(ctx context.Context, opts *deleteOptions) error {
	if err := core.CheckPasswordLength(opts.common.password); err != nil {
		a.printFailure(err)
		return errFailed
	}

	if err := core.CheckCredentials(opts.common.credentials()); err != nil {
		a.printFailure(err)
		return errFailed
	}

	client, err := a.trackingClient(opts.common.server)
	if err != nil {
		a.printFailure(err)
		return errFailed
	}

	a.logger.Debug("deleting tracking",
		slog.String("server", common.SanitizeURL(client.BaseURL())),
		slog.String("repo", opts.request.Repo),
		slog.String("branch", opts.request.Branch),
	)

	outcome, err := client.Delete(ctx, opts.common.credentials(), opts.request)
	if err != nil {
		a.printFailure(err)
		return errFailed
	}

	switch outcome {
	case core.DeleteOutcomeNothing:
		a.println("Delete Nothing. Tracking not exist.")
	default:
		a.println("Tracking delete successfully.")
	}

	return nil
}
