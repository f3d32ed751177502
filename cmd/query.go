package cmd

import (
	"context"
	"log/slog"

	"github.com/inovacc/patchtracker/internal/common"
	"github.com/inovacc/patchtracker/internal/model"
	"github.com/spf13/cobra"
)

type queryOptions struct {
	common  commonOptions
	table   string
	request model.QueryRequest
}

func newQueryCmd(a *app) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "query tracking/issue",
		Long: `Query the tracking or issue table of the patch tracking server,
optionally filtered by repository and branch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.request.Table = model.Table(opts.table)
			return a.runQuery(cmd.Context(), opts)
		},
	}

	addServerFlag(cmd, &opts.common)
	cmd.Flags().StringVar(&opts.table, "table", "", "query tracking or issue")
	_ = cmd.MarkFlagRequired("table")
	addRepoFlags(cmd.Flags(), &opts.request.Repo, &opts.request.Branch)

	return cmd
}

func (a *app) runQuery(ctx context.Context, opts *queryOptions) error {
	client, err := a.trackingClient(opts.common.server)
	if err != nil {
		a.printFailure(err)
		return errFailed
	}

	a.logger.Debug("querying tracking server",
		slog.String("server", common.SanitizeURL(client.BaseURL())),
		slog.String("table", string(opts.request.Table)),
	)

	result, err := client.Query(ctx, opts.request)
	if err != nil {
		a.printFailure(err)
		return errFailed
	}

	a.println(renderRecords(result))

	return nil
}
