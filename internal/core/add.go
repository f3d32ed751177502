package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inovacc/patchtracker/internal/common"
	"github.com/inovacc/patchtracker/internal/model"
)

// Tracker runs the add pipeline for one tracking request:
// validation, server probe, upstream and downstream existence checks, then create.
type Tracker struct {
	client   *TrackingClient
	checkers *CheckerSet
	logger   *slog.Logger
}

// TrackerOptions configures a Tracker
type TrackerOptions struct {
	Checkers *CheckerSet
	Logger   *slog.Logger
}

// NewTracker creates a Tracker that registers records through client
func NewTracker(client *TrackingClient, opts TrackerOptions) *Tracker {
	logger := loggerOrDefault(opts.Logger)

	checkers := opts.Checkers
	if checkers == nil {
		checkers = NewCheckerSet(&WebChecker{Logger: logger}, &RefChecker{Logger: logger})
	}

	return &Tracker{
		client:   client,
		checkers: checkers,
		logger:   logger,
	}
}

// Add validates req and, if every check passes, registers it on the server.
// Nothing is sent over the network unless local validation succeeds.
func (t *Tracker) Add(ctx context.Context, req model.TrackingRequest, creds model.Credentials) error {
	if err := ValidateTracking(req, creds); err != nil {
		return err
	}

	if err := t.client.Probe(ctx); err != nil {
		return err
	}

	scmURL, err := UpstreamURL(req)
	if err != nil {
		return err
	}

	t.logger.Debug("checking upstream repository",
		slog.String("url", common.SanitizeURL(scmURL)),
		slog.String("branch", req.SCMBranch),
	)

	if err := t.checkers.Check(ctx, scmURL, req.SCMBranch); err != nil {
		return &ExistenceCheckError{
			Message: fmt.Sprintf("scm_repo: %s and scm_branch: %s check failed. %v", req.SCMRepo, req.SCMBranch, err),
			Err:     err,
		}
	}

	t.logger.Debug("checking downstream repository",
		slog.String("url", common.SanitizeURL(req.Repo)),
		slog.String("branch", req.Branch),
	)

	if err := t.checkers.Check(ctx, req.Repo, req.Branch); err != nil {
		return &ExistenceCheckError{
			Message: fmt.Sprintf("repo: %s and branch: %s check failed. %v", req.Repo, req.Branch, err),
			Err:     err,
		}
	}

	return t.client.Create(ctx, creds, req)
}

// AddRecord runs Add for a record loaded from a tracking file
func (t *Tracker) AddRecord(ctx context.Context, rec *Record) error {
	return t.Add(ctx, rec.Request(), rec.Credentials())
}
