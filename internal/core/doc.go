// Package core holds the patch tracking logic, separated from the command line.
//
// Functions in this package return errors instead of printing. The cmd package
// decides how each error is reported and which exit code it maps to.
//
// # Adding tracking
//
// A [Tracker] runs every add request through the same pipeline:
//
//  1. [ValidateTracking] checks required fields, choice values and credentials
//  2. [TrackingClient.Probe] confirms the tracking server answers
//  3. the upstream (scm_repo) and downstream (repo) branches are checked
//     through a [CheckerSet]
//  4. [TrackingClient.Create] registers the record
//
// Requests come from flags, from a single tracking file ([LoadRecord]) or from
// every .yaml file in a directory ([ListTrackingDir]).
//
// # Errors
//
// Failures are typed ([ValidationError], [InputFormatError],
// [ExistenceCheckError], [AuthenticationError], [ServerProtocolError],
// [ConnectivityError]) so callers can tell them apart with errors.As.
package core
