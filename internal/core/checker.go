package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inovacc/patchtracker/internal/common"
	"github.com/inovacc/patchtracker/internal/git"
	"github.com/inovacc/patchtracker/internal/model"
)

// browserUserAgent is the User-Agent header sent with web probes
const browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Ubuntu Chromium/83.0.4103.61 Chrome/83.0.4103.61 Safari/537.36"

// schemePrefixLen is how much of a URL is inspected to pick a checker
const schemePrefixLen = 6

// RepoChecker confirms that a repository and one of its branches exist
type RepoChecker interface {
	Check(ctx context.Context, repoURL, branch string) error
}

// RefLister lists the references of a remote repository
type RefLister interface {
	LsRemote(ctx context.Context, remoteURL string) (map[string]string, error)
}

// WebChecker probes the repository's web front end at {url}/tree/{branch}.
// Only a 404 means the repository or branch is missing.
type WebChecker struct {
	Client *http.Client
	Logger *slog.Logger
}

// Check implements RepoChecker
func (c *WebChecker) Check(ctx context.Context, repoURL, branch string) error {
	logger := loggerOrDefault(c.Logger)
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	target := repoURL + "/tree/" + branch

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &ExistenceCheckError{Message: fmt.Sprintf("URL Error: %v", err), Err: err}
	}

	req.Header.Set("User-Agent", browserUserAgent)

	logger.Debug("probing repository web page", slog.String("url", common.SanitizeURL(target)))

	resp, err := client.Do(req)
	if err != nil {
		return &ExistenceCheckError{Message: fmt.Sprintf("Connect repo error: %v", err), Err: err}
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	logger.Debug("repository web page answered", slog.Int("status", resp.StatusCode))

	if resp.StatusCode == http.StatusNotFound {
		return &ExistenceCheckError{Message: "Git repo or branch not exist."}
	}

	return nil
}

// RefChecker lists the remote's references and looks for refs/heads/{branch}
type RefChecker struct {
	Lister RefLister
	Logger *slog.Logger
}

// Check implements RepoChecker
func (c *RefChecker) Check(ctx context.Context, repoURL, branch string) error {
	logger := loggerOrDefault(c.Logger)
	lister := c.Lister
	if lister == nil {
		lister = git.NewClient()
	}

	logger.Debug("listing remote references", slog.String("url", common.SanitizeURL(repoURL)))

	refs, err := lister.LsRemote(ctx, repoURL)
	if err != nil {
		logger.Warn("git ls-remote failed",
			slog.String("url", common.SanitizeURL(repoURL)),
			slog.String("reason", lsRemoteFailure(err)),
			slog.String("error", err.Error()),
		)

		return &ExistenceCheckError{Message: fmt.Sprintf("Git url: %s error.", repoURL), Err: err}
	}

	if _, ok := refs[git.BranchRef(branch)]; !ok {
		return &ExistenceCheckError{Message: fmt.Sprintf("Branch: %s not exist.", branch)}
	}

	return nil
}

func lsRemoteFailure(err error) string {
	switch {
	case git.IsAuthRequired(err):
		return "authentication required"
	case git.IsHostUnreachable(err):
		return "host unreachable"
	case git.IsRepositoryNotFound(err):
		return "repository not found"
	default:
		return "unknown"
	}
}

type schemeChecker struct {
	marker  string
	checker RepoChecker
}

// CheckerSet selects a RepoChecker from the first characters of a repository URL
type CheckerSet struct {
	checkers []schemeChecker
}

// NewCheckerSet returns a set handling http(s) URLs with web and git URLs with ref listing
func NewCheckerSet(web, ref RepoChecker) *CheckerSet {
	s := &CheckerSet{}
	s.Register("http", web)
	s.Register("git", ref)

	return s
}

// Register adds a checker for URLs whose scheme prefix contains marker.
// Markers are tried in registration order.
func (s *CheckerSet) Register(marker string, checker RepoChecker) {
	s.checkers = append(s.checkers, schemeChecker{marker: marker, checker: checker})
}

// For returns the checker responsible for repoURL
func (s *CheckerSet) For(repoURL string) (RepoChecker, error) {
	prefix := repoURL
	if len(prefix) > schemePrefixLen {
		prefix = prefix[:schemePrefixLen]
	}

	for _, sc := range s.checkers {
		if strings.Contains(prefix, sc.marker) {
			return sc.checker, nil
		}
	}

	return nil, &ExistenceCheckError{Message: "URL Error: Transfer Protocols must be HTTP or Git."}
}

// Check selects the checker for repoURL and runs it
func (s *CheckerSet) Check(ctx context.Context, repoURL, branch string) error {
	checker, err := s.For(repoURL)
	if err != nil {
		return err
	}

	return checker.Check(ctx, repoURL, branch)
}

// UpstreamURL resolves scm_repo to a full URL according to version_control
func UpstreamURL(req model.TrackingRequest) (string, error) {
	switch model.VersionControl(req.VersionControl) {
	case model.VersionControlGitHub:
		return "https://github.com/" + req.SCMRepo, nil
	case model.VersionControlGit:
		return req.SCMRepo, nil
	default:
		return "", &ValidationError{
			Message: fmt.Sprintf("error: version_control: invalid value: '%s'", req.VersionControl),
		}
	}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}

	return logger
}
