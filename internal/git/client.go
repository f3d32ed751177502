// Package git lists remote references by running the git executable.
// Pattern inspired by github.com/cli/cli
package git

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Client wraps read-only git operations against remotes
type Client struct {
	GitPath string // Path to git executable
	Env     []string
}

// NewClient creates a new git client
func NewClient() *Client {
	gitPath, _ := exec.LookPath("git")

	return &Client{
		GitPath: gitPath,
		// Never block on a credential prompt; a remote that needs one is reported as unreachable
		Env: append(os.Environ(), "GIT_TERMINAL_PROMPT=0"),
	}
}

// Command creates a git command
// Note: Do not set Stdout/Stderr if you plan to use CombinedOutput()
func (c *Client) Command(ctx context.Context, args ...string) *exec.Cmd {
	gitPath := c.GitPath
	if gitPath == "" {
		gitPath = "git"
	}

	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Env = c.Env

	return cmd
}

// LsRemote lists the references of a remote without cloning it.
// The result maps each reference name (e.g. refs/heads/main) to its object id.
func (c *Client) LsRemote(ctx context.Context, remoteURL string) (map[string]string, error) {
	args := []string{"ls-remote", remoteURL}
	cmd := c.Command(ctx, args...)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, NewGitError(args, stderr.String(), err)
	}

	return ParseRefs(string(output)), nil
}

// ParseRefs parses `git ls-remote` output ("<oid>\t<ref>" per line)
func ParseRefs(output string) map[string]string {
	refs := make(map[string]string)

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		oid, ref, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}

		refs[strings.TrimSpace(ref)] = strings.TrimSpace(oid)
	}

	return refs
}

// BranchRef returns the fully qualified reference name of a branch
func BranchRef(branch string) string {
	return "refs/heads/" + branch
}

// GitError represents a git command error
type GitError struct {
	ExitCode int
	Stderr   string
	Args     []string
	err      error
}

func (e *GitError) Error() string {
	if e.Stderr == "" {
		return fmt.Errorf("git command failed: %w", e.err).Error()
	}
	return fmt.Sprintf("git command failed: %s", strings.TrimSpace(e.Stderr))
}

func (e *GitError) Unwrap() error {
	return e.err
}
