package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// commitMessage is used for every export commit.
const commitMessage = "sync: update saved views export"

// GitDestination writes the export to a file in a local clone, then commits
// and pushes it.
type GitDestination struct {
	repo   string // path to the local clone
	file   string // file path within the repo
	branch string // branch to commit and push to
}

// NewGitDestination creates a git destination. repo is the path to an
// existing local clone.
func NewGitDestination(repo, file, branch string) *GitDestination {
	return &GitDestination{
		repo:   repo,
		file:   file,
		branch: branch,
	}
}

// Write writes data to the configured file, then commits and pushes it
// when it changed.
func (d *GitDestination) Write(ctx context.Context, data []byte) error {
	if _, err := d.git(ctx, "checkout", d.branch); err != nil {
		return fmt.Errorf("git checkout: %w", err)
	}

	// The remote may not have the branch yet.
	_, _ = d.git(ctx, "pull", "--ff-only", "origin", d.branch)

	path := filepath.Join(d.repo, d.file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	if _, err := d.git(ctx, "add", d.file); err != nil {
		return fmt.Errorf("git add: %w", err)
	}
	changed, err := d.staged(ctx)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if _, err := d.git(ctx, "commit", "-m", commitMessage); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	if _, err := d.git(ctx, "push", "origin", d.branch); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	return nil
}

// String returns the target file and branch, for logs.
func (d *GitDestination) String() string {
	return "git:" + filepath.Join(d.repo, d.file) + "@" + d.branch
}

// staged reports whether the index differs from HEAD.
func (d *GitDestination) staged(ctx context.Context) (bool, error) {
	_, err := d.git(ctx, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, fmt.Errorf("git diff: %w", err)
}

// git runs a git subcommand in the clone. Output is folded into the error
// on failure.
func (d *GitDestination) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.repo
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return out.String(), &gitError{args: args, output: strings.TrimSpace(out.String()), err: err}
	}
	return out.String(), nil
}

type gitError struct {
	args   []string
	output string
	err    error
}

func (e *gitError) Error() string {
	if e.output == "" {
		return fmt.Sprintf("git %s: %v", strings.Join(e.args, " "), e.err)
	}
	return fmt.Sprintf("git %s: %v: %s", strings.Join(e.args, " "), e.err, e.output)
}

func (e *gitError) Unwrap() error { return e.err }
