package sync

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultCommitMessage is used when a GitDestination has no message set.
const DefaultCommitMessage = "taskboard: update board export"

// GitDestination commits board exports to a file in a local clone and
// pushes the branch.
type GitDestination struct {
	repo   string
	file   string
	branch string

	// Message is the commit message.
	Message string
}

// NewGitDestination returns a destination writing file inside the existing
// clone at repo, on branch.
func NewGitDestination(repo, file, branch string) *GitDestination {
	if file == "" {
		file = "taskboard.jsonl"
	}
	if branch == "" {
		branch = "main"
	}
	return &GitDestination{repo: repo, file: file, branch: branch, Message: DefaultCommitMessage}
}

// Write writes data to the configured file, commits and pushes. Nothing is
// committed when the file content is unchanged.
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
	status, err := d.git(ctx, "status", "--porcelain", "--", d.file)
	if err != nil {
		return fmt.Errorf("git status: %w", err)
	}
	if strings.TrimSpace(status) == "" {
		return nil
	}

	msg := d.Message
	if msg == "" {
		msg = DefaultCommitMessage
	}
	if _, err := d.git(ctx, "commit", "-m", msg); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}
	if _, err := d.git(ctx, "push", "origin", d.branch); err != nil {
		return fmt.Errorf("git push: %w", err)
	}
	return nil
}

// git runs a git subcommand in the clone and returns its stdout. Stderr is
// folded into the error.
func (d *GitDestination) git(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.repo
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
