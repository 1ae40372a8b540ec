// Package git shells out to the git binary for branch detection.
package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Branch returns the current branch name of the working directory.
func Branch() (string, error) {
	out, err := exec.Command("git", "branch", "--show-current").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("run git: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
