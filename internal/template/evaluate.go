// Package template expands declarative TOML issue templates into trees of
// create-issue calls against the Linear API.
package template

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lnr-cli/lnr/internal/linear"
)

// Document is one template file: a parent issue, optional children, and the
// variable map substituted into every title and description.
type Document struct {
	Parent    ParentIssue       `toml:"parent"`
	Children  []ChildIssue      `toml:"children"`
	Variables map[string]string `toml:"variables"`
}

type ParentIssue struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

type ChildIssue struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// Options carries the identifiers every created issue shares.
type Options struct {
	Team     linear.Team
	Project  *linear.Project
	Viewer   linear.Viewer
	State    linear.State
	Priority linear.Priority
}

const templateExt = ".toml"

// Evaluate processes the template file at path, or every eligible file under
// it when path is a directory. Files are processed independently in
// lexicographic path order; the first failure aborts the rest. Issues
// already created are not rolled back.
func Evaluate(ctx context.Context, client *linear.Client, w io.Writer, path string, opts Options) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("could not find %s", path)
	}

	if !info.IsDir() {
		if err := createIssues(ctx, client, w, path, opts); err != nil {
			return "", err
		}
		return "Done", nil
	}

	var paths []string
	walkErr := filepath.WalkDir(path, func(entry string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && eligible(d.Name()) {
			paths = append(paths, entry)
		}
		return nil
	})
	if walkErr != nil {
		return "", fmt.Errorf("walk %s: %w", path, walkErr)
	}
	sort.Strings(paths)

	for _, file := range paths {
		if err := createIssues(ctx, client, w, file, opts); err != nil {
			return "", err
		}
	}
	return "Done", nil
}

// eligible reports whether a file name is a processable template. The
// manifest exclusion keeps build metadata out of a directory run.
func eligible(name string) bool {
	return strings.HasSuffix(name, templateExt) && name != "Cargo.toml"
}

func createIssues(ctx context.Context, client *linear.Client, w io.Writer, path string, opts Options) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read %s", path)
	}

	var doc Document
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("could not parse %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(w, "Processing %s\n", path)

	title, err := Fill(doc.Parent.Title, doc.Variables)
	if err != nil {
		return err
	}
	description, err := Fill(doc.Parent.Description, doc.Variables)
	if err != nil {
		return err
	}

	var projectID *string
	if opts.Project != nil {
		projectID = &opts.Project.ID
	}

	parent, err := client.CreateIssue(ctx, linear.IssueCreateInput{
		Title:       title,
		Description: description,
		TeamID:      opts.Team.ID,
		StateID:     opts.State.ID,
		AssigneeID:  opts.Viewer.ID,
		Priority:    opts.Priority,
		ProjectID:   projectID,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "- [%s] %s\n", parent.ID, parent.URL)

	for _, child := range doc.Children {
		childTitle, err := Fill(child.Title, doc.Variables)
		if err != nil {
			return err
		}
		childDescription, err := Fill(child.Description, doc.Variables)
		if err != nil {
			return err
		}

		created, err := client.CreateIssue(ctx, linear.IssueCreateInput{
			Title:       childTitle,
			Description: childDescription,
			TeamID:      opts.Team.ID,
			StateID:     opts.State.ID,
			AssigneeID:  opts.Viewer.ID,
			Priority:    opts.Priority,
			ProjectID:   projectID,
			ParentID:    &parent.ID,
		})
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "  - [%s] %s\n", created.ID, created.URL)
	}
	return nil
}
