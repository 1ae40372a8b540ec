package linear

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	green = color.New(color.FgGreen)
	cyan  = color.New(color.FgCyan)
)

// FormatIssueList renders issues one per line under a heading. Callers pass
// issues already sorted by ListIssues.
func FormatIssueList(issues []Issue) string {
	if len(issues) == 0 {
		return "No issues found"
	}
	lines := []string{green.Sprint("Issues"), ""}
	for _, issue := range issues {
		lines = append(lines, FormatIssueLine(issue))
	}
	return strings.Join(lines, "\n")
}

// FormatIssueLine renders a single listing row.
func FormatIssueLine(issue Issue) string {
	return fmt.Sprintf("- %s | %s [%s]", issue.Identifier, issue.Title, issue.State.Name)
}

// FormatIssue renders the full issue view: title, identifier and state,
// description, URL, sub-issues, and one level of threaded comments.
func FormatIssue(issue Issue) string {
	lines := []string{
		green.Sprint(issue.Title),
		fmt.Sprintf("%s · %s", cyan.Sprint(issue.Identifier), issue.State.Name),
	}
	if issue.Description != "" {
		lines = append(lines, "", issue.Description)
	}
	if issue.URL != "" {
		lines = append(lines, "", issue.URL)
	}
	if len(issue.Children) > 0 {
		lines = append(lines, "", green.Sprint("Sub-issues"))
		for _, child := range issue.Children {
			lines = append(lines, FormatIssueLine(child))
		}
	}
	if len(issue.Comments) > 0 {
		lines = append(lines, "", green.Sprint("Comments"))
		for _, comment := range issue.Comments {
			lines = append(lines, formatComment(comment, ""))
		}
	}
	return strings.Join(lines, "\n")
}

func formatComment(comment Comment, indent string) string {
	author := comment.AuthorDisplayName
	if author == "" {
		author = "unknown"
	}
	timestamp := comment.CreatedAt
	if comment.EditedAt != "" {
		timestamp += ", edited " + comment.EditedAt
	}
	lines := []string{fmt.Sprintf("%s- %s (%s)", indent, cyan.Sprint(author), timestamp)}
	for _, line := range strings.Split(comment.Body, "\n") {
		lines = append(lines, indent+"  "+line)
	}
	for _, child := range comment.Children {
		lines = append(lines, formatComment(child, indent+"  "))
	}
	return strings.Join(lines, "\n")
}
