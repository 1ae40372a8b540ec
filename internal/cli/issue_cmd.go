package cli

import (
	"context"
	"fmt"

	"github.com/pkg/browser"

	"github.com/lnr-cli/lnr/internal/input"
	"github.com/lnr-cli/lnr/internal/linear"
)

type IssueCmd struct {
	Create IssueCreateCmd `cmd:"" help:"Create a new issue"`
	View   IssueViewCmd   `cmd:"" help:"View an issue"`
	Edit   IssueEditCmd   `cmd:"" help:"Edit an issue's description"`
	List   IssueListCmd   `cmd:"" help:"List your issues"`
}

type IssueCreateCmd struct {
	Team        string `short:"t" help:"Team name. You will be prompted at runtime if this isn't provided"`
	State       string `short:"s" help:"Issue status. You will be prompted at runtime if this isn't provided"`
	Priority    int    `short:"p" help:"Issue priority, from 1 (Low) to 4 (Urgent)"`
	Title       string `help:"Issue title. You will be prompted at runtime if this isn't provided"`
	Description string `short:"d" help:"Issue description. An editor opens at runtime if this isn't provided"`
	Noproject   bool   `help:"Skip the project prompt"`
}

type IssueViewCmd struct {
	Select bool `short:"s" help:"Pick an issue instead of using the current git branch"`
	Web    bool `short:"w" help:"Open the issue in the browser"`
}

type IssueEditCmd struct{}

type IssueListCmd struct {
	Noteam    bool `help:"Skip the team prompt and list across teams"`
	Noproject bool `help:"Skip the project prompt"`
}

func (c *IssueCreateCmd) Run(ctx context.Context, cctx *commandContext) error {
	cfg, client, err := cctx.apiClient()
	if err != nil {
		return err
	}

	viewer, err := client.Viewer(ctx)
	if err != nil {
		return err
	}
	team, err := cctx.selectTeam(cfg, viewer, c.Team)
	if err != nil {
		return err
	}
	state, err := cctx.selectState(ctx, cfg, client, team, c.State)
	if err != nil {
		return err
	}
	priority, err := cctx.selectPriority(cfg, c.Priority)
	if err != nil {
		return err
	}

	var projectID *string
	if !c.Noproject {
		project, err := cctx.selectProject(cfg, team)
		if err != nil {
			return err
		}
		if project != nil {
			projectID = &project.ID
		}
	}

	title := c.Title
	if title == "" {
		title, err = cctx.fetchString(cfg, "Issue title")
		if err != nil {
			return err
		}
	}
	description := c.Description
	if description == "" {
		description, err = cctx.fetchEditor(cfg, "Opening editor for the issue description", "")
		if err != nil {
			return err
		}
	}

	created, err := client.CreateIssue(ctx, linear.IssueCreateInput{
		Title:       title,
		Description: description,
		TeamID:      team.ID,
		StateID:     state.ID,
		AssigneeID:  viewer.ID,
		Priority:    priority,
		ProjectID:   projectID,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cctx.deps.Out, created.URL)
	return nil
}

// issuePick pairs an issue with its list line so the select prompt renders
// the same way the list command does.
type issuePick struct {
	issue linear.Issue
}

func (p issuePick) String() string { return linear.FormatIssueLine(p.issue) }

func (c *IssueViewCmd) Run(ctx context.Context, cctx *commandContext) error {
	cfg, client, err := cctx.apiClient()
	if err != nil {
		return err
	}

	var issue linear.Issue
	if c.Select {
		viewer, err := client.Viewer(ctx)
		if err != nil {
			return err
		}
		issues, err := client.ListIssues(ctx, linear.IssueFilter{AssigneeID: viewer.ID})
		if err != nil {
			return err
		}
		picks := make([]issuePick, 0, len(issues))
		for _, issue := range issues {
			picks = append(picks, issuePick{issue: issue})
		}
		pick, err := input.Select(cctx.deps.In, cctx.deps.Out, "Select an issue", picks, cfg.MockSelect)
		if err != nil {
			return err
		}
		issue, err = client.IssueByID(ctx, pick.issue.ID)
		if err != nil {
			return err
		}
	} else {
		branch, err := cctx.deps.Branch()
		if err != nil {
			return err
		}
		issue, err = client.IssueByBranch(ctx, branch)
		if err != nil {
			return err
		}
	}

	if c.Web {
		return browser.OpenURL(issue.URL)
	}
	_, _ = fmt.Fprintln(cctx.deps.Out, linear.FormatIssue(issue))
	return nil
}

func (c *IssueEditCmd) Run(ctx context.Context, cctx *commandContext) error {
	cfg, client, err := cctx.apiClient()
	if err != nil {
		return err
	}

	branch, err := cctx.deps.Branch()
	if err != nil {
		return err
	}
	issue, err := client.IssueByBranch(ctx, branch)
	if err != nil {
		return err
	}

	description, err := cctx.fetchEditor(cfg, "Opening editor for the issue description", issue.Description)
	if err != nil {
		return err
	}
	updated, err := client.UpdateIssueDescription(ctx, issue.ID, description)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cctx.deps.Out, updated.URL)
	return nil
}

func (c *IssueListCmd) Run(ctx context.Context, cctx *commandContext) error {
	cfg, client, err := cctx.apiClient()
	if err != nil {
		return err
	}

	viewer, err := client.Viewer(ctx)
	if err != nil {
		return err
	}
	filter := linear.IssueFilter{AssigneeID: viewer.ID}

	if !c.Noteam {
		team, err := cctx.selectTeam(cfg, viewer, "")
		if err != nil {
			return err
		}
		filter.TeamID = team.ID

		if !c.Noproject {
			project, err := cctx.selectProject(cfg, team)
			if err != nil {
				return err
			}
			if project != nil {
				filter.ProjectID = project.ID
			}
		}
	}

	issues, err := client.ListIssues(ctx, filter)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cctx.deps.Out, linear.FormatIssueList(issues))
	return nil
}
