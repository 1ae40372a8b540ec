package cli

import (
	"context"
	"fmt"

	"github.com/lnr-cli/lnr/internal/config"
	"github.com/lnr-cli/lnr/internal/input"
	"github.com/lnr-cli/lnr/internal/linear"
)

// selectTeam resolves a team from the flag when given, auto-selects when the
// viewer has exactly one team, and prompts otherwise.
func (c *commandContext) selectTeam(cfg *config.Config, viewer linear.Viewer, flag string) (linear.Team, error) {
	if flag != "" {
		return viewer.TeamByName(flag)
	}
	if len(viewer.Teams) == 1 {
		return viewer.Teams[0], nil
	}
	names, err := viewer.TeamNames()
	if err != nil {
		return linear.Team{}, err
	}
	name, err := input.Select(c.deps.In, c.deps.Out, "Select a team", names, cfg.MockSelect)
	if err != nil {
		return linear.Team{}, err
	}
	return viewer.TeamByName(name)
}

// selectProject prompts for one of the team's projects with a leading "None"
// entry. A nil result means the issue is not tied to a project.
func (c *commandContext) selectProject(cfg *config.Config, team linear.Team) (*linear.Project, error) {
	names := team.ProjectNames()
	if len(names) == 0 {
		return nil, nil
	}
	options := append([]string{"None"}, names...)
	name, err := input.Select(c.deps.In, c.deps.Out, "Select a project", options, cfg.MockSelect)
	if err != nil {
		return nil, err
	}
	if name == "None" {
		return nil, nil
	}
	project, err := team.ProjectByName(name)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// selectState fetches the team's workflow states, matches the flag when
// given, and prompts otherwise.
func (c *commandContext) selectState(ctx context.Context, cfg *config.Config, client *linear.Client, team linear.Team, flag string) (linear.State, error) {
	states, err := client.TeamStates(ctx, team.ID)
	if err != nil {
		return linear.State{}, err
	}
	if flag != "" {
		for _, state := range states {
			if state.Name == flag {
				return state, nil
			}
		}
		return linear.State{}, fmt.Errorf("%s state not found", flag)
	}
	return input.Select(c.deps.In, c.deps.Out, "Select a status", states, cfg.MockSelect)
}

// selectPriority maps the numeric flag when given (1 low through 4 urgent)
// and prompts otherwise.
func (c *commandContext) selectPriority(cfg *config.Config, flag int) (linear.Priority, error) {
	if flag != 0 {
		return linear.PriorityFromFlag(flag)
	}
	return input.Select(c.deps.In, c.deps.Out, "Select a priority", linear.AllPriorities(), cfg.MockSelect)
}

func (c *commandContext) fetchString(cfg *config.Config, prompt string) (string, error) {
	return input.Text(c.deps.In, c.deps.Out, prompt, cfg.MockString)
}

func (c *commandContext) fetchEditor(cfg *config.Config, prompt, seed string) (string, error) {
	return input.Editor(prompt, seed, cfg.MockString)
}
