package cli

import (
	"context"
	"fmt"

	"github.com/lnr-cli/lnr/internal/template"
)

type TemplateCmd struct {
	Evaluate TemplateEvaluateCmd `cmd:"" help:"Create issues from a template file or directory"`
}

type TemplateEvaluateCmd struct {
	Path      string `arg:"" optional:"" help:"Template file or directory. You will be prompted at runtime if this isn't provided"`
	Team      string `short:"t" help:"Team name. You will be prompted at runtime if this isn't provided"`
	State     string `short:"s" help:"Issue status. You will be prompted at runtime if this isn't provided"`
	Priority  int    `short:"p" help:"Issue priority, from 1 (Low) to 4 (Urgent)"`
	Noproject bool   `help:"Skip the project prompt"`
}

func (c *TemplateEvaluateCmd) Run(ctx context.Context, cctx *commandContext) error {
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

	path := c.Path
	if path == "" {
		path, err = cctx.fetchString(cfg, "Template path")
		if err != nil {
			return err
		}
	}

	opts := template.Options{
		Team:     team,
		Viewer:   viewer,
		State:    state,
		Priority: priority,
	}
	if !c.Noproject {
		opts.Project, err = cctx.selectProject(cfg, team)
		if err != nil {
			return err
		}
	}

	out, err := template.Evaluate(ctx, client, cctx.deps.Out, path, opts)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cctx.deps.Out, out)
	return nil
}
