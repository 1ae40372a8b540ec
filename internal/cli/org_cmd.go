package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/lnr-cli/lnr/internal/input"
)

type OrgCmd struct {
	Add    OrgAddCmd    `cmd:"" help:"Add an organization to the config"`
	Remove OrgRemoveCmd `cmd:"" help:"Remove an organization from the config"`
	List   OrgListCmd   `cmd:"" help:"List organizations in the config"`
}

type OrgAddCmd struct{}

type OrgRemoveCmd struct{}

type OrgListCmd struct{}

func (c *OrgAddCmd) Run(ctx *commandContext) error {
	cfg, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	name, err := input.Text(ctx.deps.In, ctx.deps.Out, "Organization name", cfg.MockString)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("organization name cannot be empty")
	}

	token, err := readToken(ctx.deps.In, ctx.deps.Out, cfg.MockString)
	if err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("API token cannot be empty")
	}

	cfg.AddOrganization(strings.TrimSpace(name), strings.TrimSpace(token))
	if err := cfg.Save(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ctx.deps.Out, "Added organization %s\n", strings.TrimSpace(name))
	return nil
}

func (c *OrgRemoveCmd) Run(ctx *commandContext) error {
	cfg, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	names := cfg.OrganizationNames()
	if len(names) == 0 {
		return errors.New("no organizations in config")
	}
	name, err := input.Select(ctx.deps.In, ctx.deps.Out, "Select an organization to remove", names, cfg.MockSelect)
	if err != nil {
		return err
	}

	cfg.RemoveOrganization(name)
	if err := cfg.Save(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ctx.deps.Out, "Removed organization %s\n", name)
	return nil
}

func (c *OrgListCmd) Run(ctx *commandContext) error {
	cfg, err := ctx.loadConfig()
	if err != nil {
		return err
	}

	names := cfg.OrganizationNames()
	if len(names) == 0 {
		_, _ = fmt.Fprintln(ctx.deps.Out, "No organizations in config")
		return nil
	}

	_, _ = color.New(color.FgGreen).Fprintln(ctx.deps.Out, "Organizations")
	for _, name := range names {
		token, _ := cfg.Token(name)
		_, _ = fmt.Fprintf(ctx.deps.Out, "- %s: %s\n", name, token)
	}
	return nil
}

// readToken reads the API token without echo when stdin is a terminal.
func readToken(r io.Reader, w io.Writer, mock *string) (string, error) {
	if mock != nil {
		return *mock, nil
	}
	if file, ok := r.(*os.File); ok {
		if term.IsTerminal(int(file.Fd())) {
			_, _ = fmt.Fprint(w, "API token: ")
			b, err := term.ReadPassword(int(file.Fd()))
			_, _ = fmt.Fprintln(w)
			if err != nil {
				return "", fmt.Errorf("read API token: %w", err)
			}
			return string(b), nil
		}
	}
	_, _ = fmt.Fprint(w, "API token: ")
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read API token: %w", err)
	}
	return strings.TrimSpace(line), nil
}
