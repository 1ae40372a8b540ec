package cli

import "github.com/alecthomas/kong"

type CLI struct {
	GlobalOptions `embed:""`

	Version kong.VersionFlag `help:"Print version and exit"`

	Issue    IssueCmd    `cmd:"" help:"Commands for issues"`
	Org      OrgCmd      `cmd:"" help:"Commands for organizations"`
	Template TemplateCmd `cmd:"" help:"Commands for working with templates"`
}
