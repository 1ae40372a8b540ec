package cli

import (
	"io"

	"github.com/lnr-cli/lnr/internal/config"
	"github.com/lnr-cli/lnr/internal/linear"
)

// Dependencies are the process-level collaborators, injected so commands
// can run against buffers and fake servers in tests.
type Dependencies struct {
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
	Branch    func() (string, error)
	NewClient func(cfg *config.Config, token string) *linear.Client
}

type GlobalOptions struct {
	Config string `short:"c" help:"Absolute path of configuration. Defaults to $XDG_CONFIG_HOME/lnr.cfg"`
	Org    string `short:"o" help:"Organization name. You will be prompted at runtime if this isn't provided"`
}
