package cli

import (
	"fmt"

	"github.com/lnr-cli/lnr/internal/config"
	"github.com/lnr-cli/lnr/internal/input"
	"github.com/lnr-cli/lnr/internal/linear"
)

type commandContext struct {
	deps   Dependencies
	global *GlobalOptions
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	return config.GetOrCreate(c.global.Config)
}

// resolveToken picks the organization token: the --org flag when given, the
// only configured organization when there is one, otherwise a prompt.
func (c *commandContext) resolveToken(cfg *config.Config) (string, error) {
	if c.global.Org != "" {
		return cfg.Token(c.global.Org)
	}

	names := cfg.OrganizationNames()
	switch len(names) {
	case 0:
		return "", fmt.Errorf("add an organization with `lnr org add`")
	case 1:
		return cfg.Token(names[0])
	default:
		name, err := input.Select(c.deps.In, c.deps.Out, "Select an organization", names, cfg.MockSelect)
		if err != nil {
			return "", err
		}
		return cfg.Token(name)
	}
}

func (c *commandContext) apiClient() (*config.Config, *linear.Client, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	token, err := c.resolveToken(cfg)
	if err != nil {
		return nil, nil, err
	}
	newClient := c.deps.NewClient
	if newClient == nil {
		newClient = linear.NewClient
	}
	return cfg, newClient(cfg, token), nil
}
