package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/scrumkit/collie/pkg/domain/model"
)

// Policy holds transition policy configuration
type Policy struct {
	File string
}

// Flags returns CLI flags for policy configuration
func (c *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "transition-policy",
			Usage:       "Path to TOML file overriding transition target statuses",
			Destination: &c.File,
			Sources:     cli.EnvVars("COLLIE_TRANSITION_POLICY"),
		},
	}
}

// Load returns the transition policy. Without a file the default
// Jira-style targets apply; a file overrides only the keys it sets.
func (c *Policy) Load() (model.TransitionPolicy, error) {
	policy := model.DefaultTransitionPolicy()
	if c.File == "" {
		return policy, nil
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return policy, goerr.Wrap(err, "failed to read transition policy file", goerr.V("path", c.File))
	}
	if err := toml.Unmarshal(data, &policy); err != nil {
		return policy, goerr.Wrap(err, "failed to parse transition policy file", goerr.V("path", c.File))
	}

	return policy, nil
}
