package config

import "github.com/urfave/cli/v3"

// GitHub holds GitHub configuration
type GitHub struct {
	WebhookSecret string `masq:"secret"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret (empty disables signature verification)",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("COLLIE_GITHUB_WEBHOOK_SECRET"),
		},
	}
}
