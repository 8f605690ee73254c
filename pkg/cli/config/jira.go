package config

import "github.com/urfave/cli/v3"

// Jira holds Jira connection configuration
type Jira struct {
	BaseURL  string
	Email    string
	APIToken string `masq:"secret"`
}

// Flags returns CLI flags for Jira configuration
func (c *Jira) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jira-url",
			Usage:       "Jira base URL (e.g. https://example.atlassian.net)",
			Required:    true,
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("COLLIE_JIRA_URL"),
		},
		&cli.StringFlag{
			Name:        "jira-email",
			Usage:       "Jira account email for basic auth",
			Required:    true,
			Destination: &c.Email,
			Sources:     cli.EnvVars("COLLIE_JIRA_EMAIL"),
		},
		&cli.StringFlag{
			Name:        "jira-api-token",
			Usage:       "Jira API token",
			Required:    true,
			Destination: &c.APIToken,
			Sources:     cli.EnvVars("COLLIE_JIRA_API_TOKEN"),
		},
	}
}
