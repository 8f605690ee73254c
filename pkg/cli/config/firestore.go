package config

import "github.com/urfave/cli/v3"

// Firestore holds Firestore event log configuration
type Firestore struct {
	ProjectID       string
	CredentialsFile string
	Collection      string
}

// Flags returns CLI flags for Firestore configuration
func (c *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project ID for the event log (empty disables logging)",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("COLLIE_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-credentials-file",
			Usage:       "Path to Google Cloud credentials JSON (default uses ADC)",
			Destination: &c.CredentialsFile,
			Sources:     cli.EnvVars("COLLIE_FIRESTORE_CREDENTIALS_FILE"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection for git event records",
			Value:       "git_events",
			Destination: &c.Collection,
			Sources:     cli.EnvVars("COLLIE_FIRESTORE_COLLECTION"),
		},
	}
}

// Enabled reports whether the event log is configured
func (c *Firestore) Enabled() bool {
	return c.ProjectID != ""
}
