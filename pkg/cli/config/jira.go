package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/interfaces"
	"github.com/marcelogarciass/dashboard-projeto/pkg/service/jira"
	"github.com/urfave/cli/v3"
)

// Jira holds Jira connection settings
type Jira struct {
	URL              string
	Username         string
	Token            string
	JQL              string
	SecretsFile      string
	StoryPointsField string
	SprintField      string
	MaxElapsed       time.Duration
}

// jiraSecrets is the layout of the --jira-secrets file
type jiraSecrets struct {
	Jira struct {
		URL      string `toml:"url"`
		Username string `toml:"username"`
		Token    string `toml:"token"`
		JQL      string `toml:"jql"`
	} `toml:"jira"`
}

// Flags returns CLI flags for Jira configuration
func (j *Jira) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jira-url",
			Usage:       "Jira base URL, e.g. https://example.atlassian.net",
			Category:    "Jira",
			Sources:     cli.EnvVars("DASHBOARD_JIRA_URL"),
			Destination: &j.URL,
		},
		&cli.StringFlag{
			Name:        "jira-username",
			Usage:       "Jira account e-mail for basic auth (bearer auth when empty)",
			Category:    "Jira",
			Sources:     cli.EnvVars("DASHBOARD_JIRA_USERNAME"),
			Destination: &j.Username,
		},
		&cli.StringFlag{
			Name:        "jira-token",
			Usage:       "Jira API token",
			Category:    "Jira",
			Sources:     cli.EnvVars("DASHBOARD_JIRA_TOKEN"),
			Destination: &j.Token,
		},
		&cli.StringFlag{
			Name:        "jira-jql",
			Usage:       "JQL selecting the issues of the dashboard",
			Category:    "Jira",
			Value:       jira.DefaultJQL,
			Sources:     cli.EnvVars("DASHBOARD_JIRA_JQL"),
			Destination: &j.JQL,
		},
		&cli.StringFlag{
			Name:        "jira-secrets",
			Usage:       "TOML file with a [jira] table (url, username, token, jql); flags take precedence",
			Category:    "Jira",
			Sources:     cli.EnvVars("DASHBOARD_JIRA_SECRETS"),
			Destination: &j.SecretsFile,
		},
		&cli.StringFlag{
			Name:        "jira-story-points-field",
			Usage:       "Custom field holding story points",
			Category:    "Jira",
			Value:       jira.DefaultStoryPointsField,
			Sources:     cli.EnvVars("DASHBOARD_JIRA_STORY_POINTS_FIELD"),
			Destination: &j.StoryPointsField,
		},
		&cli.StringFlag{
			Name:        "jira-sprint-field",
			Usage:       "Custom field holding the sprint",
			Category:    "Jira",
			Value:       jira.DefaultSprintField,
			Sources:     cli.EnvVars("DASHBOARD_JIRA_SPRINT_FIELD"),
			Destination: &j.SprintField,
		},
		&cli.DurationFlag{
			Name:        "jira-max-retry",
			Usage:       "Maximum time spent retrying one Jira request",
			Category:    "Jira",
			Value:       time.Minute,
			Sources:     cli.EnvVars("DASHBOARD_JIRA_MAX_RETRY"),
			Destination: &j.MaxElapsed,
		},
	}
}

// LoadSecrets fills unset fields from the secrets file, if one is given
func (j *Jira) LoadSecrets() error {
	if j.SecretsFile == "" {
		return nil
	}

	data, err := os.ReadFile(j.SecretsFile)
	if err != nil {
		return goerr.Wrap(err, "failed to read jira secrets file", goerr.V("path", j.SecretsFile))
	}

	var secrets jiraSecrets
	if err := toml.Unmarshal(data, &secrets); err != nil {
		return goerr.Wrap(err, "failed to parse jira secrets file", goerr.V("path", j.SecretsFile))
	}

	if j.URL == "" {
		j.URL = secrets.Jira.URL
	}
	if j.Username == "" {
		j.Username = secrets.Jira.Username
	}
	if j.Token == "" {
		j.Token = secrets.Jira.Token
	}
	if secrets.Jira.JQL != "" && (j.JQL == "" || j.JQL == jira.DefaultJQL) {
		j.JQL = secrets.Jira.JQL
	}
	return nil
}

// IsConfigured reports whether a Jira URL and token are available
func (j *Jira) IsConfigured() bool {
	return j.URL != "" && j.Token != ""
}

// Configure returns a Jira issue source, or nil when Jira is not configured
func (j *Jira) Configure() (interfaces.IssueSource, error) {
	if err := j.LoadSecrets(); err != nil {
		return nil, err
	}
	if !j.IsConfigured() {
		if j.URL != "" || j.Token != "" {
			return nil, goerr.New("both jira url and token are required",
				goerr.V("has_url", j.URL != ""),
				goerr.V("has_token", j.Token != ""),
			)
		}
		return nil, nil
	}

	client := jira.NewClient(j.URL, j.Username, j.Token,
		jira.WithCustomFields(j.StoryPointsField, j.SprintField),
		jira.WithMaxElapsed(j.MaxElapsed),
	)
	return jira.NewSource(client, j.JQL), nil
}

// LogValue returns structured log value without credentials
func (j Jira) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", j.URL),
		slog.String("username", j.Username),
		slog.Bool("has_token", j.Token != ""),
		slog.String("jql", j.JQL),
		slog.String("secrets_file", j.SecretsFile),
	)
}
