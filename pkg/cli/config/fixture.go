package config

import (
	"log/slog"

	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/interfaces"
	"github.com/marcelogarciass/dashboard-projeto/pkg/service/fixture"
	"github.com/urfave/cli/v3"
)

// Fixture points at a JSON file of issues used instead of Jira
type Fixture struct {
	IssuesFile string
}

// Flags returns CLI flags for Fixture configuration
func (f *Fixture) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "issues-file",
			Usage:       "JSON file with an array of issues, for demos and offline use",
			Category:    "Dashboard",
			Sources:     cli.EnvVars("DASHBOARD_ISSUES_FILE"),
			Destination: &f.IssuesFile,
		},
	}
}

// IsConfigured reports whether an issues file is set
func (f *Fixture) IsConfigured() bool {
	return f.IssuesFile != ""
}

// Configure returns a fixture issue source, or nil when no file is set
func (f *Fixture) Configure() interfaces.IssueSource {
	if !f.IsConfigured() {
		return nil
	}
	return fixture.NewSource(f.IssuesFile)
}

// LogValue returns structured log value
func (f Fixture) LogValue() slog.Value {
	return slog.GroupValue(slog.String("issues_file", f.IssuesFile))
}
