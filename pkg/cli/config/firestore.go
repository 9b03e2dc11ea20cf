package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/interfaces"
	"github.com/marcelogarciass/dashboard-projeto/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Firestore holds Firestore configuration
type Firestore struct {
	ProjectID        string
	DatabaseID       string
	CollectionPrefix string
}

// Flags returns CLI flags for Firestore configuration
func (f *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "GCP project ID for Firestore",
			Category:    "Firestore",
			Sources:     cli.EnvVars("DASHBOARD_FIRESTORE_PROJECT"),
			Destination: &f.ProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Category:    "Firestore",
			Value:       "(default)",
			Sources:     cli.EnvVars("DASHBOARD_FIRESTORE_DATABASE"),
			Destination: &f.DatabaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-prefix",
			Usage:       "Prefix for Firestore collection names, to share one database between environments",
			Category:    "Firestore",
			Sources:     cli.EnvVars("DASHBOARD_FIRESTORE_PREFIX"),
			Destination: &f.CollectionPrefix,
		},
	}
}

// Configure returns a Firestore repository, or an in-memory one when no
// project is set
func (f *Firestore) Configure(ctx context.Context) (interfaces.Repository, error) {
	if !f.IsConfigured() {
		ctxlog.From(ctx).Warn("Firestore is not configured, keeping snapshots and selections in memory")
		return repository.NewMemory(), nil
	}

	var opts []repository.FirestoreOption
	if f.CollectionPrefix != "" {
		opts = append(opts, repository.WithCollectionPrefix(f.CollectionPrefix))
	}

	repo, err := repository.NewFirestore(ctx, f.ProjectID, f.DatabaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to init firestore",
			goerr.V("project", f.ProjectID),
			goerr.V("database", f.DatabaseID),
		)
	}

	return repo, nil
}

// IsConfigured reports whether a Firestore project is set
func (f *Firestore) IsConfigured() bool {
	return f.ProjectID != ""
}

// LogValue returns structured log value
func (f Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project", f.ProjectID),
		slog.String("database", f.DatabaseID),
		slog.String("prefix", f.CollectionPrefix),
	)
}
