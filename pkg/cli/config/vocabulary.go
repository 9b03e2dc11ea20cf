package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Vocabulary points at an optional status vocabulary file
type Vocabulary struct {
	Path string
}

// Flags returns CLI flags for Vocabulary configuration
func (v *Vocabulary) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "status-vocabulary",
			Usage:       "YAML file with terminal and preferred_order status lists",
			Category:    "Dashboard",
			Sources:     cli.EnvVars("DASHBOARD_STATUS_VOCABULARY"),
			Destination: &v.Path,
		},
	}
}

// Configure returns the vocabulary from the file, or the default one
func (v *Vocabulary) Configure() (*model.StatusVocabulary, error) {
	if v.Path == "" {
		return model.DefaultStatusVocabulary(), nil
	}
	return LoadStatusVocabulary(v.Path)
}

// LoadStatusVocabulary loads a status vocabulary from a YAML file
func LoadStatusVocabulary(path string) (*model.StatusVocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "status vocabulary file not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read status vocabulary file", goerr.V("path", path))
	}

	var vocab model.StatusVocabulary
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return nil, goerr.Wrap(err, "failed to parse status vocabulary YAML", goerr.V("path", path))
	}

	if err := vocab.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid status vocabulary", goerr.V("path", path))
	}

	return &vocab, nil
}

// LogValue returns structured log value
func (v Vocabulary) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", v.Path))
}
