package fixture

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/interfaces"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
)

// Source serves issues from a JSON file holding an array of issues
type Source struct {
	path string
}

var _ interfaces.IssueSource = (*Source)(nil)

// NewSource creates a file-backed issue source
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Name returns the source name recorded in snapshot metadata
func (s *Source) Name() string {
	return "fixture"
}

// FetchIssues reads the file on every call so edits are picked up on refresh
func (s *Source) FetchIssues(ctx context.Context) ([]*model.Issue, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read issues file", goerr.V("path", s.path))
	}

	var issues []*model.Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, goerr.Wrap(err, "failed to parse issues file", goerr.V("path", s.path))
	}

	loaded := make([]*model.Issue, 0, len(issues))
	for i, issue := range issues {
		if issue == nil || issue.Key == "" {
			return nil, goerr.New("issue without key", goerr.V("path", s.path), goerr.V("index", i))
		}
		issue.ApplyDefaults()
		loaded = append(loaded, issue)
	}

	ctxlog.From(ctx).Debug("loaded issues from file", "path", s.path, "count", len(loaded))
	return loaded, nil
}
