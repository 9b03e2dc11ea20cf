package jira

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/interfaces"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
)

// Source fetches the portfolio issue snapshot from Jira
type Source struct {
	client *Client
	jql    string
}

var _ interfaces.IssueSource = (*Source)(nil)

// NewSource creates an issue source running jql; an empty jql uses DefaultJQL
func NewSource(client *Client, jql string) *Source {
	if jql == "" {
		jql = DefaultJQL
	}
	return &Source{client: client, jql: jql}
}

// Name returns the source name recorded in snapshot metadata
func (s *Source) Name() string {
	return "jira"
}

// FetchIssues runs the search and converts every result to a model.Issue
func (s *Source) FetchIssues(ctx context.Context) ([]*model.Issue, error) {
	raw, err := s.client.SearchIssues(ctx, s.jql)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch issues from jira", goerr.V("jql", s.jql))
	}

	logger := ctxlog.From(ctx)
	issues := make([]*model.Issue, 0, len(raw))
	for i := range raw {
		issue, err := s.client.convertIssue(&raw[i])
		if err != nil {
			logger.Warn("skipping malformed jira issue", "key", raw[i].Key, "error", err)
			continue
		}
		issues = append(issues, issue)
	}

	logger.Info("fetched issues from jira", "count", len(issues), "raw_count", len(raw))
	return issues, nil
}

func (c *Client) convertIssue(src *Issue) (*model.Issue, error) {
	f := &src.Fields

	created, err := ParseTimestamp(f.Created)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid created timestamp", goerr.V("key", src.Key))
	}

	issue := &model.Issue{
		Key:         types.IssueKey(src.Key),
		Summary:     f.Summary,
		Created:     created,
		StoryPoints: f.StoryPoints(c.storyPointsField),
		Sprint:      f.SprintName(c.sprintField),
		Labels:      f.Labels,
	}

	if f.Status != nil {
		issue.Status = f.Status.Name
	}
	if f.IssueType != nil {
		issue.Type = f.IssueType.Name
	}
	if f.Priority != nil {
		issue.Priority = f.Priority.Name
	}
	if f.Assignee != nil {
		issue.Assignee = f.Assignee.DisplayName
	}
	if f.Project != nil {
		issue.Project = f.Project.Name
		if issue.Project == "" {
			issue.Project = f.Project.Key
		}
	}
	if len(f.Components) > 0 {
		issue.Module = f.Components[0].Name
	}

	if f.ResolutionDate != "" {
		resolved, err := ParseTimestamp(f.ResolutionDate)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid resolution timestamp", goerr.V("key", src.Key))
		}
		issue.Resolved = &resolved
	}
	if f.DueDate != "" {
		due, err := ParseDate(f.DueDate)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid due date", goerr.V("key", src.Key))
		}
		issue.DueDate = &due
	}

	issue.ApplyDefaults()
	return issue, nil
}
