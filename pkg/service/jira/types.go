package jira

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// searchFields is the fixed part of the field list requested in searches
var searchFields = []string{
	"summary",
	"status",
	"priority",
	"issuetype",
	"project",
	"assignee",
	"labels",
	"components",
	"created",
	"resolutiondate",
	"duedate",
}

type searchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Issue is a Jira issue as returned by the search API
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// IssueFields holds the standard fields plus raw custom fields keyed by ID
type IssueFields struct {
	Summary        string          `json:"summary"`
	Status         *namedField     `json:"status"`
	Priority       *namedField     `json:"priority"`
	IssueType      *namedField     `json:"issuetype"`
	Project        *projectField   `json:"project"`
	Assignee       *userField      `json:"assignee"`
	Labels         []string        `json:"labels"`
	Components     []namedField    `json:"components"`
	Created        string          `json:"created"`
	ResolutionDate string          `json:"resolutiondate"`
	DueDate        string          `json:"duedate"`

	Custom map[string]json.RawMessage `json:"-"`
}

type namedField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type projectField struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

type userField struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// UnmarshalJSON decodes the standard fields and keeps every customfield_* entry raw
func (f *IssueFields) UnmarshalJSON(data []byte) error {
	type plain IssueFields
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	p.Custom = make(map[string]json.RawMessage)
	for k, v := range all {
		if strings.HasPrefix(k, "customfield_") {
			p.Custom[k] = v
		}
	}

	*f = IssueFields(p)
	return nil
}

// StoryPoints decodes a numeric custom field, returning 0 when absent or null
func (f *IssueFields) StoryPoints(field string) float64 {
	raw, ok := f.Custom[field]
	if !ok {
		return 0
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err == nil && v != nil {
		return *v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
	}
	return 0
}

var sprintNamePattern = regexp.MustCompile(`name=([^,\]]+)`)

// SprintName returns the name of the first sprint of the sprint custom field.
// Jira Cloud sends objects, older servers send serialized strings.
func (f *IssueFields) SprintName(field string) string {
	raw, ok := f.Custom[field]
	if !ok {
		return ""
	}

	var objects []namedField
	if err := json.Unmarshal(raw, &objects); err == nil {
		if len(objects) > 0 {
			return objects[0].Name
		}
		return ""
	}

	var serialized []string
	if err := json.Unmarshal(raw, &serialized); err == nil && len(serialized) > 0 {
		if m := sprintNamePattern.FindStringSubmatch(serialized[0]); m != nil {
			return m[1]
		}
	}
	return ""
}

// ParseTimestamp parses Jira's timestamp formats, e.g. 2024-01-15T10:30:00.000+0000
func ParseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, goerr.New("empty timestamp")
	}

	formats := []string{
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
		time.RFC3339Nano,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, ts); err == nil {
			return t, nil
		}
	}

	return time.Time{}, goerr.New("unsupported timestamp format", goerr.V("timestamp", ts))
}

// ParseDate parses a Jira date-only field such as duedate
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid date", goerr.V("date", s))
	}
	return t, nil
}
