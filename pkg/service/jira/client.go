package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultJQL selects open work plus everything created in the last two years
const DefaultJQL = "statusCategory != Done OR created >= -730d ORDER BY created DESC"

const (
	// Default custom field IDs of Jira Cloud software projects
	DefaultStoryPointsField = "customfield_10031"
	DefaultSprintField      = "customfield_10020"

	defaultPageSize       = 100
	defaultRequestTimeout = 30 * time.Second
	defaultMaxElapsed     = 60 * time.Second
)

var (
	// ErrTagJiraRequest marks failures talking to the Jira REST API
	ErrTagJiraRequest = goerr.NewTag("jira_request")
	// ErrTagJiraAuth marks rejected credentials
	ErrTagJiraAuth = goerr.NewTag("jira_auth")
)

// Client provides HTTP access to the Jira search API
type Client struct {
	baseURL          string
	username         string
	apiToken         string
	storyPointsField string
	sprintField      string
	pageSize         int
	maxElapsed       time.Duration
	httpClient       *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPageSize sets the maxResults of each search page
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithMaxElapsed bounds the total time spent retrying one request
func WithMaxElapsed(d time.Duration) Option {
	return func(c *Client) {
		c.maxElapsed = d
	}
}

// WithCustomFields overrides the story points and sprint custom field IDs
func WithCustomFields(storyPoints, sprint string) Option {
	return func(c *Client) {
		if storyPoints != "" {
			c.storyPointsField = storyPoints
		}
		if sprint != "" {
			c.sprintField = sprint
		}
	}
}

// NewClient creates a new Jira client
func NewClient(baseURL, username, apiToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:          strings.TrimSuffix(baseURL, "/"),
		username:         username,
		apiToken:         apiToken,
		storyPointsField: DefaultStoryPointsField,
		sprintField:      DefaultSprintField,
		pageSize:         defaultPageSize,
		maxElapsed:       defaultMaxElapsed,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchIssues runs jql and returns every matching issue, following startAt pagination
func (c *Client) SearchIssues(ctx context.Context, jql string) ([]Issue, error) {
	fields := strings.Join(append(searchFields, c.storyPointsField, c.sprintField), ",")

	var all []Issue
	startAt := 0

	for {
		params := url.Values{
			"jql":        {jql},
			"fields":     {fields},
			"startAt":    {strconv.Itoa(startAt)},
			"maxResults": {strconv.Itoa(c.pageSize)},
		}
		apiURL := c.baseURL + "/rest/api/2/search?" + params.Encode()

		body, err := c.doRequest(ctx, http.MethodGet, apiURL)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to search issues", goerr.V("start_at", startAt))
		}

		var page searchResult
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, goerr.Wrap(err, "failed to parse search response",
				goerr.V("start_at", startAt),
				goerr.T(ErrTagJiraRequest))
		}

		all = append(all, page.Issues...)
		ctxlog.From(ctx).Debug("fetched jira page",
			"start_at", startAt,
			"count", len(page.Issues),
			"total", page.Total,
		)

		if len(page.Issues) == 0 || startAt+len(page.Issues) >= page.Total {
			break
		}
		startAt += len(page.Issues)
	}

	return all, nil
}

// doRequest executes an authenticated request, retrying transient failures
// with exponential backoff
func (c *Client) doRequest(ctx context.Context, method, apiURL string) ([]byte, error) {
	if c.baseURL == "" {
		return nil, goerr.New("jira URL not configured")
	}
	if c.apiToken == "" {
		return nil, goerr.New("jira API token not configured")
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.maxElapsed

	var body []byte
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		b, err := c.doOnce(ctx, method, apiURL)
		if err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			ctxlog.From(ctx).Warn("retrying jira request", "attempt", attempt, "error", err)
			return err
		}
		body = b
		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, err
	}

	return body, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "jira API returned " + strconv.Itoa(e.code)
}

func (c *Client) doOnce(ctx context.Context, method, apiURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}

	c.setAuth(req)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request", goerr.T(ErrTagJiraRequest))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read response", goerr.T(ErrTagJiraRequest))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		opts := []goerr.Option{
			goerr.V("status", resp.StatusCode),
			goerr.V("body", truncate(string(respBody), 512)),
			goerr.T(ErrTagJiraRequest),
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			opts = append(opts, goerr.T(ErrTagJiraAuth))
		}
		return nil, goerr.Wrap(&statusError{code: resp.StatusCode}, "unexpected jira response", opts...)
	}

	return respBody, nil
}

// isRetryable reports whether err is a network failure, a rate limit or a server error
func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return goerr.HasTag(err, ErrTagJiraRequest)
}

// setAuth uses Basic auth when a username is set, a bearer token otherwise
func (c *Client) setAuth(req *http.Request) {
	if c.username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.apiToken))
		req.Header.Set("Authorization", "Basic "+auth)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
