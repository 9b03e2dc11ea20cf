package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/interfaces"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
	"github.com/marcelogarciass/dashboard-projeto/pkg/utils/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a fetched snapshot is served before refetching
const DefaultCacheTTL = time.Hour

const refreshKey = "refresh"

// IssueCache serves the issue snapshot from the repository and refetches it
// from the issue source once it is older than the TTL
type IssueCache struct {
	repo   interfaces.Repository
	source interfaces.IssueSource
	ttl    time.Duration
	now    func() time.Time
	group  singleflight.Group

	lookups   metric.Int64Counter
	refreshes metric.Int64Counter
}

// IssueCacheOption configures the cache
type IssueCacheOption func(*IssueCache)

// WithIssueSource sets the source used to refresh the snapshot
func WithIssueSource(source interfaces.IssueSource) IssueCacheOption {
	return func(c *IssueCache) {
		c.source = source
	}
}

// WithCacheTTL sets the snapshot TTL
func WithCacheTTL(ttl time.Duration) IssueCacheOption {
	return func(c *IssueCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) IssueCacheOption {
	return func(c *IssueCache) {
		c.now = now
	}
}

// NewIssueCache creates a new IssueCache
func NewIssueCache(repo interfaces.Repository, opts ...IssueCacheOption) (*IssueCache, error) {
	c := &IssueCache{
		repo: repo,
		ttl:  DefaultCacheTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	meter := telemetry.Meter()
	var err error
	if c.lookups, err = meter.Int64Counter("dashboard.cache.lookups",
		metric.WithDescription("Issue snapshot lookups by result")); err != nil {
		return nil, goerr.Wrap(err, "failed to create lookup counter")
	}
	if c.refreshes, err = meter.Int64Counter("dashboard.cache.refreshes",
		metric.WithDescription("Issue snapshot refreshes by outcome")); err != nil {
		return nil, goerr.Wrap(err, "failed to create refresh counter")
	}

	return c, nil
}

// TTL returns the configured snapshot TTL
func (c *IssueCache) TTL() time.Duration {
	return c.ttl
}

// Issues returns the current snapshot, refreshing it first when it is
// missing, expired or forceRefresh is set. A failed refresh falls back to
// the stored snapshot when one exists.
func (c *IssueCache) Issues(ctx context.Context, forceRefresh bool) ([]*model.Issue, *model.SnapshotInfo, error) {
	info, err := c.repo.GetSnapshotInfo(ctx)
	if err != nil && !errors.Is(err, model.ErrSnapshotNotFound) {
		return nil, nil, goerr.Wrap(err, "failed to get snapshot info")
	}

	if c.source == nil {
		if info == nil {
			return nil, nil, goerr.Wrap(model.ErrSnapshotNotFound, "no issue source configured and nothing stored")
		}
		return c.stored(ctx, info, "static")
	}

	if info != nil && !forceRefresh && c.now().Sub(info.FetchedAt) < c.ttl {
		return c.stored(ctx, info, "hit")
	}

	result, err := c.refresh(ctx)
	if err != nil {
		if info == nil {
			return nil, nil, goerr.Wrap(err, "failed to load issues", goerr.T(model.ErrTagUpstream))
		}
		ctxlog.From(ctx).Warn("serving stale issue snapshot",
			"error", err,
			"snapshot_id", info.ID,
			"fetched_at", info.FetchedAt,
		)
		return c.stored(ctx, info, "stale")
	}

	c.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", "miss")))
	return result.issues, result.info, nil
}

// Refresh fetches a new snapshot from the source unconditionally
func (c *IssueCache) Refresh(ctx context.Context) (*model.SnapshotInfo, error) {
	if c.source == nil {
		return nil, goerr.New("no issue source configured")
	}
	result, err := c.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return result.info, nil
}

// maxSnapshotReads bounds re-reads when refreshes keep replacing the snapshot mid-read
const maxSnapshotReads = 3

// stored lists the issues of info's snapshot. When a refresh replaced it in
// the meantime, the new snapshot is read instead so info and issues always
// belong to the same generation.
func (c *IssueCache) stored(ctx context.Context, info *model.SnapshotInfo, result string) ([]*model.Issue, *model.SnapshotInfo, error) {
	for attempt := 1; ; attempt++ {
		issues, err := c.repo.ListIssues(ctx, info.ID)
		if err == nil {
			c.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
			return issues, info, nil
		}
		if !errors.Is(err, model.ErrSnapshotNotFound) || attempt == maxSnapshotReads {
			return nil, nil, goerr.Wrap(err, "failed to list stored issues",
				goerr.V("snapshot_id", info.ID),
				goerr.V("attempt", attempt))
		}

		ctxlog.From(ctx).Debug("snapshot replaced while reading, retrying", "snapshot_id", info.ID)
		if info, err = c.repo.GetSnapshotInfo(ctx); err != nil {
			return nil, nil, goerr.Wrap(err, "failed to get snapshot info")
		}
	}
}

type refreshResult struct {
	info   *model.SnapshotInfo
	issues []*model.Issue
}

// refresh collapses concurrent refreshes into one fetch. The fetch is
// detached from the caller's cancellation since other callers share it.
func (c *IssueCache) refresh(ctx context.Context) (*refreshResult, error) {
	v, err, shared := c.group.Do(refreshKey, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		fetchCtx, span := telemetry.Tracer().Start(fetchCtx, "IssueCache.refresh")
		defer span.End()

		started := c.now()
		issues, err := c.source.FetchIssues(fetchCtx)
		if err != nil {
			span.RecordError(err)
			c.refreshes.Add(fetchCtx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
			return nil, goerr.Wrap(err, "failed to fetch issues", goerr.V("source", c.source.Name()))
		}

		info := &model.SnapshotInfo{
			ID:         types.NewSnapshotID(),
			FetchedAt:  c.now(),
			IssueCount: len(issues),
			Source:     c.source.Name(),
		}
		if err := c.repo.PutSnapshot(fetchCtx, info, issues); err != nil {
			c.refreshes.Add(fetchCtx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
			return nil, goerr.Wrap(err, "failed to store snapshot", goerr.V("snapshot_id", info.ID))
		}

		c.refreshes.Add(fetchCtx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
		ctxlog.From(fetchCtx).Info("issue snapshot refreshed",
			"snapshot_id", info.ID,
			"source", info.Source,
			"count", info.IssueCount,
			"duration", c.now().Sub(started),
		)
		return &refreshResult{info: info, issues: issues}, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		ctxlog.From(ctx).Debug("joined in-flight issue refresh")
	}
	return v.(*refreshResult), nil
}
