package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Sink names used in logs, metrics and CommitResult.Failures.
const (
	SinkEvents         = "events"
	SinkDedupMarker    = "dedup_marker"
	SinkLinkClicks     = "link_clicks"
	SinkWorkspaceUsage = "workspace_usage"
	SinkUsageSnapshot  = "usage_snapshot"
)

// CommitPlan is what Commit needs beyond the event itself.
type CommitPlan struct {
	DedupKey    string
	WorkspaceID string
	HasWebhooks bool
}

// CommitResult reports the outcome of every sink write of one Commit.
type CommitResult struct {
	EventErr          error
	DedupErr          error
	LinkClicksErr     error
	WorkspaceUsageErr error
	SnapshotErr       error

	// Snapshot is nil when it was not requested or could not be read.
	Snapshot *domain.UsageSnapshot
}

// Recorded reports whether the analytics store accepted the event.
func (r CommitResult) Recorded() bool {
	return r.EventErr == nil
}

// Failures returns the failed sinks keyed by sink name.
func (r CommitResult) Failures() map[string]error {
	failures := make(map[string]error)
	for name, err := range map[string]error{
		SinkEvents:         r.EventErr,
		SinkDedupMarker:    r.DedupErr,
		SinkLinkClicks:     r.LinkClicksErr,
		SinkWorkspaceUsage: r.WorkspaceUsageErr,
		SinkUsageSnapshot:  r.SnapshotErr,
	} {
		if err != nil {
			failures[name] = err
		}
	}
	return failures
}

// Committer writes an accepted click to every sink concurrently.
type Committer struct {
	sink     EventSink
	cache    Cache
	store    LinkStore
	dedupTTL time.Duration
	metrics  *metrics.ClickMetrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewCommitter creates a new Committer
func NewCommitter(sink EventSink, cache Cache, store LinkStore, dedupTTL time.Duration, m *metrics.ClickMetrics, logger *zap.Logger) *Committer {
	if dedupTTL <= 0 {
		dedupTTL = domain.DefaultDedupTTL
	}
	return &Committer{
		sink:     sink,
		cache:    cache,
		store:    store,
		dedupTTL: dedupTTL,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Commit runs all sink writes in parallel and waits for every one of them.
// A failing write never cancels its siblings.
func (c *Committer) Commit(ctx context.Context, event domain.ClickEvent, plan CommitPlan) CommitResult {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "clicks.Commit")
	defer span.End()

	var (
		result CommitResult
		wg     sync.WaitGroup
	)

	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		if err := c.sink.Append(ctx, event); err != nil {
			result.EventErr = fmt.Errorf("append click event: %w", err)
		}
	})

	run(func() {
		if err := c.cache.Set(ctx, plan.DedupKey, event.ClickID, c.dedupTTL); err != nil {
			result.DedupErr = fmt.Errorf("set dedup marker: %w", err)
		}
	})

	run(func() {
		if err := c.store.IncrementLinkClicks(ctx, event.LinkID, c.now()); err != nil {
			result.LinkClicksErr = fmt.Errorf("increment link clicks: %w", err)
		}
	})

	if event.URL != "" {
		run(func() {
			if err := c.store.IncrementWorkspaceUsage(ctx, event.LinkID); err != nil {
				result.WorkspaceUsageErr = fmt.Errorf("increment workspace usage: %w", err)
			}
		})
	}

	if plan.WorkspaceID != "" && plan.HasWebhooks {
		run(func() {
			snapshot, err := c.store.WorkspaceUsage(ctx, domain.NormalizeWorkspaceID(plan.WorkspaceID))
			if err != nil {
				result.SnapshotErr = fmt.Errorf("read workspace usage: %w", err)
				return
			}
			result.Snapshot = snapshot
		})
	}

	wg.Wait()

	for sink, err := range result.Failures() {
		c.metrics.SinkFailures.WithLabelValues(sink).Inc()
		c.logger.Warn("click sink write failed",
			zap.String("sink", sink),
			zap.String("click_id", event.ClickID),
			zap.String("link_id", event.LinkID),
			zap.Error(err),
		)
	}

	span.SetAttributes(attribute.Bool("click.recorded", result.Recorded()))
	if !result.Recorded() {
		span.SetStatus(codes.Error, result.EventErr.Error())
	}

	return result
}
