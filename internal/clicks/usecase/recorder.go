package usecase

import (
	"context"
	"fmt"
	"net/http"

	"go-linktrack/internal/clicks/domain"
	"go-linktrack/internal/clicks/metrics"
	"go-linktrack/internal/clicks/requestctx"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const tracerName = "go-linktrack/internal/clicks"

// RecordInput carries the caller-supplied identifiers of a visit.
type RecordInput struct {
	ClickID     string
	LinkID      string
	Domain      string
	Key         string
	URL         string
	WebhookIDs  []string
	WorkspaceID string
	SkipDedup   bool
	Timestamp   string
	Referrer    string
}

// Recorder runs the click pipeline: gate, enrich, commit, quota, fan-out.
type Recorder struct {
	gate      *DedupGate
	extractor requestctx.RuntimeExtractor
	enricher  *Enricher
	committer *Committer
	scheduler FanoutScheduler
	metrics   *metrics.ClickMetrics
	logger    *zap.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(
	gate *DedupGate,
	extractor requestctx.RuntimeExtractor,
	enricher *Enricher,
	committer *Committer,
	scheduler FanoutScheduler,
	m *metrics.ClickMetrics,
	logger *zap.Logger,
) *Recorder {
	return &Recorder{
		gate:      gate,
		extractor: extractor,
		enricher:  enricher,
		committer: committer,
		scheduler: scheduler,
		metrics:   m,
		logger:    logger,
	}
}

// RecordClick records one visit. It returns (nil, nil) when the visit is
// suppressed by policy and an error only when the analytics store rejected
// the event. Failures of the secondary sinks are logged, not returned.
func (r *Recorder) RecordClick(ctx context.Context, req *http.Request, in RecordInput) (*domain.ClickEvent, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "clicks.RecordClick")
	defer span.End()
	span.SetAttributes(
		attribute.String("link.id", in.LinkID),
		attribute.String("link.domain", in.Domain),
	)

	rc := r.extractor.Extract(req)

	if reason := r.gate.Check(ctx, req, in.Domain, in.Key, rc.IP, in.SkipDedup); reason != SuppressNone {
		r.metrics.ClicksSuppressed.WithLabelValues(string(reason)).Inc()
		span.SetAttributes(attribute.String("click.suppressed", string(reason)))
		return nil, nil
	}

	rawUA := req.Header.Get("User-Agent")
	event := r.enricher.BuildEvent(req, EventIdentity{
		ClickID:   in.ClickID,
		LinkID:    in.LinkID,
		Domain:    in.Domain,
		Key:       in.Key,
		URL:       in.URL,
		Timestamp: in.Timestamp,
		Referrer:  in.Referrer,
	}, rc, requestctx.ParseUserAgent(rawUA), requestctx.IdentityHash(rc.IP, rawUA))

	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("record click for link %q: %w", in.LinkID, err)
	}

	hasWebhooks := len(in.WebhookIDs) > 0
	result := r.committer.Commit(ctx, event, CommitPlan{
		DedupKey:    domain.DedupKey(in.Domain, in.Key, rc.IP),
		WorkspaceID: in.WorkspaceID,
		HasWebhooks: hasWebhooks,
	})
	if !result.Recorded() {
		r.metrics.ClicksSuppressed.WithLabelValues("sink_error").Inc()
		return nil, result.EventErr
	}
	r.metrics.ClicksRecorded.Inc()

	if !hasWebhooks {
		return &event, nil
	}

	if ExceedsQuota(result.Snapshot) {
		r.metrics.WebhooksSkipped.WithLabelValues("quota").Inc()
		r.logger.Info("workspace over usage limit, skipping webhooks",
			zap.String("workspace_id", in.WorkspaceID),
			zap.String("link_id", in.LinkID),
		)
		return &event, nil
	}

	err := r.scheduler.Schedule(ctx, FanoutJob{
		Trigger:    domain.TriggerLinkClicked,
		LinkID:     in.LinkID,
		WebhookIDs: in.WebhookIDs,
		Event:      event,
	})
	if err != nil {
		r.logger.Error("failed to schedule webhook fan-out",
			zap.String("link_id", in.LinkID),
			zap.Error(err),
		)
	}

	return &event, nil
}
