// Package jobs runs webhook fan-out on the in-process event bus.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-linktrack/internal/clicks/usecase"
	"go-linktrack/internal/infra/eventbus"

	"github.com/google/uuid"
)

// FanoutRequestedEvent is the bus name of a scheduled fan-out.
const FanoutRequestedEvent = "webhook.fanout_requested"

// FanoutRequested is published for every click with eligible webhooks.
type FanoutRequested struct {
	ID        string            `json:"id"`
	Job       usecase.FanoutJob `json:"job"`
	Requested time.Time         `json:"requested_at"`
}

func (e *FanoutRequested) EventID() string       { return e.ID }
func (e *FanoutRequested) EventName() string     { return FanoutRequestedEvent }
func (e *FanoutRequested) OccurredAt() time.Time { return e.Requested }

// Publisher is the part of the event bus the scheduler needs.
type Publisher interface {
	Publish(ctx context.Context, e eventbus.Event) error
}

var _ usecase.FanoutScheduler = (*BusScheduler)(nil)

// BusScheduler schedules fan-out jobs by publishing them on the bus.
type BusScheduler struct {
	publisher Publisher
}

// NewBusScheduler creates a new BusScheduler
func NewBusScheduler(publisher Publisher) *BusScheduler {
	return &BusScheduler{publisher: publisher}
}

func (s *BusScheduler) Schedule(ctx context.Context, job usecase.FanoutJob) error {
	return s.publisher.Publish(ctx, &FanoutRequested{
		ID:        uuid.NewString(),
		Job:       job,
		Requested: time.Now().UTC(),
	})
}

// FanoutHandler consumes FanoutRequested events.
type FanoutHandler struct {
	fanout  *usecase.Fanout
	timeout time.Duration
}

var _ eventbus.EventHandler = (*FanoutHandler)(nil)

// NewFanoutHandler creates a handler bounding each job by timeout.
func NewFanoutHandler(fanout *usecase.Fanout, timeout time.Duration) *FanoutHandler {
	return &FanoutHandler{fanout: fanout, timeout: timeout}
}

func (h *FanoutHandler) HandlerName() string { return "webhook_fanout" }

func (h *FanoutHandler) EventName() string { return FanoutRequestedEvent }

func (h *FanoutHandler) Handle(ctx context.Context, envelope *eventbus.EventEnvelope) error {
	var evt FanoutRequested
	if err := json.Unmarshal(envelope.Payload, &evt); err != nil {
		return fmt.Errorf("decode fan-out job: %w", err)
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	job := evt.Job
	h.fanout.Dispatch(ctx, job.Trigger, job.LinkID, job.WebhookIDs, job.Event)
	return nil
}
