package eventbus

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const routerCloseTimeout = 10 * time.Second

// EventHandler consumes one event name. Every handler gets its own copy of
// each event.
type EventHandler interface {
	HandlerName() string
	EventName() string
	Handle(ctx context.Context, envelope *EventEnvelope) error
}

// Router delivers bus events to handlers.
type Router struct {
	router *message.Router
	bus    *EventBus
	logger watermill.LoggerAdapter
}

func NewRouter(bus *EventBus, logger watermill.LoggerAdapter) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: routerCloseTimeout}, logger)
	if err != nil {
		return nil, err
	}
	return &Router{router: router, bus: bus, logger: logger}, nil
}

// AddHandler subscribes handler to its event's topic. It must be called
// before Run.
func (r *Router) AddHandler(handler EventHandler) {
	r.router.AddNoPublisherHandler(
		handler.HandlerName(),
		Topic(handler.EventName()),
		r.bus.Subscriber(),
		r.consume(handler),
	)
}

// consume acks every message. Jobs are best-effort and gochannel would
// redeliver a nacked message forever.
func (r *Router) consume(handler EventHandler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		fields := watermill.LogFields{"handler": handler.HandlerName(), "message_uuid": msg.UUID}

		envelope, err := Unmarshal(msg)
		if err != nil {
			r.logger.Error("dropping undecodable job", err, fields)
			return nil
		}

		if err := handler.Handle(msg.Context(), envelope); err != nil {
			fields["event_name"] = envelope.EventName
			r.logger.Error("job failed", err, fields)
		}
		return nil
	}
}

// Run blocks until ctx is done or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once all handlers have started.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

func (r *Router) Close() error {
	return r.router.Close()
}
