package bot

import (
	"context"

	"go.uber.org/zap"

	"github.com/lessonkit/season-bot/internal/observability"
	"github.com/lessonkit/season-bot/internal/telegram"
	"github.com/lessonkit/season-bot/pkg/util"
)

// FailureReply is the single generic text shown to the caller when a
// handler fails internally. Details stay in the logs.
const FailureReply = "Something went wrong. Please try again later."

// Handler executes one bot command and produces the reply text.
type Handler interface {
	Handle(ctx context.Context, msg *telegram.Message) (string, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, msg *telegram.Message) (string, error)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, msg *telegram.Message) (string, error) {
	return f(ctx, msg)
}

// Registry routes command names to handlers. Built once at startup
// and read-only afterwards, so concurrent dispatch needs no locking.
type Registry struct {
	handlers map[string]Handler
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewRegistry constructs an empty registry.
func NewRegistry(logger *zap.Logger, metrics *observability.Metrics) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   logger,
		metrics:  metrics,
	}
}

// Register binds a command name to a handler. Names are matched
// lowercase, the way telegram.Message.Command produces them.
func (r *Registry) Register(name string, handler Handler) {
	r.handlers[name] = handler
}

// Dispatch resolves and runs the handler for the message's command.
// handled is false for non-command messages and unknown commands; the
// webhook acknowledges those without replying. A handler error is
// logged and collapses to the generic failure reply, never to partial
// success text.
func (r *Registry) Dispatch(ctx context.Context, msg *telegram.Message) (reply string, handled bool) {
	name, ok := msg.Command()
	if !ok {
		return "", false
	}
	handler, found := r.handlers[name]
	if !found {
		r.logger.Debug("unknown command", zap.String("command", name))
		return "", false
	}

	r.metrics.RecordCommand(name)
	reply, err := handler.Handle(ctx, msg)
	if err != nil {
		domainErr := util.ToDomainError(err)
		r.logger.Error("command failed",
			zap.String("command", name),
			zap.String("code", domainErr.Code),
			zap.Error(domainErr))
		r.metrics.RecordCommandError(name, domainErr.Code)
		return FailureReply, true
	}
	return reply, true
}
