package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/lessonkit/season-bot/internal/config"
	"github.com/lessonkit/season-bot/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventTicketIssued, n.handleTicketIssued)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.Int64("user_id", event.UserID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketIssued(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketIssued", zap.Int64("user_id", event.UserID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
}
