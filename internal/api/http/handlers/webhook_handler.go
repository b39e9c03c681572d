package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/lessonkit/season-bot/internal/bot"
	"github.com/lessonkit/season-bot/internal/persistence"
	"github.com/lessonkit/season-bot/internal/telegram"
	"github.com/lessonkit/season-bot/pkg/util"
)

// WebhookHandler receives Telegram updates and answers them with the
// command reply in the response body.
type WebhookHandler struct {
	registry *bot.Registry
	deduper  persistence.UpdateDeduper
	logger   *zap.Logger
}

// NewWebhookHandler constructs the handler.
func NewWebhookHandler(registry *bot.Registry, deduper persistence.UpdateDeduper, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{registry: registry, deduper: deduper, logger: logger}
}

// Handle POST /webhook. Non-command and unknown-command updates are
// acknowledged with 200 and no reply so Telegram stops redelivering
// them.
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	var update telegram.Update
	if err := c.BodyParser(&update); err != nil {
		return util.NewValidationError("invalid update payload")
	}
	if update.Message == nil {
		return c.SendStatus(fiber.StatusOK)
	}

	if h.deduper != nil {
		first, err := h.deduper.FirstSeen(c.UserContext(), update.UpdateID)
		if err != nil {
			// Redelivery protection is best-effort; a dead Redis must
			// not take the bot down.
			h.logger.Warn("update dedup unavailable, processing anyway", zap.Error(err))
		} else if !first {
			h.logger.Debug("duplicate update acknowledged", zap.Int64("update_id", update.UpdateID))
			return c.SendStatus(fiber.StatusOK)
		}
	}

	reply, handled := h.registry.Dispatch(c.UserContext(), update.Message)
	if !handled {
		return c.SendStatus(fiber.StatusOK)
	}
	return c.JSON(telegram.NewSendMessage(update.Message.Chat.ID, reply))
}
