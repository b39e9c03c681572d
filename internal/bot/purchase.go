package bot

import (
	"context"
	"fmt"

	"github.com/lessonkit/season-bot/internal/domain"
	"github.com/lessonkit/season-bot/internal/service"
	"github.com/lessonkit/season-bot/internal/telegram"
	"github.com/lessonkit/season-bot/pkg/util"
)

const registeredNotice = "Looks like you're new here, so I registered you.\n"

// PurchaseHandlers implements the commands that touch ticket state:
// buy and lessonsleft. Both register the caller first if needed.
type PurchaseHandlers struct {
	service *service.TicketService
}

// NewPurchaseHandlers constructs the handlers.
func NewPurchaseHandlers(ticketService *service.TicketService) *PurchaseHandlers {
	return &PurchaseHandlers{service: ticketService}
}

// Buy issues a new season ticket unless the caller's latest ticket
// still has lessons left. Racing purchases are best-effort: the store
// is not asked to serialize per-user issuance, so two simultaneous
// buys can both succeed.
func (h *PurchaseHandlers) Buy(ctx context.Context, msg *telegram.Message) (string, error) {
	caller := msg.From
	if caller == nil {
		return "", util.NewValidationError("update has no sender")
	}

	notice, err := h.ensureRegistered(ctx, caller)
	if err != nil {
		return "", err
	}

	ticket, err := h.service.LatestTicket(ctx, caller.ID)
	if err != nil {
		return "", err
	}
	if ticket != nil && ticket.Active() {
		return notice + fmt.Sprintf(
			"You still have a valid season ticket with %s left.",
			lessonsPhrase(ticket.LessonsLeft()),
		), nil
	}

	if _, err := h.service.CreateTicket(ctx, caller.ID); err != nil {
		return "", err
	}
	return notice + "You successfully bought a season ticket!", nil
}

// LessonsLeft reports the remaining capacity of the caller's latest
// ticket, or suggests buying one.
func (h *PurchaseHandlers) LessonsLeft(ctx context.Context, msg *telegram.Message) (string, error) {
	caller := msg.From
	if caller == nil {
		return "", util.NewValidationError("update has no sender")
	}

	notice, err := h.ensureRegistered(ctx, caller)
	if err != nil {
		return "", err
	}

	ticket, err := h.service.LatestTicket(ctx, caller.ID)
	if err != nil {
		return "", err
	}
	switch {
	case ticket == nil:
		return notice + "You don't have a season ticket yet. Send /buy to get one.", nil
	case ticket.LessonsLeft() == 0:
		return notice + "Your season ticket is fully claimed. Send /buy to get a new one.", nil
	default:
		return notice + fmt.Sprintf("You have %s left.", lessonsPhrase(ticket.LessonsLeft())), nil
	}
}

// ensureRegistered lazily creates the caller's user record. The
// transport allows one reply per update, so the registration notice
// comes back as a prefix for the command's reply instead of a message
// of its own.
func (h *PurchaseHandlers) ensureRegistered(ctx context.Context, caller *telegram.User) (notice string, err error) {
	exists, err := h.service.UserExists(ctx, caller.ID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", nil
	}
	if err := h.service.RegisterUser(ctx, &domain.User{
		ID:       caller.ID,
		Username: caller.Username,
	}); err != nil {
		return "", err
	}
	return registeredNotice, nil
}

func lessonsPhrase(n int) string {
	if n == 1 {
		return "1 lesson"
	}
	return fmt.Sprintf("%d lessons", n)
}
