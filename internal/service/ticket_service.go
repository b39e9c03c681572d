package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lessonkit/season-bot/internal/domain"
	"github.com/lessonkit/season-bot/internal/events"
	"github.com/lessonkit/season-bot/internal/repository"
	"github.com/lessonkit/season-bot/pkg/util"
)

// TicketService encapsulates the season-ticket business rules: lazy
// registration, latest-ticket lookup and ticket issuance. It never
// swallows store errors; translating them into user-facing text is
// the command layer's job.
type TicketService struct {
	users      repository.UserRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher

	lessonsPerTicket int
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	UserRepo         repository.UserRepository
	TicketRepo       repository.TicketRepository
	Dispatcher       events.Dispatcher
	LessonsPerTicket int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	lessons := deps.LessonsPerTicket
	if lessons <= 0 {
		lessons = domain.DefaultLessonsPerTicket
	}
	return &TicketService{
		users:            deps.UserRepo,
		tickets:          deps.TicketRepo,
		dispatcher:       deps.Dispatcher,
		lessonsPerTicket: lessons,
	}
}

// LessonsPerTicket returns the capacity used for new tickets.
func (s *TicketService) LessonsPerTicket() int {
	return s.lessonsPerTicket
}

// UserExists reports whether the caller already has a user record.
func (s *TicketService) UserExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.users.GetByID(ctx, id)
	if err != nil {
		if util.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RegisterUser creates the caller's user record. A duplicate-insert
// error is absorbed: two concurrent registrations for the same caller
// both end with the user existing, which is the outcome that matters.
func (s *TicketService) RegisterUser(ctx context.Context, user *domain.User) error {
	if err := s.users.Create(ctx, user); err != nil {
		if util.IsConflict(err) {
			return nil
		}
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Payload: events.UserRegisteredPayload{
			Username: user.Username,
		},
	})
	return nil
}

// LatestTicket returns the user's most recent ticket, or nil when the
// user has never bought one. Absence is not an error.
func (s *TicketService) LatestTicket(ctx context.Context, userID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetLatestByUser(ctx, userID)
	if err != nil {
		if util.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return ticket, nil
}

// CreateTicket issues a new season ticket unconditionally. Eligibility
// (no active ticket) is the caller's decision; two racing purchases
// may both land here, which the purchase flow accepts as best-effort.
func (s *TicketService) CreateTicket(ctx context.Context, userID int64) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		UserID:       userID,
		LessonsTotal: s.lessonsPerTicket,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventTicketIssued,
		UserID: userID,
		Payload: events.TicketIssuedPayload{
			TicketID:     ticket.ID,
			LessonsTotal: ticket.LessonsTotal,
		},
	})
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
