package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lessonkit/season-bot/internal/domain"
)

// TicketRepository encapsulates season-ticket persistence.
type TicketRepository interface {
	// Create issues a ticket with the given capacity and zero used lessons.
	Create(ctx context.Context, ticket *domain.Ticket) error
	// GetLatestByUser returns the most recently created ticket for the
	// user, or pgx.ErrNoRows when the user has never bought one.
	GetLatestByUser(ctx context.Context, userID int64) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, lessons_total)
        VALUES ($1, $2)
        RETURNING id, lessons_used, created_at`

	return r.pool.QueryRow(ctx, query,
		ticket.UserID,
		ticket.LessonsTotal,
	).Scan(&ticket.ID, &ticket.LessonsUsed, &ticket.CreatedAt)
}

func (r *ticketRepository) GetLatestByUser(ctx context.Context, userID int64) (*domain.Ticket, error) {
	const query = `
        SELECT id, user_id, lessons_total, lessons_used, created_at
        FROM tickets WHERE user_id=$1
        ORDER BY created_at DESC LIMIT 1`

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.LessonsTotal,
		&ticket.LessonsUsed,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
