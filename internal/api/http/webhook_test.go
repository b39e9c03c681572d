package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lessonkit/season-bot/internal/api/http/handlers"
	"github.com/lessonkit/season-bot/internal/auth"
	"github.com/lessonkit/season-bot/internal/bot"
	"github.com/lessonkit/season-bot/internal/domain"
	"github.com/lessonkit/season-bot/internal/observability"
	"github.com/lessonkit/season-bot/internal/service"
	"github.com/lessonkit/season-bot/internal/telegram"
)

const testSecret = "sekret"

type stubUserRepo struct {
	users map[int64]domain.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *domain.User) error {
	if _, exists := r.users[user.ID]; exists {
		return &pgconn.PgError{Code: "23505"}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *stubUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, exists := r.users[id]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

type stubTicketRepo struct {
	tickets []domain.Ticket
	nextID  int64
}

func (r *stubTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.nextID++
	ticket.ID = r.nextID
	ticket.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Millisecond)
	r.tickets = append(r.tickets, *ticket)
	return nil
}

func (r *stubTicketRepo) GetLatestByUser(ctx context.Context, userID int64) (*domain.Ticket, error) {
	for i := len(r.tickets) - 1; i >= 0; i-- {
		if r.tickets[i].UserID == userID {
			ticket := r.tickets[i]
			return &ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// memoryDeduper mirrors the Redis SETNX guard for tests.
type memoryDeduper struct {
	seen map[int64]bool
	err  error
}

func (d *memoryDeduper) FirstSeen(ctx context.Context, updateID int64) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = make(map[int64]bool)
	}
	if d.seen[updateID] {
		return false, nil
	}
	d.seen[updateID] = true
	return true, nil
}

func newTestApp(t *testing.T, deduper *memoryDeduper) (*fiber.App, *stubTicketRepo) {
	t.Helper()

	users := &stubUserRepo{users: make(map[int64]domain.User)}
	tickets := &stubTicketRepo{}
	svc := service.NewTicketService(service.TicketDependencies{
		UserRepo:   users,
		TicketRepo: tickets,
	})
	purchase := bot.NewPurchaseHandlers(svc)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	registry := bot.NewRegistry(logger, metrics)
	registry.Register("start", bot.Start())
	registry.Register("whoami", bot.Whoami())
	registry.Register("ping", bot.Ping(nil))
	registry.Register("buy", bot.HandlerFunc(purchase.Buy))
	registry.Register("lessonsleft", bot.HandlerFunc(purchase.LessonsLeft))

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:      handlers.NewHealthHandler("season-ticket-bot", "test", nil, nil),
		Webhook:     handlers.NewWebhookHandler(registry, deduper, logger),
		Secret:      auth.NewSecretMiddleware(testSecret),
		WebhookPath: "/webhook",
	})
	return app, tickets
}

func updateBody(updateID, userID int64, text string) string {
	update := telegram.Update{
		UpdateID: updateID,
		Message: &telegram.Message{
			MessageID: 1,
			From:      &telegram.User{ID: userID, Username: "student"},
			Chat:      telegram.Chat{ID: userID},
			Text:      text,
		},
	}
	raw, _ := json.Marshal(update)
	return string(raw)
}

func postUpdate(t *testing.T, app *fiber.App, secret, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhook?secret="+secret, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	app, _ := newTestApp(t, &memoryDeduper{})

	status, body := postUpdate(t, app, "wrong", updateBody(1, 42, "/start"))
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body, "UNAUTHORIZED")
}

func TestWebhookRejectsNonPost(t *testing.T) {
	app, _ := newTestApp(t, &memoryDeduper{})

	req := httptest.NewRequest("GET", "/webhook?secret="+testSecret, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
}

func TestWebhookRepliesViaResponseBody(t *testing.T) {
	app, _ := newTestApp(t, &memoryDeduper{})

	status, body := postUpdate(t, app, testSecret, updateBody(1, 42, "/start"))
	require.Equal(t, fiber.StatusOK, status)

	var reply telegram.WebhookReply
	require.NoError(t, json.Unmarshal([]byte(body), &reply))
	assert.Equal(t, "sendMessage", reply.Method)
	assert.Equal(t, int64(42), reply.ChatID)
	assert.Equal(t, "Welcome! The bot is up and running.", reply.Text)
}

func TestWebhookBuyFlow(t *testing.T) {
	app, tickets := newTestApp(t, &memoryDeduper{})

	_, body := postUpdate(t, app, testSecret, updateBody(1, 42, "/buy"))
	assert.Contains(t, body, "successfully bought")
	require.Len(t, tickets.tickets, 1)

	_, body = postUpdate(t, app, testSecret, updateBody(2, 42, "/buy"))
	assert.Contains(t, body, "still have a valid season ticket")
	assert.Contains(t, body, "4 lessons left")
	assert.Len(t, tickets.tickets, 1)
}

func TestWebhookAcknowledgesNonCommand(t *testing.T) {
	app, _ := newTestApp(t, &memoryDeduper{})

	status, body := postUpdate(t, app, testSecret, updateBody(1, 42, "just chatting"))
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotContains(t, body, "sendMessage")
}

func TestWebhookAcknowledgesMessagelessUpdate(t *testing.T) {
	app, _ := newTestApp(t, &memoryDeduper{})

	status, body := postUpdate(t, app, testSecret, `{"update_id": 5}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotContains(t, body, "sendMessage")
}

func TestWebhookSkipsDuplicateUpdates(t *testing.T) {
	app, tickets := newTestApp(t, &memoryDeduper{})

	_, body := postUpdate(t, app, testSecret, updateBody(7, 42, "/buy"))
	assert.Contains(t, body, "successfully bought")

	status, body := postUpdate(t, app, testSecret, updateBody(7, 42, "/buy"))
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotContains(t, body, "sendMessage")
	assert.Len(t, tickets.tickets, 1)
}

func TestWebhookProcessesWhenDedupUnavailable(t *testing.T) {
	app, _ := newTestApp(t, &memoryDeduper{err: assert.AnError})

	status, body := postUpdate(t, app, testSecret, updateBody(9, 42, "/ping"))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Pong!")
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	app, _ := newTestApp(t, &memoryDeduper{})

	status, body := postUpdate(t, app, testSecret, "{not json")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "VALIDATION_FAILED")
}
