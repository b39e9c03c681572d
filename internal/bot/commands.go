package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/lessonkit/season-bot/internal/telegram"
)

// Clock abstracts time for the ping command.
type Clock func() time.Time

// Start replies with a static welcome message. No state access.
func Start() Handler {
	return HandlerFunc(func(ctx context.Context, msg *telegram.Message) (string, error) {
		return "Welcome! The bot is up and running.", nil
	})
}

// Whoami replies with the caller's display name.
func Whoami() Handler {
	return HandlerFunc(func(ctx context.Context, msg *telegram.Message) (string, error) {
		username := "unknown"
		if msg.From != nil && msg.From.Username != "" {
			username = msg.From.Username
		}
		return fmt.Sprintf("Your username is %s", username), nil
	})
}

// Ping replies with the current server time, human-readable plus epoch
// milliseconds.
func Ping(now Clock) Handler {
	if now == nil {
		now = time.Now
	}
	return HandlerFunc(func(ctx context.Context, msg *telegram.Message) (string, error) {
		t := now()
		return fmt.Sprintf("Pong! %s %d", t.Format(time.RFC1123), t.UnixMilli()), nil
	})
}
