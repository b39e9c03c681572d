package telegram

import "strings"

// Update is the inbound webhook payload, reduced to the fields the
// bot reads. https://core.telegram.org/bots/api#update
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message carries the command text and the caller identity.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// User identifies the sender.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

// Chat identifies where the reply goes.
type Chat struct {
	ID int64 `json:"id"`
}

// Command extracts the bot command from the message text. It accepts
// the "/name" and "/name@botname" forms and lowercases the result so
// lookup is case-insensitive. ok is false for non-command messages.
func (m *Message) Command() (name string, ok bool) {
	if m == nil {
		return "", false
	}
	text := strings.TrimSpace(m.Text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd := strings.Fields(text)[0][1:]
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	if cmd == "" {
		return "", false
	}
	return strings.ToLower(cmd), true
}
