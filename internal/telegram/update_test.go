package telegram

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageCommand(t *testing.T) {
	tests := []struct {
		name string
		text string
		cmd  string
		ok   bool
	}{
		{name: "plain command", text: "/buy", cmd: "buy", ok: true},
		{name: "bot mention form", text: "/buy@season_ticket_bot", cmd: "buy", ok: true},
		{name: "mixed case", text: "/lessonsLeft", cmd: "lessonsleft", ok: true},
		{name: "with arguments", text: "/ping now", cmd: "ping", ok: true},
		{name: "surrounding whitespace", text: "  /start  ", cmd: "start", ok: true},
		{name: "not a command", text: "hello there", ok: false},
		{name: "bare slash", text: "/", ok: false},
		{name: "empty text", text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{Text: tt.text}
			cmd, ok := msg.Command()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.cmd, cmd)
		})
	}
}

func TestMessageCommandNilMessage(t *testing.T) {
	var msg *Message
	_, ok := msg.Command()
	assert.False(t, ok)
}

func TestUpdateDecoding(t *testing.T) {
	payload := `{
		"update_id": 901,
		"message": {
			"message_id": 7,
			"from": {"id": 42, "username": "student"},
			"chat": {"id": 42},
			"text": "/buy"
		}
	}`

	var update Update
	require.NoError(t, json.Unmarshal([]byte(payload), &update))
	require.NotNil(t, update.Message)
	require.NotNil(t, update.Message.From)
	assert.Equal(t, int64(901), update.UpdateID)
	assert.Equal(t, int64(42), update.Message.From.ID)
	assert.Equal(t, "student", update.Message.From.Username)
	assert.Equal(t, int64(42), update.Message.Chat.ID)
}

func TestWebhookReplyEncoding(t *testing.T) {
	reply := NewSendMessage(42, "Pong!")
	raw, err := json.Marshal(reply)
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"sendMessage","chat_id":42,"text":"Pong!"}`, string(raw))
}
