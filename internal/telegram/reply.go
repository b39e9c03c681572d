package telegram

// WebhookReply is the sendMessage call returned in the body of the
// webhook response. Answering the webhook directly keeps the whole
// invocation synchronous and yields exactly one reply per update.
// https://core.telegram.org/bots/api#making-requests-when-getting-updates
type WebhookReply struct {
	Method string `json:"method"`
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// NewSendMessage builds a reply for the given chat.
func NewSendMessage(chatID int64, text string) *WebhookReply {
	return &WebhookReply{
		Method: "sendMessage",
		ChatID: chatID,
		Text:   text,
	}
}
