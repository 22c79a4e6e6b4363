package chat

// Origin identifies who authored a transcript entry.
type Origin string

const (
	OriginUser Origin = "user"
	OriginBot  Origin = "bot"
)

// Message is a single immutable transcript entry.
type Message struct {
	Text   string `json:"text"`
	Origin Origin `json:"origin"`
}

// UserMessage builds a user-origin message.
func UserMessage(text string) Message {
	return Message{Text: text, Origin: OriginUser}
}

// BotMessage builds a bot-origin message.
func BotMessage(text string) Message {
	return Message{Text: text, Origin: OriginBot}
}
