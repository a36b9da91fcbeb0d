package llms

// Role describes who a conversation message is from.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry of a chat conversation as exchanged with a
// backend.
type Message struct {
	Role    Role   `json:"role" msgpack:"role"`
	Content string `json:"content" msgpack:"content"`
}

// OpeningPrompt is the user turn that asks the backend for the first
// question of a conversation.
const OpeningPrompt = "전시회 시작"
