package llms

import (
	"strings"
	"testing"
)

func TestConversationOrdersSystemHistoryAndUser(t *testing.T) {
	history := []Message{
		{Role: RoleAssistant, Content: "question"},
		{Role: RoleUser, Content: "answer"},
		{Role: RoleAssistant, Content: "follow up"},
	}

	messages := Conversation("theme", history, "latest")

	if len(messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(messages))
	}
	if messages[0].Role != RoleSystem || !strings.Contains(messages[0].Content, `"theme"`) {
		t.Fatalf("expected system prompt mentioning the theme first, got %+v", messages[0])
	}
	if messages[4].Role != RoleUser || messages[4].Content != "latest" {
		t.Fatalf("expected latest user text last, got %+v", messages[4])
	}
	if len(history) != 3 {
		t.Fatalf("expected history to be left untouched, got %d entries", len(history))
	}
}
