package gemini

import (
	"testing"

	"github.com/koscakluka/ema-kiosk/core/llms"
	"google.golang.org/genai"
)

func TestToContentsMapsRolesAndAppendsUserText(t *testing.T) {
	history := []llms.Message{
		{Role: llms.RoleSystem, Content: "ignored"},
		{Role: llms.RoleAssistant, Content: "question"},
		{Role: llms.RoleUser, Content: "answer"},
	}

	contents := toContents(history, "latest")

	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}
	if contents[0].Role != string(genai.RoleModel) {
		t.Fatalf("expected assistant to map to model role, got %q", contents[0].Role)
	}
	if contents[1].Role != string(genai.RoleUser) || contents[2].Role != string(genai.RoleUser) {
		t.Fatalf("expected user roles, got %q and %q", contents[1].Role, contents[2].Role)
	}
	if got := contents[2].Parts[0].Text; got != "latest" {
		t.Fatalf("expected latest user text last, got %q", got)
	}
}
