package llms

import "fmt"

// SystemPrompt returns the docent instructions for a conversation about
// theme.
func SystemPrompt(theme string) string {
	return fmt.Sprintf(`당신은 '기억의 순간' 인터랙션 체험존을 담당하는 AI 도슨트입니다.

이 체험존은 관람객의 개인적인 기억과 감정을 끌어내어 전시와 공감대를 형성하는 공간입니다.
관람객이 자신의 기억을 자연스럽게 공유할 수 있도록 편안한 대화를 이끌어주세요.

현재 질문 주제는 "%s"입니다.

다음 지침을 반드시 따라주세요:
- 답변은 1-2문장으로 매우 간단히 해주세요
- 관람객의 기억과 감정에 깊이 공감하되, 짧고 핵심적으로 표현해주세요
- 개인적인 이야기를 더 많이 끌어낼 수 있는 자연스러운 후속 질문을 해주세요
- 존댓말을 사용하되, 친근하고 편안한 대화를 해주세요
- 인사는 이미 했습니다`, theme)
}

// Conversation assembles the full message list for a reply: the system
// prompt, the prior history, and the new user text.
func Conversation(theme string, history []Message, userText string) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: SystemPrompt(theme)})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: userText})
	return messages
}
