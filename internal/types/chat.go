package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChatRole is the author of a chat message.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatMessage stamps a message with a fresh ID and the current time.
func NewChatMessage(role ChatRole, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Persona selects the assistant's system framing.
type Persona string

const (
	PersonaAssistant Persona = "assistant"
	PersonaRecruiter Persona = "recruiter"
	PersonaPolicy    Persona = "policy"
	PersonaCulture   Persona = "culture"
)

// DefaultPersona is the persona the chat panel opens with.
const DefaultPersona = PersonaRecruiter

// ParsePersona validates a persona name. An empty name selects the plain
// assistant framing.
func ParsePersona(s string) (Persona, error) {
	switch p := Persona(s); p {
	case PersonaRecruiter, PersonaPolicy, PersonaCulture, PersonaAssistant:
		return p, nil
	case "":
		return PersonaAssistant, nil
	}
	return "", fmt.Errorf("unknown persona %q (recruiter, policy, culture)", s)
}

// Label is the persona name shown in the UI.
func (p Persona) Label(lang Language) string {
	switch p {
	case PersonaRecruiter:
		return lang.Pick("Tuyển dụng", "Recruiter")
	case PersonaPolicy:
		return lang.Pick("Luật & Chính sách", "Policy & Legal")
	case PersonaCulture:
		return lang.Pick("Văn hóa", "Culture")
	}
	return lang.Pick("Trợ lý HR", "HR Assistant")
}

// Greeting is the opening model message for a persona.
func (p Persona) Greeting(lang Language) string {
	switch p {
	case PersonaPolicy:
		return lang.Pick(
			"Xin chào, tôi là Chuyên gia Chính sách HR. Bạn có thắc mắc gì về Luật lao động hay Quy định công ty không?",
			"Hello, HR Policy Expert here. Questions about compliance or handbook?")
	case PersonaCulture:
		return lang.Pick(
			"Chào đồng nghiệp! Mình thuộc team Văn hóa & Gắn kết. Chúng ta cùng lên ý tưởng cho sự kiện sắp tới nhé?",
			"Hi! Culture & Vibes team here. Planning an event?")
	case PersonaAssistant:
		return lang.Pick(
			"Xin chào, tôi là Trợ lý HR. Tôi có thể giúp gì cho bạn?",
			"Hello, I am your HR Assistant. How can I help?")
	}
	return lang.Pick(
		"Chào bạn, tôi là Chuyên gia Tuyển dụng. Chúng ta cần tìm kiếm ứng viên cho vị trí nào hôm nay?",
		"Hello, I am your Senior Recruiter. Who are we hiring today?")
}
