package panel

import (
	"context"
	"strings"
	"time"

	"hrpilot/internal/errors"
	"hrpilot/internal/types"
)

// greetingID is the ID of the opening model message.
const greetingID = "init"

// ChatState is a snapshot of the chat panel.
type ChatState struct {
	Persona  types.Persona       `json:"persona"`
	Thinking bool                `json:"thinking"`
	Messages []types.ChatMessage `json:"messages"`
	Loading  bool                `json:"loading"`
}

// Chatbot owns one conversation. Switching persona or language starts a new
// conversation with that persona's greeting; a reply that belongs to an
// earlier conversation is dropped.
type Chatbot struct {
	base
	persona  types.Persona
	thinking bool
	messages []types.ChatMessage
	loading  bool
	// epoch changes whenever the transcript is replaced or cleared.
	epoch uint64
}

func NewChatbot(assistant Assistant, lang types.Language, logger *errors.Logger) *Chatbot {
	c := &Chatbot{persona: types.DefaultPersona}
	c.init(assistant, lang, logger)
	c.resetLocked()
	return c
}

// resetLocked replaces the transcript with the greeting. The caller holds mu.
func (c *Chatbot) resetLocked() {
	c.epoch++
	c.messages = []types.ChatMessage{{
		ID:        greetingID,
		Role:      types.RoleModel,
		Text:      c.persona.Greeting(c.lang),
		Timestamp: time.Now(),
	}}
}

// SetPersona switches persona. A change resets the conversation.
func (c *Chatbot) SetPersona(persona types.Persona) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if persona == c.persona {
		return
	}
	c.persona = persona
	c.resetLocked()
}

// SetLanguage switches language. A change resets the conversation.
func (c *Chatbot) SetLanguage(lang types.Language) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if lang == c.lang {
		return
	}
	c.lang = lang
	c.resetLocked()
}

func (c *Chatbot) SetThinking(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.thinking = on
}

// Clear empties the transcript, greeting included.
func (c *Chatbot) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.messages = []types.ChatMessage{}
}

// Send appends text as a user message, asks the assistant with the prior
// transcript as history and appends the reply. If the conversation was reset
// while waiting, the reply is returned with ErrStale and not appended.
func (c *Chatbot) Send(ctx context.Context, text string) (types.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return types.ChatMessage{}, ErrEmptyInput
	}

	c.mu.Lock()
	if err := begin(&c.loading); err != nil {
		c.mu.Unlock()
		return types.ChatMessage{}, err
	}
	history := append([]types.ChatMessage(nil), c.messages...)
	c.messages = append(c.messages, types.NewChatMessage(types.RoleUser, text))
	epoch, lang, persona, thinking := c.epoch, c.lang, c.persona, c.thinking
	c.mu.Unlock()

	reply := c.assistant.ChatTurn(ctx, history, text, lang, persona, thinking)
	if strings.TrimSpace(reply) == "" {
		reply = types.EmptyChatReply
	}
	msg := types.NewChatMessage(types.RoleModel, reply)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if epoch != c.epoch {
		c.logger.Debug("Discarding stale chat reply", "persona", persona, "language", lang)
		return msg, ErrStale
	}
	c.messages = append(c.messages, msg)
	return msg, nil
}

func (c *Chatbot) Persona() types.Persona {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persona
}

func (c *Chatbot) State() ChatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChatState{
		Persona:  c.persona,
		Thinking: c.thinking,
		Messages: append([]types.ChatMessage{}, c.messages...),
		Loading:  c.loading,
	}
}
