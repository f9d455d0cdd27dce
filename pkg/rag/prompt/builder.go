package prompt

import (
	"fmt"
	"strings"

	"edu-chat-be/internal/constant"
	"edu-chat-be/internal/entity"
	"edu-chat-be/pkg/chroma"
	"edu-chat-be/pkg/llm"
)

// Builder assembles the message list sent to the model: the preamble,
// the agent's system instructions, the retrieved course material, the
// trailing conversation history and the new user message.
type Builder struct {
	agent   *entity.Agent
	context []chroma.QueryResult
	history []*entity.Message
	query   string
}

func NewBuilder(agent *entity.Agent, context []chroma.QueryResult, history []*entity.Message, query string) *Builder {
	return &Builder{
		agent:   agent,
		context: context,
		history: history,
		query:   query,
	}
}

// SystemPrompt renders the full system message. It is persisted on the
// message row for auditability.
func (b *Builder) SystemPrompt() string {
	var prompt strings.Builder

	prompt.WriteString(constant.SystemPromptPreamble)
	prompt.WriteString("\n\n")

	if b.agent.SystemInstructions != "" {
		prompt.WriteString(b.agent.SystemInstructions)
		prompt.WriteString("\n\n")
	}

	b.writeContext(&prompt)

	return strings.TrimSpace(prompt.String())
}

func (b *Builder) writeContext(prompt *strings.Builder) {
	if len(b.context) == 0 {
		return
	}

	prompt.WriteString(constant.ContextBlockHeader)
	prompt.WriteString("\n")
	for i, result := range b.context {
		fmt.Fprintf(prompt, "[%d] %s\n", i+1, result.Content)
	}
}

// Messages renders the complete exchange list for the chat endpoint.
// History is expected oldest first; each stored turn expands to a user
// and an assistant message.
func (b *Builder) Messages() []llm.Message {
	messages := make([]llm.Message, 0, 2*len(b.history)+2)

	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: b.SystemPrompt(),
	})

	for _, turn := range b.history {
		messages = append(messages, llm.Message{
			Role:    constant.ChatMessageRoleUser,
			Content: turn.UserMessage,
		})
		messages = append(messages, llm.Message{
			Role:    constant.ChatMessageRoleAssistant,
			Content: turn.AgentMessage,
		})
	}

	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: b.query,
	})

	return messages
}

// ContextDocIds lists the retrieved document ids in rank order, for
// persistence alongside the message.
func (b *Builder) ContextDocIds() []string {
	ids := make([]string, len(b.context))
	for i, result := range b.context {
		ids[i] = result.Id
	}
	return ids
}
