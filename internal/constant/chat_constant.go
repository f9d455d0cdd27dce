package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// ConversationNamePrefix seeds the placeholder title. The sequence
	// number counts every conversation the user ever created, deleted
	// ones included, so titles are never reused.
	ConversationNamePrefix = "Chat #"

	// SystemPromptPreamble precedes the agent's own instructions in
	// every assembled prompt.
	SystemPromptPreamble = `You are a study assistant for a university course. Answer using the course material provided below. If the material does not cover the question, say so instead of guessing. Keep answers concise and in the language of the question.`

	// ContextBlockHeader introduces the retrieved course material inside
	// the assembled prompt.
	ContextBlockHeader = "Course material:"

	// TitlePrompt closes the title request after the first exchange. It
	// follows the user's opening message and the agent's answer in the
	// chat history sent to the title model. Title generation failure
	// never fails the conversation; it is logged and retried on no
	// schedule.
	TitlePrompt = `Write a title of at most five words for this conversation. Reply with the title only, no quotes.`
)
