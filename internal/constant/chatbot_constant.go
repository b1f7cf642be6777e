package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "ai"

	ChatSessionDefaultTitle = "Unnamed session"
	ChatSessionGreeting     = "Hi, how can I help you ?"

	FeedbackRatingHelpful    = "helpful"
	FeedbackRatingNotHelpful = "not_helpful"
)

// Session titles are derived from the first user message, truncated to
// this many characters.
const ChatSessionTitleMaxLen = 60
