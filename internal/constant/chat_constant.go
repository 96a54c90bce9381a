package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	// DefaultSessionTitle is what a fresh session carries until the first
	// user message derives a real one.
	DefaultSessionTitle = "New Chat"

	// FallbackSessionTitle is used when derivation produces nothing usable.
	FallbackSessionTitle = "Chat Session"
)

// GreetingPrefixes are stripped from the front of a first message before it
// becomes a session title. Order matters: longer phrases first so that
// "good morning" is not half-eaten by a shorter match.
var GreetingPrefixes = []string{
	"good morning",
	"good afternoon",
	"good evening",
	"hello",
	"hey",
	"hi",
}
