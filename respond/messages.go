package respond

import "fmt"

// Fixed replies used when there is no page data to work from.
const (
	AnalyzeFirstSummarize = "I can help summarize content, but I need to analyze the page first. Please click \"Analyze Page\" and try again."
	AnalyzeFirstExplain   = "I'd be happy to explain the content. First, let me analyze the page. Click \"Analyze Page\" to get started."
	AnalyzeFirstSimplify  = "I can simplify complex content for you. Please use \"Analyze Page\" first so I can access the content."
	AnalyzeFirstDefault   = "I'm here to help you understand web content. Click \"Analyze Page\" to get started, then ask me anything!"
)

// Quick-action replies and failures.
const (
	ExplainPrompt = "What would you like me to explain about this page? You can ask about specific sections or concepts."
	SearchPrompt  = "What would you like to search for? For example: \"today India cricket match result\" or \"latest AI news\""

	AnalyzeFailed   = "Unable to analyze this page. The page might not allow content extraction."
	SummarizeFailed = "Unable to load page content for summarization."
	ExplainFailed   = "Unable to load page content. Please try refreshing the page."
	NoSelection     = "No text is currently selected. Please select some text on the page and try again."
	ActionFailed    = "Sorry, I encountered an error. Please make sure the page is fully loaded and try again."

	SearchFailed  = "Sorry, I encountered an error performing the search."
	MessageFailed = "Sorry, I encountered an error processing your request. Please try again."

	AnalysisSpoken = "Page analysis complete"
	Listening      = "🎤 Listening..."
	VoiceDisabled  = "Voice assistant is disabled. Enable it in settings."
	VoiceMissing   = "Voice recognition is not supported on this system."
)

// SearchOffered is the reply to a search query when auto-search is off.
func SearchOffered(message string) string {
	return fmt.Sprintf("This looks like a web search query. Would you like me to search for \"%s\"? (Enable auto-search in settings to do this automatically)", message)
}

// Searching is the progress note shown while a search navigates.
func Searching(term string) string {
	return fmt.Sprintf("🔍 Searching for: \"%s\"", term)
}

// VoiceError reports a recognizer failure.
func VoiceError(err error) string {
	return fmt.Sprintf("Voice error: %v. Please try again.", err)
}

// Heard is the user turn recorded for a voice transcript.
func Heard(transcript string) string {
	return fmt.Sprintf("You said: \"%s\"", transcript)
}
