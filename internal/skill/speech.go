package skill

// Canned speech. Plain sentences only, safe to embed in speech markup
// without escaping.
const (
	WelcomeSpeech     = "Welcome to Vox Bridge. You can ask me anything, for example: what is quantum computing?"
	WelcomeBackSpeech = "Welcome back to Vox Bridge. We can pick up where we left off, or you can ask me something new."
	WelcomeReprompt   = "What would you like to know?"

	HelpSpeech   = "I send your questions to a language model and read its answer back to you. Try asking: how do rainbows form? What would you like to know?"
	HelpReprompt = "What would you like to know?"

	GoodbyeSpeech = "Goodbye!"

	FallbackSpeech   = "Sorry, I can't help with that. You can ask me a question, or say help to hear what I do."
	FallbackReprompt = "What would you like to ask?"

	ApologySpeech = "Sorry, I didn't catch that. Please try asking your question again."

	EmptyQuestionSpeech = "I didn't hear a question. What would you like to ask?"

	AskReprompt = "Would you like to ask anything else?"
)

// CardTitle heads the companion-app card shown next to spoken answers.
const CardTitle = "Vox Bridge"
