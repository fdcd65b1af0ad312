package review

import (
	"fmt"
	"strings"
)

// PromptConfig controls how the review prompts are built.
type PromptConfig struct {
	TargetLang string // language being checked
	NativeLang string // language the model answers in
	Extra      string // optional operator-supplied instructions
}

const systemPromptTemplate = `You review individual Telegram chat messages for correctness and clarity.
Focus on %s content when checking for language issues.
Apply these rules when deciding what to do:
- Return decision "IGNORE" when the content is chit-chat, non-actionable, or outside your scope.
- Return decision "NO_ISSUES" when the message is correct and needs a positive acknowledgement.
- Return decision "CORRECTION" only when you can provide a short, actionable fix for an issue you spot.
When you provide a correction keep it under 320 characters, actionable, and phrased as a helpful follow-up.

Always respond in %s.
Use Markdown formatting for corrections. Make it easy and fun to read. Highlight corrections in bold or monospaced text.
Address the user by the first name provided to you.
%s
Return ONLY valid JSON with this exact shape:
{"decision":"IGNORE" | "NO_ISSUES" | "CORRECTION","correction":{"message":string}}
Omit null fields.`

// buildSystemPrompt renders the review instructions for the model.
func buildSystemPrompt(cfg PromptConfig) string {
	extra := ""
	if strings.TrimSpace(cfg.Extra) != "" {
		extra = fmt.Sprintf("\nAdditional instructions:\n%s\n", strings.TrimSpace(cfg.Extra))
	}
	return fmt.Sprintf(systemPromptTemplate, cfg.TargetLang, cfg.NativeLang, extra)
}

// buildUserMessage renders the message under review.
func buildUserMessage(userName, text string) string {
	if strings.TrimSpace(text) == "" {
		text = "<empty message>"
	}
	return fmt.Sprintf("User name: %s\nUser message:\n%s", userName, text)
}
