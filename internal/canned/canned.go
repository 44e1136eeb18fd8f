// Package canned holds the static text returned when no live inference
// succeeds, and the keyword table that chooses between those texts.
package canned

import (
	"strings"
)

// Template is a static reply. The {message} placeholder is replaced with the
// caller's raw message.
type Template string

const messagePlaceholder = "{message}"

// Render substitutes the caller's message into the template.
func (t Template) Render(message string) string {
	return strings.ReplaceAll(string(t), messagePlaceholder, message)
}

// KeywordGroup maps a set of trigger words to one reply.
type KeywordGroup struct {
	Name     string
	Keywords []string
	Template Template
}

// Matches reports whether any keyword is a substring of the lowercased message.
func (g KeywordGroup) Matches(lowerMessage string) bool {
	for _, kw := range g.Keywords {
		if strings.Contains(lowerMessage, kw) {
			return true
		}
	}
	return false
}

// Bank is the full set of canned replies. The zero value is not usable; use
// Default.
type Bank struct {
	// BusinessContext is appended after an accepted live completion.
	BusinessContext Template
	// KeywordGroups are checked in order; the first match wins.
	KeywordGroups []KeywordGroup
	Generic       Template
	Fallbacks     []Template
	OpenAI        []Template
	Anthropic     []Template
}

// WrapLive decorates an accepted live completion with the business-context
// block.
func (b *Bank) WrapLive(completion, message string) string {
	return "🤖 **AI Response**: " + completion + "\n\n" + b.BusinessContext.Render(message)
}

// KeywordResponse returns the reply of the first keyword group matching the
// message, or the generic reply. The returned name is "generic" when nothing
// matched.
func (b *Bank) KeywordResponse(message string) (string, string) {
	lower := strings.ToLower(message)
	for _, g := range b.KeywordGroups {
		if g.Matches(lower) {
			return g.Name, g.Template.Render(message)
		}
	}
	return "generic", b.Generic.Render(message)
}
