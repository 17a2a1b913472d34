package history

import (
	"strings"
	"unicode"

	"voxbridge/internal/models"
)

// AttributesKey is the session attribute the conversation window travels
// in between requests.
const AttributesKey = "history"

// Window holds the recent conversation turns replayed to the answer
// backend, oldest first. Turns travel in question/reply pairs.
type Window []models.ChatMessage

// FromAttributes rebuilds a window from a decoded session attribute value.
// Entries with an unknown role or a missing field are dropped rather than
// failing the request.
func FromAttributes(v any) Window {
	switch items := v.(type) {
	case nil:
		return nil
	case Window:
		return append(Window(nil), items...)
	case []models.ChatMessage:
		return append(Window(nil), items...)
	case []any:
		w := make(Window, 0, len(items))
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			role, _ := entry["role"].(string)
			content, _ := entry["content"].(string)
			if content == "" || (role != models.RoleUser && role != models.RoleAssistant) {
				continue
			}
			w = append(w, models.ChatMessage{Role: role, Content: content})
		}
		return w
	default:
		return nil
	}
}

// AppendExchange adds one question/reply pair and trims the window back to
// at most max entries.
func (w Window) AppendExchange(question, reply string, max int) Window {
	w = append(w,
		models.ChatMessage{Role: models.RoleUser, Content: question},
		models.ChatMessage{Role: models.RoleAssistant, Content: reply},
	)
	return w.Trim(max)
}

// Trim evicts the oldest entries until at most max remain. Whole pairs go
// first so the window keeps starting with a question.
func (w Window) Trim(max int) Window {
	if max <= 0 {
		return nil
	}
	for len(w) > max {
		if len(w) >= 2 && w[0].Role == models.RoleUser && w[1].Role == models.RoleAssistant {
			w = w[2:]
		} else {
			w = w[1:]
		}
	}
	return w
}

// Messages returns the window as a plain message slice for the answer
// backend.
func (w Window) Messages() []models.ChatMessage {
	return []models.ChatMessage(w)
}

// ShouldReset reports whether the query has drifted off the window's
// topic: fewer than minOverlap content words are shared with the window's
// past questions. A tie with the threshold keeps the window, and so does a
// query or window with no content words at all, so short follow-ups like
// "why" hold on to their context.
func (w Window) ShouldReset(query string, minOverlap int) bool {
	if len(w) == 0 || minOverlap <= 0 {
		return false
	}
	queryWords := ContentWords(query)
	if len(queryWords) == 0 {
		return false
	}
	seen := make(map[string]struct{})
	for _, entry := range w {
		if entry.Role != models.RoleUser {
			continue
		}
		for _, word := range ContentWords(entry.Content) {
			seen[word] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return false
	}
	overlap := 0
	counted := make(map[string]struct{})
	for _, word := range queryWords {
		if _, dup := counted[word]; dup {
			continue
		}
		counted[word] = struct{}{}
		if _, ok := seen[word]; ok {
			overlap++
		}
	}
	return overlap < minOverlap
}

// ContentWords lowercases the text, splits on anything that is not a
// letter or digit, and drops stopwords and single-character fragments.
func ContentWords(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		words = append(words, f)
	}
	return words
}

// Question scaffolding and other function words that say nothing about
// the topic itself.
var stopwords = map[string]struct{}{
	"about": {}, "again": {}, "an": {}, "and": {}, "any": {}, "are": {},
	"as": {}, "at": {}, "be": {}, "but": {}, "by": {}, "can": {},
	"could": {}, "did": {}, "do": {}, "does": {}, "explain": {}, "for": {},
	"from": {}, "he": {}, "her": {}, "his": {}, "how": {}, "if": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "just": {}, "me": {},
	"more": {}, "my": {}, "no": {}, "not": {}, "now": {}, "of": {},
	"on": {}, "or": {}, "our": {}, "please": {}, "really": {}, "she": {},
	"should": {}, "so": {}, "some": {}, "tell": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "them": {}, "then": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "to": {},
	"us": {}, "very": {}, "was": {}, "we": {}, "were": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "who": {}, "whom": {},
	"whose": {}, "why": {}, "will": {}, "with": {}, "would": {},
	"you": {}, "your": {},
}
