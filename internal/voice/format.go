// Package voice rewrites answer text for speech synthesis: markdown and
// markup are stripped, sentences get pause markers, reserved characters
// are escaped, and overlong answers are truncated with a continuation
// prompt. Stale pause markers and entities are normalized away first, so
// reformatting already formatted text never stacks markers or
// double-escapes.
package voice

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// PauseTag is inserted after each sentence so synthesized speech breathes
// between sentences instead of running them together.
const PauseTag = `<break time="300ms"/>`

// ContinuationPrompt closes a truncated answer.
const ContinuationPrompt = "Would you like me to continue?"

var truncationSuffix = "... " + ContinuationPrompt

var (
	tagRe      = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	fenceRe    = regexp.MustCompile("```+[a-zA-Z0-9]*")
	inlineRe   = regexp.MustCompile("`+")
	headingRe  = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	listJoinRe = regexp.MustCompile(`([^\s.!?:;,])[ \t]*\n+[ \t]*(?:[-*+]|\d{1,2}\.)[ \t]+`)
	listLeadRe = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]|\d{1,2}\.)[ \t]+`)
	quoteRe    = regexp.MustCompile(`(?m)^\s*>\s?`)
	linkRe     = regexp.MustCompile(`\[([^\]]*)\]\(\s*[^)]*\)`)
	urlRe      = regexp.MustCompile(`https?://[^\s<>"]+`)
	boldRe     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe   = regexp.MustCompile(`\*([^*]+)\*`)
	boldAltRe  = regexp.MustCompile(`__([^_]+)__`)
	italAltRe  = regexp.MustCompile(`_([^_]+)_`)
	spaceRe    = regexp.MustCompile(`\s+`)
	sentenceRe = regexp.MustCompile(`([.!?])(\s)`)
)

// ForSpeech converts raw answer text into speech-ready markup, capped at
// maxLen bytes. Text over the cap is cut at a word boundary and closed
// with the continuation prompt.
func ForSpeech(text string, maxLen int) string {
	s := canonicalize(text)
	s = html.EscapeString(s)
	s = sentenceRe.ReplaceAllString(s, "$1"+PauseTag+"$2")
	return truncate(s, maxLen)
}

// PlainText reduces formatted speech markup back to readable text for
// card bodies and transcripts.
func PlainText(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// WrapSSML encloses formatted speech markup in a speak envelope.
func WrapSSML(s string) string {
	return "<speak>" + s + "</speak>"
}

// canonicalize strips markup from earlier formatting passes and from the
// answer backend, leaving bare prose with single spaces. List items turn
// into sentences, so each item boundary picks up a pause in the sentence
// pass and survives reformatting.
func canonicalize(text string) string {
	s := tagRe.ReplaceAllString(text, " ")
	s = html.UnescapeString(s)
	s = fenceRe.ReplaceAllString(s, " ")
	s = inlineRe.ReplaceAllString(s, "")
	s = headingRe.ReplaceAllString(s, "")
	s = listJoinRe.ReplaceAllString(s, "$1. ")
	s = listLeadRe.ReplaceAllString(s, "")
	s = quoteRe.ReplaceAllString(s, "")
	s = linkRe.ReplaceAllString(s, "$1")
	s = urlRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	s = boldAltRe.ReplaceAllString(s, "$1")
	s = italAltRe.ReplaceAllString(s, "$1")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// truncate cuts s to at most max bytes, backing up so the cut never lands
// inside a word, a tag, an entity, or a multi-byte rune, then appends the
// continuation prompt.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	budget := max - len(truncationSuffix)
	if budget <= 0 {
		return truncationSuffix
	}
	for budget > 0 && !utf8.RuneStart(s[budget]) {
		budget--
	}
	cut := s[:budget]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	if open := strings.LastIndexByte(cut, '<'); open > strings.LastIndexByte(cut, '>') {
		cut = cut[:open]
	}
	if amp := strings.LastIndexByte(cut, '&'); amp > strings.LastIndexByte(cut, ';') {
		cut = cut[:amp]
	}
	cut = strings.TrimRight(cut, " .,:;!?-")
	return cut + truncationSuffix
}
