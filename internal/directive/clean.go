package directive

import (
	"regexp"
	"strings"
)

// Speech cleaning strips transcript markup that reads badly aloud. Tags
// here match single-line occurrences only; multi-line tag payloads stay in
// the spoken text rather than risk swallowing unrelated content.
var (
	boldRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe    = regexp.MustCompile(`\*(.*?)\*`)
	codeFenceRe = regexp.MustCompile("(?s)```.*?```")
	toolTagRe   = regexp.MustCompile(`(?i)\[TOOL:.*?\]`)
	artTagRe    = regexp.MustCompile(`(?i)\[PROMPT_FOR_PIXEL_ART:.*?\]`)
	questTagRe  = regexp.MustCompile(`(?i)\[QUEST:.*?\]`)
	pointsTagRe = regexp.MustCompile(`(?i)\[POINTS:.*?\]`)
	angleRe     = regexp.MustCompile(`<[^>]*>`)
)

// CleanForSpeech converts a transcript entry into text suitable for speech
// synthesis: emphasis markers dropped (content kept), fenced code blocks
// replaced by "(Code block)", quest tags replaced by "(New quest assigned)",
// other control tags and angle-bracket markup removed, result trimmed.
func CleanForSpeech(text string) string {
	if text == "" {
		return ""
	}
	s := boldRe.ReplaceAllString(text, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	s = codeFenceRe.ReplaceAllString(s, "(Code block)")
	s = toolTagRe.ReplaceAllString(s, "")
	s = artTagRe.ReplaceAllString(s, "")
	s = questTagRe.ReplaceAllString(s, "(New quest assigned)")
	s = pointsTagRe.ReplaceAllString(s, "")
	s = angleRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
