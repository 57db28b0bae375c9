// Package directive extracts control tags from mentor responses. Mentors
// embed [NAME:value] tags in their text to activate tools, suggest art
// prompts, assign quests and award points. Tags remain visible in the
// transcript; this package only reads them.
package directive

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies a control-tag family.
type Kind string

const (
	KindTool           Kind = "TOOL"
	KindPixelArtPrompt Kind = "PROMPT_FOR_PIXEL_ART"
	KindQuest          Kind = "QUEST"
	KindPoints         Kind = "POINTS"
)

// Directive is one recognized control tag.
type Directive struct {
	Kind  Kind
	Value string // trimmed tag payload; for KindPoints, the digit string
	// Points is the parsed award. Set only for KindPoints.
	Points int
}

// Tag names are case-insensitive. Values span newlines but may not contain
// a closing bracket, so the first ']' always terminates the tag.
var (
	toolRe     = regexp.MustCompile(`(?i)\[TOOL:([^\]]+)\]`)
	pixelArtRe = regexp.MustCompile(`(?i)\[PROMPT_FOR_PIXEL_ART:([^\]]+)\]`)
	questRe    = regexp.MustCompile(`(?i)\[QUEST:([^\]]+)\]`)
	pointsRe   = regexp.MustCompile(`(?i)\[POINTS:(\d+)\]`)
)

// Tool returns the trimmed tool id from the first [TOOL:] tag.
func Tool(text string) (string, bool) {
	return firstValue(toolRe, text)
}

// PixelArtPrompt returns the trimmed prompt from the first
// [PROMPT_FOR_PIXEL_ART:] tag.
func PixelArtPrompt(text string) (string, bool) {
	return firstValue(pixelArtRe, text)
}

// Quest returns the trimmed quest text from the first [QUEST:] tag.
func Quest(text string) (string, bool) {
	return firstValue(questRe, text)
}

// Points returns the award from the first [POINTS:n] tag. Tags whose value
// is not all digits do not match.
func Points(text string) (int, bool) {
	m := pointsRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Parse extracts all recognized directives from text. At most one directive
// per kind: the first occurrence wins and later duplicates are ignored.
func Parse(text string) []Directive {
	var out []Directive
	if v, ok := Tool(text); ok {
		out = append(out, Directive{Kind: KindTool, Value: v})
	}
	if v, ok := PixelArtPrompt(text); ok {
		out = append(out, Directive{Kind: KindPixelArtPrompt, Value: v})
	}
	if v, ok := Quest(text); ok {
		out = append(out, Directive{Kind: KindQuest, Value: v})
	}
	if n, ok := Points(text); ok {
		out = append(out, Directive{Kind: KindPoints, Value: strconv.Itoa(n), Points: n})
	}
	return out
}

func firstValue(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return "", false
	}
	return v, true
}
