package voice

import "strings"

// Voice describes one synthesizer voice.
type Voice struct {
	ID       string
	Name     string
	Language string // BCP-47 tag, e.g. "en-US"
	Local    bool   // synthesized locally rather than via a network service
	Default  bool   // platform default for its language
}

// SpeechRequest is one utterance. Text must already be cleaned for speech.
type SpeechRequest struct {
	MessageID string
	Text      string
	Language  string
	Gender    string // persona gender hint: "male", "female" or "neutral"
	Voice     *Voice // resolved voice; nil means platform default
}

// Speaker synthesizes speech. Speak returns immediately; Speaking reports
// whether an utterance is in progress, and Cancel stops it.
type Speaker interface {
	Voices() []Voice
	Speak(req SpeechRequest) error
	Cancel()
	Speaking() bool
}

var femaleNameHints = []string{"female", "woman", "girl", "zira", "eva"}
var maleNameHints = []string{"male", "man", "boy", "david", "mark"}

// SelectVoice resolves the voice for an utterance. Preference order:
// explicit preferred id, then a language match refined by the gender name
// heuristic (local voices first), then the language's default or any local
// or first match, then for Arabic any "ar" voice. Returns nil when nothing
// matches, meaning the platform default.
func SelectVoice(voices []Voice, preferredID, lang, gender string) *Voice {
	if preferredID != "" {
		for i := range voices {
			if voices[i].ID == preferredID {
				return &voices[i]
			}
		}
	}

	base := lang
	if i := strings.Index(lang, "-"); i > 0 {
		base = lang[:i]
	}
	var langVoices []Voice
	for _, v := range voices {
		if v.Language == lang || strings.HasPrefix(v.Language, base) {
			langVoices = append(langVoices, v)
		}
	}

	if gender != "" && len(langVoices) > 0 {
		hints := maleNameHints
		if gender == "female" {
			hints = femaleNameHints
		}
		if gender == "male" || gender == "female" {
			var matched []Voice
			for _, v := range langVoices {
				name := strings.ToLower(v.Name)
				for _, h := range hints {
					if strings.Contains(name, h) {
						matched = append(matched, v)
						break
					}
				}
			}
			if len(matched) > 0 {
				for i := range matched {
					if matched[i].Local {
						return &matched[i]
					}
				}
				return &matched[0]
			}
		}
	}

	if len(langVoices) > 0 {
		for i := range langVoices {
			if langVoices[i].Default {
				return &langVoices[i]
			}
		}
		for i := range langVoices {
			if langVoices[i].Local {
				return &langVoices[i]
			}
		}
		return &langVoices[0]
	}

	if base == "ar" {
		for i := range voices {
			if strings.HasPrefix(voices[i].Language, "ar") {
				return &voices[i]
			}
		}
	}
	return nil
}
