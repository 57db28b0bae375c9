// Package persona defines the mentor roster: persona identities, their
// system-instruction templates, greetings and capability flags. Instruction
// templates carry {userName}, {learningStyle} and {skillLevel} placeholders
// that are substituted per-turn from the user profile.
package persona

import (
	"fmt"
	"strings"
)

// Gender is a presentation hint consumed by the TTS voice selector.
type Gender string

const (
	GenderFemale  Gender = "female"
	GenderMale    Gender = "male"
	GenderNeutral Gender = "neutral"
)

// Persona is one mentor in the roster.
type Persona struct {
	ID             string
	Name           string
	Specialization string
	Gender         Gender
	// Instruction is the system-instruction template sent to the model.
	// Placeholders are substituted by RenderInstruction.
	Instruction string
	// Greeting seeds a fresh transcript for this mentor.
	Greeting string
	// SupportsSearch enables the grounding/search tool on the session.
	SupportsSearch bool
}

// TemplateValues holds per-user substitutions for an instruction template.
// Zero values fall back to onboarding defaults: Learner / any / 1.
type TemplateValues struct {
	UserName      string
	LearningStyle string
	SkillLevel    int
}

// RenderInstruction substitutes profile placeholders into the persona's
// instruction template. Missing values take defaults so a persona works
// before onboarding completes.
func (p Persona) RenderInstruction(v TemplateValues) string {
	name := v.UserName
	if name == "" {
		name = "Learner"
	}
	style := v.LearningStyle
	if style == "" {
		style = "any"
	}
	level := v.SkillLevel
	if level <= 0 {
		level = 1
	}

	r := strings.NewReplacer(
		"{userName}", name,
		"{learningStyle}", style,
		"{skillLevel}", fmt.Sprintf("%d", level),
	)
	return r.Replace(p.Instruction)
}

// SkillKey returns the key under which per-mentor skill levels are stored
// in the user profile.
func (p Persona) SkillKey() string {
	return strings.ToLower(p.Specialization)
}

// Language returns the BCP-47 tag used for speech synthesis of this
// persona's messages.
func (p Persona) Language() string {
	if strings.HasPrefix(p.ID, "arabic") {
		return "ar-SA"
	}
	return "en-US"
}

// FindByID returns the roster persona with the given id.
func FindByID(id string) (Persona, bool) {
	for _, p := range Roster {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

// Default returns the persona selected when none is configured.
func Default() Persona {
	return Roster[0]
}
