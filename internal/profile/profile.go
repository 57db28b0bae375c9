// Package profile holds the learner's identity, per-mentor skill levels and
// progress record (points, quests, badges). One profile per installation.
package profile

import (
	"strings"

	"github.com/google/uuid"
)

// LearningStyle is the learner's preferred mode of instruction.
type LearningStyle string

const (
	StyleVisual      LearningStyle = "Visual"
	StyleAuditory    LearningStyle = "Auditory"
	StyleReadWrite   LearningStyle = "Read/Write"
	StyleKinesthetic LearningStyle = "Kinesthetic"
)

// Progress tracks accumulated achievements across all mentors.
type Progress struct {
	CompletedModules []string `json:"completedModules"`
	Points           int      `json:"points"`
	Badges           []string `json:"badges"`
	// CurrentQuests maps persona id to the active quest text.
	CurrentQuests map[string]string `json:"currentQuests"`
}

// UserProfile is the learner's record.
type UserProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender,omitempty"`
	// SkillLevels maps lowercase mentor specialization to a 1-5 level.
	SkillLevels   map[string]int `json:"skillLevels"`
	LearningStyle LearningStyle  `json:"learningStyle,omitempty"`
	Progress      Progress       `json:"progress"`
}

// New creates an onboarded profile with zeroed progress.
func New(name string, style LearningStyle) *UserProfile {
	return &UserProfile{
		ID:            uuid.NewString(),
		Name:          name,
		SkillLevels:   make(map[string]int),
		LearningStyle: style,
		Progress: Progress{
			CompletedModules: []string{},
			Badges:           []string{},
			CurrentQuests:    make(map[string]string),
		},
	}
}

// SkillLevel returns the stored level for a specialization key, or 0 when
// unset. Keys are matched case-insensitively.
func (p *UserProfile) SkillLevel(key string) int {
	if p == nil || p.SkillLevels == nil {
		return 0
	}
	return p.SkillLevels[strings.ToLower(key)]
}

// SetSkillLevel records a 1-5 skill level under a lowercased key.
func (p *UserProfile) SetSkillLevel(key string, level int) {
	if p.SkillLevels == nil {
		p.SkillLevels = make(map[string]int)
	}
	p.SkillLevels[strings.ToLower(key)] = level
}

// AddPoints increments the point total. Negative deltas are ignored.
func (p *UserProfile) AddPoints(delta int) {
	if delta <= 0 {
		return
	}
	p.Progress.Points += delta
}

// SetQuest records the active quest for a persona, replacing any prior one.
func (p *UserProfile) SetQuest(personaID, quest string) {
	if p.Progress.CurrentQuests == nil {
		p.Progress.CurrentQuests = make(map[string]string)
	}
	p.Progress.CurrentQuests[personaID] = quest
}

// Quest returns the active quest for a persona, if any.
func (p *UserProfile) Quest(personaID string) (string, bool) {
	if p == nil || p.Progress.CurrentQuests == nil {
		return "", false
	}
	q, ok := p.Progress.CurrentQuests[personaID]
	return q, ok
}
