package profile

import "testing"

func TestNewProfile(t *testing.T) {
	p := New("Rana", StyleVisual)
	if p.ID == "" {
		t.Error("expected generated id")
	}
	if p.Name != "Rana" || p.LearningStyle != StyleVisual {
		t.Errorf("unexpected identity fields: %+v", p)
	}
	if p.Progress.Points != 0 {
		t.Errorf("new profile points = %d, want 0", p.Progress.Points)
	}
	if p.Progress.CurrentQuests == nil || p.SkillLevels == nil {
		t.Error("maps should be initialized")
	}
}

func TestSkillLevelCaseInsensitive(t *testing.T) {
	p := New("A", StyleAuditory)
	p.SetSkillLevel("Mathematics & Logic", 3)

	if got := p.SkillLevel("mathematics & logic"); got != 3 {
		t.Errorf("SkillLevel = %d, want 3", got)
	}
	if got := p.SkillLevel("MATHEMATICS & LOGIC"); got != 3 {
		t.Errorf("SkillLevel upper = %d, want 3", got)
	}
	if got := p.SkillLevel("unknown"); got != 0 {
		t.Errorf("SkillLevel unknown = %d, want 0", got)
	}
}

func TestAddPoints(t *testing.T) {
	p := New("A", StyleVisual)
	p.AddPoints(2)
	p.AddPoints(3)
	p.AddPoints(-5) // ignored
	p.AddPoints(0)  // ignored
	if p.Progress.Points != 5 {
		t.Errorf("points = %d, want 5", p.Progress.Points)
	}
}

func TestQuestReplacement(t *testing.T) {
	p := New("A", StyleVisual)
	p.SetQuest("ada-lovelace", "Write a loop")
	p.SetQuest("ada-lovelace", "Write a recursive function")

	q, ok := p.Quest("ada-lovelace")
	if !ok || q != "Write a recursive function" {
		t.Errorf("Quest = %q, %v", q, ok)
	}
	if _, ok := p.Quest("cosmo-navigator"); ok {
		t.Error("unexpected quest for other persona")
	}
}

func TestNilProfileAccessors(t *testing.T) {
	var p *UserProfile
	if p.SkillLevel("x") != 0 {
		t.Error("nil profile skill level should be 0")
	}
	if _, ok := p.Quest("x"); ok {
		t.Error("nil profile should have no quests")
	}
}
