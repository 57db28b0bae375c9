package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mentorlab/internal/gemini"
	"mentorlab/internal/persona"
	"mentorlab/internal/profile"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// fakeTransport scripts one stream per StreamTurn call and records what was
// sent.
type fakeTransport struct {
	chunks       []gemini.Chunk
	gate         chan struct{} // when set, the stream blocks until closed
	invalidated  []string
	personaIDs   []string
	instructions []string
	searchFlags  []bool
	sentParts    [][]gemini.Part
}

func (f *fakeTransport) StreamTurn(ctx context.Context, personaID, instruction string, search bool, parts []gemini.Part) <-chan gemini.Chunk {
	f.personaIDs = append(f.personaIDs, personaID)
	f.instructions = append(f.instructions, instruction)
	f.searchFlags = append(f.searchFlags, search)
	f.sentParts = append(f.sentParts, parts)

	out := make(chan gemini.Chunk)
	gate := f.gate
	chunks := f.chunks
	go func() {
		defer close(out)
		if gate != nil {
			<-gate
		}
		for _, c := range chunks {
			out <- c
		}
	}()
	return out
}

func (f *fakeTransport) Invalidate(personaID string) {
	f.invalidated = append(f.invalidated, personaID)
}

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	histories    map[string][]Message
	prof         *profile.UserProfile
	profileSaves int
	failSave     bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{histories: make(map[string][]Message)}
}

func (r *fakeRepo) LoadHistory(personaID string) ([]Message, error) {
	return r.histories[personaID], nil
}
func (r *fakeRepo) SaveHistory(personaID string, entries []Message) error {
	if r.failSave {
		return errors.New("disk full")
	}
	cp := make([]Message, len(entries))
	copy(cp, entries)
	r.histories[personaID] = cp
	return nil
}
func (r *fakeRepo) DeleteHistory(personaID string) error {
	delete(r.histories, personaID)
	return nil
}
func (r *fakeRepo) LoadProfile() (*profile.UserProfile, error) { return r.prof, nil }
func (r *fakeRepo) SaveProfile(p *profile.UserProfile) error {
	r.prof = p
	r.profileSaves++
	return nil
}
func (r *fakeRepo) Close() error { return nil }

type fakeVoice struct {
	active bool
	spoken []string // cleaned texts
	langs  []string
}

func (v *fakeVoice) Active() bool { return v.active }
func (v *fakeVoice) Speak(id, text, lang, gender string) {
	v.spoken = append(v.spoken, text)
	v.langs = append(v.langs, lang)
}

type fakeTools struct {
	activated  []string
	artPrompts []string
}

func (t *fakeTools) Activate(id string) bool { t.activated = append(t.activated, id); return true }
func (t *fakeTools) SetArtPrompt(p string)   { t.artPrompts = append(t.artPrompts, p) }

func testPersona() persona.Persona {
	p, _ := persona.FindByID("ada-lovelace")
	return p
}

func newTestOrchestrator(t *testing.T, tr *fakeTransport, repo *fakeRepo, v VoiceOutput, tl ToolSink) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(tr, repo, v, tl, 20000)
	if err := o.SwitchPersona(testPersona()); err != nil {
		t.Fatal(err)
	}
	return o
}

func collectEmits() (EmitFunc, *[]Message) {
	var got []Message
	return func(m Message) { got = append(got, m) }, &got
}

func TestSendUserTurnHappyPath(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{
		{Text: "Hello, "},
		{Text: "learner! [QUEST:write a loop] [POINTS:4] [TOOL:code-editor]"},
	}}
	repo := newFakeRepo()
	tl := &fakeTools{}
	o := newTestOrchestrator(t, tr, repo, nil, tl)
	prof := profile.New("Rana", profile.StyleVisual)
	o.SetProfile(prof)

	emit, got := collectEmits()
	err := o.SendUserTurn(context.Background(), TurnInput{Text: "teach me"}, emit)
	if err != nil {
		t.Fatal(err)
	}

	// First emit is the user's own entry.
	if (*got)[0].Sender != SenderUser || (*got)[0].Text != "teach me" {
		t.Errorf("first emit = %+v", (*got)[0])
	}
	final := (*got)[len(*got)-1]
	if final.IsLoading || final.Sender != SenderAI {
		t.Errorf("final = %+v", final)
	}
	if !strings.Contains(final.Text, "[QUEST:write a loop]") {
		t.Error("tags must stay visible in the transcript")
	}

	// Directives from a user turn: all four kinds apply.
	if len(tl.activated) != 1 || tl.activated[0] != "code-editor" {
		t.Errorf("activated = %v", tl.activated)
	}
	if q, _ := prof.Quest("ada-lovelace"); q != "write a loop" {
		t.Errorf("quest = %q", q)
	}
	if prof.Progress.Points != 4 {
		t.Errorf("points = %d", prof.Progress.Points)
	}

	// Transcript persisted: greeting + user + ai.
	if entries := repo.histories["ada-lovelace"]; len(entries) != 3 {
		t.Errorf("persisted %d entries, want 3", len(entries))
	}
}

func TestSendUserTurnRendersInstruction(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{{Text: "ok"}}}
	o := newTestOrchestrator(t, tr, newFakeRepo(), nil, nil)
	prof := profile.New("Rana", profile.StyleAuditory)
	prof.SetSkillLevel(testPersona().SkillKey(), 3)
	o.SetProfile(prof)

	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "hi"}, nil); err != nil {
		t.Fatal(err)
	}

	instr := tr.instructions[0]
	for _, want := range []string{"Rana", "Auditory", "skill level in your specialization is 3"} {
		if !strings.Contains(instr, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
	if strings.Contains(instr, "{userName}") {
		t.Error("placeholders not substituted")
	}
}

func TestSendUserTurnDefaultInstructionWithoutProfile(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{{Text: "ok"}}}
	o := newTestOrchestrator(t, tr, newFakeRepo(), nil, nil)

	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "hi"}, nil); err != nil {
		t.Fatal(err)
	}
	instr := tr.instructions[0]
	for _, want := range []string{"Learner", "learning style is any", "is 1 (on a scale"} {
		if !strings.Contains(instr, want) {
			t.Errorf("instruction missing default %q", want)
		}
	}
}

func TestSendUserTurnTransportError(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{
		{Text: "partial [POINTS:9]"},
		{Err: &gemini.Error{Kind: gemini.KindQuota, Message: "quota exhausted"}},
	}}
	repo := newFakeRepo()
	o := newTestOrchestrator(t, tr, repo, nil, nil)
	prof := profile.New("Rana", profile.StyleVisual)
	o.SetProfile(prof)

	emit, got := collectEmits()
	err := o.SendUserTurn(context.Background(), TurnInput{Text: "hi"}, emit)
	if err == nil {
		t.Fatal("expected transport error")
	}

	final := (*got)[len(*got)-1]
	if !final.IsError || final.Text != "quota exhausted" {
		t.Errorf("final = %+v", final)
	}
	if prof.Progress.Points != 0 {
		t.Error("points must stay untouched on a failed turn")
	}
	// The user's own entry and the partial AI text both survive; the error
	// is its own entry.
	entries := repo.histories["ada-lovelace"]
	foundUser, foundPartial := false, false
	for _, m := range entries {
		if m.Sender == SenderUser {
			foundUser = true
		}
		if m.Sender == SenderAI && !m.IsError && strings.Contains(m.Text, "partial") {
			foundPartial = true
		}
	}
	if !foundUser {
		t.Error("user entry missing after transport error")
	}
	if !foundPartial {
		t.Error("partial AI entry missing after transport error")
	}
}

func TestMidStreamErrorKeepsPartialText(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{
		{Text: "The answer begins with an important insight"},
		{Err: &gemini.Error{Kind: gemini.KindNetwork, Message: "network down"}},
	}}
	repo := newFakeRepo()
	o := newTestOrchestrator(t, tr, repo, nil, nil)

	emit, _ := collectEmits()
	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "hi"}, emit); err == nil {
		t.Fatal("expected transport error")
	}

	entries := repo.histories["ada-lovelace"]
	var partial, errEntry *Message
	for i := range entries {
		m := &entries[i]
		switch {
		case m.IsError:
			errEntry = m
		case m.Sender == SenderAI && strings.Contains(m.Text, "important insight"):
			partial = m
		}
	}
	if partial == nil {
		t.Fatal("partial entry missing after mid-stream error")
	}
	if partial.IsLoading {
		t.Error("partial entry must be finalized")
	}
	if errEntry == nil {
		t.Fatal("error entry missing")
	}
	if errEntry.Text != "network down" {
		t.Errorf("error text = %q", errEntry.Text)
	}
	if errEntry.ID == partial.ID {
		t.Error("error entry must not replace the partial entry")
	}
}

func TestTransportErrorWithNilEmit(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{
		{Text: "streamed text"},
		{Err: &gemini.Error{Kind: gemini.KindQuota, Message: "quota exhausted"}},
	}}
	repo := newFakeRepo()
	o := newTestOrchestrator(t, tr, repo, nil, nil)

	// A nil emit is legal: callers that only read the persisted transcript
	// pass none.
	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "hi"}, nil); err == nil {
		t.Fatal("expected transport error")
	}
	if len(repo.histories["ada-lovelace"]) != 4 {
		t.Errorf("entries = %d, want greeting + user + partial + error", len(repo.histories["ada-lovelace"]))
	}
}

func TestSendUserTurnEmptyStreamPlaceholder(t *testing.T) {
	tr := &fakeTransport{}
	o := newTestOrchestrator(t, tr, newFakeRepo(), nil, nil)

	emit, got := collectEmits()
	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "hi"}, emit); err != nil {
		t.Fatal(err)
	}
	final := (*got)[len(*got)-1]
	if final.Text != "[No response from mentor]" {
		t.Errorf("final text = %q", final.Text)
	}
}

func TestInFlightGuardRejectsOverlap(t *testing.T) {
	gate := make(chan struct{})
	tr := &fakeTransport{gate: gate, chunks: []gemini.Chunk{{Text: "slow"}}}
	o := newTestOrchestrator(t, tr, newFakeRepo(), nil, nil)

	done := make(chan error, 1)
	go func() {
		done <- o.SendUserTurn(context.Background(), TurnInput{Text: "first"}, nil)
	}()

	// Wait until the first turn is registered.
	for {
		o.mu.Lock()
		busy := o.inFlight["ada-lovelace"]
		o.mu.Unlock()
		if busy {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "second"}, nil); !errors.Is(err, ErrTurnInFlight) {
		t.Errorf("err = %v, want ErrTurnInFlight", err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	// Guard released: next turn goes through.
	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "third"}, nil); err != nil {
		t.Errorf("turn after release failed: %v", err)
	}
}

func TestSendCodeFeedbackSystemTurn(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{
		{Text: "Nice! [TOOL:code-editor] [PROMPT_FOR_PIXEL_ART:a gear] [QUEST:extend it] [POINTS:5]"},
	}}
	repo := newFakeRepo()
	tl := &fakeTools{}
	o := newTestOrchestrator(t, tr, repo, nil, tl)
	prof := profile.New("Rana", profile.StyleVisual)
	o.SetProfile(prof)

	emit, got := collectEmits()
	if err := o.SendCodeFeedback(context.Background(), `fmt.Println(1)`, "1\n", false, emit); err != nil {
		t.Fatal(err)
	}

	sys := (*got)[0]
	if sys.Sender != SenderSystem || !strings.Contains(sys.Text, "User executed code:") || !strings.Contains(sys.Text, "Output:") {
		t.Errorf("system entry = %+v", sys)
	}

	// 2 local points for a clean run + 5 awarded by the mentor.
	if prof.Progress.Points != 7 {
		t.Errorf("points = %d, want 7", prof.Progress.Points)
	}
	if q, _ := prof.Quest("ada-lovelace"); q != "extend it" {
		t.Errorf("quest = %q", q)
	}
	// System turns must not open tools or set art prompts.
	if len(tl.activated) != 0 || len(tl.artPrompts) != 0 {
		t.Errorf("tool side effects on system turn: %v %v", tl.activated, tl.artPrompts)
	}
}

func TestSendCodeFeedbackErrorRunAwardsNothing(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{{Text: "Keep trying!"}}}
	o := newTestOrchestrator(t, tr, newFakeRepo(), nil, nil)
	prof := profile.New("Rana", profile.StyleVisual)
	o.SetProfile(prof)

	emit, got := collectEmits()
	if err := o.SendCodeFeedback(context.Background(), "bad code", "undefined symbol", true, emit); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains((*got)[0].Text, "Error:") {
		t.Errorf("system entry = %q", (*got)[0].Text)
	}
	if prof.Progress.Points != 0 {
		t.Errorf("points = %d, want 0 for a failed run", prof.Progress.Points)
	}
}

func TestSendArtNotification(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{{Text: "Lovely pixels!"}}}
	o := newTestOrchestrator(t, tr, newFakeRepo(), nil, nil)
	prof := profile.New("Rana", profile.StyleVisual)
	o.SetProfile(prof)

	emit, got := collectEmits()
	img := []byte{0x89, 'P', 'N', 'G'}
	if err := o.SendArtNotification(context.Background(), "a dragon", img, emit); err != nil {
		t.Fatal(err)
	}

	sys := (*got)[0]
	if sys.Sender != SenderSystem || len(sys.Image) == 0 {
		t.Errorf("system entry = %+v", sys)
	}
	if !strings.Contains(sys.Text, `"a dragon"`) {
		t.Errorf("system text = %q", sys.Text)
	}
	if prof.Progress.Points != 3 {
		t.Errorf("points = %d, want 3", prof.Progress.Points)
	}
	// The AI-directed content differs from the transcript entry.
	sent := tr.sentParts[0][0].Text
	if !strings.Contains(sent, "Please comment on their creation") {
		t.Errorf("ai content = %q", sent)
	}
}

func TestClearHistory(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{{Text: "response"}}}
	repo := newFakeRepo()
	o := newTestOrchestrator(t, tr, repo, nil, nil)
	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "hello"}, nil); err != nil {
		t.Fatal(err)
	}

	if err := o.ClearHistory(); err != nil {
		t.Fatal(err)
	}

	if len(tr.invalidated) != 1 || tr.invalidated[0] != "ada-lovelace" {
		t.Errorf("invalidated = %v", tr.invalidated)
	}
	if _, ok := repo.histories["ada-lovelace"]; ok {
		t.Error("persisted history should be deleted")
	}
	msgs := o.Messages()
	if len(msgs) != 1 || msgs[0].Text != testPersona().Greeting {
		t.Errorf("transcript = %+v, want greeting only", msgs)
	}
}

func TestSwitchPersonaRestoresOrSeeds(t *testing.T) {
	repo := newFakeRepo()
	repo.histories["cosmo-navigator"] = []Message{
		NewMessage(SenderUser, "old question"),
		NewMessage(SenderAI, "old answer"),
	}
	o := NewOrchestrator(&fakeTransport{}, repo, nil, nil, 20000)

	cosmo, _ := persona.FindByID("cosmo-navigator")
	if err := o.SwitchPersona(cosmo); err != nil {
		t.Fatal(err)
	}
	if msgs := o.Messages(); len(msgs) != 2 || msgs[0].Text != "old question" {
		t.Errorf("restored = %+v", msgs)
	}

	ada := testPersona()
	if err := o.SwitchPersona(ada); err != nil {
		t.Fatal(err)
	}
	msgs := o.Messages()
	if len(msgs) != 1 || msgs[0].Text != ada.Greeting {
		t.Errorf("seeded = %+v", msgs)
	}
}

func TestSearchFlagFollowsPersona(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{{Text: "ok"}}}
	o := NewOrchestrator(tr, newFakeRepo(), nil, nil, 20000)
	cosmo, _ := persona.FindByID("cosmo-navigator")
	if err := o.SwitchPersona(cosmo); err != nil {
		t.Fatal(err)
	}

	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "news?"}, nil); err != nil {
		t.Fatal(err)
	}
	if !tr.searchFlags[0] {
		t.Error("cosmo-navigator turns should enable search")
	}
}

func TestTTSVoiceModePriority(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{{Text: "**Great** work [POINTS:1]"}}}
	v := &fakeVoice{active: true}
	o := newTestOrchestrator(t, tr, newFakeRepo(), v, nil)
	o.SetAutoplay(false) // voice mode alone should trigger speech

	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "hi"}, nil); err != nil {
		t.Fatal(err)
	}
	if len(v.spoken) != 1 {
		t.Fatalf("spoken = %d, want 1", len(v.spoken))
	}
	if v.spoken[0] != "Great work" {
		t.Errorf("spoken text = %q, want cleaned", v.spoken[0])
	}
	if v.langs[0] != "en-US" {
		t.Errorf("lang = %q", v.langs[0])
	}
}

func TestTTSAutoplay(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{{Text: "read me aloud"}}}
	v := &fakeVoice{active: false}
	o := newTestOrchestrator(t, tr, newFakeRepo(), v, nil)
	o.SetAutoplay(true)

	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "hi"}, nil); err != nil {
		t.Fatal(err)
	}
	if len(v.spoken) != 1 {
		t.Errorf("spoken = %d, want 1 (autoplay)", len(v.spoken))
	}
}

func TestTTSSilentWhenDisabled(t *testing.T) {
	tr := &fakeTransport{chunks: []gemini.Chunk{{Text: "quiet"}}}
	v := &fakeVoice{active: false}
	o := newTestOrchestrator(t, tr, newFakeRepo(), v, nil)

	if err := o.SendUserTurn(context.Background(), TurnInput{Text: "hi"}, nil); err != nil {
		t.Fatal(err)
	}
	if len(v.spoken) != 0 {
		t.Errorf("spoken = %d, want 0", len(v.spoken))
	}
}

func TestLocalIOFailureAbortsBeforeNetwork(t *testing.T) {
	tr := &fakeTransport{}
	o := newTestOrchestrator(t, tr, newFakeRepo(), nil, nil)

	err := o.SendUserTurn(context.Background(), TurnInput{Text: "hi", FilePath: "/missing.png"}, nil)
	var ce *gemini.Error
	if !errors.As(err, &ce) || ce.Kind != gemini.KindLocalIO {
		t.Fatalf("err = %v, want LocalIO", err)
	}
	if len(tr.personaIDs) != 0 {
		t.Error("no network call may happen after a local failure")
	}
	// No user entry was added.
	for _, m := range o.Messages() {
		if m.Sender == SenderUser {
			t.Error("user entry must not survive a local failure")
		}
	}
}
