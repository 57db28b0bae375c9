package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mentorlab/internal/directive"
	"mentorlab/internal/gemini"
	"mentorlab/internal/logging"
	"mentorlab/internal/persona"
	"mentorlab/internal/profile"
)

// ErrTurnInFlight is returned when a turn is submitted for a persona whose
// previous turn has not finished.
var ErrTurnInFlight = errors.New("a turn is already in flight for this mentor")

// Transport streams AI turns. Satisfied by *gemini.Client.
type Transport interface {
	StreamTurn(ctx context.Context, personaID, instruction string, search bool, parts []gemini.Part) <-chan gemini.Chunk
	Invalidate(personaID string)
}

// VoiceOutput is the orchestrator's view of the voice layer. Satisfied by
// *voice.Controller. A nil VoiceOutput disables speech.
type VoiceOutput interface {
	Active() bool
	Speak(messageID, cleanedText, lang, gender string)
}

// ToolSink receives tool directives from user turns. Satisfied by
// *tools.Panel.
type ToolSink interface {
	Activate(toolID string) bool
	SetArtPrompt(prompt string)
}

// EmitFunc receives transcript snapshots as a turn progresses. Each Message
// is an immutable snapshot; consumers upsert by Message.ID.
type EmitFunc func(Message)

// Orchestrator drives the conversation: it builds outbound parts, streams
// the response through the assembler, applies control-tag directives,
// persists every mutation and triggers speech.
type Orchestrator struct {
	transport Transport
	repo      Repository
	voice     VoiceOutput
	tools     ToolSink

	maxInlineTextBytes int

	mu       sync.Mutex
	persona  persona.Persona
	profile  *profile.UserProfile
	messages []Message
	inFlight map[string]bool
	autoplay bool
}

// NewOrchestrator assembles the pipeline. voiceOut and toolSink may be nil.
func NewOrchestrator(transport Transport, repo Repository, voiceOut VoiceOutput, toolSink ToolSink, maxInlineTextBytes int) *Orchestrator {
	if maxInlineTextBytes <= 0 {
		maxInlineTextBytes = 20000
	}
	return &Orchestrator{
		transport:          transport,
		repo:               repo,
		voice:              voiceOut,
		tools:              toolSink,
		maxInlineTextBytes: maxInlineTextBytes,
		inFlight:           make(map[string]bool),
	}
}

// SetProfile installs the learner profile used for instruction rendering
// and progress updates.
func (o *Orchestrator) SetProfile(p *profile.UserProfile) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.profile = p
}

// Profile returns the current profile (may be nil before onboarding).
func (o *Orchestrator) Profile() *profile.UserProfile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.profile
}

// SetAutoplay toggles TTS autoplay for finalized mentor messages.
func (o *Orchestrator) SetAutoplay(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.autoplay = on
}

// Persona returns the active mentor.
func (o *Orchestrator) Persona() persona.Persona {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.persona
}

// Messages returns a copy of the transcript.
func (o *Orchestrator) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Message, len(o.messages))
	copy(out, o.messages)
	return out
}

// SwitchPersona makes a mentor current, loading its persisted transcript or
// seeding the greeting. The caller is responsible for force-exiting voice
// mode (the voice controller's PersonaSwitch).
func (o *Orchestrator) SwitchPersona(p persona.Persona) error {
	history, err := o.repo.LoadHistory(p.ID)
	if err != nil {
		return gemini.LocalIOError("Failed to load chat history.", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.persona = p
	if len(history) > 0 {
		o.messages = history
		logging.Chat("persona %s: restored %d entries", p.ID, len(history))
		return nil
	}

	greeting := NewMessage(SenderAI, p.Greeting)
	greeting.MentorID = p.ID
	o.messages = []Message{greeting}
	logging.Chat("persona %s: fresh transcript", p.ID)
	return nil
}

// ClearHistory wipes the current mentor's conversation: the live session,
// the in-memory transcript and the persisted history, then reseeds the
// greeting.
func (o *Orchestrator) ClearHistory() error {
	o.mu.Lock()
	p := o.persona
	o.mu.Unlock()

	o.transport.Invalidate(p.ID)
	if err := o.repo.DeleteHistory(p.ID); err != nil {
		return gemini.LocalIOError("Failed to clear chat history.", err)
	}

	o.mu.Lock()
	greeting := NewMessage(SenderAI, p.Greeting)
	greeting.MentorID = p.ID
	o.messages = []Message{greeting}
	o.mu.Unlock()

	logging.Chat("history cleared for %s", p.ID)
	return nil
}

// SendUserTurn runs one user turn end to end. Snapshots stream through
// emit; the user's own entry is emitted first. Local failures abort before
// any network traffic, leaving no user entry. A transport failure leaves
// the user entry and appends one error-flagged AI entry.
func (o *Orchestrator) SendUserTurn(ctx context.Context, in TurnInput, emit EmitFunc) error {
	o.mu.Lock()
	p := o.persona
	if o.inFlight[p.ID] {
		o.mu.Unlock()
		return ErrTurnInFlight
	}
	o.inFlight[p.ID] = true
	o.mu.Unlock()
	defer o.clearInFlight(p.ID)

	parts, displayText, attached, err := BuildParts(in, o.maxInlineTextBytes)
	if err != nil {
		return err
	}

	userMsg := NewMessage(SenderUser, displayText)
	userMsg.Attached = attached
	if err := o.appendAndPersist(userMsg, emit); err != nil {
		return err
	}

	return o.runTurn(ctx, p, parts, false, emit)
}

// SendCodeFeedback reports a code-editor run to the mentor as a system
// turn. Successful runs award 2 points locally before the mentor responds.
func (o *Orchestrator) SendCodeFeedback(ctx context.Context, code, output string, hasError bool, emit EmitFunc) error {
	o.mu.Lock()
	p := o.persona
	if o.inFlight[p.ID] {
		o.mu.Unlock()
		return ErrTurnInFlight
	}
	o.inFlight[p.ID] = true
	o.mu.Unlock()
	defer o.clearInFlight(p.ID)

	label := "Output"
	if hasError {
		label = "Error"
	}
	text := fmt.Sprintf("User executed code:\n```go\n%s\n```\n%s:\n%s", code, label, output)

	sysMsg := NewMessage(SenderSystem, text)
	if err := o.appendAndPersist(sysMsg, emit); err != nil {
		return err
	}

	if !hasError {
		if err := o.awardPoints(2); err != nil {
			return err
		}
	}

	return o.runTurn(ctx, p, []gemini.Part{gemini.TextPart(text)}, true, emit)
}

// SendArtNotification reports a generated pixel-art image to the mentor as
// a system turn, awarding 3 points.
func (o *Orchestrator) SendArtNotification(ctx context.Context, promptUsed string, image []byte, emit EmitFunc) error {
	o.mu.Lock()
	p := o.persona
	if o.inFlight[p.ID] {
		o.mu.Unlock()
		return ErrTurnInFlight
	}
	o.inFlight[p.ID] = true
	o.mu.Unlock()
	defer o.clearInFlight(p.ID)

	sysMsg := NewMessage(SenderSystem,
		fmt.Sprintf("User generated pixel art with prompt %q. The image is shown below.", promptUsed))
	sysMsg.Image = image
	if err := o.appendAndPersist(sysMsg, emit); err != nil {
		return err
	}

	if err := o.awardPoints(3); err != nil {
		return err
	}

	aiText := fmt.Sprintf("User generated pixel art with prompt %q. "+
		"The image was displayed to them. Please comment on their creation or ask about it.", promptUsed)
	return o.runTurn(ctx, p, []gemini.Part{gemini.TextPart(aiText)}, true, emit)
}

// runTurn streams one turn through the assembler, persists the result,
// applies directives and triggers speech. systemTurn restricts directive
// application to quests and points.
func (o *Orchestrator) runTurn(ctx context.Context, p persona.Persona, parts []gemini.Part, systemTurn bool, emit EmitFunc) error {
	instruction := o.renderInstruction(p)
	asm := NewAssembler(p.ID)

	for chunk := range o.transport.StreamTurn(ctx, p.ID, instruction, p.SupportsSearch, parts) {
		if chunk.Err != nil {
			// Whatever streamed before the failure stays in the transcript;
			// the error arrives as its own entry.
			if asm.Materialized() {
				if err := o.upsertAndPersist(asm.Finalize(), emit); err != nil {
					return err
				}
			}
			if err := o.appendAndPersist(asm.ErrorEntry(chunk.Err), emit); err != nil {
				return err
			}
			logging.ChatError("turn failed for %s: %v", p.ID, chunk.Err)
			return chunk.Err
		}
		if snap, ok := asm.Feed(chunk.Text, chunk.Sources); ok {
			o.upsert(snap)
			if emit != nil {
				emit(snap)
			}
		}
	}

	final := asm.Finalize()
	if err := o.upsertAndPersist(final, emit); err != nil {
		return err
	}

	if err := o.applyDirectives(asm.Text(), p, systemTurn); err != nil {
		return err
	}
	o.maybeSpeak(final, p)
	return nil
}

// applyDirectives honors the control tags of a finished turn. User turns
// apply all four kinds; system turns apply quests and points only.
func (o *Orchestrator) applyDirectives(fullText string, p persona.Persona, systemTurn bool) error {
	for _, d := range directive.Parse(fullText) {
		switch d.Kind {
		case directive.KindTool:
			if !systemTurn && o.tools != nil {
				o.tools.Activate(d.Value)
			}
		case directive.KindPixelArtPrompt:
			if !systemTurn && o.tools != nil {
				o.tools.SetArtPrompt(d.Value)
			}
		case directive.KindQuest:
			if err := o.setQuest(p.ID, d.Value); err != nil {
				return err
			}
		case directive.KindPoints:
			if err := o.awardPoints(d.Points); err != nil {
				return err
			}
		}
	}
	return nil
}

// maybeSpeak triggers TTS on the finalized entry. Interactive voice mode
// takes priority; otherwise autoplay applies. Loading, error and empty
// entries stay silent.
func (o *Orchestrator) maybeSpeak(final Message, p persona.Persona) {
	if o.voice == nil || final.IsLoading || final.IsError || final.Text == "" {
		return
	}
	cleaned := directive.CleanForSpeech(final.Text)
	if cleaned == "" {
		return
	}

	o.mu.Lock()
	autoplay := o.autoplay
	o.mu.Unlock()

	if o.voice.Active() || autoplay {
		o.voice.Speak(final.ID, cleaned, p.Language(), string(p.Gender))
	}
}

func (o *Orchestrator) renderInstruction(p persona.Persona) string {
	o.mu.Lock()
	prof := o.profile
	o.mu.Unlock()

	var vals persona.TemplateValues
	if prof != nil {
		vals = persona.TemplateValues{
			UserName:      prof.Name,
			LearningStyle: string(prof.LearningStyle),
			SkillLevel:    prof.SkillLevel(p.SkillKey()),
		}
	}
	return p.RenderInstruction(vals)
}

func (o *Orchestrator) setQuest(personaID, quest string) error {
	o.mu.Lock()
	prof := o.profile
	if prof != nil {
		prof.SetQuest(personaID, quest)
	}
	o.mu.Unlock()
	if prof == nil {
		return nil
	}
	if err := o.repo.SaveProfile(prof); err != nil {
		return gemini.LocalIOError("Failed to save progress.", err)
	}
	logging.Chat("quest set for %s: %s", personaID, quest)
	return nil
}

func (o *Orchestrator) awardPoints(points int) error {
	o.mu.Lock()
	prof := o.profile
	if prof != nil {
		prof.AddPoints(points)
	}
	o.mu.Unlock()
	if prof == nil {
		return nil
	}
	if err := o.repo.SaveProfile(prof); err != nil {
		return gemini.LocalIOError("Failed to save progress.", err)
	}
	logging.Chat("awarded %d points (total %d)", points, prof.Progress.Points)
	return nil
}

func (o *Orchestrator) appendAndPersist(m Message, emit EmitFunc) error {
	o.mu.Lock()
	o.messages = append(o.messages, m)
	snapshot := make([]Message, len(o.messages))
	copy(snapshot, o.messages)
	personaID := o.persona.ID
	o.mu.Unlock()

	if emit != nil {
		emit(m)
	}
	if err := o.repo.SaveHistory(personaID, snapshot); err != nil {
		return gemini.LocalIOError("Failed to save chat history.", err)
	}
	return nil
}

// upsert replaces the entry with m's id, or appends it.
func (o *Orchestrator) upsert(m Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.messages {
		if o.messages[i].ID == m.ID {
			o.messages[i] = m
			return
		}
	}
	o.messages = append(o.messages, m)
}

func (o *Orchestrator) upsertAndPersist(m Message, emit EmitFunc) error {
	o.upsert(m)

	o.mu.Lock()
	snapshot := make([]Message, len(o.messages))
	copy(snapshot, o.messages)
	personaID := o.persona.ID
	o.mu.Unlock()

	if emit != nil {
		emit(m)
	}
	if err := o.repo.SaveHistory(personaID, snapshot); err != nil {
		return gemini.LocalIOError("Failed to save chat history.", err)
	}
	return nil
}

func (o *Orchestrator) clearInFlight(personaID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, personaID)
}
