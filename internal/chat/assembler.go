package chat

import (
	"strings"
	"time"

	"mentorlab/internal/gemini"

	"github.com/google/uuid"
)

// noResponsePlaceholder is shown when a stream ends without producing any
// text or sources.
const noResponsePlaceholder = "[No response from mentor]"

// Assembler folds one AI turn's stream of chunks into a single transcript
// entry. It emits immutable snapshots: each emitted Message is a complete
// copy of the entry at that point, so consumers may hold or render it
// without racing later updates.
//
// Text grows monotonically in arrival order. Sources are deduplicated by
// URI, first occurrence wins. The entry materializes on the first text
// fragment that is non-empty after trimming; source-only chunks before that
// accumulate silently.
type Assembler struct {
	id       string
	mentorID string
	started  time.Time

	buf          strings.Builder
	sources      []Source
	seenURIs     map[string]bool
	materialized bool
}

// NewAssembler starts assembling one AI turn for the given mentor.
func NewAssembler(mentorID string) *Assembler {
	return &Assembler{
		id:       uuid.NewString(),
		mentorID: mentorID,
		started:  time.Now(),
		seenURIs: make(map[string]bool),
	}
}

// Feed consumes one stream chunk. The returned snapshot is valid only when
// emit is true; emit stays false until the entry has materialized.
func (a *Assembler) Feed(text string, sources []gemini.Source) (Message, bool) {
	a.buf.WriteString(text)
	for _, s := range sources {
		if s.URI == "" || a.seenURIs[s.URI] {
			continue
		}
		a.seenURIs[s.URI] = true
		a.sources = append(a.sources, Source{URI: s.URI, Title: s.Title})
	}

	if !a.materialized && strings.TrimSpace(a.buf.String()) != "" {
		a.materialized = true
	}
	if !a.materialized {
		return Message{}, false
	}
	return a.snapshot(true), true
}

// Finalize closes the turn normally and returns the final entry with the
// loading flag cleared. A turn that produced no text gets the placeholder
// text only when it also produced no sources.
func (a *Assembler) Finalize() Message {
	m := a.snapshot(false)
	if strings.TrimSpace(m.Text) == "" {
		if len(m.Sources) == 0 {
			m.Text = noResponsePlaceholder
		} else {
			m.Text = ""
		}
	}
	return m
}

// ErrorEntry builds a fresh error-flagged entry for a classified transport
// failure. The turn's own entry, if one materialized, is left untouched; the
// error always arrives under a new id.
func (a *Assembler) ErrorEntry(err *gemini.Error) Message {
	m := NewMessage(SenderAI, err.Message)
	m.MentorID = a.mentorID
	m.IsError = true
	return m
}

// Materialized reports whether a loading entry has been emitted yet.
func (a *Assembler) Materialized() bool { return a.materialized }

// Text returns the raw accumulated response text.
func (a *Assembler) Text() string { return a.buf.String() }

func (a *Assembler) snapshot(loading bool) Message {
	var sources []Source
	if len(a.sources) > 0 {
		sources = make([]Source, len(a.sources))
		copy(sources, a.sources)
	}
	return Message{
		ID:        a.id,
		Text:      a.buf.String(),
		Sender:    SenderAI,
		Timestamp: a.started,
		MentorID:  a.mentorID,
		IsLoading: loading,
		Sources:   sources,
	}
}
