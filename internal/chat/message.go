// Package chat implements the conversation pipeline: transcript entries,
// the streaming response assembler, outbound part construction and the
// turn orchestrator.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored a transcript entry.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderAI     Sender = "ai"
	SenderSystem Sender = "system"
)

// Source is a grounding citation attached to an AI entry.
type Source struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

// AttachedFile describes a user-uploaded file shown in the transcript.
// Data is kept only for images so the UI can render a preview.
type AttachedFile struct {
	Name     string `json:"name"`
	MIMEType string `json:"type"`
	Size     int64  `json:"size"`
	Data     []byte `json:"data,omitempty"`
}

// Message is one transcript entry. Timestamps serialize as RFC 3339 via
// encoding/json.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	MentorID  string    `json:"mentorId,omitempty"`
	// Image holds AI-generated PNG bytes.
	Image     []byte        `json:"image,omitempty"`
	CodeBlock string        `json:"codeBlock,omitempty"`
	IsLoading bool          `json:"isLoading,omitempty"`
	IsError   bool          `json:"isError,omitempty"`
	Attached  *AttachedFile `json:"attachedFile,omitempty"`
	Sources   []Source      `json:"sources,omitempty"`
}

// NewMessage creates a transcript entry with a fresh id and timestamp.
func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now(),
	}
}
