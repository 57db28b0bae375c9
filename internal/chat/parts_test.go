package chat

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"mentorlab/internal/gemini"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildPartsTextOnly(t *testing.T) {
	parts, display, attached, err := BuildParts(TurnInput{Text: "  hello mentor  "}, 20000)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 1 || parts[0].Text != "hello mentor" {
		t.Errorf("parts = %+v", parts)
	}
	if display != "hello mentor" || attached != nil {
		t.Errorf("display = %q, attached = %v", display, attached)
	}
}

func TestBuildPartsImageWithText(t *testing.T) {
	path := writeTempFile(t, "sketch.png", []byte{0x89, 'P', 'N', 'G'})

	parts, display, attached, err := BuildParts(TurnInput{Text: "look at this", FilePath: path}, 20000)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(parts))
	}
	if parts[0].Text != "look at this" {
		t.Errorf("text part = %q", parts[0].Text)
	}
	if parts[1].InlineMIME != "image/png" || len(parts[1].InlineData) == 0 {
		t.Errorf("blob part = %+v", parts[1])
	}
	if display != "look at this" {
		t.Errorf("display = %q", display)
	}
	if attached == nil || attached.MIMEType != "image/png" || len(attached.Data) == 0 {
		t.Errorf("attached = %+v", attached)
	}
}

func TestBuildPartsImageOnlyGetsEmptyTextPart(t *testing.T) {
	path := writeTempFile(t, "sketch.png", []byte{1, 2, 3})

	parts, display, _, err := BuildParts(TurnInput{FilePath: path}, 20000)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2 (leading empty text + blob)", len(parts))
	}
	if parts[0].InlineData != nil || parts[0].Text != "" {
		t.Errorf("leading part should be empty text, got %+v", parts[0])
	}
	if display != "File: sketch.png" {
		t.Errorf("display = %q", display)
	}
}

func TestBuildPartsInterpretableTextMergedIntoTextPart(t *testing.T) {
	path := writeTempFile(t, "notes.md", []byte("# Heading\nbody"))

	parts, display, _, err := BuildParts(TurnInput{Text: "review this", FilePath: path}, 20000)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 1 {
		t.Fatalf("parts = %d, want 1 (merged text)", len(parts))
	}
	text := parts[0].Text
	if !strings.HasPrefix(text, "review this\n\n") {
		t.Errorf("user text should lead: %q", text)
	}
	if !strings.Contains(text, `"notes.md"`) || !strings.Contains(text, "# Heading") {
		t.Errorf("file content missing: %q", text)
	}
	if display != "review this" {
		t.Errorf("display = %q", display)
	}
}

func TestBuildPartsInterpretableTextTruncated(t *testing.T) {
	content := strings.Repeat("x", 100)
	path := writeTempFile(t, "big.txt", []byte(content))

	parts, display, _, err := BuildParts(TurnInput{FilePath: path}, 40)
	if err != nil {
		t.Fatal(err)
	}
	text := parts[0].Text
	if !strings.Contains(text, strings.Repeat("x", 40)+"\n[Content truncated]") {
		t.Errorf("missing truncation marker: %q", text)
	}
	if strings.Contains(text, strings.Repeat("x", 41)) {
		t.Error("content not truncated at limit")
	}
	if display != "File: big.txt" {
		t.Errorf("display = %q", display)
	}
}

func TestBuildPartsTruncationKeepsRunesWhole(t *testing.T) {
	// Each é is two bytes; a 7-byte limit lands mid-rune.
	content := "aé" + strings.Repeat("é", 10)
	path := writeTempFile(t, "notes.txt", []byte(content))

	parts, _, _, err := BuildParts(TurnInput{FilePath: path}, 7)
	if err != nil {
		t.Fatal(err)
	}
	text := parts[0].Text
	i := strings.Index(text, "\n[Content truncated]")
	if i < 0 {
		t.Fatalf("missing truncation marker: %q", text)
	}
	// Everything before the marker, back to the code fence, is valid UTF-8.
	kept := text[:i]
	kept = kept[strings.LastIndex(kept, "\n")+1:]
	if !utf8.ValidString(kept) {
		t.Errorf("truncation split a rune: %q", kept)
	}
	if !strings.HasPrefix(kept, "aé") {
		t.Errorf("kept = %q", kept)
	}
}

func TestBuildPartsOpaqueFileBecomesNote(t *testing.T) {
	path := writeTempFile(t, "model.bin", []byte{0, 1, 2})

	parts, display, attached, err := BuildParts(TurnInput{FilePath: path}, 20000)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 1 {
		t.Fatalf("parts = %d, want 1", len(parts))
	}
	if !strings.Contains(parts[0].Text, `"model.bin"`) || !strings.Contains(parts[0].Text, "cannot see the content") {
		t.Errorf("note = %q", parts[0].Text)
	}
	if display != "Attached file: model.bin" {
		t.Errorf("display = %q", display)
	}
	if attached == nil || len(attached.Data) != 0 {
		t.Errorf("opaque attachment should not carry data: %+v", attached)
	}
}

func TestBuildPartsAudioOnly(t *testing.T) {
	parts, display, _, err := BuildParts(TurnInput{AudioData: []byte("opus"), AudioMIME: "audio/ogg"}, 20000)
	if err != nil {
		t.Fatal(err)
	}
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2 (empty text + audio blob)", len(parts))
	}
	if parts[0].Text != "" || parts[0].InlineData != nil {
		t.Errorf("leading part = %+v", parts[0])
	}
	if parts[1].InlineMIME != "audio/ogg" {
		t.Errorf("audio part = %+v", parts[1])
	}
	if display != "[Audio Message]" {
		t.Errorf("display = %q", display)
	}
}

func TestBuildPartsTextWithAudio(t *testing.T) {
	parts, display, _, err := BuildParts(TurnInput{Text: "and here's my question", AudioData: []byte("opus"), AudioMIME: "audio/ogg"}, 20000)
	if err != nil {
		t.Fatal(err)
	}
	if parts[0].Text != "and here's my question [Audio was also sent]" {
		t.Errorf("text part = %q", parts[0].Text)
	}
	if display != "and here's my question" {
		t.Errorf("display = %q", display)
	}
}

func TestBuildPartsMissingFileIsLocalIO(t *testing.T) {
	_, _, _, err := BuildParts(TurnInput{Text: "hi", FilePath: "/nonexistent/file.png"}, 20000)
	var ce *gemini.Error
	if !errors.As(err, &ce) || ce.Kind != gemini.KindLocalIO {
		t.Errorf("err = %v, want LocalIO", err)
	}
}

func TestBuildPartsEmptyInput(t *testing.T) {
	_, _, _, err := BuildParts(TurnInput{Text: "   "}, 20000)
	if err == nil {
		t.Error("expected error for empty input")
	}
}
