package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"mentorlab/internal/gemini"
)

// TurnInput is the raw material of one user turn: typed text, an optional
// file attachment and optional captured audio.
type TurnInput struct {
	Text      string
	FilePath  string
	AudioData []byte
	AudioMIME string
}

// audioOnlyPlaceholder is the transcript text for a turn that carried
// nothing but audio.
const audioOnlyPlaceholder = "[Audio Message]"

var imageExtMIME = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var interpretableExts = map[string]bool{
	".txt": true, ".md": true, ".json": true, ".csv": true,
	".js": true, ".py": true, ".html": true, ".css": true,
	".c": true, ".cpp": true, ".java": true, ".go": true,
	".yaml": true, ".yml": true, ".sh": true,
}

// BuildParts converts a TurnInput into outbound parts plus the transcript
// presentation of the user's message. File access failures return a
// LocalIO error before anything reaches the network.
func BuildParts(in TurnInput, maxInlineTextBytes int) ([]gemini.Part, string, *AttachedFile, error) {
	text := strings.TrimSpace(in.Text)
	displayText := text

	var parts []gemini.Part
	if text != "" {
		parts = append(parts, gemini.TextPart(text))
	}

	var attached *AttachedFile
	if in.FilePath != "" {
		name := filepath.Base(in.FilePath)
		ext := strings.ToLower(filepath.Ext(name))

		info, err := os.Stat(in.FilePath)
		if err != nil {
			return nil, "", nil, gemini.LocalIOError("Failed to process the selected file.", err)
		}
		attached = &AttachedFile{Name: name, Size: info.Size()}

		switch {
		case imageExtMIME[ext] != "":
			mimeType := imageExtMIME[ext]
			data, err := os.ReadFile(in.FilePath)
			if err != nil {
				return nil, "", nil, gemini.LocalIOError("Failed to process the selected file.", err)
			}
			attached.MIMEType = mimeType
			attached.Data = data
			parts = append(parts, gemini.BlobPart(mimeType, data))

		case interpretableExts[ext]:
			data, err := os.ReadFile(in.FilePath)
			if err != nil {
				return nil, "", nil, gemini.LocalIOError("Failed to process the selected file.", err)
			}
			attached.MIMEType = "text/plain"
			content := string(data)
			if len(content) > maxInlineTextBytes {
				content = truncateAtRune(content, maxInlineTextBytes) + "\n[Content truncated]"
			}
			lang := strings.TrimPrefix(ext, ".")
			if lang == "" {
				lang = "text"
			}
			desc := fmt.Sprintf("The user attached a file named %q (type: %s). Its content is:\n```%s\n%s\n```",
				name, attached.MIMEType, lang, content)
			parts = mergeIntoText(parts, "\n\n"+desc, desc)
			if displayText == "" {
				displayText = "File: " + name
			}

		default:
			attached.MIMEType = "application/octet-stream"
			note := fmt.Sprintf("User has attached a file named: %q (Type: %s). "+
				"I (the AI) cannot see the content of this specific file type directly. "+
				"Please ask the user for relevant information if needed.", name, ext)
			parts = mergeIntoText(parts, "\n"+note, note)
			if displayText == "" {
				displayText = "Attached file: " + name
			}
		}
	}

	if len(in.AudioData) > 0 && in.AudioMIME != "" {
		parts = append(parts, gemini.BlobPart(in.AudioMIME, in.AudioData))
		if displayText == "" {
			displayText = audioOnlyPlaceholder
		} else if i := firstTextPart(parts); i >= 0 {
			parts[i].Text += " [Audio was also sent]"
		}
	}

	// Inline data without any text part: the backend expects a leading
	// empty text part on multimodal payloads.
	if hasInline(parts) && firstTextPart(parts) < 0 {
		parts = append([]gemini.Part{gemini.TextPart("")}, parts...)
	}

	if len(parts) == 0 {
		return nil, "", nil, gemini.LocalIOError("Nothing to send.", nil)
	}
	if displayText == "" {
		if attached != nil {
			displayText = "File: " + attached.Name
		} else {
			displayText = audioOnlyPlaceholder
		}
	}
	return parts, displayText, attached, nil
}

// mergeIntoText appends suffix to the existing text part, or prepends a new
// text part carrying standalone.
func mergeIntoText(parts []gemini.Part, suffix, standalone string) []gemini.Part {
	if i := firstTextPart(parts); i >= 0 {
		parts[i].Text += suffix
		return parts
	}
	return append([]gemini.Part{gemini.TextPart(standalone)}, parts...)
}

func firstTextPart(parts []gemini.Part) int {
	for i, p := range parts {
		if p.InlineData == nil {
			return i
		}
	}
	return -1
}

// truncateAtRune cuts s to at most max bytes without splitting a UTF-8
// sequence.
func truncateAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func hasInline(parts []gemini.Part) bool {
	for _, p := range parts {
		if p.InlineData != nil {
			return true
		}
	}
	return false
}
