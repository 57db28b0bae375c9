package chat

import (
	"fmt"
	"strings"

	mentorchat "mentorlab/internal/chat"
	"mentorlab/internal/persona"
	"mentorlab/internal/voice"
)

func (m Model) View() string {
	if m.isBooting {
		return fmt.Sprintf("\n  %s Starting MentorLab...\n", m.spinner.View())
	}
	if m.err != nil && m.svc == nil {
		return m.styles.Error.Render("Startup failed: "+m.err.Error()) + "\n\nPress Ctrl+C to exit.\n"
	}
	if m.viewMode == MentorListView {
		return m.list.View()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.isLoading {
		b.WriteString(m.spinner.View() + " thinking...\n")
	}
	b.WriteString(m.styles.Input.Render(m.textarea.View()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	p := m.svc.Orch.Persona()
	title := fmt.Sprintf(" MentorLab — %s, %s ", p.Name, p.Specialization)

	extras := []string{}
	if prof := m.svc.Orch.Profile(); prof != nil {
		extras = append(extras, m.styles.Points.Render(fmt.Sprintf("%d pts", prof.Progress.Points)))
		if quest, ok := prof.Quest(p.ID); ok {
			extras = append(extras, m.styles.Quest.Render("Quest: "+quest))
		}
	}
	if name := m.svc.Panel.ActiveName(); name != "" {
		extras = append(extras, m.styles.ToolBar.Render("Tool: "+name))
	}
	if state := m.avatarIndicator(); state != "" {
		extras = append(extras, m.styles.Avatar.Render(state))
	}

	line := m.styles.Header.Render(title)
	if len(extras) > 0 {
		line += "  " + strings.Join(extras, "  ")
	}
	return line
}

func (m Model) avatarIndicator() string {
	switch m.avatar {
	case voice.StateListening:
		return "● listening"
	case voice.StateUserProcessing:
		return "◐ processing"
	case voice.StateAIProcessing:
		return "◓ thinking"
	case voice.StateSpeaking:
		return "▶ speaking"
	default:
		if m.svc != nil && m.svc.Voice.Active() {
			return "○ voice"
		}
		return ""
	}
}

func (m Model) renderFooter() string {
	status := m.statusLine
	if status == "" {
		status = "Enter sends · /help commands · Ctrl+V voice · Ctrl+C quit"
	}
	if m.pendingFile != "" {
		status += "  [attachment pending]"
	}
	return m.styles.Footer.Render(status)
}

// renderTranscript formats the conversation for the viewport. Mentor text
// goes through the markdown renderer; user and system entries are plain.
func (m Model) renderTranscript() string {
	var b strings.Builder
	for _, msg := range m.transcript {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMessage(msg mentorchat.Message) string {
	var b strings.Builder

	switch msg.Sender {
	case mentorchat.SenderUser:
		b.WriteString(m.styles.UserLabel.Render("You"))
	case mentorchat.SenderSystem:
		b.WriteString(m.styles.SystemLabel.Render("System"))
	default:
		name := "Mentor"
		if p, ok := m.mentorName(msg.MentorID); ok {
			name = p
		}
		b.WriteString(m.styles.MentorLabel.Render(name))
	}
	b.WriteString("\n")

	text := msg.Text
	switch {
	case msg.IsError:
		b.WriteString(m.styles.Error.Render(text))
	case msg.Sender == mentorchat.SenderAI && m.renderer != nil:
		if rendered, err := m.renderer.Render(text); err == nil {
			b.WriteString(strings.TrimRight(rendered, "\n"))
		} else {
			b.WriteString(text)
		}
	default:
		b.WriteString(text)
	}
	b.WriteString("\n")

	if msg.IsLoading {
		b.WriteString(m.styles.Muted.Render("…") + "\n")
	}
	if msg.Attached != nil {
		b.WriteString(m.styles.Attachment.Render(
			fmt.Sprintf("📎 %s (%d bytes)", msg.Attached.Name, msg.Attached.Size)) + "\n")
	}
	if len(msg.Image) > 0 {
		b.WriteString(m.styles.Attachment.Render("🖼 pixel art attached") + "\n")
	}
	for _, src := range msg.Sources {
		b.WriteString("  " + m.styles.SourceLink.Render(src.Title) +
			" " + m.styles.Muted.Render(src.URI) + "\n")
	}
	return b.String()
}

func (m Model) mentorName(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	p, ok := persona.FindByID(id)
	if !ok {
		return "", false
	}
	return p.Name, true
}
