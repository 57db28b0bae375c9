package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mentorlab/internal/logging"
	"mentorlab/internal/persona"
	"mentorlab/internal/tools"

	tea "github.com/charmbracelet/bubbletea"
)

const helpText = `Commands:
  /mentors            Open the mentor picker
  /mentor <id>        Switch to a mentor by id
  /clear              Clear this mentor's conversation
  /attach <path>      Attach a file to your next message
  /voice              Toggle interactive voice mode (Ctrl+V)
  /autoplay           Toggle spoken mentor replies
  /run <file|code>    Run Go code and share the result with your mentor
  /art <prompt>       Generate pixel art and show it to your mentor
  /tool [close]       Show or close the active tool
  /progress           Show points, badges and active quests
  /quit               Exit`

// handleCommand dispatches a /command line.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.SplitN(input, " ", 2)
	cmd := strings.ToLower(parts[0])
	arg := ""
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case "/help":
		m.statusLine = helpText
		return m, nil

	case "/quit", "/exit":
		m.shutdown()
		return m, tea.Quit

	case "/mentors":
		m.viewMode = MentorListView
		return m, nil

	case "/mentor":
		if arg == "" {
			m.viewMode = MentorListView
			return m, nil
		}
		p, ok := persona.FindByID(arg)
		if !ok {
			m.statusLine = fmt.Sprintf("Unknown mentor %q. Try /mentors.", arg)
			return m, nil
		}
		return m.switchMentor(p)

	case "/clear":
		if err := m.svc.Orch.ClearHistory(); err != nil {
			m.statusLine = err.Error()
			return m, nil
		}
		m.transcript = m.svc.Orch.Messages()
		m.statusLine = "Conversation cleared."
		m.refreshViewport()
		return m, nil

	case "/attach":
		if arg == "" {
			m.statusLine = "Usage: /attach <path>"
			return m, nil
		}
		if _, err := os.Stat(arg); err != nil {
			m.statusLine = "Cannot read " + arg
			return m, nil
		}
		m.pendingFile = arg
		m.statusLine = fmt.Sprintf("Will attach %s to your next message.", filepath.Base(arg))
		return m, nil

	case "/voice":
		return m.toggleVoiceMode()

	case "/autoplay":
		m.cfg.Voice.Autoplay = !m.cfg.Voice.Autoplay
		m.svc.Orch.SetAutoplay(m.cfg.Voice.Autoplay)
		if m.cfg.Voice.Autoplay {
			m.statusLine = "Mentor replies will be spoken."
		} else {
			m.statusLine = "Spoken replies off."
		}
		return m, nil

	case "/run":
		return m.handleRunCommand(arg)

	case "/art":
		if arg == "" {
			arg = m.svc.Panel.ArtPrompt()
		}
		if arg == "" {
			m.statusLine = "Usage: /art <prompt>"
			return m, nil
		}
		m.isLoading = true
		m.statusLine = "Generating pixel art..."
		return m, tea.Batch(m.spinner.Tick, m.generateArt(arg))

	case "/tool":
		if arg == "close" {
			m.svc.Panel.Close()
			m.statusLine = "Tool closed."
			return m, nil
		}
		if name := m.svc.Panel.ActiveName(); name != "" {
			m.statusLine = "Active tool: " + name
		} else {
			m.statusLine = "No tool is open."
		}
		return m, nil

	case "/progress":
		m.statusLine = m.renderProgress()
		return m, nil

	default:
		m.statusLine = fmt.Sprintf("Unknown command %s. Try /help.", cmd)
		return m, nil
	}
}

// handleRunCommand executes Go code through the sandboxed runner. The
// argument is either a .go file path or inline code.
func (m Model) handleRunCommand(arg string) (tea.Model, tea.Cmd) {
	if arg == "" {
		m.statusLine = "Usage: /run <file.go> or /run <code>"
		return m, nil
	}
	code := arg
	if strings.HasSuffix(arg, ".go") {
		data, err := os.ReadFile(arg)
		if err != nil {
			m.statusLine = "Cannot read " + arg
			return m, nil
		}
		code = string(data)
	}

	m.svc.Panel.Activate(tools.ToolCodeEditor)
	m.isLoading = true
	m.statusLine = "Running..."
	return m, tea.Batch(m.spinner.Tick, m.runCode(code))
}

func (m Model) runCode(code string) tea.Cmd {
	runner := m.svc.Runner
	timeout := m.cfg.GetRunTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		output, err := runner.Run(ctx, code)
		if err != nil {
			return codeRunDoneMsg{code: code, output: err.Error(), failed: true}
		}
		return codeRunDoneMsg{code: code, output: output}
	}
}

// handleCodeRunDone shows the run result and reports it to the mentor.
func (m Model) handleCodeRunDone(msg codeRunDoneMsg) (tea.Model, tea.Cmd) {
	if msg.failed {
		m.statusLine = "Run failed: " + msg.output
	} else {
		m.statusLine = "Output: " + msg.output
	}

	svc := m.svc
	emit := m.emit()
	timeout := m.cfg.GetGeminiTimeout()
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return turnDoneMsg{err: svc.Orch.SendCodeFeedback(ctx, msg.code, msg.output, msg.failed, emit)}
	}
}

func (m Model) generateArt(prompt string) tea.Cmd {
	svc := m.svc
	dataDir := m.dataDir
	timeout := m.cfg.GetGeminiTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		image, err := svc.Client.GeneratePixelArt(ctx, prompt)
		if err != nil {
			return artDoneMsg{prompt: prompt, err: err}
		}

		dir := ArtDir(dataDir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return artDoneMsg{prompt: prompt, err: err}
		}
		path := filepath.Join(dir, fmt.Sprintf("art-%d.png", time.Now().Unix()))
		if err := os.WriteFile(path, image, 0644); err != nil {
			return artDoneMsg{prompt: prompt, err: err}
		}
		return artDoneMsg{prompt: prompt, path: path, image: image}
	}
}

// handleArtDone saves the artwork notice and tells the mentor about it.
func (m Model) handleArtDone(msg artDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.isLoading = false
		m.statusLine = "Art generation failed: " + msg.err.Error()
		logging.ToolsError("pixel art failed: %v", msg.err)
		return m, nil
	}
	m.statusLine = "Saved to " + msg.path

	svc := m.svc
	emit := m.emit()
	timeout := m.cfg.GetGeminiTimeout()
	prompt, image := msg.prompt, msg.image
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return turnDoneMsg{err: svc.Orch.SendArtNotification(ctx, prompt, image, emit)}
	}
}

func (m Model) renderProgress() string {
	prof := m.svc.Orch.Profile()
	if prof == nil {
		return "No profile yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s — %d points", prof.Name, prof.Progress.Points)
	if len(prof.Progress.Badges) > 0 {
		fmt.Fprintf(&b, ", badges: %s", strings.Join(prof.Progress.Badges, ", "))
	}
	for id, quest := range prof.Progress.CurrentQuests {
		if p, ok := persona.FindByID(id); ok {
			fmt.Fprintf(&b, "\n  %s: %s", p.Name, quest)
		}
	}
	return b.String()
}
