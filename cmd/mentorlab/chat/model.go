// Package chat provides the interactive TUI for MentorLab.
// The interface is split across files:
//   - model.go: Types, Init, Update loop (this file)
//   - commands.go: /command handling
//   - view.go: Rendering functions
//   - boot.go: Backend initialization
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mentorlab/cmd/mentorlab/ui"
	mentorchat "mentorlab/internal/chat"
	"mentorlab/internal/config"
	"mentorlab/internal/logging"
	"mentorlab/internal/persona"
	"mentorlab/internal/profile"
	"mentorlab/internal/voice"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// ViewMode determines which component is focused.
type ViewMode int

const (
	ChatView ViewMode = iota
	MentorListView
)

// InputMode is the current input handling state. Onboarding runs as a tiny
// two-step wizard before normal chat input is accepted.
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeOnboardName
	InputModeOnboardStyle
)

// mentorItem is a list item for the mentor picker.
type mentorItem struct {
	p persona.Persona
}

func (i mentorItem) Title() string { return i.p.Name }
func (i mentorItem) Description() string {
	d := i.p.Specialization
	if i.p.SupportsSearch {
		d += " (web search)"
	}
	return d
}
func (i mentorItem) FilterValue() string { return i.p.Name + " " + i.p.Specialization }

type (
	snapshotMsg  mentorchat.Message
	turnDoneMsg  struct{ err error }
	audioMsg     capturedAudio
	authAlertMsg string
	avatarTick   time.Time

	codeRunDoneMsg struct {
		code   string
		output string
		failed bool
	}
	artDoneMsg struct {
		prompt string
		path   string
		image  []byte
		err    error
	}
)

// Model is the bubbletea model for the interactive chat interface.
type Model struct {
	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	list     list.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	viewMode  ViewMode
	inputMode InputMode

	// State
	transcript  []mentorchat.Message
	isLoading   bool
	isBooting   bool
	statusLine  string
	avatar      voice.AvatarState
	pendingFile string
	onboardName string
	err         error
	width       int
	height      int
	ready       bool

	// Backend
	cfg     *config.Config
	dataDir string
	svc     *Services

	// Channels bridging backend callbacks into the update loop
	snapshotCh chan mentorchat.Message
	audioCh    chan capturedAudio
	authCh     chan string
}

// NewModel creates the chat model. The backend boots asynchronously from
// Init; until then the model renders a boot screen.
func NewModel(cfg *config.Config, dataDir string) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask your mentor... (/help for commands)"
	ta.Focus()
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	items := make([]list.Item, len(persona.Roster))
	for i, p := range persona.Roster {
		items[i] = mentorItem{p: p}
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Choose a Mentor"

	styles := ui.NewStyles(ui.DetectTheme())
	sp.Style = styles.Spinner

	return Model{
		textarea:   ta,
		spinner:    sp,
		list:       l,
		styles:     styles,
		isBooting:  true,
		avatar:     voice.StateIdle,
		cfg:        cfg,
		dataDir:    dataDir,
		snapshotCh: make(chan mentorchat.Message, 64),
		audioCh:    make(chan capturedAudio, 1),
		authCh:     make(chan string, 4),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		performBoot(m.cfg, m.dataDir, m.audioCh, m.authCh),
		m.waitForSnapshot(),
		m.waitForAudio(),
		m.waitForAuthAlert(),
		m.avatarTimer(),
	)
}

// waitForSnapshot delivers transcript snapshots from an in-flight turn.
func (m Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-m.snapshotCh)
	}
}

// waitForAudio delivers completed voice captures for submission.
func (m Model) waitForAudio() tea.Cmd {
	return func() tea.Msg {
		return audioMsg(<-m.audioCh)
	}
}

func (m Model) waitForAuthAlert() tea.Cmd {
	return func() tea.Msg {
		return authAlertMsg(<-m.authCh)
	}
}

// avatarTimer drives the voice auto-loop; the controller's Update must be
// polled because speech and capture finish outside the event loop.
func (m Model) avatarTimer() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return avatarTick(t)
	})
}

func (m Model) emit() mentorchat.EmitFunc {
	ch := m.snapshotCh
	return func(msg mentorchat.Message) {
		select {
		case ch <- msg:
		default:
			// UI is behind; the final upsert will carry the full entry.
		}
	}
}

// sendTurn runs one user turn against the orchestrator.
func (m Model) sendTurn(in mentorchat.TurnInput) tea.Cmd {
	svc := m.svc
	emit := m.emit()
	timeout := m.cfg.GetGeminiTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return turnDoneMsg{err: svc.Orch.SendUserTurn(ctx, in, emit)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.shutdown()
			return m, tea.Quit
		case tea.KeyEsc:
			if m.viewMode == MentorListView {
				m.viewMode = ChatView
				return m, nil
			}
		case tea.KeyEnter:
			if m.viewMode == MentorListView {
				if item, ok := m.list.SelectedItem().(mentorItem); ok {
					m.viewMode = ChatView
					return m.switchMentor(item.p)
				}
				return m, nil
			}
			if !msg.Alt {
				return m.handleSubmit()
			}
		case tea.KeyCtrlV:
			return m.toggleVoiceMode()
		case tea.KeyCtrlG:
			// End the current capture and send it.
			if m.svc != nil && m.svc.Voice.Active() {
				m.svc.Voice.StopCapture()
				return m, nil
			}
		}

		if m.viewMode == MentorListView {
			m.list, tiCmd = m.list.Update(msg)
			return m, tiCmd
		}
		if !m.isLoading {
			m.textarea, tiCmd = m.textarea.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.resize(msg)

	case bootCompleteMsg:
		m.isBooting = false
		if msg.err != nil {
			m.err = msg.err
			m.statusLine = msg.err.Error()
			return m, nil
		}
		m.svc = msg.services
		m.transcript = m.svc.Orch.Messages()
		if m.svc.Profile == nil {
			m.inputMode = InputModeOnboardName
			m.statusLine = "Welcome! What should your mentors call you?"
		} else {
			m.statusLine = fmt.Sprintf("Welcome back, %s.", m.svc.Profile.Name)
		}
		m.refreshViewport()
		return m, nil

	case snapshotMsg:
		if m.svc != nil {
			m.transcript = m.svc.Orch.Messages()
			m.refreshViewport()
		}
		return m, m.waitForSnapshot()

	case turnDoneMsg:
		m.isLoading = false
		if msg.err != nil {
			logging.ChatError("turn finished with error: %v", msg.err)
		}
		if m.svc != nil {
			m.transcript = m.svc.Orch.Messages()
			m.refreshViewport()
			if prompt := m.svc.Panel.ArtPrompt(); prompt != "" {
				m.textarea.SetValue("/art " + prompt)
			}
		}
		return m, nil

	case audioMsg:
		cmds := []tea.Cmd{m.waitForAudio()}
		if m.svc != nil && !m.isLoading {
			m.isLoading = true
			cmds = append(cmds, m.spinner.Tick, m.sendTurn(mentorchat.TurnInput{
				AudioData: msg.data,
				AudioMIME: msg.mimeType,
			}))
		}
		return m, tea.Batch(cmds...)

	case authAlertMsg:
		m.statusLine = string(msg)
		return m, m.waitForAuthAlert()

	case avatarTick:
		if m.svc != nil {
			m.avatar = m.svc.Voice.Update(false, m.isLoading)
		}
		return m, m.avatarTimer()

	case codeRunDoneMsg:
		return m.handleCodeRunDone(msg)

	case artDoneMsg:
		return m.handleArtDone(msg)

	case spinner.TickMsg:
		if m.isLoading || m.isBooting {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

// handleSubmit processes the textarea content as a command, onboarding
// answer or chat turn.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" || m.svc == nil || m.isLoading {
		return m, nil
	}
	m.textarea.Reset()

	switch m.inputMode {
	case InputModeOnboardName:
		return m.handleOnboardName(input)
	case InputModeOnboardStyle:
		return m.handleOnboardStyle(input)
	}

	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	in := mentorchat.TurnInput{Text: input, FilePath: m.pendingFile}
	m.pendingFile = ""
	m.isLoading = true
	m.statusLine = ""
	return m, tea.Batch(m.spinner.Tick, m.sendTurn(in))
}

func (m Model) handleOnboardName(input string) (tea.Model, tea.Cmd) {
	m.onboardName = input
	m.inputMode = InputModeOnboardStyle
	m.statusLine = fmt.Sprintf("Nice to meet you, %s. How do you learn best? (visual, auditory, reading/writing, kinesthetic)", input)
	return m, nil
}

func (m Model) handleOnboardStyle(input string) (tea.Model, tea.Cmd) {
	style := parseLearningStyle(input)
	prof := profile.New(m.onboardName, style)
	if err := m.svc.Store.SaveProfile(prof); err != nil {
		m.statusLine = "Failed to save your profile: " + err.Error()
		return m, nil
	}
	m.svc.Profile = prof
	m.svc.Orch.SetProfile(prof)
	m.inputMode = InputModeNormal
	m.statusLine = fmt.Sprintf("All set, %s. Your mentors will adapt to your %s style.", prof.Name, prof.LearningStyle)
	return m, nil
}

func parseLearningStyle(input string) profile.LearningStyle {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "visual", "v":
		return profile.StyleVisual
	case "auditory", "audio", "a":
		return profile.StyleAuditory
	case "reading", "writing", "reading/writing", "r", "rw":
		return profile.StyleReadWrite
	case "kinesthetic", "k":
		return profile.StyleKinesthetic
	default:
		return profile.StyleVisual
	}
}

func (m Model) switchMentor(p persona.Persona) (tea.Model, tea.Cmd) {
	m.svc.Voice.PersonaSwitch()
	if err := m.svc.Orch.SwitchPersona(p); err != nil {
		m.statusLine = err.Error()
		return m, nil
	}
	m.transcript = m.svc.Orch.Messages()
	m.statusLine = fmt.Sprintf("Now learning with %s (%s).", p.Name, p.Specialization)
	m.refreshViewport()
	return m, nil
}

func (m Model) toggleVoiceMode() (tea.Model, tea.Cmd) {
	if m.svc == nil {
		return m, nil
	}
	if m.svc.Voice.Toggle() {
		m.statusLine = "Voice mode on. Ctrl+G sends your recording; Ctrl+V exits."
	} else {
		m.statusLine = "Voice mode off."
	}
	return m, nil
}

func (m *Model) resize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 2
	footerHeight := 2
	inputHeight := 5

	chatWidth := msg.Width - 4
	if chatWidth < 1 {
		chatWidth = 1
	}
	calcHeight := msg.Height - headerHeight - footerHeight - inputHeight
	if calcHeight < 1 {
		calcHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(chatWidth, calcHeight)
		m.ready = true
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = calcHeight
	}
	m.textarea.SetWidth(chatWidth - 4)
	m.list.SetSize(msg.Width, msg.Height-headerHeight)

	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(chatWidth-4),
	)
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) shutdown() {
	if m.svc != nil {
		m.svc.Shutdown()
		m.svc = nil
	}
}

// Run starts the interactive chat program.
func Run(cfg *config.Config, dataDir string) error {
	p := tea.NewProgram(NewModel(cfg, dataDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
