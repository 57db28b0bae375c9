package chat

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	mentorchat "mentorlab/internal/chat"
	"mentorlab/internal/config"
	"mentorlab/internal/gemini"
	"mentorlab/internal/logging"
	"mentorlab/internal/persona"
	"mentorlab/internal/profile"
	"mentorlab/internal/store"
	"mentorlab/internal/tools"
	"mentorlab/internal/voice"

	tea "github.com/charmbracelet/bubbletea"
)

// Services holds the initialized backend components of a chat session.
type Services struct {
	Config  *config.Config
	Store   *store.SQLiteStore
	Client  *gemini.Client
	Voice   *voice.Controller
	Panel   *tools.Panel
	Runner  *tools.CodeRunner
	Orch    *mentorchat.Orchestrator
	Watcher *config.Watcher

	Profile *profile.UserProfile

	notifier      *gemini.AuthNotifier
	watcherCancel context.CancelFunc
	authSubID     int
}

type capturedAudio struct {
	data     []byte
	mimeType string
}

type bootCompleteMsg struct {
	services *Services
	err      error
}

// performBoot initializes the backend off the UI thread: storage and the
// AI client come up concurrently, then the voice, tool and orchestration
// layers are wired on top.
func performBoot(cfg *config.Config, dataDir string, audioCh chan capturedAudio, authCh chan string) tea.Cmd {
	return func() tea.Msg {
		svc, err := buildServices(cfg, dataDir, audioCh, authCh)
		return bootCompleteMsg{services: svc, err: err}
	}
}

func buildServices(cfg *config.Config, dataDir string, audioCh chan capturedAudio, authCh chan string) (*Services, error) {
	logging.Boot("chat session boot: data dir %s", dataDir)

	notifier := gemini.NewAuthNotifier()
	svc := &Services{Config: cfg, notifier: notifier}
	svc.authSubID = notifier.Register(func(message string) {
		select {
		case authCh <- message:
		default:
		}
	})

	var (
		g      errgroup.Group
		repo   *store.SQLiteStore
		prof   *profile.UserProfile
		client *gemini.Client
	)

	g.Go(func() error {
		var err error
		repo, err = store.Open(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open repository: %w", err)
		}
		prof, err = repo.LoadProfile()
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		client, err = gemini.NewClient(context.Background(), cfg, notifier)
		return err
	})

	if err := g.Wait(); err != nil {
		if repo != nil {
			repo.Close()
		}
		return nil, err
	}

	svc.Store = repo
	svc.Client = client
	svc.Profile = prof

	svc.Voice = voice.NewController(
		voice.NewCommandSpeaker(""),
		voice.NewCommandRecorder(""),
		cfg.Voice.VoiceID,
		func(data []byte, mimeType string) {
			select {
			case audioCh <- capturedAudio{data: data, mimeType: mimeType}:
			default:
				logging.Voice("dropping capture: a turn is already queued")
			}
		},
	)

	svc.Panel = tools.NewPanel()
	svc.Runner = tools.NewCodeRunner()

	svc.Orch = mentorchat.NewOrchestrator(client, repo, svc.Voice, svc.Panel, cfg.Tools.MaxInlineTextBytes)
	svc.Orch.SetProfile(prof)
	svc.Orch.SetAutoplay(cfg.Voice.Autoplay)
	if err := svc.Orch.SwitchPersona(persona.Default()); err != nil {
		repo.Close()
		return nil, err
	}

	// Hot-reload of logging categories while the session runs.
	if w, err := config.NewWatcher(dataDir, func() {
		if err := logging.ReloadConfig(); err != nil {
			logging.Boot("logging reload failed: %v", err)
		}
	}); err == nil {
		ctx, cancel := context.WithCancel(context.Background())
		if err := w.Start(ctx); err == nil {
			svc.Watcher = w
			svc.watcherCancel = cancel
		} else {
			cancel()
		}
	}

	logging.Boot("chat session ready (model %s)", cfg.Gemini.ChatModel)
	return svc, nil
}

// Shutdown releases the session's resources. Safe to call with a partially
// built service set.
func (s *Services) Shutdown() {
	if s == nil {
		return
	}
	if s.Voice != nil {
		s.Voice.CancelSpeech()
	}
	if s.watcherCancel != nil {
		s.watcherCancel()
	}
	if s.Watcher != nil {
		s.Watcher.Stop()
	}
	if s.notifier != nil {
		s.notifier.Deregister(s.authSubID)
	}
	if s.Store != nil {
		s.Store.Close()
	}
	logging.CloseAll()
}

// ArtDir is where generated pixel art is saved.
func ArtDir(dataDir string) string {
	return filepath.Join(dataDir, "art")
}
