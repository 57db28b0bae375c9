package voice

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"mentorlab/internal/logging"
)

// CommandSpeaker synthesizes speech by piping text to an external TTS
// command (espeak-ng by default). The command receives the language tag via
// -v; voices beyond the language are left to the engine, so Voices returns
// nothing and selection falls through to the platform default.
type CommandSpeaker struct {
	Command string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewCommandSpeaker creates a speaker backed by the named command, or
// espeak-ng when empty.
func NewCommandSpeaker(command string) *CommandSpeaker {
	if command == "" {
		command = "espeak-ng"
	}
	return &CommandSpeaker{Command: command}
}

// Voices returns nil: the engine picks its own voice for the language.
func (s *CommandSpeaker) Voices() []Voice { return nil }

// Speak starts the utterance and returns immediately.
func (s *CommandSpeaker) Speak(req SpeechRequest) error {
	s.Cancel()

	args := []string{"-v", strings.ToLower(req.Language)}
	if req.Voice != nil {
		args = []string{"-v", req.Voice.ID}
	}
	cmd := exec.Command(s.Command, args...)
	cmd.Stdin = strings.NewReader(req.Text)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("tts command failed to start: %w", err)
	}

	s.mu.Lock()
	s.cmd = cmd
	s.mu.Unlock()

	go func() {
		_ = cmd.Wait()
		s.mu.Lock()
		if s.cmd == cmd {
			s.cmd = nil
		}
		s.mu.Unlock()
	}()
	return nil
}

// Cancel kills any in-flight utterance.
func (s *CommandSpeaker) Cancel() {
	s.mu.Lock()
	cmd := s.cmd
	s.cmd = nil
	s.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

// Speaking reports whether an utterance is in progress.
func (s *CommandSpeaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cmd != nil
}

// CommandRecorder captures audio through an external recording command
// (arecord by default) writing WAV to a temp file.
type CommandRecorder struct {
	Command string

	mu   sync.Mutex
	cmd  *exec.Cmd
	path string
}

// NewCommandRecorder creates a recorder backed by the named command, or
// arecord when empty.
func NewCommandRecorder(command string) *CommandRecorder {
	if command == "" {
		command = "arecord"
	}
	return &CommandRecorder{Command: command}
}

// Start begins capturing to a temp file.
func (r *CommandRecorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd != nil {
		return nil
	}

	f, err := os.CreateTemp("", "mentorlab-capture-*.wav")
	if err != nil {
		return fmt.Errorf("capture temp file: %w", err)
	}
	path := f.Name()
	f.Close()

	cmd := exec.Command(r.Command, "-q", "-f", "cd", "-t", "wav", path)
	if err := cmd.Start(); err != nil {
		os.Remove(path)
		return fmt.Errorf("capture command failed to start: %w", err)
	}

	r.cmd = cmd
	r.path = path
	logging.VoiceDebug("capture started: %s", path)
	return nil
}

// Stop ends the capture and returns the recorded bytes.
func (r *CommandRecorder) Stop() ([]byte, string, error) {
	r.mu.Lock()
	cmd, path := r.cmd, r.path
	r.cmd, r.path = nil, ""
	r.mu.Unlock()

	if cmd == nil {
		return nil, "", nil
	}

	if cmd.Process != nil {
		_ = cmd.Process.Signal(os.Interrupt)
	}
	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		_ = cmd.Process.Kill()
		<-done
	}

	data, err := os.ReadFile(path)
	os.Remove(path)
	if err != nil {
		return nil, "", fmt.Errorf("capture read: %w", err)
	}
	return data, "audio/wav", nil
}

// Recording reports whether a capture is in progress.
func (r *CommandRecorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}
