package voice

import (
	"sync"

	"mentorlab/internal/logging"
)

// AudioFunc receives a completed capture for submission as a chat turn.
type AudioFunc func(data []byte, mimeType string)

// Controller owns interactive voice mode: it toggles capture and synthesis
// together, derives the avatar state, and restarts listening after the
// mentor finishes speaking (the auto-loop).
type Controller struct {
	mu sync.Mutex

	speaker  Speaker
	recorder Recorder
	onAudio  AudioFunc

	preferredVoiceID string
	active           bool
	prevSpeaking     bool
}

// NewController wires a speaker and recorder. onAudio is invoked with each
// completed capture.
func NewController(speaker Speaker, recorder Recorder, preferredVoiceID string, onAudio AudioFunc) *Controller {
	return &Controller{
		speaker:          speaker,
		recorder:         recorder,
		preferredVoiceID: preferredVoiceID,
		onAudio:          onAudio,
	}
}

// Active reports whether interactive voice mode is on.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Toggle flips interactive voice mode. Turning on cancels any ongoing
// speech and starts capture; turning off stops capture (delivering any
// recorded audio) and cancels speech.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	c.active = !c.active
	active := c.active
	c.mu.Unlock()

	if active {
		logging.Voice("interactive voice mode on")
		c.speaker.Cancel()
		if err := c.recorder.Start(); err != nil {
			logging.Voice("capture start failed: %v", err)
		}
	} else {
		logging.Voice("interactive voice mode off")
		c.stopAndDeliver()
		c.speaker.Cancel()
	}
	return active
}

// StopCapture ends the current capture and submits the audio. Used when the
// user explicitly finishes speaking.
func (c *Controller) StopCapture() {
	c.stopAndDeliver()
}

// PersonaSwitch force-exits voice mode and silences any ongoing speech.
// The new persona starts from a quiet state.
func (c *Controller) PersonaSwitch() {
	c.mu.Lock()
	wasActive := c.active
	c.active = false
	c.prevSpeaking = false
	c.mu.Unlock()

	if wasActive && c.recorder.Recording() {
		// Discard: the capture was aimed at the previous persona.
		if _, _, err := c.recorder.Stop(); err != nil {
			logging.Voice("capture stop on persona switch failed: %v", err)
		}
	}
	c.speaker.Cancel()
	logging.Voice("voice mode exited on persona switch")
}

// Speak synthesizes one cleaned utterance with the persona's language and
// gender hint.
func (c *Controller) Speak(messageID, cleanedText, lang, gender string) {
	if cleanedText == "" {
		return
	}
	v := SelectVoice(c.speaker.Voices(), c.preferredVoiceID, lang, gender)
	err := c.speaker.Speak(SpeechRequest{
		MessageID: messageID,
		Text:      cleanedText,
		Language:  lang,
		Gender:    gender,
		Voice:     v,
	})
	if err != nil {
		logging.Voice("tts failed for %s: %v", messageID, err)
	}
}

// CancelSpeech stops any ongoing utterance.
func (c *Controller) CancelSpeech() {
	c.speaker.Cancel()
}

// Update observes the current activity flags, runs the auto-loop, and
// returns the avatar state. Call on every activity change. The auto-loop is
// edge-triggered: capture restarts exactly once per speaking true-to-false
// transition, and only while voice mode is active with no other activity in
// flight.
func (c *Controller) Update(processingAudio, aiLoading bool) AvatarState {
	speaking := c.speaker.Speaking()
	recording := c.recorder.Recording()

	c.mu.Lock()
	active := c.active
	finished := !speaking && c.prevSpeaking
	c.prevSpeaking = speaking
	c.mu.Unlock()

	if active && finished && !recording && !processingAudio && !aiLoading {
		logging.VoiceDebug("auto-loop: restarting capture")
		if err := c.recorder.Start(); err != nil {
			logging.Voice("auto-loop capture start failed: %v", err)
		} else {
			recording = true
		}
	}

	return Derive(Inputs{
		VoiceModeActive: active,
		Recording:       recording,
		ProcessingAudio: processingAudio,
		AILoading:       aiLoading,
		Speaking:        speaking,
	})
}

func (c *Controller) stopAndDeliver() {
	if !c.recorder.Recording() {
		return
	}
	data, mimeType, err := c.recorder.Stop()
	if err != nil {
		logging.Voice("capture stop failed: %v", err)
		return
	}
	if len(data) > 0 && c.onAudio != nil {
		c.onAudio(data, mimeType)
	}
}
