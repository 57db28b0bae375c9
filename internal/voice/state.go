// Package voice implements voice turn-taking: the avatar state machine,
// speech synthesis with voice selection, audio capture, and the
// interactive-mode controller that loops listening after the mentor
// finishes speaking.
package voice

// AvatarState is the presentation state of the voice avatar.
type AvatarState string

const (
	StateIdle           AvatarState = "idle"
	StateListening      AvatarState = "listening"
	StateUserProcessing AvatarState = "userProcessing"
	StateAIProcessing   AvatarState = "aiProcessing"
	StateSpeaking       AvatarState = "speaking"
)

// Inputs are the five observable activity flags the avatar state derives
// from.
type Inputs struct {
	VoiceModeActive bool
	Recording       bool
	ProcessingAudio bool
	AILoading       bool
	Speaking        bool
}

// Derive maps activity flags to the avatar state. The mapping is a pure
// priority function: recording beats audio processing beats AI loading
// beats speaking. Voice mode off forces idle regardless of activity.
func Derive(in Inputs) AvatarState {
	if !in.VoiceModeActive {
		return StateIdle
	}
	switch {
	case in.Recording:
		return StateListening
	case in.ProcessingAudio:
		return StateUserProcessing
	case in.AILoading:
		return StateAIProcessing
	case in.Speaking:
		return StateSpeaking
	default:
		return StateIdle
	}
}
