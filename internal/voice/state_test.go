package voice

import "testing"

func TestDerivePriority(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want AvatarState
	}{
		{"mode off forces idle", Inputs{VoiceModeActive: false, Recording: true, Speaking: true}, StateIdle},
		{"recording wins", Inputs{VoiceModeActive: true, Recording: true, ProcessingAudio: true, AILoading: true, Speaking: true}, StateListening},
		{"processing beats loading", Inputs{VoiceModeActive: true, ProcessingAudio: true, AILoading: true, Speaking: true}, StateUserProcessing},
		{"loading beats speaking", Inputs{VoiceModeActive: true, AILoading: true, Speaking: true}, StateAIProcessing},
		{"speaking", Inputs{VoiceModeActive: true, Speaking: true}, StateSpeaking},
		{"quiet active mode is idle", Inputs{VoiceModeActive: true}, StateIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(tt.in); got != tt.want {
				t.Errorf("Derive(%+v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeriveIsPure(t *testing.T) {
	in := Inputs{VoiceModeActive: true, AILoading: true}
	if Derive(in) != Derive(in) {
		t.Error("same inputs must derive the same state")
	}
}
