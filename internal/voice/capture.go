package voice

// Recorder captures microphone audio. Start begins a capture; Stop ends it
// and returns the recorded bytes with their MIME type. Stopping an idle
// recorder returns no data and no error.
type Recorder interface {
	Start() error
	Stop() (data []byte, mimeType string, err error)
	Recording() bool
}
