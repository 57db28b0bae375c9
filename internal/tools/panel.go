package tools

import (
	"sync"

	"mentorlab/internal/logging"
)

// Tool ids mentors reference in [TOOL:] directives.
const (
	ToolCodeEditor        = "code-editor"
	ToolPixelArtGenerator = "pixel-art-generator"
	ToolSmartPhysicsLab   = "smart-physics-lab"
)

var toolNames = map[string]string{
	ToolCodeEditor:        "Code Editor",
	ToolPixelArtGenerator: "Pixel Art Generator",
	ToolSmartPhysicsLab:   "Smart Physics Lab",
}

// Panel tracks which interactive tool is open and the art prompt a mentor
// suggested for it. One tool is active at a time.
type Panel struct {
	mu        sync.Mutex
	active    string
	artPrompt string
}

// NewPanel returns a closed panel.
func NewPanel() *Panel { return &Panel{} }

// Activate opens the named tool. Unknown tool ids are ignored so a
// malformed directive cannot wedge the panel.
func (p *Panel) Activate(toolID string) bool {
	if _, ok := toolNames[toolID]; !ok {
		logging.Tools("ignoring unknown tool id %q", toolID)
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = toolID
	logging.Tools("tool activated: %s", toolID)
	return true
}

// SetArtPrompt stores a mentor-suggested starting prompt for the art tool.
func (p *Panel) SetArtPrompt(prompt string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.artPrompt = prompt
}

// ArtPrompt returns the suggested art prompt, consuming it.
func (p *Panel) ArtPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	prompt := p.artPrompt
	p.artPrompt = ""
	return prompt
}

// Active returns the open tool's id, or "" when closed.
func (p *Panel) Active() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// ActiveName returns the display name of the open tool.
func (p *Panel) ActiveName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return toolNames[p.active]
}

// Close closes the panel.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = ""
	p.artPrompt = ""
}
