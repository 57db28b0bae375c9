package gemini

import (
	"context"
	"sync"

	"mentorlab/internal/logging"

	"google.golang.org/genai"
)

// session is one live chat handle plus the parameters that created it.
// A handle is reused only while instruction and search flag both match.
type session struct {
	chat        *genai.Chat
	instruction string
	search      bool
}

// registry holds at most one live session per persona id.
type registry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*session)}
}

// getOrCreate returns the persona's session when its creation parameters
// match, otherwise discards it and creates a fresh one via create.
func (r *registry) getOrCreate(personaID, instruction string, search bool, create func() (*genai.Chat, error)) (*genai.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[personaID]; ok {
		if s.instruction == instruction && s.search == search {
			return s.chat, nil
		}
		// Parameters changed: the old conversation is stale.
		delete(r.sessions, personaID)
		logging.Session("session params changed, recreating: %s", personaID)
	}

	chat, err := create()
	if err != nil {
		return nil, err
	}
	r.sessions[personaID] = &session{chat: chat, instruction: instruction, search: search}
	logging.Session("session created: %s (search=%v)", personaID, search)
	return chat, nil
}

func (r *registry) invalidate(personaID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, personaID)
}

// chatSession resolves the live handle for a persona, creating it with the
// given system instruction and optional search grounding.
func (c *Client) chatSession(ctx context.Context, personaID, instruction string, search bool) (*genai.Chat, error) {
	return c.sessions.getOrCreate(personaID, instruction, search, func() (*genai.Chat, error) {
		cfg := &genai.GenerateContentConfig{}
		if instruction != "" {
			cfg.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: instruction}},
			}
		}
		if search {
			cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
		}
		return c.ai.Chats.Create(ctx, c.chatModel, cfg, nil)
	})
}
