package chat

import "mentorlab/internal/profile"

// Repository is the orchestrator's persistence boundary. Satisfied by
// *store.SQLiteStore. Every mutation is durable before the call returns.
type Repository interface {
	LoadHistory(personaID string) ([]Message, error)
	SaveHistory(personaID string, entries []Message) error
	DeleteHistory(personaID string) error
	LoadProfile() (*profile.UserProfile, error)
	SaveProfile(p *profile.UserProfile) error
	Close() error
}
