// Package gemini wraps the Google GenAI SDK: per-persona chat sessions,
// streamed turns with grounding sources, Imagen pixel-art generation and a
// closed error taxonomy. No operation here retries; a failed turn surfaces
// exactly one classified error.
package gemini

import (
	"context"
	"fmt"

	"mentorlab/internal/config"
	"mentorlab/internal/logging"

	"google.golang.org/genai"
)

// Part is one unit of an outbound turn: either literal text or an inline
// blob (image bytes, captured audio).
type Part struct {
	Text       string
	InlineMIME string
	InlineData []byte
}

// TextPart builds a literal text part.
func TextPart(text string) Part { return Part{Text: text} }

// BlobPart builds an inline data part.
func BlobPart(mimeType string, data []byte) Part {
	return Part{InlineMIME: mimeType, InlineData: data}
}

// Source is a grounding citation from search-enabled turns.
type Source struct {
	URI   string
	Title string
}

// Client owns the SDK connection and the per-persona session registry.
type Client struct {
	ai         *genai.Client
	chatModel  string
	imageModel string
	sessions   *registry
	auth       *AuthNotifier
}

// NewClient connects to the Gemini API. The API key must be present; a
// missing key is a configuration error reported through the notifier so the
// UI can surface it before the first turn.
func NewClient(ctx context.Context, cfg *config.Config, notifier *AuthNotifier) (*Client, error) {
	if notifier == nil {
		notifier = NewAuthNotifier()
	}
	if cfg.Gemini.APIKey == "" {
		msg := "API Key Missing: The GEMINI_API_KEY environment variable is not set."
		notifier.Notify(msg)
		return nil, &Error{Kind: KindConfiguration, Message: msg}
	}

	ai, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		msg := "Google Client Initialization Failed: Could not connect. Check API Key or network."
		notifier.Notify(msg)
		return nil, &Error{Kind: KindConfiguration, Message: msg, Err: err}
	}

	logging.Boot("gemini client ready (chat=%s image=%s)", cfg.Gemini.ChatModel, cfg.Gemini.ImageModel)
	return &Client{
		ai:         ai,
		chatModel:  cfg.Gemini.ChatModel,
		imageModel: cfg.Gemini.ImageModel,
		sessions:   newRegistry(),
		auth:       notifier,
	}, nil
}

// Notifier returns the auth-failure notifier shared with this client.
func (c *Client) Notifier() *AuthNotifier { return c.auth }

// Invalidate drops the persona's session and its recorded parameters. The
// next turn for that persona starts a fresh conversation.
func (c *Client) Invalidate(personaID string) {
	c.sessions.invalidate(personaID)
	logging.Session("session invalidated: %s", personaID)
}

// reportIfAuth pushes authentication/configuration failures to observers.
func (c *Client) reportIfAuth(err *Error) {
	if err.IsAuthOrConfig() {
		c.auth.Notify(err.Message)
	}
}

func toGenaiParts(parts []Part) ([]genai.Part, error) {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		switch {
		case p.InlineData != nil:
			out = append(out, genai.Part{
				InlineData: &genai.Blob{MIMEType: p.InlineMIME, Data: p.InlineData},
			})
		default:
			out = append(out, genai.Part{Text: p.Text})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty turn")
	}
	return out, nil
}

func extractSources(resp *genai.GenerateContentResponse) []Source {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	gm := resp.Candidates[0].GroundingMetadata
	if gm == nil {
		return nil
	}
	var out []Source
	for _, gc := range gm.GroundingChunks {
		var uri, title string
		switch {
		case gc.Web != nil:
			uri, title = gc.Web.URI, gc.Web.Title
		case gc.RetrievedContext != nil:
			uri, title = gc.RetrievedContext.URI, gc.RetrievedContext.Title
		}
		if uri == "" {
			continue
		}
		if title == "" {
			title = uri
		}
		out = append(out, Source{URI: uri, Title: title})
	}
	return out
}
