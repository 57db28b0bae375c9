package gemini

import (
	"context"

	"mentorlab/internal/logging"
)

// Chunk is one streamed fragment of an AI turn. Exactly one of the
// following holds: Err is set (terminal), or Text/Sources carry data.
// Chunks with neither text nor sources are never emitted.
type Chunk struct {
	Text    string
	Sources []Source
	Err     *Error
}

// StreamTurn sends one turn on the persona's session and returns a channel
// of response chunks. The channel closes when the stream ends; on failure
// the last chunk before close carries the classified error. Once started, a
// turn runs to completion or error - it is not cancellable mid-flight.
func (c *Client) StreamTurn(ctx context.Context, personaID, instruction string, search bool, parts []Part) <-chan Chunk {
	out := make(chan Chunk)

	go func() {
		defer close(out)

		gparts, err := toGenaiParts(parts)
		if err != nil {
			out <- Chunk{Err: &Error{Kind: KindPayload, Message: "Nothing to send.", Err: err}}
			return
		}

		chat, err := c.chatSession(ctx, personaID, instruction, search)
		if err != nil {
			ce := Classify(err, ContextChat, c.chatModel)
			c.reportIfAuth(ce)
			logging.APIError("session create failed for %s: %v", personaID, ce)
			out <- Chunk{Err: ce}
			return
		}

		timer := logging.StartTimer(logging.CategoryAPI, "stream turn")
		defer timer.Stop()

		for resp, err := range chat.SendMessageStream(ctx, gparts...) {
			if err != nil {
				ce := Classify(err, ContextChat, c.chatModel)
				c.reportIfAuth(ce)
				logging.APIError("stream failed for %s: %v", personaID, ce)
				out <- Chunk{Err: ce}
				return
			}
			ch := Chunk{Text: resp.Text(), Sources: extractSources(resp)}
			if ch.Text == "" && len(ch.Sources) == 0 {
				continue
			}
			out <- ch
		}
	}()

	return out
}

// SendMessage sends one non-streamed turn on the persona's session. Used by
// auxiliary commands that want a single response without incremental
// display.
func (c *Client) SendMessage(ctx context.Context, personaID, instruction string, search bool, parts []Part) (string, []Source, error) {
	gparts, err := toGenaiParts(parts)
	if err != nil {
		return "", nil, &Error{Kind: KindPayload, Message: "Nothing to send.", Err: err}
	}

	chat, err := c.chatSession(ctx, personaID, instruction, search)
	if err != nil {
		ce := Classify(err, ContextChat, c.chatModel)
		c.reportIfAuth(ce)
		return "", nil, ce
	}

	resp, err := chat.SendMessage(ctx, gparts...)
	if err != nil {
		ce := Classify(err, ContextChat, c.chatModel)
		c.reportIfAuth(ce)
		logging.APIError("send failed for %s: %v", personaID, ce)
		return "", nil, ce
	}
	return resp.Text(), extractSources(resp), nil
}
