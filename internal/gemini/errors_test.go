package gemini

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/genai"
)

func TestClassifyByMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"invalid key", errors.New("API key not valid. Please pass a valid API key."), KindAuthentication},
		{"permission", errors.New("permission denied for project"), KindAuthentication},
		{"quota word", errors.New("Quota exceeded for requests"), KindQuota},
		{"resource exhausted", errors.New("resource has been exhausted"), KindQuota},
		{"network", errors.New("network error: dial tcp"), KindNetwork},
		{"connection refused", errors.New("connection refused"), KindNetwork},
		{"dns", errors.New("no such host"), KindNetwork},
		{"timeout", errors.New("context deadline exceeded (timeout)"), KindNetwork},
		{"model missing", errors.New("model gemini-x not found"), KindModel},
		{"bad base64", errors.New("invalid base64 data"), KindPayload},
		{"mime mismatch", errors.New("unsupported MIME type"), KindPayload},
		{"opaque", errors.New("something odd"), KindModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, ContextChat, "gemini-2.5-flash")
			if got.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.err, got.Kind, tt.want)
			}
			if got.Message == "" {
				t.Error("classified error missing user-facing message")
			}
		})
	}
}

func TestClassifyByAPICode(t *testing.T) {
	tests := []struct {
		code int
		want ErrorKind
	}{
		{401, KindAuthentication},
		{403, KindAuthentication},
		{429, KindQuota},
		{404, KindModel},
		{400, KindPayload},
	}
	for _, tt := range tests {
		err := genai.APIError{Code: tt.code, Message: "backend rejected request"}
		got := Classify(err, ContextChat, "gemini-2.5-flash")
		if got.Kind != tt.want {
			t.Errorf("Classify(code=%d).Kind = %v, want %v", tt.code, got.Kind, tt.want)
		}
	}
}

func TestClassifyWrappedAPIError(t *testing.T) {
	err := fmt.Errorf("turn failed: %w", genai.APIError{Code: 429, Message: "slow down"})
	if got := Classify(err, ContextChat, "m").Kind; got != KindQuota {
		t.Errorf("Kind = %v, want KindQuota", got)
	}
}

func TestClassifyPassesThroughClassified(t *testing.T) {
	orig := LocalIOError("could not read file", errors.New("open: no such file"))
	got := Classify(fmt.Errorf("wrapped: %w", orig), ContextChat, "m")
	if got != orig {
		t.Errorf("expected already-classified error returned unchanged")
	}
}

func TestIsAuthOrConfig(t *testing.T) {
	if !(&Error{Kind: KindAuthentication}).IsAuthOrConfig() {
		t.Error("authentication should be auth-or-config")
	}
	if !(&Error{Kind: KindConfiguration}).IsAuthOrConfig() {
		t.Error("configuration should be auth-or-config")
	}
	if (&Error{Kind: KindQuota}).IsAuthOrConfig() {
		t.Error("quota should not be auth-or-config")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	e := &Error{Kind: KindNetwork, Message: "net down", Err: cause}
	if !errors.Is(e, cause) {
		t.Error("Unwrap should expose the cause")
	}
}
