package gemini

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrorKind classifies a failed backend operation. The set is closed: every
// failure surfaced to the conversation maps to exactly one kind.
type ErrorKind int

const (
	// KindConfiguration: client not usable (missing API key, bad setup).
	KindConfiguration ErrorKind = iota
	// KindAuthentication: key rejected or lacking permission.
	KindAuthentication
	// KindQuota: rate/quota exhaustion.
	KindQuota
	// KindNetwork: transport-level connectivity failure.
	KindNetwork
	// KindModel: requested model unknown or unavailable.
	KindModel
	// KindPayload: request content rejected (bad encoding, MIME mismatch).
	KindPayload
	// KindLocalIO: local failure before any network call (file read,
	// storage). Never produced by Classify; constructed at the call site.
	KindLocalIO
)

// String returns the kind name used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuthentication:
		return "authentication"
	case KindQuota:
		return "quota"
	case KindNetwork:
		return "network"
	case KindModel:
		return "model"
	case KindPayload:
		return "payload"
	case KindLocalIO:
		return "local_io"
	default:
		return "unknown"
	}
}

// Error is a classified backend failure. Message is user-facing; Err is the
// underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsAuthOrConfig reports whether the error should halt further turns and
// notify auth-failure observers.
func (e *Error) IsAuthOrConfig() bool {
	return e.Kind == KindAuthentication || e.Kind == KindConfiguration
}

// LocalIOError wraps a local failure that occurred before any network
// traffic.
func LocalIOError(message string, err error) *Error {
	return &Error{Kind: KindLocalIO, Message: message, Err: err}
}

// Context distinguishes chat and image operations in user-facing messages.
type Context string

const (
	ContextChat  Context = "chat"
	ContextImage Context = "image"
)

func (c Context) service() string {
	if c == ContextImage {
		return "Image Generation (Imagen)"
	}
	return "Chat (Gemini)"
}

// Classify maps a backend error into the closed taxonomy. Classification
// prefers API status codes, falling back to message-substring matching for
// wrapped transport errors.
func Classify(err error, ctx Context, model string) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	msg := strings.ToLower(err.Error())

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return authError(err, ctx)
		case 429:
			return quotaError(err, ctx)
		case 404:
			return modelError(err, ctx, model)
		case 400:
			if strings.Contains(msg, "api key") {
				return authError(err, ctx)
			}
			return &Error{
				Kind:    KindPayload,
				Message: "There was an issue with the uploaded data. It might not be correctly encoded or the MIME type is mismatched.",
				Err:     err,
			}
		}
	}

	switch {
	case strings.Contains(msg, "api key not valid"),
		strings.Contains(msg, "api_key_invalid"),
		strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "unauthenticated"):
		return authError(err, ctx)
	case strings.Contains(msg, "quota"),
		strings.Contains(msg, "resource has been exhausted"),
		strings.Contains(msg, "resource_exhausted"):
		return quotaError(err, ctx)
	case strings.Contains(msg, "network"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "fetch failed"),
		strings.Contains(msg, "deadline exceeded"),
		strings.Contains(msg, "timeout"):
		return &Error{
			Kind:    KindNetwork,
			Message: fmt.Sprintf("A network error occurred while trying to connect to the %s service. Please check your internet connection.", contextLabel(ctx)),
			Err:     err,
		}
	case strings.Contains(msg, "model") && strings.Contains(msg, "not found"):
		return modelError(err, ctx, model)
	case strings.Contains(msg, "base64"), strings.Contains(msg, "mime"):
		return &Error{
			Kind:    KindPayload,
			Message: "There was an issue with the uploaded data. It might not be correctly encoded or the MIME type is mismatched.",
			Err:     err,
		}
	}

	return &Error{
		Kind:    KindModel,
		Message: fmt.Sprintf("An error occurred with %s: %v", contextLabel(ctx), err),
		Err:     err,
	}
}

func contextLabel(ctx Context) string {
	if ctx == ContextImage {
		return "Imagen"
	}
	return "Gemini"
}

func authError(err error, ctx Context) *Error {
	return &Error{
		Kind: KindAuthentication,
		Message: fmt.Sprintf("Authentication Failed for %s: Your API key is invalid or lacks permissions. "+
			"Please check the GEMINI_API_KEY environment variable and your Google Cloud project settings.", ctx.service()),
		Err: err,
	}
}

func quotaError(err error, ctx Context) *Error {
	return &Error{
		Kind:    KindQuota,
		Message: fmt.Sprintf("You've exceeded your API quota for %s. Please check your Google Cloud billing and quota limits.", contextLabel(ctx)),
		Err:     err,
	}
}

func modelError(err error, ctx Context, model string) *Error {
	return &Error{
		Kind:    KindModel,
		Message: fmt.Sprintf("The specified model for %s was not found. Ensure '%s' is correct and available.", ctx, model),
		Err:     err,
	}
}
