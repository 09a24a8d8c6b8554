package port

import "context"

// InvokeInput carries one prompt, optionally paired with an image, for an
// AI provider call. ContentType is set only when ImageData is present.
type InvokeInput struct {
	Prompt      string
	ImageData   []byte
	ContentType string
}

// Provider abstracts a single configured AI backend. Vision providers
// accept an image plus a prompt; analysis providers accept a text-only
// prompt. Both are reached through the same capability: Invoke returns the
// provider's raw textual response, or a typed error from the provider
// package.
type Provider interface {
	Name() string
	Model() string
	Invoke(ctx context.Context, input InvokeInput) (string, error)
}
