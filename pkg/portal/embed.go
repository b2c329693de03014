package portal

import (
	"errors"
	"fmt"
	"net/url"
)

// DefaultFrameHeight is the inline preview height in pixels.
const DefaultFrameHeight = 700

// ErrNotEmbeddable is returned when a URL cannot be shown in an inline frame.
var ErrNotEmbeddable = errors.New("url cannot be embedded")

// Frame is an inline preview of an app page.
type Frame struct {
	Src    string `json:"src"`
	Height int    `json:"height"`
}

// Embedder turns a URL into an inline frame.
type Embedder interface {
	Embed(rawURL string, height int) (Frame, error)
}

// EmbedderFunc adapts a function to the Embedder interface.
type EmbedderFunc func(rawURL string, height int) (Frame, error)

// Embed calls f.
func (f EmbedderFunc) Embed(rawURL string, height int) (Frame, error) {
	return f(rawURL, height)
}

// FrameEmbedder accepts absolute http(s) URLs with a host.
type FrameEmbedder struct{}

// Embed implements Embedder.
func (FrameEmbedder) Embed(rawURL string, height int) (Frame, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrNotEmbeddable, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Frame{}, fmt.Errorf("%w: scheme %q", ErrNotEmbeddable, u.Scheme)
	}
	if u.Host == "" {
		return Frame{}, fmt.Errorf("%w: missing host", ErrNotEmbeddable)
	}
	if height <= 0 {
		height = DefaultFrameHeight
	}
	return Frame{Src: u.String(), Height: height}, nil
}
