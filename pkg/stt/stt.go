// Package stt turns recorded speech into query text.
package stt

import (
	"context"
	"io"
)

// Transcriber converts an audio clip to text.
type Transcriber interface {
	// Transcribe reads the clip from r. name is the upload filename and
	// lets the service infer the container format.
	Transcribe(ctx context.Context, name string, r io.Reader) (string, error)
}
