// Package transcribe converts voice notes into plain text. The core
// never touches audio beyond handing a file path to a Transcriber.
package transcribe

import "context"

// Transcriber produces a plain transcript from an audio file on disk.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
