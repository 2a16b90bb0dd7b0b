// Package stream defines the message-stream collaborator the pipeline
// consumes: an ordered feed of raw alert texts with monotonically increasing
// identifiers.
package stream

import (
	"context"
	"errors"
)

// ErrUnreachable marks connectivity-level failures. The pipeline treats
// these as recoverable by its outer process loop, not by any retry of its
// own.
var ErrUnreachable = errors.New("stream unreachable")

// Message is one raw alert. IDs increase monotonically within a channel.
type Message struct {
	ID   int64
	Text string
}

// Stream delivers the most recent messages, newest first. Callers track the
// highest ID they have consumed and process strictly greater IDs
// oldest-first.
type Stream interface {
	FetchRecent(ctx context.Context, limit int) ([]Message, error)
}
