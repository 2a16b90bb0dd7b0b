// Package replay feeds alert messages from a text file, one message per
// line, for dry runs and demos. Line numbers serve as message IDs, so the
// pipeline's ordering contract holds without a network.
package replay

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"

	"github.com/rustyeddy/signalcopy/stream"
)

type Feed struct {
	mu     sync.Mutex
	msgs   []stream.Message
	cursor int // messages [0:cursor) have been released
}

// Load reads the whole file up front. Blank lines and lines starting with
// '#' are skipped.
func Load(path string) (*Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	feed := &Feed{}
	sc := bufio.NewScanner(f)
	line := int64(0)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		feed.msgs = append(feed.msgs, stream.Message{ID: line, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return feed, nil
}

// FetchRecent releases one more scripted message per call and returns the
// released window newest-first, mimicking a live channel where history
// accumulates.
func (f *Feed) FetchRecent(ctx context.Context, limit int) ([]stream.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cursor < len(f.msgs) {
		f.cursor++
	}

	if limit <= 0 {
		limit = 5
	}
	lo := f.cursor - limit
	if lo < 0 {
		lo = 0
	}
	window := f.msgs[lo:f.cursor]

	out := make([]stream.Message, 0, len(window))
	for i := len(window) - 1; i >= 0; i-- {
		out = append(out, window[i])
	}
	return out, nil
}
