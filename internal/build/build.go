// Package build renders every lesson of a manifest and hands the pages to a
// Sink.
package build

import (
	"context"
	"encoding/hex"
	"log/slog"
	"runtime"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/zellyn/pylearn/internal/curriculum"
	"github.com/zellyn/pylearn/internal/page"
)

// Resolver produces a lesson body and names the strategy that produced it.
type Resolver interface {
	ResolveSource(e curriculum.Entry) (body, source string)
}

// Recorder is told about every attempted lesson.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// Progress is called after each successful write with the running count.
type Progress func(created, total int, id string)

// Options tune GenerateAll. The zero value is usable.
type Options struct {
	// Workers bounds concurrent renders. Zero means runtime.NumCPU().
	Workers  int
	Progress Progress
	Recorder Recorder
	Logger   *slog.Logger
}

// Result is the outcome for one lesson.
type Result struct {
	ID     string
	Path   string
	Source string
	Bytes  int
	Digest string
	Err    error
}

// OK reports whether the page was written.
func (r Result) OK() bool {
	return r.Err == nil
}

// Report summarises a run. Results are in manifest order.
type Report struct {
	Total   int
	Created int
	Results []Result
}

// Failed returns the results whose write did not succeed.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Digest is the hex BLAKE3-256 of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GenerateAll renders one page per manifest entry and writes it to sink.
// A failed write is recorded in that entry's Result and never stops the
// others. The returned error is non-nil only when ctx is cancelled.
func GenerateAll(ctx context.Context, m *curriculum.Manifest, r Resolver, site page.Site, sink Sink, opts Options) (Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	entries := m.Entries()
	sidebar := page.BuildSidebar(m)
	results := make([]Result, len(entries))

	var (
		mu      sync.Mutex
		created int
	)

	var g errgroup.Group
	g.SetLimit(workers)

	for i, e := range entries {
		if ctx.Err() != nil {
			results[i] = Result{ID: e.ID, Err: ctx.Err()}
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{ID: e.ID, Err: err}
				return nil
			}

			body, source := r.ResolveSource(e)
			doc := []byte(site.Compose(e, body, sidebar))
			res := Result{
				ID:     e.ID,
				Source: source,
				Bytes:  len(doc),
				Digest: Digest(doc),
			}
			res.Path, res.Err = sink.Write(e.ID, doc)
			results[i] = res

			if res.Err != nil {
				logger.Warn("Failed to write lesson", "id", e.ID, "error", res.Err)
			} else {
				mu.Lock()
				created++
				n := created
				if opts.Progress != nil {
					opts.Progress(n, len(entries), e.ID)
				}
				mu.Unlock()
			}

			if opts.Recorder != nil {
				if err := opts.Recorder.Record(ctx, res); err != nil {
					logger.Warn("Failed to record lesson", "id", e.ID, "error", err)
				}
			}
			// individual failures are kept in results
			return nil
		})
	}
	g.Wait()

	report := Report{Total: len(entries), Created: created, Results: results}
	return report, ctx.Err()
}
