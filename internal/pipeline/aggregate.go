package pipeline

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"doc-assistant/internal/chunker"
	"doc-assistant/internal/llm"
	"doc-assistant/internal/loader"
	"doc-assistant/internal/prompt"
)

// run holds the per-request state of one aggregation.
type run struct {
	*Pipeline
	req      Request
	settings llm.Settings
	id       uuid.UUID
	calls    atomic.Int64
}

// summarize stuffs every selected page into one prompt. When that exceeds the
// chunk budget, pages are packed into chunks, each chunk is summarized and the
// partial summaries are reduced into one.
func (r *run) summarize(ctx context.Context, docs []loader.Document) ([]string, error) {
	var pages []string
	for _, d := range docs {
		for _, pg := range d.Pages {
			pages = append(pages, pg.Text)
		}
	}
	stuffed := stuff(docs)

	if r.opts.ChunkWords <= 0 || chunker.WordCount(stuffed) <= r.opts.ChunkWords {
		text, err := r.complete(ctx, "map", prompt.Summarize(r.req.CriteriaText, stuffed))
		if err != nil {
			return nil, err
		}
		return []string{text}, nil
	}

	chunks := chunker.Pack(pages, chunker.Options{MaxWords: r.opts.ChunkWords, Overlap: r.opts.ChunkOverlap})
	prompts := make([]string, len(chunks))
	for i, c := range chunks {
		prompts[i] = prompt.Summarize(r.req.CriteriaText, c.Text)
	}
	partials, err := r.mapAll(ctx, prompts)
	if err != nil {
		return nil, err
	}

	if !r.needsReduce(partials) {
		return []string{strings.Join(partials, "\n\n")}, nil
	}
	final, err := r.complete(ctx, "reduce", prompt.SummaryReduce(r.req.CriteriaText, partials))
	if err != nil {
		return nil, err
	}
	return []string{final}, nil
}

// query asks every document independently and, when there is more than one
// answer to merge, appends a consolidated answer.
func (r *run) query(ctx context.Context, docs []loader.Document) ([]string, error) {
	prompts := make([]string, len(docs))
	for i, d := range docs {
		prompts[i] = prompt.Query(r.req.Query, r.req.CriteriaText, d.Text())
	}
	answers, err := r.mapAll(ctx, prompts)
	if err != nil {
		return nil, err
	}

	if !r.needsReduce(answers) {
		return answers, nil
	}
	final, err := r.complete(ctx, "reduce", prompt.QueryReduce(r.req.Query, answers))
	if err != nil {
		return nil, err
	}
	return append(answers, final), nil
}

// mapAll issues one call per prompt with bounded concurrency. Results keep
// prompt order. The first failure cancels outstanding calls.
func (r *run) mapAll(ctx context.Context, prompts []string) ([]string, error) {
	results := make([]string, len(prompts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MapConcurrency)
	for i, p := range prompts {
		g.Go(func() error {
			text, err := r.complete(gctx, "map", p)
			if err != nil {
				return err
			}
			results[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *run) needsReduce(partials []string) bool {
	if len(partials) < 2 {
		return false
	}
	total := 0
	for _, p := range partials {
		total += len(p)
	}
	return total > r.opts.ReduceThreshold
}

func (r *run) complete(ctx context.Context, phase, p string) (string, error) {
	start := time.Now()
	r.calls.Add(1)
	text, err := r.llm.Complete(ctx, p, r.settings)
	if err != nil {
		return "", err
	}
	r.log.Debug("llm call finished",
		"run_id", r.id,
		"phase", phase,
		"prompt_chars", len(p),
		"completion_chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// stuff concatenates all documents for a single-prompt summary.
func stuff(docs []loader.Document) string {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text()
	}
	return strings.Join(texts, "\n\n")
}
