package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"doc-assistant/internal/loader"
	"doc-assistant/internal/llm"
	"doc-assistant/internal/prompt"
)

// ErrInvalidRequest covers malformed run parameters other than page ranges.
var ErrInvalidRequest = errors.New("invalid request")

// Options tunes the map-reduce aggregation.
type Options struct {
	// MapConcurrency bounds concurrent MAP calls; 1 runs them sequentially.
	MapConcurrency int
	// ReduceThreshold is the combined size in characters that partial results
	// must exceed before a REDUCE call is issued. 0 reduces whenever there is
	// more than one partial.
	ReduceThreshold int
	// ChunkWords is the largest summarize input sent in one call; 0 disables chunking.
	ChunkWords   int
	ChunkOverlap int
}

// Request is one run as submitted by the caller.
type Request struct {
	Files        []loader.Upload
	Mode         prompt.Mode
	Query        string
	Range        loader.PageRange
	Model        string
	Temperature  float64
	APIKey       string
	BaseURL      string
	CriteriaText string
}

// Result is the outcome of a successful run.
type Result struct {
	RunID   uuid.UUID
	Prompt  string
	Results []string
	Calls   int
	Elapsed time.Duration
}

// Pipeline loads documents and aggregates per-unit model calls into results.
type Pipeline struct {
	llm  llm.Client
	log  *slog.Logger
	opts Options
}

// New builds a pipeline. Zero MapConcurrency means sequential.
func New(client llm.Client, log *slog.Logger, opts Options) *Pipeline {
	if opts.MapConcurrency <= 0 {
		opts.MapConcurrency = 1
	}
	if opts.ReduceThreshold < 0 {
		opts.ReduceThreshold = 0
	}
	return &Pipeline{llm: client, log: log, opts: opts}
}

// Run executes the request to completion. Any failure aborts the whole run and
// no partial results are returned.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	if err := validate(req); err != nil {
		return Result{}, err
	}

	docs, err := loader.LoadAll(req.Files, req.Range)
	if err != nil {
		return Result{}, err
	}

	r := &run{
		Pipeline: p,
		req:      req,
		settings: llm.Settings{
			Model:       req.Model,
			Temperature: req.Temperature,
			APIKey:      req.APIKey,
			BaseURL:     req.BaseURL,
		},
		id: uuid.New(),
	}
	log := p.log.With("run_id", r.id, "mode", req.Mode, "model", req.Model)
	log.Info("run started", "documents", len(docs))

	var results []string
	switch req.Mode {
	case prompt.ModeSummarize:
		results, err = r.summarize(ctx, docs)
	case prompt.ModeQuery:
		results, err = r.query(ctx, docs)
	}
	if err != nil {
		log.Error("run failed", "err", err, "calls", r.calls.Load(), "duration_ms", time.Since(start).Milliseconds())
		return Result{}, err
	}

	res := Result{
		RunID:   r.id,
		Prompt:  prompt.Preview(req.Mode, req.Query, req.CriteriaText),
		Results: results,
		Calls:   int(r.calls.Load()),
		Elapsed: time.Since(start),
	}
	log.Info("run finished", "results", len(res.Results), "calls", res.Calls, "duration_ms", res.Elapsed.Milliseconds())
	return res, nil
}

func validate(req Request) error {
	if len(req.Files) == 0 {
		return loader.ErrEmptyInput
	}
	if !req.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, req.Mode)
	}
	if req.Mode == prompt.ModeQuery && strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("%w: query required in query mode", ErrInvalidRequest)
	}
	if req.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidRequest)
	}
	if req.Temperature < 0 || req.Temperature > 1 {
		return fmt.Errorf("%w: temperature %.2f outside [0, 1]", ErrInvalidRequest, req.Temperature)
	}
	return nil
}
