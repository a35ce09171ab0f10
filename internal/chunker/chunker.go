package chunker

import (
	"strings"
)

// Options controls how pages are packed into chunks.
type Options struct {
	MaxWords int
	Overlap  int
}

// Chunk is a run of consecutive pages (or a window of one long page) that fits
// a single prompt.
type Chunk struct {
	Index     int
	Text      string
	WordCount int
	FirstPage int // index into the input pages
	LastPage  int
}

const defaultMaxWords = 3000

// WordCount approximates tokens by whitespace-delimited words to avoid heavy dependencies.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Pack groups consecutive pages into chunks of at most MaxWords words. Pages
// keep their boundaries; a page longer than MaxWords is split with a sliding
// window that repeats Overlap words between neighbouring windows. Blank pages
// are dropped.
func Pack(pages []string, opts Options) []Chunk {
	if opts.MaxWords <= 0 {
		opts.MaxWords = defaultMaxWords
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}

	var (
		chunks  []Chunk
		current []string
		words   int
		first   int
	)
	flush := func(last int) {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Index:     len(chunks),
			Text:      strings.Join(current, "\n\n"),
			WordCount: words,
			FirstPage: first,
			LastPage:  last,
		})
		current, words = nil, 0
	}

	for i, page := range pages {
		n := WordCount(page)
		if n == 0 {
			continue
		}
		if n > opts.MaxWords {
			flush(i - 1)
			for _, window := range slide(strings.Fields(page), opts) {
				chunks = append(chunks, Chunk{
					Index:     len(chunks),
					Text:      window,
					WordCount: WordCount(window),
					FirstPage: i,
					LastPage:  i,
				})
			}
			continue
		}
		if words+n > opts.MaxWords {
			flush(i - 1)
		}
		if len(current) == 0 {
			first = i
		}
		current = append(current, page)
		words += n
	}
	flush(len(pages) - 1)
	return chunks
}

// slide performs a token-based sliding window with overlap.
func slide(words []string, opts Options) []string {
	step := opts.MaxWords - opts.Overlap
	if step <= 0 {
		step = opts.MaxWords
	}

	var windows []string
	for start := 0; start < len(words); start += step {
		end := start + opts.MaxWords
		if end > len(words) {
			end = len(words)
		}
		windows = append(windows, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return windows
}
