// Package render prepares model output for display.
package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// StripThinking removes the <think>...</think> reasoning blocks emitted by
// reasoning models such as deepseek-r1.
func StripThinking(text string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(text, ""))
}

// HTML converts a markdown result to HTML.
func HTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Options selects how results are presented.
type Options struct {
	ShowThinking bool
	HTML         bool
}

// Results applies opts to every result, preserving order.
func Results(results []string, opts Options) ([]string, error) {
	out := make([]string, len(results))
	for i, r := range results {
		if !opts.ShowThinking {
			r = StripThinking(r)
		}
		if opts.HTML {
			html, err := HTML(r)
			if err != nil {
				return nil, err
			}
			r = html
		}
		out[i] = r
	}
	return out, nil
}
