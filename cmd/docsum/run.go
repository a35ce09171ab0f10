package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"doc-assistant/internal/app"
	"doc-assistant/internal/criteria"
	"doc-assistant/internal/loader"
	"doc-assistant/internal/pipeline"
	"doc-assistant/internal/prompt"
	"doc-assistant/internal/render"
)

type runFlags struct {
	start        int
	end          int
	model        string
	temperature  float64
	criteria     []string
	custom       string
	question     string
	showPrompt   bool
	showThinking bool
}

var (
	heading = color.New(color.FgCyan, color.Bold)
	timing  = color.New(color.FgYellow)
)

func summarizeCmd(build func() (app.Deps, error)) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "summarize <pdf>...",
		Short: "Write a criteria-guided summary of the documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, build, prompt.ModeSummarize, args, f)
		},
	}
	bindRunFlags(cmd, &f)
	return cmd
}

func queryCmd(build func() (app.Deps, error)) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "query <pdf>...",
		Short: "Answer a question from each document and consolidate the answers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, build, prompt.ModeQuery, args, f)
		},
	}
	bindRunFlags(cmd, &f)
	cmd.Flags().StringVarP(&f.question, "question", "q", "What is the data used in this analysis?", "question to answer from the documents")
	return cmd
}

func bindRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().IntVar(&f.start, "start", 0, "first page, zero-based")
	cmd.Flags().IntVar(&f.end, "end", -1, "end page (exclusive); negative counts from the end, -1 is the last page")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model name (default from LLM_MODEL)")
	cmd.Flags().Float64VarP(&f.temperature, "temperature", "t", -1, "sampling temperature in [0, 1] (default from LLM_TEMPERATURE)")
	cmd.Flags().StringSliceVarP(&f.criteria, "criteria", "c", nil, "criteria names to apply (repeatable)")
	cmd.Flags().StringVar(&f.custom, "custom", "", "custom criterion, phrased as a request for an assistant")
	cmd.Flags().BoolVar(&f.showPrompt, "show-prompt", false, "print the prompt instructions")
	cmd.Flags().BoolVar(&f.showThinking, "show-thinking", false, "keep <think> reasoning blocks in the output")
}

func runPipeline(cmd *cobra.Command, build func() (app.Deps, error), mode prompt.Mode, paths []string, f runFlags) error {
	deps, err := build()
	if err != nil {
		return err
	}
	defer deps.Criteria.Close()

	ctx := cmd.Context()
	if deps.Config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deps.Config.RunTimeout)
		defer cancel()
	}

	uploads, err := readFiles(paths)
	if err != nil {
		return err
	}

	set, err := criteria.Snapshot(ctx, deps.Criteria)
	if err != nil {
		return err
	}
	criteriaText, err := criteria.Assemble(f.criteria, set, f.custom)
	if err != nil {
		return err
	}

	model := f.model
	if model == "" {
		model = deps.Config.LLMModel
	}
	temperature := f.temperature
	if !cmd.Flags().Changed("temperature") {
		temperature = deps.Config.LLMTemperature
	}

	req := pipeline.Request{
		Files:        uploads,
		Mode:         mode,
		Range:        loader.PageRange{Start: f.start, End: f.end},
		Model:        model,
		Temperature:  temperature,
		CriteriaText: criteriaText,
	}
	if mode == prompt.ModeQuery {
		req.Query = f.question
	}

	res, err := deps.Pipeline.Run(ctx, req)
	if err != nil {
		return err
	}
	results, err := render.Results(res.Results, render.Options{ShowThinking: f.showThinking})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.showPrompt {
		heading.Fprintln(out, "Prompt")
		fmt.Fprintln(out, res.Prompt)
		fmt.Fprintln(out)
	}
	printResults(out, results)
	timing.Fprintf(out, "Time taken: %.2f seconds\n", res.Elapsed.Seconds())
	return nil
}

func printResults(out io.Writer, results []string) {
	heading.Fprintln(out, "Result")
	for _, r := range results {
		fmt.Fprintln(out, r)
		fmt.Fprintln(out)
	}
}

func readFiles(paths []string) ([]loader.Upload, error) {
	uploads := make([]loader.Upload, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		contentType, err := loader.DetectContentType(p, "")
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, loader.Upload{
			Filename:    filepath.Base(p),
			ContentType: contentType,
			Content:     content,
		})
	}
	return uploads, nil
}
