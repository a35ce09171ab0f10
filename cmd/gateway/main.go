package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"doc-assistant/internal/app"
	"doc-assistant/internal/criteria"
	"doc-assistant/internal/httputil"
	"doc-assistant/internal/loader"
	"doc-assistant/internal/pipeline"
	"doc-assistant/internal/prompt"
	"doc-assistant/internal/render"
)

type runForm struct {
	Mode         string   `validate:"required,oneof=summarize query"`
	Query        string   `validate:"required_if=Mode query,max=2000"`
	StartPage    int      `validate:"min=0"`
	EndPage      int      // negative counts from the end
	Model        string   `validate:"required"`
	Temperature  float64  `validate:"min=0,max=1"`
	Criteria     []string `validate:"dive,required"`
	Custom       string   `validate:"max=2000"`
	ShowThinking bool     // keep <think> blocks
	Format       string   `validate:"oneof=markdown html"`
}

type putCriterionRequest struct {
	Explanation string `json:"explanation" validate:"required,max=4000"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Criteria.Close()

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("gateway listening", "addr", addr)
	if err := http.ListenAndServe(addr, newRouter(deps)); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log, deps.Config.RunTimeout)

	r.Post("/api/run", runHandler(deps))
	r.Get("/api/models", modelsHandler(deps))
	r.Get("/api/criteria", listCriteriaHandler(deps))
	r.Put("/api/criteria/{name}", putCriterionHandler(deps))
	r.Post("/api/criteria/reset", resetCriteriaHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))
	return r
}

func runHandler(deps app.Deps) http.HandlerFunc {
	maxUploadSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			httputil.Fail(deps.Log, w, fmt.Sprintf("invalid multipart form (max %d bytes)", maxUploadSize), err, http.StatusBadRequest)
			return
		}

		form, err := parseRunForm(r, deps)
		if err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&form); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		if len(deps.Config.LLMModels) > 0 && !slices.Contains(deps.Config.LLMModels, form.Model) {
			httputil.Fail(deps.Log, w, fmt.Sprintf("unsupported model %q", form.Model), nil, http.StatusBadRequest)
			return
		}

		uploads, err := readUploads(r)
		if err != nil {
			httputil.FailRun(deps.Log, w, err)
			return
		}

		set, err := criteria.Snapshot(ctx, deps.Criteria)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to load criteria", err, http.StatusInternalServerError)
			return
		}
		criteriaText, err := criteria.Assemble(form.Criteria, set, form.Custom)
		if err != nil {
			httputil.FailRun(deps.Log, w, err)
			return
		}

		res, err := deps.Pipeline.Run(ctx, pipeline.Request{
			Files:        uploads,
			Mode:         prompt.Mode(form.Mode),
			Query:        form.Query,
			Range:        loader.PageRange{Start: form.StartPage, End: form.EndPage},
			Model:        form.Model,
			Temperature:  form.Temperature,
			CriteriaText: criteriaText,
		})
		if err != nil {
			httputil.FailRun(deps.Log, w, err)
			return
		}

		results, err := render.Results(res.Results, render.Options{
			ShowThinking: form.ShowThinking,
			HTML:         form.Format == "html",
		})
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to render results", err, http.StatusInternalServerError)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"run_id":     res.RunID.String(),
			"prompt":     res.Prompt,
			"results":    results,
			"calls":      res.Calls,
			"elapsed_ms": res.Elapsed.Milliseconds(),
		})
	}
}

// parseRunForm reads the non-file fields, filling defaults from config.
func parseRunForm(r *http.Request, deps app.Deps) (runForm, error) {
	form := runForm{
		Mode:         strings.ToLower(strings.TrimSpace(r.FormValue("mode"))),
		Query:        strings.TrimSpace(r.FormValue("query")),
		EndPage:      -1,
		Model:        r.FormValue("model"),
		Temperature:  deps.Config.LLMTemperature,
		Criteria:     r.MultipartForm.Value["criteria"],
		Custom:       r.FormValue("custom_criteria"),
		ShowThinking: r.FormValue("show_thinking") == "true",
		Format:       r.FormValue("format"),
	}
	if form.Model == "" {
		form.Model = deps.Config.LLMModel
	}
	if form.Format == "" {
		form.Format = "markdown"
	}

	var err error
	if v := r.FormValue("start_page"); v != "" {
		if form.StartPage, err = strconv.Atoi(v); err != nil {
			return runForm{}, fmt.Errorf("start_page must be an integer")
		}
	}
	if v := r.FormValue("end_page"); v != "" {
		if form.EndPage, err = strconv.Atoi(v); err != nil {
			return runForm{}, fmt.Errorf("end_page must be an integer")
		}
	}
	if v := r.FormValue("temperature"); v != "" {
		if form.Temperature, err = strconv.ParseFloat(v, 64); err != nil {
			return runForm{}, fmt.Errorf("temperature must be a number")
		}
	}
	return form, nil
}

func readUploads(r *http.Request) ([]loader.Upload, error) {
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		return nil, loader.ErrEmptyInput
	}
	uploads := make([]loader.Upload, 0, len(headers))
	for _, header := range headers {
		contentType, err := loader.DetectContentType(header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			return nil, err
		}
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", header.Filename, err)
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", header.Filename, err)
		}
		uploads = append(uploads, loader.Upload{
			Filename:    header.Filename,
			ContentType: contentType,
			Content:     content,
		})
	}
	return uploads, nil
}

func modelsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"default":     deps.Config.LLMModel,
			"models":      deps.Config.LLMModels,
			"temperature": deps.Config.LLMTemperature,
		})
	}
}

func listCriteriaHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := deps.Criteria.List(r.Context())
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to list criteria", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"criteria": entries})
	}
}

func putCriterionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}

		var req putCriterionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		entry := criteria.Entry{Name: name, Explanation: req.Explanation}
		if err := deps.Criteria.Put(r.Context(), entry); err != nil {
			if errors.Is(err, criteria.ErrEmptyName) {
				httputil.Fail(deps.Log, w, "criterion name required", err, http.StatusBadRequest)
				return
			}
			httputil.Fail(deps.Log, w, "failed to save criterion", err, http.StatusInternalServerError)
			return
		}
		deps.Log.Info("criterion updated", "name", name)
		httputil.WriteJSON(w, http.StatusOK, entry)
	}
}

func resetCriteriaHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Criteria.Reset(r.Context()); err != nil {
			httputil.Fail(deps.Log, w, "failed to reset criteria", err, http.StatusInternalServerError)
			return
		}
		entries, err := deps.Criteria.List(r.Context())
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to list criteria", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"criteria": entries})
	}
}
