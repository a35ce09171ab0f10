package httputil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"doc-assistant/internal/app"
	"doc-assistant/internal/criteria"
	"doc-assistant/internal/llm"
	"doc-assistant/internal/loader"
	"doc-assistant/internal/pipeline"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid range", fmt.Errorf("a.pdf: %w", loader.ErrInvalidRange), http.StatusBadRequest},
		{"empty input", loader.ErrEmptyInput, http.StatusBadRequest},
		{"unsupported type", loader.ErrUnsupportedType, http.StatusBadRequest},
		{"invalid request", pipeline.ErrInvalidRequest, http.StatusBadRequest},
		{"unknown criterion", criteria.ErrUnknownCriterion, http.StatusBadRequest},
		{"upstream", &llm.UpstreamError{Model: "m", Err: errors.New("refused")}, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Explanation string `validate:"required"`
	}
	err := Validator.Struct(payload{})

	w := httptest.NewRecorder()
	ValidationError(discard, w, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Explanation failed required")
}

func TestRecoverer(t *testing.T) {
	r := NewRouter(discard, time.Second)
	r.Get("/panic", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]any{"ok": true})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
}

func TestHealthHandler(t *testing.T) {
	t.Run("store reachable", func(t *testing.T) {
		deps := app.Deps{Log: discard, Criteria: criteria.NewMemoryStore()}

		w := httptest.NewRecorder()
		HealthHandler(deps)(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("store down", func(t *testing.T) {
		st := new(criteria.MockStore)
		st.On("List", mock.Anything).Return([]criteria.Entry(nil), errors.New("connection refused"))
		deps := app.Deps{Log: discard, Criteria: st}

		w := httptest.NewRecorder()
		HealthHandler(deps)(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		st.AssertExpectations(t)
	})
}
