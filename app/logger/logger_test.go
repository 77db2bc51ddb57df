package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("production", &buf, io.Discard)

	l.Debug("hidden")
	l.Info("visible", slog.String("k", "v"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "v", entry["k"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_DevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New("development", &buf, io.Discard)

	l.Debug("debug line")
	assert.Contains(t, buf.String(), "debug line")
}

func TestNew_ErrorsGoToErrOut(t *testing.T) {
	for _, mode := range []string{"production", "development"} {
		t.Run(mode, func(t *testing.T) {
			var out, errOut bytes.Buffer
			l := New(mode, &out, &errOut).With(slog.String("component", "CityRepository"))

			l.Info("Fetched upstream cities")
			l.Warn("Slow upstream")
			l.Error("Error fetching data from upstream", slog.Int("status", http.StatusBadGateway))

			assert.Contains(t, out.String(), "Fetched upstream cities")
			assert.Contains(t, out.String(), "Slow upstream")
			assert.NotContains(t, out.String(), "Error fetching data")

			assert.Contains(t, errOut.String(), "Error fetching data from upstream")
			assert.Contains(t, errOut.String(), "CityRepository")
			assert.NotContains(t, errOut.String(), "Fetched upstream cities")
		})
	}
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	h := middleware.RequestID(StructuredLogger(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cities/count?letter=a", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Request completed", entry["msg"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, float64(len("short and stout")), entry["bytes_written"])
	assert.Equal(t, "/cities/count", entry["path"])
	assert.Equal(t, "letter=a", entry["query"])
	assert.NotEmpty(t, entry["req_id"])
}
