package appMiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowCrossOrigin(t *testing.T) {
	h := AllowCrossOrigin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	for _, method := range []string{http.MethodGet, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, "/cities/count", nil))

			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestAllowCrossOrigin_OverridesEarlierValues(t *testing.T) {
	h := AllowCrossOrigin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	rec.Header().Set("Access-Control-Allow-Methods", "GET")
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/cities/count", nil))

	assert.Equal(t, []string{"GET, OPTIONS"}, rec.Header().Values("Access-Control-Allow-Methods"))
}
