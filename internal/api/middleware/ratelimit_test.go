package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Caltsic/AIourstory-sub001/internal/api/middleware"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimit(t *testing.T) {
	handler := middleware.RateLimit(rate.Limit(1), 3)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	do := func(remoteAddr, path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of 3 passes, the 4th is limited.
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do("10.0.0.1:1234", "/v1/auth/login"))
	}
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1234", "/v1/auth/login"))

	// Separate buckets per IP and per path.
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234", "/v1/auth/login"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234", "/v1/auth/register"))
}
