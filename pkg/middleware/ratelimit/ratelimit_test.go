package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	slogdiscard "pathmed-service/pkg/handlers/slogDiscard"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/especialidades", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimit_BurstThenReject(t *testing.T) {
	h := New(slogdiscard.NewDiscardLogger(), 0.001, 2)(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1235"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1:1236"))
}

func TestRateLimit_PerClientBuckets(t *testing.T) {
	h := New(slogdiscard.NewDiscardLogger(), 0.001, 1)(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2:1234"))
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	h := New(slogdiscard.NewDiscardLogger(), 0, 0)(okHandler())

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1:1234"))
	}
}

func TestStore_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	s := newStore(1, 1)
	s.now = func() time.Time { return now }

	s.limiter("10.0.0.1")
	s.limiter("10.0.0.2")
	assert.Len(t, s.clients, 2)

	now = now.Add(idleTTL / 2)
	s.limiter("10.0.0.2")

	now = now.Add(idleTTL / 2)
	s.limiter("10.0.0.3")

	assert.NotContains(t, s.clients, "10.0.0.1")
	assert.Contains(t, s.clients, "10.0.0.2")
	assert.Contains(t, s.clients, "10.0.0.3")
}

func TestRateLimit_IgnoresForwardedHeaders(t *testing.T) {
	h := New(slogdiscard.NewDiscardLogger(), 0.001, 1)(okHandler())

	for i, forwarded := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodGet, "/especialidades", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rr := httptest.NewRecorder()

		h.ServeHTTP(rr, req)

		if i == 0 {
			assert.Equal(t, http.StatusOK, rr.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		}
	}
}
