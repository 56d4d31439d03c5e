package kit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(2, 10*time.Second)
	l.now = func() time.Time { return now }

	_, limited := l.Allow("a")
	require.False(t, limited)
	now = now.Add(4 * time.Second)
	_, limited = l.Allow("a")
	require.False(t, limited)

	wait, limited := l.Allow("a")
	require.True(t, limited)
	assert.Equal(t, 6*time.Second, wait)

	_, limited = l.Allow("b")
	assert.False(t, limited, "keys are independent")

	now = now.Add(6 * time.Second)
	_, limited = l.Allow("a")
	assert.False(t, limited, "first hit left the window")
}

func TestIPRateLimiter_SweepsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, time.Second)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(2 * time.Second)
	l.Allow("b")

	assert.NotContains(t, l.hits, "a")
	assert.Contains(t, l.hits, "b")
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(r))

	r.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(r))
}
