package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lawnchairsociety/questkeeper/internal/config"
)

func TestConnLimiter_PerIPLimit(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 2, MaxTotal: 100})

	assert.True(t, limiter.TryAcquire("192.168.1.1"))
	assert.True(t, limiter.TryAcquire("192.168.1.1"))
	assert.False(t, limiter.TryAcquire("192.168.1.1"), "third connection from same IP")
	assert.True(t, limiter.TryAcquire("192.168.1.2"), "different IP")

	limiter.Release("192.168.1.1")
	assert.True(t, limiter.TryAcquire("192.168.1.1"), "allowed after release")
}

func TestConnLimiter_TotalLimit(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 3})

	assert.True(t, limiter.TryAcquire("192.168.1.1"))
	assert.True(t, limiter.TryAcquire("192.168.1.2"))
	assert.True(t, limiter.TryAcquire("192.168.1.3"))
	assert.False(t, limiter.TryAcquire("192.168.1.4"), "total limit reached")

	limiter.Release("192.168.1.1")
	assert.True(t, limiter.TryAcquire("192.168.1.4"))
}

func TestConnLimiter_Unlimited(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{})

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.TryAcquire("192.168.1.1"), "connection %d", i)
	}
}

func TestConnLimiter_ExtraReleaseIgnored(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 1, MaxTotal: 1})

	limiter.Release("10.0.0.1")
	assert.Equal(t, ConnStats{}, limiter.Stats())

	assert.True(t, limiter.TryAcquire("10.0.0.1"))
	limiter.Release("10.0.0.2")
	assert.False(t, limiter.TryAcquire("10.0.0.3"), "stray release must not free a slot")
}

func TestConnLimiter_Stats(t *testing.T) {
	limiter := NewConnLimiter(config.ConnectionsConfig{MaxPerIP: 10, MaxTotal: 100})

	limiter.TryAcquire("192.168.1.1")
	limiter.TryAcquire("192.168.1.1")
	limiter.TryAcquire("192.168.1.2")

	assert.Equal(t, ConnStats{Total: 3, UniqueIPs: 2}, limiter.Stats())
	assert.Equal(t, 2, limiter.IPCount("192.168.1.1"))
	assert.Equal(t, 1, limiter.IPCount("192.168.1.2"))
	assert.Equal(t, 0, limiter.IPCount("192.168.1.3"))
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"192.168.1.1:12345", "192.168.1.1"},
		{"[::1]:12345", "::1"},
		{"localhost:4000", "localhost"},
		{"192.168.1.1", "192.168.1.1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, extractIP(tt.input), tt.input)
	}
}

func TestGetRealIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		expected   string
	}{
		{"X-Forwarded-For single IP", "203.0.113.50", "", "10.0.0.1:12345", "203.0.113.50"},
		{"X-Forwarded-For multiple IPs", "203.0.113.50, 70.41.3.18", "", "10.0.0.1:12345", "203.0.113.50"},
		{"X-Real-IP", "", "203.0.113.50", "10.0.0.1:12345", "203.0.113.50"},
		{"X-Forwarded-For wins", "203.0.113.50", "198.51.100.25", "10.0.0.1:12345", "203.0.113.50"},
		{"blank X-Forwarded-For entry", " , 70.41.3.18", "", "192.168.1.100:54321", "192.168.1.100"},
		{"no headers", "", "", "192.168.1.100:54321", "192.168.1.100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &http.Request{RemoteAddr: tt.remoteAddr, Header: make(http.Header)}
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.expected, getRealIP(req))
		})
	}
}
