// Package server exposes the quest engine over WebSocket. Each connection is an
// independent session with its own player and quest journal.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/questkeeper/internal/config"
	"github.com/lawnchairsociety/questkeeper/internal/help"
	"github.com/lawnchairsociety/questkeeper/internal/items"
	"github.com/lawnchairsociety/questkeeper/internal/logger"
	"github.com/lawnchairsociety/questkeeper/internal/quest"
)

type Server struct {
	config      *config.EngineConfig
	catalog     *quest.Catalog
	items       *items.ItemsConfig
	help        *help.Help
	sessions    map[string]*Session
	mu          sync.RWMutex
	wg          sync.WaitGroup
	httpServer  *http.Server
	connLimiter *ConnLimiter
	throttle    *CommandThrottle
	StartTime   time.Time

	shutdownOnce sync.Once
}

// NewServer creates a server over a loaded catalog. A nil cfg uses the defaults
// and a nil itemsConfig yields placeholder items.
func NewServer(cfg *config.EngineConfig, catalog *quest.Catalog, itemsConfig *items.ItemsConfig) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if itemsConfig == nil {
		itemsConfig = items.NewItemsConfig()
	}
	return &Server{
		config:      cfg,
		catalog:     catalog,
		items:       itemsConfig,
		sessions:    make(map[string]*Session),
		connLimiter: NewConnLimiter(cfg.Connections),
		throttle:    NewCommandThrottle(cfg.RateLimit),
		StartTime:   time.Now(),
	}
}

// SetHelp replaces the built-in help for sessions created afterwards
func (s *Server) SetHelp(h *help.Help) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.help = h
}

// Handler returns the HTTP handler serving the /ws endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// Start listens on the configured websocket address and blocks until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.WebSocket.Address)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	logger.Info("WebSocket server listening", "address", listener.Addr().String(), "quests", s.catalog.Count())

	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.config.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}

	s.wg.Add(1)
	go s.handleWebSocketConnection(wsConn, clientIP)
}

// handleWebSocketConnection runs a session for an upgraded connection.
func (s *Server) handleWebSocketConnection(wsConn *websocket.Conn, clientIP string) {
	defer s.wg.Done()

	client := NewWebSocketClient(wsConn, s.config.WebSocket.MaxMessageSize)
	sess := s.newSession(client, clientIP)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	logger.Info("Session started", "session", sess.ID, "client_ip", clientIP)

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.ID)
		s.mu.Unlock()

		s.throttle.Forget(sess.ID)
		s.connLimiter.Release(clientIP)
		client.Close()

		logger.Info("Session ended", "session", sess.ID,
			"duration", time.Since(sess.createdAt).Round(time.Second).String(),
			"completed_quests", len(sess.quests.Completed()))
	}()

	sess.run(s.throttle)
}

// getRealIP extracts the real client IP from an HTTP request.
// It checks X-Forwarded-For header first (for reverse proxy setups),
// then falls back to the direct remote address.
func getRealIP(r *http.Request) string {
	// "client, proxy1, proxy2"
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if clientIP := strings.TrimSpace(strings.Split(xff, ",")[0]); clientIP != "" {
			return clientIP
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	return extractIP(r.RemoteAddr)
}

// SessionCount returns the number of connected sessions
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// GetUptime returns how long the server has been running
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.StartTime)
}

// Shutdown stops accepting connections, closes every session, and waits for
// session goroutines to finish or ctx to expire. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		srv := s.httpServer
		for _, sess := range s.sessions {
			sess.client.WriteLine("Server is shutting down.")
			sess.client.Close()
		}
		s.mu.Unlock()

		if srv != nil {
			err = srv.Shutdown(ctx)
		}
		s.throttle.Stop()

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			if err == nil {
				err = ctx.Err()
			}
		}

		logger.Info("Server shutdown complete", "uptime", s.GetUptime().Round(time.Second).String())
	})
	return err
}
