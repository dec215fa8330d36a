// Package http serves the operations dashboard API. All durable state
// lives behind the backend store; this layer adds caching, rate
// limiting and audit event publication.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tradeops/internal/amqp"
	"tradeops/internal/backend"
	"tradeops/internal/cache"
	"tradeops/internal/ledger"
	"tradeops/internal/storage"
)

// EventPublisher sends change events to the audit queue.
type EventPublisher interface {
	PublishChangeEvent(ctx context.Context, event *amqp.ChangeEvent) error
}

// ActivityLog reads back recorded audit events.
type ActivityLog interface {
	List(ctx context.Context, entity string, limit int) ([]storage.AuditEvent, error)
}

type Server struct {
	http.Server
	store       backend.Store
	events      EventPublisher
	activity    ActivityLog
	rateLimiter *rateLimiter

	statementCache *cache.LRU[ledger.Statement]
	agingCache     *cache.LRU[agingResponse]
	janitor        *cache.Janitor

	shutdownOnce sync.Once
}

type Option func(*Server)

// WithEventPublisher enables audit event publication on writes.
func WithEventPublisher(p EventPublisher) Option {
	return func(s *Server) { s.events = p }
}

// WithActivityLog enables the /api/activity endpoint.
func WithActivityLog(a ActivityLog) Option {
	return func(s *Server) { s.activity = a }
}

// WithCache overrides the default report cache sizing.
func WithCache(maxSize int, ttl time.Duration) Option {
	return func(s *Server) {
		s.statementCache = cache.NewLRU[ledger.Statement](maxSize, ttl)
		s.agingCache = cache.NewLRU[agingResponse](maxSize, ttl)
	}
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, store backend.Store, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:          store,
		rateLimiter:    newRateLimiter(),
		statementCache: cache.NewLRU[ledger.Statement](256, 2*time.Minute),
		agingCache:     cache.NewLRU[agingResponse](64, 2*time.Minute),
		janitor:        cache.NewJanitor(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.janitor.Register(s.statementCache)
	s.janitor.Register(s.agingCache)
	s.janitor.Start(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/customers", s.withMiddleware(s.handleListCustomers))
	mux.HandleFunc("GET /api/customers/{name}/statement", s.withMiddleware(s.handleStatement))
	mux.HandleFunc("GET /api/customers/{name}/statement/pdf", s.withMiddleware(s.handleStatementPDF))
	mux.HandleFunc("GET /api/customers/{name}/statement/xlsx", s.withMiddleware(s.handleStatementXLSX))
	mux.HandleFunc("GET /api/aging", s.withMiddleware(s.handleAging))

	mux.HandleFunc("GET /api/ledger", s.withMiddleware(s.handleListLedger))
	mux.HandleFunc("POST /api/ledger", s.withMiddleware(s.handleAppendLedger))

	mux.HandleFunc("GET /api/inventory", s.withMiddleware(s.handleListInventory))
	mux.HandleFunc("POST /api/inventory", s.withMiddleware(s.handleAppendInventory))
	mux.HandleFunc("GET /api/inventory/reorder", s.withMiddleware(s.handleReorderList))
	mux.HandleFunc("POST /api/inventory/{sku}/adjust", s.withMiddleware(s.handleAdjustInventory))

	mux.HandleFunc("GET /api/payroll", s.withMiddleware(s.handleListPayroll))
	mux.HandleFunc("POST /api/payroll", s.withMiddleware(s.handleAppendPayroll))

	mux.HandleFunc("GET /api/receipts", s.withMiddleware(s.handleListReceipts))
	mux.HandleFunc("POST /api/receipts", s.withMiddleware(s.handleAppendReceipt))
	mux.HandleFunc("GET /api/receipts/{number}/pdf", s.withMiddleware(s.handleReceiptVoucher))

	mux.HandleFunc("GET /api/notes", s.withMiddleware(s.handleListNotes))
	mux.HandleFunc("POST /api/notes", s.withMiddleware(s.handleAppendNote))
	mux.HandleFunc("POST /api/notes/{number}/settle", s.withMiddleware(s.handleSettleNote))

	mux.HandleFunc("GET /api/activity", s.withMiddleware(s.handleActivity))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.janitor.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateReports drops cached statements and aging after a ledger write.
func (s *Server) invalidateReports() {
	s.statementCache.Purge()
	s.agingCache.Purge()
}

// publishEvent sends an audit event best-effort; a broken broker never
// fails the request that already wrote to the spreadsheet.
func (s *Server) publishEvent(ctx context.Context, entity, action, ref, who string) {
	if s.events == nil {
		return
	}
	event := amqp.NewChangeEvent(entity, action, ref, who)
	if err := s.events.PublishChangeEvent(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish change event",
			"error", err,
			"entity", entity,
			"action", action)
	}
}

// withMiddleware adds security headers, rate limiting and request
// logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
