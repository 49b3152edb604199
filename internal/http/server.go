// Package http exposes the ledger operations as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"budgetbook/internal/auth"
	"budgetbook/internal/cache"
	"budgetbook/internal/core"
	"budgetbook/internal/ledger"
	"budgetbook/internal/middleware/ratelimit"
	"budgetbook/internal/middleware/security"
	"budgetbook/internal/middleware/trace"
)

// Server wires the engine and auth service behind the JSON routes.
type Server struct {
	http.Server

	engine *ledger.Engine
	auth   *auth.Service

	limiter  *ratelimit.Limiter
	resolver *security.Resolver

	// Summaries are recomputed from the full blob on every read; cache them
	// per user and drop the entry on any mutation by that user.
	summaryCache *cache.LRU[[]core.MonthSummary]

	shutdownOnce sync.Once
}

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	RequestsPerMinute int
	SummaryCacheSize  int
	SummaryCacheTTL   time.Duration
}

// NewServer configures routes and middleware, returning a ready-to-run
// server listening on addr.
func NewServer(addr string, engine *ledger.Engine, authSvc *auth.Service, opts Options) *Server {
	if opts.SummaryCacheSize <= 0 {
		opts.SummaryCacheSize = 100
	}
	if opts.SummaryCacheTTL <= 0 {
		opts.SummaryCacheTTL = 5 * time.Minute
	}

	s := &Server{
		engine:       engine,
		auth:         authSvc,
		resolver:     security.NewResolver(),
		summaryCache: cache.NewLRU[[]core.MonthSummary](opts.SummaryCacheSize, opts.SummaryCacheTTL),
	}
	s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RequestsPerMinute})

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)

	mux.HandleFunc("PUT /api/months/{month}", s.withUser(s.handleEnsureMonth))
	mux.HandleFunc("PUT /api/months/{month}/budget", s.withUser(s.handleSetBudget))
	mux.HandleFunc("POST /api/months/{month}/categories", s.withUser(s.handleAddCategory))
	mux.HandleFunc("PUT /api/months/{month}/categories/{name}", s.withUser(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/months/{month}/categories/{name}", s.withUser(s.handleDeleteCategory))
	mux.HandleFunc("POST /api/months/{month}/transactions", s.withUser(s.handleAddTransaction))
	mux.HandleFunc("DELETE /api/months/{month}/transactions/{id}", s.withUser(s.handleDeleteTransaction))
	mux.HandleFunc("GET /api/months/{month}/transactions", s.withUser(s.handleSearchTransactions))
	mux.HandleFunc("GET /api/months/{month}/warnings", s.withUser(s.handleWarnings))
	mux.HandleFunc("GET /api/summary", s.withUser(s.handleSummary))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.resolver.ClientIP)
	limited := s.limiter.Middleware(s.resolver.ClientIP, nil)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           tracer.Middleware(limited(headers.Middleware(mux))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the server and its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withUser resolves the bearer token to the logged-in user and rejects the
// request when there is no valid session.
func (s *Server) withUser(next func(w http.ResponseWriter, r *http.Request, user string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := s.auth.CurrentUser(bearerToken(r))
		if user == "" {
			writeErrorStatus(w, http.StatusUnauthorized, "missing or expired session")
			return
		}
		next(w, r, user)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// invalidateSummary drops the cached summary rows after a mutation.
func (s *Server) invalidateSummary(ctx context.Context, user string) {
	s.summaryCache.Delete(user)
	slog.DebugContext(ctx, "Summary cache invalidated", "user", user)
}
