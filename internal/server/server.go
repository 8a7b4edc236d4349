package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/osse101/StarCase_Go/docs"
	"github.com/osse101/StarCase_Go/internal/casebox"
	"github.com/osse101/StarCase_Go/internal/catalog"
	"github.com/osse101/StarCase_Go/internal/handler"
	"github.com/osse101/StarCase_Go/internal/leaderboard"
	"github.com/osse101/StarCase_Go/internal/metrics"
	"github.com/osse101/StarCase_Go/internal/middleware"
	"github.com/osse101/StarCase_Go/internal/sse"
	"github.com/osse101/StarCase_Go/internal/user"
)

// Options configures the HTTP surface
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	MaxBodyBytes   int64
}

// Dependencies are the services behind the routes
type Dependencies struct {
	Store       handler.Pinger
	Users       user.Service
	Cases       casebox.Service
	Catalog     catalog.Service
	Leaderboard leaderboard.Service
	Feed        handler.FeedReader
	Hub         *sse.Hub
	// WeeklyReset is optional; the admin reset route is mounted only when set
	WeeklyReset handler.WeeklyResetter
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, deps Dependencies) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, deps),
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the full route tree
func NewRouter(opts Options, deps Dependencies) chi.Router {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	handler.InitValidator()

	r := chi.NewRouter()
	detector := NewSuspiciousActivityDetector()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(opts.MaxBodyBytes))
	r.Use(metrics.Middleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Store))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Public read-only routes used by the mini app before login
		r.Get("/catalog/items", handler.HandleListItems(deps.Catalog))
		r.Get("/cases", handler.HandleListCases(deps.Catalog))
		r.Get("/cases/{id}", handler.HandleGetCase(deps.Catalog))
		r.Get("/leaderboard", handler.HandleGetLeaderboard(deps.Leaderboard))
		r.Get("/feed", handler.HandleGetFeed(deps.Feed))
		r.Get("/feed/stream", sse.Handler(deps.Hub))

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))

			r.Post("/cases/open", handler.HandleOpenCase(deps.Cases))

			r.Route("/user", func(r chi.Router) {
				r.Post("/register", handler.HandleRegisterUser(deps.Users))
				r.Get("/profile", handler.HandleGetProfile(deps.Users))
				r.Get("/inventory", handler.HandleGetInventory(deps.Users))

				r.Route("/item", func(r chi.Router) {
					r.Post("/sell", handler.HandleSellItem(deps.Cases))
					r.Post("/withdraw", handler.HandleWithdrawItem(deps.Cases))
					r.Post("/upgrade", handler.HandleUpgradeItem(deps.Cases))
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Post("/user/credit", handler.HandleCreditUser(deps.Users))
				r.Post("/catalog/reload", handler.HandleReloadCatalog(deps.Catalog))
				if deps.WeeklyReset != nil {
					r.Post("/leaderboard/reset", handler.HandleWeeklyReset(deps.WeeklyReset))
				}
			})
		})
	})

	return r
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
