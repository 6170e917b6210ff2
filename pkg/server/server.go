// Package server exposes the Dropbox relay endpoints over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/sdelicata/dropbox-team-relay/pkg/dropbox"
)

// Dropbox is the subset of *dropbox.Client the handlers call.
type Dropbox interface {
	AuthorizationURL() string
	ExchangeCode(ctx context.Context, code string) ([]byte, error)
	TeamInfo(ctx context.Context, token string) ([]byte, error)
	PlanAndLicense(ctx context.Context, token string) (dropbox.PlanLicense, error)
	Members(ctx context.Context, token string) ([]byte, error)
	SignInEvents(ctx context.Context, token string) ([]byte, error)
}

// Options tunes the middleware stack.
type Options struct {
	AllowedOrigins []string
	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables limiting.
	RateLimit float64
	RateBurst int
	// TrustProxyHeaders makes the limiter key on True-Client-IP, X-Real-IP or
	// X-Forwarded-For instead of the connection address. Enable it only
	// behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// Server holds the handler dependencies.
type Server struct {
	api    Dropbox
	logger zerolog.Logger
}

// New creates a Server relaying to api.
func New(api Dropbox, logger zerolog.Logger) *Server {
	return &Server{api: api, logger: logger}
}

// Router builds the HTTP handler with all routes and middleware mounted.
func (s *Server) Router(opts Options) http.Handler {
	router := chi.NewRouter()

	if opts.TrustProxyHeaders {
		router.Use(middleware.RealIP)
	}
	router.Use(hlog.NewHandler(s.logger))
	router.Use(requestID)
	router.Use(hlog.AccessHandler(accessLog))
	router.Use(middleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", headerRequestID},
		ExposedHeaders:   []string{headerRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		router.Use(newIPLimiter(opts.RateLimit, burst, defaultVisitorTTL).middleware)
	}

	router.Get("/healthz", handlerReadiness)

	oauthRouter := chi.NewRouter()
	oauthRouter.Get("/authorize", s.handlerAuthorize)
	oauthRouter.Get("/callback", s.handlerCallback)
	oauthRouter.Get("/team-info", middlewareAuth(s.relay(s.api.TeamInfo)))
	oauthRouter.Get("/plan-license", middlewareAuth(s.handlerPlanLicense))
	oauthRouter.Get("/users", middlewareAuth(s.relay(s.api.Members)))
	oauthRouter.Get("/sign-in-events", middlewareAuth(s.relay(s.api.SignInEvents)))
	router.Mount("/oauth", oauthRouter)

	return router
}
