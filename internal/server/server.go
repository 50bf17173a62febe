package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/BrianJCal99/project-bunnings/internal/config"
	"github.com/BrianJCal99/project-bunnings/internal/discovery/application"
	mongorepo "github.com/BrianJCal99/project-bunnings/internal/infrastructure/mongo"
	commonhttp "github.com/BrianJCal99/project-bunnings/internal/interfaces/http/common"
	publichttp "github.com/BrianJCal99/project-bunnings/internal/interfaces/http/public"
)

// pinger is what /healthz checks. *mongo.Client satisfies it.
type pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Server owns the HTTP listener and wires the run query service into the handlers.
type Server struct {
	logger         *log.Logger
	client         pinger
	disconnect     func(context.Context) error
	runs           application.RunQueryService
	jwtConfigs     []config.JWTConfig
	jwtAudience    string
	addr           string
	allowedOrigins []string
}

// New builds a Server backed by the run repository in the configured database.
func New(cfg config.Config, client *mongo.Client) *Server {
	repo := mongorepo.NewRunRepository(client.Database(cfg.MongoDatabase), cfg.RunCollection, cfg.RowCollection)
	srv := newServer(cfg, client, application.NewRunQueryService(repo))
	srv.disconnect = client.Disconnect
	return srv
}

func newServer(cfg config.Config, client pinger, runs application.RunQueryService) *Server {
	logger := cfg.ServerLog
	if logger == nil {
		logger = log.New(os.Stdout, "[bunnings] ", log.LstdFlags)
	}
	return &Server{
		logger:         logger,
		client:         client,
		runs:           runs,
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}
}

// Handler returns the router with middleware and routes mounted.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	var auth func(http.Handler) http.Handler
	if len(s.jwtConfigs) > 0 {
		auth = s.authMiddleware
	}
	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger: s.logger,
		Runs:   s.runs,
	})
	publicHandler.Register(router, auth)
	return router
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP server listening on %s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	err := waitForShutdown(ctx, httpServer, errChan, s.logger)
	s.shutdown(context.Background())
	return err
}

// withCORS echoes allowed origins and answers preflight requests.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports MongoDB reachability only.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// authMiddleware verifies the bearer token and stores the caller in the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "expected a Bearer token")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "empty access token")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		caller := commonhttp.Caller{
			ID:     claims.Subject,
			Name:   claims.Name,
			Issuer: claims.Issuer,
		}
		if claims.ExpiresAt != nil {
			caller.ExpiresAt = claims.ExpiresAt.Time
		}

		ctx := commonhttp.WithCaller(r.Context(), caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken tries each configured secret in turn. The first config whose
// signature, issuer and audience all match wins.
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("authentication is not configured")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}
		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !slices.Contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("invalid access token")
}

type authClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// shutdown disconnects the Mongo client with a bounded timeout.
func (s *Server) shutdown(ctx context.Context) {
	if s.disconnect == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.disconnect(shutdownCtx); err != nil {
		s.logger.Printf("mongo disconnect: %v", err)
	}
}

// waitForShutdown blocks until the listener fails, ctx ends or a signal arrives.
func waitForShutdown(ctx context.Context, httpServer *http.Server, errChan <-chan error, logger *log.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-sigChan:
		logger.Printf("received %s, shutting down", sig)
	case <-ctx.Done():
		logger.Printf("context done, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
