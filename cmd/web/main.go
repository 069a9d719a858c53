package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"clockdown/internal/config"
	"clockdown/internal/game"
	"clockdown/internal/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg.Log)

	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	clock := clockwork.NewRealClock()
	store := game.NewStore(clock, cfg.Clock.MaxPlayers)

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open embedded static files")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(cfg, store, staticFS),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		// Streams stay open indefinitely; per-request limits come from the router.
		WriteTimeout: 0,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, clock, store, cfg.Sessions)

	go func() {
		log.Info().Str("addr", server.Addr).Int("max_players", cfg.Clock.MaxPlayers).Msg("clockdown listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	log.Info().Msg("clockdown stopped")
}

func setupLogging(cfg config.LogConfig) {
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

func newRouter(cfg *config.Config, store *game.Store, staticFS fs.FS) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))

	handlers.NewHomeHandler(store).RegisterRoutes(r)
	handlers.NewSessionHandler(store, cfg.Server.RequestTimeout).RegisterRoutes(r)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

// sweepSessions drops abandoned sessions until ctx is cancelled.
func sweepSessions(ctx context.Context, clock clockwork.Clock, store *game.Store, cfg config.SessionConfig) {
	if cfg.SweepInterval <= 0 || cfg.TTL <= 0 {
		return
	}
	ticker := clock.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := store.Sweep(store.Now(), cfg.TTL); n > 0 {
				log.Info().Int("swept", n).Int("live", store.Len()).Msg("session sweep")
			}
		}
	}
}

//go:embed static/*
var embeddedStatic embed.FS
