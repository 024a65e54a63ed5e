package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/sketchroom/internal/config"
	"github.com/scythe504/sketchroom/internal/game"
	"github.com/scythe504/sketchroom/internal/logger"
	"github.com/scythe504/sketchroom/internal/server"
	"github.com/scythe504/sketchroom/internal/storage"
	"github.com/scythe504/sketchroom/internal/storage/migrations"
	"github.com/scythe504/sketchroom/internal/websocket"
	"github.com/scythe504/sketchroom/internal/words"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Setup("info", true)
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bank := words.Default()
	if cfg.WordsFile != "" {
		list, err := words.ReadCsvFile(cfg.WordsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot read word list")
		}
		if bank, err = words.NewBank(list); err != nil {
			log.Fatal().Err(err).Msg("cannot build word bank")
		}
	}
	log.Info().Int("words", bank.Size()).Msg("word bank ready")

	hub := websocket.NewHub()
	opts := []game.Option{game.WithPressureProbe(game.MemoryPressureProbe(cfg.MemoryPressurePercent))}

	var history server.GameHistory
	if cfg.DatabaseURL != "" {
		if err := migrations.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("cannot migrate archive database")
		}
		archive, err := storage.NewPostgresArchive(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to archive database")
		}
		defer archive.Close()

		opts = append(opts, game.WithArchive(archive))
		history = archive
		log.Info().Msg("game archive enabled")
	}

	registry := game.NewRegistry(cfg.GameSettings(), bank, hub, opts...)
	go registry.RunSweeper(ctx)

	ws := websocket.NewHandler(registry, hub, websocket.HandlerConfig{
		AllowedOrigins:  cfg.AllowedOrigins,
		EventsPerSecond: cfg.EventsPerSecond,
		EventBurst:      cfg.EventBurst,
	})
	srv := server.NewServer(cfg.Port, cfg.AllowedOrigins, registry, history, ws.HandleWebSocket).HTTPServer()

	go func() {
		log.Info().Str("addr", srv.Addr).Strs("origins", cfg.AllowedOrigins).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	registry.Shutdown()
	hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
