package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scythe504/tabu-backend/internal/auth"
	"github.com/scythe504/tabu-backend/internal/config"
	"github.com/scythe504/tabu-backend/internal/game"
	"github.com/scythe504/tabu-backend/internal/server"
	"github.com/scythe504/tabu-backend/internal/store"
	"github.com/scythe504/tabu-backend/internal/store/migrations"
	"github.com/scythe504/tabu-backend/internal/utils"
	"github.com/scythe504/tabu-backend/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := &config.Config{}
	cobra.CheckErr(config.NewCommand(cfg, serve).Execute())
}

func serve(cmd *cobra.Command, cfg *config.Config) error {
	cfg.ConfigureLogging()
	log.Infof("[main] starting tabu v%s", config.ReleaseVersion)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrations.Up(ctx, cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	hasher := auth.NewBcryptHasher(auth.DefaultBcryptCost)
	if cfg.Seed {
		if err := db.Seed(ctx, hasher.Hash); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	words, err := utils.LoadWordBank(cfg.Words)
	if err != nil {
		return err
	}
	log.Infof("[main] loaded %d card categories", len(words))

	accounts := auth.NewService(db, hasher, auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL))

	hub := websocket.NewHub()
	manager := game.NewManager(hub,
		game.WithWordBank(words),
		game.WithStatsStore(db),
		game.WithRoundTime(cfg.RoundTime),
	)
	socket := websocket.NewHandler(hub, manager, accounts)

	srv := server.New(db, accounts, manager, socket, cfg.PublicURL).HTTPServer(cfg.Bind, cfg.Port)

	errs := make(chan error, 1)
	go func() {
		log.Infof("[main] listening on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("[main] shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("[main] http server did not shut down cleanly")
	}
	if err := manager.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("[main] pending stats writes abandoned")
	}
	return nil
}
