package cli

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/ZurcLeo/melzao-sub000/internal/auth"
	"github.com/ZurcLeo/melzao-sub000/internal/catalog"
	"github.com/ZurcLeo/melzao-sub000/internal/config"
	"github.com/ZurcLeo/melzao-sub000/internal/game"
	"github.com/ZurcLeo/melzao-sub000/internal/infra/memory"
	pginfra "github.com/ZurcLeo/melzao-sub000/internal/infra/postgres"
	redisinfra "github.com/ZurcLeo/melzao-sub000/internal/infra/redis"
	transport "github.com/ZurcLeo/melzao-sub000/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game engine server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// Custom questions come from Postgres when configured, cached in Redis
	// when available; without either, the builtin pool alone serves.
	var source catalog.Source
	if pool != nil {
		source = pginfra.NewQuestionSource(pool)
	}
	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	if source != nil && redisClient != nil {
		source = redisinfra.NewQuestionSource(redisClient, source, questionTTL)
	}
	questionCatalog := catalog.New(source)

	var store game.HistoryStore
	if pool != nil {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()
		store = pginfra.NewHistoryStore(db)
	} else {
		store = memory.NewHistoryStore()
	}

	var liveness game.Liveness
	if redisClient != nil {
		liveness = redisinfra.NewLiveness(redisClient, redisTTL)
	}

	registry := game.NewRegistry(game.RegistryConfig{
		Catalog:  questionCatalog,
		Store:    store,
		Liveness: liveness,
		Logger:   logger,
		Defaults: cfg.Game.SessionConfig(),
	})

	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, time.Hour)
	authSvc := auth.NewService(cfg.Auth.Secret, tokenTTL)

	restHandler := transport.NewRestHandler(registry, authSvc, logger)
	wsHandler := transport.NewWSHandler(registry, authSvc, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/api/", http.StripPrefix("/api", restHandler.Routes()))
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting game engine", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
