package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	goredis "github.com/redis/go-redis/v9"

	"github.com/meikuraledutech/canvas"
	"github.com/meikuraledutech/canvas/docstore"
	"github.com/meikuraledutech/canvas/file"
	"github.com/meikuraledutech/canvas/logger"
	"github.com/meikuraledutech/canvas/postgres"
	"github.com/meikuraledutech/canvas/redis"
)

// Config is populated from the environment. The graph store backend is
// picked by what is configured: DATABASE_URL wins, then REDIS_ADDR,
// otherwise JSON files under DataDir.
type Config struct {
	Addr         string `envconfig:"ADDR" default:":3000"`
	DocumentsDir string `envconfig:"DOCUMENTS_DIR" default:"."`
	Location     string `envconfig:"DOCUMENTS_LOCATION" default:"workflows"`
	GraphKey     string `envconfig:"GRAPH_KEY" default:"workflow"`
	DataDir      string `envconfig:"DATA_DIR" default:"data"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	RedisAddr    string `envconfig:"REDIS_ADDR"`
	Log          logger.Config
}

func main() {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.Init(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx := context.Background()

	var store canvas.GraphStore
	switch {
	case cfg.DatabaseURL != "":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			zl.Fatal().Err(err).Msg("connect postgres")
		}
		defer pool.Close()
		pg := postgres.New(pool)
		if err := pg.CreateSchema(ctx); err != nil {
			zl.Fatal().Err(err).Msg("create schema")
		}
		store = pg
		zl.Info().Msg("graph store: postgres")
	case cfg.RedisAddr != "":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		store = redis.New(client)
		zl.Info().Str("addr", cfg.RedisAddr).Msg("graph store: redis")
	default:
		store = file.New(cfg.DataDir)
		zl.Info().Str("dir", cfg.DataDir).Msg("graph store: file")
	}

	app := newApp(&service{
		store:    store,
		docs:     docstore.New(cfg.DocumentsDir),
		location: cfg.Location,
		graphKey: cfg.GraphKey,
		log:      zl,
	})

	zl.Info().Str("addr", cfg.Addr).Str("location", cfg.Location).Msg("workflow canvas service listening")
	if err := app.Listen(cfg.Addr); err != nil {
		zl.Fatal().Err(err).Msg("listen")
	}
}
