package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "concierge/internal/adapters/http_server"
	"concierge/internal/adapters/observability"
	openaiad "concierge/internal/adapters/openai"
	redisad "concierge/internal/adapters/redis"
	"concierge/internal/app"
	"concierge/internal/domain"
	"concierge/internal/shared"
	mysqlrepo "concierge/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// cache is optional: lookups go straight to MySQL when redis is down
	var cache domain.Cache
	rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; property cache disabled")
	} else {
		cache = rc
	}
	cancel()

	llm, err := openaiad.New(cfg.OpenAIKey, openaiad.Options{
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		RPS:     cfg.OpenAIRPS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OpenAI client")
	}

	// deps
	dir := app.NewDirectoryService(mysqlrepo.New(db), cache, cfg.CacheTTL)
	engine := app.NewEngine(dir, app.KeywordMatcher{}, app.NewFallbackResponder(llm, cfg.FallbackTimeout))

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Engine: engine, Dir: dir, Secret: cfg.AdminSecret})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
