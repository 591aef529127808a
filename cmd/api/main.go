package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "github.com/aaron-ardell/Amazon-Vine-Analysis/internal/adapters/http_server"
	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/adapters/observability"
	redisad "github.com/aaron-ardell/Amazon-Vine-Analysis/internal/adapters/redis"
	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/app"
	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/shared"
	mysqlrepo "github.com/aaron-ardell/Amazon-Vine-Analysis/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	r := app.NewReportService(repo, cache, cfg.CacheTTL, cfg.MinTotalVotes, cfg.MinHelpfulRatio)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.Handler())
	srv.MountHandlers(&server.Handlers{R: r})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("report API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
