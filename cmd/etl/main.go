package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/adapters/observability"
	redisad "github.com/aaron-ardell/Amazon-Vine-Analysis/internal/adapters/redis"
	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/adapters/source"
	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/app"
	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/shared"
	mysqlrepo "github.com/aaron-ardell/Amazon-Vine-Analysis/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.SourceURL == "" {
		log.Fatal().Msg("SOURCE_URL is required (http(s) URL or local path to the review dataset)")
	}
	log.Info().
		Str("source", cfg.SourceURL).
		Str("mode", cfg.WriteMode).
		Str("date_policy", cfg.DatePolicy).
		Int("min_total_votes", cfg.MinTotalVotes).
		Float64("min_helpful_ratio", cfg.MinHelpfulRatio).
		Msg("etl starting")

	observability.Serve()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	src := source.New(
		source.NewClient(cfg.FetchTimeout, 5),
		source.NewDecoder(source.DatePolicy(cfg.DatePolicy)),
	)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	pipeline := app.NewPipelineService(src, repo, cache, app.PipelineOptions{
		Source:          cfg.SourceURL,
		WriteMode:       cfg.WriteMode,
		MinTotalVotes:   cfg.MinTotalVotes,
		MinHelpfulRatio: cfg.MinHelpfulRatio,
		ReportTTL:       cfg.CacheTTL,
	})

	report, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline failed")
	}

	log.Info().
		Int64("paid_count", report.Paid.Count).
		Int64("paid_5star", report.Paid.FiveStarCount).
		Int64("nonpaid_count", report.NonPaid.Count).
		Int64("nonpaid_5star", report.NonPaid.FiveStarCount).
		Msg("pipeline completed")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal().Err(err).Msg("encode report failed")
	}
}
