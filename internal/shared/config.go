package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	WriteModeReplace = "replace"
	WriteModeAppend  = "append"

	DatePolicyDrop  = "drop"
	DatePolicyAbort = "abort"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	SourceURL       string
	WriteMode       string // replace|append
	DatePolicy      string // drop|abort, for unparsable review_date values
	MinTotalVotes   int
	MinHelpfulRatio float64
	FetchTimeout    time.Duration
	CacheTTL        time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/vine?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		SourceURL:       env("SOURCE_URL", ""),
		WriteMode:       env("WRITE_MODE", WriteModeReplace),
		DatePolicy:      env("DATE_POLICY", DatePolicyDrop),
		MinTotalVotes:   atoi("MIN_TOTAL_VOTES", 20),
		MinHelpfulRatio: atof("MIN_HELPFUL_RATIO", 0.5),
		FetchTimeout:    time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 600)) * time.Second,
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.WriteMode != WriteModeReplace && c.WriteMode != WriteModeAppend {
		log.Warn().Str("mode", c.WriteMode).Msg("unknown WRITE_MODE, falling back to replace")
		c.WriteMode = WriteModeReplace
	}
	if c.DatePolicy != DatePolicyDrop && c.DatePolicy != DatePolicyAbort {
		log.Warn().Str("policy", c.DatePolicy).Msg("unknown DATE_POLICY, falling back to drop")
		c.DatePolicy = DatePolicyDrop
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
