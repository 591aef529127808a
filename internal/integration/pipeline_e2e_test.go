//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	redisad "github.com/aaron-ardell/Amazon-Vine-Analysis/internal/adapters/redis"
	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/adapters/source"
	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/app"
	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/shared"
	mysqlrepo "github.com/aaron-ardell/Amazon-Vine-Analysis/internal/storage/mysql"
)

// ---------- helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

const header = "marketplace\tcustomer_id\treview_id\tproduct_id\tproduct_parent\t" +
	"product_title\tproduct_category\tstar_rating\thelpful_votes\ttotal_votes\t" +
	"vine\tverified_purchase\treview_headline\treview_body\treview_date"

func tsvRow(reviewID string, customerID int64, productID string, stars, helpful, total int, vineFlag string) string {
	return fmt.Sprintf("US\t%d\t%s\t%s\t137178\tSome Product\tBooks\t%d\t%d\t%d\t%s\tY\th\tb\t2015-08-31",
		customerID, reviewID, productID, stars, helpful, total, vineFlag)
}

// ---------- the test ----------

func TestPipeline_EndToEnd_ReportOverHTTP(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=vine",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "vine")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	// Dataset on disk: one paid 5-star review and three non-paid (5,5,3),
	// all past the vote and helpfulness thresholds, plus one row that the
	// vote filter drops.
	data := strings.Join([]string{
		header,
		tsvRow("R1", 1, "P1", 5, 20, 20, "Y"),
		tsvRow("R2", 2, "P1", 5, 18, 20, "N"),
		tsvRow("R3", 2, "P2", 5, 20, 25, "N"),
		tsvRow("R4", 3, "P3", 3, 30, 30, "N"),
		tsvRow("R5", 4, "P4", 5, 1, 2, "N"),
	}, "\n")
	path := filepath.Join(t.TempDir(), "reviews.tsv")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	repo := mysqlrepo.New(db)
	src := source.New(source.NewClient(time.Minute, 100), source.NewDecoder(source.DateDrop))

	pipeline := app.NewPipelineService(src, repo, cache, app.PipelineOptions{
		Source:          path,
		WriteMode:       shared.WriteModeReplace,
		MinTotalVotes:   20,
		MinHelpfulRatio: 0.5,
		ReportTTL:       time.Minute,
	})
	if _, err := pipeline.Run(context.Background()); err != nil {
		t.Fatalf("pipeline: %v", err)
	}

	// Read side: report recomputed from the durable vine_table.
	reportSvc := app.NewReportService(repo, cache, time.Minute, 20, 0.5)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/report", func(w http.ResponseWriter, r *http.Request) {
		rep, err := reportSvc.BiasReport(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rep)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/report")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}

	var body struct {
		Paid struct {
			Count         int64    `json:"count"`
			FiveStarCount int64    `json:"five_star_count"`
			FiveStarRatio *float64 `json:"five_star_ratio"`
		} `json:"paid"`
		NonPaid struct {
			Count         int64    `json:"count"`
			FiveStarCount int64    `json:"five_star_count"`
			FiveStarRatio *float64 `json:"five_star_ratio"`
		} `json:"nonpaid"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Paid.Count != 1 || body.Paid.FiveStarCount != 1 ||
		body.Paid.FiveStarRatio == nil || *body.Paid.FiveStarRatio != 1.0 {
		t.Fatalf("unexpected paid stats: %+v", body.Paid)
	}
	if body.NonPaid.Count != 3 || body.NonPaid.FiveStarCount != 2 {
		t.Fatalf("unexpected nonpaid stats: %+v", body.NonPaid)
	}
}
