package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/domain"
)

// batchSize caps how many rows go into one multi-row INSERT. MySQL's default
// max_allowed_packet comfortably fits 500 rows of this width.
const batchSize = 500

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Reset truncates the four target tables (replace write mode).
func (r *Repo) Reset(ctx context.Context) error {
	for _, table := range []string{TableReviewID, TableProducts, TableCustomers, TableVine} {
		if _, err := r.db.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

func (r *Repo) InsertReviewRecords(ctx context.Context, rs []domain.ReviewRecord) error {
	return insertBatched(ctx, r.db, TableReviewID, insertReviewRecordsPrefix, 5, rs,
		func(rec domain.ReviewRecord, args []any) []any {
			return append(args, rec.ReviewID, rec.CustomerID, rec.ProductID, rec.ProductParent, rec.ReviewDate)
		})
}

func (r *Repo) InsertProducts(ctx context.Context, ps []domain.Product) error {
	return insertBatched(ctx, r.db, TableProducts, insertProductsPrefix, 2, ps,
		func(p domain.Product, args []any) []any {
			return append(args, p.ProductID, p.ProductTitle)
		})
}

func (r *Repo) InsertCustomerActivity(ctx context.Context, cs []domain.CustomerActivity) error {
	return insertBatched(ctx, r.db, TableCustomers, insertCustomersPrefix, 2, cs,
		func(c domain.CustomerActivity, args []any) []any {
			return append(args, c.CustomerID, c.CustomerCount)
		})
}

func (r *Repo) InsertVineRecords(ctx context.Context, vs []domain.VineRecord) error {
	return insertBatched(ctx, r.db, TableVine, insertVinePrefix, 6, vs,
		func(v domain.VineRecord, args []any) []any {
			return append(args, v.ReviewID, v.StarRating, v.HelpfulVotes, v.TotalVotes, v.Vine, v.VerifiedPurchase)
		})
}

// insertBatched builds multi-row INSERT statements in chunks and wraps any
// failure with the target table name.
func insertBatched[T any](ctx context.Context, db *sql.DB, table, prefix string, width int, rows []T, bind func(T, []any) []any) error {
	if len(rows) == 0 {
		return nil
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", width), ",") + ")"

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		values := make([]string, 0, len(chunk))
		args := make([]any, 0, len(chunk)*width)
		for _, row := range chunk {
			values = append(values, placeholder)
			args = bind(row, args)
		}
		sqlStr := prefix + strings.Join(values, ",")
		if _, err := db.ExecContext(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return nil
}

func (r *Repo) ListVotedVineRecords(ctx context.Context, minTotalVotes int) ([]domain.VineRecord, error) {
	rows, err := r.db.QueryContext(ctx, listVotedVineSQL, minTotalVotes)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", TableVine, err)
	}
	defer rows.Close()

	var out []domain.VineRecord
	for rows.Next() {
		var v domain.VineRecord
		if err := rows.Scan(&v.ReviewID, &v.StarRating, &v.HelpfulVotes, &v.TotalVotes, &v.Vine, &v.VerifiedPurchase); err != nil {
			return nil, fmt.Errorf("scan %s: %w", TableVine, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", TableVine, err)
	}
	return out, nil
}
