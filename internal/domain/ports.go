package domain

import "context"

// ReviewSource yields the projected source rows for one dataset location
// (http(s) URL or local path).
type ReviewSource interface {
	Load(ctx context.Context, src string) ([]Review, SourceStats, error)
}

type ReviewRepository interface {
	// Write paths. Inserts are plain (no upsert): a primary-key conflict
	// fails the run and the error names the offending table.
	Reset(ctx context.Context) error
	InsertReviewRecords(ctx context.Context, rs []ReviewRecord) error
	InsertProducts(ctx context.Context, ps []Product) error
	InsertCustomerActivity(ctx context.Context, cs []CustomerActivity) error
	InsertVineRecords(ctx context.Context, vs []VineRecord) error

	// Read path for the report service: vine rows already filtered by the
	// vote threshold in SQL.
	ListVotedVineRecords(ctx context.Context, minTotalVotes int) ([]VineRecord, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
