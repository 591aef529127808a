package domain

// PartitionStats aggregates one side of the Vine split.
// FiveStarRatio is nil when Count is zero: the ratio is undefined and must be
// reported that way, never coerced to 0.
type PartitionStats struct {
	Count         int64    `json:"count"`
	FiveStarCount int64    `json:"five_star_count"`
	FiveStarRatio *float64 `json:"five_star_ratio"`
}

// BiasReport compares paid (Vine) reviews against non-paid ones over the
// vote-filtered subpopulation.
type BiasReport struct {
	MinTotalVotes   int            `json:"min_total_votes"`
	MinHelpfulRatio float64        `json:"min_helpful_ratio"`
	Paid            PartitionStats `json:"paid"`
	NonPaid         PartitionStats `json:"nonpaid"`
}
