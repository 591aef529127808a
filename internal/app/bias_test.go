package app_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/app"
	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/domain"
)

func vine(id string, stars, helpful, total int, flag string) domain.VineRecord {
	return domain.VineRecord{
		ReviewID:         id,
		StarRating:       stars,
		HelpfulVotes:     helpful,
		TotalVotes:       total,
		Vine:             flag,
		VerifiedPurchase: "Y",
	}
}

func TestFilterChain_VoteThresholdThenHelpfulness(t *testing.T) {
	in := []domain.VineRecord{
		vine("R1", 5, 20, 25, "N"), // passes both (20/25 = 0.8)
		vine("R2", 4, 5, 5, "N"),   // dropped: total_votes < 20
		vine("R3", 3, 10, 30, "N"), // dropped at helpfulness (10/30 ≈ 0.33)
	}

	voted := app.FilterByTotalVotes(in, 20)
	if len(voted) != 2 || voted[0].ReviewID != "R1" || voted[1].ReviewID != "R3" {
		t.Fatalf("unexpected after vote filter: %+v", voted)
	}

	helpful := app.FilterByHelpfulRatio(voted, 0.5)
	if len(helpful) != 1 || helpful[0].ReviewID != "R1" {
		t.Fatalf("unexpected after helpfulness filter: %+v", helpful)
	}
}

func TestFilterByTotalVotes_Idempotent(t *testing.T) {
	in := []domain.VineRecord{
		vine("R1", 5, 20, 25, "N"),
		vine("R2", 4, 5, 5, "N"),
		vine("R3", 3, 10, 30, "N"),
	}
	once := app.FilterByTotalVotes(in, 20)
	twice := app.FilterByTotalVotes(once, 20)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter must be idempotent: %+v vs %+v", once, twice)
	}
}

func TestComputeBias_Ratios(t *testing.T) {
	// paid partition: 1 row, 5 stars; nonpaid: stars 5,5,3.
	in := []domain.VineRecord{
		vine("R1", 5, 20, 20, "Y"),
		vine("R2", 5, 20, 20, "N"),
		vine("R3", 5, 20, 20, "N"),
		vine("R4", 3, 20, 20, "N"),
	}
	report := app.ComputeBias(in, 20, 0.5)

	if report.Paid.Count != 1 || report.Paid.FiveStarCount != 1 {
		t.Fatalf("unexpected paid stats: %+v", report.Paid)
	}
	if report.Paid.FiveStarRatio == nil || *report.Paid.FiveStarRatio != 1.0 {
		t.Fatalf("expected paid ratio 1.0: %+v", report.Paid)
	}
	if report.NonPaid.Count != 3 || report.NonPaid.FiveStarCount != 2 {
		t.Fatalf("unexpected nonpaid stats: %+v", report.NonPaid)
	}
	if report.NonPaid.FiveStarRatio == nil || math.Abs(*report.NonPaid.FiveStarRatio-0.667) > 0.001 {
		t.Fatalf("expected nonpaid ratio ≈0.667: %+v", report.NonPaid)
	}
}

func TestComputeBias_EmptyPartitionIsUndefined(t *testing.T) {
	in := []domain.VineRecord{
		vine("R1", 5, 20, 20, "N"),
	}
	report := app.ComputeBias(in, 20, 0.5)

	if report.Paid.Count != 0 {
		t.Fatalf("expected empty paid partition: %+v", report.Paid)
	}
	if report.Paid.FiveStarRatio != nil {
		t.Fatalf("empty partition ratio must be undefined, got %v", *report.Paid.FiveStarRatio)
	}
	if report.NonPaid.FiveStarRatio == nil || *report.NonPaid.FiveStarRatio != 1.0 {
		t.Fatalf("unexpected nonpaid ratio: %+v", report.NonPaid)
	}
}

func TestComputeBias_UnknownVineFlagExcluded(t *testing.T) {
	in := []domain.VineRecord{
		vine("R1", 5, 20, 20, "Y"),
		vine("R2", 5, 20, 20, ""),
		vine("R3", 5, 20, 20, "maybe"),
	}
	report := app.ComputeBias(in, 20, 0.5)
	if report.Paid.Count != 1 || report.NonPaid.Count != 0 {
		t.Fatalf("unknown flags must fall outside both partitions: %+v", report)
	}
}
