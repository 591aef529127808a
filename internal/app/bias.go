package app

import "github.com/aaron-ardell/Amazon-Vine-Analysis/internal/domain"

// FilterByTotalVotes keeps rows with at least min total votes. Idempotent.
func FilterByTotalVotes(vs []domain.VineRecord, min int) []domain.VineRecord {
	out := make([]domain.VineRecord, 0, len(vs))
	for _, v := range vs {
		if v.TotalVotes >= min {
			out = append(out, v)
		}
	}
	return out
}

// FilterByHelpfulRatio keeps rows whose helpful/total ratio meets min.
// Rows with zero total votes never pass (no division happens for them).
func FilterByHelpfulRatio(vs []domain.VineRecord, min float64) []domain.VineRecord {
	out := make([]domain.VineRecord, 0, len(vs))
	for _, v := range vs {
		if v.TotalVotes <= 0 {
			continue
		}
		if float64(v.HelpfulVotes)/float64(v.TotalVotes) >= min {
			out = append(out, v)
		}
	}
	return out
}

// ComputeBias runs the full filter chain and partitions by the vine flag.
// Rows with a vine value other than "Y"/"N" fall outside both partitions.
func ComputeBias(vs []domain.VineRecord, minTotalVotes int, minHelpfulRatio float64) domain.BiasReport {
	voted := FilterByTotalVotes(vs, minTotalVotes)
	helpful := FilterByHelpfulRatio(voted, minHelpfulRatio)

	report := domain.BiasReport{
		MinTotalVotes:   minTotalVotes,
		MinHelpfulRatio: minHelpfulRatio,
	}
	for _, v := range helpful {
		switch v.Vine {
		case "Y":
			tally(&report.Paid, v)
		case "N":
			tally(&report.NonPaid, v)
		}
	}
	finalize(&report.Paid)
	finalize(&report.NonPaid)
	return report
}

func tally(p *domain.PartitionStats, v domain.VineRecord) {
	p.Count++
	if v.StarRating == 5 {
		p.FiveStarCount++
	}
}

// finalize fills in the ratio; it stays nil (undefined) for empty partitions.
func finalize(p *domain.PartitionStats) {
	if p.Count == 0 {
		return
	}
	ratio := float64(p.FiveStarCount) / float64(p.Count)
	p.FiveStarRatio = &ratio
}
