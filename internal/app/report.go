package app

import (
	"context"
	"fmt"
	"time"

	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/domain"
)

// ReportCacheKey names the cached report for one threshold pair. The pipeline
// publishes under it and the read side looks it up, so a batch run warms the
// api's cache.
func ReportCacheKey(minTotalVotes int, minHelpfulRatio float64) string {
	return fmt.Sprintf("vine:report:%d:%.3f", minTotalVotes, minHelpfulRatio)
}

// ReportService recomputes the bias report from the durable vine_table,
// with a cache in front keyed by the active thresholds.
type ReportService struct {
	repo            domain.ReviewRepository
	cache           domain.Cache
	cacheTTL        time.Duration
	minTotalVotes   int
	minHelpfulRatio float64
}

func NewReportService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration, minTotalVotes int, minHelpfulRatio float64) *ReportService {
	return &ReportService{repo: r, cache: c, cacheTTL: ttl, minTotalVotes: minTotalVotes, minHelpfulRatio: minHelpfulRatio}
}

func (s *ReportService) BiasReport(ctx context.Context) (domain.BiasReport, error) {
	key := ReportCacheKey(s.minTotalVotes, s.minHelpfulRatio)
	var cached domain.BiasReport
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	vs, err := s.repo.ListVotedVineRecords(ctx, s.minTotalVotes)
	if err != nil {
		return domain.BiasReport{}, err
	}
	report := ComputeBias(vs, s.minTotalVotes, s.minHelpfulRatio)

	_ = s.cache.Set(ctx, key, report, int(s.cacheTTL.Seconds()))
	return report, nil
}
