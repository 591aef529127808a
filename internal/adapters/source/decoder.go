package source

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/adapters/observability"
	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/domain"
)

// DatePolicy decides what happens to a row whose review_date does not parse.
type DatePolicy string

const (
	DateDrop  DatePolicy = "drop"  // skip the row, count it, log a warning
	DateAbort DatePolicy = "abort" // fail the whole run
)

var ErrSchemaMismatch = errors.New("source: schema mismatch")

const dateLayout = "2006-01-02"

// header columns of the review dataset, in declared order.
var columns = []string{
	"marketplace", "customer_id", "review_id", "product_id", "product_parent",
	"product_title", "product_category", "star_rating", "helpful_votes",
	"total_votes", "vine", "verified_purchase", "review_headline",
	"review_body", "review_date",
}

// field indices into a split row
const (
	colCustomerID = 1
	colReviewID   = 2
	colProductID  = 3
	colParent     = 4
	colTitle      = 5
	colStars      = 7
	colHelpful    = 8
	colTotal      = 9
	colVine       = 10
	colVerified   = 11
	colDate       = 14
)

// Decoder reads the tab-separated dataset (optionally gzip-compressed) into
// projected Review rows.
type Decoder struct {
	policy DatePolicy
}

func NewDecoder(policy DatePolicy) *Decoder {
	if policy != DateAbort {
		policy = DateDrop
	}
	return &Decoder{policy: policy}
}

func (d *Decoder) Decode(r io.Reader) ([]domain.Review, domain.SourceStats, error) {
	var stats domain.SourceStats

	plain, err := maybeGunzip(r)
	if err != nil {
		return nil, stats, fmt.Errorf("decode dataset: %w", err)
	}

	sc := bufio.NewScanner(plain)
	// review_body rows can be very long
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, stats, fmt.Errorf("read header: %w", err)
		}
		return nil, stats, fmt.Errorf("%w: empty input", ErrSchemaMismatch)
	}
	if err := checkHeader(sc.Text()); err != nil {
		return nil, stats, err
	}

	var out []domain.Review
	line := 1
	for sc.Scan() {
		line++
		fields := strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t")
		if len(fields) != len(columns) {
			return nil, stats, fmt.Errorf("%w: line %d has %d fields, want %d",
				ErrSchemaMismatch, line, len(fields), len(columns))
		}

		rv, err := parseRow(fields)
		if err != nil {
			var de *dateError
			if errors.As(err, &de) {
				if d.policy == DateAbort {
					return nil, stats, fmt.Errorf("line %d review %s: %w", line, de.reviewID, err)
				}
				stats.RowsDropped++
				observability.CountRowsDropped("bad_date", 1)
				log.Warn().Int("line", line).Str("review_id", de.reviewID).
					Str("value", de.value).Msg("dropping row with unparsable review_date")
				continue
			}
			return nil, stats, fmt.Errorf("%w: line %d: %v", ErrSchemaMismatch, line, err)
		}
		out = append(out, rv)
		stats.RowsRead++
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("read dataset: %w", err)
	}
	return out, stats, nil
}

// maybeGunzip sniffs the gzip magic bytes and wraps the reader when present.
func maybeGunzip(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil {
		if err == io.EOF {
			return br, nil
		}
		return nil, err
	}
	if magic[0] == 0x1f && magic[1] == 0x8b {
		return gzip.NewReader(br)
	}
	return br, nil
}

func checkHeader(line string) error {
	got := strings.Split(strings.TrimRight(line, "\r"), "\t")
	if len(got) != len(columns) {
		return fmt.Errorf("%w: header has %d columns, want %d", ErrSchemaMismatch, len(got), len(columns))
	}
	for i, name := range columns {
		if got[i] != name {
			return fmt.Errorf("%w: header column %d is %q, want %q", ErrSchemaMismatch, i, got[i], name)
		}
	}
	return nil
}

type dateError struct {
	reviewID string
	value    string
}

func (e *dateError) Error() string {
	return fmt.Sprintf("review_date %q does not match %s", e.value, dateLayout)
}

func parseRow(f []string) (domain.Review, error) {
	customer, err := strconv.ParseInt(f[colCustomerID], 10, 64)
	if err != nil {
		return domain.Review{}, fmt.Errorf("customer_id %q: %v", f[colCustomerID], err)
	}
	parent, err := strconv.ParseInt(f[colParent], 10, 64)
	if err != nil {
		return domain.Review{}, fmt.Errorf("product_parent %q: %v", f[colParent], err)
	}
	stars, err := strconv.Atoi(f[colStars])
	if err != nil {
		return domain.Review{}, fmt.Errorf("star_rating %q: %v", f[colStars], err)
	}
	helpful, err := strconv.Atoi(f[colHelpful])
	if err != nil {
		return domain.Review{}, fmt.Errorf("helpful_votes %q: %v", f[colHelpful], err)
	}
	total, err := strconv.Atoi(f[colTotal])
	if err != nil {
		return domain.Review{}, fmt.Errorf("total_votes %q: %v", f[colTotal], err)
	}
	date, err := time.Parse(dateLayout, f[colDate])
	if err != nil {
		return domain.Review{}, &dateError{reviewID: f[colReviewID], value: f[colDate]}
	}
	return domain.Review{
		ReviewID:         f[colReviewID],
		CustomerID:       customer,
		ProductID:        f[colProductID],
		ProductParent:    parent,
		ProductTitle:     f[colTitle],
		ReviewDate:       date,
		StarRating:       stars,
		HelpfulVotes:     helpful,
		TotalVotes:       total,
		Vine:             f[colVine],
		VerifiedPurchase: f[colVerified],
	}, nil
}
