package source

import (
	"context"
	"fmt"

	"github.com/aaron-ardell/Amazon-Vine-Analysis/internal/domain"
)

// ReviewSource glues the fetch client and the decoder into the domain port.
type ReviewSource struct {
	client *Client
	dec    *Decoder
}

func New(client *Client, dec *Decoder) *ReviewSource {
	return &ReviewSource{client: client, dec: dec}
}

func (s *ReviewSource) Load(ctx context.Context, src string) ([]domain.Review, domain.SourceStats, error) {
	rc, err := s.client.Fetch(ctx, src)
	if err != nil {
		return nil, domain.SourceStats{}, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer rc.Close()

	return s.dec.Decode(rc)
}
