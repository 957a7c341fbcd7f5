package provider

import (
	"context"

	"github.com/harmonix-bot/harmonix-web/entity"
)

var providers = []Provider{}

// Provider defines the generic interface on which every search
// surface should be basing its logic
type Provider interface {
	search(ctx context.Context, query string) ([]*entity.Track, error)
}

// Search issues the query against every registered search surface,
// returning the first surface's results that turn up non-empty
func Search(ctx context.Context, query string) ([]*entity.Track, error) {
	var lastErr error
	for _, provider := range providers {
		tracks, err := provider.search(ctx, query)
		if err != nil {
			lastErr = err
			continue
		}
		if len(tracks) > 0 {
			return tracks, nil
		}
	}
	return nil, lastErr
}
