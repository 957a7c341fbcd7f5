package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/samber/lo"

	"github.com/harmonix-bot/harmonix-web/entity"
	"github.com/harmonix-bot/harmonix-web/provider"
	"github.com/harmonix-bot/harmonix-web/title"
)

// Tunables for the recommendation heuristics. The values below are
// the documented defaults; configuration may override them.
var (
	// MinTrackLength and MaxTrackLength bound accepted result
	// durations, a proxy for "not a clip, not a compilation"
	MinTrackLength = 60 * 1000
	MaxTrackLength = 720 * 1000
	// BatchSize caps accepted candidates per query
	BatchSize = 10
	// EnoughResults is the per-query yield at which the ladder stops
	EnoughResults = 3
)

const (
	cacheSize = 128
	cacheTTL  = 30 * time.Minute
)

// fallbackQuery gets issued when nothing at all could be derived
// from the seed track
const fallbackQuery = "new songs 2024"

// titles indicating non-song content, eg reaction videos or live sets
var uncleanMarkers = []string{
	"official video",
	"music video",
	"lyric video",
	"live at",
	"reaction",
}

// Resolver turns a just-played track into a ranked batch of similar
// tracks, deduplicated against everything the caller already knows
type Resolver struct {
	cache *expirable.LRU[string, []*entity.Track]
}

func NewResolver() *Resolver {
	return &Resolver{
		cache: expirable.NewLRU[string, []*entity.Track](cacheSize, nil, cacheTTL),
	}
}

// Queries builds the ordered ladder of search queries for a seed
// track: genre keywords first, then extracted artist, then
// song-similarity, then a cleaned channel name, then a last resort
func Queries(seed *entity.Track) []string {
	var queries []string

	if keywords := title.GenreKeywords(seed.Title); len(keywords) > 0 {
		if len(keywords) > 2 {
			keywords = keywords[:2]
		}
		queries = append(queries, keywords...)
	}

	if artist := title.ArtistFromTitle(seed.Title); artist != "" {
		queries = append(queries, fmt.Sprintf("%s songs", artist))
	}

	if coreName := title.CoreSongName(seed.Title); len(strings.Fields(coreName)) >= 2 {
		queries = append(queries, fmt.Sprintf("%s similar songs", coreName))
	}

	if len(queries) == 0 {
		if author := title.CleanAuthor(seed.Author); len(author) > 2 {
			queries = append(queries, fmt.Sprintf("%s songs", author))
		}
	}

	if len(queries) == 0 {
		queries = append(queries, fallbackQuery)
	}

	return queries
}

// Recommend walks the query ladder and returns up to BatchSize clean,
// non-duplicate tracks, stopping at the first query yielding enough.
// An empty result is not an error; callers surface it as such.
func (resolver *Resolver) Recommend(ctx context.Context, seed *entity.Track, existingTitles []string) ([]*entity.Track, error) {
	if cached, ok := resolver.cache.Get(seed.ID); ok {
		return freshOnly(cached, seed, existingTitles), nil
	}

	var (
		allTitles = append([]string{seed.Title}, existingTitles...)
		collected []*entity.Track
		lastErr   error
	)
	for _, query := range Queries(seed) {
		accepted, err := resolver.runQuery(ctx, query, seed, allTitles)
		if err != nil {
			lastErr = err
			continue
		}
		if len(accepted) >= EnoughResults {
			resolver.cache.Add(seed.ID, accepted)
			return accepted, nil
		}
		if len(accepted) > len(collected) {
			collected = accepted
		}
	}

	if len(collected) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return collected, nil
}

func (resolver *Resolver) runQuery(ctx context.Context, query string, seed *entity.Track, existingTitles []string) ([]*entity.Track, error) {
	results, err := provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	var (
		acceptedTitles = append([]string{}, existingTitles...)
		accepted       []*entity.Track
	)
	for _, track := range results {
		if track.ID == seed.ID {
			continue
		}
		if !CleanSong(track.Title) {
			continue
		}
		if track.Length < MinTrackLength || track.Length > MaxTrackLength {
			continue
		}
		if title.DuplicateOfAny(acceptedTitles, track.Title) {
			continue
		}

		acceptedTitles = append(acceptedTitles, track.Title)
		accepted = append(accepted, track)
		if len(accepted) >= BatchSize {
			break
		}
	}
	return accepted, nil
}

// freshOnly re-applies the caller-side dedupe to a cached batch: the
// caller's queue may have changed since the batch got cached
func freshOnly(tracks []*entity.Track, seed *entity.Track, existingTitles []string) []*entity.Track {
	knownTitles := append([]string{seed.Title}, existingTitles...)

	var fresh []*entity.Track
	for _, track := range tracks {
		if track.ID == seed.ID {
			continue
		}
		if title.DuplicateOfAny(knownTitles, track.Title) {
			continue
		}
		knownTitles = append(knownTitles, track.Title)
		fresh = append(fresh, track)
	}
	return fresh
}

// CleanSong reports whether a title looks like an actual song rather
// than a video page, live set or reaction
func CleanSong(songTitle string) bool {
	lower := strings.ToLower(songTitle)
	return !lo.SomeBy(uncleanMarkers, func(marker string) bool {
		return strings.Contains(lower, marker)
	})
}
