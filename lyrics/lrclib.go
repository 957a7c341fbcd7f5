package lyrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/harmonix-bot/harmonix-web/entity"
	"github.com/harmonix-bot/harmonix-web/util"
)

// tolerated gap between the nominal track length and a candidate's
// declared duration, in seconds
const durationTolerance = 15

type lrcLib struct {
	Composer
}

type lrcLibEntry struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	SyncedLyrics string  `json:"syncedLyrics"`
	Duration     float64 `json:"duration"`
}

func (composer lrcLib) name() string {
	return "lrclib"
}

func (composer lrcLib) search(track *entity.Track, ctxs ...context.Context) (entity.Lyrics, error) {
	ctx := context.Background()
	if len(ctxs) > 0 {
		ctx = ctxs[0]
	}

	var (
		cleanedTitle  = cleanQuery(track.Title)
		cleanedArtist = cleanArtist(track.Author)
	)
	for _, query := range []string{
		fmt.Sprintf("%s %s", cleanedArtist, cleanedTitle),
		cleanedTitle,
	} {
		entries, err := composer.get(fmt.Sprintf("https://lrclib.net/api/search?q=%s",
			url.QueryEscape(strings.TrimSpace(query))), ctx)
		if err != nil {
			return nil, err
		}

		if entry := pickCandidate(entries, cleanedArtist, track.Length); entry != nil {
			if lines := parseLrc(entry.SyncedLyrics); len(lines) > 0 {
				return lines, nil
			}
		}
	}
	return nil, nil
}

// pickCandidate filters synced entries by fuzzy artist match and,
// where the nominal length is known, by duration proximity; falls
// back to artist match alone if no candidate is close enough in time
func pickCandidate(entries []lrcLibEntry, artist string, lengthMs int) *lrcLibEntry {
	var artistOnly *lrcLibEntry
	for i := range entries {
		entry := &entries[i]
		if entry.SyncedLyrics == "" || !artistMatches(entry.ArtistName, artist) {
			continue
		}

		if lengthMs > 0 {
			gap := entry.Duration - float64(lengthMs)/1000
			if gap < 0 {
				gap = -gap
			}
			if gap <= durationTolerance {
				return entry
			}
		}
		if artistOnly == nil {
			artistOnly = entry
		}
	}
	return artistOnly
}

func artistMatches(candidate, artist string) bool {
	if artist == "" {
		return true
	}

	var (
		flatCandidate = strings.ToLower(strings.TrimSpace(candidate))
		flatArtist    = strings.ToLower(artist)
	)
	if strings.Contains(flatCandidate, flatArtist) || strings.Contains(flatArtist, flatCandidate) {
		return true
	}
	return levenshtein.ComputeDistance(flatCandidate, flatArtist) <= 2
}

func (composer lrcLib) get(url string, ctx context.Context) ([]lrcLibEntry, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	response, err := http.DefaultClient.Do(request)
	if err != nil && errors.Is(err, context.Canceled) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == 404:
		return nil, nil
	case response.StatusCode == 429:
		util.SleepUntilRetry(response.Header)
		return composer.get(url, ctx)
	case response.StatusCode != 200:
		return nil, errors.New("cannot fetch results on lrclib: " + response.Status)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	var entries []lrcLibEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
