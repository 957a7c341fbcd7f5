package lyrics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
	"github.com/gosimple/slug"
	jsoniter "github.com/json-iterator/go"

	"github.com/harmonix-bot/harmonix-web/entity"
	"github.com/harmonix-bot/harmonix-web/util"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Composer defines the generic interface on which every lyrics source
// should be basing its logic
type Composer interface {
	name() string
	search(track *entity.Track, ctxs ...context.Context) (entity.Lyrics, error)
}

// sources get tried in order, first usable result wins
func all() []Composer {
	return []Composer{
		new(captions),
		new(lrcLib),
		new(lyricsOvh),
	}
}

var (
	reQueryParens   = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]|\{[^}]*\}`)
	reQueryNoise    = regexp.MustCompile(`official\s+video|official\s+audio|music\s+video|lyric\s+video|lyrics|remastered|remix`)
	reQueryFeat     = regexp.MustCompile(`feat\.?|ft\.?`)
	reQueryTrailers = regexp.MustCompile(`\|.*|-.*`)
	reArtistNoise   = regexp.MustCompile(`(?i)VEVO|Official|Topic`)
	reQuerySpaces   = regexp.MustCompile(`\s+`)
)

// cleanQuery reduces an upstream video title into the form
// lyrics databases are most likely to index
func cleanQuery(title string) string {
	title = strings.ToLower(title)
	title = reQueryParens.ReplaceAllString(title, "")
	title = reQueryNoise.ReplaceAllString(title, "")
	title = reQueryFeat.ReplaceAllString(title, "")
	title = reQueryTrailers.ReplaceAllString(title, "")
	return strings.TrimSpace(reQuerySpaces.ReplaceAllString(title, " "))
}

func cleanArtist(artist string) string {
	return strings.TrimSpace(reArtistNoise.ReplaceAllString(artist, ""))
}

// the cache is keyed on the track identifier: tracks without one have
// no path and bypass the cache entirely
func cachePath(track *entity.Track) string {
	if track.ID == "" {
		return ""
	}

	basename := fmt.Sprintf("%s.json", slug.Make(track.ID))
	path, err := xdg.CacheFile(filepath.Join("harmonix", basename))
	if err != nil {
		return filepath.Join("tmp", basename)
	}
	return path
}

// Search resolves lyrics for the given track trying every source in
// priority order. Not found entries return no error.
func Search(track *entity.Track, ctxs ...context.Context) (entity.Lyrics, error) {
	ctx := util.First(ctxs, context.Background())

	if path := cachePath(track); path != "" {
		if bytes, err := os.ReadFile(path); err == nil {
			var cached entity.Lyrics
			if err := json.Unmarshal(bytes, &cached); err == nil && len(cached) > 0 {
				return cached, nil
			}
		}
	}

	var lastErr error
	for _, composer := range all() {
		lines, err := composer.search(track, ctx)
		if err != nil {
			lastErr = fmt.Errorf("cannot fetch lyrics on %s: %w", composer.name(), err)
			continue
		}
		if len(lines) == 0 {
			continue
		}

		if path := cachePath(track); path != "" {
			if bytes, err := json.Marshal(lines); err == nil {
				if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err == nil {
					_ = os.WriteFile(path, bytes, 0o600)
				}
			}
		}
		return lines, nil
	}

	return nil, lastErr
}
