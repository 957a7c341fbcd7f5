package lyrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/harmonix-bot/harmonix-web/entity"
	"github.com/harmonix-bot/harmonix-web/util"
)

// lyricsOvh is the plain-text fallback: no real timing exists, so
// lines get synthetic timestamps at a fixed interval
type lyricsOvh struct {
	Composer
}

type ovhResponse struct {
	Lyrics string `json:"lyrics"`
}

func (composer lyricsOvh) name() string {
	return "lyrics.ovh"
}

func (composer lyricsOvh) search(track *entity.Track, ctxs ...context.Context) (entity.Lyrics, error) {
	ctx := context.Background()
	if len(ctxs) > 0 {
		ctx = ctxs[0]
	}

	plain, err := composer.get(fmt.Sprintf("https://api.lyrics.ovh/v1/%s/%s",
		url.PathEscape(cleanArtist(track.Author)),
		url.PathEscape(cleanQuery(track.Title))), ctx)
	if err != nil || plain == "" {
		return nil, err
	}

	var lines entity.Lyrics
	for _, text := range strings.Split(plain, "\n") {
		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		lines = append(lines, entity.LyricLine{
			StartTime: len(lines) * entity.PlainLineInterval,
			Text:      text,
		})
	}
	return lines, nil
}

func (composer lyricsOvh) get(url string, ctx context.Context) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	response, err := http.DefaultClient.Do(request)
	if err != nil && errors.Is(err, context.Canceled) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == 404:
		return "", nil
	case response.StatusCode == 429:
		util.SleepUntilRetry(response.Header)
		return composer.get(url, ctx)
	case response.StatusCode != 200:
		return "", errors.New("cannot fetch results on lyrics.ovh: " + response.Status)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	entry := new(ovhResponse)
	if err := json.Unmarshal(body, entry); err != nil {
		return "", err
	}
	return entry.Lyrics, nil
}
