package lyrics

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/harmonix-bot/harmonix-web/entity"
	"github.com/harmonix-bot/harmonix-web/util"
)

// captions pulls timed lines off the video platform's own caption
// tracks, the most accurately timed source available
type captions struct {
	Composer
}

var (
	reCaptionTracks = regexp.MustCompile(`"captionTracks":(\[.+?\])`)
	reCaptionCue    = regexp.MustCompile(`<text start="([\d.]+)" dur="([\d.]+)"[^>]*>([^<]+)</text>`)
)

func (composer captions) name() string {
	return "captions"
}

func (composer captions) search(track *entity.Track, ctxs ...context.Context) (entity.Lyrics, error) {
	ctx := context.Background()
	if len(ctxs) > 0 {
		ctx = ctxs[0]
	}

	page, err := composer.get(fmt.Sprintf("https://www.youtube.com/watch?v=%s", track.ID), ctx)
	if err != nil || page == nil {
		return nil, err
	}

	match := reCaptionTracks.FindSubmatch(page)
	if match == nil {
		return nil, nil
	}

	trackURL := pickCaptionTrack(string(match[1]))
	if trackURL == "" {
		return nil, nil
	}

	transcript, err := composer.get(trackURL, ctx)
	if err != nil || transcript == nil {
		return nil, err
	}

	var lines entity.Lyrics
	for _, cue := range reCaptionCue.FindAllSubmatch(transcript, -1) {
		text := strings.TrimSpace(html.UnescapeString(string(cue[3])))
		// skip non-lyrical cues, eg [Music] or (Applause)
		if text == "" || strings.HasPrefix(text, "[") || strings.HasPrefix(text, "(") {
			continue
		}

		start, err := strconv.ParseFloat(string(cue[1]), 64)
		if err != nil {
			continue
		}

		lines = append(lines, entity.LyricLine{
			StartTime: int(start * 1000),
			Text:      text,
		})
	}
	return lines, nil
}

// pickCaptionTrack chooses the track to transcribe, preferring a
// plain English one over auto-generated English over whatever is first
func pickCaptionTrack(tracksJSON string) string {
	var first, english, autoEnglish string
	gjson.Parse(tracksJSON).ForEach(func(key, value gjson.Result) bool {
		url := value.Get("baseUrl").String()
		if url == "" {
			return true
		}
		if first == "" {
			first = url
		}
		if value.Get("languageCode").String() == "en" {
			if value.Get("kind").String() == "asr" {
				autoEnglish = url
			} else if english == "" {
				english = url
			}
		}
		return true
	})

	switch {
	case english != "":
		return english
	case autoEnglish != "":
		return autoEnglish
	default:
		return first
	}
}

func (composer captions) get(url string, ctx context.Context) ([]byte, error) {
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
		return nil, errors.New("cannot fetch results on youtube: " + response.Status)
	}

	return io.ReadAll(response.Body)
}
