package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"github.com/harmonix-bot/harmonix-web/entity"
	"github.com/harmonix-bot/harmonix-web/util"
)

// songsFilter restricts results to the Songs category of the music
// catalog, cutting most non-song noise out of the scrape
const songsFilter = "Eg-KAQwIARAA"

// resultCap bounds how many results a single search may return
const resultCap = 10

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type youTube struct {
	Provider
}

func init() {
	providers = append(providers, youTube{})
}

func (provider youTube) search(ctx context.Context, query string) ([]*entity.Track, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("https://www.youtube.com/results?search_query=%s&sp=%s",
			url.QueryEscape(query), songsFilter), nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept-Language", "en-US,en;q=0.9")

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != 200 {
		return nil, errors.New("cannot fetch results on youtube: " + response.Status)
	}

	document, err := goquery.NewDocumentFromReader(response.Body)
	if err != nil {
		return nil, err
	}

	resultJSON := strings.Join(document.Find("script").Map(func(i int, selection *goquery.Selection) string {
		if !strings.HasPrefix(strings.TrimPrefix(selection.Text(), " "), "var ytInitialData =") {
			return ""
		}
		return strings.TrimSuffix(strings.TrimSpace(selection.Text()[19:]), ";")
	}), "")

	var tracks []*entity.Track
	gjson.Get(resultJSON, "contents.twoColumnSearchResultsRenderer.primaryContents.sectionListRenderer.contents.0.itemSectionRenderer.contents").
		ForEach(func(key, value gjson.Result) bool {
			video := value.Get("videoRenderer")
			if !video.Exists() {
				return true
			}

			var (
				id         = video.Get("videoId").String()
				title      = video.Get("title.runs.0.text").String()
				author     = video.Get("ownerText.runs.0.text").String()
				lengthText = video.Get("lengthText.simpleText").String()
			)
			if id == "" || title == "" || strings.Contains(lengthText, "LIVE") {
				return true
			}

			track := entity.NewTrack(id, title, author, ParseLength(lengthText))
			tracks = append(tracks, track)
			return len(tracks) < resultCap
		})

	return tracks, nil
}

// ParseLength converts a [hh:]mm:ss result duration label
// into milliseconds, zero on anything unparsable
func ParseLength(label string) int {
	digits := strings.Split(label, ":")
	seconds := 0
	for _, digit := range digits {
		seconds = seconds*60 + util.ErrWrap(0)(strconv.Atoi(digit))
	}
	if len(digits) < 2 || len(digits) > 3 {
		return 0
	}
	return seconds * 1000
}
