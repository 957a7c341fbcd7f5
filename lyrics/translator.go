package lyrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/arunsworld/nursery"
	"github.com/tidwall/gjson"

	"github.com/harmonix-bot/harmonix-web/util"
)

const (
	// translateBatchSize bounds how many lines get submitted at once,
	// translateBatchPause spaces the batches to stay under rate limits
	translateBatchSize  = 5
	translateBatchPause = 100 * time.Millisecond
	// translateMaxLength truncates a line before submission
	translateMaxLength = 500
)

// Translate renders every line into the target language through the
// MyMemory API. A line that cannot be translated keeps its original
// text, so the result always pairs one-to-one with the input.
func Translate(texts []string, language string, ctxs ...context.Context) []string {
	ctx := util.First(ctxs, context.Background())

	translations := make([]string, len(texts))
	for start := 0; start < len(texts); start += translateBatchSize {
		if start > 0 {
			time.Sleep(translateBatchPause)
		}

		end := start + translateBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		var workers []nursery.ConcurrentJob
		for index := start; index < end; index++ {
			workers = append(workers, func(index int) func(context.Context, chan error) {
				return func(ctx context.Context, ch chan error) {
					translations[index] = translateLine(texts[index], language, ctx)
				}
			}(index))
		}
		_ = nursery.RunConcurrentlyWithContext(ctx, workers...)
	}
	return translations
}

func translateLine(text, language string, ctx context.Context) string {
	line := text
	if len(line) > translateMaxLength {
		line = line[:translateMaxLength]
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("https://api.mymemory.translated.net/get?q=%s&langpair=en|%s",
			url.QueryEscape(line), url.QueryEscape(language)), nil)
	if err != nil {
		return text
	}

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return text
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == 429:
		util.SleepUntilRetry(response.Header)
		return translateLine(text, language, ctx)
	case response.StatusCode != 200:
		return text
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return text
	}

	if translated := gjson.GetBytes(body, "responseData.translatedText").String(); translated != "" {
		return translated
	}
	return text
}
