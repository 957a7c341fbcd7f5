package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/agiledragon/gomonkey/v2"
	"github.com/stretchr/testify/assert"

	"github.com/harmonix-bot/harmonix-web/entity"
	"github.com/harmonix-bot/harmonix-web/lyrics"
	"github.com/harmonix-bot/harmonix-web/provider"
	"github.com/harmonix-bot/harmonix-web/recommend"
	"github.com/harmonix-bot/harmonix-web/status"
)

func testServer() *Server {
	return New(":0", status.NewClient("http://127.0.0.1:1", "secret"))
}

func post(handler http.Handler, path, payload string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestSearchHandler(t *testing.T) {
	// monkey patching
	defer gomonkey.ApplyFunc(provider.Search, func(ctx context.Context, query string) ([]*entity.Track, error) {
		return []*entity.Track{entity.NewTrack("id123", "Believer", "ImagineDragonsVEVO", 204000)}, nil
	}).Reset()

	// testing
	recorder := post(testServer().Handler(), "/api/search", `{"query":"believer"}`)
	assert.Equal(t, 200, recorder.Code)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	var response resultsResponse
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Len(t, response.Results, 1)
	assert.Equal(t, "id123", response.Results[0].ID)
}

func TestSearchHandlerFailureDegrades(t *testing.T) {
	// monkey patching
	defer gomonkey.ApplyFunc(provider.Search, func(ctx context.Context, query string) ([]*entity.Track, error) {
		return nil, errors.New("ko")
	}).Reset()

	// testing
	recorder := post(testServer().Handler(), "/api/search", `{"query":"believer"}`)
	assert.Equal(t, 200, recorder.Code)
	assert.JSONEq(t, `{"results":[]}`, recorder.Body.String())
}

func TestSearchHandlerBadRequest(t *testing.T) {
	assert.Equal(t, 400, post(testServer().Handler(), "/api/search", `{}`).Code)
	assert.Equal(t, 400, post(testServer().Handler(), "/api/search", `not json`).Code)
}

func TestSearchHandlerMethod(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	recorder := httptest.NewRecorder()
	testServer().Handler().ServeHTTP(recorder, request)
	assert.Equal(t, 405, recorder.Code)
}

func TestRecommendationsHandler(t *testing.T) {
	// monkey patching
	defer gomonkey.ApplyMethod(reflect.TypeOf(&recommend.Resolver{}), "Recommend",
		func(_ *recommend.Resolver, ctx context.Context, seed *entity.Track, existingTitles []string) ([]*entity.Track, error) {
			assert.Equal(t, "seed", seed.ID)
			assert.Equal(t, []string{"Queued Song"}, existingTitles)
			return []*entity.Track{entity.NewTrack("r1", "Thunder", "ImagineDragonsVEVO", 187000)}, nil
		}).Reset()

	// testing
	recorder := post(testServer().Handler(), "/api/recommendations",
		`{"videoId":"seed","title":"Believer","author":"ImagineDragonsVEVO","existingTitles":["Queued Song"]}`)
	assert.Equal(t, 200, recorder.Code)

	var response resultsResponse
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Len(t, response.Results, 1)
	assert.Equal(t, "r1", response.Results[0].ID)
}

func TestLyricsHandler(t *testing.T) {
	// monkey patching
	defer gomonkey.ApplyFunc(lyrics.Search, func(track *entity.Track, ctxs ...context.Context) (entity.Lyrics, error) {
		return entity.Lyrics{{StartTime: 0, Text: "hello"}, {StartTime: 1200, Text: "world"}}, nil
	}).Reset()

	// testing
	recorder := post(testServer().Handler(), "/api/lyrics",
		`{"videoId":"id123","title":"Believer","author":"Imagine Dragons","duration":204000}`)
	assert.Equal(t, 200, recorder.Code)
	assert.JSONEq(t, `{"lyrics":[{"time":0,"text":"hello"},{"time":1200,"text":"world"}],"synced":true}`,
		recorder.Body.String())
}

func TestLyricsHandlerPlainTiming(t *testing.T) {
	// synthetic spacing is flagged so the player can skip highlighting
	defer gomonkey.ApplyFunc(lyrics.Search, func(track *entity.Track, ctxs ...context.Context) (entity.Lyrics, error) {
		return entity.Lyrics{
			{StartTime: 0, Text: "hello"},
			{StartTime: entity.PlainLineInterval, Text: "world"},
		}, nil
	}).Reset()

	// testing
	recorder := post(testServer().Handler(), "/api/lyrics", `{"videoId":"id123","title":"Believer"}`)
	assert.Equal(t, 200, recorder.Code)
	assert.JSONEq(t,
		`{"lyrics":[{"time":0,"text":"hello"},{"time":3000,"text":"world"}]}`,
		recorder.Body.String())
}

func TestLyricsHandlerNotFound(t *testing.T) {
	// monkey patching
	defer gomonkey.ApplyFunc(lyrics.Search, func(track *entity.Track, ctxs ...context.Context) (entity.Lyrics, error) {
		return nil, nil
	}).Reset()

	// testing
	recorder := post(testServer().Handler(), "/api/lyrics", `{"videoId":"id123","title":"Believer"}`)
	assert.Equal(t, 200, recorder.Code)
	assert.JSONEq(t, `{"error":"No lyrics found"}`, recorder.Body.String())
}

func TestTranslationHandler(t *testing.T) {
	// monkey patching
	defer gomonkey.ApplyFunc(lyrics.Translate, func(texts []string, language string, ctxs ...context.Context) []string {
		assert.Equal(t, "it", language)
		return []string{"ciao", "mondo"}
	}).Reset()

	// testing
	recorder := post(testServer().Handler(), "/api/translate-lyrics",
		`{"texts":["hello","world"],"targetLanguage":"it"}`)
	assert.Equal(t, 200, recorder.Code)
	assert.JSONEq(t, `{"translations":["ciao","mondo"]}`, recorder.Body.String())
}

func TestTranslationHandlerBadRequest(t *testing.T) {
	assert.Equal(t, 400, post(testServer().Handler(), "/api/translate-lyrics", `{}`).Code)
	assert.Equal(t, 400, post(testServer().Handler(), "/api/translate-lyrics", `{"texts":[]}`).Code)
}

func TestStatsHandler(t *testing.T) {
	node := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"players":1,"playingPlayers":1,"uptime":1000,` +
			`"memory":{"free":1,"used":1,"allocated":1,"reservable":1},` +
			`"cpu":{"cores":1,"systemLoad":0.1,"lavalinkLoad":0.1}}`))
	}))
	defer node.Close()

	server := New(":0", status.NewClient(node.URL, "secret"))
	request := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, request)

	assert.Equal(t, 200, recorder.Code)
	var stats status.Stats
	assert.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &stats))
	assert.True(t, stats.Online)
}

func TestStatsHandlerOffline(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	recorder := httptest.NewRecorder()
	testServer().Handler().ServeHTTP(recorder, request)

	assert.Equal(t, 200, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"online":false`)
}

func TestPreflight(t *testing.T) {
	request := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	recorder := httptest.NewRecorder()
	testServer().Handler().ServeHTTP(recorder, request)

	assert.Equal(t, 200, recorder.Code)
	assert.Equal(t, "GET, POST, OPTIONS", recorder.Header().Get("Access-Control-Allow-Methods"))
}
