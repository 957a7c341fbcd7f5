package server

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/thanhpk/randstr"

	"github.com/harmonix-bot/harmonix-web/entity"
	"github.com/harmonix-bot/harmonix-web/logger"
	"github.com/harmonix-bot/harmonix-web/lyrics"
	"github.com/harmonix-bot/harmonix-web/provider"
	"github.com/harmonix-bot/harmonix-web/recommend"
	"github.com/harmonix-bot/harmonix-web/status"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server exposes search, recommendations, lyrics and node stats over
// HTTP for the web player. Backend failures degrade to empty result
// sets rather than error statuses, so the player can always render.
type Server struct {
	address     string
	recommender *recommend.Resolver
	node        *status.Client
	log         *logger.Logger
}

func New(address string, node *status.Client) *Server {
	return &Server{
		address:     address,
		recommender: recommend.NewResolver(),
		node:        node,
		log:         logger.Build(),
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

type recommendationsRequest struct {
	VideoID        string   `json:"videoId"`
	Title          string   `json:"title"`
	Author         string   `json:"author"`
	ExistingTitles []string `json:"existingTitles"`
}

type lyricsRequest struct {
	VideoID  string `json:"videoId"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Duration int    `json:"duration"`
}

type translationRequest struct {
	Texts          []string `json:"texts"`
	TargetLanguage string   `json:"targetLanguage"`
}

type resultsResponse struct {
	Results []*entity.Track `json:"results"`
}

type lyricsResponse struct {
	Lyrics entity.Lyrics `json:"lyrics,omitempty"`
	Synced bool          `json:"synced,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type translationResponse struct {
	Translations []string `json:"translations"`
}

// Handler assembles the route table
func (server *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", server.post(server.handleSearch))
	mux.HandleFunc("/api/recommendations", server.post(server.handleRecommendations))
	mux.HandleFunc("/api/lyrics", server.post(server.handleLyrics))
	mux.HandleFunc("/api/translate-lyrics", server.post(server.handleTranslation))
	mux.HandleFunc("/api/stats", server.handleStats)
	return server.wrap(mux)
}

// Run serves the API until the listener fails
func (server *Server) Run() error {
	server.log.Info("Listening on " + server.address)
	return http.ListenAndServe(server.address, server.Handler())
}

func (server *Server) handleSearch(writer http.ResponseWriter, request *http.Request) {
	var payload searchRequest
	if err := decode(request, &payload); err != nil || payload.Query == "" {
		respond(writer, http.StatusBadRequest, map[string]string{"error": "missing query"})
		return
	}

	tracks, err := provider.Search(request.Context(), payload.Query)
	if err != nil {
		server.log.Warning("search failed: " + err.Error())
	}
	respond(writer, http.StatusOK, resultsResponse{Results: orEmpty(tracks)})
}

func (server *Server) handleRecommendations(writer http.ResponseWriter, request *http.Request) {
	var payload recommendationsRequest
	if err := decode(request, &payload); err != nil || payload.VideoID == "" {
		respond(writer, http.StatusBadRequest, map[string]string{"error": "missing seed track"})
		return
	}

	seed := entity.NewTrack(payload.VideoID, payload.Title, payload.Author, 0)
	tracks, err := server.recommender.Recommend(request.Context(), seed, payload.ExistingTitles)
	if err != nil {
		server.log.Warning("recommendations failed: " + err.Error())
	}
	respond(writer, http.StatusOK, resultsResponse{Results: orEmpty(tracks)})
}

func (server *Server) handleLyrics(writer http.ResponseWriter, request *http.Request) {
	var payload lyricsRequest
	if err := decode(request, &payload); err != nil || payload.Title == "" {
		respond(writer, http.StatusBadRequest, map[string]string{"error": "missing track"})
		return
	}

	track := entity.NewTrack(payload.VideoID, payload.Title, payload.Author, payload.Duration)
	lines, err := lyrics.Search(track, request.Context())
	if err != nil {
		server.log.Warning("lyrics failed: " + err.Error())
	}
	if len(lines) == 0 {
		respond(writer, http.StatusOK, lyricsResponse{Error: "No lyrics found"})
		return
	}
	respond(writer, http.StatusOK, lyricsResponse{Lyrics: lines, Synced: lines.Synced()})
}

func (server *Server) handleTranslation(writer http.ResponseWriter, request *http.Request) {
	var payload translationRequest
	if err := decode(request, &payload); err != nil || len(payload.Texts) == 0 {
		respond(writer, http.StatusBadRequest, map[string]string{"error": "missing texts"})
		return
	}

	respond(writer, http.StatusOK, translationResponse{
		Translations: lyrics.Translate(payload.Texts, payload.TargetLanguage, request.Context()),
	})
}

func (server *Server) handleStats(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		respond(writer, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	respond(writer, http.StatusOK, server.node.Stats(request.Context()))
}

// wrap handles CORS and tags every request with an identifier for the
// log
func (server *Server) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Access-Control-Allow-Origin", "*")
		writer.Header().Set("Access-Control-Allow-Headers", "authorization, content-type")
		writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if request.Method == http.MethodOptions {
			writer.WriteHeader(http.StatusOK)
			return
		}

		id := randstr.Hex(8)
		writer.Header().Set("X-Request-ID", id)
		server.log.Append(id + " " + request.Method + " " + request.URL.Path)
		next.ServeHTTP(writer, request)
	})
}

func (server *Server) post(handler http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost {
			respond(writer, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		handler(writer, request)
	}
}

func decode(request *http.Request, target any) error {
	return json.NewDecoder(request.Body).Decode(target)
}

func respond(writer http.ResponseWriter, code int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(code)
	_ = json.NewEncoder(writer).Encode(payload)
}

func orEmpty(tracks []*entity.Track) []*entity.Track {
	if tracks == nil {
		return []*entity.Track{}
	}
	return tracks
}
