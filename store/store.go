package store

import (
	"context"
	"errors"
	"time"

	"github.com/arunsworld/nursery"
	"github.com/go-resty/resty/v2"

	"github.com/harmonix-bot/harmonix-web/entity"
)

const historyLimit = 50

// ErrNoSession rejects persistence operations issued without a signed
// in user. Callers surface it as a sign-in prompt, not a failure.
var ErrNoSession = errors.New("no active session")

// Record is a persisted favorite or history row.
type Record struct {
	UserID   string `json:"user_id"`
	TrackID  string `json:"track_id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Length   int    `json:"length"`
	PlayedAt string `json:"played_at,omitempty"`
}

func (record Record) track() *entity.Track {
	return entity.NewTrack(record.TrackID, record.Title, record.Author, record.Length)
}

// Client persists favorites and playback history against the managed
// data store's REST surface, keyed by user and track identifier.
type Client struct {
	http   *resty.Client
	userID string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("apikey", apiKey).
			SetAuthToken(apiKey).
			SetTimeout(10 * time.Second),
	}
}

// SetSession binds subsequent calls to the given user, an empty
// identifier meaning signed out
func (client *Client) SetSession(userID string) {
	client.userID = userID
}

func (client *Client) ensureSession() error {
	if client.userID == "" {
		return ErrNoSession
	}
	return nil
}

// Favorites lists the user's saved tracks, newest first
func (client *Client) Favorites(ctx context.Context) ([]*entity.Track, error) {
	if err := client.ensureSession(); err != nil {
		return nil, err
	}
	return client.list(ctx, "favorites", map[string]string{"order": "created_at.desc"})
}

// History lists the user's most recently played tracks, capped at 50
func (client *Client) History(ctx context.Context) ([]*entity.Track, error) {
	if err := client.ensureSession(); err != nil {
		return nil, err
	}

	tracks, err := client.list(ctx, "history", map[string]string{
		"order": "played_at.desc",
		"limit": "50",
	})
	if err != nil {
		return nil, err
	}
	if len(tracks) > historyLimit {
		tracks = tracks[:historyLimit]
	}
	return tracks, nil
}

// Load fetches favorites and history concurrently, for the initial
// page fill
func (client *Client) Load(ctx context.Context) (favorites, history []*entity.Track, err error) {
	err = nursery.RunConcurrentlyWithContext(ctx,
		func(ctx context.Context, ch chan error) {
			tracks, err := client.Favorites(ctx)
			if err != nil {
				ch <- err
				return
			}
			favorites = tracks
		},
		func(ctx context.Context, ch chan error) {
			tracks, err := client.History(ctx)
			if err != nil {
				ch <- err
				return
			}
			history = tracks
		})
	return favorites, history, err
}

// AddFavorite saves a track for the user
func (client *Client) AddFavorite(ctx context.Context, track *entity.Track) error {
	if err := client.ensureSession(); err != nil {
		return err
	}
	return client.insert(ctx, "favorites", Record{
		UserID:  client.userID,
		TrackID: track.ID,
		Title:   track.Title,
		Author:  track.Author,
		Length:  track.Length,
	})
}

// RemoveFavorite drops a saved track
func (client *Client) RemoveFavorite(ctx context.Context, trackID string) error {
	if err := client.ensureSession(); err != nil {
		return err
	}

	response, err := client.http.R().
		SetContext(ctx).
		SetQueryParam("user_id", "eq."+client.userID).
		SetQueryParam("track_id", "eq."+trackID).
		Delete("/rest/v1/favorites")
	if err != nil {
		return err
	}
	if response.IsError() {
		return errors.New("cannot persist on store: " + response.Status())
	}
	return nil
}

// AddHistory records a playback event
func (client *Client) AddHistory(ctx context.Context, track *entity.Track) error {
	if err := client.ensureSession(); err != nil {
		return err
	}
	return client.insert(ctx, "history", Record{
		UserID:   client.userID,
		TrackID:  track.ID,
		Title:    track.Title,
		Author:   track.Author,
		Length:   track.Length,
		PlayedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (client *Client) list(ctx context.Context, table string, query map[string]string) ([]*entity.Track, error) {
	var records []Record
	response, err := client.http.R().
		SetContext(ctx).
		SetQueryParam("user_id", "eq."+client.userID).
		SetQueryParams(query).
		SetResult(&records).
		Get("/rest/v1/" + table)
	if err != nil {
		return nil, err
	}
	if response.IsError() {
		return nil, errors.New("cannot fetch records on store: " + response.Status())
	}

	tracks := make([]*entity.Track, 0, len(records))
	for _, record := range records {
		tracks = append(tracks, record.track())
	}
	return tracks, nil
}

func (client *Client) insert(ctx context.Context, table string, record Record) error {
	response, err := client.http.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody(record).
		Post("/rest/v1/" + table)
	if err != nil {
		return err
	}
	if response.IsError() {
		return errors.New("cannot persist on store: " + response.Status())
	}
	return nil
}
