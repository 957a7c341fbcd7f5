package status

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// PollInterval paces the display poller. The value below is the
// documented default; configuration may override it.
var PollInterval = 30 * time.Second

// Memory mirrors the audio node's JVM memory report.
type Memory struct {
	Free       int64 `json:"free"`
	Used       int64 `json:"used"`
	Allocated  int64 `json:"allocated"`
	Reservable int64 `json:"reservable"`
}

// CPU mirrors the audio node's load report.
type CPU struct {
	Cores        int     `json:"cores"`
	SystemLoad   float64 `json:"systemLoad"`
	LavalinkLoad float64 `json:"lavalinkLoad"`
}

// Stats is the audio node health snapshot shown on the status card.
type Stats struct {
	Online         bool   `json:"online"`
	Players        int    `json:"players"`
	PlayingPlayers int    `json:"playingPlayers"`
	Uptime         int64  `json:"uptime"`
	Memory         Memory `json:"memory"`
	CPU            CPU    `json:"cpu"`
}

// Client reads health snapshots off the audio node's REST surface.
type Client struct {
	http *resty.Client
}

func NewClient(host, password string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(host).
			SetHeader("Authorization", password).
			SetTimeout(10 * time.Second),
	}
}

// Stats fetches the node health snapshot. An unreachable or failing
// node is not an error, it reports as offline so the caller can render
// a degraded card.
func (client *Client) Stats(ctx context.Context) Stats {
	var stats Stats
	response, err := client.http.R().
		SetContext(ctx).
		SetResult(&stats).
		Get("/v4/stats")
	if err != nil || response.IsError() {
		return Stats{}
	}

	stats.Online = true
	return stats
}

// Poll delivers a snapshot to the sink immediately and then on every
// PollInterval tick, until the context ends
func (client *Client) Poll(ctx context.Context, sink func(Stats)) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	sink(client.Stats(ctx))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sink(client.Stats(ctx))
		}
	}
}
