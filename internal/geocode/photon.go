package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/event-weather-advisor/internal/common"
	"github.com/i474232898/event-weather-advisor/internal/weather"
)

const defaultPhotonURL = "https://photon.komoot.io/api/"

// Photon resolves locations with the Komoot Photon API.
type Photon struct {
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewPhoton(baseURL string, client *http.Client, retries int) *Photon {
	if baseURL == "" {
		baseURL = defaultPhotonURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Photon{
		baseURL: baseURL,
		httpCfg: common.HTTPClientConfig{
			Client:    client,
			Backoff:   common.DefaultBackoff(retries),
			UserAgent: "event-weather-advisor",
		},
		circuit: common.NewBreaker("photon"),
	}
}

type photonResponse struct {
	Features []struct {
		Geometry struct {
			// GeoJSON order: [lon, lat].
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func (p *Photon) Resolve(ctx context.Context, text string) (*weather.Coordinates, error) {
	values := url.Values{}
	values.Set("q", text)
	values.Set("limit", "1")
	values.Set("lang", "en")

	var payload photonResponse
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := common.GetJSON(ctx, p.httpCfg, p.circuit, u, nil, &payload); err != nil {
		return nil, fmt.Errorf("photon: %w", err)
	}

	if len(payload.Features) == 0 || len(payload.Features[0].Geometry.Coordinates) < 2 {
		return nil, ErrNoMatch
	}
	c := payload.Features[0].Geometry.Coordinates
	return &weather.Coordinates{Latitude: c[1], Longitude: c[0]}, nil
}
