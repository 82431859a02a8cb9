// Package client talks to a geoparty server's JSON API on behalf of the
// desktop guess screen.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	_ "golang.org/x/image/webp"

	"geoparty/pkg/geom"
	"geoparty/pkg/guess"
	"geoparty/pkg/overlay"
)

const maxResponseBytes = 1 << 20

// Client implements guess.Backend over HTTP.
type Client struct {
	base string
	http *http.Client
}

var _ guess.Backend = (*Client)(nil)

// New returns a client for the server at base, e.g. "http://10.0.0.5:8080".
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Base is the server address requests go to.
func (c *Client) Base() string { return c.base }

// envelope is the shape shared by every API response.
type envelope struct {
	OK      bool            `json:"ok"`
	Error   string          `json:"error"`
	RoundID string          `json:"round_id"`
	Players []string        `json:"players"`
	Guesses json.RawMessage `json:"guesses"`
	Added   string          `json:"added"`
	Map     string          `json:"map"`
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
}

// CurrentRound returns the id of the round the host is showing.
func (c *Client) CurrentRound(ctx context.Context) (string, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/current", nil, &env); err != nil {
		return "", err
	}
	return env.RoundID, nil
}

func (c *Client) RoundState(ctx context.Context, roundID string) (guess.RoundState, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/round_state/"+url.PathEscape(roundID), nil, &env); err != nil {
		return guess.RoundState{}, err
	}
	return guess.RoundState{
		Players: env.Players,
		Guesses: overlay.ParseGuesses(env.Guesses),
		Map:     env.Map,
		Natural: geom.Sz(env.Width, env.Height),
	}, nil
}

func (c *Client) AddPlayer(ctx context.Context, name string) (guess.Added, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/add_player", map[string]any{"name": name}, &env); err != nil {
		return guess.Added{}, err
	}
	return guess.Added{Players: env.Players, Name: env.Added}, nil
}

func (c *Client) SubmitGuess(ctx context.Context, roundID, player string, p geom.Point) (map[string]geom.Point, error) {
	body := map[string]any{"round_id": roundID, "player": player, "x": p.X, "y": p.Y}
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/guess", body, &env); err != nil {
		return nil, err
	}
	return overlay.ParseGuesses(env.Guesses), nil
}

// do sends one request. A response with ok=false becomes a
// *guess.RejectedError carrying the server's message; transport failures
// and unreadable bodies are returned as they are.
func (c *Client) do(ctx context.Context, method, path string, payload any, out *envelope) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %s: %w", method, path, resp.Status, err)
	}
	if !out.OK {
		return &guess.RejectedError{Message: out.Error}
	}
	return nil
}

// FetchMap downloads and decodes the map image at ref, which may be a path
// on the server or an absolute URL.
func (c *Client) FetchMap(ctx context.Context, ref string) (image.Image, error) {
	target := ref
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		target = c.base + "/" + strings.TrimLeft(ref, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %v: %v", target, resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", target, err)
	}
	return img, nil
}
