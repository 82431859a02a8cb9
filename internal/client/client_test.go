package client

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"geoparty/pkg/geom"
	"geoparty/pkg/guess"
)

func TestRoundState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/round_state/abc" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"ok":true,"players":["Alice","Bob"],"guesses":{"Alice":{"x":10,"y":20},"Bob":[3,4],"Eve":"bad"},"map":"/uploads/maps/w.png","width":1600,"height":900}`))
	}))
	defer srv.Close()

	rs, err := New(srv.URL+"/").RoundState(context.Background(), "abc")
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Players) != 2 || rs.Natural != geom.Sz(1600, 900) || rs.Map != "/uploads/maps/w.png" {
		t.Errorf("RoundState = %+v", rs)
	}
	if len(rs.Guesses) != 2 || rs.Guesses["Bob"] != geom.Pt(3, 4) {
		t.Errorf("Guesses = %v", rs.Guesses)
	}
}

func TestSubmitGuessSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got map[string]any
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}
		if got["round_id"] != "r1" || got["player"] != "Alice" || got["x"] != 12.0 || got["y"] != 34.0 {
			t.Errorf("body = %v", got)
		}
		w.Write([]byte(`{"ok":true,"guesses":{"Alice":{"x":12,"y":34}}}`))
	}))
	defer srv.Close()

	guesses, err := New(srv.URL).SubmitGuess(context.Background(), "r1", "Alice", geom.Pt(12, 34))
	if err != nil {
		t.Fatal(err)
	}
	if guesses["Alice"] != geom.Pt(12, 34) {
		t.Errorf("guesses = %v", guesses)
	}
}

func TestRejectedCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"error":"That player name already exists."}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).AddPlayer(context.Background(), "alice")
	var rej *guess.RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("err = %v, want *guess.RejectedError", err)
	}
	if rej.Message != "That player name already exists." {
		t.Errorf("Message = %q", rej.Message)
	}
}

func TestUnreadableBodyIsNotRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).AddPlayer(context.Background(), "alice")
	var rej *guess.RejectedError
	if err == nil || errors.As(err, &rej) {
		t.Errorf("err = %v, want a plain error", err)
	}
}

func TestFetchMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uploads/maps/w.png" {
			http.NotFound(w, r)
			return
		}
		png.Encode(w, image.NewRGBA(image.Rect(0, 0, 8, 5)))
	}))
	defer srv.Close()

	c := New(srv.URL)
	img, err := c.FetchMap(context.Background(), "/uploads/maps/w.png")
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 5 {
		t.Errorf("bounds = %v, want 8x5", b)
	}
	if _, err := c.FetchMap(context.Background(), "/uploads/maps/missing.png"); err == nil {
		t.Error("FetchMap(missing) succeeded")
	}
}

func TestCurrentRound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/current" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"ok":true,"round_id":"abc","number":2,"total":3}`))
	}))
	defer srv.Close()

	id, err := New(srv.URL).CurrentRound(context.Background())
	if err != nil || id != "abc" {
		t.Errorf("CurrentRound() = %q, %v, want abc", id, err)
	}
}
