package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"geoparty/internal/game"
	"geoparty/pkg/geom"
)

const maxAPIBody = 64 << 10

var (
	addPlayerSchema = jsonschema.MustCompileString("mem://schemas/add_player.json", `{
		"type": "object",
		"properties": {"name": {"type": "string"}}
	}`)
	guessSchema = jsonschema.MustCompileString("mem://schemas/guess.json", `{
		"type": "object",
		"properties": {
			"round_id": {"type": "string"},
			"player": {"type": "string"},
			"x": {"type": ["number", "string", "null"]},
			"y": {"type": ["number", "string", "null"]}
		}
	}`)
)

// APIHandler serves the JSON endpoints used by the guess clients.
type APIHandler struct {
	store *game.Store
}

func NewAPIHandler(store *game.Store) *APIHandler {
	return &APIHandler{store: store}
}

func (h *APIHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/current", h.current)
		r.Get("/round_state/{id}", h.roundState)
		r.Post("/add_player", h.addPlayer)
		r.Post("/guess", h.guess)
	})
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type roundStateResponse struct {
	OK      bool                 `json:"ok"`
	Players []string             `json:"players"`
	Guesses map[string]pointJSON `json:"guesses"`
	Map     string               `json:"map"`
	Width   float64              `json:"width"`
	Height  float64              `json:"height"`
}

func (h *APIHandler) roundState(w http.ResponseWriter, r *http.Request) {
	rd, ok := h.store.Round(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Round not found.")
		return
	}
	writeJSON(w, roundStateResponse{
		OK:      true,
		Players: nonNil(h.store.Players()),
		Guesses: toPointJSON(rd.Guesses),
		Map:     mapURL(rd.MapFile),
		Width:   rd.MapSize.W,
		Height:  rd.MapSize.H,
	})
}

// current names the round the host is showing.
func (h *APIHandler) current(w http.ResponseWriter, r *http.Request) {
	rd, ok := h.store.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "No rounds yet.")
		return
	}
	writeJSON(w, map[string]any{"ok": true, "round_id": rd.ID, "number": rd.Number, "total": rd.Total})
}

func (h *APIHandler) addPlayer(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r, addPlayerSchema)
	name, _ := body["name"].(string)
	added, players, err := h.store.AddPlayer(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, playerErrorMessage(err))
		return
	}
	writeJSON(w, map[string]any{"ok": true, "players": players, "added": added})
}

func (h *APIHandler) guess(w http.ResponseWriter, r *http.Request) {
	body, err := decodeValidated(r, guessSchema)
	if err != nil {
		writeError(w, http.StatusBadRequest, schemaErrorMessage(err))
		return
	}
	roundID, _ := body["round_id"].(string)
	if roundID == "" {
		writeError(w, http.StatusBadRequest, "Missing round_id.")
		return
	}
	if _, ok := h.store.Round(roundID); !ok {
		writeError(w, http.StatusNotFound, "Round not found.")
		return
	}
	player, _ := body["player"].(string)
	if !h.store.HasPlayer(player) {
		writeError(w, http.StatusBadRequest, "Invalid player.")
		return
	}
	if body["x"] == nil || body["y"] == nil {
		writeError(w, http.StatusBadRequest, "Missing x/y.")
		return
	}
	x, okX := coord(body["x"])
	y, okY := coord(body["y"])
	if !okX || !okY {
		writeError(w, http.StatusBadRequest, "Invalid x/y.")
		return
	}
	guesses, err := h.store.SubmitGuess(roundID, player, geom.Pt(x, y))
	switch {
	case errors.Is(err, game.ErrUnknownPlayer):
		writeError(w, http.StatusBadRequest, "Invalid player.")
		return
	case errors.Is(err, game.ErrRoundNotFound):
		writeError(w, http.StatusNotFound, "Round not found.")
		return
	case err != nil:
		log.Printf("guess: round=%s err=%v", roundID, err)
		writeError(w, http.StatusInternalServerError, "Failed to save guess.")
		return
	}
	writeJSON(w, map[string]any{"ok": true, "guesses": toPointJSON(guesses)})
}

// decodeBody reads a JSON object body. Anything that is not an object
// matching schema is treated as an empty object.
func decodeBody(r *http.Request, schema *jsonschema.Schema) map[string]any {
	body, err := decodeValidated(r, schema)
	if err != nil {
		return map[string]any{}
	}
	return body
}

func decodeValidated(r *http.Request, schema *jsonschema.Schema) (map[string]any, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxAPIBody))
	if err != nil {
		return map[string]any{}, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return map[string]any{}, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	if err := schema.Validate(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// schemaErrorMessage names the first field that failed validation.
func schemaErrorMessage(err error) string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return "Invalid request."
	}
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	switch strings.TrimPrefix(verr.InstanceLocation, "/") {
	case "round_id":
		return "Missing round_id."
	case "player":
		return "Invalid player."
	case "x", "y":
		return "Invalid x/y."
	}
	return "Invalid request."
}

// coord accepts a JSON number or a numeric string.
func coord(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func playerErrorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrEmptyName):
		return "Player name cannot be empty."
	case errors.Is(err, game.ErrDuplicateName):
		return "That player name already exists."
	}
	return "Failed to add."
}

func toPointJSON(in map[string]geom.Point) map[string]pointJSON {
	out := make(map[string]pointJSON, len(in))
	for k, v := range in {
		out[k] = pointJSON{X: v.X, Y: v.Y}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": msg})
}
