package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"geoparty/internal/game"
	"geoparty/internal/viewmodel"
	"geoparty/views/pages"
	"geoparty/pkg/geom"
	"geoparty/pkg/mapper"
)

// GameHandler serves the guess, answer and leaderboard pages.
type GameHandler struct {
	store *game.Store
	cfg   Config
}

func NewGameHandler(store *game.Store, cfg Config) *GameHandler {
	return &GameHandler{store: store, cfg: cfg}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Get("/r/{id}", h.shareLink)
	r.Route("/play/{id}", func(r chi.Router) {
		r.Get("/", h.playPage)
		r.Post("/", h.submitGuess)
		r.Post("/player", h.addPlayer)
	})
	r.Get("/set_answer/{id}", h.setAnswerPage)
	r.Post("/set_answer/{id}", h.setAnswer)
	r.Get("/leaderboard", h.leaderboard)
}

func (h *GameHandler) shareLink(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/play/"+chi.URLParam(r, "id"), http.StatusFound)
}

func (h *GameHandler) playPage(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "id")
	rd, ok := h.store.Round(roundID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	selected := h.selectedPlayer(w, r, roundID)
	q := r.URL.Query()
	msg := ""
	switch {
	case q.Get("saved") != "":
		msg = "Saved"
	case q.Get("added") != "":
		msg = "Turn: " + selected
	}
	render(w, r, pages.PlayPage(h.playData(r, rd, selected, msg, false)))
}

// selectedPlayer resolves the picker's value: query, then cookie, then the
// first player. The choice is remembered per round.
func (h *GameHandler) selectedPlayer(w http.ResponseWriter, r *http.Request, roundID string) string {
	candidates := []string{r.URL.Query().Get("player")}
	if cookie, err := r.Cookie(playerCookieName(roundID)); err == nil {
		if v, err := url.QueryUnescape(cookie.Value); err == nil {
			candidates = append(candidates, v)
		}
	}
	selected := ""
	for _, c := range candidates {
		if h.store.HasPlayer(c) {
			selected = c
			break
		}
	}
	if selected == "" {
		if players := h.store.Players(); len(players) > 0 {
			selected = players[0]
		}
	}
	if selected != "" {
		setPlayerCookie(w, roundID, selected)
	}
	return selected
}

func (h *GameHandler) playData(r *http.Request, rd game.RoundSnapshot, selected, msg string, isError bool) viewmodel.PlayPage {
	players := h.store.Players()
	data := viewmodel.PlayPage{
		Title:     "geoparty · round " + strconv.Itoa(rd.Number),
		RoundID:   rd.ID,
		Number:    rd.Number,
		Total:     rd.Total,
		PrevID:    rd.PrevID,
		NextID:    rd.NextID,
		Selected:  selected,
		Guessed:   "Guessed: " + strconv.Itoa(countGuessed(rd, players)) + " / " + strconv.Itoa(len(players)),
		PinStatus: "Pin: —",
		Message:   msg,
		IsError:   isError,
		AnswerSet: rd.HasAnswer(),
		SceneURL:  sceneURL(rd.SceneFile),
	}
	for _, p := range players {
		label := p
		if _, ok := rd.Guesses[p]; ok {
			label += " ✅"
		}
		data.Players = append(data.Players, viewmodel.PlayerOption{Name: p, Label: label, Selected: p == selected})
	}

	own := map[string]geom.Point{}
	if pt, ok := rd.Guesses[selected]; ok && selected != "" {
		own[selected] = pt
		data.PinStatus = "Pin: shown"
	}
	var form *viewmodel.Form
	if selected != "" {
		form = &viewmodel.Form{
			Action: "/play/" + rd.ID,
			Hidden: []viewmodel.Field{{Name: "player", Value: selected}},
		}
	}
	data.Map = buildPinMap(r, "play", rd, h.cfg.displayWidth(), pinMapOptions{Guesses: own, Form: form})
	return data
}

func (h *GameHandler) submitGuess(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "id")
	rd, ok := h.store.Round(roundID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	player := r.FormValue("player")
	click, ok := clickPoint(r)
	if !ok {
		renderStatus(w, r, http.StatusBadRequest, pages.PlayPage(h.playData(r, rd, player, "Missing x/y.", true)))
		return
	}
	box := mapper.Fit(rd.MapSize, h.cfg.displayWidth())
	pt, ok := box.ToImage(click)
	if !ok {
		http.Error(w, "round has no map size", http.StatusInternalServerError)
		return
	}
	if _, err := h.store.SubmitGuess(roundID, player, pt); err != nil {
		msg := "Failed"
		if errors.Is(err, game.ErrUnknownPlayer) {
			msg = "Add at least one player first."
		}
		selected := h.selectedPlayer(w, r, roundID)
		renderStatus(w, r, http.StatusBadRequest, pages.PlayPage(h.playData(r, rd, selected, msg, true)))
		return
	}
	setPlayerCookie(w, roundID, player)
	http.Redirect(w, r, "/play/"+roundID+"?"+url.Values{"player": {player}, "saved": {"1"}}.Encode(), http.StatusSeeOther)
}

func (h *GameHandler) addPlayer(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "id")
	rd, ok := h.store.Round(roundID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	added, _, err := h.store.AddPlayer(r.FormValue("name"))
	if err != nil {
		selected := h.selectedPlayer(w, r, roundID)
		renderStatus(w, r, http.StatusBadRequest, pages.PlayPage(h.playData(r, rd, selected, playerErrorMessage(err), true)))
		return
	}
	setPlayerCookie(w, roundID, added)
	http.Redirect(w, r, "/play/"+roundID+"?"+url.Values{"player": {added}, "added": {"1"}}.Encode(), http.StatusSeeOther)
}

func (h *GameHandler) setAnswerPage(w http.ResponseWriter, r *http.Request) {
	rd, ok := h.store.Round(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	render(w, r, pages.SetAnswerPage(h.answerData(r, rd, "")))
}

func (h *GameHandler) answerData(r *http.Request, rd game.RoundSnapshot, errMsg string) viewmodel.SetAnswerPage {
	return viewmodel.SetAnswerPage{
		Title:   "geoparty · set answer",
		RoundID: rd.ID,
		Number:  rd.Number,
		Error:   errMsg,
		Map: buildPinMap(r, "answer", rd, h.cfg.displayWidth(), pinMapOptions{
			ShowAnswer: true,
			Guesses:    map[string]geom.Point{},
			Form:       &viewmodel.Form{Action: "/set_answer/" + rd.ID},
		}),
	}
}

// setAnswer accepts either an image-input click in display pixels or
// explicit x/y in image pixels.
func (h *GameHandler) setAnswer(w http.ResponseWriter, r *http.Request) {
	roundID := chi.URLParam(r, "id")
	rd, ok := h.store.Round(roundID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	var pt geom.Point
	if click, ok := clickPoint(r); ok {
		pt, _ = mapper.Fit(rd.MapSize, h.cfg.displayWidth()).ToImage(click)
	} else {
		x, okX := parseCoord(r.FormValue("x"))
		y, okY := parseCoord(r.FormValue("y"))
		if !okX || !okY {
			msg := "You should select a point on the map before saving."
			renderStatus(w, r, http.StatusBadRequest, pages.SetAnswerPage(h.answerData(r, rd, msg)))
			return
		}
		pt = geom.Pt(x, y)
	}
	if err := h.store.SetAnswer(roundID, pt); err != nil {
		http.NotFound(w, r)
		return
	}
	log.Printf("answer set round=%s x=%v y=%v", roundID, pt.X, pt.Y)

	if r.Header.Get("X-Requested-With") == "fetch" {
		saved := mapper.RoundPoint(pt)
		writeJSON(w, map[string]any{"ok": true, "answer": pointJSON{X: saved.X, Y: saved.Y}})
		return
	}
	http.Redirect(w, r, "/host", http.StatusSeeOther)
}

func (h *GameHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	lb := h.store.Leaderboard()
	data := viewmodel.LeaderboardPage{
		Title:       "geoparty · leaderboard",
		Players:     lb.Players,
		BackRoundID: lb.BackRoundID,
	}
	for _, e := range lb.Ranked {
		data.Ranked = append(data.Ranked, viewmodel.ScoreEntry{Name: e.Name, Points: e.Points})
	}
	for _, res := range lb.Rounds {
		row := viewmodel.LeaderboardRound{
			Number:  res.Round.Number,
			MapFile: res.Round.MapFile,
			Map: buildPinMap(r, "r"+strconv.Itoa(res.Round.Number), res.Round, h.cfg.displayWidth(), pinMapOptions{
				PanZoom:    true,
				ShowAnswer: true,
			}),
		}
		for _, c := range res.Cells {
			row.Cells = append(row.Cells, viewmodel.ScoreCell{
				Player:   c.Player,
				Guessed:  c.Guessed,
				Score:    c.Score,
				Distance: c.Distance,
			})
		}
		data.Rounds = append(data.Rounds, row)
	}
	render(w, r, pages.LeaderboardPage(data))
}

// clickPoint reads the pt.x / pt.y pair an <input type="image" name="pt">
// submits.
func clickPoint(r *http.Request) (geom.Point, bool) {
	x, okX := parseCoord(r.FormValue("pt.x"))
	y, okY := parseCoord(r.FormValue("pt.y"))
	if !okX || !okY {
		return geom.Point{}, false
	}
	return geom.Pt(x, y), true
}

func parseCoord(value string) (float64, bool) {
	v := parseFloat(value, math.NaN())
	return v, !math.IsNaN(v)
}

func setPlayerCookie(w http.ResponseWriter, roundID string, player string) {
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName(roundID),
		Value:    url.QueryEscape(player),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
}

func playerCookieName(roundID string) string {
	return "geoparty_player_" + roundID
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
