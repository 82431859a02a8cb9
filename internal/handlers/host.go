package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"geoparty/internal/game"
	"geoparty/internal/viewmodel"
	"geoparty/views/pages"
)

// Config holds the page settings shared by the HTML handlers.
type Config struct {
	// DisplayWidth is the widest a map is shown on the server-rendered pages.
	DisplayWidth float64
	BaseURL      string
}

const defaultDisplayWidth = 960

func (c Config) displayWidth() float64 {
	if c.DisplayWidth <= 0 {
		return defaultDisplayWidth
	}
	return c.DisplayWidth
}

var errUnknownAction = errors.New("unknown action")

// HostHandler serves the host dashboard and uploaded files.
type HostHandler struct {
	store  *game.Store
	maps   *game.Library
	scenes *game.Library
	cfg    Config
}

func NewHostHandler(store *game.Store, maps, scenes *game.Library, cfg Config) *HostHandler {
	return &HostHandler{store: store, maps: maps, scenes: scenes, cfg: cfg}
}

func (h *HostHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/host", h.hostPage)
	r.Post("/host", h.hostAction)
	r.Get("/uploads/{kind}/{file}", h.upload)
}

func (h *HostHandler) home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/host", http.StatusFound)
}

func (h *HostHandler) hostPage(w http.ResponseWriter, r *http.Request) {
	h.renderHost(w, r, "", http.StatusOK)
}

func (h *HostHandler) hostAction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*game.MaxUploadBytes)
	if err := r.ParseMultipartForm(game.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.renderHost(w, r, "Upload is too large or malformed.", http.StatusBadRequest)
		return
	}
	if err := h.apply(r); err != nil {
		h.renderHost(w, r, hostErrorMessage(err), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/host", http.StatusSeeOther)
}

func (h *HostHandler) apply(r *http.Request) error {
	switch r.FormValue("action") {
	case "add_player":
		_, _, err := h.store.AddPlayer(r.FormValue("player_name"))
		return err
	case "remove_player":
		h.store.RemovePlayer(r.FormValue("player_name"))
		return nil
	case "add_round":
		return h.addRound(r)
	case "reset_game":
		h.store.Reset()
		return nil
	case "goto_round":
		return h.store.Goto(parseInt(r.FormValue("round_index"), -1))
	}
	return errUnknownAction
}

func (h *HostHandler) addRound(r *http.Request) error {
	mapFile, err := pickImage(r, h.maps, "existing_map", "map_image", true)
	if err != nil {
		return err
	}
	size, err := h.maps.Size(mapFile)
	if err != nil {
		return err
	}
	sceneFile, err := pickImage(r, h.scenes, "existing_scene", "scene_image", false)
	if err != nil {
		return err
	}
	rd, err := h.store.AddRound(mapFile, size, sceneFile)
	if err != nil {
		return err
	}
	log.Printf("round added id=%s map=%s size=%vx%v", rd.ID, mapFile, size.W, size.H)
	return nil
}

// pickImage returns a library file chosen by name, or saves the uploaded
// file field. With required unset, no choice at all yields "".
func pickImage(r *http.Request, lib *game.Library, existingField, fileField string, required bool) (string, error) {
	if existing := strings.TrimSpace(r.FormValue(existingField)); existing != "" {
		if !game.AllowedExt(existing) {
			return "", game.ErrMissingImage
		}
		if _, err := lib.Size(existing); err != nil {
			return "", err
		}
		return filepath.Base(existing), nil
	}
	file, header, err := r.FormFile(fileField)
	if err != nil {
		if !required {
			return "", nil
		}
		return "", game.ErrNoFile
	}
	defer file.Close()
	return saveUpload(lib, header, file)
}

func saveUpload(lib *game.Library, header *multipart.FileHeader, file multipart.File) (string, error) {
	if header.Size > game.MaxUploadBytes {
		return "", fmt.Errorf("%s: %w", header.Filename, errTooLarge)
	}
	name, err := lib.Save(header.Filename, file)
	if err != nil {
		return "", err
	}
	if _, err := lib.Size(name); err != nil {
		_ = os.Remove(lib.Path(name))
		return "", err
	}
	return name, nil
}

var errTooLarge = errors.New("file too large")

func hostErrorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrEmptyName):
		return "Player name cannot be empty."
	case errors.Is(err, game.ErrDuplicateName):
		return "That player name already exists."
	case errors.Is(err, game.ErrInvalidIndex):
		return "Invalid round index."
	case errors.Is(err, game.ErrNoFile):
		return "No file selected."
	case errors.Is(err, game.ErrUnsupportedType):
		return "Unsupported file type. Use png/jpg/jpeg/webp."
	case errors.Is(err, game.ErrBadImage):
		return "The selected image file appears to be corrupted or invalid."
	case errors.Is(err, game.ErrMissingImage):
		return "Selected map is not available anymore."
	case errors.Is(err, errTooLarge):
		return "File is too large."
	case errors.Is(err, errUnknownAction):
		return "Unknown action."
	}
	log.Printf("host action err=%v", err)
	return "Something went wrong."
}

func (h *HostHandler) renderHost(w http.ResponseWriter, r *http.Request, msg string, status int) {
	snap := h.store.Snapshot()
	data := viewmodel.HostPage{
		Title:        "geoparty · host",
		Message:      msg,
		Players:      snap.Players,
		MaxUploadMiB: game.MaxUploadBytes >> 20,
		Maps:         libraryItems(h.maps),
		Scenes:       libraryItems(h.scenes),
	}
	for _, rd := range snap.Rounds {
		row := viewmodel.RoundRow{
			ID:        rd.ID,
			Index:     rd.Index,
			Number:    rd.Number,
			MapFile:   rd.MapFile,
			Guessed:   countGuessed(rd, snap.Players),
			Players:   len(snap.Players),
			HasAnswer: rd.HasAnswer(),
			Current:   rd.Index == snap.CurrentIndex,
		}
		data.Rounds = append(data.Rounds, row)
	}
	if cur, ok := snap.Current(); ok {
		row := data.Rounds[cur.Index]
		data.Current = &row
		preview := buildPinMap(r, "preview", cur, h.cfg.displayWidth(), pinMapOptions{PanZoom: true})
		data.Preview = &preview
		data.ShareURL = buildShareURL(r, h.cfg.BaseURL, cur.ID)
	}
	renderStatus(w, r, status, pages.HostPage(data))
}

func libraryItems(lib *game.Library) []viewmodel.LibraryItem {
	if lib == nil {
		return nil
	}
	entries, err := lib.List()
	if err != nil {
		log.Printf("list library %s err=%v", lib.Dir(), err)
		return nil
	}
	items := make([]viewmodel.LibraryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, viewmodel.LibraryItem{
			Filename:   e.Filename,
			Dimensions: fmt.Sprintf("%.0f×%.0f", e.Size.W, e.Size.H),
			Bytes:      e.HumanBytes(),
		})
	}
	return items
}

func countGuessed(rd game.RoundSnapshot, players []string) int {
	n := 0
	for _, p := range players {
		if _, ok := rd.Guesses[p]; ok {
			n++
		}
	}
	return n
}

func (h *HostHandler) upload(w http.ResponseWriter, r *http.Request) {
	var lib *game.Library
	switch chi.URLParam(r, "kind") {
	case game.MapsDir:
		lib = h.maps
	case game.ScenesDir:
		lib = h.scenes
	}
	file := chi.URLParam(r, "file")
	if lib == nil || !game.AllowedExt(file) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, lib.Path(file))
}

func buildShareURL(r *http.Request, baseURL, roundID string) string {
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		return strings.TrimRight(baseURL, "/") + "/r/" + roundID
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/r/" + roundID
}
