package guess

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"geoparty/pkg/geom"
	"geoparty/pkg/kvstore"
	"geoparty/pkg/mapper"
)

const (
	MsgNoPlayers  = "Add at least one player first."
	MsgEmptyName  = "Name cannot be empty."
	MsgSaved      = "Saved"
	MsgNetwork    = "Network error"
	MsgAddFailed  = "Failed to add."
	MsgSaveFailed = "Failed"

	// ToastDuration is how long a toast stays up after its last update.
	ToastDuration = 1400 * time.Millisecond
)

// SelectionKey is the kvstore key holding the selected player for a round.
func SelectionKey(roundID string) string {
	return "geoparty.selectedPlayer." + roundID
}

type State int

const (
	StateNoPlayers State = iota
	StatePlayerSelected
)

func (s State) String() string {
	if s == StatePlayerSelected {
		return "player-selected"
	}
	return "no-players"
}

// Toast is a transient status line.
type Toast struct {
	Text    string
	Error   bool
	Visible bool
}

// Controller owns the guess screen's model. Its methods must be called from
// one goroutine; network work runs elsewhere and is applied by Pump.
type Controller struct {
	roundID string
	backend Backend
	store   kvstore.Store

	players  []string
	guesses  map[string]geom.Point
	selected string
	round    RoundState

	toast    Toast
	toastGen uint64
	timer    *time.Timer

	issued  uint64
	applied uint64

	done     chan func()
	inflight sync.WaitGroup
	ctx      context.Context

	afterFunc func(time.Duration, func()) *time.Timer
}

// New returns a controller for roundID. store may be nil.
func New(ctx context.Context, roundID string, backend Backend, store kvstore.Store) *Controller {
	if store == nil {
		store = kvstore.NewMemory()
	}
	return &Controller{
		roundID:   roundID,
		backend:   backend,
		store:     store,
		guesses:   map[string]geom.Point{},
		done:      make(chan func(), 64),
		ctx:       ctx,
		afterFunc: time.AfterFunc,
	}
}

// RoundID returns the round this controller edits.
func (c *Controller) RoundID() string { return c.roundID }

// Round returns the last fetched round state.
func (c *Controller) Round() RoundState { return c.round }

// Guesses returns a copy of every known guess, keyed by player.
func (c *Controller) Guesses() map[string]geom.Point { return copyGuesses(c.guesses) }

// Load fetches the round and restores the player selection. It blocks.
func (c *Controller) Load(ctx context.Context) error {
	rs, err := c.backend.RoundState(ctx, c.roundID)
	if err != nil {
		return err
	}
	c.round = rs
	c.players = append([]string(nil), rs.Players...)
	c.guesses = copyGuesses(rs.Guesses)
	c.rebuild("")
	return nil
}

// rebuild picks the selection in order: explicit, current, persisted, first
// player. The result is persisted.
func (c *Controller) rebuild(explicit string) {
	candidates := []string{explicit, c.selected}
	if v, ok := c.store.Get(SelectionKey(c.roundID)); ok {
		candidates = append(candidates, v)
	}
	c.selected = ""
	for _, name := range candidates {
		if name != "" && c.hasPlayer(name) {
			c.selected = name
			break
		}
	}
	if c.selected == "" && len(c.players) > 0 {
		c.selected = c.players[0]
	}
	c.persistSelection()
}

func (c *Controller) persistSelection() {
	if err := c.store.Set(SelectionKey(c.roundID), c.selected); err != nil {
		log.Printf("guess: persist selection err=%v", err)
	}
}

func (c *Controller) hasPlayer(name string) bool {
	for _, p := range c.players {
		if p == name {
			return true
		}
	}
	return false
}

// State derives the screen state from the model.
func (c *Controller) State() State {
	if len(c.players) == 0 || c.selected == "" {
		return StateNoPlayers
	}
	return StatePlayerSelected
}

// Selected returns the selected player, or "".
func (c *Controller) Selected() string { return c.selected }

// SelectPlayer switches the active player. Unknown names are ignored.
func (c *Controller) SelectPlayer(name string) bool {
	if !c.hasPlayer(name) {
		return false
	}
	c.selected = name
	c.persistSelection()
	return true
}

// CyclePlayer moves the selection by step through the player list.
func (c *Controller) CyclePlayer(step int) {
	n := len(c.players)
	if n == 0 {
		return
	}
	i := 0
	for j, p := range c.players {
		if p == c.selected {
			i = j
			break
		}
	}
	i = ((i+step)%n + n) % n
	c.SelectPlayer(c.players[i])
}

// PlaceGuess stores the selected player's guess at the image point under
// screen and saves it in the background.
func (c *Controller) PlaceGuess(m Mapper, screen geom.Point) bool {
	if c.State() != StatePlayerSelected {
		c.showToast(MsgNoPlayers, true)
		return false
	}
	img, ok := m.ScreenToImage(screen)
	if !ok {
		return false
	}
	pt := mapper.RoundPoint(img)
	player := c.selected
	c.guesses[player] = pt

	c.issued++
	seq := c.issued
	c.run(func(ctx context.Context) func() {
		saved, err := c.backend.SubmitGuess(ctx, c.roundID, player, pt)
		return func() { c.finishSave(seq, saved, err) }
	})
	return true
}

func (c *Controller) finishSave(seq uint64, saved map[string]geom.Point, err error) {
	if err != nil {
		c.showError(err, MsgSaveFailed)
		return
	}
	if seq <= c.applied {
		return
	}
	c.applied = seq
	if saved != nil {
		c.guesses = copyGuesses(saved)
	}
	c.rebuild("")
	c.showToast(MsgSaved, false)
}

// AddPlayer registers name with the server and selects it on success. The
// player list is only replaced once the server answers.
func (c *Controller) AddPlayer(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		c.showToast(MsgEmptyName, true)
		return false
	}
	c.run(func(ctx context.Context) func() {
		added, err := c.backend.AddPlayer(ctx, name)
		return func() { c.finishAdd(added, err) }
	})
	return true
}

func (c *Controller) finishAdd(added Added, err error) {
	if err != nil {
		c.showError(err, MsgAddFailed)
		return
	}
	c.players = append([]string(nil), added.Players...)
	c.rebuild(added.Name)
	c.showToast("Turn: "+added.Name, false)
}

func (c *Controller) showError(err error, fallback string) {
	var rej *RejectedError
	if errors.As(err, &rej) {
		msg := rej.Message
		if msg == "" {
			msg = fallback
		}
		c.showToast(msg, true)
		return
	}
	log.Printf("guess: request failed err=%v", err)
	c.showToast(MsgNetwork, true)
}

// run executes work on its own goroutine and queues the returned
// completion for Pump.
func (c *Controller) run(work func(ctx context.Context) func()) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.done <- work(c.ctx)
	}()
}

// Pump applies every queued completion and returns how many ran.
func (c *Controller) Pump() int {
	n := 0
	for {
		select {
		case fn := <-c.done:
			fn()
			n++
		default:
			return n
		}
	}
}

// Settle waits for in-flight requests and applies their results. Completions
// are drained while waiting so a full queue cannot block the senders.
func (c *Controller) Settle() {
	idle := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(idle)
	}()
	for {
		select {
		case fn := <-c.done:
			fn()
		case <-idle:
			c.Pump()
			return
		}
	}
}

func (c *Controller) showToast(text string, isError bool) {
	c.toast = Toast{Text: text, Error: isError, Visible: true}
	c.toastGen++
	gen := c.toastGen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.afterFunc(ToastDuration, func() {
		c.done <- func() {
			if c.toastGen == gen {
				c.toast.Visible = false
			}
		}
	})
}

// Close stops the toast timer.
func (c *Controller) Close() {
	if c.timer != nil {
		c.timer.Stop()
	}
}

func copyGuesses(in map[string]geom.Point) map[string]geom.Point {
	out := make(map[string]geom.Point, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
