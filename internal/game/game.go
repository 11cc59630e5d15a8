// Package game wires the inventory, view state and pickup stepper to an
// arena simulation and drives them from a single frame loop.
package game

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/samber/oops"
	"go.uber.org/zap"

	"satchel/assets"
	"satchel/internal/behavior"
	"satchel/internal/catalog"
	"satchel/internal/component"
	"satchel/internal/ecs"
	"satchel/internal/factory"
	"satchel/internal/gamemap"
	"satchel/internal/generate"
	"satchel/internal/inventory"
	"satchel/internal/metrics"
	"satchel/internal/pickup"
	"satchel/internal/render"
	"satchel/internal/system"
	"satchel/internal/vecmath"
	"satchel/internal/view"
)

// Config tunes one game.
type Config struct {
	Inventory inventory.Config
	// GridColumns is the width of the inventory screen grid.
	GridColumns int
	Pickup      pickup.Config
	Player      factory.PlayerParams

	ArenaWidth int
	ArenaDepth int
	// ItemCount is how many items are kept lying in the arena.
	ItemCount int
	// Respawn tops the arena back up to ItemCount as items are collected.
	Respawn bool

	FrameRate int
	Gravity   float64
	MoveHold  time.Duration
	// LookStep is the camera yaw change per look key press, in radians.
	LookStep float64
	// Seed fixes item placement; 0 seeds from the clock.
	Seed int64
	// SessionLog appends the session summary to sessions.jsonl on exit.
	SessionLog bool
}

// DefaultConfig returns the stock arena.
func DefaultConfig() Config {
	return Config{
		Inventory:   inventory.DefaultConfig(),
		GridColumns: 5,
		Pickup:      pickup.DefaultConfig(),
		Player: factory.PlayerParams{
			Mover: component.Mover{
				MaxSpeed:        6,
				MaxAcceleration: 30,
				MaxDeceleration: 40,
				ReverseBoost:    2,
			},
			CollectRadius: 2,
		},
		ArenaWidth: 32,
		ArenaDepth: 20,
		ItemCount:  12,
		Respawn:    true,
		FrameRate:  30,
		Gravity:    system.DefaultGravity,
		MoveHold:   250 * time.Millisecond,
		LookStep:   math.Pi / 12,
		SessionLog: true,
	}
}

// Deps are the shared, read-only collaborators of a game.
type Deps struct {
	Catalog   *catalog.Catalog
	Behaviors *behavior.Dispatcher
	Logger    *zap.Logger
	Metrics   metrics.Recorder
	// SpawnTable weights the items scattered in the arena.
	SpawnTable []generate.ItemSpawnEntry
	SessionID  string
	// Player is a display name recorded in the session log.
	Player string
}

// Game is the top-level orchestrator. Everything it owns is touched only
// from the goroutine running Run (or the test calling Step/HandleEvent).
type Game struct {
	cfg     Config
	deps    Deps
	log     *zap.Logger
	metrics metrics.Recorder

	screen   tcell.Screen
	renderer *render.Renderer

	world    *ecs.World
	gmap     *gamemap.GameMap
	playerID ecs.EntityID
	rng      *rand.Rand

	store   *inventory.Store
	view    *view.Machine
	pickups *pickup.Stepper

	// slotViews mirrors the store for the renderer; rebuilt by the change observer.
	slotViews []render.SlotView
	yaw       float64
	held      heldKeys
	drag      dragState
	status    string
	quit      bool
	// respawnStalled is set when the floor had no room for a respawn.
	respawnStalled bool

	now      func() time.Time
	started  time.Time
	session  SessionLog
	teardown []func()
}

// New builds a game on an already initialised screen. The caller owns the
// screen and finalises it after Run returns.
func New(screen tcell.Screen, cfg Config, deps Deps) (*Game, error) {
	if deps.Catalog == nil || deps.Behaviors == nil {
		return nil, oops.In("game").Errorf("catalog and behaviors are required")
	}
	if len(deps.SpawnTable) == 0 {
		return nil, oops.In("game").Errorf("spawn table is empty")
	}
	if cfg.FrameRate <= 0 {
		return nil, oops.In("game").With("frame_rate", cfg.FrameRate).Errorf("frame rate must be positive")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}

	log := deps.Logger.Named("game")
	if deps.SessionID != "" {
		log = log.With(zap.String("session_id", deps.SessionID))
	}
	store, err := inventory.New(cfg.Inventory, deps.Catalog, deps.Behaviors, log)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		cfg:      cfg,
		deps:     deps,
		log:      log,
		metrics:  deps.Metrics,
		screen:   screen,
		renderer: render.NewRenderer(screen),
		world:    ecs.NewWorld(),
		gmap:     gamemap.New(cfg.ArenaWidth, cfg.ArenaDepth),
		rng:      rand.New(rand.NewSource(seed)),
		store:    store,
		view:     view.New(),
		pickups:  pickup.NewStepper(cfg.Pickup),
		now:      time.Now,
	}
	g.session = newSessionLog(deps.SessionID, deps.Player)
	g.playerID = factory.NewPlayer(g.world, g.gmap.Center(), cfg.Player)
	g.slotViews = g.buildSlotViews(store.Slots())
	g.subscribe()
	g.populate(cfg.ItemCount)
	g.status = "WASD move, q/e look, space use, 1-9 select, i inventory"
	return g, nil
}

// subscribe wires the UI to the store and view-state notifications.
func (g *Game) subscribe() {
	g.teardown = append(g.teardown,
		g.store.OnChanged(func(slots []inventory.Slot) {
			g.slotViews = g.buildSlotViews(slots)
		}),
		g.store.OnSelectionChanged(func(_, idx int) {
			if s := g.slotViews[idx]; !s.Empty() {
				g.status = fmt.Sprintf("Selected %s", s.Name)
			} else {
				g.status = fmt.Sprintf("Selected slot %d", idx+1)
			}
		}),
		g.view.OnClosed(func(k view.Kind) {
			if k == view.Inventory {
				g.drag.cancel()
			}
		}),
		g.view.OnOpened(func(k view.Kind) {
			g.metrics.ViewOpened(k.String())
			if k == view.Inventory {
				g.held.release()
				g.session.InventoryOpens++
			}
			g.log.Debug("view opened", zap.Stringer("view", k))
		}),
	)
}

// Close releases observers and pending pickups. Safe to call more than once.
func (g *Game) Close() {
	for _, cancel := range g.teardown {
		cancel()
	}
	g.teardown = nil
	g.store.Close()
	g.view.Close()
	g.pickups.Clear()
}

// Store exposes the player's inventory.
func (g *Game) Store() *inventory.Store { return g.store }

// View exposes the view state machine.
func (g *Game) View() *view.Machine { return g.view }

// Run drives the game until the player quits, the screen closes or ctx is
// cancelled. It records the session on the way out.
func (g *Game) Run(ctx context.Context) error {
	g.started = g.now()
	g.session.StartedAt = g.started
	g.metrics.SessionStarted()
	g.log.Info("session started")
	defer g.finish()

	g.screen.EnableMouse()
	g.screen.HideCursor()

	// Start an async input reader goroutine. PollEvent returns nil once the
	// screen is finalised, which ends the pump.
	eventCh := make(chan tcell.Event, 32)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(eventCh)
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventCh <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(g.cfg.FrameRate))
	defer ticker.Stop()
	last := g.now()
	g.Draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-eventCh:
			if !ok {
				return nil
			}
			g.HandleEvent(ev)
			if g.quit {
				return nil
			}
		case <-ticker.C:
			now := g.now()
			g.Step(now.Sub(last).Seconds())
			last = now
			g.Draw()
		}
	}
}

func (g *Game) finish() {
	d := g.now().Sub(g.started)
	g.session.DurationSec = d.Seconds()
	g.metrics.SessionEnded(d)
	g.log.Info("session ended",
		zap.Duration("duration", d),
		zap.Any("collected", g.session.Collected),
		zap.Any("used", g.session.Used),
	)
	if g.cfg.SessionLog {
		if err := saveSessionLog(g.session); err != nil {
			g.log.Warn("session log not written", zap.Error(err))
		}
	}
	g.Close()
}

// ─── frame ──────────────────────────────────────────────────────────────────

// Step advances the simulation by dt seconds.
func (g *Game) Step(dt float64) {
	input := vecmath.Vec2{}
	if g.view.GameplayInputEnabled() {
		input = g.held.vector(g.now())
	}
	system.MovePlayer(g.world, g.playerID, input, g.yaw, dt)
	system.Integrate(g.world, g.gmap, g.cfg.Gravity, dt)

	system.TriggerCollector(g.world, g.playerID, g.store.HasRoomFor,
		func(e ecs.EntityID, itemID string, amount int, pos vecmath.Vec3) {
			g.pickups.Start(e, itemID, amount, pos)
		})

	target := g.playerPos()
	for _, out := range g.pickups.Step(dt, target, g.world.Alive, g.store.TryAddItem) {
		g.finishPickup(out)
	}

	if g.cfg.Respawn && !g.respawnStalled {
		if missing := g.cfg.ItemCount - len(g.world.Query(component.CCollectible)); missing > 0 {
			// Retried after the next collection frees a cell.
			g.respawnStalled = g.populate(missing) < missing
		}
	}
}

func (g *Game) finishPickup(out pickup.Outcome) {
	t := out.Task
	g.metrics.PickupFinished(out.Status.String())
	switch out.Status {
	case pickup.Collected:
		g.world.DestroyEntity(t.Entity)
		g.respawnStalled = false
		g.session.Collected[t.ItemID] += t.Amount
		g.metrics.ItemCollected(t.ItemID, t.Amount)
		g.status = fmt.Sprintf("+%d %s", t.Amount, g.displayName(t.ItemID))
	case pickup.Rejected:
		g.release(t)
		g.session.Rejected++
		g.status = fmt.Sprintf("No room for %s", g.displayName(t.ItemID))
	case pickup.Failed:
		g.release(t)
		g.logError("pickup failed", out.Err)
		g.status = fmt.Sprintf("Could not pick up %s", g.displayName(t.ItemID))
	case pickup.Cancelled:
		// The entity is gone; nothing to put back.
	}
}

// release drops an item that was not stored where its glide ended.
func (g *Game) release(t pickup.Task) {
	if !g.world.Alive(t.Entity) {
		return
	}
	tr := g.world.Get(t.Entity, component.CTransform).(component.Transform)
	tr.Pos = t.Pos.WithY(0)
	g.world.Add(t.Entity, tr)
	col := g.world.Get(t.Entity, component.CCollectible).(component.Collectible)
	col.Claimed = false
	g.world.Add(t.Entity, col)
}

// populate scatters n new items away from the player and existing items and
// returns how many were placed.
func (g *Game) populate(n int) int {
	px, pz := g.gmap.Cell(g.playerPos())
	avoid := []generate.SpawnPoint{{X: px, Z: pz}}
	for _, id := range g.world.Query(component.CCollectible, component.CTransform) {
		x, z := g.gmap.Cell(g.world.Get(id, component.CTransform).(component.Transform).Pos)
		avoid = append(avoid, generate.SpawnPoint{X: x, Z: z})
	}
	spawns := generate.Populate(g.gmap, &generate.Config{
		ItemCount: n,
		ItemTable: g.deps.SpawnTable,
		Avoid:     avoid,
		Clearance: 1,
		Rand:      g.rng,
	})
	placed := 0
	for _, s := range spawns {
		def, err := g.deps.Catalog.Lookup(s.Entry.ItemID)
		if err != nil {
			g.logError("spawn skipped", err)
			continue
		}
		factory.NewItem(g.world, def, max(1, s.Entry.Amount), g.gmap.CellCenter(s.X, s.Z))
		placed++
	}
	return placed
}

// ─── input ──────────────────────────────────────────────────────────────────

// HandleEvent applies one terminal event.
func (g *Game) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
		g.renderer.Resize()
	case *tcell.EventKey:
		g.handleAction(keyToAction(ev))
	case *tcell.EventMouse:
		g.handleMouse(ev)
	}
}

func (g *Game) handleAction(a Action) {
	if a.gameplayOnly() && !g.view.GameplayInputEnabled() {
		return
	}
	switch a {
	case ActionMoveForward, ActionMoveBack, ActionMoveLeft, ActionMoveRight:
		g.held.press(a, g.now(), g.cfg.MoveHold)
	case ActionLookLeft:
		g.yaw = normalizeYaw(g.yaw - g.cfg.LookStep)
	case ActionLookRight:
		g.yaw = normalizeYaw(g.yaw + g.cfg.LookStep)
	case ActionUse:
		g.useSelected()
	case ActionToggleInventory:
		g.view.Toggle()
	case ActionBack:
		if g.view.Current() == view.Inventory {
			g.view.SwitchTo(view.Gameplay)
		} else {
			g.quit = true
		}
	case ActionQuit:
		g.quit = true
	default:
		if idx := a.SlotIndex(); idx >= 0 {
			// Indices past the hand are ignored by the store.
			_ = g.store.Select(idx)
		}
	}
}

func (g *Game) useSelected() {
	tr := g.world.Get(g.playerID, component.CTransform).(component.Transform)
	body := g.world.Get(g.playerID, component.CBody).(component.Body)
	res, err := g.store.UseSelected(behavior.AgentState{Velocity: body.Velocity, Forward: tr.Forward()})
	if err != nil {
		g.logError("use failed", err)
		g.status = "Nothing happens"
		return
	}
	if !res.Used {
		return
	}
	body.Velocity = res.Velocity
	if body.Velocity.Y > 0 {
		body.Grounded = false
	}
	g.world.Add(g.playerID, body)
	g.session.Used[res.ItemID]++
	g.metrics.ItemUsed(res.ItemID)
	g.status = fmt.Sprintf("Used %s (%d left)", g.displayName(res.ItemID), res.Remaining)
}

// ─── drawing ────────────────────────────────────────────────────────────────

// Draw renders whichever view is current and flushes the screen.
func (g *Game) Draw() {
	switch g.view.Current() {
	case view.Inventory:
		g.renderer.DrawInventory(g.inventoryView())
	default:
		pos := g.playerPos()
		g.renderer.CenterOn(g.gmap.Cell(pos))
		g.renderer.DrawFrame(g.world, g.gmap, g.pickups.Positions())
		g.renderer.DrawHUD(render.HUD{
			Hand:     g.slotViews[:g.store.HandSize()],
			Selected: g.store.Selected(),
			Yaw:      g.yaw,
			Altitude: pos.Y,
			Status:   g.status,
		})
	}
	g.renderer.Show()
}

func (g *Game) inventoryView() render.InventoryView {
	v := render.InventoryView{
		Slots:    g.slotViews,
		HandSize: g.store.HandSize(),
		Selected: g.store.Selected(),
		Columns:  g.cfg.GridColumns,
		Hidden:   -1,
		Status:   g.status,
	}
	if g.drag.active {
		v.Hidden = g.drag.source
		v.Ghost = &render.Ghost{X: g.drag.x, Y: g.drag.y, Slot: g.slotViews[g.drag.source]}
	}
	return v
}

func (g *Game) buildSlotViews(slots []inventory.Slot) []render.SlotView {
	out := make([]render.SlotView, len(slots))
	for i, s := range slots {
		if s.Empty() {
			continue
		}
		def, err := g.deps.Catalog.Lookup(s.ItemID)
		if err != nil {
			out[i] = render.SlotView{Glyph: assets.GlyphUnknown, Name: s.ItemID, Quantity: s.Quantity}
			continue
		}
		glyph := def.Glyph
		if glyph == "" {
			glyph = assets.GlyphUnknown
		}
		out[i] = render.SlotView{Glyph: glyph, Name: def.DisplayName, Quantity: s.Quantity}
	}
	return out
}

// ─── helpers ────────────────────────────────────────────────────────────────

func (g *Game) playerPos() vecmath.Vec3 {
	return g.world.Get(g.playerID, component.CTransform).(component.Transform).Pos
}

func (g *Game) displayName(itemID string) string {
	if def, err := g.deps.Catalog.Lookup(itemID); err == nil && def.DisplayName != "" {
		return def.DisplayName
	}
	return itemID
}

// logError logs err with its oops code and context when it carries them.
func (g *Game) logError(msg string, err error) {
	fields := []zap.Field{zap.Error(err)}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil {
			fields = append(fields, zap.Any("code", code))
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			fields = append(fields, zap.Any("context", ctx))
		}
	}
	g.log.Warn(msg, fields...)
}

func normalizeYaw(yaw float64) float64 {
	yaw = math.Mod(yaw, 2*math.Pi)
	if yaw < 0 {
		yaw += 2 * math.Pi
	}
	return yaw
}
