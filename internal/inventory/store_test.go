package inventory

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"

	"satchel/internal/behavior"
	"satchel/internal/catalog"
	"satchel/internal/vecmath"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		catalog.ItemDefinition{ID: "wood", MaxStackSize: 5, UseBehaviorID: "jump"},
		catalog.ItemDefinition{ID: "stone", MaxStackSize: 3, UseBehaviorID: "jump"},
		catalog.ItemDefinition{ID: "potion", MaxStackSize: 5, UseBehaviorID: "dash"},
		catalog.ItemDefinition{ID: "broken", MaxStackSize: 5, UseBehaviorID: "missing"},
	)
	require.NoError(t, err)
	return cat
}

func testDispatcher(t *testing.T) *behavior.Dispatcher {
	t.Helper()
	d, err := behavior.New(
		behavior.Definition{ID: "jump", Kind: behavior.KindUpwardImpulse, Force: 10},
		behavior.Definition{ID: "dash", Kind: behavior.KindForwardImpulse, Force: 6},
	)
	require.NoError(t, err)
	return d
}

// newStore builds a store with a release-mode (non-panicking) logger.
func newStore(t *testing.T, capacity, hand int) *Store {
	t.Helper()
	s, err := New(Config{Capacity: capacity, HandSize: hand}, testCatalog(t), testDispatcher(t), zap.NewNop())
	require.NoError(t, err)
	return s
}

// newDebugStore builds a store whose logger panics on DPanic.
func newDebugStore(t *testing.T, capacity, hand int) *Store {
	t.Helper()
	log := zap.New(zapcore.NewNopCore(), zap.Development())
	s, err := New(Config{Capacity: capacity, HandSize: hand}, testCatalog(t), testDispatcher(t), log)
	require.NoError(t, err)
	return s
}

// recorder counts notifications from a store.
type recorder struct {
	changes    [][]Slot
	selections [][2]int
}

func record(s *Store) *recorder {
	r := &recorder{}
	s.OnChanged(func(slots []Slot) { r.changes = append(r.changes, slots) })
	s.OnSelectionChanged(func(old, new int) { r.selections = append(r.selections, [2]int{old, new}) })
	return r
}

func mustAdd(t *testing.T, s *Store, id string, n int) {
	t.Helper()
	ok, err := s.TryAddItem(id, n)
	require.NoError(t, err)
	require.True(t, ok, "add %s x%d", id, n)
}

// ─── config ───────────────────────────────────────────────────────────────────

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(), true},
		{"hand equals capacity", Config{Capacity: 3, HandSize: 3}, true},
		{"zero capacity", Config{Capacity: 0, HandSize: 1}, false},
		{"hand larger than capacity", Config{Capacity: 2, HandSize: 3}, false},
		{"hand too large", Config{Capacity: 20, HandSize: 10}, false},
		{"zero hand", Config{Capacity: 20, HandSize: 0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			}
		})
	}
}

func TestNewStartsEmpty(t *testing.T) {
	s := newStore(t, 4, 2)
	assert.Equal(t, 4, s.Capacity())
	assert.Equal(t, 2, s.HandSize())
	assert.Equal(t, 0, s.Selected())
	for _, slot := range s.Slots() {
		assert.True(t, slot.Empty())
	}
}

// ─── TryAddItem ───────────────────────────────────────────────────────────────

func TestTryAddItemSpillScenario(t *testing.T) {
	// capacity 3, hand 2, wood stacks to 5.
	s := newStore(t, 3, 2)

	mustAdd(t, s, "wood", 3)
	assert.Equal(t, Slot{ItemID: "wood", Quantity: 3}, s.Slot(0))

	mustAdd(t, s, "wood", 3)
	assert.Equal(t, Slot{ItemID: "wood", Quantity: 5}, s.Slot(0))
	assert.Equal(t, Slot{ItemID: "wood", Quantity: 1}, s.Slot(1))
	assert.True(t, s.Slot(2).Empty())
}

func TestTryAddItemFirstStackWins(t *testing.T) {
	s := newStore(t, 4, 2)
	mustAdd(t, s, "wood", 5)
	mustAdd(t, s, "stone", 1)
	mustAdd(t, s, "wood", 1)
	// Make slot0 partially empty: 4 in slot0, 1 in slot2.
	require.NoError(t, s.Remove(0, 1))

	mustAdd(t, s, "wood", 1)
	assert.Equal(t, 5, s.Slot(0).Quantity, "lowest-index stack with room is filled first")
	assert.Equal(t, 1, s.Slot(2).Quantity)
}

func TestTryAddItemAllOrNothing(t *testing.T) {
	s := newStore(t, 2, 2)
	mustAdd(t, s, "stone", 2)
	r := record(s)

	// Room is 1 (stack) + 3 (empty slot) = 4.
	ok, err := s.TryAddItem("stone", 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Slot{ItemID: "stone", Quantity: 2}, s.Slot(0))
	assert.True(t, s.Slot(1).Empty())
	assert.Empty(t, r.changes)

	mustAdd(t, s, "stone", 4)
	assert.Equal(t, 3, s.Slot(0).Quantity)
	assert.Equal(t, 3, s.Slot(1).Quantity)
}

func TestTryAddItemFull(t *testing.T) {
	s := newStore(t, 2, 2)
	mustAdd(t, s, "stone", 3)
	mustAdd(t, s, "wood", 5)

	ok, err := s.TryAddItem("potion", 1)
	require.NoError(t, err)
	assert.False(t, ok, "no stack and no empty slot is a normal false")
	assert.False(t, s.HasRoomFor("potion", 1))
}

func TestTryAddItemUnknownItem(t *testing.T) {
	s := newStore(t, 3, 2)
	r := record(s)

	ok, err := s.TryAddItem("mystery", 1)
	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUnknownItem))
	assert.Empty(t, r.changes)
	for _, slot := range s.Slots() {
		assert.True(t, slot.Empty())
	}
}

func TestTryAddItemInvalidAmount(t *testing.T) {
	s := newStore(t, 3, 2)
	for _, n := range []int{0, -2} {
		ok, err := s.TryAddItem("wood", n)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, ErrInvalidAmount))
	}
}

func TestTryAddItemNotifiesSnapshot(t *testing.T) {
	s := newStore(t, 3, 2)
	r := record(s)
	mustAdd(t, s, "wood", 2)

	require.Len(t, r.changes, 1)
	assert.Equal(t, s.Slots(), r.changes[0])

	// The snapshot is a copy: mutating it leaves the store alone.
	r.changes[0][0].Quantity = 99
	assert.Equal(t, 2, s.Slot(0).Quantity)
}

func TestTryAddItemNeverExceedsStackSize(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	ids := []string{"wood", "stone", "potion"}
	maxStack := map[string]int{"wood": 5, "stone": 3, "potion": 5}

	for round := range 50 {
		s := newStore(t, 6, 3)
		for range 40 {
			id := ids[rng.IntN(len(ids))]
			_, err := s.TryAddItem(id, 1+rng.IntN(7))
			require.NoError(t, err)

			for i, slot := range s.Slots() {
				if slot.Empty() {
					assert.Equal(t, 0, slot.Quantity, "round %d slot %d: empty slot has quantity", round, i)
					continue
				}
				assert.Positive(t, slot.Quantity)
				assert.LessOrEqual(t, slot.Quantity, maxStack[slot.ItemID], "round %d slot %d", round, i)
			}
			for _, id := range ids {
				assert.LessOrEqual(t, s.Count(id), s.Capacity()*maxStack[id])
			}
		}
	}
}

// ─── UseSelected ──────────────────────────────────────────────────────────────

func TestUseSelectedConsumesLastUnit(t *testing.T) {
	s := newStore(t, 3, 2)
	mustAdd(t, s, "potion", 1)
	r := record(s)

	agent := behavior.AgentState{Velocity: vecmath.Vec3{Y: -1}, Forward: vecmath.Vec3{Z: 1}}
	res, err := s.UseSelected(agent)
	require.NoError(t, err)
	assert.True(t, res.Used)
	assert.Equal(t, "potion", res.ItemID)
	assert.Equal(t, 0, res.Remaining)
	assert.InDelta(t, 6.0, res.Velocity.Z, 1e-9)
	assert.InDelta(t, -1.0, res.Velocity.Y, 1e-9)
	assert.True(t, s.Slot(0).Empty())
	assert.Len(t, r.changes, 1)

	// Second use on the now-empty slot is a no-op.
	res, err = s.UseSelected(agent)
	require.NoError(t, err)
	assert.Equal(t, UseResult{}, res)
	assert.Len(t, r.changes, 1, "no notification for an empty slot")
}

func TestUseSelectedDecrements(t *testing.T) {
	s := newStore(t, 3, 2)
	mustAdd(t, s, "wood", 3)

	res, err := s.UseSelected(behavior.AgentState{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining)
	assert.InDelta(t, 10.0, res.Velocity.Y, 1e-9)
	assert.Equal(t, Slot{ItemID: "wood", Quantity: 2}, s.Slot(0))
}

func TestUseSelectedEmptyIsNoop(t *testing.T) {
	s := newStore(t, 3, 2)
	mustAdd(t, s, "wood", 1)
	require.NoError(t, s.Select(1))
	before := s.Slots()
	r := record(s)

	res, err := s.UseSelected(behavior.AgentState{})
	require.NoError(t, err)
	assert.False(t, res.Used)
	assert.Equal(t, before, s.Slots())
	assert.Empty(t, r.changes)
}

func TestUseSelectedUnknownBehaviorAborts(t *testing.T) {
	s := newStore(t, 3, 2)
	mustAdd(t, s, "broken", 2)
	r := record(s)

	res, err := s.UseSelected(behavior.AgentState{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, behavior.ErrUnknownBehavior))
	assert.False(t, res.Used)
	assert.Equal(t, 2, s.Slot(0).Quantity, "nothing consumed on dispatch failure")
	assert.Empty(t, r.changes)
}

// ─── Swap ─────────────────────────────────────────────────────────────────────

func TestSwapIsAnInvolution(t *testing.T) {
	s := newStore(t, 4, 2)
	mustAdd(t, s, "wood", 2)
	mustAdd(t, s, "stone", 3)
	before := s.Slots()

	require.NoError(t, s.Swap(0, 3))
	assert.Equal(t, Slot{ItemID: "wood", Quantity: 2}, s.Slot(3))
	assert.True(t, s.Slot(0).Empty())

	require.NoError(t, s.Swap(0, 3))
	assert.Equal(t, before, s.Slots())
}

func TestSwapNotifies(t *testing.T) {
	s := newStore(t, 3, 2)
	mustAdd(t, s, "wood", 1)
	r := record(s)
	require.NoError(t, s.Swap(0, 1))
	assert.Len(t, r.changes, 1)
}

func TestSwapOutOfRange(t *testing.T) {
	cases := []struct {
		name string
		a, b int
	}{
		{"first too large", 3, 0},
		{"second too large", 0, 7},
		{"negative", -1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t, 3, 2)
			mustAdd(t, s, "wood", 1)
			before := s.Slots()
			r := record(s)

			err := s.Swap(tc.a, tc.b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidIndex))
			oopsErr, ok := oops.AsOops(err)
			require.True(t, ok)
			assert.Equal(t, CodeInvalidIndex, oopsErr.Code())
			assert.Equal(t, before, s.Slots())
			assert.Empty(t, r.changes)
		})
	}
}

func TestSwapOutOfRangePanicsInDebug(t *testing.T) {
	s := newDebugStore(t, 3, 2)
	assert.Panics(t, func() { _ = s.Swap(0, 3) })
}

func TestContractViolationIsLoggedInRelease(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)
	s, err := New(Config{Capacity: 3, HandSize: 2}, testCatalog(t), testDispatcher(t), zap.New(core))
	require.NoError(t, err)

	assert.NotPanics(t, func() { _ = s.Swap(5, 0) })
	entries := logs.FilterLevelExact(zapcore.DPanicLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "inventory contract violation", entries[0].Message)
}

// ─── Select ───────────────────────────────────────────────────────────────────

func TestSelect(t *testing.T) {
	s := newStore(t, 3, 2)
	r := record(s)

	require.NoError(t, s.Select(1))
	assert.Equal(t, 1, s.Selected())
	assert.Equal(t, [][2]int{{0, 1}}, r.selections)
}

func TestSelectPastHandIsNoop(t *testing.T) {
	s := newStore(t, 3, 2)
	r := record(s)

	require.NoError(t, s.Select(5))
	require.NoError(t, s.Select(2))
	assert.Equal(t, 0, s.Selected())
	assert.Empty(t, r.selections)
}

func TestSelectNegative(t *testing.T) {
	s := newStore(t, 3, 2)
	err := s.Select(-1)
	assert.True(t, errors.Is(err, ErrInvalidIndex))
	assert.Equal(t, 0, s.Selected())

	assert.Panics(t, func() { _ = newDebugStore(t, 3, 2).Select(-1) })
}

// ─── Remove ───────────────────────────────────────────────────────────────────

func TestRemove(t *testing.T) {
	s := newStore(t, 3, 2)
	mustAdd(t, s, "wood", 4)

	require.NoError(t, s.Remove(0, 3))
	assert.Equal(t, 1, s.Slot(0).Quantity)
	require.NoError(t, s.Remove(0, 1))
	assert.True(t, s.Slot(0).Empty())

	// Empty slot: no-op.
	require.NoError(t, s.Remove(0, 1))
	assert.True(t, errors.Is(s.Remove(9, 1), ErrInvalidIndex))
	assert.True(t, errors.Is(s.Remove(0, 0), ErrInvalidAmount))
}

func TestRemoveBelowZeroClampsInRelease(t *testing.T) {
	s := newStore(t, 3, 2)
	mustAdd(t, s, "wood", 2)
	require.NoError(t, s.Remove(0, 5))
	assert.True(t, s.Slot(0).Empty())
	assert.Equal(t, 0, s.Count("wood"))
}

func TestRemoveBelowZeroPanicsInDebug(t *testing.T) {
	s := newDebugStore(t, 3, 2)
	mustAdd(t, s, "wood", 2)
	assert.Panics(t, func() { _ = s.Remove(0, 5) })
}

// ─── observers ────────────────────────────────────────────────────────────────

func TestUnsubscribeAndClose(t *testing.T) {
	s := newStore(t, 3, 2)
	calls := 0
	cancel := s.OnChanged(func([]Slot) { calls++ })
	mustAdd(t, s, "wood", 1)
	cancel()
	mustAdd(t, s, "wood", 1)
	assert.Equal(t, 1, calls)

	sel := 0
	s.OnSelectionChanged(func(int, int) { sel++ })
	s.Close()
	require.NoError(t, s.Select(1))
	assert.Equal(t, 0, sel)
}

func TestHasRoomFor(t *testing.T) {
	s := newStore(t, 1, 1)
	assert.True(t, s.HasRoomFor("stone", 3))
	assert.False(t, s.HasRoomFor("stone", 4))
	assert.False(t, s.HasRoomFor("mystery", 1))
	assert.False(t, s.HasRoomFor("stone", 0))
}
