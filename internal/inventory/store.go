// Package inventory implements the agent's slot inventory: a fixed number of
// slots, the first HandSize of which form the quick-select hand.
//
// A Store is owned by one game goroutine. All mutation and every observer
// callback happens synchronously on that goroutine.
package inventory

import (
	"slices"

	"github.com/samber/oops"
	"go.uber.org/zap"

	"satchel/internal/behavior"
	"satchel/internal/catalog"
	"satchel/internal/observer"
	"satchel/internal/vecmath"
)

const (
	DefaultCapacity = 20
	DefaultHandSize = 5
	// MaxHandSize matches the numbered hand-select keys 1..9.
	MaxHandSize = 9
)

// Config sizes a Store.
type Config struct {
	Capacity int
	HandSize int
}

// DefaultConfig returns the stock 20-slot inventory with a 5-slot hand.
func DefaultConfig() Config {
	return Config{Capacity: DefaultCapacity, HandSize: DefaultHandSize}
}

// Validate checks that the hand fits inside the inventory.
func (c Config) Validate() error {
	errb := oops.In("inventory").Code(CodeInvalidConfig).With("capacity", c.Capacity, "hand_size", c.HandSize)
	if c.Capacity < 1 {
		return errb.Wrapf(ErrInvalidConfig, "capacity must be at least 1, got %d", c.Capacity)
	}
	if c.HandSize < 1 || c.HandSize > MaxHandSize {
		return errb.Wrapf(ErrInvalidConfig, "hand size must be in [1, %d], got %d", MaxHandSize, c.HandSize)
	}
	if c.HandSize > c.Capacity {
		return errb.Wrapf(ErrInvalidConfig, "hand size %d exceeds capacity %d", c.HandSize, c.Capacity)
	}
	return nil
}

// UseResult reports what UseSelected did. The zero value means nothing was used.
type UseResult struct {
	Used      bool
	ItemID    string
	Velocity  vecmath.Vec3
	Remaining int
}

// Store owns the slot sequence and the hand selection.
type Store struct {
	cfg      Config
	catalog  *catalog.Catalog
	dispatch *behavior.Dispatcher
	log      *zap.Logger

	slots    []Slot
	selected int

	changed   observer.List[func([]Slot)]
	selection observer.List[func(old, new int)]
}

// New creates an empty store. A nil logger is replaced with a no-op logger.
func New(cfg Config, cat *catalog.Catalog, dispatch *behavior.Dispatcher, log *zap.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		cfg:      cfg,
		catalog:  cat,
		dispatch: dispatch,
		log:      log.Named("inventory"),
		slots:    make([]Slot, cfg.Capacity),
	}, nil
}

// ─── observers ──────────────────────────────────────────────────────────────

// OnChanged registers fn to receive a snapshot of every slot after each
// mutation. The returned function unsubscribes.
func (s *Store) OnChanged(fn func(slots []Slot)) (cancel func()) {
	return s.changed.Add(fn)
}

// OnSelectionChanged registers fn to receive (old, new) hand indices.
func (s *Store) OnSelectionChanged(fn func(old, new int)) (cancel func()) {
	return s.selection.Add(fn)
}

// Close drops every observer.
func (s *Store) Close() {
	s.changed.Clear()
	s.selection.Clear()
}

func (s *Store) notifyChanged() {
	s.changed.Each(func(fn func([]Slot)) { fn(s.Slots()) })
}

// ─── queries ────────────────────────────────────────────────────────────────

func (s *Store) Capacity() int { return s.cfg.Capacity }
func (s *Store) HandSize() int { return s.cfg.HandSize }
func (s *Store) Selected() int { return s.selected }

// Slots returns a copy of the slot sequence.
func (s *Store) Slots() []Slot { return slices.Clone(s.slots) }

// Slot returns the slot at index, or an empty slot when index is out of range.
func (s *Store) Slot(index int) Slot {
	if index < 0 || index >= len(s.slots) {
		return Slot{}
	}
	return s.slots[index]
}

// SelectedSlot returns the slot under the hand selection.
func (s *Store) SelectedSlot() Slot { return s.slots[s.selected] }

// Count returns the total quantity of itemID across all slots.
func (s *Store) Count(itemID string) int {
	n := 0
	for _, slot := range s.slots {
		if slot.ItemID == itemID {
			n += slot.Quantity
		}
	}
	return n
}

// HasRoomFor reports whether TryAddItem(itemID, amount) would succeed.
// Unknown items have no room.
func (s *Store) HasRoomFor(itemID string, amount int) bool {
	def, err := s.catalog.Lookup(itemID)
	if err != nil || amount <= 0 {
		return false
	}
	return s.room(def) >= amount
}

// room is the total quantity of def that still fits: free space in existing
// stacks plus a full stack per empty slot.
func (s *Store) room(def catalog.ItemDefinition) int {
	n := 0
	for _, slot := range s.slots {
		switch {
		case slot.Empty():
			n += def.MaxStackSize
		case slot.ItemID == def.ID && slot.Quantity < def.MaxStackSize:
			n += def.MaxStackSize - slot.Quantity
		}
	}
	return n
}

// ─── mutation ───────────────────────────────────────────────────────────────

// TryAddItem stores amount of itemID. Existing stacks are topped up in
// ascending slot order, then the remainder spills into empty slots from the
// left, each capped at the item's stack size. The add is all-or-nothing:
// when the total room is short it returns false and changes nothing.
func (s *Store) TryAddItem(itemID string, amount int) (bool, error) {
	def, err := s.catalog.Lookup(itemID)
	if err != nil {
		return false, err
	}
	if amount <= 0 {
		return false, oops.
			In("inventory").
			Code(CodeInvalidAmount).
			With("item_id", itemID, "amount", amount).
			Wrapf(ErrInvalidAmount, "add %q: amount must be positive, got %d", itemID, amount)
	}
	if s.room(def) < amount {
		s.log.Debug("no room for item", zap.String("item_id", itemID), zap.Int("amount", amount))
		return false, nil
	}

	remaining := amount
	for i := range s.slots {
		if remaining == 0 {
			break
		}
		slot := &s.slots[i]
		if slot.ItemID != itemID || slot.Quantity >= def.MaxStackSize {
			continue
		}
		n := min(remaining, def.MaxStackSize-slot.Quantity)
		slot.Quantity += n
		remaining -= n
	}
	for i := range s.slots {
		if remaining == 0 {
			break
		}
		slot := &s.slots[i]
		if !slot.Empty() {
			continue
		}
		n := min(remaining, def.MaxStackSize)
		*slot = Slot{ItemID: itemID, Quantity: n}
		remaining -= n
	}

	s.log.Debug("added item", zap.String("item_id", itemID), zap.Int("amount", amount))
	s.notifyChanged()
	return true, nil
}

// UseSelected applies the selected item's behavior to agent and consumes one
// unit. An empty selection is a silent no-op. Catalog or dispatch failures
// abort before anything is consumed.
func (s *Store) UseSelected(agent behavior.AgentState) (UseResult, error) {
	slot := s.slots[s.selected]
	if slot.Empty() {
		return UseResult{}, nil
	}
	def, err := s.catalog.Lookup(slot.ItemID)
	if err != nil {
		return UseResult{}, err
	}
	vel, err := s.dispatch.Apply(def.UseBehaviorID, agent)
	if err != nil {
		return UseResult{}, oops.With("item_id", def.ID).Wrap(err)
	}

	remaining := s.decrement(s.selected, 1)
	s.log.Debug("used item",
		zap.String("item_id", def.ID),
		zap.String("behavior_id", def.UseBehaviorID),
		zap.Int("remaining", remaining),
	)
	s.notifyChanged()
	return UseResult{Used: true, ItemID: def.ID, Velocity: vel, Remaining: remaining}, nil
}

// Remove takes up to amount units out of the slot at index. Removing from an
// empty slot is a no-op.
func (s *Store) Remove(index, amount int) error {
	if index < 0 || index >= len(s.slots) {
		return s.contractViolation(errInvalidIndex("remove", index, len(s.slots)))
	}
	if amount <= 0 {
		return oops.
			In("inventory").
			Code(CodeInvalidAmount).
			With("index", index, "amount", amount).
			Wrapf(ErrInvalidAmount, "remove: amount must be positive, got %d", amount)
	}
	if s.slots[index].Empty() {
		return nil
	}
	s.decrement(index, amount)
	s.notifyChanged()
	return nil
}

// decrement lowers a slot's quantity, emptying it at zero. Going below zero
// breaks the slot invariant: it is reported through DPanic and clamped.
func (s *Store) decrement(index, amount int) int {
	slot := &s.slots[index]
	slot.Quantity -= amount
	if slot.Quantity < 0 {
		s.log.DPanic("slot quantity went negative",
			zap.Int("index", index),
			zap.String("item_id", slot.ItemID),
			zap.Int("quantity", slot.Quantity),
		)
		slot.Quantity = 0
	}
	if slot.Quantity == 0 {
		*slot = Slot{}
	}
	return slot.Quantity
}

// Swap exchanges the contents of two slots.
func (s *Store) Swap(a, b int) error {
	n := len(s.slots)
	if a < 0 || a >= n {
		return s.contractViolation(errInvalidIndex("swap", a, n))
	}
	if b < 0 || b >= n {
		return s.contractViolation(errInvalidIndex("swap", b, n))
	}
	s.slots[a], s.slots[b] = s.slots[b], s.slots[a]
	s.notifyChanged()
	return nil
}

// Select moves the hand selection. Indices past the hand are ignored.
func (s *Store) Select(index int) error {
	if index < 0 {
		return s.contractViolation(errInvalidIndex("select", index, s.cfg.HandSize))
	}
	if index >= s.cfg.HandSize {
		return nil
	}
	old := s.selected
	s.selected = index
	s.selection.Each(func(fn func(int, int)) { fn(old, index) })
	return nil
}

// contractViolation logs a caller bug. Development loggers panic on DPanic;
// production loggers record it and the caller gets the error back.
func (s *Store) contractViolation(err error) error {
	s.log.DPanic("inventory contract violation", zap.Error(err))
	return err
}
