// Package view tracks which screen owns the terminal: the gameplay arena or
// the inventory grid.
package view

import "satchel/internal/observer"

// Kind names a view.
type Kind uint8

const (
	Gameplay Kind = iota
	Inventory
)

func (k Kind) String() string {
	switch k {
	case Gameplay:
		return "gameplay"
	case Inventory:
		return "inventory"
	}
	return "unknown"
}

// Machine is the two-state view switch. The zero value is not usable; call New.
type Machine struct {
	current Kind
	opened  observer.List[func(Kind)]
	closed  observer.List[func(Kind)]
}

// New returns a machine showing Gameplay. No notification is sent.
func New() *Machine {
	return &Machine{current: Gameplay}
}

// Current returns the active view.
func (m *Machine) Current() Kind { return m.current }

// GameplayInputEnabled reports whether movement and use input should reach
// the agent. The inventory screen takes the keyboard and mouse.
func (m *Machine) GameplayInputEnabled() bool { return m.current == Gameplay }

// OnOpened registers fn to be called with the incoming view on every switch.
func (m *Machine) OnOpened(fn func(Kind)) (cancel func()) { return m.opened.Add(fn) }

// OnClosed registers fn to be called with the outgoing view on every switch.
func (m *Machine) OnClosed(fn func(Kind)) (cancel func()) { return m.closed.Add(fn) }

// Toggle flips between Gameplay and Inventory.
func (m *Machine) Toggle() {
	if m.current == Gameplay {
		m.switchTo(Inventory)
		return
	}
	m.switchTo(Gameplay)
}

// SwitchTo moves to k. Switching to the current view does nothing.
func (m *Machine) SwitchTo(k Kind) {
	if k == m.current {
		return
	}
	m.switchTo(k)
}

// switchTo notifies closed(outgoing) before opened(incoming).
func (m *Machine) switchTo(next Kind) {
	prev := m.current
	m.current = next
	m.closed.Each(func(fn func(Kind)) { fn(prev) })
	m.opened.Each(func(fn func(Kind)) { fn(next) })
}

// Close drops every observer.
func (m *Machine) Close() {
	m.opened.Clear()
	m.closed.Clear()
}
