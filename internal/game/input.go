package game

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"satchel/internal/vecmath"
)

// Action represents a player-requested game action.
type Action uint8

const (
	ActionNone Action = iota
	ActionMoveForward
	ActionMoveBack
	ActionMoveLeft
	ActionMoveRight
	ActionLookLeft
	ActionLookRight
	ActionToggleInventory
	ActionUse
	ActionBack
	ActionQuit
	ActionSelect1
	ActionSelect2
	ActionSelect3
	ActionSelect4
	ActionSelect5
	ActionSelect6
	ActionSelect7
	ActionSelect8
	ActionSelect9
)

// SlotIndex returns the hand index for a select action, or -1.
func (a Action) SlotIndex() int {
	if a < ActionSelect1 || a > ActionSelect9 {
		return -1
	}
	return int(a - ActionSelect1)
}

// gameplayOnly reports whether the action is ignored while the inventory is open.
func (a Action) gameplayOnly() bool {
	switch a {
	case ActionMoveForward, ActionMoveBack, ActionMoveLeft, ActionMoveRight,
		ActionLookLeft, ActionLookRight, ActionUse:
		return true
	}
	return false
}

// keyToAction maps a tcell key event to a game action.
func keyToAction(ev *tcell.EventKey) Action {
	// Named keys.
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionMoveForward
	case tcell.KeyDown:
		return ActionMoveBack
	case tcell.KeyLeft:
		return ActionMoveLeft
	case tcell.KeyRight:
		return ActionMoveRight
	case tcell.KeyTab:
		return ActionToggleInventory
	case tcell.KeyEscape:
		return ActionBack
	case tcell.KeyCtrlC:
		return ActionQuit
	}

	// Rune keys.
	r := ev.Rune()
	switch r {
	case 'w', 'W':
		return ActionMoveForward
	case 's', 'S':
		return ActionMoveBack
	case 'a', 'A':
		return ActionMoveLeft
	case 'd', 'D':
		return ActionMoveRight
	case 'q', 'Q':
		return ActionLookLeft
	case 'e', 'E':
		return ActionLookRight
	case 'i', 'I':
		return ActionToggleInventory
	case ' ', 'f', 'F':
		return ActionUse
	}
	if r >= '1' && r <= '9' {
		return ActionSelect1 + Action(r-'1')
	}
	return ActionNone
}

// Terminals report key presses only. A move key holds its direction until
// the hold expires or the opposite key is pressed.
type heldKeys struct {
	forward, back, left, right time.Time
}

func (h *heldKeys) press(a Action, now time.Time, hold time.Duration) {
	until := now.Add(hold)
	switch a {
	case ActionMoveForward:
		h.forward, h.back = until, time.Time{}
	case ActionMoveBack:
		h.back, h.forward = until, time.Time{}
	case ActionMoveLeft:
		h.left, h.right = until, time.Time{}
	case ActionMoveRight:
		h.right, h.left = until, time.Time{}
	}
}

func (h *heldKeys) release() { *h = heldKeys{} }

// vector returns the held direction as (x right, y forward) input.
func (h heldKeys) vector(now time.Time) vecmath.Vec2 {
	var v vecmath.Vec2
	if now.Before(h.forward) {
		v.Y++
	}
	if now.Before(h.back) {
		v.Y--
	}
	if now.Before(h.right) {
		v.X++
	}
	if now.Before(h.left) {
		v.X--
	}
	return v
}
