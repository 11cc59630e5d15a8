// Package pickup glides collected items toward the collector one frame at a
// time and hands them to the inventory once they arrive.
package pickup

import (
	"slices"

	"satchel/internal/ecs"
	"satchel/internal/vecmath"
)

// Defaults for Config.
const (
	DefaultSpeed           = 6.0
	DefaultCollectDistance = 1.0
)

// Config tunes the glide.
type Config struct {
	// Speed is the glide speed in world units per second.
	Speed float64
	// CollectDistance is how close an item must be to the target to be added.
	CollectDistance float64
}

// DefaultConfig returns the stock glide settings.
func DefaultConfig() Config {
	return Config{Speed: DefaultSpeed, CollectDistance: DefaultCollectDistance}
}

// Status is how a task finished.
type Status uint8

const (
	// Collected: add accepted the item.
	Collected Status = iota
	// Rejected: add reported no room. The item stays where it landed.
	Rejected
	// Failed: add returned an error.
	Failed
	// Cancelled: the item entity went away before arriving.
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Collected:
		return "collected"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Task is one item in flight.
type Task struct {
	Entity ecs.EntityID
	ItemID string
	Amount int
	Pos    vecmath.Vec3
}

// Outcome reports a finished task.
type Outcome struct {
	Task
	Status Status
	Err    error
}

// AddFunc stores a collected item. It is normally inventory.Store.TryAddItem.
type AddFunc func(itemID string, amount int) (bool, error)

// Stepper advances every in-flight task once per frame. Tasks run in the
// order they were started.
type Stepper struct {
	cfg   Config
	tasks []*Task
}

// NewStepper returns an idle stepper.
func NewStepper(cfg Config) *Stepper {
	return &Stepper{cfg: cfg}
}

// Start begins gliding entity from pos. Starting an entity already in flight
// is ignored. It reports whether a new task was created.
func (s *Stepper) Start(entity ecs.EntityID, itemID string, amount int, pos vecmath.Vec3) bool {
	if s.InFlight(entity) {
		return false
	}
	s.tasks = append(s.tasks, &Task{Entity: entity, ItemID: itemID, Amount: amount, Pos: pos})
	return true
}

// InFlight reports whether entity has a running task.
func (s *Stepper) InFlight(entity ecs.EntityID) bool {
	return slices.ContainsFunc(s.tasks, func(t *Task) bool { return t.Entity == entity })
}

// Active returns the number of running tasks.
func (s *Stepper) Active() int { return len(s.tasks) }

// Positions returns the current position of every running task, keyed by
// entity.
func (s *Stepper) Positions() map[ecs.EntityID]vecmath.Vec3 {
	out := make(map[ecs.EntityID]vecmath.Vec3, len(s.tasks))
	for _, t := range s.tasks {
		out[t.Entity] = t.Pos
	}
	return out
}

// Step advances every task by dt seconds toward target. A task already within
// CollectDistance calls add exactly once and finishes; a task whose entity is
// no longer alive finishes as Cancelled without calling add.
func (s *Stepper) Step(dt float64, target vecmath.Vec3, alive func(ecs.EntityID) bool, add AddFunc) []Outcome {
	var done []Outcome
	limit := s.cfg.CollectDistance * s.cfg.CollectDistance

	s.tasks = slices.DeleteFunc(s.tasks, func(t *Task) bool {
		if !alive(t.Entity) {
			done = append(done, Outcome{Task: *t, Status: Cancelled})
			return true
		}
		if t.Pos.SqrDistance(target) > limit {
			t.Pos = vecmath.MoveTowards(t.Pos, target, s.cfg.Speed*dt)
			return false
		}
		ok, err := add(t.ItemID, t.Amount)
		switch {
		case err != nil:
			done = append(done, Outcome{Task: *t, Status: Failed, Err: err})
		case !ok:
			done = append(done, Outcome{Task: *t, Status: Rejected})
		default:
			done = append(done, Outcome{Task: *t, Status: Collected})
		}
		return true
	})
	return done
}

// Clear abandons every task without reporting outcomes.
func (s *Stepper) Clear() { s.tasks = nil }
