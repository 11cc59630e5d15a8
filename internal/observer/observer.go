// Package observer provides the synchronous subscriber lists used by the
// inventory and view state to notify the UI.
package observer

import "slices"

// List holds callbacks of type F, invoked in subscription order.
// The zero value is ready to use. Not safe for concurrent use.
type List[F any] struct {
	nextID int
	subs   []entry[F]
}

type entry[F any] struct {
	id int
	fn F
}

// Add registers fn and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (l *List[F]) Add(fn F) (cancel func()) {
	id := l.nextID
	l.nextID++
	l.subs = append(l.subs, entry[F]{id: id, fn: fn})
	return func() { l.remove(id) }
}

func (l *List[F]) remove(id int) {
	l.subs = slices.DeleteFunc(l.subs, func(e entry[F]) bool { return e.id == id })
}

// Each calls visit for every subscriber registered when Each started.
// Subscribers may cancel themselves or others during the walk.
func (l *List[F]) Each(visit func(F)) {
	for _, e := range slices.Clone(l.subs) {
		visit(e.fn)
	}
}

// Len returns the number of subscribers.
func (l *List[F]) Len() int { return len(l.subs) }

// Clear drops every subscriber.
func (l *List[F]) Clear() { l.subs = nil }
