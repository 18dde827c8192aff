// Package editor models area polygon and rule list edits as immutable
// before/after values with an undo/redo history.
package editor

// DefaultHistoryLimit is the number of edits a History keeps when created
// with a non-positive limit.
const DefaultHistoryLimit = 100

// Edit is one applied change. Before and After are full snapshots, so
// undoing an edit never needs to replay it.
type Edit[T any] struct {
	Description string
	Before      T
	After       T
}

// History is a bounded undo/redo stack of snapshots. It is not safe for
// concurrent use.
type History[T any] struct {
	current T
	undo    []Edit[T]
	redo    []Edit[T]
	limit   int
}

// NewHistory starts a history at initial. The oldest edits are dropped once
// more than limit are recorded.
func NewHistory[T any](initial T, limit int) *History[T] {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History[T]{current: initial, limit: limit}
}

// Current returns the current snapshot.
func (h *History[T]) Current() T {
	return h.current
}

// Do records e and makes e.After current. The redo branch is discarded.
func (h *History[T]) Do(e Edit[T]) T {
	h.undo = append(h.undo, e)
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = h.redo[:0]
	h.current = e.After
	return h.current
}

// Undo reverts the last edit. ok is false when there is nothing to undo.
func (h *History[T]) Undo() (e Edit[T], ok bool) {
	if len(h.undo) == 0 {
		return e, false
	}
	e = h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	h.current = e.Before
	return e, true
}

// Redo reapplies the last undone edit.
func (h *History[T]) Redo() (e Edit[T], ok bool) {
	if len(h.redo) == 0 {
		return e, false
	}
	e = h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)
	h.current = e.After
	return e, true
}

// CanUndo reports whether Undo would succeed.
func (h *History[T]) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History[T]) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the number of edits that can be undone.
func (h *History[T]) Len() int { return len(h.undo) }
