// Package history implements a bounded, cursor-addressed undo/redo log.
//
// A History owns an ordered buffer of operations and a cursor. Entries before
// the cursor are done; entries from the cursor onward are redoable. Pushing
// after an undo discards the redoable tail only when the log was created with
// cleanStaleOps set.
//
// History is not safe for concurrent use. Callers that share one across
// goroutines must guard it with the same lock that guards its owner.
package history

import (
	"errors"
	"fmt"
	"time"
)

// ErrRange reports a navigation request outside the valid window.
var ErrRange = errors.New("history: invalid number of steps")

// Opcode classifies a recorded operation.
type Opcode uint8

const (
	Create Opcode = iota
	Read
	Update
	Delete
)

func (o Opcode) String() string {
	switch o {
	case Create:
		return "CREATE"
	case Read:
		return "READ"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	default:
		return fmt.Sprintf("Opcode(%d)", uint8(o))
	}
}

// Operation is one recorded state change.
type Operation[T any] struct {
	Opcode    Opcode
	Data      T
	Timestamp time.Time
	// Origin names the producing component. Diagnostics only.
	Origin string
}

// NewOperation returns an operation stamped with the current time.
func NewOperation[T any](op Opcode, data T, origin string) Operation[T] {
	return Operation[T]{Opcode: op, Data: data, Timestamp: time.Now(), Origin: origin}
}

// History is a linear undo/redo log over operations of type T.
type History[T any] struct {
	ops           []Operation[T]
	cursor        int
	limit         int
	cleanStaleOps bool
}

// New returns an empty history. limit caps the number of live entries when
// cleanStaleOps is false; a recycling history accepts every push.
func New[T any](limit int, cleanStaleOps bool) *History[T] {
	if limit < 0 {
		limit = 0
	}
	return &History[T]{
		ops:           make([]Operation[T], 0, min(limit, 64)),
		limit:         limit,
		cleanStaleOps: cleanStaleOps,
	}
}

// Limit returns the configured capacity.
func (h *History[T]) Limit() int { return h.limit }

// CleanStaleOps reports whether pushes discard the redoable tail.
func (h *History[T]) CleanStaleOps() bool { return h.cleanStaleOps }

// Cursor returns the current cursor index, 0 <= Cursor() <= Len().
func (h *History[T]) Cursor() int { return h.cursor }

// Len returns the number of stored entries.
func (h *History[T]) Len() int { return len(h.ops) }

// Push appends op and moves the cursor past it. It returns false, leaving the
// buffer untouched, when the log is full and not configured to recycle.
func (h *History[T]) Push(op Operation[T]) bool {
	if len(h.ops) >= h.limit && !h.cleanStaleOps {
		return false
	}
	if h.cleanStaleOps && h.cursor < len(h.ops) {
		clear(h.ops[h.cursor:])
		h.ops = h.ops[:h.cursor]
	}
	h.ops = append(h.ops, op)
	h.cursor = len(h.ops)
	return true
}

// Undo moves the cursor back by steps and returns the entry now at the
// cursor.
func (h *History[T]) Undo(steps int) (*Operation[T], error) {
	if steps < 0 || steps > h.cursor {
		return nil, rangeErr("undo", steps, h.cursor, len(h.ops))
	}
	h.cursor = max(0, h.cursor-steps)
	return h.at(h.cursor), nil
}

// Redo moves the cursor forward by steps and returns the entry now at the
// cursor, which is nil once the cursor reaches the end of the buffer.
func (h *History[T]) Redo(steps int) (*Operation[T], error) {
	if steps < 0 || h.cursor+steps > len(h.ops) {
		return nil, rangeErr("redo", steps, h.cursor, len(h.ops))
	}
	h.cursor = min(len(h.ops), h.cursor+steps)
	return h.at(h.cursor), nil
}

// Pop removes the steps entries ending at the cursor and returns them.
func (h *History[T]) Pop(steps int) ([]Operation[T], error) {
	if steps < 0 || steps > h.cursor {
		return nil, rangeErr("pop", steps, h.cursor, len(h.ops))
	}
	from := h.cursor - steps
	removed := make([]Operation[T], steps)
	copy(removed, h.ops[from:h.cursor])
	tail := len(h.ops) - h.cursor
	copy(h.ops[from:], h.ops[h.cursor:])
	clear(h.ops[from+tail:])
	h.ops = h.ops[:from+tail]
	h.cursor = from
	return removed, nil
}

// Peek returns the entry at the cursor, or nil at the end of the buffer.
func (h *History[T]) Peek() *Operation[T] {
	return h.at(h.cursor)
}

// Recent returns the n entries immediately before the cursor, oldest first.
func (h *History[T]) Recent(n int) ([]Operation[T], error) {
	if n < 0 || n > h.cursor {
		return nil, rangeErr("recent", n, h.cursor, len(h.ops))
	}
	return cloneOps(h.ops[h.cursor-n : h.cursor]), nil
}

// Stale returns the n redoable entries starting at the cursor.
func (h *History[T]) Stale(n int) ([]Operation[T], error) {
	if n < 0 || n > len(h.ops)-h.cursor {
		return nil, rangeErr("stale", n, h.cursor, len(h.ops))
	}
	return cloneOps(h.ops[h.cursor : h.cursor+n]), nil
}

// Reverse reverses, in place, the n entries immediately before the cursor and
// returns them in their new order. The cursor does not move.
func (h *History[T]) Reverse(n int) ([]Operation[T], error) {
	if n < 0 || n > len(h.ops) || n > h.cursor {
		return nil, rangeErr("reverse", n, h.cursor, len(h.ops))
	}
	window := h.ops[h.cursor-n : h.cursor]
	for i, j := 0, len(window)-1; i < j; i, j = i+1, j-1 {
		window[i], window[j] = window[j], window[i]
	}
	return cloneOps(window), nil
}

// Clear empties the buffer and resets the cursor.
func (h *History[T]) Clear() {
	clear(h.ops)
	h.ops = h.ops[:0]
	h.cursor = 0
}

// All returns every stored entry regardless of the cursor.
func (h *History[T]) All() []Operation[T] {
	return cloneOps(h.ops)
}

func (h *History[T]) at(i int) *Operation[T] {
	if i < 0 || i >= len(h.ops) {
		return nil
	}
	op := h.ops[i]
	return &op
}

func cloneOps[T any](ops []Operation[T]) []Operation[T] {
	out := make([]Operation[T], len(ops))
	copy(out, ops)
	return out
}

func rangeErr(op string, steps, cursor, length int) error {
	return fmt.Errorf("%w: %s %d with cursor %d of %d", ErrRange, op, steps, cursor, length)
}
