package wpblock

import (
	"strings"
	"sync"
)

// Format selects a serialization format.
type Format uint8

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// Tree owns a root block. Tree methods are safe for concurrent use: mutations
// take the write lock and lookups the read lock. Blocks handed out by lookups
// must not be mutated while other goroutines read the tree.
type Tree struct {
	mu   sync.RWMutex
	name string
	root *Block
}

// NewTree returns a tree over root, which may be nil.
func NewTree(name string, root *Block) *Tree {
	return &Tree{name: name, root: root}
}

func (t *Tree) Name() string { return t.name }

func (t *Tree) Root() *Block {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Size returns the number of children of the root.
func (t *Tree) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.root == nil {
		return 0
	}
	return t.root.Count()
}

// Add appends b under the block with parentID and returns b's id. It returns
// false without mutating when the parent is not in the tree or is b itself or
// one of b's descendants.
func (t *Tree) Add(b *Block, parentID string) (string, bool) {
	if b == nil {
		return "", false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	parent := find(t.root, parentID)
	if parent == nil || parent.descendsFrom(b) {
		return "", false
	}
	parent.Append(b)
	return b.id, true
}

// Update applies p to the block with p.ID.
func (t *Tree) Update(p Patch) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := find(t.root, p.ID)
	if b == nil {
		return false
	}
	return b.Update(&p)
}

// Find searches the tree for id, root included.
func (t *Tree) Find(id string) *Block {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return find(t.root, id)
}

// FindFrom searches the subtree rooted at start for id. A nil start searches
// from the root.
func (t *Tree) FindFrom(id string, start *Block) *Block {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if start == nil {
		start = t.root
	}
	return find(start, id)
}

// find is a pre-order depth-first search.
func find(start *Block, id string) *Block {
	if start == nil || start.id == id {
		return start
	}
	for _, c := range start.children {
		if b := find(c, id); b != nil {
			return b
		}
	}
	return nil
}

// Remove detaches the block with id from its parent and reports whether the
// block was found. The root has no parent, so removing it only reports true
// and leaves the tree unchanged.
func (t *Tree) Remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := find(t.root, id)
	if b == nil {
		return false
	}
	if b.parent != nil {
		b.parent.Remove(id)
	}
	return true
}

// Query returns the blocks matching selector in pre-order. ok is false when the
// tree has no root.
//
// Selectors:
//
//	key=value  attribute key holds the string value (no coercion)
//	.text      content contains text
//	name       block name equals name
//
// A key=value selector splits on the first "=", so a=b=c matches attribute a
// holding "b=c".
func (t *Tree) Query(selector string) (matches []*Block, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.query(selector)
}

func (t *Tree) query(selector string) ([]*Block, bool) {
	if t.root == nil {
		return nil, false
	}
	match := compileSelector(selector)
	return Perform(t.root, func(b *Block, acc []*Block) []*Block {
		if match(b) {
			acc = append(acc, b)
		}
		return acc
	}, []*Block{}), true
}

func compileSelector(selector string) func(*Block) bool {
	if key, value, ok := strings.Cut(selector, "="); ok {
		return func(b *Block) bool {
			s, isString := b.Attr(key).(string)
			return isString && s == value
		}
	}
	if text, ok := strings.CutPrefix(selector, "."); ok {
		return func(b *Block) bool {
			return strings.Contains(b.content, text)
		}
	}
	return func(b *Block) bool {
		return b.name == selector
	}
}

// SubTree builds a new tree from the matches of selector, or returns nil when
// there are none. The root is a deep copy of the first match and every later
// match is deep-copied directly under it, so the matches' original nesting is
// not kept.
func (t *Tree) SubTree(selector string) *Tree {
	t.mu.RLock()
	defer t.mu.RUnlock()
	matches, ok := t.query(selector)
	if !ok || len(matches) == 0 {
		return nil
	}
	root := matches[0].Copy(true)
	for _, m := range matches[1:] {
		root.Append(m.Copy(true))
	}
	return NewTree(t.name, root)
}

// Serialize renders the root in format. An empty tree renders as "".
func (t *Tree) Serialize(format Format) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.root == nil {
		return "", nil
	}
	return t.root.Serialize(format == FormatYAML)
}
