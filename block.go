package wpblock

import (
	"strings"

	"github.com/google/uuid"
)

// MaxDepth bounds recursive copies.
const MaxDepth = 512

// Block is one node of a content tree. A block owns its children; the parent
// link is a back-reference maintained by Append and Remove.
type Block struct {
	id         string
	name       string
	content    string
	attributes Attributes
	children   []*Block
	parent     *Block
}

// Patch is a partial update. Empty fields are left unchanged.
type Patch struct {
	// ID selects the block for Tree.Update. Block.Update ignores it.
	ID      string
	Name    string
	Content string
}

// NewBlock returns a detached block with a fresh id.
func NewBlock(name, content string, attrs Attributes) *Block {
	return newBlockWithID(uuid.NewString(), name, content, attrs)
}

func newBlockWithID(id, name, content string, attrs Attributes) *Block {
	b := &Block{id: id, name: name, content: content, attributes: attrs}
	if b.attributes.m == nil {
		b.attributes.m = make(map[string]any)
	}
	return b
}

func (b *Block) ID() string      { return b.id }
func (b *Block) Name() string    { return b.name }
func (b *Block) Content() string { return b.content }
func (b *Block) Parent() *Block  { return b.parent }
func (b *Block) Count() int      { return len(b.children) }
func (b *Block) IsLeaf() bool    { return len(b.children) == 0 }
func (b *Block) IsRoot() bool    { return b.parent == nil }

// Attributes returns the block's attribute set for direct access.
func (b *Block) Attributes() *Attributes {
	return &b.attributes
}

// Children returns the children in order. The slice is a copy; the blocks are
// not.
func (b *Block) Children() []*Block {
	out := make([]*Block, len(b.children))
	copy(out, b.children)
	return out
}

// Append adds child as the last child and points its parent link here. A
// child that already has a parent is detached from it first. Appending b or
// one of its ancestors under b is ignored.
func (b *Block) Append(child *Block) {
	if child == nil || b.descendsFrom(child) {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child.id)
	}
	child.parent = b
	b.children = append(b.children, child)
}

// Update applies the non-empty fields of p and reports whether any was set.
func (b *Block) Update(p *Patch) bool {
	if p == nil {
		return false
	}
	changed := false
	if p.Name != "" {
		b.name = p.Name
		changed = true
	}
	if p.Content != "" {
		b.content = p.Content
		changed = true
	}
	return changed
}

// Pop removes and returns the last child, or nil when there is none.
func (b *Block) Pop() *Block {
	n := len(b.children)
	if n == 0 {
		return nil
	}
	last := b.children[n-1]
	b.children[n-1] = nil
	b.children = b.children[:n-1]
	last.parent = nil
	return last
}

// Remove drops the immediate child with the given id. Descendants are not
// searched.
func (b *Block) Remove(id string) {
	for i, c := range b.children {
		if c.id != id {
			continue
		}
		copy(b.children[i:], b.children[i+1:])
		b.children[len(b.children)-1] = nil
		b.children = b.children[:len(b.children)-1]
		c.parent = nil
		return
	}
}

// Clear drops every child.
func (b *Block) Clear() {
	for i, c := range b.children {
		c.parent = nil
		b.children[i] = nil
	}
	b.children = nil
}

// Get returns the child at idx. Negative indexes count from the end.
func (b *Block) Get(idx int) *Block {
	if idx < 0 {
		idx += len(b.children)
	}
	if idx < 0 || idx >= len(b.children) {
		return nil
	}
	return b.children[idx]
}

// Attr returns the attribute value, or nil when absent.
func (b *Block) Attr(name string) any {
	v, _ := b.attributes.Get(name)
	return v
}

// AttrDefault returns the attribute value. When the attribute is absent def is
// written into the attribute set and returned, so reading with a default
// mutates the block.
func (b *Block) AttrDefault(name string, def any) any {
	if v, ok := b.attributes.Get(name); ok {
		return v
	}
	b.attributes.Set(name, def)
	return def
}

func (b *Block) HasAttr(name string) bool { return b.attributes.Contains(name) }
func (b *Block) RemoveAttr(name string)   { b.attributes.Remove(name) }

// Copy copies the block, and its subtree when deep is set, down to MaxDepth
// levels.
func (b *Block) Copy(deep bool) *Block {
	return b.CopyDepth(deep, MaxDepth)
}

// CopyDepth copies the block with a fresh id and no parent. Children are
// copied only when deep is set and depth is positive, one level per unit of
// depth; running out of depth stops silently.
func (b *Block) CopyDepth(deep bool, depth int) *Block {
	cp := NewBlock(b.name, b.content, b.attributes.clone())
	if deep && depth > 0 {
		for _, c := range b.children {
			cp.Append(c.CopyDepth(deep, depth-1))
		}
	}
	return cp
}

// Path returns the chain from this block up to the root, root last.
func (b *Block) Path() []*Block {
	var path []*Block
	for cur := b; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}
	return path
}

// descendsFrom reports whether a is b or one of b's ancestors.
func (b *Block) descendsFrom(a *Block) bool {
	for cur := b; cur != nil; cur = cur.parent {
		if cur == a {
			return true
		}
	}
	return false
}

// PathString joins the ids of Path with " -> ".
func (b *Block) PathString() string {
	path := b.Path()
	ids := make([]string, len(path))
	for i, p := range path {
		ids[i] = p.id
	}
	return strings.Join(ids, " -> ")
}

// Serialize renders the block as JSON, or YAML when toYAML is set.
func (b *Block) Serialize(toYAML bool) (string, error) {
	if toYAML {
		return ToYAML(b)
	}
	return ToJSON(b)
}

// Perform folds fn over the subtree rooted at b in pre-order: b first, then
// each child's subtree left to right.
func Perform[T any](b *Block, fn func(*Block, T) T, initial T) T {
	if b == nil {
		return initial
	}
	acc := fn(b, initial)
	for _, c := range b.children {
		acc = Perform(c, fn, acc)
	}
	return acc
}
