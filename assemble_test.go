package wpblock

import (
	"errors"
	"testing"
)

func TestParseParagraph(t *testing.T) {
	tree, err := Parse(paragraphDoc, WithTreeName("post"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := tree.Root()
	if tree.Name() != "post" || root.Name() != RootName || tree.Size() != 1 {
		t.Fatalf("unexpected tree %s/%s size %d", tree.Name(), root.Name(), tree.Size())
	}
	para := root.Get(0)
	if para.Name() != "core/paragraph" || para.Content() != "Hello" || para.Attr("align") != "left" {
		t.Fatalf("unexpected paragraph %s %q %v", para.Name(), para.Content(), para.Attr("align"))
	}
	if para.Parent() != root || !para.IsLeaf() {
		t.Fatalf("paragraph must be a leaf under the root")
	}
}

func TestParseNested(t *testing.T) {
	source := "<!-- wp:core/group {\"align\":\"wide\"} -->\n" +
		paragraphDoc + "\n" +
		spacerDoc + "\n" +
		"<!-- /wp:core/group -->\n"
	tree, err := Parse(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tree.Size() != 1 {
		t.Fatalf("expected one top-level block, got %d", tree.Size())
	}
	group := tree.Root().Get(0)
	if group.Name() != "core/group" || group.Count() != 2 || group.Content() != "\n\n\n" {
		t.Fatalf("unexpected group %s children %d content %q", group.Name(), group.Count(), group.Content())
	}
	if group.Get(0).Name() != "core/paragraph" || group.Get(1).Name() != "core/spacer" {
		t.Fatalf("unexpected group children")
	}
	if group.Get(1).Attr("height") != float64(20) {
		t.Fatalf("spacer height not decoded: %v", group.Get(1).Attr("height"))
	}
}

func TestParseFreeform(t *testing.T) {
	tree, err := Parse("intro\n<!-- wp:more /-->\n  \noutro\nend")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := tree.Root()
	if root.Count() != 3 {
		t.Fatalf("expected 3 top-level blocks, got %d", root.Count())
	}
	first, more, last := root.Get(0), root.Get(1), root.Get(2)
	if first.Name() != FreeformName || first.Content() != "intro\n" {
		t.Fatalf("unexpected leading freeform %s %q", first.Name(), first.Content())
	}
	if more.Name() != "more" {
		t.Fatalf("unexpected middle block %s", more.Name())
	}
	if last.Name() != FreeformName || last.Content() != "outro\nend" {
		t.Fatalf("consecutive text must merge into one freeform block: %q", last.Content())
	}
}

func TestParseUnbalancedTags(t *testing.T) {
	tree, err := Parse("<!-- wp:a --><!-- wp:b -->x<!-- /wp:a -->y")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := tree.Root()
	a := root.Get(0)
	if a.Name() != "a" || a.Count() != 1 || a.Get(0).Name() != "b" || a.Get(0).Content() != "x" {
		t.Fatalf("closing an outer block must close the inner one")
	}
	if y := root.Get(1); y == nil || y.Name() != FreeformName || y.Content() != "y" {
		t.Fatalf("text after the outer close belongs to the root")
	}

	tree, err = Parse("<!-- /wp:core/group -->")
	if err != nil || tree.Size() != 0 {
		t.Fatalf("unmatched closing tag must be ignored: %v size %d", err, tree.Size())
	}

	tree, err = Parse("<!-- wp:core/group -->text")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if g := tree.Root().Get(0); g.Name() != "core/group" || g.Content() != "text" {
		t.Fatalf("unclosed block keeps its content: %q", g.Content())
	}
}

func TestParseAttributeErrorOffset(t *testing.T) {
	_, err := Parse(`ab<!-- wp:a {"x": } /-->`)
	var perr *AttributeParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *AttributeParseError, got %v", err)
	}
	if perr.Offset != 2 || perr.Raw != `{"x": }` {
		t.Fatalf("unexpected error %+v", perr)
	}
	if !errors.Is(err, ErrAttributeParse) {
		t.Fatalf("error must match ErrAttributeParse")
	}
}

func TestParseTagsSharingALine(t *testing.T) {
	tree, err := Parse(`<!-- wp:group {"a":1} --><!-- wp:spacer {"height":20} /--><!-- /wp:group -->`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := tree.Root()
	if root.Count() != 2 {
		t.Fatalf("expected 2 top-level blocks, got %d", root.Count())
	}
	if b := root.Get(0); b.Name() != FreeformName || b.Content() != `<!-- wp:group {"a":1} -->` {
		t.Fatalf("unexpected freeform block %s %q", b.Name(), b.Content())
	}
	spacer := root.Get(1)
	if spacer.Name() != "spacer" || spacer.Attr("height") != float64(20) {
		t.Fatalf("unexpected spacer %s %v", spacer.Name(), spacer.Attr("height"))
	}

	tree, err = Parse("<!-- wp:group {\"a\":1} -->\n<!-- wp:spacer {\"height\":20} /-->\n<!-- /wp:group -->")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	group := tree.Root().Get(0)
	if group.Name() != "group" || group.Count() != 1 || group.Get(0).Name() != "spacer" {
		t.Fatalf("unexpected tree %s", tree.Root().PathString())
	}
}

func TestAssembleFromTokens(t *testing.T) {
	tokens := Tokenize(spacerDoc)
	tree, err := Assemble("tokens", tokens)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if tree.Name() != "tokens" || tree.Size() != 1 || tree.Root().Get(0).Name() != "core/spacer" {
		t.Fatalf("unexpected tree")
	}
}
