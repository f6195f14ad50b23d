package wpblock

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseAttributes(t *testing.T) {
	attrs, err := ParseAttributes(`{"align":"left","height":20,"style":{"color":"red"},"tags":["a","b"],"on":true}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if attrs.Len() != 5 {
		t.Fatalf("expected 5 attributes, got %d", attrs.Len())
	}
	if got := strings.Join(attrs.Keys(), ","); got != "align,height,on,style,tags" {
		t.Fatalf("unexpected keys %s", got)
	}
	want := map[string]any{
		"align":  "left",
		"height": float64(20),
		"style":  map[string]any{"color": "red"},
		"tags":   []any{"a", "b"},
		"on":     true,
	}
	if !reflect.DeepEqual(attrs.Map(), want) {
		t.Fatalf("unexpected values %#v", attrs.Map())
	}

	empty, err := ParseAttributes("  ")
	if err != nil || empty.Len() != 0 {
		t.Fatalf("blank payload yields an empty set: %v", err)
	}
}

func TestParseAttributesErrors(t *testing.T) {
	for _, raw := range []string{`{"a":}`, `[1,2]`, `"text"`, `{`} {
		_, err := ParseAttributes(raw)
		if err == nil {
			t.Fatalf("%s: expected error", raw)
		}
		if !errors.Is(err, ErrAttributeParse) {
			t.Fatalf("%s: error must match ErrAttributeParse: %v", raw, err)
		}
		var perr *AttributeParseError
		if !errors.As(err, &perr) || perr.Offset != -1 || perr.Raw != raw {
			t.Fatalf("%s: unexpected error %#v", raw, err)
		}
	}
}

func TestAttributesZeroValue(t *testing.T) {
	var a Attributes
	if a.Contains("x") || a.Len() != 0 {
		t.Fatalf("zero value is empty")
	}
	a.Remove("x")
	a.Set("x", 1)
	if v, ok := a.Get("x"); !ok || v != 1 {
		t.Fatalf("set on zero value failed")
	}
}

func TestAttributesMapIsDeepCopy(t *testing.T) {
	src := map[string]any{"style": map[string]any{"color": "red"}}
	a := NewAttributes(src)
	src["style"].(map[string]any)["color"] = "blue"
	m := a.Map()
	if m["style"].(map[string]any)["color"] != "red" {
		t.Fatalf("NewAttributes must copy its input")
	}
	m["style"].(map[string]any)["color"] = "green"
	if v, _ := a.Get("style"); v.(map[string]any)["color"] != "red" {
		t.Fatalf("Map must return a copy")
	}
}
