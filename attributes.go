package wpblock

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrAttributeParse matches every *AttributeParseError.
var ErrAttributeParse = errors.New("attribute parse error")

// AttributeParseError reports an attribute payload that is not a JSON object.
type AttributeParseError struct {
	Raw string
	// Offset is the absolute source offset of the tag carrying the payload,
	// or -1 when unknown.
	Offset int
	Reason string
}

func (e *AttributeParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("attribute parse error at offset %d: %s: %q", e.Offset, e.Reason, e.Raw)
	}
	return fmt.Sprintf("attribute parse error: %s: %q", e.Reason, e.Raw)
}

func (e *AttributeParseError) Is(target error) bool {
	return target == ErrAttributeParse
}

// Attributes maps attribute names to decoded JSON values. The zero value is
// ready to use.
type Attributes struct {
	m map[string]any
}

// NewAttributes copies values into a new attribute set.
func NewAttributes(values map[string]any) Attributes {
	a := Attributes{m: make(map[string]any, len(values))}
	for k, v := range values {
		a.m[k] = cloneValue(v)
	}
	return a
}

// ParseAttributes decodes a raw inline payload. An empty payload yields an
// empty set; anything that is not a JSON object is an *AttributeParseError.
func ParseAttributes(raw string) (Attributes, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Attributes{}, nil
	}
	if !gjson.Valid(raw) {
		return Attributes{}, &AttributeParseError{Raw: raw, Offset: -1, Reason: "invalid json"}
	}
	res := gjson.Parse(raw)
	if !res.IsObject() {
		return Attributes{}, &AttributeParseError{Raw: raw, Offset: -1, Reason: "payload is not an object"}
	}
	values, _ := res.Value().(map[string]any)
	return Attributes{m: values}, nil
}

// Get returns the value stored under key.
func (a *Attributes) Get(key string) (any, bool) {
	v, ok := a.m[key]
	return v, ok
}

// Set stores value under key.
func (a *Attributes) Set(key string, value any) {
	if a.m == nil {
		a.m = make(map[string]any)
	}
	a.m[key] = value
}

// Contains reports whether key is present.
func (a *Attributes) Contains(key string) bool {
	_, ok := a.m[key]
	return ok
}

// Remove deletes key. Missing keys are ignored.
func (a *Attributes) Remove(key string) {
	delete(a.m, key)
}

// Len returns the number of attributes.
func (a *Attributes) Len() int { return len(a.m) }

// Keys returns the attribute names in sorted order.
func (a *Attributes) Keys() []string {
	keys := make([]string, 0, len(a.m))
	for k := range a.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a deep copy of the attributes.
func (a *Attributes) Map() map[string]any {
	out := make(map[string]any, len(a.m))
	for k, v := range a.m {
		out[k] = cloneValue(v)
	}
	return out
}

func (a *Attributes) clone() Attributes {
	return Attributes{m: a.Map()}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = cloneValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}
