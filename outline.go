package wpblock

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
)

const (
	outlineIndent       = "  "
	outlineIDLen        = 8
	minOutlineWidth     = 20
	defaultOutlineWidth = 80
)

// Outline writes one line per block of t in pre-order, indented by depth:
// name, short id and a content preview fitted to width. Attributes follow on
// wrapped continuation lines.
func Outline(w io.Writer, t *Tree, width int) error {
	if width <= 0 {
		width = defaultOutlineWidth
	}
	if width < minOutlineWidth {
		width = minOutlineWidth
	}
	root := t.Root()
	if root == nil {
		return nil
	}
	return writeOutline(w, root, 0, width)
}

func writeOutline(w io.Writer, b *Block, depth, width int) error {
	indent := strings.Repeat(outlineIndent, depth)
	head := indent + b.name + " [" + shortID(b.id) + "]"
	if preview := contentPreview(b.content); preview != "" {
		room := width - ansi.PrintableRuneWidth(head) - 3
		if room > 0 {
			head += " \"" + truncateWithEllipsis(preview, room) + "\""
		}
	}
	if _, err := fmt.Fprintln(w, truncateWithEllipsis(head, width)); err != nil {
		return err
	}
	if b.attributes.Len() > 0 {
		pad := indent + outlineIndent + "  "
		room := width - len(pad)
		wrapped := wordwrap.String(attributeSummary(&b.attributes, room), room)
		for _, line := range strings.Split(wrapped, "\n") {
			if _, err := fmt.Fprintln(w, pad+line); err != nil {
				return err
			}
		}
	}
	for _, c := range b.children {
		if err := writeOutline(w, c, depth+1, width); err != nil {
			return err
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > outlineIDLen {
		return id[:outlineIDLen]
	}
	return id
}

func contentPreview(content string) string {
	return strings.Join(strings.Fields(content), " ")
}

// attributeSummary renders key=value pairs. URL values are shortened to fit
// room since the word wrapper cannot break them.
func attributeSummary(a *Attributes, room int) string {
	parts := make([]string, 0, a.Len())
	for _, key := range a.Keys() {
		v, _ := a.Get(key)
		if s, ok := v.(string); ok && strings.Contains(s, "://") {
			parts = append(parts, key+"="+fitURL(s, room-len(key)-1))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", key, v))
	}
	return strings.Join(parts, " ")
}

func fitURL(url string, limit int) string {
	if ansi.PrintableRuneWidth(url) <= limit {
		return url
	}
	if idx := strings.Index(url, "://"); idx != -1 {
		trimmed := url[idx+3:]
		if ansi.PrintableRuneWidth(trimmed) <= limit {
			return trimmed
		}
	}
	return truncateWithEllipsis(url, limit)
}

func truncateWithEllipsis(text string, limit int) string {
	if ansi.PrintableRuneWidth(text) <= limit {
		return text
	}
	if limit <= 0 {
		return ""
	}
	if limit == 1 {
		return "…"
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
