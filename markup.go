package wpblock

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"
)

// Markup renders b back into block-delimited text. The synthetic root renders
// only its children and freeform blocks render their content verbatim. A
// block's own content is written before its children, so text that originally
// sat between inner blocks is not restored to its exact position.
func Markup(b *Block) (string, error) {
	var sb strings.Builder
	if err := writeMarkup(&sb, b); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeMarkup(sb *strings.Builder, b *Block) error {
	switch {
	case b.name == RootName && b.IsRoot():
		return writeChildren(sb, b)
	case b.name == FreeformName:
		sb.WriteString(b.content)
		return nil
	}

	attrs, err := attributesJSON(&b.attributes)
	if err != nil {
		return fmt.Errorf("markup %s: %w", b.name, err)
	}
	sb.WriteString("<!-- wp:")
	sb.WriteString(b.name)
	sb.WriteByte(' ')
	if attrs != "" {
		sb.WriteString(attrs)
		sb.WriteByte(' ')
	}
	if b.IsLeaf() && b.content == "" {
		sb.WriteString("/-->")
		return nil
	}
	sb.WriteString("-->")
	sb.WriteString(b.content)
	if err := writeChildren(sb, b); err != nil {
		return err
	}
	sb.WriteString("<!-- /wp:")
	sb.WriteString(b.name)
	sb.WriteString(" -->")
	return nil
}

func writeChildren(sb *strings.Builder, b *Block) error {
	for _, c := range b.children {
		if err := writeMarkup(sb, c); err != nil {
			return err
		}
	}
	return nil
}

// attributesJSON encodes the attributes as a compact object with sorted keys,
// or "" when there are none.
func attributesJSON(a *Attributes) (string, error) {
	if a.Len() == 0 {
		return "", nil
	}
	out := "{}"
	for _, key := range a.Keys() {
		v, _ := a.Get(key)
		var err error
		out, err = sjson.Set(out, escapePathKey(key), v)
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

var pathKeyEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`:`, `\:`,
)

func escapePathKey(key string) string {
	return pathKeyEscaper.Replace(key)
}
