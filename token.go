package wpblock

import "fmt"

// Token is a classified span of the source.
type Token struct {
	Kind TokenKind
	// Name is the block name of a tag token, empty for untagged spans.
	Name string
	// Attrs is the raw attribute payload of an opening or self-closing tag.
	// Empty means the tag carried no payload.
	Attrs string
	Text string
	// Start and End are byte offsets into the source, End exclusive.
	Start int
	End   int
	// Line and Column locate Start, both 1-based. Column counts bytes.
	Line   int
	Column int
}

func (t Token) String() string {
	if t.Name != "" {
		return fmt.Sprintf("%s(%s)[%d:%d]", t.Kind, t.Name, t.Start, t.End)
	}
	return fmt.Sprintf("%s(%q)[%d:%d]", t.Kind, t.Text, t.Start, t.End)
}

// IsTag reports whether the token is one of the block delimiters.
func (t Token) IsTag() bool {
	return t.Kind == TokenSelfClosingTag || t.Kind == TokenOpeningTag || t.Kind == TokenClosingTag
}

// TokenKind classifies a token.
type TokenKind uint8

const (
	// TokenLiteral is untagged text outside any open block.
	TokenLiteral TokenKind = iota
	// TokenIdentifiable is untagged text while at least one block is open.
	TokenIdentifiable
	// TokenSelfClosingTag is a <!-- wp:name /--> delimiter.
	TokenSelfClosingTag
	// TokenOpeningTag is a <!-- wp:name --> delimiter.
	TokenOpeningTag
	// TokenClosingTag is a <!-- /wp:name --> delimiter.
	TokenClosingTag
)

func (k TokenKind) String() string {
	switch k {
	case TokenLiteral:
		return "LITERAL"
	case TokenIdentifiable:
		return "IDENTIFIABLE"
	case TokenSelfClosingTag:
		return RuleSelfClosingTag
	case TokenOpeningTag:
		return RuleOpeningTag
	case TokenClosingTag:
		return RuleClosingTag
	default:
		return "UNKNOWN"
	}
}
