package wpblock

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// RootName names the synthetic root built by Parse.
	RootName = "root"
	// FreeformName names blocks holding text found outside any delimiter.
	FreeformName = "core/freeform"
)

// Parse tokenizes source and assembles the tokens into a tree under a
// synthetic root block. A malformed attribute payload aborts with an
// *AttributeParseError.
func Parse(source string, opts ...Option) (*Tree, error) {
	cfg := newConfig(opts)
	tokens := NewTokenizer(source, opts...).Tokenize()
	root, err := assemble(tokens, cfg.logger)
	if err != nil {
		return nil, err
	}
	return NewTree(cfg.treeName, root), nil
}

// Assemble builds a tree from tokens produced by a Tokenizer.
func Assemble(name string, tokens []Token) (*Tree, error) {
	root, err := assemble(tokens, zap.NewNop())
	if err != nil {
		return nil, err
	}
	return NewTree(name, root), nil
}

func assemble(tokens []Token, logger *zap.Logger) (*Block, error) {
	root := NewBlock(RootName, "", Attributes{})
	stack := []*Block{root}
	top := func() *Block { return stack[len(stack)-1] }

	content := []*strings.Builder{{}}
	flush := func() {
		b := top()
		if b != root {
			b.content += content[len(content)-1].String()
		}
		content = content[:len(content)-1]
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenOpeningTag, TokenSelfClosingTag:
			attrs, err := ParseAttributes(tok.Attrs)
			if err != nil {
				if perr, ok := err.(*AttributeParseError); ok {
					perr.Offset = tok.Start
				}
				return nil, err
			}
			b := NewBlock(tok.Name, "", attrs)
			top().Append(b)
			if tok.Kind == TokenOpeningTag {
				stack = append(stack, b)
				content = append(content, &strings.Builder{})
				logger.Debug("block opened", zap.String("name", tok.Name), zap.Int("depth", len(stack)-1))
			}
		case TokenClosingTag:
			idx := -1
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].name == tok.Name {
					idx = i
					break
				}
			}
			if idx < 0 {
				logger.Debug("unmatched closing tag ignored", zap.String("name", tok.Name), zap.Int("start", tok.Start))
				continue
			}
			for len(stack) > idx {
				flush()
				stack = stack[:len(stack)-1]
			}
			logger.Debug("block closed", zap.String("name", tok.Name), zap.Int("depth", len(stack)))
		case TokenIdentifiable, TokenLiteral:
			if len(stack) > 1 {
				content[len(content)-1].WriteString(tok.Text)
				continue
			}
			if strings.TrimSpace(tok.Text) == "" {
				continue
			}
			freeform := root.Get(-1)
			if freeform == nil || freeform.name != FreeformName || !freeform.IsLeaf() {
				freeform = NewBlock(FreeformName, "", Attributes{})
				root.Append(freeform)
			}
			freeform.content += tok.Text
		}
	}
	for len(stack) > 1 {
		flush()
		stack = stack[:len(stack)-1]
	}
	return root, nil
}
