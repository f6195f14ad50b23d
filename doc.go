// Package wpblock parses block-delimited documents into content trees.
//
// A document interleaves free text with block delimiters carried in HTML
// comments:
//
//	<!-- wp:core/paragraph {"align":"left"} -->Hello<!-- /wp:core/paragraph -->
//	<!-- wp:core/spacer {"height":20} /-->
//
// Parsing happens in two steps. A Tokenizer scans the source line by line into
// Tokens with absolute offsets, recording every token in a history.History so
// the scan can be inspected and stepped back. The assembler then folds the
// tokens into a Tree of Blocks, decoding each inline attribute payload.
//
// Core properties:
//   - Rules are tried in fixed priority order, not by earliest match
//   - Token spans cover the source exactly, line terminators included
//   - Blocks own their children; copies are bounded by MaxDepth
//   - Trees serialize to JSON or YAML and back to block markup
//
// Example:
//
//	tree, err := wpblock.Parse(src)
//	if err != nil {
//		log.Fatal(err)
//	}
//	left, _ := tree.Query("align=left")
//	out, _ := tree.Serialize(wpblock.FormatYAML)
//
// Tree lookups that miss return nil or false rather than an error.
package wpblock
