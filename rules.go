package wpblock

import "regexp"

// Rule names of the default table.
const (
	RuleSelfClosingTag = "BLOCK_SELF_CLOSING_TAG"
	RuleOpeningTag     = "BLOCK_OPENING_TAG"
	RuleClosingTag     = "BLOCK_CLOSING_TAG"
)

// Rule recognises one tag kind. Submatch 1 is the block name and, for
// opening and self-closing tags, submatch 2 is the attribute payload.
type Rule struct {
	Name    string
	Kind    TokenKind
	Pattern *regexp.Regexp
}

const (
	namePattern  = `([a-z][a-z0-9_-]*(?:/[a-z][a-z0-9_-]*)?)`
	// The payload stays inside one comment: it may not contain "-->".
	attrsPattern = `(?:(\{(?:[^-]|-[^-]|--[^>])*?\})\s+)?`
)

var defaultRules = []Rule{
	{
		Name:    RuleSelfClosingTag,
		Kind:    TokenSelfClosingTag,
		Pattern: regexp.MustCompile(`<!--\s+wp:` + namePattern + `\s+` + attrsPattern + `/-->`),
	},
	{
		Name:    RuleOpeningTag,
		Kind:    TokenOpeningTag,
		Pattern: regexp.MustCompile(`<!--\s+wp:` + namePattern + `\s+` + attrsPattern + `-->`),
	},
	{
		Name:    RuleClosingTag,
		Kind:    TokenClosingTag,
		Pattern: regexp.MustCompile(`<!--\s+/wp:` + namePattern + `\s+-->`),
	},
}

// DefaultRules returns the rule table in priority order.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

func activeRules(ignored []string) []Rule {
	if len(ignored) == 0 {
		return DefaultRules()
	}
	skip := make(map[string]struct{}, len(ignored))
	for _, name := range ignored {
		skip[name] = struct{}{}
	}
	out := make([]Rule, 0, len(defaultRules))
	for _, r := range defaultRules {
		if _, ok := skip[r.Name]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}
