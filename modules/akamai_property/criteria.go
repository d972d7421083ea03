package akamai_property

import (
	"regexp"
	"strings"

	"github.com/vk/akamai2azion/internal/source"
)

type matchOptions struct {
	MatchOperator      string   `mapstructure:"matchOperator"`
	Values             []string `mapstructure:"values"`
	Value              string   `mapstructure:"value"`
	MatchCaseSensitive bool     `mapstructure:"matchCaseSensitive"`
}

// catchAll is the criteria group matching every request.
func catchAll() []any {
	return []any{map[string]any{"entries": []any{
		entry("${uri}", "starts_with", "if", "/"),
	}}}
}

func entry(variable, operator, conditional, input string) map[string]any {
	return map[string]any{
		"variable":    variable,
		"operator":    operator,
		"conditional": conditional,
		"input_value": input,
	}
}

// criteria returns the Azion criteria groups of r. Groups are ANDed, so a
// child rule carries one group per ancestor that matched on something plus
// its own. The root rule always matches everything.
func (t *translator) criteria(r *source.Rule, ancestors []*source.Rule) []any {
	if len(ancestors) == 0 {
		t.groups[r] = nil
		return catchAll()
	}

	inherited := t.groups[ancestors[len(ancestors)-1]]
	groups := make([]any, len(inherited), len(inherited)+1)
	copy(groups, inherited)

	var entries []any
	for _, c := range r.Criteria {
		e, ok := t.criterion(r, c)
		if !ok {
			continue
		}
		conditional := "and"
		if r.MatchAny() {
			conditional = "or"
		}
		if len(entries) == 0 {
			conditional = "if"
		}
		e["conditional"] = conditional
		entries = append(entries, e)
	}
	if len(entries) > 0 {
		groups = append(groups, map[string]any{"entries": entries})
	}
	t.groups[r] = groups

	if len(groups) == 0 {
		return catchAll()
	}
	return groups
}

func (t *translator) criterion(r *source.Rule, c source.Criterion) (map[string]any, bool) {
	var opts matchOptions
	if err := source.DecodeOptions(c.Options, &opts); err != nil {
		t.logger.Warn("Criterion options could not be decoded, skipping.", "rule", ruleLabel(r), "criterion", c.Name, "error", err)
		return nil, false
	}

	negate := strings.HasPrefix(opts.MatchOperator, "DOES_NOT") || opts.MatchOperator == "IS_NOT"
	operator := "matches"
	if negate {
		operator = "does_not_match"
	}

	switch c.Name {
	case "path":
		if len(opts.Values) == 0 {
			break
		}
		return entry("${uri}", operator, "", globsToRegex(opts.Values, opts.MatchCaseSensitive)), true

	case "hostname":
		if len(opts.Values) == 0 {
			break
		}
		return entry("${host}", operator, "", globsToRegex(opts.Values, false)), true

	case "fileExtension":
		if len(opts.Values) == 0 {
			break
		}
		exts := make([]string, len(opts.Values))
		for i, v := range opts.Values {
			exts[i] = regexp.QuoteMeta(strings.TrimPrefix(v, "."))
		}
		re := `\.(` + strings.Join(exts, "|") + `)$`
		if !opts.MatchCaseSensitive {
			re = "(?i)" + re
		}
		return entry("${uri}", operator, "", re), true

	case "requestMethod":
		if opts.Value == "" {
			break
		}
		op := "is_equal"
		if negate {
			op = "is_not_equal"
		}
		return entry("${request_method}", op, "", opts.Value), true
	}

	t.logger.Warn("Unsupported criterion, skipping.", "rule", ruleLabel(r), "criterion", c.Name)
	return nil, false
}

// globsToRegex turns Akamai wildcard patterns (* and ?) into one anchored
// regular expression.
func globsToRegex(globs []string, caseSensitive bool) string {
	parts := make([]string, len(globs))
	for i, g := range globs {
		q := regexp.QuoteMeta(g)
		q = strings.ReplaceAll(q, `\*`, ".*")
		q = strings.ReplaceAll(q, `\?`, ".")
		parts[i] = q
	}
	re := "^(" + strings.Join(parts, "|") + ")$"
	if !caseSensitive {
		re = "(?i)" + re
	}
	return re
}
