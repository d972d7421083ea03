package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	doc := map[string]any{
		"a": map[string]any{
			"b": []any{map[string]any{"c": "value"}},
		},
		"s": "scalar",
	}

	testCases := []struct {
		name   string
		path   []string
		want   any
		wantOK bool
	}{
		{name: "nested through list", path: []string{"a", "b", "c"}, want: "value", wantOK: true},
		{name: "missing leaf", path: []string{"a", "x"}, wantOK: false},
		{name: "scalar intermediate", path: []string{"s", "x"}, wantOK: false},
		{name: "missing root", path: []string{"nope", "b"}, wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Lookup(doc, tc.path...)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestString_IgnoresBlankAndNonString(t *testing.T) {
	doc := map[string]any{"blank": "  ", "num": 3, "ok": " x "}

	_, ok := String(doc, "blank")
	assert.False(t, ok)
	_, ok = String(doc, "num")
	assert.False(t, ok)

	s, ok := String(doc, "ok")
	require.True(t, ok)
	assert.Equal(t, "x", s)
}

func TestBlocks(t *testing.T) {
	entry := map[string]any{
		"akamai_property": map[string]any{
			"b": map[string]any{"name": "two"},
			"a": map[string]any{"name": "one"},
		},
		"akamai_cp_code": "broken",
	}

	blocks := Blocks(entry)
	require.Len(t, blocks, 3)
	assert.Equal(t, Block{Type: "akamai_cp_code", Body: "broken"}, blocks[0])
	assert.Equal(t, "akamai_property.a", blocks[1].Address())
	assert.Equal(t, "akamai_property.b", blocks[2].Address())

	assert.Nil(t, Blocks("not a map"))
	assert.Nil(t, Blocks(map[string]any{}))
}

func TestDocument_BlocksOfType(t *testing.T) {
	doc := Document{
		KeyResource: []any{
			map[string]any{"akamai_edge_hostname": map[string]any{"e": map[string]any{"edge_hostname": "x.edgesuite.net"}}},
			map[string]any{"akamai_property": map[string]any{"p": "not attributes"}},
			map[string]any{"akamai_property": map[string]any{"q": map[string]any{"name": "q"}}},
		},
	}

	props := doc.BlocksOfType("akamai_property")
	require.Len(t, props, 1)
	assert.Equal(t, "q", props[0].Label)
}

func TestSanitize(t *testing.T) {
	testCases := map[string]string{
		"www.Example.com":   "www_example_com",
		"  my site  ":       "my_site",
		"..edge..":          "edge",
		"123-property":      "_123-property",
		"already_good-name": "already_good-name",
		"Café Crème":        "cafe_creme",
		"":                  "",
	}
	for in, want := range testCases {
		assert.Equal(t, want, Sanitize(in), "input %q", in)
	}
}

func TestDecodeRules(t *testing.T) {
	t.Run("json string with papi wrapper", func(t *testing.T) {
		rule, err := DecodeRules(`{"rules": {"name": "default", "behaviors": [{"name": "origin", "options": {"hostname": "o.example.com"}}], "children": [{"name": "Static", "criteriaMustSatisfy": "any"}]}}`)
		require.NoError(t, err)
		assert.Equal(t, "default", rule.Name)
		require.Len(t, rule.Behaviors, 1)
		assert.Equal(t, "o.example.com", rule.Behaviors[0].Options["hostname"])
		require.Len(t, rule.Children, 1)
		assert.True(t, rule.Children[0].MatchAny())
	})

	t.Run("mapping", func(t *testing.T) {
		rule, err := DecodeRules(map[string]any{"name": "default"})
		require.NoError(t, err)
		assert.Equal(t, "default", rule.Name)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := DecodeRules(`{"rules": `)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid rules JSON")
	})

	t.Run("unresolved expression", func(t *testing.T) {
		_, err := DecodeRules("${data.akamai_property_rules_template.rules.json}")
		require.ErrorIs(t, err, ErrUnresolvedRules)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, err := DecodeRules(42)
		require.Error(t, err)
	})
}

func TestRule_Walk(t *testing.T) {
	root := &Rule{Name: "default", Children: []*Rule{
		{Name: "a", Children: []*Rule{{Name: "a1"}}},
		{Name: "b"},
	}}

	var visited []string
	var depths []int
	err := root.Walk(func(r *Rule, ancestors []*Rule) error {
		visited = append(visited, r.Name)
		depths = append(depths, len(ancestors))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "a", "a1", "b"}, visited)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}
