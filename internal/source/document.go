package source

import "sort"

// Top-level keys of a Document.
const (
	KeyContext     = "context"
	KeyFunctionMap = "function_map"
	KeyResource    = "resource"
	KeyRules       = "rules"
)

// Document is a parsed Akamai configuration. It is read-only for the
// duration of a conversion.
type Document map[string]any

// Context returns the document's context mapping, or nil when absent.
func (d Document) Context() map[string]any {
	m, _ := AsMap(d[KeyContext])
	return m
}

// FunctionMap returns the opaque function map exactly as it was loaded.
func (d Document) FunctionMap() any {
	return d[KeyFunctionMap]
}

// Entries returns the source resource entries in document order.
func (d Document) Entries() []any {
	return Items(d[KeyResource])
}

// Block is a single typed and labelled resource taken from an entry, e.g.
// resource "akamai_property" "site" { ... }.
type Block struct {
	Type  string
	Label string
	Body  any
}

// Attributes returns the block body as a mapping.
func (b Block) Attributes() (map[string]any, bool) {
	return AsMap(b.Body)
}

// Address renders the block as type.label.
func (b Block) Address() string {
	if b.Label == "" {
		return b.Type
	}
	return b.Type + "." + b.Label
}

// Blocks expands an entry of the form {type: {label: body}} into its blocks.
// Keys are visited in sorted order so that expansion is deterministic. A type
// whose value is not a label mapping yields one unlabelled block carrying that
// value as its body. An entry that is not a mapping yields nothing.
func Blocks(entry any) []Block {
	m, ok := AsMap(entry)
	if !ok {
		return nil
	}
	var blocks []Block
	for _, typ := range sortedKeys(m) {
		labels, ok := AsMap(m[typ])
		if !ok {
			blocks = append(blocks, Block{Type: typ, Body: m[typ]})
			continue
		}
		for _, label := range sortedKeys(labels) {
			blocks = append(blocks, Block{Type: typ, Label: label, Body: labels[label]})
		}
	}
	return blocks
}

// BlocksOfType returns every block of the given type whose body is a mapping,
// in document order.
func (d Document) BlocksOfType(typ string) []Block {
	var out []Block
	for _, entry := range d.Entries() {
		for _, b := range Blocks(entry) {
			if b.Type != typ {
				continue
			}
			if _, ok := b.Attributes(); ok {
				out = append(out, b)
			}
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
