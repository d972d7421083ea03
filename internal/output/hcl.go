package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/akamai2azion/internal/resource"
	"github.com/zclconf/go-cty/cty"
)

// ProviderSource is the registry address of the Azion Terraform provider.
const ProviderSource = "aziontech/azion"

// WriteHCL writes records as a Terraform file. The global settings record
// becomes a locals block; every other record becomes a resource block and
// references become traversals. Literal "${...}" in strings is escaped so
// Azion variables such as ${uri} reach the provider unchanged.
func WriteHCL(w io.Writer, records []resource.Record) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	tf := root.AppendNewBlock("terraform", nil).Body()
	providers := tf.AppendNewBlock("required_providers", nil).Body()
	providers.SetAttributeValue("azion", cty.ObjectVal(map[string]cty.Value{
		"source": cty.StringVal(ProviderSource),
	}))

	for _, r := range records {
		root.AppendNewline()
		var body *hclwrite.Body
		if r.Type == resource.TypeGlobalSettings {
			body = root.AppendNewBlock("locals", nil).Body()
		} else {
			if !hclsyntax.ValidIdentifier(r.Name) {
				return fmt.Errorf("record %s.%s: name is not a valid Terraform identifier", r.Type, r.Name)
			}
			body = root.AppendNewBlock("resource", []string{r.Type, r.Name}).Body()
		}
		for _, k := range sortedKeys(r.Attributes) {
			body.SetAttributeRaw(k, tokens(r.Attributes[k]))
		}
	}

	if _, err := w.Write(hclwrite.Format(f.Bytes())); err != nil {
		return fmt.Errorf("failed to write HCL output: %w", err)
	}
	return nil
}

func tokens(v any) hclwrite.Tokens {
	switch t := v.(type) {
	case nil:
		return hclwrite.TokensForValue(cty.NullVal(cty.DynamicPseudoType))
	case resource.Ref:
		traversal := hcl.Traversal{hcl.TraverseRoot{Name: t.Type}, hcl.TraverseAttr{Name: t.Name}}
		for _, a := range t.Attr {
			traversal = append(traversal, hcl.TraverseAttr{Name: a})
		}
		return hclwrite.TokensForTraversal(traversal)
	case string:
		return hclwrite.TokensForValue(cty.StringVal(t))
	case bool:
		return hclwrite.TokensForValue(cty.BoolVal(t))
	case int:
		return hclwrite.TokensForValue(cty.NumberIntVal(int64(t)))
	case int64:
		return hclwrite.TokensForValue(cty.NumberIntVal(t))
	case float64:
		return hclwrite.TokensForValue(cty.NumberFloatVal(t))
	case []string:
		elems := make([]hclwrite.Tokens, len(t))
		for i, s := range t {
			elems[i] = tokens(s)
		}
		return hclwrite.TokensForTuple(elems)
	case []any:
		elems := make([]hclwrite.Tokens, len(t))
		for i, e := range t {
			elems[i] = tokens(e)
		}
		return hclwrite.TokensForTuple(elems)
	case map[string]any:
		attrs := make([]hclwrite.ObjectAttrTokens, 0, len(t))
		for _, k := range sortedKeys(t) {
			attrs = append(attrs, hclwrite.ObjectAttrTokens{Name: objectKey(k), Value: tokens(t[k])})
		}
		return hclwrite.TokensForObject(attrs)
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = e
		}
		return tokens(m)
	default:
		return hclwrite.TokensForValue(cty.StringVal(fmt.Sprint(t)))
	}
}

func objectKey(k string) hclwrite.Tokens {
	if hclsyntax.ValidIdentifier(k) {
		return hclwrite.TokensForIdentifier(k)
	}
	return hclwrite.TokensForValue(cty.StringVal(k))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
