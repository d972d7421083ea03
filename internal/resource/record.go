package resource

import (
	"encoding/json"
	"strings"
)

// Azion resource types produced by the converters.
const (
	TypeGlobalSettings    = "global_settings"
	TypeMainSetting       = "azion_edge_application_main_setting"
	TypeOrigin            = "azion_edge_application_origin"
	TypeCacheSetting      = "azion_edge_application_cache_setting"
	TypeRuleEngine        = "azion_edge_application_rule_engine"
	TypeFunctionsInstance = "azion_edge_application_edge_functions_instance"
	TypeDomain            = "azion_domain"
)

// Record is one output resource.
type Record struct {
	Type       string         `json:"type"`
	Name       string         `json:"name"`
	Attributes map[string]any `json:"attributes"`
}

// Ref points at an attribute of another record, identified by type and name
// only. It renders as a Terraform traversal.
type Ref struct {
	Type string
	Name string
	Attr []string
}

// NewRef builds a reference to typ.name.attr...
func NewRef(typ, name string, attr ...string) Ref {
	return Ref{Type: typ, Name: name, Attr: attr}
}

// String implements fmt.Stringer.
func (r Ref) String() string {
	parts := append([]string{r.Type, r.Name}, r.Attr...)
	return strings.Join(parts, ".")
}

// MarshalJSON renders the reference as an interpolation string.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal("${" + r.String() + "}")
}

// ApplicationID is the reference every edge application child resource
// uses to point at its main setting.
func ApplicationID(mainSetting string) Ref {
	return NewRef(TypeMainSetting, mainSetting, "edge_application", "application_id")
}
