package resource

import "github.com/vk/akamai2azion/internal/source"

// Production is the environment that never suffixes resource names.
const Production = "production"

// Globals are the configuration-wide identity fields resolved once per
// conversion and handed read-only to every converter.
type Globals struct {
	MainSettingName string
	EdgeHostname    string
	OriginHostname  string
	Environment     string
	FunctionMap     any
	Context         map[string]any
	Hostnames       []source.Hostname
}

// Qualify appends the environment suffix to name outside production.
func (g *Globals) Qualify(name string) string {
	return QualifyName(name, g.Environment)
}

// QualifyName appends "_"+environment to name unless environment is empty
// or production.
func QualifyName(name, environment string) string {
	if environment == "" || environment == Production {
		return name
	}
	return name + "_" + environment
}
