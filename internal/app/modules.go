package app

import (
	"github.com/vk/akamai2azion/internal/registry"
	"github.com/vk/akamai2azion/modules/akamai_cp_code"
	"github.com/vk/akamai2azion/modules/akamai_edge_hostname"
	"github.com/vk/akamai2azion/modules/akamai_property"
	"github.com/vk/akamai2azion/modules/akamai_property_activation"
)

// coreModules is the definitive list of all converters that are compiled into
// the akamai2azion binary.
var coreModules = []registry.Module{
	&akamai_property.Module{},
	&akamai_edge_hostname.Module{},
	&akamai_cp_code.Module{},
	&akamai_property_activation.Module{},
}
