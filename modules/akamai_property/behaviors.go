package akamai_property

import (
	"fmt"
	"strings"

	"github.com/vk/akamai2azion/internal/resource"
	"github.com/vk/akamai2azion/internal/source"
)

type originOptions struct {
	Hostname                string `mapstructure:"hostname"`
	ForwardHostHeader       string `mapstructure:"forwardHostHeader"`
	CustomForwardHostHeader string `mapstructure:"customForwardHostHeader"`
	HTTPPort                int    `mapstructure:"httpPort"`
	HTTPSPort               int    `mapstructure:"httpsPort"`
}

// toggleOptions covers both spellings Akamai uses for on/off switches;
// http3 uses enable, the others enabled.
type toggleOptions struct {
	Enabled *bool `mapstructure:"enabled"`
	Enable  *bool `mapstructure:"enable"`
}

func (o toggleOptions) on() bool {
	switch {
	case o.Enabled != nil:
		return *o.Enabled
	case o.Enable != nil:
		return *o.Enable
	}
	return true
}

type gzipOptions struct {
	Behavior string `mapstructure:"behavior"`
}

type redirectOptions struct {
	ResponseCode             int    `mapstructure:"responseCode"`
	DestinationProtocol      string `mapstructure:"destinationProtocol"`
	DestinationHostname      string `mapstructure:"destinationHostname"`
	DestinationHostnameOther string `mapstructure:"destinationHostnameOther"`
	DestinationPath          string `mapstructure:"destinationPath"`
	DestinationPathOther     string `mapstructure:"destinationPathOther"`
}

type headerOptions struct {
	Action                   string `mapstructure:"action"`
	StandardAddHeaderName    string `mapstructure:"standardAddHeaderName"`
	StandardModifyHeaderName string `mapstructure:"standardModifyHeaderName"`
	StandardDeleteHeaderName string `mapstructure:"standardDeleteHeaderName"`
	CustomHeaderName         string `mapstructure:"customHeaderName"`
	HeaderValue              string `mapstructure:"headerValue"`
	NewHeaderValue           string `mapstructure:"newHeaderValue"`
}

type edgeWorkerOptions struct {
	Enabled      *bool  `mapstructure:"enabled"`
	EdgeWorkerID string `mapstructure:"edgeWorkerId"`
}

// behavior maps one Akamai behavior onto ro, creating any supporting
// records on the way.
func (t *translator) behavior(r *source.Rule, bhv source.Behavior, ro *ruleOutput) error {
	switch bhv.Name {
	case "origin":
		var opts originOptions
		if err := source.DecodeOptions(bhv.Options, &opts); err != nil {
			return err
		}
		if strings.TrimSpace(opts.Hostname) == "" {
			t.logger.Warn("Origin behavior without hostname, using the resolved origin hostname.", "rule", ruleLabel(r))
			opts.Hostname = t.g.OriginHostname
		}
		ro.request = append(ro.request, setOrigin(t.origin(opts)))

	case "caching", "downstreamCache", "cacheKeyQueryParams":
		if ro.cache == nil {
			ro.cache = newCachePolicy()
		}
		return ro.cache.apply(bhv)

	case "gzipResponse":
		var opts gzipOptions
		if err := source.DecodeOptions(bhv.Options, &opts); err != nil {
			return err
		}
		if opts.Behavior == "ALWAYS" || opts.Behavior == "ORIGIN_RESPONSE" {
			ro.response = append(ro.response, behavior("enable_gzip", nil))
		}

	case "redirect":
		var opts redirectOptions
		if err := source.DecodeOptions(bhv.Options, &opts); err != nil {
			return err
		}
		name := "redirect_to_302"
		if opts.ResponseCode == 301 {
			name = "redirect_to_301"
		}
		ro.request = append(ro.request, behavior(name, redirectTarget(opts)))

	case "modifyOutgoingResponseHeader":
		return t.header(bhv, "response", &ro.response)
	case "modifyIncomingRequestHeader", "modifyOutgoingRequestHeader":
		return t.header(bhv, "request", &ro.request)

	case "denyAccess":
		var opts toggleOptions
		if err := source.DecodeOptions(bhv.Options, &opts); err != nil {
			return err
		}
		if opts.on() {
			ro.request = append(ro.request, behavior("deny", nil))
		}

	case "edgeWorker":
		var opts edgeWorkerOptions
		if err := source.DecodeOptions(bhv.Options, &opts); err != nil {
			return err
		}
		if opts.Enabled != nil && !*opts.Enabled {
			return nil
		}
		instance, ok := t.functionInstance(opts.EdgeWorkerID)
		if !ok {
			t.logger.Warn("EdgeWorker not present in the function map, skipping.", "rule", ruleLabel(r), "edge_worker_id", opts.EdgeWorkerID)
			return nil
		}
		ro.request = append(ro.request, behavior("run_function",
			resource.NewRef(resource.TypeFunctionsInstance, instance, "results", "id")))

	case "http3", "imageManager", "tieredDistribution", "sureRoute":
		var opts toggleOptions
		if err := source.DecodeOptions(bhv.Options, &opts); err != nil {
			return err
		}
		if !opts.on() {
			return nil
		}
		switch bhv.Name {
		case "http3":
			t.features.HTTP3 = true
		case "imageManager":
			t.features.ImageOptimization = true
		case "tieredDistribution":
			t.features.L2Caching = true
		case "sureRoute":
			t.features.ApplicationAcceleration = true
		}

	default:
		t.logger.Debug("Unmapped behavior.", "rule", ruleLabel(r), "behavior", bhv.Name)
	}
	return nil
}

// origin returns the name of the origin record for opts.Hostname, creating
// it on first use.
func (t *translator) origin(opts originOptions) string {
	if name, ok := t.origins[opts.Hostname]; ok {
		return name
	}

	hostHeader := "${host}"
	switch opts.ForwardHostHeader {
	case "ORIGIN_HOSTNAME":
		hostHeader = opts.Hostname
	case "CUSTOM":
		if opts.CustomForwardHostHeader != "" {
			hostHeader = opts.CustomForwardHostHeader
		}
	}

	policy := "preserve"
	switch {
	case opts.HTTPSPort > 0 && opts.HTTPPort == 0:
		policy = "https"
	case opts.HTTPPort > 0 && opts.HTTPSPort == 0:
		policy = "http"
	}

	name := t.scopedName(resource.TypeOrigin, "origin_"+opts.Hostname)
	t.origins[opts.Hostname] = name
	t.records = append(t.records, resource.Record{
		Type: resource.TypeOrigin,
		Name: name,
		Attributes: map[string]any{
			"edge_application_id": resource.ApplicationID(t.app),
			"origin": map[string]any{
				"name":                   opts.Hostname,
				"origin_type":            "single_origin",
				"addresses":              []any{map[string]any{"address": opts.Hostname}},
				"origin_protocol_policy": policy,
				"host_header":            hostHeader,
				"origin_path":            "",
				"hmac_authentication":    false,
			},
		},
	})
	return name
}

func redirectTarget(o redirectOptions) string {
	scheme := "${scheme}"
	switch o.DestinationProtocol {
	case "HTTP":
		scheme = "http"
	case "HTTPS":
		scheme = "https"
	}

	host := "${host}"
	if o.DestinationHostname == "OTHER" && o.DestinationHostnameOther != "" {
		host = o.DestinationHostnameOther
	}

	path := "${request_uri}"
	switch o.DestinationPath {
	case "OTHER":
		path = o.DestinationPathOther
	case "PREFIX_REQUEST":
		path = strings.TrimSuffix(o.DestinationPathOther, "/") + "${request_uri}"
	}
	return scheme + "://" + host + path
}

func (t *translator) header(bhv source.Behavior, direction string, dst *[]any) error {
	var opts headerOptions
	if err := source.DecodeOptions(bhv.Options, &opts); err != nil {
		return err
	}

	var standard, value string
	remove := false
	switch opts.Action {
	case "ADD":
		standard, value = opts.StandardAddHeaderName, opts.HeaderValue
	case "MODIFY":
		standard, value = opts.StandardModifyHeaderName, opts.NewHeaderValue
	case "DELETE", "REMOVE":
		standard, remove = opts.StandardDeleteHeaderName, true
	default:
		return fmt.Errorf("unsupported header action %q", opts.Action)
	}

	name := standard
	if name == "" || name == "OTHER" {
		name = opts.CustomHeaderName
	}
	if name == "" {
		return fmt.Errorf("header %s action has no header name", strings.ToLower(opts.Action))
	}

	if remove {
		*dst = append(*dst, behavior("filter_"+direction+"_header", name))
		return nil
	}
	*dst = append(*dst, behavior("add_"+direction+"_header", name+": "+value))
	return nil
}

type functionEntry struct {
	Name       string `mapstructure:"name"`
	FunctionID any    `mapstructure:"function_id"`
	Args       any    `mapstructure:"args"`
}

// functionInstance resolves an EdgeWorker id through the function map and
// returns the name of the instance record, creating it on first use.
func (t *translator) functionInstance(id string) (string, bool) {
	if name, ok := t.functions[id]; ok {
		return name, true
	}
	if id == "" {
		return "", false
	}

	raw, ok := source.Lookup(t.g.FunctionMap, id)
	if !ok {
		return "", false
	}
	var fe functionEntry
	if s, isString := raw.(string); isString {
		fe.Name = s
	} else if err := source.DecodeOptions(raw, &fe); err != nil {
		t.logger.Warn("Malformed function map entry.", "edge_worker_id", id, "error", err)
		return "", false
	}
	if fe.Name == "" {
		fe.Name = "edgeworker_" + id
	}

	args := fe.Args
	if args == nil {
		args = map[string]any{}
	}

	name := t.scopedName(resource.TypeFunctionsInstance, fe.Name)
	t.functions[id] = name
	t.features.EdgeFunctions = true
	t.records = append(t.records, resource.Record{
		Type: resource.TypeFunctionsInstance,
		Name: name,
		Attributes: map[string]any{
			"edge_application_id": resource.ApplicationID(t.app),
			"results": map[string]any{
				"name":             fe.Name,
				"edge_function_id": fe.FunctionID,
				"args":             args,
			},
		},
	})
	return name, true
}
