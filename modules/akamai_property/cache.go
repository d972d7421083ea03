package akamai_property

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/vk/akamai2azion/internal/resource"
	"github.com/vk/akamai2azion/internal/source"
)

// cachePolicy is the Azion cache setting assembled from the caching
// behaviors of one rule.
type cachePolicy struct {
	browserMode string
	browserTTL  int
	cdnMode     string
	cdnTTL      int
	queryString string
	queryFields []string
	sortQuery   bool
}

func newCachePolicy() *cachePolicy {
	return &cachePolicy{
		browserMode: "honor",
		cdnMode:     "honor",
		queryString: "ignore",
	}
}

type cachingOptions struct {
	Behavior   string `mapstructure:"behavior"`
	TTL        string `mapstructure:"ttl"`
	DefaultTTL string `mapstructure:"defaultTtl"`
}

type downstreamOptions struct {
	Behavior      string `mapstructure:"behavior"`
	AllowBehavior string `mapstructure:"allowBehavior"`
	TTL           string `mapstructure:"ttl"`
}

type queryParamsOptions struct {
	Behavior   string   `mapstructure:"behavior"`
	Parameters []string `mapstructure:"parameters"`
}

func (c *cachePolicy) apply(bhv source.Behavior) error {
	switch bhv.Name {
	case "caching":
		var opts cachingOptions
		if err := source.DecodeOptions(bhv.Options, &opts); err != nil {
			return err
		}
		switch opts.Behavior {
		case "MAX_AGE":
			ttl, err := parseTTL(opts.TTL)
			if err != nil {
				return err
			}
			c.cdnMode, c.cdnTTL = "override", ttl
		case "NO_STORE", "BYPASS_CACHE":
			c.cdnMode, c.cdnTTL = "override", 0
		default:
			ttl, err := parseTTL(opts.DefaultTTL)
			if err != nil {
				return err
			}
			c.cdnMode, c.cdnTTL = "honor", ttl
		}

	case "downstreamCache":
		var opts downstreamOptions
		if err := source.DecodeOptions(bhv.Options, &opts); err != nil {
			return err
		}
		switch {
		case opts.Behavior == "BUST" || opts.Behavior == "NONE":
			c.browserMode, c.browserTTL = "override", 0
		case opts.Behavior == "ALLOW" && opts.AllowBehavior == "FROM_VALUE":
			ttl, err := parseTTL(opts.TTL)
			if err != nil {
				return err
			}
			c.browserMode, c.browserTTL = "override", ttl
		default:
			c.browserMode, c.browserTTL = "honor", 0
		}

	case "cacheKeyQueryParams":
		var opts queryParamsOptions
		if err := source.DecodeOptions(bhv.Options, &opts); err != nil {
			return err
		}
		switch opts.Behavior {
		case "IGNORE_ALL":
			c.queryString, c.queryFields = "ignore", nil
		case "INCLUDE_ALL_PRESERVE_ORDER":
			c.queryString, c.queryFields = "all", nil
		case "INCLUDE_ALL_ALPHABETIZE_ORDER":
			c.queryString, c.queryFields, c.sortQuery = "all", nil, true
		case "INCLUDE":
			c.queryString, c.queryFields = "allowlist", opts.Parameters
		case "EXCLUDE", "IGNORE":
			c.queryString, c.queryFields = "denylist", opts.Parameters
		default:
			return fmt.Errorf("unsupported query string behavior %q", opts.Behavior)
		}
	}
	return nil
}

func (c *cachePolicy) attributes(name string) map[string]any {
	fields := make([]any, 0, len(c.queryFields))
	for _, f := range c.queryFields {
		fields = append(fields, f)
	}
	return map[string]any{
		"name":                               name,
		"browser_cache_settings":             c.browserMode,
		"browser_cache_settings_maximum_ttl": c.browserTTL,
		"cdn_cache_settings":                 c.cdnMode,
		"cdn_cache_settings_maximum_ttl":     c.cdnTTL,
		"cache_by_query_string":              c.queryString,
		"query_string_fields":                fields,
		"enable_query_string_sort":           c.sortQuery,
		"cache_by_cookies":                   "ignore",
		"adaptive_delivery_action":           "ignore",
		"enable_caching_for_post":            false,
		"enable_caching_for_options":         false,
		"enable_stale_cache":                 true,
	}
}

// cacheSetting emits the cache setting record for rule r and returns its name.
func (t *translator) cacheSetting(r *source.Rule, isRoot bool, c *cachePolicy) string {
	display, suffix := ruleLabel(r), ruleLabel(r)+" cache"
	if isRoot {
		display, suffix = "Default Cache", "default_cache"
	}
	name := t.scopedName(resource.TypeCacheSetting, suffix)
	t.records = append(t.records, resource.Record{
		Type: resource.TypeCacheSetting,
		Name: name,
		Attributes: map[string]any{
			"edge_application_id": resource.ApplicationID(t.app),
			"cache_settings":      c.attributes(display),
		},
	})
	return name
}

var ttlPattern = regexp.MustCompile(`^(\d+)\s*([smhd]?)$`)

// parseTTL converts Akamai durations such as "30s", "15m", "2h" or "7d"
// into seconds. A bare number is taken as seconds and an empty string as 0.
func parseTTL(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	m := ttlPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid ttl %q", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid ttl %q: %w", s, err)
	}
	switch m[2] {
	case "m":
		n *= 60
	case "h":
		n *= 3600
	case "d":
		n *= 86400
	}
	return n, nil
}
