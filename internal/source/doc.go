// Package source models the Akamai configuration document the translator
// reads: an untyped tree of maps and slices as produced by the HCL and
// JSON/YAML loaders. It provides nil-safe lookups over that tree, the
// decoding of Akamai property rule trees, and name sanitizing shared by the
// extractors and the converters.
package source
