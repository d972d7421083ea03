// Package registry provides the lookup table between Akamai resource types
// and the Go converters that translate them.
//
// Converters are contributed by modules. Each module registers the source
// types it understands during application startup; the set is closed after
// that and the dispatcher only ever reads from it. Registering the same type
// twice is a programmer error and panics.
package registry
