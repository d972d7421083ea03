// Package convert is the entry point of the translator. Convert resolves the
// document-wide identity fields, emits the global settings record and then
// dispatches every source resource entry to its registered converter.
//
// Failures come in two tiers. Missing hostnames and unrecognized or
// shapeless entries are logged and tolerated; an error raised by the
// converter of a recognized entry aborts the whole call.
package convert
