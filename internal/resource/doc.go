// Package resource defines the output side of a conversion: Azion resource
// records, the references between them, and the append-only Collection a
// single conversion writes into.
package resource
