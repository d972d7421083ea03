// Package config defines the contract shared by the input loaders. Every
// loader turns files on disk into the same format-agnostic source.Document,
// so the converter never needs to know whether the configuration came from
// Terraform files or from a plain JSON/YAML document.
//
// Concrete implementations live in separate packages (hcl, document).
package config
