// Package output renders converted records, either as the JSON document
// {"resources": [...]} or as Terraform configuration for the Azion provider.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vk/akamai2azion/internal/resource"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatHCL}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (want one of %v)", s, Formats())
}

// Extension is the conventional file extension for f.
func (f Format) Extension() string {
	if f == FormatHCL {
		return ".tf"
	}
	return ".json"
}

// Write renders records to w in format f.
func Write(w io.Writer, f Format, records []resource.Record) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatHCL:
		return WriteHCL(w, records)
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}

type document struct {
	Resources []resource.Record `json:"resources"`
}

// WriteJSON writes {"resources": [...]} indented by two spaces. References
// are rendered as "${type.name.attr}" strings.
func WriteJSON(w io.Writer, records []resource.Record) error {
	if records == nil {
		records = []resource.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(document{Resources: records}); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}
