package source

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var invalidNameChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// Sanitize turns an arbitrary label (a hostname, a property name) into a
// Terraform-safe resource name: lowercase, with every run of other
// characters collapsed to a single underscore. Accents are stripped first,
// so "Café" becomes "cafe".
func Sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(stripAccents(s)))
	s = invalidNameChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s != "" && (s[0] == '-' || (s[0] >= '0' && s[0] <= '9')) {
		s = "_" + s
	}
	return s
}

// Hostname is one hostnames block of an akamai_property.
type Hostname struct {
	From                 string
	To                   string
	CertProvisioningType string
}

func stripAccents(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
