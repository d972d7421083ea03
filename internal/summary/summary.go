// Package summary reports what a conversion produced.
package summary

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/vk/akamai2azion/internal/ctxlog"
	"github.com/vk/akamai2azion/internal/resource"
)

// TypeCount is the number of records of one type.
type TypeCount struct {
	Type  string
	Count int
}

// Summary counts converted records by type.
type Summary struct {
	Total  int
	ByType []TypeCount
}

// Build counts records. Types are listed in the order they first appear.
func Build(records []resource.Record) Summary {
	s := Summary{Total: len(records)}
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Type]
		if !ok {
			i = len(s.ByType)
			index[r.Type] = i
			s.ByType = append(s.ByType, TypeCount{Type: r.Type})
		}
		s.ByType[i].Count++
	}
	return s
}

// Count returns the number of records of typ.
func (s Summary) Count(typ string) int {
	for _, tc := range s.ByType {
		if tc.Type == typ {
			return tc.Count
		}
	}
	return 0
}

// Types returns the record types, sorted.
func (s Summary) Types() []string {
	types := make([]string, len(s.ByType))
	for i, tc := range s.ByType {
		types[i] = tc.Type
	}
	sort.Strings(types)
	return types
}

// Log writes the summary through the context logger.
func (s Summary) Log(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Conversion summary.", "total", s.Total, "types", s.Types())
	for _, tc := range s.ByType {
		logger.Debug("Converted records.", "type", tc.Type, "count", tc.Count)
	}
}

// Write prints the summary as an aligned table.
func (s Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 5, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCOUNT")
	for _, tc := range s.ByType {
		fmt.Fprintf(tw, "%s\t%d\n", tc.Type, tc.Count)
	}
	fmt.Fprintf(tw, "total\t%d\n", s.Total)
	return tw.Flush()
}
