package resource

import "fmt"

// Collection is the ordered, append-only accumulator of one conversion. It is
// not safe for concurrent use; each conversion owns its own.
type Collection struct {
	records []Record
	names   map[string]struct{} // type/name reserved by converters
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{names: make(map[string]struct{})}
}

// Append adds a record at the end of the collection.
func (c *Collection) Append(r Record) {
	c.records = append(c.records, r)
}

// Reserve claims a record name of type typ for the rest of the conversion.
// It returns base when unused, otherwise the first free base_2, base_3, ...
func (c *Collection) Reserve(typ, base string) string {
	if c.names == nil {
		c.names = make(map[string]struct{})
	}
	name := base
	for n := 2; ; n++ {
		key := typ + "/" + name
		if _, taken := c.names[key]; !taken {
			c.names[key] = struct{}{}
			return name
		}
		name = fmt.Sprintf("%s_%d", base, n)
	}
}

// Len returns the number of records appended so far.
func (c *Collection) Len() int {
	return len(c.records)
}

// Records returns the records in insertion order. The returned slice is a
// copy; appending to the collection afterwards does not affect it.
func (c *Collection) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}
