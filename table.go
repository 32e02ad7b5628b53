package ckpt

// Table writes the (ordinal, name) pool of a fixed enumeration of
// cardinality Len, in ordinal order. It never rolls back.
type Table struct {
	Name   string
	Len    uint32
	NameOf func(ordinal uint32) string

	// Disabled is set when the enumeration belongs to an optional capability
	// missing from the build. The pool is then still declared, with count 0.
	Disabled bool
}

func (t *Table) Serialize(w *Writer) {
	if t.Disabled {
		w.WriteCount(0)
		return
	}
	w.WriteCount(t.Len)
	for i := uint32(0); i < t.Len; i++ {
		name := t.NameOf(i)
		if name == "" {
			fatalf("Serialize", "%s: ordinal %d has no name", t.Name, i)
		}
		w.WriteOrdinal(i)
		w.WriteString(name)
	}
}

func (t *Table) Describe() Descriptor {
	return Descriptor{Name: t.Name, Fields: ordinalFields}
}

// AggregateTable collapses an entire enumeration into a single entry, keyed
// by the ordinal of the aggregate value. Its pool always has exactly one
// entry, whatever the cardinality of the enumeration.
type AggregateTable struct {
	Name  string
	Key   uint32
	Label string
}

func (t *AggregateTable) Serialize(w *Writer) {
	w.WriteCount(1)
	w.WriteOrdinal(t.Key)
	w.WriteString(t.Label)
}

func (t *AggregateTable) Describe() Descriptor {
	return Descriptor{Name: t.Name, Fields: ordinalFields}
}
