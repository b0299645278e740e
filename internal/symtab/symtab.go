// Package symtab implements the Jack symbol table: a name -> {type,
// segment, index} mapping with per-segment counters. The engine owns
// two instances — one class-scoped, one subroutine-scoped — and
// consults the subroutine table first on lookup.
package symtab

// Segment is the closed set of storage segments a symbol can occupy.
// FIELD is a source-level concept only: define() stores it as THIS,
// since every field access compiles down to a `this` segment reference.
type Segment string

const (
	Invalid Segment = ""
	Field   Segment = "field"
	This    Segment = "this"
	Static  Segment = "static"
	Arg     Segment = "argument"
	Local   Segment = "local"
	Const   Segment = "constant"
	That    Segment = "that"
	Pointer Segment = "pointer"
	Temp    Segment = "temp"
)

// Entry is one symbol table record.
type Entry struct {
	Type    string
	Segment Segment
	Index   int
}

// Table is a single scope's symbol map plus its segment counters.
// Counters are tracked only for THIS, STATIC, ARG, LOCAL — the
// segments define() ever inserts into.
type Table struct {
	entries  map[string]Entry
	counters map[Segment]int
}

// New returns an empty table with all counters zeroed.
func New() *Table {
	return &Table{
		entries:  make(map[string]Entry),
		counters: make(map[Segment]int),
	}
}

// storageSegment rewrites FIELD to THIS, the only segment remapping
// define() performs.
func storageSegment(seg Segment) Segment {
	if seg == Field {
		return This
	}
	return seg
}

// Define inserts name with the given declared type and segment,
// assigning the next free index in that segment's counter and
// incrementing it. Re-defining an existing name silently overwrites
// it rather than rejecting the redefinition — see DESIGN.md for why
// this quirk is kept.
func (t *Table) Define(name, declaredType string, seg Segment) Entry {
	actual := storageSegment(seg)
	e := Entry{Type: declaredType, Segment: actual, Index: t.counters[actual]}
	t.counters[actual]++
	t.entries[name] = e
	return e
}

// DefineThis seeds the synthetic `this` argument for a method: an ARG
// entry of the enclosing class's type at index 0.
func (t *Table) DefineThis(className string) Entry {
	return t.Define("this", className, Arg)
}

// Contains reports whether name is defined in this table.
func (t *Table) Contains(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// EntryOf returns the full entry for name.
func (t *Table) EntryOf(name string) (Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// TypeOf, SegmentOf, IndexOf project a single field of the entry.
func (t *Table) TypeOf(name string) string {
	return t.entries[name].Type
}

func (t *Table) SegmentOf(name string) Segment {
	return t.entries[name].Segment
}

func (t *Table) IndexOf(name string) int {
	return t.entries[name].Index
}

// Count returns the current counter value for seg (FIELD queries are
// rewritten to THIS, same as Define).
func (t *Table) Count(seg Segment) int {
	return t.counters[storageSegment(seg)]
}

// Reset clears all entries and zeroes every counter. Called at the
// start of each subroutine declaration for the subroutine-scoped
// table; the class-scoped table is never reset, since each Engine
// compiles one class with a fresh table.
func (t *Table) Reset() {
	t.entries = make(map[string]Entry)
	t.counters = make(map[Segment]int)
}

// Names returns the table's entries in insertion-unspecified order,
// for debug dumping.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for n := range t.entries {
		names = append(names, n)
	}
	return names
}

// Snapshot copies a table's entries and counters into a new, independent
// Table. A caller that wants to keep a record of a table's contents past
// the next Reset (e.g. to dump it later) must snapshot it first, since
// Reset replaces the table's maps in place.
func (t *Table) Snapshot() *Table {
	cp := New()
	for name, e := range t.entries {
		cp.entries[name] = e
	}
	for seg, n := range t.counters {
		cp.counters[seg] = n
	}
	return cp
}
