// Package debugdump renders symbol-table traces for the `-d` debug
// file: a plain-text format, and an optional JSON variant built with
// tidwall/sjson and pretty-printed with tidwall/pretty.
package debugdump

import (
	"fmt"
	"io"
	"sort"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/jacklang/jackc/internal/symtab"
)

// Format selects the debug file's rendering.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// WriteText writes one symbol-table dump: a header `<tag>SymbolTable`,
// one `name: type segment index` line per entry, and a trailing
// `------`. Entry order is unspecified, so entries are sorted by name
// for a stable, diffable trace.
func WriteText(w io.Writer, tag string, table *symtab.Table) error {
	if _, err := fmt.Fprintf(w, "%sSymbolTable\n", tag); err != nil {
		return err
	}
	for _, name := range sortedNames(table) {
		entry, _ := table.EntryOf(name)
		if _, err := fmt.Fprintf(w, "%s: %s %s %d\n", name, entry.Type, entry.Segment, entry.Index); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "------")
	return err
}

// WriteJSON writes the same dump as a pretty-printed JSON document:
// {"tag": "...", "entries": [{"name":..., "type":..., "segment":...,
// "index":...}, ...]}. Each field is set individually with sjson,
// matching how sjson is meant to be used — no struct round-trip.
func WriteJSON(w io.Writer, tag string, table *symtab.Table) error {
	doc := "{}"
	var err error
	if doc, err = sjson.Set(doc, "tag", tag); err != nil {
		return err
	}

	for i, name := range sortedNames(table) {
		entry, _ := table.EntryOf(name)
		base := fmt.Sprintf("entries.%d", i)
		if doc, err = sjson.Set(doc, base+".name", name); err != nil {
			return err
		}
		if doc, err = sjson.Set(doc, base+".type", entry.Type); err != nil {
			return err
		}
		if doc, err = sjson.Set(doc, base+".segment", string(entry.Segment)); err != nil {
			return err
		}
		if doc, err = sjson.Set(doc, base+".index", entry.Index); err != nil {
			return err
		}
	}

	out := pretty.Pretty([]byte(doc))
	_, err = w.Write(out)
	return err
}

func sortedNames(table *symtab.Table) []string {
	names := table.Names()
	sort.Strings(names)
	return names
}
