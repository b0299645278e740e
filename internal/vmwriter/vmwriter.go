// Package vmwriter formats and emits the textual VM instruction
// stream. It is stateless with respect to compilation: every method
// writes exactly one line, and the exact layout (leading tabs, label
// spelling) is load-bearing because downstream VM translators
// tokenize the output by whitespace.
package vmwriter

import (
	"fmt"
	"io"

	"github.com/jacklang/jackc/internal/symtab"
)

// Op is the closed set of VM arithmetic/logic mnemonics.
type Op string

const (
	Add Op = "add"
	Sub Op = "sub"
	Neg Op = "neg"
	Eq  Op = "eq"
	Gt  Op = "gt"
	Lt  Op = "lt"
	And Op = "and"
	Or  Op = "or"
	Not Op = "not"
)

// Writer emits VM instructions to an io.Writer.
type Writer struct {
	w io.Writer
}

// New wraps w as a VM instruction sink.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) line(format string, args ...any) {
	fmt.Fprintf(w.w, format+"\n", args...)
}

// Push emits `push <segment> <index>`.
func (w *Writer) Push(seg symtab.Segment, index int) {
	w.line("\tpush %s %d", seg, index)
}

// Pop emits `pop <segment> <index>`.
func (w *Writer) Pop(seg symtab.Segment, index int) {
	w.line("\tpop %s %d", seg, index)
}

// Arithmetic emits a bare operator mnemonic: `<op>`.
func (w *Writer) Arithmetic(op Op) {
	w.line("\t%s", op)
}

// Label emits `label <name>` with no leading tab.
func (w *Writer) Label(name string) {
	w.line("label %s", name)
}

// Goto emits `goto <name>`.
func (w *Writer) Goto(name string) {
	w.line("\tgoto %s", name)
}

// IfGoto emits `if-goto <name>`.
func (w *Writer) IfGoto(name string) {
	w.line("\tif-goto %s", name)
}

// Call emits `call <name> <nArgs>`.
func (w *Writer) Call(name string, nArgs int) {
	w.line("\tcall %s %d", name, nArgs)
}

// Function emits `function <name> <nLocals>` with no leading tab.
func (w *Writer) Function(name string, nLocals int) {
	w.line("function %s %d", name, nLocals)
}

// Return emits `return`.
func (w *Writer) Return() {
	w.line("\treturn")
}
