// Package engine implements the Jack Compilation Engine: a
// recursive-descent parser that interleaves grammar recognition with
// VM code generation in a single pass, maintaining the class and
// subroutine symbol tables and driving the VM writer.
package engine

import (
	"fmt"
	"strconv"

	"github.com/jacklang/jackc/internal/diagnostics"
	"github.com/jacklang/jackc/internal/symtab"
	"github.com/jacklang/jackc/internal/token"
	"github.com/jacklang/jackc/internal/vmwriter"
)

// TokenStream is the subset of the tokenizer the engine drives: full
// materialization with one- and two-token lookahead.
type TokenStream interface {
	HasMore() bool
	Peek() token.Token
	PeekSecond() token.Token
	Advance() token.Token
}

const maxIntConst = 32767

// SymbolTrace is one named snapshot of a symbol table captured during
// compilation: the class table once, right after the whole class
// compiles, and each subroutine's table once, right after that
// subroutine compiles (before its table is reset for the next one).
type SymbolTrace struct {
	Tag   string
	Table *symtab.Table
}

// Engine holds all per-compilation state: the current class name, the
// monotonic label counter, the two symbol tables, and handles to the
// token stream and VM writer. One Engine compiles exactly one class.
type Engine struct {
	toks   TokenStream
	writer *vmwriter.Writer

	className string
	classTab  *symtab.Table
	subTab    *symtab.Table
	nextLabel int
	traces    []SymbolTrace

	file   string
	source string
}

// New constructs an Engine over toks, emitting to writer. file and
// source are used only to render diagnostics with source context.
func New(toks TokenStream, writer *vmwriter.Writer, file, source string) *Engine {
	return &Engine{
		toks:      toks,
		writer:    writer,
		classTab:  symtab.New(),
		subTab:    symtab.New(),
		file:      file,
		source:    source,
	}
}

// Compile drives the engine over one `class ... { ... }` declaration.
// On the first grammar or symbol violation it recovers the internal
// panic and returns it as an *diagnostics.Error; there is no error
// recovery beyond that single abort.
func (e *Engine) Compile() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if de, ok := r.(*diagnostics.Error); ok {
				err = de
				return
			}
			panic(r)
		}
	}()
	e.compileClass()
	return nil
}

// Traces returns every symbol-table snapshot recorded during
// compilation, in emission order: the class table's trace always comes
// last, after every subroutine's. A caller should not call Traces
// before Compile returns.
func (e *Engine) Traces() []SymbolTrace { return e.traces }

// recordTrace snapshots table under tag and appends it to traces. A
// snapshot is required, not a bare pointer, because subTab's maps are
// replaced wholesale by Reset before the next subroutine is compiled.
func (e *Engine) recordTrace(tag string, table *symtab.Table) {
	e.traces = append(e.traces, SymbolTrace{Tag: tag, Table: table.Snapshot()})
}

// --- primitive parser helpers -------------------------------------

func (e *Engine) peek() token.Token       { return e.toks.Peek() }
func (e *Engine) peekSecond() token.Token { return e.toks.PeekSecond() }
func (e *Engine) advance() token.Token    { return e.toks.Advance() }

func (e *Engine) fail(err *diagnostics.Error) {
	panic(err)
}

// process consumes the next token, requiring it to have exactly the
// given value (a keyword or a symbol), and fails otherwise.
func (e *Engine) process(value string) token.Token {
	tok := e.peek()
	if !tok.Is(value) {
		e.fail(diagnostics.NewTokenValueError(value, tok, e.file, e.source))
	}
	return e.advance()
}

// expectKind consumes the next token, requiring it to have the given
// kind, naming that requirement `name` in the error message.
func (e *Engine) expectKind(kind token.Kind, name string, tok token.Token) token.Token {
	if tok.Kind != kind {
		e.fail(diagnostics.NewTokenKindError(name, tok, e.file, e.source))
	}
	return e.advance()
}

// verifySet peeks the next token; if its text matches any requirement
// in set it is consumed and returned, else the parser fails naming
// the set by name.
func (e *Engine) verifySet(set []string, name string) token.Token {
	tok := e.peek()
	for _, want := range set {
		if tok.Is(want) {
			return e.advance()
		}
	}
	e.fail(diagnostics.NewTokenKindError(name, tok, e.file, e.source))
	return token.Token{}
}

func (e *Engine) identifier() token.Token {
	tok := e.peek()
	return e.expectKind(token.Identifier, "identifier", tok)
}

// newLabel allocates the next class-scoped label, "L<n>", n strictly
// increasing — the counter guarantees no two labels emitted for one
// class output ever collide.
func (e *Engine) newLabel() string {
	l := "L" + strconv.Itoa(e.nextLabel)
	e.nextLabel++
	return l
}

func (e *Engine) qualify(name string) string {
	return e.className + "." + name
}

// lookupVar resolves name in the subroutine table first, then the
// class table, returning false if neither has it.
func (e *Engine) lookupVar(name string) (symtab.Entry, bool) {
	if entry, ok := e.subTab.EntryOf(name); ok {
		return entry, true
	}
	return e.classTab.EntryOf(name)
}

// --- grammar: class -------------------------------------------------

func (e *Engine) compileClass() {
	e.process("class")
	name := e.identifier()
	e.className = name.Text
	e.process("{")

	for e.peek().IsAny("static", "field") {
		e.compileClassVarDec()
	}
	for e.peek().IsAny("constructor", "function", "method") {
		e.compileSubroutineDec()
	}
	e.process("}")

	e.recordTrace(e.className+" class", e.classTab)
}

func (e *Engine) compileClassVarDec() {
	kw := e.verifySet([]string{"static", "field"}, "class var scope")
	seg := symtab.Static
	if kw.Text == "field" {
		seg = symtab.Field
	}
	e.compileVarSequence(e.classTab, seg)
}

// compileVarSequence parses `type name (',' name)* ';'` and defines
// each name into table under seg, returning the declaration count.
func (e *Engine) compileVarSequence(table *symtab.Table, seg symtab.Segment) int {
	typeName := e.parseType()
	count := 0
	for {
		name := e.identifier()
		table.Define(name.Text, typeName, seg)
		count++
		if e.peek().Is(",") {
			e.process(",")
			continue
		}
		break
	}
	e.process(";")
	return count
}

func (e *Engine) parseType() string {
	tok := e.peek()
	if tok.IsAny("int", "char", "boolean") {
		return e.advance().Text
	}
	return e.identifier().Text
}

// --- grammar: subroutine ---------------------------------------------

func (e *Engine) compileSubroutineDec() {
	e.subTab.Reset()

	kind := e.verifySet([]string{"constructor", "function", "method"}, "subroutine kind").Text

	if kind == "method" {
		e.subTab.DefineThis(e.className)
	}

	e.parseReturnType()
	name := e.identifier().Text

	e.process("(")
	if !e.peek().Is(")") {
		e.compileParameterList()
	}
	e.process(")")

	e.compileSubroutineBody(name, kind)

	e.recordTrace(name+" method", e.subTab)
}

func (e *Engine) parseReturnType() string {
	tok := e.peek()
	if tok.Is("void") {
		return e.advance().Text
	}
	if tok.IsAny("int", "char", "boolean") {
		return e.advance().Text
	}
	return e.identifier().Text
}

func (e *Engine) compileParameterList() {
	for {
		typeName := e.parseType()
		name := e.identifier()
		e.subTab.Define(name.Text, typeName, symtab.Arg)
		if e.peek().Is(",") {
			e.process(",")
			continue
		}
		break
	}
}

func (e *Engine) compileSubroutineBody(name, kind string) {
	e.process("{")

	nLocals := 0
	for e.peek().Is("var") {
		e.process("var")
		nLocals += e.compileVarSequence(e.subTab, symtab.Local)
	}

	e.writer.Function(e.qualify(name), nLocals)

	switch kind {
	case "constructor":
		e.writer.Push(symtab.Const, e.classTab.Count(symtab.Field))
		e.writer.Call("Memory.alloc", 1)
		e.writer.Pop(symtab.Pointer, 0)
	case "method":
		e.writer.Push(symtab.Arg, 0)
		e.writer.Pop(symtab.Pointer, 0)
	}

	e.compileStatements()
	e.process("}")
}

// --- grammar: statements ----------------------------------------------

func (e *Engine) compileStatements() {
	for {
		tok := e.peek()
		switch {
		case tok.Is("let"):
			e.compileLet()
		case tok.Is("if"):
			e.compileIf()
		case tok.Is("while"):
			e.compileWhile()
		case tok.Is("do"):
			e.compileDo()
		case tok.Is("return"):
			e.compileReturn()
		default:
			return
		}
	}
}

func (e *Engine) compileLet() {
	e.process("let")
	name := e.identifier()

	if e.peek().Is("[") {
		e.process("[")
		e.pushVar(name.Text)
		e.compileExpression()
		e.writer.Arithmetic(vmwriter.Add)
		e.process("]")

		e.process("=")
		e.compileExpression()
		e.process(";")

		e.writer.Pop(symtab.Temp, 0)
		e.writer.Pop(symtab.Pointer, 1)
		e.writer.Push(symtab.Temp, 0)
		e.writer.Pop(symtab.That, 0)
		return
	}

	e.process("=")
	e.compileExpression()
	e.process(";")

	entry, ok := e.lookupVar(name.Text)
	if !ok {
		e.fail(diagnostics.NewUndefinedSymbolError(name.Text, name, e.file, e.source))
	}
	e.writer.Pop(entry.Segment, entry.Index)
}

func (e *Engine) compileIf() {
	e.process("if")
	e.process("(")

	labelElse := e.newLabel()
	labelEnd := e.newLabel()

	e.compileExpression()
	e.process(")")
	e.writer.Arithmetic(vmwriter.Not)
	e.writer.IfGoto(labelElse)

	e.process("{")
	e.compileStatements()
	e.process("}")

	e.writer.Goto(labelEnd)
	e.writer.Label(labelElse)

	if e.peek().Is("else") {
		e.process("else")
		e.process("{")
		e.compileStatements()
		e.process("}")
	}

	e.writer.Label(labelEnd)
}

func (e *Engine) compileWhile() {
	e.process("while")
	e.process("(")

	labelLoop := e.newLabel()
	labelExit := e.newLabel()

	e.writer.Label(labelLoop)
	e.compileExpression()
	e.process(")")
	e.writer.Arithmetic(vmwriter.Not)
	e.writer.IfGoto(labelExit)

	e.process("{")
	e.compileStatements()
	e.process("}")

	e.writer.Goto(labelLoop)
	e.writer.Label(labelExit)
}

func (e *Engine) compileDo() {
	e.process("do")
	e.compileSubroutineCall(e.identifier())
	e.writer.Pop(symtab.Temp, 0)
	e.process(";")
}

func (e *Engine) compileReturn() {
	e.process("return")
	if e.peek().Is(";") {
		e.writer.Push(symtab.Const, 0)
	} else {
		e.compileExpression()
	}
	e.writer.Return()
	e.process(";")
}

// --- grammar: expressions ----------------------------------------------

func (e *Engine) compileExpression() {
	e.compileTerm()
	for isBinaryOp(e.peek()) {
		op := e.advance()
		e.compileTerm()
		switch op.Text {
		case "*":
			e.writer.Call("Math.multiply", 2)
		case "/":
			e.writer.Call("Math.divide", 2)
		default:
			e.writer.Arithmetic(binaryOpFor(op))
		}
	}
}

// compileExpressionList parses `(expression (',' expression)*)?` and
// returns the number of expressions compiled.
func (e *Engine) compileExpressionList() int {
	if e.peek().Is(")") {
		return 0
	}
	count := 1
	e.compileExpression()
	for e.peek().Is(",") {
		e.process(",")
		e.compileExpression()
		count++
	}
	return count
}

func (e *Engine) compileTerm() {
	tok := e.peek()
	switch {
	case tok.Kind == token.IntConst:
		e.compileIntConst(tok)
	case tok.Kind == token.StringConst:
		e.advance()
		e.writer.Push(symtab.Const, len([]rune(tok.Text)))
		e.writer.Call("String.new", 1)
		for _, r := range tok.Text {
			e.writer.Push(symtab.Const, int(r))
			e.writer.Call("String.appendChar", 2)
		}
	case tok.Is("true"):
		e.advance()
		e.writer.Push(symtab.Const, 1)
		e.writer.Arithmetic(vmwriter.Neg)
	case tok.Is("false"), tok.Is("null"):
		e.advance()
		e.writer.Push(symtab.Const, 0)
	case tok.Is("this"):
		e.advance()
		e.writer.Push(symtab.Pointer, 0)
	case tok.Is("("):
		e.process("(")
		e.compileExpression()
		e.process(")")
	case tok.IsAny("-", "~"):
		e.advance()
		e.compileTerm()
		e.writer.Arithmetic(unaryOpFor(tok))
	case tok.Kind == token.Identifier:
		e.compileIdentifierTerm(tok)
	default:
		e.fail(diagnostics.NewTokenKindError("term", tok, e.file, e.source))
	}
}

func (e *Engine) compileIntConst(tok token.Token) {
	e.advance()
	n, ok := tok.IntValue()
	if !ok || n > maxIntConst {
		e.fail(diagnostics.NewTokenKindError(
			fmt.Sprintf("integer constant in range 0..%d", maxIntConst), tok, e.file, e.source))
	}
	e.writer.Push(symtab.Const, n)
}

// compileIdentifierTerm disambiguates the three identifier-led term
// shapes using one token of lookahead: array read, subroutine call,
// or plain variable access.
func (e *Engine) compileIdentifierTerm(tok token.Token) {
	e.advance()
	switch {
	case e.peek().Is("["):
		e.process("[")
		e.pushVar(tok.Text)
		e.compileExpression()
		e.writer.Arithmetic(vmwriter.Add)
		e.process("]")
		e.writer.Pop(symtab.Pointer, 1)
		e.writer.Push(symtab.That, 0)
	case e.peek().IsAny("(", "."):
		e.compileSubroutineCall(tok)
	default:
		e.pushVar(tok.Text)
	}
}

func (e *Engine) pushVar(name string) {
	entry, ok := e.lookupVar(name)
	if !ok {
		e.fail(diagnostics.NewUndefinedSymbolError(name, token.Token{Text: name}, e.file, e.source))
	}
	e.writer.Push(entry.Segment, entry.Index)
}

// compileSubroutineCall handles the three call shapes a subroutine call
// can take: `name(args)`, `var.name(args)`, and `Class.name(args)`.
// name has already been consumed as the leading identifier token.
func (e *Engine) compileSubroutineCall(name token.Token) {
	if e.peek().Is(".") {
		e.process(".")
		method := e.identifier()

		nArgs := 0
		var target string
		if entry, ok := e.lookupVar(name.Text); ok {
			e.writer.Push(entry.Segment, entry.Index)
			target = entry.Type + "." + method.Text
			nArgs = 1
		} else {
			target = name.Text + "." + method.Text
		}

		e.process("(")
		nArgs += e.compileExpressionList()
		e.process(")")

		e.writer.Call(target, nArgs)
		return
	}

	if e.peek().Is("(") {
		e.writer.Push(symtab.Pointer, 0)
		e.process("(")
		nArgs := 1 + e.compileExpressionList()
		e.process(")")
		e.writer.Call(e.qualify(name.Text), nArgs)
		return
	}

	e.fail(diagnostics.NewTokenKindError("subroutine call", e.peek(), e.file, e.source))
}

func isBinaryOp(tok token.Token) bool {
	return tok.IsAny("+", "-", "*", "/", "&", "|", "<", ">", "=")
}

func binaryOpFor(tok token.Token) vmwriter.Op {
	switch tok.Text {
	case "+":
		return vmwriter.Add
	case "-":
		return vmwriter.Sub
	case "&":
		return vmwriter.And
	case "|":
		return vmwriter.Or
	case "<":
		return vmwriter.Lt
	case ">":
		return vmwriter.Gt
	case "=":
		return vmwriter.Eq
	}
	return ""
}

func unaryOpFor(tok token.Token) vmwriter.Op {
	if tok.Text == "-" {
		return vmwriter.Neg
	}
	return vmwriter.Not
}
