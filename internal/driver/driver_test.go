package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacklang/jackc/internal/debugdump"
)

const validSource = `class Main {
    function void main() {
        do Output.printInt(1);
        return;
    }
}`

const brokenSource = `class Main {
    function void main() {
        let x = ;
    }
}`

func writeJack(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestCollectFilesSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeJack(t, dir, "Main.jack", validSource)

	files, err := CollectFiles(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestCollectFilesDirectoryNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	writeJack(t, dir, "Class10.jack", validSource)
	writeJack(t, dir, "Class2.jack", validSource)
	writeJack(t, dir, "notes.txt", "ignore me")

	files, err := CollectFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "Class2.jack"), files[0])
	assert.Equal(t, filepath.Join(dir, "Class10.jack"), files[1])
}

func TestCollectFilesMissingPath(t *testing.T) {
	_, err := CollectFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCompileAllSuccessWritesVMFile(t *testing.T) {
	dir := t.TempDir()
	path := writeJack(t, dir, "Main.jack", validSource)

	var stdout, stderr bytes.Buffer
	exit := CompileAll([]string{path}, Options{Stdout: &stdout, Stderr: &stderr})

	assert.Equal(t, ExitOK, exit)
	assert.Empty(t, stderr.String())

	vmContents, err := os.ReadFile(filepath.Join(dir, "Main.vm"))
	require.NoError(t, err)
	assert.Contains(t, string(vmContents), "function Main.main 0")
	assert.Contains(t, string(vmContents), "call Output.printInt 1")
}

func TestCompileAllCompileErrorExitCode(t *testing.T) {
	dir := t.TempDir()
	path := writeJack(t, dir, "Main.jack", brokenSource)

	var stdout, stderr bytes.Buffer
	exit := CompileAll([]string{path}, Options{Stdout: &stdout, Stderr: &stderr})

	assert.Equal(t, ExitCompileFailure, exit)
	assert.NotEmpty(t, stderr.String())
}

func TestCompileAllOpenFailureExitCode(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "Missing.jack")

	var stdout, stderr bytes.Buffer
	exit := CompileAll([]string{missing}, Options{Stdout: &stdout, Stderr: &stderr})

	assert.Equal(t, ExitOpenFailure, exit)
	assert.Contains(t, stdout.String(), "Failed to open")
}

func TestCompileAllWritesSharedDebugFile(t *testing.T) {
	dir := t.TempDir()
	pathA := writeJack(t, dir, "A.jack", "class A { field int x; function void f() { return; } }")
	pathB := writeJack(t, dir, "B.jack", "class B { field int y; function void f() { return; } }")
	debugPath := filepath.Join(dir, "debug.txt")

	var stdout, stderr bytes.Buffer
	exit := CompileAll([]string{pathA, pathB}, Options{
		Stdout:       &stdout,
		Stderr:       &stderr,
		DebugEnabled: true,
		DebugFormat:  debugdump.Text,
		DebugPath:    debugPath,
	})

	require.Equal(t, ExitOK, exit)
	contents, err := os.ReadFile(debugPath)
	require.NoError(t, err)
	// Both files' class tables were appended to the one shared sink.
	assert.Contains(t, string(contents), "x: int this 0")
	assert.Contains(t, string(contents), "y: int this 0")
}

func TestCompileAllDumpsEverySubroutineNotJustTheLast(t *testing.T) {
	dir := t.TempDir()
	path := writeJack(t, dir, "Point.jack", `class Point {
		field int x, y;
		constructor Point new(int ax, int ay) { let x = ax; let y = ay; return this; }
		method int getX() { return x; }
		method void move(int dx) { let x = x + dx; return; }
		function int instanceCount() { return 0; }
	}`)
	debugPath := filepath.Join(dir, "debug.txt")

	var stdout, stderr bytes.Buffer
	exit := CompileAll([]string{path}, Options{
		Stdout:       &stdout,
		Stderr:       &stderr,
		DebugEnabled: true,
		DebugFormat:  debugdump.Text,
		DebugPath:    debugPath,
	})

	require.Equal(t, ExitOK, exit)
	contents, err := os.ReadFile(debugPath)
	require.NoError(t, err)
	text := string(contents)

	// Every subroutine's trace must survive to the shared sink, not only
	// the last one compiled (instanceCount, here) — this is the bug a once-per-file
	// dump would mask, since a class with a single subroutine can't expose
	// it.
	assert.Contains(t, text, "new methodSymbolTable")
	assert.Contains(t, text, "ax: int argument 0")
	assert.Contains(t, text, "getX methodSymbolTable")
	assert.Contains(t, text, "move methodSymbolTable")
	assert.Contains(t, text, "dx: int argument 1")
	assert.Contains(t, text, "instanceCount methodSymbolTable")
	assert.Contains(t, text, "Point classSymbolTable")
	assert.Contains(t, text, "x: int this 0")
	assert.Contains(t, text, "y: int this 1")
}

func TestCompileAllAggregatesWorstExitCode(t *testing.T) {
	dir := t.TempDir()
	good := writeJack(t, dir, "Good.jack", validSource)
	bad := writeJack(t, dir, "Bad.jack", brokenSource)

	var stdout, stderr bytes.Buffer
	exit := CompileAll([]string{good, bad}, Options{Stdout: &stdout, Stderr: &stderr})

	assert.Equal(t, ExitCompileFailure, exit)
}
