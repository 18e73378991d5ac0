package output

import (
	"bytes"
	"strings"
	"testing"
)

// newTestWriter creates a Writer with captured output for testing.
func newTestWriter() (*Writer, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	w := &Writer{
		out:   stdout,
		err:   stderr,
		color: false, // Disable color for predictable test output
		quiet: false,
	}
	return w, stdout, stderr
}

func TestNew(t *testing.T) {
	w := New()
	if w == nil {
		t.Fatal("New() returned nil")
	}
	if w.out == nil {
		t.Error("out writer is nil")
	}
	if w.err == nil {
		t.Error("err writer is nil")
	}
}

func TestWriter_SetQuiet(t *testing.T) {
	w, _, _ := newTestWriter()

	w.SetQuiet(true)
	if !w.quiet {
		t.Error("SetQuiet(true) did not set quiet")
	}

	w.SetQuiet(false)
	if w.quiet {
		t.Error("SetQuiet(false) did not unset quiet")
	}
}

func TestWriter_Println(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Println("hello %s", "world")

	if got := stdout.String(); got != "hello world\n" {
		t.Errorf("Println() = %q, want %q", got, "hello world\n")
	}
}

func TestWriter_Errorln(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.Errorln("error %d", 42)

	if got := stderr.String(); got != "error 42\n" {
		t.Errorf("Errorln() = %q, want %q", got, "error 42\n")
	}
}

func TestWriter_QuietSuppression(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
	}{
		{"Info", func(w *Writer) { w.Info("info %s", "message") }},
		{"Detail", func(w *Writer) { w.Detail("copied %s", "a.c") }},
		{"Success", func(w *Writer) { w.Success("done") }},
		{"Action", func(w *Writer) { w.Action("Building tests...") }},
		{"Section", func(w *Writer) { w.Section("Tests") }},
		{"TestStart", func(w *Writer) { w.TestStart("test_math") }},
		{"TestPassed", func(w *Writer) { w.TestPassed("test_math", "3/3 tests passed") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, stdout, _ := newTestWriter()
			w.SetQuiet(true)
			tt.write(w)
			if stdout.Len() != 0 {
				t.Errorf("%s wrote %q in quiet mode", tt.name, stdout.String())
			}

			w, stdout, _ = newTestWriter()
			tt.write(w)
			if stdout.Len() == 0 {
				t.Errorf("%s wrote nothing in normal mode", tt.name)
			}
		})
	}
}

func TestWriter_Warning(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.Warning("Test file not found: %s", "test_x.c")

	if got := stderr.String(); got != "warning: Test file not found: test_x.c\n" {
		t.Errorf("Warning() = %q", got)
	}
}

func TestWriter_TestFailedNotQuieted(t *testing.T) {
	w, stdout, _ := newTestWriter()
	w.SetQuiet(true)

	w.TestFailed("test_math", "exit code: 1")

	if got := stdout.String(); got != "   x test_math (exit code: 1)\n" {
		t.Errorf("TestFailed() = %q", got)
	}
}

func TestWriter_TestPassed(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.TestPassed("test_math", "3/3 tests passed")

	if got := stdout.String(); got != "   + test_math (3/3 tests passed)\n" {
		t.Errorf("TestPassed() = %q", got)
	}
}

func TestWriter_Table(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Table([]string{"File", "Lines"}, [][]string{
		{"math.c", "3/6"},
		{"temperature_converter.c", "10/10"},
	})

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Table() printed %d lines, want 4:\n%s", len(lines), stdout.String())
	}
	if !strings.HasPrefix(lines[0], "File                   ") {
		t.Errorf("header not padded to widest cell: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], strings.Repeat("-", len("temperature_converter.c"))) {
		t.Errorf("separator = %q", lines[1])
	}
}

func TestWriter_Summary(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.SummaryHeader("TEST EXECUTION SUMMARY")
	w.SummaryItem("Test executables run", "2")
	w.SummaryPassed("Test executables passed", "1")
	w.SummaryFailed("Test executables failed", "1")
	w.FinalFailure("COMPLETED: %d/%d individual test functions passed", 3, 4)

	got := stdout.String()
	for _, want := range []string{
		"=== TEST EXECUTION SUMMARY ===",
		"  Test executables run: 2",
		"  Test executables passed: 1",
		"  Test executables failed: 1",
		"COMPLETED: 3/4 individual test functions passed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary output missing %q:\n%s", want, got)
		}
	}
}

func TestWriter_ErrorPrefix(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.ErrorPrefix("missing required tools: %s", "cmake")

	if got := stderr.String(); got != "ai-test-runner: missing required tools: cmake\n" {
		t.Errorf("ErrorPrefix() = %q", got)
	}
}

func TestWriter_ColorKeepsText(t *testing.T) {
	w, stdout, _ := newTestWriter()
	w.SetColor(true)

	w.Success("Build successful")

	if !strings.Contains(stdout.String(), "Build successful") {
		t.Errorf("colored output lost text: %q", stdout.String())
	}
}

func TestDiscard(t *testing.T) {
	w := Discard()
	w.Println("ignored")
	w.Warning("ignored")
}
