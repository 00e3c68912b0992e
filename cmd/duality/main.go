// Command duality is the thin CLI collaborator described in section 6:
// it reads a Core-notation source file, runs it through the checker and
// evaluator, and prints the Core, Checked Core, and Result sections.
// Concrete-syntax parsing, error message rendering, and everything else
// peripheral to the language core stay out of scope here too - this
// binary only wires the core package's own textual notation (coreio) to
// stdio.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/duality-lang/duality/internal/core"
	"github.com/duality-lang/duality/internal/coreio"
	"github.com/duality-lang/duality/internal/lspserver"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	args := os.Args[1:]
	if len(args) == 1 && args[0] == "--server" {
		log.Info("starting LSP server on stdio")
		lspserver.New(os.Stdout, log).Start(os.Stdin)
		return
	}
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s <filename> | --server\n", os.Args[0])
		os.Exit(1)
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		log.Error("reading source file", "path", args[0], "error", err)
		os.Exit(1)
	}

	if err := run(os.Stdout, log, string(source)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

// run executes the check+eval pipeline over source and writes the Core,
// Checked Core, and Result sections to w. The section banners print with
// a blank-line separator when standard output is a terminal and a compact
// single newline otherwise, so the output stays pleasant to read interactively
// but cheap to pipe into another tool.
func run(w io.Writer, log *slog.Logger, source string) error {
	start := time.Now()

	session := core.NewSession(func(s string) {
		fmt.Fprintln(w, s)
	})
	log = log.With("session", session.SessionID.String())

	expr, err := coreio.Read(session.Pool(), source)
	if err != nil {
		return err
	}

	printSection(w, "Core", core.ToString(expr))

	checker := core.NewChecker(session)
	checked, _, err := checker.Check(expr)
	if err != nil {
		log.Error("check failed", "error", err)
		return err
	}
	printSection(w, "Checked Core", core.ToString(checked))

	verdict, value := core.EvalToValue(session, checked)
	elapsed := humanize.RelTime(start, time.Now(), "ago", "from now")

	switch verdict {
	case core.Yes:
		printSection(w, "Result", fmt.Sprintf("%s (completed %s)", core.ToString(value), elapsed))
		return nil
	case core.Maybe:
		printSection(w, "Result", fmt.Sprintf("stuck: %s (completed %s)", core.ToString(value), elapsed))
		return fmt.Errorf("evaluation got stuck without reaching a value")
	default:
		printSection(w, "Result", fmt.Sprintf("no: %s (completed %s)", core.ToString(value), elapsed))
		return fmt.Errorf("evaluation failed: no reduction applies to %s", core.ToString(value))
	}
}

func printSection(w io.Writer, title, body string) {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintf(w, "%s:\n\n  %s\n\n", title, body)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", title, body)
}
