// Command sheet is the interactive line-oriented front end for the
// reactive spreadsheet engine. It owns nothing the engine doesn't already
// expose: argument validation, the command loop, viewport scrolling and
// rendering, and an optional WebSocket status publisher are the entirety
// of its job.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"reactivesheet/internal/csvimport"
	"reactivesheet/internal/engine"
	"reactivesheet/internal/statuspub"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sheet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	listenAddr := fs.String("listen", "", "optional address to serve the status WebSocket on")
	undoDepth := fs.Int("undo-depth", engine.DefaultUndoDepth, "undo/redo stack depth (floor 17)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: sheet [-listen addr] [-undo-depth n] <rows> <columns>")
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	positional := fs.Args()
	if len(positional) != 2 {
		fs.Usage()
		return 1
	}

	rows, errR := strconv.Atoi(positional[0])
	cols, errC := strconv.Atoi(positional[1])
	if errR != nil || errC != nil {
		fmt.Fprintln(stderr, "rows and columns must be integers")
		return 1
	}

	grid, err := engine.NewGrid(rows, cols)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))
	ctx := engine.NewContext(grid, *undoDepth, logger, nil)

	if *listenAddr != "" {
		pub := statuspub.NewPublisher(logger)
		ctx.OnStatus = pub.Publish
		go func() {
			if err := pub.ListenAndServe(*listenAddr); err != nil {
				logger.Warn("status publisher stopped", "error", err)
			}
		}()
	}

	runREPL(ctx, stdin, stdout)
	return 0
}

func runREPL(ctx *engine.Context, stdin io.Reader, stdout io.Writer) {
	scanner := bufio.NewScanner(stdin)
	vp := newViewport(ctx.Grid.Rows(), ctx.Grid.Cols())
	outputEnabled := true

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" {
			return
		}

		handleCommand(ctx, vp, &outputEnabled, line)
		ctx.DrainSleepCompletions()

		fmt.Fprintf(stdout, "[%d] %s\n", int(ctx.Status), ctx.Status)
		if outputEnabled {
			vp.render(ctx.Grid, stdout)
		}
	}
}

func handleCommand(ctx *engine.Context, vp *viewport, outputEnabled *bool, line string) {
	switch {
	case line == "disable_output":
		*outputEnabled = false
		ctx.Status = engine.StatusOk
	case line == "enable_output":
		*outputEnabled = true
		ctx.Status = engine.StatusOk
	case line == "w":
		vp.up()
		ctx.Status = engine.StatusOk
	case line == "s":
		vp.down()
		ctx.Status = engine.StatusOk
	case line == "a":
		vp.left()
		ctx.Status = engine.StatusOk
	case line == "d":
		vp.right()
		ctx.Status = engine.StatusOk
	case line == "undo":
		ctx.DoUndo()
	case line == "redo":
		ctx.DoRedo()
	case strings.HasPrefix(line, "scroll_to "):
		handleScrollTo(ctx, vp, strings.TrimSpace(line[len("scroll_to "):]))
	case strings.HasPrefix(line, "read "):
		handleRead(ctx, strings.TrimSpace(line[len("read "):]))
	default:
		handleAssignment(ctx, line)
	}
}

func handleScrollTo(ctx *engine.Context, vp *viewport, cellText string) {
	ref, err := parseCellReference(cellText)
	if err != nil {
		ctx.Status = engine.StatusInvalidInput
		return
	}
	if err := vp.scrollTo(ref); err != nil {
		ctx.Status = engine.StatusInvalidInput
		return
	}
	ctx.Status = engine.StatusOk
}

func handleRead(ctx *engine.Context, path string) {
	if err := csvimport.Import(ctx, path); err != nil {
		ctx.Logger.Warn("read command failed", "path", path, "error", err)
		ctx.Status = engine.StatusInvalidInput
		return
	}
	ctx.Status = engine.StatusOk
}

func handleAssignment(ctx *engine.Context, line string) {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		ctx.Status = engine.StatusInvalidInput
		return
	}
	ref, err := parseCellReference(strings.TrimSpace(parts[0]))
	if err != nil {
		ctx.Status = engine.StatusInvalidInput
		return
	}
	_ = ctx.AssignFormula(ref, strings.TrimSpace(parts[1]))
}

// parseCellReference accepts the same "A1"/"ZZ10" syntax the formula
// lexer does, for commands (scroll_to, assignment targets) that name a
// cell outside of a formula body.
func parseCellReference(text string) (engine.CellReference, error) {
	expr, err := engine.ParseFormula(text)
	if err != nil {
		return engine.CellReference{}, err
	}
	ref, ok := expr.(*engine.CellRefExpr)
	if !ok {
		return engine.CellReference{}, engine.NewEngineError(engine.StatusInvalidInput, "expected a cell reference, got %q", text)
	}
	return ref.Ref, nil
}
