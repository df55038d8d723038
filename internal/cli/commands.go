package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/codalotl/richsync/internal/attributes"
	"github.com/codalotl/richsync/internal/change"
	"github.com/codalotl/richsync/internal/delta"
	"github.com/codalotl/richsync/internal/deltadiff"
	"github.com/codalotl/richsync/internal/document"
	"github.com/codalotl/richsync/internal/mdimport"
	qcli "github.com/codalotl/richsync/internal/q/cli"
	"github.com/codalotl/richsync/internal/render"
	"github.com/codalotl/richsync/internal/simplelogger"
)

// runWithEnv loads the environment before running a handler. version and help don't need it, so they skip it.
func runWithEnv(name string, outIsTerminal bool, next func(c *qcli.Context, e *env) error) qcli.RunFunc {
	return func(c *qcli.Context) error {
		e, err := loadEnv(outIsTerminal)
		if err != nil {
			return err
		}
		simplelogger.Log("cli: %s %q", name, c.Args)
		return next(c, e)
	}
}

func newRootCommand(outIsTerminal bool) *qcli.Command {
	root := &qcli.Command{
		Name:  "richsync",
		Short: "richsync turns plain-text edits of a rich-text document into deltas.",
	}

	diffCmd := &qcli.Command{
		Name:  "diff",
		Short: "Print the delta turning one text into another.",
		Long: "Reads the texts before and after an edit and prints the delta that turns one into the other, as JSON.\n" +
			"Selections are rune offsets: START,END or a single offset for a caret.",
		Example: "richsync diff --old before.txt --new after.txt --before 5 --after 8",
		Args:    qcli.NoArgs,
	}
	diffFlags := diffCmd.Flags()
	diffOld := diffFlags.String("old", 0, "", "File with the text before the edit (- for stdin).")
	diffNew := diffFlags.String("new", 0, "", "File with the text after the edit (- for stdin).")
	diffBefore := diffFlags.String("before", 'b', "0", "Selection before the edit, in the old text.")
	diffAfter := diffFlags.String("after", 'a', "0", "Selection after the edit, in the new text.")
	diffAttrs := diffFlags.String("attrs", 0, "", "Cursor attributes as a JSON object (ex: {\"bold\":true}).")
	diffVerbose := diffFlags.Bool("verbose", 'v', false, "Also print the diffed range to stderr.")
	diffCmd.Run = runWithEnv("diff", outIsTerminal, func(c *qcli.Context, e *env) error {
		if *diffOld == "" || *diffNew == "" {
			return qcli.UsageError{Message: "--old and --new are required"}
		}
		if *diffOld == "-" && *diffNew == "-" {
			return qcli.UsageError{Message: "only one of --old and --new can read stdin"}
		}
		before, err := parseRange("before", *diffBefore)
		if err != nil {
			return err
		}
		after, err := parseRange("after", *diffAfter)
		if err != nil {
			return err
		}
		cursor := attributes.Map{}
		if *diffAttrs != "" {
			if err := json.Unmarshal([]byte(*diffAttrs), &cursor); err != nil {
				return qcli.UsageError{Message: fmt.Sprintf("--attrs: %v", err)}
			}
		}
		oldText, err := readInput(c, *diffOld)
		if err != nil {
			return err
		}
		newText, err := readInput(c, *diffNew)
		if err != nil {
			return err
		}

		report, err := deltadiff.New(e.differ()).Compute(deltadiff.Model{
			OldText:              string(oldText),
			NewText:              string(newText),
			Context:              change.NewContext(before, after),
			CursorTextAttributes: cursor,
		}, nil)
		if err != nil {
			return err
		}
		if *diffVerbose {
			fmt.Fprintf(c.Err, "traversal %v widened=%t deletion=%t\n", report.Traversal, report.Widened, report.Deletion)
		}
		return writeJSON(c.Out, report.Delta)
	})

	importCmd := &qcli.Command{
		Name:  "import",
		Short: "Print the document for a Markdown file.",
		Args:  qcli.ExactArgs(1),
	}
	importShow := importCmd.Flags().Bool("show", 0, false, "Render the document after the JSON.")
	importCmd.Run = runWithEnv("import", outIsTerminal, func(c *qcli.Context, e *env) error {
		src, err := readInput(c, c.Args[0])
		if err != nil {
			return err
		}
		d, err := mdimport.Import(src)
		if err != nil {
			return err
		}
		doc, err := document.FromDelta(d, e.documentOptions()...)
		if err != nil {
			return err
		}
		return writeDocument(c.Out, doc, *importShow, e.renderOptions(0))
	})

	showCmd := &qcli.Command{
		Name:  "show",
		Short: "Render a document delta stored as JSON.",
		Args:  qcli.ExactArgs(1),
	}
	showWidth := showCmd.Flags().Int("width", 'w', 0, "Maximum row width (0 uses the configured width).")
	showCmd.Run = runWithEnv("show", outIsTerminal, func(c *qcli.Context, e *env) error {
		b, err := readInput(c, c.Args[0])
		if err != nil {
			return err
		}
		var d delta.Delta
		if err := json.Unmarshal(b, &d); err != nil {
			return fmt.Errorf("decode %s: %w", c.Args[0], err)
		}
		doc, err := document.FromDelta(d, e.documentOptions()...)
		if err != nil {
			return err
		}
		_, err = io.WriteString(c.Out, render.Document(doc, e.renderOptions(*showWidth)))
		return err
	})

	replayCmd := &qcli.Command{
		Name:  "replay",
		Short: "Replay a recorded editing session and print the resulting document.",
		Long:  "SESSION is a YAML transcript: an optional markdown seed, then events (text, select, move, cursor, format, linetype) applied in order.",
		Args:  qcli.ExactArgs(1),
	}
	replayFlags := replayCmd.Flags()
	replayShow := replayFlags.Bool("show", 0, false, "Render the document after the JSON.")
	replayTrace := replayFlags.Bool("trace", 't', false, "Print each applied diff as a JSON line before the document.")
	replayCmd.Run = runWithEnv("replay", outIsTerminal, func(c *qcli.Context, e *env) error {
		src, err := readInput(c, c.Args[0])
		if err != nil {
			return err
		}
		tr, err := parseTranscript(src)
		if err != nil {
			return fmt.Errorf("%s: %w", c.Args[0], err)
		}
		var trace io.Writer
		if *replayTrace {
			trace = c.Out
		}
		doc, err := tr.replay(e.documentOptions(), trace)
		if err != nil {
			return err
		}
		return writeDocument(c.Out, doc, *replayShow, e.renderOptions(0))
	})

	versionCmd := &qcli.Command{
		Name:  "version",
		Short: "Print richsync version.",
		Args:  qcli.NoArgs,
		Run: func(c *qcli.Context) error {
			_, err := fmt.Fprintln(c.Out, Version)
			return err
		},
	}

	root.AddCommand(diffCmd, importCmd, showCmd, replayCmd, versionCmd)
	return root
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func writeDocument(w io.Writer, doc *document.Document, show bool, opts render.Options) error {
	if err := writeJSON(w, doc.Delta()); err != nil {
		return err
	}
	if !show {
		return nil
	}
	_, err := io.WriteString(w, render.Document(doc, opts))
	return err
}
