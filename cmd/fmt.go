// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/luthersystems/conslisp/formatter"
)

var (
	fmtWrite      bool
	fmtDiff       bool
	fmtList       bool
	fmtIndentSize int
	fmtExcludes   []string
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [files...]",
	Short: "Format lisp source files",
	Long: `Pretty-print lisp source files.

A list with at most 12 atoms prints on one line.  Longer lists print one
element per line, indented one level deeper than the list.  The forms if,
define, defmacro and lambda keep their first argument on the opening line.
Comments are not preserved and quote shorthand is written out in full.

With no files, reads from stdin and writes to stdout.  A directory argument
ending in "/..." expands to every .lisp file below it.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed

Examples:
  conslisp fmt file.lisp            Print formatted output
  conslisp fmt -w ./...             Format every file in place
  conslisp fmt -l --exclude vendor ./...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := formatter.DefaultConfig()
		cfg.IndentSize = fmtIndentSize
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			return fmtStdin(cmd.InOrStdin(), out, cfg)
		}

		paths, err := expandArgs(args, fmtExcludes)
		if err != nil {
			return err
		}
		failed := false
		for _, path := range paths {
			changed, err := fmtFile(out, path, cfg)
			if err != nil {
				reportError(err)
				failed = true
			} else if fmtList && changed {
				failed = true
			}
		}
		if failed {
			return errFailed
		}
		return nil
	},
}

func fmtStdin(in io.Reader, out io.Writer, cfg *formatter.Config) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "reading stdin")
	}
	formatted, err := formatter.Format(src, cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(formatted)
	return err
}

// fmtFile formats the file at path according to the mode flags and reports
// whether its formatting differs.
func fmtFile(out io.Writer, path string, cfg *formatter.Config) (bool, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return false, errors.Wrapf(err, "opening file %s", path)
	}
	formatted, err := formatter.FormatFile(src, path, cfg)
	if err != nil {
		return false, err
	}
	changed := !bytes.Equal(src, formatted)

	switch {
	case fmtList:
		if changed {
			fmt.Fprintln(out, path)
		}
	case fmtDiff:
		if changed {
			writeDiff(out, path, src, formatted)
		}
	case fmtWrite:
		if changed {
			return true, replaceFile(path, formatted)
		}
	default:
		_, err = out.Write(formatted)
	}
	return changed, err
}

// replaceFile writes data to a temporary file beside path and renames it
// over path, keeping the original permissions.
func replaceFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "replacing %s", path)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "replacing %s", path)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "replacing %s", path)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "replacing %s", path)
}

// writeDiff prints a line diff of original and formatted.  Lines are
// matched greedily, which is enough to show reindentation.
func writeDiff(out io.Writer, path string, original, formatted []byte) {
	fmt.Fprintf(out, "--- %s\n", path)
	fmt.Fprintf(out, "+++ %s\n", path)

	a := splitLines(original)
	b := splitLines(formatted)
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			fmt.Fprintf(out, " %s\n", a[i])
			i++
			j++
		case i < len(a):
			fmt.Fprintf(out, "-%s\n", a[i])
			i++
		default:
			fmt.Fprintf(out, "+%s\n", b[j])
			j++
		}
	}
}

func splitLines(data []byte) []string {
	var lines []string
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, string(data))
			break
		}
		lines = append(lines, string(data[:i]))
		data = data[i+1:]
	}
	return lines
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false,
		"List files whose formatting differs from conslisp fmt's.")
	fmtCmd.Flags().IntVar(&fmtIndentSize, "indent-size", formatter.DefaultConfig().IndentSize,
		"Number of spaces per indentation level.")
	fmtCmd.Flags().StringArrayVar(&fmtExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
}
