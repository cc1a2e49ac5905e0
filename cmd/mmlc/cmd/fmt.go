package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mml-lang/mmlc/internal/parser"
	"github.com/mml-lang/mmlc/internal/printer"
	"github.com/spf13/cobra"
)

var (
	fmtWrite     bool // -w: write result to (source) file instead of stdout
	fmtList      bool // -l: list files whose formatting differs
	fmtDiff      bool // -d: display diffs instead of rewriting files
	fmtStyle     string
	fmtIndent    int
	fmtUseTabs   bool
	fmtRecursive bool // -r: process directories recursively
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files or directories...]",
	Short: "Format MML source files",
	Long: `Format MML source files using the AST-driven pretty-printer.

The formatter parses MML source code into a module and renders it back to
source text with consistent indentation and spacing.

By default, fmt formats the files named on the command line and writes
the result to standard output. If no path is provided, it reads from
standard input.

Examples:
  mmlc fmt file.mml              # Format to stdout
  mmlc fmt -w file.mml           # Overwrite file with formatted version
  mmlc fmt -l *.mml              # List files that need formatting
  mmlc fmt -d file.mml           # Show diff of changes
  mmlc fmt -r src/               # Format all .mml files in directory`,
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result to (source) file instead of stdout")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false, "list files whose formatting differs")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false, "display diffs instead of rewriting files")
	fmtCmd.Flags().BoolVarP(&fmtRecursive, "recursive", "r", false, "process directories recursively")
	fmtCmd.Flags().StringVar(&fmtStyle, "style", "detailed", "formatting style: detailed, compact, or multiline")
	fmtCmd.Flags().IntVar(&fmtIndent, "indent", 2, "number of spaces per indentation level")
	fmtCmd.Flags().BoolVar(&fmtUseTabs, "tabs", false, "use tabs instead of spaces for indentation")
}

func runFmt(cmd *cobra.Command, args []string) error {
	if fmtWrite && fmtList {
		return fmt.Errorf("cannot use -w and -l together")
	}
	if fmtWrite && fmtDiff {
		return fmt.Errorf("cannot use -w and -d together")
	}

	var style printer.Style
	switch strings.ToLower(fmtStyle) {
	case "detailed":
		style = printer.StyleDetailed
	case "compact":
		style = printer.StyleCompact
	case "multiline":
		style = printer.StyleMultiline
	default:
		return fmt.Errorf("unknown style: %s (use detailed, compact, or multiline)", fmtStyle)
	}

	opts := printer.Options{
		Style:       style,
		IndentWidth: fmtIndent,
		UseSpaces:   !fmtUseTabs,
	}

	if len(args) == 0 {
		return formatStdin(opts)
	}

	hasErrors := false
	for _, path := range args {
		if err := processPath(path, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
			hasErrors = true
		}
	}

	if hasErrors {
		return fmt.Errorf("formatting failed for one or more files")
	}
	return nil
}

func processPath(path string, opts printer.Options) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		if fmtRecursive {
			return processDirectory(path, opts)
		}
		return fmt.Errorf("%s is a directory (use -r to process recursively)", path)
	}

	return formatFile(path, opts)
}

func processDirectory(dir string, opts printer.Options) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".mml") {
			return nil
		}
		if err := formatFile(path, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", path, err)
		}
		return nil
	})
}

func formatStdin(opts printer.Options) error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("error reading stdin: %w", err)
	}
	formatted, err := formatSource("stdin", string(src), opts)
	if err != nil {
		return err
	}
	fmt.Print(formatted)
	return nil
}

func formatFile(filename string, opts printer.Options) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	original := string(src)

	formatted, err := formatSource(moduleNameFromPath(filename), original, opts)
	if err != nil {
		return err
	}

	changed := original != formatted

	switch {
	case fmtList:
		if changed {
			fmt.Println(filename)
		}
	case fmtDiff:
		if changed {
			fmt.Printf("--- %s (original)\n", filename)
			fmt.Printf("+++ %s (formatted)\n", filename)
			showDiff(original, formatted)
		}
	case fmtWrite:
		if changed {
			if err := os.WriteFile(filename, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("error writing file: %w", err)
			}
		}
	default:
		fmt.Print(formatted)
	}

	return nil
}

func formatSource(moduleName, source string, opts printer.Options) (string, error) {
	mod, err := parser.Parse(moduleName, source)
	if err != nil {
		return "", fmt.Errorf("parse error: %w", err)
	}
	return printer.New(opts).Print(mod), nil
}

func showDiff(original, formatted string) {
	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	maxLines := len(origLines)
	if len(fmtLines) > maxLines {
		maxLines = len(fmtLines)
	}

	for i := 0; i < maxLines; i++ {
		var origLine, fmtLine string
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}
		if origLine != fmtLine {
			if origLine != "" {
				fmt.Printf("- %s\n", origLine)
			}
			if fmtLine != "" {
				fmt.Printf("+ %s\n", fmtLine)
			}
		}
	}
}
