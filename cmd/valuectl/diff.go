package main

import (
	"errors"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/joshuapare/valuekit/printer"
)

// errDiffer is returned when the documents differ, so the exit status is
// non-zero as with diff(1).
var errDiffer = errors.New("documents differ")

var diffFormat string

func init() {
	rootCmd.AddCommand(newDiffCmd())
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare the trees built from two documents",
		Long: `The diff command builds both documents and compares their dumps line by line.
Dict order matters: a key moved to another position shows as a change.

Example:
  valuectl diff before.json after.json
  valuectl diff before.yaml after.json --format yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := printer.ParseFormat(diffFormat)
			if err != nil {
				return err
			}
			return runDiff(args[0], args[1], f)
		},
	}
	cmd.Flags().StringVarP(&diffFormat, "format", "f", "text", "Rendering compared line by line (text, json, yaml)")
	return cmd
}

func renderFile(path string, f printer.Format) (string, error) {
	c, err := loadFile(path)
	if err != nil {
		return "", err
	}
	defer c.Close()

	opts := printer.DefaultOptions()
	opts.Format = f
	var sb strings.Builder
	if err := c.Dump(&sb, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func runDiff(pathA, pathB string, f printer.Format) error {
	a, err := renderFile(pathA, f)
	if err != nil {
		return err
	}
	b, err := renderFile(pathB, f)
	if err != nil {
		return err
	}
	if a == b {
		printInfo("No differences\n")
		return nil
	}

	dmp := diffmatchpatch.New()
	charsA, charsB, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lines)

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	if useColor() {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}

	printInfo("--- %s\n+++ %s\n", pathA, pathB)
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				printInfo("%s\n", del.Sprint("- "+line))
			case diffmatchpatch.DiffInsert:
				printInfo("%s\n", ins.Sprint("+ "+line))
			case diffmatchpatch.DiffEqual:
				printInfo("  %s\n", line)
			}
		}
	}
	return errDiffer
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
