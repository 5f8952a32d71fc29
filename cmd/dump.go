package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/acgrid/formatter"
	"github.com/gnolang/acgrid/internal/grid"
	"github.com/gnolang/acgrid/internal/input"
)

// dumpCmd: acgrid dump
var dumpCmd = &cobra.Command{
	Use:   "dump <path>",
	Short: "Print the row and column automata built for an input file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runDump(args[0], cmd.OutOrStdout()); err != nil {
			logger.Error("Error dumping automata", zap.String("file", args[0]), zap.Error(err))
			return err
		}
		return nil
	},
}

func runDump(path string, w io.Writer) error {
	problem, err := input.ReadFile(path)
	if err != nil {
		return err
	}

	composer, columns, err := grid.Compile(problem.Groups())
	if err != nil {
		return fmt.Errorf("error compiling row patterns: %w", err)
	}
	rows := composer.RowAutomaton()

	cols, _, err := composer.ColumnAutomaton(columns)
	if err != nil {
		return fmt.Errorf("error compiling column patterns: %w", err)
	}

	fmt.Fprint(w, formatter.FormatAutomaton(formatter.AutomatonInfo{
		Label:    "row automaton",
		Nodes:    rows.Len(),
		Patterns: rows.PatternCount(),
		Trie:     rows.String(),
	}))
	fmt.Fprint(w, formatter.FormatAutomaton(formatter.AutomatonInfo{
		Label:    "column automaton",
		Nodes:    cols.Len(),
		Patterns: cols.PatternCount(),
		Trie:     cols.String(),
	}))
	return nil
}
