package formatter

import (
	"fmt"
	"strconv"
	"strings"

	tt "github.com/gnolang/acgrid/internal/types"
)

// FormatSummary renders the grid size, the total and the per-pattern counts of a result.
// A pattern whose contents repeat an earlier one is marked with the name it aliases.
func FormatSummary(result tt.Result) string {
	var builder strings.Builder

	builder.WriteString(fileStyle.Sprint(DisplayName(result.Filename)))
	builder.WriteString(noStyle.Sprintf(": %dx%d grid, %s\n", result.Rows, result.Cols, plural(result.Total(), "match", "matches")))

	nameWidth := 0
	for _, p := range result.Patterns {
		nameWidth = max(nameWidth, len(p.Name))
	}

	firstByID := make(map[int]string, len(result.Patterns))
	for _, p := range result.Patterns {
		line := fmt.Sprintf("  %-*s  %d", nameWidth, p.Name, p.Count)
		style := ruleStyle
		if p.Count == 0 {
			style = noStyle
		}
		builder.WriteString(style.Sprint(line))
		if first, ok := firstByID[p.ID]; ok {
			builder.WriteString(lineStyle.Sprintf("  (same as %s)", first))
		} else {
			firstByID[p.ID] = p.Name
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

// FormatCells renders the stage 1 id grid, one row per line, with ids right aligned.
// Cells where no row pattern ends print as -1.
func FormatCells(result tt.Result) string {
	width := 1
	for _, row := range result.Cells {
		for _, id := range row {
			width = max(width, len(strconv.Itoa(id)))
		}
	}

	var builder strings.Builder
	for _, row := range result.Cells {
		for j, id := range row {
			if j > 0 {
				builder.WriteByte(' ')
			}
			cell := fmt.Sprintf("%*d", width, id)
			if id < 0 {
				builder.WriteString(noStyle.Sprint(cell))
			} else {
				builder.WriteString(matchStyle.Sprint(cell))
			}
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}

// AutomatonInfo describes an automaton for `acgrid dump`.
type AutomatonInfo struct {
	Label    string
	Nodes    int
	Patterns int
	Trie     string
}

// FormatAutomaton renders the size and the trie of an automaton.
func FormatAutomaton(info AutomatonInfo) string {
	var builder strings.Builder
	builder.WriteString(ruleStyle.Sprintf("%s\n", info.Label))
	builder.WriteString(lineStyle.Sprint("  nodes:    "))
	builder.WriteString(fmt.Sprintf("%d\n", info.Nodes))
	builder.WriteString(lineStyle.Sprint("  patterns: "))
	builder.WriteString(fmt.Sprintf("%d\n", info.Patterns))
	builder.WriteString(lineStyle.Sprint("  trie:     "))
	builder.WriteString(fmt.Sprintf("%s\n", info.Trie))
	return builder.String()
}

// FormatError renders a per-file failure in the same layout as a match header.
func FormatError(filename string, err error) string {
	return errorStyle.Sprint("error: ") + fileStyle.Sprint(DisplayName(filename)) + "\n" +
		lineStyle.Sprint(" = ") + messageStyle.Sprintf("%v\n", err)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
