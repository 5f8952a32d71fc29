package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	tt "github.com/gnolang/acgrid/internal/types"
)

// DefaultMatchLimit caps the number of match snippets printed per file.
const DefaultMatchLimit = 20

const stdinName = "<stdin>"

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	matchStyle      = color.New(color.FgGreen, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
	noStyle         = color.New(color.FgWhite)
)

// matchFormatter is the interface that wraps the MatchTemplate method.
type matchFormatter interface {
	MatchTemplate() string
}

// getMatchFormatter returns the formatter for a match. Single row patterns get a compact
// layout; everything else uses the general one.
func getMatchFormatter(match tt.Match) matchFormatter {
	if match.Height == 1 {
		return &InlineMatchFormatter{}
	}
	return &GeneralMatchFormatter{}
}

// GenerateFormattedMatches renders up to limit matches of result as arrow snippets over
// the grid. A limit of zero or less prints every match.
func GenerateFormattedMatches(result tt.Result, limit int) string {
	var builder strings.Builder
	shown := result.Matches
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, match := range shown {
		builder.WriteString(buildMatch(result, match, getMatchFormatter(match)))
	}
	if hidden := len(result.Matches) - len(shown); hidden > 0 {
		builder.WriteString(note(fmt.Sprintf("%d more matches in %s not shown", hidden, DisplayName(result.Filename))))
	}
	return builder.String()
}

/***** Match Formatter Builder *****/

type MatchData struct {
	Name            string
	Filename        string
	Padding         string
	StartLine       int
	StartColumn     int
	EndLine         int
	Width           int
	MaxLineNumWidth int
	Message         string
	GridLines       []string
}

func buildMatch(result tt.Result, match tt.Match, formatter matchFormatter) string {
	startLine := match.Row + 1
	endLine := match.Row + match.Height
	maxLineNumWidth := calculateMaxLineNumWidth(endLine)

	data := MatchData{
		Name:            match.Name,
		Filename:        DisplayName(result.Filename),
		Padding:         strings.Repeat(" ", maxLineNumWidth+1),
		StartLine:       startLine,
		StartColumn:     match.Col + 1,
		EndLine:         endLine,
		Width:           match.Width,
		MaxLineNumWidth: maxLineNumWidth,
		Message:         fmt.Sprintf("%dx%d occurrence of %s", match.Height, match.Width, match.Name),
		GridLines:       result.Grid,
	}

	funcMap := template.FuncMap{
		"header":              header,
		"snippet":             gridSnippet,
		"underlineAndMessage": underlineAndMessage,
	}

	tmpl := template.Must(template.New("match").Funcs(funcMap).Parse(formatter.MatchTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting match: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(name string, maxLineNumWidth int, filename string, startLine int, startColumn int) string {
	endString := matchStyle.Sprint("match: ")
	endString += ruleStyle.Sprintf("%s\n", name)

	padding := strings.Repeat(" ", maxLineNumWidth)
	endString += lineStyle.Sprintf("%s--> ", padding)
	endString += fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)

	return endString
}

func gridSnippet(gridLines []string, startLine int, endLine int, maxLineNumWidth int, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)

	for i := startLine; i <= endLine; i++ {
		if i-1 < 0 || i-1 >= len(gridLines) {
			continue
		}
		lineNum := fmt.Sprintf("%*d", maxLineNumWidth, i)
		endString += lineStyle.Sprintf("%s | ", lineNum) + noStyle.Sprintf("%s\n", gridLines[i-1])
	}

	return endString
}

func underlineAndMessage(message string, padding string, startLine int, endLine int, startColumn int, width int, gridLines []string) string {
	endString := lineStyle.Sprintf("%s| ", padding)

	if !isValidLineRange(startLine, endLine, gridLines) {
		endString += messageStyle.Sprintf("%s\n", message)
		return endString
	}

	endString += strings.Repeat(" ", startColumn-1)
	endString += messageStyle.Sprintf("%s\n", strings.Repeat("~", width))
	if message == "" {
		return endString
	}

	endString += lineStyle.Sprintf("%s= ", padding)
	endString += messageStyle.Sprintf("%s\n", message)

	return endString
}

func note(note string) string {
	if note == "" {
		return ""
	}

	endString := suggestionStyle.Sprint("Note: ")
	endString += lineStyle.Sprintf("%s\n", note)
	return endString
}

func isValidLineRange(startLine int, endLine int, lines []string) bool {
	return startLine > 0 &&
		endLine > 0 &&
		startLine <= endLine &&
		startLine <= len(lines) &&
		endLine <= len(lines)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// DisplayName returns filename, or <stdin> for results read from standard input.
func DisplayName(filename string) string {
	if filename == "" {
		return stdinName
	}
	return filename
}
