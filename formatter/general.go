package formatter

type GeneralMatchFormatter struct{}

func (f *GeneralMatchFormatter) MatchTemplate() string {
	return `{{header .Name .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .GridLines .StartLine .EndLine .MaxLineNumWidth .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .Width .GridLines}}
`
}

// InlineMatchFormatter renders single row matches without the trailing summary line.
type InlineMatchFormatter struct{}

func (f *InlineMatchFormatter) MatchTemplate() string {
	return `{{header .Name .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .GridLines .StartLine .EndLine .MaxLineNumWidth .Padding -}}
{{underlineAndMessage "" .Padding .StartLine .EndLine .StartColumn .Width .GridLines}}
`
}
