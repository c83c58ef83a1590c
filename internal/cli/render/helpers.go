package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	nameStyle    = color.New(color.FgWhite, color.Bold)
	valueStyle   = color.New(color.FgWhite)
	faintStyle   = color.New(color.Faint)
	tagsStyle    = color.New(color.FgCyan)
	warnStyle    = color.New(color.FgYellow)
	successStyle = color.New(color.FgGreen)
	errorStyle   = color.New(color.FgRed)

	titleCaser = cases.Title(language.English)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Capitalize first letter
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return errorStyle.Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// Title title-cases a task or stage name for headings
func Title(s string) string {
	return titleCaser.String(s)
}

// newTable returns a borderless table writer in the house style
func newTable(header ...string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight:     "   ",
		MiddleHorizontal: "─",
	}

	if len(header) > 0 {
		row := make(table.Row, len(header))
		for i, h := range header {
			row[i] = headerStyle.Sprint(h)
		}
		t.AppendHeader(row)
	}
	return t
}

// alignRight right-aligns the given 1-based columns
func alignRight(t table.Writer, columns ...int) {
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		configs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight, AlignHeader: text.AlignRight}
	}
	t.SetColumnConfigs(configs)
}
