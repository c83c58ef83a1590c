package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/sizegate"
)

// SizeRenderer renders contract size reports
type SizeRenderer struct {
	out io.Writer
}

// NewSizeRenderer creates a new size renderer
func NewSizeRenderer(out io.Writer) *SizeRenderer {
	return &SizeRenderer{out: out}
}

// Render implements Renderer
func (r *SizeRenderer) Render(report *sizegate.Report) error {
	if report == nil || len(report.Rows) == 0 {
		fmt.Fprintln(r.out, "No deployable contracts found")
		return nil
	}

	t := newTable("CONTRACT", "RUNTIME (KiB)", "INITCODE (KiB)")
	t.SetOutputMirror(r.out)
	alignRight(t, 2, 3)
	for _, row := range report.Rows {
		t.AppendRow([]any{
			nameStyle.Sprint(row.Name),
			sizeCell(row.RuntimeSize, config.MaxRuntimeSize, row.OverRuntime),
			sizeCell(row.InitSize, config.MaxInitcodeSize, row.OverInit),
		})
	}
	t.Render()

	if len(report.Violations) > 0 {
		fmt.Fprintln(r.out)
		for _, v := range report.Violations {
			if report.Strict {
				fmt.Fprintln(r.out, FormatError(v.Error()))
			} else {
				fmt.Fprintln(r.out, FormatWarning(v.Error()))
			}
		}
	}
	return nil
}

func sizeCell(size, limit int, over bool) string {
	kib := fmt.Sprintf("%.3f", float64(size)/1024)
	switch {
	case over:
		return errorStyle.Sprint(kib)
	case size > limit*9/10:
		return warnStyle.Sprint(kib)
	default:
		return valueStyle.Sprint(kib)
	}
}
