package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// CompilersRenderer renders the compiler table
type CompilersRenderer struct {
	out io.Writer
}

// NewCompilersRenderer creates a new compilers renderer
func NewCompilersRenderer(out io.Writer) *CompilersRenderer {
	return &CompilersRenderer{out: out}
}

// Render implements Renderer
func (r *CompilersRenderer) Render(result *usecase.ShowCompilersResult) error {
	fmt.Fprintln(r.out, headerStyle.Sprint("Default compilers"))
	t := newTable("VERSION", "EVM", "OPTIMIZER")
	t.SetOutputMirror(r.out)
	for _, p := range result.Defaults {
		t.AppendRow(profileRow(p))
	}
	t.Render()

	if len(result.Overrides) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, headerStyle.Sprint("Overrides"))
		t := newTable("PATH", "VERSION", "EVM", "OPTIMIZER")
		t.SetOutputMirror(r.out)
		for _, o := range result.Overrides {
			t.AppendRow(append([]any{nameStyle.Sprint(o.Path)}, profileRow(o.Profile)...))
		}
		t.Render()
	}

	if len(result.Selections) > 0 {
		fmt.Fprintln(r.out)
		for _, s := range result.Selections {
			if s.Selection.Overridden {
				fmt.Fprintf(r.out, "%s → %s %s\n", nameStyle.Sprint(s.Path), s.Selection.Profiles[0], warnStyle.Sprint("(override)"))
			} else {
				fmt.Fprintf(r.out, "%s → %s\n", nameStyle.Sprint(s.Path), faintStyle.Sprint("default pool"))
			}
		}
	}
	return nil
}

func profileRow(p config.CompilerProfile) []any {
	evm := p.EVMVersion
	if evm == "" {
		evm = faintStyle.Sprint("default")
	}
	optimizer := faintStyle.Sprint("off")
	if p.Optimizer.Enabled {
		optimizer = successStyle.Sprintf("%d runs", p.Optimizer.Runs)
	}
	return []any{valueStyle.Sprint(p.Version), evm, optimizer}
}
