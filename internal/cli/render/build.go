package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// BuildRenderer renders build, test and deploy outcomes
type BuildRenderer struct {
	out   io.Writer
	sizes *SizeRenderer
}

// NewBuildRenderer creates a new build renderer
func NewBuildRenderer(out io.Writer) *BuildRenderer {
	return &BuildRenderer{out: out, sizes: NewSizeRenderer(out)}
}

// Render implements Renderer
func (r *BuildRenderer) Render(result *usecase.BuildResult) error {
	files := 0
	for _, b := range result.Buckets {
		files += len(b.Paths)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Compiled %d file(s) in %d bucket(s)", files, len(result.Buckets))))

	if result.Network != nil {
		fmt.Fprintf(r.out, "   network %s (chain %d)\n", nameStyle.Sprint(result.Network.Name), result.Network.ChainID)
	}
	if result.SizeReport != nil {
		fmt.Fprintln(r.out)
		if err := r.sizes.Render(result.SizeReport); err != nil {
			return err
		}
	}
	if result.Bindings {
		fmt.Fprintln(r.out, FormatSuccess("Generated typed bindings"))
	}
	return nil
}

// RenderTests prints a test report
func (r *BuildRenderer) RenderTests(report *usecase.TestReport) error {
	if report.Output != "" {
		fmt.Fprintln(r.out, report.Output)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s passed in %s", Title("tests"), report.Duration.Round(1e6))))
	return nil
}

// RenderDeploy prints a deployment result
func (r *BuildRenderer) RenderDeploy(result *usecase.DeployResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed to %s (chain %d)", result.Network.Name, result.Network.ChainID)))
	fmt.Fprintf(r.out, "   %s %s %s\n", faintStyle.Sprint("deployer"), valueStyle.Sprint(result.Signer.Address.Hex()), tagsStyle.Sprintf("[%s]", result.Signer.Ref))
	if !result.Record.Persisted {
		fmt.Fprintln(r.out, faintStyle.Sprint("   deployment records not saved for this network"))
	}
	return nil
}
