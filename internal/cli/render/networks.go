package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{
		out: out,
	}
}

// RenderNetworksList renders the declared networks as a table
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult, tag string) error {
	if len(result.Networks) == 0 {
		if tag != "" {
			fmt.Fprintf(r.out, "No networks tagged %q\n", tag)
		} else {
			fmt.Fprintln(r.out, "No networks configured")
		}
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Networks:")
	fmt.Fprintln(r.out)

	t := newTable("NETWORK", "CHAIN ID", "URL", "TAGS", "SAVES", "SIGNERS")
	t.SetOutputMirror(r.out)
	for _, n := range result.Networks {
		p := n.Profile
		saves := faintStyle.Sprint("no")
		if p.SaveDeployments {
			saves = successStyle.Sprint("yes")
		}
		signers := successStyle.Sprintf("%d", len(p.Accounts))
		if n.CredentialError != nil {
			signers = warnStyle.Sprint("missing")
		}
		chain := valueStyle.Sprintf("%d", p.ChainID)
		if p.Alias {
			chain += faintStyle.Sprint(" (alias)")
		}
		t.AppendRow([]any{
			nameStyle.Sprint(p.Name),
			chain,
			faintStyle.Sprint(p.URL),
			tagsStyle.Sprint(strings.Join(p.Tags, ", ")),
			saves,
			signers,
		})
	}
	t.Render()
	return nil
}
