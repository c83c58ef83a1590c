package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// AccountsRenderer renders named-account resolution
type AccountsRenderer struct {
	out io.Writer
}

// NewAccountsRenderer creates a new accounts renderer
func NewAccountsRenderer(out io.Writer) *AccountsRenderer {
	return &AccountsRenderer{out: out}
}

// Render implements Renderer
func (r *AccountsRenderer) Render(result *usecase.ResolveAccountResult) error {
	fmt.Fprintf(r.out, "Named accounts on %s\n\n", nameStyle.Sprint(result.Network))

	t := newTable("ROLE", "BINDING", "ADDRESS")
	t.SetOutputMirror(r.out)
	for _, a := range result.Accounts {
		if a.Error != nil {
			t.AppendRow([]any{nameStyle.Sprint(a.Role), "", errorStyle.Sprint(a.Error.Error())})
			continue
		}
		address := faintStyle.Sprint("-")
		if a.Signer != nil {
			address = valueStyle.Sprint(a.Signer.Address.Hex())
		} else if a.Ref.IsAddress {
			address = valueStyle.Sprint(a.Ref.Address.Hex())
		}
		t.AppendRow([]any{nameStyle.Sprint(a.Role), tagsStyle.Sprint(a.Ref.String()), address})
	}
	t.Render()
	return nil
}
