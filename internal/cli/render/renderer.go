package render

import (
	"github.com/trebuchet-org/solwatch/internal/sizegate"
	"github.com/trebuchet-org/solwatch/internal/usecase"
)

// Renderer renders a use case result to the terminal
type Renderer[T any] interface {
	Render(result T) error
}

var (
	_ Renderer[*usecase.BuildResult]          = (*BuildRenderer)(nil)
	_ Renderer[*usecase.ShowCompilersResult]  = (*CompilersRenderer)(nil)
	_ Renderer[*usecase.ResolveAccountResult] = (*AccountsRenderer)(nil)
	_ Renderer[*sizegate.Report]              = (*SizeRenderer)(nil)
)
