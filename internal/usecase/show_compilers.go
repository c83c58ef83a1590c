package usecase

import (
	"context"

	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// ShowCompilersParams contains parameters for showing compilers
type ShowCompilersParams struct {
	// Paths are resolved individually when given
	Paths []string
}

// PathSelection is the compiler selection for one path
type PathSelection struct {
	Path      string
	Selection config.CompilerSelection
}

// ShowCompilersResult contains the compiler table and any resolved paths
type ShowCompilersResult struct {
	Defaults   []config.CompilerProfile
	Overrides  []config.CompilerOverride
	Selections []PathSelection
}

// ShowCompilers is a use case for inspecting the compiler table
type ShowCompilers struct {
	compilers CompilerResolver
}

// NewShowCompilers creates a new ShowCompilers use case
func NewShowCompilers(compilers CompilerResolver) *ShowCompilers {
	return &ShowCompilers{compilers: compilers}
}

// Run executes the use case
func (uc *ShowCompilers) Run(ctx context.Context, params ShowCompilersParams) (*ShowCompilersResult, error) {
	result := &ShowCompilersResult{
		Defaults:  uc.compilers.Defaults(),
		Overrides: uc.compilers.Overrides(),
	}
	for _, p := range params.Paths {
		result.Selections = append(result.Selections, PathSelection{
			Path:      p,
			Selection: uc.compilers.Resolve(p),
		})
	}
	return result, nil
}
