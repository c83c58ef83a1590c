package usecase

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
	"github.com/trebuchet-org/solwatch/internal/sizegate"
)

// CompilerResolver selects compiler profiles for contract paths
type CompilerResolver interface {
	Resolve(path string) config.CompilerSelection
	Plan(paths []string) []config.CompileBucket
	Defaults() []config.CompilerProfile
	Overrides() []config.CompilerOverride
}

// NetworkRegistry looks up declared network profiles
type NetworkRegistry interface {
	Get(name string) (config.NetworkProfile, error)
	FilterByTag(tag string) []config.NetworkProfile
	All() []config.NetworkProfile
	Credentials(name string) ([]string, error)
}

// AccountResolver maps roles to signers
type AccountResolver interface {
	Resolve(role, network string) (config.AccountRef, error)
	Signer(role, network string, credentials []string) (*config.Signer, error)
}

// ArtifactSet points at the compiled output shared by downstream tasks
type ArtifactSet struct {
	Dir     string
	Buckets []config.CompileBucket
}

// Compiler is the external compile task. It is called once per bucket.
type Compiler interface {
	Compile(ctx context.Context, bucket config.CompileBucket) error
}

// TestReport is what the test task returns on success
type TestReport struct {
	Output   string
	Duration time.Duration
}

// TestRunner is the external test task
type TestRunner interface {
	Test(ctx context.Context, artifacts ArtifactSet) (*TestReport, error)
}

// BindingGenerator is the external typed-binding generator
type BindingGenerator interface {
	GenerateBindings(ctx context.Context, artifacts ArtifactSet, target, outDir string) error
}

// DeployRequest carries everything the deploy task needs
type DeployRequest struct {
	Network   config.NetworkProfile
	Signer    *config.Signer
	Artifacts ArtifactSet
	// Persist is true when the network keeps deployment records
	Persist bool
}

// DeploymentRecord is what the deploy task reports back
type DeploymentRecord struct {
	Network   string
	ChainID   uint64
	Deployer  common.Address
	Persisted bool
	Output    string
}

// Deployer is the external deploy task
type Deployer interface {
	Deploy(ctx context.Context, req DeployRequest) (*DeploymentRecord, error)
}

// SizeMeasurer reads contract sizes from compiled artifacts
type SizeMeasurer interface {
	Measure(ctx context.Context, artifacts ArtifactSet) ([]sizegate.Measurement, error)
}

// SourceLister enumerates the project's Solidity sources as repository-relative paths
type SourceLister interface {
	ListSources(ctx context.Context) ([]string, error)
}

// NetworkSelector asks the operator to pick a network
type NetworkSelector interface {
	SelectNetwork(ctx context.Context, networks []config.NetworkProfile) (string, error)
}

type streamKey struct{}

// WithStreamedOutput marks ctx so task commands mirror their output live
func WithStreamedOutput(ctx context.Context) context.Context {
	return context.WithValue(ctx, streamKey{}, true)
}

// StreamedOutput reports whether ctx asks for live task output
func StreamedOutput(ctx context.Context) bool {
	on, _ := ctx.Value(streamKey{}).(bool)
	return on
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
