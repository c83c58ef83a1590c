package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Load-time errors. Any of these aborts startup before a task runs.
var (
	ErrDuplicateOverrideKey   = errors.New("duplicate compiler override")
	ErrInvalidOverridePath    = errors.New("invalid override path")
	ErrUnknownCompilerVersion = errors.New("unknown compiler version")
	ErrInvalidEVMVersion      = errors.New("invalid evm version")
	ErrInvalidOptimizerRuns   = errors.New("invalid optimizer runs")
	ErrNoDefaultCompilers     = errors.New("no default compilers configured")
	ErrInvalidNetworkProfile  = errors.New("invalid network profile")
	ErrDuplicateNetwork       = errors.New("duplicate network name")
	ErrInvalidWatchScope      = errors.New("invalid watch scope")
	ErrUnknownTask            = errors.New("unknown task")
	ErrInvalidAccountRef      = errors.New("invalid named account")
)

// Resolution errors. They fail the lookup that caused them and nothing else.
var (
	ErrUnknownNetwork = errors.New("unknown network")
	ErrUnknownRole    = errors.New("unknown role")
)

// Errors raised lazily when a signing task first touches a network
var (
	ErrMissingCredential     = errors.New("missing credential")
	ErrSignerIndexOutOfRange = errors.New("signer index out of range")
	ErrInvalidCredential     = errors.New("invalid credential")
)

// Pipeline errors terminate the current run of a task sequence
var (
	ErrCompile          = errors.New("compile failed")
	ErrTestFailure      = errors.New("tests failed")
	ErrContractTooLarge = errors.New("contract too large")
	ErrDeploy           = errors.New("deploy failed")
	ErrGeneration       = errors.New("binding generation failed")
)

// LoadError names the configuration key a load-time failure came from
type LoadError struct {
	Key string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError wraps err with the offending key and a formatted detail
func NewLoadError(key string, err error, format string, args ...any) *LoadError {
	if format == "" {
		return &LoadError{Key: key, Err: err}
	}
	return &LoadError{Key: key, Err: fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))}
}

type UnknownNetworkErr struct {
	Name        string
	Suggestions []string
}

func (e UnknownNetworkErr) Error() string {
	msg := fmt.Sprintf("network '%s' is not configured", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e UnknownNetworkErr) Unwrap() error { return ErrUnknownNetwork }

type UnknownRoleErr struct {
	Role    string
	Network string
}

func (e UnknownRoleErr) Error() string {
	return fmt.Sprintf("role '%s' has no binding for network '%s' and no default", e.Role, e.Network)
}

func (e UnknownRoleErr) Unwrap() error { return ErrUnknownRole }

type MissingCredentialErr struct {
	Network string
	Index   int // -1 when the network declares no credentials at all
}

func (e MissingCredentialErr) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("network '%s' has no signing credentials configured", e.Network)
	}
	return fmt.Sprintf("network '%s' credential #%d is empty or unresolved", e.Network, e.Index)
}

func (e MissingCredentialErr) Unwrap() error { return ErrMissingCredential }

type ContractTooLargeErr struct {
	Contract string
	Path     string
	Size     int
	Limit    int
	Initcode bool
}

func (e ContractTooLargeErr) Error() string {
	kind := "bytecode"
	if e.Initcode {
		kind = "initcode"
	}
	return fmt.Sprintf("%s %s is %d bytes, limit is %d", e.Contract, kind, e.Size, e.Limit)
}

func (e ContractTooLargeErr) Unwrap() error { return ErrContractTooLarge }

// TaskError reports which task of a sequence failed
type TaskError struct {
	Task string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
