// Package sizegate checks compiled contract sizes against the deployment ceilings.
package sizegate

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// Measurement is the size of one compiled contract
type Measurement struct {
	Name        string
	Path        string
	RuntimeSize int
	InitSize    int
}

// Row is one line of the size report
type Row struct {
	Name        string
	RuntimeSize int
	InitSize    int
	// Sources counts measurements merged into this row
	Sources     int
	OverRuntime bool
	OverInit    bool
}

// Report is the outcome of applying the gate
type Report struct {
	Rows       []Row
	Violations []domain.ContractTooLargeErr
	Strict     bool
}

// Failed reports whether the report should fail the build
func (r *Report) Failed() bool {
	return r.Strict && len(r.Violations) > 0
}

// Gate applies a SizeGatePolicy to measurements
type Gate struct {
	policy config.SizeGatePolicy
	log    *slog.Logger
}

// NewGate creates a gate for policy
func NewGate(policy config.SizeGatePolicy, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	return &Gate{policy: policy, log: log.With("component", "sizegate")}
}

// Policy returns the gate's policy
func (g *Gate) Policy() config.SizeGatePolicy {
	return g.policy
}

// Apply builds the report. In strict mode any oversize contract makes it
// return an error wrapping ContractTooLargeErr; otherwise each violation is
// logged as a warning and the error is nil.
func (g *Gate) Apply(measurements []Measurement) (*Report, error) {
	report := &Report{Strict: g.policy.Strict}

	// Violations come from the raw input so merged display rows never hide one
	for _, m := range measurements {
		if m.RuntimeSize > config.MaxRuntimeSize {
			report.Violations = append(report.Violations, domain.ContractTooLargeErr{
				Contract: m.Name, Path: m.Path, Size: m.RuntimeSize, Limit: config.MaxRuntimeSize,
			})
		}
		if m.InitSize > config.MaxInitcodeSize {
			report.Violations = append(report.Violations, domain.ContractTooLargeErr{
				Contract: m.Name, Path: m.Path, Size: m.InitSize, Limit: config.MaxInitcodeSize, Initcode: true,
			})
		}
	}

	report.Rows = g.rows(measurements)

	if len(report.Violations) == 0 {
		return report, nil
	}

	if !g.policy.Strict {
		for _, v := range report.Violations {
			g.log.Warn("contract exceeds size limit", "contract", v.Contract, "path", v.Path, "size", v.Size, "limit", v.Limit)
		}
		return report, nil
	}

	errs := make([]error, 0, len(report.Violations))
	for _, v := range report.Violations {
		errs = append(errs, v)
	}
	return report, errors.Join(errs...)
}

func (g *Gate) rows(measurements []Measurement) []Row {
	var rows []Row
	index := make(map[string]int)

	for _, m := range measurements {
		name := m.Name
		if g.policy.DisambiguatePaths && m.Path != "" {
			name = m.Path + ":" + m.Name
		}

		if i, ok := index[name]; ok {
			r := &rows[i]
			r.RuntimeSize = max(r.RuntimeSize, m.RuntimeSize)
			r.InitSize = max(r.InitSize, m.InitSize)
			r.Sources++
			r.OverRuntime = r.RuntimeSize > config.MaxRuntimeSize
			r.OverInit = r.InitSize > config.MaxInitcodeSize
			continue
		}

		index[name] = len(rows)
		rows = append(rows, Row{
			Name:        name,
			RuntimeSize: m.RuntimeSize,
			InitSize:    m.InitSize,
			Sources:     1,
			OverRuntime: m.RuntimeSize > config.MaxRuntimeSize,
			OverInit:    m.InitSize > config.MaxInitcodeSize,
		})
	}

	if g.policy.AlphaSort {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	} else {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].RuntimeSize > rows[j].RuntimeSize })
	}
	return rows
}
