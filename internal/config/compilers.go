package config

import (
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// CompilerTable resolves the compiler profile for a contract path.
// Overrides take priority; everything else gets the default pool.
// It is immutable after construction and safe for concurrent use.
type CompilerTable struct {
	defaults  []config.CompilerProfile
	overrides map[string]config.CompilerProfile
}

// NewCompilerTable validates the declared profiles and builds the lookup table
func NewCompilerTable(defaults []config.CompilerProfile, overrides []config.CompilerOverride) (*CompilerTable, error) {
	if len(defaults) == 0 {
		return nil, domain.NewLoadError("solidity.compilers", domain.ErrNoDefaultCompilers, "")
	}

	for i, p := range defaults {
		if err := validateProfile(p); err != nil {
			return nil, domain.NewLoadError(fmt.Sprintf("solidity.compilers[%d]", i), err, "")
		}
	}

	// Validate in sorted order so the reported key doesn't depend on declaration order
	sorted := slices.Clone(overrides)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	table := make(map[string]config.CompilerProfile, len(sorted))
	declared := make(map[string]string, len(sorted))
	for _, o := range sorted {
		key := NormalizeContractPath(o.Path)
		if key == "" {
			return nil, domain.NewLoadError("solidity.overrides", domain.ErrInvalidOverridePath, "empty path")
		}
		if prev, exists := declared[key]; exists {
			return nil, domain.NewLoadError(
				fmt.Sprintf("solidity.overrides.%q", key),
				domain.ErrDuplicateOverrideKey,
				"%q and %q both normalize to %q", prev, o.Path, key,
			)
		}
		if err := validateProfile(o.Profile); err != nil {
			return nil, domain.NewLoadError(fmt.Sprintf("solidity.overrides.%q", key), err, "")
		}
		declared[key] = o.Path
		table[key] = o.Profile
	}

	return &CompilerTable{
		defaults:  slices.Clone(defaults),
		overrides: table,
	}, nil
}

func validateProfile(p config.CompilerProfile) error {
	if !IsKnownSolcVersion(p.Version) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCompilerVersion, p.Version)
	}
	if !IsKnownEVMVersion(p.EVMVersion) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidEVMVersion, p.EVMVersion)
	}
	if p.Optimizer.Enabled && p.Optimizer.Runs <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidOptimizerRuns, p.Optimizer.Runs)
	}
	return nil
}

// NormalizeContractPath turns a path into the canonical override key:
// slash separated, cleaned, repository relative. Matching stays case-sensitive.
func NormalizeContractPath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "./")
	if p == "." {
		return ""
	}
	return p
}

// Resolve returns the selection for a contract path
func (t *CompilerTable) Resolve(contractPath string) config.CompilerSelection {
	if profile, ok := t.overrides[NormalizeContractPath(contractPath)]; ok {
		return config.CompilerSelection{
			Profiles:   []config.CompilerProfile{profile},
			Overridden: true,
		}
	}
	return config.CompilerSelection{Profiles: slices.Clone(t.defaults)}
}

// Defaults returns a copy of the default pool
func (t *CompilerTable) Defaults() []config.CompilerProfile {
	return slices.Clone(t.defaults)
}

// Overrides returns the override entries sorted by path
func (t *CompilerTable) Overrides() []config.CompilerOverride {
	keys := lo.Keys(t.overrides)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) config.CompilerOverride {
		return config.CompilerOverride{Path: k, Profile: t.overrides[k]}
	})
}

// Plan groups paths into one bucket per distinct selection. The default pool
// comes first, override buckets follow ordered by their first path.
func (t *CompilerTable) Plan(paths []string) []config.CompileBucket {
	var order []string
	buckets := make(map[string]*config.CompileBucket)

	for _, p := range lo.Uniq(lo.Map(paths, func(p string, _ int) string { return NormalizeContractPath(p) })) {
		if p == "" {
			continue
		}
		sel := t.Resolve(p)
		key := sel.Key()
		b, ok := buckets[key]
		if !ok {
			b = &config.CompileBucket{Selection: sel}
			buckets[key] = b
			order = append(order, key)
		}
		b.Paths = append(b.Paths, p)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i] == "default" || order[j] == "default" {
			return order[i] == "default" && order[j] != "default"
		}
		return buckets[order[i]].Paths[0] < buckets[order[j]].Paths[0]
	})

	result := make([]config.CompileBucket, 0, len(order))
	for _, key := range order {
		result = append(result, *buckets[key])
	}
	return result
}
