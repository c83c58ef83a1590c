package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// NetworkRegistry is the read-only set of named network profiles.
// Lookups are pure and safe for concurrent use.
type NetworkRegistry struct {
	profiles []config.NetworkProfile
	byName   map[string]int
}

// NewNetworkRegistry validates the declared networks, keeping declaration order
func NewNetworkRegistry(entries []config.NetworkEntry, log *slog.Logger) (*NetworkRegistry, error) {
	if log == nil {
		log = slog.Default()
	}
	r := &NetworkRegistry{
		profiles: make([]config.NetworkProfile, 0, len(entries)),
		byName:   make(map[string]int, len(entries)),
	}

	chainOwners := make(map[uint64]string)
	for _, entry := range entries {
		key := "networks." + entry.Name
		profile := entry.Profile.Clone()
		profile.Name = entry.Name

		if entry.Name == "" {
			return nil, domain.NewLoadError("networks", domain.ErrInvalidNetworkProfile, "network without a name")
		}
		if _, exists := r.byName[entry.Name]; exists {
			return nil, domain.NewLoadError(key, domain.ErrDuplicateNetwork, "")
		}
		if err := validateNetworkURL(profile.URL); err != nil {
			return nil, domain.NewLoadError(key+".url", domain.ErrInvalidNetworkProfile, "%v", err)
		}
		if profile.ChainID == 0 {
			return nil, domain.NewLoadError(key+".chain_id", domain.ErrInvalidNetworkProfile, "chain id must be positive")
		}

		if owner, taken := chainOwners[profile.ChainID]; taken && !profile.Alias {
			log.Warn("networks share a chain id; set alias = true if this is intended",
				"network", entry.Name, "other", owner, "chainId", profile.ChainID)
		} else if !taken {
			chainOwners[profile.ChainID] = entry.Name
		}

		r.byName[entry.Name] = len(r.profiles)
		r.profiles = append(r.profiles, profile)
	}

	return r, nil
}

func validateNetworkURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host")
	}
	return nil
}

// Get returns a copy of the named profile
func (r *NetworkRegistry) Get(name string) (config.NetworkProfile, error) {
	idx, ok := r.byName[name]
	if !ok {
		return config.NetworkProfile{}, domain.UnknownNetworkErr{
			Name:        name,
			Suggestions: r.suggest(name),
		}
	}
	return r.profiles[idx].Clone(), nil
}

// FilterByTag returns the profiles carrying tag, in declaration order
func (r *NetworkRegistry) FilterByTag(tag string) []config.NetworkProfile {
	return lo.FilterMap(r.profiles, func(p config.NetworkProfile, _ int) (config.NetworkProfile, bool) {
		return p.Clone(), p.HasTag(tag)
	})
}

// All returns every profile in declaration order
func (r *NetworkRegistry) All() []config.NetworkProfile {
	return lo.Map(r.profiles, func(p config.NetworkProfile, _ int) config.NetworkProfile {
		return p.Clone()
	})
}

// Names returns the declared network names in order
func (r *NetworkRegistry) Names() []string {
	return lo.Map(r.profiles, func(p config.NetworkProfile, _ int) string { return p.Name })
}

// Credentials returns the signing material of a network. It is only called by
// tasks that sign, so placeholder credentials are tolerated until then.
func (r *NetworkRegistry) Credentials(name string) ([]string, error) {
	profile, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if len(profile.Accounts) == 0 {
		return nil, domain.MissingCredentialErr{Network: name, Index: -1}
	}
	for i, cred := range profile.Accounts {
		if isPlaceholderCredential(cred) {
			return nil, domain.MissingCredentialErr{Network: name, Index: i}
		}
	}
	return profile.Accounts, nil
}

func isPlaceholderCredential(cred string) bool {
	cred = strings.TrimSpace(cred)
	if cred == "" {
		return true
	}
	// Unexpanded environment reference, e.g. "${DEPLOYER_KEY}"
	return strings.HasPrefix(cred, "$")
}

func (r *NetworkRegistry) suggest(name string) []string {
	names := r.Names()
	var out []string
	for _, n := range names {
		if strings.EqualFold(n, name) {
			out = append(out, n)
		}
	}
	for _, m := range fuzzy.Find(name, names) {
		out = append(out, m.Str)
	}
	return lo.Uniq(out)
}
