package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/trebuchet-org/solwatch/internal/domain"
	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// AccountResolver maps logical roles to signers per network
type AccountResolver struct {
	bindings map[string]config.AccountBinding
}

// NewAccountResolver copies the bindings so later mutation of the input has no effect
func NewAccountResolver(bindings map[string]config.AccountBinding) *AccountResolver {
	copied := make(map[string]config.AccountBinding, len(bindings))
	for role, b := range bindings {
		nb := config.AccountBinding{Networks: make(map[string]config.AccountRef, len(b.Networks))}
		if b.Default != nil {
			def := *b.Default
			nb.Default = &def
		}
		for network, ref := range b.Networks {
			nb.Networks[network] = ref
		}
		copied[role] = nb
	}
	return &AccountResolver{bindings: copied}
}

// Resolve returns the network-specific binding for role, falling back to its default
func (r *AccountResolver) Resolve(role, network string) (config.AccountRef, error) {
	b, ok := r.bindings[role]
	if !ok {
		return config.AccountRef{}, domain.UnknownRoleErr{Role: role, Network: network}
	}
	if ref, ok := b.Networks[network]; ok {
		return ref, nil
	}
	if b.Default != nil {
		return *b.Default, nil
	}
	return config.AccountRef{}, domain.UnknownRoleErr{Role: role, Network: network}
}

// Roles returns the declared role names, sorted
func (r *AccountResolver) Roles() []string {
	roles := lo.Keys(r.bindings)
	sort.Strings(roles)
	return roles
}

// Signer resolves role on network and derives the concrete address from the
// network's credentials when the binding is an index
func (r *AccountResolver) Signer(role, network string, credentials []string) (*config.Signer, error) {
	ref, err := r.Resolve(role, network)
	if err != nil {
		return nil, err
	}

	signer := &config.Signer{Role: role, Network: network, Ref: ref}
	if ref.IsAddress {
		signer.Address = ref.Address
		return signer, nil
	}

	if ref.Index < 0 || ref.Index >= len(credentials) {
		return nil, fmt.Errorf("%w: role %s wants #%d, network %s has %d credentials",
			domain.ErrSignerIndexOutOfRange, role, ref.Index, network, len(credentials))
	}

	addr, err := credentialAddress(credentials[ref.Index])
	if err != nil {
		return nil, fmt.Errorf("network %s credential #%d: %w", network, ref.Index, err)
	}
	signer.Address = addr
	signer.Credential = credentials[ref.Index]
	return signer, nil
}

// credentialAddress derives the account address of a hex private key
func credentialAddress(credential string) (common.Address, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(credential), "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// ParseAccountRef decodes a named account value from the project file.
// Integers are signer indexes, 0x strings are addresses.
func ParseAccountRef(value any) (config.AccountRef, error) {
	switch v := value.(type) {
	case int:
		return indexRef(int64(v))
	case int64:
		return indexRef(v)
	case uint64:
		if v > math.MaxInt64 {
			return config.AccountRef{}, fmt.Errorf("signer index %d is out of range", v)
		}
		return indexRef(int64(v))
	case float64:
		if v >= math.MaxInt64 || v <= math.MinInt64 {
			return config.AccountRef{}, fmt.Errorf("signer index %v is out of range", v)
		}
		if v != float64(int64(v)) {
			return config.AccountRef{}, fmt.Errorf("signer index %v is not an integer", v)
		}
		return indexRef(int64(v))
	case string:
		if !common.IsHexAddress(v) {
			return config.AccountRef{}, fmt.Errorf("%q is not an address", v)
		}
		return config.AddressRef(common.HexToAddress(v)), nil
	default:
		return config.AccountRef{}, fmt.Errorf("unsupported value %v (%T)", value, value)
	}
}

func indexRef(i int64) (config.AccountRef, error) {
	if i < 0 {
		return config.AccountRef{}, fmt.Errorf("signer index %d is negative", i)
	}
	return config.IndexRef(int(i)), nil
}
