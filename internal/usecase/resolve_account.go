package usecase

import (
	"context"

	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// ResolveAccountParams contains parameters for resolving named accounts
type ResolveAccountParams struct {
	Network string
	// Roles defaults to every declared role
	Roles []string
	// WithSigners also derives signer addresses; this needs credentials
	WithSigners bool
}

// ResolvedAccount is one role resolved on a network
type ResolvedAccount struct {
	Role   string
	Ref    config.AccountRef
	Signer *config.Signer
	Error  error
}

// ResolveAccountResult contains the resolved roles
type ResolveAccountResult struct {
	Network  string
	Accounts []ResolvedAccount
}

// RoleLister lists the declared account roles
type RoleLister interface {
	Roles() []string
}

// ResolveAccount is a use case for inspecting named accounts on a network
type ResolveAccount struct {
	cfg      *config.RuntimeConfig
	networks NetworkRegistry
	accounts AccountResolver
	roles    RoleLister
}

// NewResolveAccount creates a new ResolveAccount use case
func NewResolveAccount(cfg *config.RuntimeConfig, networks NetworkRegistry, accounts AccountResolver, roles RoleLister) *ResolveAccount {
	return &ResolveAccount{
		cfg:      cfg,
		networks: networks,
		accounts: accounts,
		roles:    roles,
	}
}

// Run executes the use case. Per-role failures are reported on the role, not returned.
func (uc *ResolveAccount) Run(ctx context.Context, params ResolveAccountParams) (*ResolveAccountResult, error) {
	network := params.Network
	if network == "" {
		network = uc.cfg.Network
	}
	if _, err := uc.networks.Get(network); err != nil {
		return nil, err
	}

	roles := params.Roles
	if len(roles) == 0 {
		roles = uc.roles.Roles()
	}

	var credentials []string
	var credErr error
	if params.WithSigners {
		credentials, credErr = uc.networks.Credentials(network)
	}

	result := &ResolveAccountResult{Network: network}
	for _, role := range roles {
		acct := ResolvedAccount{Role: role}
		acct.Ref, acct.Error = uc.accounts.Resolve(role, network)
		if acct.Error == nil && params.WithSigners {
			if credErr != nil && !acct.Ref.IsAddress {
				acct.Error = credErr
			} else {
				acct.Signer, acct.Error = uc.accounts.Signer(role, network, credentials)
			}
		}
		result.Accounts = append(result.Accounts, acct)
	}
	return result, nil
}
