package usecase

import (
	"context"

	"github.com/trebuchet-org/solwatch/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Tag restricts the listing to networks carrying it
	Tag string
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Profile config.NetworkProfile
	// CredentialError is set when the network could not sign a deployment
	CredentialError error
}

// ListNetworks is a use case for listing declared networks
type ListNetworks struct {
	networks NetworkRegistry
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(networks NetworkRegistry) *ListNetworks {
	return &ListNetworks{
		networks: networks,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	profiles := uc.networks.All()
	if params.Tag != "" {
		profiles = uc.networks.FilterByTag(params.Tag)
	}

	networks := make([]NetworkStatus, 0, len(profiles))
	for _, p := range profiles {
		status := NetworkStatus{Profile: p}
		if _, err := uc.networks.Credentials(p.Name); err != nil {
			status.CredentialError = err
		}
		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}
