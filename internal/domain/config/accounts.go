package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// AccountRef points a role at a signer: either an index into the network's
// credential list or a literal address
type AccountRef struct {
	Index     int
	Address   common.Address
	IsAddress bool
}

// IndexRef builds a reference to the i-th credential
func IndexRef(i int) AccountRef {
	return AccountRef{Index: i}
}

// AddressRef builds a reference to a fixed address
func AddressRef(addr common.Address) AccountRef {
	return AccountRef{Address: addr, IsAddress: true}
}

func (r AccountRef) String() string {
	if r.IsAddress {
		return r.Address.Hex()
	}
	return fmt.Sprintf("#%d", r.Index)
}

// AccountBinding is one [named_accounts.<role>] table
type AccountBinding struct {
	Default  *AccountRef
	Networks map[string]AccountRef
}

// Signer is a role resolved against a concrete network
type Signer struct {
	Role    string
	Network string
	Ref     AccountRef
	Address common.Address

	// Credential is the key material backing Ref, empty for address refs
	Credential string
}
