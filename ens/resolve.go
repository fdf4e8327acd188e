package ens

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	goens "github.com/wealdtech/go-ens/v3"
)

// ErrNameNotFound is returned when a name resolves to nothing.
var ErrNameNotFound = errors.New("name not found")

// Resolver turns a human-readable name into an account address. The
// ingestion pipeline only uses it to normalize a caller-supplied identity
// filter before building a query.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// ENSResolver resolves names against mainnet ENS through an RPC endpoint.
type ENSResolver struct {
	client *ethclient.Client
}

func Dial(rpcURL string) (*ENSResolver, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to rpc endpoint %s: %w", rpcURL, err)
	}
	return &ENSResolver{client: client}, nil
}

func (r *ENSResolver) Resolve(_ context.Context, name string) (string, error) {
	address, err := goens.Resolve(r.client, name)
	if err != nil {
		return "", fmt.Errorf("resolving name %q: %w", name, err)
	}
	if address == (common.Address{}) {
		return "", fmt.Errorf("%q: %w", name, ErrNameNotFound)
	}
	return address.Hex(), nil
}

// ToChecksumAddress validates a hex account address and returns its
// checksummed form.
func ToChecksumAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid account address: %s", address)
	}
	return common.HexToAddress(address).Hex(), nil
}
