// Package asset models on-chain tokens and exact token amounts.
// Raw amounts are big.Int in the token's smallest unit; decimal.Decimal is
// used only when an amount leaves the chain boundary.
package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ID identifies a token by EVM chain id and contract address.
// The symbol is display metadata, never identity.
type ID struct {
	chainID uint64
	address common.Address
}

// NewID creates a token ID.
func NewID(chainID uint64, addr common.Address) ID {
	return ID{chainID: chainID, address: addr}
}

// ChainID returns the EVM chain id.
func (id ID) ChainID() uint64 {
	return id.chainID
}

// Address returns the token contract address.
func (id ID) Address() common.Address {
	return id.address
}

func (id ID) String() string {
	return fmt.Sprintf("chain:%d/%s", id.chainID, id.address.Hex())
}
