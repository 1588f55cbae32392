// Package app contains the chain registry and the ports used to reach chain nodes.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
)

// ContractCaller executes read-only eth_call requests on one chain.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// CallerProvider hands out the ContractCaller of a chain.
type CallerProvider interface {
	Caller(ctx context.Context, chainID string) (ContractCaller, error)
}
