// Package di contains dependency injection tokens for the chains context.
package di

import (
	"github.com/fd1az/multichain-arb/business/chains/app"
	"github.com/fd1az/multichain-arb/business/chains/infra/rpc"
	"github.com/fd1az/multichain-arb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Registry = di.NewToken[*app.Registry]("chains.Registry")
	RPCPool  = di.NewToken[*rpc.Pool]("chains.RPCPool")
)

func GetRegistry(c di.ServiceRegistry) *app.Registry {
	return di.GetToken(c, Registry)
}

func GetRPCPool(c di.ServiceRegistry) *rpc.Pool {
	return di.GetToken(c, RPCPool)
}
