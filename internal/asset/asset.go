package asset

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// maxDecimals rejects obviously wrong token metadata.
const maxDecimals = 36

var (
	ErrZeroAddress      = errors.New("asset: zero token address")
	ErrEmptySymbol      = errors.New("asset: empty symbol")
	ErrInvalidDecimals  = errors.New("asset: suspicious decimals")
	ErrDecimalsMismatch = errors.New("asset: token registered with different decimals")
)

// Asset is an ERC-20 token on one chain.
type Asset struct {
	id       ID
	symbol   string
	decimals uint8
}

// NewToken creates a token asset.
func NewToken(chainID uint64, addr common.Address, symbol string, decimals uint8) (*Asset, error) {
	switch {
	case addr == (common.Address{}):
		return nil, ErrZeroAddress
	case symbol == "":
		return nil, ErrEmptySymbol
	case decimals > maxDecimals:
		return nil, fmt.Errorf("%w: %d", ErrInvalidDecimals, decimals)
	}

	return &Asset{
		id:       NewID(chainID, addr),
		symbol:   symbol,
		decimals: decimals,
	}, nil
}

// ID returns the token identity.
func (a *Asset) ID() ID {
	return a.id
}

// Symbol returns the ticker symbol.
func (a *Asset) Symbol() string {
	return a.symbol
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

// Address returns the token contract address.
func (a *Asset) Address() common.Address {
	return a.id.Address()
}

// UnitRaw returns 10^decimals, one whole token in raw units.
func (a *Asset) UnitRaw() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(a.decimals)), nil)
}

func (a *Asset) String() string {
	return a.symbol
}
