package domain

import (
	"math/big"

	"github.com/pkg/errors"
)

var (
	ErrorAmountOverflow = errors.New("amount does not fit into u64")
	ErrorNegativeAmount = errors.New("amount is negative")

	maxUint64 = new(big.Int).SetUint64(^uint64(0))
)

// ToLamports narrows an amount to the u64 the ledger instructions take.
func ToLamports(amount *big.Int) (uint64, error) {
	if amount == nil {
		return 0, nil
	}
	if amount.Sign() < 0 {
		return 0, errors.Wrapf(ErrorNegativeAmount, "%s", amount)
	}
	if amount.Cmp(maxUint64) > 0 {
		return 0, errors.Wrapf(ErrorAmountOverflow, "%s", amount)
	}
	return amount.Uint64(), nil
}

func IsPositive(amount *big.Int) bool {
	return amount != nil && amount.Sign() > 0
}
