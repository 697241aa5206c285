package domain

import (
	"math/big"

	"github.com/pkg/errors"
)

var (
	ErrorNoHolders = errors.New("distribution plan needs at least one holder")
)

// DistributionPlan is the equal split computed once per run. The remainder is
// left in the vault.
type DistributionPlan struct {
	VaultBalance   *big.Int
	RentExempt     *big.Int
	Distributable  *big.Int
	PerHolderShare *big.Int
	Remainder      *big.Int
	Holders        []Holder
}

// NewDistributionPlan floors (vault - rent) / len(holders). Distributable is
// zero when the vault does not exceed the rent floor.
func NewDistributionPlan(vaultBalance, rentExempt *big.Int, holders []Holder) (*DistributionPlan, error) {
	if len(holders) == 0 {
		return nil, ErrorNoHolders
	}

	plan := &DistributionPlan{
		VaultBalance:   new(big.Int).Set(vaultBalance),
		RentExempt:     new(big.Int).Set(rentExempt),
		Distributable:  new(big.Int),
		PerHolderShare: new(big.Int),
		Remainder:      new(big.Int),
		Holders:        holders,
	}

	if vaultBalance.Cmp(rentExempt) <= 0 {
		return plan, nil
	}

	plan.Distributable.Sub(vaultBalance, rentExempt)
	plan.PerHolderShare.QuoRem(plan.Distributable, big.NewInt(int64(len(holders))), plan.Remainder)
	return plan, nil
}

// Total is the amount the plan moves out of the vault.
func (p *DistributionPlan) Total() *big.Int {
	return new(big.Int).Mul(p.PerHolderShare, big.NewInt(int64(len(p.Holders))))
}
