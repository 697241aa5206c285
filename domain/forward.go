package domain

import "math/big"

// ForwardPlan is the amount moved from the creator to the vault after a claim.
type ForwardPlan struct {
	BalanceBefore *big.Int
	BalanceAfter  *big.Int
	Collected     *big.Int
	ToSend        *big.Int
}

// NewForwardPlan keeps buffer lamports on the creator for the transfer fee
// whenever the collected amount can cover it. The returned reason is empty
// when there is something to send.
func NewForwardPlan(balanceBefore, balanceAfter, buffer *big.Int) (*ForwardPlan, SkipReason) {
	plan := &ForwardPlan{
		BalanceBefore: new(big.Int).Set(balanceBefore),
		BalanceAfter:  new(big.Int).Set(balanceAfter),
		Collected:     new(big.Int).Sub(balanceAfter, balanceBefore),
		ToSend:        new(big.Int),
	}

	if plan.Collected.Sign() <= 0 {
		return plan, SkipNoNetGain
	}
	if balanceAfter.Cmp(buffer) <= 0 {
		return plan, SkipInsufficientBalance
	}

	if plan.Collected.Cmp(buffer) > 0 {
		plan.ToSend.Sub(plan.Collected, buffer)
	} else {
		plan.ToSend.Set(plan.Collected)
	}

	if plan.ToSend.Sign() <= 0 {
		return plan, SkipNothingToForward
	}
	return plan, ""
}
