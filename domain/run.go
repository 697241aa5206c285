package domain

import (
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// RunReport is the record of one pipeline run, from the fee read up to the stage
// the run stopped at.
type RunReport struct {
	ID         string      `json:"id"`
	StartTime  time.Time   `json:"start_time"`
	FinishTime time.Time   `json:"finish_time"`
	Stage      Stage       `json:"stage"`
	Outcome    OutcomeKind `json:"outcome"`
	SkipReason SkipReason  `json:"skip_reason,omitempty"`
	Error      string      `json:"error,omitempty"`

	PendingFees    *big.Int `json:"pending_fees,omitempty"`
	BalanceBefore  *big.Int `json:"balance_before,omitempty"`
	BalanceAfter   *big.Int `json:"balance_after,omitempty"`
	Unwrapped      *big.Int `json:"unwrapped,omitempty"`
	Collected      *big.Int `json:"collected,omitempty"`
	Forwarded      *big.Int `json:"forwarded,omitempty"`
	HolderCount    int      `json:"holder_count"`
	PerHolderShare *big.Int `json:"per_holder_share,omitempty"`
	Distributed    *big.Int `json:"distributed,omitempty"`

	Signatures map[Stage]solana.Signature `json:"signatures,omitempty"`
}

func NewRunReport(now time.Time) *RunReport {
	return &RunReport{
		ID:         uuid.NewString(),
		StartTime:  now,
		Stage:      StageReadFees,
		Outcome:    OutcomeProceed,
		Signatures: make(map[Stage]solana.Signature, 4),
	}
}

func (r *RunReport) Finish(stage Stage, outcome StageOutcome, now time.Time) {
	r.Stage = stage
	r.Outcome = outcome.Kind
	r.SkipReason = outcome.Reason
	if outcome.Err != nil {
		r.Error = outcome.Err.Error()
	}
	r.FinishTime = now
}

func (r *RunReport) IsFatal() bool {
	return r.Outcome == OutcomeFatal
}
