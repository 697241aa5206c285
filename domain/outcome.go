package domain

import "fmt"

type Stage string

const (
	StageReadFees         Stage = "read_fees"
	StageClaim            Stage = "claim"
	StageNormalize        Stage = "normalize"
	StageForward          Stage = "forward"
	StageAggregateHolders Stage = "aggregate_holders"
	StageDistribute       Stage = "distribute"
	StageDone             Stage = "done"
)

type OutcomeKind string

const (
	OutcomeProceed OutcomeKind = "proceed"
	OutcomeSkip    OutcomeKind = "skip"
	OutcomeFatal   OutcomeKind = "fatal"
)

type SkipReason string

const (
	SkipNoPendingFees        SkipReason = "no_pending_rewards"
	SkipBelowThreshold       SkipReason = "below_threshold"
	SkipNoClaimInstructions  SkipReason = "no_claim_instructions"
	SkipNoNetGain            SkipReason = "no_net_gain"
	SkipInsufficientBalance  SkipReason = "insufficient_balance"
	SkipNothingToForward     SkipReason = "nothing_to_forward"
	SkipNoEligibleHolders    SkipReason = "no_eligible_holders"
	SkipNothingDistributable SkipReason = "nothing_distributable"
	SkipZeroShare            SkipReason = "zero_share"
)

// StageOutcome is what every pipeline stage returns.
type StageOutcome struct {
	Kind   OutcomeKind
	Reason SkipReason
	Err    error
}

func Proceed() StageOutcome {
	return StageOutcome{Kind: OutcomeProceed}
}

func Skip(reason SkipReason) StageOutcome {
	return StageOutcome{Kind: OutcomeSkip, Reason: reason}
}

func Fatal(err error) StageOutcome {
	return StageOutcome{Kind: OutcomeFatal, Err: err}
}

func (o StageOutcome) String() string {
	switch o.Kind {
	case OutcomeSkip:
		return fmt.Sprintf("skip(%s)", o.Reason)
	case OutcomeFatal:
		return fmt.Sprintf("fatal(%v)", o.Err)
	default:
		return string(o.Kind)
	}
}
