package usecase

import (
	"context"
	"log/slog"
	"math/big"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

type ClaimResult struct {
	BalanceBefore *big.Int
	Signature     solana.Signature
}

type ClaimInteractor struct {
	ledger     LedgerClient
	feeProgram FeeProgramClient
	logger     *slog.Logger
}

func NewClaimInteractor(ledger LedgerClient, feeProgram FeeProgramClient, logger *slog.Logger) *ClaimInteractor {
	interactor := &ClaimInteractor{
		ledger:     ledger,
		feeProgram: feeProgram,
		logger:     logger,
	}
	return interactor
}

// Claim samples the creator balance, then submits every claim instruction the
// fee program offers in one transaction signed and paid by the creator.
func (interactor *ClaimInteractor) Claim(ctx context.Context, creator solana.PrivateKey) (*ClaimResult, domain.StageOutcome) {
	creatorAddress := creator.PublicKey()

	balanceBefore, err := interactor.ledger.Balance(ctx, creatorAddress)
	if err != nil {
		return nil, domain.Fatal(errors.Wrap(err, "reading creator balance before claim"))
	}
	result := &ClaimResult{BalanceBefore: balanceBefore}

	instructions, err := interactor.feeProgram.ClaimInstructions(ctx, creatorAddress)
	if err != nil {
		return result, domain.Fatal(errors.Wrap(err, "building claim instructions"))
	}
	if len(instructions) == 0 {
		interactor.logger.Info("claim: no claim instructions", "creator", creatorAddress)
		return result, domain.Skip(domain.SkipNoClaimInstructions)
	}

	signature, err := interactor.ledger.SubmitAndConfirm(ctx, instructions, creator)
	if err != nil {
		return result, domain.Fatal(errors.Wrap(err, "submitting claim"))
	}
	result.Signature = signature

	interactor.logger.Info("claim: confirmed", "signature", signature, "instructions", len(instructions), "balance_before", balanceBefore)
	return result, domain.Proceed()
}
