package usecase

import (
	"context"
	"log/slog"
	"math/big"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/pkg/errors"
)

type ForwardResult struct {
	Plan      *domain.ForwardPlan
	Signature solana.Signature
}

type ForwardInteractor struct {
	ledger LedgerClient
	vault  solana.PublicKey
	buffer *big.Int
	logger *slog.Logger
}

func NewForwardInteractor(ledger LedgerClient, vault solana.PublicKey, buffer *big.Int, logger *slog.Logger) *ForwardInteractor {
	if buffer == nil {
		buffer = big.NewInt(domain.DefaultFeeBufferLamports)
	}
	interactor := &ForwardInteractor{
		ledger: ledger,
		vault:  vault,
		buffer: new(big.Int).Set(buffer),
		logger: logger,
	}
	return interactor
}

// Forward moves what the claim added to the creator balance into the vault,
// less the fee buffer.
func (interactor *ForwardInteractor) Forward(ctx context.Context, creator solana.PrivateKey, balanceBefore *big.Int) (*ForwardResult, domain.StageOutcome) {
	creatorAddress := creator.PublicKey()

	balanceAfter, err := interactor.ledger.Balance(ctx, creatorAddress)
	if err != nil {
		return nil, domain.Fatal(errors.Wrap(err, "reading creator balance after claim"))
	}

	plan, reason := domain.NewForwardPlan(balanceBefore, balanceAfter, interactor.buffer)
	result := &ForwardResult{Plan: plan}
	if reason != "" {
		interactor.logger.Info("forward: nothing to forward", "reason", reason,
			"balance_before", plan.BalanceBefore, "balance_after", plan.BalanceAfter, "buffer", interactor.buffer)
		return result, domain.Skip(reason)
	}

	lamports, err := domain.ToLamports(plan.ToSend)
	if err != nil {
		return result, domain.Fatal(errors.Wrap(err, "forward amount"))
	}

	transfer := system.NewTransferInstruction(lamports, creatorAddress, interactor.vault).Build()
	signature, err := interactor.ledger.SubmitAndConfirm(ctx, []solana.Instruction{transfer}, creator)
	if err != nil {
		return result, domain.Fatal(errors.Wrap(err, "submitting forward transfer"))
	}
	result.Signature = signature

	interactor.logger.Info("forward: confirmed", "vault", interactor.vault,
		"collected", plan.Collected, "forwarded", plan.ToSend, "signature", signature)
	return result, domain.Proceed()
}
