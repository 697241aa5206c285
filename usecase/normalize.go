package usecase

import (
	"context"
	"log/slog"
	"math/big"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/pkg/errors"
)

type NormalizeResult struct {
	Unwrapped *big.Int
	Signature solana.Signature
}

type NormalizeInteractor struct {
	ledger LedgerClient
	logger *slog.Logger
}

func NewNormalizeInteractor(ledger LedgerClient, logger *slog.Logger) *NormalizeInteractor {
	interactor := &NormalizeInteractor{
		ledger: ledger,
		logger: logger,
	}
	return interactor
}

// Unwrap closes the creator's wrapped-SOL associated account when it holds a
// balance, turning the wrapped amount and the account rent back into native SOL.
func (interactor *NormalizeInteractor) Unwrap(ctx context.Context, creator solana.PrivateKey) (*NormalizeResult, domain.StageOutcome) {
	creatorAddress := creator.PublicKey()
	result := &NormalizeResult{Unwrapped: new(big.Int)}

	ata, _, err := solana.FindAssociatedTokenAddress(creatorAddress, solana.WrappedSol)
	if err != nil {
		return result, domain.Fatal(errors.Wrap(err, "deriving wrapped SOL account"))
	}

	accounts, err := interactor.ledger.Accounts(ctx, []solana.PublicKey{ata})
	if err != nil {
		return result, domain.Fatal(errors.Wrap(err, "reading wrapped SOL account"))
	}
	if len(accounts) == 0 || accounts[0] == nil {
		interactor.logger.Debug("normalize: no wrapped SOL account", "account", ata)
		return result, domain.Proceed()
	}

	snapshot, err := domain.DecodeTokenAccount(ata, accounts[0].Data)
	if err != nil {
		return result, domain.Fatal(errors.Wrap(err, "decoding wrapped SOL account"))
	}
	if snapshot.Amount.Sign() == 0 {
		interactor.logger.Debug("normalize: wrapped SOL account is empty", "account", ata)
		return result, domain.Proceed()
	}

	closeIx := token.NewCloseAccountInstruction(ata, creatorAddress, creatorAddress, nil).Build()
	signature, err := interactor.ledger.SubmitAndConfirm(ctx, []solana.Instruction{closeIx}, creator)
	if err != nil {
		return result, domain.Fatal(errors.Wrap(err, "closing wrapped SOL account"))
	}

	result.Unwrapped.Set(snapshot.Amount)
	result.Signature = signature
	interactor.logger.Info("normalize: unwrapped", "account", ata, "lamports", snapshot.Amount, "signature", signature)
	return result, domain.Proceed()
}
