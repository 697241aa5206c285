package usecase

import (
	"context"
	"log/slog"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// vaultDataSize is the data length the vault's rent floor is computed for. The
// vault is a system-owned PDA that only ever holds lamports.
const vaultDataSize = 0

type DistributeResult struct {
	Plan      *domain.DistributionPlan
	Signature solana.Signature
}

type DistributeInteractor struct {
	ledger      LedgerClient
	distributor DistributionProgramClient
	holders     *HolderInteractor
	mint        solana.PublicKey
	holderCount int
	logger      *slog.Logger
}

func NewDistributeInteractor(ledger LedgerClient,
	distributor DistributionProgramClient,
	holders *HolderInteractor,
	mint solana.PublicKey,
	holderCount int,
	logger *slog.Logger) *DistributeInteractor {
	interactor := &DistributeInteractor{
		ledger:      ledger,
		distributor: distributor,
		holders:     holders,
		mint:        mint,
		holderCount: holderCount,
		logger:      logger,
	}
	return interactor
}

func (interactor *DistributeInteractor) Vault() solana.PublicKey {
	return interactor.distributor.VaultAddress()
}

// EligibleHolders is the holder aggregation stage.
func (interactor *DistributeInteractor) EligibleHolders(ctx context.Context) ([]domain.Holder, domain.StageOutcome) {
	holders, err := interactor.holders.TopHolders(ctx, interactor.mint, interactor.holderCount)
	if err != nil {
		return nil, domain.Fatal(err)
	}
	if len(holders) == 0 {
		interactor.logger.Info("distribute: no eligible holders", "mint", interactor.mint)
		return holders, domain.Skip(domain.SkipNoEligibleHolders)
	}
	return holders, domain.Proceed()
}

// Plan reads the vault and its rent floor and splits the rest equally.
func (interactor *DistributeInteractor) Plan(ctx context.Context, holders []domain.Holder) (*domain.DistributionPlan, domain.StageOutcome) {
	vault := interactor.distributor.VaultAddress()

	balance, err := interactor.ledger.Balance(ctx, vault)
	if err != nil {
		return nil, domain.Fatal(errors.Wrap(err, "reading vault balance"))
	}
	rent, err := interactor.ledger.MinimumRentExemption(ctx, vaultDataSize)
	if err != nil {
		return nil, domain.Fatal(errors.Wrap(err, "reading vault rent exemption"))
	}

	plan, err := domain.NewDistributionPlan(balance, rent, holders)
	if err != nil {
		return nil, domain.Fatal(err)
	}

	if plan.Distributable.Sign() <= 0 {
		interactor.logger.Info("distribute: nothing distributable", "vault", vault, "balance", balance, "rent", rent)
		return plan, domain.Skip(domain.SkipNothingDistributable)
	}
	if plan.PerHolderShare.Sign() <= 0 {
		interactor.logger.Info("distribute: share is zero", "vault", vault, "distributable", plan.Distributable, "holders", len(holders))
		return plan, domain.Skip(domain.SkipZeroShare)
	}
	return plan, domain.Proceed()
}

// Distribute submits the equal split as one instruction signed and paid by the
// pool owner.
func (interactor *DistributeInteractor) Distribute(ctx context.Context, owner solana.PrivateKey, plan *domain.DistributionPlan) (*DistributeResult, domain.StageOutcome) {
	result := &DistributeResult{Plan: plan}

	share, err := domain.ToLamports(plan.PerHolderShare)
	if err != nil {
		return result, domain.Fatal(errors.Wrap(err, "per-holder share"))
	}

	instruction, err := interactor.distributor.DistributeInstruction(owner.PublicKey(), plan.Holders, share)
	if err != nil {
		return result, domain.Fatal(errors.Wrap(err, "building distribute instruction"))
	}

	signature, err := interactor.ledger.SubmitAndConfirm(ctx, []solana.Instruction{instruction}, owner)
	if err != nil {
		return result, domain.Fatal(errors.Wrap(err, "submitting distribution"))
	}
	result.Signature = signature

	interactor.logger.Info("distribute: confirmed", "holders", len(plan.Holders),
		"share", plan.PerHolderShare, "remainder", plan.Remainder, "signature", signature)
	return result, domain.Proceed()
}
