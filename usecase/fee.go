package usecase

import (
	"context"
	"log/slog"
	"math/big"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

type FeeInteractor struct {
	feeProgram FeeProgramClient
	threshold  *big.Int
	logger     *slog.Logger
}

// NewFeeInteractor takes the minimum pending amount, in lamports, worth a claim.
// A nil or zero threshold means any positive amount is claimed.
func NewFeeInteractor(feeProgram FeeProgramClient, threshold *big.Int, logger *slog.Logger) *FeeInteractor {
	if threshold == nil {
		threshold = new(big.Int)
	}
	interactor := &FeeInteractor{
		feeProgram: feeProgram,
		threshold:  new(big.Int).Set(threshold),
		logger:     logger,
	}
	return interactor
}

func (interactor *FeeInteractor) Pending(ctx context.Context, creator solana.PublicKey) (*domain.PendingFees, error) {
	pending, err := interactor.feeProgram.PendingFees(ctx, creator)
	if err != nil {
		return nil, errors.Wrap(err, "reading pending creator fees")
	}
	if pending == nil {
		pending = &domain.PendingFees{}
	}
	return pending, nil
}

// ReadPending is the first stage of a run: it decides whether claiming is worth
// a transaction.
func (interactor *FeeInteractor) ReadPending(ctx context.Context, creator solana.PublicKey) (*domain.PendingFees, domain.StageOutcome) {
	pending, err := interactor.Pending(ctx, creator)
	if err != nil {
		return nil, domain.Fatal(err)
	}

	total := pending.Total()
	for _, venue := range pending.Venues {
		interactor.logger.Debug("fees: venue pending", "venue", venue.Venue, "lamports", venue.Amount)
	}

	if total.Sign() <= 0 {
		interactor.logger.Info("fees: no pending rewards", "creator", creator)
		return pending, domain.Skip(domain.SkipNoPendingFees)
	}

	if interactor.threshold.Sign() > 0 && total.Cmp(interactor.threshold) < 0 {
		interactor.logger.Info("fees: pending rewards below threshold",
			"creator", creator, "pending", total, "threshold", interactor.threshold)
		return pending, domain.Skip(domain.SkipBelowThreshold)
	}

	interactor.logger.Info("fees: pending rewards", "creator", creator, "pending", total, "venues", pending.Claimable())
	return pending, domain.Proceed()
}
