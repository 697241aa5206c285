package usecase

import (
	"context"
	"log/slog"
	"math/big"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var (
	ErrorInvalidHolderLimit = errors.New("holder limit must be at least 1")
)

type HolderInteractor struct {
	ledger LedgerClient
	logger *slog.Logger
}

func NewHolderInteractor(ledger LedgerClient, logger *slog.Logger) *HolderInteractor {
	interactor := &HolderInteractor{
		ledger: ledger,
		logger: logger,
	}
	return interactor
}

// TopHolders turns the ledger's ranked largest token accounts into at most n
// distinct owners. Twice as many accounts as requested are looked up, so owners
// with several accounts or program-derived owners do not starve the result.
func (interactor *HolderInteractor) TopHolders(ctx context.Context, mint solana.PublicKey, n int) ([]domain.Holder, error) {
	if n < 1 {
		return nil, ErrorInvalidHolderLimit
	}

	ranked, err := interactor.ledger.LargestTokenAccounts(ctx, mint)
	if err != nil {
		return nil, errors.Wrap(err, "fetching largest token accounts")
	}
	if len(ranked) > 2*n {
		ranked = ranked[:2*n]
	}
	if len(ranked) == 0 {
		return []domain.Holder{}, nil
	}

	accounts, err := interactor.ledger.Accounts(ctx, ranked)
	if err != nil {
		return nil, errors.Wrap(err, "fetching token accounts")
	}

	order := make([]solana.PublicKey, 0, len(ranked))
	balances := make(map[solana.PublicKey]*big.Int, len(ranked))

	for i, address := range ranked {
		var raw *domain.RawAccount
		if i < len(accounts) {
			raw = accounts[i]
		}
		if raw == nil {
			interactor.logger.Warn("holders: token account not found", "account", address)
			continue
		}

		snapshot, err := domain.DecodeTokenAccount(address, raw.Data)
		if err != nil {
			interactor.logger.Warn("holders: skipping undecodable account", "account", address, "error", err)
			continue
		}
		if !snapshot.Mint.Equals(mint) {
			interactor.logger.Warn("holders: skipping account of another mint", "account", address, "mint", snapshot.Mint)
			continue
		}
		if !snapshot.IsIndependentOwner() {
			interactor.logger.Debug("holders: skipping program-derived owner", "account", address, "owner", snapshot.Owner)
			continue
		}

		balance, exist := balances[snapshot.Owner]
		if !exist {
			balance = new(big.Int)
			balances[snapshot.Owner] = balance
			order = append(order, snapshot.Owner)
		}
		balance.Add(balance, snapshot.Amount)
	}

	holders := make([]domain.Holder, 0, n)
	for _, owner := range order {
		if len(holders) == n {
			break
		}
		balance := balances[owner]
		if balance.Sign() <= 0 {
			continue
		}
		holders = append(holders, domain.Holder{Address: owner, Balance: balance})
	}

	interactor.logger.Debug("holders: aggregated", "mint", mint, "accounts", len(ranked), "holders", len(holders))
	return holders, nil
}
