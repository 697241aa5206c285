package pumpfun

import (
	"context"
	"log/slog"
	"math/big"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// AccountReader is the ledger surface the fee client reads through.
type AccountReader interface {
	MinimumRentExemption(ctx context.Context, dataSize uint64) (*big.Int, error)
	Accounts(ctx context.Context, addresses []solana.PublicKey) ([]*domain.RawAccount, error)
}

// Client reads and claims creator fees on the bonding-curve program and on
// the AMM.
type Client struct {
	reader AccountReader
	logger *slog.Logger
}

func NewClient(reader AccountReader, logger *slog.Logger) *Client {
	return &Client{
		reader: reader,
		logger: logger,
	}
}

type venueState struct {
	creatorVault   solana.PublicKey
	bondingPending *big.Int

	vaultAuthority solana.PublicKey
	vaultAta       solana.PublicKey
	ammPending     *big.Int
}

func (c *Client) readVenues(ctx context.Context, creator solana.PublicKey) (*venueState, error) {
	state := &venueState{bondingPending: new(big.Int), ammPending: new(big.Int)}

	var err error
	state.creatorVault, err = CreatorVault(creator)
	if err != nil {
		return nil, errors.Wrap(err, "deriving creator vault")
	}
	state.vaultAuthority, state.vaultAta, err = CoinCreatorVaultAta(creator)
	if err != nil {
		return nil, errors.Wrap(err, "deriving coin creator vault")
	}

	accounts, err := c.reader.Accounts(ctx, []solana.PublicKey{state.creatorVault, state.vaultAta})
	if err != nil {
		return nil, errors.Wrap(err, "reading creator vaults")
	}
	if len(accounts) != 2 {
		return nil, errors.Errorf("expected 2 vault accounts, got %d", len(accounts))
	}

	if vault := accounts[0]; vault != nil {
		rent, err := c.reader.MinimumRentExemption(ctx, uint64(len(vault.Data)))
		if err != nil {
			return nil, errors.Wrap(err, "reading creator vault rent exemption")
		}
		lamports := new(big.Int).SetUint64(vault.Lamports)
		if lamports.Cmp(rent) > 0 {
			state.bondingPending.Sub(lamports, rent)
		}
	}

	if ata := accounts[1]; ata != nil {
		snapshot, err := domain.DecodeTokenAccount(state.vaultAta, ata.Data)
		if err != nil {
			return nil, errors.Wrap(err, "decoding coin creator vault")
		}
		state.ammPending.Set(snapshot.Amount)
	}

	return state, nil
}

// PendingFees reports the claimable amount per venue.
func (c *Client) PendingFees(ctx context.Context, creator solana.PublicKey) (*domain.PendingFees, error) {
	state, err := c.readVenues(ctx, creator)
	if err != nil {
		return nil, err
	}

	pending := &domain.PendingFees{}
	pending.Add(domain.VenueBondingCurve, state.bondingPending)
	pending.Add(domain.VenueAMM, state.ammPending)
	return pending, nil
}

// ClaimInstructions returns the instructions collecting every venue that
// currently holds fees, or none when nothing is claimable.
func (c *Client) ClaimInstructions(ctx context.Context, creator solana.PublicKey) ([]solana.Instruction, error) {
	state, err := c.readVenues(ctx, creator)
	if err != nil {
		return nil, err
	}

	instructions := make([]solana.Instruction, 0, 3)
	if state.bondingPending.Sign() > 0 {
		instructions = append(instructions, collectCreatorFeeInstruction(creator, state.creatorVault))
	}

	if state.ammPending.Sign() > 0 {
		creatorAta, _, err := solana.FindAssociatedTokenAddress(creator, solana.WrappedSol)
		if err != nil {
			return nil, errors.Wrap(err, "deriving creator wrapped SOL account")
		}
		instructions = append(instructions,
			createAtaIdempotentInstruction(creator, creatorAta, creator, solana.WrappedSol),
			collectCoinCreatorFeeInstruction(creator, state.vaultAuthority, state.vaultAta, creatorAta),
		)
	}

	c.logger.Debug("pumpfun: claim instructions", "creator", creator,
		"bonding_curve", state.bondingPending, "amm", state.ammPending, "instructions", len(instructions))
	return instructions, nil
}
