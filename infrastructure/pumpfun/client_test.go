package pumpfun

import (
	"context"
	"math/big"
	"testing"

	"feedriver/domain"
	drivertesting "feedriver/infrastructure/testing"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	accounts map[solana.PublicKey]*domain.RawAccount
	err      error
}

func (r *fakeReader) MinimumRentExemption(ctx context.Context, dataSize uint64) (*big.Int, error) {
	return new(big.Int).SetUint64(890_880 + dataSize*6_960), nil
}

func (r *fakeReader) Accounts(ctx context.Context, addresses []solana.PublicKey) ([]*domain.RawAccount, error) {
	if r.err != nil {
		return nil, r.err
	}
	result := make([]*domain.RawAccount, len(addresses))
	for i, address := range addresses {
		result[i] = r.accounts[address]
	}
	return result, nil
}

type venueFixture struct {
	creator   solana.PublicKey
	vault     solana.PublicKey
	authority solana.PublicKey
	vaultAta  solana.PublicKey
	reader    *fakeReader
}

func newVenueFixture(t *testing.T, bondingLamports, ammLamports uint64) *venueFixture {
	t.Helper()

	creator := drivertesting.NewWallet()
	vault, err := CreatorVault(creator)
	require.NoError(t, err)
	authority, vaultAta, err := CoinCreatorVaultAta(creator)
	require.NoError(t, err)

	reader := &fakeReader{accounts: make(map[solana.PublicKey]*domain.RawAccount)}
	if bondingLamports > 0 {
		reader.accounts[vault] = &domain.RawAccount{Address: vault, Owner: solana.SystemProgramID, Lamports: bondingLamports}
	}
	if ammLamports > 0 {
		reader.accounts[vaultAta] = &domain.RawAccount{
			Address:  vaultAta,
			Owner:    solana.TokenProgramID,
			Lamports: 2_039_280,
			Data:     drivertesting.TokenAccountData(solana.WrappedSol, authority, ammLamports),
		}
	}
	return &venueFixture{creator: creator, vault: vault, authority: authority, vaultAta: vaultAta, reader: reader}
}

func TestProgramAddresses(t *testing.T) {
	t.Parallel()

	creator := drivertesting.NewWallet()

	vault, err := CreatorVault(creator)
	require.NoError(t, err)
	require.False(t, vault.IsOnCurve())
	again, err := CreatorVault(creator)
	require.NoError(t, err)
	require.Equal(t, vault, again)

	authority, ata, err := CoinCreatorVaultAta(creator)
	require.NoError(t, err)
	require.False(t, authority.IsOnCurve())
	expected, _, err := solana.FindAssociatedTokenAddress(authority, solana.WrappedSol)
	require.NoError(t, err)
	require.Equal(t, expected, ata)
	require.NotEqual(t, vault, authority)
}

func TestClient_PendingFees(t *testing.T) {
	t.Parallel()

	t.Run("sums both venues above rent", func(t *testing.T) {
		t.Parallel()

		f := newVenueFixture(t, 890_880+12_345, 5_000_000)
		pending, err := NewClient(f.reader, drivertesting.NewLogger()).PendingFees(context.Background(), f.creator)
		require.NoError(t, err)
		require.Equal(t, "5012345", pending.Total().String())
		require.Equal(t, []domain.Venue{domain.VenueBondingCurve, domain.VenueAMM}, pending.Claimable())
	})

	t.Run("rent only vault is not claimable", func(t *testing.T) {
		t.Parallel()

		f := newVenueFixture(t, 890_880, 0)
		pending, err := NewClient(f.reader, drivertesting.NewLogger()).PendingFees(context.Background(), f.creator)
		require.NoError(t, err)
		require.Zero(t, pending.Total().Sign())
		require.Empty(t, pending.Claimable())
	})

	t.Run("missing vaults read as zero", func(t *testing.T) {
		t.Parallel()

		f := newVenueFixture(t, 0, 0)
		pending, err := NewClient(f.reader, drivertesting.NewLogger()).PendingFees(context.Background(), f.creator)
		require.NoError(t, err)
		require.Zero(t, pending.Total().Sign())
	})

	t.Run("reader errors are returned", func(t *testing.T) {
		t.Parallel()

		f := newVenueFixture(t, 0, 0)
		f.reader.err = errors.New("rpc down")
		_, err := NewClient(f.reader, drivertesting.NewLogger()).PendingFees(context.Background(), f.creator)
		require.ErrorContains(t, err, "rpc down")
	})

	t.Run("malformed amm vault is an error", func(t *testing.T) {
		t.Parallel()

		f := newVenueFixture(t, 0, 1)
		f.reader.accounts[f.vaultAta].Data = []byte{1, 2, 3}
		_, err := NewClient(f.reader, drivertesting.NewLogger()).PendingFees(context.Background(), f.creator)
		require.ErrorIs(t, err, domain.ErrorShortTokenAccount)
	})
}

func TestClient_ClaimInstructions(t *testing.T) {
	t.Parallel()

	t.Run("bonding curve only", func(t *testing.T) {
		t.Parallel()

		f := newVenueFixture(t, 1_000_000_000, 0)
		instructions, err := NewClient(f.reader, drivertesting.NewLogger()).ClaimInstructions(context.Background(), f.creator)
		require.NoError(t, err)
		require.Len(t, instructions, 1)

		ix := instructions[0]
		require.Equal(t, PumpProgramID, ix.ProgramID())
		data, err := ix.Data()
		require.NoError(t, err)
		require.Equal(t, []byte{20, 22, 86, 123, 198, 28, 219, 132}, data)

		accounts := ix.Accounts()
		require.Equal(t, f.creator, accounts[0].PublicKey)
		require.True(t, accounts[0].IsSigner)
		require.Equal(t, f.vault, accounts[1].PublicKey)
		require.True(t, accounts[1].IsWritable)
		require.Equal(t, PumpEventAuthority, accounts[3].PublicKey)
	})

	t.Run("amm fees add the wrapped SOL account first", func(t *testing.T) {
		t.Parallel()

		f := newVenueFixture(t, 0, 3_000_000)
		instructions, err := NewClient(f.reader, drivertesting.NewLogger()).ClaimInstructions(context.Background(), f.creator)
		require.NoError(t, err)
		require.Len(t, instructions, 2)

		creatorAta, _, err := solana.FindAssociatedTokenAddress(f.creator, solana.WrappedSol)
		require.NoError(t, err)

		create := instructions[0]
		require.Equal(t, solana.SPLAssociatedTokenAccountProgramID, create.ProgramID())
		require.Equal(t, creatorAta, create.Accounts()[1].PublicKey)
		data, err := create.Data()
		require.NoError(t, err)
		require.Equal(t, []byte{1}, data)

		collect := instructions[1]
		require.Equal(t, PumpAmmProgramID, collect.ProgramID())
		data, err = collect.Data()
		require.NoError(t, err)
		require.Equal(t, []byte{160, 57, 89, 42, 181, 139, 43, 66}, data)
		accounts := collect.Accounts()
		require.Equal(t, f.creator, accounts[2].PublicKey)
		require.True(t, accounts[2].IsSigner)
		require.Equal(t, f.authority, accounts[3].PublicKey)
		require.Equal(t, f.vaultAta, accounts[4].PublicKey)
		require.Equal(t, creatorAta, accounts[5].PublicKey)
	})

	t.Run("both venues", func(t *testing.T) {
		t.Parallel()

		f := newVenueFixture(t, 2_000_000, 3_000_000)
		instructions, err := NewClient(f.reader, drivertesting.NewLogger()).ClaimInstructions(context.Background(), f.creator)
		require.NoError(t, err)
		require.Len(t, instructions, 3)
		require.Equal(t, PumpProgramID, instructions[0].ProgramID())
	})

	t.Run("nothing claimable", func(t *testing.T) {
		t.Parallel()

		f := newVenueFixture(t, 890_880, 0)
		instructions, err := NewClient(f.reader, drivertesting.NewLogger()).ClaimInstructions(context.Background(), f.creator)
		require.NoError(t, err)
		require.Empty(t, instructions)
	})
}
