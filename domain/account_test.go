package domain

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func tokenAccountBytes(mint, owner solana.PublicKey, amount uint64) []byte {
	data := make([]byte, TokenAccountDataSize)
	copy(data[0:32], mint[:])
	copy(data[32:64], owner[:])
	binary.LittleEndian.PutUint64(data[64:72], amount)
	return data
}

func TestDecodeTokenAccount(t *testing.T) {
	t.Parallel()

	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	address := solana.NewWallet().PublicKey()

	t.Run("decodes mint owner and amount", func(t *testing.T) {
		t.Parallel()

		snapshot, err := DecodeTokenAccount(address, tokenAccountBytes(mint, owner, 1_234_567_890_123))
		require.NoError(t, err)
		require.Equal(t, address, snapshot.Address)
		require.Equal(t, mint, snapshot.Mint)
		require.Equal(t, owner, snapshot.Owner)
		require.Equal(t, "1234567890123", snapshot.Amount.String())
	})

	t.Run("reads only the fixed head", func(t *testing.T) {
		t.Parallel()

		data := tokenAccountBytes(mint, owner, 7)
		snapshot, err := DecodeTokenAccount(address, data[:72])
		require.NoError(t, err)
		require.Equal(t, int64(7), snapshot.Amount.Int64())
	})

	t.Run("rejects short data", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeTokenAccount(address, make([]byte, 40))
		require.True(t, errors.Is(err, ErrorShortTokenAccount))

		_, err = DecodeTokenAccount(address, nil)
		require.True(t, errors.Is(err, ErrorShortTokenAccount))
	})

	t.Run("program-derived owners are not independent", func(t *testing.T) {
		t.Parallel()

		pda, _, err := solana.FindProgramAddress([][]byte{[]byte("pool")}, solana.SystemProgramID)
		require.NoError(t, err)

		snapshot, err := DecodeTokenAccount(address, tokenAccountBytes(mint, pda, 1))
		require.NoError(t, err)
		require.False(t, snapshot.IsIndependentOwner())

		snapshot, err = DecodeTokenAccount(address, tokenAccountBytes(mint, owner, 1))
		require.NoError(t, err)
		require.True(t, snapshot.IsIndependentOwner())
	})
}
