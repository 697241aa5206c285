package domain

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestToLamports(t *testing.T) {
	t.Parallel()

	t.Run("narrows amounts that fit", func(t *testing.T) {
		t.Parallel()

		lamports, err := ToLamports(big.NewInt(49_995_000))
		require.NoError(t, err)
		require.Equal(t, uint64(49_995_000), lamports)

		lamports, err = ToLamports(new(big.Int).SetUint64(^uint64(0)))
		require.NoError(t, err)
		require.Equal(t, ^uint64(0), lamports)
	})

	t.Run("treats nil as zero", func(t *testing.T) {
		t.Parallel()

		lamports, err := ToLamports(nil)
		require.NoError(t, err)
		require.Zero(t, lamports)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		t.Parallel()

		_, err := ToLamports(big.NewInt(-1))
		require.True(t, errors.Is(err, ErrorNegativeAmount))
	})

	t.Run("rejects amounts above u64", func(t *testing.T) {
		t.Parallel()

		tooLarge := new(big.Int).Add(new(big.Int).SetUint64(^uint64(0)), big.NewInt(1))
		_, err := ToLamports(tooLarge)
		require.True(t, errors.Is(err, ErrorAmountOverflow))
	})
}

func TestIsPositive(t *testing.T) {
	t.Parallel()

	require.False(t, IsPositive(nil))
	require.False(t, IsPositive(big.NewInt(0)))
	require.False(t, IsPositive(big.NewInt(-5)))
	require.True(t, IsPositive(big.NewInt(1)))
}
