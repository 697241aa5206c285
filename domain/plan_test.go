package domain

import (
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func holdersOf(n int) []Holder {
	holders := make([]Holder, n)
	for i := range holders {
		holders[i] = Holder{Address: solana.NewWallet().PublicKey(), Balance: big.NewInt(int64(i + 1))}
	}
	return holders
}

func TestNewDistributionPlan(t *testing.T) {
	t.Parallel()

	t.Run("splits the balance above rent equally", func(t *testing.T) {
		t.Parallel()

		plan, err := NewDistributionPlan(big.NewInt(1_000_000_000), big.NewInt(890_880), holdersOf(20))
		require.NoError(t, err)
		require.Equal(t, "999109120", plan.Distributable.String())
		require.Equal(t, "49955456", plan.PerHolderShare.String())
		require.Equal(t, "0", plan.Remainder.String())
		require.Equal(t, "999109120", plan.Total().String())
	})

	t.Run("retains the remainder", func(t *testing.T) {
		t.Parallel()

		plan, err := NewDistributionPlan(big.NewInt(1_000), big.NewInt(100), holdersOf(7))
		require.NoError(t, err)
		require.Equal(t, "900", plan.Distributable.String())
		require.Equal(t, "128", plan.PerHolderShare.String())
		require.Equal(t, "4", plan.Remainder.String())
		require.Equal(t, "896", plan.Total().String())
	})

	t.Run("never exceeds the distributable amount", func(t *testing.T) {
		t.Parallel()

		rent := big.NewInt(890_880)
		for _, vault := range []int64{890_881, 890_900, 1_000_000, 123_456_789, 9_999_999_999} {
			for h := 1; h <= 25; h++ {
				plan, err := NewDistributionPlan(big.NewInt(vault), rent, holdersOf(h))
				require.NoError(t, err)

				require.True(t, plan.Total().Cmp(plan.Distributable) <= 0)
				require.True(t, plan.Remainder.Sign() >= 0)
				require.True(t, plan.Remainder.Cmp(big.NewInt(int64(h))) < 0)

				sum := new(big.Int).Add(plan.Total(), plan.Remainder)
				require.Equal(t, plan.Distributable.String(), sum.String())
			}
		}
	})

	t.Run("nothing is distributable at or below rent", func(t *testing.T) {
		t.Parallel()

		for _, vault := range []int64{0, 890_000, 890_880} {
			plan, err := NewDistributionPlan(big.NewInt(vault), big.NewInt(890_880), holdersOf(3))
			require.NoError(t, err)
			require.Zero(t, plan.Distributable.Sign())
			require.Zero(t, plan.PerHolderShare.Sign())
			require.Zero(t, plan.Total().Sign())
		}
	})

	t.Run("share rounds down to zero for tiny balances", func(t *testing.T) {
		t.Parallel()

		plan, err := NewDistributionPlan(big.NewInt(890_885), big.NewInt(890_880), holdersOf(20))
		require.NoError(t, err)
		require.Equal(t, "5", plan.Distributable.String())
		require.Zero(t, plan.PerHolderShare.Sign())
		require.Equal(t, "5", plan.Remainder.String())
	})

	t.Run("requires holders", func(t *testing.T) {
		t.Parallel()

		_, err := NewDistributionPlan(big.NewInt(1_000), big.NewInt(1), nil)
		require.True(t, errors.Is(err, ErrorNoHolders))
	})
}
