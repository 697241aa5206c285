package domain

import (
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// TokenAccountDataSize is the size of an SPL token account without extensions.
const TokenAccountDataSize = 165

var (
	ErrorShortTokenAccount = errors.New("token account data is too short")
)

// tokenAccountLayout is the fixed head of every SPL token account:
// mint (32) | owner (32) | amount (u64, little-endian).
type tokenAccountLayout struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

const tokenAccountLayoutSize = 32 + 32 + 8

// TokenAccountSnapshot is a decoded token account, kept only while holders are
// being aggregated.
type TokenAccountSnapshot struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Amount  *big.Int
}

func DecodeTokenAccount(address solana.PublicKey, data []byte) (*TokenAccountSnapshot, error) {
	if len(data) < tokenAccountLayoutSize {
		return nil, errors.Wrapf(ErrorShortTokenAccount, "account %s has %d bytes", address, len(data))
	}

	var layout tokenAccountLayout
	if err := bin.NewBinDecoder(data[:tokenAccountLayoutSize]).Decode(&layout); err != nil {
		return nil, errors.Wrapf(err, "decode token account %s", address)
	}

	return &TokenAccountSnapshot{
		Address: address,
		Mint:    layout.Mint,
		Owner:   layout.Owner,
		Amount:  new(big.Int).SetUint64(layout.Amount),
	}, nil
}

// IsIndependentOwner reports whether the owner can sign for itself, i.e. it is
// a point on the ed25519 curve rather than a program-derived address.
func (s *TokenAccountSnapshot) IsIndependentOwner() bool {
	return s.Owner.IsOnCurve()
}
