package domain

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// Holder is an independently controlled owner of the tracked token with its
// balance summed over all of its token accounts.
type Holder struct {
	Address solana.PublicKey `json:"address"`
	Balance *big.Int         `json:"balance"`
}

// RawAccount is what the ledger returns for an account lookup.
type RawAccount struct {
	Address  solana.PublicKey
	Owner    solana.PublicKey
	Lamports uint64
	Data     []byte
}
