package drivertesting

import (
	"encoding/binary"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
)

// TokenAccountData lays out an SPL token account the way the token program
// stores it. Fields past the amount are left zero.
func TokenAccountData(mint, owner solana.PublicKey, amount uint64) []byte {
	data := make([]byte, domain.TokenAccountDataSize)
	copy(data[0:32], mint[:])
	copy(data[32:64], owner[:])
	binary.LittleEndian.PutUint64(data[64:72], amount)
	return data
}

// NewWallet returns the address of a fresh keypair, which is always on the
// ed25519 curve.
func NewWallet() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

// NewProgramAddress returns an off-curve address derived from seed.
func NewProgramAddress(seed string) solana.PublicKey {
	address, _, err := solana.FindProgramAddress([][]byte{[]byte(seed)}, solana.SystemProgramID)
	if err != nil {
		panic(err)
	}
	return address
}
