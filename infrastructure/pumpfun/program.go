package pumpfun

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var (
	// Bonding-curve launch program
	PumpProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	// Event authority of the bonding-curve program
	PumpEventAuthority = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")

	// AMM the bonding curve graduates into
	PumpAmmProgramID = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")
	// Event authority of the AMM
	PumpAmmEventAuthority = solana.MustPublicKeyFromBase58("GS4CU59F31iL7aR2Q8zVS8DRrcRnXX1yjQ66TqNVQnaR")
)

const (
	creatorVaultSeed           = "creator-vault"
	coinCreatorVaultAuthSeed   = "creator_vault"
	collectCreatorFeeIx        = "collect_creator_fee"
	collectCoinCreatorFeeIx    = "collect_coin_creator_fee"
	createIdempotentInstrIndex = 1
)

// CreatorVault holds the bonding-curve creator fees as plain lamports.
func CreatorVault(creator solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{[]byte(creatorVaultSeed), creator[:]}, PumpProgramID)
	return address, err
}

// CoinCreatorVaultAuthority owns the AMM creator fee account, which holds
// wrapped SOL.
func CoinCreatorVaultAuthority(creator solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress([][]byte{[]byte(coinCreatorVaultAuthSeed), creator[:]}, PumpAmmProgramID)
	return address, err
}

func CoinCreatorVaultAta(creator solana.PublicKey) (solana.PublicKey, solana.PublicKey, error) {
	authority, err := CoinCreatorVaultAuthority(creator)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, err
	}
	ata, _, err := solana.FindAssociatedTokenAddress(authority, solana.WrappedSol)
	return authority, ata, err
}

func collectCreatorFeeInstruction(creator, vault solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(PumpProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(creator, true, true),
		solana.NewAccountMeta(vault, true, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(PumpEventAuthority, false, false),
		solana.NewAccountMeta(PumpProgramID, false, false),
	}, bin.SighashInstruction(collectCreatorFeeIx))
}

func collectCoinCreatorFeeInstruction(creator, authority, vaultAta, creatorAta solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(PumpAmmProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(solana.WrappedSol, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(creator, false, true),
		solana.NewAccountMeta(authority, false, false),
		solana.NewAccountMeta(vaultAta, true, false),
		solana.NewAccountMeta(creatorAta, true, false),
		solana.NewAccountMeta(PumpAmmEventAuthority, false, false),
		solana.NewAccountMeta(PumpAmmProgramID, false, false),
	}, bin.SighashInstruction(collectCoinCreatorFeeIx))
}

// createAtaIdempotentInstruction is a no-op when the account already exists.
func createAtaIdempotentInstruction(payer, ata, wallet, mint solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(solana.SPLAssociatedTokenAccountProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(ata, true, false),
		solana.NewAccountMeta(wallet, false, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}, []byte{createIdempotentInstrIndex})
}
