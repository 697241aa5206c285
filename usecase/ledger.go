package usecase

import (
	"context"
	"math/big"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
)

// LedgerClient is the part of the Solana RPC surface the pipeline reads from and
// submits to. Reads use the configured commitment.
type LedgerClient interface {
	Balance(ctx context.Context, account solana.PublicKey) (*big.Int, error)
	MinimumRentExemption(ctx context.Context, dataSize uint64) (*big.Int, error)
	LargestTokenAccounts(ctx context.Context, mint solana.PublicKey) ([]solana.PublicKey, error)

	// Accounts returns one entry per address in the same order, nil for an
	// account that does not exist.
	Accounts(ctx context.Context, addresses []solana.PublicKey) ([]*domain.RawAccount, error)

	// SubmitAndConfirm signs with payer and the extra signers, submits one
	// transaction and blocks until it reaches the configured commitment.
	SubmitAndConfirm(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, signers ...solana.PrivateKey) (solana.Signature, error)
}

// FeeProgramClient reads and claims creator fees on the launch platform.
type FeeProgramClient interface {
	PendingFees(ctx context.Context, creator solana.PublicKey) (*domain.PendingFees, error)
	ClaimInstructions(ctx context.Context, creator solana.PublicKey) ([]solana.Instruction, error)
}

// DistributionProgramClient builds instructions for the vault program.
type DistributionProgramClient interface {
	VaultAddress() solana.PublicKey
	DistributeInstruction(authority solana.PublicKey, holders []domain.Holder, share uint64) (solana.Instruction, error)
}
