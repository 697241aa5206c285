package usecase

import (
	"context"
	"math/big"
	"sync"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
)

type submission struct {
	instructions []solana.Instruction
	payer        solana.PublicKey
}

type fakeLedger struct {
	mu sync.Mutex

	balances map[solana.PublicKey]*big.Int
	rent     *big.Int
	largest  []solana.PublicKey
	accounts map[solana.PublicKey]*domain.RawAccount

	// onSubmit runs in order, one per submitted transaction, to apply its
	// effect on balances.
	onSubmit []func(l *fakeLedger)

	balanceErr  error
	largestErr  error
	accountsErr error
	submitErr   error

	accountRequests [][]solana.PublicKey
	submissions     []submission
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances: make(map[solana.PublicKey]*big.Int),
		rent:     big.NewInt(890_880),
		accounts: make(map[solana.PublicKey]*domain.RawAccount),
	}
}

func (l *fakeLedger) setBalance(account solana.PublicKey, lamports int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] = big.NewInt(lamports)
}

// move is meant for onSubmit hooks, which already run under the lock.
func (l *fakeLedger) move(from, to solana.PublicKey, lamports int64) {
	amount := big.NewInt(lamports)
	if _, exist := l.balances[from]; !exist {
		l.balances[from] = new(big.Int)
	}
	if _, exist := l.balances[to]; !exist {
		l.balances[to] = new(big.Int)
	}
	l.balances[from].Sub(l.balances[from], amount)
	l.balances[to].Add(l.balances[to], amount)
}

func (l *fakeLedger) credit(to solana.PublicKey, lamports int64) {
	if _, exist := l.balances[to]; !exist {
		l.balances[to] = new(big.Int)
	}
	l.balances[to].Add(l.balances[to], big.NewInt(lamports))
}

func (l *fakeLedger) Balance(ctx context.Context, account solana.PublicKey) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balanceErr != nil {
		return nil, l.balanceErr
	}
	if balance, exist := l.balances[account]; exist {
		return new(big.Int).Set(balance), nil
	}
	return new(big.Int), nil
}

func (l *fakeLedger) MinimumRentExemption(ctx context.Context, dataSize uint64) (*big.Int, error) {
	return new(big.Int).Set(l.rent), nil
}

func (l *fakeLedger) LargestTokenAccounts(ctx context.Context, mint solana.PublicKey) ([]solana.PublicKey, error) {
	if l.largestErr != nil {
		return nil, l.largestErr
	}
	return l.largest, nil
}

func (l *fakeLedger) Accounts(ctx context.Context, addresses []solana.PublicKey) ([]*domain.RawAccount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accountRequests = append(l.accountRequests, addresses)
	if l.accountsErr != nil {
		return nil, l.accountsErr
	}
	result := make([]*domain.RawAccount, len(addresses))
	for i, address := range addresses {
		result[i] = l.accounts[address]
	}
	return result, nil
}

func (l *fakeLedger) SubmitAndConfirm(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, signers ...solana.PrivateKey) (solana.Signature, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.submitErr != nil {
		return solana.Signature{}, l.submitErr
	}

	index := len(l.submissions)
	l.submissions = append(l.submissions, submission{instructions: instructions, payer: payer.PublicKey()})
	if index < len(l.onSubmit) {
		l.onSubmit[index](l)
	}
	return solana.Signature{byte(index + 1)}, nil
}

func (l *fakeLedger) submissionCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.submissions)
}

type fakeFeeProgram struct {
	pending      *domain.PendingFees
	instructions []solana.Instruction
	pendingErr   error
	claimErr     error
}

func (f *fakeFeeProgram) PendingFees(ctx context.Context, creator solana.PublicKey) (*domain.PendingFees, error) {
	if f.pendingErr != nil {
		return nil, f.pendingErr
	}
	return f.pending, nil
}

func (f *fakeFeeProgram) ClaimInstructions(ctx context.Context, creator solana.PublicKey) ([]solana.Instruction, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	return f.instructions, nil
}

type distributeCall struct {
	authority solana.PublicKey
	holders   []domain.Holder
	share     uint64
}

type fakeDistributor struct {
	vault solana.PublicKey
	calls []distributeCall
}

func (d *fakeDistributor) VaultAddress() solana.PublicKey {
	return d.vault
}

func (d *fakeDistributor) DistributeInstruction(authority solana.PublicKey, holders []domain.Holder, share uint64) (solana.Instruction, error) {
	d.calls = append(d.calls, distributeCall{authority: authority, holders: holders, share: share})
	return solana.NewInstruction(solana.SystemProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(authority, true, true),
	}, []byte{0xd1}), nil
}

func pendingOf(lamports int64) *domain.PendingFees {
	pending := &domain.PendingFees{}
	pending.Add(domain.VenueBondingCurve, big.NewInt(lamports))
	return pending
}

func claimInstruction() solana.Instruction {
	return solana.NewInstruction(solana.SystemProgramID, solana.AccountMetaSlice{}, []byte{0xc1})
}
