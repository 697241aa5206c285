package ledger

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"feedriver/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	DefaultPollInterval = 500 * time.Millisecond
)

var (
	ErrorConfirmTimeout    = errors.New("transaction was not confirmed in time")
	ErrorTransactionFailed = errors.New("transaction failed")
	ErrorEmptyResult       = errors.New("rpc returned an empty result")
)

// RPC is the subset of the solana-go RPC client the ledger uses.
type RPC interface {
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64, commitment rpc.CommitmentType) (uint64, error)
	GetTokenLargestAccounts(ctx context.Context, mint solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenLargestAccountsResult, error)
	GetMultipleAccountsWithOpts(ctx context.Context, accounts []solana.PublicKey, opts *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

// NewRPC dials the endpoint, rate limited when requestsPerSecond is positive.
func NewRPC(url string, requestsPerSecond int) *rpc.Client {
	if requestsPerSecond <= 0 {
		return rpc.New(url)
	}
	return rpc.NewWithCustomRPCClient(rpc.NewWithLimiter(url, rate.Limit(requestsPerSecond), requestsPerSecond))
}

type Config struct {
	RPC            RPC
	Logger         *slog.Logger
	Commitment     rpc.CommitmentType
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
	Clock          clockwork.Clock
}

func (cfg *Config) Validate() error {
	if cfg.RPC == nil {
		return errors.New("rpc client is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Commitment == "" {
		cfg.Commitment = domain.DefaultCommitment
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = domain.DefaultConfirmTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return nil
}

// Client reads ledger state and submits transactions through a Solana RPC node.
type Client struct {
	cfg Config
}

func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{cfg: cfg}, nil
}

func (c *Client) Commitment() rpc.CommitmentType {
	return c.cfg.Commitment
}

func (c *Client) Balance(ctx context.Context, account solana.PublicKey) (*big.Int, error) {
	result, err := c.cfg.RPC.GetBalance(ctx, account, c.cfg.Commitment)
	if err != nil {
		return nil, errors.Wrapf(err, "getBalance %s", account)
	}
	if result == nil {
		return nil, errors.Wrapf(ErrorEmptyResult, "getBalance %s", account)
	}
	return new(big.Int).SetUint64(result.Value), nil
}

func (c *Client) MinimumRentExemption(ctx context.Context, dataSize uint64) (*big.Int, error) {
	lamports, err := c.cfg.RPC.GetMinimumBalanceForRentExemption(ctx, dataSize, c.cfg.Commitment)
	if err != nil {
		return nil, errors.Wrapf(err, "getMinimumBalanceForRentExemption %d", dataSize)
	}
	return new(big.Int).SetUint64(lamports), nil
}

// LargestTokenAccounts returns the mint's token accounts in the node's ranking,
// largest first.
func (c *Client) LargestTokenAccounts(ctx context.Context, mint solana.PublicKey) ([]solana.PublicKey, error) {
	result, err := c.cfg.RPC.GetTokenLargestAccounts(ctx, mint, c.cfg.Commitment)
	if err != nil {
		return nil, errors.Wrapf(err, "getTokenLargestAccounts %s", mint)
	}
	if result == nil {
		return nil, errors.Wrapf(ErrorEmptyResult, "getTokenLargestAccounts %s", mint)
	}

	addresses := make([]solana.PublicKey, 0, len(result.Value))
	for _, account := range result.Value {
		if account == nil {
			continue
		}
		addresses = append(addresses, account.Address)
	}
	return addresses, nil
}

func (c *Client) Accounts(ctx context.Context, addresses []solana.PublicKey) ([]*domain.RawAccount, error) {
	if len(addresses) == 0 {
		return []*domain.RawAccount{}, nil
	}

	result, err := c.cfg.RPC.GetMultipleAccountsWithOpts(ctx, addresses, &rpc.GetMultipleAccountsOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.cfg.Commitment,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "getMultipleAccounts (%d accounts)", len(addresses))
	}
	if result == nil {
		return nil, errors.Wrap(ErrorEmptyResult, "getMultipleAccounts")
	}

	accounts := make([]*domain.RawAccount, len(addresses))
	for i, account := range result.Value {
		if i >= len(addresses) || account == nil {
			continue
		}
		raw := &domain.RawAccount{
			Address:  addresses[i],
			Owner:    account.Owner,
			Lamports: account.Lamports,
		}
		if account.Data != nil {
			raw.Data = account.Data.GetBinary()
		}
		accounts[i] = raw
	}
	return accounts, nil
}
