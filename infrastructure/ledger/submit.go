package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

// SubmitAndConfirm builds one transaction paid by payer, signs it with payer
// and the extra signers, and polls its status until the configured commitment
// is reached or the confirmation timeout expires.
func (c *Client) SubmitAndConfirm(ctx context.Context, instructions []solana.Instruction, payer solana.PrivateKey, signers ...solana.PrivateKey) (solana.Signature, error) {
	blockhash, err := c.cfg.RPC.GetLatestBlockhash(ctx, c.cfg.Commitment)
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "getLatestBlockhash")
	}
	if blockhash == nil || blockhash.Value == nil {
		return solana.Signature{}, errors.Wrap(ErrorEmptyResult, "getLatestBlockhash")
	}

	tx, err := solana.NewTransaction(instructions, blockhash.Value.Blockhash, solana.TransactionPayer(payer.PublicKey()))
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "building transaction")
	}

	keys := make(map[solana.PublicKey]solana.PrivateKey, len(signers)+1)
	keys[payer.PublicKey()] = payer
	for _, signer := range signers {
		keys[signer.PublicKey()] = signer
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if signer, exist := keys[key]; exist {
			return &signer
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "signing transaction")
	}

	signature, err := c.cfg.RPC.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.cfg.Commitment,
	})
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "sendTransaction")
	}
	c.cfg.Logger.Debug("ledger: transaction sent", "signature", signature, "instructions", len(instructions))

	if err := c.waitForCommitment(ctx, signature); err != nil {
		return signature, err
	}
	c.cfg.Logger.Debug("ledger: transaction confirmed", "signature", signature, "commitment", c.cfg.Commitment)
	return signature, nil
}

func (c *Client) waitForCommitment(ctx context.Context, signature solana.Signature) error {
	clock := c.cfg.Clock
	deadline := clock.After(c.cfg.ConfirmTimeout)

	for {
		reached, err := c.checkStatus(ctx, signature)
		if err != nil || reached {
			return err
		}

		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "waiting for %s", signature)
		case <-deadline:
			return errors.Wrapf(ErrorConfirmTimeout, "%s after %v", signature, c.cfg.ConfirmTimeout)
		case <-clock.After(c.cfg.PollInterval):
		}
	}
}

func (c *Client) checkStatus(ctx context.Context, signature solana.Signature) (bool, error) {
	statuses, err := c.cfg.RPC.GetSignatureStatuses(ctx, false, signature)
	if err != nil {
		return false, errors.Wrapf(err, "getSignatureStatuses %s", signature)
	}
	if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
		return false, nil
	}

	status := statuses.Value[0]
	if status.Err != nil {
		return false, errors.Wrapf(ErrorTransactionFailed, "%s: %v", signature, status.Err)
	}
	return commitmentRank(rpc.CommitmentType(status.ConfirmationStatus)) >= commitmentRank(c.cfg.Commitment), nil
}

func commitmentRank(commitment rpc.CommitmentType) int {
	switch commitment {
	case rpc.CommitmentProcessed:
		return 1
	case rpc.CommitmentConfirmed:
		return 2
	case rpc.CommitmentFinalized:
		return 3
	default:
		return 0
	}
}
