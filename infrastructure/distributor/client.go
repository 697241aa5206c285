package distributor

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"feedriver/domain"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

const (
	DefaultPoolStateSeed = "pool_state"
	DefaultVaultSeed     = "vault"
)

var (
	ErrorNoVault = errors.New("distribute instruction has no vault account")
)

type Config struct {
	IdlPath         string
	ProgramID       solana.PublicKey
	InstructionName string
	Logger          *slog.Logger
}

func (cfg *Config) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.IdlPath == "" && cfg.ProgramID.IsZero() {
		return ErrorNoProgramID
	}
	if cfg.InstructionName == "" {
		cfg.InstructionName = domain.DefaultDistributeIxName
	}
	return nil
}

// Client builds the equal-split instruction of the distribution program.
type Client struct {
	programID   solana.PublicKey
	vault       solana.PublicKey
	instruction instructionLayout
}

// NewClient resolves the instruction layout from the IDL when one is
// configured, and falls back to the built-in pool layout otherwise.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var parsed *parsedIdl
	var err error
	if cfg.IdlPath != "" {
		doc, readErr := os.ReadFile(cfg.IdlPath)
		if readErr != nil {
			return nil, errors.Wrapf(readErr, "reading idl %s", cfg.IdlPath)
		}
		parsed, err = parseIdl(doc, cfg.InstructionName, cfg.ProgramID)
	} else {
		parsed, err = defaultLayout(cfg.ProgramID, cfg.InstructionName)
	}
	if err != nil {
		return nil, err
	}

	vault, err := findVault(parsed)
	if err != nil {
		return nil, err
	}

	cfg.Logger.Debug("distributor: instruction resolved", "program", parsed.programID,
		"instruction", parsed.instruction.name, "accounts", len(parsed.instruction.accounts), "vault", vault)

	return &Client{
		programID:   parsed.programID,
		vault:       vault,
		instruction: parsed.instruction,
	}, nil
}

func defaultLayout(programID solana.PublicKey, instructionName string) (*parsedIdl, error) {
	poolState, _, err := solana.FindProgramAddress([][]byte{[]byte(DefaultPoolStateSeed)}, programID)
	if err != nil {
		return nil, errors.Wrap(err, "deriving pool state")
	}
	vault, _, err := solana.FindProgramAddress([][]byte{[]byte(DefaultVaultSeed)}, programID)
	if err != nil {
		return nil, errors.Wrap(err, "deriving vault")
	}

	return &parsedIdl{
		programID: programID,
		instruction: instructionLayout{
			name:          instructionName,
			discriminator: bin.SighashInstruction(instructionName),
			accounts: []accountSlot{
				{name: "pool_state", kind: slotFixed, address: poolState, writable: true},
				{name: "vault", kind: slotFixed, address: vault, writable: true},
				{name: "authority", kind: slotAuthority, writable: true, signer: true},
				{name: "system_program", kind: slotFixed, address: solana.SystemProgramID},
			},
			shareArg: true,
		},
	}, nil
}

func findVault(parsed *parsedIdl) (solana.PublicKey, error) {
	for _, slot := range parsed.instruction.accounts {
		if slot.kind == slotFixed && slot.writable && strings.Contains(strings.ToLower(slot.name), "vault") {
			return slot.address, nil
		}
	}
	return solana.PublicKey{}, errors.Wrapf(ErrorNoVault, "%s", parsed.instruction.name)
}

func (c *Client) ProgramID() solana.PublicKey {
	return c.programID
}

func (c *Client) VaultAddress() solana.PublicKey {
	return c.vault
}

// DistributeInstruction pays share lamports to every holder, passed in order
// as writable remaining accounts.
func (c *Client) DistributeInstruction(authority solana.PublicKey, holders []domain.Holder, share uint64) (solana.Instruction, error) {
	accounts := make(solana.AccountMetaSlice, 0, len(c.instruction.accounts)+len(holders))
	for _, slot := range c.instruction.accounts {
		address := slot.address
		if slot.kind == slotAuthority {
			address = authority
		}
		accounts = append(accounts, solana.NewAccountMeta(address, slot.writable, slot.signer))
	}
	for _, holder := range holders {
		accounts = append(accounts, solana.NewAccountMeta(holder.Address, true, false))
	}

	data := new(bytes.Buffer)
	data.Write(c.instruction.discriminator)
	if c.instruction.shareArg {
		if err := bin.NewBorshEncoder(data).Encode(share); err != nil {
			return nil, errors.Wrap(err, "encoding share")
		}
	}

	return solana.NewInstruction(c.programID, accounts, data.Bytes()), nil
}
