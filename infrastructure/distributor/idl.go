package distributor

import (
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var (
	ErrorInvalidIdl           = errors.New("invalid distributor idl")
	ErrorInstructionNotFound  = errors.New("instruction not found in idl")
	ErrorUnresolvableAccount  = errors.New("instruction account cannot be resolved")
	ErrorUnsupportedArguments = errors.New("instruction arguments are not supported")
	ErrorNoProgramID          = errors.New("no distributor program id")
)

// discriminatorSize is the length of an Anchor instruction discriminator.
const discriminatorSize = 8

type slotKind int

const (
	slotFixed slotKind = iota
	slotAuthority
)

// accountSlot is one account of the distribute instruction. Fixed slots carry
// their address; authority slots take the signing pool owner.
type accountSlot struct {
	name     string
	kind     slotKind
	address  solana.PublicKey
	writable bool
	signer   bool
}

type instructionLayout struct {
	name          string
	discriminator []byte
	accounts      []accountSlot
	shareArg      bool
}

// parsedIdl is what the client needs out of an Anchor IDL document.
type parsedIdl struct {
	programID   solana.PublicKey
	instruction instructionLayout
}

// parseIdl reads both the current Anchor IDL format (top-level address,
// writable/signer flags, byte-array seeds) and the legacy one (metadata.address,
// isMut/isSigner flags, string seeds). programID, when set, wins over the
// address in the document.
func parseIdl(doc []byte, instructionName string, programID solana.PublicKey) (*parsedIdl, error) {
	if !gjson.ValidBytes(doc) {
		return nil, errors.Wrap(ErrorInvalidIdl, "not a json document")
	}
	root := gjson.ParseBytes(doc)

	if programID.IsZero() {
		address := root.Get("address")
		if !address.Exists() {
			address = root.Get("metadata.address")
		}
		if !address.Exists() {
			return nil, ErrorNoProgramID
		}
		var err error
		programID, err = solana.PublicKeyFromBase58(address.String())
		if err != nil {
			return nil, errors.Wrapf(ErrorInvalidIdl, "program address %q", address.String())
		}
	}

	var instruction gjson.Result
	root.Get("instructions").ForEach(func(_, value gjson.Result) bool {
		name := value.Get("name").String()
		if name == instructionName || bin.ToSnakeForSighash(name) == bin.ToSnakeForSighash(instructionName) {
			instruction = value
			return false
		}
		return true
	})
	if !instruction.Exists() {
		return nil, errors.Wrapf(ErrorInstructionNotFound, "%q", instructionName)
	}

	layout, err := parseInstruction(instruction, programID)
	if err != nil {
		return nil, err
	}

	return &parsedIdl{programID: programID, instruction: *layout}, nil
}

func parseInstruction(instruction gjson.Result, programID solana.PublicKey) (*instructionLayout, error) {
	layout := &instructionLayout{name: instruction.Get("name").String()}

	if discriminator := instruction.Get("discriminator"); discriminator.IsArray() {
		for _, b := range discriminator.Array() {
			layout.discriminator = append(layout.discriminator, byte(b.Uint()))
		}
		if len(layout.discriminator) != discriminatorSize {
			return nil, errors.Wrapf(ErrorInvalidIdl, "discriminator of %s has %d bytes", layout.name, len(layout.discriminator))
		}
	} else {
		layout.discriminator = bin.SighashInstruction(layout.name)
	}

	for _, account := range instruction.Get("accounts").Array() {
		slot, err := parseAccount(account, programID)
		if err != nil {
			return nil, err
		}
		layout.accounts = append(layout.accounts, *slot)
	}

	args := instruction.Get("args").Array()
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0].Get("type").String() == "u64":
		layout.shareArg = true
	default:
		return nil, errors.Wrapf(ErrorUnsupportedArguments, "%s takes %s", layout.name, instruction.Get("args").Raw)
	}

	return layout, nil
}

func parseAccount(account gjson.Result, programID solana.PublicKey) (*accountSlot, error) {
	if account.Get("accounts").Exists() {
		return nil, errors.Wrapf(ErrorUnresolvableAccount, "nested account group %s", account.Get("name").String())
	}

	slot := &accountSlot{
		name:     account.Get("name").String(),
		writable: account.Get("writable").Bool() || account.Get("isMut").Bool(),
		signer:   account.Get("signer").Bool() || account.Get("isSigner").Bool(),
	}

	if address := account.Get("address"); address.Exists() {
		key, err := solana.PublicKeyFromBase58(address.String())
		if err != nil {
			return nil, errors.Wrapf(ErrorInvalidIdl, "address of %s", slot.name)
		}
		slot.kind = slotFixed
		slot.address = key
		return slot, nil
	}

	if pda := account.Get("pda"); pda.Exists() {
		seeds, err := constSeeds(pda.Get("seeds"))
		if err != nil {
			return nil, errors.Wrapf(err, "seeds of %s", slot.name)
		}
		owner := programID
		if program := pda.Get("program"); program.Exists() {
			programSeed, err := constSeed(program)
			if err != nil {
				return nil, errors.Wrapf(err, "program of %s", slot.name)
			}
			owner = solana.PublicKeyFromBytes(programSeed)
		}
		key, _, err := solana.FindProgramAddress(seeds, owner)
		if err != nil {
			return nil, errors.Wrapf(err, "deriving %s", slot.name)
		}
		slot.kind = slotFixed
		slot.address = key
		return slot, nil
	}

	if slot.signer {
		slot.kind = slotAuthority
		return slot, nil
	}

	switch bin.ToSnakeForSighash(slot.name) {
	case "system_program":
		slot.kind = slotFixed
		slot.address = solana.SystemProgramID
		return slot, nil
	case "program":
		slot.kind = slotFixed
		slot.address = programID
		return slot, nil
	}

	return nil, errors.Wrapf(ErrorUnresolvableAccount, "%s", slot.name)
}

func constSeeds(seeds gjson.Result) ([][]byte, error) {
	result := make([][]byte, 0, 2)
	for _, seed := range seeds.Array() {
		value, err := constSeed(seed)
		if err != nil {
			return nil, err
		}
		result = append(result, value)
	}
	return result, nil
}

// constSeed only resolves seeds fixed at build time; seeds taken from other
// accounts or arguments would need runtime state the driver does not have.
func constSeed(seed gjson.Result) ([]byte, error) {
	if kind := seed.Get("kind").String(); kind != "const" {
		return nil, errors.Wrapf(ErrorUnresolvableAccount, "seed kind %q", kind)
	}

	value := seed.Get("value")
	switch {
	case value.IsArray():
		bytes := make([]byte, 0, len(value.Array()))
		for _, b := range value.Array() {
			bytes = append(bytes, byte(b.Uint()))
		}
		return bytes, nil
	case value.Type == gjson.String:
		if strings.EqualFold(seed.Get("type").String(), "publicKey") || strings.EqualFold(seed.Get("type").String(), "pubkey") {
			key, err := solana.PublicKeyFromBase58(value.String())
			if err != nil {
				return nil, errors.Wrapf(ErrorInvalidIdl, "seed %q", value.String())
			}
			return key.Bytes(), nil
		}
		return []byte(value.String()), nil
	default:
		return nil, errors.Wrapf(ErrorInvalidIdl, "seed value %s", value.Raw)
	}
}
