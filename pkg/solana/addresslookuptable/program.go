package address_lookup_table

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
	"github.com/code-payments/code-solana-sdk/pkg/solana/binary"
	"github.com/code-payments/code-solana-sdk/pkg/solana/system"
)

// Reference: https://github.com/solana-program/address-lookup-table/blob/main/program/src/instruction.rs

// AddressLookupTab1e1111111111111111111111111
var ProgramKey = ed25519.PublicKey{2, 119, 166, 175, 151, 51, 155, 122, 200, 141, 24, 146, 201, 4, 70, 245, 0, 2, 48, 146, 102, 246, 46, 83, 193, 24, 36, 73, 130, 0, 0, 0}

type Command uint32

const (
	CommandCreateLookupTable Command = iota
	CommandFreezeLookupTable
	CommandExtendLookupTable
	CommandDeactivateLookupTable
	CommandCloseLookupTable

	CommandUnknown = Command(math.MaxUint32)
)

var commandNames = [...]string{
	"CreateLookupTable",
	"FreezeLookupTable",
	"ExtendLookupTable",
	"DeactivateLookupTable",
	"CloseLookupTable",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "Unknown"
}

type InstructionData struct {
	Command Command

	// RecentSlot and Bump are set by CreateLookupTable.
	RecentSlot uint64
	Bump       uint8

	// Addresses is set by ExtendLookupTable.
	Addresses []ed25519.PublicKey
}

func (d InstructionData) Marshal() ([]byte, error) {
	e := binary.NewEncoder(4 + 8 + len(d.Addresses)*ed25519.PublicKeySize).Uint32(uint32(d.Command))

	switch d.Command {
	case CommandCreateLookupTable:
		e.Uint64(d.RecentSlot).Uint8(d.Bump)
	case CommandExtendLookupTable:
		e.Uint64(uint64(len(d.Addresses)))
		for _, address := range d.Addresses {
			e.Key(address)
		}
	case CommandFreezeLookupTable, CommandDeactivateLookupTable, CommandCloseLookupTable:
	default:
		return nil, errors.Errorf("unknown address lookup table command: %d", d.Command)
	}

	return e.Bytes()
}

func ParseInstructionData(data []byte) (d InstructionData, err error) {
	dec := binary.NewDecoder(data)

	cmd, err := dec.Uint32()
	if err != nil {
		return d, errors.New("address lookup table instruction missing data")
	}
	d.Command = Command(cmd)

	switch d.Command {
	case CommandCreateLookupTable:
		if d.RecentSlot, err = dec.Uint64(); err != nil {
			return d, errors.Wrap(err, "invalid recent slot")
		}
		if d.Bump, err = dec.Uint8(); err != nil {
			return d, errors.Wrap(err, "invalid bump seed")
		}
	case CommandExtendLookupTable:
		count, err := dec.Uint64()
		if err != nil {
			return d, errors.Wrap(err, "invalid address count")
		}
		if count > uint64(dec.Remaining()/ed25519.PublicKeySize) {
			return d, errors.Wrapf(binary.ErrUnexpectedEnd, "address count %d", count)
		}

		d.Addresses = make([]ed25519.PublicKey, count)
		for i := range d.Addresses {
			if d.Addresses[i], err = dec.Key(); err != nil {
				return d, errors.Wrapf(err, "invalid address %d", i)
			}
		}
	case CommandFreezeLookupTable, CommandDeactivateLookupTable, CommandCloseLookupTable:
	default:
		return d, solana.ErrIncorrectInstruction
	}

	return d, dec.Done()
}

// GetCommand returns the command of an address lookup table instruction.
func GetCommand(ix solana.Instruction) (Command, error) {
	if !bytes.Equal(ix.Program, ProgramKey) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}

	d := binary.NewDecoder(ix.Data)
	cmd, err := d.Uint32()
	if err != nil {
		return CommandUnknown, errors.New("address lookup table instruction missing data")
	}
	return Command(cmd), nil
}

func newInstruction(d InstructionData, accounts ...solana.AccountMeta) (solana.Instruction, error) {
	data, err := d.Marshal()
	if err != nil {
		return solana.Instruction{}, errors.Wrapf(err, "invalid %s instruction", d.Command)
	}

	ix := solana.NewInstruction(ProgramKey, data, accounts...)
	if err := ix.Validate(); err != nil {
		return solana.Instruction{}, errors.Wrapf(err, "invalid %s instruction", d.Command)
	}
	return ix, nil
}

// Create returns an instruction that creates a lookup table owned by
// authority, along with the derived table address.
//
// Account references
//   0. [WRITE] Uninitialized address lookup table account
//   1. [SIGNER] Account used to derive and control the new address lookup table.
//   2. [SIGNER, WRITE] Account that will fund the new address lookup table.
//   3. [] System program for CPI.
func Create(authority, payer ed25519.PublicKey, recentSlot uint64) (solana.Instruction, ed25519.PublicKey, error) {
	pda, err := DeriveAddress(authority, recentSlot)
	if err != nil {
		return solana.Instruction{}, nil, err
	}

	ix, err := CreateWithBump(pda.Address, authority, payer, recentSlot, pda.Bump)
	if err != nil {
		return solana.Instruction{}, nil, err
	}
	return ix, pda.Address, nil
}

// CreateWithBump is Create for callers that already derived the table address.
func CreateWithBump(alt, authority, payer ed25519.PublicKey, recentSlot uint64, bumpSeed uint8) (solana.Instruction, error) {
	return newInstruction(
		InstructionData{
			Command:    CommandCreateLookupTable,
			RecentSlot: recentSlot,
			Bump:       bumpSeed,
		},
		solana.NewAccountMeta(alt, false),
		solana.NewReadonlyAccountMeta(authority, true),
		solana.NewAccountMeta(payer, true),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
	)
}

// Freeze permanently prevents further changes to the table.
//
// Account references
//   0. [WRITE] Address lookup table account to freeze
//   1. [SIGNER] Current authority
func Freeze(alt, authority ed25519.PublicKey) (solana.Instruction, error) {
	return newInstruction(
		InstructionData{Command: CommandFreezeLookupTable},
		solana.NewAccountMeta(alt, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

// Extend appends addresses to the table. The payer and system program
// accounts are only included when payer is set, which is needed when the
// table must be funded for its larger size.
//
// Account references
//   0. [WRITE] Address lookup table account to extend
//   1. [SIGNER] Current authority
//   2. [SIGNER, WRITE, OPTIONAL] Account that will fund the table reallocation
//   3. [OPTIONAL] System program for CPI.
func Extend(alt, authority, payer ed25519.PublicKey, addresses ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := []solana.AccountMeta{
		solana.NewAccountMeta(alt, false),
		solana.NewReadonlyAccountMeta(authority, true),
	}
	if payer != nil {
		accounts = append(
			accounts,
			solana.NewAccountMeta(payer, true),
			solana.NewReadonlyAccountMeta(system.ProgramKey, false),
		)
	}

	return newInstruction(
		InstructionData{
			Command:   CommandExtendLookupTable,
			Addresses: addresses,
		},
		accounts...,
	)
}

// Deactivate starts the cool down period before the table can be closed.
//
// Account references
//   0. [WRITE] Address lookup table account to deactivate
//   1. [SIGNER] Current authority
func Deactivate(alt, authority ed25519.PublicKey) (solana.Instruction, error) {
	return newInstruction(
		InstructionData{Command: CommandDeactivateLookupTable},
		solana.NewAccountMeta(alt, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

// Close reclaims the lamports of a deactivated table.
//
// Account references
//   0. [WRITE] Address lookup table account to close
//   1. [SIGNER] Current authority
//   2. [WRITE] Recipient of closed account lamports
func Close(alt, authority, recipient ed25519.PublicKey) (solana.Instruction, error) {
	return newInstruction(
		InstructionData{Command: CommandCloseLookupTable},
		solana.NewAccountMeta(alt, false),
		solana.NewReadonlyAccountMeta(authority, true),
		solana.NewAccountMeta(recipient, false),
	)
}

type DecompiledCreate struct {
	Address    ed25519.PublicKey
	Authority  ed25519.PublicKey
	Payer      ed25519.PublicKey
	RecentSlot uint64
	Bump       uint8
}

// DecompileCreate decompiles a CreateLookupTable instruction and checks that
// the table address matches its derivation.
func DecompileCreate(ix solana.Instruction) (*DecompiledCreate, error) {
	d, err := decompile(ix, CommandCreateLookupTable, 4)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(ix.Accounts[3].PublicKey, system.ProgramKey) {
		return nil, errors.New("system program key mismatch")
	}

	derived, err := solana.CreateProgramAddress(
		ProgramKey,
		ix.Accounts[1].PublicKey,
		slotSeed(d.RecentSlot),
		[]byte{d.Bump},
	)
	if err != nil {
		return nil, errors.Wrap(err, "invalid lookup table seeds")
	}
	if !bytes.Equal(derived, ix.Accounts[0].PublicKey) {
		return nil, errors.New("lookup table address mismatch")
	}

	return &DecompiledCreate{
		Address:    ix.Accounts[0].PublicKey,
		Authority:  ix.Accounts[1].PublicKey,
		Payer:      ix.Accounts[2].PublicKey,
		RecentSlot: d.RecentSlot,
		Bump:       d.Bump,
	}, nil
}

type DecompiledExtend struct {
	Address   ed25519.PublicKey
	Authority ed25519.PublicKey
	Payer     ed25519.PublicKey
	Addresses []ed25519.PublicKey
}

func DecompileExtend(ix solana.Instruction) (*DecompiledExtend, error) {
	d, err := decompile(ix, CommandExtendLookupTable, 2)
	if err != nil {
		return nil, err
	}

	decompiled := &DecompiledExtend{
		Address:   ix.Accounts[0].PublicKey,
		Authority: ix.Accounts[1].PublicKey,
		Addresses: d.Addresses,
	}
	if len(ix.Accounts) > 2 {
		decompiled.Payer = ix.Accounts[2].PublicKey
	}
	return decompiled, nil
}

func slotSeed(slot uint64) []byte {
	return binary.NewEncoder(8).Uint64(slot).MustBytes()
}

func decompile(ix solana.Instruction, expected Command, minAccounts int) (InstructionData, error) {
	cmd, err := GetCommand(ix)
	if err != nil {
		return InstructionData{}, err
	}
	if cmd != expected {
		return InstructionData{}, solana.ErrIncorrectInstruction
	}
	if len(ix.Accounts) < minAccounts {
		return InstructionData{}, errors.Errorf("invalid number of accounts: %d", len(ix.Accounts))
	}

	return ParseInstructionData(ix.Data)
}
