package system

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
	"github.com/code-payments/code-solana-sdk/pkg/solana/binary"
)

// ProgramKey is the address of the system program.
//
// Current key: 11111111111111111111111111111111
var ProgramKey = make(ed25519.PublicKey, ed25519.PublicKeySize)

type Command uint32

const (
	CommandCreateAccount Command = iota
	CommandAssign
	CommandTransfer
	CommandCreateAccountWithSeed
	CommandAdvanceNonceAccount
	CommandWithdrawNonceAccount
	CommandInitializeNonceAccount
	CommandAuthorizeNonceAccount
	CommandAllocate
	CommandAllocateWithSeed
	CommandAssignWithSeed
	CommandTransferWithSeed
	CommandUpgradeNonceAccount
)

var commandNames = [...]string{
	"CreateAccount",
	"Assign",
	"Transfer",
	"CreateAccountWithSeed",
	"AdvanceNonceAccount",
	"WithdrawNonceAccount",
	"InitializeNonceAccount",
	"AuthorizeNonceAccount",
	"Allocate",
	"AllocateWithSeed",
	"AssignWithSeed",
	"TransferWithSeed",
	"UpgradeNonceAccount",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "Unknown"
}

// InstructionData is the decoded form of every system instruction. Only the
// fields used by Command are meaningful.
//
// Reference: https://github.com/solana-labs/solana/blob/master/sdk/program/src/system_instruction.rs
type InstructionData struct {
	Command Command

	Lamports uint64
	Space    uint64

	// Owner is the program assigned as owner of the account.
	Owner ed25519.PublicKey
	// Base and Seed are used by the *WithSeed commands. TransferWithSeed
	// stores its source seed in Seed.
	Base ed25519.PublicKey
	Seed string
	// Authority is the nonce authority for InitializeNonceAccount and
	// AuthorizeNonceAccount.
	Authority ed25519.PublicKey
}

// Marshal encodes d as system program instruction data.
func (d InstructionData) Marshal() ([]byte, error) {
	e := binary.NewEncoder(4 + 3*ed25519.PublicKeySize).Uint32(uint32(d.Command))

	switch d.Command {
	case CommandCreateAccount:
		e.Uint64(d.Lamports).Uint64(d.Space).Key(d.Owner)
	case CommandAssign:
		e.Key(d.Owner)
	case CommandTransfer, CommandWithdrawNonceAccount:
		e.Uint64(d.Lamports)
	case CommandCreateAccountWithSeed:
		e.Key(d.Base).PrefixedString(d.Seed).Uint64(d.Lamports).Uint64(d.Space).Key(d.Owner)
	case CommandInitializeNonceAccount, CommandAuthorizeNonceAccount:
		e.Key(d.Authority)
	case CommandAllocate:
		e.Uint64(d.Space)
	case CommandAllocateWithSeed:
		e.Key(d.Base).PrefixedString(d.Seed).Uint64(d.Space).Key(d.Owner)
	case CommandAssignWithSeed:
		e.Key(d.Base).PrefixedString(d.Seed).Key(d.Owner)
	case CommandTransferWithSeed:
		e.Uint64(d.Lamports).PrefixedString(d.Seed).Key(d.Owner)
	case CommandAdvanceNonceAccount, CommandUpgradeNonceAccount:
	default:
		return nil, errors.Errorf("unknown system command: %d", d.Command)
	}

	return e.Bytes()
}

// ParseInstructionData decodes system program instruction data.
func ParseInstructionData(data []byte) (d InstructionData, err error) {
	dec := binary.NewDecoder(data)

	cmd, err := dec.Uint32()
	if err != nil {
		return d, solana.ErrIncorrectInstruction
	}
	d.Command = Command(cmd)

	key := func(dst *ed25519.PublicKey, name string) {
		if err == nil {
			*dst, err = dec.Key()
			err = errors.Wrapf(err, "invalid %s", name)
		}
	}
	u64 := func(dst *uint64, name string) {
		if err == nil {
			*dst, err = dec.Uint64()
			err = errors.Wrapf(err, "invalid %s", name)
		}
	}
	seed := func() {
		if err == nil {
			d.Seed, err = dec.PrefixedString()
			err = errors.Wrap(err, "invalid seed")
		}
	}

	switch d.Command {
	case CommandCreateAccount:
		u64(&d.Lamports, "lamports")
		u64(&d.Space, "space")
		key(&d.Owner, "owner")
	case CommandAssign:
		key(&d.Owner, "owner")
	case CommandTransfer, CommandWithdrawNonceAccount:
		u64(&d.Lamports, "lamports")
	case CommandCreateAccountWithSeed:
		key(&d.Base, "base")
		seed()
		u64(&d.Lamports, "lamports")
		u64(&d.Space, "space")
		key(&d.Owner, "owner")
	case CommandInitializeNonceAccount, CommandAuthorizeNonceAccount:
		key(&d.Authority, "authority")
	case CommandAllocate:
		u64(&d.Space, "space")
	case CommandAllocateWithSeed:
		key(&d.Base, "base")
		seed()
		u64(&d.Space, "space")
		key(&d.Owner, "owner")
	case CommandAssignWithSeed:
		key(&d.Base, "base")
		seed()
		key(&d.Owner, "owner")
	case CommandTransferWithSeed:
		u64(&d.Lamports, "lamports")
		seed()
		key(&d.Owner, "owner")
	case CommandAdvanceNonceAccount, CommandUpgradeNonceAccount:
	default:
		return d, solana.ErrIncorrectInstruction
	}
	if err != nil {
		return d, err
	}

	if err := dec.Done(); err != nil {
		return d, errors.Wrapf(err, "invalid %s data size", d.Command)
	}
	return d, nil
}

func instruction(d InstructionData, accounts ...solana.AccountMeta) (solana.Instruction, error) {
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

// CreateAccount creates a new account owned by owner.
//
//	0. [WRITE, SIGNER] Funding account
//	1. [WRITE, SIGNER] New account
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, size uint64) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandCreateAccount, Lamports: lamports, Space: size, Owner: owner},
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}

// Assign assigns account to a program.
//
//	0. [WRITE, SIGNER] Assigned account public key
func Assign(account, owner ed25519.PublicKey) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandAssign, Owner: owner},
		solana.NewAccountMeta(account, true),
	)
}

// Transfer transfers lamports between system accounts.
//
//	0. [WRITE, SIGNER] Funding account
//	1. [WRITE] Recipient account
func Transfer(from, to ed25519.PublicKey, lamports uint64) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandTransfer, Lamports: lamports},
		solana.NewAccountMeta(from, true),
		solana.NewAccountMeta(to, false),
	)
}

// CreateAccountWithSeed creates an account at an address derived with
// solana.CreateWithSeed.
//
//	0. [WRITE, SIGNER] Funding account
//	1. [WRITE] Created account
//	2. [SIGNER] (optional) Base account; omitted when it is the funding account
func CreateAccountWithSeed(funder, address, base ed25519.PublicKey, seed string, lamports, size uint64, owner ed25519.PublicKey) (solana.Instruction, error) {
	accounts := []solana.AccountMeta{
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, false),
	}
	if !bytes.Equal(base, funder) {
		accounts = append(accounts, solana.NewReadonlyAccountMeta(base, true))
	}

	return instruction(
		InstructionData{
			Command:  CommandCreateAccountWithSeed,
			Base:     base,
			Seed:     seed,
			Lamports: lamports,
			Space:    size,
			Owner:    owner,
		},
		accounts...,
	)
}

// AdvanceNonce consumes the stored nonce, replacing it with a successor.
//
//	0. [WRITE] Nonce account
//	1. [] RecentBlockhashes sysvar
//	2. [SIGNER] Nonce authority
func AdvanceNonce(nonce, authority ed25519.PublicKey) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandAdvanceNonceAccount},
		solana.NewAccountMeta(nonce, false),
		solana.NewReadonlyAccountMeta(RecentBlockhashesSysVar, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

// WithdrawNonce withdraws funds from a nonce account. The withdrawal must
// leave the account balance above the rent exempt reserve or at zero.
//
//	0. [WRITE] Nonce account
//	1. [WRITE] Recipient account
//	2. [] RecentBlockhashes sysvar
//	3. [] Rent sysvar
//	4. [SIGNER] Nonce authority
func WithdrawNonce(nonce, authority, recipient ed25519.PublicKey, lamports uint64) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandWithdrawNonceAccount, Lamports: lamports},
		solana.NewAccountMeta(nonce, false),
		solana.NewAccountMeta(recipient, false),
		solana.NewReadonlyAccountMeta(RecentBlockhashesSysVar, false),
		solana.NewReadonlyAccountMeta(RentSysVar, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

// InitializeNonce changes the state of an uninitialized nonce account to
// initialized, setting the nonce value. No signatures are required, which
// allows derived nonce account addresses.
//
//	0. [WRITE] Nonce account
//	1. [] RecentBlockhashes sysvar
//	2. [] Rent sysvar
func InitializeNonce(nonce, authority ed25519.PublicKey) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandInitializeNonceAccount, Authority: authority},
		solana.NewAccountMeta(nonce, false),
		solana.NewReadonlyAccountMeta(RecentBlockhashesSysVar, false),
		solana.NewReadonlyAccountMeta(RentSysVar, false),
	)
}

// AuthorizeNonce changes the entity authorized to execute nonce instructions
// on the account.
//
//	0. [WRITE] Nonce account
//	1. [SIGNER] Nonce authority
func AuthorizeNonce(nonce, authority, newAuthority ed25519.PublicKey) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandAuthorizeNonceAccount, Authority: newAuthority},
		solana.NewAccountMeta(nonce, false),
		solana.NewReadonlyAccountMeta(authority, true),
	)
}

// Allocate allocates space in a (possibly new) account without funding it.
//
//	0. [WRITE, SIGNER] New account
func Allocate(account ed25519.PublicKey, size uint64) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandAllocate, Space: size},
		solana.NewAccountMeta(account, true),
	)
}

//	0. [WRITE] Allocated account
//	1. [SIGNER] Base account
func AllocateWithSeed(account, base ed25519.PublicKey, seed string, size uint64, owner ed25519.PublicKey) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandAllocateWithSeed, Base: base, Seed: seed, Space: size, Owner: owner},
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(base, true),
	)
}

//	0. [WRITE] Assigned account
//	1. [SIGNER] Base account
func AssignWithSeed(account, base ed25519.PublicKey, seed string, owner ed25519.PublicKey) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandAssignWithSeed, Base: base, Seed: seed, Owner: owner},
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(base, true),
	)
}

// TransferWithSeed transfers lamports from a derived address.
//
//	0. [WRITE] Funding account
//	1. [SIGNER] Base for funding account
//	2. [WRITE] Recipient account
func TransferWithSeed(from, base ed25519.PublicKey, fromSeed string, fromOwner, to ed25519.PublicKey, lamports uint64) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandTransferWithSeed, Lamports: lamports, Seed: fromSeed, Owner: fromOwner},
		solana.NewAccountMeta(from, false),
		solana.NewReadonlyAccountMeta(base, true),
		solana.NewAccountMeta(to, false),
	)
}

// UpgradeNonce upgrades a legacy nonce account to the current version.
//
//	0. [WRITE] Nonce account
func UpgradeNonce(nonce ed25519.PublicKey) (solana.Instruction, error) {
	return instruction(
		InstructionData{Command: CommandUpgradeNonceAccount},
		solana.NewAccountMeta(nonce, false),
	)
}

type DecompiledCreateAccount struct {
	Funder  ed25519.PublicKey
	Address ed25519.PublicKey

	Lamports uint64
	Size     uint64
	Owner    ed25519.PublicKey
}

func DecompileCreateAccount(ix solana.Instruction) (*DecompiledCreateAccount, error) {
	d, err := decompile(ix, CommandCreateAccount, 2)
	if err != nil {
		return nil, err
	}

	return &DecompiledCreateAccount{
		Funder:   ix.Accounts[0].PublicKey,
		Address:  ix.Accounts[1].PublicKey,
		Lamports: d.Lamports,
		Size:     d.Space,
		Owner:    d.Owner,
	}, nil
}

type DecompiledTransfer struct {
	From     ed25519.PublicKey
	To       ed25519.PublicKey
	Lamports uint64
}

func DecompileTransfer(ix solana.Instruction) (*DecompiledTransfer, error) {
	d, err := decompile(ix, CommandTransfer, 2)
	if err != nil {
		return nil, err
	}

	return &DecompiledTransfer{
		From:     ix.Accounts[0].PublicKey,
		To:       ix.Accounts[1].PublicKey,
		Lamports: d.Lamports,
	}, nil
}

type DecompiledAdvanceNonce struct {
	Nonce     ed25519.PublicKey
	Authority ed25519.PublicKey
}

func DecompileAdvanceNonce(ix solana.Instruction) (*DecompiledAdvanceNonce, error) {
	if _, err := decompile(ix, CommandAdvanceNonceAccount, 3); err != nil {
		return nil, err
	}
	if !bytes.Equal(RecentBlockhashesSysVar, ix.Accounts[1].PublicKey) {
		return nil, errors.Errorf("invalid RecentBlockhashesSysVar")
	}

	return &DecompiledAdvanceNonce{
		Nonce:     ix.Accounts[0].PublicKey,
		Authority: ix.Accounts[2].PublicKey,
	}, nil
}

type DecompiledWithdrawNonce struct {
	Nonce     ed25519.PublicKey
	Authority ed25519.PublicKey
	Recipient ed25519.PublicKey
	Amount    uint64
}

func DecompileWithdrawNonce(ix solana.Instruction) (*DecompiledWithdrawNonce, error) {
	d, err := decompile(ix, CommandWithdrawNonceAccount, 5)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(RecentBlockhashesSysVar, ix.Accounts[2].PublicKey) {
		return nil, errors.Errorf("invalid RecentBlockhashesSysVar")
	}
	if !bytes.Equal(RentSysVar, ix.Accounts[3].PublicKey) {
		return nil, errors.Errorf("invalid RentSysVar")
	}

	return &DecompiledWithdrawNonce{
		Nonce:     ix.Accounts[0].PublicKey,
		Recipient: ix.Accounts[1].PublicKey,
		Authority: ix.Accounts[4].PublicKey,
		Amount:    d.Lamports,
	}, nil
}

// GetCommand returns the command of a system instruction.
func GetCommand(ix solana.Instruction) (Command, error) {
	if !bytes.Equal(ix.Program, ProgramKey) {
		return 0, solana.ErrIncorrectProgram
	}

	cmd, err := binary.NewDecoder(ix.Data).Uint32()
	if err != nil {
		return 0, errors.New("system instruction missing data")
	}
	return Command(cmd), nil
}

func decompile(ix solana.Instruction, expected Command, accounts int) (InstructionData, error) {
	if !bytes.Equal(ix.Program, ProgramKey) {
		return InstructionData{}, solana.ErrIncorrectProgram
	}

	d, err := ParseInstructionData(ix.Data)
	if err == solana.ErrIncorrectInstruction {
		return d, err
	}
	if d.Command != expected {
		return d, solana.ErrIncorrectInstruction
	}
	if len(ix.Accounts) != accounts {
		return d, errors.Errorf("invalid number of accounts: %d", len(ix.Accounts))
	}
	return d, err
}
