package token

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
	"github.com/code-payments/code-solana-sdk/pkg/solana/binary"
	"github.com/code-payments/code-solana-sdk/pkg/solana/system"
)

// ProgramKey is the address of the SPL token program.
//
// Current key: TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
var ProgramKey = ed25519.PublicKey{6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172, 28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169}

// Token2022ProgramKey is the address of the token extensions program, which
// accepts the same base instruction set.
//
// Current key: TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb
var Token2022ProgramKey = ed25519.PublicKey{6, 221, 246, 225, 238, 117, 143, 222, 24, 66, 93, 188, 228, 108, 205, 218, 182, 26, 252, 77, 131, 185, 13, 39, 254, 189, 249, 40, 216, 161, 139, 252}

// MaxSigners is the maximum number of signers of a multisig account.
const MaxSigners = 11

type Command byte

const (
	CommandInitializeMint Command = iota
	CommandInitializeAccount
	CommandInitializeMultisig
	CommandTransfer
	CommandApprove
	CommandRevoke
	CommandSetAuthority
	CommandMintTo
	CommandBurn
	CommandCloseAccount
	CommandFreezeAccount
	CommandThawAccount
	CommandTransferChecked
	CommandApproveChecked
	CommandMintToChecked
	CommandBurnChecked
	CommandInitializeAccount2
	CommandSyncNative
	CommandInitializeAccount3
	CommandInitializeMultisig2
	CommandInitializeMint2
	CommandGetAccountDataSize
	CommandInitializeImmutableOwner
	CommandAmountToUIAmount
	CommandUIAmountToAmount

	CommandUnknown = Command(math.MaxUint8)
)

var commandNames = [...]string{
	"InitializeMint",
	"InitializeAccount",
	"InitializeMultisig",
	"Transfer",
	"Approve",
	"Revoke",
	"SetAuthority",
	"MintTo",
	"Burn",
	"CloseAccount",
	"FreezeAccount",
	"ThawAccount",
	"TransferChecked",
	"ApproveChecked",
	"MintToChecked",
	"BurnChecked",
	"InitializeAccount2",
	"SyncNative",
	"InitializeAccount3",
	"InitializeMultisig2",
	"InitializeMint2",
	"GetAccountDataSize",
	"InitializeImmutableOwner",
	"AmountToUiAmount",
	"UiAmountToAmount",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "Unknown"
}

type AuthorityType byte

const (
	AuthorityTypeMintTokens AuthorityType = iota
	AuthorityTypeFreezeAccount
	AuthorityTypeAccountHolder
	AuthorityTypeCloseAccount
)

// IsTokenProgram reports whether key is the SPL token program or the token
// extensions program.
func IsTokenProgram(key ed25519.PublicKey) bool {
	return bytes.Equal(key, ProgramKey) || bytes.Equal(key, Token2022ProgramKey)
}

// GetCommand returns the command of a token instruction.
func GetCommand(ix solana.Instruction) (Command, error) {
	if !IsTokenProgram(ix.Program) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(ix.Data) == 0 {
		return CommandUnknown, errors.New("token instruction missing data")
	}

	return Command(ix.Data[0]), nil
}

// InstructionData is the decoded form of every token instruction. Only the
// fields used by Command are meaningful.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token/program/src/instruction.rs
type InstructionData struct {
	Command Command

	Amount          uint64
	Decimals        byte
	RequiredSigners byte
	AuthorityType   AuthorityType

	// MintAuthority is set by InitializeMint(2).
	MintAuthority ed25519.PublicKey
	// FreezeAuthority is optional for InitializeMint(2).
	FreezeAuthority ed25519.PublicKey
	// NewAuthority is optional for SetAuthority. Nil revokes the authority.
	NewAuthority ed25519.PublicKey
	// Owner is set by InitializeAccount2 and InitializeAccount3.
	Owner ed25519.PublicKey

	UIAmount string
}

// Marshal encodes d as token program instruction data.
func (d InstructionData) Marshal() ([]byte, error) {
	e := binary.NewEncoder(1 + 1 + 2*(1+ed25519.PublicKeySize)).Uint8(byte(d.Command))

	switch d.Command {
	case CommandInitializeMint, CommandInitializeMint2:
		e.Uint8(d.Decimals).Key(d.MintAuthority).OptionalKey(d.FreezeAuthority)
	case CommandInitializeMultisig, CommandInitializeMultisig2:
		e.Uint8(d.RequiredSigners)
	case CommandTransfer, CommandApprove, CommandMintTo, CommandBurn, CommandAmountToUIAmount:
		e.Uint64(d.Amount)
	case CommandTransferChecked, CommandApproveChecked, CommandMintToChecked, CommandBurnChecked:
		e.Uint64(d.Amount).Uint8(d.Decimals)
	case CommandSetAuthority:
		e.Uint8(byte(d.AuthorityType)).OptionalKey(d.NewAuthority)
	case CommandInitializeAccount2, CommandInitializeAccount3:
		e.Key(d.Owner)
	case CommandUIAmountToAmount:
		e.Raw([]byte(d.UIAmount))
	case CommandInitializeAccount, CommandRevoke, CommandCloseAccount, CommandFreezeAccount,
		CommandThawAccount, CommandSyncNative, CommandGetAccountDataSize, CommandInitializeImmutableOwner:
	default:
		return nil, errors.Errorf("unknown token command: %d", d.Command)
	}

	return e.Bytes()
}

// ParseInstructionData decodes token program instruction data.
func ParseInstructionData(data []byte) (d InstructionData, err error) {
	dec := binary.NewDecoder(data)

	cmd, err := dec.Uint8()
	if err != nil {
		return d, errors.New("token instruction missing data")
	}
	d.Command = Command(cmd)

	switch d.Command {
	case CommandInitializeMint, CommandInitializeMint2:
		if d.Decimals, err = dec.Uint8(); err != nil {
			return d, errors.Wrap(err, "invalid decimals")
		}
		if d.MintAuthority, err = dec.Key(); err != nil {
			return d, errors.Wrap(err, "invalid mint authority")
		}
		if d.FreezeAuthority, err = dec.OptionalKey(); err != nil {
			return d, errors.Wrap(err, "invalid freeze authority")
		}
	case CommandInitializeMultisig, CommandInitializeMultisig2:
		if d.RequiredSigners, err = dec.Uint8(); err != nil {
			return d, errors.Wrap(err, "invalid required signers")
		}
	case CommandTransfer, CommandApprove, CommandMintTo, CommandBurn, CommandAmountToUIAmount:
		if d.Amount, err = dec.Uint64(); err != nil {
			return d, errors.Wrap(err, "invalid amount")
		}
	case CommandTransferChecked, CommandApproveChecked, CommandMintToChecked, CommandBurnChecked:
		if d.Amount, err = dec.Uint64(); err != nil {
			return d, errors.Wrap(err, "invalid amount")
		}
		if d.Decimals, err = dec.Uint8(); err != nil {
			return d, errors.Wrap(err, "invalid decimals")
		}
	case CommandSetAuthority:
		authorityType, err := dec.Uint8()
		if err != nil {
			return d, errors.Wrap(err, "invalid authority type")
		}
		d.AuthorityType = AuthorityType(authorityType)
		if d.NewAuthority, err = dec.OptionalKey(); err != nil {
			return d, errors.Wrap(err, "invalid new authority")
		}
	case CommandInitializeAccount2, CommandInitializeAccount3:
		if d.Owner, err = dec.Key(); err != nil {
			return d, errors.Wrap(err, "invalid owner")
		}
	case CommandUIAmountToAmount:
		raw, _ := dec.Raw(dec.Remaining())
		d.UIAmount = string(raw)
	case CommandInitializeAccount, CommandRevoke, CommandCloseAccount, CommandFreezeAccount,
		CommandThawAccount, CommandSyncNative, CommandGetAccountDataSize, CommandInitializeImmutableOwner:
	default:
		return d, solana.ErrIncorrectInstruction
	}

	if err := dec.Done(); err != nil {
		return d, errors.Wrapf(err, "invalid %s data size", d.Command)
	}
	return d, nil
}

// Program builds instructions against a specific token program deployment.
type Program struct {
	key ed25519.PublicKey
}

// ForProgram returns a builder for a token program other than the default,
// such as Token2022ProgramKey. The instructions it builds differ from the
// default ones only in their program id.
func ForProgram(key ed25519.PublicKey) Program {
	return Program{key: key}
}

var defaultProgram = ForProgram(ProgramKey)

func (p Program) Key() ed25519.PublicKey {
	return p.key
}

func (p Program) instruction(d InstructionData, accounts ...solana.AccountMeta) (solana.Instruction, error) {
	data, err := d.Marshal()
	if err != nil {
		return solana.Instruction{}, errors.Wrapf(err, "invalid %s instruction", d.Command)
	}

	ix := solana.NewInstruction(p.key, data, accounts...)
	if err := ix.Validate(); err != nil {
		return solana.Instruction{}, errors.Wrapf(err, "invalid %s instruction", d.Command)
	}
	return ix, nil
}

// authority returns the metas for a single authority, or for a multisig
// authority followed by its signers.
func authority(owner ed25519.PublicKey, signers []ed25519.PublicKey) []solana.AccountMeta {
	if len(signers) == 0 {
		return []solana.AccountMeta{solana.NewReadonlyAccountMeta(owner, true)}
	}

	accounts := make([]solana.AccountMeta, 1+len(signers))
	accounts[0] = solana.NewReadonlyAccountMeta(owner, false)
	for i, s := range signers {
		accounts[1+i] = solana.NewReadonlyAccountMeta(s, true)
	}
	return accounts
}

// InitializeMint initializes a new mint. freezeAuthority may be nil.
//
//	0. `[writable]` The mint to initialize.
//	1. `[]` Rent sysvar
func (p Program) InitializeMint(mint, mintAuthority, freezeAuthority ed25519.PublicKey, decimals byte) (solana.Instruction, error) {
	return p.instruction(
		InstructionData{
			Command:         CommandInitializeMint,
			Decimals:        decimals,
			MintAuthority:   mintAuthority,
			FreezeAuthority: freezeAuthority,
		},
		solana.NewAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

// InitializeMint2 is InitializeMint without the rent sysvar.
func (p Program) InitializeMint2(mint, mintAuthority, freezeAuthority ed25519.PublicKey, decimals byte) (solana.Instruction, error) {
	return p.instruction(
		InstructionData{
			Command:         CommandInitializeMint2,
			Decimals:        decimals,
			MintAuthority:   mintAuthority,
			FreezeAuthority: freezeAuthority,
		},
		solana.NewAccountMeta(mint, false),
	)
}

// InitializeAccount initializes a new token account.
//
//	0. `[writable]` The account to initialize.
//	1. `[]` The mint this account will be associated with.
//	2. `[]` The new account's owner/multisignature.
//	3. `[]` Rent sysvar
func (p Program) InitializeAccount(account, mint, owner ed25519.PublicKey) (solana.Instruction, error) {
	return p.instruction(
		InstructionData{Command: CommandInitializeAccount},
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(owner, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

// InitializeAccount2 is InitializeAccount with the owner passed as data.
func (p Program) InitializeAccount2(account, mint, owner ed25519.PublicKey) (solana.Instruction, error) {
	return p.instruction(
		InstructionData{Command: CommandInitializeAccount2, Owner: owner},
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

// InitializeAccount3 is InitializeAccount2 without the rent sysvar.
func (p Program) InitializeAccount3(account, mint, owner ed25519.PublicKey) (solana.Instruction, error) {
	return p.instruction(
		InstructionData{Command: CommandInitializeAccount3, Owner: owner},
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(mint, false),
	)
}

// InitializeMultisig initializes a multisig account.
//
//	0. `[writable]` The multisignature account to initialize.
//	1. `[]` Rent sysvar
//	2. ..2+N. `[]` The signer accounts, must equal to N where 1 <= N <= 11.
func (p Program) InitializeMultisig(account ed25519.PublicKey, requiredSigners byte, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := make([]solana.AccountMeta, 2+len(signers))
	accounts[0] = solana.NewAccountMeta(account, false)
	accounts[1] = solana.NewReadonlyAccountMeta(system.RentSysVar, false)
	for i := 0; i < len(signers); i++ {
		accounts[i+2] = solana.NewReadonlyAccountMeta(signers[i], false)
	}

	return p.instruction(
		InstructionData{Command: CommandInitializeMultisig, RequiredSigners: requiredSigners},
		accounts...,
	)
}

// InitializeMultisig2 is InitializeMultisig without the rent sysvar.
func (p Program) InitializeMultisig2(account ed25519.PublicKey, requiredSigners byte, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := make([]solana.AccountMeta, 1+len(signers))
	accounts[0] = solana.NewAccountMeta(account, false)
	for i := 0; i < len(signers); i++ {
		accounts[i+1] = solana.NewReadonlyAccountMeta(signers[i], false)
	}

	return p.instruction(
		InstructionData{Command: CommandInitializeMultisig2, RequiredSigners: requiredSigners},
		accounts...,
	)
}

// Transfer moves tokens between accounts of the same mint. If signers are
// provided, owner is treated as a multisig account.
//
//	0. `[writable]` The source account.
//	1. `[writable]` The destination account.
//	2. `[signer]` The source account's owner/delegate, or `[]` for a multisig owner.
//	3. ..3+M `[signer]` M signer accounts.
func (p Program) Transfer(source, dest, owner ed25519.PublicKey, amount uint64, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(source, false),
		solana.NewAccountMeta(dest, false),
	}, authority(owner, signers)...)

	return p.instruction(InstructionData{Command: CommandTransfer, Amount: amount}, accounts...)
}

// TransferChecked is Transfer with the mint and its decimals asserted.
//
//	0. `[writable]` The source account.
//	1. `[]` The token mint.
//	2. `[writable]` The destination account.
//	3. `[signer]` The source account's owner/delegate, or `[]` for a multisig owner.
//	4. ..4+M `[signer]` M signer accounts.
func (p Program) TransferChecked(source, mint, dest, owner ed25519.PublicKey, amount uint64, decimals byte, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewAccountMeta(dest, false),
	}, authority(owner, signers)...)

	return p.instruction(InstructionData{Command: CommandTransferChecked, Amount: amount, Decimals: decimals}, accounts...)
}

// Approve lets a delegate transfer up to amount tokens from source.
//
//	0. `[writable]` The source account.
//	1. `[]` The delegate.
//	2. `[signer]` The source account owner, or `[]` for a multisig owner.
//	3. ..3+M `[signer]` M signer accounts
func (p Program) Approve(source, delegate, owner ed25519.PublicKey, amount uint64, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(delegate, false),
	}, authority(owner, signers)...)

	return p.instruction(InstructionData{Command: CommandApprove, Amount: amount}, accounts...)
}

func (p Program) ApproveChecked(source, mint, delegate, owner ed25519.PublicKey, amount uint64, decimals byte, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(delegate, false),
	}, authority(owner, signers)...)

	return p.instruction(InstructionData{Command: CommandApproveChecked, Amount: amount, Decimals: decimals}, accounts...)
}

// Revoke removes the source account's delegate.
func (p Program) Revoke(source, owner ed25519.PublicKey, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(source, false),
	}, authority(owner, signers)...)

	return p.instruction(InstructionData{Command: CommandRevoke}, accounts...)
}

// SetAuthority sets a new authority of a mint or account. A nil
// newAuthority removes the authority.
//
//	0. `[writable]` The mint or account to change the authority of.
//	1. `[signer]` The current authority, or `[]` for a multisig authority.
//	2. ..2+M `[signer]` M signer accounts
func (p Program) SetAuthority(account, currentAuthority, newAuthority ed25519.PublicKey, authorityType AuthorityType, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(account, false),
	}, authority(currentAuthority, signers)...)

	return p.instruction(
		InstructionData{Command: CommandSetAuthority, AuthorityType: authorityType, NewAuthority: newAuthority},
		accounts...,
	)
}

// MintTo mints new tokens to an account.
//
//	0. `[writable]` The mint.
//	1. `[writable]` The account to mint tokens to.
//	2. `[signer]` The mint's minting authority, or `[]` for a multisig authority.
//	3. ..3+M `[signer]` M signer accounts.
func (p Program) MintTo(mint, dest, mintAuthority ed25519.PublicKey, amount uint64, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(mint, false),
		solana.NewAccountMeta(dest, false),
	}, authority(mintAuthority, signers)...)

	return p.instruction(InstructionData{Command: CommandMintTo, Amount: amount}, accounts...)
}

func (p Program) MintToChecked(mint, dest, mintAuthority ed25519.PublicKey, amount uint64, decimals byte, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(mint, false),
		solana.NewAccountMeta(dest, false),
	}, authority(mintAuthority, signers)...)

	return p.instruction(InstructionData{Command: CommandMintToChecked, Amount: amount, Decimals: decimals}, accounts...)
}

// Burn burns tokens held by account.
//
//	0. `[writable]` The account to burn from.
//	1. `[writable]` The token mint.
//	2. `[signer]` The account's owner/delegate, or `[]` for a multisig owner.
//	3. ..3+M `[signer]` M signer accounts.
func (p Program) Burn(account, mint, owner ed25519.PublicKey, amount uint64, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(account, false),
		solana.NewAccountMeta(mint, false),
	}, authority(owner, signers)...)

	return p.instruction(InstructionData{Command: CommandBurn, Amount: amount}, accounts...)
}

func (p Program) BurnChecked(account, mint, owner ed25519.PublicKey, amount uint64, decimals byte, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(account, false),
		solana.NewAccountMeta(mint, false),
	}, authority(owner, signers)...)

	return p.instruction(InstructionData{Command: CommandBurnChecked, Amount: amount, Decimals: decimals}, accounts...)
}

// CloseAccount closes an account by transferring all its SOL to the
// destination account. Non-native accounts may only be closed if their token
// amount is zero.
//
//	0. `[writable]` The account to close.
//	1. `[writable]` The destination account.
//	2. `[signer]` The account's owner, or `[]` for a multisig owner.
//	3. ..3+M `[signer]` M signer accounts.
func (p Program) CloseAccount(account, dest, owner ed25519.PublicKey, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(account, false),
		solana.NewAccountMeta(dest, false),
	}, authority(owner, signers)...)

	return p.instruction(InstructionData{Command: CommandCloseAccount}, accounts...)
}

// FreezeAccount freezes an account using the mint's freeze authority.
//
//	0. `[writable]` The account to freeze.
//	1. `[]` The token mint.
//	2. `[signer]` The mint freeze authority, or `[]` for a multisig authority.
//	3. ..3+M `[signer]` M signer accounts.
func (p Program) FreezeAccount(account, mint, freezeAuthority ed25519.PublicKey, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(mint, false),
	}, authority(freezeAuthority, signers)...)

	return p.instruction(InstructionData{Command: CommandFreezeAccount}, accounts...)
}

// ThawAccount thaws a frozen account. Accounts match FreezeAccount.
func (p Program) ThawAccount(account, mint, freezeAuthority ed25519.PublicKey, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	accounts := append([]solana.AccountMeta{
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(mint, false),
	}, authority(freezeAuthority, signers)...)

	return p.instruction(InstructionData{Command: CommandThawAccount}, accounts...)
}

// SyncNative updates a native token account's amount to its lamport balance.
func (p Program) SyncNative(account ed25519.PublicKey) (solana.Instruction, error) {
	return p.instruction(
		InstructionData{Command: CommandSyncNative},
		solana.NewAccountMeta(account, false),
	)
}

// GetAccountDataSize asks the program for the size of a token account for mint.
func (p Program) GetAccountDataSize(mint ed25519.PublicKey) (solana.Instruction, error) {
	return p.instruction(
		InstructionData{Command: CommandGetAccountDataSize},
		solana.NewReadonlyAccountMeta(mint, false),
	)
}

// InitializeImmutableOwner marks an uninitialized account's owner as immutable.
func (p Program) InitializeImmutableOwner(account ed25519.PublicKey) (solana.Instruction, error) {
	return p.instruction(
		InstructionData{Command: CommandInitializeImmutableOwner},
		solana.NewAccountMeta(account, false),
	)
}

// AmountToUIAmount converts a raw amount to its display form, returned via
// return data.
func (p Program) AmountToUIAmount(mint ed25519.PublicKey, amount uint64) (solana.Instruction, error) {
	return p.instruction(
		InstructionData{Command: CommandAmountToUIAmount, Amount: amount},
		solana.NewReadonlyAccountMeta(mint, false),
	)
}

// UIAmountToAmount is the inverse of AmountToUIAmount.
func (p Program) UIAmountToAmount(mint ed25519.PublicKey, uiAmount string) (solana.Instruction, error) {
	return p.instruction(
		InstructionData{Command: CommandUIAmountToAmount, UIAmount: uiAmount},
		solana.NewReadonlyAccountMeta(mint, false),
	)
}

// InitializeAccount builds InitializeAccount for the SPL token program.
func InitializeAccount(account, mint, owner ed25519.PublicKey) (solana.Instruction, error) {
	return defaultProgram.InitializeAccount(account, mint, owner)
}

// InitializeMultisig builds InitializeMultisig for the SPL token program.
func InitializeMultisig(account ed25519.PublicKey, requiredSigners byte, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	return defaultProgram.InitializeMultisig(account, requiredSigners, signers...)
}

// SetAuthority builds SetAuthority for the SPL token program.
func SetAuthority(account, currentAuthority, newAuthority ed25519.PublicKey, authorityType AuthorityType, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	return defaultProgram.SetAuthority(account, currentAuthority, newAuthority, authorityType, signers...)
}

// Transfer builds Transfer for the SPL token program.
func Transfer(source, dest, owner ed25519.PublicKey, amount uint64, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	return defaultProgram.Transfer(source, dest, owner, amount, signers...)
}

// TransferChecked builds TransferChecked for the SPL token program.
func TransferChecked(source, mint, dest, owner ed25519.PublicKey, amount uint64, decimals byte, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	return defaultProgram.TransferChecked(source, mint, dest, owner, amount, decimals, signers...)
}

// CloseAccount builds CloseAccount for the SPL token program.
func CloseAccount(account, dest, owner ed25519.PublicKey, signers ...ed25519.PublicKey) (solana.Instruction, error) {
	return defaultProgram.CloseAccount(account, dest, owner, signers...)
}

type DecompiledInitializeAccount struct {
	Account ed25519.PublicKey
	Mint    ed25519.PublicKey
	Owner   ed25519.PublicKey
}

func DecompileInitializeAccount(ix solana.Instruction) (*DecompiledInitializeAccount, error) {
	if _, err := decompile(ix, CommandInitializeAccount, 4); err != nil {
		return nil, err
	}
	if !bytes.Equal(system.RentSysVar, ix.Accounts[3].PublicKey) {
		return nil, errors.Errorf("invalid rent program")
	}

	return &DecompiledInitializeAccount{
		Account: ix.Accounts[0].PublicKey,
		Mint:    ix.Accounts[1].PublicKey,
		Owner:   ix.Accounts[2].PublicKey,
	}, nil
}

type DecompiledSetAuthority struct {
	Account          ed25519.PublicKey
	CurrentAuthority ed25519.PublicKey
	NewAuthority     ed25519.PublicKey
	Type             AuthorityType
}

func DecompileSetAuthority(ix solana.Instruction) (*DecompiledSetAuthority, error) {
	d, err := decompile(ix, CommandSetAuthority, 2)
	if err != nil {
		return nil, err
	}

	return &DecompiledSetAuthority{
		Account:          ix.Accounts[0].PublicKey,
		CurrentAuthority: ix.Accounts[1].PublicKey,
		NewAuthority:     d.NewAuthority,
		Type:             d.AuthorityType,
	}, nil
}

type DecompiledTransfer struct {
	Source      ed25519.PublicKey
	Destination ed25519.PublicKey
	Owner       ed25519.PublicKey
	Amount      uint64
}

func DecompileTransfer(ix solana.Instruction) (*DecompiledTransfer, error) {
	// note: at least 3 accounts in order to support multisig cases.
	d, err := decompile(ix, CommandTransfer, 3)
	if err != nil {
		return nil, err
	}

	return &DecompiledTransfer{
		Source:      ix.Accounts[0].PublicKey,
		Destination: ix.Accounts[1].PublicKey,
		Owner:       ix.Accounts[2].PublicKey,
		Amount:      d.Amount,
	}, nil
}

type DecompiledTransferChecked struct {
	Source      ed25519.PublicKey
	Mint        ed25519.PublicKey
	Destination ed25519.PublicKey
	Owner       ed25519.PublicKey
	Amount      uint64
	Decimals    byte
}

func DecompileTransferChecked(ix solana.Instruction) (*DecompiledTransferChecked, error) {
	d, err := decompile(ix, CommandTransferChecked, 4)
	if err != nil {
		return nil, err
	}

	return &DecompiledTransferChecked{
		Source:      ix.Accounts[0].PublicKey,
		Mint:        ix.Accounts[1].PublicKey,
		Destination: ix.Accounts[2].PublicKey,
		Owner:       ix.Accounts[3].PublicKey,
		Amount:      d.Amount,
		Decimals:    d.Decimals,
	}, nil
}

type DecompiledCloseAccount struct {
	Account     ed25519.PublicKey
	Destination ed25519.PublicKey
	Owner       ed25519.PublicKey
}

func DecompileCloseAccount(ix solana.Instruction) (*DecompiledCloseAccount, error) {
	if _, err := decompile(ix, CommandCloseAccount, 3); err != nil {
		return nil, err
	}

	return &DecompiledCloseAccount{
		Account:     ix.Accounts[0].PublicKey,
		Destination: ix.Accounts[1].PublicKey,
		Owner:       ix.Accounts[2].PublicKey,
	}, nil
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
