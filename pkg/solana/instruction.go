package solana

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana/shortvec"
)

var (
	ErrIncorrectProgram     = errors.New("incorrect program")
	ErrIncorrectInstruction = errors.New("incorrect instruction")
	ErrInvalidAccountKey    = errors.New("invalid account key")
)

// AccountMetaSize is the size of a binary encoded AccountMeta.
const AccountMetaSize = ed25519.PublicKeySize + 2

// AccountMeta represents the account information required
// for building transactions.
//
// IsSigner only states that a signature is expected for the account; nothing
// in this package verifies signatures.
type AccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
}

// NewAccountMeta creates a new AccountMeta representing a writable
// account.
func NewAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: true,
	}
}

// NewReadonlyAccountMeta creates a new AccountMeta representing a readonly
// account.
func NewReadonlyAccountMeta(pub ed25519.PublicKey, isSigner bool) AccountMeta {
	return AccountMeta{
		PublicKey:  pub,
		IsSigner:   isSigner,
		IsWritable: false,
	}
}

// Equal reports whether both metas reference the same key with the same
// permissions.
func (m AccountMeta) Equal(other AccountMeta) bool {
	return bytes.Equal(m.PublicKey, other.PublicKey) &&
		m.IsSigner == other.IsSigner &&
		m.IsWritable == other.IsWritable
}

func (m AccountMeta) String() string {
	var flags string
	switch {
	case m.IsSigner && m.IsWritable:
		flags = "signer, writable"
	case m.IsSigner:
		flags = "signer"
	case m.IsWritable:
		flags = "writable"
	default:
		flags = "readonly"
	}

	return fmt.Sprintf("%s [%s]", base58.Encode(m.PublicKey), flags)
}

// MarshalBinary encodes the meta as the key followed by the signer and
// writable flags, one byte each.
func (m AccountMeta) MarshalBinary() ([]byte, error) {
	if len(m.PublicKey) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid public key size: %d", len(m.PublicKey))
	}

	buf := bytes.NewBuffer(make([]byte, 0, AccountMetaSize))
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteBytes(m.PublicKey, false); err != nil {
		return nil, err
	}
	if err := enc.WriteBool(m.IsSigner); err != nil {
		return nil, err
	}
	if err := enc.WriteBool(m.IsWritable); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a meta produced by MarshalBinary.
func (m *AccountMeta) UnmarshalBinary(data []byte) (err error) {
	if len(data) != AccountMetaSize {
		return errors.Errorf("invalid account meta size: %d (expected %d)", len(data), AccountMetaSize)
	}

	dec := bin.NewBinDecoder(data)
	key, err := dec.ReadNBytes(ed25519.PublicKeySize)
	if err != nil {
		return errors.Wrap(err, "failed to read public key")
	}
	if m.IsSigner, err = dec.ReadBool(); err != nil {
		return errors.Wrap(err, "failed to read signer flag")
	}
	if m.IsWritable, err = dec.ReadBool(); err != nil {
		return errors.Wrap(err, "failed to read writable flag")
	}

	m.PublicKey = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(m.PublicKey, key)
	return nil
}

// Instruction represents a transaction instruction.
//
// The order of Accounts is fixed by the target program's interface.
type Instruction struct {
	Program  ed25519.PublicKey
	Accounts []AccountMeta
	Data     []byte
}

// NewInstruction creates a new instruction.
func NewInstruction(program ed25519.PublicKey, data []byte, accounts ...AccountMeta) Instruction {
	return Instruction{
		Program:  program,
		Data:     data,
		Accounts: accounts,
	}
}

// Validate checks that the program and every account are 32 byte keys.
func (i Instruction) Validate() error {
	if len(i.Program) != ed25519.PublicKeySize {
		return errors.Wrapf(ErrInvalidProgramKey, "got %d bytes", len(i.Program))
	}
	for idx, a := range i.Accounts {
		if len(a.PublicKey) != ed25519.PublicKeySize {
			return errors.Wrapf(ErrInvalidAccountKey, "account %d: got %d bytes", idx, len(a.PublicKey))
		}
	}
	return nil
}

// Equal reports whether two instructions are byte-for-byte identical.
func (i Instruction) Equal(other Instruction) bool {
	if !bytes.Equal(i.Program, other.Program) || !bytes.Equal(i.Data, other.Data) {
		return false
	}
	if len(i.Accounts) != len(other.Accounts) {
		return false
	}
	for idx := range i.Accounts {
		if !i.Accounts[idx].Equal(other.Accounts[idx]) {
			return false
		}
	}
	return true
}

// CompiledInstruction represents an instruction that has been compiled into a transaction.
type CompiledInstruction struct {
	ProgramIndex byte
	Accounts     []byte
	Data         []byte
}

// CompileInstruction resolves the instruction's program and accounts against
// an account key table.
func CompileInstruction(ix Instruction, keys []ed25519.PublicKey) (CompiledInstruction, error) {
	indexOf := func(key ed25519.PublicKey) (byte, error) {
		for i, k := range keys {
			if bytes.Equal(k, key) {
				if i > 255 {
					return 0, errors.Errorf("account index out of range: %d", i)
				}
				return byte(i), nil
			}
		}
		return 0, errors.Errorf("account %s not found in key table", base58.Encode(key))
	}

	programIndex, err := indexOf(ix.Program)
	if err != nil {
		return CompiledInstruction{}, errors.Wrap(err, "failed to resolve program")
	}

	c := CompiledInstruction{
		ProgramIndex: programIndex,
		Accounts:     make([]byte, len(ix.Accounts)),
		Data:         ix.Data,
	}
	for i, a := range ix.Accounts {
		if c.Accounts[i], err = indexOf(a.PublicKey); err != nil {
			return CompiledInstruction{}, errors.Wrapf(err, "failed to resolve account %d", i)
		}
	}

	return c, nil
}

// Marshal encodes the compiled instruction as it appears inside a message.
func (c CompiledInstruction) Marshal() []byte {
	b := bytes.NewBuffer(nil)

	_ = b.WriteByte(c.ProgramIndex)

	// Accounts
	_, _ = shortvec.EncodeLen(b, len(c.Accounts))
	_, _ = b.Write(c.Accounts)

	// Data
	_, _ = shortvec.EncodeLen(b, len(c.Data))
	_, _ = b.Write(c.Data)

	return b.Bytes()
}

// Unmarshal decodes a compiled instruction produced by Marshal.
func (c *CompiledInstruction) Unmarshal(b []byte) (err error) {
	buf := bytes.NewBuffer(b)

	if c.ProgramIndex, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "failed to read program index")
	}

	accountLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read account len")
	}
	if c.Accounts, err = readN(buf, accountLen); err != nil {
		return errors.Wrap(err, "failed to read accounts")
	}

	dataLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "failed to read data len")
	}
	if c.Data, err = readN(buf, dataLen); err != nil {
		return errors.Wrap(err, "failed to read data")
	}

	if buf.Len() != 0 {
		return errors.Errorf("unexpected trailing bytes: %d", buf.Len())
	}
	return nil
}

func readN(buf *bytes.Buffer, n int) ([]byte, error) {
	if buf.Len() < n {
		return nil, errors.Errorf("expected %d bytes, have %d", n, buf.Len())
	}
	out := make([]byte, n)
	copy(out, buf.Next(n))
	return out, nil
}
