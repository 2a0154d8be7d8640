package ed25519

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
	"github.com/code-payments/code-solana-sdk/pkg/solana/binary"
)

// Ed25519SigVerify111111111111111111111111111
var ProgramKey = ed25519.PublicKey{3, 125, 70, 214, 124, 147, 251, 190, 18, 249, 66, 143, 131, 141, 64, 255, 5, 112, 116, 73, 39, 244, 138, 100, 252, 202, 112, 68, 128, 0, 0, 0}

const (
	// CurrentInstruction is the instruction index that refers to the
	// verify instruction itself.
	CurrentInstruction = math.MaxUint16

	signatureOffsetsStart = 2
	signatureOffsetsSize  = 14

	publicKeyOffset   = signatureOffsetsStart + signatureOffsetsSize
	signatureOffset   = publicKeyOffset + ed25519.PublicKeySize
	messageDataOffset = signatureOffset + ed25519.SignatureSize

	// MaxMessageSize is the largest message that fits the u16 offsets.
	MaxMessageSize = math.MaxUint16 - messageDataOffset
)

var (
	ErrInvalidSignature   = errors.New("invalid signature length")
	ErrMessageTooLarge    = errors.New("message too large")
	ErrInvalidDataOffsets = errors.New("invalid data offsets")
)

// Reference: https://github.com/solana-labs/solana/blob/27eff8408b7223bb3c4ab70523f8a8dca3ca6645/sdk/src/ed25519_instruction.rs#L32
type SignatureOffsets struct {
	SignatureOffset           uint16
	SignatureInstructionIndex uint16
	PublicKeyOffset           uint16
	PublicKeyInstructionIndex uint16
	MessageDataOffset         uint16
	MessageDataSize           uint16
	MessageInstructionIndex   uint16
}

// Instruction returns an instruction that has the runtime verify an
// existing signature of message by publicKey. All three are carried inline.
func Instruction(publicKey ed25519.PublicKey, signature, message []byte) (solana.Instruction, error) {
	if len(signature) != ed25519.SignatureSize {
		return solana.Instruction{}, errors.Wrapf(ErrInvalidSignature, "got %d bytes", len(signature))
	}
	if len(message) > MaxMessageSize {
		return solana.Instruction{}, errors.Wrapf(ErrMessageTooLarge, "got %d bytes", len(message))
	}

	offsets := SignatureOffsets{
		SignatureOffset:           signatureOffset,
		SignatureInstructionIndex: CurrentInstruction,
		PublicKeyOffset:           publicKeyOffset,
		PublicKeyInstructionIndex: CurrentInstruction,
		MessageDataOffset:         messageDataOffset,
		MessageDataSize:           uint16(len(message)),
		MessageInstructionIndex:   CurrentInstruction,
	}

	data, err := binary.NewEncoder(messageDataOffset+len(message)).
		Uint8(1). // num_signatures
		Uint8(0). // padding
		Uint16(offsets.SignatureOffset).
		Uint16(offsets.SignatureInstructionIndex).
		Uint16(offsets.PublicKeyOffset).
		Uint16(offsets.PublicKeyInstructionIndex).
		Uint16(offsets.MessageDataOffset).
		Uint16(offsets.MessageDataSize).
		Uint16(offsets.MessageInstructionIndex).
		Key(publicKey).
		Raw(signature).
		Raw(message).
		Bytes()
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
	), nil
}

// Verification is a signature check whose data is carried by the verify
// instruction itself.
type Verification struct {
	PublicKey ed25519.PublicKey
	Signature []byte
	Message   []byte
}

type DecompiledVerify struct {
	Offsets []SignatureOffsets

	// Verifications holds the checks of Offsets that only reference the
	// verify instruction, in order.
	Verifications []Verification
}

// DecompileVerify decodes the signature offsets of a verify instruction.
func DecompileVerify(ix solana.Instruction) (*DecompiledVerify, error) {
	if !bytes.Equal(ix.Program, ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}

	dec := binary.NewDecoder(ix.Data)
	count, err := dec.Uint8()
	if err != nil {
		return nil, errors.Wrap(err, "invalid signature count")
	}
	if _, err := dec.Uint8(); err != nil {
		return nil, errors.Wrap(err, "invalid padding")
	}

	decompiled := &DecompiledVerify{
		Offsets: make([]SignatureOffsets, count),
	}
	for i := range decompiled.Offsets {
		o := &decompiled.Offsets[i]
		for _, field := range []*uint16{
			&o.SignatureOffset,
			&o.SignatureInstructionIndex,
			&o.PublicKeyOffset,
			&o.PublicKeyInstructionIndex,
			&o.MessageDataOffset,
			&o.MessageDataSize,
			&o.MessageInstructionIndex,
		} {
			if *field, err = dec.Uint16(); err != nil {
				return nil, errors.Wrapf(err, "invalid offsets %d", i)
			}
		}

		if o.SignatureInstructionIndex != CurrentInstruction ||
			o.PublicKeyInstructionIndex != CurrentInstruction ||
			o.MessageInstructionIndex != CurrentInstruction {
			continue
		}

		publicKey, err := slice(ix.Data, o.PublicKeyOffset, ed25519.PublicKeySize)
		if err != nil {
			return nil, err
		}
		signature, err := slice(ix.Data, o.SignatureOffset, ed25519.SignatureSize)
		if err != nil {
			return nil, err
		}
		message, err := slice(ix.Data, o.MessageDataOffset, int(o.MessageDataSize))
		if err != nil {
			return nil, err
		}

		decompiled.Verifications = append(decompiled.Verifications, Verification{
			PublicKey: publicKey,
			Signature: signature,
			Message:   message,
		})
	}

	return decompiled, nil
}

func slice(data []byte, offset uint16, size int) ([]byte, error) {
	end := int(offset) + size
	if end > len(data) {
		return nil, errors.Wrapf(ErrInvalidDataOffsets, "%d+%d exceeds %d bytes", offset, size, len(data))
	}
	return data[offset:end], nil
}
