package compute_budget

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
	"github.com/code-payments/code-solana-sdk/pkg/solana/binary"
)

// ComputeBudget111111111111111111111111111111
var ProgramKey = ed25519.PublicKey{3, 6, 70, 111, 229, 33, 23, 50, 255, 236, 173, 186, 114, 195, 155, 231, 188, 140, 229, 187, 197, 247, 18, 107, 44, 67, 155, 58, 64, 0, 0, 0}

type Command uint8

const (
	// Deprecated by the runtime, decode only.
	CommandRequestUnits Command = iota
	CommandRequestHeapFrame
	CommandSetComputeUnitLimit
	CommandSetComputeUnitPrice
	CommandSetLoadedAccountsDataSizeLimit

	CommandUnknown = Command(math.MaxUint8)
)

var commandNames = [...]string{
	"RequestUnits",
	"RequestHeapFrame",
	"SetComputeUnitLimit",
	"SetComputeUnitPrice",
	"SetLoadedAccountsDataSizeLimit",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return "Unknown"
}

// InstructionData is the decoded form of a compute budget instruction.
//
// Reference: https://github.com/anza-xyz/agave/blob/master/sdk/compute-budget-interface/src/lib.rs
type InstructionData struct {
	Command Command

	// Units is set by RequestUnits and SetComputeUnitLimit.
	Units uint32
	// AdditionalFee is set by RequestUnits.
	AdditionalFee uint32
	// Bytes is set by RequestHeapFrame and SetLoadedAccountsDataSizeLimit.
	Bytes uint32
	// MicroLamports is set by SetComputeUnitPrice.
	MicroLamports uint64
}

func (d InstructionData) Marshal() ([]byte, error) {
	e := binary.NewEncoder(9).Uint8(uint8(d.Command))

	switch d.Command {
	case CommandRequestUnits:
		e.Uint32(d.Units).Uint32(d.AdditionalFee)
	case CommandRequestHeapFrame, CommandSetLoadedAccountsDataSizeLimit:
		e.Uint32(d.Bytes)
	case CommandSetComputeUnitLimit:
		e.Uint32(d.Units)
	case CommandSetComputeUnitPrice:
		e.Uint64(d.MicroLamports)
	default:
		return nil, errors.Errorf("unknown compute budget command: %d", d.Command)
	}

	return e.Bytes()
}

func ParseInstructionData(data []byte) (d InstructionData, err error) {
	dec := binary.NewDecoder(data)

	cmd, err := dec.Uint8()
	if err != nil {
		return d, errors.New("compute budget instruction missing data")
	}
	d.Command = Command(cmd)

	switch d.Command {
	case CommandRequestUnits:
		if d.Units, err = dec.Uint32(); err != nil {
			return d, errors.Wrap(err, "invalid units")
		}
		if d.AdditionalFee, err = dec.Uint32(); err != nil {
			return d, errors.Wrap(err, "invalid additional fee")
		}
	case CommandRequestHeapFrame, CommandSetLoadedAccountsDataSizeLimit:
		if d.Bytes, err = dec.Uint32(); err != nil {
			return d, errors.Wrap(err, "invalid byte count")
		}
	case CommandSetComputeUnitLimit:
		if d.Units, err = dec.Uint32(); err != nil {
			return d, errors.Wrap(err, "invalid unit limit")
		}
	case CommandSetComputeUnitPrice:
		if d.MicroLamports, err = dec.Uint64(); err != nil {
			return d, errors.Wrap(err, "invalid unit price")
		}
	default:
		return d, solana.ErrIncorrectInstruction
	}

	return d, dec.Done()
}

// GetCommand returns the command of a compute budget instruction.
func GetCommand(ix solana.Instruction) (Command, error) {
	if !bytes.Equal(ix.Program, ProgramKey) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(ix.Data) == 0 {
		return CommandUnknown, errors.New("compute budget instruction missing data")
	}
	return Command(ix.Data[0]), nil
}

func newInstruction(d InstructionData) (solana.Instruction, error) {
	data, err := d.Marshal()
	if err != nil {
		return solana.Instruction{}, errors.Wrapf(err, "invalid %s instruction", d.Command)
	}
	return solana.NewInstruction(ProgramKey, data), nil
}

// RequestHeapFrame requests a larger heap for every program in the
// transaction. The runtime requires a multiple of 1024 bytes.
func RequestHeapFrame(size uint32) (solana.Instruction, error) {
	return newInstruction(InstructionData{Command: CommandRequestHeapFrame, Bytes: size})
}

func SetComputeUnitLimit(computeUnitLimit uint32) (solana.Instruction, error) {
	return newInstruction(InstructionData{Command: CommandSetComputeUnitLimit, Units: computeUnitLimit})
}

// SetComputeUnitPrice sets the prioritization fee in micro-lamports per
// compute unit.
func SetComputeUnitPrice(computeUnitPrice uint64) (solana.Instruction, error) {
	return newInstruction(InstructionData{Command: CommandSetComputeUnitPrice, MicroLamports: computeUnitPrice})
}

func SetLoadedAccountsDataSizeLimit(size uint32) (solana.Instruction, error) {
	return newInstruction(InstructionData{Command: CommandSetLoadedAccountsDataSizeLimit, Bytes: size})
}

func parse(data []byte, expected Command) (InstructionData, error) {
	d, err := ParseInstructionData(data)
	if err != nil {
		return d, err
	}
	if d.Command != expected {
		return d, solana.ErrIncorrectInstruction
	}
	return d, nil
}

func ParseSetComputeUnitLimitIxnData(data []byte) (uint32, error) {
	d, err := parse(data, CommandSetComputeUnitLimit)
	return d.Units, err
}

func ParseSetComputeUnitPriceIxnData(data []byte) (uint64, error) {
	d, err := parse(data, CommandSetComputeUnitPrice)
	return d.MicroLamports, err
}

func ParseRequestHeapFrameIxnData(data []byte) (uint32, error) {
	d, err := parse(data, CommandRequestHeapFrame)
	return d.Bytes, err
}

func ParseSetLoadedAccountsDataSizeLimitIxnData(data []byte) (uint32, error) {
	d, err := parse(data, CommandSetLoadedAccountsDataSizeLimit)
	return d.Bytes, err
}
