package solana

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// ErrorDefinition describes a single custom error a program may return.
type ErrorDefinition struct {
	Code    CustomError
	Name    string
	Message string
}

// ErrorCatalog maps the custom error codes of a single program to their
// symbolic names. A catalog is immutable once created.
type ErrorCatalog struct {
	program string
	byCode  map[CustomError]ErrorDefinition
}

// NewErrorCatalog returns a catalog for the named program. It panics if two
// definitions share a code, since that indicates a broken table.
func NewErrorCatalog(program string, entries ...ErrorDefinition) *ErrorCatalog {
	c := &ErrorCatalog{
		program: program,
		byCode:  make(map[CustomError]ErrorDefinition, len(entries)),
	}
	for _, e := range entries {
		if _, ok := c.byCode[e.Code]; ok {
			panic(fmt.Sprintf("duplicate error code %d in %s catalog", e.Code, program))
		}
		c.byCode[e.Code] = e
	}
	return c
}

// Program returns the name of the program the catalog belongs to.
func (c *ErrorCatalog) Program() string {
	return c.program
}

// FromCode returns the error for code, or false if the program does not
// define it.
func (c *ErrorCatalog) FromCode(code uint32) (CustomError, bool) {
	if _, ok := c.byCode[CustomError(code)]; !ok {
		return 0, false
	}
	return CustomError(code), true
}

// ToCode returns the wire code for e.
func (c *ErrorCatalog) ToCode(e CustomError) uint32 {
	return uint32(e)
}

// Name returns the symbolic name of e, or an empty string if unknown.
func (c *ErrorCatalog) Name(e CustomError) string {
	return c.byCode[e].Name
}

// Message returns the diagnostic message of e, or an empty string if unknown.
func (c *ErrorCatalog) Message(e CustomError) string {
	return c.byCode[e].Message
}

// Definitions returns all definitions ordered by code.
func (c *ErrorCatalog) Definitions() []ErrorDefinition {
	defs := make([]ErrorDefinition, 0, len(c.byCode))
	for _, d := range c.byCode {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Code < defs[j].Code
	})
	return defs
}

// Resolve converts a raw code into a *ProgramError, or an
// *UnknownProgramError if the program does not define it.
func (c *ErrorCatalog) Resolve(code uint32) error {
	def, ok := c.byCode[CustomError(code)]
	if !ok {
		return &UnknownProgramError{Program: c.program, Code: code}
	}
	return &ProgramError{Program: c.program, Definition: def}
}

// ResolveTransactionError resolves the custom instruction error carried by
// txErr. It returns false if txErr does not carry a custom error.
func (c *ErrorCatalog) ResolveTransactionError(txErr *TransactionError) (error, bool) {
	if txErr == nil || txErr.InstructionError() == nil {
		return nil, false
	}

	ixErr := txErr.InstructionError()
	custom := ixErr.CustomError()
	if custom == nil {
		return nil, false
	}

	return errors.Wrapf(c.Resolve(uint32(*custom)), "instruction %d", ixErr.Index), true
}

// ProgramError is a custom error that the program's catalog recognizes.
type ProgramError struct {
	Program    string
	Definition ErrorDefinition
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("%s: %s (%d): %s", e.Program, e.Definition.Name, e.Definition.Code, e.Definition.Message)
}

// Unwrap allows errors.Is(err, token.ErrorInsufficientFunds) style checks.
func (e *ProgramError) Unwrap() error {
	return e.Definition.Code
}

// UnknownProgramError is returned for codes outside a program's catalog.
// The raw code is kept so callers can still report it.
type UnknownProgramError struct {
	Program string
	Code    uint32
}

func (e *UnknownProgramError) Error() string {
	return fmt.Sprintf("%s: unknown error code %d", e.Program, e.Code)
}
