package main

import (
	"crypto/ed25519"
	"fmt"
	"io"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
)

var errMissingCode = errors.New("one of --code or --tx-error is required")

type errorResult struct {
	Program     string `json:"program"`
	Code        uint32 `json:"code"`
	Known       bool   `json:"known"`
	Name        string `json:"name,omitempty"`
	Message     string `json:"message,omitempty"`
	Instruction *int   `json:"instruction,omitempty"`
	Error       string `json:"error"`
}

func (a *app) newErrorCmd() *cobra.Command {
	var program, txError string
	var code uint32

	cmd := &cobra.Command{
		Use:   "error",
		Short: "Resolve a custom program error code",
		Example: "  solkit error --program spl-token --code 1\n" +
			"  solkit error --program spl-token --tx-error '{\"InstructionError\":[0,{\"Custom\":1}]}'",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			programKey, err := a.parseProgram(program)
			if err != nil {
				return err
			}

			log := a.log.WithFields(logrus.Fields{
				"method":  "error",
				"program": base58.Encode(programKey),
			})

			var instruction *int
			switch {
			case txError != "":
				index, custom, err := parseCustomError(txError)
				if err != nil {
					log.WithError(err).Warn("failure parsing transaction error")
					return err
				}
				code, instruction = custom, &index
			case !cmd.Flags().Changed("code"):
				return errMissingCode
			}

			result := a.resolveError(programKey, code)
			result.Instruction = instruction
			log.WithFields(logrus.Fields{
				"code":  code,
				"known": result.Known,
			}).Debug("resolved program error")

			return a.write(cmd.Context(), result, func(w io.Writer) error {
				if instruction != nil {
					return writeLines(w, fmt.Sprintf("instruction %d: %s", *instruction, result.Error))
				}
				return writeLines(w, result.Error)
			})
		},
	}

	cmd.Flags().StringVar(&program, "program", "", "program name or base58 program id")
	cmd.Flags().Uint32Var(&code, "code", 0, "custom error code")
	cmd.Flags().StringVar(&txError, "tx-error", "", "transaction error JSON as returned by the RPC")
	_ = cmd.MarkFlagRequired("program")
	cmd.MarkFlagsMutuallyExclusive("code", "tx-error")

	return cmd
}

func (a *app) resolveError(program ed25519.PublicKey, code uint32) errorResult {
	err := a.registry.ResolveError(program, code)

	result := errorResult{
		Program: base58.Encode(program),
		Code:    code,
		Error:   err.Error(),
	}
	if p, ok := a.registry.Lookup(program); ok {
		result.Program = p.Name
	}

	var programErr *solana.ProgramError
	if errors.As(err, &programErr) {
		result.Known = true
		result.Name = programErr.Definition.Name
		result.Message = programErr.Definition.Message
	}
	return result
}

// parseCustomError extracts the failing instruction and its custom error code
// from a transaction error.
func parseCustomError(raw string) (int, uint32, error) {
	txErr, err := solana.ParseTransactionErrorJSON([]byte(raw))
	if err != nil {
		return 0, 0, errors.Wrap(err, "invalid transaction error")
	}
	if txErr == nil || txErr.InstructionError() == nil {
		return 0, 0, errors.New("transaction error is not an instruction error")
	}

	ixErr := txErr.InstructionError()
	custom := ixErr.CustomError()
	if custom == nil {
		return 0, 0, errors.Errorf("instruction %d failed with %s, not a custom error", ixErr.Index, ixErr.ErrorKey())
	}
	return ixErr.Index, uint32(*custom), nil
}
