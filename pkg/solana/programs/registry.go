// Package programs maps well known program ids to their names, error
// catalogs and instruction names.
package programs

import (
	"crypto/ed25519"
	"sort"
	"strings"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/code-solana-sdk/pkg/solana"
)

var (
	ErrProgramNotFound  = errors.New("program not found")
	ErrDuplicateProgram = errors.New("duplicate program")
)

// InstructionNamer returns the name of the instruction encoded in data.
type InstructionNamer func(data []byte) (string, error)

// Program describes a program known to a Registry.
type Program struct {
	Name string
	Key  ed25519.PublicKey

	// Errors is nil for programs without custom errors.
	Errors *solana.ErrorCatalog

	// Namer is nil for programs whose instructions can't be named.
	Namer InstructionNamer
}

// Registry is an immutable set of programs, indexed by key and name.
type Registry struct {
	programs []Program
	byKey    map[string]int
	byName   map[string]int
}

// NewRegistry returns a registry of programs. Keys and names must be unique.
func NewRegistry(programs ...Program) (*Registry, error) {
	r := &Registry{
		programs: make([]Program, 0, len(programs)),
		byKey:    make(map[string]int, len(programs)),
		byName:   make(map[string]int, len(programs)),
	}

	for _, p := range programs {
		if len(p.Key) != ed25519.PublicKeySize {
			return nil, errors.Wrapf(solana.ErrInvalidProgramKey, "program %s", p.Name)
		}

		name := strings.ToLower(p.Name)
		if _, ok := r.byKey[string(p.Key)]; ok {
			return nil, errors.Wrapf(ErrDuplicateProgram, "key %s", base58.Encode(p.Key))
		}
		if _, ok := r.byName[name]; ok {
			return nil, errors.Wrapf(ErrDuplicateProgram, "name %s", p.Name)
		}

		r.byKey[string(p.Key)] = len(r.programs)
		r.byName[name] = len(r.programs)
		r.programs = append(r.programs, p)
	}

	return r, nil
}

// Programs returns all programs, sorted by name.
func (r *Registry) Programs() []Program {
	programs := make([]Program, len(r.programs))
	copy(programs, r.programs)
	sort.Slice(programs, func(i, j int) bool {
		return programs[i].Name < programs[j].Name
	})
	return programs
}

func (r *Registry) Lookup(key ed25519.PublicKey) (Program, bool) {
	i, ok := r.byKey[string(key)]
	if !ok {
		return Program{}, false
	}
	return r.programs[i], true
}

// LookupByName looks up a program by its case insensitive name.
func (r *Registry) LookupByName(name string) (Program, bool) {
	i, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return Program{}, false
	}
	return r.programs[i], true
}

// Find resolves either a program name or a base58 encoded program key.
func (r *Registry) Find(nameOrKey string) (Program, error) {
	if p, ok := r.LookupByName(nameOrKey); ok {
		return p, nil
	}

	key, err := base58.Decode(nameOrKey)
	if err == nil && len(key) == ed25519.PublicKeySize {
		if p, ok := r.Lookup(key); ok {
			return p, nil
		}
	}

	return Program{}, errors.Wrap(ErrProgramNotFound, nameOrKey)
}

// ResolveError maps a custom error code returned by the program at key. Codes
// of unknown programs, or of programs without an error catalog, resolve to a
// *solana.UnknownProgramError.
func (r *Registry) ResolveError(key ed25519.PublicKey, code uint32) error {
	p, ok := r.Lookup(key)
	if !ok {
		return &solana.UnknownProgramError{Program: base58.Encode(key), Code: code}
	}
	if p.Errors == nil {
		return &solana.UnknownProgramError{Program: p.Name, Code: code}
	}
	return p.Errors.Resolve(code)
}

// InstructionName returns "<program>.<instruction>" for ix.
func (r *Registry) InstructionName(ix solana.Instruction) (string, error) {
	p, ok := r.Lookup(ix.Program)
	if !ok {
		return "", errors.Wrap(ErrProgramNotFound, base58.Encode(ix.Program))
	}
	if p.Namer == nil {
		return p.Name, nil
	}

	name, err := p.Namer(ix.Data)
	if err != nil {
		return "", errors.Wrapf(err, "%s instruction", p.Name)
	}
	return p.Name + "." + name, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry of every program supported by this module.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(defaultPrograms()...)
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
