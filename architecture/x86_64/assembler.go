// Package x86_64 wires the generic loader in internal/asm to the concrete
// x86-64 instruction-set document, groups document, and generated typed
// API, presenting them as an asm.Architecture.
package x86_64

import (
	"fmt"

	"github.com/keurnel/assembler/internal/asm"
)

// Assembler is the x86-64 asm.Architecture: a loaded, filtered mnemonic
// table plus the instruction-group document, both built once from their
// source JSON documents by New.
type Assembler struct {
	mnemonics       map[string]*asm.Mnemonic
	groupList       []string
	mnemonicToGroup map[string]string
}

// New loads the instruction-set document and the groups document, running
// the loader's pseudo-operand expansion and moffs-filter passes, and
// returns the resulting Architecture.
func New(instructionSetJSON, groupsJSON []byte) (*Assembler, error) {
	loaded, err := asm.LoadInstructionSet(instructionSetJSON)
	if err != nil {
		return nil, fmt.Errorf("x86_64: loading instruction set: %w", err)
	}

	byName := make(map[string]*asm.Mnemonic, len(loaded))
	for _, m := range loaded {
		byName[m.Name] = m
	}

	groupList, mnemonicToGroup, err := asm.ParseGroups(groupsJSON)
	if err != nil {
		return nil, fmt.Errorf("x86_64: loading instruction groups: %w", err)
	}

	return &Assembler{mnemonics: byName, groupList: groupList, mnemonicToGroup: mnemonicToGroup}, nil
}

// ArchitectureName returns the name of the architecture.
func (a *Assembler) ArchitectureName() string {
	return "x86-64"
}

// Mnemonics returns the loaded, filtered mnemonic table.
func (a *Assembler) Mnemonics() map[string]*asm.Mnemonic {
	return a.mnemonics
}

// IsMnemonic reports whether name names a known instruction.
func (a *Assembler) IsMnemonic(name string) bool {
	_, ok := a.mnemonics[name]
	return ok
}

// Groups returns the instruction-group list and the mnemonic-to-group
// mapping loaded from the groups document.
func (a *Assembler) Groups() ([]string, map[string]string) {
	return a.groupList, a.mnemonicToGroup
}

// OperandKinds returns every operand kind this architecture's closed
// taxonomy recognizes.
func (a *Assembler) OperandKinds() []asm.OperandKind {
	return asm.AllOperandKinds()
}

var _ asm.Architecture = (*Assembler)(nil)
