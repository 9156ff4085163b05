package asm

import (
	"fmt"
	"sort"

	"github.com/keurnel/assembler/internal/debugcontext"
)

// LoadInstructionSet parses the instruction-set document and runs the
// loader's two passes — {sae}/{er} expansion, then moffs filtering and
// arity sort — returning the final, ready-to-encode mnemonic list.
func LoadInstructionSet(data []byte) ([]*Mnemonic, error) {
	return LoadInstructionSetWithDiagnostics(data, nil)
}

// LoadInstructionSetWithDiagnostics is LoadInstructionSet, additionally
// recording one Info entry per mnemonic touched by each loader pass into
// dbg. dbg may be nil, in which case no diagnostics are recorded — callers
// that don't care about the loader's decisions (most callers, and every
// test) use LoadInstructionSet instead.
func LoadInstructionSetWithDiagnostics(data []byte, dbg *debugcontext.DebugContext) ([]*Mnemonic, error) {
	mnemonics, err := ParseInstructionSet(data)
	if err != nil {
		return nil, err
	}

	loc := debugcontext.Loc("instruction-set", 0, 0)

	if dbg != nil {
		dbg.SetPhase("expand")
	}
	for _, m := range mnemonics {
		before := len(m.Forms)
		expandPseudoOperandForms(m)
		if dbg != nil && len(m.Forms) != before {
			dbg.Info(loc, fmt.Sprintf("%s: expanded %d pseudo-operand form(s) into %d total", m.Name, before, len(m.Forms)))
		}
	}

	if dbg != nil {
		dbg.SetPhase("filter")
	}
	for _, m := range mnemonics {
		before := len(m.Forms)
		filterForms(m)
		if dbg != nil && len(m.Forms) != before {
			dbg.Info(loc, fmt.Sprintf("%s: dropped %d moffs form(s), %d remain", m.Name, before-len(m.Forms), len(m.Forms)))
		}
	}

	return mnemonics, nil
}

// expandPseudoOperandForms is loader Pass A. For every form carrying a
// {sae} or {er} operand it derives a second, concrete form with the
// pseudo-operand stripped and EVEX.b/EVEX.LL set to the "suppress all
// exceptions / static rounding free" values, while the original form is
// re-tagged to carry EVEX_b_ONE so its EVEX.b is understood as driven by the
// rounding/SAE operand at emit time.
//
// New forms are collected in a side buffer and appended once iteration over
// the original slice is complete, to avoid the iterator-invalidation that
// would result from appending to mnemonic.Forms while ranging over it.
func expandPseudoOperandForms(m *Mnemonic) {
	var derived []Form

	for i := range m.Forms {
		form := &m.Forms[i]
		if !form.HasPseudoOperand() {
			continue
		}

		variant := form.Clone()
		variant.Operands = stripPseudoOperands(variant.Operands)
		if len(variant.Encodings) > 0 && variant.Encodings[0].EVEX != nil {
			variant.Encodings[0].EVEX.Bit = ZeroRefZero()
			variant.Encodings[0].EVEX.LL = LLBitRefLiteral(2)
		}
		derived = append(derived, *variant)

		if len(form.Encodings) > 0 && form.Encodings[0].EVEX != nil {
			evex := form.Encodings[0].EVEX
			evex.Bit = ZeroRefEVEXBOne()
			if evex.LL.Kind != LLBitRefKindLastRef && evex.LL.Kind != LLBitRefKindNone {
				evex.LL = LLBitRefLiteral(0)
			}
		}
	}

	if len(derived) > 0 {
		m.Forms = append(m.Forms, derived...)
		m.Invalidate()
	}
}

// filterForms is loader Pass B: drop every form carrying moffs32/moffs64
// (never emitted, per §3), then stable-sort the remainder by ascending
// operand count so smaller arities precede larger ones.
func filterForms(m *Mnemonic) {
	kept := m.Forms[:0]
	for _, form := range m.Forms {
		if !form.HasMoffs() {
			kept = append(kept, form)
		}
	}
	m.Forms = kept

	sort.SliceStable(m.Forms, func(i, j int) bool {
		return len(m.Forms[i].Operands) < len(m.Forms[j].Operands)
	})

	m.Invalidate()
}
