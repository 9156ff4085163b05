package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/keurnel/assembler/architecture/x86_64"
	"github.com/keurnel/assembler/internal/asm"
)

// Generate renders the Go source for a loaded instruction set: a package
// clause, imports, and one emission function per (mnemonic, filtered form)
// pair. Mnemonics are visited in sorted order so the output is
// deterministic across runs, independent of the map iteration order the
// loader's document type carries.
func Generate(w *Writer, packageName string, mnemonics []*asm.Mnemonic) {
	w.Codef("// Code generated by isagen. DO NOT EDIT.")
	w.Blank()
	w.Codef("package %s", packageName)
	w.Blank()
	w.Code(`import (`)
	w.Code(`	"github.com/keurnel/assembler/internal/asm"`)
	w.Code(`	"github.com/keurnel/assembler/internal/encoder"`)
	w.Code(`)`)
	w.Blank()

	sorted := make([]*asm.Mnemonic, len(mnemonics))
	copy(sorted, mnemonics)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, m := range sorted {
		generateMnemonic(w, m)
	}
}

func generateMnemonic(w *Writer, m *asm.Mnemonic) {
	if m.Summary != "" {
		w.Doc(fmt.Sprintf("%s — %s", m.Name, m.Summary))
	} else {
		w.Doc(m.Name)
	}
	w.Comment(fmt.Sprintf("%d form(s) after pseudo-operand expansion and moffs filtering.", len(m.Forms)))

	seen := map[string]int{}
	for formIndex := range m.Forms {
		form := &m.Forms[formIndex]
		name := functionName(m.Name, form, seen)
		generateForm(w, m.Name, formIndex, form, name)
	}
	w.Blank()
}

// functionName builds the exported emission function's name: the mnemonic,
// an arity tag (Ins0x/Ins1x/Ins2x/…) counting only the operands that survive
// hard-coded-kind elision, and a kind-abbreviation suffix disambiguating
// overloads the arity tag alone cannot — Go has no function overloading, so
// every form needs a distinct name.
func functionName(mnemonic string, form *asm.Form, seen map[string]int) string {
	live := liveOperands(form)
	base := fmt.Sprintf("%sIns%dx", mnemonic, len(live))
	if len(live) > 0 {
		parts := make([]string, len(live))
		for i, op := range live {
			parts[i] = kindAbbrev(op.Kind)
		}
		base += "_" + strings.Join(parts, "_")
	}
	seen[base]++
	if n := seen[base]; n > 1 {
		base = fmt.Sprintf("%s_%d", base, n)
	}
	return base
}

// liveOperands returns a form's operands with hard-coded kinds elided, per
// §3: imm_1, imm_3, al, ax, eax, rax, cl, and xmm0 never appear in the
// generated API's parameter list because their value is fixed by the form.
func liveOperands(form *asm.Form) []asm.Operand {
	live := make([]asm.Operand, 0, len(form.Operands))
	for _, op := range form.Operands {
		if isHardcodedKind(op.Kind) {
			continue
		}
		live = append(live, op)
	}
	return live
}

func isHardcodedKind(k asm.OperandKind) bool {
	switch k {
	case asm.KindImm1, asm.KindImm3, asm.KindAL, asm.KindAX, asm.KindEAX, asm.KindRAX, asm.KindCL, asm.KindXMM0:
		return true
	default:
		return false
	}
}

func kindAbbrev(k asm.OperandKind) string {
	s := string(k)
	s = strings.NewReplacer("{", "", "}", "", "/", "_").Replace(s)
	return s
}

// generateForm emits one function. Its parameter list only takes the live
// (non-hard-coded) operands, but the []encoder.Operand literal it builds for
// encoder.Encode must carry one entry per *original* form operand — the
// Encoding template's …Ref indices were resolved against that full,
// unfiltered position list, so a hard-coded operand's fixed value is spliced
// back in by position rather than silently dropped.
func generateForm(w *Writer, mnemonic string, formIndex int, form *asm.Form, name string) {
	live := liveOperands(form)

	params := make([]string, len(live))
	for i := range live {
		params[i] = fmt.Sprintf("op%d encoder.Operand", i)
	}

	if len(form.Encodings) == 0 {
		return
	}

	args := make([]string, len(form.Operands))
	liveIndex := 0
	for i, op := range form.Operands {
		if isHardcodedKind(op.Kind) {
			args[i] = hardcodedOperandLiteral(op.Kind)
			continue
		}
		args[i] = fmt.Sprintf("op%d", liveIndex)
		liveIndex++
	}

	w.Blank()
	w.Doc(fmt.Sprintf("%s emits the %s form #%d byte sequence.", name, mnemonic, formIndex))
	w.Codef("func %s(%s) []byte {", name, strings.Join(params, ", "))
	w.Codef("\tencoding := %s", encodingLiteral(&form.Encodings[0]))
	w.Codef("\treturn encoder.Encode(%q, %d, encoding, []encoder.Operand{%s})", mnemonic, formIndex, strings.Join(args, ", "))
	w.Code("}")
}

// hardcodedRegisterName maps an elided hard-coded operand kind to the
// register name architecture/x86_64.RegistersByName carries for it, per
// §3's closed list. imm_1/imm_3 aren't registers and have no entry.
func hardcodedRegisterName(k asm.OperandKind) (string, bool) {
	switch k {
	case asm.KindAL:
		return "al", true
	case asm.KindAX:
		return "ax", true
	case asm.KindEAX:
		return "eax", true
	case asm.KindRAX:
		return "rax", true
	case asm.KindCL:
		return "cl", true
	case asm.KindXMM0:
		return "xmm0", true
	default:
		return "", false
	}
}

// hardcodedOperandLiteral builds the fixed encoder.Operand construction for
// an elided hard-coded operand kind. Register-kind encodings are resolved
// through architecture/x86_64.RegistersByName — the same table a caller
// assembling operands from register names by hand would use — rather than
// re-deriving the indices as magic numbers here.
func hardcodedOperandLiteral(k asm.OperandKind) string {
	if name, ok := hardcodedRegisterName(k); ok {
		reg, ok := x86_64.RegistersByName[name]
		if !ok {
			panic(fmt.Sprintf("codegen: no x86_64 register named %q for hard-coded kind %q", name, k))
		}
		if k == asm.KindXMM0 {
			return fmt.Sprintf("encoder.VectorReg(%d, 0)", reg.Encoding)
		}
		return fmt.Sprintf("encoder.Reg(%d)", reg.Encoding)
	}
	switch k {
	case asm.KindImm1:
		return "encoder.Imm(1)"
	case asm.KindImm3:
		return "encoder.Imm(3)"
	default:
		return "encoder.Operand{}"
	}
}
