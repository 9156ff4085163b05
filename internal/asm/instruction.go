package asm

// Mnemonic represents one named x86-64 instruction (e.g. "MOV", "ADDSS",
// "VADDPS") and every legal operand signature ("Form") it supports.
// Identity is Name. Mnemonics are created during parsing, mutated only by
// the loader's expansion pass, then observed as immutable inputs by the
// encoder and the codegen writer.
type Mnemonic struct {
	Name    string
	Summary string
	Forms   []Form

	formCache map[OperandKind][]*Form // cached, built lazily
}

// scanFormsByKind scans Forms for every form whose operand list contains kind.
func (m *Mnemonic) scanFormsByKind(kind OperandKind) []*Form {
	var matched []*Form
	for i := range m.Forms {
		form := &m.Forms[i]
		for _, operand := range form.Operands {
			if operand.Kind == kind {
				matched = append(matched, form)
				break
			}
		}
	}
	return matched
}

// FormsWithOperand retrieves every form carrying an operand of the given
// kind, using a cache that is populated lazily and invalidated by Invalidate.
func (m *Mnemonic) FormsWithOperand(kind OperandKind) []*Form {
	if cached, ok := m.formCache[kind]; ok {
		return cached
	}

	matched := m.scanFormsByKind(kind)
	if m.formCache == nil {
		m.formCache = make(map[OperandKind][]*Form)
	}
	m.formCache[kind] = matched
	return matched
}

// Invalidate clears the per-operand-kind form cache. The loader calls this
// after its expansion pass appends new forms, since a cache built against
// the pre-expansion form list would otherwise miss them.
func (m *Mnemonic) Invalidate() {
	m.formCache = nil
}

// FormsByArity returns every form with exactly n operands, in the order
// they appear in Forms.
func (m *Mnemonic) FormsByArity(n int) []*Form {
	var matched []*Form
	for i := range m.Forms {
		if len(m.Forms[i].Operands) == n {
			matched = append(matched, &m.Forms[i])
		}
	}
	return matched
}
