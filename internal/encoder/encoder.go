package encoder

import (
	"github.com/keurnel/assembler/internal/asm"
)

// Encode returns the byte sequence for one instruction, in a new slice,
// given its Encoding template and the concrete operand values bound to the
// form's operand list. mnemonic and formIndex are carried only to label any
// encoder-bug panic raised along the way; they do not affect the bytes
// produced. The emission order is fixed, per §4.4:
//
//  1. legacy prefix, 2. REX/VEX/EVEX, 3. opcode bytes, 4. ModR/M,
//  5. SIB, 6. displacement, 7. register_byte, 8. immediate, 9. code offset,
//  10. data offset.
func Encode(mnemonic string, formIndex int, enc *asm.Encoding, operands []Operand) []byte {
	var out []byte

	if enc.Prefix != nil {
		out = append(out, byte(enc.Prefix.Byte))
	}

	out = appendPrefixFamily(out, mnemonic, formIndex, enc, operands)

	out = appendOpcodes(out, mnemonic, formIndex, enc.Opcodes, operands)

	var modrmByte byte
	hasModRM := false
	if enc.ModRM != nil {
		modrmByte, hasModRM = assembleModRM(mnemonic, formIndex, enc, operands)
		out = append(out, modrmByte)
	}

	if hasModRM && requiresSIB(modrmByte, enc, operands) {
		out = append(out, assembleSIB(mnemonic, formIndex, enc, operands))
	}

	out = appendDisplacement(out, mnemonic, formIndex, enc, operands)

	if enc.RegisterByte != nil {
		out = append(out, assembleRegisterByte(mnemonic, formIndex, enc.RegisterByte, operands))
	}

	if enc.Immediate != nil {
		out = appendLittleEndian(out, resolveIntOrRef(mnemonic, formIndex, "immediate.value", enc.Immediate.Value, operands), int(enc.Immediate.Size))
	}

	if enc.CodeOffset != nil {
		out = appendLittleEndian(out, resolveNoneRefValue(mnemonic, formIndex, "code_offset.value", enc.CodeOffset.Value, operands), int(enc.CodeOffset.Size))
	}

	if enc.DataOffset != nil {
		out = appendLittleEndian(out, resolveNoneRefValue(mnemonic, formIndex, "data_offset.value", enc.DataOffset.Value, operands), int(enc.DataOffset.Size))
	}

	return out
}

// SelectShortest encodes every candidate and returns the bytes of the
// shortest result, breaking ties in favor of the first candidate that
// achieves the minimum length. This realizes the "pick the shorter encoding
// when the form set permits multiple" requirement: the library may have
// several forms whose operand kinds all accept the same concrete operands
// (e.g. a general register+imm32 form and a shorter register+imm8 form for
// a small immediate), and the shortest valid encoding is preferred.
func SelectShortest(mnemonic string, candidates []Candidate) []byte {
	var best []byte
	for _, c := range candidates {
		bytes := Encode(mnemonic, c.FormIndex, c.Encoding, c.Operands)
		if best == nil || len(bytes) < len(best) {
			best = bytes
		}
	}
	return best
}

// Candidate is one encodable alternative considered by SelectShortest.
type Candidate struct {
	FormIndex int
	Encoding  *asm.Encoding
	Operands  []Operand
}

func appendLittleEndian(out []byte, value int64, size int) []byte {
	for i := 0; i < size; i++ {
		out = append(out, byte(value>>(8*i)))
	}
	return out
}

func resolveIntOrRef(mnemonic string, formIndex int, field string, ref asm.IntOrRef, operands []Operand) int64 {
	switch ref.Kind {
	case asm.IntOrRefKindExtension:
		return int64(ref.Value)
	case asm.IntOrRefKindRef:
		return operandValue(mnemonic, formIndex, field, int(ref.Value), operands)
	default:
		bug(mnemonic, formIndex, field, "required IntOrRef is NONE")
		return 0
	}
}

func resolveNoneRefValue(mnemonic string, formIndex int, field string, ref asm.NoneRef, operands []Operand) int64 {
	if ref.IsNone() {
		bug(mnemonic, formIndex, field, "required field is NONE")
	}
	return operandValue(mnemonic, formIndex, field, int(ref.Index), operands)
}

func operandValue(mnemonic string, formIndex int, field string, index int, operands []Operand) int64 {
	if index < 0 || index >= len(operands) {
		bug(mnemonic, formIndex, field, "operand index %d out of range (have %d operands)", index, len(operands))
	}
	return operands[index].Value
}

func operandAt(mnemonic string, formIndex int, field string, index int, operands []Operand) Operand {
	if index < 0 || index >= len(operands) {
		bug(mnemonic, formIndex, field, "operand index %d out of range (have %d operands)", index, len(operands))
	}
	return operands[index]
}
