package encoder

import "github.com/keurnel/assembler/internal/asm"

// appendOpcodes appends the 1-3 opcode bytes, folding a register-in-opcode
// addend (the "+rb"/"+rd" forms) into the final byte when present. Only the
// last opcode entry may carry a non-NONE addend, per the Opcode doc comment.
func appendOpcodes(out []byte, mnemonic string, formIndex int, opcodes []asm.Opcode, operands []Operand) []byte {
	for i, op := range opcodes {
		b := op.Byte
		if i == len(opcodes)-1 && !op.Addend.IsNone() {
			b += operandAt(mnemonic, formIndex, "opcode.addend", int(op.Addend.Index), operands).LowBits()
		}
		out = append(out, b)
	}
	return out
}

// assembleModRM builds the ModR/M byte. hasModRM is always true when called
// with a non-nil template; it is returned for symmetry with the caller's
// SIB-requirement check.
func assembleModRM(mnemonic string, formIndex int, enc *asm.Encoding, operands []Operand) (byte, bool) {
	modrm := enc.ModRM
	var mode uint8
	switch modrm.Mode.Kind {
	case asm.AddressModeKindTwo:
		mode = 0b11
	case asm.AddressModeKindRef:
		op := operandAt(mnemonic, formIndex, "modrm.mode", int(modrm.Mode.Index), operands)
		if op.IsMemory {
			shape, _ := memoryShape(enc, op)
			mode = shape
		} else {
			mode = 0b11
		}
	default:
		bug(mnemonic, formIndex, "modrm.mode", "AddressMode is NONE but ModR/M is present")
	}

	var rm uint8
	if modrm.RM.IsNone() {
		bug(mnemonic, formIndex, "modrm.rm", "required NoneRef is NONE")
	} else {
		op := operandAt(mnemonic, formIndex, "modrm.rm", int(modrm.RM.Index), operands)
		rm = modRMRMField(op)
	}

	var reg uint8
	switch modrm.Reg.Kind {
	case asm.IntOrRefKindExtension:
		reg = modrm.Reg.Value & 0x07
	case asm.IntOrRefKindRef:
		reg = operandAt(mnemonic, formIndex, "modrm.reg", int(modrm.Reg.Value), operands).LowBits()
	default:
		bug(mnemonic, formIndex, "modrm.reg", "required IntOrRef is NONE")
	}

	return byte(mode<<6) | byte(reg<<3) | byte(rm), true
}

// modRMRMField returns the 3-bit rm field for the operand bound to ModR/M.rm:
// the operand's own low register bits for a register or a based memory
// operand, the fixed RIP-relative encoding (101b), or the SIB escape (100b)
// for indexed, VSIB, base-less absolute or RSP/R12-class-based operands (a
// base-less operand's SIB then carries base 101b, see assembleSIB).
func modRMRMField(op Operand) uint8 {
	if !op.IsMemory {
		return op.LowBits()
	}
	if op.RIPRelative {
		return 0b101
	}
	if op.IsVSIB || op.HasIndex || !op.HasBase || (op.BaseReg&0x07) == 0b100 {
		return 0b100
	}
	return op.BaseReg & 0x07
}

// requiresSIB reports whether the memory operand bound to ModR/M.rm needs a
// following SIB byte: any indexed or VSIB addressing, an RSP/R12-class base
// (whose low 3 bits alias the SIB escape), or a base-less absolute/disp32
// operand.
func requiresSIB(modrmByte byte, enc *asm.Encoding, operands []Operand) bool {
	if enc.ModRM == nil || enc.ModRM.RM.IsNone() {
		return false
	}
	op := operands[enc.ModRM.RM.Index]
	if !op.IsMemory || op.RIPRelative {
		return false
	}
	if op.IsVSIB || op.HasIndex {
		return true
	}
	if !op.HasBase {
		return true
	}
	return (op.BaseReg & 0x07) == 0b100
}

func scaleBits(scale uint8) uint8 {
	switch scale {
	case 2:
		return 0b01
	case 4:
		return 0b10
	case 8:
		return 0b11
	default:
		return 0b00
	}
}

// assembleSIB builds the SIB byte for the memory operand bound to ModR/M.rm.
// A VSIB operand's IndexReg is a vector register; a plain memory operand
// without an index encodes the no-index escape (100b).
func assembleSIB(mnemonic string, formIndex int, enc *asm.Encoding, operands []Operand) byte {
	op := operands[enc.ModRM.RM.Index]

	var index uint8 = 0b100
	if op.HasIndex {
		index = op.IndexReg & 0x07
	}

	var base uint8 = 0b101
	if op.HasBase {
		base = op.BaseReg & 0x07
	}

	return byte(scaleBits(op.Scale)<<6) | byte(index<<3) | base
}

// memoryShape resolves a memory operand's ModR/M.mode and displacement
// width, applying EVEX's disp8*N compressed-displacement scheme (§4.3) when
// the encoding carries one. A real EVEX disp8 is always scaled by N — mode
// 01 never means "raw signed byte" the way it does for a legacy/VEX
// encoding — so for an EVEX encoding with Disp8xN > 1, the scaled check
// must be tried before (not after) the plain fitsInt8 case: a small
// displacement that happens to fit in an unscaled byte is irrelevant once
// N > 1, and a displacement that isn't a multiple of N must fall through
// to disp32 even when it would otherwise fit in a raw int8. enc may be nil,
// in which case no disp8*N compression is applied.
func memoryShape(enc *asm.Encoding, op Operand) (mode uint8, dispBytes int) {
	switch {
	case op.RIPRelative, !op.HasBase:
		return 0b00, 4
	case op.Displacement == 0 && (op.BaseReg&0x07) != 0b101:
		return 0b00, 0
	default:
		if enc != nil && enc.EVEX != nil && enc.EVEX.Disp8xN > 1 {
			n := int32(enc.EVEX.Disp8xN)
			if op.Displacement%n == 0 && fitsInt8(op.Displacement/n) {
				return 0b01, 1
			}
			return 0b10, 4
		}
		if fitsInt8(op.Displacement) {
			return 0b01, 1
		}
		return 0b10, 4
	}
}

func fitsInt8(v int32) bool { return v >= -128 && v <= 127 }

// appendDisplacement emits the displacement bytes for a memory operand bound
// to ModR/M.rm, choosing the compressed disp8*N form over disp32 when the
// EVEX encoding's Disp8xN makes that possible.
func appendDisplacement(out []byte, mnemonic string, formIndex int, enc *asm.Encoding, operands []Operand) []byte {
	if enc.ModRM == nil || enc.ModRM.RM.IsNone() {
		return out
	}
	op := operandAt(mnemonic, formIndex, "modrm.displacement", int(enc.ModRM.RM.Index), operands)
	if !op.IsMemory {
		return out
	}

	_, dispBytes := memoryShape(enc, op)
	if dispBytes == 0 {
		return out
	}

	value := int64(op.Displacement)
	if dispBytes == 1 && enc.EVEX != nil && enc.EVEX.Disp8xN > 1 {
		value = int64(op.Displacement / int32(enc.EVEX.Disp8xN))
	}
	return appendLittleEndian(out, value, dispBytes)
}

// assembleRegisterByte builds the trailing register/payload byte XOP- and
// VPERMIL2-class forms carry: a one's-complement register nibble (matching
// VEX.vvvv's convention) plus a payload nibble.
func assembleRegisterByte(mnemonic string, formIndex int, rb *asm.RegisterByte, operands []Operand) byte {
	var reg uint8
	if !rb.Register.IsNone() {
		reg = operandAt(mnemonic, formIndex, "register_byte.register", int(rb.Register.Index), operands).LowBits()
		reg |= operandAt(mnemonic, formIndex, "register_byte.register", int(rb.Register.Index), operands).HighBit() << 3
	}
	var payload uint8
	if !rb.Payload.IsNone() {
		payload = uint8(operandValue(mnemonic, formIndex, "register_byte.payload", int(rb.Payload.Index), operands)) & 0x0F
	}
	return byte(invertedVvvv(reg))<<4 | payload
}
