package encoder

import "github.com/keurnel/assembler/internal/asm"

// appendPrefixFamily assembles exactly one of REX, VEX, or EVEX. An encoding
// that carries more than one of the three panics with a *BugError.
func appendPrefixFamily(out []byte, mnemonic string, formIndex int, enc *asm.Encoding, operands []Operand) []byte {
	if (enc.REX != nil && (enc.VEX != nil || enc.EVEX != nil)) || (enc.VEX != nil && enc.EVEX != nil) {
		bug(mnemonic, formIndex, "encoding", "carries more than one of REX/VEX/EVEX")
	}
	switch enc.Family() {
	case asm.EncodingLegacy:
		if enc.REX != nil {
			return append(out, assembleREX(mnemonic, formIndex, enc.REX, operands))
		}
		return out
	case asm.EncodingVEX, asm.EncodingXOP:
		return append(out, assembleVEX(mnemonic, formIndex, enc.VEX, operands)...)
	case asm.EncodingEVEX:
		return append(out, assembleEVEX(mnemonic, formIndex, enc.EVEX, operands)...)
	default:
		return out
	}
}

func bitValue(b asm.Bit) uint8 {
	if b == asm.BitOne {
		return 1
	}
	return 0
}

// bitRefValue materializes a BitRef: a literal 0/1, the high bit of an
// operand's register index, or 0 when the field is unused (NONE).
func bitRefValue(mnemonic string, formIndex int, field string, ref asm.BitRef, operands []Operand) uint8 {
	switch ref.Kind {
	case asm.BitRefKindZero, asm.BitRefKindNone:
		return 0
	case asm.BitRefKindOne:
		return 1
	case asm.BitRefKindRef:
		return operandAt(mnemonic, formIndex, field, int(ref.Index), operands).HighBit()
	default:
		bug(mnemonic, formIndex, field, "unrecognized BitRef kind %d", ref.Kind)
		return 0
	}
}

// zeroRefField materializes a ZeroRef: Zero/NONE default to 0. Ref(i) reads
// operand i according to the field: evex.aaa takes the low 3 bits of its
// mask register, evex.z its zeroing flag, evex.b its broadcast flag, and
// every other field (vvvv, V) the low 4 bits of its register index.
func zeroRefField(mnemonic string, formIndex int, field string, ref asm.ZeroRef, operands []Operand) uint8 {
	switch ref.Kind {
	case asm.ZeroRefKindZero, asm.ZeroRefKindNone:
		return 0
	case asm.ZeroRefKindRef:
		op := operandAt(mnemonic, formIndex, field, int(ref.Index), operands)
		switch field {
		case "evex.aaa":
			return op.MaskRegister & 0x07
		case "evex.z":
			if op.Zeroing {
				return 1
			}
			return 0
		case "evex.b":
			if op.Broadcast {
				return 1
			}
			return 0
		default:
			return (op.Register | (op.HighBit() << 3)) & 0x0F
		}
	case asm.ZeroRefKindEVEXBOne:
		bug(mnemonic, formIndex, field, "EVEX_b_ONE is only valid on EVEX.b")
		return 0
	default:
		bug(mnemonic, formIndex, field, "unrecognized ZeroRef kind %d", ref.Kind)
		return 0
	}
}

// invertedVvvv applies the VEX/EVEX convention that vvvv/V carry the ones'
// complement of the referenced register index.
func invertedVvvv(raw uint8) uint8 {
	return (^raw) & 0x0F
}

func assembleREX(mnemonic string, formIndex int, rex *asm.REX, operands []Operand) byte {
	b := byte(0x40)
	if bitValue(rex.W) == 1 {
		b |= 0x08
	}
	if bitRefValue(mnemonic, formIndex, "rex.R", rex.R, operands) == 1 {
		b |= 0x04
	}
	if bitRefValue(mnemonic, formIndex, "rex.X", rex.X, operands) == 1 {
		b |= 0x02
	}
	if bitRefValue(mnemonic, formIndex, "rex.B", rex.B, operands) == 1 {
		b |= 0x01
	}
	return b
}

// assembleVEX emits the 2-byte compacted form when possible (W=0, X=0, B=0,
// mmmmm=0b00001), otherwise the full 3-byte form.
func assembleVEX(mnemonic string, formIndex int, vex *asm.VEX, operands []Operand) []byte {
	r := bitRefValue(mnemonic, formIndex, "vex.R", vex.R, operands)
	x := bitRefValue(mnemonic, formIndex, "vex.X", vex.X, operands)
	b := bitRefValue(mnemonic, formIndex, "vex.B", vex.B, operands)
	w := bitValue(vex.W)
	l := bitValue(vex.L)
	vvvv := invertedVvvv(zeroRefField(mnemonic, formIndex, "vex.vvvv", vex.Vvvv, operands))

	leadByte := byte(0xC5)
	if vex.ID == asm.VEXTypeXOP {
		leadByte = 0x8F
	}

	canCompact := vex.ID != asm.VEXTypeXOP && w == 0 && x == 0 && b == 0 && vex.Mmmmm == 0b00001

	if canCompact {
		byte1 := byte((1-r)<<7) | byte(vvvv<<3) | byte(l<<2) | vex.PP
		return []byte{leadByte, byte1}
	}

	byte1 := byte((1-r)<<7) | byte((1-x)<<6) | byte((1-b)<<5) | vex.Mmmmm
	byte2 := byte(w<<7) | byte(vvvv<<3) | byte(l<<2) | vex.PP
	return []byte{leadByte, byte1, byte2}
}

// assembleEVEX emits the 4-byte EVEX prefix (62h lead byte plus three
// payload bytes).
func assembleEVEX(mnemonic string, formIndex int, evex *asm.EVEX, operands []Operand) []byte {
	rr := noneRefField(mnemonic, formIndex, "evex.RR", evex.RR, operands)
	x := noneRefField(mnemonic, formIndex, "evex.X", evex.X, operands)
	b := noneRefField(mnemonic, formIndex, "evex.B", evex.B, operands)
	w := bitValue(evex.W)
	vvvv := invertedVvvv(zeroRefField(mnemonic, formIndex, "evex.vvvv", evex.Vvvv, operands))
	v := zeroRefField(mnemonic, formIndex, "evex.V", evex.V, operands)
	aaa := zeroRefField(mnemonic, formIndex, "evex.aaa", evex.Aaa, operands)
	z := zeroRefField(mnemonic, formIndex, "evex.z", evex.Z, operands)

	ll, bBit := evexLengthAndBroadcast(mnemonic, formIndex, evex, operands)

	// EVEX.R' (bit 4) extends ModR/M.reg to select among registers 16-31.
	// It is always written as 1 (no extension): only bit 3 of a referenced
	// register index reaches the RR/X/B bits, so register indices 16-31
	// (zmm16-zmm31) are encoded as their low four bits.
	byte1 := byte((1-extractBit(rr))<<7) | byte((1-extractBit(x))<<6) | byte((1-extractBit(b))<<5) | byte(1<<4) | evex.MM
	byte2 := byte(w<<7) | byte(vvvv<<3) | byte(1<<2) | evex.PP
	byte3 := byte((1-extractBit(v))<<3) | byte(bBit<<4) | byte(ll<<5) | byte(z<<7) | aaa

	return []byte{0x62, byte1, byte2, byte3}
}

func extractBit(v uint8) uint8 { return v & 1 }

// noneRefField materializes a NoneRef used for the EVEX RR/X/B extension
// bits. X in particular is legitimately NONE whenever a form has no SIB
// index register to extend (every register-only form): that is not an
// encoder bug, it just means the bit contributes 0 (no extension).
func noneRefField(mnemonic string, formIndex int, field string, ref asm.NoneRef, operands []Operand) uint8 {
	if ref.IsNone() {
		return 0
	}
	op := operandAt(mnemonic, formIndex, field, int(ref.Index), operands)
	return op.HighBit()
}

// evexLengthAndBroadcast resolves EVEX.LL and EVEX.b together, since the
// {er}/{sae} expansion's EVEX_b_ONE sentinel repurposes LL from a vector
// length field into a 2-bit rounding-control field when b=1. By convention
// the concrete operand carrying the rounding/SAE selection is the last
// element of operands when the form still carries its pseudo-operand.
func evexLengthAndBroadcast(mnemonic string, formIndex int, evex *asm.EVEX, operands []Operand) (ll, b uint8) {
	if evex.Bit.Kind == asm.ZeroRefKindEVEXBOne {
		if len(operands) == 0 {
			bug(mnemonic, formIndex, "evex.b", "EVEX_b_ONE requires a rounding/SAE operand, got none")
		}
		roundingOp := operands[len(operands)-1]
		return roundingOp.Rounding & 0x03, 1
	}

	b = zeroRefField(mnemonic, formIndex, "evex.b", evex.Bit, operands)

	switch evex.LL.Kind {
	case asm.LLBitRefKindZero:
		ll = 0
	case asm.LLBitRefKindOne:
		ll = 1
	case asm.LLBitRefKindTwo:
		ll = 2
	case asm.LLBitRefKindLastRef:
		ll = operandAt(mnemonic, formIndex, "evex.LL", int(evex.LL.Index), operands).VectorLength & 0x03
	case asm.LLBitRefKindNone:
		bug(mnemonic, formIndex, "evex.LL", "encoding does not use EVEX but EVEX.LL was materialized")
	default:
		bug(mnemonic, formIndex, "evex.LL", "unrecognized LLBitRef kind %d", evex.LL.Kind)
	}
	return ll, b
}
