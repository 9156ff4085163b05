// Package encoder turns a parsed instruction Form plus concrete operand
// values into the instruction byte sequence the CPU expects, by
// materializing the symbolic bit-fields an asm.Encoding carries.
package encoder

// Operand is the concrete, call-site value bound to one position in a
// Form's operand list: either a register (general-purpose, vector, or mask)
// or a memory expression, carrying whatever the encoder needs from it —
// register index, addressing-mode pieces, an immediate/offset value, or the
// mask/zeroing/broadcast/rounding bits AVX-512 operand kinds drive.
type Operand struct {
	// Register is the operand's register index (0-31) when IsMemory is
	// false. High bit (>=8) feeds REX.R/B/X or the VEX/EVEX equivalents.
	Register uint8
	IsMemory bool

	// Memory addressing, valid when IsMemory is true.
	HasBase      bool
	BaseReg      uint8
	HasIndex     bool
	IndexReg     uint8
	Scale        uint8 // 1, 2, 4, or 8
	Displacement int32
	IsVSIB       bool // index register is a vector register (VSIB)
	RIPRelative  bool

	// Immediate/offset value for imm*/rel*/moffs* operands.
	Value int64

	// VectorLength classifies xmm/ymm/zmm register width for EVEX.LL's
	// LastRef indirection: 0 = xmm, 1 = ymm, 2 = zmm.
	VectorLength uint8

	// Mask-register index (for {k}-masked operand kinds) feeding EVEX.aaa.
	MaskRegister uint8
	HasMask      bool
	// Zeroing reports whether a {k}{z}-masked operand requested
	// zeroing-masking (EVEX.z), as opposed to merging-masking.
	Zeroing bool
	// Broadcast reports whether an m32bcst/m64bcst memory operand is
	// active, feeding EVEX.b when the form is not a rounding/SAE variant.
	Broadcast bool

	// Rounding carries the 2-bit static-rounding-control value for an {er}
	// pseudo-operand (00 = RN, 01 = RD, 10 = RU, 11 = RZ), or the
	// suppress-all-exceptions flag for {sae}. Only meaningful when the form
	// was produced by the EVEX_b_ONE expansion variant.
	Rounding      uint8
	SuppressAllExceptions bool
}

// Reg builds a register operand.
func Reg(index uint8) Operand {
	return Operand{Register: index}
}

// VectorReg builds a vector register operand (xmm/ymm/zmm), tagging its
// width class for EVEX.LL's LastRef indirection.
func VectorReg(index uint8, lengthClass uint8) Operand {
	return Operand{Register: index, VectorLength: lengthClass}
}

// MaskedVectorReg builds a {k}/{k}{z}-masked vector register operand.
func MaskedVectorReg(index, lengthClass, maskRegister uint8, zeroing bool) Operand {
	return Operand{
		Register: index, VectorLength: lengthClass,
		MaskRegister: maskRegister, HasMask: true, Zeroing: zeroing,
	}
}

// Imm builds an immediate or relative-offset operand.
func Imm(value int64) Operand {
	return Operand{Value: value}
}

// Mem builds a base(+index*scale)+disp memory operand.
func Mem(base uint8, hasBase bool, index uint8, hasIndex bool, scale uint8, disp int32) Operand {
	return Operand{
		IsMemory: true, HasBase: hasBase, BaseReg: base,
		HasIndex: hasIndex, IndexReg: index, Scale: scale, Displacement: disp,
	}
}

// RegisterIndex returns the operand's register index regardless of whether
// it is a general-purpose or vector register; memory operands have none.
func (o Operand) RegisterIndex() uint8 { return o.Register }

// HighBit reports the operand's register-index bit 3, the bit REX.R/B/X (or
// the VEX/EVEX inverted equivalent) contributes. Memory operands without a
// register contribute 0.
func (o Operand) HighBit() uint8 {
	if o.IsMemory && !o.HasBase {
		return 0
	}
	if (o.Register>>3)&1 == 1 {
		return 1
	}
	return 0
}

// LowBits returns the operand's low 3 register-index bits.
func (o Operand) LowBits() uint8 {
	return o.Register & 0x07
}
