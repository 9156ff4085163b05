package asm

// Prefix is a legacy instruction prefix byte (segment override, LOCK,
// REP/REPNE, operand-/address-size override). Defined here — rather than
// left as the bare byte constants architecture packages used to declare —
// so every encoding template can carry a typed, optional prefix field.
type Prefix uint8

// InstructionEncoding names the prefix family an Encoding uses for its
// register/opcode-extension bits. At most one of REX, VEX, or EVEX is
// present per Encoding; this tag exists for callers that need to branch on
// the family without inspecting which pointer is non-nil.
type InstructionEncoding int

const (
	EncodingLegacy InstructionEncoding = iota
	EncodingVEX
	EncodingEVEX
	EncodingXOP
)

// PrefixField is the optional legacy-prefix byte.
type PrefixField struct {
	Mandatory bool
	Byte      Prefix
}

// REX is the 1-byte REX prefix template.
type REX struct {
	Mandatory bool
	W         Bit
	R         BitRef
	B         BitRef
	X         BitRef
}

// VEX is the 2- or 3-byte VEX/XOP prefix template.
type VEX struct {
	ID    VEXType
	Mmmmm uint8 // 5 bits
	PP    uint8 // 2 bits
	W     Bit
	L     Bit
	R     BitRef
	B     BitRef
	X     BitRef
	Vvvv  ZeroRef
}

// EVEX is the 4-byte (including the leading 62h) EVEX prefix template.
type EVEX struct {
	MM      uint8 // 2 bits
	PP      uint8 // 2 bits
	W       Bit
	LL      LLBitRef
	RR      NoneRef
	B       NoneRef
	X       NoneRef
	Vvvv    ZeroRef
	V       ZeroRef
	Bit     ZeroRef // EVEX.b — rounding/SAE/broadcast control
	Aaa     ZeroRef
	Z       ZeroRef
	Disp8xN uint8 // power of two in [1, 64]
}

// Opcode is one byte of a 1-3 byte opcode sequence. Only the last opcode
// entry may carry a non-NONE addend (register-in-opcode / "+rb" forms).
type Opcode struct {
	Byte   uint8
	Addend NoneRef
}

// ModRM is the ModR/M byte template.
type ModRM struct {
	Mode AddressMode
	RM   NoneRef
	Reg  IntOrRef
}

// RegisterByte is the XOP/"VPERMIL2PS"-class trailing byte whose high
// nibble is a register index and whose low nibble is a payload value.
type RegisterByte struct {
	Register NoneRef
	Payload  NoneRef
}

// Immediate is an immediate-operand template; Size is one of {1,2,4,8}.
type Immediate struct {
	Size  uint8
	Value IntOrRef
}

// CodeOffset is a relative branch-offset template; Size is one of {1,4}.
type CodeOffset struct {
	Size  uint8
	Value NoneRef
}

// DataOffset is a moffs-style absolute-offset template; Size is one of
// {4,8}. The loader's filter pass drops every form that would reach the
// encoder carrying one (see §4.3), so the encoder never materializes it.
type DataOffset struct {
	Size  uint8
	Value NoneRef
}

// Encoding is one byte-level template realizing a Form. A Form may carry
// several alternative Encodings (e.g. legacy vs VEX vs EVEX for the same
// operand signature); the codegen writer and the caller's form selection
// pick one.
type Encoding struct {
	Prefix       *PrefixField
	REX          *REX
	VEX          *VEX
	EVEX         *EVEX
	Opcodes      []Opcode
	ModRM        *ModRM
	RegisterByte *RegisterByte
	Immediate    *Immediate
	CodeOffset   *CodeOffset
	DataOffset   *DataOffset
}

// Family returns which of REX/VEX/EVEX this encoding uses. At most one of
// the three pointers is non-nil; Family panics if more than one is set,
// since that violates the "at most one of REX/VEX/EVEX" invariant in §3.
func (e *Encoding) Family() InstructionEncoding {
	set := 0
	family := EncodingLegacy
	if e.REX != nil {
		set++
	}
	if e.VEX != nil {
		set++
		if e.VEX.ID == VEXTypeXOP {
			family = EncodingXOP
		} else {
			family = EncodingVEX
		}
	}
	if e.EVEX != nil {
		set++
		family = EncodingEVEX
	}
	if set > 1 {
		panic("asm: encoding carries more than one of REX/VEX/EVEX")
	}
	return family
}
