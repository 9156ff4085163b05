package asm

// Bit is a literal single-bit field value used by REX.W and VEX.W/L.
type Bit int

const (
	BitZero Bit = iota
	BitOne
)

// BitRefKind distinguishes a BitRef's literal and indirect variants.
type BitRefKind int

const (
	BitRefKindZero BitRefKind = iota
	BitRefKindOne
	BitRefKindRef
	BitRefKindNone
)

// BitRef is either a literal bit, an indirection meaning "take this bit
// from operand Index's register index at emission time" (or 0 if operand
// Index is a memory operand with no such bit), or NONE meaning the field is
// not used in this prefix shape at all.
type BitRef struct {
	Kind  BitRefKind
	Index uint8
}

// BitRefLiteral builds a BitRef carrying a literal bit value.
func BitRefLiteral(b Bit) BitRef {
	if b == BitOne {
		return BitRef{Kind: BitRefKindOne}
	}
	return BitRef{Kind: BitRefKindZero}
}

// BitRefOf builds a BitRef that reads its value from operand index.
func BitRefOf(index uint8) BitRef {
	return BitRef{Kind: BitRefKindRef, Index: index}
}

// BitRefNone builds a BitRef marking the field as unused in this shape.
func BitRefNone() BitRef { return BitRef{Kind: BitRefKindNone} }

// ZeroRefKind distinguishes ZeroRef's variants, including the synthetic
// EVEX_b_ONE sentinel (see the Design Notes on the {er}/{sae} expansion).
type ZeroRefKind int

const (
	ZeroRefKindZero ZeroRefKind = iota
	ZeroRefKindRef
	ZeroRefKindNone
	ZeroRefKindEVEXBOne
)

// ZeroRef is a field that defaults to zero when absent. Used for vvvv, V,
// aaa and EVEX.b.
type ZeroRef struct {
	Kind  ZeroRefKind
	Index uint8
}

func ZeroRefZero() ZeroRef { return ZeroRef{Kind: ZeroRefKindZero} }

func ZeroRefOf(index uint8) ZeroRef { return ZeroRef{Kind: ZeroRefKindRef, Index: index} }

func ZeroRefNone() ZeroRef { return ZeroRef{Kind: ZeroRefKindNone} }

// ZeroRefEVEXBOne is the narrow synthetic enumerator the {er} expansion pass
// writes into EVEX.b to mean "driven by the rounding/SAE operand at emit
// time", rather than widening ZeroRef into a generic Const(u8).
func ZeroRefEVEXBOne() ZeroRef { return ZeroRef{Kind: ZeroRefKindEVEXBOne} }

// LLBitRefKind distinguishes LLBitRef's variants.
type LLBitRefKind int

const (
	LLBitRefKindZero LLBitRefKind = iota
	LLBitRefKindOne
	LLBitRefKindTwo
	LLBitRefKindLastRef
	LLBitRefKindNone
)

// LLBitRef encodes the 2-bit EVEX.LL vector-length field: a literal value,
// an indirection to the vector-length-carrying operand (LastRef), or NONE
// when the encoding does not use EVEX.
type LLBitRef struct {
	Kind  LLBitRefKind
	Index uint8
}

func LLBitRefLiteral(v uint8) LLBitRef {
	switch v {
	case 0:
		return LLBitRef{Kind: LLBitRefKindZero}
	case 1:
		return LLBitRef{Kind: LLBitRefKindOne}
	case 2:
		return LLBitRef{Kind: LLBitRefKindTwo}
	default:
		panic("asm: LLBitRefLiteral: value out of range")
	}
}

// LastRef builds an LLBitRef that reads the EVEX length bits from the
// vector-length-carrying operand at the given index.
func LastRef(index uint8) LLBitRef {
	return LLBitRef{Kind: LLBitRefKindLastRef, Index: index}
}

func LLBitRefNone() LLBitRef { return LLBitRef{Kind: LLBitRefKindNone} }

// NoneRefKind distinguishes NoneRef's variants.
type NoneRefKind int

const (
	NoneRefKindNone NoneRefKind = iota
	NoneRefKindRef
)

// NoneRef is a field that is either absent entirely (NONE — do not write
// it) or sourced from an operand.
type NoneRef struct {
	Kind  NoneRefKind
	Index uint8
}

func NoneRefAbsent() NoneRef { return NoneRef{Kind: NoneRefKindNone} }

func NoneRefOf(index uint8) NoneRef { return NoneRef{Kind: NoneRefKindRef, Index: index} }

// IsNone reports whether the field is absent from this template.
func (r NoneRef) IsNone() bool { return r.Kind == NoneRefKindNone }

// IntOrRefKind distinguishes IntOrRef's variants.
type IntOrRefKind int

const (
	IntOrRefKindExtension IntOrRefKind = iota
	IntOrRefKindRef
	IntOrRefKindNone
)

// IntOrRef discriminates between an opcode-extension integer placed
// directly in ModR/M.reg and an operand-sourced register.
type IntOrRef struct {
	Kind  IntOrRefKind
	Value uint8
}

func IntOrRefExtension(n uint8) IntOrRef {
	return IntOrRef{Kind: IntOrRefKindExtension, Value: n}
}

func IntOrRefOf(index uint8) IntOrRef {
	return IntOrRef{Kind: IntOrRefKindRef, Value: index}
}

func IntOrRefNone() IntOrRef { return IntOrRef{Kind: IntOrRefKindNone} }

// AddressModeKind distinguishes AddressMode's variants.
type AddressModeKind int

const (
	// AddressModeKindTwo is register-register addressing, ModR/M.mode = 11b.
	AddressModeKindTwo AddressModeKind = iota
	AddressModeKindRef
	AddressModeKindNone
)

// AddressMode selects ModR/M's addressing mode: always register-register,
// or taken from operand Index's memory expression.
type AddressMode struct {
	Kind  AddressModeKind
	Index uint8
}

func AddressModeTwo() AddressMode { return AddressMode{Kind: AddressModeKindTwo} }

func AddressModeOf(index uint8) AddressMode {
	return AddressMode{Kind: AddressModeKindRef, Index: index}
}

func AddressModeNone() AddressMode { return AddressMode{Kind: AddressModeKindNone} }

// VEXType distinguishes the VEX prefix family: the standard three-byte VEX
// encoding or AMD's XOP.
type VEXType int

const (
	VEXTypeNone VEXType = iota
	VEXTypeVEX
	VEXTypeXOP
)

// MMXMode records whether a form operates in x87/FPU, legacy MMX, or
// neither register file.
type MMXMode int

const (
	MMXModeNone MMXMode = iota
	MMXModeFPU
	MMXModeMMX
)

// XMMMode records whether a form's vector operands are legacy SSE
// (two-operand, implicit destination-as-source) or VEX/EVEX AVX
// (three-operand, non-destructive).
type XMMMode int

const (
	XMMModeNone XMMMode = iota
	XMMModeSSE
	XMMModeAVX
)
