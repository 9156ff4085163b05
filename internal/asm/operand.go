package asm

import "sort"

// OperandKind is the closed taxonomy the encoder and the generated API both
// key off. Every Operand.Kind lies in this set; the parser rejects anything
// else (see §4.1 of the instruction-set contract).
type OperandKind string

// Literal / hard-coded kinds. These never appear in the generated API's
// parameter list — the value is fixed by the form itself.
const (
	KindImm1 OperandKind = "imm_1"
	KindImm3 OperandKind = "imm_3"
	KindAL   OperandKind = "al"
	KindAX   OperandKind = "ax"
	KindEAX  OperandKind = "eax"
	KindRAX  OperandKind = "rax"
	KindCL   OperandKind = "cl"
	KindXMM0 OperandKind = "xmm0"
)

// Relative / immediate kinds.
const (
	KindRel8    OperandKind = "rel8"
	KindRel32   OperandKind = "rel32"
	KindImm4    OperandKind = "imm4"
	KindImm8    OperandKind = "imm8"
	KindImm16   OperandKind = "imm16"
	KindImm32   OperandKind = "imm32"
	KindImm64   OperandKind = "imm64"
	KindMoffs32 OperandKind = "moffs32"
	KindMoffs64 OperandKind = "moffs64"
)

// Register kinds.
const (
	KindR8      OperandKind = "r8"
	KindR16     OperandKind = "r16"
	KindR32     OperandKind = "r32"
	KindR64     OperandKind = "r64"
	KindMM      OperandKind = "mm"
	KindXMM     OperandKind = "xmm"
	KindXMMK    OperandKind = "xmm{k}"
	KindXMMKZ   OperandKind = "xmm{k}{z}"
	KindYMM     OperandKind = "ymm"
	KindYMMK    OperandKind = "ymm{k}"
	KindYMMKZ   OperandKind = "ymm{k}{z}"
	KindZMM     OperandKind = "zmm"
	KindZMMK    OperandKind = "zmm{k}"
	KindZMMKZ   OperandKind = "zmm{k}{z}"
	KindK       OperandKind = "k"
	KindKK      OperandKind = "k{k}"
)

// Plain and masked memory kinds, one size family per natural access width.
const (
	KindM     OperandKind = "m"
	KindM8    OperandKind = "m8"
	KindM8K   OperandKind = "m8{k}"
	KindM8KZ  OperandKind = "m8{k}{z}"
	KindM16   OperandKind = "m16"
	KindM16K  OperandKind = "m16{k}"
	KindM16KZ OperandKind = "m16{k}{z}"
	KindM32   OperandKind = "m32"
	KindM32K  OperandKind = "m32{k}"
	KindM32KZ OperandKind = "m32{k}{z}"
	KindM64   OperandKind = "m64"
	KindM64K  OperandKind = "m64{k}"
	KindM64KZ OperandKind = "m64{k}{z}"
	KindM80   OperandKind = "m80"
	KindM80K  OperandKind = "m80{k}"
	KindM80KZ OperandKind = "m80{k}{z}"
	KindM128  OperandKind = "m128"
	KindM128K  OperandKind = "m128{k}"
	KindM128KZ OperandKind = "m128{k}{z}"
	KindM256   OperandKind = "m256"
	KindM256K  OperandKind = "m256{k}"
	KindM256KZ OperandKind = "m256{k}{z}"
	KindM512   OperandKind = "m512"
	KindM512K  OperandKind = "m512{k}"
	KindM512KZ OperandKind = "m512{k}{z}"
)

// Broadcast fused-memory kinds (EVEX only): a single 32- or 64-bit element
// replicated across the destination's vector lanes.
const (
	KindM32Bcst   OperandKind = "m32bcst"
	KindM32BcstK  OperandKind = "m32bcst{k}"
	KindM32BcstKZ OperandKind = "m32bcst{k}{z}"
	KindM64Bcst   OperandKind = "m64bcst"
	KindM64BcstK  OperandKind = "m64bcst{k}"
	KindM64BcstKZ OperandKind = "m64bcst{k}{z}"
)

// Vector-indexed (VSIB) memory kinds: the SIB index register is itself a
// vector register.
const (
	KindVM32X  OperandKind = "vm32x"
	KindVM32XK OperandKind = "vm32x{k}"
	KindVM32Y  OperandKind = "vm32y"
	KindVM32YK OperandKind = "vm32y{k}"
	KindVM32Z  OperandKind = "vm32z"
	KindVM32ZK OperandKind = "vm32z{k}"
	KindVM64X  OperandKind = "vm64x"
	KindVM64XK OperandKind = "vm64x{k}"
	KindVM64Y  OperandKind = "vm64y"
	KindVM64YK OperandKind = "vm64y{k}"
	KindVM64Z  OperandKind = "vm64z"
	KindVM64ZK OperandKind = "vm64z{k}"
)

// Pseudo-operands. These exist only in the input model; the loader's
// expansion pass (§4.3) adds a copy of each form without them, and keeps the
// original form with its pseudo-operand as well.
const (
	KindSAE OperandKind = "{sae}"
	KindER  OperandKind = "{er}"
)

// validOperandKinds is the closed set every parsed OperandKind must belong
// to. It lists the constants above by hand; a constant missing from this map
// is rejected by the parser.
var validOperandKinds = map[OperandKind]bool{
	KindImm1: true, KindImm3: true, KindAL: true, KindAX: true, KindEAX: true,
	KindRAX: true, KindCL: true, KindXMM0: true,

	KindRel8: true, KindRel32: true, KindImm4: true, KindImm8: true,
	KindImm16: true, KindImm32: true, KindImm64: true, KindMoffs32: true,
	KindMoffs64: true,

	KindR8: true, KindR16: true, KindR32: true, KindR64: true, KindMM: true,
	KindXMM: true, KindXMMK: true, KindXMMKZ: true,
	KindYMM: true, KindYMMK: true, KindYMMKZ: true,
	KindZMM: true, KindZMMK: true, KindZMMKZ: true,
	KindK: true, KindKK: true,

	KindM: true,
	KindM8: true, KindM8K: true, KindM8KZ: true,
	KindM16: true, KindM16K: true, KindM16KZ: true,
	KindM32: true, KindM32K: true, KindM32KZ: true,
	KindM64: true, KindM64K: true, KindM64KZ: true,
	KindM80: true, KindM80K: true, KindM80KZ: true,
	KindM128: true, KindM128K: true, KindM128KZ: true,
	KindM256: true, KindM256K: true, KindM256KZ: true,
	KindM512: true, KindM512K: true, KindM512KZ: true,

	KindM32Bcst: true, KindM32BcstK: true, KindM32BcstKZ: true,
	KindM64Bcst: true, KindM64BcstK: true, KindM64BcstKZ: true,

	KindVM32X: true, KindVM32XK: true, KindVM32Y: true, KindVM32YK: true,
	KindVM32Z: true, KindVM32ZK: true,
	KindVM64X: true, KindVM64XK: true, KindVM64Y: true, KindVM64YK: true,
	KindVM64Z: true, KindVM64ZK: true,

	KindSAE: true, KindER: true,
}

// AllOperandKinds returns every operand kind in the closed taxonomy, sorted
// lexically so callers get a stable order despite the backing map.
func AllOperandKinds() []OperandKind {
	kinds := make([]OperandKind, 0, len(validOperandKinds))
	for k := range validOperandKinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseOperandKind resolves an operand-kind string against the closed
// taxonomy.
func ParseOperandKind(s string) (OperandKind, error) {
	k := OperandKind(s)
	if !validOperandKinds[k] {
		return "", newParseError("unknown operand kind %q", s)
	}
	return k, nil
}

// IsPseudo reports whether kind is one of the {sae}/{er} pseudo-operands
// eliminated by loader expansion.
func (k OperandKind) IsPseudo() bool {
	return k == KindSAE || k == KindER
}

// IsMoffs reports whether kind is one of the moffs32/moffs64 kinds the
// loader's filter pass drops.
func (k OperandKind) IsMoffs() bool {
	return k == KindMoffs32 || k == KindMoffs64
}

// Operand is one element of a Form's operand list.
type Operand struct {
	Kind         OperandKind
	Input        bool
	Output       bool
	ExtendedSize uint64
}
