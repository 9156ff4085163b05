package codegen

import (
	"fmt"
	"strings"

	"github.com/keurnel/assembler/internal/asm"
)

// encodingLiteral renders enc as a Go expression constructing an equivalent
// *asm.Encoding, using the asm package's own constructor functions so the
// generated source reads the same way hand-written encoder callers would
// write it.
func encodingLiteral(enc *asm.Encoding) string {
	var fields []string

	if enc.Prefix != nil {
		fields = append(fields, fmt.Sprintf("Prefix: &asm.PrefixField{Mandatory: %t, Byte: asm.Prefix(0x%02x)}", enc.Prefix.Mandatory, enc.Prefix.Byte))
	}
	if enc.REX != nil {
		fields = append(fields, fmt.Sprintf("REX: &asm.REX{Mandatory: %t, W: %s, R: %s, B: %s, X: %s}",
			enc.REX.Mandatory, bitLiteral(enc.REX.W), bitRefLiteral(enc.REX.R), bitRefLiteral(enc.REX.B), bitRefLiteral(enc.REX.X)))
	}
	if enc.VEX != nil {
		fields = append(fields, fmt.Sprintf("VEX: &asm.VEX{ID: %s, Mmmmm: 0b%05b, PP: 0b%02b, W: %s, L: %s, R: %s, B: %s, X: %s, Vvvv: %s}",
			vexTypeLiteral(enc.VEX.ID), enc.VEX.Mmmmm, enc.VEX.PP, bitLiteral(enc.VEX.W), bitLiteral(enc.VEX.L),
			bitRefLiteral(enc.VEX.R), bitRefLiteral(enc.VEX.B), bitRefLiteral(enc.VEX.X), zeroRefLiteral(enc.VEX.Vvvv)))
	}
	if enc.EVEX != nil {
		fields = append(fields, fmt.Sprintf("EVEX: &asm.EVEX{MM: 0b%02b, PP: 0b%02b, W: %s, LL: %s, RR: %s, B: %s, X: %s, Vvvv: %s, V: %s, Bit: %s, Aaa: %s, Z: %s, Disp8xN: %d}",
			enc.EVEX.MM, enc.EVEX.PP, bitLiteral(enc.EVEX.W), llBitRefLiteral(enc.EVEX.LL),
			noneRefLiteral(enc.EVEX.RR), noneRefLiteral(enc.EVEX.B), noneRefLiteral(enc.EVEX.X),
			zeroRefLiteral(enc.EVEX.Vvvv), zeroRefLiteral(enc.EVEX.V), zeroRefLiteral(enc.EVEX.Bit),
			zeroRefLiteral(enc.EVEX.Aaa), zeroRefLiteral(enc.EVEX.Z), enc.EVEX.Disp8xN))
	}
	if len(enc.Opcodes) > 0 {
		opcodes := make([]string, len(enc.Opcodes))
		for i, op := range enc.Opcodes {
			opcodes[i] = fmt.Sprintf("{Byte: 0x%02x, Addend: %s}", op.Byte, noneRefLiteral(op.Addend))
		}
		fields = append(fields, fmt.Sprintf("Opcodes: []asm.Opcode{%s}", strings.Join(opcodes, ", ")))
	}
	if enc.ModRM != nil {
		fields = append(fields, fmt.Sprintf("ModRM: &asm.ModRM{Mode: %s, RM: %s, Reg: %s}",
			addressModeLiteral(enc.ModRM.Mode), noneRefLiteral(enc.ModRM.RM), intOrRefLiteral(enc.ModRM.Reg)))
	}
	if enc.RegisterByte != nil {
		fields = append(fields, fmt.Sprintf("RegisterByte: &asm.RegisterByte{Register: %s, Payload: %s}",
			noneRefLiteral(enc.RegisterByte.Register), noneRefLiteral(enc.RegisterByte.Payload)))
	}
	if enc.Immediate != nil {
		fields = append(fields, fmt.Sprintf("Immediate: &asm.Immediate{Size: %d, Value: %s}", enc.Immediate.Size, intOrRefLiteral(enc.Immediate.Value)))
	}
	if enc.CodeOffset != nil {
		fields = append(fields, fmt.Sprintf("CodeOffset: &asm.CodeOffset{Size: %d, Value: %s}", enc.CodeOffset.Size, noneRefLiteral(enc.CodeOffset.Value)))
	}
	if enc.DataOffset != nil {
		fields = append(fields, fmt.Sprintf("DataOffset: &asm.DataOffset{Size: %d, Value: %s}", enc.DataOffset.Size, noneRefLiteral(enc.DataOffset.Value)))
	}

	return fmt.Sprintf("&asm.Encoding{%s}", strings.Join(fields, ", "))
}

func bitLiteral(b asm.Bit) string {
	if b == asm.BitOne {
		return "asm.BitOne"
	}
	return "asm.BitZero"
}

func bitRefLiteral(r asm.BitRef) string {
	switch r.Kind {
	case asm.BitRefKindZero:
		return "asm.BitRefLiteral(asm.BitZero)"
	case asm.BitRefKindOne:
		return "asm.BitRefLiteral(asm.BitOne)"
	case asm.BitRefKindRef:
		return fmt.Sprintf("asm.BitRefOf(%d)", r.Index)
	default:
		return "asm.BitRefNone()"
	}
}

func zeroRefLiteral(r asm.ZeroRef) string {
	switch r.Kind {
	case asm.ZeroRefKindZero:
		return "asm.ZeroRefZero()"
	case asm.ZeroRefKindRef:
		return fmt.Sprintf("asm.ZeroRefOf(%d)", r.Index)
	case asm.ZeroRefKindEVEXBOne:
		return "asm.ZeroRefEVEXBOne()"
	default:
		return "asm.ZeroRefNone()"
	}
}

func llBitRefLiteral(r asm.LLBitRef) string {
	switch r.Kind {
	case asm.LLBitRefKindZero:
		return "asm.LLBitRefLiteral(0)"
	case asm.LLBitRefKindOne:
		return "asm.LLBitRefLiteral(1)"
	case asm.LLBitRefKindTwo:
		return "asm.LLBitRefLiteral(2)"
	case asm.LLBitRefKindLastRef:
		return fmt.Sprintf("asm.LastRef(%d)", r.Index)
	default:
		return "asm.LLBitRefNone()"
	}
}

func noneRefLiteral(r asm.NoneRef) string {
	if r.IsNone() {
		return "asm.NoneRefAbsent()"
	}
	return fmt.Sprintf("asm.NoneRefOf(%d)", r.Index)
}

func intOrRefLiteral(r asm.IntOrRef) string {
	switch r.Kind {
	case asm.IntOrRefKindExtension:
		return fmt.Sprintf("asm.IntOrRefExtension(%d)", r.Value)
	case asm.IntOrRefKindRef:
		return fmt.Sprintf("asm.IntOrRefOf(%d)", r.Value)
	default:
		return "asm.IntOrRefNone()"
	}
}

func addressModeLiteral(m asm.AddressMode) string {
	switch m.Kind {
	case asm.AddressModeKindTwo:
		return "asm.AddressModeTwo()"
	case asm.AddressModeKindRef:
		return fmt.Sprintf("asm.AddressModeOf(%d)", m.Index)
	default:
		return "asm.AddressModeNone()"
	}
}

func vexTypeLiteral(v asm.VEXType) string {
	switch v {
	case asm.VEXTypeVEX:
		return "asm.VEXTypeVEX"
	case asm.VEXTypeXOP:
		return "asm.VEXTypeXOP"
	default:
		return "asm.VEXTypeNone"
	}
}
