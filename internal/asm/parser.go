package asm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TargetInstructionSet is the required value of the instruction-set
// document's top-level "instruction_set" key. Any other value is fatal.
const TargetInstructionSet = "x86-64"

// instructionSetDocument mirrors the top level of x86_64.json.
type instructionSetDocument struct {
	InstructionSet string                     `json:"instruction_set"`
	Instructions   map[string]json.RawMessage `json:"instructions"`
}

// mnemonicDocument mirrors one entry under "instructions".
type mnemonicDocument struct {
	Summary string            `json:"summary"`
	Forms   []json.RawMessage `json:"forms"`
}

// ParseInstructionSet parses the full instruction-set document and returns
// every mnemonic it describes, in the document's key order is not
// guaranteed by encoding/json over a map — callers that need a stable order
// should sort by Name.
func ParseInstructionSet(data []byte) ([]*Mnemonic, error) {
	var doc instructionSetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, newParseError("malformed instruction-set document: %v", err)
	}
	if doc.InstructionSet != TargetInstructionSet {
		return nil, newParseError("instruction_set %q does not match target %q", doc.InstructionSet, TargetInstructionSet)
	}

	mnemonics := make([]*Mnemonic, 0, len(doc.Instructions))
	for name, raw := range doc.Instructions {
		m, err := parseMnemonic(name, raw)
		if err != nil {
			return nil, err
		}
		mnemonics = append(mnemonics, m)
	}
	return mnemonics, nil
}

func parseMnemonic(name string, raw json.RawMessage) (*Mnemonic, error) {
	var doc mnemonicDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, newParseError("%s: malformed mnemonic entry: %v", name, err)
	}

	forms := make([]Form, 0, len(doc.Forms))
	for i, rawForm := range doc.Forms {
		form, err := parseForm(rawForm)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				return nil, pe.withContext(name, i, "")
			}
			return nil, err
		}
		forms = append(forms, *form)
	}

	return &Mnemonic{Name: name, Summary: doc.Summary, Forms: forms}, nil
}

// formKeys is the closed set of keys a form dictionary may carry. Anything
// else is a fatal schema violation (the top-level form schema is the source
// of truth, unlike an encoding record's tolerant unknown-key handling).
var formKeys = map[string]bool{
	"mmx_mode": true, "xmm_mode": true, "canceling_inputs": true,
	"isas": true, "implicit_operands": true, "operands": true, "encodings": true,
}

func parseForm(raw json.RawMessage) (*Form, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, newParseError("malformed form: %v", err)
	}
	for key := range fields {
		if !formKeys[key] {
			return nil, newParseError("unknown form key %q", key)
		}
	}

	form := &Form{}

	if raw, ok := fields["mmx_mode"]; ok {
		mode, err := parseMMXMode(raw)
		if err != nil {
			return nil, err
		}
		form.MMXMode = mode
	}
	if raw, ok := fields["xmm_mode"]; ok {
		mode, err := parseXMMMode(raw)
		if err != nil {
			return nil, err
		}
		form.XMMMode = mode
	}
	if raw, ok := fields["canceling_inputs"]; ok {
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, newParseError("canceling_inputs: not a bool: %v", err)
		}
		form.CancelingInputs = b
	}
	if raw, ok := fields["isas"]; ok {
		isas, err := parseISAList(raw)
		if err != nil {
			return nil, err
		}
		form.ISAs = isas
	}
	if raw, ok := fields["implicit_operands"]; ok {
		ops, err := parseImplicitOperands(raw)
		if err != nil {
			return nil, err
		}
		form.ImplicitOperands = ops
	}
	if raw, ok := fields["operands"]; ok {
		ops, err := parseOperands(raw)
		if err != nil {
			return nil, err
		}
		form.Operands = ops
	}
	if raw, ok := fields["encodings"]; ok {
		encodings, err := parseEncodings(raw)
		if err != nil {
			return nil, err
		}
		form.Encodings = encodings
	}

	return form, nil
}

func parseMMXMode(raw json.RawMessage) (MMXMode, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, newParseError("mmx_mode: not a string: %v", err)
	}
	switch s {
	case "FPU":
		return MMXModeFPU, nil
	case "MMX":
		return MMXModeMMX, nil
	case "NONE":
		return MMXModeNone, nil
	default:
		return 0, newParseError("mmx_mode: unknown enumerator %q", s)
	}
}

func parseXMMMode(raw json.RawMessage) (XMMMode, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, newParseError("xmm_mode: not a string: %v", err)
	}
	switch s {
	case "SSE":
		return XMMModeSSE, nil
	case "AVX":
		return XMMModeAVX, nil
	case "NONE":
		return XMMModeNone, nil
	default:
		return 0, newParseError("xmm_mode: unknown enumerator %q", s)
	}
}

func parseISAList(raw json.RawMessage) ([]ISA, error) {
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, newParseError("isas: not a string array: %v", err)
	}
	isas := make([]ISA, 0, len(names))
	for _, name := range names {
		isa, err := ParseISA(name)
		if err != nil {
			return nil, err
		}
		isas = append(isas, isa)
	}
	return isas, nil
}

type implicitOperandDocument struct {
	ID     string `json:"id"`
	Input  bool   `json:"input"`
	Output bool   `json:"output"`
}

var implicitRegisterNames = map[string]ImplicitRegister{
	"ax": ImplicitAX, "al": ImplicitAL, "dx": ImplicitDX,
	"eax": ImplicitEAX, "ebx": ImplicitEBX, "ecx": ImplicitECX, "edx": ImplicitEDX,
	"rax": ImplicitRAX, "rbx": ImplicitRBX, "rcx": ImplicitRCX,
	"rdi": ImplicitRDI, "rdx": ImplicitRDX, "xmm0": ImplicitXMM0,
	"NONE": ImplicitRegisterNone,
}

func parseImplicitOperands(raw json.RawMessage) ([]ImplicitOperand, error) {
	var docs []implicitOperandDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, newParseError("implicit_operands: malformed: %v", err)
	}
	out := make([]ImplicitOperand, 0, len(docs))
	for _, d := range docs {
		reg, ok := implicitRegisterNames[d.ID]
		if !ok {
			return nil, newParseError("implicit_operands: unknown register %q", d.ID)
		}
		out = append(out, ImplicitOperand{Register: reg, Input: d.Input, Output: d.Output})
	}
	return out, nil
}

type operandDocument struct {
	ID           string `json:"id"`
	Input        bool   `json:"input"`
	Output       bool   `json:"output"`
	ExtendedSize uint64 `json:"extended_size"`
}

func parseOperands(raw json.RawMessage) ([]Operand, error) {
	var docs []operandDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, newParseError("operands: malformed: %v", err)
	}
	out := make([]Operand, 0, len(docs))
	for _, d := range docs {
		kind, err := ParseOperandKind(d.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Operand{
			Kind: kind, Input: d.Input, Output: d.Output, ExtendedSize: d.ExtendedSize,
		})
	}
	return out, nil
}

// parseEncodings tolerates unknown keys inside each encoding record — only
// the top-level form schema is strict. This accommodates new descriptor
// fields appearing in the input without breaking the parser.
func parseEncodings(raw json.RawMessage) ([]Encoding, error) {
	var docs []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, newParseError("encodings: malformed: %v", err)
	}

	out := make([]Encoding, 0, len(docs))
	for _, fields := range docs {
		enc := Encoding{}

		if raw, ok := fields["prefix"]; ok {
			prefix, err := parsePrefixField(raw)
			if err != nil {
				return nil, err
			}
			enc.Prefix = prefix
		}
		if raw, ok := fields["rex"]; ok {
			rex, err := parseREX(raw)
			if err != nil {
				return nil, err
			}
			enc.REX = rex
		}
		if raw, ok := fields["vex"]; ok {
			vex, err := parseVEX(raw)
			if err != nil {
				return nil, err
			}
			enc.VEX = vex
		}
		if raw, ok := fields["evex"]; ok {
			evex, err := parseEVEX(raw)
			if err != nil {
				return nil, err
			}
			enc.EVEX = evex
		}
		if raw, ok := fields["opcode"]; ok {
			opcodes, err := parseOpcodes(raw)
			if err != nil {
				return nil, err
			}
			enc.Opcodes = opcodes
		}
		if raw, ok := fields["modrm"]; ok {
			modrm, err := parseModRM(raw)
			if err != nil {
				return nil, err
			}
			enc.ModRM = modrm
		}
		if raw, ok := fields["register_byte"]; ok {
			rb, err := parseRegisterByte(raw)
			if err != nil {
				return nil, err
			}
			enc.RegisterByte = rb
		}
		if raw, ok := fields["immediate"]; ok {
			imm, err := parseImmediate(raw)
			if err != nil {
				return nil, err
			}
			enc.Immediate = imm
		}
		if raw, ok := fields["code_offset"]; ok {
			co, err := parseCodeOffset(raw)
			if err != nil {
				return nil, err
			}
			enc.CodeOffset = co
		}
		if raw, ok := fields["data_offset"]; ok {
			do, err := parseDataOffset(raw)
			if err != nil {
				return nil, err
			}
			enc.DataOffset = do
		}
		// Every other key is an unrecognized, evolving descriptor field and
		// is silently ignored, per §4.1.

		out = append(out, enc)
	}
	return out, nil
}

type prefixDocument struct {
	Mandatory bool   `json:"mandatory"`
	Byte      string `json:"byte"`
}

func parsePrefixField(raw json.RawMessage) (*PrefixField, error) {
	var d prefixDocument
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, newParseError("prefix: malformed: %v", err)
	}
	b, err := parseHex(d.Byte)
	if err != nil {
		return nil, newParseError("prefix.byte: %v", err)
	}
	return &PrefixField{Mandatory: d.Mandatory, Byte: Prefix(b)}, nil
}

type rexDocument struct {
	Mandatory bool   `json:"mandatory"`
	W         string `json:"W"`
	R         string `json:"R"`
	B         string `json:"B"`
	X         string `json:"X"`
}

func parseREX(raw json.RawMessage) (*REX, error) {
	var d rexDocument
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, newParseError("rex: malformed: %v", err)
	}
	w, err := parseBit(d.W)
	if err != nil {
		return nil, newParseError("rex.W: %v", err)
	}
	r, err := parseBitRef(d.R)
	if err != nil {
		return nil, newParseError("rex.R: %v", err)
	}
	b, err := parseBitRef(d.B)
	if err != nil {
		return nil, newParseError("rex.B: %v", err)
	}
	x, err := parseBitRef(d.X)
	if err != nil {
		return nil, newParseError("rex.X: %v", err)
	}
	return &REX{Mandatory: d.Mandatory, W: w, R: r, B: b, X: x}, nil
}

type vexDocument struct {
	ID    string `json:"id"`
	Mmmmm string `json:"mmmmm"`
	PP    string `json:"pp"`
	W     string `json:"W"`
	L     string `json:"L"`
	R     string `json:"R"`
	B     string `json:"B"`
	X     string `json:"X"`
	Vvvv  string `json:"vvvv"`
}

func parseVEX(raw json.RawMessage) (*VEX, error) {
	var d vexDocument
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, newParseError("vex: malformed: %v", err)
	}
	var id VEXType
	switch d.ID {
	case "VEX":
		id = VEXTypeVEX
	case "XOP":
		id = VEXTypeXOP
	case "NONE", "":
		id = VEXTypeNone
	default:
		return nil, newParseError("vex.id: unknown enumerator %q", d.ID)
	}
	mmmmm, err := parseBinary(d.Mmmmm, 5)
	if err != nil {
		return nil, newParseError("vex.mmmmm: %v", err)
	}
	pp, err := parseBinary(d.PP, 2)
	if err != nil {
		return nil, newParseError("vex.pp: %v", err)
	}
	w, err := parseBit(d.W)
	if err != nil {
		return nil, newParseError("vex.W: %v", err)
	}
	l, err := parseBit(d.L)
	if err != nil {
		return nil, newParseError("vex.L: %v", err)
	}
	r, err := parseBitRef(d.R)
	if err != nil {
		return nil, newParseError("vex.R: %v", err)
	}
	b, err := parseBitRef(d.B)
	if err != nil {
		return nil, newParseError("vex.B: %v", err)
	}
	x, err := parseBitRef(d.X)
	if err != nil {
		return nil, newParseError("vex.X: %v", err)
	}
	vvvv, err := parseZeroRef(d.Vvvv)
	if err != nil {
		return nil, newParseError("vex.vvvv: %v", err)
	}
	return &VEX{ID: id, Mmmmm: mmmmm, PP: pp, W: w, L: l, R: r, B: b, X: x, Vvvv: vvvv}, nil
}

type evexDocument struct {
	MM      string `json:"mm"`
	PP      string `json:"pp"`
	W       string `json:"W"`
	LL      string `json:"LL"`
	RR      string `json:"RR"`
	B       string `json:"B"`
	X       string `json:"X"`
	Vvvv    string `json:"vvvv"`
	V       string `json:"V"`
	Bit     string `json:"b"`
	Aaa     string `json:"aaa"`
	Z       string `json:"z"`
	Disp8xN int    `json:"disp8xN"`
}

func parseEVEX(raw json.RawMessage) (*EVEX, error) {
	var d evexDocument
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, newParseError("evex: malformed: %v", err)
	}
	mm, err := parseBinary(d.MM, 2)
	if err != nil {
		return nil, newParseError("evex.mm: %v", err)
	}
	pp, err := parseBinary(d.PP, 2)
	if err != nil {
		return nil, newParseError("evex.pp: %v", err)
	}
	w, err := parseBit(d.W)
	if err != nil {
		return nil, newParseError("evex.W: %v", err)
	}
	ll, err := parseLLBitRef(d.LL)
	if err != nil {
		return nil, newParseError("evex.LL: %v", err)
	}
	rr, err := parseNoneRef(d.RR)
	if err != nil {
		return nil, newParseError("evex.RR: %v", err)
	}
	b, err := parseNoneRef(d.B)
	if err != nil {
		return nil, newParseError("evex.B: %v", err)
	}
	x, err := parseNoneRef(d.X)
	if err != nil {
		return nil, newParseError("evex.X: %v", err)
	}
	vvvv, err := parseZeroRef(d.Vvvv)
	if err != nil {
		return nil, newParseError("evex.vvvv: %v", err)
	}
	v, err := parseZeroRef(d.V)
	if err != nil {
		return nil, newParseError("evex.V: %v", err)
	}
	bit, err := parseZeroRef(d.Bit)
	if err != nil {
		return nil, newParseError("evex.b: %v", err)
	}
	aaa, err := parseZeroRef(d.Aaa)
	if err != nil {
		return nil, newParseError("evex.aaa: %v", err)
	}
	z, err := parseZeroRef(d.Z)
	if err != nil {
		return nil, newParseError("evex.z: %v", err)
	}
	if d.Disp8xN != 0 && !isPowerOfTwoInRange(d.Disp8xN, 1, 64) {
		return nil, newParseError("evex.disp8xN: %d is not a power of two in [1,64]", d.Disp8xN)
	}
	return &EVEX{
		MM: mm, PP: pp, W: w, LL: ll, RR: rr, B: b, X: x,
		Vvvv: vvvv, V: v, Bit: bit, Aaa: aaa, Z: z, Disp8xN: uint8(d.Disp8xN),
	}, nil
}

type opcodeDocument struct {
	Byte   string `json:"byte"`
	Addend string `json:"addend"`
}

func parseOpcodes(raw json.RawMessage) ([]Opcode, error) {
	var docs []opcodeDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, newParseError("opcode: malformed: %v", err)
	}
	if len(docs) < 1 || len(docs) > 3 {
		return nil, newParseError("opcode: %d bytes, want 1-3", len(docs))
	}
	out := make([]Opcode, 0, len(docs))
	for _, d := range docs {
		b, err := parseHex(d.Byte)
		if err != nil {
			return nil, newParseError("opcode.byte: %v", err)
		}
		addend, err := parseNoneRef(d.Addend)
		if err != nil {
			return nil, newParseError("opcode.addend: %v", err)
		}
		out = append(out, Opcode{Byte: b, Addend: addend})
	}
	return out, nil
}

type modrmDocument struct {
	Mode string `json:"mode"`
	RM   string `json:"rm"`
	Reg  string `json:"reg"`
}

func parseModRM(raw json.RawMessage) (*ModRM, error) {
	var d modrmDocument
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, newParseError("modrm: malformed: %v", err)
	}
	mode, err := parseAddressMode(d.Mode)
	if err != nil {
		return nil, newParseError("modrm.mode: %v", err)
	}
	rm, err := parseNoneRef(d.RM)
	if err != nil {
		return nil, newParseError("modrm.rm: %v", err)
	}
	reg, err := parseIntOrRef(d.Reg)
	if err != nil {
		return nil, newParseError("modrm.reg: %v", err)
	}
	return &ModRM{Mode: mode, RM: rm, Reg: reg}, nil
}

type registerByteDocument struct {
	Register string `json:"register"`
	Payload  string `json:"payload"`
}

func parseRegisterByte(raw json.RawMessage) (*RegisterByte, error) {
	var d registerByteDocument
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, newParseError("register_byte: malformed: %v", err)
	}
	reg, err := parseNoneRef(d.Register)
	if err != nil {
		return nil, newParseError("register_byte.register: %v", err)
	}
	payload, err := parseNoneRef(d.Payload)
	if err != nil {
		return nil, newParseError("register_byte.payload: %v", err)
	}
	return &RegisterByte{Register: reg, Payload: payload}, nil
}

type immediateDocument struct {
	Size  uint8  `json:"size"`
	Value string `json:"value"`
}

func parseImmediate(raw json.RawMessage) (*Immediate, error) {
	var d immediateDocument
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, newParseError("immediate: malformed: %v", err)
	}
	if d.Size != 1 && d.Size != 2 && d.Size != 4 && d.Size != 8 {
		return nil, newParseError("immediate.size: %d not in {1,2,4,8}", d.Size)
	}
	value, err := parseIntOrRef(d.Value)
	if err != nil {
		return nil, newParseError("immediate.value: %v", err)
	}
	return &Immediate{Size: d.Size, Value: value}, nil
}

type codeOffsetDocument struct {
	Size  uint8  `json:"size"`
	Value string `json:"value"`
}

func parseCodeOffset(raw json.RawMessage) (*CodeOffset, error) {
	var d codeOffsetDocument
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, newParseError("code_offset: malformed: %v", err)
	}
	if d.Size != 1 && d.Size != 4 {
		return nil, newParseError("code_offset.size: %d not in {1,4}", d.Size)
	}
	value, err := parseNoneRef(d.Value)
	if err != nil {
		return nil, newParseError("code_offset.value: %v", err)
	}
	return &CodeOffset{Size: d.Size, Value: value}, nil
}

type dataOffsetDocument struct {
	Size  uint8  `json:"size"`
	Value string `json:"value"`
}

func parseDataOffset(raw json.RawMessage) (*DataOffset, error) {
	var d dataOffsetDocument
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, newParseError("data_offset: malformed: %v", err)
	}
	if d.Size != 4 && d.Size != 8 {
		return nil, newParseError("data_offset.size: %d not in {4,8}", d.Size)
	}
	value, err := parseNoneRef(d.Value)
	if err != nil {
		return nil, newParseError("data_offset.value: %v", err)
	}
	return &DataOffset{Size: d.Size, Value: value}, nil
}

// --- Field-level dispatch helpers ---
//
// These correspond to the upstream model's per-field parsing macros
// (parse_str_as_enum!, parse_str_as_hex!, parse_str_as_bin!, etc.): Go has
// no textual macros, so the repeated dispatch shape becomes this handful of
// small functions, reused across every field parser above.

func parseHex(s string) (uint8, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("not a hex byte: %q", s)
	}
	return uint8(v), nil
}

func parseBinary(s string, bits int) (uint8, error) {
	v, err := strconv.ParseUint(s, 2, bits)
	if err != nil {
		return 0, fmt.Errorf("not a %d-bit binary literal: %q", bits, s)
	}
	return uint8(v), nil
}

func isPowerOfTwoInRange(n, lo, hi int) bool {
	if n < lo || n > hi {
		return false
	}
	return n&(n-1) == 0
}

// refIndex parses the conventional "ref:N" indirection marker shared by
// every …Ref field, returning the operand index N.
func refIndex(s string) (uint8, bool, error) {
	if !strings.HasPrefix(s, "ref:") {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "ref:"), 10, 8)
	if err != nil {
		return 0, false, fmt.Errorf("malformed reference %q", s)
	}
	return uint8(n), true, nil
}

func parseBit(s string) (Bit, error) {
	switch s {
	case "0":
		return BitZero, nil
	case "1":
		return BitOne, nil
	default:
		return 0, fmt.Errorf("not a literal bit %q", s)
	}
}

func parseBitRef(s string) (BitRef, error) {
	switch s {
	case "0":
		return BitRefLiteral(BitZero), nil
	case "1":
		return BitRefLiteral(BitOne), nil
	case "NONE", "":
		return BitRefNone(), nil
	}
	if idx, ok, err := refIndex(s); err != nil {
		return BitRef{}, err
	} else if ok {
		return BitRefOf(idx), nil
	}
	return BitRef{}, fmt.Errorf("unrecognized bit-ref %q", s)
}

func parseZeroRef(s string) (ZeroRef, error) {
	switch s {
	case "0", "zero", "":
		return ZeroRefZero(), nil
	case "NONE":
		return ZeroRefNone(), nil
	case "EVEX_b_ONE":
		return ZeroRefEVEXBOne(), nil
	}
	if idx, ok, err := refIndex(s); err != nil {
		return ZeroRef{}, err
	} else if ok {
		return ZeroRefOf(idx), nil
	}
	return ZeroRef{}, fmt.Errorf("unrecognized zero-ref %q", s)
}

func parseLLBitRef(s string) (LLBitRef, error) {
	switch s {
	case "0":
		return LLBitRefLiteral(0), nil
	case "1":
		return LLBitRefLiteral(1), nil
	case "2":
		return LLBitRefLiteral(2), nil
	case "NONE", "":
		return LLBitRefNone(), nil
	}
	if strings.HasPrefix(s, "lastref:") {
		n, err := strconv.ParseUint(strings.TrimPrefix(s, "lastref:"), 10, 8)
		if err != nil {
			return LLBitRef{}, fmt.Errorf("malformed lastref %q", s)
		}
		return LastRef(uint8(n)), nil
	}
	return LLBitRef{}, fmt.Errorf("unrecognized LL-bit-ref %q", s)
}

func parseNoneRef(s string) (NoneRef, error) {
	if s == "NONE" || s == "" {
		return NoneRefAbsent(), nil
	}
	if idx, ok, err := refIndex(s); err != nil {
		return NoneRef{}, err
	} else if ok {
		return NoneRefOf(idx), nil
	}
	return NoneRef{}, fmt.Errorf("unrecognized none-ref %q", s)
}

func parseIntOrRef(s string) (IntOrRef, error) {
	if s == "NONE" || s == "" {
		return IntOrRefNone(), nil
	}
	if idx, ok, err := refIndex(s); err != nil {
		return IntOrRef{}, err
	} else if ok {
		return IntOrRefOf(idx), nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return IntOrRef{}, fmt.Errorf("unrecognized int-or-ref %q", s)
	}
	return IntOrRefExtension(uint8(n)), nil
}

func parseAddressMode(s string) (AddressMode, error) {
	switch s {
	case "2", "two":
		return AddressModeTwo(), nil
	case "NONE", "":
		return AddressModeNone(), nil
	}
	if idx, ok, err := refIndex(s); err != nil {
		return AddressMode{}, err
	} else if ok {
		return AddressModeOf(idx), nil
	}
	return AddressMode{}, fmt.Errorf("unrecognized address mode %q", s)
}
