package ir

import (
	"fmt"
	"io"
)

var opNames = map[Op]string{
	OpConst: "const", OpAsm: "asm", OpLabel: "label",
	OpMove: "mov", OpMemStore: "mstore", OpMemLoad: "mload",
	OpStkStore: "sstore", OpStkLoad: "sload",
	OpOffsetStore: "ostore", OpOffsetLoad: "oload",
	OpAdd: "add", OpSub: "sub", OpSMul: "smul", OpUMul: "umul",
	OpSDiv: "sdiv", OpUDiv: "udiv", OpSMod: "smod", OpUMod: "umod",
	OpFPAdd: "fadd", OpFPSub: "fsub", OpFPMul: "fmul", OpFPDiv: "fdiv",
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpSLL: "sll", OpSLR: "slr", OpSAR: "sar",
	OpL: "cmp.l", OpLE: "cmp.le", OpE: "cmp.e", OpNE: "cmp.ne",
	OpGE: "cmp.ge", OpG: "cmp.g", OpB: "cmp.b", OpBE: "cmp.be", OpA: "cmp.a", OpAE: "cmp.ae",
	OpFPL: "fcmp.l", OpFPLE: "fcmp.le", OpFPE: "fcmp.e", OpFPNE: "fcmp.ne",
	OpFPGE: "fcmp.ge", OpFPG: "fcmp.g",
	OpNeg: "neg", OpFPNeg: "fneg", OpLNot: "lnot", OpNot: "not",
	OpSXShort: "sx.short", OpSXInt: "sx.int", OpSXLong: "sx.long",
	OpZXShort: "zx.short", OpZXInt: "zx.int", OpZXLong: "zx.long",
	OpTruncByte: "trunc.byte", OpTruncShort: "trunc.short", OpTruncInt: "trunc.int",
	OpFToByte: "f2i.byte", OpFToShort: "f2i.short", OpFToInt: "f2i.int", OpFToLong: "f2i.long",
	OpUToFloat: "u2f", OpUToDouble: "u2d", OpSToFloat: "s2f", OpSToDouble: "s2d",
	OpFToFloat: "f2f", OpFToDouble: "f2d",
	OpJump: "jmp", OpJumpL: "jl", OpJumpLE: "jle", OpJumpE: "je", OpJumpNE: "jne",
	OpJumpGE: "jge", OpJumpG: "jg", OpJumpB: "jb", OpJumpBE: "jbe", OpJumpA: "ja", OpJumpAE: "jae",
	OpCall: "call", OpReturn: "ret",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return "invalid"
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandNone:
		return "-"
	case OperandTemp:
		return fmt.Sprintf("t%d", o.Temp)
	case OperandPhysReg:
		return fmt.Sprintf("r%d", o.Reg)
	case OperandIntConst:
		return fmt.Sprintf("%d", o.IntBits)
	case OperandGlobal:
		return o.Name
	case OperandAsm:
		return fmt.Sprintf("asm(%q)", o.Text)
	case OperandString:
		return fmt.Sprintf("%q", o.Text)
	case OperandWideString:
		return fmt.Sprintf("L%q", o.Text)
	case OperandStackOffset:
		return fmt.Sprintf("[fp%+d]", o.FrameOffset)
	default:
		return "?"
	}
}

func (k FragmentKind) String() string {
	switch k {
	case FragmentBSS:
		return "bss"
	case FragmentRodata:
		return "rodata"
	case FragmentData:
		return "data"
	case FragmentText:
		return "text"
	default:
		return "?"
	}
}

// Print writes out as a human-readable listing of every fragment vector,
// one section per output file, in Output's (unordered) map iteration —
// callers that need deterministic file ordering should sort the keys
// themselves before calling Print per file.
func Print(w io.Writer, out Output) error {
	for name, vec := range out {
		if _, err := fmt.Fprintf(w, "; %s\n", name); err != nil {
			return err
		}
		if err := PrintVector(w, vec); err != nil {
			return err
		}
	}
	return nil
}

// PrintVector writes one file's fragment vector.
func PrintVector(w io.Writer, vec Vector) error {
	for _, frag := range vec {
		header := fmt.Sprintf(".%s %s", frag.Kind, frag.Label)
		if frag.Kind == FragmentBSS {
			header += fmt.Sprintf(" size=%d align=%d", frag.Size, frag.Alignment)
		} else if frag.Kind == FragmentText {
			header += fmt.Sprintf(" locals=%d args=%d", frag.Frame.LocalsSize, frag.Frame.ArgsSize)
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		for _, e := range frag.Entries {
			line := formatEntry(e)
			if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatEntry(e Entry) string {
	switch e.Op {
	case OpLabel:
		return e.Dest.String() + ":"
	default:
	}
	parts := []string{e.Op.String()}
	if e.OpSize != 0 {
		parts[0] = fmt.Sprintf("%s.%d", e.Op, e.OpSize)
	}
	if e.Dest.IsSet() {
		parts = append(parts, e.Dest.String())
	}
	if e.Arg1.IsSet() {
		parts = append(parts, e.Arg1.String())
	}
	if e.Arg2.IsSet() {
		parts = append(parts, e.Arg2.String())
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}
