package pvm

// Opcode is a single PVM instruction opcode (spec.md §4.6). The set below
// is organized the way the codegen package's assembler macros emit them:
// stack manipulation, arithmetic/relational, control flow, map/unmap, and
// exception handling.
type Opcode uint16

const (
	OpNop Opcode = iota

	// Stack manipulation.
	OpPush   // push an immediate Value (Instruction.Imm)
	OpPop    // discard TOS
	OpDup    // duplicate TOS
	OpSwap   // swap TOS and TOS-1
	OpRot    // rotate top three
	OpOver   // copy TOS-1 to TOS

	// Environment.
	OpPushFrame
	OpPopFrame
	OpRegVar // register TOS under Instruction.Name in the current frame
	OpPushVar
	OpSetVar

	// Arithmetic / relational, operating on boxed integral values.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpBAnd
	OpBOr
	OpBXor
	OpBNot
	OpShl
	OpShr
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
	OpNot

	// Composite construction / access.
	OpMkArray
	OpMkStruct
	OpArrayElem
	OpArraySet
	OpStructField
	OpStructSet
	OpSizeof

	// Control flow.
	OpJmp
	OpJmpFalse
	OpJmpTrue
	OpCall   // call closure TOS, Instruction.Imm = argument count
	OpReturn
	OpLabel // no-op target, present only so Disassemble can print labels

	// Mapping.
	OpMap
	OpUnmap
	OpPeek
	OpPoke
	OpReloc
	OpUreloc

	// Exceptions.
	OpRaise
	OpPushHandler // install a catch frame for Instruction.Exceptions, target Instruction.Target
	OpPopHandler
	OpTryUntil

	// Output.
	OpPrint
	OpFormat
)

var opcodeNames = map[Opcode]string{
	OpNop: "nop", OpPush: "push", OpPop: "pop", OpDup: "dup", OpSwap: "swap",
	OpRot: "rot", OpOver: "over", OpPushFrame: "push-frame", OpPopFrame: "pop-frame",
	OpRegVar: "regvar", OpPushVar: "pushvar", OpSetVar: "setvar",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpNeg: "neg", OpBAnd: "band", OpBOr: "bor", OpBXor: "bxor", OpBNot: "bnot",
	OpShl: "shl", OpShr: "shr", OpLt: "lt", OpGt: "gt", OpLe: "le", OpGe: "ge",
	OpEq: "eq", OpNe: "ne", OpNot: "not",
	OpMkArray: "mkarray", OpMkStruct: "mkstruct", OpArrayElem: "array-elem",
	OpArraySet: "array-set", OpStructField: "struct-field", OpStructSet: "struct-set",
	OpSizeof: "sizeof", OpJmp: "jmp", OpJmpFalse: "jmpf", OpJmpTrue: "jmpt",
	OpCall: "call", OpReturn: "return", OpLabel: "label",
	OpMap: "map", OpUnmap: "unmap", OpPeek: "peek", OpPoke: "poke",
	OpReloc: "reloc", OpUreloc: "ureloc", OpRaise: "raise",
	OpPushHandler: "push-handler", OpPopHandler: "pop-handler", OpTryUntil: "try-until",
	OpPrint: "print", OpFormat: "format",
}

// String returns the opcode's disassembly mnemonic, also used as the
// function name in pprofutil-built profiles.
func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return "unknown"
}

// Instruction is one decoded slot of a Program, the assembler's output unit
// (spec.md §4.9).
type Instruction struct {
	Op         Opcode
	Imm        Value
	Name       string
	Target     int // jump/call destination, an index into Program.Code
	Exceptions []int32
}
