// Package ast implements the Poke abstract syntax tree (spec.md §4.5): a
// single tagged-variant Node type, a source location record, and a
// generic tree-walker honoring the parent-child/sibling-chain shape the
// parser builds.
//
// Grounded on buf.build/go/hyperpb's internal/tdp/compiler/ir.go, whose
// `ir`/`tField`/`pField` structs are themselves one flat Go type carrying
// several analysis-phase-specific fields side by side rather than a
// hierarchy of node subtypes — the same flat-IR shape spec.md's own
// "tagged variant" wording calls for.
package ast

// Code identifies which of the node kinds in spec.md §4.5's grammar a
// Node represents.
type Code uint8

const (
	Program Code = iota
	Src
	Integer
	String
	Identifier
	Exp
	CondExp
	Array
	ArrayInitializer
	Trimmer
	Indexer
	Struct
	StructField
	StructRef
	Offset
	Cast
	Isa
	Map
	Cons
	Type
	StructTypeField
	Decl
	Funcall
	FuncallArg
	Func
	FuncArg
	FuncTypeArg
	CompStmt
	AssStmt
	IfStmt
	LoopStmt
	LoopStmtIterator
	BreakStmt
	ContinueStmt
	ReturnStmt
	ExpStmt
	TryCatchStmt
	TryUntilStmt
	RaiseStmt
	Format
	FormatArg
	PrintStmt
	Lambda
	IncrDecr
	NullStmt
	Enum
	Enumerator
	Var
)

var codeNames = map[Code]string{
	Program: "program", Src: "src", Integer: "integer", String: "string",
	Identifier: "identifier", Exp: "exp", CondExp: "cond-exp", Array: "array",
	ArrayInitializer: "array-initializer", Trimmer: "trimmer", Indexer: "indexer",
	Struct: "struct", StructField: "struct-field", StructRef: "struct-ref",
	Offset: "offset", Cast: "cast", Isa: "isa", Map: "map", Cons: "cons",
	Type: "type", StructTypeField: "struct-type-field", Decl: "decl",
	Funcall: "funcall", FuncallArg: "funcall-arg", Func: "func", FuncArg: "func-arg",
	FuncTypeArg: "func-type-arg", CompStmt: "comp-stmt", AssStmt: "ass-stmt",
	IfStmt: "if-stmt", LoopStmt: "loop-stmt", LoopStmtIterator: "loop-stmt-iterator",
	BreakStmt: "break-stmt", ContinueStmt: "continue-stmt", ReturnStmt: "return-stmt",
	ExpStmt: "exp-stmt", TryCatchStmt: "try-catch-stmt", TryUntilStmt: "try-until-stmt",
	RaiseStmt: "raise-stmt", Format: "format", FormatArg: "format-arg",
	PrintStmt: "print-stmt", Lambda: "lambda", IncrDecr: "incrdecr",
	NullStmt: "null-stmt", Enum: "enum", Enumerator: "enumerator", Var: "var",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "unknown"
}
