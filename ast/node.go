package ast

import (
	"github.com/google/uuid"

	"go.pokelang.org/pk/pvm"
)

// SourceLocation names a half-open span of the original source buffer
// (spec.md §4.5).
type SourceLocation struct {
	File            string
	Line, Col       int
	EndLine, EndCol int
}

// Node is the tagged-variant AST node spec.md §4.5 describes: one Go type
// whose Code field selects which of the grammar's node kinds it
// represents, carrying every kind's fields side by side rather than as a
// hierarchy of node subtypes — the same flat-IR shape as the teacher's
// internal/tdp/compiler/ir.go (one `ir` struct holding `tField`/`pField`/
// `sField` slices rather than a tree of typed nodes).
//
// Per spec.md §9's explicit call to drop the original's node refcounting
// as a C-GC artifact ("a replaced node inherits the child's refcount"),
// node lifetime here is ordinary Go GC: a Node stays alive exactly as
// long as something still reaches it through Parent/FirstChild/Next or a
// held compiler result, whichever is relevant to the phase in progress.
type Node struct {
	ID   string // minted with google/uuid, unique across a compiler's lifetime
	Code Code
	Loc  SourceLocation

	// Type and Completeness are filled in by sema.Typify1/Typify2; they
	// are the zero value (pvm.Null, pvm.CompleteUnknown) until then.
	Type         pvm.Value
	Completeness pvm.Completeness

	// Compiled short-circuits repeated passes over an already-typed
	// subtree (spec.md §4.5: "a compiled marker used to short-circuit
	// repeated passes over already-typed subtrees"). Nothing in this
	// repository sets it.
	Compiled bool

	Parent     *Node
	FirstChild *Node
	Next       *Node // next sibling in the parent's chain

	// Name holds the identifier text for Identifier/Decl/StructField/Var/
	// Enumerator/FuncArg/StructTypeField nodes, and the method/field name
	// for StructRef.
	Name string

	// Op holds the operator token for Exp (binary/unary arithmetic,
	// relational, logical), AssStmt (=, +=, ...), and IncrDecr (++/--).
	Op string

	// Integer/String literal payload.
	IntVal  int64
	UintVal uint64
	Signed  bool
	IntSize int
	Base    int // display base the literal was written in: 2, 8, 10, or 16
	StrVal  string

	// Offset literal: magnitude is the sole child; Unit is the bits-per-
	// unit literal (spec.md §3.4/§4.5's offset node).
	Unit uint64

	// Index is an ArrayInitializer element's position, annotated by
	// sema.AnalF ("every array initializer carries an explicit index",
	// spec.md §4.8) so codegen never has to re-derive it from sibling
	// order.
	Index int
	// IndexSet reports whether Index has been annotated yet, since the
	// zero value is itself a valid index (element 0).
	IndexSet bool

	// Struct/array type annotations (spec.md §3.3).
	Union    bool // STRUCT: union-typed
	Pinned   bool // STRUCT: pinned (no implicit padding)
	Optional bool // StructTypeField/FuncArg: conditional field / vararg-adjacent optional
	Vararg   bool // FuncTypeArg/FuncArg: the (at most one, trailing) vararg parameter

	// HasEndian/Endian record an explicit endianness annotation on a
	// struct/array field (spec.md §4.8's anal2 "useless endianness
	// annotation" warning needs to tell "annotated" from "inherited").
	HasEndian bool
	Endian    pvm.Endian
}

// NewNode allocates a Node of the given code with a fresh id.
func NewNode(code Code, loc SourceLocation) *Node {
	return &Node{ID: uuid.NewString(), Code: code, Loc: loc, Type: pvm.Null}
}

// AppendChild links child as the last node in n's child chain.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	if n.FirstChild == nil {
		n.FirstChild = child
		return
	}
	last := n.FirstChild
	for last.Next != nil {
		last = last.Next
	}
	last.Next = child
}

// Children returns n's children as a slice, in chain order.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.Next {
		out = append(out, c)
	}
	return out
}

// Replace re-links child in place of old in n's child chain, the
// operation spec.md §4.7 calls "replace the current node (the parent's
// reference is updated)". old must be a direct child of n.
func (n *Node) Replace(old, with *Node) bool {
	with.Parent = n
	if n.FirstChild == old {
		with.Next = old.Next
		n.FirstChild = with
		return true
	}
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.Next == old {
			with.Next = old.Next
			c.Next = with
			return true
		}
	}
	return false
}
