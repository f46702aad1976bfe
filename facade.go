// Copyright 2026 The Poke Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pk

import (
	"os"
	"path/filepath"

	"go.pokelang.org/pk/ast"
	"go.pokelang.org/pk/codegen"
	"go.pokelang.org/pk/parser"
	"go.pokelang.org/pk/pvm"
	"go.pokelang.org/pk/sema"
)

// Result is what every Compile* entry point returns: the evaluated
// value (Null for a pure declaration), any exception the evaluation
// itself raised, and — per Open Question 1 (SPEC_FULL.md) — a separate
// PrintError for a panic/raise that happens while rendering that value
// through term.Interface, which must never overwrite a successful
// exit_exception from the evaluation.
type Result struct {
	Value      pvm.Value
	Exception  *pvm.Exception
	PrintError error
}

func (c *Compiler) compileAndRun(root *ast.Node, parseErr error) (Result, error) {
	if parseErr != nil {
		return Result{}, parseErr
	}
	prog, err := c.pipeline(root)
	if err != nil {
		return Result{}, err
	}
	val, exc := c.VM.Run(prog, 0)
	res := Result{Value: val, Exception: exc}
	if exc == nil && c.Term != nil {
		res.PrintError = c.renderSafely(val)
	}
	return res, nil
}

// renderSafely prints val through Term, recovering a panic from the
// printer into PrintError rather than letting it escape CompileFile et
// al. and be confused with an evaluation exception.
func (c *Compiler) renderSafely(val pvm.Value) (printErr error) {
	defer func() {
		if r := recover(); r != nil {
			printErr = wrapf("print: %v", r)
		}
	}()
	c.Term.Puts(c.Ctx.Print(val))
	return nil
}

// pipeline runs root through sema then codegen, the same two steps
// codegen_test.go's own compile helper exercises directly against a
// hand-built AST.
func (c *Compiler) pipeline(root *ast.Node) (*pvm.Program, error) {
	payload := sema.NewPayloadWithTypes(c.Ctx, c.types, c.flags.ErrorOnWarning)
	analyzed := sema.Run(root, payload)
	if !payload.Ok() {
		return nil, wrapf("semantic analysis failed (%d error(s))", payload.Base.Errors)
	}
	prog, errs := codegen.Generate(analyzed, c.Ctx)
	if len(errs) > 0 {
		return nil, wrapf("code generation failed: %v", errs)
	}
	return prog, nil
}

// CompileFile reads path and compiles+runs it as a program (spec.md
// §4.10's pk_compile_file).
func (c *Compiler) CompileFile(path string) (Result, error) {
	c.assertOwner()
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, wrapf("%w", err)
	}
	diag := &parser.Collector{}
	root, _, err := parser.ParseProgram(string(src), diag)
	if err == nil && diag.HasErrors() {
		err = wrapf("%s: parse error: %s", path, diag.Diags[0].String())
	}
	return c.compileAndRun(root, err)
}

// CompileBuffer compiles+runs src as a whole program, the in-memory
// analog of CompileFile (spec.md §4.10's pk_compile_buffer).
func (c *Compiler) CompileBuffer(src string) (Result, error) {
	c.assertOwner()
	diag := &parser.Collector{}
	root, _, err := parser.ParseProgram(src, diag)
	if err == nil && diag.HasErrors() {
		err = wrapf("parse error: %s", diag.Diags[0].String())
	}
	return c.compileAndRun(root, err)
}

// CompileStatement compiles+runs a single statement (pk_compile_statement).
func (c *Compiler) CompileStatement(src string) (Result, error) {
	c.assertOwner()
	diag := &parser.Collector{}
	root, _, err := parser.ParseStatement(src, diag)
	if err == nil && diag.HasErrors() {
		err = wrapf("parse error: %s", diag.Diags[0].String())
	}
	return c.compileAndRun(root, err)
}

// CompileExpression compiles+evaluates a single expression
// (pk_compile_expression), the usual entry point for REPL-less "evaluate
// this one value" embedding.
func (c *Compiler) CompileExpression(src string) (Result, error) {
	c.assertOwner()
	diag := &parser.Collector{}
	root, _, err := parser.ParseExpression(src, diag)
	if err == nil && diag.HasErrors() {
		err = wrapf("parse error: %s", diag.Diags[0].String())
	}
	return c.compileAndRun(root, err)
}

// Load resolves name against the Compiler's load path and compiles the
// named module exactly once: subsequent loads of the same resolved path
// are no-ops (SPEC_FULL.md §4.10), and concurrent first loads of the
// same name collapse onto a single compile via singleflight, protecting
// the resolved-path cache from a torn double-insert. Load("pkl-rt") is
// special-cased as the standard-library bootstrap: SPEC_FULL.md's
// Non-goals exclude a real bundled .pk standard library, so it registers
// one builtin global, PKL_VERSION, instead of reading a file.
func (c *Compiler) Load(name string) (bool, error) {
	c.assertOwner()

	resolved, err := c.resolve(name)
	if err != nil {
		return false, err
	}
	if c.loaded[resolved] {
		return false, nil
	}

	_, err, _ = c.loadOnce.Do(resolved, func() (any, error) {
		if name == "pkl-rt" {
			c.registerBuiltins()
			return nil, nil
		}
		src, rerr := os.ReadFile(resolved)
		if rerr != nil {
			return nil, wrapf("load %q: %w", name, rerr)
		}
		diag := &parser.Collector{}
		root, _, perr := parser.ParseProgram(string(src), diag)
		if perr == nil && diag.HasErrors() {
			perr = wrapf("load %q: parse error: %s", name, diag.Diags[0].String())
		}
		if perr != nil {
			return nil, perr
		}
		prog, cerr := c.pipeline(root)
		if cerr != nil {
			return nil, cerr
		}
		_, exc := c.VM.Run(prog, 0)
		if exc != nil {
			return nil, wrapf("load %q: %s", name, exc.Error())
		}
		return nil, nil
	})
	if err != nil {
		return false, err
	}
	c.loaded[resolved] = true
	return true, nil
}

// resolve finds name on the load path, or treats it as already-resolved
// (the "pkl-rt" bootstrap pseudo-module, or an absolute/relative path).
func (c *Compiler) resolve(name string) (string, error) {
	if name == "pkl-rt" || filepath.IsAbs(name) {
		return name, nil
	}
	for _, dir := range c.loadPath {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return name, nil
}

// registerBuiltins installs the one builtin global, PKL_VERSION, that
// stands in for a real Poke runtime's standard library at toplevel.
func (c *Compiler) registerBuiltins() {
	c.defineGlobal("PKL_VERSION", c.Ctx.MakeString("poke-go/1.0"))
}

// defineGlobal binds name to val in both the VM's runtime environment
// and sema's compile-time type environment, so a later CompileStatement
// or CompileExpression call can both resolve and evaluate a reference
// to it.
func (c *Compiler) defineGlobal(name string, val pvm.Value) {
	c.VM.Env().Register(name, val)
	c.types.Register(name, c.Ctx.Typeof(val))
}

// Call invokes a closure value bound to name in the VM's toplevel
// environment with args already compiled to pvm.Value (spec.md §4.10's
// pk_call).
func (c *Compiler) Call(name string, args ...pvm.Value) (Result, error) {
	c.assertOwner()
	closureVal, ok := c.VM.Env().Lookup(name)
	if !ok {
		return Result{}, wrapf("no such binding %q", name)
	}
	if c.Ctx.ClosureOf(closureVal) == nil {
		return Result{}, wrapf("%q is not callable", name)
	}

	// Build a one-shot call stub in the OpCall calling convention codegen
	// itself emits (push args left-to-right, push closure, OpCall): the
	// same Assembler macro layer codegen_test.go drives directly, reused
	// here instead of inventing a second call path into the VM.
	stub := codegen.NewAssembler()
	for _, a := range args {
		stub.Push(a)
	}
	stub.Push(closureVal)
	stub.Emit(pvm.Instruction{Op: pvm.OpCall, Imm: pvm.MakeInt(int64(len(args)), 32)})
	stub.Emit(pvm.Instruction{Op: pvm.OpReturn})
	prog, err := stub.Finish()
	if err != nil {
		return Result{}, wrapf("%w", err)
	}

	val, exc := c.VM.Run(prog, 0)
	return Result{Value: val, Exception: exc}, nil
}

// DisassembleExpression compiles src as an expression and renders its
// bytecode without executing it (spec.md §4.10's pk_disassemble_expression).
func (c *Compiler) DisassembleExpression(src string) (string, error) {
	c.assertOwner()
	diag := &parser.Collector{}
	root, _, err := parser.ParseExpression(src, diag)
	if err == nil && diag.HasErrors() {
		err = wrapf("parse error: %s", diag.Diags[0].String())
	}
	if err != nil {
		return "", err
	}
	prog, err := c.pipeline(root)
	if err != nil {
		return "", err
	}
	return codegen.Disassemble(prog), nil
}

// DisassembleFunction resolves name to a closure in the toplevel
// environment and disassembles its captured program (pk_disassemble_function).
func (c *Compiler) DisassembleFunction(name string) (string, error) {
	c.assertOwner()
	closureVal, ok := c.VM.Env().Lookup(name)
	if !ok {
		return "", wrapf("no such binding %q", name)
	}
	closure := c.Ctx.ClosureOf(closureVal)
	if closure == nil {
		return "", wrapf("%q is not a function", name)
	}
	return codegen.Disassemble(closure.Program), nil
}
