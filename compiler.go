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

// Package pk is the root compiler façade (spec.md §4.10): the single
// opaque Compiler handle a host embeds, wrapping the parser/sema/codegen
// pipeline and the PVM executor behind CompileFile/CompileBuffer/
// CompileStatement/CompileExpression, Load, Call, and the disassembly
// and declaration-introspection helpers.
//
// Grounded on the teacher's own compiler handle (compiler.go's unexported
// `compiler` struct plus the exported entry points in compile.go): one
// struct bundling every piece of mutable compile state, constructed once
// by New and threaded through every subsequent call.
package pk

import (
	"fmt"

	"golang.org/x/sync/singleflight"

	"go.pokelang.org/pk/config"
	"go.pokelang.org/pk/internal/debug"
	"go.pokelang.org/pk/ios"
	"go.pokelang.org/pk/pvm"
	"go.pokelang.org/pk/term"
)

// Flags are the CompileFile/CompileBuffer/CompileStatement/
// CompileExpression options spec.md §4.10 lists: skip the standard-type
// bootstrap, promote warnings to errors.
type Flags struct {
	SkipStandardTypes bool
	ErrorOnWarning    bool
}

// OutputSettings holds the subset of §6's printer knobs a Compiler
// exposes accessors for: numeric base, max traversal depth, and whether
// byte offsets are rendered alongside values.
type OutputSettings struct {
	Base        int
	MaxDepth    int
	ShowOffsets bool
}

// Compiler is the opaque handle spec.md §4.10 describes: one Context,
// one VM, one IO registry, one module-load cache, bound to the
// goroutine that created it (§5's single-thread-per-handle rule).
type Compiler struct {
	Ctx  *pvm.Context
	VM   *pvm.VM
	Term term.Interface

	// types is sema's compile-time symbol table, kept alive across
	// separate CompileBuffer/CompileStatement/CompileExpression/Load
	// calls the way VM's own Environment is, so a later call can resolve
	// an identifier an earlier call declared.
	types *pvm.Environment

	flags  Flags
	output OutputSettings

	loadPath []string
	loaded   map[string]bool
	loadOnce singleflight.Group
}

// New constructs a Compiler. termIf may be nil, in which case VM output
// is discarded (pvm.VM's own default); cfg is either a zero
// config.Config (flags-only, matching the original
// `pk_compiler_new(term_if, flags)`) or one loaded via config.Load.
func New(termIf term.Interface, flags Flags, cfg config.Config) *Compiler {
	ctx := pvm.NewContext()
	vm := pvm.NewVM(ctx)
	if termIf != nil {
		vm.SetOutput(&termPrinter{termIf})
	}

	c := &Compiler{
		Ctx:   ctx,
		VM:    vm,
		Term:  termIf,
		types: pvm.NewEnvironment(),
		flags: Flags{
			SkipStandardTypes: flags.SkipStandardTypes || cfg.SkipStandardTypes,
			ErrorOnWarning:    flags.ErrorOnWarning || cfg.ErrorOnWarning,
		},
		output: OutputSettings{
			Base:        cfg.Output.Base,
			MaxDepth:    cfg.Output.MaxDepth,
			ShowOffsets: cfg.Output.ShowOffsets,
		},
		loadPath: append([]string(nil), cfg.LoadPath...),
		loaded:   map[string]bool{},
	}
	debug.Confine(c)

	if !c.flags.SkipStandardTypes {
		// "loading is modeled as a no-op Load('pkl-rt') that registers
		// one builtin global" (SPEC_FULL.md Non-goals); there is
		// no bundled .pk standard library to actually read from disk.
		_, _ = c.Load("pkl-rt")
	}
	return c
}

// Free releases the Compiler's resources. The VM and Context are plain
// garbage-collected Go values with nothing external to release, so this
// exists to match spec.md §4.10's pk_compiler_free and give a host a
// single place to flush Term before dropping the handle.
func (c *Compiler) Free() {
	c.assertOwner()
	if c.Term != nil {
		_ = c.Term.Flush()
	}
}

// termPrinter adapts a term.Interface to pvm.Printer.
type termPrinter struct{ t term.Interface }

func (p *termPrinter) Print(s string) { p.t.Puts(s) }

// Output-setting accessors (spec.md §6).

func (c *Compiler) OutputBase() int       { return c.output.Base }
func (c *Compiler) SetOutputBase(b int)   { c.output.Base = b }
func (c *Compiler) MaxDepth() int         { return c.output.MaxDepth }
func (c *Compiler) SetMaxDepth(d int)     { c.output.MaxDepth = d }
func (c *Compiler) ShowOffsets() bool     { return c.output.ShowOffsets }
func (c *Compiler) SetShowOffsets(b bool) { c.output.ShowOffsets = b }

// RegisterIOD installs iod as an available backing-store driver (§4.10),
// e.g. ios.MemIOD{} for the test-only in-memory device this
// implementation ships.
func (c *Compiler) RegisterIOD(iod ios.IOD) {
	c.assertOwner()
	c.Ctx.IOS.RegisterIOD(iod)
}

// assertOwner panics (in pkdebug builds) if called from a goroutine
// other than the one that constructed c, via the teacher pack's own
// goroutine-confinement check (internal/debug.Confine/AssertConfined).
func (c *Compiler) assertOwner() { debug.AssertConfined(c) }

func wrapf(format string, args ...any) error {
	return fmt.Errorf("pk: "+format, args...)
}
