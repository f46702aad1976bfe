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
	"github.com/samber/lo"

	"go.pokelang.org/pk/pvm"
)

// declPrefix marks the handful of bindings registerBuiltins installs,
// so DeclMap can exclude them from what a host considers "the user's
// own toplevel declarations" without tracking a separate set.
const declPrefix = "PKL_"

// DeclMap returns every user-visible toplevel binding (spec.md §4.10's
// pk_decl_map), filtering out the runtime-internal bootstrap bindings
// registerBuiltins installs — the same kind of filter-then-project the
// teacher pack's internal/tdp/compiler/ir.go builds with slices/cmp,
// done here with samber/lo (lo.Filter, lo.Map) per SPEC_FULL.md's
// Functional-helpers note.
func (c *Compiler) DeclMap() map[string]pvm.Value {
	c.assertOwner()
	names := c.VM.Env().Toplevel().Names()
	visible := lo.Filter(names, func(name string, _ int) bool {
		return len(name) < len(declPrefix) || name[:len(declPrefix)] != declPrefix
	})
	pairs := lo.Map(visible, func(name string, _ int) lo.Tuple2[string, pvm.Value] {
		val, _ := c.VM.Env().Lookup(name)
		return lo.Tuple2[string, pvm.Value]{A: name, B: val}
	})
	out := make(map[string]pvm.Value, len(pairs))
	for _, p := range pairs {
		out[p.A] = p.B
	}
	return out
}

// DeclP reports whether name is bound in the toplevel environment
// (pk_decl_p).
func (c *Compiler) DeclP(name string) bool {
	c.assertOwner()
	_, ok := c.VM.Env().Lookup(name)
	return ok
}

// DeclVal returns the value bound to name, if any (pk_decl_val).
func (c *Compiler) DeclVal(name string) (pvm.Value, bool) {
	c.assertOwner()
	return c.VM.Env().Lookup(name)
}

// DeclSetVal rebinds an existing toplevel declaration, reporting whether
// one existed (pk_decl_set_val). Unlike Defvar, it never creates a new
// binding.
func (c *Compiler) DeclSetVal(name string, val pvm.Value) bool {
	c.assertOwner()
	return c.VM.Env().Set(name, val)
}

// Defvar declares (or overwrites) a toplevel binding from the host side,
// the embedding API's way to inject a value before a CompileBuffer call
// that references it (pk_defvar).
func (c *Compiler) Defvar(name string, val pvm.Value) {
	c.assertOwner()
	c.defineGlobal(name, val)
}
