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

// Command pokec is a minimal batch front end for the pk compiler façade:
// `pokec run <file.pk>`, `pokec disasm <file.pk> <name>`, and
// `pokec decls <file.pk>`. It is not the excluded REPL (SPEC_FULL.md's
// Non-goals) — no readline, no history, no `.cmd` dispatcher — just
// CompileFile, DisassembleFunction, and DeclMap wired to a cobra.Command
// tree, the same shape as the teacher pack's own cobra-based main.go
// (ajroetker-goat's single root Command with PersistentFlags).
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	pk "go.pokelang.org/pk"
	"go.pokelang.org/pk/config"
	"go.pokelang.org/pk/internal/table"
	"go.pokelang.org/pk/ios"
	"go.pokelang.org/pk/term"
)

var (
	configPath string
	errOnWarn  bool
)

var rootCmd = &cobra.Command{
	Use:   "pokec",
	Short: "pokec is a batch front end for the poke compiler",
}

var runCmd = &cobra.Command{
	Use:   "run <file.pk>",
	Short: "compile and execute a .pk program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCompiler()
		if err != nil {
			return err
		}
		defer c.Free()

		res, err := c.CompileFile(args[0])
		if err != nil {
			return err
		}
		if res.Exception != nil {
			return fmt.Errorf("pokec: %s", res.Exception.Error())
		}
		if res.PrintError != nil {
			return fmt.Errorf("pokec: print: %w", res.PrintError)
		}
		return nil
	},
}

var disasmCmd = &cobra.Command{
	Use:   "disasm <file.pk> <name>",
	Short: "compile a .pk program and disassemble one of its functions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCompiler()
		if err != nil {
			return err
		}
		defer c.Free()

		if _, err := c.CompileFile(args[0]); err != nil {
			return err
		}
		listing, err := c.DisassembleFunction(args[1])
		if err != nil {
			return err
		}
		fmt.Println(listing)
		return nil
	},
}

var declsCmd = &cobra.Command{
	Use:   "decls <file.pk>",
	Short: "compile a .pk program and list its toplevel declarations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCompiler()
		if err != nil {
			return err
		}
		defer c.Free()

		if _, err := c.CompileFile(args[0]); err != nil {
			return err
		}

		decls := c.DeclMap()
		names := make([]string, 0, len(decls))
		for name := range decls {
			names = append(names, name)
		}
		sort.Strings(names)

		t := table.New("NAME", "VALUE")
		for _, name := range names {
			t.Row(name, c.Ctx.Print(decls[name]))
		}
		fmt.Print(t.String())
		return nil
	},
}

func newCompiler() (*pk.Compiler, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ErrorOnWarning = cfg.ErrorOnWarning || errOnWarn

	t := term.NewDefault(os.Stdout, int(os.Stdout.Fd()))
	c := pk.New(t, pk.Flags{ErrorOnWarning: cfg.ErrorOnWarning}, cfg)
	c.RegisterIOD(ios.MemIOD{})
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&errOnWarn, "error-on-warning", false, "promote semantic-analysis warnings to errors")
	rootCmd.AddCommand(runCmd, disasmCmd, declsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
