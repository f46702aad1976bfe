package pvm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.pokelang.org/pk/pvm"
)

func TestVMArithmetic(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	vm := pvm.NewVM(ctx)

	prog := pvm.NewProgram([]pvm.Instruction{
		{Op: pvm.OpPush, Imm: pvm.MakeInt(2, 32)},
		{Op: pvm.OpPush, Imm: pvm.MakeInt(3, 32)},
		{Op: pvm.OpAdd},
		{Op: pvm.OpReturn},
	}, nil, nil)

	result, exc := vm.Run(prog, 0)
	assert.Nil(t, exc)
	assert.Equal(t, int64(5), result.IntValue())
}

func TestVMDivByZeroRaises(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	vm := pvm.NewVM(ctx)

	prog := pvm.NewProgram([]pvm.Instruction{
		{Op: pvm.OpPush, Imm: pvm.MakeInt(1, 32)},
		{Op: pvm.OpPush, Imm: pvm.MakeInt(0, 32)},
		{Op: pvm.OpDiv},
		{Op: pvm.OpReturn},
	}, nil, nil)

	_, exc := vm.Run(prog, 0)
	if assert.NotNil(t, exc) {
		assert.Equal(t, pvm.EDivByZero, exc.Code)
	}
}

func TestVMVariables(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	vm := pvm.NewVM(ctx)

	prog := pvm.NewProgram([]pvm.Instruction{
		{Op: pvm.OpPush, Imm: pvm.MakeInt(42, 32)},
		{Op: pvm.OpRegVar, Name: "x"},
		{Op: pvm.OpPushVar, Name: "x"},
		{Op: pvm.OpReturn},
	}, nil, nil)

	result, exc := vm.Run(prog, 0)
	assert.Nil(t, exc)
	assert.Equal(t, int64(42), result.IntValue())
}

func TestVMTryCatchHandlesMatchingException(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	vm := pvm.NewVM(ctx)

	// try { 1 / 0 } catch { push 99 }; return
	prog := pvm.NewProgram([]pvm.Instruction{
		{Op: pvm.OpPushHandler, Exceptions: []int32{int32(pvm.EDivByZero)}, Target: 5},
		{Op: pvm.OpPush, Imm: pvm.MakeInt(1, 32)},
		{Op: pvm.OpPush, Imm: pvm.MakeInt(0, 32)},
		{Op: pvm.OpDiv},
		{Op: pvm.OpPopHandler},
		{Op: pvm.OpPush, Imm: pvm.MakeInt(99, 32)}, // handler target (index 5)
		{Op: pvm.OpReturn},
	}, nil, nil)

	result, exc := vm.Run(prog, 0)
	assert.Nil(t, exc)
	assert.Equal(t, int64(99), result.IntValue())
}

func TestVMTryCatchDoesNotCatchOtherCodes(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	vm := pvm.NewVM(ctx)

	prog := pvm.NewProgram([]pvm.Instruction{
		{Op: pvm.OpPushHandler, Exceptions: []int32{int32(pvm.EOutOfBounds)}, Target: 5},
		{Op: pvm.OpPush, Imm: pvm.MakeInt(1, 32)},
		{Op: pvm.OpPush, Imm: pvm.MakeInt(0, 32)},
		{Op: pvm.OpDiv},
		{Op: pvm.OpPopHandler},
		{Op: pvm.OpPush, Imm: pvm.MakeInt(99, 32)},
		{Op: pvm.OpReturn},
	}, nil, nil)

	_, exc := vm.Run(prog, 0)
	if assert.NotNil(t, exc) {
		assert.Equal(t, pvm.EDivByZero, exc.Code)
	}
}

type recordingPrinter struct{ lines []string }

func (p *recordingPrinter) Print(s string) { p.lines = append(p.lines, s) }

func TestVMPrint(t *testing.T) {
	t.Parallel()

	ctx := pvm.NewContext()
	vm := pvm.NewVM(ctx)
	out := &recordingPrinter{}
	vm.SetOutput(out)

	prog := pvm.NewProgram([]pvm.Instruction{
		{Op: pvm.OpPush, Imm: pvm.MakeInt(7, 32)},
		{Op: pvm.OpPrint},
	}, nil, nil)

	_, exc := vm.Run(prog, 0)
	assert.Nil(t, exc)
	assert.Equal(t, []string{"7"}, out.lines)
}
