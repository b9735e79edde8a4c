package vm

import "github.com/jenissimo/zarya/pkg/trit"

// StackEmpty reports whether SP < 0.
func (vm *VM) StackEmpty() bool {
	return vm.SP.Value < 0
}

// StackFull reports whether pushing one more value would run past the end
// of memory.
func (vm *VM) StackFull() bool {
	return vm.SP.Value+1 >= MemorySize
}

// Push places value on top of the stack. Fails with ErrStackOverflow if
// the stack has no room left.
func (vm *VM) Push(value trit.Tryte) error {
	if vm.StackFull() {
		return wrapErr(KindStackOverflow, ErrStackOverflow)
	}
	newSP := vm.SP.Value + 1
	vm.SP = trit.TryteFromInt(newSP)
	vm.Memory[vm.SP.Value] = value
	return nil
}

// Pop removes and returns the value on top of the stack. Fails with
// ErrStackUnderflow if the stack is empty.
func (vm *VM) Pop() (trit.Tryte, error) {
	if vm.StackEmpty() {
		return trit.Tryte{}, wrapErr(KindStackUnderflow, ErrStackUnderflow)
	}
	value := vm.Memory[vm.SP.Value]
	vm.SP = trit.TryteFromInt(vm.SP.Value - 1)
	return value, nil
}

// Dup pushes a copy of the top of the stack.
func (vm *VM) Dup() error {
	if vm.StackEmpty() {
		return wrapErr(KindStackUnderflow, ErrStackUnderflow)
	}
	if vm.StackFull() {
		return wrapErr(KindStackOverflow, ErrStackOverflow)
	}
	return vm.Push(vm.Memory[vm.SP.Value])
}

// Swap exchanges the top two values on the stack. Fails with
// ErrStackUnderflow if fewer than two values are present.
func (vm *VM) Swap() error {
	if vm.SP.Value < 1 {
		return wrapErr(KindStackUnderflow, ErrStackUnderflow)
	}
	top, second := vm.SP.Value, vm.SP.Value-1
	vm.Memory[top], vm.Memory[second] = vm.Memory[second], vm.Memory[top]
	return nil
}
