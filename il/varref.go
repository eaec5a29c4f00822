package il

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Urethramancer/gadget/sleigh"
)

// ErrInvalidRegisterLookup means an operand referenced a register the
// loaded spec never declared. It indicates a spec/decoder mismatch, not bad
// input bytes.
var ErrInvalidRegisterLookup = errors.New("il: register lookup failed")

// VarKind classifies a P-code operand.
type VarKind int

const (
	// VarConstant is an immediate value.
	VarConstant VarKind = iota
	// VarRegister is a handle into the register map.
	VarRegister
	// VarMemory is an address in one of the memory-like spaces.
	VarMemory
	// VarUnique is a decoder-internal temporary slot.
	VarUnique
)

// VarRef is one classified operand. Immutable once constructed.
type VarRef struct {
	Kind VarKind
	// Value is the constant value, memory address or unique slot,
	// depending on Kind.
	Value uint64
	// Width is the operand width in bytes.
	Width uint64
	// Reg is a register map handle, valid only for VarRegister.
	Reg int
}

// VarFromVarnode classifies a raw varnode. Register operands are resolved
// through the map; a miss is a hard error. Unrecognised spaces (join, iop,
// fspec) fail with sleigh.ErrBadVarSpace rather than guessing an IL shape.
func VarFromVarnode(vn *sleigh.Varnode, regs *RegisterMap) (VarRef, error) {
	space := vn.SpaceName()
	switch space {
	case "const":
		return VarRef{Kind: VarConstant, Value: vn.Offset, Width: vn.Size}, nil
	case "register":
		handle, ok := regs.Lookup(vn.Offset, vn.Size)
		if !ok {
			return VarRef{}, errors.Wrapf(ErrInvalidRegisterLookup, "offset %d width %d", vn.Offset, vn.Size)
		}
		return VarRef{Kind: VarRegister, Reg: handle, Width: vn.Size}, nil
	case "unique":
		return VarRef{Kind: VarUnique, Value: vn.Offset, Width: vn.Size}, nil
	case "ram", "data", "code", "stack":
		return VarRef{Kind: VarMemory, Value: vn.Offset, Width: vn.Size}, nil
	}
	return VarRef{}, errors.Wrapf(sleigh.ErrBadVarSpace, "space %q", space)
}

// Text pretty-prints the reference: constants in decimal, memory in hex,
// temporaries as Unique{slot} and registers by name.
func (v *VarRef) Text(regs *RegisterMap) string {
	switch v.Kind {
	case VarConstant:
		return fmt.Sprintf("%d", v.Value)
	case VarRegister:
		return regs.At(v.Reg).Name
	case VarMemory:
		return fmt.Sprintf("0x%x", v.Value)
	case VarUnique:
		return fmt.Sprintf("Unique%d", v.Value)
	}
	return "?"
}
