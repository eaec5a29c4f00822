package il

import (
	"strings"

	"github.com/Urethramancer/gadget/sleigh"
)

// OpKind is the compressed IL operation tag. Control-flow transfers keep
// distinct tags; everything the gadget search does not reason about
// collapses into OpUnimplemented.
type OpKind int

const (
	// OpUnimplemented covers CALLOTHER and every arithmetic, logic,
	// float and SSA helper opcode.
	OpUnimplemented OpKind = iota
	// OpCopy moves a value between operands.
	OpCopy
	// OpStore writes through a pointer.
	OpStore
	// OpLoad reads through a pointer.
	OpLoad
	// OpBranch is an unconditional direct branch.
	OpBranch
	// OpBranchCond is a conditional direct branch.
	OpBranchCond
	// OpBranchInd is an indirect branch.
	OpBranchInd
	// OpCall is a direct call.
	OpCall
	// OpCallInd is an indirect call.
	OpCallInd
	// OpReturn returns to a caller.
	OpReturn
	// OpNotSupported is reserved for spaces the pipeline refuses to
	// model. Nothing maps to it yet.
	OpNotSupported
)

var opKindNames = map[OpKind]string{
	OpUnimplemented: "unimplemented",
	OpCopy:          "copy",
	OpStore:         "store",
	OpLoad:          "load",
	OpBranch:        "branch",
	OpBranchCond:    "cbranch",
	OpBranchInd:     "branchind",
	OpCall:          "call",
	OpCallInd:       "callind",
	OpReturn:        "return",
	OpNotSupported:  "notsupported",
}

func (k OpKind) String() string {
	if s, ok := opKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// KindFromOpcode compresses a raw P-code opcode into its IL tag. Total over
// int32: unknown values land on OpUnimplemented.
func KindFromOpcode(opcode int32) OpKind {
	switch opcode {
	case sleigh.OpcodeCopy:
		return OpCopy
	case sleigh.OpcodeLoad:
		return OpLoad
	case sleigh.OpcodeStore:
		return OpStore
	case sleigh.OpcodeBranch:
		return OpBranch
	case sleigh.OpcodeCBranch:
		return OpBranchCond
	case sleigh.OpcodeBranchInd:
		return OpBranchInd
	case sleigh.OpcodeCall:
		return OpCall
	case sleigh.OpcodeCallInd:
		return OpCallInd
	case sleigh.OpcodeReturn:
		return OpReturn
	}
	return OpUnimplemented
}

// Op is one IL operation: a tag, its classified inputs, and an optional
// output. Branch, call and return tags carry their destination in the
// inputs; load and store carry a space tag constant first and the pointer
// second, straight from the decoder's emission order.
type Op struct {
	Kind   OpKind
	Inputs []VarRef
	Output *VarRef
}

// OpFromRaw converts one raw P-code op, classifying every operand through
// the register map.
func OpFromRaw(raw *sleigh.PcodeOp, regs *RegisterMap) (Op, error) {
	op := Op{Kind: KindFromOpcode(raw.Opcode)}
	if len(raw.Inputs) > 0 {
		op.Inputs = make([]VarRef, 0, len(raw.Inputs))
		for i := range raw.Inputs {
			ref, err := VarFromVarnode(&raw.Inputs[i], regs)
			if err != nil {
				return Op{}, err
			}
			op.Inputs = append(op.Inputs, ref)
		}
	}
	if raw.Output != nil {
		ref, err := VarFromVarnode(raw.Output, regs)
		if err != nil {
			return Op{}, err
		}
		op.Output = &ref
	}
	return op, nil
}

// ModifiesSP reports whether the op writes a register whose name contains
// "sp", matched without case so both RISC-V's sp and x86's RSP hit.
// Registers like spsr or sph false-positive; the decoder API gives no way
// to name the stack pointer directly.
func (o *Op) ModifiesSP(regs *RegisterMap) bool {
	if o.Output == nil || o.Output.Kind != VarRegister {
		return false
	}
	return strings.Contains(strings.ToLower(regs.At(o.Output.Reg).Name), "sp")
}
