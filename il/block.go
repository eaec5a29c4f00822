package il

import (
	"github.com/Urethramancer/gadget/sleigh"
)

// Block is the lifted form of one machine instruction: its location, pretty
// text, IL ops and semantic summary.
type Block struct {
	// Address is the rebased address the instruction was decoded at.
	Address uint64
	// Size is the instruction length reported by the decoder.
	Size uint64
	// Text is "<mnemonic> <body>", or just the mnemonic when the body is
	// empty.
	Text string
	// Ops mirror the decoder's emission order.
	Ops []Op
	// Summary is computed once from Ops.
	Summary Summary
}

// BlockFromRaw lifts one decoded instruction into IL. Any operand that
// fails classification aborts the whole block with that operand's error.
func BlockFromRaw(raw *sleigh.Insn, regs *RegisterMap) (*Block, error) {
	b := &Block{
		Address: raw.Address,
		Size:    raw.Size,
		Text:    raw.Mnemonic,
	}
	if raw.Body != "" {
		b.Text += " " + raw.Body
	}
	b.Ops = make([]Op, 0, len(raw.Ops))
	for i := range raw.Ops {
		op, err := OpFromRaw(&raw.Ops[i], regs)
		if err != nil {
			return nil, err
		}
		b.Ops = append(b.Ops, op)
	}
	b.Summary = Summarise(b.Ops, regs)
	return b, nil
}

// EndsFlow reports whether the block terminates linear execution, which is
// what makes it a candidate gadget tail.
func (b *Block) EndsFlow() bool {
	return b.Summary.Ret || b.Summary.Jump || b.Summary.Call
}
