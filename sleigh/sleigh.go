// Package sleigh wraps the external SLEIGH lifter library. The decoder is
// consumed through a small C ABI; everything it returns is copied into
// Go-owned values before a call returns, so no C pointers escape this
// package.
package sleigh

// SpaceNameLen is the fixed width of an address-space name in the decoder ABI.
const SpaceNameLen = 16

// RegisterNameLen is the fixed width of a register name in the decoder ABI.
const RegisterNameLen = 64

// Varnode identifies a single P-code operand by address-space name, offset
// and width in bytes.
type Varnode struct {
	Space  [SpaceNameLen]byte
	Offset uint64
	Size   uint64
}

// SpaceName returns the address-space name trimmed of trailing NULs.
func (v *Varnode) SpaceName() string {
	end := 0
	for end < len(v.Space) && v.Space[end] != 0 {
		end++
	}
	return string(v.Space[:end])
}

// NewVarnode builds a Varnode for the named space. Names longer than the
// ABI's fixed buffer are truncated.
func NewVarnode(space string, offset, size uint64) Varnode {
	var vn Varnode
	copy(vn.Space[:], space)
	vn.Offset = offset
	vn.Size = size
	return vn
}

// PcodeOp is one micro-operation of a decoded machine instruction.
type PcodeOp struct {
	Opcode int32
	// Output is nil when the op produces no result.
	Output *Varnode
	Inputs []Varnode
}

// Insn is one decoded machine instruction with its P-code expansion.
type Insn struct {
	Address  uint64
	Size     uint64
	Mnemonic string
	Body     string
	Ops      []PcodeOp
}

// Register is one entry of the decoder's register table.
type Register struct {
	Name    string
	Varnode Varnode
}

// Decoder is the lifter backend. The concrete implementation talks to the
// SLEIGH C library; tests substitute an in-memory fake.
//
// Call order is LoadSpec, Begin, then everything else. Begin before LoadSpec
// fails with ErrUninit; the other operations before Begin fail with
// ErrCallBeginFirst.
type Decoder interface {
	// LoadSpec loads a compiled .sla processor spec from disk.
	LoadSpec(path string) error
	// Begin finalises initialisation. Must follow LoadSpec.
	Begin() error
	// SetContextDefault sets a SLEIGH context variable for all addresses.
	SetContextDefault(name string, value uint32) error
	// LoadBytes stages a byte region inside the decoder's address space.
	LoadBytes(address uint64, data []byte) error
	// LiftAt decodes one instruction. Undecodable bytes fail with
	// ErrUnableToLift.
	LiftAt(address uint64) (*Insn, error)
	// Registers returns the register table declared by the loaded spec.
	Registers() ([]Register, error)
	// UserOps returns the names of the spec's user-defined operations.
	UserOps() ([]string, error)
	// Close releases the decoder.
	Close()
}
