package lifter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urethramancer/gadget/sleigh"
	"github.com/Urethramancer/gadget/target"
)

// fakeDecoder is an in-memory Decoder serving canned instructions.
type fakeDecoder struct {
	spec    string
	begun   bool
	context map[string]uint32
	staged  map[uint64][]byte
	table   []sleigh.Register
	insns   map[uint64]*sleigh.Insn
	userOps []string
	badCtx  map[string]bool
	closed  bool
}

func newFakeDecoder() *fakeDecoder {
	return &fakeDecoder{
		context: make(map[string]uint32),
		staged:  make(map[uint64][]byte),
		insns:   make(map[uint64]*sleigh.Insn),
		badCtx:  make(map[string]bool),
		table: []sleigh.Register{
			{Name: "sp", Varnode: sleigh.NewVarnode("register", 16, 8)},
			{Name: "ra", Varnode: sleigh.NewVarnode("register", 8, 8)},
		},
	}
}

func (d *fakeDecoder) LoadSpec(path string) error {
	if path == "" {
		return sleigh.ErrInvalidSpec
	}
	d.spec = path
	return nil
}

func (d *fakeDecoder) Begin() error {
	if d.spec == "" {
		return sleigh.ErrUninit
	}
	d.begun = true
	return nil
}

func (d *fakeDecoder) SetContextDefault(name string, value uint32) error {
	if !d.begun {
		return sleigh.ErrCallBeginFirst
	}
	if d.badCtx[name] {
		return sleigh.ErrBadContextVariable
	}
	d.context[name] = value
	return nil
}

func (d *fakeDecoder) LoadBytes(address uint64, data []byte) error {
	if !d.begun {
		return sleigh.ErrCallBeginFirst
	}
	d.staged[address] = data
	return nil
}

func (d *fakeDecoder) LiftAt(address uint64) (*sleigh.Insn, error) {
	if !d.begun {
		return nil, sleigh.ErrCallBeginFirst
	}
	insn, ok := d.insns[address]
	if !ok {
		return nil, sleigh.ErrUnableToLift
	}
	return insn, nil
}

func (d *fakeDecoder) Registers() ([]sleigh.Register, error) {
	if !d.begun {
		return nil, sleigh.ErrCallBeginFirst
	}
	return d.table, nil
}

func (d *fakeDecoder) UserOps() ([]string, error) {
	if !d.begun {
		return nil, sleigh.ErrCallBeginFirst
	}
	return d.userOps, nil
}

func (d *fakeDecoder) Close() {
	d.closed = true
}

func (d *fakeDecoder) addInsn(address, size uint64, mnemonic string, ops ...sleigh.PcodeOp) {
	d.insns[address] = &sleigh.Insn{
		Address:  address,
		Size:     size,
		Mnemonic: mnemonic,
		Ops:      ops,
	}
}

func simpleTarget(size int) *target.Target {
	t := target.FromRegions([]target.MemoryRegion{
		{Name: "image", Base: 0, Data: make([]byte, size)},
	})
	t.SetSpecPath("fake.sla")
	return t
}

func TestLoadTarget(t *testing.T) {
	dec := newFakeDecoder()
	rt := NewWithDecoder(dec)

	tgt := simpleTarget(0x10)
	tgt.SetBaseAddress(0x1000)
	tgt.SetContextPairs([]target.ContextPair{
		{Name: "addrsize", Value: 2},
		{Name: "big", Value: 0x1_0000_0001}, // truncates to 32 bits
	})

	require.NoError(t, rt.LoadTarget(tgt))
	assert.True(t, dec.begun)
	assert.Equal(t, uint32(2), dec.context["addrsize"])
	assert.Equal(t, uint32(1), dec.context["big"])
	// Regions are staged rebased.
	_, ok := dec.staged[0x1000]
	assert.True(t, ok)
	require.NotNil(t, rt.Registers())
	assert.Equal(t, 2, rt.Registers().Len())

	require.ErrorIs(t, rt.LoadTarget(tgt), ErrTargetPresent)
}

func TestLoadTargetBadContextIsSkipped(t *testing.T) {
	dec := newFakeDecoder()
	dec.badCtx["bogus"] = true
	rt := NewWithDecoder(dec)

	tgt := simpleTarget(0x10)
	tgt.SetContextPairs([]target.ContextPair{
		{Name: "bogus", Value: 1},
		{Name: "addrsize", Value: 2},
	})

	require.NoError(t, rt.LoadTarget(tgt))
	assert.Equal(t, uint32(2), dec.context["addrsize"])
	_, set := dec.context["bogus"]
	assert.False(t, set)
}

func TestLiftWithoutTarget(t *testing.T) {
	rt := NewWithDecoder(newFakeDecoder())
	_, err := rt.PerformLift()
	require.ErrorIs(t, err, ErrNoTarget)
}

func TestSparseLift(t *testing.T) {
	dec := newFakeDecoder()
	// Decodable at 0x0 (4 bytes), junk at 0x4..0x5, decodable at 0x6.
	dec.addInsn(0x0, 4, "insn0", sleigh.PcodeOp{Opcode: sleigh.OpcodeCopy})
	dec.addInsn(0x6, 2, "insn6", sleigh.PcodeOp{Opcode: sleigh.OpcodeReturn})

	rt := NewWithDecoder(dec)
	require.NoError(t, rt.LoadTarget(simpleTarget(8)))

	blocks, err := rt.PerformLift()
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, uint64(0x0), blocks[0].Address)
	assert.Equal(t, uint64(0x6), blocks[1].Address)
	assert.True(t, blocks[1].Summary.Ret)

	_, err = rt.PerformLift()
	require.ErrorIs(t, err, ErrAlreadyLifted)
}

func TestLiftSkipsUnliftableBlocks(t *testing.T) {
	dec := newFakeDecoder()
	// The op at 0x0 references a register the spec never declared, so
	// its block is dropped; the one at 0x4 survives.
	dec.addInsn(0x0, 4, "weird", sleigh.PcodeOp{
		Opcode: sleigh.OpcodeCopy,
		Inputs: []sleigh.Varnode{sleigh.NewVarnode("register", 4096, 8)},
	})
	dec.addInsn(0x4, 4, "good", sleigh.PcodeOp{Opcode: sleigh.OpcodeCopy})

	rt := NewWithDecoder(dec)
	require.NoError(t, rt.LoadTarget(simpleTarget(8)))

	blocks, err := rt.PerformLift()
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, uint64(0x4), blocks[0].Address)
}

func TestLiftAcrossRegionGap(t *testing.T) {
	dec := newFakeDecoder()
	dec.addInsn(0x0, 4, "low", sleigh.PcodeOp{Opcode: sleigh.OpcodeCopy})
	dec.addInsn(0x1000, 4, "high", sleigh.PcodeOp{Opcode: sleigh.OpcodeReturn})

	tgt := target.FromRegions([]target.MemoryRegion{
		{Name: "low", Base: 0x0, Data: make([]byte, 4)},
		{Name: "high", Base: 0x1000, Data: make([]byte, 4)},
	})
	tgt.SetSpecPath("fake.sla")

	rt := NewWithDecoder(dec)
	require.NoError(t, rt.LoadTarget(tgt))

	blocks, err := rt.PerformLift()
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, uint64(0x0), blocks[0].Address)
	assert.Equal(t, uint64(0x1000), blocks[1].Address)

	// Output order is strictly increasing.
	for i := 1; i < len(blocks); i++ {
		assert.Greater(t, blocks[i].Address, blocks[i-1].Address)
	}
}

func TestLiftHonoursAlignment(t *testing.T) {
	dec := newFakeDecoder()
	// With alignment 4 the junk at 0x0 is skipped straight to 0x4. An
	// instruction at 0x2 must never be reached.
	dec.addInsn(0x2, 2, "misaligned", sleigh.PcodeOp{Opcode: sleigh.OpcodeCopy})
	dec.addInsn(0x4, 4, "aligned", sleigh.PcodeOp{Opcode: sleigh.OpcodeCopy})

	tgt := simpleTarget(8)
	tgt.SetAlignment(4)

	rt := NewWithDecoder(dec)
	require.NoError(t, rt.LoadTarget(tgt))

	blocks, err := rt.PerformLift()
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, uint64(0x4), blocks[0].Address)
}

func TestUserOps(t *testing.T) {
	dec := newFakeDecoder()
	dec.userOps = []string{"syscall", "cpuid"}

	rt := NewWithDecoder(dec)
	_, err := rt.UserOps()
	require.ErrorIs(t, err, ErrNoTarget)

	require.NoError(t, rt.LoadTarget(simpleTarget(4)))
	ops, err := rt.UserOps()
	require.NoError(t, err)
	assert.Equal(t, []string{"syscall", "cpuid"}, ops)
}

func TestClose(t *testing.T) {
	dec := newFakeDecoder()
	rt := NewWithDecoder(dec)
	rt.Close()
	assert.True(t, dec.closed)
}
