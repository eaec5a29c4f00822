//go:build cgo

package sleigh

/*
#cgo LDFLAGS: -lsleigh_ffi
#include <stdint.h>
#include <stdlib.h>

typedef struct VarnodeDesc {
	char space[16];
	uint64_t offset;
	uint64_t size;
} VarnodeDesc;

typedef struct PcodeOp {
	int32_t opcode;
	VarnodeDesc* output;
	uint64_t input_len;
	VarnodeDesc* inputs;
} PcodeOp;

typedef struct InsnDesc {
	uint64_t op_count;
	PcodeOp* ops;
	uint64_t size;
	uint64_t address;
	char* mnemonic;
	uint64_t mnemonic_len;
	char* body;
	uint64_t body_len;
} InsnDesc;

typedef struct RegisterDesc {
	char name[64];
	VarnodeDesc varnode;
} RegisterDesc;

typedef struct RegisterList {
	uint64_t count;
	RegisterDesc* items;
} RegisterList;

typedef struct UserOpList {
	uint64_t count;
	uint64_t* name_lens;
	char** names;
} UserOpList;

extern void* sleigh_new(void);
extern void sleigh_free(void* ctx);
extern int32_t sleigh_load_specfile(void* ctx, const char* path);
extern int32_t sleigh_begin(void* ctx);
extern int32_t sleigh_context_var_set_default(void* ctx, const char* name, uint32_t value);
extern int32_t sleigh_load_region(void* ctx, uint64_t address, const uint8_t* data, uint64_t len);
extern int32_t sleigh_lift_insn(void* ctx, uint64_t address, InsnDesc** out);
extern int32_t sleigh_next_insn(void* ctx, uint64_t address, InsnDesc** out);
extern int32_t sleigh_get_all_registers(void* ctx, RegisterList** out);
extern int32_t sleigh_get_user_ops(void* ctx, UserOpList** out);
*/
import "C"

import (
	"unsafe"

	"github.com/pkg/errors"
)

type decoderState int

const (
	stateCreated decoderState = iota
	stateSpecLoaded
	stateStarted
)

// libDecoder is the cgo-backed Decoder. The state machine is enforced on
// the Go side so misuse never crosses the FFI boundary.
type libDecoder struct {
	ctx   unsafe.Pointer
	state decoderState
}

// NewDecoder creates a decoder backed by the SLEIGH library.
func NewDecoder() (Decoder, error) {
	ctx := C.sleigh_new()
	if ctx == nil {
		return nil, errors.Wrap(ErrFail, "sleigh_new")
	}
	return &libDecoder{ctx: ctx}, nil
}

func (d *libDecoder) LoadSpec(path string) error {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	if err := errFromStatus(int32(C.sleigh_load_specfile(d.ctx, cpath))); err != nil {
		return errors.Wrapf(err, "loading spec %q", path)
	}
	d.state = stateSpecLoaded
	return nil
}

func (d *libDecoder) Begin() error {
	if d.state == stateCreated {
		return ErrUninit
	}
	if err := errFromStatus(int32(C.sleigh_begin(d.ctx))); err != nil {
		return err
	}
	d.state = stateStarted
	return nil
}

func (d *libDecoder) SetContextDefault(name string, value uint32) error {
	if d.state != stateStarted {
		return ErrCallBeginFirst
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	err := errFromStatus(int32(C.sleigh_context_var_set_default(d.ctx, cname, C.uint32_t(value))))
	return errors.Wrapf(err, "context variable %q", name)
}

func (d *libDecoder) LoadBytes(address uint64, data []byte) error {
	if d.state != stateStarted {
		return ErrCallBeginFirst
	}
	if len(data) == 0 {
		return nil
	}
	return errFromStatus(int32(C.sleigh_load_region(d.ctx,
		C.uint64_t(address),
		(*C.uint8_t)(unsafe.Pointer(&data[0])),
		C.uint64_t(len(data)))))
}

func (d *libDecoder) LiftAt(address uint64) (*Insn, error) {
	if d.state != stateStarted {
		return nil, ErrCallBeginFirst
	}
	var raw *C.InsnDesc
	if err := errFromStatus(int32(C.sleigh_lift_insn(d.ctx, C.uint64_t(address), &raw))); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrUnableToLift
	}
	// The InsnDesc is owned by the decoder and only valid until the next
	// call, so everything is copied out here.
	insn := &Insn{
		Address:  uint64(raw.address),
		Size:     uint64(raw.size),
		Mnemonic: C.GoStringN(raw.mnemonic, C.int(raw.mnemonic_len)),
		Body:     C.GoStringN(raw.body, C.int(raw.body_len)),
		Ops:      make([]PcodeOp, 0, uint64(raw.op_count)),
	}
	rawOps := unsafe.Slice(raw.ops, uint64(raw.op_count))
	for i := range rawOps {
		insn.Ops = append(insn.Ops, pcodeOpFromC(&rawOps[i]))
	}
	return insn, nil
}

func (d *libDecoder) Registers() ([]Register, error) {
	if d.state != stateStarted {
		return nil, ErrCallBeginFirst
	}
	var list *C.RegisterList
	if err := errFromStatus(int32(C.sleigh_get_all_registers(d.ctx, &list))); err != nil {
		return nil, err
	}
	if list == nil || list.count == 0 {
		return nil, nil
	}
	items := unsafe.Slice(list.items, uint64(list.count))
	regs := make([]Register, 0, len(items))
	for i := range items {
		var vn Varnode
		copy(vn.Space[:], C.GoBytes(unsafe.Pointer(&items[i].varnode.space[0]), C.int(SpaceNameLen)))
		vn.Offset = uint64(items[i].varnode.offset)
		vn.Size = uint64(items[i].varnode.size)
		regs = append(regs, Register{
			Name:    trimNul(C.GoBytes(unsafe.Pointer(&items[i].name[0]), C.int(RegisterNameLen))),
			Varnode: vn,
		})
	}
	return regs, nil
}

func (d *libDecoder) UserOps() ([]string, error) {
	if d.state != stateStarted {
		return nil, ErrCallBeginFirst
	}
	var list *C.UserOpList
	if err := errFromStatus(int32(C.sleigh_get_user_ops(d.ctx, &list))); err != nil {
		return nil, err
	}
	if list == nil || list.count == 0 {
		return nil, nil
	}
	lens := unsafe.Slice(list.name_lens, uint64(list.count))
	names := unsafe.Slice(list.names, uint64(list.count))
	out := make([]string, 0, uint64(list.count))
	for i := range names {
		out = append(out, C.GoStringN(names[i], C.int(lens[i])))
	}
	return out, nil
}

func (d *libDecoder) Close() {
	if d.ctx != nil {
		C.sleigh_free(d.ctx)
		d.ctx = nil
	}
}

// pcodeOpFromC deep-copies one raw op out of decoder-owned memory.
func pcodeOpFromC(raw *C.PcodeOp) PcodeOp {
	op := PcodeOp{Opcode: int32(raw.opcode)}
	if raw.output != nil {
		vn := varnodeFromC(raw.output)
		op.Output = &vn
	}
	if raw.input_len > 0 {
		inputs := unsafe.Slice(raw.inputs, uint64(raw.input_len))
		op.Inputs = make([]Varnode, 0, len(inputs))
		for i := range inputs {
			op.Inputs = append(op.Inputs, varnodeFromC(&inputs[i]))
		}
	}
	return op
}

func varnodeFromC(raw *C.VarnodeDesc) Varnode {
	var vn Varnode
	copy(vn.Space[:], C.GoBytes(unsafe.Pointer(&raw.space[0]), C.int(SpaceNameLen)))
	vn.Offset = uint64(raw.offset)
	vn.Size = uint64(raw.size)
	return vn
}

func trimNul(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
